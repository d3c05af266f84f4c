package smartreview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/smartreview/internal/database"
	"github.com/example/smartreview/pkg/models"
)

// setupService opens a fresh in-memory database and returns a service with a
// UTC clock, so timestamp comparisons in SQL stay unambiguous.
func setupService(t *testing.T) *Service {
	t.Helper()
	require.NoError(t, database.ConnectMemory())
	t.Cleanup(func() { database.Close() })

	s := New(DefaultConfig())
	s.now = func() time.Time { return time.Now().UTC() }
	return s
}

func seedUser(t *testing.T, email string) string {
	t.Helper()
	u := &models.User{Email: email, Name: "Test User"}
	require.NoError(t, database.NewUserRepository().Create(u))
	return u.ID
}

func seedSection(t *testing.T, userID, name string) string {
	t.Helper()
	s := &models.Section{UserID: userID, Name: name}
	require.NoError(t, database.NewSectionRepository().Create(s))
	return s.ID
}

// seedQuestion inserts a question with the given scheduling state. The id is
// explicit so tests control the stable sort tiebreak.
func seedQuestion(t *testing.T, id, userID, sectionID string, priority *int, dueDate int, pending bool) *models.Question {
	t.Helper()
	q := &models.Question{
		ID:        id,
		UserID:    userID,
		SectionID: sectionID,
		Question:  "prompt " + id,
		Answer:    "answer " + id,
		Priority:  priority,
		DueDate:   dueDate,
		IsPending: pending,
	}
	require.NoError(t, database.NewQuestionRepository().Create(q))
	return q
}

func getQuestion(t *testing.T, userID, id string) *models.Question {
	t.Helper()
	q, err := database.NewQuestionRepository().GetByID(userID, id)
	require.NoError(t, err)
	return q
}

func getProgress(t *testing.T, userID, sectionID string) *models.SectionProgress {
	t.Helper()
	p, err := database.NewProgressRepository().Get(userID, sectionID)
	require.NoError(t, err)
	return p
}

// setSessionDay moves a section clock directly, bypassing the monotonic guard
func setSessionDay(t *testing.T, userID, sectionID string, day int) {
	t.Helper()
	_, err := database.DB.Exec(
		"UPDATE section_progress SET current_session_day = $1 WHERE user_id = $2 AND section_id = $3",
		day, userID, sectionID,
	)
	require.NoError(t, err)
}

func intPtr(v int) *int {
	return &v
}
