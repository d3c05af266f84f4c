package database

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/smartreview/pkg/models"
)

func setupDB(t *testing.T) {
	t.Helper()
	require.NoError(t, ConnectMemory())
	t.Cleanup(func() { Close() })
}

func mustUser(t *testing.T, email string) string {
	t.Helper()
	u := &models.User{Email: email, Name: "Test User"}
	require.NoError(t, NewUserRepository().Create(u))
	return u.ID
}

func mustSection(t *testing.T, userID, name string) string {
	t.Helper()
	s := &models.Section{UserID: userID, Name: name}
	require.NoError(t, NewSectionRepository().Create(s))
	return s.ID
}

func mustQuestion(t *testing.T, id, userID, sectionID string, priority *int, dueDate int, pending bool) {
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
	require.NoError(t, NewQuestionRepository().Create(q))
}

func mustGet(t *testing.T, userID, id string) *models.Question {
	t.Helper()
	q, err := NewQuestionRepository().GetByID(userID, id)
	require.NoError(t, err)
	return q
}

func ptr(v int) *int {
	return &v
}
