package database

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Concurrent first requests for the same (user, section) pair must converge on
// a single progress row; the unique index plus ON CONFLICT DO NOTHING carries
// the race.
func TestGetOrCreateConcurrent(t *testing.T) {
	setupDB(t)
	userID := mustUser(t, "race@example.com")
	sectionID := mustSection(t, userID, "Race")
	repo := NewProgressRepository()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.GetOrCreate(userID, sectionID)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	var count int
	require.NoError(t, DB.Get(&count,
		DB.Rebind("SELECT COUNT(*) FROM section_progress WHERE user_id = ? AND section_id = ?"),
		userID, sectionID))
	assert.Equal(t, 1, count)

	progress, err := repo.Get(userID, sectionID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.CurrentSessionDay)
	assert.Equal(t, 0, progress.TotalSessions)
}

// The clock only moves forward: a jump to an earlier or equal day is a no-op
func TestJumpToDayMonotonic(t *testing.T) {
	setupDB(t)
	userID := mustUser(t, "mono@example.com")
	sectionID := mustSection(t, userID, "Mono")
	repo := NewProgressRepository()

	_, err := repo.GetOrCreate(userID, sectionID)
	require.NoError(t, err)

	require.NoError(t, repo.JumpToDay(userID, sectionID, 5))
	progress, err := repo.Get(userID, sectionID)
	require.NoError(t, err)
	assert.Equal(t, 5, progress.CurrentSessionDay)
	assert.Equal(t, 4, progress.TotalSessions) // credited 5 - 1

	require.NoError(t, repo.JumpToDay(userID, sectionID, 3))
	require.NoError(t, repo.JumpToDay(userID, sectionID, 5))
	progress, err = repo.Get(userID, sectionID)
	require.NoError(t, err)
	assert.Equal(t, 5, progress.CurrentSessionDay)
	assert.Equal(t, 4, progress.TotalSessions)
}

func TestAdvanceOneDayGuard(t *testing.T) {
	setupDB(t)
	userID := mustUser(t, "guard@example.com")
	sectionID := mustSection(t, userID, "Guard")
	repo := NewProgressRepository()

	_, err := repo.GetOrCreate(userID, sectionID)
	require.NoError(t, err)

	now := time.Now().UTC()
	advanced, err := repo.AdvanceOneDay(userID, sectionID, now)
	require.NoError(t, err)
	assert.True(t, advanced)

	// second advancement in the same session is blocked by the guard
	advanced, err = repo.AdvanceOneDay(userID, sectionID, now)
	require.NoError(t, err)
	assert.False(t, advanced)

	progress, err := repo.Get(userID, sectionID)
	require.NoError(t, err)
	assert.Equal(t, 2, progress.CurrentSessionDay)
	assert.Equal(t, 1, progress.TotalSessions)
	assert.True(t, progress.AlreadyAdvancedThisSession)

	// the day-boundary sweep re-arms the guard
	count, err := repo.ResetDayFlags(userID, []string{sectionID}, now.Add(time.Hour), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	advanced, err = repo.AdvanceOneDay(userID, sectionID, now)
	require.NoError(t, err)
	assert.True(t, advanced)
}

// The sweep only touches rows whose last session predates the day start
func TestResetDayFlagsSkipsCurrentSessions(t *testing.T) {
	setupDB(t)
	userID := mustUser(t, "sweep@example.com")
	sectionID := mustSection(t, userID, "Sweep")
	repo := NewProgressRepository()

	_, err := repo.GetOrCreate(userID, sectionID)
	require.NoError(t, err)

	now := time.Now().UTC()
	// first sweep stamps last_session_date = now
	_, err = repo.ResetDayFlags(userID, []string{sectionID}, now.Add(time.Hour), now)
	require.NoError(t, err)

	// a sweep with a day start before the stamp must not match
	count, err := repo.ResetDayFlags(userID, []string{sectionID}, now.Add(-time.Hour), now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
