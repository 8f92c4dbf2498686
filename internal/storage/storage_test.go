package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuchialin/vocab-trainer/internal/scheduler"
)

func openTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "vocab.db"))
	require.NoError(t, err, "Open should succeed on a fresh database")
	t.Cleanup(func() { s.Close() })
	return s
}

func newSchedule(due time.Time) scheduler.CardState {
	return scheduler.CardState{
		Phase:        scheduler.PhaseLearning,
		Step:         1,
		IntervalDays: 1,
		Easiness:     scheduler.DefaultEasiness,
		Due:          due,
	}
}

func TestCreateAndGetWord(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()
	due := time.Date(2024, 3, 1, 9, 1, 0, 0, time.UTC)

	created, err := s.CreateWord(ctx, "ubiquitous", "adjective", "present everywhere", "無所不在", newSchedule(due))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := s.GetWord(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ubiquitous", got.Word)
	assert.Equal(t, "adjective", got.POS)
	assert.Equal(t, "present everywhere", got.Meaning)
	assert.Equal(t, "無所不在", got.Chinese)
	assert.Equal(t, scheduler.PhaseLearning, got.Schedule.Phase)
	assert.Equal(t, 1, got.Schedule.Step)
	assert.Equal(t, scheduler.DefaultEasiness, got.Schedule.Easiness)
	assert.True(t, got.Schedule.Due.Equal(due), "due should round-trip, got %v", got.Schedule.Due)
}

func TestCreateDuplicateWord(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()
	due := time.Now().UTC()

	_, err := s.CreateWord(ctx, "tariff", "noun", "a tax on imports", "", newSchedule(due))
	require.NoError(t, err)

	_, err = s.CreateWord(ctx, "tariff", "noun", "a duty", "", newSchedule(due))
	assert.ErrorIs(t, err, ErrWordExists)
}

func TestGetWordNotFound(t *testing.T) {
	s := openTestStorage(t)
	_, err := s.GetWord(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrWordNotFound)
}

func TestUpdateWordSelective(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	created, err := s.CreateWord(ctx, "lease", "noun", "rental contract", "", newSchedule(time.Now().UTC()))
	require.NoError(t, err)

	meaning := "a contract granting use of property"
	updated, err := s.UpdateWord(ctx, created.ID, nil, &meaning, nil)
	require.NoError(t, err)
	assert.Equal(t, meaning, updated.Meaning)
	assert.Equal(t, "noun", updated.POS, "nil pointer should leave POS unchanged")

	got, err := s.GetWord(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, meaning, got.Meaning)
}

func TestUpdateScheduleRoundTrip(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	created, err := s.CreateWord(ctx, "negotiate", "verb", "discuss to reach agreement", "", newSchedule(time.Now().UTC()))
	require.NoError(t, err)

	reviewed := scheduler.CardState{
		Phase:        scheduler.PhaseReviewing,
		Repetitions:  3,
		IntervalDays: 15,
		Easiness:     2.7,
		Due:          time.Date(2024, 3, 16, 9, 0, 0, 123456789, time.UTC),
	}
	require.NoError(t, s.UpdateSchedule(ctx, created.ID, reviewed))

	got, err := s.GetWord(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, scheduler.PhaseReviewing, got.Schedule.Phase)
	assert.Equal(t, 3, got.Schedule.Repetitions)
	assert.Equal(t, 15, got.Schedule.IntervalDays)
	assert.InDelta(t, 2.7, got.Schedule.Easiness, 1e-9)
	assert.True(t, got.Schedule.Due.Equal(reviewed.Due), "due should round-trip with nanoseconds")
}

func TestUpdateScheduleNotFound(t *testing.T) {
	s := openTestStorage(t)
	err := s.UpdateSchedule(context.Background(), "no-such-id", newSchedule(time.Now().UTC()))
	assert.ErrorIs(t, err, ErrWordNotFound)
}

func TestDeleteWord(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	created, err := s.CreateWord(ctx, "invoice", "noun", "a bill", "", newSchedule(time.Now().UTC()))
	require.NoError(t, err)

	require.NoError(t, s.DeleteWord(ctx, created.ID))
	_, err = s.GetWord(ctx, created.ID)
	assert.ErrorIs(t, err, ErrWordNotFound)

	assert.ErrorIs(t, s.DeleteWord(ctx, created.ID), ErrWordNotFound)
}

func TestListDueOrdering(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// Due in the past, at now, and in the future.
	_, err := s.CreateWord(ctx, "later", "", "due soonest", "", newSchedule(now.Add(-time.Hour)))
	require.NoError(t, err)
	_, err = s.CreateWord(ctx, "borderline", "", "due exactly now", "", newSchedule(now))
	require.NoError(t, err)
	_, err = s.CreateWord(ctx, "future", "", "not due", "", newSchedule(now.Add(time.Minute)))
	require.NoError(t, err)

	due, err := s.ListDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 2, "due-at-now counts as due, future does not")
	assert.Equal(t, "later", due[0].Word, "soonest due first")
	assert.Equal(t, "borderline", due[1].Word)
}

func TestListWordsAlphabetical(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()
	due := time.Now().UTC()

	for _, w := range []string{"zeal", "audit", "merge"} {
		_, err := s.CreateWord(ctx, w, "", "m", "", newSchedule(due))
		require.NoError(t, err)
	}

	words, err := s.ListWords(ctx)
	require.NoError(t, err)
	require.Len(t, words, 3)
	assert.Equal(t, "audit", words[0].Word)
	assert.Equal(t, "merge", words[1].Word)
	assert.Equal(t, "zeal", words[2].Word)
}

func TestStats(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	empty, err := s.Stats(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, empty)

	_, err = s.CreateWord(ctx, "alpha", "", "m", "", newSchedule(now.Add(-time.Minute)))
	require.NoError(t, err)

	beta, err := s.CreateWord(ctx, "beta", "", "m", "", newSchedule(now.Add(-time.Minute)))
	require.NoError(t, err)
	require.NoError(t, s.UpdateSchedule(ctx, beta.ID, scheduler.CardState{
		Phase: scheduler.PhaseReviewing, Repetitions: 2, IntervalDays: 6,
		Easiness: 2.6, Due: now.Add(time.Hour),
	}))

	gamma, err := s.CreateWord(ctx, "gamma", "", "m", "", newSchedule(now.Add(-time.Minute)))
	require.NoError(t, err)
	require.NoError(t, s.UpdateSchedule(ctx, gamma.ID, scheduler.CardState{
		Phase: scheduler.PhaseReviewing, Repetitions: 1, IntervalDays: 1,
		Easiness: 2.4, Due: now.Add(-time.Second),
	}))

	st, err := s.Stats(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 1, st.Learning)
	assert.Equal(t, 2, st.Graduated)
	assert.Equal(t, 2, st.DueNow)
	assert.InDelta(t, 2.5, st.AvgEasiness, 1e-9)
}
