package service

import (
	"context"
	"errors"
	"testing"

	"vibella/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// habitRepoStub is a stub for repository.HabitRepository.
type habitRepoStub struct {
	upsertFn        func(context.Context, *models.Habit) error
	getByUserDateFn func(context.Context, uint, string) (*models.Habit, error)
	getRangeFn      func(context.Context, uint, string, string) ([]models.Habit, error)
}

func (s *habitRepoStub) Upsert(ctx context.Context, habit *models.Habit) error {
	return s.upsertFn(ctx, habit)
}
func (s *habitRepoStub) GetByUserDate(ctx context.Context, userID uint, date string) (*models.Habit, error) {
	return s.getByUserDateFn(ctx, userID, date)
}
func (s *habitRepoStub) GetRange(ctx context.Context, userID uint, from, to string) ([]models.Habit, error) {
	return s.getRangeFn(ctx, userID, from, to)
}

func noopHabitRepo() *habitRepoStub {
	return &habitRepoStub{
		upsertFn: func(_ context.Context, _ *models.Habit) error { return nil },
		getByUserDateFn: func(_ context.Context, userID uint, date string) (*models.Habit, error) {
			return &models.Habit{UserID: userID, Date: date}, nil
		},
		getRangeFn: func(_ context.Context, _ uint, _, _ string) ([]models.Habit, error) {
			return nil, nil
		},
	}
}

func TestHabitService_SaveHabits_Validation(t *testing.T) {
	t.Parallel()

	svc := NewHabitService(noopHabitRepo(), nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		input SaveHabitsInput
	}{
		{
			name:  "bad date format",
			input: SaveHabitsInput{UserID: 1, Date: "02-09-2026"},
		},
		{
			name:  "not a date",
			input: SaveHabitsInput{UserID: 1, Date: "yesterday"},
		},
		{
			name: "negative sleep",
			input: SaveHabitsInput{UserID: 1, Date: "2026-09-02",
				Metrics: models.HabitMetrics{SleepHours: -1}},
		},
		{
			name: "negative steps",
			input: SaveHabitsInput{UserID: 1, Date: "2026-09-02",
				Metrics: models.HabitMetrics{Steps: -100}},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.SaveHabits(ctx, tc.input)
			assertValidationError(t, err)
		})
	}
}

func TestHabitService_SaveHabits_OverwritesWholeRecord(t *testing.T) {
	t.Parallel()

	var upserted *models.Habit
	repo := noopHabitRepo()
	repo.upsertFn = func(_ context.Context, habit *models.Habit) error {
		upserted = habit
		return nil
	}

	svc := NewHabitService(repo, nil)
	_, err := svc.SaveHabits(context.Background(), SaveHabitsInput{
		UserID: 4,
		Date:   "2026-09-02",
		Metrics: models.HabitMetrics{
			SleepHours:        7.5,
			WaterGlasses:      6,
			Steps:             9000,
			MeditationMinutes: 0,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, upserted)

	// All four metrics land in a single record, zeros included.
	assert.Equal(t, uint(4), upserted.UserID)
	assert.Equal(t, "2026-09-02", upserted.Date)
	assert.Equal(t, 7.5, upserted.SleepHours)
	assert.Equal(t, 6, upserted.WaterGlasses)
	assert.Equal(t, 9000, upserted.Steps)
	assert.Equal(t, 0, upserted.MeditationMinutes)
}

func TestHabitService_SaveHabits_PropagationFailureDoesNotRollBack(t *testing.T) {
	t.Parallel()

	repo := noopHabitRepo()
	cr := noopChallengeRepo()
	cr.listActiveByGoalTypeFn = func(_ context.Context, _, _ string) ([]models.Challenge, error) {
		return nil, errors.New("challenge query failed")
	}

	svc := NewHabitService(repo, NewChallengeService(cr, nil))
	habit, err := svc.SaveHabits(context.Background(), SaveHabitsInput{
		UserID:  1,
		Date:    "2026-09-02",
		Metrics: models.HabitMetrics{SleepHours: 8},
	})
	require.NoError(t, err)
	assert.NotNil(t, habit)
}

func TestHabitService_GetDay(t *testing.T) {
	t.Parallel()

	t.Run("bad date", func(t *testing.T) {
		t.Parallel()
		svc := NewHabitService(noopHabitRepo(), nil)
		_, err := svc.GetDay(context.Background(), 1, "nope")
		assertValidationError(t, err)
	})

	t.Run("missing record returns nil without error", func(t *testing.T) {
		t.Parallel()
		repo := noopHabitRepo()
		repo.getByUserDateFn = func(_ context.Context, _ uint, _ string) (*models.Habit, error) {
			return nil, nil
		}
		svc := NewHabitService(repo, nil)
		habit, err := svc.GetDay(context.Background(), 1, "2026-09-02")
		require.NoError(t, err)
		assert.Nil(t, habit)
	})
}

func TestHabitService_GetWeek_Averages(t *testing.T) {
	t.Parallel()

	var gotFrom, gotTo string
	repo := noopHabitRepo()
	repo.getRangeFn = func(_ context.Context, _ uint, from, to string) ([]models.Habit, error) {
		gotFrom, gotTo = from, to
		return []models.Habit{
			{Date: "2026-09-01", SleepHours: 7, WaterGlasses: 5, Steps: 8000, MeditationMinutes: 10},
			{Date: "2026-09-02", SleepHours: 8, WaterGlasses: 8, Steps: 11000, MeditationMinutes: 15},
		}, nil
	}

	svc := NewHabitService(repo, nil)
	summary, err := svc.GetWeek(context.Background(), 1, "2026-09-02")
	require.NoError(t, err)

	assert.Equal(t, "2026-08-27", gotFrom)
	assert.Equal(t, "2026-09-02", gotTo)

	// Averages run over recorded days only, rounded to nearest int.
	assert.Len(t, summary.Days, 2)
	assert.Equal(t, 8, summary.AvgSleepHours)
	assert.Equal(t, 7, summary.AvgWaterGlasses)
	assert.Equal(t, 9500, summary.AvgSteps)
	assert.Equal(t, 13, summary.AvgMeditationMinutes)
}

func TestHabitService_GetWeek_NoData(t *testing.T) {
	t.Parallel()

	svc := NewHabitService(noopHabitRepo(), nil)
	summary, err := svc.GetWeek(context.Background(), 1, "2026-09-02")
	require.NoError(t, err)
	assert.Empty(t, summary.Days)
	assert.Zero(t, summary.AvgSteps)
	assert.Zero(t, summary.AvgSleepHours)
}
