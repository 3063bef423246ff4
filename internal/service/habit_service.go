package service

import (
	"context"
	"log/slog"
	"math"
	"time"

	"vibella/internal/middleware"
	"vibella/internal/models"
	"vibella/internal/observability"
	"vibella/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type HabitService struct {
	habitRepo  repository.HabitRepository
	challenges *ChallengeService
}

type SaveHabitsInput struct {
	UserID  uint
	Date    string
	Metrics models.HabitMetrics
}

func NewHabitService(habitRepo repository.HabitRepository, challenges *ChallengeService) *HabitService {
	return &HabitService{habitRepo: habitRepo, challenges: challenges}
}

// SaveHabits upserts the full metric record for one (user, date) pair and
// then pushes the new values into any active challenges the user joined.
// A propagation failure is logged but never rolls back the saved habits.
func (s *HabitService) SaveHabits(ctx context.Context, in SaveHabitsInput) (*models.Habit, error) {
	if _, err := time.Parse(models.HabitDateLayout, in.Date); err != nil {
		return nil, models.NewValidationError("Invalid date, expected YYYY-MM-DD")
	}
	if err := in.Metrics.Validate(); err != nil {
		return nil, err
	}

	habit := &models.Habit{
		UserID:            in.UserID,
		Date:              in.Date,
		SleepHours:        in.Metrics.SleepHours,
		WaterGlasses:      in.Metrics.WaterGlasses,
		Steps:             in.Metrics.Steps,
		MeditationMinutes: in.Metrics.MeditationMinutes,
	}
	if err := s.habitRepo.Upsert(ctx, habit); err != nil {
		return nil, err
	}
	observability.AddTraceAttributesToContext(ctx,
		attribute.Int("user.id", int(in.UserID)),
		attribute.String("habit.date", in.Date))

	if s.challenges != nil {
		if err := s.challenges.PropagateProgress(ctx, in.UserID, in.Date, in.Metrics); err != nil {
			middleware.Logger.WarnContext(ctx, "challenge progress propagation failed",
				slog.Any("user_id", in.UserID),
				slog.String("date", in.Date),
				slog.String("error", err.Error()))
		}
	}

	return s.habitRepo.GetByUserDate(ctx, in.UserID, in.Date)
}

// GetDay returns the habit record for one date, or nil when no record
// exists for that day.
func (s *HabitService) GetDay(ctx context.Context, userID uint, date string) (*models.Habit, error) {
	if _, err := time.Parse(models.HabitDateLayout, date); err != nil {
		return nil, models.NewValidationError("Invalid date, expected YYYY-MM-DD")
	}
	return s.habitRepo.GetByUserDate(ctx, userID, date)
}

// GetWeek returns the trailing seven days of habits ending at date,
// averaging each metric over the days that have data.
func (s *HabitService) GetWeek(ctx context.Context, userID uint, date string) (*models.WeekSummary, error) {
	end, err := time.Parse(models.HabitDateLayout, date)
	if err != nil {
		return nil, models.NewValidationError("Invalid date, expected YYYY-MM-DD")
	}
	from := end.AddDate(0, 0, -6).Format(models.HabitDateLayout)

	days, err := s.habitRepo.GetRange(ctx, userID, from, date)
	if err != nil {
		return nil, err
	}

	summary := &models.WeekSummary{Days: days}
	if len(days) == 0 {
		return summary, nil
	}

	var sleep float64
	var water, steps, meditation int
	for _, d := range days {
		sleep += d.SleepHours
		water += d.WaterGlasses
		steps += d.Steps
		meditation += d.MeditationMinutes
	}

	n := len(days)
	summary.AvgSleepHours = int(math.Round(sleep / float64(n)))
	summary.AvgWaterGlasses = roundDiv(water, n)
	summary.AvgSteps = roundDiv(steps, n)
	summary.AvgMeditationMinutes = roundDiv(meditation, n)
	return summary, nil
}

func roundDiv(total, n int) int {
	return int(math.Round(float64(total) / float64(n)))
}
