package repository

import (
	"context"
	"errors"

	"vibella/internal/models"

	"gorm.io/gorm"
)

// HabitRepository defines persistence operations for daily habit rows.
type HabitRepository interface {
	Upsert(ctx context.Context, habit *models.Habit) error
	GetByUserDate(ctx context.Context, userID uint, date string) (*models.Habit, error)
	GetRange(ctx context.Context, userID uint, from, to string) ([]models.Habit, error)
}

type habitRepository struct {
	db *gorm.DB
}

// NewHabitRepository returns a new HabitRepository implementation.
func NewHabitRepository(db *gorm.DB) HabitRepository {
	return &habitRepository{db: db}
}

// Upsert writes the full metric record for (user, date). An existing row
// is overwritten wholesale; the values are not accumulated.
func (r *habitRepository) Upsert(ctx context.Context, habit *models.Habit) error {
	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO habits (user_id, date, sleep_hours, water_glasses, steps, meditation_minutes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())
		 ON CONFLICT (user_id, date) DO UPDATE SET
		   sleep_hours = EXCLUDED.sleep_hours,
		   water_glasses = EXCLUDED.water_glasses,
		   steps = EXCLUDED.steps,
		   meditation_minutes = EXCLUDED.meditation_minutes,
		   updated_at = NOW()`,
		habit.UserID, habit.Date, habit.SleepHours, habit.WaterGlasses, habit.Steps, habit.MeditationMinutes,
	).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *habitRepository) GetByUserDate(ctx context.Context, userID uint, date string) (*models.Habit, error) {
	var habit models.Habit
	err := readDB(r.db).WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&habit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &habit, nil
}

// GetRange returns the user's habit rows with from <= date <= to, oldest first.
func (r *habitRepository) GetRange(ctx context.Context, userID uint, from, to string) ([]models.Habit, error) {
	var habits []models.Habit
	err := readDB(r.db).WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date asc").
		Find(&habits).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return habits, nil
}
