package repository

import (
	"context"

	"vibella/internal/models"

	"gorm.io/gorm"
)

// AchievementRepository defines read operations for achievement badges.
type AchievementRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]models.Achievement, error)
	Create(ctx context.Context, achievement *models.Achievement) error
}

type achievementRepository struct {
	db *gorm.DB
}

// NewAchievementRepository returns a new AchievementRepository implementation.
func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) ListByUser(ctx context.Context, userID uint) ([]models.Achievement, error) {
	var achievements []models.Achievement
	err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&achievements).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return achievements, nil
}

// Create exists for seeding; the API surface only reads achievements.
func (r *achievementRepository) Create(ctx context.Context, achievement *models.Achievement) error {
	if err := r.db.WithContext(ctx).Create(achievement).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
