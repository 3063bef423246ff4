package repository

import (
	"context"
	"errors"

	"vibella/internal/cache"
	"vibella/internal/models"

	"gorm.io/gorm"
)

// ExpertContentRepository defines persistence operations for expert
// articles and videos.
type ExpertContentRepository interface {
	Create(ctx context.Context, content *models.ExpertContent) error
	GetByID(ctx context.Context, id uint) (*models.ExpertContent, error)
	List(ctx context.Context, contentType string, limit, offset int) ([]models.ExpertContent, error)
	IncrementViews(ctx context.Context, id uint) error
}

type expertContentRepository struct {
	db *gorm.DB
}

// NewExpertContentRepository returns a new ExpertContentRepository implementation.
func NewExpertContentRepository(db *gorm.DB) ExpertContentRepository {
	return &expertContentRepository{db: db}
}

func (r *expertContentRepository) Create(ctx context.Context, content *models.ExpertContent) error {
	if err := r.db.WithContext(ctx).Create(content).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *expertContentRepository) GetByID(ctx context.Context, id uint) (*models.ExpertContent, error) {
	var content models.ExpertContent
	err := cache.Aside(ctx, cache.ExpertKey(id), &content, cache.ExpertTTL, func() error {
		return readDB(r.db).WithContext(ctx).
			Preload("Author").
			First(&content, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Content", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &content, nil
}

func (r *expertContentRepository) List(ctx context.Context, contentType string, limit, offset int) ([]models.ExpertContent, error) {
	var contents []models.ExpertContent
	db := readDB(r.db).WithContext(ctx).Preload("Author")
	if contentType != "" {
		db = db.Where("content_type = ?", contentType)
	}
	err := db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&contents).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return contents, nil
}

// IncrementViews bumps the view counter. The counter is advisory, so the
// cached copy is simply dropped rather than rewritten.
func (r *expertContentRepository) IncrementViews(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.ExpertContent{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.ExpertKey(id))
	return nil
}
