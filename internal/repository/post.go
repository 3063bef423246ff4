package repository

import (
	"context"
	"errors"

	"vibella/internal/cache"
	"vibella/internal/models"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	List(ctx context.Context, limit, offset int, currentUserID uint, topic string) ([]*models.Post, error)
	Delete(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error
	RecountLikes(ctx context.Context, postID uint) error
	RecountComments(ctx context.Context, postID uint) error
	CountForUserSince(ctx context.Context, userID uint, since string) (posts, likes, comments int, err error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// applyLiked adds a subquery computing whether the current user liked each post.
// Counters are read from the persisted columns, which mutations keep fresh.
func (r *postRepository) applyLiked(db *gorm.DB, currentUserID uint) *gorm.DB {
	if currentUserID != 0 {
		return db.Select("posts.*, EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked", currentUserID)
	}
	return db.Select("posts.*, false as liked")
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post

	var err error
	if currentUserID == 0 {
		// Anonymous reads share a cache entry; liked is always false for them.
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
			return r.applyLiked(readDB(r.db).WithContext(ctx), 0).
				Preload("User").
				First(&post, id).Error
		})
	} else {
		err = r.applyLiked(readDB(r.db).WithContext(ctx), currentUserID).
			Preload("User").
			First(&post, id).Error
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyLiked(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int, currentUserID uint, topic string) ([]*models.Post, error) {
	var posts []*models.Post
	db := r.applyLiked(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("User")
	if topic != "" {
		db = db.Where("topics @> ?", pq.StringArray{topic})
	}
	err := db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) Like(ctx context.Context, userID, postID uint) error {
	// INSERT ... ON CONFLICT DO NOTHING makes a double-tap idempotent.
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, post_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (post_id, user_id) DO NOTHING`,
		userID, postID,
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) error {
	// Hard delete the like record (not soft delete)
	err := r.db.WithContext(ctx).Unscoped().Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

// RecountLikes recomputes the denormalized like counter from the likes
// table and writes it back. Always a full recount, never an increment.
func (r *postRepository) RecountLikes(ctx context.Context, postID uint) error {
	err := r.db.WithContext(ctx).Exec(
		`UPDATE posts SET likes_count =
		 (SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id)
		 WHERE id = ?`,
		postID,
	).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

// RecountComments recomputes the denormalized comment counter, ignoring
// soft-deleted comments.
func (r *postRepository) RecountComments(ctx context.Context, postID uint) error {
	err := r.db.WithContext(ctx).Exec(
		`UPDATE posts SET comments_count =
		 (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL)
		 WHERE id = ?`,
		postID,
	).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

// CountForUserSince returns the user's post, like, and comment counts for
// activity created on or after the given date ("2006-01-02").
func (r *postRepository) CountForUserSince(ctx context.Context, userID uint, since string) (int, int, int, error) {
	db := readDB(r.db).WithContext(ctx)

	var posts, likes, comments int64
	if err := db.Model(&models.Post{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&posts).Error; err != nil {
		return 0, 0, 0, models.NewInternalError(err)
	}
	if err := db.Model(&models.Like{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&likes).Error; err != nil {
		return 0, 0, 0, models.NewInternalError(err)
	}
	if err := db.Model(&models.Comment{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&comments).Error; err != nil {
		return 0, 0, 0, models.NewInternalError(err)
	}
	return int(posts), int(likes), int(comments), nil
}
