package repository

import (
	"context"

	"vibella/internal/cache"
	"vibella/internal/models"
	"vibella/internal/observability"

	"gorm.io/gorm"
)

// LeaderboardSize is how many rows the weekly board shows. It lives with
// the repository because the cached board is keyed by week alone, so every
// caller must see the same slice.
const LeaderboardSize = 10

// LeaderboardRepository defines persistence operations for weekly scores.
type LeaderboardRepository interface {
	Upsert(ctx context.Context, score *models.LeaderboardScore) error
	GetForUserWeek(ctx context.Context, userID uint, weekStart string) (*models.LeaderboardScore, error)
	TopForWeek(ctx context.Context, weekStart string) ([]models.LeaderboardScore, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

// NewLeaderboardRepository returns a new LeaderboardRepository implementation.
func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

// Upsert overwrites the (user, week) score row with freshly computed
// values and invalidates the cached board for that week.
func (r *leaderboardRepository) Upsert(ctx context.Context, score *models.LeaderboardScore) error {
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, "Upsert", "leaderboard_scores")
	defer span.End()

	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO leaderboard_scores (user_id, week_start, score, posts_count, likes_given, comments_given, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())
		 ON CONFLICT (user_id, week_start) DO UPDATE SET
		   score = EXCLUDED.score,
		   posts_count = EXCLUDED.posts_count,
		   likes_given = EXCLUDED.likes_given,
		   comments_given = EXCLUDED.comments_given,
		   updated_at = NOW()`,
		score.UserID, score.WeekStart, score.Score, score.PostsCount, score.LikesGiven, score.CommentsGiven,
	).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateLeaderboard(ctx, score.WeekStart)
	return nil
}

func (r *leaderboardRepository) GetForUserWeek(ctx context.Context, userID uint, weekStart string) (*models.LeaderboardScore, error) {
	var score models.LeaderboardScore
	err := readDB(r.db).WithContext(ctx).
		Where("user_id = ? AND week_start = ?", userID, weekStart).
		First(&score).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &score, nil
}

// TopForWeek returns the highest LeaderboardSize scores for a week, cached
// briefly since the board is read far more often than it changes.
func (r *leaderboardRepository) TopForWeek(ctx context.Context, weekStart string) ([]models.LeaderboardScore, error) {
	var scores []models.LeaderboardScore
	err := cache.Aside(ctx, cache.LeaderboardKey(weekStart), &scores, cache.LeaderboardTTL, func() error {
		return readDB(r.db).WithContext(ctx).
			Preload("User").
			Where("week_start = ?", weekStart).
			Order("score DESC, user_id ASC").
			Limit(LeaderboardSize).
			Find(&scores).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return scores, nil
}
