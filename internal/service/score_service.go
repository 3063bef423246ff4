// Package service implements the application's business logic on top of
// the repository layer.
package service

import (
	"context"
	"time"

	"vibella/internal/models"
	"vibella/internal/observability"
	"vibella/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// WeekStart returns the date ("2006-01-02") of the most recent Sunday in
// UTC, the key every weekly score row is bucketed under. A Sunday maps to
// itself.
func WeekStart(t time.Time) string {
	t = t.UTC()
	t = t.AddDate(0, 0, -int(t.Weekday()))
	return t.Format(models.HabitDateLayout)
}

// ScoreService recomputes weekly leaderboard scores from activity counts.
type ScoreService struct {
	postRepo        repository.PostRepository
	leaderboardRepo repository.LeaderboardRepository
	now             func() time.Time
}

// NewScoreService returns a ScoreService using wall-clock time.
func NewScoreService(postRepo repository.PostRepository, leaderboardRepo repository.LeaderboardRepository) *ScoreService {
	return &ScoreService{
		postRepo:        postRepo,
		leaderboardRepo: leaderboardRepo,
		now:             time.Now,
	}
}

// RecomputeScore rebuilds the user's score row for the current week from
// the authoritative activity counts and upserts it. The whole row is
// overwritten, so recomputing with unchanged activity is a no-op and the
// operation is safe to repeat.
func (s *ScoreService) RecomputeScore(ctx context.Context, userID uint) (*models.LeaderboardScore, error) {
	span, ctx := observability.NewSpan(ctx, "score.recompute")
	defer span.End()

	weekStart := WeekStart(s.now())
	span.AddAttributes(
		attribute.Int("user.id", int(userID)),
		attribute.String("week.start", weekStart),
	)

	posts, likes, comments, err := s.postRepo.CountForUserSince(ctx, userID, weekStart)
	if err != nil {
		span.SetError(err)
		observability.ScoreRecomputes.WithLabelValues("error").Inc()
		return nil, err
	}

	score := &models.LeaderboardScore{
		UserID:        userID,
		WeekStart:     weekStart,
		Score:         models.ComputeScore(posts, likes, comments),
		PostsCount:    posts,
		LikesGiven:    likes,
		CommentsGiven: comments,
	}

	if err := s.leaderboardRepo.Upsert(ctx, score); err != nil {
		span.SetError(err)
		observability.ScoreRecomputes.WithLabelValues("error").Inc()
		return nil, err
	}

	observability.ScoreRecomputes.WithLabelValues("ok").Inc()
	return score, nil
}

// Leaderboard returns the current week's top scores.
func (s *ScoreService) Leaderboard(ctx context.Context) ([]models.LeaderboardScore, error) {
	return s.leaderboardRepo.TopForWeek(ctx, WeekStart(s.now()))
}

// MyScore returns the user's score row for the current week, or nil when
// the user has no activity yet this week.
func (s *ScoreService) MyScore(ctx context.Context, userID uint) (*models.LeaderboardScore, error) {
	return s.leaderboardRepo.GetForUserWeek(ctx, userID, WeekStart(s.now()))
}
