package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"vibella/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// leaderboardRepoStub is a stub for repository.LeaderboardRepository.
type leaderboardRepoStub struct {
	upsertFn         func(context.Context, *models.LeaderboardScore) error
	getForUserWeekFn func(context.Context, uint, string) (*models.LeaderboardScore, error)
	topForWeekFn     func(context.Context, string) ([]models.LeaderboardScore, error)
}

func (s *leaderboardRepoStub) Upsert(ctx context.Context, score *models.LeaderboardScore) error {
	return s.upsertFn(ctx, score)
}
func (s *leaderboardRepoStub) GetForUserWeek(ctx context.Context, userID uint, weekStart string) (*models.LeaderboardScore, error) {
	return s.getForUserWeekFn(ctx, userID, weekStart)
}
func (s *leaderboardRepoStub) TopForWeek(ctx context.Context, weekStart string) ([]models.LeaderboardScore, error) {
	return s.topForWeekFn(ctx, weekStart)
}

func noopLeaderboardRepo() *leaderboardRepoStub {
	return &leaderboardRepoStub{
		upsertFn: func(_ context.Context, _ *models.LeaderboardScore) error { return nil },
		getForUserWeekFn: func(_ context.Context, _ uint, _ string) (*models.LeaderboardScore, error) {
			return nil, nil
		},
		topForWeekFn: func(_ context.Context, _ string) ([]models.LeaderboardScore, error) {
			return nil, nil
		},
	}
}

func TestWeekStart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"sunday maps to itself", "2026-08-30", "2026-08-30"},
		{"monday", "2026-08-31", "2026-08-30"},
		{"wednesday", "2026-09-02", "2026-08-30"},
		{"saturday", "2026-09-05", "2026-08-30"},
		{"next sunday starts a new week", "2026-09-06", "2026-09-06"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			day, err := time.Parse(models.HabitDateLayout, tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, WeekStart(day))
		})
	}
}

func TestWeekStart_IgnoresTimezone(t *testing.T) {
	t.Parallel()

	// Early Sunday morning in UTC+7 is still Saturday in UTC, so the
	// bucket is the previous week's Sunday.
	loc := time.FixedZone("ICT", 7*3600)
	local := time.Date(2026, 8, 30, 5, 30, 0, 0, loc) // 2026-08-29 22:30 UTC
	assert.Equal(t, "2026-08-23", WeekStart(local))
}

func TestScoreService_RecomputeScore_Formula(t *testing.T) {
	t.Parallel()

	var upserted *models.LeaderboardScore
	lr := noopLeaderboardRepo()
	lr.upsertFn = func(_ context.Context, score *models.LeaderboardScore) error {
		upserted = score
		return nil
	}

	pr := noopPostRepo()
	pr.countForUserSinceFn = func(_ context.Context, _ uint, since string) (int, int, int, error) {
		assert.Equal(t, "2026-08-30", since)
		return 3, 7, 2, nil
	}

	svc := NewScoreService(pr, lr)
	svc.now = func() time.Time { return time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC) }

	score, err := svc.RecomputeScore(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, upserted)

	// 3 posts * 10 + 7 likes * 2 + 2 comments * 5
	assert.Equal(t, 54, score.Score)
	assert.Equal(t, uint(42), upserted.UserID)
	assert.Equal(t, "2026-08-30", upserted.WeekStart)
	assert.Equal(t, 3, upserted.PostsCount)
	assert.Equal(t, 7, upserted.LikesGiven)
	assert.Equal(t, 2, upserted.CommentsGiven)
}

func TestScoreService_RecomputeScore_Idempotent(t *testing.T) {
	t.Parallel()

	var rows []*models.LeaderboardScore
	lr := noopLeaderboardRepo()
	lr.upsertFn = func(_ context.Context, score *models.LeaderboardScore) error {
		rows = append(rows, score)
		return nil
	}

	pr := noopPostRepo()
	pr.countForUserSinceFn = func(_ context.Context, _ uint, _ string) (int, int, int, error) {
		return 1, 0, 0, nil
	}

	svc := NewScoreService(pr, lr)
	svc.now = func() time.Time { return time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC) }

	for i := 0; i < 3; i++ {
		_, err := svc.RecomputeScore(context.Background(), 1)
		require.NoError(t, err)
	}

	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, rows[0].Score, row.Score)
		assert.Equal(t, rows[0].WeekStart, row.WeekStart)
	}
}

func TestScoreService_RecomputeScore_CountError(t *testing.T) {
	t.Parallel()

	pr := noopPostRepo()
	pr.countForUserSinceFn = func(_ context.Context, _ uint, _ string) (int, int, int, error) {
		return 0, 0, 0, errors.New("db down")
	}

	upserted := false
	lr := noopLeaderboardRepo()
	lr.upsertFn = func(_ context.Context, _ *models.LeaderboardScore) error {
		upserted = true
		return nil
	}

	svc := NewScoreService(pr, lr)
	_, err := svc.RecomputeScore(context.Background(), 1)
	assert.Error(t, err)
	assert.False(t, upserted, "failed count must not write a score row")
}

func TestScoreService_MyScore_NoActivity(t *testing.T) {
	t.Parallel()

	lr := noopLeaderboardRepo()
	svc := NewScoreService(noopPostRepo(), lr)

	score, err := svc.MyScore(context.Background(), 5)
	require.NoError(t, err)
	assert.Nil(t, score)
}

func TestScoreService_Leaderboard_UsesCurrentWeek(t *testing.T) {
	t.Parallel()

	var gotWeek string
	lr := noopLeaderboardRepo()
	lr.topForWeekFn = func(_ context.Context, weekStart string) ([]models.LeaderboardScore, error) {
		gotWeek = weekStart
		return []models.LeaderboardScore{{UserID: 1, Score: 50}}, nil
	}

	svc := NewScoreService(noopPostRepo(), lr)
	svc.now = func() time.Time { return time.Date(2026, 9, 4, 8, 0, 0, 0, time.UTC) }

	scores, err := svc.Leaderboard(context.Background())
	require.NoError(t, err)
	assert.Len(t, scores, 1)
	assert.Equal(t, "2026-08-30", gotWeek)
}
