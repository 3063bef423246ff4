package repository

import (
	"context"
	"testing"

	"vibella/internal/cache"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func setupCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	prev := cache.GetClient()
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(prev) })
	return mr
}

// TestLeaderboard_TopForWeek_CachedPerWeek pins the cache contract: the
// board for a week is cached under the week key alone, and every caller
// reads the same LeaderboardSize-bounded slice. The board size cannot vary
// per call, so one caller can never poison the cache for another.
func TestLeaderboard_TopForWeek_CachedPerWeek(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	mr := setupCache(t)

	mock.ExpectQuery(`SELECT (.+) FROM "leaderboard_scores"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "week_start", "score",
			"posts_count", "likes_given", "comments_given",
		}))

	repo := NewLeaderboardRepository(gormDB)
	ctx := context.Background()

	scores, err := repo.TopForWeek(ctx, "2026-08-30")
	require.NoError(t, err)
	assert.Empty(t, scores)
	assert.True(t, mr.Exists(cache.LeaderboardKey("2026-08-30")))

	// Second read for the same week is served from the cache; sqlmock would
	// fail the test if another query reached the database.
	scores, err = repo.TopForWeek(ctx, "2026-08-30")
	require.NoError(t, err)
	assert.Empty(t, scores)

	assert.NoError(t, mock.ExpectationsWereMet())
}
