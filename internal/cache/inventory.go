package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix        = "user:%d"
	PostKeyPrefix        = "post:%d"
	LeaderboardKeyPrefix = "leaderboard:%s"
	ExpertKeyPrefix      = "expert:%d"
)

const (
	UserTTL        = 5 * time.Minute
	PostTTL        = 30 * time.Minute
	LeaderboardTTL = 1 * time.Minute
	ExpertTTL      = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// LeaderboardKey keys the cached top-10 board for a week start date
// ("2006-01-02").
func LeaderboardKey(weekStart string) string {
	return fmt.Sprintf(LeaderboardKeyPrefix, weekStart)
}

func ExpertKey(contentID uint) string {
	return fmt.Sprintf(ExpertKeyPrefix, contentID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

// InvalidateLeaderboard drops the cached board for a week so the next
// read reflects a freshly upserted score.
func InvalidateLeaderboard(ctx context.Context, weekStart string) {
	Invalidate(ctx, LeaderboardKey(weekStart))
}
