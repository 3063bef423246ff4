package models

import "time"

// Score weights for weekly activity.
const (
	ScorePerPost    = 10
	ScorePerLike    = 2
	ScorePerComment = 5
)

// LeaderboardScore is one row per (user, week-start date). It is a
// deterministic function of that week's activity counts at computation
// time: fully recomputed and overwritten on every update, never
// incrementally maintained.
type LeaderboardScore struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_scores_user_week" json:"user_id"`
	User          User      `gorm:"foreignKey:UserID" json:"user"`
	WeekStart     string    `gorm:"type:date;not null;uniqueIndex:idx_scores_user_week;index" json:"week_start"`
	Score         int       `gorm:"not null" json:"score"`
	PostsCount    int       `gorm:"not null" json:"posts_count"`
	LikesGiven    int       `gorm:"not null" json:"likes_given"`
	CommentsGiven int       `gorm:"not null" json:"comments_given"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ComputeScore applies the activity weights to raw weekly counts.
func ComputeScore(posts, likes, comments int) int {
	return posts*ScorePerPost + likes*ScorePerLike + comments*ScorePerComment
}
