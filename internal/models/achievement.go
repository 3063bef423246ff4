package models

import "time"

// Achievement badge types.
const (
	BadgeTypePosts      = "posts"
	BadgeTypeLikes      = "likes"
	BadgeTypeHabits     = "habits"
	BadgeTypeChallenges = "challenges"
	BadgeTypeCommunity  = "community"
)

// Achievement is an immutable award record. This service only lists
// achievements; granting them happens outside this repository.
type Achievement struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"not null;index" json:"user_id"`
	BadgeType        string    `gorm:"not null" json:"badge_type"`
	BadgeName        string    `gorm:"not null" json:"badge_name"`
	BadgeDescription string    `json:"badge_description"`
	EarnedAt         time.Time `gorm:"not null" json:"earned_at"`
}
