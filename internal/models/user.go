// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a member of the wellness community. The profile fields
// (full name, avatar, bio, goals) are owned by the user and mutated only
// through that user's own edit actions.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	FullName  string         `json:"full_name"`
	AvatarURL string         `json:"avatar_url"`
	Bio       string         `gorm:"type:text" json:"bio"`
	Goals     string         `gorm:"type:text" json:"goals"`
	IsAdmin   bool           `gorm:"default:false" json:"is_admin"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// UserStats holds lifetime activity counters shown on a profile page.
// Computed on demand, never persisted.
type UserStats struct {
	Posts        int64 `json:"posts"`
	LikesGiven   int64 `json:"likes_given"`
	Achievements int64 `json:"achievements"`
}
