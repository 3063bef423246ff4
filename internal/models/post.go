package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Post represents a feed update shared with the community. Either content
// or an image URL must be present; mood and topics are optional.
//
// LikesCount and CommentsCount are denormalized: they are recomputed from
// the authoritative likes/comments rows and written back after every
// mutation, never incremented in place.
type Post struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	User          User           `gorm:"foreignKey:UserID" json:"user"`
	Content       string         `gorm:"type:text" json:"content"`
	ImageURL      string         `json:"image_url"`
	MoodEmoji     string         `json:"mood_emoji"`
	Topics        pq.StringArray `gorm:"type:text[]" json:"topics"`
	LikesCount    int            `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int            `gorm:"not null;default:0" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool           `gorm:"->;-:migration" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Like is a join record; its existence means the user liked the post.
// Uniqueness per (post, user) is enforced by the composite index.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_likes_post_user" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_post_user;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
