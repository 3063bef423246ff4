package models

import "time"

// Expert content types.
const (
	ContentTypeBlog  = "blog"
	ContentTypeVideo = "video"
)

// ExpertContent is an article or video published by a wellness expert.
// ViewsCount is denormalized and bumped on read.
type ExpertContent struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AuthorID     *uint     `gorm:"index" json:"author_id,omitempty"`
	Author       *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Title        string    `gorm:"not null" json:"title"`
	Content      string    `gorm:"type:text" json:"content"`
	ContentType  string    `gorm:"not null;index" json:"content_type"`
	VideoURL     string    `json:"video_url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	ViewsCount   int       `gorm:"not null;default:0" json:"views_count"`
	CreatedAt    time.Time `json:"created_at"`
}
