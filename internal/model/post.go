package model

import (
	"time"
)

// Post 发布的动态/文章，发布前需通过内容审核并占用月度配额
type Post struct {
	ID        int64       `gorm:"primaryKey" json:"id"`
	UserID    int64       `gorm:"not null;index" json:"user_id"`
	Role      string      `gorm:"size:20;not null" json:"role"`
	Title     string      `gorm:"size:200;not null" json:"title"`
	Content   string      `gorm:"type:text;not null" json:"content"`
	Tags      StringArray `gorm:"type:json" json:"tags,omitempty"`
	ViewCount int         `gorm:"default:0" json:"view_count"`
	LikeCount int         `gorm:"default:0" json:"like_count"`
	CreatedAt time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}
