package model

import (
	"time"
)

// 作品生成状态
const (
	WorkPending    = "pending"
	WorkProcessing = "processing"
	WorkCompleted  = "completed"
	WorkFailed     = "failed"
)

// Work AI 音乐生成作品。创建即占用当日配额，生成在 worker 中异步完成。
type Work struct {
	ID           int64      `gorm:"primaryKey" json:"id"`
	UserID       int64      `gorm:"not null;index" json:"user_id"`
	Title        string     `gorm:"size:200;not null" json:"title"`
	Prompt       string     `gorm:"type:text;not null" json:"prompt"`
	Style        string     `gorm:"size:50" json:"style,omitempty"`
	DurationSec  int        `json:"duration_sec,omitempty"`
	AudioOSSURL  string     `gorm:"size:500" json:"audio_oss_url,omitempty"`
	Status       string     `gorm:"size:20;default:pending;index" json:"status"` // pending, processing, completed, failed
	ErrorMessage string     `gorm:"type:text" json:"error_message,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Work) TableName() string {
	return "works"
}
