package model

import (
	"time"
)

// UserRole 用户已解锁的角色。只增不减：解锁后本系统不会回收。
type UserRole struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	UserID         int64     `gorm:"not null;uniqueIndex:idx_user_role" json:"user_id"`
	Role           string    `gorm:"size:20;not null;uniqueIndex:idx_user_role" json:"role"`
	SourceCourseID *int64    `json:"source_course_id,omitempty"`
	UnlockedAt     time.Time `gorm:"not null" json:"unlocked_at"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
