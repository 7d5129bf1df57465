package model

import (
	"time"
)

// UsageCounter 用量计数器，复合键 (user_id, resource_kind, period_key)。
// 周期内只增不减；周期滚动后旧行自然失效，保留用于统计，不删除。
type UsageCounter struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	UserID       int64     `gorm:"not null;uniqueIndex:idx_user_kind_period" json:"user_id"`
	ResourceKind string    `gorm:"size:30;not null;uniqueIndex:idx_user_kind_period" json:"resource_kind"`
	PeriodKey    string    `gorm:"size:10;not null;uniqueIndex:idx_user_kind_period" json:"period_key"`
	Count        int       `gorm:"not null;default:0" json:"count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (UsageCounter) TableName() string {
	return "usage_counters"
}
