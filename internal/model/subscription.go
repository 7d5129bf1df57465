package model

import (
	"time"
)

// 订阅状态
const (
	SubscriptionActive   = "active"
	SubscriptionTrial    = "trial"
	SubscriptionInactive = "inactive"
	SubscriptionExpired  = "expired"
)

// Subscription 用户订阅状态，每用户一条。
// 只由支付结算、免费套餐激活或管理员操作修改。
type Subscription struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	UserID    int64      `gorm:"not null;uniqueIndex" json:"user_id"`
	Role      string     `gorm:"size:20;not null" json:"role"`
	PlanID    *int64     `gorm:"index" json:"plan_id,omitempty"`
	Status    string     `gorm:"size:20;default:inactive;index" json:"status"` // active, trial, inactive, expired
	ExpiresAt *time.Time `gorm:"index" json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
