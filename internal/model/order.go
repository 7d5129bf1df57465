package model

import (
	"time"
)

// 订单类型
const (
	OrderKindSubscription = "subscription"
	OrderKindCourse       = "course"
)

// 计费周期
const (
	BillingMonthly = "monthly"
	BillingYearly  = "yearly"
)

// 订单状态
const (
	OrderCreated   = "created"
	OrderVerified  = "verified"
	OrderFailed    = "failed"
	OrderCancelled = "cancelled"
)

// PaymentOrder 支付订单。created -> verified / failed / cancelled，
// 进入终态后不再修改；verified 迁移全局只发生一次。
type PaymentOrder struct {
	ID               int64      `gorm:"primaryKey" json:"id"`
	UserID           int64      `gorm:"not null;index" json:"user_id"`
	Kind             string     `gorm:"size:20;not null" json:"kind"`          // subscription, course
	TargetID         int64      `gorm:"not null" json:"target_id"`             // plan_id 或 course_id
	BillingCycle     string     `gorm:"size:10" json:"billing_cycle,omitempty"` // monthly, yearly（仅订阅单）
	Amount           float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency         string     `gorm:"size:10;not null" json:"currency"`
	GatewayOrderID   string     `gorm:"size:100;index" json:"gateway_order_id"`
	GatewayPaymentID string     `gorm:"size:100" json:"gateway_payment_id,omitempty"`
	Status           string     `gorm:"size:20;default:created;index" json:"status"`
	VerifiedAt       *time.Time `json:"verified_at,omitempty"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (PaymentOrder) TableName() string {
	return "payment_orders"
}

// Terminal 是否已进入终态
func (o *PaymentOrder) Terminal() bool {
	return o.Status != OrderCreated
}
