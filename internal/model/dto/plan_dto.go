package dto

// SavePlanRequest 管理端创建/更新套餐
type SavePlanRequest struct {
	Role         string         `json:"role" binding:"required"`
	Name         string         `json:"name" binding:"required,max=100"`
	Price        float64        `json:"price" binding:"gte=0"`
	YearlyPrice  float64        `json:"yearly_price" binding:"gte=0"`
	DurationDays int            `json:"duration_days" binding:"required,gt=0"`
	Features     []string       `json:"features"`
	UsageLimits  map[string]int `json:"usage_limits"`
	IsActive     *bool          `json:"is_active"`
}

// SubscriptionInfo 用户订阅概览
type SubscriptionInfo struct {
	Role      string `json:"role,omitempty"`
	PlanID    *int64 `json:"plan_id,omitempty"`
	PlanName  string `json:"plan_name,omitempty"`
	Status    string `json:"status"`
	Entitled  bool   `json:"entitled"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// ActivateFreePlanRequest 激活免费套餐
type ActivateFreePlanRequest struct {
	PlanID int64 `json:"plan_id" binding:"required"`
}

// OverrideSubscriptionRequest 管理端直接改写用户订阅状态，
// 用于客服补单、手动停用等场景
type OverrideSubscriptionRequest struct {
	Role      string `json:"role" binding:"required"`
	PlanID    *int64 `json:"plan_id"`
	Status    string `json:"status" binding:"required"`
	ExpiresAt string `json:"expires_at"` // RFC3339，空表示不过期
}
