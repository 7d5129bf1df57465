package dto

// QuotaDecision 单个资源类型的配额判定结果
type QuotaDecision struct {
	Kind      string `json:"kind"`
	Allowed   bool   `json:"allowed"`
	Unlimited bool   `json:"unlimited"`
	Limit     int    `json:"limit,omitempty"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining,omitempty"`
	Period    string `json:"period"`     // daily / monthly
	PeriodKey string `json:"period_key"` // 如 2024-05 或 2024-05-17
	Reason    string `json:"reason,omitempty"`
}

// QuotaCheck "还能不能再创建一个" 询问的应答
type QuotaCheck struct {
	Kind      string         `json:"kind"`
	CanCreate bool           `json:"can_create"`
	Reason    string         `json:"reason,omitempty"`
	Decision  *QuotaDecision `json:"decision,omitempty"`
}

// QuotaInfo 用户全部资源类型的配额概览
type QuotaInfo struct {
	Role      string           `json:"role"`
	PlanName  string           `json:"plan_name,omitempty"`
	Decisions []*QuotaDecision `json:"kinds"`
}
