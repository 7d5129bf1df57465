package dto

// CreateOrderRequest 创建支付订单
type CreateOrderRequest struct {
	Kind         string `json:"kind" binding:"required,oneof=subscription course"`
	TargetID     int64  `json:"target_id" binding:"required"`
	BillingCycle string `json:"billing_cycle" binding:"omitempty,oneof=monthly yearly"`
}

// CreateOrderResponse 返回给客户端打开收银台所需的信息
type CreateOrderResponse struct {
	OrderID        int64   `json:"order_id"`
	GatewayOrderID string  `json:"gateway_order_id"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
}

// VerifyPaymentRequest 网关回调的支付凭证
type VerifyPaymentRequest struct {
	OrderID          int64  `json:"order_id" binding:"required"`
	GatewayOrderID   string `json:"gateway_order_id" binding:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
	Signature        string `json:"signature" binding:"required"`
}

// VerifyPaymentResponse 验签结果。课程单可能附带角色解锁信息，
// 客户端据此跳转到对应控制台。
type VerifyPaymentResponse struct {
	Success      bool   `json:"success"`
	RoleUnlocked bool   `json:"role_unlocked,omitempty"`
	RoleName     string `json:"role_name,omitempty"`
	RedirectRole string `json:"redirect_role,omitempty"`
}
