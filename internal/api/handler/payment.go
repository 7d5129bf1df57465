package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/lingxi-lab/lingxi_go_server/internal/api/middleware"
	"github.com/lingxi-lab/lingxi_go_server/internal/model/dto"
	"github.com/lingxi-lab/lingxi_go_server/internal/pkg/response"
	"github.com/lingxi-lab/lingxi_go_server/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// CreateOrder 创建支付订单
// POST /api/v1/orders
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	resp, err := h.paymentService.CreateOrder(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentsDisabled):
			response.PaymentDisabledError(c, "")
		case errors.Is(err, service.ErrPlanNotFound), errors.Is(err, service.ErrCourseNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrFreePlanOrder),
			errors.Is(err, service.ErrAlreadyEnrolled),
			errors.Is(err, service.ErrUnknownKind):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "下单失败，请稍后重试")
		}
		return
	}

	response.Success(c, resp)
}

// VerifyCallback 支付网关回调
// POST /api/v1/payment/callback
func (h *PaymentHandler) VerifyCallback(c *gin.Context) {
	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	resp, err := h.paymentService.VerifyCallback(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrOrderClosed):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrSignatureMismatch):
			response.PaymentError(c, "")
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, resp)
}
