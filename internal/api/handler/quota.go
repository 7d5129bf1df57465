package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/lingxi-lab/lingxi_go_server/internal/api/middleware"
	"github.com/lingxi-lab/lingxi_go_server/internal/pkg/response"
	"github.com/lingxi-lab/lingxi_go_server/internal/service"
)

type QuotaHandler struct {
	quotaService *service.QuotaService
}

func NewQuotaHandler(quotaService *service.QuotaService) *QuotaHandler {
	return &QuotaHandler{
		quotaService: quotaService,
	}
}

// GetQuota 获取当前用户配额信息
// GET /api/v1/user/quota
func (h *QuotaHandler) GetQuota(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	info, err := h.quotaService.GetQuotaInfo(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, info)
}

// CheckQuota 询问能否再创建一个指定类型的资源
// GET /api/v1/user/quota/check?kind=works
func (h *QuotaHandler) CheckQuota(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	result, err := h.quotaService.CheckCreate(userID, c.Query("kind"))
	if err != nil {
		if errors.Is(err, service.ErrUnknownKind) {
			response.ParamError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, result)
}
