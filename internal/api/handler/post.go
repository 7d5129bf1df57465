package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lingxi-lab/lingxi_go_server/internal/api/middleware"
	"github.com/lingxi-lab/lingxi_go_server/internal/model/dto"
	"github.com/lingxi-lab/lingxi_go_server/internal/pkg/response"
	"github.com/lingxi-lab/lingxi_go_server/internal/service"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// Publish 发布动态
// POST /api/v1/posts
func (h *PostHandler) Publish(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.PublishPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	post, decision, err := h.postService.Publish(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotEntitled):
			response.EntitlementError(c, "")
		case errors.Is(err, service.ErrQuotaExceeded):
			quotaExceeded(c, decision)
		case errors.Is(err, service.ErrContentRejected):
			response.ContentError(c, "")
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, post)
}

// List 我的动态列表
// GET /api/v1/posts?page=1&page_size=20
func (h *PostHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	page, pageSize := pagination(c)
	items, total, err := h.postService.List(userID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// pagination 解析分页参数，越界时取默认值
func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

// quotaExceeded 配额不足响应，携带判定数字供前端展示
func quotaExceeded(c *gin.Context, decision *dto.QuotaDecision) {
	if decision == nil {
		response.QuotaError(c, "")
		return
	}
	response.ErrorWithData(c, response.CodeQuotaExceeded, decision.Reason, decision)
}
