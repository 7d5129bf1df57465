package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lingxi-lab/lingxi_go_server/internal/model/dto"
	"github.com/lingxi-lab/lingxi_go_server/internal/pkg/response"
	"github.com/lingxi-lab/lingxi_go_server/internal/service"
)

type PlanHandler struct {
	planService *service.PlanService
}

func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{
		planService: planService,
	}
}

// List 套餐列表（公开）
// GET /api/v1/plans?role=teacher
func (h *PlanHandler) List(c *gin.Context) {
	role := c.Query("role")

	plans, err := h.planService.ListPlans(role)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRole) {
			response.ParamError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, plans)
}

// Create 管理员创建套餐
// POST /api/v1/admin/plans
func (h *PlanHandler) Create(c *gin.Context) {
	var req dto.SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	plan, err := h.planService.CreatePlan(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRole) {
			response.ParamError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, plan)
}

// Update 管理员更新套餐
// PUT /api/v1/admin/plans/:id
func (h *PlanHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "")
		return
	}

	var req dto.SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "")
		return
	}

	plan, err := h.planService.UpdatePlan(id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrInvalidRole):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, plan)
}
