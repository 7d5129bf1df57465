package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/lingxi-lab/lingxi_go_server/internal/model"
	"github.com/lingxi-lab/lingxi_go_server/internal/model/dto"
	"github.com/lingxi-lab/lingxi_go_server/internal/repository"
)

// PlanService 套餐目录。列表是公开的，增改仅限管理员（由路由层把关）。
type PlanService struct {
	planRepo *repository.PlanRepository
}

func NewPlanService(planRepo *repository.PlanRepository) *PlanService {
	return &PlanService{planRepo: planRepo}
}

// ListPlans 列出上架套餐，role 为空时返回全部角色
func (s *PlanService) ListPlans(role string) ([]*model.Plan, error) {
	if role != "" && !model.IsValidRole(role) {
		return nil, ErrInvalidRole
	}
	return s.planRepo.ListActive(role)
}

// CreatePlan 管理员创建套餐
func (s *PlanService) CreatePlan(req *dto.SavePlanRequest) (*model.Plan, error) {
	plan, err := planFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.planRepo.Create(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// UpdatePlan 管理员更新套餐。usage_limits 的调整在下一次配额判定即生效，
// 已消耗的计数不回溯。
func (s *PlanService) UpdatePlan(id int64, req *dto.SavePlanRequest) (*model.Plan, error) {
	existing, err := s.planRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	updated, err := planFromRequest(req)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	if err := s.planRepo.Update(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func planFromRequest(req *dto.SavePlanRequest) (*model.Plan, error) {
	if !model.IsValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	return &model.Plan{
		Role:         req.Role,
		Name:         req.Name,
		Price:        req.Price,
		YearlyPrice:  req.YearlyPrice,
		DurationDays: req.DurationDays,
		Features:     model.StringArray(req.Features),
		UsageLimits:  model.LimitMap(req.UsageLimits),
		IsActive:     isActive,
	}, nil
}
