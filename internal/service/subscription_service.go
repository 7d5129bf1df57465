package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lingxi-lab/lingxi_go_server/internal/model"
	"github.com/lingxi-lab/lingxi_go_server/internal/model/dto"
	"github.com/lingxi-lab/lingxi_go_server/internal/repository"
)

var (
	ErrPlanNotFound      = errors.New("套餐不存在或已下架")
	ErrPlanNotFree       = errors.New("该套餐需要付费开通")
	ErrInvalidStatus     = errors.New("非法的订阅状态")
	ErrInvalidExpiryTime = errors.New("过期时间格式不正确")
)

var subscriptionStatuses = map[string]bool{
	model.SubscriptionActive:   true,
	model.SubscriptionTrial:    true,
	model.SubscriptionInactive: true,
	model.SubscriptionExpired:  true,
}

type SubscriptionService struct {
	subRepo     *repository.SubscriptionRepository
	planRepo    *repository.PlanRepository
	entitlement *EntitlementService
}

func NewSubscriptionService(
	subRepo *repository.SubscriptionRepository,
	planRepo *repository.PlanRepository,
	entitlement *EntitlementService,
) *SubscriptionService {
	return &SubscriptionService{
		subRepo:     subRepo,
		planRepo:    planRepo,
		entitlement: entitlement,
	}
}

// GetInfo 用户订阅概览（惰性过期修正在 Check 里完成）
func (s *SubscriptionService) GetInfo(userID int64) (*dto.SubscriptionInfo, error) {
	sub, entitled, err := s.entitlement.Check(userID)
	if err != nil {
		return nil, err
	}

	info := &dto.SubscriptionInfo{
		Status:   model.SubscriptionInactive,
		Entitled: entitled,
	}
	if sub == nil {
		return info, nil
	}

	info.Role = sub.Role
	info.PlanID = sub.PlanID
	info.Status = sub.Status
	if sub.ExpiresAt != nil {
		info.ExpiresAt = sub.ExpiresAt.Format(time.RFC3339)
	}
	if sub.PlanID != nil {
		if plan, err := s.planRepo.GetByID(*sub.PlanID); err == nil {
			info.PlanName = plan.Name
		}
	}

	return info, nil
}

// ActivateFreePlan 激活免费套餐。免费套餐不经过支付流程，直接生效。
func (s *SubscriptionService) ActivateFreePlan(userID, planID int64) error {
	plan, err := s.planRepo.GetByID(planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	if !plan.IsActive {
		return ErrPlanNotFound
	}
	if !plan.IsFree() {
		return ErrPlanNotFree
	}

	return ExtendSubscription(s.subRepo, userID, plan, plan.DurationDays, model.SubscriptionActive)
}

// Override 管理端直接改写订阅状态，绕过支付流程。
// 客服补单、手动停用等场景使用，普通用户无法触达。
func (s *SubscriptionService) Override(userID int64, req *dto.OverrideSubscriptionRequest) error {
	if !model.IsValidRole(req.Role) {
		return ErrInvalidRole
	}
	if !subscriptionStatuses[req.Status] {
		return ErrInvalidStatus
	}
	if req.PlanID != nil {
		if _, err := s.planRepo.GetByID(*req.PlanID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlanNotFound
			}
			return err
		}
	}

	var expiresAt *time.Time
	if req.ExpiresAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			return ErrInvalidExpiryTime
		}
		expiresAt = &parsed
	}

	sub, err := s.subRepo.GetByUserID(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if sub == nil {
		return s.subRepo.Create(&model.Subscription{
			UserID:    userID,
			Role:      req.Role,
			PlanID:    req.PlanID,
			Status:    req.Status,
			ExpiresAt: expiresAt,
		})
	}

	sub.Role = req.Role
	sub.PlanID = req.PlanID
	sub.Status = req.Status
	sub.ExpiresAt = expiresAt
	return s.subRepo.Update(sub)
}

// ExtendSubscription 订阅延期/激活的统一写入口，支付结算和免费激活共用。
// 续费同一套餐且未到期时从 expires_at 顺延（续费是延长而不是重置）；
// 其余情况以当前时间为起点。repo 可以是事务作用域的。
func ExtendSubscription(subRepo *repository.SubscriptionRepository, userID int64, plan *model.Plan, durationDays int, status string) error {
	now := time.Now()
	anchor := now

	sub, err := subRepo.GetByUserID(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if sub != nil && sub.PlanID != nil && *sub.PlanID == plan.ID &&
		sub.ExpiresAt != nil && sub.ExpiresAt.After(now) {
		anchor = *sub.ExpiresAt
	}

	expiresAt := anchor.AddDate(0, 0, durationDays)
	planID := plan.ID

	if sub == nil {
		return subRepo.Create(&model.Subscription{
			UserID:    userID,
			Role:      plan.Role,
			PlanID:    &planID,
			Status:    status,
			ExpiresAt: &expiresAt,
		})
	}

	sub.Role = plan.Role
	sub.PlanID = &planID
	sub.Status = status
	sub.ExpiresAt = &expiresAt
	return subRepo.Update(sub)
}
