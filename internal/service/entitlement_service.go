package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lingxi-lab/lingxi_go_server/internal/model"
	"github.com/lingxi-lab/lingxi_go_server/internal/repository"
)

var ErrNotEntitled = errors.New("订阅未生效，请先开通或续费")

type EntitlementService struct {
	subRepo *repository.SubscriptionRepository
}

func NewEntitlementService(subRepo *repository.SubscriptionRepository) *EntitlementService {
	return &EntitlementService{subRepo: subRepo}
}

// IsEntitled 纯判定：仅 active / trial 且未过期的订阅可通过粗粒度门禁。
// 无订阅记录（sub == nil）一律拒绝。
func IsEntitled(sub *model.Subscription) bool {
	if sub == nil {
		return false
	}
	if sub.Status != model.SubscriptionActive && sub.Status != model.SubscriptionTrial {
		return false
	}
	if sub.ExpiresAt != nil && sub.ExpiresAt.Before(time.Now()) {
		return false
	}
	return true
}

// Check 加载订阅并判定权益。expires_at 已过期的 active/trial 记录
// 在读取时惰性修正为 expired 并回写，避免其他读取方继续使用过期状态。
func (s *EntitlementService) Check(userID int64) (*model.Subscription, bool, error) {
	sub, err := s.subRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 无记录视为未开通，拒绝但不报错
			return nil, false, nil
		}
		return nil, false, err
	}

	if (sub.Status == model.SubscriptionActive || sub.Status == model.SubscriptionTrial) &&
		sub.ExpiresAt != nil && sub.ExpiresAt.Before(time.Now()) {
		if err := s.subRepo.UpdateFields(userID, map[string]interface{}{
			"status": model.SubscriptionExpired,
		}); err != nil {
			return nil, false, err
		}
		sub.Status = model.SubscriptionExpired
	}

	return sub, IsEntitled(sub), nil
}

// RequireEntitled 加载订阅，未生效时返回 ErrNotEntitled
func (s *EntitlementService) RequireEntitled(userID int64) (*model.Subscription, error) {
	sub, entitled, err := s.Check(userID)
	if err != nil {
		return nil, err
	}
	if !entitled {
		return nil, ErrNotEntitled
	}
	return sub, nil
}
