package service

import (
	"errors"
	"time"

	"github.com/lingxi-lab/lingxi_go_server/internal/model"
	"github.com/lingxi-lab/lingxi_go_server/internal/repository"
)

var ErrInvalidRole = errors.New("非法的角色")

// RoleService 角色解锁。只应从支付结算的 verified 路径调用，
// 保证角色只能通过已验签的支付获得。
type RoleService struct {
	userRoleRepo *repository.UserRoleRepository
}

func NewRoleService(userRoleRepo *repository.UserRoleRepository) *RoleService {
	return &RoleService{userRoleRepo: userRoleRepo}
}

// UnlockRole 为用户解锁角色，幂等：已持有该角色时直接返回 alreadyUnlocked=true。
// 解锁是单调的，本服务不提供回收。
func (s *RoleService) UnlockRole(userID int64, role string, sourceCourseID int64) (alreadyUnlocked bool, err error) {
	if !model.IsValidRole(role) {
		return false, ErrInvalidRole
	}

	has, err := s.userRoleRepo.Has(userID, role)
	if err != nil {
		return false, err
	}
	if has {
		return true, nil
	}

	userRole := &model.UserRole{
		UserID:         userID,
		Role:           role,
		SourceCourseID: &sourceCourseID,
		UnlockedAt:     time.Now(),
	}
	if err := s.userRoleRepo.Create(userRole); err != nil {
		return false, err
	}
	return false, nil
}

// RedirectRole 解锁后客户端应跳转的控制台，固定映射
func (s *RoleService) RedirectRole(role string) string {
	return model.RoleDashboards[role]
}

// ListRoles 用户已解锁的角色
func (s *RoleService) ListRoles(userID int64) ([]*model.UserRole, error) {
	return s.userRoleRepo.ListByUserID(userID)
}
