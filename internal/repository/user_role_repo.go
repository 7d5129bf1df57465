package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/lingxi-lab/lingxi_go_server/internal/model"
)

type UserRoleRepository struct {
	db *gorm.DB
}

func NewUserRoleRepository(db *gorm.DB) *UserRoleRepository {
	return &UserRoleRepository{db: db}
}

func (r *UserRoleRepository) Create(userRole *model.UserRole) error {
	return r.db.Create(userRole).Error
}

// Has 用户是否已持有该角色
func (r *UserRoleRepository) Has(userID int64, role string) (bool, error) {
	var count int64
	err := r.db.Model(&model.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).Count(&count).Error
	return count > 0, err
}

func (r *UserRoleRepository) ListByUserID(userID int64) ([]*model.UserRole, error) {
	var roles []*model.UserRole
	err := r.db.Where("user_id = ?", userID).Order("unlocked_at ASC").Find(&roles).Error
	return roles, err
}

// GetByUserAndRole 读取单条解锁记录
func (r *UserRoleRepository) GetByUserAndRole(userID int64, role string) (*model.UserRole, error) {
	var userRole model.UserRole
	err := r.db.Where("user_id = ? AND role = ?", userID, role).First(&userRole).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &userRole, nil
}
