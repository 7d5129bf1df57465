package repository

import (
	"gorm.io/gorm"

	"github.com/lingxi-lab/lingxi_go_server/internal/model"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(plan *model.Plan) error {
	return r.db.Create(plan).Error
}

func (r *PlanRepository) GetByID(id int64) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.Where("id = ?", id).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListActive 列出上架套餐，role 为空时返回全部角色
func (r *PlanRepository) ListActive(role string) ([]*model.Plan, error) {
	var plans []*model.Plan
	query := r.db.Where("is_active = ?", true)
	if role != "" {
		query = query.Where("role = ?", role)
	}
	err := query.Order("price ASC").Find(&plans).Error
	return plans, err
}

func (r *PlanRepository) Update(plan *model.Plan) error {
	return r.db.Save(plan).Error
}
