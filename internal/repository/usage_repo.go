package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lingxi-lab/lingxi_go_server/internal/model"
)

type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// GetCount 读取当前周期的用量，行不存在视为 0
func (r *UsageRepository) GetCount(userID int64, kind, periodKey string) (int, error) {
	var counter model.UsageCounter
	err := r.db.Where("user_id = ? AND resource_kind = ? AND period_key = ?",
		userID, kind, periodKey).First(&counter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return counter.Count, nil
}

// Increment 原子自增。使用数据库级 upsert（INSERT ... ON CONFLICT count = count + 1），
// 同周期并发请求不会丢失计数。
func (r *UsageRepository) Increment(userID int64, kind, periodKey string) error {
	counter := &model.UsageCounter{
		UserID:       userID,
		ResourceKind: kind,
		PeriodKey:    periodKey,
		Count:        1,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "resource_kind"}, {Name: "period_key"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count": gorm.Expr("count + 1"),
		}),
	}).Create(counter).Error
}

// Decrement 补偿回退，下游失败时由调用方决定是否退还；不低于 0
func (r *UsageRepository) Decrement(userID int64, kind, periodKey string) error {
	return r.db.Model(&model.UsageCounter{}).
		Where("user_id = ? AND resource_kind = ? AND period_key = ? AND count > 0",
			userID, kind, periodKey).
		Update("count", gorm.Expr("count - 1")).Error
}
