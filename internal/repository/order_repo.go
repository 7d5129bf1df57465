package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/lingxi-lab/lingxi_go_server/internal/model"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(order *model.PaymentOrder) error {
	return r.db.Create(order).Error
}

func (r *OrderRepository) GetByID(id int64) (*model.PaymentOrder, error) {
	var order model.PaymentOrder
	err := r.db.Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkVerified 将订单从 created 迁移到 verified。
// WHERE status = 'created' 保证全局只有一次迁移成功；
// 返回 false 表示订单已不在 created 状态（并发或重复回调）。
func (r *OrderRepository) MarkVerified(id int64, gatewayPaymentID string) (bool, error) {
	now := time.Now()
	result := r.db.Model(&model.PaymentOrder{}).
		Where("id = ? AND status = ?", id, model.OrderCreated).
		Updates(map[string]interface{}{
			"status":             model.OrderVerified,
			"gateway_payment_id": gatewayPaymentID,
			"verified_at":        now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkFailed 验签失败时将订单置为 failed，终态订单不受影响
func (r *OrderRepository) MarkFailed(id int64) error {
	return r.db.Model(&model.PaymentOrder{}).
		Where("id = ? AND status = ?", id, model.OrderCreated).
		Update("status", model.OrderFailed).Error
}

// CancelStaleCreated 取消超过 staleAfter 仍停留在 created 的订单，返回取消数量
func (r *OrderRepository) CancelStaleCreated(staleAfter time.Duration) (int64, error) {
	cutoff := time.Now().Add(-staleAfter)
	result := r.db.Model(&model.PaymentOrder{}).
		Where("status = ? AND created_at < ?", model.OrderCreated, cutoff).
		Update("status", model.OrderCancelled)
	return result.RowsAffected, result.Error
}

// ListStaleCreated 列出过期未支付订单（cleanup 工具 dry-run 用）
func (r *OrderRepository) ListStaleCreated(staleAfter time.Duration) ([]*model.PaymentOrder, error) {
	cutoff := time.Now().Add(-staleAfter)
	var orders []*model.PaymentOrder
	err := r.db.Where("status = ? AND created_at < ?", model.OrderCreated, cutoff).
		Find(&orders).Error
	return orders, err
}
