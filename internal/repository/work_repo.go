package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/lingxi-lab/lingxi_go_server/internal/model"
)

type WorkRepository struct {
	db *gorm.DB
}

func NewWorkRepository(db *gorm.DB) *WorkRepository {
	return &WorkRepository{db: db}
}

func (r *WorkRepository) Create(work *model.Work) error {
	return r.db.Create(work).Error
}

func (r *WorkRepository) GetByID(id int64) (*model.Work, error) {
	var work model.Work
	err := r.db.Where("id = ?", id).First(&work).Error
	if err != nil {
		return nil, err
	}
	return &work, nil
}

func (r *WorkRepository) ListByUserID(userID int64, page, pageSize int) ([]*model.Work, int64, error) {
	var works []*model.Work
	var total int64

	query := r.db.Model(&model.Work{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&works).Error
	return works, total, err
}

// MarkProcessing worker 取到任务后更新状态
func (r *WorkRepository) MarkProcessing(id int64) error {
	now := time.Now()
	return r.db.Model(&model.Work{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     model.WorkProcessing,
		"started_at": now,
	}).Error
}

// MarkCompleted 生成成功，记录音频地址
func (r *WorkRepository) MarkCompleted(id int64, audioURL string) error {
	now := time.Now()
	return r.db.Model(&model.Work{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":        model.WorkCompleted,
		"audio_oss_url": audioURL,
		"completed_at":  now,
	}).Error
}

// MarkFailed 生成失败
func (r *WorkRepository) MarkFailed(id int64, errMsg string) error {
	now := time.Now()
	return r.db.Model(&model.Work{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":        model.WorkFailed,
		"error_message": errMsg,
		"completed_at":  now,
	}).Error
}
