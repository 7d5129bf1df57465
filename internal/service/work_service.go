package service

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/lingxi-lab/lingxi_go_server/internal/model"
	"github.com/lingxi-lab/lingxi_go_server/internal/model/dto"
	"github.com/lingxi-lab/lingxi_go_server/internal/pkg/pubsub"
	"github.com/lingxi-lab/lingxi_go_server/internal/pkg/queue"
	"github.com/lingxi-lab/lingxi_go_server/internal/repository"
)

var ErrWorkNotFound = errors.New("作品不存在")

// WorkService AI 音乐生成作品。创建即占用当日配额，
// 生成由 worker 异步完成，进度通过 Redis 发布订阅推送。
type WorkService struct {
	db          *gorm.DB
	workRepo    *repository.WorkRepository
	entitlement *EntitlementService
	quota       *QuotaService
	queue       *queue.Queue
	publisher   *pubsub.Publisher
}

func NewWorkService(
	db *gorm.DB,
	workRepo *repository.WorkRepository,
	entitlement *EntitlementService,
	quota *QuotaService,
	q *queue.Queue,
	publisher *pubsub.Publisher,
) *WorkService {
	return &WorkService{
		db:          db,
		workRepo:    workRepo,
		entitlement: entitlement,
		quota:       quota,
		queue:       q,
		publisher:   publisher,
	}
}

// Create 创建生成任务：权益门禁 -> 配额判定 -> 落库并确认消耗（同事务）-> 入队。
// 入队失败时标记任务失败并退还当日配额。
func (s *WorkService) Create(ctx context.Context, userID int64, req *dto.CreateWorkRequest) (*model.Work, *dto.QuotaDecision, error) {
	sub, err := s.entitlement.RequireEntitled(userID)
	if err != nil {
		return nil, nil, err
	}

	plan, err := s.quota.PlanFor(sub)
	if err != nil {
		return nil, nil, err
	}

	decision, err := s.quota.CanConsume(userID, model.KindWorks, plan)
	if err != nil {
		return nil, nil, err
	}
	if !decision.Allowed {
		return nil, decision, ErrQuotaExceeded
	}

	work := &model.Work{
		UserID:      userID,
		Title:       req.Title,
		Prompt:      req.Prompt,
		Style:       req.Style,
		DurationSec: req.DurationSec,
		Status:      model.WorkPending,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewWorkRepository(tx).Create(work); err != nil {
			return err
		}
		return NewQuotaService(
			repository.NewUsageRepository(tx), s.quota.planRepo, s.quota.subRepo,
		).CommitConsumption(userID, model.KindWorks)
	})
	if err != nil {
		return nil, nil, err
	}

	if err := s.queue.Push(ctx, &queue.GenerateMessage{
		WorkID:      work.ID,
		UserID:      userID,
		Prompt:      req.Prompt,
		Style:       req.Style,
		DurationSec: req.DurationSec,
	}); err != nil {
		// 队列不可用时回滚业务效果：任务标记失败，退还当日配额
		if markErr := s.workRepo.MarkFailed(work.ID, "任务入队失败"); markErr != nil {
			log.Printf("failed to mark work %d failed after enqueue error: %v", work.ID, markErr)
		}
		if decErr := s.quota.usageRepo.Decrement(userID, model.KindWorks, PeriodKey(model.KindWorks, work.CreatedAt)); decErr != nil {
			log.Printf("failed to refund works quota for user %d: %v", userID, decErr)
		}
		return nil, nil, err
	}

	if err := s.publisher.PublishProgress(ctx, &pubsub.Event{
		UserID: userID,
		WorkID: work.ID,
		Status: model.WorkPending,
		Step:   pubsub.StepQueued,
	}); err != nil {
		log.Printf("failed to publish queued progress for work %d: %v", work.ID, err)
	}

	return work, decision, nil
}

// Get 查询单个作品，仅限本人
func (s *WorkService) Get(userID, workID int64) (*model.Work, error) {
	work, err := s.workRepo.GetByID(workID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkNotFound
		}
		return nil, err
	}
	if work.UserID != userID {
		return nil, ErrWorkNotFound
	}
	return work, nil
}

// List 用户自己的作品列表
func (s *WorkService) List(userID int64, page, pageSize int) ([]*dto.WorkListItem, int64, error) {
	works, total, err := s.workRepo.ListByUserID(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.WorkListItem, 0, len(works))
	for _, w := range works {
		items = append(items, &dto.WorkListItem{
			ID:          w.ID,
			Title:       w.Title,
			Style:       w.Style,
			Status:      w.Status,
			AudioOSSURL: w.AudioOSSURL,
			CreatedAt:   w.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return items, total, nil
}
