package service

import (
	"gorm.io/gorm"

	"github.com/lingxi-lab/lingxi_go_server/internal/model"
	"github.com/lingxi-lab/lingxi_go_server/internal/model/dto"
	"github.com/lingxi-lab/lingxi_go_server/internal/repository"
)

// PostService 动态/文章发布。发布顺序固定：
// 权益门禁 -> 配额判定 -> 内容审核 -> 落库并确认消耗（同事务）。
// 任何一步拒绝都不产生计数消耗。
type PostService struct {
	db          *gorm.DB
	postRepo    *repository.PostRepository
	entitlement *EntitlementService
	quota       *QuotaService
	safety      *SafetyService
}

func NewPostService(
	db *gorm.DB,
	postRepo *repository.PostRepository,
	entitlement *EntitlementService,
	quota *QuotaService,
	safety *SafetyService,
) *PostService {
	return &PostService{
		db:          db,
		postRepo:    postRepo,
		entitlement: entitlement,
		quota:       quota,
		safety:      safety,
	}
}

// Publish 发布动态。返回的 QuotaDecision 在达到上限时携带具体数字。
func (s *PostService) Publish(userID int64, req *dto.PublishPostRequest) (*model.Post, *dto.QuotaDecision, error) {
	sub, err := s.entitlement.RequireEntitled(userID)
	if err != nil {
		return nil, nil, err
	}

	plan, err := s.quota.PlanFor(sub)
	if err != nil {
		return nil, nil, err
	}

	decision, err := s.quota.CanConsume(userID, model.KindPosts, plan)
	if err != nil {
		return nil, nil, err
	}
	if !decision.Allowed {
		return nil, decision, ErrQuotaExceeded
	}

	if result := s.safety.Validate(req.Title + "\n" + req.Content); !result.Valid {
		return nil, nil, ErrContentRejected
	}

	post := &model.Post{
		UserID:  userID,
		Role:    sub.Role,
		Title:   req.Title,
		Content: req.Content,
		Tags:    model.StringArray(req.Tags),
	}

	// 落库和计数自增在同一事务，发布成功与消耗确认不可分离
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewPostRepository(tx).Create(post); err != nil {
			return err
		}
		return NewQuotaService(
			repository.NewUsageRepository(tx), s.quota.planRepo, s.quota.subRepo,
		).CommitConsumption(userID, model.KindPosts)
	})
	if err != nil {
		return nil, nil, err
	}

	return post, decision, nil
}

// List 用户自己的动态列表
func (s *PostService) List(userID int64, page, pageSize int) ([]*dto.PostListItem, int64, error) {
	posts, total, err := s.postRepo.ListByUserID(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.PostListItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, &dto.PostListItem{
			ID:        p.ID,
			Title:     p.Title,
			Tags:      p.Tags,
			ViewCount: p.ViewCount,
			LikeCount: p.LikeCount,
			CreatedAt: p.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return items, total, nil
}
