package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/lingxi-lab/lingxi_go_server/internal/model"
	"github.com/lingxi-lab/lingxi_go_server/internal/model/dto"
	"github.com/lingxi-lab/lingxi_go_server/internal/repository"
)

var (
	ErrQuotaExceeded = errors.New("当前周期配额已用完，请升级套餐")
	ErrUnknownKind   = errors.New("未知的资源类型")
)

// DefaultFreeLimits 未绑定套餐（试用期默认免费档）的限额
var DefaultFreeLimits = model.LimitMap{
	model.KindWorks:   1,
	model.KindPosts:   3,
	model.KindCourses: 1,
}

// QuotaService 通用配额服务。所有角色、所有资源类型共用一套
// (userID, resourceKind) 参数化逻辑，限额差异由套餐数据决定。
type QuotaService struct {
	usageRepo *repository.UsageRepository
	planRepo  *repository.PlanRepository
	subRepo   *repository.SubscriptionRepository
}

func NewQuotaService(
	usageRepo *repository.UsageRepository,
	planRepo *repository.PlanRepository,
	subRepo *repository.SubscriptionRepository,
) *QuotaService {
	return &QuotaService{
		usageRepo: usageRepo,
		planRepo:  planRepo,
		subRepo:   subRepo,
	}
}

// PeriodKey 按资源类型的周期粒度计算 UTC 周期键，
// 月度如 "2024-05"，日度如 "2024-05-17"。
func PeriodKey(kind string, now time.Time) string {
	now = now.UTC()
	if rk, ok := model.ResourceKinds[kind]; ok && rk.Period == model.PeriodDaily {
		return now.Format("2006-01-02")
	}
	return now.Format("2006-01")
}

// CanConsume 判定能否再创建一个该类型的资源。
// plan 为 nil 时按默认免费档限额判定；未配置或 -1 的类型不限量。
// 判定结果不是错误：达到上限返回 Allowed=false 和具体数字，由上层渲染。
func (s *QuotaService) CanConsume(userID int64, kind string, plan *model.Plan) (*dto.QuotaDecision, error) {
	rk, ok := model.ResourceKinds[kind]
	if !ok {
		return nil, ErrUnknownKind
	}

	decision := &dto.QuotaDecision{
		Kind:      kind,
		Period:    rk.Period,
		PeriodKey: PeriodKey(kind, time.Now()),
	}

	limits := DefaultFreeLimits
	if plan != nil {
		limits = plan.UsageLimits
	}

	limit, bounded := limits.Limit(kind)
	if !bounded {
		decision.Allowed = true
		decision.Unlimited = true
		return decision, nil
	}

	used, err := s.usageRepo.GetCount(userID, kind, decision.PeriodKey)
	if err != nil {
		return nil, err
	}

	decision.Limit = limit
	decision.Used = used
	decision.Allowed = used < limit
	if remaining := limit - used; remaining > 0 {
		decision.Remaining = remaining
	}
	if !decision.Allowed {
		decision.Reason = fmt.Sprintf("%s 配额已用完（%d/%d），下一周期重置", kind, used, limit)
	}

	return decision, nil
}

// CommitConsumption 确认消耗。只能在被守护的写入确定成功后调用，
// 底层为数据库级原子自增，同周期并发提交不会丢失计数。
func (s *QuotaService) CommitConsumption(userID int64, kind string) error {
	if !model.IsValidKind(kind) {
		return ErrUnknownKind
	}
	return s.usageRepo.Increment(userID, kind, PeriodKey(kind, time.Now()))
}

// PlanFor 加载订阅绑定的套餐。未绑定或套餐已删除时返回 nil，
// 调用方按默认免费档处理。
func (s *QuotaService) PlanFor(sub *model.Subscription) (*model.Plan, error) {
	if sub == nil || sub.PlanID == nil {
		return nil, nil
	}
	plan, err := s.planRepo.GetByID(*sub.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return plan, nil
}

// CheckCreate 供前端在创建入口处询问能否再创建一个该类型的资源。
// 权益未生效直接拒绝，不暴露具体原因之外的订阅细节。
func (s *QuotaService) CheckCreate(userID int64, kind string) (*dto.QuotaCheck, error) {
	if !model.IsValidKind(kind) {
		return nil, ErrUnknownKind
	}

	sub, err := s.subRepo.GetByUserID(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if !IsEntitled(sub) {
		return &dto.QuotaCheck{
			Kind:   kind,
			Reason: ErrNotEntitled.Error(),
		}, nil
	}

	plan, err := s.PlanFor(sub)
	if err != nil {
		return nil, err
	}
	decision, err := s.CanConsume(userID, kind, plan)
	if err != nil {
		return nil, err
	}

	return &dto.QuotaCheck{
		Kind:      kind,
		CanCreate: decision.Allowed,
		Reason:    decision.Reason,
		Decision:  decision,
	}, nil
}

// GetQuotaInfo 用户配额概览，含订阅角色下所有资源类型的判定
func (s *QuotaService) GetQuotaInfo(userID int64) (*dto.QuotaInfo, error) {
	info := &dto.QuotaInfo{}

	var plan *model.Plan
	kinds := []string{model.KindWorks, model.KindPosts, model.KindCourses}

	sub, err := s.subRepo.GetByUserID(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if sub != nil {
		info.Role = sub.Role
		if roleKinds, ok := model.RoleKinds[sub.Role]; ok {
			kinds = roleKinds
		}
		if sub.PlanID != nil {
			plan, err = s.planRepo.GetByID(*sub.PlanID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			if plan != nil {
				info.PlanName = plan.Name
			}
		}
	}

	for _, kind := range kinds {
		decision, err := s.CanConsume(userID, kind, plan)
		if err != nil {
			return nil, err
		}
		info.Decisions = append(info.Decisions, decision)
	}

	return info, nil
}
