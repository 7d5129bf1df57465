package service

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/lingxi-lab/lingxi_go_server/config"
	"github.com/lingxi-lab/lingxi_go_server/internal/model"
	"github.com/lingxi-lab/lingxi_go_server/internal/model/dto"
	"github.com/lingxi-lab/lingxi_go_server/internal/pkg/payment"
	"github.com/lingxi-lab/lingxi_go_server/internal/pkg/pubsub"
	"github.com/lingxi-lab/lingxi_go_server/internal/repository"
)

var (
	ErrPaymentsDisabled  = errors.New("支付功能暂未开启")
	ErrFreePlanOrder     = errors.New("免费套餐无需支付")
	ErrCourseNotFound    = errors.New("课程不存在或未上架")
	ErrAlreadyEnrolled   = errors.New("已购买过该课程")
	ErrOrderNotFound     = errors.New("订单不存在")
	ErrOrderClosed       = errors.New("订单已关闭")
	ErrSignatureMismatch = errors.New("支付验证失败，请联系客服")
)

// PaymentService 支付订单生命周期：created -> verified / failed / cancelled。
// verified 迁移全局只发生一次，订阅延期和角色解锁只在该迁移内执行。
type PaymentService struct {
	db         *gorm.DB
	orderRepo  *repository.OrderRepository
	planRepo   *repository.PlanRepository
	courseRepo *repository.CourseRepository
	gateway    payment.Gateway
	publisher  *pubsub.Publisher
	cfg        *config.Config
}

func NewPaymentService(
	db *gorm.DB,
	orderRepo *repository.OrderRepository,
	planRepo *repository.PlanRepository,
	courseRepo *repository.CourseRepository,
	gateway payment.Gateway,
	publisher *pubsub.Publisher,
	cfg *config.Config,
) *PaymentService {
	return &PaymentService{
		db:         db,
		orderRepo:  orderRepo,
		planRepo:   planRepo,
		courseRepo: courseRepo,
		gateway:    gateway,
		publisher:  publisher,
		cfg:        cfg,
	}
}

// Enabled 支付流程是否可用。密钥未配置时整个购买流程在下单前即被拒绝
func (s *PaymentService) Enabled() bool {
	return s.cfg.Payment.Enabled()
}

// CreateOrder 创建支付订单。先落库拿到本地单号作为商户订单号，
// 再向网关下单；网关失败时订单立即转 failed，不会留下可支付的 created 单。
func (s *PaymentService) CreateOrder(ctx context.Context, userID int64, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	if !s.Enabled() {
		return nil, ErrPaymentsDisabled
	}

	var amount float64
	var subject string
	billingCycle := ""

	switch req.Kind {
	case model.OrderKindSubscription:
		plan, err := s.planRepo.GetByID(req.TargetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPlanNotFound
			}
			return nil, err
		}
		if !plan.IsActive || !model.IsValidRole(plan.Role) {
			return nil, ErrPlanNotFound
		}
		if plan.IsFree() {
			return nil, ErrFreePlanOrder
		}

		billingCycle = req.BillingCycle
		if billingCycle == "" {
			billingCycle = model.BillingMonthly
		}
		amount = planAmount(plan, billingCycle)
		subject = plan.Name

	case model.OrderKindCourse:
		course, err := s.courseRepo.GetByID(req.TargetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCourseNotFound
			}
			return nil, err
		}
		if !course.IsPublished {
			return nil, ErrCourseNotFound
		}
		enrolled, err := s.courseRepo.HasEnrollment(userID, course.ID)
		if err != nil {
			return nil, err
		}
		if enrolled {
			return nil, ErrAlreadyEnrolled
		}
		amount = course.Price
		subject = course.Title

	default:
		return nil, ErrUnknownKind
	}

	order := &model.PaymentOrder{
		UserID:       userID,
		Kind:         req.Kind,
		TargetID:     req.TargetID,
		BillingCycle: billingCycle,
		Amount:       amount,
		Currency:     s.cfg.Payment.Currency,
		Status:       model.OrderCreated,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	gatewayOrderID, err := s.gateway.CreateOrder(ctx, &payment.GatewayOrderRequest{
		Amount:     amount,
		Currency:   order.Currency,
		Subject:    subject,
		OutTradeNo: orderTradeNo(order.ID),
	})
	if err != nil {
		// 网关失败，订单不保留 created 状态
		_ = s.orderRepo.MarkFailed(order.ID)
		return nil, err
	}

	order.GatewayOrderID = gatewayOrderID
	if err := s.db.Model(order).Update("gateway_order_id", gatewayOrderID).Error; err != nil {
		return nil, err
	}

	return &dto.CreateOrderResponse{
		OrderID:        order.ID,
		GatewayOrderID: gatewayOrderID,
		Amount:         amount,
		Currency:       order.Currency,
	}, nil
}

// VerifyCallback 验证网关回调并结算。
// 签名不匹配是硬失败：订单转 failed，订阅和角色不产生任何变更；
// 已 verified 订单的重复回调幂等返回原结果，不重复结算。
func (s *PaymentService) VerifyCallback(ctx context.Context, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error) {
	order, err := s.orderRepo.GetByID(req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.Status == model.OrderVerified {
		// 网关可能重发回调，按原成功结果返回
		return s.buildVerifiedResponse(order)
	}
	if order.Terminal() {
		return nil, ErrOrderClosed
	}

	if order.GatewayOrderID != req.GatewayOrderID ||
		!payment.Verify(s.cfg.Payment.Secret, req.GatewayOrderID, req.GatewayPaymentID, req.Signature) {
		// 记录现场便于排查篡改，但不向客户端暴露失败细节
		log.Printf("payment verify failed: signature mismatch, order=%d user=%d gateway_order=%s",
			order.ID, order.UserID, req.GatewayOrderID)
		if err := s.orderRepo.MarkFailed(order.ID); err != nil {
			return nil, err
		}
		s.notifyResult(ctx, order, false)
		return nil, ErrSignatureMismatch
	}

	resp := &dto.VerifyPaymentResponse{Success: true}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		txOrders := repository.NewOrderRepository(tx)

		ok, err := txOrders.MarkVerified(order.ID, req.GatewayPaymentID)
		if err != nil {
			return err
		}
		if !ok {
			// 并发回调抢先完成了迁移，按幂等成功处理
			return nil
		}

		switch order.Kind {
		case model.OrderKindSubscription:
			return s.settleSubscription(tx, order)
		case model.OrderKindCourse:
			return s.settleCourse(tx, order, resp)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyResult(ctx, order, true)
	return resp, nil
}

// settleSubscription 订阅单结算：按计费周期延长订阅
func (s *PaymentService) settleSubscription(tx *gorm.DB, order *model.PaymentOrder) error {
	plan, err := repository.NewPlanRepository(tx).GetByID(order.TargetID)
	if err != nil {
		return err
	}
	return ExtendSubscription(repository.NewSubscriptionRepository(tx),
		order.UserID, plan, billingCycleDays(plan, order.BillingCycle), model.SubscriptionActive)
}

// settleCourse 课程单结算：写入报名记录，必要时解锁角色
func (s *PaymentService) settleCourse(tx *gorm.DB, order *model.PaymentOrder, resp *dto.VerifyPaymentResponse) error {
	txCourses := repository.NewCourseRepository(tx)

	course, err := txCourses.GetByID(order.TargetID)
	if err != nil {
		return err
	}

	enrolled, err := txCourses.HasEnrollment(order.UserID, course.ID)
	if err != nil {
		return err
	}
	if !enrolled {
		if err := txCourses.CreateEnrollment(&model.Enrollment{
			UserID:   order.UserID,
			CourseID: course.ID,
			OrderID:  order.ID,
		}); err != nil {
			return err
		}
	}

	if course.UnlockRole == "" {
		return nil
	}

	roleService := NewRoleService(repository.NewUserRoleRepository(tx))
	alreadyUnlocked, err := roleService.UnlockRole(order.UserID, course.UnlockRole, course.ID)
	if err != nil {
		return err
	}

	resp.RoleUnlocked = !alreadyUnlocked
	resp.RoleName = course.UnlockRole
	resp.RedirectRole = roleService.RedirectRole(course.UnlockRole)
	return nil
}

// buildVerifiedResponse 重复回调时按订单现状重建原成功结果
func (s *PaymentService) buildVerifiedResponse(order *model.PaymentOrder) (*dto.VerifyPaymentResponse, error) {
	resp := &dto.VerifyPaymentResponse{Success: true}

	if order.Kind == model.OrderKindCourse {
		course, err := s.courseRepo.GetByID(order.TargetID)
		if err != nil {
			return nil, err
		}
		if course.UnlockRole != "" {
			resp.RoleName = course.UnlockRole
			resp.RedirectRole = model.RoleDashboards[course.UnlockRole]
		}
	}

	return resp, nil
}

func (s *PaymentService) notifyResult(ctx context.Context, order *model.PaymentOrder, success bool) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishPaymentResult(ctx, order.UserID, order.ID, success); err != nil {
		log.Printf("failed to publish payment result for order %d: %v", order.ID, err)
	}
}

// planAmount 按计费周期计算订单金额。年付价格由套餐数据决定，
// 未配置年付价时按 12 个月计。
func planAmount(plan *model.Plan, billingCycle string) float64 {
	if billingCycle == model.BillingYearly {
		if plan.YearlyPrice > 0 {
			return plan.YearlyPrice
		}
		return plan.Price * 12
	}
	return plan.Price
}

// billingCycleDays 计费周期对应的订阅时长
func billingCycleDays(plan *model.Plan, billingCycle string) int {
	if billingCycle == model.BillingYearly {
		return 365
	}
	return plan.DurationDays
}

func orderTradeNo(orderID int64) string {
	return "LX" + padOrderID(orderID)
}

func padOrderID(orderID int64) string {
	const digits = "0123456789"
	buf := make([]byte, 12)
	for i := len(buf) - 1; i >= 0; i-- {
		buf[i] = digits[orderID%10]
		orderID /= 10
	}
	return string(buf)
}
