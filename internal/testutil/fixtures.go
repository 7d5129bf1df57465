package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/lingxi-lab/lingxi_go_server/internal/model"
)

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	nano := time.Now().UnixNano()
	email := fmt.Sprintf("test_%d@example.com", nano)
	user := &model.User{
		Username: fmt.Sprintf("testuser_%d", nano%100000),
		Email:    &email,
		Nickname: "测试用户",
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithAdmin 设置为管理员
func WithAdmin() func(*model.User) {
	return func(u *model.User) {
		u.IsAdmin = true
	}
}

// TestPlan 创建测试套餐
func TestPlan(t *testing.T, db *gorm.DB, opts ...func(*model.Plan)) *model.Plan {
	t.Helper()

	plan := &model.Plan{
		Role:         model.RoleArtist,
		Name:         fmt.Sprintf("测试套餐 %d", time.Now().UnixNano()%10000),
		Price:        29.9,
		DurationDays: 30,
		UsageLimits: model.LimitMap{
			model.KindWorks: 5,
			model.KindPosts: 10,
		},
		IsActive: true,
	}

	for _, opt := range opts {
		opt(plan)
	}

	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("Failed to create test plan: %v", err)
	}

	return plan
}

// WithRole 设置套餐角色
func WithRole(role string) func(*model.Plan) {
	return func(p *model.Plan) {
		p.Role = role
	}
}

// WithPrice 设置价格
func WithPrice(price float64) func(*model.Plan) {
	return func(p *model.Plan) {
		p.Price = price
	}
}

// WithLimits 设置配额限额
func WithLimits(limits model.LimitMap) func(*model.Plan) {
	return func(p *model.Plan) {
		p.UsageLimits = limits
	}
}

// WithInactive 设置为下架
func WithInactive() func(*model.Plan) {
	return func(p *model.Plan) {
		p.IsActive = false
	}
}

// TestSubscription 创建测试订阅
func TestSubscription(t *testing.T, db *gorm.DB, userID int64, plan *model.Plan, opts ...func(*model.Subscription)) *model.Subscription {
	t.Helper()

	expiresAt := time.Now().AddDate(0, 0, 30)
	sub := &model.Subscription{
		UserID:    userID,
		Role:      plan.Role,
		PlanID:    &plan.ID,
		Status:    model.SubscriptionActive,
		ExpiresAt: &expiresAt,
	}

	for _, opt := range opts {
		opt(sub)
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	return sub
}

// WithStatus 设置订阅状态
func WithStatus(status string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Status = status
	}
}

// WithExpiresAt 设置过期时间
func WithExpiresAt(expiresAt time.Time) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.ExpiresAt = &expiresAt
	}
}

// TestCourse 创建测试课程
func TestCourse(t *testing.T, db *gorm.DB, teacherID int64, opts ...func(*model.Course)) *model.Course {
	t.Helper()

	course := &model.Course{
		TeacherID:   teacherID,
		Title:       fmt.Sprintf("测试课程 %d", time.Now().UnixNano()%10000),
		Description: "课程介绍",
		Price:       99.0,
		IsPublished: true,
	}

	for _, opt := range opts {
		opt(course)
	}

	if err := db.Create(course).Error; err != nil {
		t.Fatalf("Failed to create test course: %v", err)
	}

	return course
}

// WithUnlockRole 设置购买后解锁的角色
func WithUnlockRole(role string) func(*model.Course) {
	return func(c *model.Course) {
		c.UnlockRole = role
	}
}

// WithUnpublished 设置为未上架
func WithUnpublished() func(*model.Course) {
	return func(c *model.Course) {
		c.IsPublished = false
	}
}

// TestOrder 创建测试订单
func TestOrder(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.PaymentOrder)) *model.PaymentOrder {
	t.Helper()

	order := &model.PaymentOrder{
		UserID:         userID,
		Kind:           model.OrderKindSubscription,
		TargetID:       1,
		BillingCycle:   model.BillingMonthly,
		Amount:         29.9,
		Currency:       "CNY",
		Status:         model.OrderCreated,
		GatewayOrderID: fmt.Sprintf("gw_%d", time.Now().UnixNano()),
	}

	for _, opt := range opts {
		opt(order)
	}

	if err := db.Create(order).Error; err != nil {
		t.Fatalf("Failed to create test order: %v", err)
	}

	return order
}

// WithOrderKind 设置订单类型和目标
func WithOrderKind(kind string, targetID int64) func(*model.PaymentOrder) {
	return func(o *model.PaymentOrder) {
		o.Kind = kind
		o.TargetID = targetID
	}
}

// WithOrderStatus 设置订单状态
func WithOrderStatus(status string) func(*model.PaymentOrder) {
	return func(o *model.PaymentOrder) {
		o.Status = status
	}
}

// WithGatewayOrderID 设置网关订单号
func WithGatewayOrderID(id string) func(*model.PaymentOrder) {
	return func(o *model.PaymentOrder) {
		o.GatewayOrderID = id
	}
}
