package api

import (
	"github.com/gin-gonic/gin"

	"github.com/lingxi-lab/lingxi_go_server/config"
	"github.com/lingxi-lab/lingxi_go_server/internal/api/handler"
	"github.com/lingxi-lab/lingxi_go_server/internal/api/middleware"
	"github.com/lingxi-lab/lingxi_go_server/internal/repository"
)

type Router struct {
	userHandler         *handler.UserHandler
	quotaHandler        *handler.QuotaHandler
	subscriptionHandler *handler.SubscriptionHandler
	planHandler         *handler.PlanHandler
	paymentHandler      *handler.PaymentHandler
	postHandler         *handler.PostHandler
	workHandler         *handler.WorkHandler
	courseHandler       *handler.CourseHandler
	websocketHandler    *handler.WebSocketHandler
	userRepo            *repository.UserRepository
	cfg                 *config.Config
}

func NewRouter(
	userHandler *handler.UserHandler,
	quotaHandler *handler.QuotaHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	planHandler *handler.PlanHandler,
	paymentHandler *handler.PaymentHandler,
	postHandler *handler.PostHandler,
	workHandler *handler.WorkHandler,
	courseHandler *handler.CourseHandler,
	websocketHandler *handler.WebSocketHandler,
	userRepo *repository.UserRepository,
	cfg *config.Config,
) *Router {
	return &Router{
		userHandler:         userHandler,
		quotaHandler:        quotaHandler,
		subscriptionHandler: subscriptionHandler,
		planHandler:         planHandler,
		paymentHandler:      paymentHandler,
		postHandler:         postHandler,
		workHandler:         workHandler,
		courseHandler:       courseHandler,
		websocketHandler:    websocketHandler,
		userRepo:            userRepo,
		cfg:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 套餐目录
		api.GET("/plans", r.planHandler.List)

		// 支付网关回调（签名校验在 service 内完成）
		api.POST("/payment/callback", r.paymentHandler.VerifyCallback)

		// 课程列表（可选认证，登录后附带已购标记）
		courses := api.Group("/courses")
		courses.Use(middleware.OptionalAuth(r.cfg.JWT.Secret))
		{
			courses.GET("", r.courseHandler.List)
				courses.GET("/:id", r.courseHandler.Get)
		}

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			// 用户
			user := authenticated.Group("/user")
			{
				user.GET("/profile", r.userHandler.GetProfile)
				user.PUT("/profile", r.userHandler.UpdateProfile)
				user.POST("/avatar", r.userHandler.UploadAvatar)
				user.GET("/quota", r.quotaHandler.GetQuota)
				user.GET("/quota/check", r.quotaHandler.CheckQuota)
				user.GET("/subscription", r.subscriptionHandler.GetSubscription)
			}

			// 订阅与购买
			authenticated.POST("/plans/activate-free", r.subscriptionHandler.ActivateFreePlan)
			authenticated.POST("/orders", r.paymentHandler.CreateOrder)

			// 内容创建（权益门禁和配额判定在 service 内逐级执行）
			authenticated.POST("/posts", r.postHandler.Publish)
			authenticated.GET("/posts", r.postHandler.List)
			authenticated.POST("/works", r.workHandler.Create)
			authenticated.GET("/works", r.workHandler.List)
			authenticated.GET("/works/:id", r.workHandler.Get)
			authenticated.POST("/courses", r.courseHandler.Create)
		}

		// 管理端
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(r.cfg.JWT.Secret), middleware.AdminOnly(r.userRepo))
		{
			admin.POST("/plans", r.planHandler.Create)
			admin.PUT("/plans/:id", r.planHandler.Update)
			admin.PUT("/users/:id/subscription", r.subscriptionHandler.OverrideSubscription)
		}
	}

	return engine
}
