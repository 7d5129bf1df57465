package main

import (
	"context"
	"fmt"
	"log"

	"github.com/lingxi-lab/lingxi_go_server/config"
	"github.com/lingxi-lab/lingxi_go_server/internal/api"
	"github.com/lingxi-lab/lingxi_go_server/internal/api/handler"
	"github.com/lingxi-lab/lingxi_go_server/internal/database"
	"github.com/lingxi-lab/lingxi_go_server/internal/pkg/oss"
	"github.com/lingxi-lab/lingxi_go_server/internal/pkg/payment"
	"github.com/lingxi-lab/lingxi_go_server/internal/pkg/pubsub"
	"github.com/lingxi-lab/lingxi_go_server/internal/pkg/queue"
	"github.com/lingxi-lab/lingxi_go_server/internal/pkg/ws"
	"github.com/lingxi-lab/lingxi_go_server/internal/repository"
	"github.com/lingxi-lab/lingxi_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 OSS（可选）
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("Warning: Failed to init OSS client: %v", err)
		} else {
			log.Println("OSS client initialized")
		}
	}

	// 初始化 Queue 和 Pub/Sub
	generateQueue := queue.NewQueue(rdb, cfg.Queue.GenerateQueue)
	publisher := pubsub.NewPublisher(rdb)
	subscriber := pubsub.NewSubscriber(rdb)

	// 初始化 WebSocket Hub，把 Redis 事件转发给在线用户
	wsHub := ws.NewHub()
	go func() {
		err := subscriber.Subscribe(context.Background(), func(ev *pubsub.Event) {
			if err := wsHub.SendToUser(ev.UserID, ev); err != nil {
				log.Printf("Failed to forward event to user %d: %v", ev.UserID, err)
			}
		})
		if err != nil {
			log.Printf("Event subscription stopped: %v", err)
		}
	}()
	log.Println("WebSocket hub started")

	// 初始化支付网关
	if !cfg.Payment.Enabled() {
		log.Println("Warning: payment gateway not configured, purchase flow disabled")
	}
	gateway := payment.NewClient(&cfg.Payment)

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	usageRepo := repository.NewUsageRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRoleRepo := repository.NewUserRoleRepository(db)
	postRepo := repository.NewPostRepository(db)
	workRepo := repository.NewWorkRepository(db)
	courseRepo := repository.NewCourseRepository(db)

	// 初始化 Service
	entitlementService := service.NewEntitlementService(subRepo)
	quotaService := service.NewQuotaService(usageRepo, planRepo, subRepo)
	safetyService := service.NewSafetyService(cfg)
	roleService := service.NewRoleService(userRoleRepo)
	subscriptionService := service.NewSubscriptionService(subRepo, planRepo, entitlementService)
	planService := service.NewPlanService(planRepo)
	paymentService := service.NewPaymentService(db, orderRepo, planRepo, courseRepo, gateway, publisher, cfg)
	postService := service.NewPostService(db, postRepo, entitlementService, quotaService, safetyService)
	workService := service.NewWorkService(db, workRepo, entitlementService, quotaService, generateQueue, publisher)
	courseService := service.NewCourseService(db, courseRepo, entitlementService, quotaService, safetyService)

	// 初始化 Handler
	userHandler := handler.NewUserHandler(userRepo, roleService, ossClient)
	quotaHandler := handler.NewQuotaHandler(quotaService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)
	planHandler := handler.NewPlanHandler(planService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	postHandler := handler.NewPostHandler(postService)
	workHandler := handler.NewWorkHandler(workService)
	courseHandler := handler.NewCourseHandler(courseService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 初始化 Router
	router := api.NewRouter(
		userHandler,
		quotaHandler,
		subscriptionHandler,
		planHandler,
		paymentHandler,
		postHandler,
		workHandler,
		courseHandler,
		websocketHandler,
		userRepo,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
