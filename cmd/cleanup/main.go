package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/lingxi-lab/lingxi_go_server/config"
	"github.com/lingxi-lab/lingxi_go_server/internal/repository"
)

var (
	dryRun     = flag.Bool("dry-run", true, "Dry run mode, don't actually cancel orders")
	staleAfter = flag.Int("stale-after", 0, "Days before a created order is considered stale (0 = use config)")
)

func main() {
	flag.Parse()

	log.Println("🧹 Starting order cleanup task...")
	log.Printf("Mode: dry-run=%v", *dryRun)

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 连接数据库
	db, err := connectDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	days := *staleAfter
	if days <= 0 {
		days = cfg.Order.StaleAfterDays
	}
	if days <= 0 {
		days = 3
	}
	staleDuration := time.Duration(days) * 24 * time.Hour

	orderRepo := repository.NewOrderRepository(db)

	// 列出过期未支付的订单
	log.Printf("\n📦 Scanning orders stuck in created for more than %d days...", days)
	stale, err := orderRepo.ListStaleCreated(staleDuration)
	if err != nil {
		log.Fatalf("Failed to list stale orders: %v", err)
	}

	for _, order := range stale {
		log.Printf("  - order %d (user %d, %s %.2f %s, created %s)",
			order.ID, order.UserID, order.Kind, order.Amount, order.Currency,
			order.CreatedAt.Format("2006-01-02 15:04"))
	}

	cancelled := int64(len(stale))
	if !*dryRun && len(stale) > 0 {
		cancelled, err = orderRepo.CancelStaleCreated(staleDuration)
		if err != nil {
			log.Fatalf("Failed to cancel stale orders: %v", err)
		}
	}

	// 输出统计
	log.Println("\n" + strings.Repeat("=", 60))
	log.Println("📊 Cleanup Summary")
	log.Println(strings.Repeat("=", 60))
	log.Printf("Stale orders found: %d", len(stale))
	log.Printf("Orders cancelled: %d", cancelled)
	if *dryRun {
		log.Println("\n⚠️  DRY RUN MODE - No orders were actually cancelled")
		log.Println("   Run with -dry-run=false to actually cancel orders")
	} else {
		log.Println("\n✅ Cleanup completed!")
	}
	log.Println(strings.Repeat("=", 60))
}

// connectDB 连接数据库
func connectDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Database,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
