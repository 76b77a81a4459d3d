package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"go-dairy-ledger/internal/config"
	"go-dairy-ledger/internal/export"
	"go-dairy-ledger/internal/handler"
	"go-dairy-ledger/internal/model"
	"go-dairy-ledger/internal/report"
	"go-dairy-ledger/internal/repository"
	"go-dairy-ledger/internal/service"
	"go-dairy-ledger/pkg/database"
	"go-dairy-ledger/pkg/jwt"
	"go-dairy-ledger/pkg/logger"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()

	appLog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer appLog.Sync()
	if err := cfg.Validate(); err != nil {
		appLog.Fatalw("refusing to start", "env", cfg.Env, "error", err)
	}
	for _, w := range cfg.Warnings() {
		appLog.Warn(w)
	}

	basis, err := report.ParseProfitBasis(cfg.ProfitCostBasis)
	if err != nil {
		appLog.Fatalw("invalid PROFIT_COST_BASIS", "error", err)
	}

	// 2. Setup Database
	db, err := database.Connect(cfg.Database, appLog)
	if err != nil {
		appLog.Fatalw("database connection failed", "error", err)
	}
	// Auto Migrate (use cmd/initdb or a migration tool in production)
	if err := db.AutoMigrate(model.All()...); err != nil {
		appLog.Fatalw("migration failed", "error", err)
	}

	// 3. Seed default admin and sample dairy
	adminRepo := repository.NewAdminRepo(db)
	dairyRepo := repository.NewDairyRepo(db)
	if err := service.SeedDefaults(context.Background(), adminRepo, dairyRepo, appLog); err != nil {
		appLog.Warnw("seeding defaults failed", "error", err)
	}

	// 4. Export lock: Redis when configured, otherwise in-process
	locker := export.NewLocalLocker()
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisLocker, rdb, err := export.NewRedisLocker(ctx, cfg.RedisAddr, appLog)
		cancel()
		if err != nil {
			appLog.Warnw("redis unavailable, using in-process export lock", "addr", cfg.RedisAddr, "error", err)
		} else {
			defer rdb.Close()
			locker = redisLocker
			appLog.Infow("connected to redis", "addr", cfg.RedisAddr)
		}
	}

	// 5. Dependency Injection (Wiring Layers)
	signer := jwt.NewSigner(cfg.JWTSecret, cfg.SessionTTL)
	txManager := repository.NewTxManager(db)
	productRepo := repository.NewProductRepo(db)
	stockInRepo := repository.NewStockInRepo(db)
	saleRepo := repository.NewSaleRepo(db)

	logos := export.NewLogos(cfg.AppRoot, cfg.UploadDir)
	spreadsheet := export.NewSpreadsheet(cfg.ReportDir, locker)

	authService := service.NewAuthService(adminRepo, dairyRepo, signer)
	dairyService := service.NewDairyService(dairyRepo, adminRepo, logos, appLog)
	productService := service.NewProductService(txManager, productRepo)
	stockService := service.NewStockService(txManager, productRepo, stockInRepo, saleRepo, appLog)
	reportService := service.NewReportService(stockInRepo, saleRepo, dairyRepo, spreadsheet, logos, basis, appLog)
	dashService := service.NewDashboardService(productRepo, stockInRepo, saleRepo)

	handlers := handler.Handlers{
		Auth:      handler.NewAuthHandler(authService, cfg.CookieSecure),
		Admin:     handler.NewAdminHandler(dairyService),
		Products:  handler.NewProductHandler(productService, appLog),
		StockIns:  handler.NewStockInHandler(stockService, appLog),
		Sales:     handler.NewSaleHandler(stockService, appLog),
		Reports:   handler.NewReportHandler(reportService, appLog),
		Dashboard: handler.NewDashboardHandler(dashService, appLog),
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Dairy Ledger v1.0",
		ErrorHandler: handler.ErrorHandler(appLog.WithComponent("http")),
		BodyLimit:    8 * 1024 * 1024,
	})

	// Middleware
	app.Use(fiberlogger.New())
	app.Use(recover.New())
	origins := strings.Split(cfg.CORSOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: cfg.CORSOrigins != "*",
	}))

	// 7. Routes
	handler.RegisterRoutes(app, handlers, signer)

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		appLog.Fatalw("Server forced to shutdown", "error", err)
	}

	appLog.Info("Server exited")
}
