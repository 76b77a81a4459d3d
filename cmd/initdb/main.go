package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"go-dairy-ledger/internal/config"
	"go-dairy-ledger/internal/model"
	"go-dairy-ledger/internal/repository"
	"go-dairy-ledger/internal/service"
	"go-dairy-ledger/pkg/database"
	"go-dairy-ledger/pkg/logger"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg := config.Load()

	appLog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer appLog.Sync()

	// 2. Setup Database
	db, err := database.Connect(cfg.Database, appLog)
	if err != nil {
		appLog.Fatalw("database connection failed", "error", err)
	}

	// 3. Create schema
	if err := db.AutoMigrate(model.All()...); err != nil {
		appLog.Fatalw("migration failed", "error", err)
	}

	// 4. Seed admin and sample dairy
	if err := service.SeedDefaults(context.Background(), repository.NewAdminRepo(db), repository.NewDairyRepo(db), appLog); err != nil {
		appLog.Fatalw("seed failed", "error", err)
	}

	appLog.Info("Initialized DB with default admin (admin/admin) and sample dairy (dairy/dairy)")
}
