package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"go-dairy-ledger/internal/config"
	"go-dairy-ledger/internal/repository"
	"go-dairy-ledger/internal/service"
	"go-dairy-ledger/pkg/database"
	"go-dairy-ledger/pkg/jwt"
	"go-dairy-ledger/pkg/logger"
)

func main() {
	username := flag.String("username", "admin", "admin or dairy username")
	password := flag.String("password", "admin", "new password")
	flag.Parse()

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

	// 3. Reset
	auth := service.NewAuthService(repository.NewAdminRepo(db), repository.NewDairyRepo(db), jwt.NewSigner(cfg.JWTSecret, cfg.SessionTTL))
	if err := auth.ResetPassword(context.Background(), *username, *password); err != nil {
		appLog.Fatalw("password reset failed", "username", *username, "error", err)
	}

	appLog.Infow("password reset", "username", *username)
}
