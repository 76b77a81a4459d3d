package database

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"go-dairy-ledger/pkg/logger"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config selects the dialect and connection parameters.
// DSN wins over the individual fields when set.
type Config struct {
	Driver   string
	DSN      string
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	LogLevel string
}

func (c Config) dsn() string {
	if c.DSN != "" {
		return c.DSN
	}
	if c.Driver == DriverMySQL {
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.Name)
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.User, c.Password, c.Name, c.Port,
	)
}

func (c Config) dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case "", DriverPostgres:
		return postgres.New(postgres.Config{
			DSN:                  c.dsn(),
			PreferSimpleProtocol: true, // Disables implicit prepared statements for pooled setups
		}), nil
	case DriverMySQL:
		return mysql.Open(c.dsn()), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", c.Driver)
	}
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}

// Connect opens the ledger store and tunes the pool.
func Connect(cfg Config, log *logger.Logger) (*gorm.DB, error) {
	dialector, err := cfg.dialector()
	if err != nil {
		return nil, err
	}

	newLogger := gormlogger.New(
		log.WithComponent("gorm"),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:      newLogger,
		PrepareStmt: false,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Infow("database connection established", "driver", cfg.Driver)
	return db, nil
}
