// File: internal/platform/database/gorm.go
package database

import (
	"fmt"
	"time"

	"gamehub_backend/internal/config"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewGORM opens the reconciliation ledger database selected by DB_DRIVER.
// The returned cleanup closes the connection pool.
func NewGORM(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:      newGORMLogger(cfg, logger),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.DBDriver == "postgres" {
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	} else {
		// SQLite serialises writers; one connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	}

	if err = sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database", zap.String("driver", cfg.DBDriver))
	cleanup := func() {
		logger.Info("Closing database connection...")
		if err := sqlDB.Close(); err != nil {
			logger.Error("Error closing database connection", zap.Error(err))
		}
	}
	return db, cleanup, nil
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
			cfg.DBSSLMode,
			cfg.DBTimezone,
		)
		return postgres.Open(dsn), nil
	case "sqlite", "":
		return sqlite.Open(cfg.DBSQLitePath), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func newGORMLogger(cfg *config.Config, logger *zap.Logger) gormlogger.Interface {
	var level gormlogger.LogLevel
	switch cfg.LogLevel {
	case "silent", "fatal", "panic":
		level = gormlogger.Silent
	case "error":
		level = gormlogger.Error
	case "debug":
		level = gormlogger.Info
	default:
		level = gormlogger.Warn
	}

	return gormlogger.New(
		zap.NewStdLog(logger.Named("gorm")),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
