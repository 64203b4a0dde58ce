package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hkexpatjobs/internal/config"
)

// InitDatabase 使用配置初始化数据库连接（PostgreSQL 或 MySQL/MariaDB），并返回 GORM 数据库实例。
func InitDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap db: %w", err)
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

func openDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "postgres":
		return postgres.Open(cfg.DSN()), nil
	case "mysql", "mariadb":
		return mysql.Open(cfg.MySQLDSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// AutoMigrate 创建或更新全部业务表。
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&User{}, &Company{}, &Job{}, &JobLanguage{}, &Application{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Ping checks store connectivity within the given context.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("unwrap db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// IsPostgres reports whether db runs on the PostgreSQL dialect.
func IsPostgres(db *gorm.DB) bool {
	return db != nil && db.Dialector != nil && db.Dialector.Name() == "postgres"
}
