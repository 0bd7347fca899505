package db

import (
	"errors"

	"newsapi/internal/auth"
	"newsapi/internal/config"
	"newsapi/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Init 建立数据库连接并执行迁移
func Init(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=newsapi port=5432 sslmode=disable TimeZone=Asia/Shanghai"
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLevel(cfg.Database.LogLevel)),
	})
	if err != nil {
		return nil, err
	}

	pool, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(30)
	pool.SetMaxIdleConns(15)

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	if err := SeedAdmin(gdb, cfg.Admin); err != nil {
		return nil, err
	}
	return gdb, nil
}

// SeedAdmin 幂等创建初始管理员，保证管理端接口开箱可用
func SeedAdmin(gdb *gorm.DB, cfg config.AdminConfig) error {
	if cfg.Email == "" {
		return nil
	}

	var existing models.User
	err := gdb.Where("email = ?", cfg.Email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return err
	}
	return gdb.Create(&models.User{
		Username: cfg.Username,
		Email:    cfg.Email,
		Password: hash,
		Role:     models.RoleAdmin,
		IsActive: true,
	}).Error
}

// Migrate 迁移所有模型，测试里用 sqlite 复用
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Article{},
		&models.Comment{},
		&models.Visit{},
	)
}

func gormLevel(level string) gormLogger.LogLevel {
	switch level {
	case "silent":
		return gormLogger.Silent
	case "error":
		return gormLogger.Error
	case "warn", "warning":
		return gormLogger.Warn
	case "info", "debug":
		return gormLogger.Info
	default:
		return gormLogger.Warn
	}
}
