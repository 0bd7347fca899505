package main

import (
	"flag"
	"log"

	"newsapi/internal/auth"
	"newsapi/internal/cache"
	"newsapi/internal/config"
	"newsapi/internal/db"
	"newsapi/internal/logger"
	"newsapi/internal/router"
	"newsapi/internal/services"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	flag.Parse()

	// .env 不存在时忽略
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zapLogger.Sync()

	gdb, err := db.Init(cfg)
	if err != nil {
		zapLogger.Fatal("连接数据库失败", zap.Error(err))
	}

	var store cache.Cache
	if cfg.Redis.Addr != "" {
		store, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			zapLogger.Fatal("连接Redis失败", zap.Error(err))
		}
		zapLogger.Info("使用 Redis 缓存", zap.String("addr", cfg.Redis.Addr))
	} else {
		store, err = cache.NewMemory(cfg.Cache.LocalSize)
		if err != nil {
			zapLogger.Fatal("初始化本地缓存失败", zap.Error(err))
		}
		zapLogger.Info("未配置 Redis，使用本地缓存")
	}

	tokens := auth.NewTokenService(cfg.JWT)
	geo := services.NewGeoService(zapLogger)

	r := router.Setup(cfg, gdb, store, tokens, geo, zapLogger)

	zapLogger.Info("服务启动", zap.String("name", cfg.Server.Name), zap.String("port", cfg.Server.Port))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		zapLogger.Fatal("服务启动失败", zap.Error(err))
	}
}
