package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"go-user-table/internal/core/cache"
	"go-user-table/internal/core/config"
	"go-user-table/internal/core/database"
	"go-user-table/internal/core/logger"
	"go-user-table/internal/core/server"
	"go-user-table/internal/domain"
	"go-user-table/internal/repo"
	"go-user-table/internal/table"
	"go-user-table/internal/transport/http/handler"
	"go-user-table/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	// 数据库只在数据来源或后端需要时打开（失败会直接 Fatal）
	var userRepo *repo.UserRepo
	if cfg.NeedsDB() {
		db := mustOpenDB(cfg, log)
		log.Info("database connected", zap.String("driver", cfg.DB.Driver))
		userRepo = repo.NewUserRepo(db)
		if cfg.DB.AutoMigrate {
			if err := userRepo.Migrate(); err != nil {
				log.Fatal("automigrate failed", zap.Error(err))
			}
			log.Info("automigrate done")
		}
	}

	// 初始用户列表
	src, closeSrc := buildSource(cfg, userRepo, log)
	defer closeSrc()
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	users, err := src.LoadUsers(loadCtx)
	cancelLoad()
	if err != nil {
		log.Fatal("load users failed", zap.Error(err))
	}
	log.Info("users loaded", zap.Int("count", len(users)), zap.String("source", cfg.Table.Source))

	// 表格会话；确认与告警按请求收集
	tbl := table.New(users, table.Options{
		PageSize:  cfg.Table.PageSize,
		Backend:   buildBackend(cfg, userRepo),
		Confirmer: handler.RequestConfirmer(),
		Alerter:   handler.RequestAlerter(log),
		Logger:    log,
	})

	r := router.NewAPIEngine(log, handler.NewTableHandler(tbl, log), router.Options{
		RequestTimeout: time.Duration(cfg.App.HTTP.RequestTimeoutSec) * time.Second,
	})

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("user table starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("table", baseURL+"/api/v1/table"),
	)

	// 异步启动
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("user table start FAILED", zap.Error(err))
		}
	}()
	log.Info("user table started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("user table stopped gracefully")
}

func buildSource(cfg *config.Config, userRepo *repo.UserRepo, l *zap.Logger) (domain.UserSource, func()) {
	var src domain.UserSource = repo.NewSeedSource(cfg.Table.SeedCount)
	if cfg.Table.Source == "db" {
		src = userRepo
	}
	if cfg.Table.CacheTTLSec <= 0 || cfg.Redis.Addr == "" {
		return src, func() {}
	}

	c := cache.New(cfg.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		l.Warn("redis unavailable, loading users without cache", zap.Error(err))
	}
	return &repo.CachedSource{
		Source: src,
		Cache:  c,
		TTL:    time.Duration(cfg.Table.CacheTTLSec) * time.Second,
	}, func() { _ = c.Close() }
}

func buildBackend(cfg *config.Config, userRepo *repo.UserRepo) table.Backend {
	if cfg.Table.Backend == "db" {
		return userRepo
	}
	return &table.SimulatedBackend{
		SaveLatency:       cfg.Table.SaveLatency(),
		DeleteLatency:     cfg.Table.DeleteLatency(),
		BulkDeleteLatency: cfg.Table.BulkDeleteLatency(),
	}
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.OptsFromConfig(cfg.DB), l)
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
