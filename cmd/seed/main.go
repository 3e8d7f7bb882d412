package main

import (
	"context"
	"flag"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go-user-table/internal/core/config"
	"go-user-table/internal/core/database"
	"go-user-table/internal/core/logger"
	"go-user-table/internal/repo"
)

// seed 建表并写入演示用户，供 table.source=db 使用
func main() {
	count := flag.Int("n", 0, "number of users to insert (default: table.seedCount)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()

	db, err := database.NewGorm(database.OptsFromConfig(cfg.DB), log)
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	userRepo := repo.NewUserRepo(db)
	if err := userRepo.Migrate(); err != nil {
		log.Fatal("automigrate failed", zap.Error(err))
	}

	n := *count
	if n <= 0 {
		n = cfg.Table.SeedCount
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	users := repo.NewSeedSource(n).Generate()
	if err := userRepo.CreateUsers(ctx, users); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
	log.Info("seed done", zap.Int("count", len(users)))
}
