package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"multiauth/internal/feature/multiauth/adapters"
	"multiauth/internal/platform/config"
	platformdb "multiauth/internal/platform/db"
	"multiauth/internal/platform/hasher"
	"multiauth/internal/platform/logger"
)

func main() {
	cfg, err := config.Load(os.Getenv(config.EnvKeyConfigFile))
	if err != nil {
		log.Fatal(err)
	}
	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := platformdb.OpenDB(platformdb.Config{Driver: cfg.DBDriver, DSN: cfg.DBDSN, Timeout: cfg.DBConnectTimeout}, zl)
	if err != nil {
		zl.Fatal("failed to open database", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	n, err := adapters.SeedDemo(ctx, db, hasher.NewBcrypt(cfg.BcryptCost))
	if err != nil {
		zl.Fatal("seed failed", zap.Error(err))
	}
	zl.Info("seed ok", zap.Int("created", n))
}
