package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"multiauth/internal/app/di"
	"multiauth/internal/app/router"
	authhandler "multiauth/internal/feature/multiauth/transport/handler"
	"multiauth/internal/platform/config"
	platformdb "multiauth/internal/platform/db"
	"multiauth/internal/platform/http/handler"
	jwtmw "multiauth/internal/platform/jwt"
	"multiauth/internal/platform/logger"
	platformredis "multiauth/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

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

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := platformdb.OpenDB(platformdb.Config{Driver: cfg.DBDriver, DSN: cfg.DBDSN, Timeout: cfg.DBConnectTimeout}, zl)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	// Redis (optional)
	var rdb *redisv9.Client
	if cfg.RedisAddr != "" {
		if tmp, err := platformredis.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, zl); err != nil {
			zl.Warn("redis unavailable, running without lookup cache", zap.Error(err))
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					zl.Error("failed to close redis client", zap.Error(err))
				}
			}()
		}
	}

	provider, err := di.NewProvider(ctx, cfg, db, rdb, zl)
	if err != nil {
		return err
	}

	if cfg.JWTSecret == "" {
		zl.Warn("JWT_SECRET is not set; protected routes will answer 500. Set a strong secret in production.")
	}

	authH := authhandler.NewAuthHandler(provider, jwtmw.NewGenerator(cfg.JWTSecret, cfg.JWTTTL), cfg.IdentifierKey, zl)

	deps := map[string]handler.Pinger{"db": sqlDB}
	if rdb != nil {
		deps["redis"] = handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.NewRouter(authH, cfg.JWTSecret, deps, zl),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	zl.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
