// Package db opens the gorm connection backing the entity record store.
package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// retryInterval is the pause between connection attempts.
var retryInterval = 3 * time.Second

// DialectorOpener returns a gorm.Dialector for a given DSN.
type DialectorOpener = func(string) gorm.Dialector

// dialectors maps DB_DRIVER values to gorm dialects.
var dialectors = map[string]DialectorOpener{
	"sqlite":   sqlite.Open,
	"postgres": postgres.Open,
}

// Config holds the database connection settings.
type Config struct {
	Driver  string
	DSN     string
	Timeout time.Duration
}

// Opener opens a gorm connection for a DSN. It is swapped out in tests.
type Opener func(dsn string) (*gorm.DB, error)

// DialectorFor returns the dialect opener registered for driver.
func DialectorFor(driver string) (DialectorOpener, error) {
	open, ok := dialectors[driver]
	if !ok {
		return nil, fmt.Errorf("db: unknown driver %q", driver)
	}
	return open, nil
}

// OpenDB connects to the configured database, retrying until cfg.Timeout elapses.
func OpenDB(cfg Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := DialectorFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	opener := func(dsn string) (*gorm.DB, error) {
		return gorm.Open(dialector(dsn), &gorm.Config{})
	}

	db, err := ConnectWithRetry(cfg.DSN, cfg.Timeout, opener, log)
	if err != nil {
		return nil, err
	}
	log.Info("database connected", zap.String("driver", cfg.Driver))
	return db, nil
}

// ConnectWithRetry calls opener until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener, log *zap.Logger) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %v: %w", timeout, err)
		}
		log.Warn("db connect failed, retrying", zap.Error(err))
		time.Sleep(retryInterval)
	}
}
