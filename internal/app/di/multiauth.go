// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"multiauth/internal/feature/multiauth/adapters"
	"multiauth/internal/feature/multiauth/domain/entity"
	"multiauth/internal/feature/multiauth/usecase"
	"multiauth/internal/platform/cache"
	"multiauth/internal/platform/config"
	"multiauth/internal/platform/hasher"
)

// lookupNamespace prefixes cached identifier lookups in Redis.
const lookupNamespace = "multiauth:lookup"

// NewRegistry loads the entity registry and checks every definition names
// a known record kind.
func NewRegistry(raw []map[string]string, kinds entity.Kinds) (*entity.Registry, error) {
	reg, err := entity.LoadRegistry(raw)
	if err != nil {
		return nil, err
	}
	if err := kinds.Validate(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// NewResolver builds the identifier resolver for strategy. When rdb is
// non-nil the resolver is wrapped with a Redis cache.
func NewResolver(strategy string, db *gorm.DB, reg *entity.Registry, store usecase.RecordStore, rdb *redis.Client, ttl time.Duration) (usecase.IdentifierResolver, error) {
	var inner usecase.IdentifierResolver
	switch strategy {
	case config.ResolverUnion, "":
		inner = adapters.NewFederatedGorm(db, reg)
	case config.ResolverFanOut:
		inner = usecase.NewFanOutResolver(reg, store)
	default:
		return nil, fmt.Errorf("unknown resolver strategy %q", strategy)
	}

	if rdb == nil {
		return inner, nil
	}
	return cache.NewCachingResolver(rdb, ttl, inner, lookupNamespace), nil
}

// NewProvider wires the authentication provider from cfg. It migrates the
// entity tables when cfg.RunMigrations is set and always verifies the schema.
func NewProvider(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client, log *zap.Logger) (*usecase.Provider, error) {
	kinds := adapters.DefaultKinds()
	reg, err := NewRegistry(cfg.Entities, kinds)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := adapters.Migrate(ctx, db, reg, kinds); err != nil {
			return nil, err
		}
		log.Info("entity tables migrated", zap.Int("entities", reg.Len()))
	}
	if err := adapters.VerifySchema(ctx, db, reg); err != nil {
		return nil, err
	}

	store := adapters.NewRecordGorm(db, kinds)
	resolver, err := NewResolver(cfg.Resolver, db, reg, store, rdb, cfg.LookupCacheTTL)
	if err != nil {
		return nil, err
	}

	log.Info("multiauth provider ready",
		zap.Int("entities", reg.Len()),
		zap.String("resolver", cfg.Resolver),
		zap.Bool("lookup_cache", rdb != nil))

	return usecase.NewProvider(reg, resolver, store, hasher.NewBcrypt(cfg.BcryptCost), cfg.IdentifierKey), nil
}
