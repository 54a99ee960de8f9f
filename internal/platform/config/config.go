// Package config loads service configuration from an optional YAML file and the environment using Viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// EnvKeyConfigFile names the environment variable pointing at the YAML config file.
const EnvKeyConfigFile = "MULTIAUTH_CONFIG"

// Config holds application configuration.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on.
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DBDriver selects the gorm dialect: sqlite or postgres.
	DBDriver string `mapstructure:"DB_DRIVER"`
	// DBDSN is the driver-specific data source name.
	DBDSN string `mapstructure:"DB_DSN"`
	// DBConnectTimeout bounds the startup connection retry loop.
	DBConnectTimeout time.Duration `mapstructure:"DB_CONNECT_TIMEOUT"`
	// RunMigrations creates entity tables from their record kinds at startup.
	RunMigrations bool `mapstructure:"RUN_MIGRATIONS"`
	// JWTSecret signs access tokens.
	JWTSecret string `mapstructure:"JWT_SECRET"`
	// JWTTTL is the access token lifetime.
	JWTTTL time.Duration `mapstructure:"JWT_TTL"`
	// RedisAddr enables the lookup cache when set (host:port).
	RedisAddr string `mapstructure:"REDIS_ADDR"`
	// RedisPassword authenticates against Redis.
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	// LookupCacheTTL is how long resolved identifiers stay cached.
	LookupCacheTTL time.Duration `mapstructure:"LOOKUP_CACHE_TTL"`
	// Resolver selects the identifier lookup strategy: union or fanout.
	Resolver string `mapstructure:"RESOLVER"`
	// BcryptCost is the bcrypt cost used when seeding passwords.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// LogLevel is the zap level (debug, info, warn, error).
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// IdentifierKey is the credential field read before falling back to "email".
	IdentifierKey string `mapstructure:"identifier_key"`
	// Entities are the raw entity definitions, in lookup order.
	Entities []map[string]string `mapstructure:"entities"`
}

// Resolver strategies.
const (
	ResolverUnion  = "union"
	ResolverFanOut = "fanout"
)

// defaultEntities mirrors the stock clients/admins setup.
var defaultEntities = []map[string]string{
	{"type": "client", "table": "clients", "model": "Client", "identifier": "username"},
	{"type": "admin", "table": "admins", "model": "Admin", "identifier": "email"},
}

// Load reads the YAML file at path (if non-empty), then applies environment
// overrides and defaults. Returns an error if the file cannot be read or a
// value is invalid.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "multiauth.db")
	v.SetDefault("DB_CONNECT_TIMEOUT", "60s")
	v.SetDefault("RUN_MIGRATIONS", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", "1h")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("LOOKUP_CACHE_TTL", "1m")
	v.SetDefault("RESOLVER", ResolverUnion)
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("identifier_key", "identifier")
	v.SetDefault("entities", defaultEntities)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	switch cfg.Resolver {
	case ResolverUnion, ResolverFanOut:
	default:
		return nil, fmt.Errorf("config: RESOLVER must be %q or %q, got %q", ResolverUnion, ResolverFanOut, cfg.Resolver)
	}
	if cfg.JWTTTL <= 0 {
		return nil, errors.New("config: JWT_TTL must be positive")
	}
	if len(cfg.Entities) == 0 {
		return nil, errors.New("config: at least one entity must be configured")
	}

	return &cfg, nil
}
