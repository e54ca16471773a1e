package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	MemoryScheme      = "memory://"
	defaultCacheTTL   = 60 * time.Second
	defaultBcryptCost = 14
)

type Config struct {
	Env  string `validate:"required"`
	Port int    `validate:"min=1,max=65535"`

	// DBURI is the raw DB_URI value; use DBURL for the pgx connection string.
	DBURI      string `validate:"required"`
	DBMaxConns int32  `validate:"min=1"`

	BcryptCost int `validate:"min=4,max=31"`

	RedisAddr     string
	RedisPassword string
	RedisDB       int `validate:"min=0"`
	CacheTTL      time.Duration `validate:"min=0"`

	OTLPEndpoint string
	ServiceName  string `validate:"required"`
}

// Load reads an optional .env file and the process environment once.
func Load() (Config, error) {
	// a missing .env is fine, the environment alone is enough
	_ = godotenv.Load()

	var errs []error
	intEnv := func(key string, fallback int) int {
		v, err := getEnvInt(key, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	cfg := Config{
		Env:           getEnv("APP_ENV", "dev"),
		Port:          intEnv("APP_PORT", 8080),
		DBURI:         getEnv("DB_URI", "localhost/users"),
		DBMaxConns:    int32(intEnv("DB_MAX_CONNS", 5)),
		BcryptCost:    intEnv("BCRYPT_COST", defaultBcryptCost),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       intEnv("REDIS_DB", 0),
		OTLPEndpoint:  getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:   getEnv("OTEL_SERVICE_NAME", "usershub"),
	}

	ttl := intEnv("CACHE_TTL_SECONDS", -1)
	switch {
	case ttl >= 0:
		cfg.CacheTTL = time.Duration(ttl) * time.Second
	case cfg.RedisAddr != "":
		cfg.CacheTTL = defaultCacheTTL
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	err := validator.New().Struct(c)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// UseMemoryStore reports whether DB_URI selects the in-process store.
func (c Config) UseMemoryStore() bool {
	return strings.HasPrefix(c.DBURI, MemoryScheme)
}

// DBURL turns DB_URI into a postgres connection string. A scheme-less value
// such as "localhost/users" is read as host/database.
func (c Config) DBURL() string {
	uri := strings.TrimSpace(c.DBURI)
	if strings.HasPrefix(uri, "postgres://") || strings.HasPrefix(uri, "postgresql://") {
		return uri
	}

	return "postgres://" + uri
}

// CacheEnabled is true when a Redis address or a positive memory TTL is set.
func (c Config) CacheEnabled() bool {
	return c.RedisAddr != "" || c.CacheTTL > 0
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	num, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a number", key, v)
	}

	return num, nil
}
