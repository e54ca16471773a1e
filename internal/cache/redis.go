package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisHash = "usershub:users:find"

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Redis keeps every entry as a field of one hash so Purge is a single DEL.
// The TTL applies to the hash as a whole and is refreshed on each Set.
type Redis struct {
	redisdb *redis.Client
	hash    string
	ttl     time.Duration
}

func NewRedis(cfg RedisConfig) *Redis {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return NewRedisFromClient(redisdb, cfg.TTL)
}

func NewRedisFromClient(redisdb *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = time.Minute
	}

	return &Redis{redisdb: redisdb, hash: defaultRedisHash, ttl: ttl}
}

func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.redisdb.HGet(ctx, c.hash, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *Redis) Set(ctx context.Context, key string, val []byte) error {
	pipe := c.redisdb.TxPipeline()
	pipe.HSet(ctx, c.hash, key, val)
	pipe.Expire(ctx, c.hash, c.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *Redis) Purge(ctx context.Context) error {
	return c.redisdb.Del(ctx, c.hash).Err()
}

// this ping function checks redis connectivity

func (c *Redis) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

func (c *Redis) Close() error {
	return c.redisdb.Close()
}
