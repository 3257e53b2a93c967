package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/caretaker-backend/internal/platform/logger"
)

const (
	defaultKeyPrefix = "caretaker:insights"
	defaultTTL       = 10 * time.Minute
)

// InsightsCache memoizes per-user insight documents. All documents of one
// user live in a single hash so a new check-in can drop them in one call.
type InsightsCache interface {
	Get(ctx context.Context, userID uuid.UUID, field string, dst any) (bool, error)
	Set(ctx context.Context, userID uuid.UUID, field string, v any) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
	Close() error
}

type Options struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
	Prefix   string        `yaml:"prefix"`
}

type insightsCache struct {
	log    *logger.Logger
	rdb    goredis.UniversalClient
	ttl    time.Duration
	prefix string
}

// NewClient dials redis and verifies the connection with a ping.
func NewClient(opts Options) (goredis.UniversalClient, error) {
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// NewInsightsCacheFromClient takes ownership of rdb; Close closes it.
func NewInsightsCacheFromClient(log *logger.Logger, rdb goredis.UniversalClient, opts Options) InsightsCache {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	prefix := strings.TrimSpace(opts.Prefix)
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &insightsCache{
		log:    log.With("service", "RedisInsightsCache"),
		rdb:    rdb,
		ttl:    ttl,
		prefix: prefix,
	}
}

func (c *insightsCache) key(userID uuid.UUID) string {
	return c.prefix + ":" + userID.String()
}

func (c *insightsCache) Get(ctx context.Context, userID uuid.UUID, field string, dst any) (bool, error) {
	if c == nil || c.rdb == nil {
		return false, fmt.Errorf("redis insights cache not initialized")
	}
	raw, err := c.rdb.HGet(ctx, c.key(userID), field).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn("bad cached insights payload", "user_id", userID, "field", field, "error", err)
		return false, nil
	}
	return true, nil
}

// Set writes one field and refreshes the TTL of the whole hash.
func (c *insightsCache) Set(ctx context.Context, userID uuid.UUID, field string, v any) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("redis insights cache not initialized")
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	key := c.key(userID)
	_, err = c.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.HSet(ctx, key, field, raw)
		p.Expire(ctx, key, c.ttl)
		return nil
	})
	return err
}

func (c *insightsCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, c.key(userID)).Err()
}

func (c *insightsCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
