package app

import (
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/caretaker-backend/internal/clients/redis"
	"github.com/yungbote/caretaker-backend/internal/platform/logger"
)

type Clients struct {
	Redis         goredis.UniversalClient
	InsightsCache redis.InsightsCache
}

// wireClients connects optional external clients. Without REDIS_ADDR the
// insights are recomputed on every request.
func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		log.Info("REDIS_ADDR not set; insights cache disabled")
		return Clients{}, nil
	}
	rdb, err := redis.NewClient(cfg.Redis)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	return Clients{
		Redis:         rdb,
		InsightsCache: redis.NewInsightsCacheFromClient(log, rdb, cfg.Redis),
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.InsightsCache != nil {
		_ = c.InsightsCache.Close()
	}
}
