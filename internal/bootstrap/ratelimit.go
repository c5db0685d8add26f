package bootstrap

import (
	"context"
	"log"

	"physical-ai-textbook-be/internal/config"
	"physical-ai-textbook-be/internal/repository/implementation"
	"physical-ai-textbook-be/pkg/ratelimit"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// NewRateLimiter picks the record store named by RATE_LIMIT_STORE. Redis falls
// back to the database when it cannot be reached.
func NewRateLimiter(ctx context.Context, db *gorm.DB, cfg *config.Config) *ratelimit.Limiter {
	limits := ratelimit.Config{
		MaxRequests: cfg.RateLimit.MaxRequests,
		Window:      cfg.RateLimit.Window,
		Retention:   cfg.RateLimit.Retention,
	}

	var store ratelimit.Store
	switch cfg.RateLimit.Store {
	case "memory":
		store = ratelimit.NewMemoryStore()
	case "redis":
		if rdb := newRedisClient(ctx, cfg.App.RedisURL); rdb != nil {
			store = ratelimit.NewRedisStore(rdb, cfg.RateLimit.Retention)
		}
	}
	if store == nil {
		if db == nil {
			store = ratelimit.NewMemoryStore()
		} else {
			store = implementation.NewRateLimitStore(db)
		}
	}

	return ratelimit.NewLimiter(store, limits)
}

func newRedisClient(ctx context.Context, url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}

	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}
