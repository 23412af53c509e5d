package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/qualgate/qualgate/internal/cache"
	"github.com/qualgate/qualgate/internal/generate"
	"github.com/qualgate/qualgate/internal/model"
	"github.com/qualgate/qualgate/internal/pipeline"
	"github.com/qualgate/qualgate/internal/review"
	"github.com/qualgate/qualgate/internal/threshold"
)

// newLogger builds the process logger; verbose lowers the level to debug
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildReviewQueue creates the configured human review backend. The Redis
// client is shared with the threshold store when the backend is redis.
func buildReviewQueue(cfg *model.Config) (review.Queue, *redis.Client, error) {
	switch cfg.Review.Backend {
	case "", "memory":
		return review.NewMemoryQueue(), nil, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr: cfg.Review.RedisAddr,
			DB:   cfg.Review.RedisDB,
		})
		return review.NewRedisQueue(client, cfg.Review.QueueKey, cfg.Review.EntryTTL), client, nil
	default:
		return nil, nil, fmt.Errorf("unknown review backend: %s (supported: memory, redis)", cfg.Review.Backend)
	}
}

// buildPipeline wires a pipeline from configuration
func buildPipeline(cfg *model.Config, logger *slog.Logger) (*pipeline.Pipeline, error) {
	reviews, redisClient, err := buildReviewQueue(cfg)
	if err != nil {
		return nil, err
	}

	generator, err := generate.NewGenerator(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("create generator: %w", err)
	}

	p := pipeline.NewPipeline(cfg, reviews, generator, logger)
	if redisClient != nil {
		var c cache.Cache
		if cfg.Cache.Enabled {
			c = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
		}
		p.UseThresholdStore(threshold.NewRedisStore(redisClient, ""), c, cfg.Cache.TTL)
	}
	return p, nil
}
