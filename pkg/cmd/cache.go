package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukex/flowcheck/pkg/cache"
	"github.com/dukex/flowcheck/pkg/cache/redis"
)

// NewCache creates the report cache named by cacheURL. An empty URL disables
// caching and returns a nil cache.
func NewCache(ctx context.Context, logger *slog.Logger, cacheURL string) (cache.Cache, error) {
	switch {
	case cacheURL == "":
		return nil, nil
	case cacheURL == "memory":
		return cache.NewMemory(), nil
	case strings.HasPrefix(cacheURL, "redis://"), strings.HasPrefix(cacheURL, "rediss://"):
		c, err := redis.NewCache(ctx, logger, cacheURL)
		if err != nil {
			return nil, err
		}

		return c, nil
	default:
		return nil, fmt.Errorf("unsupported cache url: %s", cacheURL)
	}
}
