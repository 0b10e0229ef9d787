package elevation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Paskordnikk/Strekoza/internal/geo"
)

// Cache wraps a Source with a redis point-lookup cache. Coordinates are
// keyed at 6 decimal places (~0.1 m), matching the precision the rest of the
// system exchanges. A nil or failing redis degrades to plain lookups.
type Cache struct {
	src   Source
	redis *redis.Client
	ttl   time.Duration
}

func NewCache(src Source, redisClient *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Cache{src: src, redis: redisClient, ttl: ttl}
}

func (c *Cache) Lookup(ctx context.Context, points []geo.Point) ([]float64, error) {
	if c.redis == nil || len(points) == 0 {
		return c.src.Lookup(ctx, points)
	}

	keys := make([]string, len(points))
	for i, p := range points {
		keys[i] = cacheKey(p)
	}

	out := make([]float64, len(points))
	var missIdx []int

	cached, err := c.redis.MGet(ctx, keys...).Result()
	if err != nil {
		return c.src.Lookup(ctx, points)
	}
	for i, raw := range cached {
		s, ok := raw.(string)
		if !ok {
			missIdx = append(missIdx, i)
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			missIdx = append(missIdx, i)
			continue
		}
		out[i] = v
	}

	if len(missIdx) == 0 {
		return out, nil
	}

	missPoints := make([]geo.Point, len(missIdx))
	for i, idx := range missIdx {
		missPoints[i] = points[idx]
	}
	fetched, err := c.src.Lookup(ctx, missPoints)
	if err != nil {
		return nil, err
	}
	if len(fetched) != len(missPoints) {
		return nil, ErrCountMismatch
	}

	pipe := c.redis.Pipeline()
	for i, idx := range missIdx {
		out[idx] = fetched[i]
		pipe.Set(ctx, keys[idx], strconv.FormatFloat(fetched[i], 'f', -1, 64), c.ttl)
	}
	_, _ = pipe.Exec(ctx)

	return out, nil
}

func cacheKey(p geo.Point) string {
	return fmt.Sprintf("elev:%.6f:%.6f", p.Lat, p.Lng)
}
