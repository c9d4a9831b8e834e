// README: Geocode cache backed by Redis strings with a TTL.
package route

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	placeKeyPrefix  = "route:place:"
	DefaultCacheTTL = 30 * 24 * time.Hour
)

type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStore(redis *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Store{redis: redis, ttl: ttl}
}

func (s *Store) Get(ctx context.Context, address string) (string, bool, error) {
	val, err := s.redis.Get(ctx, placeKeyPrefix+address).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *Store) Set(ctx context.Context, address, placeID string) error {
	return s.redis.Set(ctx, placeKeyPrefix+address, placeID, s.ttl).Err()
}
