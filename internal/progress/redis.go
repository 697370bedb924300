package progress

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/Taze00/chess-coach/internal/errors"
)

// ErrNotFound mirrors the sentinel used across the service.
var ErrNotFound = apperrors.ErrNoProgress

const snapshotTTL = 30 * time.Minute

// RedisStore keeps the latest snapshot per key in Redis so progress
// survives across API instances. The TTL reaps abandoned runs.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func key(k string) string { return "analysis_progress:" + k }

func (s *RedisStore) Set(ctx context.Context, k string, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(k), data, snapshotTTL).Err()
}

func (s *RedisStore) Get(ctx context.Context, k string) (Snapshot, error) {
	val, err := s.client.Get(ctx, key(k)).Result()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (s *RedisStore) Clear(ctx context.Context, k string) error {
	return s.client.Del(ctx, key(k)).Err()
}
