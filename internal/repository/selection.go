package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"checkers/internal/domain/checkers"
)

// RedisSelectionStorage keeps the cell a player tapped first, until the second tap.
type RedisSelectionStorage struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSelectionRedisStorage(redis *redis.Client, ttl time.Duration) *RedisSelectionStorage {
	return &RedisSelectionStorage{
		client: redis,
		ttl:    ttl,
	}
}

func selectionKey(gameKey, playerID string) string {
	return "selection:" + gameKey + ":" + playerID
}

func (r *RedisSelectionStorage) SaveSelection(ctx context.Context, gameKey, playerID string, sq checkers.Square) error {
	data, err := json.Marshal(sq)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, selectionKey(gameKey, playerID), data, r.ttl).Err()
}

func (r *RedisSelectionStorage) LoadSelection(ctx context.Context, gameKey, playerID string) (checkers.Square, bool, error) {
	data, err := r.client.Get(ctx, selectionKey(gameKey, playerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return checkers.Square{}, false, nil
	}
	if err != nil {
		return checkers.Square{}, false, err
	}

	var sq checkers.Square
	if err = json.Unmarshal(data, &sq); err != nil {
		return checkers.Square{}, false, err
	}
	return sq, true, nil
}

func (r *RedisSelectionStorage) ClearSelection(ctx context.Context, gameKey, playerID string) error {
	return r.client.Del(ctx, selectionKey(gameKey, playerID)).Err()
}
