package session

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps session blobs in Redis with a TTL refreshed on every
// write, so abandoned sessions age out on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Connect dials Redis and verifies the connection with a ping.
func Connect(addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}
	return client, nil
}

func key(sid, field string) string {
	return "session:" + sid + ":" + field
}

func (s *RedisStore) Save(ctx context.Context, sid, field string, data []byte) error {
	return s.client.Set(ctx, key(sid, field), data, s.ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, sid, field string) ([]byte, error) {
	data, err := s.client.Get(ctx, key(sid, field)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *RedisStore) Delete(ctx context.Context, sid, field string) error {
	return s.client.Del(ctx, key(sid, field)).Err()
}
