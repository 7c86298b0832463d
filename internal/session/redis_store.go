package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// busyTTL bounds how long a crashed request can leave a session locked.
const busyTTL = 2 * time.Minute

// RedisStore keeps sessions in Redis with a TTL, so abandoned interviews are
// discarded without bookkeeping. The busy flag is a SET NX key, which gives
// the one-call-in-flight guarantee across instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(id string) string { return "session:" + id }
func busyKey(id string) string    { return "session:busy:" + id }

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(s.ID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id), busyKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *RedisStore) Acquire(ctx context.Context, id string) (bool, error) {
	ok, err := r.client.SetNX(ctx, busyKey(id), "1", busyTTL).Result()
	if err != nil {
		return false, fmt.Errorf("acquire session: %w", err)
	}
	return ok, nil
}

func (r *RedisStore) Release(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, busyKey(id)).Err(); err != nil {
		return fmt.Errorf("release session: %w", err)
	}
	return nil
}
