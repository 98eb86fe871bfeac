package token

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// expiredRetention keeps a record in Redis briefly past its expiry so a late
// redemption reports ErrExpired instead of an indistinguishable ErrNotFound.
const expiredRetention = time.Hour

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore returns a Redis-backed store. Redemption uses GETDEL, which
// Redis executes atomically.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client, prefix: "ephtoken:"}
}

func (s *redisStore) key(value string) string {
	return s.prefix + value
}

func (s *redisStore) Create(ctx context.Context, purpose Purpose, subjectRef, projectID string, ttl time.Duration) (*Record, error) {
	value, err := NewValue()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rec := &Record{
		Value:      value,
		Purpose:    purpose,
		SubjectRef: subjectRef,
		ProjectID:  projectID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("token: marshal record: %w", err)
	}
	if err := s.client.Set(ctx, s.key(value), data, ttl+expiredRetention).Err(); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *redisStore) Redeem(ctx context.Context, value string) (*Record, error) {
	data, err := s.client.GetDel(ctx, s.key(value)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rec := &Record{}
	if err := json.Unmarshal([]byte(data), rec); err != nil {
		return nil, fmt.Errorf("token: unmarshal record: %w", err)
	}
	if !rec.Live(time.Now()) {
		return nil, ErrExpired
	}
	return rec, nil
}

func (s *redisStore) Peek(ctx context.Context, value string) (*Record, error) {
	data, err := s.client.Get(ctx, s.key(value)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rec := &Record{}
	if err := json.Unmarshal([]byte(data), rec); err != nil {
		return nil, fmt.Errorf("token: unmarshal record: %w", err)
	}
	if !rec.Live(time.Now()) {
		return nil, ErrExpired
	}
	return rec, nil
}
