package otp

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps codes in Redis and lets the TTL do the expiring.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func otpKey(phone string) string {
	return "otp:code:" + phone
}

func (s *RedisStore) Set(ctx context.Context, phone, code string, ttl time.Duration) error {
	return s.client.Set(ctx, otpKey(phone), code, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, phone string) (string, error) {
	code, err := s.client.Get(ctx, otpKey(phone)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCodeExpired
		}
		return "", err
	}
	return code, nil
}

func (s *RedisStore) Delete(ctx context.Context, phone string) error {
	return s.client.Del(ctx, otpKey(phone)).Err()
}

// MemStore is the in-process equivalent for memory mode and tests.
type MemStore struct {
	mu    sync.Mutex
	codes map[string]memCode
	now   func() time.Time
}

type memCode struct {
	code      string
	expiresAt time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{
		codes: make(map[string]memCode),
		now:   time.Now,
	}
}

func (s *MemStore) Set(ctx context.Context, phone, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[phone] = memCode{code: code, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemStore) Get(ctx context.Context, phone string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.codes[phone]
	if !ok || s.now().After(c.expiresAt) {
		delete(s.codes, phone)
		return "", ErrCodeExpired
	}
	return c.code, nil
}

func (s *MemStore) Delete(ctx context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, phone)
	return nil
}
