// Package redis stores preferences as plain string keys in Redis, so several
// page processes can share one visitor profile.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/bnema/folio/internal/domain/repository"
	"github.com/bnema/folio/internal/logging"
)

// DefaultKeyPrefix namespaces preference keys.
const DefaultKeyPrefix = "folio:prefs:"

// Client is the subset of *goredis.Client the store uses.
type Client interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
	Ping(ctx context.Context) *goredis.StatusCmd
	Close() error
}

// Config describes the Redis connection.
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	// TTL expires every key; zero keeps them forever.
	TTL time.Duration
}

// Store is a repository.PreferenceStore over Redis.
type Store struct {
	client Client
	prefix string
	ttl    time.Duration
}

var _ repository.PreferenceStore = (*Store)(nil)

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	logging.FromContext(ctx).Info().Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("redis preference store connected")
	return NewStore(client, cfg.KeyPrefix, cfg.TTL), nil
}

// NewStore wraps an existing client.
func NewStore(client Client, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

func (s *Store) key(key string) string {
	return s.prefix + key
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get preference %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set preference %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete preference %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
