// Package cache stores generated previews, quotes and texts keyed by the post
// and the options they were generated with. Generation itself is stateless;
// only the server and the CLI consult a cache.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/aellingwood/excerpt/internal/config"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache is a byte store with per-entry expiry. Implementations are safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Key derives a cache key from the kind of result, the canonical JSON of the
// post and the options it is generated with.
func Key(kind string, post []byte, opts any) (string, error) {
	o, err := json.Marshal(opts)
	if err != nil {
		return "", fmt.Errorf("encoding cache key options: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write(post)
	h.Write([]byte{0})
	h.Write(o)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// New returns the backend selected by cfg.
func New(cfg config.CacheConfig, logger zerolog.Logger) (Cache, error) {
	switch cfg.Backend {
	case config.CacheMemory:
		return NewMemory(), nil
	case config.CacheFile:
		return NewFile(cfg.Dir)
	case config.CacheRedis:
		logger.Debug().Str("addr", cfg.RedisAddr).Msg("using redis cache")
		return NewRedis(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})), nil
	case config.CacheNone, "":
		return Nop{}, nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}

// GetOrCompute returns the cached value for key, or computes, stores and
// returns it. The second result reports a cache hit. Storage failures are
// logged and do not fail the call.
func GetOrCompute(ctx context.Context, c Cache, key string, ttl time.Duration, logger zerolog.Logger, compute func() ([]byte, error)) ([]byte, bool, error) {
	v, err := c.Get(ctx, key)
	if err == nil {
		return v, true, nil
	}
	if !errors.Is(err, ErrMiss) {
		logger.Warn().Err(err).Str("key", key).Msg("cache get failed")
	}
	v, err = compute()
	if err != nil {
		return nil, false, err
	}
	if err := c.Set(ctx, key, v, ttl); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
	return v, false, nil
}

// Nop caches nothing.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }

func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (Nop) Close() error { return nil }
