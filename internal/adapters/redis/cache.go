package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"qrsafe/internal/domain"
)

const keyPrefix = "qrsafe:verdict:"

// VerdictCache stores intelligence verdicts as JSON strings with a TTL, keyed
// by the raw URL.
type VerdictCache struct {
	client *redis.Client
}

// Connect parses url, pings the server and returns a cache. It returns nil
// and no error when url is empty.
func Connect(ctx context.Context, url string) (*VerdictCache, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return New(client), nil
}

func New(client *redis.Client) *VerdictCache {
	return &VerdictCache{client: client}
}

func (c *VerdictCache) Get(ctx context.Context, rawURL string) (domain.SafetyVerdict, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+rawURL).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.SafetyVerdict{}, false, nil
	}
	if err != nil {
		return domain.SafetyVerdict{}, false, err
	}
	var v domain.SafetyVerdict
	if err := json.Unmarshal(raw, &v); err != nil {
		return domain.SafetyVerdict{}, false, fmt.Errorf("decode cached verdict: %w", err)
	}
	return v, true, nil
}

// Set stores v without its findings text.
func (c *VerdictCache) Set(ctx context.Context, rawURL string, v domain.SafetyVerdict, ttl time.Duration) error {
	v.RawFindings = nil
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyPrefix+rawURL, raw, ttl).Err()
}

func (c *VerdictCache) Close() error { return c.client.Close() }
