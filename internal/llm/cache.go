package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedCompleter is a redis read-through in front of a Completer: identical
// prompts within the TTL are served without touching the upstream API.
type CachedCompleter struct {
	next Completer
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCachedCompleter(next Completer, rdb *redis.Client, ttl time.Duration) *CachedCompleter {
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &CachedCompleter{next: next, rdb: rdb, ttl: ttl}
}

func (c *CachedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	key := cacheKey(prompt)

	if cached, err := c.rdb.Get(ctx, key).Result(); err == nil {
		return cached, nil
	}

	// cache miss or redis hiccup, either way ask upstream
	out, err := c.next.Complete(ctx, prompt)

	if err != nil {
		return "", err
	}

	// best effort, a failed write just means a miss next time
	_ = c.rdb.Set(ctx, key, out, c.ttl).Err()

	return out, nil
}

func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))

	return "llm:completion:" + hex.EncodeToString(sum[:])
}
