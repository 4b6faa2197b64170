package redflag

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const cacheKeyPrefix = "redflag:report:"

// CachedChecker memoizes complete reports in Redis. It is an optional layer
// over a Checker; the classification itself stays pure.
type CachedChecker struct {
	next   Checker
	rdb    redis.Cmdable
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedChecker wraps next with a Redis-backed memo.
func NewCachedChecker(next Checker, rdb redis.Cmdable, ttl time.Duration, logger zerolog.Logger) *CachedChecker {
	return &CachedChecker{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.With().Str("component", "redflag_cache").Logger(),
	}
}

// CheckRedFlags returns a cached report when one exists for the same
// normalized input. Incomplete reports are never stored, and cache errors
// fall through to the wrapped checker.
func (c *CachedChecker) CheckRedFlags(ctx context.Context, symptoms []string, surgeryType string) *Report {
	key := CacheKey(symptoms, surgeryType)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var r Report
		if jerr := json.Unmarshal(raw, &r); jerr == nil {
			return &r
		}
		c.logger.Warn().Str("key", key).Msg("discarding unreadable cached report")
	case !errors.Is(err, redis.Nil):
		c.logger.Warn().Err(err).Msg("red flag cache read failed")
	}

	r := c.next.CheckRedFlags(ctx, symptoms, surgeryType)
	if r.Incomplete {
		return r
	}
	if body, err := json.Marshal(r); err == nil {
		if err := c.rdb.Set(ctx, key, body, c.ttl).Err(); err != nil {
			c.logger.Warn().Err(err).Msg("red flag cache write failed")
		}
	}
	return r
}

// CacheKey derives the memo key from the normalized symptoms and surgery type.
func CacheKey(symptoms []string, surgeryType string) string {
	h := sha256.New()
	h.Write([]byte(Normalize(surgeryType)))
	for _, s := range symptoms {
		h.Write([]byte{0})
		h.Write([]byte(Normalize(s)))
	}
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}
