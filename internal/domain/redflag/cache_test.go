package redflag

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type countingChecker struct {
	calls int
	fail  bool
}

func (c *countingChecker) CheckRedFlags(_ context.Context, symptoms []string, _ string) *Report {
	c.calls++
	r := Evaluate(symptoms, nil)
	if c.fail {
		markIncomplete(r, errors.New("protocol store down"))
	}
	return r
}

func newTestCache(t *testing.T, next Checker) (*CachedChecker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewCachedChecker(next, rdb, time.Minute, zerolog.Nop()), mr
}

func TestCachedChecker_HitsCache(t *testing.T) {
	next := &countingChecker{}
	c, mr := newTestCache(t, next)
	ctx := context.Background()

	first := c.CheckRedFlags(ctx, []string{"chest pain"}, "")
	second := c.CheckRedFlags(ctx, []string{"CHEST   pain"}, "")

	if next.calls != 1 {
		t.Errorf("expected 1 underlying call, got %d", next.calls)
	}
	if second.CriticalCount != first.CriticalCount || second.Recommendation != first.Recommendation {
		t.Errorf("cached report differs: %+v vs %+v", second, first)
	}
	if !mr.Exists(CacheKey([]string{"chest pain"}, "")) {
		t.Error("expected report stored in redis")
	}
	if ttl := mr.TTL(CacheKey([]string{"chest pain"}, "")); ttl != time.Minute {
		t.Errorf("expected 1m ttl, got %v", ttl)
	}
}

func TestCachedChecker_DoesNotCacheIncomplete(t *testing.T) {
	next := &countingChecker{fail: true}
	c, mr := newTestCache(t, next)
	ctx := context.Background()

	c.CheckRedFlags(ctx, []string{"feber"}, "acl_reconstruction")
	c.CheckRedFlags(ctx, []string{"feber"}, "acl_reconstruction")

	if next.calls != 2 {
		t.Errorf("expected 2 underlying calls, got %d", next.calls)
	}
	if len(mr.Keys()) != 0 {
		t.Errorf("expected no cached keys, got %v", mr.Keys())
	}
}

func TestCachedChecker_RedisDownFallsThrough(t *testing.T) {
	next := &countingChecker{}
	c, mr := newTestCache(t, next)
	mr.Close()

	r := c.CheckRedFlags(context.Background(), []string{"slurred speech"}, "")
	if r.CriticalCount != 1 {
		t.Errorf("expected classification despite cache outage, got %+v", r)
	}
}

func TestCacheKey_SurgeryTypeAndOrderMatter(t *testing.T) {
	a := CacheKey([]string{"feber", "yrsel"}, "")
	b := CacheKey([]string{"yrsel", "feber"}, "")
	c := CacheKey([]string{"feber", "yrsel"}, "acl_reconstruction")
	if a == b || a == c {
		t.Error("expected distinct keys")
	}
	if CacheKey([]string{"Feber"}, "") != CacheKey([]string{"feber"}, "") {
		t.Error("expected normalized keys to collide")
	}
}
