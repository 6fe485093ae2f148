package middleware

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/smart-medicine-box/internal/config"
)

func limitedEcho(t *testing.T, capacity int) (*echo.Echo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       capacity,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            time.Minute,
		KeyStrategy:    "ip",
		Prefix:         "test",
	}
	e := echo.New()
	e.GET("/p", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, NewTokenBucket(cfg, rdb, zap.NewNop()))
	return e, mr
}

func TestTokenBucketAllowsThenBlocks(t *testing.T) {
	e, mr := limitedEcho(t, 2)

	for i, wantRemaining := range []string{"1", "0"} {
		rec := do(e, "/p", "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: expected 204, got %d", i, rec.Code)
		}
		if got := rec.Header().Get("X-RateLimit-Limit"); got != "2" {
			t.Fatalf("request %d: unexpected limit header %q", i, got)
		}
		if got := rec.Header().Get("X-RateLimit-Remaining"); got != wantRemaining {
			t.Fatalf("request %d: expected remaining %s, got %q", i, wantRemaining, got)
		}
	}

	rec := do(e, "/p", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "60" && got != "59" {
		t.Fatalf("unexpected Retry-After %q", got)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Fatalf("expected remaining 0 when blocked, got %q", got)
	}

	key := "test:ip:192.0.2.1"
	if !mr.Exists(key) {
		t.Fatalf("expected bucket stored under %s, keys: %v", key, mr.Keys())
	}
	if ttl := mr.TTL(key); ttl != time.Minute {
		t.Fatalf("expected bucket ttl of 1m, got %v", ttl)
	}
}

func TestTokenBucketRefills(t *testing.T) {
	e, mr := limitedEcho(t, 1)
	if rec := do(e, "/p", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec := do(e, "/p", ""); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}

	// Move the stored refill mark back past one interval.
	key := "test:ip:192.0.2.1"
	if mr.HGet(key, "last_refill_ms") == "" {
		t.Fatalf("expected refill mark in %s", key)
	}
	past := time.Now().Add(-61 * time.Second).UnixMilli()
	mr.HSet(key, "last_refill_ms", strconv.FormatInt(past, 10))

	if rec := do(e, "/p", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 after refill, got %d", rec.Code)
	}
}

func TestTokenBucketFailsOpenOnRedisError(t *testing.T) {
	e, mr := limitedEcho(t, 1)
	mr.Close()
	for i := 0; i < 3; i++ {
		if rec := do(e, "/p", ""); rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: expected pass-through, got %d", i, rec.Code)
		}
	}
}
