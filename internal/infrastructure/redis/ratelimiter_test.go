package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newLimiter(t *testing.T) (*FixedWindowLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return NewFixedWindowLimiter(c), mr
}

func TestFixedWindowLimiter_RedisNil_Allows(t *testing.T) {
	l := NewFixedWindowLimiter(nil)

	d, err := l.AllowFixedWindow(context.Background(), "k", 10, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Allowed {
		t.Fatalf("expected allowed when redis disabled")
	}
	if d.Remaining != 10 {
		t.Fatalf("unexpected remaining: %d", d.Remaining)
	}
}

func TestFixedWindowLimiter_NonPositiveLimit_Allows(t *testing.T) {
	l, _ := newLimiter(t)

	for _, limit := range []int{0, -5} {
		d, err := l.AllowFixedWindow(context.Background(), "k", limit, time.Minute)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if !d.Allowed {
			t.Fatalf("limit=%d should allow", limit)
		}
	}
}

func TestFixedWindowLimiter_BlocksAfterLimit(t *testing.T) {
	l, mr := newLimiter(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d, err := l.AllowFixedWindow(ctx, "rl:login:ip:1.2.3.4", 3, time.Minute)
		if err != nil {
			t.Fatalf("hit %d: %v", i, err)
		}
		if !d.Allowed || d.Count != i || d.Remaining != 3-i {
			t.Fatalf("hit %d: unexpected decision %+v", i, d)
		}
	}

	d, err := l.AllowFixedWindow(ctx, "rl:login:ip:1.2.3.4", 3, time.Minute)
	if err != nil {
		t.Fatalf("4th hit: %v", err)
	}
	if d.Allowed {
		t.Fatalf("4th hit should be blocked")
	}
	if d.RetryAfter <= 0 || d.RetryAfter > time.Minute {
		t.Fatalf("retry after out of range: %v", d.RetryAfter)
	}

	if ttl := mr.TTL("rl:login:ip:1.2.3.4"); ttl <= 0 {
		t.Fatalf("expected key ttl to be set, got %v", ttl)
	}
}

func TestFixedWindowLimiter_WindowExpiryResets(t *testing.T) {
	l, mr := newLimiter(t)
	ctx := context.Background()

	if allowed, _, err := l.Allow(ctx, "k", 1, time.Second); err != nil || !allowed {
		t.Fatalf("first: allowed=%v err=%v", allowed, err)
	}
	if allowed, retry, err := l.Allow(ctx, "k", 1, time.Second); err != nil || allowed || retry <= 0 {
		t.Fatalf("second: allowed=%v retry=%v err=%v", allowed, retry, err)
	}

	mr.FastForward(2 * time.Second)

	if allowed, _, err := l.Allow(ctx, "k", 1, time.Second); err != nil || !allowed {
		t.Fatalf("after window: allowed=%v err=%v", allowed, err)
	}
}

func TestFixedWindowLimiter_RedisDown_ReturnsError(t *testing.T) {
	l, mr := newLimiter(t)
	mr.Close()

	if _, _, err := l.Allow(context.Background(), "k", 1, time.Minute); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}
