package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestClient_Ping_FailsFast(t *testing.T) {
	c := New("127.0.0.1:1", "", 0) // guaranteed unreachable

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := c.Ping(ctx); err == nil {
		t.Fatalf("expected ping error")
	}
}

func TestClient_Ping_Miniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	defer c.Close()

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestClient_Close_Idempotent(t *testing.T) {
	c := New("127.0.0.1:1", "", 0)

	if err := c.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	// call twice should not panic
	_ = c.Close()
}
