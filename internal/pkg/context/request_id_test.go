package context

import (
	"context"
	"testing"
)

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), " rid-1 ")
	if got := GetRequestID(ctx); got != "rid-1" {
		t.Fatalf("expected rid-1, got %q", got)
	}
}

func TestRequestID_BlankIgnored(t *testing.T) {
	ctx := WithRequestID(context.Background(), "   ")
	if got := GetRequestID(ctx); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestGetRequestID_NilContext(t *testing.T) {
	//nolint:staticcheck
	if got := GetRequestID(nil); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
