package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/transport/http/middleware"
)

// mustJSONBody marshals v to JSON and returns an io.Reader for request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

// mustReadJSON decodes JSON from r into out.
func mustReadJSON(t *testing.T, r io.Reader, out any) {
	t.Helper()

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode json failed: %v; body=%s", err, string(raw))
	}
}

// mustErrorCode decodes the error envelope and returns error.code.
func mustErrorCode(t *testing.T, r io.Reader) string {
	t.Helper()

	var body struct {
		Error struct {
			Code string            `json:"code"`
			Meta map[string]string `json:"meta"`
		} `json:"error"`
	}
	mustReadJSON(t, r, &body)
	return body.Error.Code
}

// withUserCtx injects the authenticated user the way middleware.Auth does.
func withUserCtx(req *http.Request, u domain.User) *http.Request {
	return req.WithContext(middleware.WithUser(req.Context(), u))
}

// withURLParam injects chi URL param (e.g. /contacts/{contactId}) into request context.
func withURLParam(req *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)

	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}
