package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
)

// Authenticator resolves a raw bearer token to the user owning the live session.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (domain.User, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// Auth requires Authorization: Bearer <token> and injects the resolved user
// into the request context.
func Auth(authn Authenticator, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" {
				writeErr(w, r, domain.ErrTokenMissing())
				return
			}

			scheme, raw, ok := strings.Cut(h, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}
			raw = strings.TrimSpace(raw)
			if raw == "" {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			u, err := authn.Authenticate(r.Context(), raw)
			if err != nil {
				writeErr(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}
