package auth

import (
	"context"
	"strings"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
)

// Authenticate resolves a bearer token to its user. The token must verify and
// must also be the user's currently stored session.
func (s *Service) Authenticate(ctx context.Context, raw string) (domain.User, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.User{}, domain.ErrTokenMissing()
	}

	claims, err := s.signer.VerifyAccessToken(raw)
	if err != nil {
		return domain.User{}, err
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return domain.User{}, domain.ErrTokenInvalid()
		}
		return domain.User{}, err
	}

	if !u.HasSession(raw) {
		return domain.User{}, domain.ErrSessionInvalid()
	}
	return u, nil
}
