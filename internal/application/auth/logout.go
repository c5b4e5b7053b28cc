package auth

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
)

// Logout clears the stored session; the token stops working immediately even
// though its signature stays valid until expiry.
func (s *Service) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrTokenInvalid()
	}
	if err := s.users.SetSessionToken(ctx, userID, ""); err != nil {
		return err
	}
	s.audit("logout", map[string]string{"user_id": userID})
	return nil
}
