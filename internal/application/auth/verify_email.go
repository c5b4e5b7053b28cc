package auth

import (
	"context"
	"strings"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
)

// VerifyEmail redeems a verification token. The token is cleared on success,
// so redeeming it again yields verify_token_not_found.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrVerifyTokenNotFound()
	}

	u, err := s.users.RedeemVerificationToken(ctx, token)
	if err != nil {
		return err
	}

	s.audit("email_verified", map[string]string{"user_id": u.ID})
	s.publish(EventUserVerified, u)
	return nil
}

// ResendVerification re-sends the link carrying the user's existing token.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.ErrMissingField("email")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u.Verified {
		return domain.ErrAlreadyVerified()
	}
	if u.VerificationToken == "" {
		return domain.ErrInternal(nil)
	}

	s.dispatchVerification(u)
	return nil
}
