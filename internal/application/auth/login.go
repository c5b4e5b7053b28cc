package auth

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
)

// Login checks credentials and starts a new session.
// IMPORTANT: unknown email and wrong password are indistinguishable.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return LoginResult{}, domain.ErrInvalidCredentials()
		}
		return LoginResult{}, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		s.audit("login_failed", map[string]string{"user_id": u.ID})
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	// Checked after the password so the response never hints at unknown emails.
	if s.requireVerified && !u.Verified {
		return LoginResult{}, domain.ErrEmailNotVerified()
	}

	token, err := s.issueSession(ctx, u)
	if err != nil {
		return LoginResult{}, err
	}
	u.SessionToken = token

	return LoginResult{User: u, Token: token}, nil
}
