package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
)

type SignupInput struct {
	Email        string
	Password     string
	Subscription string
}

// Signup creates an unverified user with a default avatar and a fresh
// verification token, then mails the verification link in the background.
func (s *Service) Signup(ctx context.Context, in SignupInput) (domain.User, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if in.Password == "" {
		return domain.User{}, domain.ErrMissingField("password")
	}

	sub, err := domain.ParseSubscription(in.Subscription)
	if err != nil {
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, domain.ErrHashFailed(err)
	}

	verifyToken, err := newOpaqueToken(verifyTokenBytes)
	if err != nil {
		return domain.User{}, domain.ErrRandomFailed(err)
	}

	created, err := s.users.Create(ctx, domain.User{
		ID:                uuid.NewString(),
		Email:             email,
		PasswordHash:      hash,
		Subscription:      sub,
		VerificationToken: verifyToken,
		Verified:          false,
		AvatarURL:         defaultAvatarURL(email),
	})
	if err != nil {
		return domain.User{}, err
	}

	s.audit("user_registered", map[string]string{"user_id": created.ID})
	s.dispatchVerification(created)
	s.publish(EventUserRegistered, created)

	return created, nil
}
