package auth

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
)

/*
UserRepo
--------
Credential store port. Every mutation is a single-record update.
*/
type UserRepo interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// SetSessionToken replaces the stored session; "" clears it.
	SetSessionToken(ctx context.Context, userID, token string) error
	// RedeemVerificationToken marks the owning user verified and clears the
	// token in one step. Unknown tokens yield verify_token_not_found.
	RedeemVerificationToken(ctx context.Context, token string) (domain.User, error)
	UpdateSubscription(ctx context.Context, userID string, sub domain.Subscription) (domain.User, error)
	UpdateAvatarURL(ctx context.Context, userID, avatarURL string) error
}

/*
PasswordHasher
--------------
Abstracts bcrypt.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenSigner
-----------
Issues and verifies session tokens (JWT).
*/
type TokenClaims struct {
	UserID  string
	TokenID string
	Exp     time.Time
}

type TokenSigner interface {
	SignAccessToken(userID string, ttl time.Duration) (string, error)
	VerifyAccessToken(token string) (TokenClaims, error)
}

/*
Mailer
------
Sends the verification email. Called in the background; errors are only logged.
*/
type Mailer interface {
	SendVerification(ctx context.Context, to, link string) error
}

/*
EventPublisher
--------------
Best-effort domain events (RabbitMQ or no-op).
*/
type EventPublisher interface {
	PublishUserEvent(ctx context.Context, evt UserEvent) error
}

const (
	EventUserRegistered = "user.registered"
	EventUserVerified   = "user.verified"
)

type UserEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

/*
Avatar ports
------------
ImageProcessor turns an uploaded file into a square avatar;
AvatarStore persists it and returns its public URL.
*/
type ImageProcessor interface {
	SquareAvatar(data []byte, ext string, size int) (out []byte, contentType string, err error)
}

type AvatarStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (url string, err error)
	Delete(ctx context.Context, key string) error
}
