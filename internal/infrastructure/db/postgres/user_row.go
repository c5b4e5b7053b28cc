package postgres

import (
	"database/sql"
	"time"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
)

type userRow struct {
	ID                string
	Email             string
	PasswordHash      string
	Subscription      string
	SessionToken      sql.NullString
	VerificationToken sql.NullString
	Verified          bool
	AvatarURL         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

const userColumns = `id, email, password_hash, subscription, session_token, verification_token, verified, avatar_url, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (userRow, error) {
	var ur userRow
	err := s.Scan(
		&ur.ID,
		&ur.Email,
		&ur.PasswordHash,
		&ur.Subscription,
		&ur.SessionToken,
		&ur.VerificationToken,
		&ur.Verified,
		&ur.AvatarURL,
		&ur.CreatedAt,
		&ur.UpdatedAt,
	)
	return ur, err
}

func (ur userRow) toDomain() domain.User {
	return domain.User{
		ID:                ur.ID,
		Email:             ur.Email,
		PasswordHash:      ur.PasswordHash,
		Subscription:      domain.Subscription(ur.Subscription),
		SessionToken:      ur.SessionToken.String,
		VerificationToken: ur.VerificationToken.String,
		Verified:          ur.Verified,
		AvatarURL:         ur.AvatarURL,
		CreatedAt:         ur.CreatedAt,
		UpdatedAt:         ur.UpdatedAt,
	}
}

// nullable stores empty strings as NULL so the unique index on
// verification_token ignores cleared tokens.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
