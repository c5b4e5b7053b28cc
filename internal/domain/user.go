package domain

import (
	"strings"
	"time"
)

type Subscription string

const (
	SubscriptionStarter  Subscription = "starter"
	SubscriptionPro      Subscription = "pro"
	SubscriptionBusiness Subscription = "business"
)

// ParseSubscription validates s against the known tiers.
// An empty string yields the default tier.
func ParseSubscription(s string) (Subscription, error) {
	switch Subscription(strings.ToLower(strings.TrimSpace(s))) {
	case "", SubscriptionStarter:
		return SubscriptionStarter, nil
	case SubscriptionPro:
		return SubscriptionPro, nil
	case SubscriptionBusiness:
		return SubscriptionBusiness, nil
	default:
		return "", ErrInvalidSubscription(s)
	}
}

type User struct {
	ID                string
	Email             string
	PasswordHash      string
	Subscription      Subscription
	SessionToken      string
	VerificationToken string
	Verified          bool
	AvatarURL         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasSession reports whether raw is the user's single live session token.
func (u User) HasSession(raw string) bool {
	return u.SessionToken != "" && u.SessionToken == raw
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
