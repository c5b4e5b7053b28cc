package auth

import (
	"context"
	"strings"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
)

func (s *Service) UpdateSubscription(ctx context.Context, userID, raw string) (domain.User, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.User{}, domain.ErrMissingField("subscription")
	}
	sub, err := domain.ParseSubscription(raw)
	if err != nil {
		return domain.User{}, err
	}

	u, err := s.users.UpdateSubscription(ctx, userID, sub)
	if err != nil {
		return domain.User{}, err
	}
	s.audit("subscription_updated", map[string]string{"user_id": userID, "subscription": string(sub)})
	return u, nil
}
