package memory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/application/contacts"
)

// NoopPublisher logs events at debug level instead of sending them.
type NoopPublisher struct {
	lg zerolog.Logger
}

func NewNoopPublisher(lg zerolog.Logger) *NoopPublisher {
	return &NoopPublisher{lg: lg.With().Str("component", "noop_publisher").Logger()}
}

func (p *NoopPublisher) PublishUserEvent(ctx context.Context, evt auth.UserEvent) error {
	p.lg.Debug().Str("type", evt.Type).Str("user_id", evt.UserID).Msg("event dropped")
	return nil
}

func (p *NoopPublisher) PublishContactEvent(ctx context.Context, evt contacts.ContactEvent) error {
	p.lg.Debug().Str("type", evt.Type).Str("contact_id", evt.ContactID).Msg("event dropped")
	return nil
}
