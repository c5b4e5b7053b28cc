package contacts

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
)

// Repo methods are owner-scoped: a contact owned by someone else behaves
// exactly like a missing one (contact_not_found).
type Repo interface {
	ListByOwner(ctx context.Context, f domain.ContactFilter) (domain.ContactPage, error)
	GetByID(ctx context.Context, owner, id string) (domain.Contact, error)
	Create(ctx context.Context, c domain.Contact) (domain.Contact, error)
	Replace(ctx context.Context, owner, id string, fields domain.ContactFields) (domain.Contact, error)
	SetFavorite(ctx context.Context, owner, id string, favorite bool) (domain.Contact, error)
	Delete(ctx context.Context, owner, id string) error
}

const (
	EventContactCreated = "contact.created"
	EventContactDeleted = "contact.deleted"
)

type ContactEvent struct {
	Type       string    `json:"type"`
	ContactID  string    `json:"contact_id"`
	Owner      string    `json:"owner"`
	OccurredAt time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	PublishContactEvent(ctx context.Context, evt ContactEvent) error
}
