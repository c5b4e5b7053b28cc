package contacts

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
)

const publishTimeout = 5 * time.Second

type Service struct {
	repo Repo
	pub  EventPublisher

	audit func(action string, fields map[string]string)
	goFn  func(func())
}

func NewService(repo Repo, pub EventPublisher) *Service {
	return &Service{
		repo:  repo,
		pub:   pub,
		audit: func(string, map[string]string) {},
		goFn:  func(f func()) { go f() },
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

type CreateInput struct {
	Name     string
	Email    string
	Phone    string
	Favorite bool
}

func (s *Service) List(ctx context.Context, f domain.ContactFilter) (domain.ContactPage, error) {
	if f.Owner == "" {
		return domain.ContactPage{}, domain.ErrTokenInvalid()
	}
	return s.repo.ListByOwner(ctx, f.Normalize())
}

func (s *Service) Get(ctx context.Context, owner, id string) (domain.Contact, error) {
	if !validID(id) {
		return domain.Contact{}, domain.ErrContactNotFound()
	}
	return s.repo.GetByID(ctx, owner, id)
}

func (s *Service) Create(ctx context.Context, owner string, in CreateInput) (domain.Contact, error) {
	fields, err := cleanFields(domain.ContactFields{Name: in.Name, Email: in.Email, Phone: in.Phone, Favorite: in.Favorite})
	if err != nil {
		return domain.Contact{}, err
	}

	c, err := s.repo.Create(ctx, domain.Contact{
		ID:       uuid.NewString(),
		Name:     fields.Name,
		Email:    fields.Email,
		Phone:    fields.Phone,
		Favorite: fields.Favorite,
		Owner:    owner,
	})
	if err != nil {
		return domain.Contact{}, err
	}

	s.audit("contact_created", map[string]string{"owner": owner, "contact_id": c.ID})
	s.publish(EventContactCreated, c)
	return c, nil
}

// Replace overwrites every mutable field of the contact.
func (s *Service) Replace(ctx context.Context, owner, id string, fields domain.ContactFields) (domain.Contact, error) {
	if !validID(id) {
		return domain.Contact{}, domain.ErrContactNotFound()
	}
	fields, err := cleanFields(fields)
	if err != nil {
		return domain.Contact{}, err
	}
	return s.repo.Replace(ctx, owner, id, fields)
}

func (s *Service) SetFavorite(ctx context.Context, owner, id string, favorite bool) (domain.Contact, error) {
	if !validID(id) {
		return domain.Contact{}, domain.ErrContactNotFound()
	}
	return s.repo.SetFavorite(ctx, owner, id, favorite)
}

func (s *Service) Delete(ctx context.Context, owner, id string) error {
	if !validID(id) {
		return domain.ErrContactNotFound()
	}
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return err
	}

	s.audit("contact_deleted", map[string]string{"owner": owner, "contact_id": id})
	s.publish(EventContactDeleted, domain.Contact{ID: id, Owner: owner})
	return nil
}

func (s *Service) publish(evtType string, c domain.Contact) {
	if s.pub == nil {
		return
	}
	evt := ContactEvent{Type: evtType, ContactID: c.ID, Owner: c.Owner, OccurredAt: time.Now().UTC()}
	s.goFn(func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.pub.PublishContactEvent(ctx, evt); err != nil {
			s.audit("publish_"+evtType+"_failed", map[string]string{"contact_id": c.ID, "error": err.Error()})
		}
	})
}

// validID rejects ids that cannot exist so the store never sees them.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func cleanFields(f domain.ContactFields) (domain.ContactFields, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)

	switch {
	case f.Name == "":
		return f, domain.ErrMissingField("name")
	case f.Email == "":
		return f, domain.ErrMissingField("email")
	case f.Phone == "":
		return f, domain.ErrMissingField("phone")
	}
	return f, nil
}
