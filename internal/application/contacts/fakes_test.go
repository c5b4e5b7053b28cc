package contacts

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
)

type fakeRepo struct {
	mu   sync.Mutex
	rows map[string]domain.Contact
	seq  int

	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[string]domain.Contact{}}
}

func (f *fakeRepo) owned(owner, id string) (domain.Contact, bool) {
	c, ok := f.rows[id]
	if !ok || c.Owner != owner {
		return domain.Contact{}, false
	}
	return c, true
}

func (f *fakeRepo) ListByOwner(ctx context.Context, flt domain.ContactFilter) (domain.ContactPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []domain.Contact
	for _, c := range f.rows {
		if c.Owner != flt.Owner {
			continue
		}
		if flt.Favorite != nil && c.Favorite != *flt.Favorite {
			continue
		}
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })

	page := domain.ContactPage{Page: flt.Page, Limit: flt.Limit, Total: len(all), Items: []domain.Contact{}}
	start := flt.Offset()
	if start >= len(all) {
		return page, nil
	}
	end := start + flt.Limit
	if end > len(all) {
		end = len(all)
	}
	page.Items = append(page.Items, all[start:end]...)
	return page, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, owner, id string) (domain.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.owned(owner, id)
	if !ok {
		return domain.Contact{}, domain.ErrContactNotFound()
	}
	return c, nil
}

func (f *fakeRepo) Create(ctx context.Context, c domain.Contact) (domain.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return domain.Contact{}, f.createErr
	}
	f.seq++
	c.CreatedAt = time.Unix(int64(f.seq), 0)
	c.UpdatedAt = c.CreatedAt
	f.rows[c.ID] = c
	return c, nil
}

func (f *fakeRepo) Replace(ctx context.Context, owner, id string, fields domain.ContactFields) (domain.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.owned(owner, id)
	if !ok {
		return domain.Contact{}, domain.ErrContactNotFound()
	}
	c.Name, c.Email, c.Phone, c.Favorite = fields.Name, fields.Email, fields.Phone, fields.Favorite
	f.rows[id] = c
	return c, nil
}

func (f *fakeRepo) SetFavorite(ctx context.Context, owner, id string, favorite bool) (domain.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.owned(owner, id)
	if !ok {
		return domain.Contact{}, domain.ErrContactNotFound()
	}
	c.Favorite = favorite
	f.rows[id] = c
	return c, nil
}

func (f *fakeRepo) Delete(ctx context.Context, owner, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.owned(owner, id); !ok {
		return domain.ErrContactNotFound()
	}
	delete(f.rows, id)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []ContactEvent
	err    error
}

func (p *fakePublisher) PublishContactEvent(ctx context.Context, evt ContactEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func newTestService() (*Service, *fakeRepo, *fakePublisher) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	svc := NewService(repo, pub)
	svc.goFn = func(f func()) { f() }
	return svc, repo, pub
}

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code=%q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected code=%q, got err=%v", code, err)
	}
}
