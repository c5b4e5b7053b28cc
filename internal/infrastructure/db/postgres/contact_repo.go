package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
)

type ContactRepo struct {
	db *sql.DB
}

func NewContactRepo(db *sql.DB) *ContactRepo {
	return &ContactRepo{db: db}
}

const contactColumns = `id, owner_id, name, email, phone, favorite, created_at, updated_at`

type contactRow struct {
	ID        string
	Owner     string
	Name      string
	Email     string
	Phone     string
	Favorite  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func scanContact(s scanner) (domain.Contact, error) {
	var cr contactRow
	if err := s.Scan(&cr.ID, &cr.Owner, &cr.Name, &cr.Email, &cr.Phone, &cr.Favorite, &cr.CreatedAt, &cr.UpdatedAt); err != nil {
		return domain.Contact{}, err
	}
	return domain.Contact{
		ID:        cr.ID,
		Owner:     cr.Owner,
		Name:      cr.Name,
		Email:     cr.Email,
		Phone:     cr.Phone,
		Favorite:  cr.Favorite,
		CreatedAt: cr.CreatedAt,
		UpdatedAt: cr.UpdatedAt,
	}, nil
}

func (r *ContactRepo) one(ctx context.Context, q string, args ...any) (domain.Contact, error) {
	c, err := scanContact(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if isNoRows(err) {
			return domain.Contact{}, domain.ErrContactNotFound()
		}
		return domain.Contact{}, domain.ErrDBUnavailable(err)
	}
	return c, nil
}

// ListByOwner returns one page in creation order plus the owner's total.
func (r *ContactRepo) ListByOwner(ctx context.Context, f domain.ContactFilter) (domain.ContactPage, error) {
	f = f.Normalize()
	if strings.TrimSpace(f.Owner) == "" {
		return domain.ContactPage{}, domain.ErrMissingField("owner")
	}

	where := "owner_id = $1"
	args := []any{f.Owner}
	if f.Favorite != nil {
		args = append(args, *f.Favorite)
		where += fmt.Sprintf(" AND favorite = $%d", len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM contacts WHERE `+where+`;`, args...).Scan(&total); err != nil {
		return domain.ContactPage{}, domain.ErrDBUnavailable(err)
	}

	args = append(args, f.Limit, f.Offset())
	q := fmt.Sprintf(`SELECT %s FROM contacts WHERE %s ORDER BY created_at, id LIMIT $%d OFFSET $%d;`,
		contactColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return domain.ContactPage{}, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	items := make([]domain.Contact, 0, f.Limit)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return domain.ContactPage{}, domain.ErrDBUnavailable(err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return domain.ContactPage{}, domain.ErrDBUnavailable(err)
	}

	return domain.ContactPage{Items: items, Page: f.Page, Limit: f.Limit, Total: total}, nil
}

func (r *ContactRepo) GetByID(ctx context.Context, owner, id string) (domain.Contact, error) {
	return r.one(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1 AND owner_id = $2;`, id, owner)
}

func (r *ContactRepo) Create(ctx context.Context, c domain.Contact) (domain.Contact, error) {
	if c.ID == "" {
		return domain.Contact{}, domain.ErrMissingField("id")
	}
	if c.Owner == "" {
		return domain.Contact{}, domain.ErrMissingField("owner")
	}

	const q = `
INSERT INTO contacts (id, owner_id, name, email, phone, favorite)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING ` + contactColumns + `;
`
	return r.one(ctx, q, c.ID, c.Owner, c.Name, c.Email, c.Phone, c.Favorite)
}

func (r *ContactRepo) Replace(ctx context.Context, owner, id string, f domain.ContactFields) (domain.Contact, error) {
	const q = `
UPDATE contacts
SET name = $3,
    email = $4,
    phone = $5,
    favorite = $6,
    updated_at = NOW()
WHERE id = $1 AND owner_id = $2
RETURNING ` + contactColumns + `;
`
	return r.one(ctx, q, id, owner, f.Name, f.Email, f.Phone, f.Favorite)
}

func (r *ContactRepo) SetFavorite(ctx context.Context, owner, id string, favorite bool) (domain.Contact, error) {
	const q = `
UPDATE contacts
SET favorite = $3,
    updated_at = NOW()
WHERE id = $1 AND owner_id = $2
RETURNING ` + contactColumns + `;
`
	return r.one(ctx, q, id, owner, favorite)
}

func (r *ContactRepo) Delete(ctx context.Context, owner, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1 AND owner_id = $2;`, id, owner)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrContactNotFound()
	}
	return nil
}
