package domain

import (
	"math"
	"time"
)

type Contact struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Favorite  bool
	Owner     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContactFields are the mutable fields of a contact.
type ContactFields struct {
	Name     string
	Email    string
	Phone    string
	Favorite bool
}

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit within int for any limit up to MaxLimit.
	MaxPage = math.MaxInt / MaxLimit
)

// ContactFilter selects one page of an owner's contacts.
type ContactFilter struct {
	Owner    string
	Page     int
	Limit    int
	Favorite *bool
}

func (f ContactFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// Normalize applies defaults to page/limit and caps them at MaxPage/MaxLimit.
func (f ContactFilter) Normalize() ContactFilter {
	if f.Page <= 0 {
		f.Page = DefaultPage
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	return f
}

type ContactPage struct {
	Items []Contact
	Page  int
	Limit int
	Total int
}
