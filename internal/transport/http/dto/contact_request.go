package dto

import "strings"

// ContactRequest is the body of POST /api/contacts and PUT /api/contacts/{id}.
type ContactRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Favorite *bool  `json:"favorite"`
}

func (r *ContactRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	return Validate(r)
}

// FavoriteRequest is the body of PATCH /api/contacts/{id}/favorite.
type FavoriteRequest struct {
	Favorite *bool `json:"favorite" validate:"required"`
}

func (r *FavoriteRequest) Validate() error {
	return Validate(r)
}
