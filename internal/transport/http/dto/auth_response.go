package dto

import (
	"time"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
)

// -------- Users --------

type SignupResponse struct {
	Email        string `json:"email"`
	Subscription string `json:"subscription"`
	AvatarURL    string `json:"avatarURL"`
}

func NewSignupResponse(u domain.User) SignupResponse {
	return SignupResponse{Email: u.Email, Subscription: string(u.Subscription), AvatarURL: u.AvatarURL}
}

type LoginResponse struct {
	Token string `json:"token"`
}

type CurrentUserResponse struct {
	Email        string `json:"email"`
	Subscription string `json:"subscription"`
}

func NewCurrentUserResponse(u domain.User) CurrentUserResponse {
	return CurrentUserResponse{Email: u.Email, Subscription: string(u.Subscription)}
}

type SubscriptionResponse struct {
	Subscription string `json:"subscription"`
}

type AvatarResponse struct {
	AvatarURL string `json:"avatarURL"`
}

// -------- Contacts --------

type ContactView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Favorite  bool      `json:"favorite"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewContactView(c domain.Contact) ContactView {
	return ContactView{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Favorite:  c.Favorite,
		Owner:     c.Owner,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type ContactListResponse struct {
	Contacts []ContactView `json:"contacts"`
	Page     int           `json:"page"`
	Limit    int           `json:"limit"`
	Total    int           `json:"total"`
}

func NewContactListResponse(p domain.ContactPage) ContactListResponse {
	out := ContactListResponse{
		Contacts: make([]ContactView, 0, len(p.Items)),
		Page:     p.Page,
		Limit:    p.Limit,
		Total:    p.Total,
	}
	for _, c := range p.Items {
		out.Contacts = append(out.Contacts, NewContactView(c))
	}
	return out
}
