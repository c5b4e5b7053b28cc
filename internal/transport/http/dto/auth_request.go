package dto

import "strings"

// -------- Users --------

type SignupRequest struct {
	Email        string `json:"email" validate:"required,email_pattern"`
	Password     string `json:"password" validate:"required,min=6"`
	Subscription string `json:"subscription" validate:"subscription"`
}

func (r *SignupRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return Validate(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email_pattern"`
	Password string `json:"password" validate:"required,min=6"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return Validate(r)
}

// ResendVerificationRequest is the body of POST /api/users/verify.
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email_pattern"`
}

func (r *ResendVerificationRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return Validate(r)
}

type SubscriptionRequest struct {
	Subscription string `json:"subscription" validate:"required,subscription"`
}

func (r *SubscriptionRequest) Validate() error {
	r.Subscription = strings.TrimSpace(r.Subscription)
	return Validate(r)
}
