package http_handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/application/contacts"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/transport/http/response"
)

type ContactService interface {
	List(ctx context.Context, f domain.ContactFilter) (domain.ContactPage, error)
	Get(ctx context.Context, owner, id string) (domain.Contact, error)
	Create(ctx context.Context, owner string, in contacts.CreateInput) (domain.Contact, error)
	Replace(ctx context.Context, owner, id string, fields domain.ContactFields) (domain.Contact, error)
	SetFavorite(ctx context.Context, owner, id string, favorite bool) (domain.Contact, error)
	Delete(ctx context.Context, owner, id string) error
}

type ContactHandler struct {
	svc ContactService
}

func NewContactHandler(svc ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

// List handles GET /api/contacts?page=&limit=&favorite=
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	f, err := parseContactFilter(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	f.Owner = owner

	page, err := h.svc.List(r.Context(), f)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewContactListResponse(page))
}

func parseContactFilter(r *http.Request) (domain.ContactFilter, error) {
	q := r.URL.Query()
	var f domain.ContactFilter

	var err error
	if f.Page, err = positiveIntParam(q.Get("page"), "page"); err != nil {
		return f, err
	}
	if f.Page > domain.MaxPage {
		return f, domain.ErrInvalidField("page", fmt.Sprintf("must be at most %d", domain.MaxPage))
	}
	if f.Limit, err = positiveIntParam(q.Get("limit"), "limit"); err != nil {
		return f, err
	}

	if raw := strings.TrimSpace(q.Get("favorite")); raw != "" {
		fav, perr := strconv.ParseBool(raw)
		if perr != nil {
			return f, domain.ErrInvalidField("favorite", "must be true or false")
		}
		f.Favorite = &fav
	}
	return f, nil
}

// positiveIntParam returns 0 for an absent value so defaults apply later.
func positiveIntParam(raw, field string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, domain.ErrInvalidField(field, "must be a positive integer")
	}
	return n, nil
}

// Get handles GET /api/contacts/{contactId}
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	c, err := h.svc.Get(r.Context(), owner, chi.URLParam(r, "contactId"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewContactView(c))
}

// Create handles POST /api/contacts
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	var req dto.ContactRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	c, err := h.svc.Create(r.Context(), owner, contacts.CreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Favorite: req.Favorite != nil && *req.Favorite,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, dto.NewContactView(c))
}

// Replace handles PUT /api/contacts/{contactId}. An omitted favorite resets it.
func (h *ContactHandler) Replace(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	var req dto.ContactRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	c, err := h.svc.Replace(r.Context(), owner, chi.URLParam(r, "contactId"), domain.ContactFields{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Favorite: req.Favorite != nil && *req.Favorite,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, dto.NewContactView(c))
}

// SetFavorite handles PATCH /api/contacts/{contactId}/favorite
func (h *ContactHandler) SetFavorite(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	var req dto.FavoriteRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	c, err := h.svc.SetFavorite(r.Context(), owner, chi.URLParam(r, "contactId"), *req.Favorite)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, dto.NewContactView(c))
}

// Delete handles DELETE /api/contacts/{contactId}
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	if err := h.svc.Delete(r.Context(), owner, chi.URLParam(r, "contactId")); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Message(w, "Successfully deleted contact")
}
