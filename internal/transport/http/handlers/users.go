package http_handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/transport/http/response"
)

const avatarFormField = "avatar"

// multipart framing allowance on top of the file size limit
const multipartOverhead = 64 << 10

// UserService is the identity surface the user routes depend on.
type UserService interface {
	Signup(ctx context.Context, in auth.SignupInput) (domain.User, error)
	Login(ctx context.Context, email, password string) (auth.LoginResult, error)
	Logout(ctx context.Context, userID string) error
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	UpdateSubscription(ctx context.Context, userID, sub string) (domain.User, error)
	UpdateAvatar(ctx context.Context, userID, tmpPath, originalName string) (string, error)
}

type UserHandler struct {
	svc            UserService
	avatarMaxBytes int64
	avatarTmpDir   string
}

func NewUserHandler(svc UserService, avatarMaxBytes int64, avatarTmpDir string) *UserHandler {
	if avatarMaxBytes <= 0 {
		avatarMaxBytes = 5 << 20
	}
	if avatarTmpDir == "" {
		avatarTmpDir = os.TempDir()
	}
	return &UserHandler{svc: svc, avatarMaxBytes: avatarMaxBytes, avatarTmpDir: avatarTmpDir}
}

// Signup handles POST /api/users/signup
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		middleware.SignupsTotal.WithLabelValues("invalid_json").Inc()
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		middleware.SignupsTotal.WithLabelValues("invalid").Inc()
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Signup(r.Context(), auth.SignupInput{
		Email:        req.Email,
		Password:     req.Password,
		Subscription: req.Subscription,
	})
	if err != nil {
		middleware.SignupsTotal.WithLabelValues(statusLabel(err)).Inc()
		response.WriteError(w, r, err)
		return
	}
	middleware.SignupsTotal.WithLabelValues("success").Inc()

	logger.WithCtx(r.Context()).Info().
		Str("user_id", u.ID).
		Msg("user_registered")

	response.Created(w, dto.NewSignupResponse(u))
}

// Login handles POST /api/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.LoginAttemptsTotal.WithLabelValues(statusLabel(err)).Inc()
		response.WriteError(w, r, err)
		return
	}
	middleware.LoginAttemptsTotal.WithLabelValues("success").Inc()

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Msg("user_logged_in")

	response.OK(w, dto.LoginResponse{Token: res.Token})
}

// Logout handles GET /api/users/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	if err := h.svc.Logout(r.Context(), userID); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Message(w, "Logout successfully")
}

// Current handles GET /api/users/current
func (h *UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}
	response.OK(w, dto.NewCurrentUserResponse(u))
}

// UpdateSubscription handles PATCH /api/users
func (h *UserHandler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	var req dto.SubscriptionRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.UpdateSubscription(r.Context(), userID, req.Subscription)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, dto.SubscriptionResponse{Subscription: string(u.Subscription)})
}

// UpdateAvatar handles PATCH /api/users/avatars (multipart, field "avatar").
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	tmpPath, name, err := h.receiveAvatar(w, r)
	if err != nil {
		middleware.AvatarUploadsTotal.WithLabelValues(statusLabel(err)).Inc()
		response.WriteError(w, r, err)
		return
	}

	url, err := h.svc.UpdateAvatar(r.Context(), userID, tmpPath, name)
	if err != nil {
		middleware.AvatarUploadsTotal.WithLabelValues(statusLabel(err)).Inc()
		response.WriteError(w, r, err)
		return
	}
	middleware.AvatarUploadsTotal.WithLabelValues("success").Inc()

	response.OK(w, dto.AvatarResponse{AvatarURL: url})
}

// receiveAvatar spools the uploaded file into the temp dir. The caller owns
// the returned path; on error nothing is left behind.
func (h *UserHandler) receiveAvatar(w http.ResponseWriter, r *http.Request) (string, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.avatarMaxBytes+multipartOverhead)

	file, hdr, err := r.FormFile(avatarFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return "", "", domain.ErrUploadTooLarge(h.avatarMaxBytes)
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			return "", "", domain.ErrMissingField(avatarFormField)
		default:
			return "", "", domain.ErrInvalidField(avatarFormField, "malformed multipart body")
		}
	}
	defer file.Close()
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	if hdr.Size > h.avatarMaxBytes {
		return "", "", domain.ErrUploadTooLarge(h.avatarMaxBytes)
	}

	tmp, err := os.CreateTemp(h.avatarTmpDir, "avatar-*")
	if err != nil {
		return "", "", domain.ErrInternal(err)
	}

	if _, err := io.Copy(tmp, io.LimitReader(file, h.avatarMaxBytes+1)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", "", domain.ErrInternal(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", "", domain.ErrInternal(err)
	}

	return tmp.Name(), hdr.Filename, nil
}

// VerifyEmail handles GET /api/users/verify/{verificationToken}
func (h *UserHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(chi.URLParam(r, "verificationToken"))
	if token == "" {
		response.WriteError(w, r, domain.ErrVerifyTokenNotFound())
		return
	}

	if err := h.svc.VerifyEmail(r.Context(), token); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Message(w, "Verification successful")
}

// ResendVerification handles POST /api/users/verify
func (h *UserHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req dto.ResendVerificationRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.ResendVerification(r.Context(), req.Email); err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Message(w, "Verification email sent")
}

// statusLabel keeps metric label cardinality bounded to domain codes.
func statusLabel(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "internal_error"
}
