package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/transport/http/middleware"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type UserHandler interface {
	Signup(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Current(w http.ResponseWriter, r *http.Request)
	UpdateSubscription(w http.ResponseWriter, r *http.Request)
	UpdateAvatar(w http.ResponseWriter, r *http.Request)
	VerifyEmail(w http.ResponseWriter, r *http.Request)
	ResendVerification(w http.ResponseWriter, r *http.Request)
}

type ContactHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Replace(w http.ResponseWriter, r *http.Request)
	SetFavorite(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

// IPLimit configures the in-process per-IP limiter used when no shared
// limiter is available.
type IPLimit struct {
	Limit  int
	Window time.Duration
}

type Deps struct {
	Health   HealthHandler
	Users    UserHandler
	Contacts ContactHandler

	AuthMW func(http.Handler) http.Handler

	// Optional per-route limiters; nil disables.
	RLSignup func(http.Handler) http.Handler
	RLLogin  func(http.Handler) http.Handler
	RLVerify func(http.Handler) http.Handler

	// Optional fallback applied to all /api routes.
	FallbackIPLimit *IPLimit

	// AvatarDir is served at /avatars/* when set (local avatar store).
	AvatarDir string
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Users == nil {
		return nil, fmt.Errorf("nil Users handler")
	}
	if deps.Contacts == nil {
		return nil, fmt.Errorf("nil Contacts handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Metrics)

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if deps.AvatarDir != "" {
		fs := http.StripPrefix("/avatars/", http.FileServer(http.Dir(deps.AvatarDir)))
		r.Get("/avatars/*", fs.ServeHTTP)
	}

	r.Route("/api", func(r chi.Router) {
		if l := deps.FallbackIPLimit; l != nil && l.Limit > 0 {
			r.Use(httprate.LimitByIP(l.Limit, l.Window))
		}

		r.Route("/users", func(r chi.Router) {
			r.With(optional(deps.RLSignup)...).Post("/signup", deps.Users.Signup)
			r.With(optional(deps.RLLogin)...).Post("/login", deps.Users.Login)
			r.Get("/verify/{verificationToken}", deps.Users.VerifyEmail)
			r.With(optional(deps.RLVerify)...).Post("/verify", deps.Users.ResendVerification)

			r.Group(func(r chi.Router) {
				r.Use(deps.AuthMW)
				r.Get("/logout", deps.Users.Logout)
				r.Get("/current", deps.Users.Current)
				r.Patch("/", deps.Users.UpdateSubscription)
				r.Patch("/avatars", deps.Users.UpdateAvatar)
			})
		})

		r.Route("/contacts", func(r chi.Router) {
			r.Use(deps.AuthMW)

			r.Get("/", deps.Contacts.List)
			r.Post("/", deps.Contacts.Create)
			r.Get("/{contactId}", deps.Contacts.Get)
			r.Put("/{contactId}", deps.Contacts.Replace)
			r.Delete("/{contactId}", deps.Contacts.Delete)
			r.Patch("/{contactId}/favorite", deps.Contacts.SetFavorite)
		})
	})

	return r, nil
}

func optional(mws ...func(http.Handler) http.Handler) []func(http.Handler) http.Handler {
	out := make([]func(http.Handler) http.Handler, 0, len(mws))
	for _, mw := range mws {
		if mw != nil {
			out = append(out, mw)
		}
	}
	return out
}
