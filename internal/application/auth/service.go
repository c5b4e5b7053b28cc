package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
)

const (
	defaultAvatarSize  = 250
	verifyTokenBytes   = 32
	defaultMailTimeout = 10 * time.Second
)

type Service struct {
	users   UserRepo
	hasher  PasswordHasher
	signer  TokenSigner
	mailer  Mailer
	pub     EventPublisher
	images  ImageProcessor
	avatars AvatarStore

	accessTTL       time.Duration
	verifyBaseURL   string // e.g. https://host/api/users/verify/
	requireVerified bool
	mailTimeout     time.Duration
	avatarSize      int

	audit func(action string, fields map[string]string)
	// goFn runs fire-and-forget work; tests swap it for a synchronous call.
	goFn func(func())
}

type Config struct {
	AccessTTL                time.Duration
	VerifyBaseURL            string
	RequireEmailVerification bool
	MailTimeout              time.Duration
	AvatarSize               int
}

func NewService(
	users UserRepo,
	hasher PasswordHasher,
	signer TokenSigner,
	mailer Mailer,
	pub EventPublisher,
	images ImageProcessor,
	avatars AvatarStore,
	cfg Config,
) *Service {
	accessTTL := cfg.AccessTTL
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	mailTimeout := cfg.MailTimeout
	if mailTimeout <= 0 {
		mailTimeout = defaultMailTimeout
	}
	size := cfg.AvatarSize
	if size <= 0 {
		size = defaultAvatarSize
	}
	baseURL := cfg.VerifyBaseURL
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &Service{
		users:   users,
		hasher:  hasher,
		signer:  signer,
		mailer:  mailer,
		pub:     pub,
		images:  images,
		avatars: avatars,

		accessTTL:       accessTTL,
		verifyBaseURL:   baseURL,
		requireVerified: cfg.RequireEmailVerification,
		mailTimeout:     mailTimeout,
		avatarSize:      size,

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

type LoginResult struct {
	User  domain.User
	Token string
}

// issueSession signs a new token and stores it as the user's only live
// session, which invalidates whatever token was stored before.
func (s *Service) issueSession(ctx context.Context, u domain.User) (string, error) {
	token, err := s.signer.SignAccessToken(u.ID, s.accessTTL)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	if err := s.users.SetSessionToken(ctx, u.ID, token); err != nil {
		return "", err
	}
	s.audit("session_issued", map[string]string{"user_id": u.ID})
	return token, nil
}

// background runs fn detached from the request with its own deadline.
// Failures are reported through the audit hook and never surface to callers.
func (s *Service) background(action string, fields map[string]string, fn func(ctx context.Context) error) {
	s.goFn(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.mailTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			out := map[string]string{"error": err.Error(), "code": domainCode(err)}
			for k, v := range fields {
				out[k] = v
			}
			s.audit(action+"_failed", out)
		}
	})
}

func (s *Service) dispatchVerification(u domain.User) {
	if s.mailer == nil || u.VerificationToken == "" {
		return
	}
	link := s.verifyBaseURL + u.VerificationToken
	s.background("verification_email", map[string]string{"user_id": u.ID}, func(ctx context.Context) error {
		return s.mailer.SendVerification(ctx, u.Email, link)
	})
}

func (s *Service) publish(evtType string, u domain.User) {
	if s.pub == nil {
		return
	}
	evt := UserEvent{Type: evtType, UserID: u.ID, Email: u.Email, OccurredAt: time.Now().UTC()}
	s.background("publish_"+evtType, map[string]string{"user_id": u.ID}, func(ctx context.Context) error {
		return s.pub.PublishUserEvent(ctx, evt)
	})
}

// newOpaqueToken returns a URL-safe opaque token.
func newOpaqueToken(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		return "", errors.New("invalid token length")
	}
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
