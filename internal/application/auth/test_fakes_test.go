package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
)

/*
Shared audit capture
*/

type auditEntry struct {
	action string
	fields map[string]string
}

type auditLog struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *auditLog) fn(action string, fields map[string]string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, auditEntry{action: action, fields: fields})
}

func (a *auditLog) has(action string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, e := range a.entries {
		if e.action == action {
			return true
		}
	}
	return false
}

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu sync.Mutex

	byID map[string]domain.User

	// injected errors (if set, method returns error)
	getByIDErr    error
	getByEmailErr error
	createErr     error
	setSessionErr error
	avatarErr     error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]domain.User{}}
}

func (f *fakeUserRepo) put(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = u
}

func (f *fakeUserRepo) get(id string) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByIDErr != nil {
		return domain.User{}, f.getByIDErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByEmailErr != nil {
		return domain.User{}, f.getByEmailErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserRepo) SetSessionToken(ctx context.Context, userID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setSessionErr != nil {
		return f.setSessionErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.SessionToken = token
	f.byID[userID] = u
	return nil
}

func (f *fakeUserRepo) RedeemVerificationToken(ctx context.Context, token string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, u := range f.byID {
		if u.VerificationToken != "" && u.VerificationToken == token {
			u.Verified = true
			u.VerificationToken = ""
			f.byID[id] = u
			return u, nil
		}
	}
	return domain.User{}, domain.ErrVerifyTokenNotFound()
}

func (f *fakeUserRepo) UpdateSubscription(ctx context.Context, userID string, sub domain.Subscription) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	u.Subscription = sub
	f.byID[userID] = u
	return u, nil
}

func (f *fakeUserRepo) UpdateAvatarURL(ctx context.Context, userID, avatarURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.avatarErr != nil {
		return f.avatarErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.AvatarURL = avatarURL
	f.byID[userID] = u
	return nil
}

// fakeHasher: "hash:<pw>"
type fakeHasher struct {
	hashErr error
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hash:" + password, nil
}

func (h *fakeHasher) Compare(hash string, password string) error {
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// fakeSigner: "tok:<uid>:<n>"; verify parses it back.
type fakeSigner struct {
	mu      sync.Mutex
	n       int
	signErr error
	expired map[string]bool
}

func (s *fakeSigner) SignAccessToken(userID string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.signErr != nil {
		return "", s.signErr
	}
	s.n++
	return fmt.Sprintf("tok:%s:%d", userID, s.n), nil
}

func (s *fakeSigner) VerifyAccessToken(token string) (TokenClaims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expired[token] {
		return TokenClaims{}, domain.ErrTokenExpired()
	}
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != "tok" {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	return TokenClaims{UserID: parts[1], TokenID: parts[2], Exp: time.Now().Add(time.Hour)}, nil
}

type sentMail struct {
	to, link string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendVerification(ctx context.Context, to, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, link: link})
	return m.err
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []UserEvent
	err    error
}

func (p *fakePublisher) PublishUserEvent(ctx context.Context, evt UserEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

type fakeImages struct {
	err error
}

func (f *fakeImages) SquareAvatar(data []byte, ext string, size int) ([]byte, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	ct := "image/jpeg"
	if ext == ".png" {
		ct = "image/png"
	}
	return []byte(fmt.Sprintf("%dx%d:%s", size, size, data)), ct, nil
}

type fakeAvatarStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
	deleted []string
}

func newFakeAvatarStore() *fakeAvatarStore {
	return &fakeAvatarStore{objects: map[string][]byte{}}
}

func (f *fakeAvatarStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return "", f.putErr
	}
	f.objects[key] = data
	return "https://cdn.test/" + key, nil
}

func (f *fakeAvatarStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

/*
Service harness
*/

type harness struct {
	svc     *Service
	users   *fakeUserRepo
	signer  *fakeSigner
	mailer  *fakeMailer
	pub     *fakePublisher
	images  *fakeImages
	avatars *fakeAvatarStore
	audit   *auditLog
}

func newHarness(requireVerified bool) *harness {
	h := &harness{
		users:   newFakeUserRepo(),
		signer:  &fakeSigner{expired: map[string]bool{}},
		mailer:  &fakeMailer{},
		pub:     &fakePublisher{},
		images:  &fakeImages{},
		avatars: newFakeAvatarStore(),
		audit:   &auditLog{},
	}
	h.svc = NewService(h.users, &fakeHasher{}, h.signer, h.mailer, h.pub, h.images, h.avatars, Config{
		AccessTTL:                time.Hour,
		VerifyBaseURL:            "http://api.test/api/users/verify",
		RequireEmailVerification: requireVerified,
	}).WithAudit(h.audit.fn)
	// run background work inline so assertions are deterministic
	h.svc.goFn = func(f func()) { f() }
	return h
}

func (h *harness) signup(email, password string) domain.User {
	u, err := h.svc.Signup(context.Background(), SignupInput{Email: email, Password: password})
	if err != nil {
		panic(err)
	}
	return u
}
