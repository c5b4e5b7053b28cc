package http_handlers

import (
	"context"
	"os"
	"sync"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/application/contacts"
	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
)

// ---- users ----

type fakeUserService struct {
	mu sync.Mutex

	signupIn   auth.SignupInput
	signupUser domain.User
	signupErr  error

	loginRes auth.LoginResult
	loginErr error

	logoutID  string
	logoutErr error

	verifyTok string
	verifyErr error

	resendEmail string
	resendErr   error

	subUser domain.User
	subErr  error
	subRaw  string

	avatarURL     string
	avatarErr     error
	avatarTmp     string
	avatarName    string
	avatarContent []byte
}

func (f *fakeUserService) Signup(ctx context.Context, in auth.SignupInput) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signupIn = in
	return f.signupUser, f.signupErr
}

func (f *fakeUserService) Login(ctx context.Context, email, password string) (auth.LoginResult, error) {
	return f.loginRes, f.loginErr
}

func (f *fakeUserService) Logout(ctx context.Context, userID string) error {
	f.logoutID = userID
	return f.logoutErr
}

func (f *fakeUserService) VerifyEmail(ctx context.Context, token string) error {
	f.verifyTok = token
	return f.verifyErr
}

func (f *fakeUserService) ResendVerification(ctx context.Context, email string) error {
	f.resendEmail = email
	return f.resendErr
}

func (f *fakeUserService) UpdateSubscription(ctx context.Context, userID, sub string) (domain.User, error) {
	f.subRaw = sub
	return f.subUser, f.subErr
}

// UpdateAvatar mirrors the real service: the temp file is consumed and removed.
func (f *fakeUserService) UpdateAvatar(ctx context.Context, userID, tmpPath, originalName string) (string, error) {
	defer func() { _ = os.Remove(tmpPath) }()
	f.avatarTmp = tmpPath
	f.avatarName = originalName
	f.avatarContent, _ = os.ReadFile(tmpPath)
	return f.avatarURL, f.avatarErr
}

// ---- contacts ----

type fakeContactService struct {
	listFilter domain.ContactFilter
	listCalled bool
	page       domain.ContactPage

	contact domain.Contact
	err     error

	gotOwner  string
	gotID     string
	gotCreate contacts.CreateInput
	gotFields domain.ContactFields
	gotFav    *bool
	deleted   bool
}

func (f *fakeContactService) List(ctx context.Context, flt domain.ContactFilter) (domain.ContactPage, error) {
	f.listCalled = true
	f.listFilter = flt
	return f.page, f.err
}

func (f *fakeContactService) Get(ctx context.Context, owner, id string) (domain.Contact, error) {
	f.gotOwner, f.gotID = owner, id
	return f.contact, f.err
}

func (f *fakeContactService) Create(ctx context.Context, owner string, in contacts.CreateInput) (domain.Contact, error) {
	f.gotOwner, f.gotCreate = owner, in
	return f.contact, f.err
}

func (f *fakeContactService) Replace(ctx context.Context, owner, id string, fields domain.ContactFields) (domain.Contact, error) {
	f.gotOwner, f.gotID, f.gotFields = owner, id, fields
	return f.contact, f.err
}

func (f *fakeContactService) SetFavorite(ctx context.Context, owner, id string, favorite bool) (domain.Contact, error) {
	f.gotOwner, f.gotID, f.gotFav = owner, id, &favorite
	return f.contact, f.err
}

func (f *fakeContactService) Delete(ctx context.Context, owner, id string) error {
	f.gotOwner, f.gotID = owner, id
	if f.err == nil {
		f.deleted = true
	}
	return f.err
}
