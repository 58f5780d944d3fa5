package authservice

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/companionhealth/companion/core/repositories/sessionsrepo"
	"github.com/companionhealth/companion/core/repositories/usersrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/sdk/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeAuthStore struct {
	users    map[string]usersrepo.User
	sessions map[string]sessionsrepo.Session
}

func newFakeAuthStore() *fakeAuthStore {
	return &fakeAuthStore{
		users:    make(map[string]usersrepo.User),
		sessions: make(map[string]sessionsrepo.Session),
	}
}

func (f *fakeAuthStore) Create(ctx context.Context, nu usersrepo.CreateUser) (usersrepo.User, error) {
	for _, u := range f.users {
		if u.Email == nu.Email {
			return usersrepo.User{}, fmt.Errorf("users: %w", postgresdb.ErrDBDuplicatedEntry)
		}
	}
	usr := usersrepo.User{
		UserID:       uuid.NewString(),
		Email:        nu.Email,
		PasswordHash: nu.PasswordHash,
		FirstName:    nu.FirstName,
		LastName:     nu.LastName,
		CreatedAt:    time.Now(),
	}
	f.users[usr.UserID] = usr
	return usr, nil
}

func (f *fakeAuthStore) QueryByID(ctx context.Context, userID string) (usersrepo.User, error) {
	usr, ok := f.users[userID]
	if !ok {
		return usersrepo.User{}, fmt.Errorf("users: %w", postgresdb.ErrDBNotFound)
	}
	return usr, nil
}

func (f *fakeAuthStore) QueryByEmail(ctx context.Context, email string) (usersrepo.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return usersrepo.User{}, fmt.Errorf("users: %w", postgresdb.ErrDBNotFound)
}

type fakeSessions struct{ f *fakeAuthStore }

func (s fakeSessions) Create(ctx context.Context, ns sessionsrepo.CreateSession) (sessionsrepo.Session, error) {
	ses := sessionsrepo.Session{
		SessionID: uuid.NewString(),
		UserID:    ns.UserID,
		Token:     ns.Token,
		CreatedAt: time.Now(),
		ExpiresAt: ns.ExpiresAt,
	}
	s.f.sessions[ses.Token] = ses
	return ses, nil
}

func (s fakeSessions) QueryByToken(ctx context.Context, token string) (sessionsrepo.Session, error) {
	ses, ok := s.f.sessions[token]
	if !ok {
		return sessionsrepo.Session{}, fmt.Errorf("sessions: %w", postgresdb.ErrDBNotFound)
	}
	return ses, nil
}

func (s fakeSessions) DeleteByToken(ctx context.Context, token string) error {
	delete(s.f.sessions, token)
	return nil
}

func (s fakeSessions) DeleteByUser(ctx context.Context, userID string) error {
	for tok, ses := range s.f.sessions {
		if ses.UserID == userID {
			delete(s.f.sessions, tok)
		}
	}
	return nil
}

func newTestService() (*Service, *fakeAuthStore) {
	store := newFakeAuthStore()
	svc := NewService(logger.NewDefault("authservice-test"), store, fakeSessions{store}, time.Hour)
	return svc, store
}

func TestSignUpAndSignIn(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	nu := usersrepo.CreateUser{Email: "pat@example.com", FirstName: "Pat", LastName: "Lee"}

	usr, ses, err := svc.SignUp(ctx, nu, "hunter2hunter2")
	require.NoError(t, err)
	require.Len(t, ses.Token, 48)
	require.NotEqual(t, "hunter2hunter2", usr.PasswordHash)

	_, _, err = svc.SignUp(ctx, nu, "hunter2hunter2")
	require.ErrorIs(t, err, ErrEmailTaken)

	_, ses2, err := svc.SignIn(ctx, "pat@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.NotEqual(t, ses.Token, ses2.Token)

	_, _, err = svc.SignIn(ctx, "pat@example.com", "wrong")
	require.ErrorIs(t, err, ErrBadCredentials)

	_, _, err = svc.SignIn(ctx, "nobody@example.com", "hunter2hunter2")
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestSession(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	usr, ses, err := svc.SignUp(ctx, usersrepo.CreateUser{Email: "pat@example.com"}, "hunter2hunter2")
	require.NoError(t, err)

	claims, err := svc.Session(ctx, ses.Token)
	require.NoError(t, err)
	require.Equal(t, usr.UserID, claims.UserID)
	require.Nil(t, claims.UserType, "type is unset before onboarding")

	_, err = svc.Session(ctx, "")
	require.ErrorIs(t, err, ErrBadToken)

	_, err = svc.Session(ctx, "not-a-real-token")
	require.ErrorIs(t, err, ErrBadToken)
}

func TestSessionExpiry(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, ses, err := svc.SignUp(ctx, usersrepo.CreateUser{Email: "pat@example.com"}, "hunter2hunter2")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = svc.Session(ctx, ses.Token)
	require.ErrorIs(t, err, ErrBadToken)
}

func TestSignOut(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	usr, ses, err := svc.SignUp(ctx, usersrepo.CreateUser{Email: "pat@example.com"}, "hunter2hunter2")
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, ses.Token))
	_, err = svc.Session(ctx, ses.Token)
	require.ErrorIs(t, err, ErrBadToken)

	// Closing an unknown token is silent.
	require.NoError(t, svc.SignOut(ctx, "gone"))

	_, _, err = svc.SignIn(ctx, "pat@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.NoError(t, svc.SignOutEverywhere(ctx, usr.UserID))
	require.Empty(t, store.sessions)
}
