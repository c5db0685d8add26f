package service

import (
	"context"
	"testing"
	"time"

	"physical-ai-textbook-be/internal/dto"
	"physical-ai-textbook-be/internal/entity"
	"physical-ai-textbook-be/internal/pkg/security"
	"physical-ai-textbook-be/internal/repository/memory"
	"physical-ai-textbook-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	store     *fakeStore
	tokens    *security.TokenManager
	blocklist *memory.TokenBlocklist
	recorder  *events.Recorder
	svc       IAuthService
}

func newAuthFixture() *authFixture {
	store := newFakeStore()
	factory := fakeFactory{store: store}
	tokens := security.NewTokenManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	blocklist := memory.NewTokenBlocklist()
	recorder := &events.Recorder{}

	svc := NewAuthService(
		factory,
		tokens,
		blocklist,
		NewAuditService(factory, nil, nil),
		recorder,
		AuthConfig{BcryptCost: 4, MaxFailedAttempts: 5, LockoutDuration: 15 * time.Minute},
		nil,
	)
	return &authFixture{store: store, tokens: tokens, blocklist: blocklist, recorder: recorder, svc: svc}
}

func withClock(t *testing.T, now time.Time) {
	prev := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = prev })
}

var testClient = dto.ClientInfo{IpAddress: "203.0.113.7", UserAgent: "go-test"}

func TestRegister(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	resp, tokens, err := f.svc.Register(ctx, &dto.RegisterRequest{Email: "  Ada@Example.COM ", Password: "password1"}, testClient)
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.False(t, resp.HasProfile)
	assert.Equal(t, "Registration successful", resp.Message)

	access, err := f.tokens.Parse(tokens.AccessToken, security.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, resp.User.Id.String(), access.Subject)

	_, err = f.tokens.Parse(tokens.RefreshToken, security.TokenTypeRefresh)
	require.NoError(t, err)

	stored := f.store.userByEmail("ada@example.com")
	require.NotNil(t, stored)
	assert.NotEqual(t, "password1", stored.PasswordHash)
	assert.True(t, security.VerifyPassword(stored.PasswordHash, "password1"))

	assert.Equal(t, []entity.AuditEventType{entity.AuditRegistration}, f.store.auditTypes())
	assert.Equal(t, []string{events.UserRegistered}, f.recorder.Types())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, _, err := f.svc.Register(ctx, &dto.RegisterRequest{Email: "ada@example.com", Password: "password1"}, testClient)
	require.NoError(t, err)

	_, _, err = f.svc.Register(ctx, &dto.RegisterRequest{Email: "ADA@example.com", Password: "password2"}, testClient)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, _, err := f.svc.Register(ctx, &dto.RegisterRequest{Email: "ada@example.com", Password: "password1"}, testClient)
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
		reason   string
	}{
		{name: "unknown email", email: "bob@example.com", password: "password1", wantErr: ErrInvalidCredentials, reason: "user_not_found"},
		{name: "wrong password", email: "ada@example.com", password: "nope12345", wantErr: ErrInvalidCredentials, reason: "invalid_password"},
		{name: "success", email: "ADA@example.com", password: "password1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, tokens, err := f.svc.Login(ctx, &dto.LoginRequest{Email: tt.email, Password: tt.password}, testClient)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)

				last := f.store.audits[len(f.store.audits)-1]
				assert.Equal(t, entity.AuditLoginFailed, last.EventType)
				assert.Equal(t, tt.reason, last.Details["reason"])
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Login successful", resp.Message)
			assert.NotEmpty(t, tokens.AccessToken)

			stored := f.store.userByEmail("ada@example.com")
			assert.Equal(t, 0, stored.FailedLoginAttempts)
			assert.NotNil(t, stored.LastLogin)
		})
	}
}

func TestLoginLocksAccountAfterRepeatedFailures(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	withClock(t, start)

	_, _, err := f.svc.Register(ctx, &dto.RegisterRequest{Email: "ada@example.com", Password: "password1"}, testClient)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, _, err := f.svc.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "wrong-pass1"}, testClient)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// Each failure is counted in its own committed transaction.
	assert.Equal(t, 5, f.store.commits)

	stored := f.store.userByEmail("ada@example.com")
	require.NotNil(t, stored.LockedUntil)
	assert.Equal(t, start.Add(15*time.Minute), *stored.LockedUntil)
	assert.Contains(t, f.store.auditTypes(), entity.AuditAccountLocked)
	assert.Contains(t, f.recorder.Types(), events.AccountLocked)

	// Even the right password is refused while locked.
	_, _, err = f.svc.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "password1"}, testClient)
	var locked *AccountLockedError
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, start.Add(15*time.Minute), locked.Until)
	assert.Contains(t, err.Error(), "2026-03-01T12:15:00Z")

	withClock(t, start.Add(16*time.Minute))
	resp, _, err := f.svc.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "password1"}, testClient)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Contains(t, f.store.auditTypes(), entity.AuditAccountUnlocked)

	stored = f.store.userByEmail("ada@example.com")
	assert.Nil(t, stored.LockedUntil)
	assert.Equal(t, 0, stored.FailedLoginAttempts)
}

func TestRefreshAndLogout(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	resp, tokens, err := f.svc.Register(ctx, &dto.RegisterRequest{Email: "ada@example.com", Password: "password1"}, testClient)
	require.NoError(t, err)

	access, err := f.svc.Refresh(ctx, tokens.RefreshToken, testClient)
	require.NoError(t, err)
	claims, err := f.tokens.Parse(access, security.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, resp.User.Id.String(), claims.Subject)
	assert.Contains(t, f.store.auditTypes(), entity.AuditTokenRefreshed)

	_, err = f.svc.Refresh(ctx, tokens.AccessToken, testClient)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken, "access tokens cannot refresh")

	require.NoError(t, f.svc.Logout(ctx, resp.User.Id, claims, tokens.RefreshToken, testClient))
	assert.True(t, f.blocklist.IsRevoked(claims.ID))
	assert.Contains(t, f.store.auditTypes(), entity.AuditLogout)

	_, err = f.svc.Refresh(ctx, tokens.RefreshToken, testClient)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshUnknownUser(t *testing.T) {
	f := newAuthFixture()

	token, _, err := f.tokens.Issue(uuid.New(), security.TokenTypeRefresh)
	require.NoError(t, err)

	_, err = f.svc.Refresh(context.Background(), token, testClient)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMe(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	resp, _, err := f.svc.Register(ctx, &dto.RegisterRequest{Email: "ada@example.com", Password: "password1"}, testClient)
	require.NoError(t, err)

	me, err := f.svc.Me(ctx, resp.User.Id)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", me.Email)
	assert.Nil(t, me.Profile)

	_, err = f.svc.Me(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
