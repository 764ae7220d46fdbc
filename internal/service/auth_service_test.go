package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/events"
	"alcyxob/fitclub/internal/identity"
	"alcyxob/fitclub/internal/repository/memory"
	"alcyxob/fitclub/internal/service"
	"alcyxob/fitclub/internal/session"
)

type authFixture struct {
	users    *memory.UserRepository
	events   *events.Recorder
	provider *identity.Provider
	registry *session.Registry
	auth     service.AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{users: memory.NewUserRepository(), events: &events.Recorder{}}
	f.provider = identity.NewProvider(identity.Config{
		Credentials: memory.NewCredentialRepository(),
		Events:      f.events,
		Logger:      zerolog.Nop(),
		Now:         fixedClock(),
	})
	f.registry = session.NewRegistry(session.RegistryConfig{
		Provider: f.provider,
		Users:    f.users,
		Events:   f.events,
		Logger:   zerolog.Nop(),
		Now:      fixedClock(),
	})
	f.auth = service.NewAuthService(service.AuthConfig{
		Registry:      f.registry,
		Provider:      f.provider,
		JWTSecret:     "test-secret",
		JWTExpiration: time.Hour,
		Logger:        zerolog.Nop(),
		Now:           service.Clock(time.Now),
	})
	return f
}

func (f *authFixture) register(t *testing.T, email string) *service.AuthResult {
	t.Helper()
	res, err := f.auth.Register(context.Background(), session.Registration{
		Name: "Ada", Email: email, Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	return res
}

func TestRegister_ShortPasswordRejectedLocally(t *testing.T) {
	f := newAuthFixture()
	_, err := f.auth.Register(context.Background(), session.Registration{
		Name: "Ada", Email: "ada@example.com", Password: "short", ConfirmPassword: "short",
	})
	var verr *session.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Password must be at least 6 characters"}, verr.Issues)
	assert.Equal(t, 0, f.registry.Len())
	assert.Empty(t, f.events.Events())
}

func TestRegisterIssuesToken(t *testing.T) {
	f := newAuthFixture()
	res := f.register(t, "ada@example.com")

	assert.NotEmpty(t, res.Token)
	require.NotNil(t, res.User)
	assert.Equal(t, domain.PlanBasic, res.User.MembershipPlan)

	claims, err := f.auth.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, res.SessionID, claims.SessionID)
	assert.Equal(t, domain.RoleMember, claims.Role)

	m, err := f.auth.Resolve(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, m.Current().ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "ada@example.com")

	_, err := f.auth.Register(context.Background(), session.Registration{
		Name: "Ada", Email: "ada@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	assert.ErrorIs(t, err, service.ErrRegistrationFailed)
	assert.Equal(t, 1, f.registry.Len())
}

func TestLoginAndLogout(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	f.register(t, "ada@example.com")

	_, err := f.auth.Login(ctx, "ada@example.com", "wrong-pass")
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)

	res, err := f.auth.Login(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	claims, err := f.auth.ParseToken(res.Token)
	require.NoError(t, err)

	f.auth.Logout(ctx, res.SessionID)
	_, ok := f.registry.Get(res.SessionID)
	assert.False(t, ok)
	_, err = f.auth.Resolve(ctx, claims)
	assert.ErrorIs(t, err, session.ErrSessionRevoked)
}

func TestLoginWithGoogle_Disabled(t *testing.T) {
	f := newAuthFixture()
	_, err := f.auth.LoginWithGoogle(context.Background(), "token")
	assert.ErrorIs(t, err, service.ErrGoogleLoginFailed)
	assert.Equal(t, 0, f.registry.Len())
	assert.Equal(t, 0, f.registry.Revocations())
}

func TestFailedSignInsKeepNoRevocations(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	f.register(t, "ada@example.com")

	for i := 0; i < 5; i++ {
		_, err := f.auth.Login(ctx, "ada@example.com", "wrong-password")
		assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
	}
	_, err := f.auth.Register(ctx, session.Registration{
		Name: "Ada", Email: "ada@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	assert.ErrorIs(t, err, service.ErrRegistrationFailed)

	assert.Equal(t, 1, f.registry.Len())
	assert.Equal(t, 0, f.registry.Revocations())
}

func TestParseToken_Rejects(t *testing.T) {
	f := newAuthFixture()
	res := f.register(t, "ada@example.com")

	_, err := f.auth.ParseToken("not-a-token")
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	other := service.NewAuthService(service.AuthConfig{
		Registry:  f.registry,
		Provider:  f.provider,
		JWTSecret: "another-secret",
		Logger:    zerolog.Nop(),
	})
	_, err = other.ParseToken(res.Token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestPasswordResetThroughAuthService(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	f.register(t, "ada@example.com")

	require.NoError(t, f.auth.RequestPasswordReset(ctx, "ada@example.com"))
	token := f.events.OfType(events.PasswordResetRequested)[0].Data["token"]
	require.NoError(t, f.auth.ConfirmPasswordReset(ctx, token, "newsecret"))

	_, err := f.auth.Login(ctx, "ada@example.com", "newsecret")
	assert.NoError(t, err)
}
