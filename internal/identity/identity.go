// Package identity is the identity provider the session layer signs in
// against. It owns credentials and reports auth-state changes to listeners.
package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/events"
	"alcyxob/fitclub/internal/repository"
)

const (
	ProviderPassword = "password"
	ProviderGoogle   = "google.com"

	// MinPasswordLength is the shortest password the provider accepts.
	MinPasswordLength = 6

	defaultResetTTL = time.Hour
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailInUse          = errors.New("email already in use")
	ErrWeakPassword        = errors.New("password must be at least 6 characters")
	ErrWrongPassword       = errors.New("current password is incorrect")
	ErrNotSignedIn         = errors.New("no signed-in principal")
	ErrInvalidIDToken      = errors.New("invalid identity token")
	ErrSocialLoginDisabled = errors.New("social login is not configured")
	ErrResetTokenInvalid   = errors.New("password reset link is invalid or has expired")
	ErrPasswordNotSet      = errors.New("account signs in with a social provider")
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)

// Principal is an authenticated identity, without any member data.
type Principal struct {
	UID         string
	Email       string
	DisplayName string
	Provider    string
}

// SocialIdentity is what a verified third-party ID token asserts.
type SocialIdentity struct {
	UID         string
	Email       string
	DisplayName string
}

// SocialVerifier checks a third-party ID token.
type SocialVerifier interface {
	Verify(ctx context.Context, idToken string) (*SocialIdentity, error)
}

// VerifierFunc adapts a function to SocialVerifier.
type VerifierFunc func(ctx context.Context, idToken string) (*SocialIdentity, error)

func (f VerifierFunc) Verify(ctx context.Context, idToken string) (*SocialIdentity, error) {
	return f(ctx, idToken)
}

type Config struct {
	Credentials repository.CredentialRepository
	// Verifier enables SignInWithIDToken; nil disables social login.
	Verifier SocialVerifier
	Events   events.Publisher
	Logger   zerolog.Logger
	ResetTTL time.Duration
	Now      func() time.Time
}

// Provider is shared by all clients of the process.
type Provider struct {
	creds    repository.CredentialRepository
	verifier SocialVerifier
	events   events.Publisher
	log      zerolog.Logger
	resetTTL time.Duration
	now      func() time.Time
}

func NewProvider(cfg Config) *Provider {
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = defaultResetTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Events == nil {
		cfg.Events = events.NewLogPublisher(cfg.Logger)
	}
	return &Provider{
		creds:    cfg.Credentials,
		verifier: cfg.Verifier,
		events:   cfg.Events,
		log:      cfg.Logger.With().Str("component", "identity").Logger(),
		resetTTL: cfg.ResetTTL,
		now:      cfg.Now,
	}
}

// NewClient returns a signed-out client. Each login session owns one client.
func (p *Provider) NewClient() *Client {
	return &Client{provider: p, listeners: make(map[int]AuthStateListener)}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrWeakPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func principalOf(c *domain.Credential) *Principal {
	return &Principal{UID: c.UID, Email: c.Email, DisplayName: c.DisplayName, Provider: c.Provider}
}

func (p *Provider) publish(ctx context.Context, e events.Event) {
	if err := p.events.Publish(ctx, e); err != nil {
		p.log.Warn().Err(err).Str("event", e.Type).Msg("failed to publish event")
	}
}

// SendPasswordResetEmail issues a single-use reset token and hands it to the
// mailer through the event stream. Unknown emails succeed silently.
func (p *Provider) SendPasswordResetEmail(ctx context.Context, email string) error {
	cred, err := p.creds.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			p.log.Debug().Msg("password reset requested for unknown email")
			return nil
		}
		return err
	}
	if cred.Provider != ProviderPassword {
		return nil
	}

	token := uuid.NewString()
	expires := p.now().Add(p.resetTTL).UTC()
	cred.ResetTokenHash = hashToken(token)
	cred.ResetExpiresAt = &expires
	if err := p.creds.Update(ctx, cred); err != nil {
		return err
	}

	p.publish(ctx, events.New(events.PasswordResetRequested, cred.UID, map[string]string{
		"email":     cred.Email,
		"token":     token,
		"expiresAt": expires.Format(time.RFC3339),
	}))
	return nil
}

// ConfirmPasswordReset sets a new password using a token from SendPasswordResetEmail.
func (p *Provider) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	cred, err := p.creds.GetByResetTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}
	if cred.ResetExpiresAt == nil || p.now().After(*cred.ResetExpiresAt) {
		return ErrResetTokenInvalid
	}
	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	cred.PasswordHash = hashed
	cred.ResetTokenHash = ""
	cred.ResetExpiresAt = nil
	if err := p.creds.Update(ctx, cred); err != nil {
		return err
	}
	p.publish(ctx, events.New(events.PasswordChanged, cred.UID, nil))
	return nil
}
