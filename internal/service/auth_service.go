package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/identity"
	"alcyxob/fitclub/internal/session"
)

var (
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrRegistrationFailed   = errors.New("registration failed")
	ErrGoogleLoginFailed    = errors.New("google sign-in failed")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidToken         = errors.New("invalid or expired token")
)

// Claims is the session token payload. Role is informational; authorization
// reads the role from the live Session User.
type Claims struct {
	UserID    string      `json:"uid"`
	Role      domain.Role `json:"role"`
	SessionID string      `json:"sid"`
	jwt.RegisteredClaims
}

type AuthResult struct {
	Token     string       `json:"token"`
	SessionID string       `json:"-"`
	User      *domain.User `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, reg session.Registration) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	LoginWithGoogle(ctx context.Context, idToken string) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
	ParseToken(token string) (*Claims, error)
	// Resolve finds or rebuilds the session a token points at.
	Resolve(ctx context.Context, claims *Claims) (*session.Manager, error)
}

type AuthConfig struct {
	Registry      *session.Registry
	Provider      *identity.Provider
	JWTSecret     string
	JWTExpiration time.Duration
	Logger        zerolog.Logger
	Now           Clock
}

type authService struct {
	registry      *session.Registry
	provider      *identity.Provider
	jwtSecret     string
	jwtExpiration time.Duration
	log           zerolog.Logger
	clock         Clock
}

func NewAuthService(cfg AuthConfig) AuthService {
	if cfg.JWTSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if cfg.JWTExpiration <= 0 {
		cfg.JWTExpiration = time.Hour
	}
	return &authService{
		registry:      cfg.Registry,
		provider:      cfg.Provider,
		jwtSecret:     cfg.JWTSecret,
		jwtExpiration: cfg.JWTExpiration,
		log:           cfg.Logger.With().Str("component", "auth").Logger(),
		clock:         cfg.Now,
	}
}

// Register validates the form locally, then opens a session and registers
// through it.
func (s *authService) Register(ctx context.Context, reg session.Registration) (*AuthResult, error) {
	if err := session.ValidateRegistration(reg); err != nil {
		return nil, err
	}
	m := s.registry.Open(ctx)
	if !m.RegisterWithPassword(ctx, reg.Name, reg.Email, reg.Password) {
		s.registry.Discard(m.ID())
		return nil, ErrRegistrationFailed
	}
	return s.issue(m, ErrRegistrationFailed)
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	m := s.registry.Open(ctx)
	if !m.Login(ctx, email, password) {
		s.registry.Discard(m.ID())
		return nil, ErrAuthenticationFailed
	}
	return s.issue(m, ErrAuthenticationFailed)
}

func (s *authService) LoginWithGoogle(ctx context.Context, idToken string) (*AuthResult, error) {
	m := s.registry.Open(ctx)
	if !m.LoginWithGoogle(ctx, idToken) {
		s.registry.Discard(m.ID())
		return nil, ErrGoogleLoginFailed
	}
	return s.issue(m, ErrGoogleLoginFailed)
}

// issue signs a token for a session that now has a Session User. A principal
// without a member document gets no token.
func (s *authService) issue(m *session.Manager, failure error) (*AuthResult, error) {
	user := m.Current()
	if user == nil {
		s.registry.Discard(m.ID())
		return nil, failure
	}
	token, err := s.generateJWT(user, m.ID())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to sign session token")
		s.registry.Discard(m.ID())
		return nil, ErrTokenGeneration
	}
	return &AuthResult{Token: token, SessionID: m.ID(), User: user}, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) {
	if m, ok := s.registry.Get(sessionID); ok {
		m.Logout(ctx)
	}
	s.registry.Close(sessionID)
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	return s.provider.SendPasswordResetEmail(ctx, email)
}

func (s *authService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	return s.provider.ConfirmPasswordReset(ctx, token, newPassword)
}

func (s *authService) Resolve(ctx context.Context, claims *Claims) (*session.Manager, error) {
	return s.registry.Resume(ctx, claims.SessionID, claims.UserID)
}

// --- JWT Helper ---

func (s *authService) generateJWT(user *domain.User, sessionID string) (string, error) {
	now := s.clock.now()
	claims := &Claims{
		UserID:    user.ID,
		Role:      user.Role,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        sessionID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "fitclub",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
}

func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
