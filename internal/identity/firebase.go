package identity

import (
	"context"
	"errors"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"google.golang.org/api/option"
)

type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
	Logger          zerolog.Logger
}

// FirebaseVerifier verifies Google sign-in ID tokens through Firebase Auth.
// Calls go through a circuit breaker; rejected tokens do not count as failures.
type FirebaseVerifier struct {
	client *auth.Client
	cb     *gobreaker.CircuitBreaker[*auth.Token]
}

func NewFirebaseVerifier(ctx context.Context, cfg FirebaseConfig) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}

	log := cfg.Logger.With().Str("component", "identity.firebase").Logger()
	cb := gobreaker.NewCircuitBreaker[*auth.Token](gobreaker.Settings{
		Name:        "firebase-auth",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isTokenRejection(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
	return &FirebaseVerifier{client: client, cb: cb}, nil
}

func isTokenRejection(err error) bool {
	return auth.IsIDTokenInvalid(err) || auth.IsIDTokenExpired(err) || auth.IsIDTokenRevoked(err)
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*SocialIdentity, error) {
	tok, err := v.cb.Execute(func() (*auth.Token, error) {
		return v.client.VerifyIDToken(ctx, idToken)
	})
	if err != nil {
		if isTokenRejection(err) {
			return nil, ErrInvalidIDToken
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrProviderUnavailable
		}
		return nil, err
	}

	id := &SocialIdentity{UID: tok.UID}
	if email, ok := tok.Claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := tok.Claims["name"].(string); ok {
		id.DisplayName = name
	}
	return id, nil
}
