package identity

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/events"
	"alcyxob/fitclub/internal/repository"
)

// AuthStateListener receives the new principal, or nil once signed out.
type AuthStateListener func(ctx context.Context, principal *Principal)

// Client holds the auth state of one login session. Listeners run
// synchronously on the goroutine that changed the state.
type Client struct {
	provider *Provider

	mu        sync.Mutex
	current   *Principal
	listeners map[int]AuthStateListener
	nextID    int
}

// CurrentPrincipal returns a copy of the signed-in principal, or nil.
func (c *Client) CurrentPrincipal() *Principal {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	p := *c.current
	return &p
}

// OnAuthStateChanged registers fn and calls it once with the current state.
// The returned func unsubscribes.
func (c *Client) OnAuthStateChanged(ctx context.Context, fn AuthStateListener) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	fn(ctx, c.CurrentPrincipal())

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Client) setState(ctx context.Context, p *Principal) {
	c.mu.Lock()
	c.current = p
	listeners := make([]AuthStateListener, 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.mu.Unlock()

	for _, l := range listeners {
		var snapshot *Principal
		if p != nil {
			cp := *p
			snapshot = &cp
		}
		l(ctx, snapshot)
	}
}

// Reload re-announces the current state, as a token refresh would.
func (c *Client) Reload(ctx context.Context) {
	c.setState(ctx, c.CurrentPrincipal())
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Principal, error) {
	cred, err := c.provider.creds.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if cred.PasswordHash == "" || !checkPassword(cred.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	p := principalOf(cred)
	c.setState(ctx, p)
	return p, nil
}

// CreateUserWithPassword creates the account and signs it in.
func (c *Client) CreateUserWithPassword(ctx context.Context, email, password, displayName string) (*Principal, error) {
	hashed, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	cred := &domain.Credential{
		UID:          uuid.NewString(),
		Email:        normalizeEmail(email),
		DisplayName:  displayName,
		Provider:     ProviderPassword,
		PasswordHash: hashed,
	}
	if err := c.provider.creds.Create(ctx, cred); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}
	p := principalOf(cred)
	c.setState(ctx, p)
	return p, nil
}

// SignInWithIDToken signs in with a verified social ID token. The first
// sign-in for an email creates the account; an existing password account with
// the same email is reused.
func (c *Client) SignInWithIDToken(ctx context.Context, idToken string) (*Principal, error) {
	if c.provider.verifier == nil {
		return nil, ErrSocialLoginDisabled
	}
	social, err := c.provider.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}
	if social.Email == "" {
		return nil, ErrInvalidIDToken
	}

	cred, err := c.provider.creds.GetByEmail(ctx, normalizeEmail(social.Email))
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		cred = &domain.Credential{
			UID:         social.UID,
			Email:       normalizeEmail(social.Email),
			DisplayName: social.DisplayName,
			Provider:    ProviderGoogle,
		}
		if cred.UID == "" {
			cred.UID = uuid.NewString()
		}
		if err := c.provider.creds.Create(ctx, cred); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	p := principalOf(cred)
	if p.DisplayName == "" {
		p.DisplayName = social.DisplayName
	}
	c.setState(ctx, p)
	return p, nil
}

// Restore signs the client in as uid without credentials. It is used to
// rehydrate a session whose token was already verified.
func (c *Client) Restore(ctx context.Context, uid string) error {
	cred, err := c.provider.creds.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.setState(ctx, nil)
			return ErrNotSignedIn
		}
		return err
	}
	c.setState(ctx, principalOf(cred))
	return nil
}

func (c *Client) SignOut(ctx context.Context) {
	c.setState(ctx, nil)
}

// ChangePassword re-authenticates with the current password first.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	p := c.CurrentPrincipal()
	if p == nil {
		return ErrNotSignedIn
	}
	cred, err := c.provider.creds.GetByUID(ctx, p.UID)
	if err != nil {
		return err
	}
	if cred.PasswordHash == "" {
		return ErrPasswordNotSet
	}
	if !checkPassword(cred.PasswordHash, currentPassword) {
		return ErrWrongPassword
	}
	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	cred.PasswordHash = hashed
	if err := c.provider.creds.Update(ctx, cred); err != nil {
		return err
	}
	c.provider.publish(ctx, events.New(events.PasswordChanged, cred.UID, nil))
	return nil
}
