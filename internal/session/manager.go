// Package session keeps the Session User of each login: the authenticated
// principal merged with its member document.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/events"
	"alcyxob/fitclub/internal/identity"
	"alcyxob/fitclub/internal/repository"
)

var ErrNoSession = errors.New("no active session")

// Listener observes Session User replacements; nil means signed out.
type Listener func(user *domain.User)

// Store is the session surface handed to services.
type Store interface {
	Current() *domain.User
	Subscribe(fn Listener) func()
	// Ready is closed once the first auth-state resolution has completed.
	Ready() <-chan struct{}

	Login(ctx context.Context, email, password string) bool
	RegisterWithPassword(ctx context.Context, name, email, password string) bool
	LoginWithGoogle(ctx context.Context, idToken string) bool
	UpdateProfile(ctx context.Context, update domain.ProfileUpdate) bool
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
	Logout(ctx context.Context)
}

type Config struct {
	ID          string
	Users       repository.UserRepository
	Client      *identity.Client
	Events      events.Publisher
	Logger      zerolog.Logger
	TrialPeriod time.Duration
	Now         func() time.Time
}

// Manager implements Store for one identity client. The auth-state
// subscription installed by NewManager is the only writer of the Session
// User apart from the profile mirror in UpdateProfile. Writes are not
// ordered against each other: the last one wins.
type Manager struct {
	id     string
	users  repository.UserRepository
	client *identity.Client
	events events.Publisher
	log    zerolog.Logger
	trial  time.Duration
	now    func() time.Time

	mu   sync.RWMutex
	user *domain.User

	ready     chan struct{}
	readyOnce sync.Once

	subsMu  sync.Mutex
	subs    map[int]Listener
	nextSub int

	lastActive  atomic.Int64
	unsubscribe func()
}

var _ Store = (*Manager)(nil)

func NewManager(ctx context.Context, cfg Config) *Manager {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.TrialPeriod <= 0 {
		cfg.TrialPeriod = domain.DefaultTrialPeriod
	}
	if cfg.Events == nil {
		cfg.Events = events.NewLogPublisher(cfg.Logger)
	}
	m := &Manager{
		id:     cfg.ID,
		users:  cfg.Users,
		client: cfg.Client,
		events: cfg.Events,
		log:    cfg.Logger.With().Str("component", "session").Str("session_id", cfg.ID).Logger(),
		trial:  cfg.TrialPeriod,
		now:    cfg.Now,
		ready:  make(chan struct{}),
		subs:   make(map[int]Listener),
	}
	m.Touch()
	m.unsubscribe = cfg.Client.OnAuthStateChanged(ctx, m.onAuthStateChanged)
	return m
}

// onAuthStateChanged replaces the Session User wholesale from a fresh read of
// the member document. A principal without a document is no Session User.
func (m *Manager) onAuthStateChanged(ctx context.Context, p *identity.Principal) {
	var user *domain.User
	if p != nil {
		u, err := m.users.GetByID(ctx, p.UID)
		switch {
		case err == nil:
			user = u
		case errors.Is(err, repository.ErrNotFound):
			m.log.Warn().Str("uid", p.UID).Msg("authenticated principal has no member document")
		default:
			m.log.Error().Err(err).Str("uid", p.UID).Msg("failed to load member document")
		}
	}
	m.setUser(user)
	m.readyOnce.Do(func() { close(m.ready) })
}

func (m *Manager) setUser(user *domain.User) {
	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	m.notify(user)
}

func (m *Manager) notify(user *domain.User) {
	m.subsMu.Lock()
	subs := make([]Listener, 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.subsMu.Unlock()
	for _, fn := range subs {
		fn(user.Clone())
	}
}

func (m *Manager) ID() string { return m.id }

// Current returns a copy of the Session User, or nil.
func (m *Manager) Current() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user.Clone()
}

func (m *Manager) Subscribe(fn Listener) func() {
	m.subsMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subsMu.Unlock()
	return func() {
		m.subsMu.Lock()
		delete(m.subs, id)
		m.subsMu.Unlock()
	}
}

func (m *Manager) Ready() <-chan struct{} { return m.ready }

// Touch records activity for idle sweeping.
func (m *Manager) Touch() { m.lastActive.Store(m.now().UnixNano()) }

func (m *Manager) LastActive() time.Time { return time.Unix(0, m.lastActive.Load()) }

func (m *Manager) Login(ctx context.Context, email, password string) bool {
	if _, err := m.client.SignInWithPassword(ctx, email, password); err != nil {
		m.log.Info().Err(err).Msg("password login failed")
		return false
	}
	return true
}

// RegisterWithPassword creates the principal and then its default member
// document. A failed document write leaves a principal without a document;
// that is logged and reported as failure.
func (m *Manager) RegisterWithPassword(ctx context.Context, name, email, password string) bool {
	reg := Registration{Name: name, Email: email, Password: password, ConfirmPassword: password}
	if err := ValidateRegistration(reg); err != nil {
		m.log.Info().Err(err).Msg("registration rejected")
		return false
	}
	p, err := m.client.CreateUserWithPassword(ctx, email, password, name)
	if err != nil {
		m.log.Info().Err(err).Msg("registration failed")
		return false
	}
	if err := m.users.Create(ctx, domain.NewMemberDocument(p.UID, name, p.Email, m.now().UTC(), m.trial)); err != nil {
		m.log.Error().Err(err).Str("uid", p.UID).Msg("principal created but member document write failed")
		return false
	}
	m.client.Reload(ctx)
	m.publish(ctx, events.New(events.MemberRegistered, p.UID, map[string]string{"provider": identity.ProviderPassword}))
	return true
}

// DefaultGoogleName is stored when a Google account has no display name.
const DefaultGoogleName = "Google User"

// LoginWithGoogle signs in with a Google ID token and writes the default
// document on first login.
func (m *Manager) LoginWithGoogle(ctx context.Context, idToken string) bool {
	p, err := m.client.SignInWithIDToken(ctx, idToken)
	if err != nil {
		m.log.Info().Err(err).Msg("google login failed")
		return false
	}
	_, err = m.users.GetByID(ctx, p.UID)
	if err == nil {
		return true
	}
	if !errors.Is(err, repository.ErrNotFound) {
		m.log.Error().Err(err).Str("uid", p.UID).Msg("failed to load member document")
		return false
	}
	name := strings.TrimSpace(p.DisplayName)
	if name == "" {
		name = DefaultGoogleName
	}
	if err := m.users.Create(ctx, domain.NewMemberDocument(p.UID, name, p.Email, m.now().UTC(), m.trial)); err != nil {
		m.log.Error().Err(err).Str("uid", p.UID).Msg("failed to create member document on first google login")
		return false
	}
	m.client.Reload(ctx)
	m.publish(ctx, events.New(events.MemberRegistered, p.UID, map[string]string{"provider": identity.ProviderGoogle}))
	return true
}

// UpdateProfile merges the update into the stored document and mirrors the
// merge into the Session User.
func (m *Manager) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) bool {
	current := m.Current()
	if current == nil {
		return false
	}
	if update.IsEmpty() {
		return true
	}
	if err := m.users.UpdateProfile(ctx, current.ID, update); err != nil {
		m.log.Error().Err(err).Str("uid", current.ID).Msg("profile update failed")
		return false
	}

	m.mu.Lock()
	if m.user == nil || m.user.ID != current.ID {
		m.mu.Unlock()
		return true
	}
	m.user.Apply(update)
	m.user.UpdatedAt = m.now().UTC()
	mirrored := m.user.Clone()
	m.mu.Unlock()

	m.notify(mirrored)
	return true
}

func (m *Manager) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	if m.Current() == nil {
		return ErrNoSession
	}
	return m.client.ChangePassword(ctx, currentPassword, newPassword)
}

// Logout signs the client out; the subscription then clears the Session User.
func (m *Manager) Logout(ctx context.Context) {
	m.client.SignOut(ctx)
}

// Refresh re-reads the member document, e.g. after an admin plan change.
func (m *Manager) Refresh(ctx context.Context) {
	m.client.Reload(ctx)
}

// Close detaches the auth-state subscription.
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m *Manager) publish(ctx context.Context, e events.Event) {
	if err := m.events.Publish(ctx, e); err != nil {
		m.log.Warn().Err(err).Str("event", e.Type).Msg("failed to publish event")
	}
}
