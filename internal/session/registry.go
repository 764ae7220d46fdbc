package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"alcyxob/fitclub/internal/events"
	"alcyxob/fitclub/internal/identity"
	"alcyxob/fitclub/internal/repository"
)

var ErrSessionRevoked = errors.New("session has been signed out")

type RegistryConfig struct {
	Provider    *identity.Provider
	Users       repository.UserRepository
	Events      events.Publisher
	Logger      zerolog.Logger
	TrialPeriod time.Duration
	// RevocationTTL is how long a closed session id stays refused; it should
	// cover the session token lifetime.
	RevocationTTL time.Duration
	Now           func() time.Time
}

// Registry maps session ids to managers.
type Registry struct {
	cfg RegistryConfig
	log zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*Manager
	revoked  map[string]time.Time
}

func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.RevocationTTL <= 0 {
		cfg.RevocationTTL = 24 * time.Hour
	}
	return &Registry{
		cfg:      cfg,
		log:      cfg.Logger.With().Str("component", "session.registry").Logger(),
		sessions: make(map[string]*Manager),
		revoked:  make(map[string]time.Time),
	}
}

func (r *Registry) newManager(ctx context.Context, sid string) *Manager {
	return NewManager(ctx, Config{
		ID:          sid,
		Users:       r.cfg.Users,
		Client:      r.cfg.Provider.NewClient(),
		Events:      r.cfg.Events,
		Logger:      r.cfg.Logger,
		TrialPeriod: r.cfg.TrialPeriod,
		Now:         r.cfg.Now,
	})
}

// Open starts a signed-out session.
func (r *Registry) Open(ctx context.Context) *Manager {
	sid := uuid.NewString()
	m := r.newManager(ctx, sid)
	r.mu.Lock()
	r.sessions[sid] = m
	r.mu.Unlock()
	return m
}

func (r *Registry) Get(sid string) (*Manager, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.sessions[sid]
	return m, ok
}

// Resume returns the live manager for sid, or rebuilds it signed in as uid.
// Rebuilding covers process restarts and idle eviction.
func (r *Registry) Resume(ctx context.Context, sid, uid string) (*Manager, error) {
	if m, ok := r.Get(sid); ok {
		return m, nil
	}
	r.mu.RLock()
	_, revoked := r.revoked[sid]
	r.mu.RUnlock()
	if revoked {
		return nil, ErrSessionRevoked
	}

	m := r.newManager(ctx, sid)
	if err := m.client.Restore(ctx, uid); err != nil {
		m.Close()
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.sessions[sid]; ok {
		m.Close()
		return existing, nil
	}
	r.sessions[sid] = m
	r.log.Debug().Str("session_id", sid).Str("uid", uid).Msg("session resumed")
	return m, nil
}

// Close drops the session and refuses to resume it.
func (r *Registry) Close(sid string) {
	r.mu.Lock()
	m, ok := r.sessions[sid]
	delete(r.sessions, sid)
	r.revoked[sid] = r.cfg.Now()
	r.mu.Unlock()
	if ok {
		m.Close()
	}
}

// Discard drops a session that never signed in. Nothing was issued for it,
// so no revocation is kept.
func (r *Registry) Discard(sid string) {
	r.mu.Lock()
	m, ok := r.sessions[sid]
	delete(r.sessions, sid)
	r.mu.Unlock()
	if ok {
		m.Close()
	}
}

// RefreshUser re-reads the member document in every live session of uid.
func (r *Registry) RefreshUser(ctx context.Context, uid string) int {
	r.mu.RLock()
	var targets []*Manager
	for _, m := range r.sessions {
		if u := m.Current(); u != nil && u.ID == uid {
			targets = append(targets, m)
		}
	}
	r.mu.RUnlock()

	for _, m := range targets {
		m.Refresh(ctx)
	}
	return len(targets)
}

// Sweep evicts managers idle for longer than idle and forgets expired
// revocations. Evicted sessions can still be resumed.
func (r *Registry) Sweep(idle time.Duration) int {
	now := r.cfg.Now()
	r.mu.Lock()
	var evicted []*Manager
	for sid, m := range r.sessions {
		if now.Sub(m.LastActive()) > idle {
			evicted = append(evicted, m)
			delete(r.sessions, sid)
		}
	}
	for sid, at := range r.revoked {
		if now.Sub(at) > r.cfg.RevocationTTL {
			delete(r.revoked, sid)
		}
	}
	r.mu.Unlock()

	for _, m := range evicted {
		m.Close()
	}
	if len(evicted) > 0 {
		r.log.Info().Int("evicted", len(evicted)).Msg("idle sessions swept")
	}
	return len(evicted)
}

// RunSweeper sweeps every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(idle)
		}
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Revocations is the number of remembered closed sessions.
func (r *Registry) Revocations() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.revoked)
}
