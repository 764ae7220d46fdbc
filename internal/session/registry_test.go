package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/identity"
	"alcyxob/fitclub/internal/session"
)

func TestRegistry_OpenGetClose(t *testing.T) {
	f := newFixture(t, nil)
	m := f.registry.Open(context.Background())

	got, ok := f.registry.Get(m.ID())
	require.True(t, ok)
	assert.Same(t, m, got)
	assert.Equal(t, 1, f.registry.Len())

	f.registry.Close(m.ID())
	_, ok = f.registry.Get(m.ID())
	assert.False(t, ok)
	assert.Equal(t, 0, f.registry.Len())
}

func TestRegistry_ResumeAfterRestart(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	uid := f.register(t, "Ada", "ada@example.com", "secret1").Current().ID

	restarted := session.NewRegistry(session.RegistryConfig{
		Provider: f.provider,
		Users:    f.users,
		Logger:   zerolog.Nop(),
		Now:      func() time.Time { return f.now },
	})
	m, err := restarted.Resume(ctx, "sid-from-token", uid)
	require.NoError(t, err)
	require.NotNil(t, m.Current())
	assert.Equal(t, uid, m.Current().ID)
	assert.Equal(t, "sid-from-token", m.ID())

	again, err := restarted.Resume(ctx, "sid-from-token", uid)
	require.NoError(t, err)
	assert.Same(t, m, again)
}

func TestRegistry_ResumeUnknownPrincipal(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.registry.Resume(context.Background(), "sid", "no-such-uid")
	assert.ErrorIs(t, err, identity.ErrNotSignedIn)
	assert.Equal(t, 0, f.registry.Len())
}

func TestRegistry_ClosedSessionCannotResume(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	m := f.register(t, "Ada", "ada@example.com", "secret1")
	uid := m.Current().ID

	f.registry.Close(m.ID())
	_, err := f.registry.Resume(ctx, m.ID(), uid)
	assert.ErrorIs(t, err, session.ErrSessionRevoked)

	// The revocation is forgotten once its TTL has passed.
	f.now = f.now.Add(2 * time.Hour)
	f.registry.Sweep(time.Hour)
	_, err = f.registry.Resume(ctx, m.ID(), uid)
	assert.NoError(t, err)
}

func TestRegistry_DiscardKeepsNoRevocation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	m := f.registry.Open(ctx)

	f.registry.Discard(m.ID())
	_, ok := f.registry.Get(m.ID())
	assert.False(t, ok)
	assert.Equal(t, 0, f.registry.Len())
	assert.Equal(t, 0, f.registry.Revocations())

	closed := f.registry.Open(ctx)
	f.registry.Close(closed.ID())
	assert.Equal(t, 1, f.registry.Revocations())
}

func TestRegistry_SweepEvictsIdleSessions(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	idle := f.register(t, "Ada", "ada@example.com", "secret1")
	uid := idle.Current().ID

	f.now = f.now.Add(30 * time.Minute)
	active := f.registry.Open(ctx)

	f.now = f.now.Add(45 * time.Minute)
	evicted := f.registry.Sweep(time.Hour)
	assert.Equal(t, 1, evicted)

	_, ok := f.registry.Get(idle.ID())
	assert.False(t, ok)
	_, ok = f.registry.Get(active.ID())
	assert.True(t, ok)

	resumed, err := f.registry.Resume(ctx, idle.ID(), uid)
	require.NoError(t, err)
	assert.Equal(t, uid, resumed.Current().ID)
}

func TestRegistry_RefreshUserAfterPlanChange(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.register(t, "Ada", "ada@example.com", "secret1")
	uid := a.Current().ID

	b := f.registry.Open(ctx)
	require.True(t, b.Login(ctx, "ada@example.com", "secret1"))
	f.register(t, "Grace", "grace@example.com", "secret1")

	expiry := f.now.Add(30 * 24 * time.Hour)
	require.NoError(t, f.users.UpdateMembership(ctx, uid, domain.PlanPremium, expiry))
	assert.Equal(t, domain.PlanBasic, a.Current().MembershipPlan)

	assert.Equal(t, 2, f.registry.RefreshUser(ctx, uid))
	assert.Equal(t, domain.PlanPremium, a.Current().MembershipPlan)
	assert.Equal(t, domain.PlanPremium, b.Current().MembershipPlan)
	assert.True(t, a.Current().MembershipExpiry.Equal(expiry))
}
