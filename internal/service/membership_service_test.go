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
	"alcyxob/fitclub/internal/service"
	"alcyxob/fitclub/internal/session"
)

func newMembership(f *authFixture) service.MembershipService {
	return service.NewMembershipService(service.MembershipConfig{
		Users:    f.users,
		Registry: f.registry,
		Auth:     f.auth,
		Events:   f.events,
		Logger:   zerolog.Nop(),
		Now:      fixedClock(),
	})
}

func TestMembershipDashboard(t *testing.T) {
	f := newAuthFixture()
	svc := newMembership(f)

	user := newMember("u1", domain.PlanPremium, true)
	user.MembershipExpiry = fixedNow.Add(3*24*time.Hour + time.Hour)
	view, err := svc.Dashboard(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, service.ViewDashboard, view.View)
	assert.Equal(t, "Your membership is about to expire", view.Message)
	require.NotNil(t, view.Action)
	assert.Equal(t, "/membership", view.Action.Path)

	data := view.Data.(service.Dashboard)
	assert.Equal(t, 3, data.DaysUntilExpiry)
	assert.True(t, data.IsExpiring)
	assert.True(t, data.HasPremiumAccess)
	assert.True(t, data.ProfileComplete)
	assert.Equal(t, "Premium", data.PlanName)

	user.MembershipExpiry = fixedNow.Add(20 * 24 * time.Hour)
	view, err = svc.Dashboard(context.Background(), user)
	require.NoError(t, err)
	assert.Empty(t, view.Message)
	assert.Nil(t, view.Action)
}

func TestMembershipPage(t *testing.T) {
	svc := newMembership(newAuthFixture())

	view, err := svc.Page(context.Background(), newMember("u1", domain.PlanAIPlus, false))
	require.NoError(t, err)
	page := view.Data.(service.MembershipPage)
	require.Len(t, page.Plans, 3)
	assert.False(t, page.Plans[0].Current)
	assert.True(t, page.Plans[2].Current)
	assert.Equal(t, domain.PlanAIPlus, page.Plans[2].Plan)
	assert.NotEmpty(t, page.Plans[1].Features)
}

func TestChangePlan_RefreshesLiveSessions(t *testing.T) {
	f := newAuthFixture()
	svc := newMembership(f)
	ctx := context.Background()
	res := f.register(t, "ada@example.com")

	_, err := svc.ChangePlan(ctx, res.User.ID, service.PlanChange{Plan: "gold"})
	assert.ErrorIs(t, err, service.ErrInvalidPlan)

	updated, err := svc.ChangePlan(ctx, res.User.ID, service.PlanChange{Plan: domain.PlanPremium})
	require.NoError(t, err)
	assert.Equal(t, domain.PlanPremium, updated.MembershipPlan)
	assert.True(t, updated.MembershipExpiry.Equal(res.User.MembershipExpiry))

	m, ok := f.registry.Get(res.SessionID)
	require.True(t, ok)
	assert.Equal(t, domain.PlanPremium, m.Current().MembershipPlan)
	assert.True(t, m.Current().HasPremiumAccess())

	changed := f.events.OfType(events.MembershipPlanChanged)
	require.Len(t, changed, 1)
	assert.Equal(t, "basic", changed[0].Data["from"])
	assert.Equal(t, "premium", changed[0].Data["to"])

	expiry := fixedNow.Add(365 * 24 * time.Hour)
	updated, err = svc.ChangePlan(ctx, res.User.ID, service.PlanChange{Plan: domain.PlanAIPlus, Expiry: &expiry})
	require.NoError(t, err)
	assert.True(t, updated.MembershipExpiry.Equal(expiry))
}

func TestCancelSignsOut(t *testing.T) {
	f := newAuthFixture()
	svc := newMembership(f)
	ctx := context.Background()
	res := f.register(t, "ada@example.com")

	result, err := svc.Cancel(ctx, res.User, res.SessionID)
	require.NoError(t, err)
	assert.True(t, result.LoggedOut)
	assert.Equal(t, "Membership cancelled. It will end at the end of the current period.", result.Message)
	assert.True(t, result.EndsAt.Equal(res.User.MembershipExpiry))

	_, ok := f.registry.Get(res.SessionID)
	assert.False(t, ok)
	_, err = f.registry.Resume(ctx, res.SessionID, res.User.ID)
	assert.ErrorIs(t, err, session.ErrSessionRevoked)

	stored, err := f.users.GetByID(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanBasic, stored.MembershipPlan)
	assert.Len(t, f.events.OfType(events.MembershipCancelled), 1)
}

func TestCancel_ContextCancelledDuringDelay(t *testing.T) {
	f := newAuthFixture()
	svc := service.NewMembershipService(service.MembershipConfig{
		Users:       f.users,
		Registry:    f.registry,
		Auth:        f.auth,
		CancelDelay: time.Minute,
		Logger:      zerolog.Nop(),
	})
	res := f.register(t, "ada@example.com")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Cancel(ctx, res.User, res.SessionID)
	assert.ErrorIs(t, err, context.Canceled)

	_, ok := f.registry.Get(res.SessionID)
	assert.True(t, ok)
}
