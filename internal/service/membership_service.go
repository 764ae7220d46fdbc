package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/events"
	"alcyxob/fitclub/internal/generator"
	"alcyxob/fitclub/internal/repository"
	"alcyxob/fitclub/internal/session"
)

type Dashboard struct {
	User             *domain.User `json:"user"`
	PlanName         string       `json:"planName"`
	DaysUntilExpiry  int          `json:"daysUntilExpiry"`
	IsExpiring       bool         `json:"isExpiring"`
	HasPremiumAccess bool         `json:"hasPremiumAccess"`
	ProfileComplete  bool         `json:"profileComplete"`
}

type PlanInfo struct {
	Plan     domain.MembershipPlan `json:"plan"`
	Name     string                `json:"name"`
	Features []string              `json:"features"`
	Current  bool                  `json:"current"`
}

type MembershipPage struct {
	Dashboard
	Plans []PlanInfo `json:"plans"`
}

type CancelResult struct {
	Message   string    `json:"message"`
	EndsAt    time.Time `json:"endsAt"`
	LoggedOut bool      `json:"loggedOut"`
}

type PlanChange struct {
	Plan   domain.MembershipPlan `json:"plan"`
	Expiry *time.Time            `json:"expiry,omitempty"`
}

type MembershipService interface {
	Dashboard(ctx context.Context, user *domain.User) (*PageView, error)
	Page(ctx context.Context, user *domain.User) (*PageView, error)
	// Cancel does not touch the member document; the membership runs to the
	// end of the period and the session is signed out.
	Cancel(ctx context.Context, user *domain.User, sessionID string) (*CancelResult, error)
	ChangePlan(ctx context.Context, userID string, change PlanChange) (*domain.User, error)
}

type MembershipConfig struct {
	Users       repository.UserRepository
	Registry    *session.Registry
	Auth        AuthService
	Events      events.Publisher
	CancelDelay time.Duration
	Logger      zerolog.Logger
	Now         Clock
}

type membershipService struct {
	users       repository.UserRepository
	registry    *session.Registry
	auth        AuthService
	events      events.Publisher
	cancelDelay time.Duration
	log         zerolog.Logger
	clock       Clock
}

func NewMembershipService(cfg MembershipConfig) MembershipService {
	return &membershipService{
		users:       cfg.Users,
		registry:    cfg.Registry,
		auth:        cfg.Auth,
		events:      cfg.Events,
		cancelDelay: cfg.CancelDelay,
		log:         cfg.Logger.With().Str("component", "membership").Logger(),
		clock:       cfg.Now,
	}
}

func (s *membershipService) dashboard(user *domain.User) Dashboard {
	now := s.clock.now()
	return Dashboard{
		User:             user,
		PlanName:         domain.PlanDisplayName(user.MembershipPlan),
		DaysUntilExpiry:  user.DaysUntilExpiry(now),
		IsExpiring:       user.IsExpiring(now),
		HasPremiumAccess: user.HasPremiumAccess(),
		ProfileComplete:  user.HasCompleteProfile(),
	}
}

func (s *membershipService) Dashboard(_ context.Context, user *domain.User) (*PageView, error) {
	if user == nil {
		return nil, ErrNoSession
	}
	view := &PageView{View: ViewDashboard, Data: s.dashboard(user)}
	if user.IsExpiring(s.clock.now()) {
		view.Message = "Your membership is about to expire"
		view.Action = &Action{Label: "Renew membership", Path: "/membership"}
	}
	return view, nil
}

func (s *membershipService) Page(_ context.Context, user *domain.User) (*PageView, error) {
	if user == nil {
		return nil, ErrNoSession
	}
	page := MembershipPage{Dashboard: s.dashboard(user)}
	for _, plan := range []domain.MembershipPlan{domain.PlanBasic, domain.PlanPremium, domain.PlanAIPlus} {
		page.Plans = append(page.Plans, PlanInfo{
			Plan:     plan,
			Name:     domain.PlanDisplayName(plan),
			Features: domain.PlanFeatures[plan],
			Current:  plan == user.MembershipPlan,
		})
	}
	return &PageView{View: ViewMembership, Data: page}, nil
}

func (s *membershipService) Cancel(ctx context.Context, user *domain.User, sessionID string) (*CancelResult, error) {
	if user == nil {
		return nil, ErrNoSession
	}
	if err := generator.Wait(ctx, s.cancelDelay); err != nil {
		return nil, err
	}
	publish(ctx, s.events, s.log, events.New(events.MembershipCancelled, user.ID, map[string]string{
		"plan":   string(user.MembershipPlan),
		"endsAt": user.MembershipExpiry.UTC().Format(time.RFC3339),
	}))
	s.auth.Logout(ctx, sessionID)
	return &CancelResult{
		Message:   "Membership cancelled. It will end at the end of the current period.",
		EndsAt:    user.MembershipExpiry,
		LoggedOut: true,
	}, nil
}

// ChangePlan updates the document and re-reads it in every live session of
// the member. A nil expiry keeps the current one.
func (s *membershipService) ChangePlan(ctx context.Context, userID string, change PlanChange) (*domain.User, error) {
	if !change.Plan.Valid() {
		return nil, ErrInvalidPlan
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	expiry := user.MembershipExpiry
	if change.Expiry != nil {
		expiry = *change.Expiry
	}
	if err := s.users.UpdateMembership(ctx, userID, change.Plan, expiry); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		s.log.Error().Err(err).Str("uid", userID).Msg("failed to update membership")
		return nil, err
	}
	refreshed := s.registry.RefreshUser(ctx, userID)
	s.log.Info().Str("uid", userID).Str("plan", string(change.Plan)).Int("sessions_refreshed", refreshed).Msg("membership plan changed")

	publish(ctx, s.events, s.log, events.New(events.MembershipPlanChanged, userID, map[string]string{
		"from": string(user.MembershipPlan),
		"to":   string(change.Plan),
	}))
	return s.users.GetByID(ctx, userID)
}
