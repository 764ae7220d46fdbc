package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/rs/zerolog"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/events"
	"alcyxob/fitclub/internal/generator"
	"alcyxob/fitclub/internal/repository"
)

type CoachOutcome struct {
	Record  *domain.CoachPlanRecord `json:"record"`
	Saved   bool                    `json:"saved"`
	Message string                  `json:"message"`
}

type CoachService interface {
	Page(ctx context.Context, user *domain.User) (*PageView, error)
	Generate(ctx context.Context, user *domain.User) (*CoachOutcome, error)
}

type coachService struct {
	store  *repository.Store
	gen    generator.Generator[generator.CoachInput, domain.CoachPlan]
	events events.Publisher
	log    zerolog.Logger
	clock  Clock
}

func NewCoachService(store *repository.Store, gen generator.Generator[generator.CoachInput, domain.CoachPlan], pub events.Publisher, log zerolog.Logger, clock Clock) CoachService {
	return &coachService{
		store:  store,
		gen:    gen,
		events: pub,
		log:    log.With().Str("component", "coach").Logger(),
		clock:  clock,
	}
}

func (s *coachService) Page(ctx context.Context, user *domain.User) (*PageView, error) {
	switch err := checkPremiumProfile(user); {
	case errors.Is(err, ErrPremiumRequired):
		return premiumUpsellView(), nil
	case errors.Is(err, ErrProfileIncomplete):
		return profileRequiredView(), nil
	case err != nil:
		return nil, err
	}
	record, err := s.store.CoachPlans.Get(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Str("uid", user.ID).Msg("failed to load coach plan")
		}
		return &PageView{View: ViewReady, Message: "Generate your personal coaching plan"}, nil
	}
	return &PageView{View: ViewResult, Data: record}, nil
}

// Generate overwrites any previous plan.
func (s *coachService) Generate(ctx context.Context, user *domain.User) (*CoachOutcome, error) {
	if err := checkPremiumProfile(user); err != nil {
		return nil, err
	}
	plan, err := s.gen.Run(ctx, generator.CoachInput{User: user})
	if err != nil {
		return nil, err
	}
	record := &domain.CoachPlanRecord{UserID: user.ID, Plan: plan, CreatedAt: s.clock.now().UTC()}
	outcome := &CoachOutcome{Record: record, Saved: true}
	if err := s.store.CoachPlans.Put(ctx, user.ID, record); err != nil {
		s.log.Error().Err(err).Str("uid", user.ID).Msg("failed to save coach plan")
		outcome.Saved = false
	}
	outcome.Message = completionMessage(outcome.Saved)

	publish(ctx, s.events, s.log, events.New(events.CoachPlanCompleted, user.ID, map[string]string{
		"dailyCalories": strconv.Itoa(plan.DailyCalories),
	}))
	return outcome, nil
}
