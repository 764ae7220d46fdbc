package service

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/rs/zerolog"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/events"
	"alcyxob/fitclub/internal/export"
	"alcyxob/fitclub/internal/generator"
	"alcyxob/fitclub/internal/repository"
)

type DietOutcome struct {
	Record  *domain.DietPlanRecord `json:"record"`
	Saved   bool                   `json:"saved"`
	Message string                 `json:"message"`
}

// DietResult is the result view. SourceURL links the uploaded report and is
// empty when no link could be made.
type DietResult struct {
	Record    *domain.DietPlanRecord `json:"record"`
	SourceURL string                 `json:"sourceUrl,omitempty"`
}

type DietService interface {
	// Page resolves, in order: premium upsell, profile required, stored
	// result, upload form.
	Page(ctx context.Context, user *domain.User) (*PageView, error)
	Analyze(ctx context.Context, user *domain.User, file domain.FileInfo) (*DietOutcome, error)
	Reset(ctx context.Context, user *domain.User) (*PageView, error)
	ExportPDF(ctx context.Context, user *domain.User, w io.Writer) error
	PDFFileName(user *domain.User) string
}

type DietConfig struct {
	Store     *repository.Store
	Generator generator.Generator[generator.BloodTestInput, generator.BloodTestResult]
	Uploads   UploadService
	Events    events.Publisher
	Logger    zerolog.Logger
	Now       Clock
}

type dietService struct {
	store   *repository.Store
	gen     generator.Generator[generator.BloodTestInput, generator.BloodTestResult]
	uploads UploadService
	events  events.Publisher
	log     zerolog.Logger
	clock   Clock
	resets  *resetSet
}

func NewDietService(cfg DietConfig) DietService {
	return &dietService{
		store:   cfg.Store,
		gen:     cfg.Generator,
		uploads: cfg.Uploads,
		events:  cfg.Events,
		log:     cfg.Logger.With().Str("component", "diet").Logger(),
		clock:   cfg.Now,
		resets:  newResetSet(),
	}
}

func dietUploadView() *PageView {
	return &PageView{
		View:    ViewUploadForm,
		Message: "Upload your e-Nabız blood test report (PDF, max 10MB)",
	}
}

func (s *dietService) Page(ctx context.Context, user *domain.User) (*PageView, error) {
	switch err := checkPremiumProfile(user); {
	case errors.Is(err, ErrPremiumRequired):
		return premiumUpsellView(), nil
	case errors.Is(err, ErrProfileIncomplete):
		return profileRequiredView(), nil
	case err != nil:
		return nil, err
	}
	if s.resets.has(user.ID) {
		return dietUploadView(), nil
	}
	record, err := s.store.DietPlans.Get(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Str("uid", user.ID).Msg("failed to load diet plan")
		}
		return dietUploadView(), nil
	}
	result := DietResult{Record: record}
	if s.uploads != nil && record.SourceFile.ObjectKey != "" {
		url, err := s.uploads.DownloadURL(ctx, user, domain.UploadBloodTest, record.SourceFile.ObjectKey)
		if err != nil {
			s.log.Warn().Err(err).Str("uid", user.ID).Msg("failed to presign blood test download")
		} else {
			result.SourceURL = url
		}
	}
	return &PageView{View: ViewResult, Data: result}, nil
}

func (s *dietService) Analyze(ctx context.Context, user *domain.User, file domain.FileInfo) (*DietOutcome, error) {
	if err := checkPremiumProfile(user); err != nil {
		return nil, err
	}
	res, err := s.gen.Run(ctx, generator.BloodTestInput{File: file, User: user})
	if err != nil {
		return nil, err
	}

	record := &domain.DietPlanRecord{
		UserID:       user.ID,
		Plan:         res.Plan,
		BloodResults: res.Panel,
		SourceFile:   file,
		CreatedAt:    s.clock.now().UTC(),
	}
	outcome := &DietOutcome{Record: record, Saved: true}
	if err := s.store.DietPlans.Put(ctx, user.ID, record); err != nil {
		s.log.Error().Err(err).Str("uid", user.ID).Msg("failed to save diet plan")
		outcome.Saved = false
	}
	outcome.Message = completionMessage(outcome.Saved)
	s.resets.clear(user.ID)

	publish(ctx, s.events, s.log, events.New(events.DietPlanCompleted, user.ID, map[string]string{
		"dailyCalories": strconv.Itoa(res.Plan.DailyCalories),
		"saved":         strconv.FormatBool(outcome.Saved),
	}))
	return outcome, nil
}

func (s *dietService) Reset(ctx context.Context, user *domain.User) (*PageView, error) {
	if err := checkPremiumProfile(user); err != nil {
		return nil, err
	}
	if record, err := s.store.DietPlans.Get(ctx, user.ID); err == nil && s.uploads != nil {
		s.uploads.Delete(ctx, record.SourceFile.ObjectKey)
	}
	s.resets.mark(user.ID)
	return dietUploadView(), nil
}

func (s *dietService) ExportPDF(ctx context.Context, user *domain.User, w io.Writer) error {
	if err := checkPremiumProfile(user); err != nil {
		return err
	}
	record, err := s.store.DietPlans.Get(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResultNotFound
		}
		return err
	}
	return export.DietPlanPDF(w, user.Name, record, s.clock.now())
}

func (s *dietService) PDFFileName(user *domain.User) string {
	return export.DietPlanFileName(user.Name, s.clock.now())
}
