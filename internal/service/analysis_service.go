package service

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/events"
	"alcyxob/fitclub/internal/generator"
	"alcyxob/fitclub/internal/repository"
)

// AnalysisOutcome is returned whether or not the result could be saved.
type AnalysisOutcome struct {
	Result  domain.BodyAnalysis    `json:"result"`
	Program *domain.WorkoutProgram `json:"program,omitempty"`
	Saved   bool                   `json:"saved"`
	Message string                 `json:"message"`
}

type BodyAnalysisPage struct {
	Steps  []domain.PhotoAngle        `json:"steps"`
	Staged []domain.PhotoAngle        `json:"staged"`
	Record *domain.BodyAnalysisRecord `json:"record,omitempty"`
}

type AnalysisService interface {
	Page(ctx context.Context, user *domain.User) (*PageView, error)
	// StagePhoto validates one photo and keeps it for Analyze. A rejected
	// photo is returned with its issues and a *generator.ValidationError.
	StagePhoto(ctx context.Context, user *domain.User, angle domain.PhotoAngle, file domain.FileInfo) (*generator.PhotoCheck, error)
	Analyze(ctx context.Context, user *domain.User) (*AnalysisOutcome, error)
	Reset(ctx context.Context, user *domain.User) (*PageView, error)
}

type AnalysisConfig struct {
	Store     *repository.Store
	Generator generator.Generator[generator.BodyInput, domain.BodyAnalysis]
	Uploads   UploadService
	Events    events.Publisher
	Random    generator.RandomFunc
	Logger    zerolog.Logger
	Now       Clock
}

type analysisService struct {
	store   *repository.Store
	gen     generator.Generator[generator.BodyInput, domain.BodyAnalysis]
	uploads UploadService
	events  events.Publisher
	random  generator.RandomFunc
	log     zerolog.Logger
	clock   Clock

	mu     sync.Mutex
	staged map[string]map[domain.PhotoAngle]domain.FileInfo
	resets *resetSet
}

func NewAnalysisService(cfg AnalysisConfig) AnalysisService {
	return &analysisService{
		store:   cfg.Store,
		gen:     cfg.Generator,
		uploads: cfg.Uploads,
		events:  cfg.Events,
		random:  cfg.Random,
		log:     cfg.Logger.With().Str("component", "body_analysis").Logger(),
		clock:   cfg.Now,
		staged:  make(map[string]map[domain.PhotoAngle]domain.FileInfo),
		resets:  newResetSet(),
	}
}

func (s *analysisService) stagedAngles(userID string) []domain.PhotoAngle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.PhotoAngle{}
	for _, a := range domain.PhotoAngles {
		if _, ok := s.staged[userID][a]; ok {
			out = append(out, a)
		}
	}
	return out
}

func (s *analysisService) uploadView(userID string) *PageView {
	return &PageView{
		View:    ViewUploadForm,
		Message: "Upload front, right and left photos to start the analysis",
		Data:    BodyAnalysisPage{Steps: domain.PhotoAngles, Staged: s.stagedAngles(userID)},
	}
}

// Page shows the stored analysis when there is one, otherwise the upload steps.
func (s *analysisService) Page(ctx context.Context, user *domain.User) (*PageView, error) {
	if user == nil {
		return nil, ErrNoSession
	}
	if s.resets.has(user.ID) {
		return s.uploadView(user.ID), nil
	}
	record, err := s.store.BodyAnalyses.Get(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Str("uid", user.ID).Msg("failed to load body analysis")
		}
		return s.uploadView(user.ID), nil
	}
	return &PageView{
		View: ViewResult,
		Data: BodyAnalysisPage{Steps: domain.PhotoAngles, Staged: s.stagedAngles(user.ID), Record: record},
	}, nil
}

func (s *analysisService) StagePhoto(ctx context.Context, user *domain.User, angle domain.PhotoAngle, file domain.FileInfo) (*generator.PhotoCheck, error) {
	if user == nil {
		return nil, ErrNoSession
	}
	if !angle.Valid() {
		return nil, &generator.ValidationError{Issues: []string{"Unknown photo angle"}}
	}
	check := generator.ValidateBodyPhoto(angle, file, s.random)
	if !check.Valid {
		if s.uploads != nil {
			s.uploads.Delete(ctx, file.ObjectKey)
		}
		return &check, &generator.ValidationError{Issues: check.Issues}
	}

	s.mu.Lock()
	photos, ok := s.staged[user.ID]
	if !ok {
		photos = make(map[domain.PhotoAngle]domain.FileInfo)
		s.staged[user.ID] = photos
	}
	previous, replaced := photos[angle]
	photos[angle] = file
	s.mu.Unlock()

	if replaced && previous.ObjectKey != file.ObjectKey && s.uploads != nil {
		s.uploads.Delete(ctx, previous.ObjectKey)
	}
	return &check, nil
}

// Analyze runs the generator on the staged photos, then writes the analysis
// and the derived program as two separate documents. If the first write
// fails the second is skipped; the workout page re-derives a missing program.
func (s *analysisService) Analyze(ctx context.Context, user *domain.User) (*AnalysisOutcome, error) {
	if user == nil {
		return nil, ErrNoSession
	}
	s.mu.Lock()
	photos := make(map[domain.PhotoAngle]domain.FileInfo, len(s.staged[user.ID]))
	for a, f := range s.staged[user.ID] {
		photos[a] = f
	}
	s.mu.Unlock()

	result, err := s.gen.Run(ctx, generator.BodyInput{Photos: photos})
	if err != nil {
		return nil, err
	}

	now := s.clock.now().UTC()
	outcome := &AnalysisOutcome{Result: result}
	record := &domain.BodyAnalysisRecord{
		UserID:    user.ID,
		Result:    result,
		Photos:    domain.PhotoAngles,
		CreatedAt: now,
	}
	program := generator.DeriveWorkoutProgram(user.ID, result, now)
	outcome.Program = program

	if err := s.store.BodyAnalyses.Put(ctx, user.ID, record); err != nil {
		s.log.Error().Err(err).Str("uid", user.ID).Msg("failed to save body analysis")
	} else if err := s.store.WorkoutProgram.Put(ctx, user.ID, program); err != nil {
		s.log.Error().Err(err).Str("uid", user.ID).Msg("body analysis saved but workout program write failed")
	} else {
		outcome.Saved = true
	}
	outcome.Message = completionMessage(outcome.Saved)

	s.mu.Lock()
	delete(s.staged, user.ID)
	s.mu.Unlock()
	s.resets.clear(user.ID)

	publish(ctx, s.events, s.log, events.New(events.BodyAnalysisCompleted, user.ID, map[string]string{
		"saved": strconv.FormatBool(outcome.Saved),
	}))
	return outcome, nil
}

// Reset drops staged photos and shows the upload steps again. The stored
// analysis stays until a new run overwrites it.
func (s *analysisService) Reset(ctx context.Context, user *domain.User) (*PageView, error) {
	if user == nil {
		return nil, ErrNoSession
	}
	s.mu.Lock()
	photos := s.staged[user.ID]
	delete(s.staged, user.ID)
	s.mu.Unlock()

	if s.uploads != nil {
		for _, f := range photos {
			s.uploads.Delete(ctx, f.ObjectKey)
		}
	}
	s.resets.mark(user.ID)
	return s.uploadView(user.ID), nil
}
