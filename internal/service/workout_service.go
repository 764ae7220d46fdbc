package service

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/export"
	"alcyxob/fitclub/internal/generator"
	"alcyxob/fitclub/internal/repository"
)

type WorkoutPage struct {
	Program    *domain.WorkoutProgram `json:"program"`
	TodayIndex int                    `json:"todayIndex"`
}

// ProgramUpdate is the result of a toggle or note edit. Saved is false when
// the change could not be written.
type ProgramUpdate struct {
	Program  *domain.WorkoutProgram `json:"program"`
	Exercise *domain.Exercise       `json:"exercise"`
	Saved    bool                   `json:"saved"`
	Message  string                 `json:"message"`
}

type WorkoutService interface {
	Page(ctx context.Context, user *domain.User) (*PageView, error)
	ToggleExercise(ctx context.Context, user *domain.User, dayIndex int, exerciseID string) (*ProgramUpdate, error)
	SaveNotes(ctx context.Context, user *domain.User, dayIndex int, exerciseID, notes string) (*ProgramUpdate, error)
	ExportPDF(ctx context.Context, user *domain.User, w io.Writer) error
	PDFFileName(user *domain.User) string
}

type workoutService struct {
	store *repository.Store
	log   zerolog.Logger
	clock Clock
}

func NewWorkoutService(store *repository.Store, log zerolog.Logger, clock Clock) WorkoutService {
	return &workoutService{
		store: store,
		log:   log.With().Str("component", "workout").Logger(),
		clock: clock,
	}
}

func analysisRequiredView() *PageView {
	return &PageView{
		View:    ViewAnalysisRequired,
		Message: "Body analysis required",
		Action:  &Action{Label: "Start body analysis", Path: "/body-analysis"},
	}
}

// load returns the program, re-deriving and saving it when an analysis
// exists without one. Without an analysis it returns ErrAnalysisRequired.
func (s *workoutService) load(ctx context.Context, userID string) (*domain.WorkoutProgram, error) {
	analysis, err := s.store.BodyAnalyses.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAnalysisRequired
		}
		return nil, err
	}
	program, err := s.store.WorkoutProgram.Get(ctx, userID)
	if err == nil {
		return program, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	program = generator.DeriveWorkoutProgram(userID, analysis.Result, s.clock.now().UTC())
	if err := s.store.WorkoutProgram.Put(ctx, userID, program); err != nil {
		s.log.Error().Err(err).Str("uid", userID).Msg("failed to save re-derived workout program")
	} else {
		s.log.Info().Str("uid", userID).Msg("workout program re-derived from existing analysis")
	}
	return program, nil
}

func (s *workoutService) Page(ctx context.Context, user *domain.User) (*PageView, error) {
	if user == nil {
		return nil, ErrNoSession
	}
	program, err := s.load(ctx, user.ID)
	if err != nil {
		// A failed read shows the analysis prompt, never an error page.
		if !errors.Is(err, ErrAnalysisRequired) {
			s.log.Error().Err(err).Str("uid", user.ID).Msg("failed to load workout program")
		}
		return analysisRequiredView(), nil
	}
	return &PageView{
		View: ViewProgram,
		Data: WorkoutPage{Program: program, TodayIndex: domain.WeekdayIndex(s.clock.now())},
	}, nil
}

func (s *workoutService) mutate(ctx context.Context, user *domain.User, fn func(*domain.WorkoutProgram) (*domain.Exercise, error)) (*ProgramUpdate, error) {
	if user == nil {
		return nil, ErrNoSession
	}
	program, err := s.load(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	ex, err := fn(program)
	if err != nil {
		return nil, err
	}
	program.LastUpdated = s.clock.now().UTC()

	update := &ProgramUpdate{Program: program, Exercise: ex, Saved: true}
	if err := s.store.WorkoutProgram.Put(ctx, user.ID, program); err != nil {
		s.log.Error().Err(err).Str("uid", user.ID).Msg("failed to save workout program")
		update.Saved = false
	}
	return update, nil
}

func (s *workoutService) ToggleExercise(ctx context.Context, user *domain.User, dayIndex int, exerciseID string) (*ProgramUpdate, error) {
	update, err := s.mutate(ctx, user, func(p *domain.WorkoutProgram) (*domain.Exercise, error) {
		return p.ToggleExercise(dayIndex, exerciseID)
	})
	if err != nil {
		return nil, err
	}
	if update.Exercise.Completed {
		update.Message = update.Exercise.Name + " completed!"
	} else {
		update.Message = update.Exercise.Name + " marked as not completed"
	}
	return update, nil
}

func (s *workoutService) SaveNotes(ctx context.Context, user *domain.User, dayIndex int, exerciseID, notes string) (*ProgramUpdate, error) {
	update, err := s.mutate(ctx, user, func(p *domain.WorkoutProgram) (*domain.Exercise, error) {
		return p.SetExerciseNotes(dayIndex, exerciseID, notes)
	})
	if err != nil {
		return nil, err
	}
	update.Message = "Note saved"
	return update, nil
}

func (s *workoutService) ExportPDF(ctx context.Context, user *domain.User, w io.Writer) error {
	if user == nil {
		return ErrNoSession
	}
	program, err := s.load(ctx, user.ID)
	if err != nil {
		return err
	}
	return export.WorkoutPlanPDF(w, user.Name, program, s.clock.now())
}

func (s *workoutService) PDFFileName(user *domain.User) string {
	return export.WorkoutProgramFileName(user.Name, s.clock.now())
}
