package service

import (
	"context"

	"github.com/rs/zerolog"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/generator"
	"alcyxob/fitclub/internal/repository"
)

type ProgressRange string

const (
	Range7Days  ProgressRange = "7days"
	Range1Month ProgressRange = "1month"
	RangeAll    ProgressRange = "all"
)

type ProgressInput struct {
	Weight          float64  `json:"weight"`
	BodyFat         *float64 `json:"bodyFat,omitempty"`
	MuscleMass      *float64 `json:"muscleMass,omitempty"`
	WorkoutDuration int      `json:"workoutDuration"`
	CaloriesBurned  int      `json:"caloriesBurned"`
}

type ProgressChanges struct {
	Weight          float64 `json:"weight"`
	BodyFat         float64 `json:"bodyFat"`
	MuscleMass      float64 `json:"muscleMass"`
	WorkoutDuration int     `json:"workoutDuration"`
	CaloriesBurned  int     `json:"caloriesBurned"`
}

type ProgressStats struct {
	Current domain.ProgressEntry `json:"current"`
	Changes *ProgressChanges     `json:"changes"`
}

type ProgressReport struct {
	Range   ProgressRange          `json:"range"`
	Sample  bool                   `json:"sample"`
	Entries []domain.ProgressEntry `json:"entries"`
	Stats   *ProgressStats         `json:"stats"`
}

type ProgressService interface {
	Add(ctx context.Context, user *domain.User, in ProgressInput) (*domain.ProgressEntry, error)
	List(ctx context.Context, user *domain.User, rng ProgressRange) (*ProgressReport, error)
}

type progressService struct {
	repo  repository.ProgressRepository
	log   zerolog.Logger
	clock Clock
}

func NewProgressService(repo repository.ProgressRepository, log zerolog.Logger, clock Clock) ProgressService {
	return &progressService{
		repo:  repo,
		log:   log.With().Str("component", "progress").Logger(),
		clock: clock,
	}
}

func validateProgress(in ProgressInput) error {
	var issues []string
	if in.Weight <= 0 {
		issues = append(issues, "Weight is required")
	}
	if in.BodyFat != nil && (*in.BodyFat < 0 || *in.BodyFat > 100) {
		issues = append(issues, "Body fat must be between 0 and 100")
	}
	if in.MuscleMass != nil && *in.MuscleMass < 0 {
		issues = append(issues, "Muscle mass cannot be negative")
	}
	if in.WorkoutDuration < 0 {
		issues = append(issues, "Workout duration cannot be negative")
	}
	if in.CaloriesBurned < 0 {
		issues = append(issues, "Calories burned cannot be negative")
	}
	if len(issues) > 0 {
		return &generator.ValidationError{Issues: issues}
	}
	return nil
}

// Add appends an entry dated today (UTC).
func (s *progressService) Add(ctx context.Context, user *domain.User, in ProgressInput) (*domain.ProgressEntry, error) {
	if user == nil {
		return nil, ErrNoSession
	}
	if err := validateProgress(in); err != nil {
		return nil, err
	}
	entry := &domain.ProgressEntry{
		UserID:          user.ID,
		Date:            s.clock.now().UTC().Format(domain.ProgressDateLayout),
		Weight:          in.Weight,
		BodyFat:         in.BodyFat,
		MuscleMass:      in.MuscleMass,
		WorkoutDuration: in.WorkoutDuration,
		CaloriesBurned:  in.CaloriesBurned,
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		s.log.Error().Err(err).Str("uid", user.ID).Msg("failed to add progress entry")
		return nil, err
	}
	return entry, nil
}

// List filters by range and computes stats over what remains. A user with
// no entries sees the sample series, flagged as such and filtered the same way.
func (s *progressService) List(ctx context.Context, user *domain.User, rng ProgressRange) (*ProgressReport, error) {
	if user == nil {
		return nil, ErrNoSession
	}
	if rng == "" {
		rng = Range1Month
	}
	if rng != Range7Days && rng != Range1Month && rng != RangeAll {
		return nil, &generator.ValidationError{Issues: []string{"Range must be 7days, 1month or all"}}
	}

	entries, err := s.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	report := &ProgressReport{Range: rng}
	if len(entries) == 0 {
		entries = SampleProgress()
		report.Sample = true
	}
	report.Entries = s.filter(entries, rng)
	report.Stats = latestStats(report.Entries)
	return report, nil
}

func (s *progressService) filter(entries []domain.ProgressEntry, rng ProgressRange) []domain.ProgressEntry {
	if rng == RangeAll {
		return entries
	}
	now := s.clock.now().UTC()
	start := now.AddDate(0, 0, -7)
	if rng == Range1Month {
		start = now.AddDate(0, -1, 0)
	}
	out := []domain.ProgressEntry{}
	for _, e := range entries {
		d, err := e.ParsedDate()
		if err != nil {
			continue
		}
		if !d.Before(start) {
			out = append(out, e)
		}
	}
	return out
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func latestStats(entries []domain.ProgressEntry) *ProgressStats {
	if len(entries) == 0 {
		return nil
	}
	latest := entries[len(entries)-1]
	stats := &ProgressStats{Current: latest}
	if len(entries) > 1 {
		prev := entries[len(entries)-2]
		stats.Changes = &ProgressChanges{
			Weight:          latest.Weight - prev.Weight,
			BodyFat:         deref(latest.BodyFat) - deref(prev.BodyFat),
			MuscleMass:      deref(latest.MuscleMass) - deref(prev.MuscleMass),
			WorkoutDuration: latest.WorkoutDuration - prev.WorkoutDuration,
			CaloriesBurned:  latest.CaloriesBurned - prev.CaloriesBurned,
		}
	}
	return stats
}

func ptr(f float64) *float64 { return &f }

// SampleProgress is the demo series shown before the first entry.
func SampleProgress() []domain.ProgressEntry {
	return []domain.ProgressEntry{
		{Date: "2024-01-01", Weight: 75.5, BodyFat: ptr(18.2), MuscleMass: ptr(35.8), WorkoutDuration: 45, CaloriesBurned: 320},
		{Date: "2024-01-08", Weight: 75.2, BodyFat: ptr(17.9), MuscleMass: ptr(36.1), WorkoutDuration: 50, CaloriesBurned: 350},
		{Date: "2024-01-15", Weight: 74.8, BodyFat: ptr(17.5), MuscleMass: ptr(36.4), WorkoutDuration: 55, CaloriesBurned: 380},
		{Date: "2024-01-22", Weight: 74.5, BodyFat: ptr(17.2), MuscleMass: ptr(36.7), WorkoutDuration: 48, CaloriesBurned: 365},
		{Date: "2024-01-29", Weight: 74.2, BodyFat: ptr(16.8), MuscleMass: ptr(37.0), WorkoutDuration: 52, CaloriesBurned: 390},
		{Date: "2024-02-05", Weight: 73.9, BodyFat: ptr(16.5), MuscleMass: ptr(37.3), WorkoutDuration: 58, CaloriesBurned: 410},
		{Date: "2024-02-12", Weight: 73.6, BodyFat: ptr(16.2), MuscleMass: ptr(37.6), WorkoutDuration: 60, CaloriesBurned: 425},
		{Date: "2024-02-19", Weight: 73.3, BodyFat: ptr(15.9), MuscleMass: ptr(37.9), WorkoutDuration: 55, CaloriesBurned: 400},
	}
}
