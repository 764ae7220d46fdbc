package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"alcyxob/fitclub/internal/freemium"
	"alcyxob/fitclub/internal/generator"
)

type BMIPreview struct {
	BMI      float64               `json:"bmi"`
	Category generator.BMICategory `json:"category"`
}

// FreemiumService runs the single free analysis for anonymous visitors.
type FreemiumService interface {
	Status(ctx context.Context, deviceID string) (bool, error)
	BMI(heightCm, weightKg float64) (*BMIPreview, error)
	Analyze(ctx context.Context, deviceID string, in generator.FreemiumInput) (*generator.FreemiumResult, error)
}

type freemiumService struct {
	ledger freemium.Ledger
	gen    generator.Generator[generator.FreemiumInput, generator.FreemiumResult]
	log    zerolog.Logger
}

func NewFreemiumService(ledger freemium.Ledger, gen generator.Generator[generator.FreemiumInput, generator.FreemiumResult], log zerolog.Logger) FreemiumService {
	return &freemiumService{
		ledger: ledger,
		gen:    gen,
		log:    log.With().Str("component", "freemium").Logger(),
	}
}

func requireDevice(deviceID string) error {
	if strings.TrimSpace(deviceID) == "" {
		return &generator.ValidationError{Issues: []string{"Device id is required"}}
	}
	return nil
}

func (s *freemiumService) Status(ctx context.Context, deviceID string) (bool, error) {
	if err := requireDevice(deviceID); err != nil {
		return false, err
	}
	return s.ledger.HasUsed(ctx, deviceID)
}

func (s *freemiumService) BMI(heightCm, weightKg float64) (*BMIPreview, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return nil, &generator.ValidationError{Issues: []string{"Please enter a valid height and weight"}}
	}
	bmi := generator.BMI(heightCm, weightKg)
	return &BMIPreview{BMI: bmi, Category: generator.CategorizeBMI(bmi)}, nil
}

// Analyze marks the device only after a successful run, so a rejected
// upload does not use up the trial.
func (s *freemiumService) Analyze(ctx context.Context, deviceID string, in generator.FreemiumInput) (*generator.FreemiumResult, error) {
	if err := requireDevice(deviceID); err != nil {
		return nil, err
	}
	used, err := s.ledger.HasUsed(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, ErrTrialUsed
	}
	res, err := s.gen.Run(ctx, in)
	if err != nil {
		return nil, err
	}
	first, err := s.ledger.MarkUsed(ctx, deviceID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to record freemium use")
		return &res, nil
	}
	if !first {
		return nil, ErrTrialUsed
	}
	return &res, nil
}
