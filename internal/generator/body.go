package generator

import (
	"context"
	"fmt"
	"strings"

	"alcyxob/fitclub/internal/domain"
)

const (
	MinBodyPhotoBytes = 100_000
	MaxBodyPhotoBytes = 10_000_000
)

// PhotoCheck is the outcome of the simulated quality check of one photo.
type PhotoCheck struct {
	Angle  domain.PhotoAngle `json:"angle"`
	Valid  bool              `json:"isValid"`
	Issues []string          `json:"issues"`
}

// ValidateBodyPhoto runs the size checks and one random quality draw:
// r < 0.3 body not fully visible, r < 0.5 blurry, r < 0.7 poor lighting.
func ValidateBodyPhoto(angle domain.PhotoAngle, file domain.FileInfo, random RandomFunc) PhotoCheck {
	issues := []string{}
	if !strings.HasPrefix(file.ContentType, "image/") {
		issues = append(issues, "File must be an image")
	}
	if file.Size < MinBodyPhotoBytes {
		issues = append(issues, "Image resolution is too low")
	}
	if file.Size > MaxBodyPhotoBytes {
		issues = append(issues, "File size is too large (max 10MB)")
	}
	if random == nil {
		random = Options{}.withDefaults().Random
	}
	switch r := random(); {
	case r < 0.3:
		issues = append(issues, "Body is not fully visible, step back from the camera")
	case r < 0.5:
		issues = append(issues, "Photo is blurry, hold the camera steady")
	case r < 0.7:
		issues = append(issues, "Insufficient lighting, move to a brighter spot")
	}
	return PhotoCheck{Angle: angle, Valid: len(issues) == 0, Issues: issues}
}

// BodyInput holds the three validated photos, keyed by angle.
type BodyInput struct {
	Photos map[domain.PhotoAngle]domain.FileInfo
}

type BodyAnalysisGenerator struct {
	opts Options
}

func NewBodyAnalysisGenerator(opts Options) *BodyAnalysisGenerator {
	return &BodyAnalysisGenerator{opts: opts.withDefaults()}
}

var _ Generator[BodyInput, domain.BodyAnalysis] = (*BodyAnalysisGenerator)(nil)

func (g *BodyAnalysisGenerator) Run(ctx context.Context, in BodyInput) (domain.BodyAnalysis, error) {
	var issues []string
	for _, angle := range domain.PhotoAngles {
		if _, ok := in.Photos[angle]; !ok {
			issues = append(issues, fmt.Sprintf("Missing %s photo", angle))
		}
	}
	if len(issues) > 0 {
		return domain.BodyAnalysis{}, &ValidationError{Issues: issues}
	}
	if err := Wait(ctx, g.opts.Delay); err != nil {
		return domain.BodyAnalysis{}, err
	}
	return domain.BodyAnalysis{
		EstimatedTimeToGoalMonths: 6,
		FocusAreas:                []string{"Chest", "Abs", "Quadriceps", "Glutes"},
		PostureCorrectionAdvice:   "Signs of anterior pelvic tilt. Strengthen the core and hip flexors and add daily stretching.",
		RecommendedWorkoutSplit:   "3-day split: Push, Pull, Legs",
		SuggestedEquipment:        []string{"Dumbbell", "Bench Press", "Leg Press Machine", "Cable Machine"},
		InitialAdvice:             "Start with compound movements and apply progressive overload. Add weight gradually every week.",
	}, nil
}
