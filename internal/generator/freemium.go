package generator

import (
	"context"
	"math"
	"strings"

	"alcyxob/fitclub/internal/domain"
)

const MaxFreemiumPhotoBytes = 5 * MiB

type BMICategory string

const (
	BMIUnderweight BMICategory = "Underweight"
	BMINormal      BMICategory = "Normal"
	BMIOverweight  BMICategory = "Overweight"
	BMIObese       BMICategory = "Obese"
)

// BMI is weight (kg) over height (m) squared, rounded to one decimal.
func BMI(heightCm, weightKg float64) float64 {
	return math.Round(rawBMI(heightCm, weightKg)*10) / 10
}

func rawBMI(heightCm, weightKg float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	m := heightCm / 100
	return weightKg / (m * m)
}

func CategorizeBMI(bmi float64) BMICategory {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	}
	return BMIObese
}

type FreemiumInput struct {
	HeightCm float64
	WeightKg float64
	Photo    domain.FileInfo
}

type FreemiumDay struct {
	Day      string `json:"day"`
	Exercise string `json:"exercise"`
	Volume   string `json:"volume"`
}

type FreemiumResult struct {
	BMI             float64       `json:"bmi"`
	Category        BMICategory   `json:"category"`
	Focus           string        `json:"focus"`
	Recommendations []string      `json:"recommendations"`
	WeeklyPlan      []FreemiumDay `json:"weeklyPlan"`
}

type FreemiumGenerator struct {
	opts Options
}

func NewFreemiumGenerator(opts Options) *FreemiumGenerator {
	return &FreemiumGenerator{opts: opts.withDefaults()}
}

var _ Generator[FreemiumInput, FreemiumResult] = (*FreemiumGenerator)(nil)

// ValidateFreemiumInput checks measurements and the photo. Exactly
// MaxFreemiumPhotoBytes passes.
func ValidateFreemiumInput(in FreemiumInput) error {
	var issues []string
	if in.HeightCm <= 0 {
		issues = append(issues, "Height is required")
	}
	if in.WeightKg <= 0 {
		issues = append(issues, "Weight is required")
	}
	if !strings.HasPrefix(in.Photo.ContentType, "image/") {
		issues = append(issues, "Please upload an image file")
	}
	if in.Photo.Size > MaxFreemiumPhotoBytes {
		issues = append(issues, "File size must be at most 5MB")
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func (g *FreemiumGenerator) Run(ctx context.Context, in FreemiumInput) (FreemiumResult, error) {
	if err := ValidateFreemiumInput(in); err != nil {
		return FreemiumResult{}, err
	}
	if err := Wait(ctx, g.opts.Delay); err != nil {
		return FreemiumResult{}, err
	}

	// Category matches the displayed value; focus follows the unrounded one.
	bmi := BMI(in.HeightCm, in.WeightKg)
	raw := rawBMI(in.HeightCm, in.WeightKg)
	res := FreemiumResult{BMI: bmi, Category: CategorizeBMI(bmi)}
	switch {
	case raw < 18.5:
		res.Focus = "Muscle Building"
		res.Recommendations = []string{
			"Increase daily calories with protein-rich meals",
			"Focus on compound strength exercises",
			"Rest at least 48 hours between sessions for the same muscle group",
		}
	case raw > 25:
		res.Focus = "Fat Burning"
		res.Recommendations = []string{
			"Combine cardio with strength training",
			"Keep a moderate calorie deficit",
			"Walk at least 8,000 steps a day",
		}
	default:
		res.Focus = "General Fitness"
		res.Recommendations = []string{
			"Keep a balanced mix of strength and cardio",
			"Train three to four times a week",
			"Stay hydrated and sleep well",
		}
	}
	res.WeeklyPlan = []FreemiumDay{
		{Day: "Monday", Exercise: "Push-up", Volume: "3x10"},
		{Day: "Tuesday", Exercise: "Squat", Volume: "3x15"},
		{Day: "Wednesday", Exercise: "Plank", Volume: "3x30s"},
		{Day: "Thursday", Exercise: "Burpee", Volume: "3x8"},
		{Day: "Friday", Exercise: "Mountain Climber", Volume: "3x20"},
		{Day: "Saturday", Exercise: "Cardio", Volume: "20min"},
		{Day: "Sunday", Exercise: "Rest", Volume: "-"},
	}
	return res, nil
}
