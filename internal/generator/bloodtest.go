package generator

import (
	"context"
	"strings"

	"alcyxob/fitclub/internal/domain"
)

const MaxBloodTestBytes = 10 * MiB

// BloodTestInput describes the uploaded lab report. Its content is never read.
type BloodTestInput struct {
	File domain.FileInfo
	User *domain.User
}

type BloodTestResult struct {
	Panel []domain.BloodTestResult `json:"bloodResults"`
	Plan  domain.DietPlan          `json:"dietPlan"`
}

// BloodTestGenerator accepts a PDF and interprets a fixed sample panel in
// its place.
type BloodTestGenerator struct {
	opts Options
}

func NewBloodTestGenerator(opts Options) *BloodTestGenerator {
	return &BloodTestGenerator{opts: opts.withDefaults()}
}

var _ Generator[BloodTestInput, BloodTestResult] = (*BloodTestGenerator)(nil)

// ValidateBloodTestFile checks type and size. Exactly MaxBloodTestBytes passes.
func ValidateBloodTestFile(file domain.FileInfo) error {
	var issues []string
	if file.ContentType != "application/pdf" {
		issues = append(issues, "Please upload a PDF file")
	}
	if file.Size > MaxBloodTestBytes {
		issues = append(issues, "File size must be at most 10MB")
	}
	if file.Size <= 0 {
		issues = append(issues, "File is empty")
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func (g *BloodTestGenerator) Run(ctx context.Context, in BloodTestInput) (BloodTestResult, error) {
	if err := ValidateBloodTestFile(in.File); err != nil {
		return BloodTestResult{}, err
	}
	if err := Wait(ctx, g.opts.Delay); err != nil {
		return BloodTestResult{}, err
	}
	panel := SamplePanel()
	return BloodTestResult{Panel: panel, Plan: dietPlanFor(panel)}, nil
}

// SamplePanel is the lab panel every upload is interpreted as.
func SamplePanel() []domain.BloodTestResult {
	return []domain.BloodTestResult{
		{Parameter: "Glucose (Fasting)", Value: 105, Unit: "mg/dL", NormalRange: "70-100", Status: domain.LabHigh},
		{Parameter: "HbA1c", Value: 5.8, Unit: "%", NormalRange: "<5.7", Status: domain.LabHigh},
		{Parameter: "Total Cholesterol", Value: 220, Unit: "mg/dL", NormalRange: "<200", Status: domain.LabHigh},
		{Parameter: "LDL Cholesterol", Value: 145, Unit: "mg/dL", NormalRange: "<100", Status: domain.LabHigh},
		{Parameter: "HDL Cholesterol", Value: 45, Unit: "mg/dL", NormalRange: ">40", Status: domain.LabNormal},
		{Parameter: "Triglycerides", Value: 180, Unit: "mg/dL", NormalRange: "<150", Status: domain.LabHigh},
		{Parameter: "Hemoglobin", Value: 14.2, Unit: "g/dL", NormalRange: "12.0-15.5", Status: domain.LabNormal},
		{Parameter: "Vitamin D (25-OH)", Value: 18, Unit: "ng/mL", NormalRange: "30-100", Status: domain.LabLow},
		{Parameter: "Vitamin B12", Value: 350, Unit: "pg/mL", NormalRange: "200-900", Status: domain.LabNormal},
		{Parameter: "Ferritin", Value: 85, Unit: "ng/mL", NormalRange: "15-150", Status: domain.LabNormal},
		{Parameter: "TSH", Value: 2.8, Unit: "mIU/L", NormalRange: "0.27-4.2", Status: domain.LabNormal},
		{Parameter: "Creatinine", Value: 0.9, Unit: "mg/dL", NormalRange: "0.7-1.3", Status: domain.LabNormal},
	}
}

func findStatus(panel []domain.BloodTestResult, prefix string) domain.LabStatus {
	for _, r := range panel {
		if strings.HasPrefix(r.Parameter, prefix) {
			return r.Status
		}
	}
	return ""
}

// HighGlucose reports whether the fasting glucose of the panel is high.
func HighGlucose(panel []domain.BloodTestResult) bool {
	return findStatus(panel, "Glucose") == domain.LabHigh
}

func dietPlanFor(panel []domain.BloodTestResult) domain.DietPlan {
	highGlucose := HighGlucose(panel)
	highCholesterol := findStatus(panel, "Total Cholesterol") == domain.LabHigh || findStatus(panel, "LDL") == domain.LabHigh
	lowVitaminD := findStatus(panel, "Vitamin D") == domain.LabLow

	plan := domain.DietPlan{
		DailyCalories: 2000,
		Macros:        domain.Macros{Protein: 25, Carbs: 50, Fat: 25},
	}
	if highGlucose {
		plan.DailyCalories = 1750
		plan.Macros = domain.Macros{Protein: 28, Carbs: 40, Fat: 32}
	}

	plan.Recommendations = []string{"Eat five to six small meals a day", "Drink at least 2.5 litres of water daily"}
	plan.Restrictions = []string{"Avoid sugary drinks and processed snacks"}
	plan.Supplements = []string{"Omega-3 (1000 mg/day)"}
	plan.HealthInsights = []string{}

	if highGlucose {
		plan.Recommendations = append(plan.Recommendations,
			"Choose low glycaemic index carbohydrates",
			"Pair carbohydrates with protein or fibre to slow absorption")
		plan.Restrictions = append(plan.Restrictions, "Limit white bread, white rice and pastries")
		plan.HealthInsights = append(plan.HealthInsights,
			"Fasting glucose and HbA1c indicate a pre-diabetic trend; carbohydrate intake has been reduced")
	}
	if highCholesterol {
		plan.Recommendations = append(plan.Recommendations, "Add oats, legumes and nuts for soluble fibre")
		plan.Restrictions = append(plan.Restrictions, "Limit fried food and saturated fat")
		plan.HealthInsights = append(plan.HealthInsights,
			"Total and LDL cholesterol are above range; prefer olive oil and oily fish")
	}
	if lowVitaminD {
		plan.Supplements = append(plan.Supplements, "Vitamin D3 (2000 IU/day)")
		plan.HealthInsights = append(plan.HealthInsights,
			"Vitamin D is low; 15-20 minutes of daily sunlight is recommended")
	}

	plan.MealPlan = domain.MealPlan{
		Breakfast: []string{"2 boiled eggs", "1 slice of whole-grain bread", "Tomato, cucumber and greens", "Unsweetened green tea"},
		Lunch:     []string{"Grilled chicken breast (150 g)", "Bulgur pilaf (4 tbsp)", "Large seasonal salad with olive oil", "Plain yoghurt"},
		Dinner:    []string{"Baked salmon (150 g)", "Steamed vegetables", "Lentil soup (1 bowl)"},
		Snacks:    []string{"A handful of raw almonds", "1 green apple", "Kefir (1 glass)"},
	}
	return plan
}
