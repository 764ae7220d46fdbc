package domain

import "time"

type LabStatus string

const (
	LabNormal LabStatus = "normal"
	LabHigh   LabStatus = "high"
	LabLow    LabStatus = "low"
)

// BloodTestResult is one parameter of a lab panel.
type BloodTestResult struct {
	Parameter   string    `bson:"parameter" json:"parameter"`
	Value       float64   `bson:"value" json:"value"`
	Unit        string    `bson:"unit" json:"unit"`
	NormalRange string    `bson:"normalRange" json:"normalRange"`
	Status      LabStatus `bson:"status" json:"status"`
}

// Macros are percentages of daily calories.
type Macros struct {
	Protein int `bson:"protein" json:"protein"`
	Carbs   int `bson:"carbs" json:"carbs"`
	Fat     int `bson:"fat" json:"fat"`
}

type MealPlan struct {
	Breakfast []string `bson:"breakfast" json:"breakfast"`
	Lunch     []string `bson:"lunch" json:"lunch"`
	Dinner    []string `bson:"dinner" json:"dinner"`
	Snacks    []string `bson:"snacks" json:"snacks"`
}

type DietPlan struct {
	DailyCalories   int      `bson:"dailyCalories" json:"dailyCalories"`
	Macros          Macros   `bson:"macros" json:"macros"`
	Recommendations []string `bson:"recommendations" json:"recommendations"`
	Restrictions    []string `bson:"restrictions" json:"restrictions"`
	Supplements     []string `bson:"supplements" json:"supplements"`
	MealPlan        MealPlan `bson:"mealPlan" json:"mealPlan"`
	HealthInsights  []string `bson:"healthInsights" json:"healthInsights"`
}

type DietPlanRecord struct {
	UserID       string            `bson:"userId" json:"userId"`
	Plan         DietPlan          `bson:"plan" json:"plan"`
	BloodResults []BloodTestResult `bson:"bloodResults" json:"bloodResults"`
	SourceFile   FileInfo          `bson:"sourceFile" json:"sourceFile"`
	CreatedAt    time.Time         `bson:"createdAt" json:"createdAt"`
}
