package domain

import "time"

// CoachPlan is the profile-driven coaching plan.
type CoachPlan struct {
	DailyCalories  int      `bson:"dailyCalories" json:"dailyCalories"`
	Macros         Macros   `bson:"macros" json:"macros"`
	WeeklySessions int      `bson:"weeklySessions" json:"weeklySessions"`
	Focus          string   `bson:"focus" json:"focus"`
	WaterLitres    float64  `bson:"waterLitres" json:"waterLitres"`
	Advice         []string `bson:"advice" json:"advice"`
	NutritionNotes []string `bson:"nutritionNotes" json:"nutritionNotes"`
	WeeklyCheckIns []string `bson:"weeklyCheckIns" json:"weeklyCheckIns"`
}

type CoachPlanRecord struct {
	UserID    string    `bson:"userId" json:"userId"`
	Plan      CoachPlan `bson:"plan" json:"plan"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
