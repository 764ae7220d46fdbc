package domain

import "time"

// Feature names the per-user sub-collection a generator result is stored under.
type Feature string

const (
	FeatureBodyAnalysis   Feature = "bodyAnalysis"
	FeatureWorkoutProgram Feature = "workoutProgram"
	FeatureDietPlan       Feature = "dietPlan"
	FeatureCoachPlan      Feature = "coachPlan"
)

// CurrentKey is the fixed document key holding the latest result of a feature.
const CurrentKey = "current"

type PhotoAngle string

const (
	AngleFront PhotoAngle = "front"
	AngleRight PhotoAngle = "right"
	AngleLeft  PhotoAngle = "left"
)

// PhotoAngles is the order the body-analysis steps are presented in.
var PhotoAngles = []PhotoAngle{AngleFront, AngleRight, AngleLeft}

func (a PhotoAngle) Valid() bool {
	return a == AngleFront || a == AngleRight || a == AngleLeft
}

// BodyAnalysis is the generated body-analysis payload.
type BodyAnalysis struct {
	EstimatedTimeToGoalMonths int      `bson:"estimatedTimeToGoalMonths" json:"estimatedTimeToGoalMonths"`
	FocusAreas                []string `bson:"focusAreas" json:"focusAreas"`
	PostureCorrectionAdvice   string   `bson:"postureCorrectionAdvice" json:"postureCorrectionAdvice"`
	RecommendedWorkoutSplit   string   `bson:"recommendedWorkoutSplit" json:"recommendedWorkoutSplit"`
	SuggestedEquipment        []string `bson:"suggestedEquipment" json:"suggestedEquipment"`
	InitialAdvice             string   `bson:"initialAdvice" json:"initialAdvice"`
}

type BodyAnalysisRecord struct {
	UserID    string       `bson:"userId" json:"userId"`
	Result    BodyAnalysis `bson:"result" json:"result"`
	Photos    []PhotoAngle `bson:"photos" json:"photos"`
	CreatedAt time.Time    `bson:"createdAt" json:"createdAt"`
}
