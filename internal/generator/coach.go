package generator

import (
	"context"
	"math"
	"strings"

	"alcyxob/fitclub/internal/domain"
)

// ActivityFactor is the moderate-activity multiplier applied to BMR.
const ActivityFactor = 1.55

type CoachInput struct {
	User *domain.User
}

// CoachPlanGenerator builds a coaching plan from the member's profile.
type CoachPlanGenerator struct {
	opts Options
}

func NewCoachPlanGenerator(opts Options) *CoachPlanGenerator {
	return &CoachPlanGenerator{opts: opts.withDefaults()}
}

var _ Generator[CoachInput, domain.CoachPlan] = (*CoachPlanGenerator)(nil)

// GoalKind buckets the free-text primary goal. Gain keywords win over the
// generic "weight", so "Gain weight" is a gain goal.
type GoalKind int

const (
	GoalMaintain GoalKind = iota
	GoalLose
	GoalGain
)

func ClassifyGoal(goal string) GoalKind {
	g := strings.ToLower(goal)
	switch {
	case strings.Contains(g, "gain"), strings.Contains(g, "bulk"), strings.Contains(g, "put on"),
		strings.Contains(g, "muscle"), strings.Contains(g, "strength"):
		return GoalGain
	case strings.Contains(g, "lose"), strings.Contains(g, "loss"), strings.Contains(g, "fat"), strings.Contains(g, "weight"):
		return GoalLose
	}
	return GoalMaintain
}

// BMR uses the Mifflin-St Jeor equation.
func BMR(p domain.PhysicalInfo) float64 {
	base := 10*p.Weight + 6.25*float64(p.Height) - 5*float64(p.Age)
	if p.Gender == domain.GenderFemale {
		return base - 161
	}
	return base + 5
}

// DailyCalories is BMR times the activity factor, shifted by the goal.
func DailyCalories(p domain.PhysicalInfo, goal GoalKind) int {
	tdee := BMR(p) * ActivityFactor
	switch goal {
	case GoalLose:
		tdee -= 500
	case GoalGain:
		tdee += 300
	}
	return int(math.Round(tdee))
}

func (g *CoachPlanGenerator) Run(ctx context.Context, in CoachInput) (domain.CoachPlan, error) {
	if !in.User.HasCompleteProfile() {
		return domain.CoachPlan{}, &ValidationError{Issues: []string{"Complete your physical info and goals first"}}
	}
	if err := Wait(ctx, g.opts.Delay); err != nil {
		return domain.CoachPlan{}, err
	}

	p := *in.User.PhysicalInfo
	goal := ClassifyGoal(in.User.Goals.PrimaryGoal)
	plan := domain.CoachPlan{
		DailyCalories:  DailyCalories(p, goal),
		WaterLitres:    math.Round(p.Weight*0.035*10) / 10,
		WeeklySessions: 4,
		Advice: []string{
			"Sleep seven to nine hours every night",
			"Log every workout and review progress weekly",
		},
		WeeklyCheckIns: []string{
			"Weigh in on the same morning each week",
			"Take progress photos every two weeks",
		},
	}
	switch goal {
	case GoalLose:
		plan.Focus = "Fat loss"
		plan.Macros = domain.Macros{Protein: 30, Carbs: 40, Fat: 30}
		plan.Advice = append(plan.Advice, "Keep a moderate calorie deficit and add two cardio sessions a week")
	case GoalGain:
		plan.Focus = "Muscle gain"
		plan.WeeklySessions = 5
		plan.Macros = domain.Macros{Protein: 30, Carbs: 45, Fat: 25}
		plan.Advice = append(plan.Advice, "Prioritise compound lifts and increase load progressively")
	default:
		plan.Focus = "General fitness"
		plan.Macros = domain.Macros{Protein: 25, Carbs: 50, Fat: 25}
		plan.Advice = append(plan.Advice, "Mix strength and cardio sessions through the week")
	}

	if n := in.User.NutritionProfile; n != nil {
		if n.Allergies != "" {
			plan.NutritionNotes = append(plan.NutritionNotes, "Avoid allergens: "+n.Allergies)
		}
		if n.Avoidances != "" {
			plan.NutritionNotes = append(plan.NutritionNotes, "Excluded foods: "+n.Avoidances)
		}
		if n.Preferences != "" {
			plan.NutritionNotes = append(plan.NutritionNotes, "Meals built around: "+n.Preferences)
		}
	}
	return plan, nil
}
