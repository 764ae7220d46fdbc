package generator

import (
	"time"

	"alcyxob/fitclub/internal/domain"
)

func ex(id, name string, sets int, reps, rest string) domain.Exercise {
	return domain.Exercise{ID: id, Name: name, Sets: sets, Reps: reps, RestTime: rest}
}

// DeriveWorkoutProgram builds the weekly program that follows a body
// analysis. Rest days start out completed.
func DeriveWorkoutProgram(userID string, _ domain.BodyAnalysis, now time.Time) *domain.WorkoutProgram {
	days := []domain.WorkoutDay{
		{Day: "Monday", Focus: "Push (Chest, Shoulders, Triceps)", Exercises: []domain.Exercise{
			ex("1", "Bench Press", 4, "8-10", "2-3 min"),
			ex("2", "Overhead Press", 3, "10-12", "2 min"),
			ex("3", "Dips", 3, "12-15", "90 s"),
			ex("4", "Tricep Extensions", 3, "12-15", "60 s"),
		}},
		{Day: "Tuesday", Focus: "Pull (Back, Biceps)", Exercises: []domain.Exercise{
			ex("5", "Pull-ups", 4, "6-10", "2-3 min"),
			ex("6", "Barbell Rows", 4, "8-10", "2 min"),
			ex("7", "Lat Pulldowns", 3, "10-12", "90 s"),
			ex("8", "Barbell Curls", 3, "10-12", "60 s"),
		}},
		{Day: "Wednesday", Focus: "Rest", Exercises: []domain.Exercise{}, Completed: true},
		{Day: "Thursday", Focus: "Legs (Quadriceps, Hamstrings, Glutes)", Exercises: []domain.Exercise{
			ex("9", "Squats", 4, "8-10", "3 min"),
			ex("10", "Romanian Deadlifts", 4, "8-10", "2 min"),
			ex("11", "Leg Press", 3, "12-15", "90 s"),
			ex("12", "Calf Raises", 4, "15-20", "60 s"),
		}},
		{Day: "Friday", Focus: "Core & Cardio", Exercises: []domain.Exercise{
			ex("13", "Plank", 3, "30-60 s", "60 s"),
			ex("14", "Russian Twists", 3, "20-30", "60 s"),
			ex("15", "Treadmill", 1, "20 min", "-"),
		}},
		{Day: "Saturday", Focus: "Rest or Light Cardio", Exercises: []domain.Exercise{
			ex("16", "Walking", 1, "30-45 min", "-"),
		}},
		{Day: "Sunday", Focus: "Rest", Exercises: []domain.Exercise{}, Completed: true},
	}
	return &domain.WorkoutProgram{
		UserID:          userID,
		Days:            days,
		BasedOnAnalysis: true,
		CreatedAt:       now,
		LastUpdated:     now,
	}
}
