package domain

import (
	"errors"
	"time"
)

var (
	ErrDayOutOfRange    = errors.New("workout day out of range")
	ErrExerciseNotFound = errors.New("exercise not found in workout day")
)

// WorkoutDay is one day of the weekly program. Rest days have no exercises.
type WorkoutDay struct {
	Day       string     `bson:"day" json:"day"`
	Focus     string     `bson:"focus" json:"focus"`
	Exercises []Exercise `bson:"exercises" json:"exercises"`
	Completed bool       `bson:"completed" json:"completed"`
}

// WorkoutProgram is the "current" workout document of a member.
type WorkoutProgram struct {
	UserID          string       `bson:"userId" json:"userId"`
	Days            []WorkoutDay `bson:"program" json:"program"`
	BasedOnAnalysis bool         `bson:"basedOnAnalysis" json:"basedOnAnalysis"`
	CreatedAt       time.Time    `bson:"createdAt" json:"createdAt"`
	LastUpdated     time.Time    `bson:"lastUpdated" json:"lastUpdated"`
}

// ToggleExercise flips one exercise and recomputes the day's completed flag:
// a day is completed exactly when every exercise in it is.
func (p *WorkoutProgram) ToggleExercise(dayIndex int, exerciseID string) (*Exercise, error) {
	day, ex, err := p.locate(dayIndex, exerciseID)
	if err != nil {
		return nil, err
	}
	ex.Completed = !ex.Completed
	day.Completed = allCompleted(day.Exercises)
	return ex, nil
}

// SetExerciseNotes replaces the free-text note of one exercise.
func (p *WorkoutProgram) SetExerciseNotes(dayIndex int, exerciseID, notes string) (*Exercise, error) {
	_, ex, err := p.locate(dayIndex, exerciseID)
	if err != nil {
		return nil, err
	}
	ex.Notes = notes
	return ex, nil
}

func (p *WorkoutProgram) locate(dayIndex int, exerciseID string) (*WorkoutDay, *Exercise, error) {
	if dayIndex < 0 || dayIndex >= len(p.Days) {
		return nil, nil, ErrDayOutOfRange
	}
	day := &p.Days[dayIndex]
	for i := range day.Exercises {
		if day.Exercises[i].ID == exerciseID {
			return day, &day.Exercises[i], nil
		}
	}
	return nil, nil, ErrExerciseNotFound
}

func allCompleted(exercises []Exercise) bool {
	for _, ex := range exercises {
		if !ex.Completed {
			return false
		}
	}
	return true
}

// WeekdayIndex maps a time to the program index, Monday = 0 ... Sunday = 6.
func WeekdayIndex(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 6
	}
	return wd - 1
}
