package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/fitclub/internal/domain"
)

func twoExerciseProgram() *domain.WorkoutProgram {
	return &domain.WorkoutProgram{
		UserID: "uid-1",
		Days: []domain.WorkoutDay{
			{
				Day:   "Monday",
				Focus: "Upper body",
				Exercises: []domain.Exercise{
					{ID: "1", Name: "Push-up", Sets: 3, Reps: "12"},
					{ID: "2", Name: "Row", Sets: 3, Reps: "10"},
				},
			},
			{Day: "Tuesday", Focus: "Rest", Completed: true},
		},
	}
}

func TestToggleExercise_DayCompletedTracksExercises(t *testing.T) {
	p := twoExerciseProgram()

	ex, err := p.ToggleExercise(0, "1")
	require.NoError(t, err)
	assert.True(t, ex.Completed)
	assert.False(t, p.Days[0].Completed)

	_, err = p.ToggleExercise(0, "2")
	require.NoError(t, err)
	assert.True(t, p.Days[0].Completed)

	ex, err = p.ToggleExercise(0, "1")
	require.NoError(t, err)
	assert.False(t, ex.Completed)
	assert.False(t, p.Days[0].Completed)
}

func TestToggleExercise_Errors(t *testing.T) {
	p := twoExerciseProgram()

	_, err := p.ToggleExercise(7, "1")
	assert.ErrorIs(t, err, domain.ErrDayOutOfRange)

	_, err = p.ToggleExercise(-1, "1")
	assert.ErrorIs(t, err, domain.ErrDayOutOfRange)

	_, err = p.ToggleExercise(0, "99")
	assert.ErrorIs(t, err, domain.ErrExerciseNotFound)

	_, err = p.ToggleExercise(1, "1")
	assert.ErrorIs(t, err, domain.ErrExerciseNotFound)
}

func TestSetExerciseNotes(t *testing.T) {
	p := twoExerciseProgram()

	ex, err := p.SetExerciseNotes(0, "2", "use the cable machine")
	require.NoError(t, err)
	assert.Equal(t, "use the cable machine", ex.Notes)
	assert.Equal(t, "use the cable machine", p.Days[0].Exercises[1].Notes)
	assert.False(t, p.Days[0].Exercises[1].Completed)
}

func TestWeekdayIndex(t *testing.T) {
	monday := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, domain.WeekdayIndex(monday))
	assert.Equal(t, 2, domain.WeekdayIndex(monday.AddDate(0, 0, 2)))
	assert.Equal(t, 6, domain.WeekdayIndex(monday.AddDate(0, 0, 6)))
}
