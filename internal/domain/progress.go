package domain

import "time"

// ProgressDateLayout is the calendar-date format of progress entries.
const ProgressDateLayout = "2006-01-02"

// ProgressEntry is an append-only dated measurement.
type ProgressEntry struct {
	ID              string    `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          string    `bson:"userId" json:"-"`
	Date            string    `bson:"date" json:"date"`
	Weight          float64   `bson:"weight" json:"weight"`
	BodyFat         *float64  `bson:"bodyFat,omitempty" json:"bodyFat,omitempty"`
	MuscleMass      *float64  `bson:"muscleMass,omitempty" json:"muscleMass,omitempty"`
	WorkoutDuration int       `bson:"workoutDuration" json:"workoutDuration"`
	CaloriesBurned  int       `bson:"caloriesBurned" json:"caloriesBurned"`
	CreatedAt       time.Time `bson:"createdAt" json:"-"`
}

// ParsedDate returns the entry date at UTC midnight.
func (e ProgressEntry) ParsedDate() (time.Time, error) {
	return time.Parse(ProgressDateLayout, e.Date)
}
