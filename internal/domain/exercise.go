package domain

// Exercise is one line of a workout day. Completed and Notes are the only
// fields the member mutates.
type Exercise struct {
	ID        string `bson:"id" json:"id"`
	Name      string `bson:"name" json:"name"`
	Sets      int    `bson:"sets" json:"sets"`
	Reps      string `bson:"reps" json:"reps"`
	Completed bool   `bson:"completed" json:"completed"`
	Notes     string `bson:"notes" json:"notes"`
	RestTime  string `bson:"restTime,omitempty" json:"restTime,omitempty"`
}
