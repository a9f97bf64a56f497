// internal/models/practice.go
package models

import "time"

type WritingSession struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Completed       bool      `json:"completed"`
	StartedAt       time.Time `json:"startedAt"`
	DurationMinutes int       `json:"durationMinutes"`
}

type NervesExercise struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	CompletedAt time.Time `json:"completedAt"`
}

// PracticeActivity bundles the practice rows read for one user.
type PracticeActivity struct {
	WritingSessions []WritingSession `json:"writingSessions"`
	NervesExercises []NervesExercise `json:"nervesExercises"`
}
