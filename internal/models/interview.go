// internal/models/interview.go
package models

import "time"

const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// InterviewOutcome is one completed interview.
type InterviewOutcome struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Outcome       string    `json:"outcome"`
	InterviewType string    `json:"interviewType"`
	InterviewDate time.Time `json:"interviewDate"`
	FeedbackScore *float64  `json:"feedbackScore,omitempty"`
}

func (o InterviewOutcome) IsSuccess() bool {
	return o.Outcome == OutcomeAccepted
}
