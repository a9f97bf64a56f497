// internal/workers/analytics/score-practice-readiness/models.go
package scorepracticereadiness

import "jobsearch-analytics/internal/analytics/practice"

type Input struct {
	UserID string `json:"userId"`
	AsOf   string `json:"asOf,omitempty"` // RFC3339
}

type Output struct {
	PracticeReadiness practice.Result `json:"practiceReadiness"`
}
