// internal/workers/analytics/score-preparation/models.go
package scorepreparation

import "jobsearch-analytics/internal/analytics/scoring"

type Input struct {
	UserID        string `json:"userId"`
	ApplicationID string `json:"applicationId"`
	AsOf          string `json:"asOf,omitempty"` // RFC3339
}

type Output struct {
	PreparationScore scoring.Breakdown `json:"preparationScore"`
}
