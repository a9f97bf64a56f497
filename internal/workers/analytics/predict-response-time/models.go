// internal/workers/analytics/predict-response-time/models.go
package predictresponsetime

import (
	"jobsearch-analytics/internal/analytics/responsetime"
	"jobsearch-analytics/internal/models"
)

// Input identifies the application by id, or carries it inline when the
// process already holds the record.
type Input struct {
	UserID        string              `json:"userId"`
	ApplicationID string              `json:"applicationId,omitempty"`
	Application   *models.Application `json:"application,omitempty"`
	AsOf          string              `json:"asOf,omitempty"` // RFC3339
}

type Output struct {
	HasPrediction          bool                     `json:"hasPrediction"`
	ResponseTimePrediction *responsetime.Prediction `json:"responseTimePrediction"`
}
