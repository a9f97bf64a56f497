// internal/workers/analytics/build-success-report/models.go
package buildsuccessreport

import (
	"jobsearch-analytics/internal/analytics/report"
	"jobsearch-analytics/internal/analytics/scoring"
)

type Input struct {
	UserID             string                       `json:"userId"`
	ApplicationID      string                       `json:"applicationId,omitempty"`
	OverallProbability float64                      `json:"overallProbability"`
	OverallConfidence  float64                      `json:"overallConfidence"`
	Factors            map[string]scoring.Breakdown `json:"factors,omitempty"` // host-computed factors such as roleMatch
	AsOf               string                       `json:"asOf,omitempty"`    // RFC3339
}

type Output struct {
	SuccessReport report.Report `json:"successReport"`
}
