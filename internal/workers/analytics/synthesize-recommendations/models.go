// internal/workers/analytics/synthesize-recommendations/models.go
package synthesizerecommendations

import (
	"jobsearch-analytics/internal/analytics/scoring"
	"jobsearch-analytics/internal/models"
)

type Input struct {
	OverallProbability float64                      `json:"overallProbability"`
	OverallConfidence  float64                      `json:"overallConfidence"`
	Factors            map[string]scoring.Breakdown `json:"factors"`
}

type Output struct {
	Recommendations     []models.Recommendation `json:"recommendations"`
	RecommendationCount int                     `json:"recommendationCount"`
}
