// internal/workers/analytics/score-historical-performance/models.go
package scorehistoricalperformance

import "jobsearch-analytics/internal/analytics/historical"

type Input struct {
	UserID string `json:"userId"`
	AsOf   string `json:"asOf,omitempty"` // RFC3339
}

type Output struct {
	HistoricalPerformance historical.Result `json:"historicalPerformance"`
}
