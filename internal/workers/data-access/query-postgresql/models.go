// internal/workers/data-access/query-postgresql/models.go
package querypostgresql

import "jobsearch-analytics/internal/models"

type Input struct {
	QueryType     string `json:"queryType"`
	UserID        string `json:"userId"`
	ApplicationID string `json:"applicationId,omitempty"`
	Since         string `json:"since,omitempty"` // RFC3339; practice_activity defaults to the practice window
	Industry      string `json:"industry,omitempty"`
	JobType       string `json:"jobType,omitempty"`
	CompanySize   string `json:"companySize,omitempty"`
	AsOf          string `json:"asOf,omitempty"` // RFC3339
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}

type QueryType = models.QueryType

var (
	QueryTypeApplication         = models.QueryTypeApplication
	QueryTypeInterviewHistory    = models.QueryTypeInterviewHistory
	QueryTypePracticeActivity    = models.QueryTypePracticeActivity
	QueryTypeCohortResponseStats = models.QueryTypeCohortResponseStats
)
