// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeApplication         QueryType = "application"
	QueryTypeInterviewHistory    QueryType = "interview_history"
	QueryTypePracticeActivity    QueryType = "practice_activity"
	QueryTypeCohortResponseStats QueryType = "cohort_response_stats"
)

func (q QueryType) Valid() bool {
	switch q {
	case QueryTypeApplication, QueryTypeInterviewHistory, QueryTypePracticeActivity, QueryTypeCohortResponseStats:
		return true
	}
	return false
}
