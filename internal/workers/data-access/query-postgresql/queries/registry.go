// internal/workers/data-access/query-postgresql/queries/registry.go
package queries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jobsearch-analytics/internal/models"
	"jobsearch-analytics/internal/repository"
)

var (
	ErrMissingParam     = errors.New("missing required parameter")
	ErrUnknownQueryType = errors.New("unknown query type")
)

// Records is the subset of the Postgres repository the record queries use.
type Records interface {
	GetApplication(ctx context.Context, userID, applicationID string) (*models.Application, error)
	ListInterviewOutcomes(ctx context.Context, userID string) ([]models.InterviewOutcome, error)
	ListPracticeActivity(ctx context.Context, userID string, since time.Time) (models.PracticeActivity, error)
}

type Deps struct {
	Records Records
	Cohorts repository.CohortStatsProvider
}

type Params struct {
	UserID        string
	ApplicationID string
	Since         time.Time
	Cohort        models.CohortKey
}

// QueryFunc returns: data, rowCount, error
type QueryFunc func(ctx context.Context, deps Deps, p Params) (interface{}, int, error)

var Registry = map[models.QueryType]QueryFunc{
	models.QueryTypeApplication:         Application,
	models.QueryTypeInterviewHistory:    InterviewHistory,
	models.QueryTypePracticeActivity:    PracticeActivity,
	models.QueryTypeCohortResponseStats: CohortResponseStats,
}

// Execute runs queryType and reports its execution time in milliseconds.
func Execute(ctx context.Context, deps Deps, queryType models.QueryType, p Params) (interface{}, int, int64, error) {
	fn, exists := Registry[queryType]
	if !exists {
		return nil, 0, 0, fmt.Errorf("%w: %s", ErrUnknownQueryType, queryType)
	}
	if p.UserID == "" {
		return nil, 0, 0, fmt.Errorf("%w: userId", ErrMissingParam)
	}

	start := time.Now()
	data, rows, err := fn(ctx, deps, p)
	return data, rows, time.Since(start).Milliseconds(), err
}

func Application(ctx context.Context, deps Deps, p Params) (interface{}, int, error) {
	if p.ApplicationID == "" {
		return nil, 0, fmt.Errorf("%w: applicationId", ErrMissingParam)
	}
	app, err := deps.Records.GetApplication(ctx, p.UserID, p.ApplicationID)
	if err != nil {
		return nil, 0, err
	}
	return app, 1, nil
}

func InterviewHistory(ctx context.Context, deps Deps, p Params) (interface{}, int, error) {
	history, err := deps.Records.ListInterviewOutcomes(ctx, p.UserID)
	if err != nil {
		return nil, 0, err
	}
	if history == nil {
		history = []models.InterviewOutcome{}
	}
	return history, len(history), nil
}

func PracticeActivity(ctx context.Context, deps Deps, p Params) (interface{}, int, error) {
	if p.Since.IsZero() {
		return nil, 0, fmt.Errorf("%w: since", ErrMissingParam)
	}
	activity, err := deps.Records.ListPracticeActivity(ctx, p.UserID, p.Since)
	if err != nil {
		return nil, 0, err
	}
	if activity.WritingSessions == nil {
		activity.WritingSessions = []models.WritingSession{}
	}
	if activity.NervesExercises == nil {
		activity.NervesExercises = []models.NervesExercise{}
	}
	return activity, len(activity.WritingSessions) + len(activity.NervesExercises), nil
}

func CohortResponseStats(ctx context.Context, deps Deps, p Params) (interface{}, int, error) {
	stats, err := deps.Cohorts.CohortStats(ctx, p.UserID, p.Cohort)
	if err != nil {
		return nil, 0, err
	}
	return stats, 1, nil
}
