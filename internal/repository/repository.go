// Package repository reads the raw job-search records and response-time
// cohort statistics the analytics engine consumes.
package repository

import (
	"context"
	"errors"

	"jobsearch-analytics/internal/models"
)

// ErrNotFound is returned when a single-record lookup matches nothing.
var ErrNotFound = errors.New("record not found")

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// CohortStatsProvider returns response-time statistics for one user's cohort.
// A zero-count result means no samples matched.
type CohortStatsProvider interface {
	CohortStats(ctx context.Context, userID string, key models.CohortKey) (models.CohortStats, error)
}
