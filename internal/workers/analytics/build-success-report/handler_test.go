package buildsuccessreport

import (
	"context"
	"testing"
	"time"

	"jobsearch-analytics/internal/analytics/historical"
	"jobsearch-analytics/internal/analytics/practice"
	"jobsearch-analytics/internal/analytics/preparation"
	"jobsearch-analytics/internal/analytics/report"
	"jobsearch-analytics/internal/analytics/scoring"
	"jobsearch-analytics/internal/common/logger"
	"jobsearch-analytics/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

var applicationCols = []string{
	"id", "user_id", "status", "resume_id", "cover_letter", "company", "title", "location",
	"salary_min", "salary_max", "salary_text", "description", "posting_url", "notes",
	"industry", "job_type", "company_size", "company_size_bucket",
	"submitted_at", "first_response_at", "created_at",
}

func setupHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	// scorers read concurrently
	mock.MatchExpectationsInOrder(false)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	log := logger.NewTestLogger(t)
	repo := repository.NewPostgres(db)
	builder := report.NewBuilder(
		preparation.NewService(repo, log),
		historical.NewService(repo, historical.DefaultTrendMonths, log),
		practice.NewService(repo, practice.DefaultWindow, log),
		log,
	)
	h := NewHandler(&Config{Timeout: 5 * time.Second}, builder, nil, nil, log)
	h.clock = func() time.Time { return now }
	return h, mock
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_BareApplication(t *testing.T) {
	h, mock := setupHandler(t)

	mock.ExpectQuery(`FROM applications WHERE id = \$1 AND user_id = \$2`).
		WithArgs("app-1", "user-1").
		WillReturnRows(sqlmock.NewRows(applicationCols).AddRow(
			"app-1", "user-1", "Interested", nil, nil, "Acme", "Backend Engineer", nil,
			nil, nil, nil, nil, nil, nil,
			nil, nil, nil, nil,
			nil, nil, now,
		))
	mock.ExpectQuery(`FROM interviews`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "outcome", "interview_type", "interview_date", "feedback_score"}))
	mock.ExpectQuery(`FROM writing_sessions`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "completed", "started_at", "duration_minutes"}))
	mock.ExpectQuery(`FROM nerves_exercises`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "completed_at"}))

	output, err := h.Execute(context.Background(), &Input{
		UserID:             "user-1",
		ApplicationID:      "app-1",
		OverallProbability: 70,
		OverallConfidence:  70,
		Factors: map[string]scoring.Breakdown{
			"roleMatch": {Score: 80, Status: scoring.StatusComplete},
		},
	})
	require.NoError(t, err)

	rep := output.SuccessReport
	assert.Equal(t, now, rep.GeneratedAt)
	assert.Equal(t, 11, rep.Factors["preparation"].Score)
	assert.Equal(t, 50, rep.Factors[report.FactorHistoricalPerformance].Score)
	assert.Equal(t, 0, rep.Factors["practiceHours"].Score)
	assert.Equal(t, 80, rep.Factors["roleMatch"].Score)

	var titles []string
	for _, r := range rep.Recommendations {
		titles = append(titles, r.Title)
	}
	assert.Equal(t, []string{
		"Complete writing practice",
		"Attach your resume",
		"Practice this week",
		"Add a cover letter",
		"Complete nerves exercises",
	}, titles)
}

func TestHandler_Execute_MissingUser(t *testing.T) {
	h, _ := setupHandler(t)

	_, err := h.Execute(context.Background(), &Input{ApplicationID: "app-1"})
	assert.Error(t, err)
}
