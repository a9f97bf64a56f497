package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"jobsearch-analytics/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func setupMockDB(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPostgres(db), mock
}

var applicationCols = []string{
	"id", "user_id", "status", "resume_id", "cover_letter", "company", "title", "location",
	"salary_min", "salary_max", "salary_text", "description", "posting_url", "notes",
	"industry", "job_type", "company_size", "company_size_bucket",
	"submitted_at", "first_response_at", "created_at",
}

// ==========================
// Record Reads
// ==========================

func TestPostgres_GetApplication(t *testing.T) {
	repo, mock := setupMockDB(t)
	submitted := time.Date(2024, 6, 4, 9, 0, 0, 0, time.UTC)
	created := submitted.Add(-48 * time.Hour)

	mock.ExpectQuery(`FROM applications WHERE id = \$1 AND user_id = \$2`).
		WithArgs("app-1", "user-1").
		WillReturnRows(sqlmock.NewRows(applicationCols).AddRow(
			"app-1", "user-1", "Applied", "resume-1", nil, "Acme", "Backend Engineer", "Berlin",
			90000, nil, nil, "Build services", "https://jobs.acme.test/1", nil,
			"fintech", "full-time", 120, nil,
			submitted, nil, created,
		))

	app, err := repo.GetApplication(context.Background(), "user-1", "app-1")
	require.NoError(t, err)

	assert.Equal(t, models.StatusApplied, app.Status)
	require.NotNil(t, app.ResumeID)
	assert.Equal(t, "resume-1", *app.ResumeID)
	assert.Nil(t, app.CoverLetter)
	require.NotNil(t, app.SalaryMin)
	assert.Equal(t, 90000, *app.SalaryMin)
	assert.Nil(t, app.SalaryMax)
	assert.Equal(t, 120, app.CompanySize)
	require.NotNil(t, app.SubmittedAt)
	assert.True(t, submitted.Equal(*app.SubmittedAt))
	assert.Nil(t, app.FirstResponseAt)
	assert.Equal(t, "small", app.CohortKey().CompanySize)
}

func TestPostgres_GetApplication_NotFound(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(`FROM applications`).
		WithArgs("missing", "user-1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetApplication(context.Background(), "user-1", "missing")
	assert.True(t, IsNotFound(err))
}

func TestPostgres_GetResume(t *testing.T) {
	repo, mock := setupMockDB(t)
	updated := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM resumes WHERE id = \$1`).
		WithArgs("resume-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "file_url", "updated_at"}).
			AddRow("resume-1", "user-1", "s3://resumes/r1.pdf", updated))

	r, err := repo.GetResume(context.Background(), "resume-1")
	require.NoError(t, err)
	assert.True(t, r.HasFile())
	assert.True(t, updated.Equal(r.UpdatedAt))
}

func TestPostgres_GetResume_Errors(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(`FROM resumes`).WithArgs("gone").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`FROM resumes`).WithArgs("broken").WillReturnError(errors.New("connection reset"))

	_, err := repo.GetResume(context.Background(), "gone")
	assert.True(t, IsNotFound(err))

	_, err = repo.GetResume(context.Background(), "broken")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
}

func TestPostgres_ListInterviewOutcomes(t *testing.T) {
	repo, mock := setupMockDB(t)
	d1 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM interviews WHERE user_id = \$1 AND outcome IS NOT NULL ORDER BY interview_date DESC`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "outcome", "interview_type", "interview_date", "feedback_score"}).
			AddRow("i-1", "user-1", "accepted", "technical", d1, 4.5).
			AddRow("i-2", "user-1", "rejected", nil, d2, nil))

	out, err := repo.ListInterviewOutcomes(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, out[0].IsSuccess())
	require.NotNil(t, out[0].FeedbackScore)
	assert.Equal(t, 4.5, *out[0].FeedbackScore)
	assert.Equal(t, "", out[1].InterviewType)
	assert.Nil(t, out[1].FeedbackScore)
}

func TestPostgres_ListPracticeActivity(t *testing.T) {
	repo, mock := setupMockDB(t)
	since := time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)
	at := since.Add(72 * time.Hour)

	mock.ExpectQuery(`FROM writing_sessions WHERE user_id = \$1 AND started_at >= \$2`).
		WithArgs("user-1", since).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "completed", "started_at", "duration_minutes"}).
			AddRow("w-1", "user-1", true, at, 25).
			AddRow("w-2", "user-1", false, at, nil))
	mock.ExpectQuery(`FROM nerves_exercises WHERE user_id = \$1 AND completed_at >= \$2`).
		WithArgs("user-1", since).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "completed_at"}).
			AddRow("n-1", "user-1", at))

	activity, err := repo.ListPracticeActivity(context.Background(), "user-1", since)
	require.NoError(t, err)
	assert.Len(t, activity.WritingSessions, 2)
	assert.Equal(t, 25, activity.WritingSessions[0].DurationMinutes)
	assert.Len(t, activity.NervesExercises, 1)
}

func TestPostgres_ListPracticeActivity_WritingFails(t *testing.T) {
	repo, mock := setupMockDB(t)
	since := time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM writing_sessions`).WillReturnError(errors.New("timeout"))

	_, err := repo.ListPracticeActivity(context.Background(), "user-1", since)
	assert.Error(t, err)
}

// ==========================
// Cohort Statistics
// ==========================

func TestPostgres_CohortStats(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(`percentile_cont\(0.1\)`).
		WithArgs("user-1", "fintech", "", "small").
		WillReturnRows(sqlmock.NewRows([]string{"count", "avg", "p10", "p50", "p80", "p90"}).
			AddRow(12, 6.5, 2.0, 6.0, 10.0, 13.0))

	stats, err := repo.CohortStats(context.Background(), "user-1", models.CohortKey{Industry: "fintech", CompanySize: "small"})
	require.NoError(t, err)
	assert.Equal(t, models.CohortStats{Count: 12, AvgDays: 6.5, P10: 2, P50: 6, P80: 10, P90: 13}, stats)
}

func TestPostgres_CohortStats_Error(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(`percentile_cont`).WillReturnError(errors.New("relation does not exist"))

	_, err := repo.CohortStats(context.Background(), "user-1", models.CohortKey{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "global")
}
