//go:build e2e

// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsearch-analytics/internal/analytics/historical"
	"jobsearch-analytics/internal/analytics/practice"
	"jobsearch-analytics/internal/analytics/preparation"
	"jobsearch-analytics/internal/analytics/recommendation"
	"jobsearch-analytics/internal/analytics/report"
	"jobsearch-analytics/internal/analytics/responsetime"
	"jobsearch-analytics/internal/common/config"
	"jobsearch-analytics/internal/common/database"
	"jobsearch-analytics/internal/common/logger"
	"jobsearch-analytics/internal/models"
	"jobsearch-analytics/internal/repository"
	"jobsearch-analytics/internal/workers/data-access/query-postgresql/queries"
)

// Runs against a real PostgreSQL:
//
//	DB_HOST=localhost DB_USER=postgres DB_PASSWORD=postgres go test -tags e2e ./test/e2e/...
//
// Set REDIS_ADDRESS to also exercise the cohort cache.

const userID = "e2e-user"

func TestFullE2E(t *testing.T) {
	if os.Getenv("DB_HOST") == "" {
		t.Skip("DB_HOST not set")
	}

	cfg, err := config.LoadFromFile("../../configs/config.yaml")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer pg.Close()
	require.NoError(t, pg.Ping(ctx), "PostgreSQL ping failed")

	now := time.Now().UTC().Truncate(time.Second)
	seed(t, ctx, pg.DB, now)

	log := logger.NewTestLogger(t)
	records := repository.NewPostgres(pg.DB)
	var cohorts repository.CohortStatsProvider = records
	if cfg.Database.Redis.Enabled() {
		rdb, err := database.NewRedis(cfg.Database.Redis)
		require.NoError(t, err)
		defer rdb.Close()
		require.NoError(t, rdb.Ping(ctx), "Redis ping failed")
		cohorts = repository.NewCachedCohorts(records, rdb.Client, time.Minute, log)
	}

	t.Run("cohort statistics", func(t *testing.T) {
		stats, err := cohorts.CohortStats(ctx, userID, models.CohortKey{Industry: "fintech", JobType: "full-time", CompanySize: "small"})
		require.NoError(t, err)
		assert.Equal(t, 6, stats.Count)
		assert.InDelta(t, 5.5, stats.AvgDays, 0.01)
		assert.InDelta(t, 5.5, stats.P50, 0.01)
	})

	t.Run("response time prediction", func(t *testing.T) {
		app, err := records.GetApplication(ctx, userID, "e2e-pending")
		require.NoError(t, err)

		prediction, err := responsetime.NewPredictor(cohorts, log).Predict(ctx, *app, now)
		require.NoError(t, err)
		require.NotNil(t, prediction)
		assert.Equal(t, 6, prediction.SampleSize)
		assert.False(t, prediction.UsedFallback)
		assert.LessOrEqual(t, prediction.LowerDays, prediction.UpperDays)
		assert.Equal(t, 2, prediction.DaysSinceApplied)
	})

	t.Run("success report", func(t *testing.T) {
		builder := report.NewBuilder(
			preparation.NewService(records, log),
			historical.NewService(records, cfg.Analytics.TrendWindowMonths, log),
			practice.NewService(records, cfg.Analytics.PracticeWindow(), log),
			log,
		)

		rep := builder.Build(ctx, report.Request{
			UserID:             userID,
			ApplicationID:      "e2e-pending",
			Now:                now,
			OverallProbability: 55,
			OverallConfidence:  0.7,
		})

		prep := rep.Factors[recommendation.FactorPreparation]
		assert.True(t, prep.HasData)
		assert.NotEqual(t, "error", string(prep.Status))

		hist := rep.Factors[report.FactorHistoricalPerformance]
		assert.True(t, hist.HasData)
		assert.Equal(t, historical.TrendImproving, rep.Trend)

		assert.Equal(t, 2, rep.RecentActivity.WritingSessions)
		assert.Equal(t, 1, rep.RecentActivity.NervesExercises)
		assert.LessOrEqual(t, len(rep.Recommendations), recommendation.MaxRecommendations)
	})

	t.Run("record queries", func(t *testing.T) {
		deps := queries.Deps{Records: records, Cohorts: cohorts}

		_, rows, _, err := queries.Execute(ctx, deps, models.QueryTypeInterviewHistory, queries.Params{UserID: userID})
		require.NoError(t, err)
		assert.Equal(t, 6, rows)

		_, rows, _, err = queries.Execute(ctx, deps, models.QueryTypePracticeActivity, queries.Params{UserID: userID, Since: now.AddDate(0, 0, -30)})
		require.NoError(t, err)
		assert.Equal(t, 4, rows)

		_, _, _, err = queries.Execute(ctx, deps, models.QueryTypeApplication, queries.Params{UserID: userID, ApplicationID: "missing"})
		assert.True(t, repository.IsNotFound(err))
	})
}

// ==========================
// Schema + Test Data
// ==========================

var schema = []string{
	`CREATE TABLE IF NOT EXISTS resumes (
		id VARCHAR(255) PRIMARY KEY,
		user_id VARCHAR(255) NOT NULL,
		file_url TEXT,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS applications (
		id VARCHAR(255) PRIMARY KEY,
		user_id VARCHAR(255) NOT NULL,
		status VARCHAR(50) NOT NULL,
		resume_id VARCHAR(255),
		cover_letter TEXT,
		company VARCHAR(255) NOT NULL DEFAULT '',
		title VARCHAR(255) NOT NULL DEFAULT '',
		location VARCHAR(255),
		salary_min INTEGER,
		salary_max INTEGER,
		salary_text VARCHAR(255),
		description TEXT,
		posting_url TEXT,
		notes TEXT,
		industry VARCHAR(100),
		job_type VARCHAR(100),
		company_size INTEGER,
		company_size_bucket VARCHAR(50),
		submitted_at TIMESTAMPTZ,
		first_response_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS interviews (
		id VARCHAR(255) PRIMARY KEY,
		user_id VARCHAR(255) NOT NULL,
		outcome VARCHAR(50),
		interview_type VARCHAR(100),
		interview_date TIMESTAMPTZ NOT NULL,
		feedback_score DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS writing_sessions (
		id VARCHAR(255) PRIMARY KEY,
		user_id VARCHAR(255) NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT false,
		started_at TIMESTAMPTZ NOT NULL,
		duration_minutes INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS nerves_exercises (
		id VARCHAR(255) PRIMARY KEY,
		user_id VARCHAR(255) NOT NULL,
		completed_at TIMESTAMPTZ NOT NULL
	)`,
}

func seed(t *testing.T, ctx context.Context, db *sql.DB, now time.Time) {
	t.Helper()

	for _, stmt := range schema {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}
	for _, table := range []string{"resumes", "applications", "interviews", "writing_sessions", "nerves_exercises"} {
		_, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE user_id = $1", table), userID)
		require.NoError(t, err)
	}

	exec := func(query string, args ...interface{}) {
		t.Helper()
		_, err := db.ExecContext(ctx, query, args...)
		require.NoError(t, err)
	}

	exec(`INSERT INTO resumes (id, user_id, file_url, updated_at) VALUES ($1, $2, $3, $4)`,
		"e2e-resume", userID, "https://files.example.com/resume.pdf", now.AddDate(0, 0, -10))

	// Six answered applications in one cohort, 3..8 days to first response.
	for i := 0; i < 6; i++ {
		submitted := now.AddDate(0, -2, -i)
		exec(`INSERT INTO applications (id, user_id, status, company, title, industry, job_type, company_size, submitted_at, first_response_at)
			VALUES ($1, $2, 'Rejected', 'Acme', 'Data Analyst', 'fintech', 'full-time', 120, $3, $4)`,
			fmt.Sprintf("e2e-answered-%d", i), userID, submitted, submitted.AddDate(0, 0, 3+i))
	}

	exec(`INSERT INTO applications (id, user_id, status, resume_id, cover_letter, company, title, location,
			salary_min, salary_max, description, posting_url, notes, industry, job_type, company_size, submitted_at)
		VALUES ($1, $2, 'Applied', 'e2e-resume', $3, 'Acme', 'Senior Data Analyst', 'Remote',
			90000, 120000, $4, 'https://jobs.example.com/1', $5, 'fintech', 'full-time', 120, $6)`,
		"e2e-pending", userID,
		"Dear hiring team, I have spent four years building analytics pipelines and would love to bring that to Acme.",
		"Own the analytics roadmap for payments.",
		"Spoke with a current analyst about the team.",
		now.AddDate(0, 0, -2))

	// Older interviews mostly rejected, recent ones mostly accepted.
	outcomes := []struct {
		outcome string
		ago     int
	}{
		{models.OutcomeRejected, 200},
		{models.OutcomeRejected, 180},
		{models.OutcomeRejected, 150},
		{models.OutcomeAccepted, 30},
		{models.OutcomeAccepted, 20},
		{models.OutcomeAccepted, 10},
	}
	for i, o := range outcomes {
		exec(`INSERT INTO interviews (id, user_id, outcome, interview_type, interview_date) VALUES ($1, $2, $3, 'technical', $4)`,
			fmt.Sprintf("e2e-interview-%d", i), userID, o.outcome, now.AddDate(0, 0, -o.ago))
	}

	exec(`INSERT INTO writing_sessions (id, user_id, completed, started_at, duration_minutes) VALUES ($1, $2, true, $3, 30)`,
		"e2e-writing-1", userID, now.AddDate(0, 0, -1))
	exec(`INSERT INTO writing_sessions (id, user_id, completed, started_at, duration_minutes) VALUES ($1, $2, true, $3, 25)`,
		"e2e-writing-2", userID, now.AddDate(0, 0, -12))
	exec(`INSERT INTO writing_sessions (id, user_id, completed, started_at) VALUES ($1, $2, false, $3)`,
		"e2e-writing-3", userID, now.AddDate(0, 0, -3))
	exec(`INSERT INTO nerves_exercises (id, user_id, completed_at) VALUES ($1, $2, $3)`,
		"e2e-nerves-1", userID, now.AddDate(0, 0, -4))
}
