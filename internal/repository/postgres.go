// internal/repository/postgres.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"jobsearch-analytics/internal/models"
)

// Postgres reads records through database/sql with the lib/pq driver.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const applicationColumns = `id, user_id, status, resume_id, cover_letter, company, title, location,
	salary_min, salary_max, salary_text, description, posting_url, notes,
	industry, job_type, company_size, company_size_bucket,
	submitted_at, first_response_at, created_at`

func (p *Postgres) GetApplication(ctx context.Context, userID, applicationID string) (*models.Application, error) {
	var (
		app                                           models.Application
		status                                        string
		resumeID, coverLetter                         sql.NullString
		location, salaryText, description, postingURL sql.NullString
		notes, industry, jobType, companySizeBucket   sql.NullString
		salaryMin, salaryMax, companySize             sql.NullInt64
		submittedAt, firstResponseAt                  sql.NullTime
	)

	err := p.db.QueryRowContext(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE id = $1 AND user_id = $2`, applicationID, userID).Scan(
		&app.ID, &app.UserID, &status, &resumeID, &coverLetter, &app.Company, &app.Title, &location,
		&salaryMin, &salaryMax, &salaryText, &description, &postingURL, &notes,
		&industry, &jobType, &companySize, &companySizeBucket,
		&submittedAt, &firstResponseAt, &app.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("application %s: %w", applicationID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get application %s: %w", applicationID, err)
	}

	app.Status = models.ApplicationStatus(status)
	app.ResumeID = stringPtr(resumeID)
	app.CoverLetter = stringPtr(coverLetter)
	app.Location = location.String
	app.SalaryMin = intPtr(salaryMin)
	app.SalaryMax = intPtr(salaryMax)
	app.SalaryText = salaryText.String
	app.Description = description.String
	app.PostingURL = postingURL.String
	app.Notes = notes.String
	app.Industry = industry.String
	app.JobType = jobType.String
	app.CompanySize = int(companySize.Int64)
	app.CompanySizeBucket = companySizeBucket.String
	app.SubmittedAt = timePtr(submittedAt)
	app.FirstResponseAt = timePtr(firstResponseAt)

	return &app, nil
}

func (p *Postgres) GetResume(ctx context.Context, resumeID string) (*models.Resume, error) {
	var (
		r       models.Resume
		fileURL sql.NullString
	)
	err := p.db.QueryRowContext(ctx, `
		SELECT id, user_id, file_url, updated_at
		FROM resumes
		WHERE id = $1`, resumeID).Scan(&r.ID, &r.UserID, &fileURL, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("resume %s: %w", resumeID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get resume %s: %w", resumeID, err)
	}
	r.FileURL = fileURL.String
	return &r, nil
}

// ListInterviewOutcomes returns the user's completed interviews, newest first.
func (p *Postgres) ListInterviewOutcomes(ctx context.Context, userID string) ([]models.InterviewOutcome, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, outcome, interview_type, interview_date, feedback_score
		FROM interviews
		WHERE user_id = $1 AND outcome IS NOT NULL
		ORDER BY interview_date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	defer rows.Close()

	var out []models.InterviewOutcome
	for rows.Next() {
		var (
			o             models.InterviewOutcome
			interviewType sql.NullString
			feedback      sql.NullFloat64
		)
		if err := rows.Scan(&o.ID, &o.UserID, &o.Outcome, &interviewType, &o.InterviewDate, &feedback); err != nil {
			return nil, fmt.Errorf("scan interview: %w", err)
		}
		o.InterviewType = interviewType.String
		if feedback.Valid {
			v := feedback.Float64
			o.FeedbackScore = &v
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (p *Postgres) ListWritingSessions(ctx context.Context, userID string, since time.Time) ([]models.WritingSession, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, completed, started_at, duration_minutes
		FROM writing_sessions
		WHERE user_id = $1 AND started_at >= $2
		ORDER BY started_at DESC`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list writing sessions: %w", err)
	}
	defer rows.Close()

	var out []models.WritingSession
	for rows.Next() {
		var (
			s        models.WritingSession
			duration sql.NullInt64
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.Completed, &s.StartedAt, &duration); err != nil {
			return nil, fmt.Errorf("scan writing session: %w", err)
		}
		s.DurationMinutes = int(duration.Int64)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *Postgres) ListNervesExercises(ctx context.Context, userID string, since time.Time) ([]models.NervesExercise, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, completed_at
		FROM nerves_exercises
		WHERE user_id = $1 AND completed_at >= $2
		ORDER BY completed_at DESC`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list nerves exercises: %w", err)
	}
	defer rows.Close()

	var out []models.NervesExercise
	for rows.Next() {
		var e models.NervesExercise
		if err := rows.Scan(&e.ID, &e.UserID, &e.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan nerves exercise: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListPracticeActivity reads both practice tables since the given time.
func (p *Postgres) ListPracticeActivity(ctx context.Context, userID string, since time.Time) (models.PracticeActivity, error) {
	writing, err := p.ListWritingSessions(ctx, userID, since)
	if err != nil {
		return models.PracticeActivity{}, err
	}
	nerves, err := p.ListNervesExercises(ctx, userID, since)
	if err != nil {
		return models.PracticeActivity{}, err
	}
	return models.PracticeActivity{WritingSessions: writing, NervesExercises: nerves}, nil
}

// cohortStatsQuery aggregates days between submission and first response.
// Empty key fields match every row; the size bucket falls back to the
// employee count when no explicit bucket was stored.
const cohortStatsQuery = `
	SELECT COUNT(*),
	       COALESCE(AVG(days), 0),
	       COALESCE(percentile_cont(0.1) WITHIN GROUP (ORDER BY days), 0),
	       COALESCE(percentile_cont(0.5) WITHIN GROUP (ORDER BY days), 0),
	       COALESCE(percentile_cont(0.8) WITHIN GROUP (ORDER BY days), 0),
	       COALESCE(percentile_cont(0.9) WITHIN GROUP (ORDER BY days), 0)
	FROM (
		SELECT EXTRACT(EPOCH FROM (first_response_at - submitted_at)) / 86400.0 AS days,
		       industry, job_type,
		       COALESCE(NULLIF(company_size_bucket, ''), CASE
		           WHEN company_size IS NULL OR company_size <= 0 THEN ''
		           WHEN company_size < 50 THEN 'startup'
		           WHEN company_size < 200 THEN 'small'
		           WHEN company_size < 1000 THEN 'medium'
		           WHEN company_size < 10000 THEN 'large'
		           ELSE 'enterprise'
		       END) AS size_bucket
		FROM applications
		WHERE user_id = $1
		  AND submitted_at IS NOT NULL
		  AND first_response_at IS NOT NULL
		  AND first_response_at >= submitted_at
	) samples
	WHERE ($2::text = '' OR industry = $2)
	  AND ($3::text = '' OR job_type = $3)
	  AND ($4::text = '' OR size_bucket = $4)`

func (p *Postgres) CohortStats(ctx context.Context, userID string, key models.CohortKey) (models.CohortStats, error) {
	var s models.CohortStats
	err := p.db.QueryRowContext(ctx, cohortStatsQuery, userID, key.Industry, key.JobType, key.CompanySize).
		Scan(&s.Count, &s.AvgDays, &s.P10, &s.P50, &s.P80, &s.P90)
	if err != nil {
		return models.CohortStats{}, fmt.Errorf("cohort stats %s: %w", key, err)
	}
	return s, nil
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	v := nt.Time
	return &v
}
