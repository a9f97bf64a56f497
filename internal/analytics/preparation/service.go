package preparation

import (
	"context"
	"fmt"
	"time"

	"jobsearch-analytics/internal/analytics/scoring"
	"jobsearch-analytics/internal/common/logger"
	"jobsearch-analytics/internal/common/metrics"
	"jobsearch-analytics/internal/models"
	"jobsearch-analytics/internal/repository"
)

const scorerName = "preparation"

// Reader fetches the records the preparation score depends on.
type Reader interface {
	GetApplication(ctx context.Context, userID, applicationID string) (*models.Application, error)
	GetResume(ctx context.Context, resumeID string) (*models.Resume, error)
}

type Service struct {
	reader Reader
	logger logger.Logger
}

func NewService(reader Reader, log logger.Logger) *Service {
	return &Service{
		reader: reader,
		logger: log.WithFields(map[string]interface{}{"scorer": scorerName}),
	}
}

// Score never fails: a missing application scores 0 with status error and a
// failed resume lookup earns partial credit.
func (s *Service) Score(ctx context.Context, userID, applicationID string, now time.Time) (b scoring.Breakdown) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("preparation scoring panicked", map[string]interface{}{
				"userId":        userID,
				"applicationId": applicationID,
				"panic":         fmt.Sprint(r),
			})
			metrics.RecordFallback(scorerName, "panic")
			b = scoring.Fallback(0, scoring.StatusError, "preparation score unavailable")
		}
	}()

	app, err := s.reader.GetApplication(ctx, userID, applicationID)
	if err != nil {
		s.logger.Warn("application lookup failed", map[string]interface{}{
			"userId":        userID,
			"applicationId": applicationID,
			"error":         err,
		})
		metrics.RecordFallback(scorerName, "application_lookup")
		return scoring.Fallback(0, scoring.StatusError, "application unavailable")
	}

	return s.ScoreApplication(ctx, *app, now)
}

// ScoreApplication scores an application the caller already holds, fetching only its resume.
func (s *Service) ScoreApplication(ctx context.Context, app models.Application, now time.Time) scoring.Breakdown {
	lookup := s.lookupResume(ctx, app)
	b := Compute(app, lookup, now)
	metrics.ObserveScore(scorerName, b.Score)

	s.logger.Debug("preparation score calculated", map[string]interface{}{
		"userId":        app.UserID,
		"applicationId": app.ID,
		"score":         b.Score,
		"status":        b.Status,
	})
	return b
}

func (s *Service) lookupResume(ctx context.Context, app models.Application) ResumeLookup {
	if !app.HasResume() {
		return ResumeLookup{}
	}

	resume, err := s.reader.GetResume(ctx, *app.ResumeID)
	switch {
	case err == nil:
		return ResumeLookup{Found: true, Resume: resume}
	case repository.IsNotFound(err):
		s.logger.Warn("referenced resume not found", map[string]interface{}{
			"userId":   app.UserID,
			"resumeId": *app.ResumeID,
		})
		metrics.RecordFallback(scorerName, "resume_not_found")
		return ResumeLookup{}
	default:
		s.logger.Warn("resume lookup failed", map[string]interface{}{
			"userId":   app.UserID,
			"resumeId": *app.ResumeID,
			"error":    err,
		})
		metrics.RecordFallback(scorerName, "resume_lookup")
		return ResumeLookup{Err: err}
	}
}
