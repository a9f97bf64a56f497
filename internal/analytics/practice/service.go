package practice

import (
	"context"
	"fmt"
	"time"

	"jobsearch-analytics/internal/analytics/scoring"
	"jobsearch-analytics/internal/common/logger"
	"jobsearch-analytics/internal/common/metrics"
	"jobsearch-analytics/internal/models"
)

const scorerName = "practice"

type Reader interface {
	ListPracticeActivity(ctx context.Context, userID string, since time.Time) (models.PracticeActivity, error)
}

type Service struct {
	reader Reader
	window time.Duration
	logger logger.Logger
}

func NewService(reader Reader, window time.Duration, log logger.Logger) *Service {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Service{
		reader: reader,
		window: window,
		logger: log.WithFields(map[string]interface{}{"scorer": scorerName}),
	}
}

// Score reads the user's practice rows for the trailing window and scores them.
// A read failure scores 0 with status error.
func (s *Service) Score(ctx context.Context, userID string, now time.Time) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("practice scoring panicked", map[string]interface{}{
				"userId": userID,
				"panic":  fmt.Sprint(r),
			})
			metrics.RecordFallback(scorerName, "panic")
			res = fallback()
		}
	}()

	activity, err := s.reader.ListPracticeActivity(ctx, userID, now.Add(-s.window))
	if err != nil {
		s.logger.Warn("practice activity lookup failed", map[string]interface{}{
			"userId": userID,
			"error":  err,
		})
		metrics.RecordFallback(scorerName, "activity_lookup")
		return fallback()
	}

	res = Compute(activity, now, s.window)
	metrics.ObserveScore(scorerName, res.Score)

	s.logger.Debug("practice score calculated", map[string]interface{}{
		"userId":          userID,
		"score":           res.Score,
		"status":          res.Status,
		"writingSessions": res.RecentActivity.WritingSessions,
		"nervesExercises": res.RecentActivity.NervesExercises,
	})
	return res
}

func fallback() Result {
	return Result{Breakdown: scoring.Fallback(0, scoring.StatusError, "practice activity unavailable")}
}
