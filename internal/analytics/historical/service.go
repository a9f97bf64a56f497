package historical

import (
	"context"
	"fmt"
	"time"

	"jobsearch-analytics/internal/analytics/scoring"
	"jobsearch-analytics/internal/common/logger"
	"jobsearch-analytics/internal/common/metrics"
	"jobsearch-analytics/internal/models"
)

const scorerName = "historical"

type Reader interface {
	ListInterviewOutcomes(ctx context.Context, userID string) ([]models.InterviewOutcome, error)
}

type Service struct {
	reader      Reader
	trendMonths int
	logger      logger.Logger
}

func NewService(reader Reader, trendMonths int, log logger.Logger) *Service {
	if trendMonths <= 0 {
		trendMonths = DefaultTrendMonths
	}
	return &Service{
		reader:      reader,
		trendMonths: trendMonths,
		logger:      log.WithFields(map[string]interface{}{"scorer": scorerName}),
	}
}

// Score reads the user's interview history and scores it. Any failure yields
// the neutral score with status error.
func (s *Service) Score(ctx context.Context, userID string, now time.Time) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("historical scoring panicked", map[string]interface{}{
				"userId": userID,
				"panic":  fmt.Sprint(r),
			})
			metrics.RecordFallback(scorerName, "panic")
			res = fallback()
		}
	}()

	history, err := s.reader.ListInterviewOutcomes(ctx, userID)
	if err != nil {
		s.logger.Warn("interview history lookup failed", map[string]interface{}{
			"userId": userID,
			"error":  err,
		})
		metrics.RecordFallback(scorerName, "history_lookup")
		return fallback()
	}

	res = ComputeWindow(history, now, s.trendMonths)
	metrics.ObserveScore(scorerName, res.Score)

	s.logger.Debug("historical score calculated", map[string]interface{}{
		"userId": userID,
		"score":  res.Score,
		"status": res.Status,
		"total":  res.Total,
		"trend":  res.Trend,
	})
	return res
}

func fallback() Result {
	return Result{
		Breakdown: scoring.Fallback(neutralScore, scoring.StatusError, "interview history unavailable"),
		Trend:     TrendUnknown,
	}
}
