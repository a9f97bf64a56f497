// Package responsetime predicts when an employer is likely to respond to an
// application, based on the user's own response-time history.
package responsetime

import (
	"context"
	"fmt"
	"math"
	"time"

	"jobsearch-analytics/internal/common/logger"
	"jobsearch-analytics/internal/common/metrics"
	"jobsearch-analytics/internal/models"
	"jobsearch-analytics/internal/repository"
)

const (
	// Confidence labels the p10-p80 window; it is not derived from the sample.
	Confidence = 0.8

	followUpBufferDays = 2
	predictorName      = "responsetime"
)

type Prediction struct {
	SampleSize              int              `json:"sampleSize"`
	AvgDays                 float64          `json:"avgDays"`
	LowerDays               int              `json:"lowerDays"`
	UpperDays               int              `json:"upperDays"`
	Confidence              float64          `json:"confidence"`
	AppliedAt               time.Time        `json:"appliedAt"`
	RecommendedFollowUpDays int              `json:"recommendedFollowUpDays"`
	RecommendedFollowUpDate time.Time        `json:"recommendedFollowUpDate"`
	Cohort                  models.CohortKey `json:"cohort"`
	CompanySize             string           `json:"companySize,omitempty"`
	JobLevel                models.JobLevel  `json:"jobLevel"`
	UsedFallback            bool             `json:"usedFallback"`
	DaysSinceApplied        int              `json:"daysSinceApplied"`
	IsOverdue               bool             `json:"isOverdue"`
	OverdueDays             int              `json:"overdueDays"`
}

type Predictor struct {
	stats  repository.CohortStatsProvider
	logger logger.Logger
}

func NewPredictor(stats repository.CohortStatsProvider, log logger.Logger) *Predictor {
	return &Predictor{
		stats:  stats,
		logger: log.WithFields(map[string]interface{}{"component": predictorName}),
	}
}

// Predict returns nil without error when the application was never submitted or
// when neither its cohort nor the user's global history has any samples.
func (p *Predictor) Predict(ctx context.Context, app models.Application, now time.Time) (*Prediction, error) {
	if app.SubmittedAt == nil {
		return nil, nil
	}

	key := app.CohortKey()
	stats, usedFallback, err := p.lookup(ctx, app.UserID, key)
	if err != nil {
		return nil, err
	}
	if stats.Count == 0 {
		p.logger.Debug("no response-time samples", map[string]interface{}{
			"userId":        app.UserID,
			"applicationId": app.ID,
			"cohort":        key.String(),
		})
		return nil, nil
	}

	submitted := *app.SubmittedAt
	lower, upper := Window(stats, submitted)
	followUp := upper + followUpBufferDays

	daysSince := int(now.Sub(submitted).Hours() / 24)
	if daysSince < 0 {
		daysSince = 0
	}
	overdue := daysSince - upper
	if overdue < 0 {
		overdue = 0
	}

	return &Prediction{
		SampleSize:              stats.Count,
		AvgDays:                 stats.AvgDays,
		LowerDays:               lower,
		UpperDays:               upper,
		Confidence:              Confidence,
		AppliedAt:               submitted,
		RecommendedFollowUpDays: followUp,
		RecommendedFollowUpDate: submitted.AddDate(0, 0, followUp),
		Cohort:                  key,
		CompanySize:             key.CompanySize,
		JobLevel:                models.InferJobLevel(app.Title),
		UsedFallback:            usedFallback,
		DaysSinceApplied:        daysSince,
		IsOverdue:               daysSince > upper,
		OverdueDays:             overdue,
	}, nil
}

// lookup reads the specific cohort and falls back to the user's global stats
// when it is empty or its read fails.
func (p *Predictor) lookup(ctx context.Context, userID string, key models.CohortKey) (models.CohortStats, bool, error) {
	if key.IsGlobal() {
		stats, err := p.stats.CohortStats(ctx, userID, key)
		if err != nil {
			return models.CohortStats{}, false, fmt.Errorf("cohort %s: %w", key, err)
		}
		return stats, false, nil
	}

	stats, err := p.stats.CohortStats(ctx, userID, key)
	if err == nil && stats.Count > 0 {
		return stats, false, nil
	}
	if err != nil {
		p.logger.Warn("cohort lookup failed, using global history", map[string]interface{}{
			"userId": userID,
			"cohort": key.String(),
			"error":  err,
		})
	}

	global, gerr := p.stats.CohortStats(ctx, userID, models.CohortKey{})
	if gerr != nil {
		return models.CohortStats{}, true, fmt.Errorf("cohort %s: %w", models.CohortKey{}, gerr)
	}
	metrics.RecordFallback(predictorName, "global_cohort")
	return global, true, nil
}

// Window turns cohort percentiles into a [lower, upper] day range for an
// application submitted at the given time. Zero percentiles count as missing.
func Window(stats models.CohortStats, submitted time.Time) (int, int) {
	lower := roundDays(stats.P10)
	if lower < 0 {
		lower = 0
	}

	upper := 0
	for _, v := range []float64{stats.P80, stats.P90, stats.AvgDays} {
		if v > 0 {
			upper = roundDays(v)
			break
		}
	}
	if upper < lower+1 {
		upper = lower + 1
	}

	// holiday slowdown
	if m := submitted.Month(); m == time.December || m == time.January {
		lower++
		upper += 2
	}
	if d := submitted.Weekday(); d == time.Friday || d == time.Saturday {
		upper++
	}
	return lower, upper
}

func roundDays(v float64) int {
	return int(math.Round(v))
}
