// Package report assembles the combined success report for one application.
package report

import (
	"context"
	"time"

	"jobsearch-analytics/internal/analytics/historical"
	"jobsearch-analytics/internal/analytics/practice"
	"jobsearch-analytics/internal/analytics/recommendation"
	"jobsearch-analytics/internal/analytics/scoring"
	"jobsearch-analytics/internal/common/logger"
	"jobsearch-analytics/internal/models"

	"golang.org/x/sync/errgroup"
)

const FactorHistoricalPerformance = "historicalPerformance"

type PreparationScorer interface {
	Score(ctx context.Context, userID, applicationID string, now time.Time) scoring.Breakdown
}

type HistoricalScorer interface {
	Score(ctx context.Context, userID string, now time.Time) historical.Result
}

type PracticeScorer interface {
	Score(ctx context.Context, userID string, now time.Time) practice.Result
}

// Request carries the host's own factor scores alongside the ids to score.
// ApplicationID may be empty, in which case preparation is not scored.
type Request struct {
	UserID             string
	ApplicationID      string
	Now                time.Time
	OverallProbability float64
	OverallConfidence  float64
	Factors            map[string]scoring.Breakdown
}

type Report struct {
	UserID          string                       `json:"userId"`
	ApplicationID   string                       `json:"applicationId,omitempty"`
	Factors         map[string]scoring.Breakdown `json:"factors"`
	Trend           string                       `json:"trend"`
	RecentActivity  practice.RecentActivity      `json:"recentActivity"`
	Recommendations []models.Recommendation      `json:"recommendations"`
	GeneratedAt     time.Time                    `json:"generatedAt"`
}

type Builder struct {
	preparation PreparationScorer
	historical  HistoricalScorer
	practice    PracticeScorer
	logger      logger.Logger
}

func NewBuilder(prep PreparationScorer, hist HistoricalScorer, prac PracticeScorer, log logger.Logger) *Builder {
	return &Builder{
		preparation: prep,
		historical:  hist,
		practice:    prac,
		logger:      log,
	}
}

// Build runs the scorers concurrently. Each scorer absorbs its own failures,
// so one bad read never affects the others.
func (b *Builder) Build(ctx context.Context, req Request) Report {
	var (
		prep    scoring.Breakdown
		hasPrep bool
		hist    historical.Result
		prac    practice.Result
	)

	g, gctx := errgroup.WithContext(ctx)
	if req.ApplicationID != "" {
		g.Go(func() error {
			prep = b.preparation.Score(gctx, req.UserID, req.ApplicationID, req.Now)
			hasPrep = true
			return nil
		})
	}
	g.Go(func() error {
		hist = b.historical.Score(gctx, req.UserID, req.Now)
		return nil
	})
	g.Go(func() error {
		prac = b.practice.Score(gctx, req.UserID, req.Now)
		return nil
	})
	// scorers degrade to fallback breakdowns instead of failing; Wait is only a join
	_ = g.Wait()

	factors := make(map[string]scoring.Breakdown, len(req.Factors)+3)
	for name, f := range req.Factors {
		factors[name] = f
	}
	if hasPrep {
		factors[recommendation.FactorPreparation] = prep
	}
	factors[FactorHistoricalPerformance] = hist.Breakdown
	factors[recommendation.FactorPracticeHours] = prac.Breakdown

	recs := recommendation.Synthesize(req.OverallProbability, req.OverallConfidence, factors)

	b.logger.Info("success report built", map[string]interface{}{
		"userId":          req.UserID,
		"applicationId":   req.ApplicationID,
		"factors":         len(factors),
		"recommendations": len(recs),
	})

	return Report{
		UserID:          req.UserID,
		ApplicationID:   req.ApplicationID,
		Factors:         factors,
		Trend:           hist.Trend,
		RecentActivity:  prac.RecentActivity,
		Recommendations: recs,
		GeneratedAt:     req.Now,
	}
}
