// Package historical scores a user's interview track record.
package historical

import (
	"fmt"
	"sort"
	"time"

	"jobsearch-analytics/internal/analytics/scoring"
	"jobsearch-analytics/internal/models"
)

const (
	SubOverallRate = "overallRate"
	SubRecentTrend = "recentTrend"
	SubByType      = "byType"
	SubConfidence  = "confidence"

	// DefaultTrendMonths is the trailing window compared against the overall rate.
	DefaultTrendMonths = 3

	neutralScore = 50

	// Beta(2,2) prior
	priorSuccesses = 2
	priorTrials    = 4
	smoothingBelow = 5
)

const (
	TrendImproving = "improving"
	TrendStable    = "stable"
	TrendDeclining = "declining"
	TrendUnknown   = "unknown"
)

type Result struct {
	scoring.Breakdown
	Trend        string  `json:"trend"`
	RawRate      float64 `json:"rawRate"`
	SmoothedRate float64 `json:"smoothedRate"`
	RecentRate   float64 `json:"recentRate"`
	Total        int     `json:"total"`
	Accepted     int     `json:"accepted"`
}

// Compute scores interview history using the default three month trend window.
func Compute(history []models.InterviewOutcome, now time.Time) Result {
	return ComputeWindow(history, now, DefaultTrendMonths)
}

// ComputeWindow is Compute with an explicit trend window in months.
func ComputeWindow(history []models.InterviewOutcome, now time.Time, trendMonths int) Result {
	if len(history) == 0 {
		return Result{
			Breakdown: scoring.Breakdown{
				Score:     neutralScore,
				Status:    scoring.StatusMissing,
				HasData:   false,
				Notes:     []string{"no interview history yet"},
				Subscores: map[string]scoring.SubScore{},
			},
			Trend: TrendUnknown,
		}
	}
	if trendMonths <= 0 {
		trendMonths = DefaultTrendMonths
	}

	total := len(history)
	accepted := countAccepted(history)
	raw := float64(accepted) / float64(total)
	smoothed := SmoothedRate(accepted, total)

	overall := overallRateScore(smoothed, total)
	trend, recentRate, recentCount := recentTrend(history, smoothed, now, trendMonths)
	byType := byTypeScore(history)
	confidence := confidenceScore(total)

	score := scoring.Weighted(
		scoring.WeightedPart{Score: overall.Score, Weight: 0.40},
		scoring.WeightedPart{Score: trend.Score, Weight: 0.30},
		scoring.WeightedPart{Score: byType.Score, Weight: 0.20},
		scoring.WeightedPart{Score: confidence.Score, Weight: 0.10},
	)

	var notes []string
	if total < smoothingBelow {
		notes = append(notes, fmt.Sprintf("small sample (%d interviews): rate smoothed toward 50%%", total))
	}

	res := Result{
		Breakdown: scoring.Breakdown{
			Score:   score,
			Status:  scoring.Historical.StatusFor(score),
			HasData: true,
			Notes:   notes,
			Subscores: map[string]scoring.SubScore{
				SubOverallRate: overall,
				SubRecentTrend: trend,
				SubByType:      byType,
				SubConfidence:  confidence,
			},
		},
		Trend:        trend.Label,
		RawRate:      raw,
		SmoothedRate: smoothed,
		Total:        total,
		Accepted:     accepted,
	}
	if recentCount > 0 {
		res.RecentRate = recentRate
	}
	return res
}

// SmoothedRate applies the Beta(2,2) prior below five interviews and returns
// the raw rate otherwise.
func SmoothedRate(accepted, total int) float64 {
	if total <= 0 {
		return 0.5
	}
	if total < smoothingBelow {
		return float64(accepted+priorSuccesses) / float64(total+priorTrials)
	}
	return float64(accepted) / float64(total)
}

func countAccepted(history []models.InterviewOutcome) int {
	n := 0
	for _, o := range history {
		if o.IsSuccess() {
			n++
		}
	}
	return n
}

func overallRateScore(rate float64, total int) scoring.SubScore {
	pct := rate * 100
	score := pct

	// penalties scale the score; bonuses are flat points
	switch {
	case total < 3:
		score *= 0.8
	case total < smoothingBelow:
		score *= 0.9
	}
	switch {
	case pct >= 70:
		score += 5
	case pct >= 50:
		score += 2
	case pct < 20:
		score -= 10
	}

	s := scoring.Clamp(scoring.Round(score))
	return scoring.SubScore{
		Score:  s,
		Status: scoring.Historical.StatusFor(s),
		Count:  total,
		Value:  pct,
		Label:  fmt.Sprintf("%.0f%% success", pct),
	}
}

func recentTrend(history []models.InterviewOutcome, overallRate float64, now time.Time, months int) (scoring.SubScore, float64, int) {
	since := now.AddDate(0, -months, 0)

	var recent, recentAccepted int
	for _, o := range history {
		if o.InterviewDate.Before(since) || o.InterviewDate.After(now) {
			continue
		}
		recent++
		if o.IsSuccess() {
			recentAccepted++
		}
	}
	if recent == 0 {
		return scoring.SubScore{
			Score:  neutralScore,
			Status: scoring.StatusUnknown,
			Label:  TrendUnknown,
			Notes:  []string{fmt.Sprintf("no interviews in the last %d months", months)},
		}, 0, 0
	}

	recentRate := float64(recentAccepted) / float64(recent)
	d := (recentRate - overallRate) * 100
	trend, score := classifyTrend(d)

	return scoring.SubScore{
		Score:  score,
		Status: scoring.Historical.StatusFor(score),
		Count:  recent,
		Value:  d,
		Label:  trend,
	}, recentRate, recent
}

// classifyTrend maps the recent-minus-overall difference in percentage points
// onto a trend. A difference of exactly 5 either way is stable.
func classifyTrend(d float64) (string, int) {
	switch {
	case d > 15:
		return TrendImproving, 100
	case d > 5:
		return TrendImproving, 85
	case d >= -5:
		return TrendStable, 60
	case d >= -15:
		return TrendDeclining, 35
	default:
		return TrendDeclining, 20
	}
}

func byTypeScore(history []models.InterviewOutcome) scoring.SubScore {
	type tally struct{ total, accepted int }
	groups := make(map[string]*tally)
	for _, o := range history {
		t := o.InterviewType
		if t == "" {
			t = "general"
		}
		g, ok := groups[t]
		if !ok {
			g = &tally{}
			groups[t] = g
		}
		g.total++
		if o.IsSuccess() {
			g.accepted++
		}
	}

	types := make([]string, 0, len(groups))
	for t := range groups {
		types = append(types, t)
	}
	sort.Strings(types)

	// unweighted: every type counts once regardless of its sample size
	var sum float64
	notes := make([]string, 0, len(types))
	for _, t := range types {
		g := groups[t]
		sum += float64(g.accepted) / float64(g.total) * 100
		notes = append(notes, fmt.Sprintf("%s: %d/%d", t, g.accepted, g.total))
	}
	s := scoring.Clamp(scoring.Round(sum / float64(len(types))))

	return scoring.SubScore{
		Score:  s,
		Status: scoring.HistoricalByType.StatusFor(s),
		Count:  len(types),
		Notes:  notes,
	}
}

func confidenceScore(total int) scoring.SubScore {
	var s int
	switch {
	case total >= 20:
		s = 100
	case total >= 10:
		s = 85
	case total >= 5:
		s = 70
	case total >= 3:
		s = 55
	case total >= 1:
		s = 40
	}
	return scoring.SubScore{
		Score:  s,
		Status: scoring.Historical.StatusFor(s),
		Count:  total,
	}
}
