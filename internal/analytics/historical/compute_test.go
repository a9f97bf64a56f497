package historical

import (
	"fmt"
	"testing"
	"time"

	"jobsearch-analytics/internal/analytics/scoring"
	"jobsearch-analytics/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func interview(outcome, kind string, daysAgo int) models.InterviewOutcome {
	return models.InterviewOutcome{
		ID:            fmt.Sprintf("i-%s-%s-%d", outcome, kind, daysAgo),
		UserID:        "user-1",
		Outcome:       outcome,
		InterviewType: kind,
		InterviewDate: now.AddDate(0, 0, -daysAgo),
	}
}

// history builds recentAccepted/recentTotal interviews inside the trend window
// and olderAccepted/olderTotal six months back.
func history(recentAccepted, recentTotal, olderAccepted, olderTotal int) []models.InterviewOutcome {
	var out []models.InterviewOutcome
	for i := 0; i < recentTotal; i++ {
		outcome := models.OutcomeRejected
		if i < recentAccepted {
			outcome = models.OutcomeAccepted
		}
		out = append(out, interview(outcome, "technical", 10+i))
	}
	for i := 0; i < olderTotal; i++ {
		outcome := models.OutcomeRejected
		if i < olderAccepted {
			outcome = models.OutcomeAccepted
		}
		out = append(out, interview(outcome, "technical", 180+i))
	}
	return out
}

// ==========================
// Composite
// ==========================

func TestCompute_EmptyHistoryIsNeutral(t *testing.T) {
	res := Compute(nil, now)

	assert.Equal(t, 50, res.Score)
	assert.False(t, res.HasData)
	assert.Equal(t, scoring.StatusMissing, res.Status)
	assert.Equal(t, TrendUnknown, res.Trend)
	assert.Zero(t, res.Total)
}

func TestCompute_ImprovingTrend(t *testing.T) {
	res := Compute(history(4, 5, 2, 5), now)

	assert.Equal(t, 10, res.Total)
	assert.Equal(t, 6, res.Accepted)
	assert.InDelta(t, 0.6, res.SmoothedRate, 1e-9)
	assert.InDelta(t, 0.8, res.RecentRate, 1e-9)
	assert.Equal(t, TrendImproving, res.Trend)

	trend, ok := res.Sub(SubRecentTrend)
	require.True(t, ok)
	assert.Equal(t, 100, trend.Score)
	assert.Equal(t, 5, trend.Count)

	// 62*0.4 + 100*0.3 + 60*0.2 + 85*0.1
	assert.Equal(t, 75, res.Score)
	assert.Equal(t, scoring.StatusComplete, res.Status)
}

func TestCompute_DecliningTrend(t *testing.T) {
	res := Compute(history(2, 5, 4, 5), now)

	assert.Equal(t, TrendDeclining, res.Trend)
	assert.Equal(t, 20, res.Subscores[SubRecentTrend].Score)
	// 62*0.4 + 20*0.3 + 60*0.2 + 85*0.1
	assert.Equal(t, 51, res.Score)
	assert.Equal(t, scoring.StatusPartial, res.Status)
}

func TestCompute_NoRecentInterviews(t *testing.T) {
	res := Compute(history(0, 0, 3, 6), now)

	trend := res.Subscores[SubRecentTrend]
	assert.Equal(t, 50, trend.Score)
	assert.Equal(t, scoring.StatusUnknown, trend.Status)
	assert.Equal(t, TrendUnknown, res.Trend)
	assert.Zero(t, res.RecentRate)
}

func TestComputeWindow_WiderWindowSeesOlderInterviews(t *testing.T) {
	h := history(0, 0, 3, 6)

	narrow := ComputeWindow(h, now, 3)
	wide := ComputeWindow(h, now, 12)

	assert.Equal(t, TrendUnknown, narrow.Trend)
	assert.Equal(t, TrendStable, wide.Trend)
}

func TestCompute_SingleAcceptedInterview(t *testing.T) {
	res := Compute([]models.InterviewOutcome{interview(models.OutcomeAccepted, "phone", 7)}, now)

	assert.Equal(t, 50, res.Subscores[SubOverallRate].Score)
	assert.Equal(t, 100, res.Subscores[SubRecentTrend].Score)
	assert.Equal(t, 100, res.Subscores[SubByType].Score)
	assert.Equal(t, 40, res.Subscores[SubConfidence].Score)
	assert.Equal(t, 74, res.Score)
	assert.NotEmpty(t, res.Notes)
}

func TestCompute_ScoreAndStatusStayConsistent(t *testing.T) {
	for total := 1; total <= 25; total += 3 {
		for accepted := 0; accepted <= total; accepted++ {
			recent := accepted / 2
			res := Compute(history(recent, total/2, accepted-recent, total-total/2), now)

			assert.GreaterOrEqual(t, res.Score, 0)
			assert.LessOrEqual(t, res.Score, 100)
			assert.Equal(t, scoring.Historical.StatusFor(res.Score), res.Status, "accepted=%d total=%d", accepted, total)
			for name, sub := range res.Subscores {
				assert.GreaterOrEqual(t, sub.Score, 0, name)
				assert.LessOrEqual(t, sub.Score, 100, name)
			}
		}
	}
}

func TestCompute_IsDeterministic(t *testing.T) {
	h := history(3, 7, 2, 6)
	assert.Equal(t, Compute(h, now), Compute(h, now))
}

// ==========================
// Sub-scores
// ==========================

func TestSmoothedRate_PullsSmallSamplesTowardPrior(t *testing.T) {
	for total := 1; total <= 4; total++ {
		for accepted := 0; accepted <= total; accepted++ {
			raw := float64(accepted) / float64(total)
			smoothed := SmoothedRate(accepted, total)

			if raw == 0.5 {
				assert.Equal(t, 0.5, smoothed)
				continue
			}
			lo, hi := raw, 0.5
			if lo > hi {
				lo, hi = hi, lo
			}
			assert.Greater(t, smoothed, lo, "accepted=%d total=%d", accepted, total)
			assert.Less(t, smoothed, hi, "accepted=%d total=%d", accepted, total)
		}
	}
}

func TestSmoothedRate_UsesRawRateFromFiveInterviews(t *testing.T) {
	assert.Equal(t, 1.0, SmoothedRate(5, 5))
	assert.Equal(t, 0.2, SmoothedRate(1, 5))
}

func TestOverallRateScore(t *testing.T) {
	tests := []struct {
		name     string
		accepted int
		total    int
		want     int
	}{
		{"one of one", 1, 1, 50},
		{"zero of one", 0, 1, 32},
		{"three of four", 3, 4, 58},
		{"five of ten", 5, 10, 52},
		{"ten of ten capped", 10, 10, 100},
		{"one of ten floored", 1, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := overallRateScore(SmoothedRate(tt.accepted, tt.total), tt.total)
			assert.Equal(t, tt.want, sub.Score)
			assert.Equal(t, tt.total, sub.Count)
		})
	}
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		d         float64
		wantTrend string
		wantScore int
	}{
		{20, TrendImproving, 100},
		{15.5, TrendImproving, 100},
		{15, TrendImproving, 85},
		{5.5, TrendImproving, 85},
		{5, TrendStable, 60},
		{0, TrendStable, 60},
		{-5, TrendStable, 60},
		{-5.5, TrendDeclining, 35},
		{-15, TrendDeclining, 35},
		{-20, TrendDeclining, 20},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("d=%v", tt.d), func(t *testing.T) {
			trend, score := classifyTrend(tt.d)
			assert.Equal(t, tt.wantTrend, trend)
			assert.Equal(t, tt.wantScore, score)
		})
	}
}

func TestByTypeScore_IsUnweightedAcrossTypes(t *testing.T) {
	h := []models.InterviewOutcome{
		interview(models.OutcomeAccepted, "phone", 3),
		interview(models.OutcomeAccepted, "technical", 4),
		interview(models.OutcomeRejected, "technical", 5),
		interview(models.OutcomeRejected, "technical", 6),
	}

	sub := byTypeScore(h)

	// (100 + 33.3) / 2
	assert.Equal(t, 67, sub.Score)
	assert.Equal(t, scoring.StatusComplete, sub.Status)
	assert.Equal(t, 2, sub.Count)
	assert.Equal(t, []string{"phone: 1/1", "technical: 1/3"}, sub.Notes)
}

func TestByTypeScore_BlankTypeIsGeneral(t *testing.T) {
	sub := byTypeScore([]models.InterviewOutcome{interview(models.OutcomeRejected, "", 3)})

	assert.Equal(t, 0, sub.Score)
	assert.Equal(t, scoring.StatusMissing, sub.Status)
	assert.Equal(t, []string{"general: 0/1"}, sub.Notes)
}

func TestConfidenceScore(t *testing.T) {
	tests := map[int]int{0: 0, 1: 40, 2: 40, 3: 55, 5: 70, 9: 70, 10: 85, 19: 85, 20: 100, 50: 100}
	for total, want := range tests {
		assert.Equal(t, want, confidenceScore(total).Score, "total=%d", total)
	}
}
