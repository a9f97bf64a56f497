// Package practice scores how actively a user has been practicing.
package practice

import (
	"fmt"
	"time"

	"jobsearch-analytics/internal/analytics/scoring"
	"jobsearch-analytics/internal/models"
)

const (
	SubWritingPractice = "writingPractice"
	SubNervesExercises = "nervesExercises"
	SubRecentActivity  = "recentActivity"

	DefaultWindow = 30 * 24 * time.Hour
	recentWindow  = 7 * 24 * time.Hour
)

// RecentActivity summarises the in-window practice counts.
type RecentActivity struct {
	WritingSessions    int        `json:"writingSessions"`
	NervesExercises    int        `json:"nervesExercises"`
	CompletedLast7Days int        `json:"completedLast7Days"`
	LastActivityAt     *time.Time `json:"lastActivityAt,omitempty"`
}

type Result struct {
	scoring.Breakdown
	RecentActivity RecentActivity `json:"recentActivity"`
}

// Compute scores practice rows falling inside the trailing window ending at now.
// Rows outside the window are ignored, so callers may pass a wider read.
func Compute(activity models.PracticeActivity, now time.Time, window time.Duration) Result {
	if window <= 0 {
		window = DefaultWindow
	}
	since := now.Add(-window)
	weekAgo := now.Add(-recentWindow)

	var (
		ra          RecentActivity
		anyActivity bool
	)
	seen := func(t time.Time) {
		anyActivity = true
		if ra.LastActivityAt == nil || t.After(*ra.LastActivityAt) {
			v := t
			ra.LastActivityAt = &v
		}
	}

	for _, s := range activity.WritingSessions {
		if !inWindow(s.StartedAt, since, now) {
			continue
		}
		seen(s.StartedAt)
		if !s.Completed {
			continue
		}
		ra.WritingSessions++
		if !s.StartedAt.Before(weekAgo) {
			ra.CompletedLast7Days++
		}
	}
	for _, e := range activity.NervesExercises {
		if !inWindow(e.CompletedAt, since, now) {
			continue
		}
		seen(e.CompletedAt)
		ra.NervesExercises++
	}

	writing := writingScore(ra.WritingSessions)
	nerves := nervesScore(ra.NervesExercises)
	recent := recentScore(ra.CompletedLast7Days)

	score := scoring.Weighted(
		scoring.WeightedPart{Score: writing.Score, Weight: 0.50},
		scoring.WeightedPart{Score: nerves.Score, Weight: 0.30},
		scoring.WeightedPart{Score: recent.Score, Weight: 0.20},
	)

	var notes []string
	if !anyActivity {
		notes = []string{fmt.Sprintf("no practice activity in the last %d days", int(window.Hours()/24))}
	}

	return Result{
		Breakdown: scoring.Breakdown{
			Score:   score,
			Status:  scoring.Practice.StatusFor(score),
			HasData: anyActivity,
			Notes:   notes,
			Subscores: map[string]scoring.SubScore{
				SubWritingPractice: writing,
				SubNervesExercises: nerves,
				SubRecentActivity:  recent,
			},
		},
		RecentActivity: ra,
	}
}

func inWindow(t, since, now time.Time) bool {
	return !t.Before(since) && !t.After(now)
}

func writingScore(completed int) scoring.SubScore {
	var s int
	switch {
	case completed >= 10:
		s = 100
	case completed >= 5:
		s = 75
	case completed >= 2:
		s = 50
	case completed > 0:
		s = 25
	}
	return scoring.SubScore{
		Score:  s,
		Status: stepStatus(s),
		Count:  completed,
		Label:  fmt.Sprintf("%d completed sessions", completed),
	}
}

func nervesScore(done int) scoring.SubScore {
	var s int
	switch {
	case done >= 5:
		s = 100
	case done >= 2:
		s = 60
	case done > 0:
		s = 30
	}
	return scoring.SubScore{
		Score:  s,
		Status: stepStatus(s),
		Count:  done,
		Label:  fmt.Sprintf("%d exercises", done),
	}
}

func recentScore(completedThisWeek int) scoring.SubScore {
	if completedThisWeek == 0 {
		return scoring.SubScore{Score: 0, Status: scoring.StatusMissing, Notes: []string{"no writing practice in the last 7 days"}}
	}
	return scoring.SubScore{Score: 100, Status: scoring.StatusComplete, Count: completedThisWeek}
}

// step functions top out at 100; anything between is partial
func stepStatus(score int) scoring.Status {
	switch {
	case score >= 100:
		return scoring.StatusComplete
	case score > 0:
		return scoring.StatusPartial
	default:
		return scoring.StatusMissing
	}
}
