// Package preparation scores how completely a single application was prepared.
package preparation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"jobsearch-analytics/internal/analytics/scoring"
	"jobsearch-analytics/internal/models"
)

const (
	SubResume       = "resume"
	SubCoverLetter  = "coverLetter"
	SubCompleteness = "completeness"

	resumeLookupFailedScore = 70
	resumeFreshness         = 30 * 24 * time.Hour
)

// ResumeLookup is what the caller found for the application's resume reference.
type ResumeLookup struct {
	Found  bool
	Err    error
	Resume *models.Resume
}

var firstPerson = regexp.MustCompile(`(?i)\bI (am|have)\b`)

// completeness points; company and title carry 1.5x the weight of location and date
var completenessFields = []struct {
	name    string
	points  int
	present func(models.Application) bool
}{
	{"company", 18, func(a models.Application) bool { return strings.TrimSpace(a.Company) != "" }},
	{"title", 18, func(a models.Application) bool { return strings.TrimSpace(a.Title) != "" }},
	{"location", 12, func(a models.Application) bool { return strings.TrimSpace(a.Location) != "" }},
	{"submittedAt", 12, func(a models.Application) bool { return a.SubmittedAt != nil }},
	{"description", 10, func(a models.Application) bool { return utf8.RuneCountInString(strings.TrimSpace(a.Description)) > 50 }},
	{"postingUrl", 10, func(a models.Application) bool { return strings.TrimSpace(a.PostingURL) != "" }},
	{"salary", 10, func(a models.Application) bool { return a.HasSalary() }},
	{"notes", 10, func(a models.Application) bool { return strings.TrimSpace(a.Notes) != "" }},
}

// Compute scores an application from already-fetched data.
func Compute(app models.Application, resume ResumeLookup, now time.Time) scoring.Breakdown {
	r := resumeScore(app, resume, now)
	c := coverLetterScore(app)
	p := completenessScore(app)

	raw := float64(r.Score)*0.40 + float64(c.Score)*0.30 + float64(p.Score)*0.30

	cleared := 0
	if r.Score >= scoring.PreparationResumeComplete {
		cleared++
	}
	if c.Score >= scoring.PreparationCoverLetterComplete {
		cleared++
	}
	if p.Score >= scoring.PreparationCompletenessComplete {
		cleared++
	}

	var notes []string
	switch cleared {
	case 3:
		raw *= 1.10
		notes = append(notes, "all components complete: +10% bonus")
	case 2:
		raw *= 1.05
		notes = append(notes, "two components complete: +5% bonus")
	}

	score := scoring.Clamp(scoring.Round(raw))
	return scoring.Breakdown{
		Score:   score,
		Status:  scoring.Preparation.StatusFor(score),
		HasData: true,
		Notes:   notes,
		Subscores: map[string]scoring.SubScore{
			SubResume:       r,
			SubCoverLetter:  c,
			SubCompleteness: p,
		},
	}
}

func subStatus(score, completeAt int) scoring.Status {
	switch {
	case score >= completeAt:
		return scoring.StatusComplete
	case score > 0:
		return scoring.StatusPartial
	default:
		return scoring.StatusMissing
	}
}

func resumeScore(app models.Application, lookup ResumeLookup, now time.Time) scoring.SubScore {
	if !app.HasResume() {
		return scoring.SubScore{Score: 0, Status: scoring.StatusMissing, Notes: []string{"no resume attached"}}
	}
	if lookup.Err != nil || !lookup.Found || lookup.Resume == nil {
		note := "resume record not found"
		if lookup.Err != nil {
			note = "resume lookup failed"
		}
		return scoring.SubScore{Score: resumeLookupFailedScore, Status: scoring.StatusPartial, Notes: []string{note}}
	}

	score := 80
	var notes []string
	if lookup.Resume.HasFile() {
		score += 10
	} else {
		notes = append(notes, "resume has no uploaded file")
	}
	if !lookup.Resume.UpdatedAt.IsZero() && now.Sub(lookup.Resume.UpdatedAt) <= resumeFreshness {
		score += 10
	} else {
		notes = append(notes, "resume not updated in the last 30 days")
	}
	score = scoring.Clamp(score)

	return scoring.SubScore{
		Score:  score,
		Status: subStatus(score, scoring.PreparationResumeComplete),
		Notes:  notes,
	}
}

func coverLetterScore(app models.Application) scoring.SubScore {
	if app.CoverLetter == nil || strings.TrimSpace(*app.CoverLetter) == "" {
		return scoring.SubScore{Score: 0, Status: scoring.StatusMissing, Notes: []string{"no cover letter"}}
	}
	text := strings.TrimSpace(*app.CoverLetter)
	length := utf8.RuneCountInString(text)

	var score int
	switch {
	case length < 100:
		score = 30
	case length < 500:
		score = 60
	case length < 1500:
		score = 90
	case length < 3000:
		score = 100
	default:
		score = 85
	}

	words := len(strings.Fields(text))
	if words >= 200 && words <= 400 {
		score += 5
	}
	if company := strings.TrimSpace(app.Company); company != "" &&
		strings.Contains(strings.ToLower(text), strings.ToLower(company)) {
		score += 5
	}
	if firstPerson.MatchString(text) {
		score += 5
	}
	score = scoring.Clamp(score)

	return scoring.SubScore{
		Score:  score,
		Status: subStatus(score, scoring.PreparationCoverLetterComplete),
		Count:  words,
		Value:  float64(length),
		Label:  fmt.Sprintf("%d words", words),
	}
}

func completenessScore(app models.Application) scoring.SubScore {
	score := 0
	filled := 0
	var missing []string
	for _, f := range completenessFields {
		if f.present(app) {
			score += f.points
			filled++
		} else {
			missing = append(missing, f.name)
		}
	}
	score = scoring.Clamp(score)

	var notes []string
	if len(missing) > 0 {
		notes = []string{"missing: " + strings.Join(missing, ", ")}
	}
	return scoring.SubScore{
		Score:  score,
		Status: subStatus(score, scoring.PreparationCompletenessComplete),
		Count:  filled,
		Label:  fmt.Sprintf("%d of %d fields", filled, len(completenessFields)),
		Notes:  notes,
	}
}
