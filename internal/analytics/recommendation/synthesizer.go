// Package recommendation turns factor breakdowns into a ranked list of
// suggested next steps.
package recommendation

import (
	"fmt"
	"sort"

	"jobsearch-analytics/internal/analytics/scoring"
	"jobsearch-analytics/internal/models"

	"github.com/google/uuid"
)

// Factor names read from the input map.
const (
	FactorPreparation     = "preparation"
	FactorRoleMatch       = "roleMatch"
	FactorCompanyResearch = "companyResearch"
	FactorPracticeHours   = "practiceHours"
)

// Sub-score names read from the factors above.
const (
	SubResume          = "resume"
	SubCoverLetter     = "coverLetter"
	SubNotes           = "notes"
	SubCompanyInfo     = "companyInfo"
	SubWritingPractice = "writingPractice"
	SubNervesExercises = "nervesExercises"
	SubRecentActivity  = "recentActivity"
)

const (
	CategoryPreparation     = "preparation"
	CategoryRoleMatch       = "role_match"
	CategoryCompanyResearch = "company_research"
	CategoryPractice        = "practice"
	CategoryStrategy        = "strategy"

	MaxRecommendations = 10
)

var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:jobsearch-analytics:recommendation"))

// Synthesize evaluates every rule independently and returns the fired ones
// ordered by priority then impact. A factor or sub-score absent from the map
// skips its rules.
func Synthesize(overallProbability, overallConfidence float64, factors map[string]scoring.Breakdown) []models.Recommendation {
	var out []models.Recommendation
	add := func(key, title, description string, priority models.Priority, impact int, category string) {
		out = append(out, models.Recommendation{
			ID:          uuid.NewSHA1(idNamespace, []byte(key)).String(),
			Title:       title,
			Description: description,
			Priority:    priority,
			Impact:      impact,
			Category:    category,
		})
	}

	if prep, ok := factors[FactorPreparation]; ok && prep.Score < 70 {
		if resume, ok := prep.Sub(SubResume); ok && resume.Score < 100 {
			add("preparation.resume", "Attach your resume",
				"Attach an up-to-date resume to this application so reviewers can assess your experience.",
				models.PriorityHigh, 15, CategoryPreparation)
		}
		if letter, ok := prep.Sub(SubCoverLetter); ok && letter.Score < 100 {
			priority := models.PriorityMedium
			if letter.Score == 0 {
				priority = models.PriorityHigh
			}
			add("preparation.coverLetter", "Add a cover letter",
				"Write a tailored cover letter that names the company and explains why you fit the role.",
				priority, 10, CategoryPreparation)
		}
	}

	if match, ok := factors[FactorRoleMatch]; ok && match.Score < 60 {
		add("roleMatch", "Review the role requirements",
			"Compare the posting's requirements with your experience and address the gaps in your application.",
			models.PriorityHigh, 20, CategoryRoleMatch)
	}

	if research, ok := factors[FactorCompanyResearch]; ok && research.Score < 60 {
		if notes, ok := research.Sub(SubNotes); ok && notes.Score < 50 {
			add("companyResearch.notes", "Add research notes",
				"Record what you learned about the company's products and recent news.",
				models.PriorityMedium, 12, CategoryCompanyResearch)
		}
		if info, ok := research.Sub(SubCompanyInfo); ok && info.Score < 100 {
			add("companyResearch.companyInfo", "Complete the company information",
				"Fill in the company's industry and size.",
				models.PriorityMedium, 8, CategoryCompanyResearch)
		}
	}

	if practice, ok := factors[FactorPracticeHours]; ok && practice.Score < 50 {
		if writing, ok := practice.Sub(SubWritingPractice); ok && writing.Count < 5 {
			add("practiceHours.writing", "Complete writing practice",
				fmt.Sprintf("You have completed %d writing sessions recently. Aim for at least 5.", writing.Count),
				models.PriorityHigh, 18, CategoryPractice)
		}
		if nerves, ok := practice.Sub(SubNervesExercises); ok && nerves.Count < 3 {
			add("practiceHours.nerves", "Complete nerves exercises",
				fmt.Sprintf("You have completed %d nerves exercises recently. Aim for at least 3.", nerves.Count),
				models.PriorityMedium, 10, CategoryPractice)
		}
		if recent, ok := practice.Sub(SubRecentActivity); ok && recent.Score == 0 {
			add("practiceHours.recent", "Practice this week",
				"Schedule at least one writing session in the next seven days to stay sharp.",
				models.PriorityHigh, 15, CategoryPractice)
		}
	}

	if overallProbability < 50 {
		add("overall.probability", "Focus on high-impact improvements",
			"Your estimated success probability is low. Start with the high priority items below.",
			models.PriorityHigh, 25, CategoryStrategy)
	}
	if overallConfidence < 60 {
		add("overall.confidence", "Complete missing information",
			"Several inputs are missing, so this estimate is uncertain. Fill in the gaps for a better read.",
			models.PriorityMedium, 10, CategoryStrategy)
	}

	Rank(out)
	if len(out) > MaxRecommendations {
		out = out[:MaxRecommendations]
	}
	return out
}

// Rank sorts in place by priority, then by impact descending. Ties keep their order.
func Rank(recs []models.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		if ri, rj := recs[i].Priority.Rank(), recs[j].Priority.Rank(); ri != rj {
			return ri < rj
		}
		return recs[i].Impact > recs[j].Impact
	})
}
