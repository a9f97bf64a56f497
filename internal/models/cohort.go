// internal/models/cohort.go
package models

import (
	"fmt"
	"strings"
)

// CohortKey partitions response-time history into comparable groups.
// Empty fields are wildcards.
type CohortKey struct {
	Industry    string `json:"industry,omitempty"`
	JobType     string `json:"jobType,omitempty"`
	CompanySize string `json:"companySize,omitempty"`
}

// IsGlobal reports whether every field is a wildcard.
func (k CohortKey) IsGlobal() bool {
	return k.Industry == "" && k.JobType == "" && k.CompanySize == ""
}

func (k CohortKey) String() string {
	if k.IsGlobal() {
		return "global"
	}
	return fmt.Sprintf("%s/%s/%s", orAny(k.Industry), orAny(k.JobType), orAny(k.CompanySize))
}

func orAny(s string) string {
	if s == "" {
		return "*"
	}
	return s
}

// CompanySizeBucket maps an employee count onto a coarse bucket. Zero means unknown.
func CompanySizeBucket(employees int) string {
	switch {
	case employees <= 0:
		return ""
	case employees < 50:
		return "startup"
	case employees < 200:
		return "small"
	case employees < 1000:
		return "medium"
	case employees < 10000:
		return "large"
	default:
		return "enterprise"
	}
}

// CohortStats summarises response-time samples in days. Count 0 means no samples.
type CohortStats struct {
	Count   int     `json:"count"`
	AvgDays float64 `json:"avgDays"`
	P10     float64 `json:"p10"`
	P50     float64 `json:"p50"`
	P80     float64 `json:"p80"`
	P90     float64 `json:"p90"`
}

type JobLevel string

const (
	JobLevelIntern    JobLevel = "intern"
	JobLevelJunior    JobLevel = "junior"
	JobLevelSenior    JobLevel = "senior"
	JobLevelLead      JobLevel = "lead"
	JobLevelExecutive JobLevel = "executive"
	JobLevelMid       JobLevel = "mid"
)

// checked in order; first match wins
var jobLevelKeywords = []struct {
	level    JobLevel
	keywords []string
}{
	{JobLevelIntern, []string{"intern", "internship", "trainee", "co op"}},
	{JobLevelJunior, []string{"junior", "jr", "entry level", "graduate", "associate"}},
	{JobLevelSenior, []string{"senior", "sr", "staff"}},
	{JobLevelLead, []string{"lead", "principal", "manager", "head"}},
	{JobLevelExecutive, []string{"director", "vp", "vice president", "chief", "cto", "ceo", "cfo", "executive"}},
}

// InferJobLevel guesses seniority from a job title by keyword. Titles with no
// keyword are treated as mid level.
func InferJobLevel(title string) JobLevel {
	normalized := " " + strings.Join(strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}), " ") + " "

	for _, entry := range jobLevelKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(normalized, " "+kw+" ") {
				return entry.level
			}
		}
	}
	return JobLevelMid
}
