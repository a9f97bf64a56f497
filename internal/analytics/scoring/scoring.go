// Package scoring holds the score shape and threshold tables shared by every scorer.
package scoring

import "math"

type Status string

const (
	StatusComplete Status = "complete"
	StatusPartial  Status = "partial"
	StatusMissing  Status = "missing"
	StatusUnknown  Status = "unknown"
	StatusError    Status = "error"
)

// Thresholds maps a 0-100 score onto complete/partial/missing.
type Thresholds struct {
	Complete int
	Partial  int
}

func (t Thresholds) StatusFor(score int) Status {
	switch {
	case score >= t.Complete:
		return StatusComplete
	case score >= t.Partial:
		return StatusPartial
	default:
		return StatusMissing
	}
}

var (
	Preparation      = Thresholds{Complete: 85, Partial: 60}
	Historical       = Thresholds{Complete: 70, Partial: 40}
	HistoricalByType = Thresholds{Complete: 60, Partial: 40}
	Practice         = Thresholds{Complete: 70, Partial: 40}
)

// Per-component "complete" bars used by the preparation bonus. They differ
// from the overall Preparation thresholds.
const (
	PreparationResumeComplete       = 80
	PreparationCoverLetterComplete  = 50
	PreparationCompletenessComplete = 80
)

// SubScore is one weighted input to a composite score.
type SubScore struct {
	Score  int      `json:"score"`
	Status Status   `json:"status"`
	Count  int      `json:"count,omitempty"`
	Value  float64  `json:"value,omitempty"`
	Label  string   `json:"label,omitempty"`
	Notes  []string `json:"notes,omitempty"`
}

// Breakdown is the common output of every scorer. Score is always within [0,100].
type Breakdown struct {
	Score     int                 `json:"score"`
	Status    Status              `json:"status"`
	HasData   bool                `json:"hasData"`
	Notes     []string            `json:"notes,omitempty"`
	Subscores map[string]SubScore `json:"subscores,omitempty"`
}

// Sub returns the named sub-score and whether it was present.
func (b Breakdown) Sub(name string) (SubScore, bool) {
	s, ok := b.Subscores[name]
	return s, ok
}

// Fallback builds the breakdown returned when a scorer cannot compute a real score.
func Fallback(score int, status Status, notes ...string) Breakdown {
	return Breakdown{
		Score:     Clamp(score),
		Status:    status,
		Notes:     notes,
		Subscores: map[string]SubScore{},
	}
}

func Clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Round rounds half away from zero.
func Round(v float64) int {
	return int(math.Round(v))
}

// Weighted sums score*weight pairs and rounds the result into [0,100].
func Weighted(parts ...WeightedPart) int {
	var total float64
	for _, p := range parts {
		total += float64(p.Score) * p.Weight
	}
	return Clamp(Round(total))
}

type WeightedPart struct {
	Score  int
	Weight float64
}
