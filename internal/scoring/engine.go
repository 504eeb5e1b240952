package scoring

import (
	"math"
	"time"
)

// Engine computes composite readiness scores from AI-derived sub-scores
type Engine struct{}

// NewEngine creates a new scoring engine instance
func NewEngine() *Engine {
	return &Engine{}
}

// Fixed sub-score weights. They sum to 1.0; when a sub-score is absent its
// weight is redistributed over the present ones.
const (
	WeightFounder   = 0.25
	WeightProblem   = 0.25
	WeightUserValue = 0.30
	WeightExecution = 0.20
)

// Grade cut points. The display color buckets (green/blue/yellow/red) share
// the 75/50/25 thresholds.
const (
	gradeACutoff = 90
	gradeBCutoff = 75
	gradeCCutoff = 50
	gradeDCutoff = 25
)

// SubScores holds the four assessment dimensions. A nil entry means the
// dimension was not scored, which is different from scoring zero.
type SubScores struct {
	Founder   *float64 `json:"founder"`
	Problem   *float64 `json:"problem"`
	UserValue *float64 `json:"user_value"`
	Execution *float64 `json:"execution"`
}

// Result is the composite judgment for one application
type Result struct {
	OverallScore   float64   `json:"overall_score"`
	Grade          string    `json:"grade"`
	Recommendation string    `json:"recommendation"`
	ColorBucket    string    `json:"color_bucket"`
	Scored         bool      `json:"scored"`
	ScoredAt       time.Time `json:"scored_at"`
}

// Score aggregates whichever sub-scores are present into a composite in
// [0,100]. With every sub-score absent the result is unscored rather than
// zero. Out-of-range inputs are clamped; the engine never rejects input.
func (e *Engine) Score(scores SubScores) Result {
	result := Result{ScoredAt: time.Now()}

	var weightedSum, weightTotal float64
	add := func(score *float64, weight float64) {
		if score == nil {
			return
		}
		weightedSum += clamp(*score) * weight
		weightTotal += weight
	}

	add(scores.Founder, WeightFounder)
	add(scores.Problem, WeightProblem)
	add(scores.UserValue, WeightUserValue)
	add(scores.Execution, WeightExecution)

	if weightTotal == 0 {
		return result
	}

	composite := roundHalfUp(weightedSum / weightTotal)
	result.OverallScore = composite
	result.Grade = gradeFor(composite)
	result.Recommendation = recommendationFor(result.Grade)
	result.ColorBucket = ColorBucket(composite)
	result.Scored = true

	return result
}

// ColorBucket returns the display bucket for any 0-100 score. The same
// convention is used for readiness scores and match scores.
func ColorBucket(score float64) string {
	switch {
	case score >= gradeBCutoff:
		return "green"
	case score >= gradeCCutoff:
		return "blue"
	case score >= gradeDCutoff:
		return "yellow"
	default:
		return "red"
	}
}

// gradeFor maps a composite score to a letter grade
func gradeFor(score float64) string {
	switch {
	case score >= gradeACutoff:
		return "A"
	case score >= gradeBCutoff:
		return "B"
	case score >= gradeCCutoff:
		return "C"
	case score >= gradeDCutoff:
		return "D"
	default:
		return "F"
	}
}

// recommendationFor maps a grade to the qualitative recommendation shown to
// partners
func recommendationFor(grade string) string {
	switch grade {
	case "A":
		return "strong_yes"
	case "B":
		return "yes"
	case "C":
		return "maybe"
	case "D":
		return "weak_no"
	default:
		return "no"
	}
}

// roundHalfUp rounds to the nearest integer with .5 rounding up
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
