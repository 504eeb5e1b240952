package matching

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/launchforge/accel-api/internal/models"
)

// Dimension weights. They must sum to 100; Weights.Validate enforces the
// contract in tests and at pipeline startup.
type Weights struct {
	ProblemShape        float64
	ConstraintAlignment float64
	StageRelevance      float64
	ExperienceDepth     float64
	Recency             float64
}

// DefaultWeights returns the fixed production weight distribution.
func DefaultWeights() Weights {
	return Weights{
		ProblemShape:        40,
		ConstraintAlignment: 25,
		StageRelevance:      20,
		ExperienceDepth:     10,
		Recency:             5,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.ProblemShape + w.ConstraintAlignment + w.StageRelevance +
		w.ExperienceDepth + w.Recency
}

// Validate checks that weights sum to 100 and none are negative.
func (w Weights) Validate() error {
	if math.Abs(w.Sum()-100) > 0.001 {
		return fmt.Errorf("weights sum to %.4f, must sum to 100", w.Sum())
	}
	for _, v := range []float64{w.ProblemShape, w.ConstraintAlignment,
		w.StageRelevance, w.ExperienceDepth, w.Recency} {
		if v < 0 {
			return fmt.Errorf("negative weight: %f", v)
		}
	}
	return nil
}

// Request describes a startup's mentorship or funding need
type Request struct {
	StartupID        string   `json:"startup_id"`
	ProblemArchetype string   `json:"problem_archetype"`
	SecondaryTags    []string `json:"secondary_tags"`
	Stage            string   `json:"stage"`
	Constraints      []string `json:"constraints"` // stage/resource/market constraint tags
}

// Scored is one candidate's computed compatibility with a request
type Scored struct {
	Candidate  models.MatchCandidate `json:"candidate"`
	Score      int                   `json:"score"`
	Confidence string                `json:"confidence"`
	Breakdown  models.MatchBreakdown `json:"breakdown"`
}

// Confidence tiers
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Engine scores startup/candidate compatibility across five weighted
// dimensions
type Engine struct {
	weights Weights
	now     func() time.Time
}

// NewEngine creates a match engine with the default weights.
func NewEngine() *Engine {
	return &Engine{weights: DefaultWeights(), now: time.Now}
}

// NewEngineWithClock creates an engine with a fixed clock, for tests.
func NewEngineWithClock(now func() time.Time) *Engine {
	return &Engine{weights: DefaultWeights(), now: now}
}

// ScoreCandidate computes the weighted composite and confidence tier for a
// single candidate. Missing candidate fields score their dimension 0; the
// engine never fails on incomplete profiles.
func (e *Engine) ScoreCandidate(req Request, candidate models.MatchCandidate) Scored {
	breakdown := models.MatchBreakdown{
		ProblemShape:        e.scoreProblemShape(req, candidate),
		ConstraintAlignment: e.scoreConstraintAlignment(req, candidate),
		StageRelevance:      e.scoreStageRelevance(req, candidate),
		ExperienceDepth:     e.scoreExperienceDepth(candidate),
		Recency:             e.scoreRecency(candidate),
	}

	composite := (breakdown.ProblemShape*e.weights.ProblemShape +
		breakdown.ConstraintAlignment*e.weights.ConstraintAlignment +
		breakdown.StageRelevance*e.weights.StageRelevance +
		breakdown.ExperienceDepth*e.weights.ExperienceDepth +
		breakdown.Recency*e.weights.Recency) / e.weights.Sum()

	score := int(math.Floor(composite + 0.5))

	return Scored{
		Candidate:  candidate,
		Score:      score,
		Confidence: confidenceFor(score, breakdown),
		Breakdown:  breakdown,
	}
}

// Rank scores every candidate and returns them in a strict total order:
// composite descending, then confidence tier, then candidate ID. The order
// is deterministic for identical input.
func (e *Engine) Rank(req Request, candidates []models.MatchCandidate) []Scored {
	scored := make([]Scored, len(candidates))
	for i, candidate := range candidates {
		scored[i] = e.ScoreCandidate(req, candidate)
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		ri, rj := tierRank(scored[i].Confidence), tierRank(scored[j].Confidence)
		if ri != rj {
			return ri < rj
		}
		return scored[i].Candidate.ID.String() < scored[j].Candidate.ID.String()
	})

	return scored
}

// Explain renders a short free-text explanation for a scored match.
func (e *Engine) Explain(s Scored) string {
	parts := []string{
		fmt.Sprintf("problem fit %.0f", s.Breakdown.ProblemShape),
		fmt.Sprintf("constraints %.0f", s.Breakdown.ConstraintAlignment),
		fmt.Sprintf("stage %.0f", s.Breakdown.StageRelevance),
		fmt.Sprintf("experience %.0f", s.Breakdown.ExperienceDepth),
		fmt.Sprintf("recency %.0f", s.Breakdown.Recency),
	}
	return fmt.Sprintf("%s confidence match (%d/100): %s",
		s.Confidence, s.Score, strings.Join(parts, ", "))
}

// scoreProblemShape compares the startup's problem archetype against the
// candidate's demonstrated-experience archetypes. An exact archetype hit is
// a full score; otherwise partial credit for secondary-tag overlap.
func (e *Engine) scoreProblemShape(req Request, candidate models.MatchCandidate) float64 {
	if req.ProblemArchetype == "" || len(candidate.ArchetypeTags) == 0 {
		return 0
	}

	for _, tag := range candidate.ArchetypeTags {
		if strings.EqualFold(tag, req.ProblemArchetype) {
			return 100
		}
	}

	if len(req.SecondaryTags) == 0 {
		return 0
	}

	matched := 0
	for _, want := range req.SecondaryTags {
		if containsFold(candidate.ArchetypeTags, want) || containsFold(candidate.ExpertiseTags, want) {
			matched++
		}
	}
	return 100 * float64(matched) / float64(len(req.SecondaryTags))
}

// scoreConstraintAlignment checks the startup's operating constraints against
// the candidate's dealbreakers and preferences. Any dealbreaker violation
// zeroes the dimension.
func (e *Engine) scoreConstraintAlignment(req Request, candidate models.MatchCandidate) float64 {
	for _, dealbreaker := range candidate.Dealbreakers {
		if containsFold(req.Constraints, dealbreaker) {
			return 0
		}
	}

	if len(req.Constraints) == 0 {
		// Nothing to align against; neutral midpoint rather than a free win.
		return 50
	}

	matched := 0
	for _, constraint := range req.Constraints {
		if containsFold(candidate.ExpertiseTags, constraint) || containsFold(candidate.IndustryTags, constraint) {
			matched++
		}
	}
	return 50 + 50*float64(matched)/float64(len(req.Constraints))
}

// pipelineOrder positions stages for adjacency checks
var pipelineOrder = map[string]int{
	models.StageProblemDiscovery:  0,
	models.StageCustomerDiscovery: 1,
	models.StageMVP:               2,
	models.StageEarlyTraction:     3,
	models.StageGrowth:            4,
}

// scoreStageRelevance is full when the candidate prefers the startup's
// current stage, half for an adjacent stage, zero otherwise.
func (e *Engine) scoreStageRelevance(req Request, candidate models.MatchCandidate) float64 {
	if req.Stage == "" || len(candidate.StagePreferences) == 0 {
		return 0
	}

	if containsFold(candidate.StagePreferences, req.Stage) {
		return 100
	}

	want, ok := pipelineOrder[strings.ToLower(req.Stage)]
	if !ok {
		return 0
	}
	for _, pref := range candidate.StagePreferences {
		if have, ok := pipelineOrder[strings.ToLower(pref)]; ok {
			if have == want-1 || have == want+1 {
				return 50
			}
		}
	}
	return 0
}

// scoreExperienceDepth derives from the candidate's track record: success
// ratio weighted 70, average rating (of 5) weighted 30. An empty track
// record scores 0, never errors.
func (e *Engine) scoreExperienceDepth(candidate models.MatchCandidate) float64 {
	record := candidate.TrackRecord
	if record.TotalEngagements <= 0 {
		return 0
	}

	successRatio := float64(record.SuccessCount) / float64(record.TotalEngagements)
	if successRatio > 1 {
		successRatio = 1
	}

	rating := record.AvgRating / 5
	if rating > 1 {
		rating = 1
	}
	if rating < 0 {
		rating = 0
	}

	return 70*successRatio + 30*rating
}

// recencyFreshMonths and recencyZeroMonths bound the decay window: full
// score within three months of the last engagement, linear decay to zero
// at twenty-four.
const (
	recencyFreshMonths = 3
	recencyZeroMonths  = 24
)

func (e *Engine) scoreRecency(candidate models.MatchCandidate) float64 {
	if candidate.LastEngagementAt == nil {
		return 0
	}

	months := e.now().Sub(*candidate.LastEngagementAt).Hours() / 24 / 30.44
	if months <= recencyFreshMonths {
		return 100
	}
	if months >= recencyZeroMonths {
		return 0
	}
	return 100 * (recencyZeroMonths - months) / (recencyZeroMonths - recencyFreshMonths)
}

// confidenceFor applies the tier thresholds: high needs a composite of 80
// with no weak dimension, medium needs 60.
func confidenceFor(score int, breakdown models.MatchBreakdown) string {
	allStrong := breakdown.ProblemShape >= 50 &&
		breakdown.ConstraintAlignment >= 50 &&
		breakdown.StageRelevance >= 50 &&
		breakdown.ExperienceDepth >= 50 &&
		breakdown.Recency >= 50

	switch {
	case score >= 80 && allStrong:
		return ConfidenceHigh
	case score >= 60:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func tierRank(tier string) int {
	switch tier {
	case ConfidenceHigh:
		return 0
	case ConfidenceMedium:
		return 1
	default:
		return 2
	}
}

func containsFold(list []string, want string) bool {
	for _, item := range list {
		if strings.EqualFold(item, want) {
			return true
		}
	}
	return false
}
