package matching

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/launchforge/accel-api/internal/models"
)

var testClock = func() time.Time {
	return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
}

func timePtr(t time.Time) *time.Time {
	return &t
}

// perfectCandidate scores 100 on every dimension for perfectRequest
func perfectCandidate() models.MatchCandidate {
	return models.MatchCandidate{
		ID:               uuid.New(),
		Name:             "Dana Vu",
		Kind:             "mentor",
		ArchetypeTags:    models.StringList{"marketplace_liquidity"},
		ExpertiseTags:    models.StringList{"b2b_sales", "remote_team"},
		IndustryTags:     models.StringList{"logistics"},
		StagePreferences: models.StringList{models.StageMVP},
		TrackRecord: models.TrackRecord{
			SuccessCount:     10,
			TotalEngagements: 10,
			AvgRating:        5,
		},
		LastEngagementAt: timePtr(testClock().AddDate(0, -1, 0)),
	}
}

func perfectRequest() Request {
	return Request{
		StartupID:        uuid.NewString(),
		ProblemArchetype: "marketplace_liquidity",
		Stage:            models.StageMVP,
		Constraints:      []string{"b2b_sales", "remote_team"},
	}
}

func TestDefaultWeightsSumToHundred(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("default weights are invalid: %v", err)
	}
}

func TestWeightsValidateRejectsBadSum(t *testing.T) {
	w := DefaultWeights()
	w.Recency = 10
	if err := w.Validate(); err == nil {
		t.Error("expected error for weights summing past 100")
	}

	w = DefaultWeights()
	w.ProblemShape = -40
	w.Recency = 85
	if err := w.Validate(); err == nil {
		t.Error("expected error for negative weight")
	}
}

func TestScoreCandidatePerfectMatch(t *testing.T) {
	engine := NewEngineWithClock(testClock)

	scored := engine.ScoreCandidate(perfectRequest(), perfectCandidate())

	if scored.Score != 100 {
		t.Errorf("expected composite 100, got %d", scored.Score)
	}
	if scored.Confidence != ConfidenceHigh {
		t.Errorf("expected high confidence, got %s", scored.Confidence)
	}
}

func TestScoreCandidateDealbreakerZeroesConstraints(t *testing.T) {
	engine := NewEngineWithClock(testClock)

	candidate := perfectCandidate()
	candidate.Dealbreakers = models.StringList{"remote_team"}

	scored := engine.ScoreCandidate(perfectRequest(), candidate)
	if scored.Breakdown.ConstraintAlignment != 0 {
		t.Errorf("expected dealbreaker violation to zero constraint alignment, got %v",
			scored.Breakdown.ConstraintAlignment)
	}
	// 100*40 + 0*25 + 100*20 + 100*10 + 100*5 = 75
	if scored.Score != 75 {
		t.Errorf("expected composite 75, got %d", scored.Score)
	}
	if scored.Confidence != ConfidenceMedium {
		t.Errorf("expected medium confidence with a weak dimension, got %s", scored.Confidence)
	}
}

func TestScoreCandidateSecondaryTagPartialCredit(t *testing.T) {
	engine := NewEngineWithClock(testClock)

	req := perfectRequest()
	req.ProblemArchetype = "churn_reduction"
	req.SecondaryTags = []string{"b2b_sales", "pricing"}

	scored := engine.ScoreCandidate(req, perfectCandidate())
	// One of two secondary tags hits the expertise list.
	if scored.Breakdown.ProblemShape != 50 {
		t.Errorf("expected 50 problem shape for one of two secondary tags, got %v",
			scored.Breakdown.ProblemShape)
	}
}

func TestScoreCandidateAdjacentStageHalfCredit(t *testing.T) {
	engine := NewEngineWithClock(testClock)

	candidate := perfectCandidate()
	candidate.StagePreferences = models.StringList{models.StageEarlyTraction}

	scored := engine.ScoreCandidate(perfectRequest(), candidate)
	if scored.Breakdown.StageRelevance != 50 {
		t.Errorf("expected 50 for adjacent stage, got %v", scored.Breakdown.StageRelevance)
	}

	candidate.StagePreferences = models.StringList{models.StageGrowth}
	scored = engine.ScoreCandidate(perfectRequest(), candidate)
	if scored.Breakdown.StageRelevance != 0 {
		t.Errorf("expected 0 for non-adjacent stage, got %v", scored.Breakdown.StageRelevance)
	}
}

func TestScoreCandidateEmptyProfileNeverFails(t *testing.T) {
	engine := NewEngineWithClock(testClock)

	scored := engine.ScoreCandidate(perfectRequest(), models.MatchCandidate{ID: uuid.New()})
	if scored.Score != 0 {
		t.Errorf("expected 0 composite for empty profile, got %d", scored.Score)
	}
	if scored.Confidence != ConfidenceLow {
		t.Errorf("expected low confidence, got %s", scored.Confidence)
	}
}

func TestScoreCandidateNeutralConstraintMidpoint(t *testing.T) {
	engine := NewEngineWithClock(testClock)

	req := perfectRequest()
	req.Constraints = nil

	scored := engine.ScoreCandidate(req, perfectCandidate())
	if scored.Breakdown.ConstraintAlignment != 50 {
		t.Errorf("expected neutral 50 with no constraints, got %v",
			scored.Breakdown.ConstraintAlignment)
	}
}

func TestExperienceDepthFromTrackRecord(t *testing.T) {
	engine := NewEngineWithClock(testClock)

	candidate := perfectCandidate()
	candidate.TrackRecord = models.TrackRecord{
		SuccessCount:     3,
		TotalEngagements: 6,
		AvgRating:        4,
	}

	scored := engine.ScoreCandidate(perfectRequest(), candidate)
	// 70*0.5 + 30*0.8 = 59
	if scored.Breakdown.ExperienceDepth != 59 {
		t.Errorf("expected experience depth 59, got %v", scored.Breakdown.ExperienceDepth)
	}

	candidate.TrackRecord = models.TrackRecord{}
	scored = engine.ScoreCandidate(perfectRequest(), candidate)
	if scored.Breakdown.ExperienceDepth != 0 {
		t.Errorf("expected 0 for empty track record, got %v", scored.Breakdown.ExperienceDepth)
	}
}

func TestRecencyDecay(t *testing.T) {
	engine := NewEngineWithClock(testClock)

	candidate := perfectCandidate()

	candidate.LastEngagementAt = timePtr(testClock().AddDate(0, -2, 0))
	scored := engine.ScoreCandidate(perfectRequest(), candidate)
	if scored.Breakdown.Recency != 100 {
		t.Errorf("expected full recency within three months, got %v", scored.Breakdown.Recency)
	}

	candidate.LastEngagementAt = timePtr(testClock().AddDate(-3, 0, 0))
	scored = engine.ScoreCandidate(perfectRequest(), candidate)
	if scored.Breakdown.Recency != 0 {
		t.Errorf("expected zero recency past two years, got %v", scored.Breakdown.Recency)
	}

	candidate.LastEngagementAt = nil
	scored = engine.ScoreCandidate(perfectRequest(), candidate)
	if scored.Breakdown.Recency != 0 {
		t.Errorf("expected zero recency with no engagement history, got %v", scored.Breakdown.Recency)
	}
}

func TestRankOrdersByScoreThenTierThenID(t *testing.T) {
	engine := NewEngineWithClock(testClock)

	strong := perfectCandidate()
	weak := models.MatchCandidate{ID: uuid.New(), Name: "Empty Profile"}
	middling := perfectCandidate()
	middling.Name = "Riley Chen"
	middling.Dealbreakers = models.StringList{"remote_team"}

	ranked := engine.Rank(perfectRequest(), []models.MatchCandidate{weak, middling, strong})

	if len(ranked) != 3 {
		t.Fatalf("expected 3 scored candidates, got %d", len(ranked))
	}
	if ranked[0].Candidate.ID != strong.ID {
		t.Error("expected the perfect match ranked first")
	}
	if ranked[1].Candidate.ID != middling.ID {
		t.Error("expected the dealbreaker-hit candidate ranked second")
	}
	if ranked[2].Candidate.ID != weak.ID {
		t.Error("expected the empty profile ranked last")
	}
}

func TestRankTiesBreakOnCandidateID(t *testing.T) {
	engine := NewEngineWithClock(testClock)

	a := perfectCandidate()
	b := perfectCandidate()

	first := engine.Rank(perfectRequest(), []models.MatchCandidate{a, b})
	second := engine.Rank(perfectRequest(), []models.MatchCandidate{b, a})

	for i := range first {
		if first[i].Candidate.ID != second[i].Candidate.ID {
			t.Fatal("expected identical order regardless of input order")
		}
	}
	if first[0].Candidate.ID.String() > first[1].Candidate.ID.String() {
		t.Error("expected ties broken by ascending candidate ID")
	}
}

func TestExplainMentionsScoreAndConfidence(t *testing.T) {
	engine := NewEngineWithClock(testClock)

	scored := engine.ScoreCandidate(perfectRequest(), perfectCandidate())
	explanation := engine.Explain(scored)

	if explanation == "" {
		t.Fatal("expected a non-empty explanation")
	}
	if want := "high confidence match (100/100)"; !strings.Contains(explanation, want) {
		t.Errorf("expected explanation to contain %q, got %q", want, explanation)
	}
}
