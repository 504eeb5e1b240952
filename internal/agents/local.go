package agents

import (
	"context"
	"strings"
	"time"

	"github.com/launchforge/accel-api/internal/matching"
	"github.com/launchforge/accel-api/internal/models"
)

// LocalMatchmakingAgent ranks candidates in-process with the deterministic
// matching engine. It is the default when no remote agent is configured and
// produces identical output for identical input.
type LocalMatchmakingAgent struct {
	engine *matching.Engine
}

// NewLocalMatchmakingAgent creates an in-process matchmaking agent
func NewLocalMatchmakingAgent(engine *matching.Engine) *LocalMatchmakingAgent {
	return &LocalMatchmakingAgent{engine: engine}
}

// FindMatches scores and ranks the candidate pool deterministically
func (a *LocalMatchmakingAgent) FindMatches(_ context.Context, input FindMatchesInput) (*FindMatchesOutput, error) {
	ranked := a.engine.Rank(input.Request, input.Candidates)

	out := &FindMatchesOutput{
		Matches:  make([]MatchProposal, 0, len(ranked)),
		Metadata: map[string]string{"engine": "local"},
	}
	for _, s := range ranked {
		out.Matches = append(out.Matches, MatchProposal{
			CandidateID: s.Candidate.ID.String(),
			Score:       s.Score,
			Confidence:  s.Confidence,
			Breakdown:   s.Breakdown,
			Explanation: a.engine.Explain(s),
		})
	}
	return out, nil
}

// LocalAssessmentAgent produces a rough heuristic assessment from the
// application text alone. It exists so the decision workflow is exercisable
// in development; production deployments point at a remote agent.
type LocalAssessmentAgent struct{}

// NewLocalAssessmentAgent creates an in-process assessment agent
func NewLocalAssessmentAgent() *LocalAssessmentAgent {
	return &LocalAssessmentAgent{}
}

// Assess derives sub-scores from simple completeness heuristics
func (a *LocalAssessmentAgent) Assess(_ context.Context, input AssessmentInput) (*Assessment, error) {
	founder := textScore(input.InterviewNotes, 40)
	problem := textScore(input.Description, 60)
	userValue := textScore(input.TargetCustomer+" "+input.OneLiner, 30)
	execution := textScore(input.WebsiteSummary, 50)

	var redFlags []string
	if strings.TrimSpace(input.TargetCustomer) == "" {
		redFlags = append(redFlags, "no target customer identified")
	}
	if strings.TrimSpace(input.InterviewNotes) == "" {
		redFlags = append(redFlags, "no interview material")
	}

	return &Assessment{
		FounderScore:   founder,
		ProblemScore:   problem,
		UserValueScore: userValue,
		ExecutionScore: execution,
		StartingStage:  models.DefaultStartingStage,
		Summary:        "Heuristic assessment based on application completeness",
		RedFlags:       redFlags,
		GeneratedAt:    time.Now(),
	}, nil
}

// textScore maps text length against an expected word count onto [20,90],
// or nil when the text is empty. Crude, but monotonic and bounded.
func textScore(text string, expectedWords int) *float64 {
	words := len(strings.Fields(text))
	if words == 0 {
		return nil
	}
	score := 20 + 70*float64(words)/float64(expectedWords)
	if score > 90 {
		score = 90
	}
	return &score
}
