package agents

import (
	"context"
	"time"

	"github.com/launchforge/accel-api/internal/matching"
	"github.com/launchforge/accel-api/internal/models"
)

// AssessmentInput carries everything the assessment agent sees about an
// application: the founder's own statements plus interview material and any
// website enrichment signals.
type AssessmentInput struct {
	ApplicationID  string   `json:"application_id"`
	CompanyName    string   `json:"company_name"`
	OneLiner       string   `json:"one_liner"`
	Description    string   `json:"description"`
	TargetCustomer string   `json:"target_customer"`
	InterviewNotes string   `json:"interview_notes,omitempty"`
	WebsiteTitle   string   `json:"website_title,omitempty"`
	WebsiteSummary string   `json:"website_summary,omitempty"`
	SignalKeywords []string `json:"signal_keywords,omitempty"`
}

// Assessment is the structured judgment returned by the assessment agent.
// Sub-scores are in [0,100]; nil means the agent declined to score the
// dimension. StartingStage is a hint only; the decision workflow applies
// the default when it is missing or unknown.
type Assessment struct {
	FounderScore   *float64  `json:"founder_score"`
	ProblemScore   *float64  `json:"problem_score"`
	UserValueScore *float64  `json:"user_value_score"`
	ExecutionScore *float64  `json:"execution_score"`
	StartingStage  string    `json:"starting_stage"`
	Summary        string    `json:"summary"`
	RedFlags       []string  `json:"red_flags"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// AssessmentAgent produces structured assessments from application material.
// Implementations are external services; internals are out of scope here.
type AssessmentAgent interface {
	Assess(ctx context.Context, input AssessmentInput) (*Assessment, error)
}

// MatchProposal is one candidate pairing proposed by the matchmaking agent
type MatchProposal struct {
	CandidateID string                `json:"candidate_id"`
	Score       int                   `json:"score"`
	Confidence  string                `json:"confidence"`
	Breakdown   models.MatchBreakdown `json:"breakdown"`
	Explanation string                `json:"explanation"`
}

// FindMatchesInput bundles the request with its candidate pool and prior
// pairings for the agent to learn from.
type FindMatchesInput struct {
	Request           matching.Request        `json:"request"`
	Candidates        []models.MatchCandidate `json:"candidates"`
	HistoricalMatches []models.Match          `json:"historical_matches,omitempty"`
}

// FindMatchesOutput is the agent's ranked proposal list plus metadata
type FindMatchesOutput struct {
	Matches  []MatchProposal   `json:"matches"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// MatchmakingAgent ranks candidates for a startup's need
type MatchmakingAgent interface {
	FindMatches(ctx context.Context, input FindMatchesInput) (*FindMatchesOutput, error)
}
