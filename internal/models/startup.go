package models

import (
	"time"

	"github.com/google/uuid"
)

// StartupStatus represents the portfolio state of a startup
type StartupStatus string

const (
	StartupActive    StartupStatus = "active"
	StartupPaused    StartupStatus = "paused"
	StartupGraduated StartupStatus = "graduated"
	StartupExited    StartupStatus = "exited"
)

// Pipeline stages a startup moves through after acceptance. The starting
// stage comes from the assessment; problem_discovery is the default.
const (
	StageProblemDiscovery  = "problem_discovery"
	StageCustomerDiscovery = "customer_discovery"
	StageMVP               = "mvp"
	StageEarlyTraction     = "early_traction"
	StageGrowth            = "growth"
)

// DefaultStartingStage is used when an assessment is missing or carries no
// starting-stage hint.
const DefaultStartingStage = StageProblemDiscovery

// KnownStage reports whether stage names one of the pipeline stages.
func KnownStage(stage string) bool {
	switch stage {
	case StageProblemDiscovery, StageCustomerDiscovery, StageMVP,
		StageEarlyTraction, StageGrowth:
		return true
	}
	return false
}

// Startup is the accelerator-side record created when an application is
// approved. It links 1:1 back to its originating application.
type Startup struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	ApplicationID uuid.UUID     `json:"application_id" db:"application_id"`
	Name          string        `json:"name" db:"name"`
	OneLiner      string        `json:"one_liner" db:"one_liner"`
	Website       string        `json:"website" db:"website"`
	Description   string        `json:"description" db:"description"`
	Industry      string        `json:"industry" db:"industry"`
	Stage         string        `json:"stage" db:"stage"`
	Status        StartupStatus `json:"status" db:"status"`

	FounderScore   *float64 `json:"founder_score" db:"founder_score"`
	ProblemScore   *float64 `json:"problem_score" db:"problem_score"`
	UserValueScore *float64 `json:"user_value_score" db:"user_value_score"`
	ExecutionScore *float64 `json:"execution_score" db:"execution_score"`
	OverallScore   *float64 `json:"overall_score" db:"overall_score"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
