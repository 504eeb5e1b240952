package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus represents the review stage of an application
type ApplicationStatus string

const (
	StatusDraft               ApplicationStatus = "draft"
	StatusSubmitted           ApplicationStatus = "submitted"
	StatusInterviewScheduled  ApplicationStatus = "interview_scheduled"
	StatusInterviewCompleted  ApplicationStatus = "interview_completed"
	StatusAssessmentGenerated ApplicationStatus = "assessment_generated"
	StatusUnderReview         ApplicationStatus = "under_review"
	StatusApproved            ApplicationStatus = "approved"
	StatusRejected            ApplicationStatus = "rejected"
)

// applicationTransitions maps each status to the statuses reachable from it.
// Approved and rejected are terminal.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusDraft:               {StatusSubmitted},
	StatusSubmitted:           {StatusInterviewScheduled},
	StatusInterviewScheduled:  {StatusInterviewCompleted},
	StatusInterviewCompleted:  {StatusAssessmentGenerated},
	StatusAssessmentGenerated: {StatusUnderReview},
	StatusUnderReview:         {StatusApproved, StatusRejected},
	StatusApproved:            {},
	StatusRejected:            {},
}

// CanTransition reports whether moving from the current status to next is a
// legal state-machine step.
func (s ApplicationStatus) CanTransition(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsDecided reports whether the application has reached a terminal status.
func (s ApplicationStatus) IsDecided() bool {
	return s == StatusApproved || s == StatusRejected
}

// Application represents one founder's accelerator submission
type Application struct {
	ID             uuid.UUID         `json:"id" db:"id"`
	FounderUserID  uuid.UUID         `json:"founder_user_id" db:"founder_user_id"`
	Status         ApplicationStatus `json:"status" db:"status"`
	CompanyName    string            `json:"company_name" db:"company_name"`
	OneLiner       string            `json:"one_liner" db:"one_liner"`
	Website        string            `json:"website" db:"website"`
	Description    string            `json:"description" db:"description"`
	TargetCustomer string            `json:"target_customer" db:"target_customer"`
	InterviewNotes string            `json:"interview_notes" db:"interview_notes"`

	// AI-derived sub-scores, each in [0,100]; nil means not yet scored
	FounderScore   *float64 `json:"founder_score" db:"founder_score"`
	ProblemScore   *float64 `json:"problem_score" db:"problem_score"`
	UserValueScore *float64 `json:"user_value_score" db:"user_value_score"`
	ExecutionScore *float64 `json:"execution_score" db:"execution_score"`
	OverallScore   *float64 `json:"overall_score" db:"overall_score"`
	StartingStage  string   `json:"starting_stage" db:"starting_stage"`

	DecisionNotes      string     `json:"decision_notes" db:"decision_notes"`
	DecisionConditions Conditions `json:"decision_conditions" db:"decision_conditions"`

	SubmittedAt          *time.Time `json:"submitted_at" db:"submitted_at"`
	InterviewCompletedAt *time.Time `json:"interview_completed_at" db:"interview_completed_at"`
	AssessmentAt         *time.Time `json:"assessment_at" db:"assessment_at"`
	DecidedAt            *time.Time `json:"decided_at" db:"decided_at"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at" db:"updated_at"`
}

// Conditions is a list of approval conditions stored as JSON
type Conditions []string

// Value implements driver.Valuer for Conditions
func (c Conditions) Value() (driver.Value, error) {
	if c == nil {
		return json.Marshal(Conditions{})
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner for Conditions
func (c *Conditions) Scan(value interface{}) error {
	if value == nil {
		*c = Conditions{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into Conditions", value)
	}

	return json.Unmarshal(bytes, c)
}

// DecisionRequest represents a partner's approve/reject submission
type DecisionRequest struct {
	Decision   string   `json:"decision" binding:"required"`
	Notes      string   `json:"notes"`
	Conditions []string `json:"conditions"`
}

// ApplicationForm represents the fields a founder supplies when applying
type ApplicationForm struct {
	CompanyName    string `json:"company_name" binding:"required"`
	OneLiner       string `json:"one_liner" binding:"required"`
	Website        string `json:"website"`
	Description    string `json:"description"`
	TargetCustomer string `json:"target_customer"`
}
