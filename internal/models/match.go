package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MatchStatus represents the state of a proposed pairing
type MatchStatus string

const (
	MatchPending   MatchStatus = "pending"
	MatchApproved  MatchStatus = "approved"
	MatchIntroSent MatchStatus = "intro_sent"
	MatchCompleted MatchStatus = "completed"
	MatchRejected  MatchStatus = "rejected"
)

// matchTransitions: pending → approved → intro_sent → completed, with a
// side branch pending → rejected. All transitions are one-way.
var matchTransitions = map[MatchStatus][]MatchStatus{
	MatchPending:   {MatchApproved, MatchRejected},
	MatchApproved:  {MatchIntroSent},
	MatchIntroSent: {MatchCompleted},
	MatchCompleted: {},
	MatchRejected:  {},
}

// CanTransition reports whether moving to next is a legal step.
func (s MatchStatus) CanTransition(next MatchStatus) bool {
	for _, allowed := range matchTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Match represents a proposed startup/candidate pairing with its computed
// compatibility score.
type Match struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	StartupID   uuid.UUID      `json:"startup_id" db:"startup_id"`
	CandidateID uuid.UUID      `json:"candidate_id" db:"candidate_id"`
	Score       int            `json:"score" db:"score"`
	Confidence  string         `json:"confidence" db:"confidence"`
	Breakdown   MatchBreakdown `json:"breakdown" db:"breakdown"`
	Status      MatchStatus    `json:"status" db:"status"`
	Explanation string         `json:"explanation" db:"explanation"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// MatchBreakdown holds the five weighted dimension scores as stored JSON
type MatchBreakdown struct {
	ProblemShape        float64 `json:"problem_shape"`
	ConstraintAlignment float64 `json:"constraint_alignment"`
	StageRelevance      float64 `json:"stage_relevance"`
	ExperienceDepth     float64 `json:"experience_depth"`
	Recency             float64 `json:"recency"`
}

// Value implements driver.Valuer for MatchBreakdown
func (b MatchBreakdown) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Scan implements sql.Scanner for MatchBreakdown
func (b *MatchBreakdown) Scan(value interface{}) error {
	if value == nil {
		*b = MatchBreakdown{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into MatchBreakdown", value)
	}

	return json.Unmarshal(bytes, b)
}

// TrackRecord summarizes a candidate's engagement history
type TrackRecord struct {
	SuccessCount     int     `json:"success_count"`
	TotalEngagements int     `json:"total_engagements"`
	AvgRating        float64 `json:"avg_rating"`
}

// Value implements driver.Valuer for TrackRecord
func (t TrackRecord) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// Scan implements sql.Scanner for TrackRecord
func (t *TrackRecord) Scan(value interface{}) error {
	if value == nil {
		*t = TrackRecord{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into TrackRecord", value)
	}

	return json.Unmarshal(bytes, t)
}

// StringList is a JSON-encoded list column
type StringList []string

// Value implements driver.Valuer for StringList
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(StringList{})
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for StringList
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into StringList", value)
	}

	return json.Unmarshal(bytes, l)
}

// MatchCandidate is a mentor or investor profile used as matching input
type MatchCandidate struct {
	ID               uuid.UUID   `json:"id" db:"id"`
	Name             string      `json:"name" db:"name"`
	Kind             string      `json:"kind" db:"kind"` // mentor or investor
	ExpertiseTags    StringList  `json:"expertise_tags" db:"expertise_tags"`
	IndustryTags     StringList  `json:"industry_tags" db:"industry_tags"`
	ArchetypeTags    StringList  `json:"archetype_tags" db:"archetype_tags"`
	StagePreferences StringList  `json:"stage_preferences" db:"stage_preferences"`
	Dealbreakers     StringList  `json:"dealbreakers" db:"dealbreakers"`
	Location         string      `json:"location" db:"location"`
	Availability     string      `json:"availability" db:"availability"`
	MaxConcurrent    int         `json:"max_concurrent" db:"max_concurrent"`
	TrackRecord      TrackRecord `json:"track_record" db:"track_record"`
	LastEngagementAt *time.Time  `json:"last_engagement_at" db:"last_engagement_at"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at" db:"updated_at"`
}

// CandidateForm represents the fields supplied when registering a candidate
type CandidateForm struct {
	Name             string   `json:"name" binding:"required"`
	Kind             string   `json:"kind" binding:"required"`
	ExpertiseTags    []string `json:"expertise_tags"`
	IndustryTags     []string `json:"industry_tags"`
	ArchetypeTags    []string `json:"archetype_tags"`
	StagePreferences []string `json:"stage_preferences"`
	Dealbreakers     []string `json:"dealbreakers"`
	Location         string   `json:"location"`
	Availability     string   `json:"availability"`
	MaxConcurrent    int      `json:"max_concurrent"`
}
