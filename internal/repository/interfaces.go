package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/launchforge/accel-api/internal/models"
)

// ApplicationRepository defines the interface for application data access
type ApplicationRepository interface {
	GetByID(id uuid.UUID) (*models.Application, error)
	Create(application *models.Application) error
	Update(application *models.Application) error
	GetAll(filters ApplicationFilters) ([]models.Application, error)

	// DecideIfUndecided performs the compare-and-swap decision update: the
	// row is updated only when its status is not already terminal. Returns
	// false when another decision won the race (or the row was already
	// decided).
	DecideIfUndecided(id uuid.UUID, decision models.ApplicationStatus, notes string, conditions models.Conditions, decidedAt time.Time) (bool, error)
}

// StartupRepository defines the interface for startup data access
type StartupRepository interface {
	GetByID(id uuid.UUID) (*models.Startup, error)
	GetByApplicationID(applicationID uuid.UUID) (*models.Startup, error)
	Create(startup *models.Startup) error
	Update(startup *models.Startup) error
	GetAll(filters StartupFilters) ([]models.Startup, error)
	GetActiveIDs() ([]uuid.UUID, error)
}

// InvestmentRepository defines the interface for investment data access
type InvestmentRepository interface {
	GetByStartupID(startupID uuid.UUID) (*models.Investment, error)
	Create(investment *models.Investment) error

	// Disburse applies a draw against the pools with the pool-bound check in
	// the UPDATE itself. Returns false when the draw would exceed either
	// pool; in that case nothing is mutated.
	Disburse(startupID uuid.UUID, cashAmount, creditAmount int64) (bool, error)
}

// MatchRepository defines the interface for match data access
type MatchRepository interface {
	GetByID(id uuid.UUID) (*models.Match, error)
	GetByStartup(startupID uuid.UUID) ([]models.Match, error)
	Create(match *models.Match) error
	UpdateStatus(id uuid.UUID, from, to models.MatchStatus) (bool, error)
	DeletePendingByStartup(startupID uuid.UUID) error
	GetStaleStartupIDs(olderThan time.Time, limit int) ([]uuid.UUID, error)
}

// CandidateRepository defines the interface for mentor/investor profiles
type CandidateRepository interface {
	GetByID(id uuid.UUID) (*models.MatchCandidate, error)
	GetAll(filters CandidateFilters) ([]models.MatchCandidate, error)
	Create(candidate *models.MatchCandidate) error
	Update(candidate *models.MatchCandidate) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	LinkStartup(userID, startupID uuid.UUID) error
}

// TransactionManager defines the interface for database transaction management
type TransactionManager interface {
	WithTransaction(fn func(repos *Repositories) error) error
}

// Repositories groups all repository interfaces
type Repositories struct {
	Application ApplicationRepository
	Startup     StartupRepository
	Investment  InvestmentRepository
	Match       MatchRepository
	Candidate   CandidateRepository
	User        UserRepository
	Tx          TransactionManager
}

// ApplicationFilters defines filters for querying applications
type ApplicationFilters struct {
	Statuses      []models.ApplicationStatus
	FounderUserID *uuid.UUID
	SubmittedFrom *time.Time
	SubmittedTo   *time.Time
	Limit         int
	Offset        int
}

// StartupFilters defines filters for querying startups
type StartupFilters struct {
	Stages       []string
	Statuses     []models.StartupStatus
	MinScore     *float64
	CreatedAfter *time.Time
	Limit        int
	Offset       int
}

// CandidateFilters defines filters for querying match candidates
type CandidateFilters struct {
	Kind   string
	Stage  string
	Limit  int
	Offset int
}
