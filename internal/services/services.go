package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/launchforge/accel-api/internal/agents"
	"github.com/launchforge/accel-api/internal/cache"
	"github.com/launchforge/accel-api/internal/enrich"
	"github.com/launchforge/accel-api/internal/logger"
	"github.com/launchforge/accel-api/internal/matching"
	"github.com/launchforge/accel-api/internal/models"
	"github.com/launchforge/accel-api/internal/repository"
	"github.com/launchforge/accel-api/pkg/config"
)

// Services contains all application services
type Services struct {
	Application ApplicationService
	Matching    MatchingService
	Startup     StartupService
	Auth        AuthService
}

// DecisionResult is the outcome of a partner decision. Startup and
// Investment are nil for rejections.
type DecisionResult struct {
	Application *models.Application `json:"application"`
	Startup     *models.Startup     `json:"startup"`
	Investment  *models.Investment  `json:"investment"`
	Message     string              `json:"message"`
}

// ApplicationService defines the interface for the application lifecycle
type ApplicationService interface {
	Create(founderUserID string, form *models.ApplicationForm) (*models.Application, error)
	GetByID(id string) (*models.Application, error)
	GetAll(filters repository.ApplicationFilters) ([]models.Application, error)
	Submit(id string) (*models.Application, error)
	ScheduleInterview(id string) (*models.Application, error)
	CompleteInterview(id string, notes string) (*models.Application, error)
	GenerateAssessment(ctx context.Context, id string) (*models.Application, error)
	StartReview(id string) (*models.Application, error)
	Decide(id string, req *models.DecisionRequest) (*DecisionResult, error)
}

// MatchingService defines the interface for mentor/investor matching
type MatchingService interface {
	GenerateForStartup(ctx context.Context, startupID string, req matching.Request) ([]models.Match, error)
	GetForStartup(ctx context.Context, startupID string) ([]models.Match, error)
	Approve(matchID string) (*models.Match, error)
	Reject(matchID string) (*models.Match, error)
	MarkIntroSent(matchID string) (*models.Match, error)
	Complete(matchID string) (*models.Match, error)

	// Candidate pool management
	GetCandidates(filters repository.CandidateFilters) ([]models.MatchCandidate, error)
	CreateCandidate(form *models.CandidateForm) (*models.MatchCandidate, error)
}

// StartupService defines the interface for portfolio operations
type StartupService interface {
	GetByID(id string) (*models.Startup, error)
	GetAll(filters repository.StartupFilters) ([]models.Startup, error)
	Update(id string, startup *models.Startup) error
	GetInvestment(startupID string) (*models.Investment, error)
	Disburse(startupID string, req *models.DisbursementRequest) (*models.Investment, error)
	Export(filters repository.StartupFilters, format string) ([]byte, string, error)
}

// LoginResponse is the payload returned on successful authentication
type LoginResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	CSRFToken    string       `json:"csrf_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         *models.User `json:"user"`
}

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	Register(req *models.RegisterRequest) (*models.User, error)
	GetUser(id string) (*models.User, error)
	RefreshToken(token string) (*LoginResponse, error)
}

// Dependencies carries the external collaborators services are built from.
// Zero-value fields get local defaults.
type Dependencies struct {
	Assessment  agents.AssessmentAgent
	Matchmaking agents.MatchmakingAgent
	Enricher    *enrich.Enricher
	Cache       cache.Store
	Logger      logger.Logger
}

// NewServices creates a Services instance with all dependencies wired
func NewServices(db *sql.DB, cfg *config.Config, deps Dependencies) *Services {
	repos := repository.NewRepositories(db)

	if deps.Logger == nil {
		deps.Logger = logger.New(cfg.Environment)
	}
	if deps.Assessment == nil {
		deps.Assessment = agents.NewLocalAssessmentAgent()
	}
	if deps.Matchmaking == nil {
		deps.Matchmaking = agents.NewLocalMatchmakingAgent(matching.NewEngine())
	}
	if deps.Enricher == nil {
		deps.Enricher = enrich.NewEnricher(deps.Logger)
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewMemoryStore()
	}

	return &Services{
		Application: newApplicationService(repos, deps),
		Matching:    newMatchingService(repos, deps),
		Startup:     newStartupService(repos, deps),
		Auth:        newAuthService(repos, cfg, deps.Logger),
	}
}
