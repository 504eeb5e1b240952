package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/launchforge/accel-api/internal/agents"
	"github.com/launchforge/accel-api/internal/enrich"
	"github.com/launchforge/accel-api/internal/errors"
	"github.com/launchforge/accel-api/internal/logger"
	"github.com/launchforge/accel-api/internal/models"
	"github.com/launchforge/accel-api/internal/repository"
	"github.com/launchforge/accel-api/internal/scoring"
)

// approvalMessage is surfaced to the founder alongside the new startup record
const approvalMessage = "Congratulations! Your startup has been accepted with $50k cash + $50k credits."

// applicationServiceImpl implements ApplicationService
type applicationServiceImpl struct {
	repos      *repository.Repositories
	engine     *scoring.Engine
	assessment agents.AssessmentAgent
	enricher   websiteEnricher
	logger     logger.Logger
}

// websiteEnricher is the slice of enrich.Enricher the service needs
type websiteEnricher interface {
	Enrich(ctx context.Context, url string) (*enrich.Profile, error)
}

func newApplicationService(repos *repository.Repositories, deps Dependencies) ApplicationService {
	return &applicationServiceImpl{
		repos:      repos,
		engine:     scoring.NewEngine(),
		assessment: deps.Assessment,
		enricher:   deps.Enricher,
		logger:     deps.Logger,
	}
}

// Create stores a new draft application for a founder
func (s *applicationServiceImpl) Create(founderUserID string, form *models.ApplicationForm) (*models.Application, error) {
	userID, err := uuid.Parse(founderUserID)
	if err != nil {
		return nil, errors.InvalidInput("invalid founder user ID", err)
	}

	app := &models.Application{
		ID:             uuid.New(),
		FounderUserID:  userID,
		Status:         models.StatusDraft,
		CompanyName:    form.CompanyName,
		OneLiner:       form.OneLiner,
		Website:        form.Website,
		Description:    form.Description,
		TargetCustomer: form.TargetCustomer,
	}

	if err := s.repos.Application.Create(app); err != nil {
		return nil, errors.DatabaseError("failed to create application", err).WithOperation("CreateApplication")
	}

	s.logger.Info("Application created", "application_id", app.ID, "company", app.CompanyName)
	return app, nil
}

// GetByID retrieves a single application
func (s *applicationServiceImpl) GetByID(id string) (*models.Application, error) {
	appID, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.InvalidInput("invalid application ID", err)
	}

	app, err := s.repos.Application.GetByID(appID)
	if err != nil {
		return nil, errors.NotFound("application not found", err)
	}
	return app, nil
}

// GetAll retrieves applications matching the filters
func (s *applicationServiceImpl) GetAll(filters repository.ApplicationFilters) ([]models.Application, error) {
	apps, err := s.repos.Application.GetAll(filters)
	if err != nil {
		return nil, errors.DatabaseError("failed to list applications", err).WithOperation("GetAllApplications")
	}
	return apps, nil
}

// Submit moves a draft into the review pipeline
func (s *applicationServiceImpl) Submit(id string) (*models.Application, error) {
	return s.transition(id, models.StatusSubmitted, func(app *models.Application, now time.Time) {
		app.SubmittedAt = &now
	})
}

// ScheduleInterview marks a submitted application as scheduled
func (s *applicationServiceImpl) ScheduleInterview(id string) (*models.Application, error) {
	return s.transition(id, models.StatusInterviewScheduled, nil)
}

// CompleteInterview records the interview outcome
func (s *applicationServiceImpl) CompleteInterview(id string, notes string) (*models.Application, error) {
	return s.transition(id, models.StatusInterviewCompleted, func(app *models.Application, now time.Time) {
		app.InterviewCompletedAt = &now
		if notes != "" {
			app.InterviewNotes = notes
		}
	})
}

// StartReview moves an assessed application into the partner queue
func (s *applicationServiceImpl) StartReview(id string) (*models.Application, error) {
	return s.transition(id, models.StatusUnderReview, nil)
}

// transition applies one legal state-machine step plus an optional mutation
func (s *applicationServiceImpl) transition(id string, next models.ApplicationStatus, mutate func(*models.Application, time.Time)) (*models.Application, error) {
	app, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !app.Status.CanTransition(next) {
		return nil, errors.Conflict("invalid status transition", nil).
			WithDetails("cannot move from " + string(app.Status) + " to " + string(next))
	}

	now := time.Now()
	app.Status = next
	if mutate != nil {
		mutate(app, now)
	}

	if err := s.repos.Application.Update(app); err != nil {
		return nil, errors.DatabaseError("failed to update application", err).WithOperation("TransitionApplication")
	}

	s.logger.Info("Application transitioned", "application_id", app.ID, "status", next)
	return app, nil
}

// GenerateAssessment runs the assessment agent over the application material
// (including website enrichment when a site is listed), stores the
// sub-scores and composite, and advances the status.
func (s *applicationServiceImpl) GenerateAssessment(ctx context.Context, id string) (*models.Application, error) {
	app, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !app.Status.CanTransition(models.StatusAssessmentGenerated) {
		return nil, errors.Conflict("invalid status transition", nil).
			WithDetails("assessment requires a completed interview")
	}

	input := agents.AssessmentInput{
		ApplicationID:  app.ID.String(),
		CompanyName:    app.CompanyName,
		OneLiner:       app.OneLiner,
		Description:    app.Description,
		TargetCustomer: app.TargetCustomer,
		InterviewNotes: app.InterviewNotes,
	}

	if app.Website != "" {
		// Enrichment failure never blocks assessment
		if profile, err := s.enricher.Enrich(ctx, app.Website); err != nil {
			s.logger.Warn("Website enrichment failed", "application_id", app.ID, "error", err)
		} else {
			input.WebsiteTitle = profile.Title
			input.WebsiteSummary = profile.Summary()
			input.SignalKeywords = profile.Keywords
		}
	}

	assessment, err := s.assessment.Assess(ctx, input)
	if err != nil {
		return nil, errors.ServiceError("assessment generation failed", err).WithOperation("GenerateAssessment")
	}

	app.FounderScore = assessment.FounderScore
	app.ProblemScore = assessment.ProblemScore
	app.UserValueScore = assessment.UserValueScore
	app.ExecutionScore = assessment.ExecutionScore
	app.StartingStage = assessment.StartingStage

	result := s.engine.Score(scoring.SubScores{
		Founder:   app.FounderScore,
		Problem:   app.ProblemScore,
		UserValue: app.UserValueScore,
		Execution: app.ExecutionScore,
	})
	if result.Scored {
		app.OverallScore = &result.OverallScore
	}

	now := time.Now()
	app.Status = models.StatusAssessmentGenerated
	app.AssessmentAt = &now

	if err := s.repos.Application.Update(app); err != nil {
		return nil, errors.DatabaseError("failed to store assessment", err).WithOperation("GenerateAssessment")
	}

	s.logger.Info("Assessment generated",
		"application_id", app.ID,
		"overall_score", app.OverallScore,
		"starting_stage", app.StartingStage)
	return app, nil
}

// Decide records a partner's approve/reject verdict. The entire approval
// sequence (decision, startup creation, founder link, investment allocation)
// runs in one transaction; a compare-and-swap on status makes concurrent
// decisions race-safe, with the loser receiving a conflict.
func (s *applicationServiceImpl) Decide(id string, req *models.DecisionRequest) (*DecisionResult, error) {
	var decision models.ApplicationStatus
	switch req.Decision {
	case "approve", string(models.StatusApproved):
		decision = models.StatusApproved
	case "reject", string(models.StatusRejected):
		decision = models.StatusRejected
	default:
		return nil, errors.InvalidInput("decision must be approve or reject", nil)
	}

	app, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if app.Status.IsDecided() {
		return nil, errors.Conflict("application already decided", nil).
			WithDetails("status is " + string(app.Status))
	}
	if !app.Status.CanTransition(decision) {
		return nil, errors.Conflict("application is not ready for a decision", nil).
			WithDetails("status is " + string(app.Status))
	}

	result := &DecisionResult{}
	now := time.Now()

	err = s.repos.Tx.WithTransaction(func(tx *repository.Repositories) error {
		won, err := tx.Application.DecideIfUndecided(app.ID, decision, req.Notes, models.Conditions(req.Conditions), now)
		if err != nil {
			return errors.DatabaseError("failed to record decision", err).WithOperation("Decide")
		}
		if !won {
			return errors.Conflict("application already decided", nil)
		}

		decided, err := tx.Application.GetByID(app.ID)
		if err != nil {
			return errors.DatabaseError("failed to reload application", err).WithOperation("Decide")
		}
		result.Application = decided

		if decision == models.StatusRejected {
			result.Message = "Application rejected"
			return nil
		}

		stage := decided.StartingStage
		if !models.KnownStage(stage) {
			stage = models.DefaultStartingStage
		}

		startup := &models.Startup{
			ID:             uuid.New(),
			ApplicationID:  decided.ID,
			Name:           decided.CompanyName,
			OneLiner:       decided.OneLiner,
			Website:        decided.Website,
			Description:    decided.Description,
			Industry:       decided.TargetCustomer,
			Stage:          stage,
			Status:         models.StartupActive,
			FounderScore:   decided.FounderScore,
			ProblemScore:   decided.ProblemScore,
			UserValueScore: decided.UserValueScore,
			ExecutionScore: decided.ExecutionScore,
			OverallScore:   decided.OverallScore,
		}
		if err := tx.Startup.Create(startup); err != nil {
			return errors.DatabaseError("failed to create startup", err).WithOperation("Decide")
		}

		if err := tx.User.LinkStartup(decided.FounderUserID, startup.ID); err != nil {
			return errors.DatabaseError("failed to link founder to startup", err).WithOperation("Decide")
		}

		investment := models.NewStandardInvestment(startup.ID)
		if err := tx.Investment.Create(investment); err != nil {
			return errors.DatabaseError("failed to create investment", err).WithOperation("Decide")
		}

		result.Startup = startup
		result.Investment = investment
		result.Message = approvalMessage
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Application decided",
		"application_id", app.ID,
		"decision", decision,
		"startup_created", result.Startup != nil)
	return result, nil
}
