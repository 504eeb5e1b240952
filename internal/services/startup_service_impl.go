package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/launchforge/accel-api/internal/errors"
	"github.com/launchforge/accel-api/internal/logger"
	"github.com/launchforge/accel-api/internal/models"
	"github.com/launchforge/accel-api/internal/repository"
	"github.com/launchforge/accel-api/internal/scoring"
)

// Export formats for portfolio data
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// startupServiceImpl implements StartupService
type startupServiceImpl struct {
	repos  *repository.Repositories
	logger logger.Logger
}

func newStartupService(repos *repository.Repositories, deps Dependencies) StartupService {
	return &startupServiceImpl{
		repos:  repos,
		logger: deps.Logger,
	}
}

// GetByID retrieves a single startup
func (s *startupServiceImpl) GetByID(id string) (*models.Startup, error) {
	startupID, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.InvalidInput("invalid startup ID", err)
	}

	startup, err := s.repos.Startup.GetByID(startupID)
	if err != nil {
		return nil, errors.NotFound("startup not found", err)
	}
	return startup, nil
}

// GetAll retrieves startups matching the filters
func (s *startupServiceImpl) GetAll(filters repository.StartupFilters) ([]models.Startup, error) {
	startups, err := s.repos.Startup.GetAll(filters)
	if err != nil {
		return nil, errors.DatabaseError("failed to list startups", err).WithOperation("GetAllStartups")
	}
	return startups, nil
}

// Update mutates portfolio fields; the stage must stay within the pipeline
func (s *startupServiceImpl) Update(id string, startup *models.Startup) error {
	startupID, err := uuid.Parse(id)
	if err != nil {
		return errors.InvalidInput("invalid startup ID", err)
	}

	if startup.Stage != "" && !models.KnownStage(startup.Stage) {
		return errors.ValidationError("unknown pipeline stage", nil).WithDetails(startup.Stage)
	}

	startup.ID = startupID
	if err := s.repos.Startup.Update(startup); err != nil {
		return errors.DatabaseError("failed to update startup", err).WithOperation("UpdateStartup")
	}
	return nil
}

// GetInvestment returns a startup's allocation with remaining balances
func (s *startupServiceImpl) GetInvestment(startupID string) (*models.Investment, error) {
	id, err := uuid.Parse(startupID)
	if err != nil {
		return nil, errors.InvalidInput("invalid startup ID", err)
	}

	investment, err := s.repos.Investment.GetByStartupID(id)
	if err != nil {
		return nil, errors.NotFound("investment not found", err)
	}
	return investment, nil
}

// Disburse draws against the startup's cash and credit pools. The pool
// bounds are enforced in the UPDATE predicate, so an overdraw fails
// atomically and leaves the balances untouched.
func (s *startupServiceImpl) Disburse(startupID string, req *models.DisbursementRequest) (*models.Investment, error) {
	id, err := uuid.Parse(startupID)
	if err != nil {
		return nil, errors.InvalidInput("invalid startup ID", err)
	}
	if req.CashAmount < 0 || req.CreditAmount < 0 {
		return nil, errors.InvalidInput("disbursement amounts must be non-negative", nil)
	}
	if req.CashAmount == 0 && req.CreditAmount == 0 {
		return nil, errors.InvalidInput("disbursement must draw cash or credits", nil)
	}

	if _, err := s.repos.Investment.GetByStartupID(id); err != nil {
		return nil, errors.NotFound("investment not found", err)
	}

	ok, err := s.repos.Investment.Disburse(id, req.CashAmount, req.CreditAmount)
	if err != nil {
		return nil, errors.DatabaseError("failed to disburse", err).WithOperation("Disburse")
	}
	if !ok {
		return nil, errors.Conflict("disbursement exceeds remaining allocation", nil)
	}

	investment, err := s.repos.Investment.GetByStartupID(id)
	if err != nil {
		return nil, errors.DatabaseError("failed to reload investment", err).WithOperation("Disburse")
	}

	s.logger.Info("Disbursement applied",
		"startup_id", id,
		"cash", req.CashAmount,
		"credits", req.CreditAmount,
		"cash_remaining", investment.CashRemaining(),
		"credits_remaining", investment.CreditsRemaining())
	return investment, nil
}

// portfolioRow is the flattened export shape for one startup
type portfolioRow struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	OneLiner     string   `json:"one_liner"`
	Industry     string   `json:"industry"`
	Stage        string   `json:"stage"`
	Status       string   `json:"status"`
	OverallScore *float64 `json:"overall_score"`
	Grade        string   `json:"grade"`
	ColorBucket  string   `json:"color_bucket"`
}

// Export renders the filtered portfolio as JSON or CSV and returns the
// payload with its content type.
func (s *startupServiceImpl) Export(filters repository.StartupFilters, format string) ([]byte, string, error) {
	startups, err := s.GetAll(filters)
	if err != nil {
		return nil, "", err
	}

	engine := scoring.NewEngine()
	rows := make([]portfolioRow, 0, len(startups))
	for _, st := range startups {
		row := portfolioRow{
			ID:       st.ID.String(),
			Name:     st.Name,
			OneLiner: st.OneLiner,
			Industry: st.Industry,
			Stage:    st.Stage,
			Status:   string(st.Status),
		}
		result := engine.Score(scoring.SubScores{
			Founder:   st.FounderScore,
			Problem:   st.ProblemScore,
			UserValue: st.UserValueScore,
			Execution: st.ExecutionScore,
		})
		if result.Scored {
			row.OverallScore = st.OverallScore
			row.Grade = result.Grade
			row.ColorBucket = result.ColorBucket
		}
		rows = append(rows, row)
	}

	switch format {
	case FormatJSON, "":
		payload, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return nil, "", errors.InternalError("failed to encode export", err)
		}
		return payload, "application/json", nil

	case FormatCSV:
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		header := []string{"id", "name", "one_liner", "industry", "stage", "status", "overall_score", "grade", "color_bucket"}
		if err := w.Write(header); err != nil {
			return nil, "", errors.InternalError("failed to encode export", err)
		}
		for _, row := range rows {
			score := ""
			if row.OverallScore != nil {
				score = strconv.FormatFloat(*row.OverallScore, 'f', -1, 64)
			}
			record := []string{
				row.ID, row.Name, row.OneLiner, row.Industry,
				row.Stage, row.Status, score, row.Grade, row.ColorBucket,
			}
			if err := w.Write(record); err != nil {
				return nil, "", errors.InternalError("failed to encode export", err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, "", errors.InternalError("failed to encode export", err)
		}
		return buf.Bytes(), "text/csv", nil

	default:
		return nil, "", errors.InvalidInput(fmt.Sprintf("unsupported export format: %s", format), nil)
	}
}
