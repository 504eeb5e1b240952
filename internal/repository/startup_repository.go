package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/launchforge/accel-api/internal/models"
)

// startupRepository implements StartupRepository
type startupRepository struct {
	db dbExecutor
}

// NewStartupRepository creates a new startup repository
func NewStartupRepository(db dbExecutor) StartupRepository {
	return &startupRepository{db: db}
}

const startupColumns = `
	id, application_id, name, one_liner, website, description, industry,
	stage, status, founder_score, problem_score, user_value_score,
	execution_score, overall_score, created_at, updated_at`

func scanStartup(row interface{ Scan(...interface{}) error }) (*models.Startup, error) {
	startup := &models.Startup{}
	err := row.Scan(
		&startup.ID, &startup.ApplicationID, &startup.Name, &startup.OneLiner,
		&startup.Website, &startup.Description, &startup.Industry,
		&startup.Stage, &startup.Status, &startup.FounderScore,
		&startup.ProblemScore, &startup.UserValueScore,
		&startup.ExecutionScore, &startup.OverallScore,
		&startup.CreatedAt, &startup.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return startup, nil
}

// GetByID retrieves a startup by ID
func (r *startupRepository) GetByID(id uuid.UUID) (*models.Startup, error) {
	query := `SELECT ` + startupColumns + ` FROM startups WHERE id = $1`

	startup, err := scanStartup(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("startup not found")
		}
		return nil, fmt.Errorf("failed to get startup: %w", err)
	}

	return startup, nil
}

// GetByApplicationID retrieves the startup created from an application
func (r *startupRepository) GetByApplicationID(applicationID uuid.UUID) (*models.Startup, error) {
	query := `SELECT ` + startupColumns + ` FROM startups WHERE application_id = $1`

	startup, err := scanStartup(r.db.QueryRow(query, applicationID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("startup not found")
		}
		return nil, fmt.Errorf("failed to get startup: %w", err)
	}

	return startup, nil
}

// Create creates a new startup
func (r *startupRepository) Create(startup *models.Startup) error {
	if startup.ID == uuid.Nil {
		startup.ID = uuid.New()
	}
	if startup.Status == "" {
		startup.Status = models.StartupActive
	}

	now := time.Now()
	startup.CreatedAt = now
	startup.UpdatedAt = now

	query := `
		INSERT INTO startups (` + startupColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.Exec(query,
		startup.ID, startup.ApplicationID, startup.Name, startup.OneLiner,
		startup.Website, startup.Description, startup.Industry, startup.Stage,
		startup.Status, startup.FounderScore, startup.ProblemScore,
		startup.UserValueScore, startup.ExecutionScore, startup.OverallScore,
		startup.CreatedAt, startup.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create startup: %w", err)
	}

	return nil
}

// Update updates an existing startup
func (r *startupRepository) Update(startup *models.Startup) error {
	startup.UpdatedAt = time.Now()

	query := `
		UPDATE startups SET
			name = $2, one_liner = $3, website = $4, description = $5,
			industry = $6, stage = $7, status = $8, founder_score = $9,
			problem_score = $10, user_value_score = $11, execution_score = $12,
			overall_score = $13, updated_at = $14
		WHERE id = $1
	`

	result, err := r.db.Exec(query,
		startup.ID, startup.Name, startup.OneLiner, startup.Website,
		startup.Description, startup.Industry, startup.Stage, startup.Status,
		startup.FounderScore, startup.ProblemScore, startup.UserValueScore,
		startup.ExecutionScore, startup.OverallScore, startup.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update startup: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("startup not found")
	}

	return nil
}

// GetAll retrieves startups with filters
func (r *startupRepository) GetAll(filters StartupFilters) ([]models.Startup, error) {
	query := `SELECT ` + startupColumns + ` FROM startups`

	var whereClauses []string
	var args []interface{}
	argIndex := 1

	if len(filters.Stages) > 0 {
		placeholders := make([]string, len(filters.Stages))
		for i, stage := range filters.Stages {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			args = append(args, stage)
			argIndex++
		}
		whereClauses = append(whereClauses, fmt.Sprintf("stage IN (%s)", strings.Join(placeholders, ",")))
	}

	if len(filters.Statuses) > 0 {
		placeholders := make([]string, len(filters.Statuses))
		for i, status := range filters.Statuses {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			args = append(args, status)
			argIndex++
		}
		whereClauses = append(whereClauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	if filters.MinScore != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("overall_score >= $%d", argIndex))
		args = append(args, *filters.MinScore)
		argIndex++
	}

	if filters.CreatedAfter != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("created_at >= $%d", argIndex))
		args = append(args, *filters.CreatedAfter)
		argIndex++
	}

	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}

	query += " ORDER BY overall_score DESC NULLS LAST, created_at DESC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filters.Limit)
		argIndex++
	}

	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filters.Offset)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query startups: %w", err)
	}
	defer rows.Close()

	var startups []models.Startup
	for rows.Next() {
		startup, err := scanStartup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan startup: %w", err)
		}
		startups = append(startups, *startup)
	}

	return startups, nil
}

// GetActiveIDs returns the IDs of all active portfolio startups
func (r *startupRepository) GetActiveIDs() ([]uuid.UUID, error) {
	rows, err := r.db.Query(`SELECT id FROM startups WHERE status = $1`, models.StartupActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query startup IDs: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan startup ID: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
