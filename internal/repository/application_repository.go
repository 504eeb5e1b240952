package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/launchforge/accel-api/internal/models"
)

// applicationRepository implements ApplicationRepository
type applicationRepository struct {
	db dbExecutor
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db dbExecutor) ApplicationRepository {
	return &applicationRepository{db: db}
}

const applicationColumns = `
	id, founder_user_id, status, company_name, one_liner, website, description,
	target_customer, interview_notes, founder_score, problem_score,
	user_value_score, execution_score, overall_score, starting_stage,
	decision_notes, decision_conditions, submitted_at, interview_completed_at,
	assessment_at, decided_at, created_at, updated_at`

func scanApplication(row interface{ Scan(...interface{}) error }) (*models.Application, error) {
	application := &models.Application{}
	err := row.Scan(
		&application.ID, &application.FounderUserID, &application.Status,
		&application.CompanyName, &application.OneLiner, &application.Website,
		&application.Description, &application.TargetCustomer,
		&application.InterviewNotes,
		&application.FounderScore, &application.ProblemScore,
		&application.UserValueScore, &application.ExecutionScore,
		&application.OverallScore, &application.StartingStage,
		&application.DecisionNotes, &application.DecisionConditions,
		&application.SubmittedAt, &application.InterviewCompletedAt,
		&application.AssessmentAt, &application.DecidedAt,
		&application.CreatedAt, &application.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return application, nil
}

// GetByID retrieves an application by ID
func (r *applicationRepository) GetByID(id uuid.UUID) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`

	application, err := scanApplication(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("application not found")
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	return application, nil
}

// Create creates a new application
func (r *applicationRepository) Create(application *models.Application) error {
	if application.ID == uuid.Nil {
		application.ID = uuid.New()
	}
	if application.Status == "" {
		application.Status = models.StatusDraft
	}

	now := time.Now()
	application.CreatedAt = now
	application.UpdatedAt = now

	query := `
		INSERT INTO applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
				$15, $16, $17, $18, $19, $20, $21, $22, $23)
	`

	_, err := r.db.Exec(query,
		application.ID, application.FounderUserID, application.Status,
		application.CompanyName, application.OneLiner, application.Website,
		application.Description, application.TargetCustomer,
		application.InterviewNotes,
		application.FounderScore, application.ProblemScore,
		application.UserValueScore, application.ExecutionScore,
		application.OverallScore, application.StartingStage,
		application.DecisionNotes, application.DecisionConditions,
		application.SubmittedAt, application.InterviewCompletedAt,
		application.AssessmentAt, application.DecidedAt,
		application.CreatedAt, application.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

// Update updates an existing application
func (r *applicationRepository) Update(application *models.Application) error {
	application.UpdatedAt = time.Now()

	query := `
		UPDATE applications SET
			status = $2, company_name = $3, one_liner = $4, website = $5,
			description = $6, target_customer = $7, interview_notes = $8,
			founder_score = $9, problem_score = $10, user_value_score = $11,
			execution_score = $12, overall_score = $13, starting_stage = $14,
			decision_notes = $15, decision_conditions = $16, submitted_at = $17,
			interview_completed_at = $18, assessment_at = $19, decided_at = $20,
			updated_at = $21
		WHERE id = $1
	`

	result, err := r.db.Exec(query,
		application.ID, application.Status, application.CompanyName,
		application.OneLiner, application.Website, application.Description,
		application.TargetCustomer, application.InterviewNotes,
		application.FounderScore, application.ProblemScore,
		application.UserValueScore, application.ExecutionScore,
		application.OverallScore, application.StartingStage,
		application.DecisionNotes, application.DecisionConditions,
		application.SubmittedAt, application.InterviewCompletedAt,
		application.AssessmentAt, application.DecidedAt, application.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("application not found")
	}

	return nil
}

// GetAll retrieves applications with filters
func (r *applicationRepository) GetAll(filters ApplicationFilters) ([]models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications`

	var whereClauses []string
	var args []interface{}
	argIndex := 1

	if len(filters.Statuses) > 0 {
		placeholders := make([]string, len(filters.Statuses))
		for i, status := range filters.Statuses {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			args = append(args, status)
			argIndex++
		}
		whereClauses = append(whereClauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	if filters.FounderUserID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("founder_user_id = $%d", argIndex))
		args = append(args, *filters.FounderUserID)
		argIndex++
	}

	if filters.SubmittedFrom != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("submitted_at >= $%d", argIndex))
		args = append(args, *filters.SubmittedFrom)
		argIndex++
	}

	if filters.SubmittedTo != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("submitted_at <= $%d", argIndex))
		args = append(args, *filters.SubmittedTo)
		argIndex++
	}

	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}

	query += " ORDER BY updated_at DESC"

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
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer rows.Close()

	var applications []models.Application
	for rows.Next() {
		application, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		applications = append(applications, *application)
	}

	return applications, nil
}

// DecideIfUndecided performs the optimistic decision update. The status
// predicate in the WHERE clause is the concurrency guard: only one of two
// racing decisions can match the undecided row.
func (r *applicationRepository) DecideIfUndecided(id uuid.UUID, decision models.ApplicationStatus, notes string, conditions models.Conditions, decidedAt time.Time) (bool, error) {
	query := `
		UPDATE applications SET
			status = $2, decision_notes = $3, decision_conditions = $4,
			decided_at = $5, updated_at = $5
		WHERE id = $1 AND status NOT IN ($6, $7)
	`

	result, err := r.db.Exec(query,
		id, decision, notes, conditions, decidedAt,
		models.StatusApproved, models.StatusRejected,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record decision: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}
