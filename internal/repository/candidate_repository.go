package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/launchforge/accel-api/internal/models"
)

// candidateRepository implements CandidateRepository
type candidateRepository struct {
	db dbExecutor
}

// NewCandidateRepository creates a new candidate repository
func NewCandidateRepository(db dbExecutor) CandidateRepository {
	return &candidateRepository{db: db}
}

const candidateColumns = `
	id, name, kind, expertise_tags, industry_tags, archetype_tags,
	stage_preferences, dealbreakers, location, availability, max_concurrent,
	track_record, last_engagement_at, created_at, updated_at`

func scanCandidate(row interface{ Scan(...interface{}) error }) (*models.MatchCandidate, error) {
	candidate := &models.MatchCandidate{}
	err := row.Scan(
		&candidate.ID, &candidate.Name, &candidate.Kind,
		&candidate.ExpertiseTags, &candidate.IndustryTags,
		&candidate.ArchetypeTags, &candidate.StagePreferences,
		&candidate.Dealbreakers, &candidate.Location, &candidate.Availability,
		&candidate.MaxConcurrent, &candidate.TrackRecord,
		&candidate.LastEngagementAt, &candidate.CreatedAt, &candidate.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return candidate, nil
}

// GetByID retrieves a candidate by ID
func (r *candidateRepository) GetByID(id uuid.UUID) (*models.MatchCandidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`

	candidate, err := scanCandidate(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("candidate not found")
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}

	return candidate, nil
}

// GetAll retrieves candidates with filters
func (r *candidateRepository) GetAll(filters CandidateFilters) ([]models.MatchCandidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates`

	var whereClauses []string
	var args []interface{}
	argIndex := 1

	if filters.Kind != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("kind = $%d", argIndex))
		args = append(args, filters.Kind)
		argIndex++
	}

	if filters.Stage != "" {
		// stage_preferences is a JSON array of strings
		whereClauses = append(whereClauses, fmt.Sprintf("stage_preferences::jsonb ? $%d", argIndex))
		args = append(args, filters.Stage)
		argIndex++
	}

	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}

	query += " ORDER BY name ASC"

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
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	var candidates []models.MatchCandidate
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, *candidate)
	}

	return candidates, nil
}

// Create creates a new candidate
func (r *candidateRepository) Create(candidate *models.MatchCandidate) error {
	if candidate.ID == uuid.Nil {
		candidate.ID = uuid.New()
	}

	now := time.Now()
	candidate.CreatedAt = now
	candidate.UpdatedAt = now

	query := `
		INSERT INTO candidates (` + candidateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.Exec(query,
		candidate.ID, candidate.Name, candidate.Kind, candidate.ExpertiseTags,
		candidate.IndustryTags, candidate.ArchetypeTags,
		candidate.StagePreferences, candidate.Dealbreakers,
		candidate.Location, candidate.Availability, candidate.MaxConcurrent,
		candidate.TrackRecord, candidate.LastEngagementAt,
		candidate.CreatedAt, candidate.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create candidate: %w", err)
	}

	return nil
}

// Update updates an existing candidate
func (r *candidateRepository) Update(candidate *models.MatchCandidate) error {
	candidate.UpdatedAt = time.Now()

	query := `
		UPDATE candidates SET
			name = $2, kind = $3, expertise_tags = $4, industry_tags = $5,
			archetype_tags = $6, stage_preferences = $7, dealbreakers = $8,
			location = $9, availability = $10, max_concurrent = $11,
			track_record = $12, last_engagement_at = $13, updated_at = $14
		WHERE id = $1
	`

	result, err := r.db.Exec(query,
		candidate.ID, candidate.Name, candidate.Kind, candidate.ExpertiseTags,
		candidate.IndustryTags, candidate.ArchetypeTags,
		candidate.StagePreferences, candidate.Dealbreakers,
		candidate.Location, candidate.Availability, candidate.MaxConcurrent,
		candidate.TrackRecord, candidate.LastEngagementAt, candidate.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update candidate: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("candidate not found")
	}

	return nil
}
