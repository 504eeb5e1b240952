package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/launchforge/accel-api/internal/models"
)

// matchRepository implements MatchRepository
type matchRepository struct {
	db dbExecutor
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db dbExecutor) MatchRepository {
	return &matchRepository{db: db}
}

const matchColumns = `
	id, startup_id, candidate_id, score, confidence, breakdown, status,
	explanation, created_at, updated_at`

func scanMatch(row interface{ Scan(...interface{}) error }) (*models.Match, error) {
	match := &models.Match{}
	err := row.Scan(
		&match.ID, &match.StartupID, &match.CandidateID, &match.Score,
		&match.Confidence, &match.Breakdown, &match.Status,
		&match.Explanation, &match.CreatedAt, &match.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return match, nil
}

// GetByID retrieves a match by ID
func (r *matchRepository) GetByID(id uuid.UUID) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := scanMatch(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("match not found")
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return match, nil
}

// GetByStartup retrieves all matches for a startup, best first. The ORDER BY
// mirrors the engine's ranking contract so reads reproduce the ranked order.
func (r *matchRepository) GetByStartup(startupID uuid.UUID) ([]models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE startup_id = $1
		ORDER BY score DESC,
			CASE confidence WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END,
			candidate_id ASC`

	rows, err := r.db.Query(query, startupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, *match)
	}

	return matches, nil
}

// Create creates a new match
func (r *matchRepository) Create(match *models.Match) error {
	if match.ID == uuid.Nil {
		match.ID = uuid.New()
	}
	if match.Status == "" {
		match.Status = models.MatchPending
	}

	now := time.Now()
	match.CreatedAt = now
	match.UpdatedAt = now

	query := `
		INSERT INTO matches (` + matchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(query,
		match.ID, match.StartupID, match.CandidateID, match.Score,
		match.Confidence, match.Breakdown, match.Status, match.Explanation,
		match.CreatedAt, match.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}

	return nil
}

// UpdateStatus advances a match along its state machine. The from-status
// predicate makes the transition one-way under concurrency: a stale
// transition matches zero rows.
func (r *matchRepository) UpdateStatus(id uuid.UUID, from, to models.MatchStatus) (bool, error) {
	query := `UPDATE matches SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`

	result, err := r.db.Exec(query, id, from, to, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to update match status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// DeletePendingByStartup removes undecided matches before regeneration.
// Matches a partner already acted on are preserved.
func (r *matchRepository) DeletePendingByStartup(startupID uuid.UUID) error {
	query := `DELETE FROM matches WHERE startup_id = $1 AND status = $2`

	if _, err := r.db.Exec(query, startupID, models.MatchPending); err != nil {
		return fmt.Errorf("failed to delete pending matches: %w", err)
	}

	return nil
}

// GetStaleStartupIDs returns active startups whose newest match is older
// than the cutoff, or which have no matches at all.
func (r *matchRepository) GetStaleStartupIDs(olderThan time.Time, limit int) ([]uuid.UUID, error) {
	query := `
		WITH latest_matches AS (
			SELECT startup_id, MAX(created_at) AS last_matched
			FROM matches
			GROUP BY startup_id
		)
		SELECT s.id
		FROM startups s
		LEFT JOIN latest_matches lm ON s.id = lm.startup_id
		WHERE s.status = $1 AND (lm.startup_id IS NULL OR lm.last_matched < $2)
		ORDER BY
			CASE WHEN lm.startup_id IS NULL THEN 0 ELSE 1 END,
			COALESCE(lm.last_matched, s.created_at) ASC
		LIMIT $3
	`

	rows, err := r.db.Query(query, models.StartupActive, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale startups: %w", err)
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
