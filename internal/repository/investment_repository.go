package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/launchforge/accel-api/internal/models"
)

// investmentRepository implements InvestmentRepository
type investmentRepository struct {
	db dbExecutor
}

// NewInvestmentRepository creates a new investment repository
func NewInvestmentRepository(db dbExecutor) InvestmentRepository {
	return &investmentRepository{db: db}
}

// GetByStartupID retrieves the investment allocation for a startup
func (r *investmentRepository) GetByStartupID(startupID uuid.UUID) (*models.Investment, error) {
	query := `
		SELECT id, startup_id, cash_total, cash_disbursed, credits_total,
			   credits_used, status, created_at, updated_at
		FROM investments WHERE startup_id = $1
	`

	investment := &models.Investment{}
	err := r.db.QueryRow(query, startupID).Scan(
		&investment.ID, &investment.StartupID, &investment.CashTotal,
		&investment.CashDisbursed, &investment.CreditsTotal,
		&investment.CreditsUsed, &investment.Status,
		&investment.CreatedAt, &investment.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("investment not found")
		}
		return nil, fmt.Errorf("failed to get investment: %w", err)
	}

	return investment, nil
}

// Create creates a new investment allocation
func (r *investmentRepository) Create(investment *models.Investment) error {
	if investment.ID == uuid.Nil {
		investment.ID = uuid.New()
	}
	if investment.Status == "" {
		investment.Status = models.InvestmentActive
	}

	now := time.Now()
	investment.CreatedAt = now
	investment.UpdatedAt = now

	query := `
		INSERT INTO investments (
			id, startup_id, cash_total, cash_disbursed, credits_total,
			credits_used, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(query,
		investment.ID, investment.StartupID, investment.CashTotal,
		investment.CashDisbursed, investment.CreditsTotal,
		investment.CreditsUsed, investment.Status,
		investment.CreatedAt, investment.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create investment: %w", err)
	}

	return nil
}

// Disburse draws from the cash and credit pools. The pool bounds live in
// the WHERE clause so the invariant cash_disbursed <= cash_total (and the
// credit equivalent) can never be violated, even under concurrent draws.
func (r *investmentRepository) Disburse(startupID uuid.UUID, cashAmount, creditAmount int64) (bool, error) {
	query := `
		UPDATE investments SET
			cash_disbursed = cash_disbursed + $2,
			credits_used = credits_used + $3,
			updated_at = $4
		WHERE startup_id = $1
		  AND status = $5
		  AND cash_disbursed + $2 <= cash_total
		  AND credits_used + $3 <= credits_total
	`

	result, err := r.db.Exec(query, startupID, cashAmount, creditAmount,
		time.Now(), models.InvestmentActive)
	if err != nil {
		return false, fmt.Errorf("failed to disburse investment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}
