package models

import (
	"time"

	"github.com/google/uuid"
)

// Standard allocation granted to every newly approved startup.
const (
	StandardCashPool   int64 = 50000
	StandardCreditPool int64 = 50000
)

// InvestmentStatus represents the lifecycle of an allocation
type InvestmentStatus string

const (
	InvestmentActive    InvestmentStatus = "active"
	InvestmentExhausted InvestmentStatus = "exhausted"
	InvestmentClosed    InvestmentStatus = "closed"
)

// Investment is the cash/credit allocation created alongside an approved
// startup. Invariant after every mutation: CashDisbursed <= CashTotal and
// CreditsUsed <= CreditsTotal.
type Investment struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	StartupID     uuid.UUID        `json:"startup_id" db:"startup_id"`
	CashTotal     int64            `json:"cash_total" db:"cash_total"`
	CashDisbursed int64            `json:"cash_disbursed" db:"cash_disbursed"`
	CreditsTotal  int64            `json:"credits_total" db:"credits_total"`
	CreditsUsed   int64            `json:"credits_used" db:"credits_used"`
	Status        InvestmentStatus `json:"status" db:"status"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}

// CashRemaining returns the undisbursed cash balance.
func (i *Investment) CashRemaining() int64 {
	return i.CashTotal - i.CashDisbursed
}

// CreditsRemaining returns the unused credit balance.
func (i *Investment) CreditsRemaining() int64 {
	return i.CreditsTotal - i.CreditsUsed
}

// NewStandardInvestment returns the fixed allocation for a new startup.
func NewStandardInvestment(startupID uuid.UUID) *Investment {
	return &Investment{
		ID:           uuid.New(),
		StartupID:    startupID,
		CashTotal:    StandardCashPool,
		CreditsTotal: StandardCreditPool,
		Status:       InvestmentActive,
	}
}

// DisbursementRequest represents a draw against an allocation
type DisbursementRequest struct {
	CashAmount   int64 `json:"cash_amount"`
	CreditAmount int64 `json:"credit_amount"`
}
