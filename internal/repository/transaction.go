package repository

import (
	"database/sql"
	"fmt"
)

// transactionManager implements TransactionManager
type transactionManager struct {
	db *sql.DB
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(db *sql.DB) TransactionManager {
	return &transactionManager{db: db}
}

// WithTransaction executes a function within a database transaction
func (tm *transactionManager) WithTransaction(fn func(repos *Repositories) error) error {
	tx, err := tm.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Create repositories with the transaction
	repos := &Repositories{
		Application: NewApplicationRepository(dbExecutor(tx)),
		Startup:     NewStartupRepository(dbExecutor(tx)),
		Investment:  NewInvestmentRepository(dbExecutor(tx)),
		Match:       NewMatchRepository(dbExecutor(tx)),
		Candidate:   NewCandidateRepository(dbExecutor(tx)),
		User:        NewUserRepository(dbExecutor(tx)),
		Tx:          tm, // Keep the same transaction manager
	}

	// Execute the function
	err = fn(repos)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("transaction failed: %v, rollback failed: %w", err, rollbackErr)
		}
		return err
	}

	// Commit the transaction
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// dbExecutor is an interface that both *sql.DB and *sql.Tx implement
type dbExecutor interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// NewRepositories creates a new repository collection
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Application: NewApplicationRepository(dbExecutor(db)),
		Startup:     NewStartupRepository(dbExecutor(db)),
		Investment:  NewInvestmentRepository(dbExecutor(db)),
		Match:       NewMatchRepository(dbExecutor(db)),
		Candidate:   NewCandidateRepository(dbExecutor(db)),
		User:        NewUserRepository(dbExecutor(db)),
		Tx:          NewTransactionManager(db),
	}
}
