package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/launchforge/accel-api/internal/models"
	"github.com/launchforge/accel-api/internal/repository"
)

// In-memory repository fakes used across the service tests.

type mockApplicationRepo struct {
	applications  map[uuid.UUID]*models.Application
	decideErr     error
	updateErr     error
	forceLoseRace bool
}

func newMockApplicationRepo() *mockApplicationRepo {
	return &mockApplicationRepo{applications: make(map[uuid.UUID]*models.Application)}
}

func (m *mockApplicationRepo) GetByID(id uuid.UUID) (*models.Application, error) {
	app, ok := m.applications[id]
	if !ok {
		return nil, fmt.Errorf("application not found")
	}
	clone := *app
	return &clone, nil
}

func (m *mockApplicationRepo) Create(app *models.Application) error {
	clone := *app
	m.applications[app.ID] = &clone
	return nil
}

func (m *mockApplicationRepo) Update(app *models.Application) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.applications[app.ID]; !ok {
		return fmt.Errorf("application not found")
	}
	clone := *app
	m.applications[app.ID] = &clone
	return nil
}

func (m *mockApplicationRepo) GetAll(filters repository.ApplicationFilters) ([]models.Application, error) {
	var out []models.Application
	for _, app := range m.applications {
		out = append(out, *app)
	}
	return out, nil
}

func (m *mockApplicationRepo) DecideIfUndecided(id uuid.UUID, decision models.ApplicationStatus, notes string, conditions models.Conditions, decidedAt time.Time) (bool, error) {
	if m.decideErr != nil {
		return false, m.decideErr
	}
	if m.forceLoseRace {
		return false, nil
	}
	app, ok := m.applications[id]
	if !ok || app.Status.IsDecided() {
		return false, nil
	}
	app.Status = decision
	app.DecisionNotes = notes
	app.DecisionConditions = conditions
	app.DecidedAt = &decidedAt
	return true, nil
}

type mockStartupRepo struct {
	startups  map[uuid.UUID]*models.Startup
	createErr error
}

func newMockStartupRepo() *mockStartupRepo {
	return &mockStartupRepo{startups: make(map[uuid.UUID]*models.Startup)}
}

func (m *mockStartupRepo) GetByID(id uuid.UUID) (*models.Startup, error) {
	st, ok := m.startups[id]
	if !ok {
		return nil, fmt.Errorf("startup not found")
	}
	clone := *st
	return &clone, nil
}

func (m *mockStartupRepo) GetByApplicationID(applicationID uuid.UUID) (*models.Startup, error) {
	for _, st := range m.startups {
		if st.ApplicationID == applicationID {
			clone := *st
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("startup not found")
}

func (m *mockStartupRepo) Create(st *models.Startup) error {
	if m.createErr != nil {
		return m.createErr
	}
	clone := *st
	m.startups[st.ID] = &clone
	return nil
}

func (m *mockStartupRepo) Update(st *models.Startup) error {
	if _, ok := m.startups[st.ID]; !ok {
		return fmt.Errorf("startup not found")
	}
	clone := *st
	m.startups[st.ID] = &clone
	return nil
}

func (m *mockStartupRepo) GetAll(filters repository.StartupFilters) ([]models.Startup, error) {
	var out []models.Startup
	for _, st := range m.startups {
		out = append(out, *st)
	}
	return out, nil
}

func (m *mockStartupRepo) GetActiveIDs() ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, st := range m.startups {
		if st.Status == models.StartupActive {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type mockInvestmentRepo struct {
	investments map[uuid.UUID]*models.Investment // keyed by startup ID
}

func newMockInvestmentRepo() *mockInvestmentRepo {
	return &mockInvestmentRepo{investments: make(map[uuid.UUID]*models.Investment)}
}

func (m *mockInvestmentRepo) GetByStartupID(startupID uuid.UUID) (*models.Investment, error) {
	inv, ok := m.investments[startupID]
	if !ok {
		return nil, fmt.Errorf("investment not found")
	}
	clone := *inv
	return &clone, nil
}

func (m *mockInvestmentRepo) Create(inv *models.Investment) error {
	clone := *inv
	m.investments[inv.StartupID] = &clone
	return nil
}

func (m *mockInvestmentRepo) Disburse(startupID uuid.UUID, cashAmount, creditAmount int64) (bool, error) {
	inv, ok := m.investments[startupID]
	if !ok {
		return false, fmt.Errorf("investment not found")
	}
	if inv.CashDisbursed+cashAmount > inv.CashTotal ||
		inv.CreditsUsed+creditAmount > inv.CreditsTotal ||
		inv.Status != models.InvestmentActive {
		return false, nil
	}
	inv.CashDisbursed += cashAmount
	inv.CreditsUsed += creditAmount
	return true, nil
}

type mockMatchRepo struct {
	matches  map[uuid.UUID]*models.Match
	staleIDs []uuid.UUID
	staleErr error
}

func newMockMatchRepo() *mockMatchRepo {
	return &mockMatchRepo{matches: make(map[uuid.UUID]*models.Match)}
}

func (m *mockMatchRepo) GetByID(id uuid.UUID) (*models.Match, error) {
	match, ok := m.matches[id]
	if !ok {
		return nil, fmt.Errorf("match not found")
	}
	clone := *match
	return &clone, nil
}

func (m *mockMatchRepo) GetByStartup(startupID uuid.UUID) ([]models.Match, error) {
	var out []models.Match
	for _, match := range m.matches {
		if match.StartupID == startupID {
			out = append(out, *match)
		}
	}
	return out, nil
}

func (m *mockMatchRepo) Create(match *models.Match) error {
	clone := *match
	m.matches[match.ID] = &clone
	return nil
}

func (m *mockMatchRepo) UpdateStatus(id uuid.UUID, from, to models.MatchStatus) (bool, error) {
	match, ok := m.matches[id]
	if !ok || match.Status != from {
		return false, nil
	}
	match.Status = to
	return true, nil
}

func (m *mockMatchRepo) DeletePendingByStartup(startupID uuid.UUID) error {
	for id, match := range m.matches {
		if match.StartupID == startupID && match.Status == models.MatchPending {
			delete(m.matches, id)
		}
	}
	return nil
}

func (m *mockMatchRepo) GetStaleStartupIDs(olderThan time.Time, limit int) ([]uuid.UUID, error) {
	if m.staleErr != nil {
		return nil, m.staleErr
	}
	if limit < len(m.staleIDs) {
		return m.staleIDs[:limit], nil
	}
	return m.staleIDs, nil
}

type mockCandidateRepo struct {
	candidates map[uuid.UUID]*models.MatchCandidate
}

func newMockCandidateRepo() *mockCandidateRepo {
	return &mockCandidateRepo{candidates: make(map[uuid.UUID]*models.MatchCandidate)}
}

func (m *mockCandidateRepo) GetByID(id uuid.UUID) (*models.MatchCandidate, error) {
	c, ok := m.candidates[id]
	if !ok {
		return nil, fmt.Errorf("candidate not found")
	}
	clone := *c
	return &clone, nil
}

func (m *mockCandidateRepo) GetAll(filters repository.CandidateFilters) ([]models.MatchCandidate, error) {
	var out []models.MatchCandidate
	for _, c := range m.candidates {
		if filters.Kind != "" && c.Kind != filters.Kind {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockCandidateRepo) Create(c *models.MatchCandidate) error {
	clone := *c
	m.candidates[c.ID] = &clone
	return nil
}

func (m *mockCandidateRepo) Update(c *models.MatchCandidate) error {
	if _, ok := m.candidates[c.ID]; !ok {
		return fmt.Errorf("candidate not found")
	}
	clone := *c
	m.candidates[c.ID] = &clone
	return nil
}

type mockUserRepo struct {
	users    map[uuid.UUID]*models.User
	linkErr  error
	linkedTo map[uuid.UUID]uuid.UUID // user -> startup
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:    make(map[uuid.UUID]*models.User),
		linkedTo: make(map[uuid.UUID]uuid.UUID),
	}
}

func (m *mockUserRepo) GetByID(id uuid.UUID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	clone := *u
	return &clone, nil
}

func (m *mockUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (m *mockUserRepo) Create(u *models.User) error {
	clone := *u
	m.users[u.ID] = &clone
	return nil
}

func (m *mockUserRepo) Update(u *models.User) error {
	if _, ok := m.users[u.ID]; !ok {
		return fmt.Errorf("user not found")
	}
	clone := *u
	m.users[u.ID] = &clone
	return nil
}

func (m *mockUserRepo) LinkStartup(userID, startupID uuid.UUID) error {
	if m.linkErr != nil {
		return m.linkErr
	}
	user, ok := m.users[userID]
	if !ok {
		return fmt.Errorf("user not found")
	}
	user.StartupID = &startupID
	m.linkedTo[userID] = startupID
	return nil
}

// mockTxManager runs the unit against the same fakes; rollback is simulated
// only insofar as errors propagate.
type mockTxManager struct {
	repos *repository.Repositories
}

func (m *mockTxManager) WithTransaction(fn func(repos *repository.Repositories) error) error {
	return fn(m.repos)
}

// newMockRepositories wires a full fake repository set
func newMockRepositories() (*repository.Repositories, *mockApplicationRepo, *mockStartupRepo, *mockInvestmentRepo, *mockMatchRepo, *mockCandidateRepo, *mockUserRepo) {
	apps := newMockApplicationRepo()
	startups := newMockStartupRepo()
	investments := newMockInvestmentRepo()
	matches := newMockMatchRepo()
	candidates := newMockCandidateRepo()
	users := newMockUserRepo()

	repos := &repository.Repositories{
		Application: apps,
		Startup:     startups,
		Investment:  investments,
		Match:       matches,
		Candidate:   candidates,
		User:        users,
	}
	repos.Tx = &mockTxManager{repos: repos}
	return repos, apps, startups, investments, matches, candidates, users
}
