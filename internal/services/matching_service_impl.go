package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/launchforge/accel-api/internal/agents"
	"github.com/launchforge/accel-api/internal/cache"
	"github.com/launchforge/accel-api/internal/errors"
	"github.com/launchforge/accel-api/internal/logger"
	"github.com/launchforge/accel-api/internal/matching"
	"github.com/launchforge/accel-api/internal/models"
	"github.com/launchforge/accel-api/internal/repository"
)

const matchCacheTTL = 5 * time.Minute

// matchingServiceImpl implements MatchingService
type matchingServiceImpl struct {
	repos       *repository.Repositories
	matchmaking agents.MatchmakingAgent
	cache       cache.Store
	logger      logger.Logger
}

func newMatchingService(repos *repository.Repositories, deps Dependencies) MatchingService {
	return &matchingServiceImpl{
		repos:       repos,
		matchmaking: deps.Matchmaking,
		cache:       deps.Cache,
		logger:      deps.Logger,
	}
}

// GenerateForStartup replaces the startup's pending matches with a freshly
// ranked set. Matches already acted on (approved, intro_sent, completed,
// rejected) are never touched by a refresh.
func (s *matchingServiceImpl) GenerateForStartup(ctx context.Context, startupID string, req matching.Request) ([]models.Match, error) {
	id, err := uuid.Parse(startupID)
	if err != nil {
		return nil, errors.InvalidInput("invalid startup ID", err)
	}

	startup, err := s.repos.Startup.GetByID(id)
	if err != nil {
		return nil, errors.NotFound("startup not found", err)
	}

	req.StartupID = startup.ID.String()
	if req.Stage == "" {
		req.Stage = startup.Stage
	}

	candidates, err := s.repos.Candidate.GetAll(repository.CandidateFilters{})
	if err != nil {
		return nil, errors.DatabaseError("failed to load candidates", err).WithOperation("GenerateMatches")
	}

	history, err := s.repos.Match.GetByStartup(id)
	if err != nil {
		return nil, errors.DatabaseError("failed to load match history", err).WithOperation("GenerateMatches")
	}

	out, err := s.matchmaking.FindMatches(ctx, agents.FindMatchesInput{
		Request:           req,
		Candidates:        candidates,
		HistoricalMatches: history,
	})
	if err != nil {
		return nil, errors.ServiceError("match generation failed", err).WithOperation("GenerateMatches")
	}

	// Skip candidates already paired with this startup
	seen := make(map[uuid.UUID]bool, len(history))
	for _, m := range history {
		if m.Status != models.MatchPending {
			seen[m.CandidateID] = true
		}
	}

	var matches []models.Match
	err = s.repos.Tx.WithTransaction(func(tx *repository.Repositories) error {
		if err := tx.Match.DeletePendingByStartup(id); err != nil {
			return errors.DatabaseError("failed to clear pending matches", err).WithOperation("GenerateMatches")
		}

		for _, proposal := range out.Matches {
			candidateID, err := uuid.Parse(proposal.CandidateID)
			if err != nil {
				s.logger.Warn("Skipping proposal with bad candidate ID", "candidate_id", proposal.CandidateID)
				continue
			}
			if seen[candidateID] {
				continue
			}

			match := models.Match{
				ID:          uuid.New(),
				StartupID:   id,
				CandidateID: candidateID,
				Score:       proposal.Score,
				Confidence:  proposal.Confidence,
				Breakdown:   proposal.Breakdown,
				Status:      models.MatchPending,
				Explanation: proposal.Explanation,
			}
			if err := tx.Match.Create(&match); err != nil {
				return errors.DatabaseError("failed to store match", err).WithOperation("GenerateMatches")
			}
			matches = append(matches, match)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, id)
	s.logger.Info("Matches generated", "startup_id", id, "count", len(matches))
	return matches, nil
}

// GetForStartup returns the startup's matches ranked by score, confidence
// tier, then candidate ID. Results are cached briefly.
func (s *matchingServiceImpl) GetForStartup(ctx context.Context, startupID string) ([]models.Match, error) {
	id, err := uuid.Parse(startupID)
	if err != nil {
		return nil, errors.InvalidInput("invalid startup ID", err)
	}

	cacheKey := matchCacheKey(id)
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var matches []models.Match
		if err := json.Unmarshal(cached, &matches); err == nil {
			return matches, nil
		}
	}

	matches, err := s.repos.Match.GetByStartup(id)
	if err != nil {
		return nil, errors.DatabaseError("failed to list matches", err).WithOperation("GetMatches")
	}

	if payload, err := json.Marshal(matches); err == nil {
		if err := s.cache.Set(ctx, cacheKey, payload, matchCacheTTL); err != nil {
			s.logger.Warn("Failed to cache matches", "startup_id", id, "error", err)
		}
	}
	return matches, nil
}

// Approve moves a pending match to approved
func (s *matchingServiceImpl) Approve(matchID string) (*models.Match, error) {
	return s.transition(matchID, models.MatchPending, models.MatchApproved)
}

// Reject declines a pending match
func (s *matchingServiceImpl) Reject(matchID string) (*models.Match, error) {
	return s.transition(matchID, models.MatchPending, models.MatchRejected)
}

// MarkIntroSent records that the introduction went out
func (s *matchingServiceImpl) MarkIntroSent(matchID string) (*models.Match, error) {
	return s.transition(matchID, models.MatchApproved, models.MatchIntroSent)
}

// Complete closes out an engagement
func (s *matchingServiceImpl) Complete(matchID string) (*models.Match, error) {
	return s.transition(matchID, models.MatchIntroSent, models.MatchCompleted)
}

// transition applies a compare-and-swap status update; a stale from-status
// loses the race and surfaces as a conflict.
func (s *matchingServiceImpl) transition(matchID string, from, to models.MatchStatus) (*models.Match, error) {
	id, err := uuid.Parse(matchID)
	if err != nil {
		return nil, errors.InvalidInput("invalid match ID", err)
	}

	match, err := s.repos.Match.GetByID(id)
	if err != nil {
		return nil, errors.NotFound("match not found", err)
	}

	if !from.CanTransition(to) || match.Status != from {
		return nil, errors.Conflict("invalid match transition", nil).
			WithDetails("cannot move from " + string(match.Status) + " to " + string(to))
	}

	won, err := s.repos.Match.UpdateStatus(id, from, to)
	if err != nil {
		return nil, errors.DatabaseError("failed to update match", err).WithOperation("TransitionMatch")
	}
	if !won {
		return nil, errors.Conflict("match was updated concurrently", nil)
	}

	match.Status = to
	s.invalidateCache(context.Background(), match.StartupID)
	s.logger.Info("Match transitioned", "match_id", id, "status", to)
	return match, nil
}

// GetCandidates lists the mentor/investor pool
func (s *matchingServiceImpl) GetCandidates(filters repository.CandidateFilters) ([]models.MatchCandidate, error) {
	candidates, err := s.repos.Candidate.GetAll(filters)
	if err != nil {
		return nil, errors.DatabaseError("failed to list candidates", err).WithOperation("GetCandidates")
	}
	return candidates, nil
}

// CreateCandidate registers a new mentor or investor profile
func (s *matchingServiceImpl) CreateCandidate(form *models.CandidateForm) (*models.MatchCandidate, error) {
	if form.Kind != "mentor" && form.Kind != "investor" {
		return nil, errors.InvalidInput("kind must be mentor or investor", nil)
	}

	candidate := &models.MatchCandidate{
		ID:               uuid.New(),
		Name:             form.Name,
		Kind:             form.Kind,
		ExpertiseTags:    models.StringList(form.ExpertiseTags),
		IndustryTags:     models.StringList(form.IndustryTags),
		ArchetypeTags:    models.StringList(form.ArchetypeTags),
		StagePreferences: models.StringList(form.StagePreferences),
		Dealbreakers:     models.StringList(form.Dealbreakers),
		Location:         form.Location,
		Availability:     form.Availability,
		MaxConcurrent:    form.MaxConcurrent,
	}

	if err := s.repos.Candidate.Create(candidate); err != nil {
		return nil, errors.DatabaseError("failed to create candidate", err).WithOperation("CreateCandidate")
	}

	s.logger.Info("Candidate created", "candidate_id", candidate.ID, "kind", candidate.Kind)
	return candidate, nil
}

func (s *matchingServiceImpl) invalidateCache(ctx context.Context, startupID uuid.UUID) {
	if err := s.cache.Delete(ctx, matchCacheKey(startupID)); err != nil {
		s.logger.Warn("Failed to invalidate match cache", "startup_id", startupID, "error", err)
	}
}

func matchCacheKey(startupID uuid.UUID) string {
	return "matches:" + startupID.String()
}
