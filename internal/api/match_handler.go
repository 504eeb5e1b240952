package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/launchforge/accel-api/internal/matching"
	"github.com/launchforge/accel-api/internal/models"
	"github.com/launchforge/accel-api/internal/repository"
	"github.com/launchforge/accel-api/internal/services"
)

// matchGenerationTimeout bounds the matchmaking agent call.
const matchGenerationTimeout = 60 * time.Second

// MatchHandler handles mentor and investor matching operations
type MatchHandler struct {
	matchingService services.MatchingService
}

// NewMatchHandler creates a new match handler with service injection
func NewMatchHandler(matchingService services.MatchingService) *MatchHandler {
	return &MatchHandler{
		matchingService: matchingService,
	}
}

// GenerateMatches produces a fresh ranked slate of pending matches for a
// startup. Matches already acted on are preserved.
func (h *MatchHandler) GenerateMatches(c *gin.Context) {
	var req matching.Request
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), matchGenerationTimeout)
	defer cancel()

	matches, err := h.matchingService.GenerateForStartup(ctx, c.Param("id"), req)
	if err != nil {
		handleServiceError(c, err, "Failed to generate matches")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"matches":   matches,
		"count":     len(matches),
		"timestamp": time.Now(),
	})
}

// GetMatches lists a startup's matches ordered by score
func (h *MatchHandler) GetMatches(c *gin.Context) {
	matches, err := h.matchingService.GetForStartup(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err, "Failed to list matches")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"matches": matches,
		"count":   len(matches),
	})
}

func (h *MatchHandler) respondTransition(c *gin.Context, match *models.Match, err error, action string) {
	if err != nil {
		handleServiceError(c, err, "Failed to "+action+" match")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"match":     match,
		"timestamp": time.Now(),
	})
}

// ApproveMatch marks a pending match as partner-approved
func (h *MatchHandler) ApproveMatch(c *gin.Context) {
	match, err := h.matchingService.Approve(c.Param("id"))
	h.respondTransition(c, match, err, "approve")
}

// RejectMatch dismisses a pending match
func (h *MatchHandler) RejectMatch(c *gin.Context) {
	match, err := h.matchingService.Reject(c.Param("id"))
	h.respondTransition(c, match, err, "reject")
}

// MarkIntroSent records that the introduction email went out
func (h *MatchHandler) MarkIntroSent(c *gin.Context) {
	match, err := h.matchingService.MarkIntroSent(c.Param("id"))
	h.respondTransition(c, match, err, "update")
}

// CompleteMatch closes out a match after the engagement finishes
func (h *MatchHandler) CompleteMatch(c *gin.Context) {
	match, err := h.matchingService.Complete(c.Param("id"))
	h.respondTransition(c, match, err, "complete")
}

// GetCandidates lists the mentor/investor pool
func (h *MatchHandler) GetCandidates(c *gin.Context) {
	filters := repository.CandidateFilters{
		Kind:  c.Query("kind"),
		Stage: c.Query("stage"),
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "100")); err == nil {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filters.Offset = offset
	}

	candidates, err := h.matchingService.GetCandidates(filters)
	if err != nil {
		handleServiceError(c, err, "Failed to list candidates")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"candidates": candidates,
		"count":      len(candidates),
	})
}

// CreateCandidate registers a mentor or investor in the pool
func (h *MatchHandler) CreateCandidate(c *gin.Context) {
	var form models.CandidateForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid candidate format: " + err.Error()})
		return
	}

	candidate, err := h.matchingService.CreateCandidate(&form)
	if err != nil {
		handleServiceError(c, err, "Failed to create candidate")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"candidate": candidate,
		"timestamp": time.Now(),
	})
}
