package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/launchforge/accel-api/internal/models"
	"github.com/launchforge/accel-api/internal/repository"
	"github.com/launchforge/accel-api/internal/services"
)

// StartupHandler handles portfolio operations
type StartupHandler struct {
	startupService services.StartupService
}

// NewStartupHandler creates a new startup handler with service injection
func NewStartupHandler(startupService services.StartupService) *StartupHandler {
	return &StartupHandler{
		startupService: startupService,
	}
}

func parseStartupFilters(c *gin.Context) repository.StartupFilters {
	filters := repository.StartupFilters{}
	if stages := c.Query("stage"); stages != "" {
		filters.Stages = strings.Split(stages, ",")
	}
	if statuses := c.Query("status"); statuses != "" {
		for _, s := range strings.Split(statuses, ",") {
			filters.Statuses = append(filters.Statuses, models.StartupStatus(strings.TrimSpace(s)))
		}
	}
	if minScore := c.Query("min_score"); minScore != "" {
		if parsed, err := strconv.ParseFloat(minScore, 64); err == nil {
			filters.MinScore = &parsed
		}
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filters.Offset = offset
	}
	return filters
}

// GetStartups lists portfolio startups with optional filters
func (h *StartupHandler) GetStartups(c *gin.Context) {
	startups, err := h.startupService.GetAll(parseStartupFilters(c))
	if err != nil {
		handleServiceError(c, err, "Failed to list startups")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"startups":  startups,
		"count":     len(startups),
		"timestamp": time.Now(),
	})
}

// GetStartup returns a single portfolio startup
func (h *StartupHandler) GetStartup(c *gin.Context) {
	startup, err := h.startupService.GetByID(c.Param("id"))
	if err != nil {
		handleServiceError(c, err, "Failed to load startup")
		return
	}

	c.JSON(http.StatusOK, gin.H{"startup": startup})
}

// UpdateStartup updates a startup's profile fields
func (h *StartupHandler) UpdateStartup(c *gin.Context) {
	var startup models.Startup
	if err := c.ShouldBindJSON(&startup); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startup format: " + err.Error()})
		return
	}

	if err := h.startupService.Update(c.Param("id"), &startup); err != nil {
		handleServiceError(c, err, "Failed to update startup")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Startup updated successfully",
		"timestamp": time.Now(),
	})
}

// GetInvestment returns the startup's investment allocation and balances
func (h *StartupHandler) GetInvestment(c *gin.Context) {
	investment, err := h.startupService.GetInvestment(c.Param("id"))
	if err != nil {
		handleServiceError(c, err, "Failed to load investment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"investment": investment})
}

// Disburse draws cash and credits against a startup's allocation
func (h *StartupHandler) Disburse(c *gin.Context) {
	var req models.DisbursementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid disbursement format: " + err.Error()})
		return
	}

	investment, err := h.startupService.Disburse(c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err, "Failed to record disbursement")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Disbursement recorded successfully",
		"investment": investment,
		"timestamp":  time.Now(),
	})
}

// ExportPortfolio streams the portfolio as JSON or CSV
func (h *StartupHandler) ExportPortfolio(c *gin.Context) {
	format := c.DefaultQuery("format", services.FormatJSON)

	payload, contentType, err := h.startupService.Export(parseStartupFilters(c), format)
	if err != nil {
		handleServiceError(c, err, "Failed to export portfolio")
		return
	}

	if format == services.FormatCSV {
		c.Header("Content-Disposition", "attachment; filename=portfolio.csv")
	}
	c.Data(http.StatusOK, contentType, payload)
}
