package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/launchforge/accel-api/internal/auth"
	"github.com/launchforge/accel-api/internal/models"
	"github.com/launchforge/accel-api/internal/repository"
	"github.com/launchforge/accel-api/internal/services"
)

// assessmentTimeout bounds website enrichment plus agent calls.
const assessmentTimeout = 90 * time.Second

// ApplicationHandler handles the application lifecycle
type ApplicationHandler struct {
	applicationService services.ApplicationService
}

// NewApplicationHandler creates a new application handler with service injection
func NewApplicationHandler(applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
	}
}

func currentUser(c *gin.Context) (uuid.UUID, string, bool) {
	userID, exists := c.Get(auth.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, "", false
	}
	userUUID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, "", false
	}
	role, _ := c.Get(auth.UserRoleKey)
	roleStr, _ := role.(string)
	return userUUID, roleStr, true
}

// CreateApplication creates a draft application for the authenticated founder
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var form models.ApplicationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application format: " + err.Error()})
		return
	}

	application, err := h.applicationService.Create(userID.String(), &form)
	if err != nil {
		handleServiceError(c, err, "Failed to create application")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"application": application,
		"timestamp":   time.Now(),
	})
}

// GetApplications lists applications. Founders only see their own.
func (h *ApplicationHandler) GetApplications(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	filters := repository.ApplicationFilters{}
	if statuses := c.Query("status"); statuses != "" {
		for _, s := range strings.Split(statuses, ",") {
			filters.Statuses = append(filters.Statuses, models.ApplicationStatus(strings.TrimSpace(s)))
		}
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filters.Offset = offset
	}
	if role == models.RoleFounder {
		filters.FounderUserID = &userID
	}

	applications, err := h.applicationService.GetAll(filters)
	if err != nil {
		handleServiceError(c, err, "Failed to list applications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": applications,
		"count":        len(applications),
		"timestamp":    time.Now(),
	})
}

// GetApplication returns a single application
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	application, err := h.applicationService.GetByID(c.Param("id"))
	if err != nil {
		handleServiceError(c, err, "Failed to load application")
		return
	}
	if role == models.RoleFounder && application.FounderUserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"application": application})
}

// SubmitApplication moves a draft into the review queue
func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	existing, err := h.applicationService.GetByID(c.Param("id"))
	if err != nil {
		handleServiceError(c, err, "Failed to load application")
		return
	}
	if role == models.RoleFounder && existing.FounderUserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	application, err := h.applicationService.Submit(c.Param("id"))
	if err != nil {
		handleServiceError(c, err, "Failed to submit application")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Application submitted successfully",
		"application": application,
		"timestamp":   time.Now(),
	})
}

// ScheduleInterview moves a submitted application to the interview stage
func (h *ApplicationHandler) ScheduleInterview(c *gin.Context) {
	application, err := h.applicationService.ScheduleInterview(c.Param("id"))
	if err != nil {
		handleServiceError(c, err, "Failed to schedule interview")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"application": application,
		"timestamp":   time.Now(),
	})
}

// CompleteInterview records interview notes and advances the application
func (h *ApplicationHandler) CompleteInterview(c *gin.Context) {
	type interviewRequest struct {
		Notes string `json:"notes"`
	}

	var req interviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	application, err := h.applicationService.CompleteInterview(c.Param("id"), req.Notes)
	if err != nil {
		handleServiceError(c, err, "Failed to complete interview")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"application": application,
		"timestamp":   time.Now(),
	})
}

// GenerateAssessment runs enrichment and scoring for an interviewed application
func (h *ApplicationHandler) GenerateAssessment(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), assessmentTimeout)
	defer cancel()

	application, err := h.applicationService.GenerateAssessment(ctx, c.Param("id"))
	if err != nil {
		handleServiceError(c, err, "Failed to generate assessment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"application": application,
		"timestamp":   time.Now(),
	})
}

// StartReview moves an assessed application into partner review
func (h *ApplicationHandler) StartReview(c *gin.Context) {
	application, err := h.applicationService.StartReview(c.Param("id"))
	if err != nil {
		handleServiceError(c, err, "Failed to start review")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"application": application,
		"timestamp":   time.Now(),
	})
}

// DecideApplication records a partner's approve/reject decision. Approval
// creates the startup and its standard investment in the same transaction.
func (h *ApplicationHandler) DecideApplication(c *gin.Context) {
	var req models.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid decision format: " + err.Error()})
		return
	}

	result, err := h.applicationService.Decide(c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err, "Failed to record decision")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"application": result.Application,
		"startup":     result.Startup,
		"investment":  result.Investment,
		"message":     result.Message,
		"timestamp":   time.Now(),
	})
}
