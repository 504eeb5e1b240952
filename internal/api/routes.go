package api

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/launchforge/accel-api/internal/agents"
	"github.com/launchforge/accel-api/internal/auth"
	"github.com/launchforge/accel-api/internal/cache"
	"github.com/launchforge/accel-api/internal/errors"
	"github.com/launchforge/accel-api/internal/logger"
	"github.com/launchforge/accel-api/internal/models"
	"github.com/launchforge/accel-api/internal/repository"
	"github.com/launchforge/accel-api/internal/services"
	"github.com/launchforge/accel-api/pkg/config"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, db *sql.DB, cfg *config.Config, log logger.Logger) error {
	deps := services.Dependencies{Logger: log}

	if cfg.HasRemoteAssessmentAgent() {
		deps.Assessment = agents.NewHTTPAssessmentAgent(cfg.AssessmentAgentURL, cfg.AgentAPIKey, log)
	}
	if cfg.HasRemoteMatchmakingAgent() {
		deps.Matchmaking = agents.NewHTTPMatchmakingAgent(cfg.MatchmakingAgentURL, cfg.AgentAPIKey, log)
	}
	if cfg.HasRedis() {
		store, err := cache.NewRedisStore(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		deps.Cache = store
	}

	svcs := services.NewServices(db, cfg, deps)
	repos := repository.NewRepositories(db)
	pipeline := services.NewMatchPipeline(repos, svcs.Matching, log)

	authHandler := NewAuthHandler(svcs.Auth)
	applicationHandler := NewApplicationHandler(svcs.Application)
	startupHandler := NewStartupHandler(svcs.Startup)
	matchHandler := NewMatchHandler(svcs.Matching)
	pipelineHandler := NewPipelineHandler(pipeline)
	healthHandler := NewHealthHandler(db)

	// Public routes
	public := r.Group("/api/v1")
	{
		public.POST("/auth/login", authHandler.Login)
		public.POST("/auth/register", authHandler.Register)
		public.POST("/auth/refresh", authHandler.RefreshToken)
		public.POST("/auth/logout", authHandler.Logout)
	}

	// Protected routes
	protected := r.Group("/api/v1")
	protected.Use(auth.JWTMiddleware(cfg.JWTSecret))
	protected.Use(auth.CSRFMiddleware())
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.GET("/health", healthHandler.GetHealth)

		// Application lifecycle - founders create and submit their own
		protected.POST("/applications", applicationHandler.CreateApplication)
		protected.GET("/applications", applicationHandler.GetApplications)
		protected.GET("/applications/:id", applicationHandler.GetApplication)
		protected.POST("/applications/:id/submit", applicationHandler.SubmitApplication)

		// Portfolio reads
		protected.GET("/startups", startupHandler.GetStartups)
		protected.GET("/startups/:id", startupHandler.GetStartup)
		protected.GET("/startups/:id/investment", startupHandler.GetInvestment)
		protected.GET("/startups/:id/matches", matchHandler.GetMatches)
	}

	// Partner-only routes: selection workflow, investments, matching, pipeline
	partner := r.Group("/api/v1")
	partner.Use(auth.JWTMiddleware(cfg.JWTSecret))
	partner.Use(auth.CSRFMiddleware())
	partner.Use(auth.RequireRole(models.RolePartner))
	{
		partner.POST("/applications/:id/interview/schedule", applicationHandler.ScheduleInterview)
		partner.POST("/applications/:id/interview/complete", applicationHandler.CompleteInterview)
		partner.POST("/applications/:id/assessment", applicationHandler.GenerateAssessment)
		partner.POST("/applications/:id/review", applicationHandler.StartReview)
		partner.POST("/applications/:id/decision", applicationHandler.DecideApplication)

		partner.PUT("/startups/:id", startupHandler.UpdateStartup)
		partner.POST("/startups/:id/disbursements", startupHandler.Disburse)
		partner.GET("/startups/export", startupHandler.ExportPortfolio)

		partner.POST("/startups/:id/matches", matchHandler.GenerateMatches)
		partner.POST("/matches/:id/approve", matchHandler.ApproveMatch)
		partner.POST("/matches/:id/reject", matchHandler.RejectMatch)
		partner.POST("/matches/:id/intro", matchHandler.MarkIntroSent)
		partner.POST("/matches/:id/complete", matchHandler.CompleteMatch)

		partner.GET("/candidates", matchHandler.GetCandidates)
		partner.POST("/candidates", matchHandler.CreateCandidate)

		partner.GET("/pipeline/status", pipelineHandler.GetPipelineStatus)
		partner.POST("/pipeline/start", pipelineHandler.StartPipeline)
		partner.POST("/pipeline/stop", pipelineHandler.StopPipeline)
		partner.POST("/pipeline/run-once", pipelineHandler.RunPipelineOnce)
	}

	return nil
}

// handleServiceError translates service-layer errors into HTTP responses.
// Internal details stay out of client-facing messages for 5xx responses.
func handleServiceError(c *gin.Context, err error, fallback string) {
	if appErr, ok := errors.AsAppError(err); ok {
		status := appErr.HTTPStatus()
		if status >= http.StatusInternalServerError {
			c.JSON(status, gin.H{"error": fallback})
			return
		}
		body := gin.H{"error": appErr.Message}
		if appErr.Details != "" {
			body["details"] = appErr.Details
		}
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}
