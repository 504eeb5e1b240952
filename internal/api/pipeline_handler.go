package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/launchforge/accel-api/internal/services"
)

// PipelineHandler handles match pipeline management operations
type PipelineHandler struct {
	pipeline *services.MatchPipeline
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(pipeline *services.MatchPipeline) *PipelineHandler {
	return &PipelineHandler{
		pipeline: pipeline,
	}
}

// GetPipelineStatus returns the current status of the match pipeline
func (h *PipelineHandler) GetPipelineStatus(c *gin.Context) {
	status, err := h.pipeline.GetStatus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get pipeline status: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pipeline_status": status,
		"timestamp":       time.Now(),
	})
}

// StartPipeline starts the automated match refresh pipeline
func (h *PipelineHandler) StartPipeline(c *gin.Context) {
	var config services.PipelineConfig
	if err := c.ShouldBindJSON(&config); err != nil {
		// Use default config if no body provided
		config = services.DefaultPipelineConfig()
	}

	defaults := services.DefaultPipelineConfig()
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	if config.IntervalMinutes <= 0 {
		config.IntervalMinutes = defaults.IntervalMinutes
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = defaults.MaxConcurrent
	}
	if config.StaleAfterDays <= 0 {
		config.StaleAfterDays = defaults.StaleAfterDays
	}

	if err := h.pipeline.Start(config); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to start pipeline: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Match pipeline started successfully",
		"config":    config,
		"timestamp": time.Now(),
	})
}

// StopPipeline stops the automated match refresh pipeline
func (h *PipelineHandler) StopPipeline(c *gin.Context) {
	if err := h.pipeline.Stop(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to stop pipeline: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Match pipeline stopped successfully",
		"timestamp": time.Now(),
	})
}

// RunPipelineOnce executes a single match refresh cycle manually
func (h *PipelineHandler) RunPipelineOnce(c *gin.Context) {
	config := services.DefaultPipelineConfig()

	if batchSize := c.Query("batch_size"); batchSize != "" {
		if parsed, err := strconv.Atoi(batchSize); err == nil && parsed > 0 {
			config.BatchSize = parsed
		}
	}
	if maxConcurrent := c.Query("max_concurrent"); maxConcurrent != "" {
		if parsed, err := strconv.Atoi(maxConcurrent); err == nil && parsed > 0 {
			config.MaxConcurrent = parsed
		}
	}
	if staleAfter := c.Query("stale_after_days"); staleAfter != "" {
		if parsed, err := strconv.Atoi(staleAfter); err == nil && parsed > 0 {
			config.StaleAfterDays = parsed
		}
	}

	stats, err := h.pipeline.RunOnce(config)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Pipeline cycle failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Pipeline cycle completed",
		"stats":     stats,
		"summary":   stats.Summary(),
		"timestamp": time.Now(),
	})
}
