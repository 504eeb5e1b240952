package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/launchforge/accel-api/internal/logger"
	"github.com/launchforge/accel-api/internal/matching"
	"github.com/launchforge/accel-api/internal/repository"
)

// MatchPipeline periodically refreshes pending matches for portfolio
// startups whose rankings have gone stale.
type MatchPipeline struct {
	repos     *repository.Repositories
	matching  MatchingService
	logger    logger.Logger
	isRunning bool
	stopChan  chan struct{}
	wg        sync.WaitGroup
	mu        sync.RWMutex
}

// NewMatchPipeline creates a refresh pipeline over an existing service set
func NewMatchPipeline(repos *repository.Repositories, matchingService MatchingService, log logger.Logger) *MatchPipeline {
	return &MatchPipeline{
		repos:    repos,
		matching: matchingService,
		logger:   log,
		stopChan: make(chan struct{}),
	}
}

// PipelineConfig contains configuration for the match refresh pipeline
type PipelineConfig struct {
	BatchSize       int `json:"batch_size"`        // Startups refreshed per cycle
	IntervalMinutes int `json:"interval_minutes"`  // How often a cycle runs
	MaxConcurrent   int `json:"max_concurrent"`    // Concurrent refresh operations
	StaleAfterDays  int `json:"stale_after_days"`  // Rankings older than this are stale
}

// DefaultPipelineConfig returns sensible defaults
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		BatchSize:       25,
		IntervalMinutes: 60,
		MaxConcurrent:   5,
		StaleAfterDays:  7,
	}
}

// Start begins the refresh loop
func (p *MatchPipeline) Start(config PipelineConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return fmt.Errorf("pipeline is already running")
	}
	p.isRunning = true

	// A fresh channel per run so the pipeline can be started again after a
	// Stop closed the previous one.
	p.stopChan = make(chan struct{})

	p.wg.Add(1)
	go p.run(config, p.stopChan)

	p.logger.Info("Match pipeline started",
		"batch_size", config.BatchSize,
		"interval_minutes", config.IntervalMinutes,
		"max_concurrent", config.MaxConcurrent)
	return nil
}

// Stop gracefully stops the pipeline
func (p *MatchPipeline) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isRunning {
		return fmt.Errorf("pipeline is not running")
	}

	close(p.stopChan)
	p.wg.Wait()
	p.isRunning = false

	p.logger.Info("Match pipeline stopped")
	return nil
}

// IsRunning reports whether the loop is active
func (p *MatchPipeline) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.isRunning
}

// RunOnce executes a single refresh cycle
func (p *MatchPipeline) RunOnce(config PipelineConfig) (*PipelineStats, error) {
	return p.executeCycle(context.Background(), config)
}

func (p *MatchPipeline) run(config PipelineConfig, stop <-chan struct{}) {
	defer p.wg.Done()

	ticker := time.NewTicker(time.Duration(config.IntervalMinutes) * time.Minute)
	defer ticker.Stop()

	ctx := context.Background()
	if stats, err := p.executeCycle(ctx, config); err != nil {
		p.logger.Error("Initial refresh cycle failed", err)
	} else {
		p.logger.Info("Initial refresh cycle completed", "summary", stats.Summary())
	}

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if stats, err := p.executeCycle(ctx, config); err != nil {
				p.logger.Error("Refresh cycle failed", err)
			} else {
				p.logger.Info("Refresh cycle completed", "summary", stats.Summary())
			}
		}
	}
}

// executeCycle refreshes matches for every stale startup, bounded by a
// semaphore.
func (p *MatchPipeline) executeCycle(ctx context.Context, config PipelineConfig) (*PipelineStats, error) {
	stats := &PipelineStats{
		StartTime: time.Now(),
		BatchSize: config.BatchSize,
	}

	staleBefore := time.Now().AddDate(0, 0, -config.StaleAfterDays)
	startupIDs, err := p.repos.Match.GetStaleStartupIDs(staleBefore, config.BatchSize)
	if err != nil {
		return stats, fmt.Errorf("failed to find stale startups: %w", err)
	}

	stats.StartupsFound = len(startupIDs)
	if len(startupIDs) == 0 {
		stats.EndTime = time.Now()
		return stats, nil
	}

	semaphore := make(chan struct{}, config.MaxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, id := range startupIDs {
		wg.Add(1)
		go func(startupID uuid.UUID) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			mu.Lock()
			stats.StartupsProcessed++
			mu.Unlock()

			_, err := p.matching.GenerateForStartup(ctx, startupID.String(), matching.Request{})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.StartupsFailed++
				p.logger.Warn("Failed to refresh matches", "startup_id", startupID, "error", err)
			} else {
				stats.StartupsSucceeded++
			}
		}(id)
	}

	wg.Wait()
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	return stats, nil
}

// GetStatus returns current pipeline and portfolio match counts
func (p *MatchPipeline) GetStatus() (PipelineStatus, error) {
	status := PipelineStatus{
		IsRunning: p.IsRunning(),
		Timestamp: time.Now(),
	}

	activeIDs, err := p.repos.Startup.GetActiveIDs()
	if err != nil {
		return status, err
	}
	status.ActiveStartups = len(activeIDs)

	staleBefore := time.Now().AddDate(0, 0, -DefaultPipelineConfig().StaleAfterDays)
	staleIDs, err := p.repos.Match.GetStaleStartupIDs(staleBefore, len(activeIDs)+1)
	if err != nil {
		return status, err
	}
	status.StaleStartups = len(staleIDs)

	return status, nil
}

// PipelineStats summarizes one refresh cycle
type PipelineStats struct {
	StartTime         time.Time     `json:"start_time"`
	EndTime           time.Time     `json:"end_time"`
	Duration          time.Duration `json:"duration"`
	BatchSize         int           `json:"batch_size"`
	StartupsFound     int           `json:"startups_found"`
	StartupsProcessed int           `json:"startups_processed"`
	StartupsSucceeded int           `json:"startups_succeeded"`
	StartupsFailed    int           `json:"startups_failed"`
}

func (s *PipelineStats) Summary() string {
	return fmt.Sprintf("processed=%d, succeeded=%d, failed=%d, duration=%v",
		s.StartupsProcessed, s.StartupsSucceeded, s.StartupsFailed, s.Duration.Round(time.Second))
}

// PipelineStatus is the live view reported by the status endpoint
type PipelineStatus struct {
	IsRunning      bool      `json:"is_running"`
	ActiveStartups int       `json:"active_startups"`
	StaleStartups  int       `json:"stale_startups"`
	Timestamp      time.Time `json:"timestamp"`
}
