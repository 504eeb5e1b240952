package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/launchforge/accel-api/internal/database"
	"github.com/launchforge/accel-api/internal/logger"
	"github.com/launchforge/accel-api/internal/repository"
	"github.com/launchforge/accel-api/internal/services"
	"github.com/launchforge/accel-api/pkg/config"
)

func main() {
	fmt.Println("Accelerator Match Refresh Pipeline")
	fmt.Println("==================================")

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize configuration
	cfg := config.New()
	appLogger := logger.New(cfg.Environment)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	repos := repository.NewRepositories(db.DB)
	svcs := services.NewServices(db.DB, cfg, services.Dependencies{Logger: appLogger})
	pipeline := services.NewMatchPipeline(repos, svcs.Matching, appLogger)

	pipelineConfig := parsePipelineConfig()

	fmt.Printf("Pipeline Configuration:\n")
	fmt.Printf("   Batch Size: %d startups\n", pipelineConfig.BatchSize)
	fmt.Printf("   Interval: %d minutes\n", pipelineConfig.IntervalMinutes)
	fmt.Printf("   Max Concurrent: %d refreshes\n", pipelineConfig.MaxConcurrent)
	fmt.Printf("   Stale After: %d days\n", pipelineConfig.StaleAfterDays)

	// One-time run mode
	if len(os.Args) > 1 && os.Args[1] == "--once" {
		fmt.Println("\nRunning one-time match refresh cycle...")
		stats, err := pipeline.RunOnce(pipelineConfig)
		if err != nil {
			appLogger.Fatal("One-time refresh failed", err)
		}

		fmt.Printf("\nRefresh completed in %v\n", stats.Duration.Round(time.Second))
		fmt.Println(stats.Summary())
		return
	}

	// Start the automated pipeline
	if err := pipeline.Start(pipelineConfig); err != nil {
		appLogger.Fatal("Failed to start pipeline", err)
	}

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	fmt.Println("\nMatch pipeline is running. Press Ctrl+C to stop.")
	<-sigChan

	fmt.Println("\nShutting down...")
	if err := pipeline.Stop(); err != nil {
		appLogger.Error("Failed to stop pipeline cleanly", err)
	}
	fmt.Println("Pipeline stopped")
}

func parsePipelineConfig() services.PipelineConfig {
	config := services.DefaultPipelineConfig()

	if batchSize := os.Getenv("PIPELINE_BATCH_SIZE"); batchSize != "" {
		if parsed, err := strconv.Atoi(batchSize); err == nil && parsed > 0 {
			config.BatchSize = parsed
		}
	}
	if interval := os.Getenv("PIPELINE_INTERVAL_MINUTES"); interval != "" {
		if parsed, err := strconv.Atoi(interval); err == nil && parsed > 0 {
			config.IntervalMinutes = parsed
		}
	}
	if maxConcurrent := os.Getenv("PIPELINE_MAX_CONCURRENT"); maxConcurrent != "" {
		if parsed, err := strconv.Atoi(maxConcurrent); err == nil && parsed > 0 {
			config.MaxConcurrent = parsed
		}
	}
	if staleAfter := os.Getenv("PIPELINE_STALE_AFTER_DAYS"); staleAfter != "" {
		if parsed, err := strconv.Atoi(staleAfter); err == nil && parsed > 0 {
			config.StaleAfterDays = parsed
		}
	}

	return config
}
