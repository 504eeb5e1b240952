package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/launchforge/accel-api/internal/auth"
	"github.com/launchforge/accel-api/internal/database"
	"github.com/launchforge/accel-api/internal/logger"
	"github.com/launchforge/accel-api/internal/matching"
	"github.com/launchforge/accel-api/internal/models"
	"github.com/launchforge/accel-api/internal/repository"
	"github.com/launchforge/accel-api/internal/services"
	"github.com/launchforge/accel-api/pkg/config"
)

const demoPassword = "demo-password-1"

func main() {
	fmt.Println("Accelerator Demo Seeder")
	fmt.Println("=======================")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.New()
	appLogger := logger.New(cfg.Environment)

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		appLogger.Fatal("Failed to run migrations", err)
	}

	repos := repository.NewRepositories(db.DB)
	svcs := services.NewServices(db.DB, cfg, services.Dependencies{Logger: appLogger})

	if err := seed(repos, svcs); err != nil {
		appLogger.Fatal("Seeding failed", err)
	}

	fmt.Println("\nDemo data created.")
	fmt.Printf("Partner login:  partner@demo.accel / %s\n", demoPassword)
	fmt.Printf("Founder logins: founder1@demo.accel ... founder4@demo.accel / %s\n", demoPassword)
}

func seed(repos *repository.Repositories, svcs *services.Services) error {
	hash, err := auth.HashPassword(demoPassword)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	partner := &models.User{Email: "partner@demo.accel", PasswordHash: hash, Role: models.RolePartner}
	if err := repos.User.Create(partner); err != nil {
		return fmt.Errorf("failed to create partner: %w", err)
	}

	if err := seedCandidates(repos); err != nil {
		return err
	}

	// Four founders with applications at different points in the funnel.
	forms := []struct {
		email string
		form  models.ApplicationForm
		stop  string // how far to advance: draft, submitted, assessed, approved
	}{
		{
			email: "founder1@demo.accel",
			form: models.ApplicationForm{
				CompanyName:    "Gridwise",
				OneLiner:       "Demand forecasting for community microgrids",
				Description:    "We help microgrid operators predict load and trade surplus capacity with neighboring grids using short-horizon forecasts.",
				TargetCustomer: "Independent microgrid operators in rural markets",
			},
			stop: "approved",
		},
		{
			email: "founder2@demo.accel",
			form: models.ApplicationForm{
				CompanyName:    "Freightless",
				OneLiner:       "Marketplace for backhaul trucking capacity",
				Description:    "Carriers post empty return legs, shippers fill them at a discount. We handle matching, insurance, and payment.",
				TargetCustomer: "Regional freight shippers",
			},
			stop: "assessed",
		},
		{
			email: "founder3@demo.accel",
			form: models.ApplicationForm{
				CompanyName:    "Plotline",
				OneLiner:       "Story-driven onboarding flows for SaaS",
				TargetCustomer: "Product-led SaaS teams",
			},
			stop: "submitted",
		},
		{
			email: "founder4@demo.accel",
			form: models.ApplicationForm{
				CompanyName: "Kelpberry",
				OneLiner:    "Seaweed-based packaging film",
			},
			stop: "draft",
		},
	}

	for _, f := range forms {
		founder := &models.User{Email: f.email, PasswordHash: hash, Role: models.RoleFounder}
		if err := repos.User.Create(founder); err != nil {
			return fmt.Errorf("failed to create founder %s: %w", f.email, err)
		}

		app, err := svcs.Application.Create(founder.ID.String(), &f.form)
		if err != nil {
			return fmt.Errorf("failed to create application for %s: %w", f.email, err)
		}
		if f.stop == "draft" {
			continue
		}

		if _, err := svcs.Application.Submit(app.ID.String()); err != nil {
			return fmt.Errorf("failed to submit %s: %w", f.form.CompanyName, err)
		}
		if f.stop == "submitted" {
			continue
		}

		if _, err := svcs.Application.ScheduleInterview(app.ID.String()); err != nil {
			return err
		}
		notes := "Strong founding team, clear view of the customer. Early pilot interest."
		if _, err := svcs.Application.CompleteInterview(app.ID.String(), notes); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		_, err = svcs.Application.GenerateAssessment(ctx, app.ID.String())
		cancel()
		if err != nil {
			return fmt.Errorf("failed to assess %s: %w", f.form.CompanyName, err)
		}
		if f.stop == "assessed" {
			continue
		}

		if _, err := svcs.Application.StartReview(app.ID.String()); err != nil {
			return err
		}
		result, err := svcs.Application.Decide(app.ID.String(), &models.DecisionRequest{
			Decision: "approve",
			Notes:    "Committee unanimous.",
		})
		if err != nil {
			return fmt.Errorf("failed to approve %s: %w", f.form.CompanyName, err)
		}

		// Give the approved startup an initial match slate.
		ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
		_, err = svcs.Matching.GenerateForStartup(ctx, result.Startup.ID.String(), matching.Request{
			ProblemArchetype: "marketplace_liquidity",
			Constraints:      []string{"b2b_sales"},
		})
		cancel()
		if err != nil {
			return fmt.Errorf("failed to generate matches for %s: %w", result.Startup.Name, err)
		}
	}

	return nil
}

func seedCandidates(repos *repository.Repositories) error {
	now := time.Now()
	recent := now.AddDate(0, -1, 0)
	lastYear := now.AddDate(-1, 0, 0)

	candidates := []*models.MatchCandidate{
		{
			ID:               uuid.New(),
			Name:             "Dana Vu",
			Kind:             "mentor",
			ExpertiseTags:    models.StringList{"b2b_sales", "pricing"},
			IndustryTags:     models.StringList{"logistics", "energy"},
			ArchetypeTags:    models.StringList{"marketplace_liquidity"},
			StagePreferences: models.StringList{models.StageMVP, models.StageEarlyTraction},
			Location:         "Austin",
			Availability:     "weekly",
			MaxConcurrent:    3,
			TrackRecord:      models.TrackRecord{SuccessCount: 9, TotalEngagements: 11, AvgRating: 4.7},
			LastEngagementAt: &recent,
		},
		{
			ID:               uuid.New(),
			Name:             "Marcus Oyelaran",
			Kind:             "investor",
			ExpertiseTags:    models.StringList{"fundraising", "go_to_market"},
			IndustryTags:     models.StringList{"climate", "energy"},
			ArchetypeTags:    models.StringList{"hardware_scaleup", "marketplace_liquidity"},
			StagePreferences: models.StringList{models.StageEarlyTraction, models.StageGrowth},
			Dealbreakers:     models.StringList{"pre_revenue"},
			Location:         "Berlin",
			Availability:     "monthly",
			MaxConcurrent:    5,
			TrackRecord:      models.TrackRecord{SuccessCount: 14, TotalEngagements: 20, AvgRating: 4.2},
			LastEngagementAt: &lastYear,
		},
		{
			ID:               uuid.New(),
			Name:             "Priya Raghunathan",
			Kind:             "mentor",
			ExpertiseTags:    models.StringList{"product", "user_research"},
			ArchetypeTags:    models.StringList{"churn_reduction"},
			StagePreferences: models.StringList{models.StageProblemDiscovery, models.StageCustomerDiscovery},
			Location:         "Remote",
			Availability:     "biweekly",
			MaxConcurrent:    2,
			TrackRecord:      models.TrackRecord{SuccessCount: 4, TotalEngagements: 5, AvgRating: 4.9},
			LastEngagementAt: &recent,
		},
	}

	for _, candidate := range candidates {
		if err := repos.Candidate.Create(candidate); err != nil {
			return fmt.Errorf("failed to create candidate %s: %w", candidate.Name, err)
		}
	}
	return nil
}
