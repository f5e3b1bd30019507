// Command seed loads demo users, a sample deal catalog and one claim into
// DynamoDB. Existing records with the same keys are overwritten.
package main

import (
	"context"
	"log"
	"time"

	"github.com/deals-api/internal/config"
	"github.com/deals-api/internal/domain"
	"github.com/deals-api/internal/infrastructure/dynamo"
	"github.com/deals-api/internal/pkg/id"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	ctx := context.Background()

	client := dynamo.NewClient(cfg)
	dynamo.Bootstrap(ctx, client, cfg.DynamoTables)

	userRepo := dynamo.NewUserRepo(client, cfg.DynamoTables.Users)
	dealRepo := dynamo.NewDealRepo(client, cfg.DynamoTables.Deals)
	claimRepo := dynamo.NewClaimRepo(client, cfg.DynamoTables.Claims)

	hash, err := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash demo password: %v", err)
	}

	now := time.Now().UTC()
	users := []*domain.User{
		{UserID: id.New(), Name: "John Doe", Email: "john@example.com", PasswordHash: string(hash), IsVerified: true, Role: domain.RoleUser, CreatedAt: now, UpdatedAt: now},
		{UserID: id.New(), Name: "Jane Smith", Email: "jane@example.com", PasswordHash: string(hash), IsVerified: false, Role: domain.RoleUser, CreatedAt: now, UpdatedAt: now},
		{UserID: id.New(), Name: "Ada Admin", Email: "admin@example.com", PasswordHash: string(hash), IsVerified: true, Role: domain.RoleAdmin, CreatedAt: now, UpdatedAt: now},
	}
	for _, u := range users {
		created, err := userRepo.Create(ctx, u)
		if err != nil {
			log.Fatalf("seed user %s: %v", u.Email, err)
		}
		if !created {
			log.Printf("user %s already exists, skipping", u.Email)
		}
	}
	log.Printf("seeded %d users", len(users))

	deals := sampleDeals(now)
	for _, d := range deals {
		if err := dealRepo.Put(ctx, d); err != nil {
			log.Fatalf("seed deal %q: %v", d.Title, err)
		}
	}
	log.Printf("seeded %d deals", len(deals))

	// One approved claim for John on the first deal.
	claim := &domain.Claim{
		ClaimID:   id.New(),
		UserID:    users[0].UserID,
		DealID:    deals[0].DealID,
		Status:    domain.ClaimStatusApproved,
		Metadata:  map[string]interface{}{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := claimRepo.Insert(ctx, claim); err != nil {
		log.Fatalf("seed claim: %v", err)
	}
	log.Println("seeded sample claim")

	log.Println("Seed completed. Demo accounts (password: demo123):")
	log.Println("  john@example.com  (verified)")
	log.Println("  jane@example.com  (unverified)")
	log.Println("  admin@example.com (admin)")
}

func sampleDeals(now time.Time) []*domain.Deal {
	date := func(s string) *time.Time {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			log.Fatalf("bad seed date %q: %v", s, err)
		}
		return &t
	}
	return []*domain.Deal{
		{
			DealID:      id.New(),
			Title:       "Stripe - Startup Program",
			Description: "Get 0% fees on your first $1M in payments processed. Stripe offers powerful tools for online businesses including payment processing, subscriptions, and business analytics.",
			Provider:    "Stripe",
			Tags:        []string{"Payments", "SaaS", "Finance"},
			ExpiresAt:   date("2025-12-31"),
			CreatedAt:   now, UpdatedAt: now,
		},
		{
			DealID:      id.New(),
			Title:       "GitHub Copilot - Student Free",
			Description: "Free access to GitHub Copilot for verified students. AI-powered code completion that helps you write better code, faster.",
			Provider:    "GitHub",
			IsLocked:    true,
			Tags:        []string{"DevTools", "AI", "Coding"},
			ExpiresAt:   date("2026-06-30"),
			CreatedAt:   now, UpdatedAt: now,
		},
		{
			DealID:      id.New(),
			Title:       "Notion - Personal Free",
			Description: "Free personal plan with unlimited pages and blocks. Notion is an all-in-one workspace for notes, docs, and collaboration.",
			Provider:    "Notion",
			Tags:        []string{"Productivity", "Notes", "Collaboration"},
			CreatedAt:   now, UpdatedAt: now,
		},
		{
			DealID:      id.New(),
			Title:       "Vercel - Pro Free for Open Source",
			Description: "Free Pro tier for open source maintainers. Vercel provides the best platform for deploying web applications with zero configuration.",
			Provider:    "Vercel",
			IsLocked:    true,
			Tags:        []string{"DevOps", "Hosting", "Web"},
			ExpiresAt:   date("2025-12-31"),
			CreatedAt:   now, UpdatedAt: now,
		},
		{
			DealID:      id.New(),
			Title:       "Slack - Free Forever",
			Description: "Free access for teams with unlimited users and 90-day message history. Slack brings all your communication together.",
			Provider:    "Slack",
			Tags:        []string{"Communication", "Team", "Chat"},
			CreatedAt:   now, UpdatedAt: now,
		},
		{
			DealID:      id.New(),
			Title:       "Figma - Professional Free",
			Description: "Free Professional plan for small teams up to 3 editors. Figma is the leading collaborative design tool.",
			Provider:    "Figma",
			Tags:        []string{"Design", "UI/UX", "Collaboration"},
			ExpiresAt:   date("2025-09-30"),
			CreatedAt:   now, UpdatedAt: now,
		},
		{
			DealID:      id.New(),
			Title:       "AWS Activate - Credits Program",
			Description: "Get up to $100,000 in credits across AWS services. Validated startups can access cloud computing resources for free.",
			Provider:    "Amazon Web Services",
			IsLocked:    true,
			Tags:        []string{"Cloud", "Infrastructure", "Credits"},
			ExpiresAt:   date("2025-12-31"),
			CreatedAt:   now, UpdatedAt: now,
		},
		{
			DealID:      id.New(),
			Title:       "Linear - Free for Teams",
			Description: "Free plan for small teams with unlimited issues and projects. Linear is a modern issue tracking tool.",
			Provider:    "Linear",
			Tags:        []string{"Project Management", "DevTools", "Workflow"},
			CreatedAt:   now, UpdatedAt: now,
		},
	}
}
