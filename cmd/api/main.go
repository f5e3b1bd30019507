package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deals-api/internal/config"
	"github.com/deals-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/deals-api/internal/infrastructure/jwt"
	s3infra "github.com/deals-api/internal/infrastructure/s3"
	"github.com/deals-api/internal/infrastructure/smtp"
	"github.com/deals-api/internal/infrastructure/sns"
	transporthttp "github.com/deals-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("JWT provider: %v", err)
	}

	// S3 store for verification documents.
	s3Client := s3infra.NewClient(cfg)
	documentStore := s3infra.NewStore(s3Client, cfg.S3BucketName)

	mailer := smtp.NewMailer(cfg)

	// Claim event publisher is optional; without a topic the API still runs.
	var events transporthttp.EventPublisher
	if p, err := sns.NewPublisher(cfg); err == nil {
		events = p
	} else {
		log.Printf("WARN: claim event publisher not available: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:      dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		DealRepo:      dynamo.NewDealRepo(dynamoClient, cfg.DynamoTables.Deals),
		ClaimRepo:     dynamo.NewClaimRepo(dynamoClient, cfg.DynamoTables.Claims),
		DocumentStore: documentStore,
		Mailer:        mailer,
		Events:        events,
		JWTProvider:   jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
