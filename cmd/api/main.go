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

	"github.com/careers-intake-api/internal/config"
	"github.com/careers-intake-api/internal/infrastructure/dynamo"
	"github.com/careers-intake-api/internal/infrastructure/mail"
	s3infra "github.com/careers-intake-api/internal/infrastructure/s3"
	"github.com/careers-intake-api/internal/infrastructure/sns"
	transporthttp "github.com/careers-intake-api/internal/transport/http"
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

	// S3 resume archive.
	s3Client := s3infra.NewClient(cfg)
	archive := s3infra.NewArchive(s3Client, cfg.S3BucketName)

	// SMTP mailer for verification codes and reviewer notifications.
	mailer := mail.NewMailer(cfg)

	// SNS ops alerter (optional — graceful fallback when unconfigured).
	var alerter sns.Alerter
	if cfg.SNSTopicARN != "" {
		if a, err := sns.NewAlerter(cfg); err == nil {
			alerter = a
		} else {
			log.Printf("WARN: SNS alerter not available: %v", err)
		}
	}

	deps := &transporthttp.Deps{
		CandidateRepo: dynamo.NewCandidateRepo(dynamoClient, cfg.DynamoTables.Candidates),
		OTPRepo:       dynamo.NewOTPRepo(dynamoClient, cfg.DynamoTables.OTPs),
		Archive:       archive,
		Mailer:        mailer,
		Alerter:       alerter,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
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
