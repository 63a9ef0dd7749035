package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	SNSRegion   string
	SNSTopicARN string // ops-alert topic; empty disables alerting

	SMTPHost      string
	SMTPPort      int
	SMTPFrom      string
	SMTPUsername  string
	SMTPPassword  string
	ReviewerEmail string

	SubmissionLimit     int // accepted applications per email
	GlobalSubmitPerHour int // shared ceiling across all clients
	CollaboratorTimeout int // seconds, per parse/score/notify/store call

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Candidates string
	OTPs       string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "5000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Candidates: getEnv("DYNAMO_TABLE_CANDIDATES", "candidates"),
			OTPs:       getEnv("DYNAMO_TABLE_OTPS", "otps"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "intake-resumes"),

		SNSRegion:   getEnv("SNS_REGION", "us-east-1"),
		SNSTopicARN: getEnv("SNS_OPS_TOPIC_ARN", ""),

		SMTPHost:      getEnv("SMTP_HOST", "localhost"),
		SMTPPort:      getEnvInt("SMTP_PORT", 1025),
		SMTPFrom:      getEnv("SMTP_FROM", "careers@example.com"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		ReviewerEmail: getEnv("REVIEWER_EMAIL", "hr@example.com"),

		SubmissionLimit:     getEnvInt("SUBMISSION_LIMIT", 3),
		GlobalSubmitPerHour: getEnvInt("GLOBAL_SUBMIT_PER_HOUR", 100),
		CollaboratorTimeout: getEnvInt("COLLABORATOR_TIMEOUT_SECONDS", 20),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
