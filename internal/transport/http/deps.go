package http

import (
	"context"

	"github.com/careers-intake-api/internal/domain"
	"github.com/careers-intake-api/internal/infrastructure/mail"
	"github.com/careers-intake-api/internal/infrastructure/sns"
)

// CandidateRepository is the minimal interface the router requires from
// the candidate store.
type CandidateRepository interface {
	Insert(ctx context.Context, c *domain.Candidate) error
	CountByEmail(ctx context.Context, email string) (int, error)
}

// OTPRepository is the minimal interface the router requires from the
// verification-code store.
type OTPRepository interface {
	Put(ctx context.Context, rec *domain.OTPRecord) error
	Get(ctx context.Context, email string) (*domain.OTPRecord, error)
	Delete(ctx context.Context, email string) error
	BumpAttempts(ctx context.Context, email string) error
}

// ResumeArchive stores original resume files for qualified candidates.
type ResumeArchive interface {
	Store(ctx context.Context, candidateID, filename string, data []byte, contentType string) (string, error)
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	CandidateRepo CandidateRepository
	OTPRepo       OTPRepository
	Archive       ResumeArchive // optional
	Mailer        mail.Mailer
	Alerter       sns.Alerter // optional
}
