// Package intake is the qualification decision engine. One submission runs
// validate -> quota -> parse -> classify/score -> threshold, then either
// the qualified branch (notify the reviewer first, persist only after the
// notification succeeded) or the rejected branch (persist only).
//
// The ordering rule is carried by the type system: persistQualified takes a
// notifyReceipt, and the only producer of that value is a successful
// reviewer notification.
package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/careers-intake-api/internal/application/quota"
	"github.com/careers-intake-api/internal/domain"
	"github.com/careers-intake-api/internal/pkg/id"
	"github.com/careers-intake-api/internal/pkg/validate"
)

// ResumeParser extracts text and structured fields from resume bytes.
type ResumeParser interface {
	Parse(ctx context.Context, data []byte, mimeType string) (string, domain.ParsedResume, error)
}

// Scorer computes the 0..100 ATS score for non-exempt categories.
type Scorer interface {
	Score(ctx context.Context, fields domain.ParsedResume, text, category string) (int, error)
}

// ReviewerNotifier delivers a qualified submission to the human reviewer.
type ReviewerNotifier interface {
	NotifyReviewer(c *domain.Candidate, resume []byte, filename string) error
}

// CandidateStore persists submission records.
type CandidateStore interface {
	Insert(ctx context.Context, c *domain.Candidate) error
}

// ResumeArchive keeps the original resume file for qualified submissions.
type ResumeArchive interface {
	Store(ctx context.Context, candidateID, filename string, data []byte, contentType string) (string, error)
}

// OpsAlerter pages a human when the pipeline reaches a state it cannot
// repair (notified but not recorded).
type OpsAlerter interface {
	Alert(ctx context.Context, subject, message string) error
}

// Submission carries everything a submit request provides.
type Submission struct {
	FullName       string `validate:"required"`
	Email          string `validate:"required,email"`
	Phone          string `validate:"required"`
	City           string `validate:"required"`
	State          string `validate:"required"`
	LinkedIn       string
	CollegeName    string `validate:"required"`
	CurrentCompany string
	JobCategory    string `validate:"required"`
	CustomJobRole  string
	Description    string

	Resume            []byte `validate:"required"`
	ResumeFilename    string `validate:"required"`
	ResumeContentType string `validate:"required"`
}

// Result is the outcome of one evaluated submission.
type Result struct {
	Qualified     bool
	ApplicationID string // set only on the qualified branch
	Score         int
	ATSStatus     string
}

// QuotaError reports an exhausted submission quota with its numbers.
type QuotaError struct {
	Status quota.Status
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("you have reached the maximum limit of %d applications for this email address", e.Status.Limit)
}

func (e *QuotaError) Unwrap() error { return domain.ErrQuotaExceeded }

// notifyReceipt proves the reviewer notification succeeded. It is produced
// in exactly one place and required by persistQualified, so a qualified
// record cannot be written without it.
type notifyReceipt struct {
	sentAt time.Time
}

type Service interface {
	Submit(ctx context.Context, sub Submission) (*Result, error)
}

type ServiceDeps struct {
	Candidates  CandidateStore
	Quota       quota.Service
	Parser      ResumeParser
	Scorer      Scorer
	Notifier    ReviewerNotifier
	Archive     ResumeArchive // optional
	Alerter     OpsAlerter    // optional
	CallTimeout time.Duration // per collaborator call; 0 means 20s
	Now         func() time.Time
}

type service struct {
	deps ServiceDeps
}

func NewService(deps ServiceDeps) Service {
	if deps.CallTimeout == 0 {
		deps.CallTimeout = 20 * time.Second
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &service{deps: deps}
}

func (s *service) Submit(ctx context.Context, sub Submission) (*Result, error) {
	slog.Info("application_received", "email", sub.Email, "job_category", sub.JobCategory)

	// 1. Validation, before anything can have a side effect.
	if err := validate.Struct(sub); err != nil {
		return nil, fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}
	if sub.JobCategory == "Custom" && strings.TrimSpace(sub.CustomJobRole) == "" {
		return nil, fmt.Errorf("custom job role is required: %w", domain.ErrBadRequest)
	}

	// 2. Quota.
	qs, err := s.deps.Quota.Status(ctx, sub.Email)
	if err != nil {
		return nil, err
	}
	if !qs.CanSubmit() {
		return nil, &QuotaError{Status: qs}
	}

	// 3. Parse.
	text, fields, err := s.parse(ctx, sub)
	if err != nil {
		return nil, err
	}

	// 4. Classify and score.
	score, atsStatus, err := s.classify(ctx, fields, text, sub.JobCategory)
	if err != nil {
		return nil, err
	}
	slog.Info("ats_score_calculated", "email", sub.Email, "score", score, "category", sub.JobCategory)

	cand := s.buildCandidate(sub, fields, score, atsStatus)

	// 5. Threshold.
	if score < domain.QualifyThreshold {
		return s.reject(ctx, cand)
	}
	return s.qualify(ctx, cand, sub)
}

func (s *service) parse(ctx context.Context, sub Submission) (string, domain.ParsedResume, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.deps.CallTimeout)
	defer cancel()
	text, fields, err := s.deps.Parser.Parse(callCtx, sub.Resume, sub.ResumeContentType)
	if err != nil {
		if errors.Is(err, domain.ErrBadRequest) {
			return "", domain.ParsedResume{}, err
		}
		return "", domain.ParsedResume{}, fmt.Errorf("parse resume: %w", domain.ErrCollaborator)
	}
	return text, fields, nil
}

func (s *service) classify(ctx context.Context, fields domain.ParsedResume, text, category string) (int, string, error) {
	if domain.IsExemptCategory(category) {
		// Fixed passing score; a human reviews these downstream.
		return domain.ExemptScore, domain.ATSStatusSkipped, nil
	}
	callCtx, cancel := context.WithTimeout(ctx, s.deps.CallTimeout)
	defer cancel()
	score, err := s.deps.Scorer.Score(callCtx, fields, text, category)
	if err != nil {
		return 0, "", fmt.Errorf("score resume: %w", domain.ErrCollaborator)
	}
	return score, domain.ATSStatusCompleted, nil
}

func (s *service) buildCandidate(sub Submission, fields domain.ParsedResume, score int, atsStatus string) *domain.Candidate {
	now := s.deps.Now().UTC()
	customRole := ""
	if sub.JobCategory == "Custom" {
		customRole = strings.TrimSpace(sub.CustomJobRole)
	}
	return &domain.Candidate{
		CandidateID:    id.New(),
		FullName:       sub.FullName,
		Email:          sub.Email,
		Phone:          sub.Phone,
		City:           sub.City,
		State:          sub.State,
		LinkedIn:       sub.LinkedIn,
		CollegeName:    sub.CollegeName,
		CurrentCompany: sub.CurrentCompany,
		JobCategory:    sub.JobCategory,
		CustomJobRole:  customRole,
		Description:    sub.Description,
		ParsedResume:   fields,
		ATSScore:       score,
		ATSStatus:      atsStatus,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// reject persists the rejected record; no notification is attempted and no
// resume is retained, only the parsed fields.
func (s *service) reject(ctx context.Context, cand *domain.Candidate) (*Result, error) {
	cand.Status = domain.StatusRejected
	cand.NotifiedHR = false

	slog.Info("candidate_rejected", "email", cand.Email, "score", cand.ATSScore)

	callCtx, cancel := context.WithTimeout(ctx, s.deps.CallTimeout)
	defer cancel()
	if err := s.deps.Candidates.Insert(callCtx, cand); err != nil {
		return nil, fmt.Errorf("store rejected candidate: %w", domain.ErrCollaborator)
	}
	return &Result{Qualified: false, Score: cand.ATSScore, ATSStatus: cand.ATSStatus}, nil
}

// qualify runs the two-phase notify-then-persist step. The whole phase
// runs detached from request cancellation: once the reviewer email is in
// flight the pipeline must be allowed to reach a consistent end state even
// if the client has gone away.
func (s *service) qualify(ctx context.Context, cand *domain.Candidate, sub Submission) (*Result, error) {
	detached := context.WithoutCancel(ctx)

	receipt, err := s.notify(detached, cand, sub)
	if err != nil {
		slog.Error("email_send_failed", "email", cand.Email, "score", cand.ATSScore, "err", err)
		return nil, fmt.Errorf("notify reviewer: %w", domain.ErrCollaborator)
	}
	slog.Info("email_sent_success", "email", cand.Email, "score", cand.ATSScore)

	// Best effort: a failed archive never fails the submission.
	s.archive(detached, cand, sub)

	return s.persistQualified(detached, cand, receipt)
}

// notify is the only producer of notifyReceipt.
func (s *service) notify(ctx context.Context, cand *domain.Candidate, sub Submission) (notifyReceipt, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.deps.CallTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.deps.Notifier.NotifyReviewer(cand, sub.Resume, sub.ResumeFilename)
	}()
	select {
	case err := <-done:
		if err != nil {
			return notifyReceipt{}, err
		}
		return notifyReceipt{sentAt: s.deps.Now()}, nil
	case <-callCtx.Done():
		return notifyReceipt{}, callCtx.Err()
	}
}

func (s *service) archive(ctx context.Context, cand *domain.Candidate, sub Submission) {
	if s.deps.Archive == nil {
		return
	}
	callCtx, cancel := context.WithTimeout(ctx, s.deps.CallTimeout)
	defer cancel()
	key, err := s.deps.Archive.Store(callCtx, cand.CandidateID, sub.ResumeFilename, sub.Resume, sub.ResumeContentType)
	if err != nil {
		slog.Warn("resume_archive_failed", "email", cand.Email, "err", err)
		return
	}
	cand.ResumeKey = key
}

func (s *service) persistQualified(ctx context.Context, cand *domain.Candidate, receipt notifyReceipt) (*Result, error) {
	cand.Status = domain.StatusQualified
	cand.NotifiedHR = true

	callCtx, cancel := context.WithTimeout(ctx, s.deps.CallTimeout)
	defer cancel()
	if err := s.deps.Candidates.Insert(callCtx, cand); err != nil {
		// The reviewer was told about a candidate we now have no record
		// of. There is no compensating action; hand it to a human with
		// everything they need to reconcile.
		slog.Error("qualified_record_not_persisted",
			"email", cand.Email,
			"score", cand.ATSScore,
			"notified_at", receipt.sentAt,
			"err", err)
		if s.deps.Alerter != nil {
			msg := fmt.Sprintf("reviewer notified but candidate record not stored: email=%s score=%d notified_at=%s",
				cand.Email, cand.ATSScore, receipt.sentAt.Format(time.RFC3339))
			if alertErr := s.deps.Alerter.Alert(ctx, "intake reconciliation needed", msg); alertErr != nil {
				slog.Error("ops alert failed", "err", alertErr)
			}
		}
		return nil, fmt.Errorf("store qualified candidate: %w", domain.ErrCollaborator)
	}
	return &Result{
		Qualified:     true,
		ApplicationID: id.Short(cand.CandidateID),
		Score:         cand.ATSScore,
		ATSStatus:     cand.ATSStatus,
	}, nil
}

