// Package otp owns the one-time-code lifecycle: issue, deliver, verify,
// consume. A code moves through Sent -> Verified (consumed) or silently
// expires; a resend overwrites the live code for that address.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/careers-intake-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Store is the persistence the lifecycle needs. Put overwrites any live
// record for the same email.
type Store interface {
	Put(ctx context.Context, rec *domain.OTPRecord) error
	Get(ctx context.Context, email string) (*domain.OTPRecord, error)
	Delete(ctx context.Context, email string) error
	BumpAttempts(ctx context.Context, email string) error
}

// CodeSender delivers a raw code to the candidate.
type CodeSender interface {
	SendCode(email, code string) error
}

type Service interface {
	// Issue generates, stores and delivers a fresh code for email,
	// invalidating any previous one. Fails closed: if delivery fails no
	// usable code is left behind.
	Issue(ctx context.Context, email string) error
	// Verify checks a candidate-supplied code. It returns false for a
	// missing record, an expired record, or a wrong code, without
	// distinguishing them. A successful verify consumes the code.
	Verify(ctx context.Context, email, code string) (bool, error)
}

type ServiceDeps struct {
	Store  Store
	Sender CodeSender
	TTL    time.Duration
	Now    func() time.Time // nil means time.Now
}

type service struct {
	store  Store
	sender CodeSender
	ttl    time.Duration
	now    func() time.Time
}

func NewService(deps ServiceDeps) Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.TTL == 0 {
		deps.TTL = domain.OTPTTLSeconds * time.Second
	}
	return &service{store: deps.Store, sender: deps.Sender, ttl: deps.TTL, now: deps.Now}
}

func (s *service) Issue(ctx context.Context, email string) error {
	code, err := generateCode()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	rec := &domain.OTPRecord{
		Email:     email,
		CodeHash:  string(hash),
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return fmt.Errorf("store otp: %w", domain.ErrCollaborator)
	}

	if err := s.sender.SendCode(email, code); err != nil {
		// Fail closed: the candidate has no way to learn this code, so a
		// stored record would just be a locked door.
		if delErr := s.store.Delete(ctx, email); delErr != nil {
			slog.Warn("could not remove undeliverable otp", "email", email, "err", delErr)
		}
		slog.Error("otp delivery failed", "email", email, "err", err)
		return fmt.Errorf("deliver otp: %w", domain.ErrCollaborator)
	}
	return nil
}

func (s *service) Verify(ctx context.Context, email, code string) (bool, error) {
	rec, err := s.store.Get(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load otp: %w", domain.ErrCollaborator)
	}
	if rec.ExpiresAt < s.now().Unix() {
		return false, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.CodeHash), []byte(code)) != nil {
		if err := s.store.BumpAttempts(ctx, email); err != nil {
			slog.Warn("could not bump otp attempts", "email", email, "err", err)
		}
		return false, nil
	}
	// Consume: a code verifies at most once.
	if err := s.store.Delete(ctx, email); err != nil {
		slog.Warn("could not consume verified otp", "email", email, "err", err)
	}
	return true, nil
}

// generateCode returns a uniformly random 6-digit decimal code, leading
// zeros preserved.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
