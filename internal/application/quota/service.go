// Package quota caps accepted submissions per email address. Rejected
// submissions count against the cap; submissions that never produced a
// record (failed reviewer notification) do not.
package quota

import (
	"context"
	"fmt"

	"github.com/careers-intake-api/internal/domain"
)

// Counter is the one store operation the guard needs.
type Counter interface {
	CountByEmail(ctx context.Context, email string) (int, error)
}

// Status is a point-in-time quota snapshot for one email.
type Status struct {
	Count     int `json:"count"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

// CanSubmit reports whether another submission is allowed.
func (s Status) CanSubmit() bool { return s.Remaining > 0 }

type Service interface {
	Status(ctx context.Context, email string) (Status, error)
}

type service struct {
	counter Counter
	limit   int
}

func NewService(counter Counter, limit int) Service {
	return &service{counter: counter, limit: limit}
}

// Status computes remaining = limit - count. The read is not atomic with
// any later insert: two concurrent submissions from one email can both see
// headroom and both land. Accepted behavior, matched by the intake tests.
func (s *service) Status(ctx context.Context, email string) (Status, error) {
	count, err := s.counter.CountByEmail(ctx, email)
	if err != nil {
		return Status{}, fmt.Errorf("count submissions: %w", domain.ErrCollaborator)
	}
	remaining := s.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Status{Count: count, Limit: s.limit, Remaining: remaining}, nil
}
