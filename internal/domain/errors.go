package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound      = errors.New("not found")
	ErrBadRequest    = errors.New("bad request")
	ErrRateLimited   = errors.New("too many requests")
	ErrQuotaExceeded = errors.New("submission limit reached")
	ErrCollaborator  = errors.New("upstream dependency failed")
)
