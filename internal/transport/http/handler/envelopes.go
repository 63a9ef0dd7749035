package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/careers-intake-api/internal/domain"
)

// Envelope is the generic success/message response wrapper.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// VerifyEnvelope wraps OTP verification responses.
type VerifyEnvelope struct {
	Success  bool `json:"success"`
	Verified bool `json:"verified"`
}

// QuotaEnvelope wraps the read-only quota preview.
type QuotaEnvelope struct {
	CanSubmit bool `json:"canSubmit"`
	Count     int  `json:"count"`
	Limit     int  `json:"limit"`
	Remaining int  `json:"remaining"`
}

// SubmitEnvelope wraps application submission outcomes.
type SubmitEnvelope struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	ApplicationID string `json:"applicationId,omitempty"`
	Score         int    `json:"score"`
	ATSStatus     string `json:"atsStatus"`
	Result        string `json:"result"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Envelope{Success: false, Message: msg})
}

// httpError maps domain sentinel errors onto HTTP statuses. Internal
// details never leak: the client sees the wrapped message for request-level
// problems and a generic line for everything else.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, userMessage(err, "Invalid request"))
	case errors.Is(err, domain.ErrQuotaExceeded):
		writeError(w, http.StatusBadRequest, userMessage(err, "Submission limit reached"))
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrCollaborator):
		writeError(w, http.StatusInternalServerError, "Failed to process application. Please try again.")
	default:
		writeError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}

// userMessage strips the sentinel suffix that services append with %w,
// leaving the human-readable part.
func userMessage(err error, fallback string) string {
	msg := err.Error()
	for _, sentinel := range []error{domain.ErrBadRequest, domain.ErrQuotaExceeded} {
		suffix := ": " + sentinel.Error()
		if len(msg) > len(suffix) && msg[len(msg)-len(suffix):] == suffix {
			return msg[:len(msg)-len(suffix)]
		}
	}
	if msg == "" {
		return fallback
	}
	return msg
}
