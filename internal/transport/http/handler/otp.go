package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/careers-intake-api/internal/application/otp"
	"github.com/careers-intake-api/internal/pkg/ratelimit"
)

// OTPHandler handles the email verification flow endpoints.
type OTPHandler struct {
	svc otp.Service
	// emailTier throttles verify attempts per declared email. It is keyed
	// on request content, not authenticated identity — this flow runs
	// before any identity exists.
	emailTier *ratelimit.Tier
}

func NewOTPHandler(svc otp.Service, emailTier *ratelimit.Tier) *OTPHandler {
	return &OTPHandler{svc: svc, emailTier: emailTier}
}

type emailRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	var body emailRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email := normalizeEmail(body.Email)
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	if err := h.svc.Issue(r.Context(), email); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "OTP sent to your email"})
}

func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var body emailRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email := normalizeEmail(body.Email)
	if email == "" || body.OTP == "" {
		writeError(w, http.StatusBadRequest, "email and otp are required")
		return
	}
	if !h.emailTier.Allow(email) {
		writeJSON(w, http.StatusTooManyRequests, Envelope{
			Success: false,
			Message: "Too many requests. Please try again later.",
		})
		return
	}
	verified, err := h.svc.Verify(r.Context(), email, body.OTP)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VerifyEnvelope{Success: true, Verified: verified})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
