package handler

import (
	"encoding/json"
	"net/http"

	"github.com/careers-intake-api/internal/application/quota"
)

// CandidateHandler exposes the read-only quota preview.
type CandidateHandler struct {
	quota quota.Service
}

func NewCandidateHandler(q quota.Service) *CandidateHandler {
	return &CandidateHandler{quota: q}
}

func (h *CandidateHandler) CheckDuplicate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email := normalizeEmail(body.Email)
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	st, err := h.quota.Status(r.Context(), email)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, QuotaEnvelope{
		CanSubmit: st.CanSubmit(),
		Count:     st.Count,
		Limit:     st.Limit,
		Remaining: st.Remaining,
	})
}
