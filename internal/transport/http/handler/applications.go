package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/careers-intake-api/internal/application/intake"
)

// maxResumeSize caps the uploaded resume at 5 MiB.
const maxResumeSize = 5 << 20

// ApplicationHandler handles application submissions.
type ApplicationHandler struct {
	svc intake.Service
}

func NewApplicationHandler(svc intake.Service) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxResumeSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	f, header, err := r.FormFile("resume")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Resume file is required")
		return
	}
	defer f.Close()
	resume, err := io.ReadAll(io.LimitReader(f, maxResumeSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read resume file")
		return
	}
	if len(resume) > maxResumeSize {
		writeError(w, http.StatusRequestEntityTooLarge, "resume file too large")
		return
	}

	sub := intake.Submission{
		FullName:          r.FormValue("fullName"),
		Email:             normalizeEmail(r.FormValue("email")),
		Phone:             r.FormValue("phone"),
		City:              r.FormValue("city"),
		State:             r.FormValue("state"),
		LinkedIn:          r.FormValue("linkedin"),
		CollegeName:       r.FormValue("collegeName"),
		CurrentCompany:    r.FormValue("currentCompany"),
		JobCategory:       r.FormValue("jobCategory"),
		CustomJobRole:     r.FormValue("customJobRole"),
		Description:       r.FormValue("description"),
		Resume:            resume,
		ResumeFilename:    header.Filename,
		ResumeContentType: header.Header.Get("Content-Type"),
	}

	res, err := h.svc.Submit(r.Context(), sub)
	if err != nil {
		var qe *intake.QuotaError
		if errors.As(err, &qe) {
			writeError(w, http.StatusBadRequest, "You have reached the maximum limit of "+
				strconv.Itoa(qe.Status.Limit)+" applications for this email address")
			return
		}
		httpError(w, err)
		return
	}

	if !res.Qualified {
		// Rejection is a normal pipeline outcome, not a transport error.
		writeJSON(w, http.StatusOK, SubmitEnvelope{
			Success:   false,
			Message:   "Application does not meet ATS criteria.",
			Score:     res.Score,
			ATSStatus: res.ATSStatus,
			Result:    "REJECTED_BY_ATS",
		})
		return
	}
	writeJSON(w, http.StatusOK, SubmitEnvelope{
		Success:       true,
		Message:       "Application submitted successfully.",
		ApplicationID: res.ApplicationID,
		Score:         res.Score,
		ATSStatus:     res.ATSStatus,
		Result:        "QUALIFIED",
	})
}
