package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/careers-intake-api/internal/application/intake"
	"github.com/careers-intake-api/internal/application/otp"
	"github.com/careers-intake-api/internal/application/quota"
	"github.com/careers-intake-api/internal/application/resume"
	"github.com/careers-intake-api/internal/config"
	"github.com/careers-intake-api/internal/pkg/ratelimit"
	"github.com/careers-intake-api/internal/transport/http/handler"
	appmiddleware "github.com/careers-intake-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Every endpoint here runs before any identity exists, so throttles key
	// on source IP and, for verify, additionally on the declared email.
	otpSendTier := ratelimit.NewTier("otp-send", 5, 10*time.Minute)
	otpVerifyIPTier := ratelimit.NewTier("otp-verify-ip", 10, 10*time.Minute)
	otpVerifyEmailTier := ratelimit.NewTier("otp-verify-email", 5, 10*time.Minute)
	submitTier := ratelimit.NewTier("submit", 3, time.Hour)
	submitCeiling := ratelimit.NewCeiling(cfg.GlobalSubmitPerHour, time.Hour)

	quotaSvc := quota.NewService(deps.CandidateRepo, cfg.SubmissionLimit)
	otpSvc := otp.NewService(otp.ServiceDeps{
		Store:  deps.OTPRepo,
		Sender: deps.Mailer,
	})
	intakeSvc := intake.NewService(intake.ServiceDeps{
		Candidates:  deps.CandidateRepo,
		Quota:       quotaSvc,
		Parser:      resume.NewParser(),
		Scorer:      resume.NewScorer(),
		Notifier:    deps.Mailer,
		Archive:     deps.Archive,
		Alerter:     deps.Alerter,
		CallTimeout: time.Duration(cfg.CollaboratorTimeout) * time.Second,
	})

	healthH := handler.NewHealthHandler()
	otpH := handler.NewOTPHandler(otpSvc, otpVerifyEmailTier)
	candidateH := handler.NewCandidateHandler(quotaSvc)
	applicationH := handler.NewApplicationHandler(intakeSvc)

	r.Get("/health", healthH.Status)
	r.With(appmiddleware.LimitByIP(otpSendTier)).Post("/otp/send", otpH.Send)
	r.With(appmiddleware.LimitByIP(otpVerifyIPTier)).Post("/otp/verify", otpH.Verify)
	r.Post("/candidates/check-duplicate", candidateH.CheckDuplicate)
	r.With(
		appmiddleware.LimitByIP(submitTier),
		appmiddleware.LimitGlobal(submitCeiling),
	).Post("/applications/submit", applicationH.Submit)

	return r
}
