// Package httpapi exposes the job portal over HTTP: a chi router with
// cookie/Bearer token authentication in front of the user, OTP, job and
// application services.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/jobhub/internal/logging"
	"github.com/dmitrijs2005/jobhub/internal/server/auth"
	"github.com/dmitrijs2005/jobhub/internal/server/models"
	"github.com/dmitrijs2005/jobhub/internal/server/services"
)

const sessionCookieName = "token"

// Server is the HTTP front of the job portal.
type Server struct {
	address       string
	logger        logging.Logger
	gate          *auth.Gate
	users         *services.UserService
	otp           *services.OTPService
	jobs          *services.JobService
	applications  *services.ApplicationService
	tokenValidity time.Duration
}

// NewServer wires the services behind an HTTP server bound to address.
func NewServer(address string, l logging.Logger, gate *auth.Gate,
	us *services.UserService, os *services.OTPService,
	js *services.JobService, as *services.ApplicationService,
	tokenValidity time.Duration) *Server {
	return &Server{
		address:       address,
		logger:        l.With("module", "http_server"),
		gate:          gate,
		users:         us,
		otp:           os,
		jobs:          js,
		applications:  as,
		tokenValidity: tokenValidity,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.identify)

	r.Get("/ping", s.handlePing)
	r.Get("/jobs", s.handleListJobs)
	r.Get("/jobs/{jobID}", s.handleGetJob)

	r.Route("/user", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Get("/logout", s.handleLogout)
		r.Post("/forgetPassword", s.handleForgetPassword)
		r.Post("/verifyOtp", s.handleVerifyOTP)
		r.Post("/resetPassword", s.handleResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(s.requireRole(""))
			r.Get("/profile", s.handleProfile)
			r.Get("/appliedJobs", s.handleAppliedJobs)
			r.Get("/appliedJobs/filter", s.handleAppliedJobsFilter)
			r.Post("/applyJob/{jobID}", s.handleApplyJob)
			r.Post("/updateResume/{jobID}", s.handleUpdateResume)
			r.Get("/downloadResume/{jobID}", s.handleDownloadResume)
			r.Delete("/appliedJobs/{jobID}/withdraw", s.handleWithdraw)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireRole(models.RoleAdmin))
		r.Post("/addJob", s.handleAddJob)
		r.Put("/modifyJob/{jobID}", s.handleModifyJob)
		r.Delete("/deleteJob/{jobID}", s.handleDeleteJob)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
