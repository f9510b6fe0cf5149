// Package handler exposes the HTTP API: auth, profile, provider preference,
// and media uploads.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/perkloop/perkloop/internal/account"
	"github.com/perkloop/perkloop/internal/auth"
	"github.com/perkloop/perkloop/pkg/pinning"
)

// AuthService is the slice of the auth layer the handlers call.
type AuthService interface {
	Register(ctx context.Context, email, password, wallet string) (*auth.Session, error)
	Login(ctx context.Context, email, password string) (*auth.Session, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*auth.Session, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, current, newPassword string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// ProfileService is the slice of the account layer the handlers call.
type ProfileService interface {
	Fetch(ctx context.Context, wallet string, sess *account.SessionInfo) account.Profile
	Update(ctx context.Context, wallet string, upd account.ProfileUpdate, sess *account.SessionInfo) account.UpdateResult
	PreferredProvider(ctx context.Context, wallet string) pinning.Provider
	SetPreferredProvider(ctx context.Context, wallet string, p pinning.Provider) error
}

// Uploader routes media uploads to a pinning provider.
type Uploader interface {
	Upload(ctx context.Context, f pinning.File, preferred pinning.Provider) pinning.Outcome
}

// Deps carries everything the router needs.
type Deps struct {
	Log            *slog.Logger
	Auth           AuthService
	Profiles       ProfileService
	Uploads        Uploader
	Healthchecks   []func(ctx context.Context) error
	MaxUploadSize  int64
	RequestTimeout time.Duration
}

// New assembles the chi router with all routes and middleware.
func New(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.MaxUploadSize <= 0 {
		d.MaxUploadSize = 32 << 20
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 30 * time.Second
	}

	authH := &authHandler{svc: d.Auth, log: d.Log}
	profileH := &profileHandler{svc: d.Profiles, log: d.Log}
	uploadH := &uploadHandler{
		uploads:  d.Uploads,
		profiles: d.Profiles,
		log:      d.Log,
		maxSize:  d.MaxUploadSize,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Recover(d.Log))
	r.Use(middleware.Timeout(d.RequestTimeout))

	r.Get("/healthz", healthHandler(d.Healthchecks))

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authH.register)
			r.Post("/login", authH.login)
			r.Post("/password/forgot", authH.forgotPassword)
			r.Post("/password/reset", authH.resetPassword)

			r.Group(func(r chi.Router) {
				r.Use(RequireSession(d.Auth))
				r.Post("/logout", authH.logout)
				r.Post("/password", authH.changePassword)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireSession(d.Auth))

			r.Get("/profile", profileH.fetch)
			r.Patch("/profile", profileH.update)
			r.Get("/profile/storage-provider", profileH.getProvider)
			r.Put("/profile/storage-provider", profileH.setProvider)

			r.Post("/uploads", uploadH.upload)
		})
	})

	return r
}

// healthHandler runs every probe and reports aggregate readiness.
func healthHandler(checks []func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				respondError(w, http.StatusServiceUnavailable, err.Error())
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
