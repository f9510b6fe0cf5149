package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/perkloop/perkloop/internal/auth"
)

type authHandler struct {
	svc AuthService
	log *slog.Logger
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Wallet   string `json:"wallet_address,omitempty"`
}

type sessionResponse struct {
	Token     string `json:"token"`
	Email     string `json:"email"`
	ExpiresAt string `json:"expires_at"`
}

func newSessionResponse(s *auth.Session) sessionResponse {
	return sessionResponse{
		Token:     s.Token,
		Email:     s.Email,
		ExpiresAt: s.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

func (h *authHandler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	sess, err := h.svc.Register(r.Context(), req.Email, req.Password, req.Wallet)
	if err != nil {
		h.respondAuthError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, newSessionResponse(sess))
}

func (h *authHandler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondAuthError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (h *authHandler) logout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := h.svc.Logout(r.Context(), sess.Token); err != nil {
		h.log.ErrorContext(r.Context(), "logout failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to log out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *authHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess := sessionFrom(r.Context())
	if err := h.svc.UpdatePassword(r.Context(), sess.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		h.respondAuthError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *authHandler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil || req.Email == "" {
		respondError(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.svc.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.log.ErrorContext(r.Context(), "password reset request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to request password reset")
		return
	}
	// Same response whether or not the email is registered.
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (h *authHandler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		h.respondAuthError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// respondAuthError maps auth errors to HTTP statuses.
func (h *authHandler) respondAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, auth.ErrEmailTaken):
		respondError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, auth.ErrWeakPassword):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidResetToken):
		respondError(w, http.StatusBadRequest, "invalid or expired reset token")
	case errors.Is(err, auth.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "user not found")
	default:
		h.log.ErrorContext(r.Context(), "auth operation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
