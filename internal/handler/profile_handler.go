package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/perkloop/perkloop/internal/account"
	"github.com/perkloop/perkloop/internal/auth"
	"github.com/perkloop/perkloop/pkg/pinning"
)

type profileHandler struct {
	svc ProfileService
	log *slog.Logger
}

// sessionInfo converts the auth session into the account layer's view of it.
func sessionInfo(s *auth.Session) *account.SessionInfo {
	if s == nil {
		return nil
	}
	return &account.SessionInfo{
		Token:       s.Token,
		Email:       s.Email,
		DisplayName: s.DisplayName(),
	}
}

// wallet resolves the wallet address the session is bound to.
func wallet(w http.ResponseWriter, r *http.Request) (string, bool) {
	sess := sessionFrom(r.Context())
	addr := sess.WalletAddress()
	if addr == "" {
		respondError(w, http.StatusBadRequest, "no wallet address linked to this session")
		return "", false
	}
	return addr, true
}

func (h *profileHandler) fetch(w http.ResponseWriter, r *http.Request) {
	addr, ok := wallet(w, r)
	if !ok {
		return
	}

	profile := h.svc.Fetch(r.Context(), addr, sessionInfo(sessionFrom(r.Context())))
	respondJSON(w, http.StatusOK, profile)
}

func (h *profileHandler) update(w http.ResponseWriter, r *http.Request) {
	addr, ok := wallet(w, r)
	if !ok {
		return
	}

	var upd account.ProfileUpdate
	if err := decodeJSON(r, &upd); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res := h.svc.Update(r.Context(), addr, upd, sessionInfo(sessionFrom(r.Context())))
	status := http.StatusOK
	if !res.Success() {
		status = http.StatusUnprocessableEntity
	}
	respondJSON(w, status, res)
}

type providerResponse struct {
	Provider pinning.Provider `json:"provider"`
}

func (h *profileHandler) getProvider(w http.ResponseWriter, r *http.Request) {
	addr, ok := wallet(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, providerResponse{
		Provider: h.svc.PreferredProvider(r.Context(), addr),
	})
}

func (h *profileHandler) setProvider(w http.ResponseWriter, r *http.Request) {
	addr, ok := wallet(w, r)
	if !ok {
		return
	}

	var req providerResponse
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.SetPreferredProvider(r.Context(), addr, req.Provider); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, account.ErrInvalidProvider) {
			status = http.StatusBadRequest
		} else {
			h.log.ErrorContext(r.Context(), "failed to store provider preference", "error", err)
		}
		respondError(w, status, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, providerResponse{Provider: req.Provider})
}
