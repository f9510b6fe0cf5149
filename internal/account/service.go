package account

import (
	"context"
	"errors"
	"log/slog"

	"github.com/perkloop/perkloop/pkg/pinning"
)

// Service implements profile reads and writes and the provider preference
// store on top of the administrative record table and the auth session.
type Service struct {
	store    Store
	sessions SessionUpdater
	log      *slog.Logger
}

// NewService creates the account service.
func NewService(store Store, sessions SessionUpdater, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:    store,
		sessions: sessions,
		log:      log,
	}
}

// Fetch merges the administrative record with best-effort session metadata.
// The record is created on first lookup. Internal errors degrade to an
// all-null, non-admin profile; Fetch never returns an error.
func (s *Service) Fetch(ctx context.Context, wallet string, sess *SessionInfo) Profile {
	profile := Profile{
		WalletAddress: wallet,
		Plan:          PlanFree,
	}

	rec, err := s.store.Ensure(ctx, wallet)
	if err != nil {
		s.log.WarnContext(ctx, "profile lookup failed, returning empty profile",
			"wallet", wallet, "error", err)
		return Profile{WalletAddress: wallet}
	}

	profile.DisplayName = rec.DisplayName
	profile.Email = rec.Email
	profile.Plan = rec.Plan
	profile.IsAdmin = rec.IsAdmin

	// Backfill missing fields from the session.
	if sess != nil {
		if profile.Email == nil && sess.Email != "" {
			email := sess.Email
			profile.Email = &email
		}
		if profile.DisplayName == nil && sess.DisplayName != "" {
			name := sess.DisplayName
			profile.DisplayName = &name
		}
	}

	return profile
}

// Update applies a profile edit. The administrative record is changed only
// for recognized admins; the session display name is updated separately.
// The first error encountered is surfaced and later steps are skipped, but
// the result always reports which sub-updates went through.
func (s *Service) Update(ctx context.Context, wallet string, upd ProfileUpdate, sess *SessionInfo) UpdateResult {
	var res UpdateResult

	if upd.Plan != nil && !upd.Plan.Valid() {
		res.Message = ErrInvalidPlan.Error()
		return res
	}

	rec, err := s.store.Get(ctx, wallet)
	if err != nil && !errors.Is(err, ErrNotFound) {
		res.Message = err.Error()
		return res
	}

	if rec != nil && rec.IsAdmin {
		if err := s.store.UpdateProfile(ctx, wallet, upd); err != nil {
			res.Message = err.Error()
			return res
		}
		res.RecordUpdated = true
	}

	if upd.DisplayName != nil && sess != nil && sess.Token != "" {
		if err := s.sessions.UpdateDisplayName(ctx, sess.Token, *upd.DisplayName); err != nil {
			res.Message = err.Error()
			return res
		}
		res.SessionUpdated = true
	}

	return res
}

// PreferredProvider returns the stored provider choice for wallet.
// Missing records and lookup errors both resolve to the primary provider.
func (s *Service) PreferredProvider(ctx context.Context, wallet string) pinning.Provider {
	provider, err := s.store.ProviderPreference(ctx, wallet)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.WarnContext(ctx, "provider preference lookup failed, using default",
				"wallet", wallet, "error", err)
		}
		return pinning.ProviderPinata
	}
	return provider
}

// SetPreferredProvider stores the provider choice. Write errors are
// surfaced to the caller.
func (s *Service) SetPreferredProvider(ctx context.Context, wallet string, p pinning.Provider) error {
	if !p.Valid() {
		return ErrInvalidProvider
	}
	return s.store.SetProviderPreference(ctx, wallet, p)
}
