package account

import (
	"context"
	"time"

	"github.com/perkloop/perkloop/pkg/pinning"
)

// Plan is a subscription tier.
type Plan string

const (
	PlanFree       Plan = "free"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// Valid reports whether p names a known plan.
func (p Plan) Valid() bool {
	return p == PlanFree || p == PlanPro || p == PlanEnterprise
}

// Account is one administrative record, keyed by wallet address.
// Rows are created on first administrative lookup and never deleted here.
type Account struct {
	WalletAddress   string
	DisplayName     *string
	Email           *string
	Plan            Plan
	StorageProvider pinning.Provider
	IsAdmin         bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Profile is the merged view returned to callers: the administrative record
// backfilled with best-effort session metadata.
type Profile struct {
	WalletAddress string  `json:"wallet_address"`
	DisplayName   *string `json:"display_name"`
	Email         *string `json:"email"`
	Plan          Plan    `json:"plan"`
	IsAdmin       bool    `json:"is_admin"`
}

// ProfileUpdate carries the fields a profile edit may change.
// Nil fields are left untouched.
type ProfileUpdate struct {
	DisplayName *string `json:"display_name"`
	Email       *string `json:"email"`
	Plan        *Plan   `json:"plan"`
}

// UpdateResult reports the outcome of a profile update, including which of
// the two sub-updates (administrative record, auth session) went through.
type UpdateResult struct {
	RecordUpdated  bool   `json:"record_updated"`
	SessionUpdated bool   `json:"session_updated"`
	Message        string `json:"message,omitempty"`
}

// Success reports whether no step failed.
func (r UpdateResult) Success() bool {
	return r.Message == ""
}

// SessionInfo is the slice of an authenticated session the profile service
// needs: identity plus best-effort metadata.
type SessionInfo struct {
	Token       string
	Email       string
	DisplayName string
}

// Store persists administrative account records.
type Store interface {
	// Ensure returns the account for wallet, creating a default row on
	// first lookup.
	Ensure(ctx context.Context, wallet string) (*Account, error)

	// Get returns the account for wallet, or ErrNotFound.
	Get(ctx context.Context, wallet string) (*Account, error)

	// UpdateProfile applies the non-nil fields of upd to the record.
	UpdateProfile(ctx context.Context, wallet string, upd ProfileUpdate) error

	// ProviderPreference returns the stored provider choice, or ErrNotFound.
	ProviderPreference(ctx context.Context, wallet string) (pinning.Provider, error)

	// SetProviderPreference stores the provider choice.
	SetProviderPreference(ctx context.Context, wallet string, p pinning.Provider) error
}

// SessionUpdater is the boundary call into the auth layer for mirroring a
// display-name change into the live session.
type SessionUpdater interface {
	UpdateDisplayName(ctx context.Context, token, name string) error
}
