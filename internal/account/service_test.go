package account

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/perkloop/perkloop/pkg/pinning"
)

// fakeStore is an in-memory Store with injectable failures.
type fakeStore struct {
	mu       sync.Mutex
	accounts map[string]*Account
	failWith error
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: make(map[string]*Account)}
}

func (f *fakeStore) Ensure(_ context.Context, wallet string) (*Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	a, ok := f.accounts[wallet]
	if !ok {
		a = &Account{
			WalletAddress:   wallet,
			Plan:            PlanFree,
			StorageProvider: pinning.ProviderPinata,
		}
		f.accounts[wallet] = a
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) Get(_ context.Context, wallet string) (*Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	a, ok := f.accounts[wallet]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, wallet string, upd ProfileUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	a, ok := f.accounts[wallet]
	if !ok {
		return ErrNotFound
	}
	if upd.DisplayName != nil {
		a.DisplayName = upd.DisplayName
	}
	if upd.Email != nil {
		a.Email = upd.Email
	}
	if upd.Plan != nil {
		a.Plan = *upd.Plan
	}
	return nil
}

func (f *fakeStore) ProviderPreference(_ context.Context, wallet string) (pinning.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return pinning.ProviderPinata, f.failWith
	}
	a, ok := f.accounts[wallet]
	if !ok {
		return pinning.ProviderPinata, ErrNotFound
	}
	return a.StorageProvider, nil
}

func (f *fakeStore) SetProviderPreference(_ context.Context, wallet string, p pinning.Provider) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	a, ok := f.accounts[wallet]
	if !ok {
		a = &Account{WalletAddress: wallet, Plan: PlanFree}
		f.accounts[wallet] = a
	}
	a.StorageProvider = p
	return nil
}

// fakeSessions records display-name updates and can fail on demand.
type fakeSessions struct {
	updated  map[string]string
	failWith error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{updated: make(map[string]string)}
}

func (f *fakeSessions) UpdateDisplayName(_ context.Context, token, name string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.updated[token] = name
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeStore, *fakeSessions) {
	t.Helper()
	store := newFakeStore()
	sessions := newFakeSessions()
	return NewService(store, sessions, slog.New(slog.DiscardHandler)), store, sessions
}

func strPtr(s string) *string { return &s }

func TestService_Fetch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates record on first lookup", func(t *testing.T) {
		t.Parallel()
		svc, store, _ := newTestService(t)

		profile := svc.Fetch(ctx, "0xabc", nil)

		require.Equal(t, "0xabc", profile.WalletAddress)
		require.Equal(t, PlanFree, profile.Plan)
		require.False(t, profile.IsAdmin)
		require.Contains(t, store.accounts, "0xabc")
	})

	t.Run("backfills from session", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTestService(t)

		profile := svc.Fetch(ctx, "0xabc", &SessionInfo{
			Email:       "owner@example.com",
			DisplayName: "Acme",
		})

		require.NotNil(t, profile.Email)
		require.Equal(t, "owner@example.com", *profile.Email)
		require.NotNil(t, profile.DisplayName)
		require.Equal(t, "Acme", *profile.DisplayName)
	})

	t.Run("record fields win over session", func(t *testing.T) {
		t.Parallel()
		svc, store, _ := newTestService(t)
		store.accounts["0xabc"] = &Account{
			WalletAddress: "0xabc",
			DisplayName:   strPtr("Stored Name"),
			Email:         strPtr("stored@example.com"),
			Plan:          PlanPro,
		}

		profile := svc.Fetch(ctx, "0xabc", &SessionInfo{
			Email:       "session@example.com",
			DisplayName: "Session Name",
		})

		require.Equal(t, "stored@example.com", *profile.Email)
		require.Equal(t, "Stored Name", *profile.DisplayName)
		require.Equal(t, PlanPro, profile.Plan)
	})

	t.Run("store error degrades to empty profile", func(t *testing.T) {
		t.Parallel()
		svc, store, _ := newTestService(t)
		store.failWith = errors.New("connection refused")

		profile := svc.Fetch(ctx, "0xabc", &SessionInfo{Email: "owner@example.com"})

		require.Equal(t, "0xabc", profile.WalletAddress)
		require.Nil(t, profile.Email)
		require.Nil(t, profile.DisplayName)
		require.False(t, profile.IsAdmin)
	})
}

func TestService_Update(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sess := &SessionInfo{Token: "tok-1"}

	t.Run("admin record and session updated", func(t *testing.T) {
		t.Parallel()
		svc, store, sessions := newTestService(t)
		store.accounts["0xabc"] = &Account{WalletAddress: "0xabc", IsAdmin: true, Plan: PlanFree}

		res := svc.Update(ctx, "0xabc", ProfileUpdate{DisplayName: strPtr("New Name")}, sess)

		require.True(t, res.Success())
		require.True(t, res.RecordUpdated)
		require.True(t, res.SessionUpdated)
		require.Equal(t, "New Name", *store.accounts["0xabc"].DisplayName)
		require.Equal(t, "New Name", sessions.updated["tok-1"])
	})

	t.Run("non-admin skips record, still updates session", func(t *testing.T) {
		t.Parallel()
		svc, store, sessions := newTestService(t)
		store.accounts["0xabc"] = &Account{WalletAddress: "0xabc", IsAdmin: false}

		res := svc.Update(ctx, "0xabc", ProfileUpdate{DisplayName: strPtr("New Name")}, sess)

		require.True(t, res.Success())
		require.False(t, res.RecordUpdated)
		require.True(t, res.SessionUpdated)
		require.Nil(t, store.accounts["0xabc"].DisplayName)
		require.Equal(t, "New Name", sessions.updated["tok-1"])
	})

	t.Run("record failure skips session update", func(t *testing.T) {
		t.Parallel()
		_, store, sessions := newTestService(t)
		store.accounts["0xabc"] = &Account{WalletAddress: "0xabc", IsAdmin: true}

		// Only the record write fails; the session step must be skipped.
		svc := NewService(&updateFailingStore{fakeStore: store}, sessions, slog.New(slog.DiscardHandler))

		res := svc.Update(ctx, "0xabc", ProfileUpdate{DisplayName: strPtr("New Name")}, sess)

		require.False(t, res.Success())
		require.False(t, res.RecordUpdated)
		require.False(t, res.SessionUpdated)
		require.Empty(t, sessions.updated)
	})

	t.Run("session failure surfaced after record success", func(t *testing.T) {
		t.Parallel()
		svc, store, sessions := newTestService(t)
		store.accounts["0xabc"] = &Account{WalletAddress: "0xabc", IsAdmin: true}
		sessions.failWith = errors.New("session store down")

		res := svc.Update(ctx, "0xabc", ProfileUpdate{DisplayName: strPtr("New Name")}, sess)

		require.False(t, res.Success())
		require.True(t, res.RecordUpdated)
		require.False(t, res.SessionUpdated)
		require.Contains(t, res.Message, "session store down")
	})

	t.Run("invalid plan rejected", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTestService(t)
		bad := Plan("platinum")

		res := svc.Update(ctx, "0xabc", ProfileUpdate{Plan: &bad}, sess)

		require.False(t, res.Success())
		require.False(t, res.RecordUpdated)
		require.False(t, res.SessionUpdated)
	})
}

// updateFailingStore fails UpdateProfile only.
type updateFailingStore struct {
	*fakeStore
}

func (s *updateFailingStore) UpdateProfile(context.Context, string, ProfileUpdate) error {
	return errors.New("write refused")
}

func TestService_ProviderPreference(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("defaults to pinata for unknown wallet", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTestService(t)
		require.Equal(t, pinning.ProviderPinata, svc.PreferredProvider(ctx, "0xnew"))
	})

	t.Run("lookup error swallowed, default returned", func(t *testing.T) {
		t.Parallel()
		svc, store, _ := newTestService(t)
		store.failWith = errors.New("connection refused")
		require.Equal(t, pinning.ProviderPinata, svc.PreferredProvider(ctx, "0xabc"))
	})

	t.Run("round-trip", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTestService(t)

		require.NoError(t, svc.SetPreferredProvider(ctx, "0xabc", pinning.ProviderLighthouse))
		require.Equal(t, pinning.ProviderLighthouse, svc.PreferredProvider(ctx, "0xabc"))
	})

	t.Run("invalid provider rejected", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTestService(t)
		require.ErrorIs(t, svc.SetPreferredProvider(ctx, "0xabc", pinning.Provider("s3")), ErrInvalidProvider)
	})

	t.Run("write error surfaced", func(t *testing.T) {
		t.Parallel()
		svc, store, _ := newTestService(t)
		store.failWith = errors.New("write refused")
		require.Error(t, svc.SetPreferredProvider(ctx, "0xabc", pinning.ProviderLighthouse))
	})
}
