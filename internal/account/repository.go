package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/perkloop/perkloop/pkg/pinning"
)

// Repository implements Store on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed account store.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// normalizeWallet keys accounts case-insensitively.
func normalizeWallet(wallet string) string {
	return strings.ToLower(strings.TrimSpace(wallet))
}

func (r *Repository) Ensure(ctx context.Context, wallet string) (*Account, error) {
	wallet = normalizeWallet(wallet)

	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (wallet_address)
		VALUES ($1)
		ON CONFLICT (wallet_address) DO NOTHING`, wallet)
	if err != nil {
		return nil, fmt.Errorf("account: failed to ensure record: %w", err)
	}

	return r.Get(ctx, wallet)
}

func (r *Repository) Get(ctx context.Context, wallet string) (*Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT wallet_address, display_name, email, plan, storage_provider, is_admin, created_at, updated_at
		FROM accounts WHERE wallet_address = $1`, normalizeWallet(wallet))

	var (
		a        Account
		provider string
	)
	err := row.Scan(&a.WalletAddress, &a.DisplayName, &a.Email, &a.Plan, &provider,
		&a.IsAdmin, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("account: failed to load record: %w", err)
	}
	a.StorageProvider = pinning.ParseProvider(provider)

	return &a, nil
}

func (r *Repository) UpdateProfile(ctx context.Context, wallet string, upd ProfileUpdate) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts SET
			display_name = COALESCE($2, display_name),
			email        = COALESCE($3, email),
			plan         = COALESCE($4, plan),
			updated_at   = now()
		WHERE wallet_address = $1`,
		normalizeWallet(wallet), upd.DisplayName, upd.Email, upd.Plan)
	if err != nil {
		return fmt.Errorf("account: failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) ProviderPreference(ctx context.Context, wallet string) (pinning.Provider, error) {
	var provider string
	err := r.pool.QueryRow(ctx, `
		SELECT storage_provider FROM accounts WHERE wallet_address = $1`,
		normalizeWallet(wallet)).Scan(&provider)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pinning.ProviderPinata, ErrNotFound
		}
		return pinning.ProviderPinata, fmt.Errorf("account: failed to load provider preference: %w", err)
	}
	return pinning.ParseProvider(provider), nil
}

func (r *Repository) SetProviderPreference(ctx context.Context, wallet string, p pinning.Provider) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (wallet_address, storage_provider)
		VALUES ($1, $2)
		ON CONFLICT (wallet_address)
		DO UPDATE SET storage_provider = EXCLUDED.storage_provider, updated_at = now()`,
		normalizeWallet(wallet), string(p))
	if err != nil {
		return fmt.Errorf("account: failed to store provider preference: %w", err)
	}
	return nil
}

var _ Store = (*Repository)(nil)
