package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Metadata keys recognized by the rest of the application.
const (
	MetadataDisplayName   = "display_name"
	MetadataWalletAddress = "wallet_address"
)

// User is an authentication record. Metadata carries arbitrary per-user
// values such as the display name and wallet address.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Metadata     map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserStore persists authentication records.
type UserStore interface {
	// Create inserts a new user. Returns ErrEmailTaken when the email is
	// already registered.
	Create(ctx context.Context, u *User) error

	// ByEmail returns the user registered under email, or ErrUserNotFound.
	ByEmail(ctx context.Context, email string) (*User, error)

	// ByID returns the user with the given id, or ErrUserNotFound.
	ByID(ctx context.Context, id uuid.UUID) (*User, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error

	// UpdateMetadata replaces the stored metadata map.
	UpdateMetadata(ctx context.Context, id uuid.UUID, metadata map[string]any) error
}
