package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is an opaque authenticated session. It mirrors the owning user's
// email and metadata so callers can read both without a database round trip.
type Session struct {
	Token     string         `json:"token"`
	UserID    uuid.UUID      `json:"user_id"`
	Email     string         `json:"email"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// DisplayName returns the display name carried in session metadata, if any.
func (s *Session) DisplayName() string {
	return s.metadataString(MetadataDisplayName)
}

// WalletAddress returns the wallet address carried in session metadata, if any.
func (s *Session) WalletAddress() string {
	return s.metadataString(MetadataWalletAddress)
}

func (s *Session) metadataString(key string) string {
	if s == nil || s.Metadata == nil {
		return ""
	}
	v, _ := s.Metadata[key].(string)
	return v
}

// SessionStore persists sessions under their opaque tokens.
type SessionStore interface {
	// Create persists a new session with the given time to live.
	Create(ctx context.Context, s *Session, ttl time.Duration) error

	// Get returns the session for token, or ErrSessionNotFound.
	Get(ctx context.Context, token string) (*Session, error)

	// Update saves changes to an existing session, preserving its expiry.
	Update(ctx context.Context, s *Session) error

	// Delete removes the session for token. Missing tokens are not an error.
	Delete(ctx context.Context, token string) error
}

// ResetTokenStore persists one-time password reset tokens.
type ResetTokenStore interface {
	// CreateResetToken stores a token for the user with the given time to live.
	CreateResetToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error

	// ConsumeResetToken atomically looks up and deletes a token.
	// Returns ErrInvalidResetToken when the token is unknown or expired.
	ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error)
}
