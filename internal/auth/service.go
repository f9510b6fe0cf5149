package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/perkloop/perkloop/pkg/mailer"
)

// Config holds auth service settings.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	ResetTokenTTL time.Duration `env:"PASSWORD_RESET_TTL" envDefault:"1h"`

	// AppURL is the public base URL used in password reset links.
	AppURL string `env:"APP_URL" envDefault:"http://localhost:8080"`
}

// Service implements registration, login, password management, and the
// session boundary the profile module builds on.
type Service struct {
	users    UserStore
	sessions SessionStore
	resets   ResetTokenStore
	mail     mailer.Sender
	log      *slog.Logger
	cfg      Config
}

// NewService creates the auth service.
func NewService(users UserStore, sessions SessionStore, resets ResetTokenStore, mail mailer.Sender, cfg Config, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		users:    users,
		sessions: sessions,
		resets:   resets,
		mail:     mail,
		log:      log,
		cfg:      cfg,
	}
}

// Register creates a user and opens a session for it. The wallet address,
// when given, is stored in user metadata so profile lookups can key on it.
func (s *Service) Register(ctx context.Context, email, password, wallet string) (*Session, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	metadata := map[string]any{}
	if wallet != "" {
		metadata[MetadataWalletAddress] = wallet
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Metadata:     metadata,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.openSession(ctx, user)
}

// Login verifies credentials and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, err
	}

	return s.openSession(ctx, user)
}

// Logout discards the session for token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a bearer token to its session.
func (s *Service) Authenticate(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}
	return s.sessions.Get(ctx, token)
}

// UpdatePassword replaces the user's password after verifying the current one.
func (s *Service) UpdatePassword(ctx context.Context, userID uuid.UUID, current, newPassword string) error {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := VerifyPassword(user.PasswordHash, current); err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// UpdateDisplayName writes the display name into user metadata and mirrors it
// into the live session identified by token.
func (s *Service) UpdateDisplayName(ctx context.Context, token, name string) error {
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return err
	}

	user, err := s.users.ByID(ctx, sess.UserID)
	if err != nil {
		return err
	}

	metadata := maps.Clone(user.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata[MetadataDisplayName] = name
	if err := s.users.UpdateMetadata(ctx, sess.UserID, metadata); err != nil {
		return err
	}

	if sess.Metadata == nil {
		sess.Metadata = map[string]any{}
	}
	sess.Metadata[MetadataDisplayName] = name
	return s.sessions.Update(ctx, sess)
}

// RequestPasswordReset issues a one-time reset token and emails it.
// Unknown emails are not reported to the caller.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.log.InfoContext(ctx, "password reset requested for unknown email")
			return nil
		}
		return err
	}

	token := uuid.NewString()
	if err := s.resets.CreateResetToken(ctx, token, user.ID, s.cfg.ResetTokenTTL); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.AppURL, token)
	return s.mail.Send(ctx, mailer.Email{
		To:      []string{user.Email},
		Subject: "Reset your password",
		HTML:    fmt.Sprintf(`<p>Follow <a href="%s">this link</a> to reset your password. The link expires in %s.</p>`, link, s.cfg.ResetTokenTTL),
		Text:    fmt.Sprintf("Reset your password: %s (expires in %s)", link, s.cfg.ResetTokenTTL),
	})
}

// ResetPassword consumes a reset token and sets a new password.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	userID, err := s.resets.ConsumeResetToken(ctx, token)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// openSession issues a fresh token and persists a session mirroring the user.
func (s *Service) openSession(ctx context.Context, user *User) (*Session, error) {
	now := time.Now()
	sess := &Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		Metadata:  maps.Clone(user.Metadata),
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	if err := s.sessions.Create(ctx, sess, s.cfg.SessionTTL); err != nil {
		return nil, err
	}
	return sess, nil
}
