package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mntc/quiz-server/internal/core/domain"
	"github.com/mntc/quiz-server/internal/core/ports"
)

const (
	defaultSessionTTL = 24 * time.Hour
	sessionTokenBytes = 32
)

// AuthService implements signup, credential checks and the session lifecycle.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	hasher   ports.PasswordHasher
	ttl      time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionStore,
	hasher ports.PasswordHasher,
	sessionTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		ttl:      sessionTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Signup registers a new user at the first level. The uniqueness check is a
// read followed by a write; the repository's unique index catches the race.
func (s *AuthService) Signup(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrMissingFields
	}

	_, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, domain.ErrUsernameTaken
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("%w: lookup user: %w", domain.ErrStorage, err)
	}

	salt, err := s.hasher.NewSalt()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrHashing, err)
	}
	hash, err := s.hasher.Hash(password, salt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrHashing, err)
	}

	user := domain.NewUser(username, hash, salt)
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: create user: %w", domain.ErrStorage, err)
	}

	s.logger.Info().Str("username", username).Msg("user created")
	return user, nil
}

// Authenticate checks the password against the stored salted hash in constant time.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	s.logger.Debug().Str("username", username).Msg("authenticating")

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: lookup user: %w", domain.ErrStorage, err)
	}

	hash, err := s.hasher.Hash(password, user.Salt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrHashing, err)
	}
	if subtle.ConstantTimeCompare(hash, user.PasswordHash) != 1 {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates the user and regenerates the session: the previous token
// is destroyed before a new session is created, so a fixated token never
// becomes authenticated.
func (s *AuthService) Login(ctx context.Context, previousToken, username, password string) (*domain.Session, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	if previousToken != "" {
		if err := s.sessions.Destroy(ctx, previousToken); err != nil {
			return nil, fmt.Errorf("destroy previous session: %w", err)
		}
	}

	token, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sess := &domain.Session{
		Token:     token,
		Username:  user.Username,
		Level:     user.Level,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info().Str("username", user.Username).Int("level", user.Level).Msg("user logged in")
	return sess, nil
}

// Logout destroys the session. An empty token is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

func newSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
