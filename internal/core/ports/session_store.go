package ports

import (
	"context"

	"github.com/mntc/quiz-server/internal/core/domain"
)

// SessionStore persists sessions by token. Get and Save return
// domain.ErrSessionNotFound for unknown or expired tokens.
type SessionStore interface {
	Create(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, token string) (*domain.Session, error)
	Save(ctx context.Context, s *domain.Session) error
	Destroy(ctx context.Context, token string) error
}
