package ports

import (
	"context"

	"github.com/mntc/quiz-server/internal/core/domain"
)

type AuthService interface {
	Signup(ctx context.Context, username, password string) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	// Login authenticates and issues a new session, destroying previousToken if set.
	Login(ctx context.Context, previousToken, username, password string) (*domain.Session, error)
	Logout(ctx context.Context, token string) error
}
