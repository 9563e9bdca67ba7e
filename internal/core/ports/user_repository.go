package ports

import (
	"context"

	"github.com/mntc/quiz-server/internal/core/domain"
)

// UserRepository defines persistence operations for quiz users.
type UserRepository interface {
	// FindByUsername returns domain.ErrUserNotFound when no user matches exactly.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Create returns domain.ErrUsernameTaken when the username already exists.
	Create(ctx context.Context, user *domain.User) error
	// AdvanceLevel sets the user's level to from+1 only if it is currently from.
	// Returns domain.ErrLevelConflict when nothing matched.
	AdvanceLevel(ctx context.Context, username string, from int) error
}
