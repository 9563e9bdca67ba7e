package ports

import (
	"context"

	"github.com/mntc/quiz-server/internal/core/domain"
)

// QuestionRepository is a read-only lookup of questions by level number.
type QuestionRepository interface {
	FindByNumber(ctx context.Context, number int) (*domain.Question, error)
	// FindByNumberAndAnswer matches the stored answer exactly, without normalization.
	FindByNumberAndAnswer(ctx context.Context, number int, answer string) (*domain.Question, error)
}
