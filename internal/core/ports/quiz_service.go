package ports

import (
	"context"

	"github.com/mntc/quiz-server/internal/core/domain"
)

// AnswerResult is returned by SubmitAnswer.
type AnswerResult struct {
	Correct  bool
	GameOver bool
	// Level is the session level after the submission.
	Level int
}

// QuizService serves questions and grades answers for an authenticated session.
type QuizService interface {
	GetQuestion(ctx context.Context, sess *domain.Session) (string, error)
	// SubmitAnswer persists progression before mutating sess.
	SubmitAnswer(ctx context.Context, sess *domain.Session, answer string) (*AnswerResult, error)
}
