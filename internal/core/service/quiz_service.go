package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mntc/quiz-server/internal/core/domain"
	"github.com/mntc/quiz-server/internal/core/ports"
)

// QuizService serves the question for the session level and grades answers.
type QuizService struct {
	questions ports.QuestionRepository
	users     ports.UserRepository
	sessions  ports.SessionStore
	logger    zerolog.Logger
}

func NewQuizService(
	questions ports.QuestionRepository,
	users ports.UserRepository,
	sessions ports.SessionStore,
	logger zerolog.Logger,
) *QuizService {
	return &QuizService{
		questions: questions,
		users:     users,
		sessions:  sessions,
		logger:    logger,
	}
}

// GetQuestion returns the text of the question for the session's cached level.
func (s *QuizService) GetQuestion(ctx context.Context, sess *domain.Session) (string, error) {
	q, err := s.questions.FindByNumber(ctx, sess.Level)
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			return "", err
		}
		return "", fmt.Errorf("%w: find question: %w", domain.ErrStorage, err)
	}
	return q.Text, nil
}

// SubmitAnswer grades answer against the question for the session level.
//
// A correct answer below the final level advances the user by one level: the
// conditional write to storage happens first and the session is only mutated
// once it succeeds.
func (s *QuizService) SubmitAnswer(ctx context.Context, sess *domain.Session, answer string) (*ports.AnswerResult, error) {
	level := sess.Level

	_, err := s.questions.FindByNumberAndAnswer(ctx, level, answer)
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			return &ports.AnswerResult{Correct: false, Level: level}, nil
		}
		return nil, fmt.Errorf("%w: find answer: %w", domain.ErrStorage, err)
	}

	if domain.IsFinalLevel(level) {
		return &ports.AnswerResult{Correct: true, GameOver: true, Level: level}, nil
	}

	if err := s.users.AdvanceLevel(ctx, sess.Username, level); err != nil {
		if errors.Is(err, domain.ErrLevelConflict) {
			s.refreshLevel(ctx, sess)
			return nil, err
		}
		s.logger.Error().Err(err).Str("username", sess.Username).Int("level", level).Msg("failed to advance level")
		return nil, fmt.Errorf("%w: advance level: %w", domain.ErrStorage, err)
	}

	advanced := *sess
	advanced.Level = level + 1
	if err := s.sessions.Save(ctx, &advanced); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	*sess = advanced

	s.logger.Info().Str("username", sess.Username).Int("level", sess.Level).Msg("level advanced")
	return &ports.AnswerResult{Correct: true, Level: sess.Level}, nil
}

// refreshLevel resyncs the cached level with storage after a lost update race.
// Failures are logged only; the caller already reports the conflict.
func (s *QuizService) refreshLevel(ctx context.Context, sess *domain.Session) {
	user, err := s.users.FindByUsername(ctx, sess.Username)
	if err != nil {
		s.logger.Warn().Err(err).Str("username", sess.Username).Msg("level refresh failed")
		return
	}
	if user.Level <= sess.Level {
		return
	}
	sess.Level = user.Level
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.logger.Warn().Err(err).Str("username", sess.Username).Msg("level refresh failed")
	}
}
