package service

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mntc/quiz-server/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type stubUserRepo struct {
	users      map[string]*domain.User
	findErr    error
	createErr  error
	advanceErr error
	advances   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, exists := r.users[user.Username]; exists {
		return domain.ErrUsernameTaken
	}
	clone := *user
	r.users[user.Username] = &clone
	return nil
}

// AdvanceLevel mirrors the conditional update of the Mongo repository.
func (r *stubUserRepo) AdvanceLevel(_ context.Context, username string, from int) error {
	if r.advanceErr != nil {
		return r.advanceErr
	}
	u, ok := r.users[username]
	if !ok || u.Level != from {
		return domain.ErrLevelConflict
	}
	u.Level = from + 1
	r.advances++
	return nil
}

type stubQuestionRepo struct {
	questions map[int]domain.Question
	err       error
}

// tenQuestions returns questions 1..10 whose answer is "a<number>".
func tenQuestions() *stubQuestionRepo {
	qs := make(map[int]domain.Question, domain.FinalLevel)
	for n := domain.FirstLevel; n <= domain.FinalLevel; n++ {
		qs[n] = domain.Question{Number: n, Text: questionText(n), Answer: answerFor(n)}
	}
	return &stubQuestionRepo{questions: qs}
}

func questionText(n int) string {
	return fmt.Sprintf("question #%d", n)
}

func answerFor(n int) string {
	return fmt.Sprintf("a%d", n)
}

func (r *stubQuestionRepo) FindByNumber(_ context.Context, number int) (*domain.Question, error) {
	if r.err != nil {
		return nil, r.err
	}
	q, ok := r.questions[number]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	return &q, nil
}

func (r *stubQuestionRepo) FindByNumberAndAnswer(_ context.Context, number int, answer string) (*domain.Question, error) {
	if r.err != nil {
		return nil, r.err
	}
	q, ok := r.questions[number]
	if !ok || q.Answer != answer {
		return nil, domain.ErrQuestionNotFound
	}
	return &q, nil
}

type stubSessionStore struct {
	sessions  map[string]domain.Session
	saveErr   error
	createErr error
	destroyed []string
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]domain.Session)}
}

func (s *stubSessionStore) Create(_ context.Context, sess *domain.Session) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.sessions[sess.Token] = *sess
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, token string) (*domain.Session, error) {
	sess, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *stubSessionStore) Save(_ context.Context, sess *domain.Session) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if _, ok := s.sessions[sess.Token]; !ok {
		return domain.ErrSessionNotFound
	}
	s.sessions[sess.Token] = *sess
	return nil
}

func (s *stubSessionStore) Destroy(_ context.Context, token string) error {
	delete(s.sessions, token)
	s.destroyed = append(s.destroyed, token)
	return nil
}

// stubHasher is a fast, deterministic stand-in for the PBKDF2 hasher.
type stubHasher struct {
	saltErr error
	hashErr error
	salts   int
}

func (h *stubHasher) NewSalt() ([]byte, error) {
	if h.saltErr != nil {
		return nil, h.saltErr
	}
	h.salts++
	return []byte{byte(h.salts), 0xAB}, nil
}

func (h *stubHasher) Hash(password string, salt []byte) ([]byte, error) {
	if h.hashErr != nil {
		return nil, h.hashErr
	}
	if len(salt) == 0 {
		return nil, errors.New("empty salt")
	}
	sum := sha256.Sum256(append(append([]byte{}, salt...), password...))
	return sum[:], nil
}
