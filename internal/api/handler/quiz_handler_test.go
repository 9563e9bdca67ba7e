package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mntc/quiz-server/internal/api/metrics"
	"github.com/mntc/quiz-server/internal/core/domain"
	"github.com/mntc/quiz-server/internal/core/ports"
)

type stubQuizService struct {
	questionFn func(ctx context.Context, sess *domain.Session) (string, error)
	answerFn   func(ctx context.Context, sess *domain.Session, answer string) (*ports.AnswerResult, error)
}

func (s *stubQuizService) GetQuestion(ctx context.Context, sess *domain.Session) (string, error) {
	return s.questionFn(ctx, sess)
}

func (s *stubQuizService) SubmitAnswer(ctx context.Context, sess *domain.Session, answer string) (*ports.AnswerResult, error) {
	return s.answerFn(ctx, sess, answer)
}

// withSession mimics middleware.RequireSession having run.
func withSession(c echo.Context, sess *domain.Session) echo.Context {
	c.Set("session", sess)
	return c
}

func TestQuizHandler_Question(t *testing.T) {
	e := newTestEcho()
	stub := &stubQuizService{
		questionFn: func(_ context.Context, sess *domain.Session) (string, error) {
			if sess.Level != 3 {
				t.Fatalf("unexpected level %d", sess.Level)
			}
			return "What is three?", nil
		},
	}
	rec := httptest.NewRecorder()
	c := withSession(e.NewContext(httptest.NewRequest(http.MethodGet, "/question", nil), rec), &domain.Session{Level: 3})

	if err := NewQuizHandler(stub, metrics.New(prometheus.NewRegistry())).Question(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if resp := decode(t, rec); resp["question"] != "What is three?" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestQuizHandler_Question_NotFound(t *testing.T) {
	e := newTestEcho()
	stub := &stubQuizService{
		questionFn: func(context.Context, *domain.Session) (string, error) { return "", domain.ErrQuestionNotFound },
	}
	c := withSession(e.NewContext(httptest.NewRequest(http.MethodGet, "/question", nil), httptest.NewRecorder()), &domain.Session{Level: 11})

	err := NewQuizHandler(stub, metrics.New(prometheus.NewRegistry())).Question(c)
	if !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestQuizHandler_Question_WithoutSession(t *testing.T) {
	e := newTestEcho()
	stub := &stubQuizService{
		questionFn: func(context.Context, *domain.Session) (string, error) {
			t.Fatalf("should not be called")
			return "", nil
		},
	}
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/question", nil), httptest.NewRecorder())

	err := NewQuizHandler(stub, metrics.New(prometheus.NewRegistry())).Question(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestQuizHandler_Answer(t *testing.T) {
	cases := []struct {
		name   string
		result ports.AnswerResult
		body   string
		metric string
	}{
		{"incorrect", ports.AnswerResult{Correct: false, Level: 2}, `{"correct":false}`, metrics.ResultIncorrect},
		{"correct", ports.AnswerResult{Correct: true, Level: 3}, `{"correct":true}`, metrics.ResultCorrect},
		{"game over", ports.AnswerResult{Correct: true, GameOver: true, Level: 10}, `{"correct":true,"gameOver":true}`, metrics.ResultGameOver},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEcho()
			m := metrics.New(prometheus.NewRegistry())
			stub := &stubQuizService{
				answerFn: func(_ context.Context, _ *domain.Session, answer string) (*ports.AnswerResult, error) {
					if answer != "Paris" {
						t.Fatalf("unexpected answer %q", answer)
					}
					res := tc.result
					return &res, nil
				},
			}
			rec := httptest.NewRecorder()
			c := withSession(e.NewContext(jsonRequest(http.MethodPost, "/answer", `{"answer":"Paris"}`), rec), &domain.Session{Level: 2})

			if err := NewQuizHandler(stub, m).Answer(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if got := rec.Body.String(); got != tc.body+"\n" {
				t.Fatalf("expected %s, got %s", tc.body, got)
			}
			if testutil.ToFloat64(m.AnswersTotal.WithLabelValues(tc.metric)) != 1 {
				t.Fatalf("expected %s to be counted", tc.metric)
			}
		})
	}
}

func TestQuizHandler_Answer_Errors(t *testing.T) {
	for _, svcErr := range []error{domain.ErrLevelConflict, domain.ErrStorage} {
		e := newTestEcho()
		stub := &stubQuizService{
			answerFn: func(context.Context, *domain.Session, string) (*ports.AnswerResult, error) { return nil, svcErr },
		}
		c := withSession(e.NewContext(jsonRequest(http.MethodPost, "/answer", `{"answer":"x"}`), httptest.NewRecorder()), &domain.Session{Level: 2})

		if err := NewQuizHandler(stub, metrics.New(prometheus.NewRegistry())).Answer(c); !errors.Is(err, svcErr) {
			t.Fatalf("expected %v, got %v", svcErr, err)
		}
	}
}
