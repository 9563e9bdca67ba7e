package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mntc/quiz-server/internal/api/metrics"
	"github.com/mntc/quiz-server/internal/core/domain"
	"github.com/mntc/quiz-server/internal/core/ports"
)

// QuizHandler serves the question and answer endpoints. Both routes sit
// behind middleware.RequireSession.
type QuizHandler struct {
	quizService ports.QuizService
	metrics     *metrics.Metrics
}

func NewQuizHandler(quizService ports.QuizService, m *metrics.Metrics) *QuizHandler {
	return &QuizHandler{quizService: quizService, metrics: m}
}

// Question returns the question for the caller's current level.
//
// @Summary      Current question
// @Tags         quiz
// @Produce      json
// @Success      200  {object}  questionResponse
// @Failure      302
// @Failure      404  {object}  errorResponse
// @Router       /question [get]
func (h *QuizHandler) Question(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	text, err := h.quizService.GetQuestion(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, questionResponse{Question: text})
}

// Answer grades an answer for the current level and advances on success.
//
// @Summary      Submit an answer
// @Tags         quiz
// @Accept       json
// @Produce      json
// @Param        body  body      answerRequest  true  "Answer text, matched exactly"
// @Success      200   {object}  answerResponse
// @Failure      302
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /answer [post]
func (h *QuizHandler) Answer(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	var req answerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.quizService.SubmitAnswer(c.Request().Context(), sess, req.Answer)
	if err != nil {
		if errors.Is(err, domain.ErrLevelConflict) {
			h.metrics.AnswersTotal.WithLabelValues(metrics.ResultConflict).Inc()
		} else {
			h.metrics.AnswersTotal.WithLabelValues(metrics.ResultError).Inc()
		}
		return err
	}

	switch {
	case res.GameOver:
		h.metrics.AnswersTotal.WithLabelValues(metrics.ResultGameOver).Inc()
	case res.Correct:
		h.metrics.AnswersTotal.WithLabelValues(metrics.ResultCorrect).Inc()
		h.metrics.LevelReached(res.Level)
	default:
		h.metrics.AnswersTotal.WithLabelValues(metrics.ResultIncorrect).Inc()
	}

	return c.JSON(http.StatusOK, answerResponse{Correct: res.Correct, GameOver: res.GameOver})
}
