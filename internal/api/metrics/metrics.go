// Package metrics defines the quiz-specific Prometheus metrics. HTTP request
// metrics come from echoprometheus; these count domain outcomes.
//
// Build one Metrics per registry with New, before the HTTP server starts.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "quiz"

// Outcome labels.
const (
	ResultSuccess            = "success"
	ResultMissingFields      = "missing_fields"
	ResultUsernameTaken      = "username_taken"
	ResultUserNotFound       = "user_not_found"
	ResultInvalidCredentials = "invalid_credentials"
	ResultCorrect            = "correct"
	ResultIncorrect          = "incorrect"
	ResultGameOver           = "game_over"
	ResultConflict           = "conflict"
	ResultError              = "error"
)

type Metrics struct {
	// SignupsTotal counts signup attempts.
	// Label:
	//   - result: success, missing_fields, username_taken, error
	SignupsTotal *prometheus.CounterVec

	// LoginsTotal counts login attempts.
	// Label:
	//   - result: success, user_not_found, invalid_credentials, error
	LoginsTotal *prometheus.CounterVec

	// AnswersTotal counts graded answer submissions.
	// Label:
	//   - result: correct, incorrect, game_over, conflict, error
	AnswersTotal *prometheus.CounterVec

	// LevelsReachedTotal counts progressions, labelled by the level reached.
	LevelsReachedTotal *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SignupsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "signups_total",
				Help:      "Total number of signup attempts, by result.",
			},
			[]string{"result"},
		),
		LoginsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "logins_total",
				Help:      "Total number of login attempts, by result.",
			},
			[]string{"result"},
		),
		AnswersTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "answers_total",
				Help:      "Total number of answer submissions, by result.",
			},
			[]string{"result"},
		),
		LevelsReachedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "levels_reached_total",
				Help:      "Total number of level advances, by the level reached.",
			},
			[]string{"level"},
		),
	}
}

// LevelReached records a progression to level.
func (m *Metrics) LevelReached(level int) {
	m.LevelsReachedTotal.WithLabelValues(strconv.Itoa(level)).Inc()
}
