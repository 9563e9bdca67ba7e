package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/mntc/quiz-server/docs"
	"github.com/mntc/quiz-server/internal/api/handler"
	"github.com/mntc/quiz-server/internal/api/metrics"
	"github.com/mntc/quiz-server/internal/api/middleware"
	"github.com/mntc/quiz-server/internal/core/ports"
)

// Deps carries everything the router needs. Services and stores are built by
// the caller so the router never owns a connection.
type Deps struct {
	Auth     ports.AuthService
	Quiz     ports.QuizService
	Sessions ports.SessionStore
	Cookies  *middleware.CookieCodec
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
	// Checks are run by the readiness probe, keyed by dependency name.
	Checks map[string]handler.DependencyCheck
	// AuthRateLimit is the per-IP request rate allowed on /login and /signup.
	// Zero disables limiting.
	AuthRateLimit float64
	Logger        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	// Client-supplied X-Forwarded-For / X-Real-IP are ignored; the rate limiter
	// keys on the socket peer.
	e.IPExtractor = echo.ExtractIPDirect()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "quiz",
		Subsystem:  "http",
		Registerer: d.Registry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Cookies, d.Metrics, d.Logger)
	quizHandler := handler.NewQuizHandler(d.Quiz, d.Metrics)
	requireSession := middleware.RequireSession(d.Sessions, d.Cookies)

	var authLimit []echo.MiddlewareFunc
	if d.AuthRateLimit > 0 {
		authLimit = append(authLimit, authRateLimiter(d.AuthRateLimit))
	}

	// --- Auth routes ---
	e.GET("/", authHandler.Root)
	e.GET("/login", authHandler.LoginPage)
	e.POST("/login", authHandler.Login, authLimit...)
	e.POST("/signup", authHandler.Signup, authLimit...)
	e.GET("/logout", authHandler.Logout)

	// --- Quiz routes (session required) ---
	e.GET("/question", quizHandler.Question, requireSession)
	e.POST("/answer", quizHandler.Answer, requireSession)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks, d.Logger)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Registry}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

// authRateLimiter throttles credential endpoints per client IP.
func authRateLimiter(perSecond float64) echo.MiddlewareFunc {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(perSecond),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
	})
}
