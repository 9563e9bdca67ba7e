package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/mntc/quiz-server/internal/api"
	"github.com/mntc/quiz-server/internal/api/handler"
	"github.com/mntc/quiz-server/internal/api/metrics"
	"github.com/mntc/quiz-server/internal/api/middleware"
	"github.com/mntc/quiz-server/internal/core/ports"
	"github.com/mntc/quiz-server/internal/core/service"
	mongodb "github.com/mntc/quiz-server/internal/infrastructure/db/mongo"
	redisdb "github.com/mntc/quiz-server/internal/infrastructure/db/redis"
	"github.com/mntc/quiz-server/internal/infrastructure/security"
	"github.com/mntc/quiz-server/internal/infrastructure/session"
	"github.com/mntc/quiz-server/internal/pkg/config"
	"github.com/mntc/quiz-server/pkg/logger"
)

const (
	shutdownTimeout   = 10 * time.Second
	sessionSweepEvery = time.Minute
	disconnectTimeout = 5 * time.Second
	loggerServiceName = "quizd"
)

type serveOptions struct {
	host string
	port string
}

// apply lets command-line flags win over the environment.
func (o serveOptions) apply(cfg *config.Config) {
	if o.host != "" {
		cfg.Host = o.host
	}
	if o.port != "" {
		cfg.Port = o.port
	}
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz HTTP server",
		Long: `Start the HTTP server. Configuration is read from the environment
(SECRET_KEY is required); --host and --port override HOST and PORT.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			opts.apply(cfg)
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "listen host (overrides HOST)")
	cmd.Flags().StringVar(&opts.port, "port", "", "listen port (overrides PORT)")

	return cmd
}

func runServe(parent context.Context, cfg *config.Config) error {
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: loggerServiceName,
	})

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.ConnectionURI(),
		Database: cfg.Mongo.Database,
		Retries:  cfg.ConnectRetries,
	})
	if err != nil {
		return fmt.Errorf("storage unavailable: %w", err)
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	checks := map[string]handler.DependencyCheck{"mongodb": handler.MongoCheck(db)}

	sessions, closeSessions, err := openSessionStore(ctx, cfg, checks)
	if err != nil {
		return err
	}
	defer closeSessions()

	users := mongodb.NewUserRepository(db)
	questions := mongodb.NewQuestionRepository(db)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	e := api.NewRouter(api.Deps{
		Auth:          service.NewAuthService(users, sessions, security.NewPBKDF2Hasher(), cfg.Session.TTL, log),
		Quiz:          service.NewQuizService(questions, users, sessions, log),
		Sessions:      sessions,
		Cookies:       middleware.NewCookieCodec(cfg.Session.Secret, cfg.Session.CookieSecure),
		Metrics:       metrics.New(reg),
		Registry:      reg,
		Checks:        checks,
		AuthRateLimit: cfg.AuthRateLimit,
		Logger:        log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Address()).Msg("quiz server listening")
		if err := e.Start(cfg.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

// openSessionStore builds the configured session store and registers its
// readiness check. The returned func releases it. logger.Init must have run.
func openSessionStore(
	ctx context.Context,
	cfg *config.Config,
	checks map[string]handler.DependencyCheck,
) (ports.SessionStore, func(), error) {
	log := logger.Get()

	if cfg.Session.Store != config.SessionStoreRedis {
		store := session.NewMemoryStore(sessionSweepEvery)
		log.Info().Msg("using in-memory session store")
		return store, func() { _ = store.Close() }, nil
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:    cfg.Redis.Addr,
		DB:      cfg.Redis.DB,
		Retries: cfg.ConnectRetries,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("session store unavailable: %w", err)
	}
	checks["redis"] = handler.RedisCheck(rdb)
	log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis session store")

	return redisdb.NewSessionStore(rdb), func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}, nil
}
