package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultRetryBackoff = 250 * time.Millisecond
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
	// Retries is the number of extra ping attempts before Connect gives up.
	Retries int
}

// Connect establishes a MongoDB client, verifies connectivity with a ping
// (retried with exponential backoff up to cfg.Retries times), and returns both
// the client and the selected database. A default timeout is applied to each
// attempt when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	backoff := retry.WithMaxRetries(uint64(max(cfg.Retries, 0)), retry.NewExponential(defaultRetryBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes creates the indexes both repositories rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	if err := NewQuestionRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("questions indexes: %w", err)
	}
	return nil
}
