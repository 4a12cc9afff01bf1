package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"sports_crawler/internal/domain"
)

// Connector wraps the database handle with an explicit connection-health
// check. Every store operation calls EnsureConnected first so a dropped
// connection heals transparently instead of surfacing as a transport error
// mid-run.
type Connector struct {
	db          *sqlx.DB
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

func NewConnector(db *sqlx.DB, maxAttempts int, retryDelay time.Duration, logger *slog.Logger) *Connector {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if retryDelay <= 0 {
		retryDelay = time.Second
	}
	return &Connector{
		db:          db,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
		logger:      logger,
	}
}

// DB exposes the underlying handle for stores.
func (c *Connector) DB() *sqlx.DB { return c.db }

// EnsureConnected pings the store and, on failure, retries with a fixed
// delay up to the attempt bound. Exhaustion returns ErrStoreUnavailable so
// callers can treat the outcome as "unavailable" rather than a raw
// transport error.
func (c *Connector) EnsureConnected(ctx context.Context) error {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.db.PingContext(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt == c.maxAttempts {
			break
		}

		c.logger.Warn("store ping failed, retrying",
			"attempt", attempt,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}

	return fmt.Errorf("reconnect after %d attempts: %v: %w", c.maxAttempts, lastErr, domain.ErrStoreUnavailable)
}
