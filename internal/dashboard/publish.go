package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/flood-flow-dashboard/internal/domain"
	"github.com/couchcryptid/flood-flow-dashboard/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second

	// DefaultPublishAttempts bounds how often a snapshot publish is tried.
	DefaultPublishAttempts = 5
)

// StatsPublisher writes a statistics snapshot to a downstream sink.
type StatsPublisher interface {
	PublishStatistics(ctx context.Context, stats domain.Statistics, origin string) error
}

// Publisher pushes snapshot statistics to a StatsPublisher, retrying with
// exponential backoff.
type Publisher struct {
	sink        StatsPublisher
	logger      *slog.Logger
	metrics     *observability.Metrics
	maxAttempts int
	backoff     time.Duration
	maxBackoff  time.Duration
}

// NewPublisher creates a Publisher that tries at most maxAttempts times.
func NewPublisher(sink StatsPublisher, logger *slog.Logger, metrics *observability.Metrics, maxAttempts int) *Publisher {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Publisher{
		sink:        sink,
		logger:      logger,
		metrics:     metrics,
		maxAttempts: maxAttempts,
		backoff:     initialBackoff,
		maxBackoff:  maxBackoff,
	}
}

// Publish sends the snapshot statistics. Backoff starts at 200ms, doubles
// after each failure and is capped at 5s. The last error is returned once
// the attempts are exhausted or the context is cancelled.
func (p *Publisher) Publish(ctx context.Context, snap *Snapshot) error {
	backoff := p.backoff
	var err error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		err = p.sink.PublishStatistics(ctx, snap.Statistics, snap.Origin.Kind)
		if err == nil {
			p.metrics.StatsPublished.WithLabelValues("success").Inc()
			p.logger.Info("statistics published",
				"structures", len(snap.Statistics.Structures),
				"attempt", attempt,
			)
			return nil
		}
		p.metrics.StatsPublished.WithLabelValues("error").Inc()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.logger.Warn("publish statistics failed", "error", err, "attempt", attempt, "max_attempts", p.maxAttempts)

		if attempt == p.maxAttempts {
			break
		}
		if !retry.SleepWithContext(ctx, backoff) {
			return ctx.Err()
		}
		backoff = retry.NextBackoff(backoff, p.maxBackoff)
	}
	return fmt.Errorf("publish statistics after %d attempts: %w", p.maxAttempts, err)
}
