// Package dashboard owns the application state: it loads the workbook into an
// immutable snapshot, applies the sample fallback policy, and serves charts,
// statistics and selector options from the installed snapshot.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/flood-flow-dashboard/internal/domain"
	"github.com/couchcryptid/flood-flow-dashboard/internal/observability"
)

// SheetSource reads the raw flow sheet from a workbook.
type SheetSource interface {
	ReadSheet(ctx context.Context) (domain.RawSheet, error)
	Describe() string
}

// Origin kinds.
const (
	OriginWorkbook = "workbook"
	OriginSample   = "sample"
)

// Origin records where a snapshot's rows came from.
type Origin struct {
	Kind   string `json:"kind"`
	Source string `json:"source"`
	// FallbackReason is the classified load failure that caused a sample
	// fallback. Empty for workbook snapshots.
	FallbackReason string `json:"fallback_reason,omitempty"`
}

func (o Origin) String() string { return o.Kind }

// Snapshot is the loaded application state. It is never mutated after Load
// returns.
type Snapshot struct {
	Table      *domain.Table
	Statistics domain.Statistics
	Calendar   domain.FloodCalendar
	Origin     Origin
	LoadedAt   time.Time
}

// LoadOptions controls the failure policy of Load.
type LoadOptions struct {
	// SampleFallback substitutes the synthetic sample table when the
	// workbook cannot be loaded.
	SampleFallback bool
	SampleSeed     uint64
}

// Load reads and derives the flow table from src and computes its statistics.
// A load failure is returned as is unless opts.SampleFallback is set, in which
// case the failure is logged and counted and the sample table is used.
func Load(ctx context.Context, src SheetSource, cal domain.FloodCalendar, opts LoadOptions, logger *slog.Logger, metrics *observability.Metrics) (*Snapshot, error) {
	start := time.Now()
	origin := Origin{Kind: OriginWorkbook, Source: src.Describe()}

	table, err := loadTable(ctx, src, cal)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		reason := domain.ClassifyLoadError(err)
		metrics.LoadFailures.WithLabelValues(reason).Inc()
		if !opts.SampleFallback {
			return nil, fmt.Errorf("load %s: %w", origin.Source, err)
		}
		logger.Warn("workbook load failed, using sample data",
			"error", err,
			"reason", reason,
			"source", origin.Source,
			"seed", opts.SampleSeed,
		)
		table = domain.SampleTable(cal, opts.SampleSeed)
		origin = Origin{Kind: OriginSample, Source: origin.Source, FallbackReason: reason}
	}

	snap := &Snapshot{
		Table:      table,
		Statistics: domain.ComputeStatistics(table, cal),
		Calendar:   cal,
		Origin:     origin,
		LoadedAt:   domain.Now().UTC(),
	}

	metrics.RecordsLoaded.Set(float64(table.Len()))
	metrics.LoadDuration.Observe(time.Since(start).Seconds())
	logger.Info("snapshot loaded",
		"origin", origin.Kind,
		"source", origin.Source,
		"records", table.Len(),
		"structures", len(snap.Statistics.Structures),
	)
	return snap, nil
}

func loadTable(ctx context.Context, src SheetSource, cal domain.FloodCalendar) (*domain.Table, error) {
	raw, err := src.ReadSheet(ctx)
	if err != nil {
		return nil, err
	}
	return domain.BuildTable(raw, cal)
}
