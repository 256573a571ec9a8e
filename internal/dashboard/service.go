package dashboard

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"

	"github.com/couchcryptid/flood-flow-dashboard/internal/chart"
	"github.com/couchcryptid/flood-flow-dashboard/internal/domain"
	"github.com/couchcryptid/flood-flow-dashboard/internal/observability"
)

// Selector labels for the pass-through options.
const (
	AllStructuresLabel = "All Barrages"
	AllYearsLabel      = "All Years"
)

var (
	// ErrNotReady is returned by read operations before a snapshot is installed.
	ErrNotReady = errors.New("snapshot not loaded yet")
	// ErrAlreadyInstalled is returned when a second snapshot is installed.
	ErrAlreadyInstalled = errors.New("snapshot already installed")
)

// Option is one selector entry.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Options are the selector entries offered by the dashboard page.
type Options struct {
	Structures []Option `json:"structures"`
	Years      []Option `json:"years"`
}

// Service serves read operations from the installed snapshot.
type Service struct {
	state     atomic.Pointer[state]
	cacheSize int
	metrics   *observability.Metrics
}

type state struct {
	snapshot *Snapshot
	charts   chart.FigureBuilder
	options  Options
}

// NewService creates a Service with no snapshot. Charts are cached in an LRU
// of cacheSize entries.
func NewService(cacheSize int, metrics *observability.Metrics) *Service {
	return &Service{cacheSize: cacheSize, metrics: metrics}
}

// Install publishes the snapshot to readers. It may be called once.
func (s *Service) Install(snap *Snapshot) error {
	builder := chart.NewBuilder(snap.Table, snap.Calendar)
	st := &state{
		snapshot: snap,
		charts:   chart.NewCachedBuilder(builder, s.cacheSize, s.metrics),
		options:  buildOptions(snap.Table),
	}
	if !s.state.CompareAndSwap(nil, st) {
		return ErrAlreadyInstalled
	}
	s.metrics.SnapshotReady.Set(1)
	return nil
}

// CheckReadiness returns nil once a snapshot is installed.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.state.Load() == nil {
		return ErrNotReady
	}
	return nil
}

// Snapshot returns the installed snapshot.
func (s *Service) Snapshot() (*Snapshot, error) {
	st := s.state.Load()
	if st == nil {
		return nil, ErrNotReady
	}
	return st.snapshot, nil
}

// Chart builds (or returns the cached) figure for a selection.
func (s *Service) Chart(sel chart.Selection) (chart.Figure, error) {
	st := s.state.Load()
	if st == nil {
		return chart.Figure{}, ErrNotReady
	}
	return st.charts.Build(sel), nil
}

// Statistics returns the precomputed statistics of the snapshot.
func (s *Service) Statistics() (domain.Statistics, error) {
	st := s.state.Load()
	if st == nil {
		return domain.Statistics{}, ErrNotReady
	}
	return st.snapshot.Statistics, nil
}

// Options returns the structure and year selector entries.
func (s *Service) Options() (Options, error) {
	st := s.state.Load()
	if st == nil {
		return Options{}, ErrNotReady
	}
	return st.options, nil
}

// buildOptions lists the palette structures first, then any other structure
// present in the table, and the table's years ascending.
func buildOptions(t *domain.Table) Options {
	opts := Options{
		Structures: []Option{{Label: AllStructuresLabel, Value: chart.All}},
		Years:      []Option{{Label: AllYearsLabel, Value: chart.All}},
	}

	seen := make(map[string]bool)
	for _, name := range chart.KnownStructures {
		seen[name] = true
		opts.Structures = append(opts.Structures, Option{Label: name, Value: name})
	}
	for _, name := range t.Structures() {
		if !seen[name] {
			seen[name] = true
			opts.Structures = append(opts.Structures, Option{Label: name, Value: name})
		}
	}

	for _, year := range t.Years() {
		y := strconv.Itoa(year)
		opts.Years = append(opts.Years, Option{Label: y, Value: y})
	}
	return opts
}
