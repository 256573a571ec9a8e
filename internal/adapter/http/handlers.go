package http

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/couchcryptid/flood-flow-dashboard/internal/chart"
	"github.com/couchcryptid/flood-flow-dashboard/internal/dashboard"
)

const (
	paramStructure = "structure"
	paramYear      = "year"
)

// parseSelection reads repeated structure parameters and a single year. An
// absent structure parameter selects every structure.
func parseSelection(q url.Values) (chart.Selection, error) {
	year, err := chart.ParseYearFilter(q.Get(paramYear))
	if err != nil {
		return chart.Selection{}, err
	}
	var structures []string
	if vs, ok := q[paramStructure]; ok && len(vs) > 0 {
		structures = vs
	}
	return chart.NewSelection(structures, year), nil
}

// statusFor maps a dashboard error to an HTTP status.
func statusFor(err error) int {
	if errors.Is(err, dashboard.ErrNotReady) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	fig, err := s.dashboard.Chart(sel)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, fig); err != nil {
		s.logger.Error("render chart failed", "error", err, "selection", sel.Key())
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes()) //nolint:errcheck // client went away
}

func (s *Server) handleChartJSON(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	fig, err := s.dashboard.Chart(sel)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, fig)
}

func (s *Server) handleStatistics(w http.ResponseWriter, _ *http.Request) {
	stats, err := s.dashboard.Statistics()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	opts, err := s.dashboard.Options()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}
