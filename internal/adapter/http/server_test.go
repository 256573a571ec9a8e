package http_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/flood-flow-dashboard/internal/adapter/echarts"
	httpadapter "github.com/couchcryptid/flood-flow-dashboard/internal/adapter/http"
	"github.com/couchcryptid/flood-flow-dashboard/internal/chart"
	"github.com/couchcryptid/flood-flow-dashboard/internal/dashboard"
	"github.com/couchcryptid/flood-flow-dashboard/internal/domain"
	"github.com/couchcryptid/flood-flow-dashboard/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot(origin dashboard.Origin) *dashboard.Snapshot {
	cal := domain.DefaultFloodCalendar()
	table := domain.SampleTable(cal, 42)
	return &dashboard.Snapshot{
		Table:      table,
		Statistics: domain.ComputeStatistics(table, cal),
		Calendar:   cal,
		Origin:     origin,
		LoadedAt:   time.Date(2024, time.May, 2, 9, 30, 0, 0, time.UTC),
	}
}

func newTestServer(t *testing.T, snap *dashboard.Snapshot) *httpadapter.Server {
	t.Helper()
	svc := dashboard.NewService(16, observability.NewMetricsForTesting())
	if snap != nil {
		require.NoError(t, svc.Install(snap))
	}
	return httpadapter.NewServer(":0", svc, echarts.NewRenderer(httpadapter.PageTitle), slog.Default())
}

func newReadyServer(t *testing.T) *httpadapter.Server {
	return newTestServer(t, testSnapshot(dashboard.Origin{Kind: dashboard.OriginWorkbook, Source: "flows.xlsx#Selected"}))
}

func get(srv *httpadapter.Server, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(newTestServer(t, nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(newReadyServer(t), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503BeforeSnapshot(t *testing.T) {
	rec := get(newTestServer(t, nil), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(newReadyServer(t), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestPage_Defaults(t *testing.T) {
	rec := get(newReadyServer(t), "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, httpadapter.PageTitle)
	assert.Contains(t, body, `<option value="All" selected>All Barrages</option>`)
	assert.Contains(t, body, `<option value="All" selected>All Years</option>`)
	assert.Contains(t, body, `<option value="Guddu">Guddu</option>`)
	assert.Contains(t, body, `<option value="2023">2023</option>`)
	assert.Contains(t, body, `/chart?structure=All&amp;year=All`)
	assert.NotContains(t, body, "Showing sample data")
}

func TestPage_SelectionAndSampleNotice(t *testing.T) {
	srv := newTestServer(t, testSnapshot(dashboard.Origin{Kind: dashboard.OriginSample, FallbackReason: domain.ReasonMissingColumn}))
	rec := get(srv, "/?structure=Trimmu&structure=Panjnad&year=2022")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<option value="Trimmu" selected>Trimmu</option>`)
	assert.Contains(t, body, `<option value="Panjnad" selected>Panjnad</option>`)
	assert.Contains(t, body, `<option value="2022" selected>2022</option>`)
	assert.Contains(t, body, "Showing sample data")
	assert.Contains(t, body, domain.ReasonMissingColumn)
}

func TestPage_NotReady(t *testing.T) {
	rec := get(newTestServer(t, nil), "/")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestChartJSON(t *testing.T) {
	rec := get(newReadyServer(t), "/api/chart?structure=Trimmu&year=2022")

	require.Equal(t, http.StatusOK, rec.Code)
	var fig chart.Figure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fig))
	assert.Equal(t, "Flow Patterns - Trimmu Barrage(s) (2022)", fig.Title)
	require.Len(t, fig.Series, 1)
	assert.Len(t, fig.Series[0].Points, 365)
	require.Len(t, fig.Bands, 1)
	assert.Equal(t, "2022 Flood", fig.Bands[0].Label)
}

func TestChartJSON_DefaultsToAll(t *testing.T) {
	rec := get(newReadyServer(t), "/api/chart")

	require.Equal(t, http.StatusOK, rec.Code)
	var fig chart.Figure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fig))
	assert.Equal(t, "Flow Patterns - All Barrage(s)", fig.Title)
	assert.Len(t, fig.Series, 2)
	assert.Len(t, fig.Bands, 2)
}

func TestChart_InvalidYear(t *testing.T) {
	for _, target := range []string{"/chart?year=abc", "/api/chart?year=abc", "/?year=abc"} {
		rec := get(newReadyServer(t), target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body["error"], "invalid year")
	}
}

func TestChartHTML(t *testing.T) {
	rec := get(newReadyServer(t), "/chart?structure=Panjnad&year=2023")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Panjnad Inflow")
}

func TestStatisticsJSON(t *testing.T) {
	rec := get(newReadyServer(t), "/api/statistics")

	require.Equal(t, http.StatusOK, rec.Code)
	var stats domain.Statistics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2*(366+365*3), stats.TotalRecords)
	require.Len(t, stats.Structures, 2)
	assert.Equal(t, "Panjnad", stats.Structures[0].Structure)
}

func TestOptionsJSON(t *testing.T) {
	rec := get(newReadyServer(t), "/api/options")

	require.Equal(t, http.StatusOK, rec.Code)
	var opts dashboard.Options
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	assert.Equal(t, dashboard.Option{Label: dashboard.AllStructuresLabel, Value: "All"}, opts.Structures[0])
	assert.Len(t, opts.Years, 5)
}

func TestAPI_NotReady(t *testing.T) {
	srv := newTestServer(t, nil)
	for _, target := range []string{"/api/chart", "/api/statistics", "/api/options", "/chart"} {
		assert.Equal(t, http.StatusServiceUnavailable, get(srv, target).Code, target)
	}
}
