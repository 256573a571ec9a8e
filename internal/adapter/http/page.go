package http

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/couchcryptid/flood-flow-dashboard/internal/chart"
	"github.com/couchcryptid/flood-flow-dashboard/internal/dashboard"
	"github.com/couchcryptid/flood-flow-dashboard/internal/domain"
)

// PageTitle is the heading of the dashboard page.
const PageTitle = "Historical Flood Flow Analysis"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
form { display: flex; gap: 2rem; align-items: flex-start; margin-bottom: 1rem; }
iframe { width: 100%; height: 640px; border: 0; }
table { border-collapse: collapse; margin-top: 1rem; }
th, td { border: 1px solid #ccc; padding: 0.25rem 0.5rem; text-align: right; }
th:first-child, td:first-child { text-align: left; }
.notice { background: #fff7e6; padding: 0.5rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .SampleNotice}}<p class="notice">{{.SampleNotice}}</p>{{end}}
<form method="get" action="/">
  <label>Barrage
    <select name="structure" multiple size="6">
    {{range .Structures}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
    {{end}}</select>
  </label>
  <label>Year
    <select name="year">
    {{range .Years}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
    {{end}}</select>
  </label>
  <button type="submit">Update</button>
</form>
<iframe src="{{.ChartURL}}" title="Flow chart"></iframe>
<h2>Flood statistics</h2>
<table>
<tr><th>Barrage</th><th>Records</th><th>Max inflow</th><th>Mean inflow</th>{{range .FloodYears}}<th>{{.}} peak</th><th>{{.}} peak date</th><th>{{.}} flood mean</th>{{end}}</tr>
{{range .Rows}}<tr><td>{{.Structure}}</td><td>{{.TotalRecords}}</td><td>{{printf "%.0f" .MaxInflow}}</td><td>{{printf "%.0f" .AvgInflow}}</td>{{range .Floods}}<td>{{printf "%.0f" .PeakInflow}}</td><td>{{.PeakDate}}</td><td>{{printf "%.0f" .AvgInflowFlood}}</td>{{end}}</tr>
{{end}}</table>
</body>
</html>
`))

type selectOption struct {
	Label    string
	Value    string
	Selected bool
}

type floodCell struct {
	PeakInflow     float64
	PeakDate       string
	AvgInflowFlood float64
}

type statsRow struct {
	Structure    string
	TotalRecords int
	MaxInflow    float64
	AvgInflow    float64
	Floods       []floodCell
}

type pageData struct {
	Title        string
	SampleNotice string
	Structures   []selectOption
	Years        []selectOption
	ChartURL     string
	FloodYears   []int
	Rows         []statsRow
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel, err := parseSelection(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	snap, err := s.dashboard.Snapshot()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	opts, err := s.dashboard.Options()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	data := pageData{
		Title:      PageTitle,
		Structures: markSelected(opts.Structures, sel.Structures),
		Years:      markSelected(opts.Years, []string{sel.Year.String()}),
		ChartURL:   chartURL(sel),
		FloodYears: snap.Calendar.Years(),
		Rows:       statsRows(snap.Statistics),
	}
	if snap.Origin.Kind == dashboard.OriginSample {
		data.SampleNotice = "Showing sample data: the workbook could not be loaded (" + snap.Origin.FallbackReason + ")."
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.logger.Error("render page failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes()) //nolint:errcheck // client went away
}

func markSelected(options []dashboard.Option, selected []string) []selectOption {
	out := make([]selectOption, len(options))
	for i, o := range options {
		out[i] = selectOption{Label: o.Label, Value: o.Value, Selected: slices.Contains(selected, o.Value)}
	}
	return out
}

func chartURL(sel chart.Selection) string {
	q := url.Values{}
	for _, s := range sel.Structures {
		q.Add(paramStructure, s)
	}
	q.Set(paramYear, sel.Year.String())
	return "/chart?" + q.Encode()
}

func statsRows(stats domain.Statistics) []statsRow {
	rows := make([]statsRow, 0, len(stats.Structures))
	for _, st := range stats.Structures {
		row := statsRow{
			Structure:    st.Structure,
			TotalRecords: st.TotalRecords,
			MaxInflow:    st.MaxInflow,
			AvgInflow:    st.AvgInflow,
		}
		for _, f := range st.Floods {
			cell := floodCell{PeakInflow: f.PeakInflow, PeakDate: "-", AvgInflowFlood: f.AvgInflowFlood}
			if f.PeakDate != nil {
				cell.PeakDate = f.PeakDate.Format(time.DateOnly)
			}
			row.Floods = append(row.Floods, cell)
		}
		rows = append(rows, row)
	}
	return rows
}
