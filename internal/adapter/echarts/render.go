// Package echarts renders chart figures as standalone ECharts HTML pages.
package echarts

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/couchcryptid/flood-flow-dashboard/internal/chart"
)

const (
	dateLayout  = time.DateOnly
	chartHeight = "600px"
	lineWidth   = 2
)

// Renderer writes a figure as HTML.
type Renderer struct {
	pageTitle string
}

// NewRenderer creates a Renderer whose pages carry the given document title.
func NewRenderer(pageTitle string) *Renderer {
	return &Renderer{pageTitle: pageTitle}
}

// Render writes fig to w as a full HTML page.
func (r *Renderer) Render(w io.Writer, fig chart.Figure) error {
	if err := r.line(fig).Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func (r *Renderer) line(fig chart.Figure) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: r.pageTitle,
			Width:     "100%",
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: fig.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "time", Name: fig.XAxisTitle}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: fig.YAxisTitle}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
	)

	for _, s := range fig.Series {
		line.AddSeries(s.Name, lineData(s.Points),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color, Width: lineWidth}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
		)
	}

	// Each band is an empty series carrying its own mark area, so bands keep
	// their own colors and show up in the legend under their label.
	for _, b := range fig.Bands {
		line.AddSeries(b.Label, []opts.LineData{},
			charts.WithMarkAreaNameXAxisItemOpts(
				opts.MarkAreaNameXAxisItem{Name: b.Label, XAxis: b.Start.Format(dateLayout)},
				opts.MarkAreaNameXAxisItem{XAxis: b.End.Format(dateLayout)},
			),
			charts.WithMarkAreaStyleOpts(opts.MarkAreaStyle{
				ItemStyle: &opts.ItemStyle{Color: b.Color},
				Label:     &opts.Label{Show: opts.Bool(true), Position: "insideTop"},
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: b.Color}),
		)
	}
	return line
}

func lineData(points []chart.Point) []opts.LineData {
	data := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		data = append(data, opts.LineData{Value: []interface{}{p.Date.Format(dateLayout), p.Inflow}})
	}
	return data
}
