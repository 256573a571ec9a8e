// Package chart builds the flow-pattern time-series figure from a loaded
// table and a structure/year selection.
package chart

import (
	"slices"
	"strings"
	"time"

	"github.com/couchcryptid/flood-flow-dashboard/internal/domain"
)

const (
	XAxisTitle = "Date"
	YAxisTitle = "Flow (cusecs)"

	// DefaultColor is used for structures outside the palette.
	DefaultColor = "#2563eb"
)

// Palette assigns each known barrage its series color.
var Palette = map[string]string{
	"Trimmu":    "#2563eb",
	"Panjnad":   "#16a34a",
	"Qadirabad": "#f59e0b",
	"Marala":    "#10b981",
	"Khanki":    "#8b5cf6",
	"Guddu":     "#ec4899",
}

// KnownStructures lists the palette structures in selector order.
var KnownStructures = []string{"Trimmu", "Panjnad", "Qadirabad", "Marala", "Khanki", "Guddu"}

// ColorFor returns the palette color of a structure, or DefaultColor.
func ColorFor(structure string) string {
	if c, ok := Palette[structure]; ok {
		return c
	}
	return DefaultColor
}

// Figure is a renderable line chart.
type Figure struct {
	Title      string   `json:"title"`
	XAxisTitle string   `json:"x_axis_title"`
	YAxisTitle string   `json:"y_axis_title"`
	Series     []Series `json:"series"`
	Bands      []Band   `json:"bands"`
}

// Series is one structure's inflow line.
type Series struct {
	Name      string  `json:"name"`
	Structure string  `json:"structure"`
	Color     string  `json:"color"`
	Points    []Point `json:"points"`
}

// Point is one dated inflow value.
type Point struct {
	Date   time.Time `json:"date"`
	Inflow float64   `json:"inflow"`
}

// Band is a shaded flood window spanning the flood-labeled records in view.
type Band struct {
	Year  int       `json:"year"`
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Color string    `json:"color"`
}

// Builder produces figures from an immutable table. It is safe for
// concurrent use.
type Builder struct {
	table    *domain.Table
	calendar domain.FloodCalendar
}

// NewBuilder creates a Builder over a loaded table and its flood calendar.
func NewBuilder(table *domain.Table, calendar domain.FloodCalendar) *Builder {
	return &Builder{table: table, calendar: calendar}
}

// Build filters the table by year, then draws one series per resolved
// structure and one band per flood year in view.
func (b *Builder) Build(sel Selection) Figure {
	var rows []domain.FlowRecord
	b.table.Each(func(r domain.FlowRecord) bool {
		if sel.Year.Matches(r.Year) {
			rows = append(rows, r)
		}
		return true
	})

	fig := Figure{
		Title:      title(sel),
		XAxisTitle: XAxisTitle,
		YAxisTitle: YAxisTitle,
		Series:     []Series{},
		Bands:      []Band{},
	}

	for _, structure := range resolveStructures(sel, rows) {
		if s, ok := buildSeries(structure, rows); ok {
			fig.Series = append(fig.Series, s)
		}
	}

	for _, p := range b.bandPeriods(sel.Year) {
		if band, ok := buildBand(p, rows); ok {
			fig.Bands = append(fig.Bands, band)
		}
	}
	return fig
}

// resolveStructures expands All to the distinct structures in rows, and
// otherwise returns the explicit selection unchanged.
func resolveStructures(sel Selection, rows []domain.FlowRecord) []string {
	if !sel.IncludesAll() {
		return sel.Structures
	}
	var out []string
	seen := make(map[string]bool)
	for _, r := range rows {
		if !seen[r.Structure] {
			seen[r.Structure] = true
			out = append(out, r.Structure)
		}
	}
	return out
}

func buildSeries(structure string, rows []domain.FlowRecord) (Series, bool) {
	var points []Point
	for _, r := range rows {
		if r.Structure == structure {
			points = append(points, Point{Date: r.Date, Inflow: r.Inflow})
		}
	}
	if len(points) == 0 {
		return Series{}, false
	}
	slices.SortStableFunc(points, func(a, b Point) int { return a.Date.Compare(b.Date) })

	return Series{
		Name:      structure + " Inflow",
		Structure: structure,
		Color:     ColorFor(structure),
		Points:    points,
	}, true
}

// bandPeriods returns the flood windows that intersect the year filter.
func (b *Builder) bandPeriods(year YearFilter) []domain.FloodPeriod {
	if year.All {
		return b.calendar.Periods()
	}
	p, err := b.calendar.Period(year.Year)
	if err != nil {
		return nil
	}
	return []domain.FloodPeriod{p}
}

// buildBand spans the flood-labeled rows of the period's year, across all
// structures in view.
func buildBand(p domain.FloodPeriod, rows []domain.FlowRecord) (Band, bool) {
	var start, end time.Time
	found := false
	for _, r := range rows {
		if r.Year != p.Year || r.FloodPeriod != p.Label() {
			continue
		}
		if !found || r.Date.Before(start) {
			start = r.Date
		}
		if !found || r.Date.After(end) {
			end = r.Date
		}
		found = true
	}
	if !found {
		return Band{}, false
	}
	return Band{Year: p.Year, Label: p.Label(), Start: start, End: end, Color: p.Color}, true
}

// title renders "Flow Patterns - {structures} Barrage(s)" with the year in
// parentheses when a single year is selected.
func title(sel Selection) string {
	structures := All
	if !sel.IncludesAll() {
		structures = strings.Join(sel.Structures, ", ")
	}
	t := "Flow Patterns - " + structures + " Barrage(s)"
	if !sel.Year.All {
		t += " (" + sel.Year.String() + ")"
	}
	return t
}
