package domain

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Statistics summarizes a table. It is computed once per load and never updated.
type Statistics struct {
	TotalRecords int              `json:"total_records"`
	DateRange    *DateRange       `json:"date_range,omitempty"`
	Structures   []StructureStats `json:"structures"`
	ComputedAt   time.Time        `json:"computed_at"`
}

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// StructureStats holds the aggregates of one structure.
type StructureStats struct {
	Structure    string           `json:"structure"`
	TotalRecords int              `json:"total_records"`
	MaxInflow    float64          `json:"max_inflow"`
	AvgInflow    float64          `json:"avg_inflow"`
	Floods       []FloodYearStats `json:"floods"`
}

// FloodYearStats describes one structure in one flood year. PeakDate is nil
// when the structure has no records in that year, in which case both inflow
// figures are 0.
type FloodYearStats struct {
	Year           int        `json:"year"`
	PeakInflow     float64    `json:"peak_inflow"`
	PeakDate       *time.Time `json:"peak_inflow_date"`
	AvgInflowFlood float64    `json:"avg_inflow_flood"`
}

// Structure returns the statistics of the named structure.
func (s Statistics) Structure(name string) (StructureStats, bool) {
	for _, st := range s.Structures {
		if st.Structure == name {
			return st, true
		}
	}
	return StructureStats{}, false
}

// Flood returns the statistics for a flood year.
func (s StructureStats) Flood(year int) (FloodYearStats, bool) {
	for _, f := range s.Floods {
		if f.Year == year {
			return f, true
		}
	}
	return FloodYearStats{}, false
}

// ComputeStatistics aggregates the table per structure and per flood year of
// the calendar.
//
// A flood year's peak is taken over all of the structure's records in that
// year, with ties resolved to the earliest record in table order. The flood
// average covers only the records labeled with that year's flood period and
// is 0 when there are none.
func ComputeStatistics(t *Table, cal FloodCalendar) Statistics {
	out := Statistics{
		TotalRecords: t.Len(),
		Structures:   []StructureStats{},
		ComputedAt:   clock.Now().UTC(),
	}
	if start, end, ok := t.DateRange(); ok {
		out.DateRange = &DateRange{Start: start, End: end}
	}

	byStructure := groupByStructure(t)
	for _, name := range t.Structures() {
		out.Structures = append(out.Structures, structureStats(name, byStructure[name], cal))
	}
	return out
}

func structureStats(name string, records []FlowRecord, cal FloodCalendar) StructureStats {
	inflows := inflowsOf(records)
	st := StructureStats{
		Structure:    name,
		TotalRecords: len(records),
		MaxInflow:    floats.Max(inflows),
		AvgInflow:    stat.Mean(inflows, nil),
	}

	for _, p := range cal.Periods() {
		st.Floods = append(st.Floods, floodYearStats(p, records))
	}
	return st
}

func floodYearStats(p FloodPeriod, records []FlowRecord) FloodYearStats {
	var year, flood []FlowRecord
	for _, r := range records {
		if r.Year != p.Year {
			continue
		}
		year = append(year, r)
		if r.FloodPeriod == p.Label() {
			flood = append(flood, r)
		}
	}
	if len(year) == 0 {
		return FloodYearStats{Year: p.Year}
	}

	inflows := inflowsOf(year)
	peak := floats.MaxIdx(inflows)
	peakDate := year[peak].Date

	fs := FloodYearStats{
		Year:       p.Year,
		PeakInflow: inflows[peak],
		PeakDate:   &peakDate,
	}
	if len(flood) > 0 {
		fs.AvgInflowFlood = stat.Mean(inflowsOf(flood), nil)
	}
	return fs
}

// groupByStructure splits the table into per-structure slices, preserving table order.
func groupByStructure(t *Table) map[string][]FlowRecord {
	out := make(map[string][]FlowRecord)
	t.Each(func(r FlowRecord) bool {
		out[r.Structure] = append(out[r.Structure], r)
		return true
	})
	return out
}

func inflowsOf(records []FlowRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Inflow
	}
	return out
}
