package domain

import (
	"slices"
	"time"
)

// UnknownStructure is attributed to records without a structure name.
const UnknownStructure = "Unknown"

// NormalPeriod labels records outside every flood window.
const NormalPeriod = "Normal"

// RawSheet is an untyped sheet as read from a workbook. Rows may be shorter
// than Headers when trailing cells are empty.
type RawSheet struct {
	Headers []string
	Rows    [][]string
}

// FlowRecord is one daily inflow observation with its derived calendar and
// flood-period attributes.
type FlowRecord struct {
	Date      time.Time `json:"date"`
	Inflow    float64   `json:"inflow"`
	Structure string    `json:"structure"`

	Year        int    `json:"year"`
	Month       int    `json:"month"`
	MonthName   string `json:"month_name"`
	DayMonth    string `json:"day_month"`
	IsFloodYear bool   `json:"is_flood_year"`
	FloodPeriod string `json:"flood_period"`
}

// Table is an immutable, ordered collection of flow records.
type Table struct {
	records []FlowRecord
}

// NewTable derives calendar and flood-period fields for each record and sorts
// the result by (structure, date). Only Date, Inflow and Structure are read
// from the input.
func NewTable(records []FlowRecord, cal FloodCalendar) *Table {
	out := make([]FlowRecord, len(records))
	for i, r := range records {
		out[i] = deriveRecord(r.Date, r.Inflow, r.Structure, cal)
	}
	slices.SortStableFunc(out, compareRecords)
	return &Table{records: out}
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.records)
}

// Records returns a copy of the records in table order.
func (t *Table) Records() []FlowRecord {
	return slices.Clone(t.records)
}

// Each calls fn for every record in table order until fn returns false.
func (t *Table) Each(fn func(FlowRecord) bool) {
	for _, r := range t.records {
		if !fn(r) {
			return
		}
	}
}

// Structures returns the distinct structure names in table order.
func (t *Table) Structures() []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range t.records {
		if !seen[r.Structure] {
			seen[r.Structure] = true
			out = append(out, r.Structure)
		}
	}
	return out
}

// Years returns the distinct record years in ascending order.
func (t *Table) Years() []int {
	seen := make(map[int]bool)
	var out []int
	for _, r := range t.records {
		if !seen[r.Year] {
			seen[r.Year] = true
			out = append(out, r.Year)
		}
	}
	slices.Sort(out)
	return out
}

// FilterYear returns the records of a single year in table order.
func (t *Table) FilterYear(year int) []FlowRecord {
	var out []FlowRecord
	for _, r := range t.records {
		if r.Year == year {
			out = append(out, r)
		}
	}
	return out
}

// DateRange returns the earliest and latest record dates. ok is false for an
// empty table.
func (t *Table) DateRange() (start, end time.Time, ok bool) {
	for i, r := range t.records {
		if i == 0 || r.Date.Before(start) {
			start = r.Date
		}
		if i == 0 || r.Date.After(end) {
			end = r.Date
		}
	}
	return start, end, len(t.records) > 0
}

func compareRecords(a, b FlowRecord) int {
	switch {
	case a.Structure < b.Structure:
		return -1
	case a.Structure > b.Structure:
		return 1
	}
	return a.Date.Compare(b.Date)
}

// deriveRecord builds a fully derived record from its three source fields.
func deriveRecord(date time.Time, inflow float64, structure string, cal FloodCalendar) FlowRecord {
	date = truncateToDay(date)
	return FlowRecord{
		Date:        date,
		Inflow:      inflow,
		Structure:   structure,
		Year:        date.Year(),
		Month:       int(date.Month()),
		MonthName:   date.Month().String(),
		DayMonth:    date.Format("02/01"),
		IsFloodYear: cal.IsFloodYear(date.Year()),
		FloodPeriod: cal.Label(date),
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
