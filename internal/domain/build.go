package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// dateLayouts are the textual date layouts accepted for date cells, tried in
// order. Month-first precedes day-first, so "03/04/2022" is March 4.
var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"1/2/2006",
	"1/2/2006 15:04",
	"2/1/2006",
	"1/2/06",
	"2/1/06",
	"02-Jan-2006",
	"2-Jan-06",
	"2 January 2006",
	"January 2, 2006",
}

var errEmptyDate = errors.New("empty value")

// minSerialDate is the smallest accepted Excel serial date (1910-01-01).
// Smaller numbers are far more likely to be a bare year or a mistyped cell
// than a real observation date.
const minSerialDate = 3654

// BuildTable converts a raw sheet into a flow-record table: headers are
// resolved, cells are coerced, calendar and flood fields are derived and the
// records are sorted by (structure, date).
//
// A missing date or inflow column fails with a *MissingColumnError and any
// unparseable date fails the whole build with a *DateParseError. Non-numeric
// inflow cells become 0. Rows with no non-blank cell are skipped.
func BuildTable(raw RawSheet, cal FloodCalendar) (*Table, error) {
	cols, err := ResolveColumns(raw.Headers)
	if err != nil {
		return nil, fmt.Errorf("resolve columns: %w", err)
	}

	records := make([]FlowRecord, 0, len(raw.Rows))
	for i, row := range raw.Rows {
		if isBlankRow(row) {
			continue
		}
		rowNum := i + 2 // header is row 1

		dateCell := cell(row, cols.Date)
		date, err := ParseDate(dateCell)
		if err != nil {
			return nil, &DateParseError{Row: rowNum, Value: dateCell, Err: err}
		}

		structure := UnknownStructure
		if cols.HasStructure() {
			if s := strings.TrimSpace(cell(row, cols.Structure)); s != "" {
				structure = s
			}
		}

		records = append(records, FlowRecord{
			Date:      date,
			Inflow:    parseInflow(cell(row, cols.Inflow)),
			Structure: structure,
		})
	}

	return NewTable(records, cal), nil
}

// ParseDate parses a date cell. Numeric values are Excel serial dates in the
// 1900 date system; other values are tried against the accepted text layouts.
// The result is truncated to the calendar day in UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errEmptyDate
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if serial < minSerialDate || math.IsNaN(serial) || math.IsInf(serial, 0) {
			return time.Time{}, fmt.Errorf("serial date %q out of range", value)
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("serial date %q: %w", value, err)
		}
		return truncateToDay(t), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return truncateToDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", value)
}

// parseInflow parses an inflow cell, returning 0 for blank, non-numeric and
// non-finite values.
func parseInflow(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
