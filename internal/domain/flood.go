package domain

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"
)

// DefaultBandColor shades flood windows that do not configure their own color.
const DefaultBandColor = "rgba(255, 0, 0, 0.2)"

// FloodPeriod is the flood window of a single year. Start and End are
// inclusive calendar days.
type FloodPeriod struct {
	Year  int       `json:"year"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Color string    `json:"color,omitempty"`
}

// Label is the flood-period label of records inside the window, e.g. "2014 Flood".
func (p FloodPeriod) Label() string {
	return FloodLabel(p.Year)
}

// Contains reports whether the date's calendar day lies inside the window.
func (p FloodPeriod) Contains(date time.Time) bool {
	day := truncateToDay(date)
	return !day.Before(p.Start) && !day.After(p.End)
}

// FloodLabel formats the flood-period label for a year.
func FloodLabel(year int) string {
	return strconv.Itoa(year) + " Flood"
}

// FloodCalendar is the set of configured flood windows, ordered by year.
// The zero value is an empty calendar in which every record is "Normal".
type FloodCalendar struct {
	periods []FloodPeriod
}

// NewFloodCalendar validates the periods and returns them as a calendar.
// Each year may appear once, Start must not be after End, and both ends must
// fall inside the period's year.
func NewFloodCalendar(periods []FloodPeriod) (FloodCalendar, error) {
	out := make([]FloodPeriod, 0, len(periods))
	seen := make(map[int]bool, len(periods))
	for _, p := range periods {
		if seen[p.Year] {
			return FloodCalendar{}, fmt.Errorf("flood period %d: duplicate year", p.Year)
		}
		seen[p.Year] = true

		p.Start = truncateToDay(p.Start)
		p.End = truncateToDay(p.End)
		if p.Start.IsZero() || p.End.IsZero() {
			return FloodCalendar{}, fmt.Errorf("flood period %d: start and end are required", p.Year)
		}
		if p.End.Before(p.Start) {
			return FloodCalendar{}, fmt.Errorf("flood period %d: end %s is before start %s",
				p.Year, p.End.Format(time.DateOnly), p.Start.Format(time.DateOnly))
		}
		if p.Start.Year() != p.Year || p.End.Year() != p.Year {
			return FloodCalendar{}, fmt.Errorf("flood period %d: window %s..%s is outside the year",
				p.Year, p.Start.Format(time.DateOnly), p.End.Format(time.DateOnly))
		}
		if p.Color == "" {
			p.Color = DefaultBandColor
		}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b FloodPeriod) int { return a.Year - b.Year })
	return FloodCalendar{periods: out}, nil
}

// DefaultFloodCalendar returns the built-in flood windows for 2014, 2022 and
// 2023. The 2022 and 2023 windows are approximate.
func DefaultFloodCalendar() FloodCalendar {
	cal, err := NewFloodCalendar([]FloodPeriod{
		{Year: 2014, Start: day(2014, time.September, 6), End: day(2014, time.September, 16), Color: "rgba(255, 0, 0, 0.2)"},
		{Year: 2022, Start: day(2022, time.July, 15), End: day(2022, time.August, 15), Color: "rgba(255, 165, 0, 0.2)"},
		{Year: 2023, Start: day(2023, time.July, 15), End: day(2023, time.August, 15), Color: "rgba(255, 69, 0, 0.2)"},
	})
	if err != nil {
		panic(err)
	}
	return cal
}

// ErrNoFloodPeriod is returned by Period for years without a flood window.
var ErrNoFloodPeriod = errors.New("no flood period configured")

// Periods returns the flood windows ordered by year.
func (c FloodCalendar) Periods() []FloodPeriod {
	return slices.Clone(c.periods)
}

// Years returns the flood years in ascending order.
func (c FloodCalendar) Years() []int {
	out := make([]int, len(c.periods))
	for i, p := range c.periods {
		out[i] = p.Year
	}
	return out
}

// IsFloodYear reports whether the year has a configured flood window.
func (c FloodCalendar) IsFloodYear(year int) bool {
	_, err := c.Period(year)
	return err == nil
}

// Period returns the flood window for a year.
func (c FloodCalendar) Period(year int) (FloodPeriod, error) {
	for _, p := range c.periods {
		if p.Year == year {
			return p, nil
		}
	}
	return FloodPeriod{}, fmt.Errorf("year %d: %w", year, ErrNoFloodPeriod)
}

// Label returns "{year} Flood" when the date falls inside its year's window,
// and "Normal" otherwise.
func (c FloodCalendar) Label(date time.Time) string {
	p, err := c.Period(date.Year())
	if err != nil || !p.Contains(date) {
		return NormalPeriod
	}
	return p.Label()
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
