package main

import (
	"fmt"
	"math"

	"github.com/couchcryptid/flood-flow-dashboard/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

const epsilon = 1e-6

// validateOrdering checks records are sorted by structure, then date.
func validateOrdering(t *domain.Table) *phase {
	p := &phase{name: "Phase 1: Record ordering"}
	var prev domain.FlowRecord
	i := 0
	t.Each(func(r domain.FlowRecord) bool {
		if i > 0 {
			if r.Structure < prev.Structure ||
				(r.Structure == prev.Structure && r.Date.Before(prev.Date)) {
				p.errorf("record %d (%s %s) sorts before record %d (%s %s)",
					i, r.Structure, r.Date.Format("2006-01-02"), i-1, prev.Structure, prev.Date.Format("2006-01-02"))
			}
		}
		prev = r
		i++
		return true
	})
	return p
}

// validateDerivedFields recomputes each record's calendar fields from its date.
func validateDerivedFields(t *domain.Table, cal domain.FloodCalendar) *phase {
	p := &phase{name: "Phase 2: Derived fields and flood labels"}
	i := 0
	t.Each(func(r domain.FlowRecord) bool {
		ctx := fmt.Sprintf("record %d (%s %s)", i, r.Structure, r.Date.Format("2006-01-02"))
		if r.Year != r.Date.Year() {
			p.errorf("%s: year %d", ctx, r.Year)
		}
		if r.Month != int(r.Date.Month()) || r.MonthName != r.Date.Month().String() {
			p.errorf("%s: month %d %q", ctx, r.Month, r.MonthName)
		}
		if r.DayMonth != r.Date.Format("02/01") {
			p.errorf("%s: day_month %q", ctx, r.DayMonth)
		}
		if r.IsFloodYear != cal.IsFloodYear(r.Year) {
			p.errorf("%s: is_flood_year %t", ctx, r.IsFloodYear)
		}
		if want := cal.Label(r.Date); r.FloodPeriod != want {
			p.errorf("%s: flood_period %q, want %q", ctx, r.FloodPeriod, want)
		}
		i++
		return true
	})
	return p
}

// validateStatistics checks the statistics agree with the table they were
// computed from.
func validateStatistics(t *domain.Table, stats domain.Statistics, cal domain.FloodCalendar) *phase {
	p := &phase{name: "Phase 3: Statistics consistency"}

	if stats.TotalRecords != t.Len() {
		p.errorf("total_records %d, table has %d", stats.TotalRecords, t.Len())
	}

	sum := 0
	for _, st := range stats.Structures {
		sum += st.TotalRecords
		if st.AvgInflow > st.MaxInflow+epsilon {
			p.errorf("%s: mean inflow %.2f exceeds max %.2f", st.Structure, st.AvgInflow, st.MaxInflow)
		}
		if len(st.Floods) != len(cal.Periods()) {
			p.errorf("%s: %d flood years, calendar has %d", st.Structure, len(st.Floods), len(cal.Periods()))
		}
		for _, f := range st.Floods {
			validateFloodYear(p, t, st, f)
		}
	}
	if sum != stats.TotalRecords {
		p.errorf("per-structure records sum to %d, total is %d", sum, stats.TotalRecords)
	}
	return p
}

func validateFloodYear(p *phase, t *domain.Table, st domain.StructureStats, f domain.FloodYearStats) {
	ctx := fmt.Sprintf("%s %d", st.Structure, f.Year)

	peak := math.Inf(-1)
	count := 0
	t.Each(func(r domain.FlowRecord) bool {
		if r.Structure == st.Structure && r.Year == f.Year {
			count++
			peak = math.Max(peak, r.Inflow)
		}
		return true
	})

	if count == 0 {
		if f.PeakDate != nil || f.PeakInflow != 0 || f.AvgInflowFlood != 0 {
			p.errorf("%s: no records but non-empty statistics", ctx)
		}
		return
	}
	if f.PeakDate == nil {
		p.errorf("%s: %d records but no peak date", ctx, count)
		return
	}
	if f.PeakDate.Year() != f.Year {
		p.errorf("%s: peak date %s outside the year", ctx, f.PeakDate.Format("2006-01-02"))
	}
	if math.Abs(f.PeakInflow-peak) > epsilon {
		p.errorf("%s: peak %.2f, records peak at %.2f", ctx, f.PeakInflow, peak)
	}
	if f.AvgInflowFlood > f.PeakInflow+epsilon {
		p.errorf("%s: flood mean %.2f exceeds peak %.2f", ctx, f.AvgInflowFlood, f.PeakInflow)
	}
}
