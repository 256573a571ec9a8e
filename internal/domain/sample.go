package domain

import (
	"math/rand/v2"
	"time"
)

// SampleYears are the years covered by the synthetic sample dataset.
var SampleYears = []int{2020, 2021, 2022, 2023}

// sampleStructure describes one synthetic structure: inflows are drawn
// uniformly from [Min, Max).
type sampleStructure struct {
	Name string
	Min  int
	Max  int
}

var sampleStructures = []sampleStructure{
	{Name: "Trimmu", Min: 15000, Max: 25000},
	{Name: "Panjnad", Min: 30000, Max: 40000},
}

// SampleRecords generates one record per structure for every day of the
// sample years. The same seed yields the same records.
func SampleRecords(seed uint64) []FlowRecord {
	rng := rand.New(rand.NewPCG(seed, seed))

	var out []FlowRecord
	for _, year := range SampleYears {
		for d := day(year, time.January, 1); d.Year() == year; d = d.AddDate(0, 0, 1) {
			for _, s := range sampleStructures {
				out = append(out, FlowRecord{
					Date:      d,
					Inflow:    float64(s.Min + rng.IntN(s.Max-s.Min)),
					Structure: s.Name,
				})
			}
		}
	}
	return out
}

// SampleTable builds a table from the synthetic sample dataset. It goes
// through the same derivation and ordering as a loaded table.
func SampleTable(cal FloodCalendar, seed uint64) *Table {
	return NewTable(SampleRecords(seed), cal)
}
