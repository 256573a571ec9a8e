package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flowRecord(structure string, date time.Time, inflow float64) FlowRecord {
	return FlowRecord{Structure: structure, Date: date, Inflow: inflow}
}

func TestComputeStatistics_PeakInFloodYear(t *testing.T) {
	table := NewTable([]FlowRecord{
		flowRecord(testTrimmu, day(2022, time.July, 20), 18000),
		flowRecord(testTrimmu, day(2022, time.July, 25), 24500),
		flowRecord(testTrimmu, day(2022, time.August, 1), 19000),
	}, DefaultFloodCalendar())

	stats := ComputeStatistics(table, DefaultFloodCalendar())

	st, ok := stats.Structure(testTrimmu)
	require.True(t, ok)
	assert.Equal(t, 3, st.TotalRecords)
	assert.Equal(t, 24500.0, st.MaxInflow)
	assert.InDelta(t, 20500.0, st.AvgInflow, 1e-9)

	f, ok := st.Flood(2022)
	require.True(t, ok)
	assert.Equal(t, 24500.0, f.PeakInflow)
	require.NotNil(t, f.PeakDate)
	assert.Equal(t, day(2022, time.July, 25), *f.PeakDate)
	assert.InDelta(t, 20500.0, f.AvgInflowFlood, 1e-9)
}

func TestComputeStatistics_PeakCoversWholeYear(t *testing.T) {
	table := NewTable([]FlowRecord{
		flowRecord(testTrimmu, day(2022, time.March, 1), 90000),
		flowRecord(testTrimmu, day(2022, time.July, 20), 20000),
		flowRecord(testTrimmu, day(2022, time.July, 21), 30000),
	}, DefaultFloodCalendar())

	stats := ComputeStatistics(table, DefaultFloodCalendar())
	st, _ := stats.Structure(testTrimmu)
	f, _ := st.Flood(2022)

	assert.Equal(t, 90000.0, f.PeakInflow)
	assert.Equal(t, day(2022, time.March, 1), *f.PeakDate)
	assert.InDelta(t, 25000.0, f.AvgInflowFlood, 1e-9)
}

func TestComputeStatistics_PeakTieUsesFirstRecord(t *testing.T) {
	table := NewTable([]FlowRecord{
		flowRecord(testPanjnad, day(2023, time.August, 2), 50000),
		flowRecord(testPanjnad, day(2023, time.July, 30), 50000),
		flowRecord(testPanjnad, day(2023, time.July, 16), 10000),
	}, DefaultFloodCalendar())

	stats := ComputeStatistics(table, DefaultFloodCalendar())
	st, _ := stats.Structure(testPanjnad)
	f, _ := st.Flood(2023)

	assert.Equal(t, day(2023, time.July, 30), *f.PeakDate)
}

func TestComputeStatistics_NoRecordsInFloodYear(t *testing.T) {
	table := NewTable([]FlowRecord{
		flowRecord(testTrimmu, day(2020, time.May, 1), 1000),
	}, DefaultFloodCalendar())

	stats := ComputeStatistics(table, DefaultFloodCalendar())
	st, _ := stats.Structure(testTrimmu)

	require.Len(t, st.Floods, 3)
	for _, f := range st.Floods {
		assert.Zero(t, f.PeakInflow)
		assert.Nil(t, f.PeakDate)
		assert.Zero(t, f.AvgInflowFlood)
	}
}

func TestComputeStatistics_FloodYearWithoutWindowRecords(t *testing.T) {
	table := NewTable([]FlowRecord{
		flowRecord(testTrimmu, day(2014, time.January, 3), 7000),
	}, DefaultFloodCalendar())

	stats := ComputeStatistics(table, DefaultFloodCalendar())
	st, _ := stats.Structure(testTrimmu)
	f, _ := st.Flood(2014)

	assert.Equal(t, 7000.0, f.PeakInflow)
	require.NotNil(t, f.PeakDate)
	assert.Zero(t, f.AvgInflowFlood)
}

func TestComputeStatistics_Overall(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC))
	SetClock(fake)
	t.Cleanup(func() { SetClock(nil) })

	table := NewTable([]FlowRecord{
		flowRecord(testTrimmu, day(2021, time.June, 1), 1),
		flowRecord(testPanjnad, day(2014, time.September, 8), 2),
		flowRecord(testTrimmu, day(2023, time.March, 9), 3),
	}, DefaultFloodCalendar())

	stats := ComputeStatistics(table, DefaultFloodCalendar())

	assert.Equal(t, 3, stats.TotalRecords)
	require.NotNil(t, stats.DateRange)
	assert.Equal(t, day(2014, time.September, 8), stats.DateRange.Start)
	assert.Equal(t, day(2023, time.March, 9), stats.DateRange.End)
	assert.Equal(t, fake.Now(), stats.ComputedAt)

	require.Len(t, stats.Structures, 2)
	assert.Equal(t, testPanjnad, stats.Structures[0].Structure)
	assert.Equal(t, testTrimmu, stats.Structures[1].Structure)
}

func TestComputeStatistics_EmptyTable(t *testing.T) {
	stats := ComputeStatistics(NewTable(nil, DefaultFloodCalendar()), DefaultFloodCalendar())
	assert.Zero(t, stats.TotalRecords)
	assert.Nil(t, stats.DateRange)
	assert.Empty(t, stats.Structures)
}
