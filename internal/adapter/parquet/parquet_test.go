package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/flood-flow-dashboard/internal/domain"
)

func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[T](file)
	defer reader.Close()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestSchemas(t *testing.T) {
	tests := []struct {
		name    string
		schema  *parquet.Schema
		columns []string
	}{
		{
			name:    "flow records",
			schema:  parquet.SchemaOf(new(FlowRecordRow)),
			columns: []string{"structure", "date", "inflow", "year", "month", "month_name", "day_month", "is_flood_year", "flood_period"},
		},
		{
			name:    "flood statistics",
			schema:  parquet.SchemaOf(new(FloodStatisticsRow)),
			columns: []string{"structure", "year", "peak_inflow", "peak_inflow_date", "avg_inflow_flood", "total_records", "max_inflow", "avg_inflow", "computed_at"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, col := range tt.columns {
				_, ok := tt.schema.Lookup(col)
				assert.True(t, ok, "column %s should exist", col)
			}
		})
	}
}

func TestExport(t *testing.T) {
	cal := domain.DefaultFloodCalendar()
	table := domain.SampleTable(cal, 3)
	stats := domain.ComputeStatistics(table, cal)
	dir := filepath.Join(t.TempDir(), "export")

	paths, err := Export(dir, table, stats)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, FlowRecordsFile), filepath.Join(dir, FloodStatisticsFile)}, paths)

	records := readAll[FlowRecordRow](t, paths[0])
	require.Len(t, records, table.Len())
	first := table.Records()[0]
	assert.Equal(t, first.Structure, records[0].Structure)
	assert.True(t, first.Date.Equal(records[0].Date))
	assert.Equal(t, first.Inflow, records[0].Inflow)
	assert.Equal(t, first.FloodPeriod, records[0].FloodPeriod)

	floods := readAll[FloodStatisticsRow](t, paths[1])
	// Two sample structures, three calendar flood years each.
	require.Len(t, floods, 6)
	for _, row := range floods {
		if row.Year == 2014 {
			assert.Nil(t, row.PeakDate, "no sample records in 2014")
			assert.Zero(t, row.PeakInflow)
			continue
		}
		require.NotNil(t, row.PeakDate)
		assert.Equal(t, int(row.Year), row.PeakDate.Year())
		assert.Positive(t, row.AvgInflowFlood)
	}
}

func TestWriteFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteFile(path, []FloodStatisticsRow{}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
	assert.Empty(t, readAll[FloodStatisticsRow](t, path))
}

func TestWriteFile_BadPath(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "x.parquet"), []FlowRecordRow{})
	require.Error(t, err)
}
