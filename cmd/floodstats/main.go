// Command floodstats loads a flow workbook without the sample fallback, runs
// integrity checks over the derived table and its statistics, prints the
// per-structure flood statistics and optionally exports both to Parquet.
//
// Usage:
//
//	go run ./cmd/floodstats \
//	  -workbook data/flows.xlsx \
//	  -sheet Selected \
//	  -floods config/floods.yaml \
//	  -parquet-dir out/
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/couchcryptid/flood-flow-dashboard/internal/adapter/excel"
	"github.com/couchcryptid/flood-flow-dashboard/internal/adapter/parquet"
	"github.com/couchcryptid/flood-flow-dashboard/internal/config"
	"github.com/couchcryptid/flood-flow-dashboard/internal/domain"
)

func main() {
	workbook := flag.String("workbook", "", "path to the .xlsx workbook")
	sheet := flag.String("sheet", "Selected", "sheet holding the flow records")
	floods := flag.String("floods", "", "optional YAML file overriding the flood calendar")
	parquetDir := flag.String("parquet-dir", "", "optional directory for Parquet exports")
	flag.Parse()

	if *workbook == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(os.Stdout, *workbook, *sheet, *floods, *parquetDir); code != 0 {
		os.Exit(code)
	}
}

func run(out io.Writer, workbook, sheet, floodsFile, parquetDir string) int {
	fmt.Fprintln(out, "=== Flood Flow Integrity Validation ===")
	fmt.Fprintln(out)

	cal, err := config.LoadFloodCalendar(floodsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load flood calendar: %v\n", err)
		return 1
	}

	raw, err := excel.NewSource(workbook, sheet).ReadSheet(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read workbook: %v\n", err)
		return 1
	}
	table, err := domain.BuildTable(raw, cal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: build table (%s): %v\n", domain.ClassifyLoadError(err), err)
		return 1
	}
	stats := domain.ComputeStatistics(table, cal)

	// ── Run validation phases ──
	phases := []*phase{
		validateOrdering(table),
		validateDerivedFields(table, cal),
		validateStatistics(table, stats, cal),
	}

	// ── Report results ──
	allPassed := reportPhases(out, phases)

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Records: %d across %d structures", stats.TotalRecords, len(stats.Structures))
	if stats.DateRange != nil {
		fmt.Fprintf(out, " (%s to %s)", stats.DateRange.Start.Format(time.DateOnly), stats.DateRange.End.Format(time.DateOnly))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out)

	if err := printStatistics(out, stats, cal); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: print statistics: %v\n", err)
		return 1
	}

	if parquetDir != "" {
		paths, err := parquet.Export(parquetDir, table, stats)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: export parquet: %v\n", err)
			return 1
		}
		for _, p := range paths {
			fmt.Fprintf(out, "Wrote %s\n", p)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

func reportPhases(out io.Writer, phases []*phase) bool {
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	// Print detailed errors.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}
	return allPassed
}

// printStatistics renders one row per structure with the flood-year columns
// of the calendar.
func printStatistics(out io.Writer, stats domain.Statistics, cal domain.FloodCalendar) error {
	table := tablewriter.NewWriter(out)

	headers := []string{"Structure", "Records", "Max Inflow", "Mean Inflow"}
	for _, year := range cal.Years() {
		y := strconv.Itoa(year)
		headers = append(headers, y+" Peak", y+" Peak Date", y+" Flood Mean")
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(stats.Structures))
	for _, st := range stats.Structures {
		row := []string{
			st.Structure,
			strconv.Itoa(st.TotalRecords),
			formatInflow(st.MaxInflow),
			formatInflow(st.AvgInflow),
		}
		for _, year := range cal.Years() {
			f, _ := st.Flood(year)
			peakDate := "-"
			if f.PeakDate != nil {
				peakDate = f.PeakDate.Format(time.DateOnly)
			}
			row = append(row, formatInflow(f.PeakInflow), peakDate, formatInflow(f.AvgInflowFlood))
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func formatInflow(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}
