// Command gensample writes the synthetic sample dataset to an .xlsx workbook
// with Date, Inflow and Structure columns. The workbook loads through the
// same path as a real one, so it doubles as a fixture for the dashboard.
//
// Usage:
//
//	go run ./cmd/gensample -out data/flows.xlsx -sheet Selected -seed 42
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/couchcryptid/flood-flow-dashboard/internal/adapter/excel"
	"github.com/couchcryptid/flood-flow-dashboard/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the generated workbook")
	sheet := flag.String("sheet", "Selected", "sheet name to write")
	seed := flag.Uint64("seed", 42, "random seed for inflow values")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	if dir := filepath.Dir(*out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	records := domain.SampleRecords(*seed)
	if err := excel.WriteRecords(*out, *sheet, records); err != nil {
		return err
	}

	log.Printf("wrote %d records to %s (sheet %q, seed %d)", len(records), *out, *sheet, *seed)
	return nil
}
