package excel

import (
	"context"
	"fmt"
	"strings"

	"github.com/couchcryptid/flood-flow-dashboard/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Source reads one sheet of an .xlsx workbook.
// It implements dashboard.SheetSource.
type Source struct {
	path  string
	sheet string
}

// NewSource creates a Source for the named sheet of the workbook at path.
func NewSource(path, sheet string) *Source {
	return &Source{path: path, sheet: sheet}
}

// Describe identifies the workbook and sheet for logs.
func (s *Source) Describe() string {
	return s.path + "#" + s.sheet
}

// ReadSheet returns the sheet's header row and the rows below it. Cells are
// read as raw values, so date cells arrive as Excel serial numbers. The first
// row containing a non-blank cell is taken as the header row.
//
// Open and read failures wrap domain.ErrSourceUnavailable.
func (s *Source) ReadSheet(ctx context.Context) (domain.RawSheet, error) {
	if err := ctx.Err(); err != nil {
		return domain.RawSheet{}, err
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return domain.RawSheet{}, fmt.Errorf("%w: open workbook %s: %w", domain.ErrSourceUnavailable, s.path, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(s.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return domain.RawSheet{}, fmt.Errorf("%w: read sheet %q: %w", domain.ErrSourceUnavailable, s.sheet, err)
	}

	return splitHeader(rows), nil
}

func splitHeader(rows [][]string) domain.RawSheet {
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		return domain.RawSheet{Headers: row, Rows: rows[i+1:]}
	}
	return domain.RawSheet{}
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
