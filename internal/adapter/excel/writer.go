package excel

import (
	"fmt"

	"github.com/couchcryptid/flood-flow-dashboard/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Headers are the column headers written by WriteRecords.
var Headers = []string{"Date", "Inflow", "Structure"}

// dateNumFmt is the built-in short date number format (m/d/yy).
const dateNumFmt = 14

// WriteRecords writes records to a new workbook at path, in a sheet with the
// given name, as Date / Inflow / Structure columns. Dates are stored as
// Excel dates so they read back as serial numbers.
func WriteRecords(path, sheet string, records []domain.FlowRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Barrage inflows",
		Subject: "Daily inflow records",
		Creator: "flood-flow-dashboard",
	}); err != nil {
		return fmt.Errorf("set document properties: %w", err)
	}

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{r.Date, r.Inflow, r.Structure}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: dateNumFmt})
	if err != nil {
		return fmt.Errorf("create date style: %w", err)
	}
	if err := f.SetColStyle(sheet, "A", style); err != nil {
		return fmt.Errorf("apply date style: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", "C", 14); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}
