package export

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"chargelog/internal/core"
	applog "chargelog/internal/log"
)

const (
	SheetName = "Charging Report"

	// HeaderRow holds the data table column titles; records start below it.
	HeaderRow = 11
	// TotalCostFormula sums a fixed block of the cost column regardless of
	// how many rows were written.
	TotalCostFormula = "SUM(C12:C30)"

	placeholder = "EDIT"
)

var tableHeaders = []string{"Date", "Odometer Reading", "Cost (€)", "Energy Charged (kWh)"}

// ExportMonth writes the reimbursement workbook for yearMonth and returns its path.
func (e *Exporter) ExportMonth(records []core.ChargingRecord, yearMonth string) (string, error) {
	yearMonth, month, err := normalizeMonth(yearMonth)
	if err != nil {
		return "", err
	}

	f, err := buildWorkbook(records, month)
	if err != nil {
		return "", fmt.Errorf("%w: build workbook: %w", core.ErrExport, err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", fmt.Errorf("%w: encode workbook: %w", core.ErrExport, err)
	}

	path := filepath.Join(e.dir, FileName(yearMonth, FormatXLSX))
	if err := e.writeAtomic(path, buf); err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrExport, err)
	}

	e.logger.Info("Month workbook written", applog.NewFields().WithExport(yearMonth, path, len(records)).ToSlice()...)
	return path, nil
}

func buildWorkbook(records []core.ChargingRecord, month string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, err
	}

	cells := []struct {
		cell  string
		value any
	}{
		{"B2", "Billing: company-vehicle electricity costs, month:"},
		{"E2", month},

		{"D4", "Total cost"},

		{"A3", "Billing month"},
		{"B3", month},
		{"A4", "License plate"},
		{"B4", placeholder},
		{"A5", "Driver"},
		{"B5", placeholder},
		{"A6", "Department"},
		{"B6", placeholder},
		{"A7", "Cost center"},
		{"B7", placeholder},
		{"A8", "Rate per kWh"},
		{"B8", placeholder},

		{"C8", "______________________________"},
		{"C9", "Signature"},
		{"D9", "Date"},
	}
	for _, c := range cells {
		if err := f.SetCellValue(SheetName, c.cell, c.value); err != nil {
			f.Close()
			return nil, fmt.Errorf("set %s: %w", c.cell, err)
		}
	}

	if err := f.MergeCell(SheetName, "B2", "D2"); err != nil {
		f.Close()
		return nil, fmt.Errorf("merge header: %w", err)
	}
	if err := f.MergeCell(SheetName, "C8", "G8"); err != nil {
		f.Close()
		return nil, fmt.Errorf("merge signature line: %w", err)
	}
	if err := f.SetCellFormula(SheetName, "E4", TotalCostFormula); err != nil {
		f.Close()
		return nil, fmt.Errorf("set total formula: %w", err)
	}

	for i, h := range tableHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, HeaderRow)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			f.Close()
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
	}

	for i, rec := range records {
		row := HeaderRow + 1 + i
		values := []any{rec.Date, rec.OdometerReading, rec.Cost, rec.EnergyCharged}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("set %s: %w", cell, err)
			}
		}
	}

	if err := styleSheet(f, SheetName); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// styleSheet bolds the title and table header and widens the data columns.
func styleSheet(f *excelize.File, sheet string) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create bold style: %w", err)
	}
	for _, r := range [][2]string{{"B2", "E2"}, {"A11", "D11"}} {
		if err := f.SetCellStyle(sheet, r[0], r[1], bold); err != nil {
			return fmt.Errorf("style %s:%s: %w", r[0], r[1], err)
		}
	}
	widths := []struct {
		from, to string
		width    float64
	}{
		{"A", "A", 16},
		{"B", "D", 20},
	}
	for _, w := range widths {
		if err := f.SetColWidth(sheet, w.from, w.to, w.width); err != nil {
			return fmt.Errorf("set width %s:%s: %w", w.from, w.to, err)
		}
	}
	return nil
}
