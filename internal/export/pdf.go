package export

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"chargelog/internal/core"
	applog "chargelog/internal/log"
)

// ExportMonthPDF writes a printable copy of the month report and returns its path.
func (e *Exporter) ExportMonthPDF(records []core.ChargingRecord, yearMonth string) (string, error) {
	yearMonth, month, err := normalizeMonth(yearMonth)
	if err != nil {
		return "", err
	}

	buf, err := buildPDF(records, month)
	if err != nil {
		return "", fmt.Errorf("%w: render pdf: %w", core.ErrExport, err)
	}

	path := filepath.Join(e.dir, FileName(yearMonth, FormatPDF))
	if err := e.writeAtomic(path, buf); err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrExport, err)
	}

	e.logger.Info("Month PDF written", applog.NewFields().WithExport(yearMonth, path, len(records)).ToSlice()...)
	return path, nil
}

func buildPDF(records []core.ChargingRecord, month string) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "B", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Billing: company-vehicle electricity costs, month: "+month)
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	meta := [][2]string{
		{"Billing month", month},
		{"License plate", placeholder},
		{"Driver", placeholder},
		{"Department", placeholder},
		{"Cost center", placeholder},
		{"Rate per kWh", placeholder},
	}
	for _, m := range meta {
		pdf.CellFormat(45, 6, m[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, m[1], "", 0, "L", false, 0, "")
		pdf.Ln(6)
	}

	var total float64
	for _, r := range records {
		total += r.Cost
	}
	pdf.Ln(2)
	pdf.CellFormat(45, 6, "Total cost", "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 6, tr(fmt.Sprintf("%.2f €", total)), "", 0, "L", false, 0, "")
	pdf.Ln(16)

	pdf.CellFormat(80, 6, "______________________________", "", 0, "L", false, 0, "")
	pdf.Ln(6)
	pdf.CellFormat(40, 6, "Signature", "", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, "Date", "", 0, "L", false, 0, "")
	pdf.Ln(12)

	widths := []float64{35, 45, 35, 50}
	pdf.SetFont("Arial", "B", 10)
	for i, h := range tableHeaders {
		pdf.CellFormat(widths[i], 6, tr(h), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, r := range records {
		pdf.CellFormat(widths[0], 6, r.Date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, fmt.Sprintf("%d", r.OdometerReading), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, fmt.Sprintf("%.2f", r.Cost), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, fmt.Sprintf("%g", r.EnergyCharged), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}
