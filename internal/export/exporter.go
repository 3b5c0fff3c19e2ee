// Package export renders a billing month of charging records as a
// reimbursement workbook (and, on request, a printable PDF).
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chargelog/internal/core"
	applog "chargelog/internal/log"
)

// Format selects the output document type.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat maps a form value to a Format; empty means xlsx.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: unsupported export format %q", core.ErrValidation, s)
	}
}

// ContentType is the MIME type served for f.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Exporter writes month reports below a fixed directory.
type Exporter struct {
	dir    string
	logger *applog.Logger
}

func NewExporter(dir string) *Exporter {
	return &Exporter{
		dir:    dir,
		logger: applog.New(applog.DefaultConfig(applog.ComponentExport)),
	}
}

// FileName is the report name for yearMonth, e.g. export_2024-03.xlsx.
func FileName(yearMonth string, f Format) string {
	return "export_" + yearMonth + "." + string(f)
}

// Export writes records for yearMonth in format f and returns the file path.
func (e *Exporter) Export(records []core.ChargingRecord, yearMonth string, f Format) (string, error) {
	switch f {
	case FormatPDF:
		return e.ExportMonthPDF(records, yearMonth)
	default:
		return e.ExportMonth(records, yearMonth)
	}
}

// writeAtomic replaces path with data so readers never observe a partial file.
func (e *Exporter) writeAtomic(path string, data *bytes.Buffer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := data.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename export: %w", err)
	}
	return nil
}

// normalizeMonth trims yearMonth and returns it with its display text,
// e.g. "March 2024".
func normalizeMonth(yearMonth string) (string, string, error) {
	yearMonth = strings.TrimSpace(yearMonth)
	text, err := core.MonthText(yearMonth)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", core.ErrExport, err)
	}
	return yearMonth, text, nil
}
