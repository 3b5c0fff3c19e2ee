package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the ISO calendar date stored in the date column.
	DateLayout = "2006-01-02"
	// MonthLayout is the billing month format (YYYY-MM).
	MonthLayout = "2006-01"
)

type (
	// ChargingRecord is one logged charge of the company vehicle.
	ChargingRecord struct {
		ID              int64
		Date            string // YYYY-MM-DD
		OdometerReading int64
		EnergyCharged   float64 // kWh
		Cost            float64
		CreatedAt       time.Time
	}

	// RecordForm carries the raw, unparsed values submitted by the entry form.
	RecordForm struct {
		Date            string
		OdometerReading string
		EnergyCharged   string
	}
)

// Error categories. Callers wrap them with context and classify with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrStorage    = errors.New("storage error")
	ErrExport     = errors.New("export error")
)

var (
	ErrMissingDate     = fmt.Errorf("%w: date is required", ErrValidation)
	ErrInvalidDate     = fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	ErrMissingOdometer = fmt.Errorf("%w: odometer reading is required", ErrValidation)
	ErrInvalidOdometer = fmt.Errorf("%w: odometer reading must be a whole number", ErrValidation)
	ErrMissingEnergy   = fmt.Errorf("%w: energy charged is required", ErrValidation)
	ErrInvalidEnergy   = fmt.Errorf("%w: energy charged must be a number", ErrValidation)
	ErrInvalidMonth    = fmt.Errorf("%w: month must be YYYY-MM", ErrValidation)
)

// ParseYearMonth checks that s is a billing month and returns its first day.
func ParseYearMonth(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) != len(MonthLayout) {
		return time.Time{}, ErrInvalidMonth
	}
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidMonth
	}
	return t, nil
}

// MonthBounds returns the textual BETWEEN bounds used to select a month.
// The upper bound is always day 31; ISO text comparison excludes days a
// shorter month does not have.
func MonthBounds(yearMonth string) (start, end string) {
	return yearMonth + "-01", yearMonth + "-31"
}

// MonthText renders a billing month as "March 2024".
func MonthText(yearMonth string) (string, error) {
	t, err := ParseYearMonth(yearMonth)
	if err != nil {
		return "", err
	}
	return t.Format("January 2006"), nil
}
