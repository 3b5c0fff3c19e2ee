package http

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"chargelog/internal/core"
)

// recordRow is a ChargingRecord formatted for display.
type recordRow struct {
	ID       int64
	Date     string
	Odometer string
	Cost     string
	Energy   string
}

func toRows(records []core.ChargingRecord) []recordRow {
	rows := make([]recordRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, recordRow{
			ID:       r.ID,
			Date:     r.Date,
			Odometer: strconv.FormatInt(r.OdometerReading, 10),
			Cost:     formatCost(r.Cost),
			Energy:   formatEnergy(r.EnergyCharged),
		})
	}
	return rows
}

// formatCost renders a cost with two decimals, e.g. 2.07.
func formatCost(c float64) string {
	return strconv.FormatFloat(c, 'f', 2, 64)
}

// formatEnergy renders kWh with the shortest exact representation, e.g. 7.5.
func formatEnergy(e float64) string {
	return strconv.FormatFloat(e, 'f', -1, 64)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	return "req_" + uuid.NewString()
}
