package http

import (
	"net/url"

	"chargelog/internal/core"
)

// Form field names shared with the templates.
const (
	fieldDate     = "date"
	fieldOdometer = "odometerReading"
	fieldEnergy   = "energyCharged"
	fieldMonth    = "month"
	fieldFormat   = "format"
)

// parseRecordForm extracts the entry form fields without interpreting them.
func parseRecordForm(form url.Values) core.RecordForm {
	return core.RecordForm{
		Date:            sanitizeInput(form.Get(fieldDate)),
		OdometerReading: sanitizeInput(form.Get(fieldOdometer)),
		EnergyCharged:   sanitizeInput(form.Get(fieldEnergy)),
	}
}

// exportRequest is the parsed export form.
type exportRequest struct {
	Month  string
	Format string
}

func parseExportForm(form url.Values) exportRequest {
	return exportRequest{
		Month:  sanitizeInput(form.Get(fieldMonth)),
		Format: sanitizeInput(form.Get(fieldFormat)),
	}
}
