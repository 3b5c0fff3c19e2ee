package http

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"chargelog/internal/core"
)

func TestFormatting(t *testing.T) {
	tests := []struct {
		in        float64
		cost, kwh string
	}{
		{7.5, "7.50", "7.5"},
		{2.07, "2.07", "2.07"},
		{10, "10.00", "10"},
		{-2.76, "-2.76", "-2.76"},
	}
	for _, tt := range tests {
		if got := formatCost(tt.in); got != tt.cost {
			t.Errorf("formatCost(%v) = %q, want %q", tt.in, got, tt.cost)
		}
		if got := formatEnergy(tt.in); got != tt.kwh {
			t.Errorf("formatEnergy(%v) = %q, want %q", tt.in, got, tt.kwh)
		}
	}
}

func TestToRows(t *testing.T) {
	rows := toRows([]core.ChargingRecord{{ID: 4, Date: "2024-05-01", OdometerReading: 12345, EnergyCharged: 7.5, Cost: 2.07}})
	if len(rows) != 1 {
		t.Fatalf("len = %d", len(rows))
	}
	want := recordRow{ID: 4, Date: "2024-05-01", Odometer: "12345", Cost: "2.07", Energy: "7.5"}
	if rows[0] != want {
		t.Errorf("row = %+v, want %+v", rows[0], want)
	}
}

func TestParseRecordForm_Sanitizes(t *testing.T) {
	form := parseRecordForm(url.Values{
		fieldDate:     {" 2024-05-01 "},
		fieldOdometer: {"123\x0045"},
		fieldEnergy:   {"\t7.5\n"},
	})
	want := core.RecordForm{Date: "2024-05-01", OdometerReading: "12345", EnergyCharged: "7.5"}
	if form != want {
		t.Errorf("form = %+v, want %+v", form, want)
	}
}

func TestParseExportForm(t *testing.T) {
	req := parseExportForm(url.Values{fieldMonth: {" 2024-05"}, fieldFormat: {"pdf"}})
	if req.Month != "2024-05" || req.Format != "pdf" {
		t.Errorf("req = %+v", req)
	}
}

func TestGenerateRequestID(t *testing.T) {
	a, b := generateRequestID(), generateRequestID()
	if !strings.HasPrefix(a, "req_") || a == b {
		t.Errorf("ids %q %q", a, b)
	}
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		xff    string
		want   string
	}{
		{"direct", "203.0.113.7:5555", "", "203.0.113.7"},
		{"untrusted peer ignores xff", "203.0.113.7:5555", "198.51.100.1", "203.0.113.7"},
		{"trusted proxy", "10.0.0.2:5555", "198.51.100.1, 10.0.0.2", "198.51.100.1"},
		{"trusted proxy bad xff", "127.0.0.1:5555", "garbage", "127.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := extractClientIP(r); got != tt.want {
				t.Errorf("extractClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
