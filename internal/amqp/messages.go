package amqp

import (
	"encoding/json"
	"time"

	"chargelog/internal/core"
)

// RecordCreatedMessage announces a newly appended charging record.
type RecordCreatedMessage struct {
	ID              int64     `json:"id"`
	Date            string    `json:"date"`
	OdometerReading int64     `json:"odometer_reading"`
	EnergyCharged   float64   `json:"energy_charged_kwh"`
	Cost            float64   `json:"cost"`
	Timestamp       time.Time `json:"timestamp"`
}

// NewRecordCreatedMessage builds the event body for rec.
func NewRecordCreatedMessage(rec core.ChargingRecord) *RecordCreatedMessage {
	return &RecordCreatedMessage{
		ID:              rec.ID,
		Date:            rec.Date,
		OdometerReading: rec.OdometerReading,
		EnergyCharged:   rec.EnergyCharged,
		Cost:            rec.Cost,
		Timestamp:       time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RecordCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordCreatedMessageFromJSON decodes a message published by ToJSON.
func RecordCreatedMessageFromJSON(data []byte) (*RecordCreatedMessage, error) {
	var msg RecordCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
