package amqp

import (
	"context"
	"errors"
	"testing"

	"github.com/rabbitmq/amqp091-go"

	"chargelog/internal/core"
)

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "connection error",
			err:      errors.New("connection refused"),
			expected: true,
		},
		{
			name:     "EOF error",
			err:      errors.New("unexpected EOF"),
			expected: true,
		},
		{
			name:     "amqp closed",
			err:      amqp091.ErrClosed,
			expected: true,
		},
		{
			name:     "other error",
			err:      errors.New("precondition failed"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestClient_PublishAfterClose(t *testing.T) {
	c := &Client{exchangeName: "chargelog", queueName: "charging_records"}
	if err := c.Close(); err != nil {
		t.Fatalf("Close on unconnected client: %v", err)
	}

	err := c.PublishRecordCreated(context.Background(), core.ChargingRecord{ID: 1})
	if !errors.Is(err, ErrClientClosed) {
		t.Fatalf("expected ErrClientClosed, got %v", err)
	}
}

func TestRecordCreatedMessage_JSON(t *testing.T) {
	rec := core.ChargingRecord{ID: 7, Date: "2024-05-01", OdometerReading: 12345, EnergyCharged: 7.5, Cost: 2.07}

	body, err := NewRecordCreatedMessage(rec).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	msg, err := RecordCreatedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if msg.ID != 7 || msg.Date != "2024-05-01" || msg.OdometerReading != 12345 || msg.EnergyCharged != 7.5 || msg.Cost != 2.07 {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if msg.Timestamp.IsZero() {
		t.Fatalf("expected timestamp to be set")
	}
}

func TestRecordCreatedMessage_InvalidJSON(t *testing.T) {
	if _, err := RecordCreatedMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
}
