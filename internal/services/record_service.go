package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"chargelog/internal/core"
	applog "chargelog/internal/log"
	"chargelog/internal/metrics"
)

// RecordStore is the persistence the service needs.
type RecordStore interface {
	Insert(ctx context.Context, date string, odometer int64, energy, cost float64) (int64, error)
	ListAll(ctx context.Context) ([]core.ChargingRecord, error)
	ListByDateRange(ctx context.Context, start, end string) ([]core.ChargingRecord, error)
}

// EventPublisher announces appended records to other systems.
type EventPublisher interface {
	PublishRecordCreated(ctx context.Context, rec core.ChargingRecord) error
}

// RecordService validates form input, derives cost and persists records.
type RecordService struct {
	store     RecordStore
	publisher EventPublisher
}

// NewRecordService builds a service over store. publisher may be nil.
func NewRecordService(store RecordStore, publisher EventPublisher) *RecordService {
	return &RecordService{
		store:     store,
		publisher: publisher,
	}
}

// AppendRecord parses form, computes the cost and stores a new record.
func (s *RecordService) AppendRecord(ctx context.Context, form core.RecordForm) (core.ChargingRecord, error) {
	rec, err := parseRecordForm(form)
	if err != nil {
		metrics.ObserveRecordCreated(metrics.ResultError, 0)
		return core.ChargingRecord{}, err
	}
	rec.Cost = core.ComputeCost(rec.EnergyCharged)

	id, err := s.store.Insert(ctx, rec.Date, rec.OdometerReading, rec.EnergyCharged, rec.Cost)
	if err != nil {
		metrics.ObserveRecordCreated(metrics.ResultError, 0)
		return core.ChargingRecord{}, fmt.Errorf("append record: %w", err)
	}
	rec.ID = id
	rec.CreatedAt = time.Now().UTC()
	metrics.ObserveRecordCreated(metrics.ResultSuccess, rec.EnergyCharged)

	if s.publisher != nil {
		if err := s.publisher.PublishRecordCreated(ctx, rec); err != nil {
			// The record is stored; the event is best effort.
			applog.FromContext(ctx).WithComponent(applog.ComponentRecord).
				ErrorContext(ctx, "Failed to publish record created message", applog.FieldRecordID, rec.ID, "error", err)
		}
	}

	return rec, nil
}

// ListRecords returns all records, newest date first.
func (s *RecordService) ListRecords(ctx context.Context) ([]core.ChargingRecord, error) {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

// RecordsForMonth returns the records dated within yearMonth (YYYY-MM).
func (s *RecordService) RecordsForMonth(ctx context.Context, yearMonth string) ([]core.ChargingRecord, error) {
	yearMonth = strings.TrimSpace(yearMonth)
	if _, err := core.ParseYearMonth(yearMonth); err != nil {
		return nil, err
	}

	start, end := core.MonthBounds(yearMonth)
	records, err := s.store.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("records for month %s: %w", yearMonth, err)
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentRecord).
		DebugContext(ctx, "Selected records for month", applog.FieldMonth, yearMonth, "count", len(records))
	return records, nil
}

func parseRecordForm(form core.RecordForm) (core.ChargingRecord, error) {
	var rec core.ChargingRecord

	date := strings.TrimSpace(form.Date)
	if date == "" {
		return rec, core.ErrMissingDate
	}
	if _, err := time.Parse(core.DateLayout, date); err != nil {
		return rec, core.ErrInvalidDate
	}
	rec.Date = date

	odo := strings.TrimSpace(form.OdometerReading)
	if odo == "" {
		return rec, core.ErrMissingOdometer
	}
	odometer, err := strconv.ParseInt(odo, 10, 64)
	if err != nil {
		return rec, core.ErrInvalidOdometer
	}
	rec.OdometerReading = odometer

	energyStr := strings.TrimSpace(form.EnergyCharged)
	if energyStr == "" {
		return rec, core.ErrMissingEnergy
	}
	energy, err := strconv.ParseFloat(energyStr, 64)
	if err != nil || math.IsNaN(energy) || math.IsInf(energy, 0) {
		return rec, core.ErrInvalidEnergy
	}
	rec.EnergyCharged = energy

	return rec, nil
}
