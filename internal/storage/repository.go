package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"chargelog/internal/core"
	applog "chargelog/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists charging records in a single SQLite file.
type SQLiteRepository struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath and
// initializes its schema.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("%w: create db directory: %w", core.ErrStorage, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite database: %w", core.ErrStorage, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %w", core.ErrStorage, err)
	}

	repo := &SQLiteRepository{
		db:     db,
		dbPath: dbPath,
	}

	if err := repo.Initialize(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

// Initialize ensures the charging_records table exists. Safe on every startup.
func (r *SQLiteRepository) Initialize(ctx context.Context) error {
	if err := RunMigrations(r.dbPath); err != nil {
		return fmt.Errorf("%w: %w", core.ErrStorage, err)
	}
	applog.FromContext(ctx).WithComponent(applog.ComponentStorage).DebugContext(ctx, "Schema initialized", "path", r.dbPath)
	return nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// DB exposes the pool for stats collection.
func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping database: %w", core.ErrStorage, err)
	}
	return nil
}

// Insert appends a record and returns its id.
func (r *SQLiteRepository) Insert(ctx context.Context, date string, odometer int64, energy, cost float64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO charging_records (date, odometer_reading, energy_charged, cost)
		VALUES (?, ?, ?, ?)
	`, date, odometer, energy, cost)
	if err != nil {
		return 0, fmt.Errorf("%w: insert charging record: %w", core.ErrStorage, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: read inserted id: %w", core.ErrStorage, err)
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentStorage).InfoContext(ctx, "Charging record saved to SQLite",
		applog.NewFields().WithRecord(id, date, odometer, energy, cost).ToSlice()...)

	return id, nil
}

// ListAll returns every record, newest date first.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]core.ChargingRecord, error) {
	return r.query(ctx, `
		SELECT id, date, odometer_reading, energy_charged, cost, created_at
		FROM charging_records
		ORDER BY date DESC, id DESC
	`)
}

// ListByDateRange returns records whose date text lies in [start, end],
// oldest first.
func (r *SQLiteRepository) ListByDateRange(ctx context.Context, start, end string) ([]core.ChargingRecord, error) {
	return r.query(ctx, `
		SELECT id, date, odometer_reading, energy_charged, cost, created_at
		FROM charging_records
		WHERE date BETWEEN ? AND ?
		ORDER BY date ASC, id ASC
	`, start, end)
}

func (r *SQLiteRepository) query(ctx context.Context, q string, args ...any) ([]core.ChargingRecord, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query charging records: %w", core.ErrStorage, err)
	}
	defer rows.Close()

	var records []core.ChargingRecord
	for rows.Next() {
		var (
			rec       core.ChargingRecord
			createdAt sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.OdometerReading, &rec.EnergyCharged, &rec.Cost, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: scan charging record: %w", core.ErrStorage, err)
		}
		if createdAt.Valid {
			if t, err := time.Parse(time.DateTime, createdAt.String); err == nil {
				rec.CreatedAt = t
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate charging records: %w", core.ErrStorage, err)
	}

	return records, nil
}
