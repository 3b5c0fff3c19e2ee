package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "chargelog.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestInitializeIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.Initialize(ctx); err != nil {
			t.Fatalf("Initialize #%d: %v", i, err)
		}
	}

	if _, err := repo.Insert(ctx, "2024-03-15", 50000, 10, 2.76); err != nil {
		t.Fatalf("Insert after re-init: %v", err)
	}
}

func TestReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chargelog.db")
	ctx := context.Background()

	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := repo.Insert(ctx, "2024-03-15", 50000, 10, 2.76); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	repo.Close()

	repo, err = NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()

	records, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record after reopen, got %d", len(records))
	}
}

func TestInsertAssignsIncreasingIDs(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.Insert(ctx, "2024-03-15", 50000, 10, 2.76)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	second, err := repo.Insert(ctx, "2024-03-01", 49000, 5, 1.38)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if second <= first {
		t.Fatalf("expected increasing ids, got %d then %d", first, second)
	}
}

func TestListAllOrdersByDateDescending(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, d := range []string{"2024-03-10", "2024-01-05", "2024-05-20", "2024-03-11"} {
		if _, err := repo.Insert(ctx, d, 1000, 1, 0.28); err != nil {
			t.Fatalf("Insert %s: %v", d, err)
		}
	}

	records, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	want := []string{"2024-05-20", "2024-03-11", "2024-03-10", "2024-01-05"}
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(records))
	}
	for i, d := range want {
		if records[i].Date != d {
			t.Fatalf("position %d: got %s, want %s", i, records[i].Date, d)
		}
	}
}

func TestListByDateRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, d := range []string{"2024-02-28", "2024-03-01", "2024-03-15", "2024-03-31", "2024-04-01"} {
		if _, err := repo.Insert(ctx, d, 1000, 1, 0.28); err != nil {
			t.Fatalf("Insert %s: %v", d, err)
		}
	}

	records, err := repo.ListByDateRange(ctx, "2024-03-01", "2024-03-31")
	if err != nil {
		t.Fatalf("ListByDateRange: %v", err)
	}
	want := []string{"2024-03-01", "2024-03-15", "2024-03-31"}
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(records))
	}
	for i, d := range want {
		if records[i].Date != d {
			t.Fatalf("position %d: got %s, want %s", i, records[i].Date, d)
		}
	}
}

func TestInsertRoundTripsFields(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Insert(ctx, "2024-03-15", 50000, 10.0, 2.76)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	records, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	got := records[0]
	if got.ID != id || got.Date != "2024-03-15" || got.OdometerReading != 50000 || got.EnergyCharged != 10.0 || got.Cost != 2.76 {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be populated")
	}
}
