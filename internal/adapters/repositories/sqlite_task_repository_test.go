package repositories

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func TestSqliteTaskRepository(t *testing.T) {
	db := newTestDB(t)

	seed := `[
		{"task_id":"t-001","start_lat":33.4484,"start_lng":-112.074},
		{"task_id":"t-002","start_lat":33.4255,"start_lng":-111.94,"finish_lat":33.3,"finish_lng":-111.84},
		{"task_id":"t-003"}
	]`
	seedPath := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(seedPath, []byte(seed), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	if err := SeedFromJSON(db, seedPath); err != nil {
		t.Fatalf("seed: %v", err)
	}

	repo := NewSqliteTaskRepository(db)
	ctx := context.Background()

	tp, err := repo.GetTaskPoint(ctx, "t-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tp == nil || tp.Start == nil {
		t.Fatal("expected task with start coordinate")
	}
	if tp.Start.Lat != 33.4484 || tp.Start.Lng != -112.074 {
		t.Fatalf("unexpected start %+v", tp.Start)
	}
	if tp.Finish != nil {
		t.Fatalf("expected nil finish, got %+v", tp.Finish)
	}

	withFinish, err := repo.GetTaskPoint(ctx, "t-002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if withFinish.Finish == nil || withFinish.Finish.Lat != 33.3 {
		t.Fatalf("expected finish coordinate, got %+v", withFinish.Finish)
	}

	noStart, err := repo.GetTaskPoint(ctx, "t-003")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if noStart == nil || noStart.Start != nil {
		t.Fatalf("expected stored task without start, got %+v", noStart)
	}
	if noStart.Routable() {
		t.Fatal("task without start must not be routable")
	}

	missing, err := repo.GetTaskPoint(ctx, "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown id, got %+v", missing)
	}
}

func TestSeedFromJSONRejectsPartialCoordinates(t *testing.T) {
	db := newTestDB(t)

	seedPath := filepath.Join(t.TempDir(), "tasks.json")
	bad := `[{"task_id":"t-001","start_lat":33.4}]`
	if err := os.WriteFile(seedPath, []byte(bad), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	if err := SeedFromJSON(db, seedPath); err == nil {
		t.Fatal("expected error for lat without lng")
	}
}
