package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createTasksQuery := `
	CREATE TABLE IF NOT EXISTS tasks (
		task_id TEXT PRIMARY KEY,
		start_lat REAL,
		start_lng REAL,
		finish_lat REAL,
		finish_lng REAL
	);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
        key TEXT PRIMARY KEY,
        payload BLOB NOT NULL,
        inserted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
    );
	`

	statements := []string{
		createTasksQuery,
		createRouteCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type TaskSeed struct {
	TaskID    string   `json:"task_id"`
	StartLat  *float64 `json:"start_lat"`
	StartLng  *float64 `json:"start_lng"`
	FinishLat *float64 `json:"finish_lat"`
	FinishLng *float64 `json:"finish_lng"`
}

// Populate the database with task data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed tasks: read %q: %w", jsonPath, err)
	}

	var data []TaskSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed tasks: parse json: %w", err)
	}

	rows := make([]TaskSeed, 0, len(data))
	for i, item := range data {
		id := strings.TrimSpace(item.TaskID)
		if id == "" {
			return fmt.Errorf("seed tasks: item at index %d: task_id cannot be empty", i+1)
		}

		if (item.StartLat == nil) != (item.StartLng == nil) {
			return fmt.Errorf("seed tasks: task_id=%q: start_lat and start_lng must be set together", id)
		}
		if (item.FinishLat == nil) != (item.FinishLng == nil) {
			return fmt.Errorf("seed tasks: task_id=%q: finish_lat and finish_lng must be set together", id)
		}

		item.TaskID = id
		rows = append(rows, item)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed tasks: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT OR REPLACE INTO tasks (
		task_id,
		start_lat,
		start_lng,
		finish_lat,
		finish_lng
	)
	VALUES (?, ?, ?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed tasks: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range rows {
		if _, err := stmt.Exec(t.TaskID, t.StartLat, t.StartLng, t.FinishLat, t.FinishLng); err != nil {
			return fmt.Errorf("seed tasks: insert task_id=%q: %w", t.TaskID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed tasks: commit tx: %w", err)
	}

	return nil
}
