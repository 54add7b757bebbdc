package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
)

// Postgres-backed implementation of the TaskRepository port.
type SQLTaskRepository struct{ DB *sql.DB }

func NewSQLTaskRepository(db *sql.DB) *SQLTaskRepository {
	return &SQLTaskRepository{DB: db}
}

// Return the task for id, or nil when no such task is stored.
func (s *SQLTaskRepository) GetTaskPoint(ctx context.Context, id string) (_ *domain.TaskPoint, err error) {
	defer obs.Time(ctx, "tasks.GetTaskPoint")(&err)

	if s.DB == nil {
		return nil, errors.New("task repository: DB is nil")
	}

	query := `
	SELECT
		task_id,
		start_lat,
		start_lng,
		finish_lat,
		finish_lng
	FROM tasks
	WHERE task_id = $1;
	`

	var (
		taskID               string
		startLat, startLng   sql.NullFloat64
		finishLat, finishLng sql.NullFloat64
	)
	err = s.DB.QueryRowContext(ctx, query, id).Scan(&taskID, &startLat, &startLng, &finishLat, &finishLng)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task point: query tasks table: %w", err)
	}

	return &domain.TaskPoint{
		ID:     taskID,
		Start:  coordFromNullable(startLat, startLng),
		Finish: coordFromNullable(finishLat, finishLng),
	}, nil
}

// InitPostgresSchema creates the tasks table when absent ($n placeholders,
// used by the dbtool against Postgres).
func InitPostgresSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS tasks (
		task_id TEXT PRIMARY KEY,
		start_lat DOUBLE PRECISION,
		start_lng DOUBLE PRECISION,
		finish_lat DOUBLE PRECISION,
		finish_lng DOUBLE PRECISION
	);
	`)
	if err != nil {
		return fmt.Errorf("init schema: create tasks table: %w", err)
	}

	return nil
}
