package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"route-optimizer-service/internal/domain"
)

// SQLite-backed implementation of the TaskRepository port.
type SqliteTaskRepository struct{ DB *sql.DB }

func NewSqliteTaskRepository(db *sql.DB) *SqliteTaskRepository {
	return &SqliteTaskRepository{DB: db}
}

// Return the task for id, or nil when no such task is stored.
func (s *SqliteTaskRepository) GetTaskPoint(ctx context.Context, id string) (*domain.TaskPoint, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite task repository: DB is nil")
	}

	query := `
	SELECT
		task_id,
		start_lat,
		start_lng,
		finish_lat,
		finish_lng
	FROM tasks
	WHERE task_id = ?;
	`

	var (
		taskID               string
		startLat, startLng   sql.NullFloat64
		finishLat, finishLng sql.NullFloat64
	)
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&taskID, &startLat, &startLng, &finishLat, &finishLng)
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

func coordFromNullable(lat, lng sql.NullFloat64) *domain.Coordinate {
	if !lat.Valid || !lng.Valid {
		return nil
	}
	return &domain.Coordinate{Lat: lat.Float64, Lng: lng.Float64}
}
