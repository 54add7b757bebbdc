package ports

import (
	"context"

	"route-optimizer-service/internal/domain"
)

// Port: a read-only boundary for resolving task identifiers to their
// stored coordinates. The optimizer never writes back through it.
type TaskRepository interface {
	// Return the task for id, or nil (with nil error) when unknown.
	GetTaskPoint(ctx context.Context, id string) (*domain.TaskPoint, error)
}
