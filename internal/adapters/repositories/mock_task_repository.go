package repositories

import (
	"context"

	"route-optimizer-service/internal/domain"
)

// In-memory implementation of the TaskRepository port for tests and demos.
type MockTaskRepository struct {
	m map[string]*domain.TaskPoint
}

func NewMockTaskRepository(tasks []*domain.TaskPoint) *MockTaskRepository {
	m := make(map[string]*domain.TaskPoint, len(tasks))
	for _, t := range tasks {
		m[t.ID] = t
	}
	return &MockTaskRepository{m: m}
}

func (r *MockTaskRepository) GetTaskPoint(_ context.Context, id string) (*domain.TaskPoint, error) {
	return r.m[id], nil
}
