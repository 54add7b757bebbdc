package ports

import (
	"context"

	"route-optimizer-service/internal/domain"
)

// Contract for the single routing-engine operation the optimizer depends
// on: an open-ended visiting order over a list of waypoints.
type TripPlanner interface {
	// Return the visiting order of coords as indices into coords.
	// The returned slice is a permutation of [0, len(coords)).
	TripOrder(ctx context.Context, coords []domain.Coordinate) ([]int, error)
}
