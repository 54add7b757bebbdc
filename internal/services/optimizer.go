package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
)

// Method selects how each vehicle's visiting order is produced.
type Method string

const (
	// Angle-sweep order only; no network calls.
	MethodAngle Method = "angle"
	// Angle-sweep partition refined per vehicle by the engine's trip
	// operation, falling back to sweep order when refinement fails.
	MethodTrip Method = "trip"
)

// DefaultMaxVehicles is the fleet bound preserved from the UI this
// subsystem serves: the trip refinement is roughly quadratic per group and
// the interface renders at most three simultaneous vehicles.
const DefaultMaxVehicles = 3

// Optimizer partitions tasks across a bounded vehicle fleet and orders each
// vehicle's stops. Each Optimize call is a pure function of its inputs plus
// the routing client's cache; nothing is persisted.
type Optimizer struct {
	repo        ports.TaskRepository
	trips       ports.TripPlanner
	maxVehicles int
}

type Option func(*Optimizer)

// WithMaxVehicles overrides the fleet bound.
func WithMaxVehicles(n int) Option {
	return func(o *Optimizer) {
		if n >= 1 {
			o.maxVehicles = n
		}
	}
}

func NewOptimizer(repo ports.TaskRepository, trips ports.TripPlanner, opts ...Option) *Optimizer {
	o := &Optimizer{
		repo:        repo,
		trips:       trips,
		maxVehicles: DefaultMaxVehicles,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type resolvedTask struct {
	id    string
	start domain.Coordinate
	angle float64
}

// Optimize partitions taskIDs into at most vehicleCount groups and orders
// each group's stops.
//
// Tasks without a stored start coordinate are dropped (logged, not fatal);
// zero routable tasks yields an empty result, not an error. The union of
// ids across the returned groups is exactly the routable input ids, once
// each. The only hard failure besides context cancellation is an invalid
// method, which is a caller programming error.
func (o *Optimizer) Optimize(
	ctx context.Context,
	taskIDs []string,
	vehicleCount int,
	method Method,
) ([]domain.VehicleGroup, error) {
	if method != MethodAngle && method != MethodTrip {
		return nil, fmt.Errorf("optimize: invalid method %q", method)
	}

	if vehicleCount < 1 {
		vehicleCount = 1
	}
	if vehicleCount > o.maxVehicles {
		vehicleCount = o.maxVehicles
	}

	tasks, err := o.resolve(ctx, taskIDs)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return []domain.VehicleGroup{}, nil
	}

	if vehicleCount > len(tasks) {
		vehicleCount = len(tasks)
	}

	angleSort(tasks)
	chunks := chunkTasks(tasks, vehicleCount)

	if method == MethodTrip {
		if err := o.refineChunks(ctx, chunks, vehicleCount); err != nil {
			return nil, err
		}
	}

	groups := make([]domain.VehicleGroup, 0, len(chunks))
	for i, chunk := range chunks {
		ids := make([]string, 0, len(chunk))
		for _, t := range chunk {
			ids = append(ids, t.id)
		}
		groups = append(groups, domain.VehicleGroup{VehicleIndex: i, OrderedTaskIDs: ids})
	}

	return groups, nil
}

// resolve looks up each id once (duplicates collapse to the first
// occurrence) and keeps only tasks with a usable start coordinate.
func (o *Optimizer) resolve(ctx context.Context, taskIDs []string) ([]resolvedTask, error) {
	seen := make(map[string]struct{}, len(taskIDs))
	tasks := make([]resolvedTask, 0, len(taskIDs))

	for _, id := range taskIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		tp, err := o.repo.GetTaskPoint(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("optimize: resolve task %q: %w", id, err)
		}
		if !tp.Routable() {
			log.Printf("optimize: task %q has no usable start coordinate; dropped", id)
			continue
		}

		tasks = append(tasks, resolvedTask{id: tp.ID, start: *tp.Start})
	}

	return tasks, nil
}

// angleSort orders tasks by ascending bearing angle from the shared
// centroid. The sort is stable so equal angles keep input order and results
// are deterministic for identical inputs.
func angleSort(tasks []resolvedTask) {
	var sumLat, sumLng float64
	for _, t := range tasks {
		sumLat += t.start.Lat
		sumLng += t.start.Lng
	}
	// Arithmetic-mean centroid: acceptable at city scale, not geodesic.
	cLat := sumLat / float64(len(tasks))
	cLng := sumLng / float64(len(tasks))

	for i := range tasks {
		tasks[i].angle = math.Atan2(tasks[i].start.Lat-cLat, tasks[i].start.Lng-cLng)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].angle < tasks[j].angle
	})
}

// chunkTasks splits the angle-sorted sequence into k contiguous chunks with
// sizes differing by at most one, so no vehicle is left without tasks while
// tasks exist.
func chunkTasks(tasks []resolvedTask, k int) [][]resolvedTask {
	n := len(tasks)
	base := n / k
	rem := n % k

	chunks := make([][]resolvedTask, 0, k)
	start := 0
	for i := 0; i < k; i++ {
		size := base
		if i < rem {
			size++
		}
		chunks = append(chunks, tasks[start:start+size])
		start += size
	}

	return chunks
}

// refineChunks asks the trip planner for a better visiting order per chunk,
// fanning out with concurrency bounded by the vehicle count. A chunk whose
// refinement fails keeps its angle-sweep order; one chunk's failure never
// aborts the others. Partial results are discarded on cancellation.
func (o *Optimizer) refineChunks(ctx context.Context, chunks [][]resolvedTask, bound int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bound)

	for ci := range chunks {
		chunk := chunks[ci]
		if len(chunk) < 2 {
			continue
		}

		g.Go(func() error {
			coords := make([]domain.Coordinate, 0, len(chunk))
			for _, t := range chunk {
				coords = append(coords, t.start)
			}

			order, err := o.trips.TripOrder(gctx, coords)
			if err != nil {
				log.Printf("optimize: trip refinement failed for vehicle chunk; keeping sweep order: %v", err)
				return nil
			}
			if len(order) != len(chunk) {
				log.Printf("optimize: trip refinement returned %d indices for %d tasks; keeping sweep order",
					len(order), len(chunk))
				return nil
			}

			reordered := make([]resolvedTask, len(chunk))
			for pos, idx := range order {
				if idx < 0 || idx >= len(chunk) {
					log.Printf("optimize: trip refinement returned out-of-range index; keeping sweep order")
					return nil
				}
				reordered[pos] = chunk[idx]
			}
			copy(chunk, reordered)
			return nil
		})
	}

	// Goroutines swallow refinement failures, so Wait only reflects
	// cancellation of the surrounding request.
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
