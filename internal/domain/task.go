package domain

// Represents a single unit of routable work.
// The ID is an opaque caller-supplied identifier and is never interpreted.
// A TaskPoint without a Start coordinate cannot be routed and is excluded
// from optimization. TaskPoints are immutable for the duration of an
// optimization call and are never persisted by this subsystem.
type TaskPoint struct {
	ID     string
	Start  *Coordinate
	Finish *Coordinate
}

// Routable reports whether the task carries a usable start coordinate.
func (t *TaskPoint) Routable() bool {
	return t != nil && t.Start != nil && t.Start.Valid()
}

// Represents the set of tasks assigned to one vehicle, in visiting order.
// A VehicleGroup is output-only planning data and contains no side effects.
type VehicleGroup struct {
	VehicleIndex   int
	OrderedTaskIDs []string
}

// Result of a point-to-point route lookup against the routing engine.
type RouteSummary struct {
	DistanceMeters float64
	Waypoints      []Coordinate
}
