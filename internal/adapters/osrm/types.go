package osrm

// Endpoint names one of the routing engine's operations. The set is closed:
// anything else is rejected before a URL is built.
type Endpoint string

const (
	EndpointRoute   Endpoint = "route"
	EndpointTable   Endpoint = "table"
	EndpointNearest Endpoint = "nearest"
	EndpointMatch   Endpoint = "match"
	EndpointTrip    Endpoint = "trip"
)

var knownEndpoints = map[Endpoint]struct{}{
	EndpointRoute:   {},
	EndpointTable:   {},
	EndpointNearest: {},
	EndpointMatch:   {},
	EndpointTrip:    {},
}

// Engine responses share a status envelope; "Ok" signals success and
// Message carries the engine's diagnostic otherwise.
type engineStatus struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type tripResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Waypoints []struct {
		WaypointIndex int `json:"waypoint_index"`
	} `json:"waypoints"`
}

type routeResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
	} `json:"routes"`
	Waypoints []struct {
		Location []float64 `json:"location"`
	} `json:"waypoints"`
}
