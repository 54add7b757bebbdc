// Package osrm is a validated, cached façade over the external routing
// engine's HTTP API.
package osrm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/faults"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
)

// Client talks to the routing engine.
//
// Every call is a single attempt: transient failures propagate to the
// caller instead of being retried, so sustained outages surface as errors
// rather than hiding behind latency. Successful payloads are cached under a
// deterministic key; the cache is injected and shared, so the Client is
// safe for concurrent use.
type Client struct {
	session  *http.Client
	baseURL  string
	routeURL string
	cache    ports.RouteCache
}

// NewClient builds a Client for the engine at baseURL (the five
// sub-endpoints) and routeURL (the dedicated point-to-point service).
func NewClient(baseURL, routeURL string, cache ports.RouteCache) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("osrm: base URL is empty")
	}
	if strings.TrimSpace(routeURL) == "" {
		return nil, errors.New("osrm: route URL is empty")
	}

	return &Client{
		session:  &http.Client{Timeout: 5 * time.Second},
		baseURL:  strings.TrimRight(baseURL, "/"),
		routeURL: strings.TrimRight(routeURL, "/"),
		cache:    cache,
	}, nil
}

// CacheKey derives the deterministic cache key for one engine call.
// Params are sorted by key so equivalent calls collide.
func CacheKey(endpoint Endpoint, coordinates string, params map[string]string) string {
	pairs := make([]string, 0, len(params))
	for k, v := range params {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return string(endpoint) + ":" + coordinates + ":" + strings.Join(pairs, "&")
}

// Call invokes one engine operation and returns its JSON payload verbatim.
//
// coordinates must match the closed grammar NUM,NUM(;NUM,NUM)* and is
// appended as a single query parameter value, never path-concatenated.
// A cache hit short-circuits network access entirely.
func (c *Client) Call(
	ctx context.Context,
	endpoint Endpoint,
	coordinates string,
	params map[string]string,
) (_ json.RawMessage, err error) {
	defer obs.Time(ctx, "osrm.Call."+string(endpoint))(&err)

	if _, ok := knownEndpoints[endpoint]; !ok {
		return nil, faults.New(faults.UnknownEndpoint, "unknown routing endpoint %q", endpoint)
	}

	if !ValidCoordinateList(coordinates) {
		return nil, faults.New(faults.InvalidCoordinates, "coordinate list fails grammar")
	}

	key := CacheKey(endpoint, coordinates, params)
	if c.cache != nil {
		cached, ok, cerr := c.cache.Get(ctx, key)
		if cerr != nil {
			return nil, fmt.Errorf("osrm: cache get: %w", cerr)
		}
		if ok {
			return json.RawMessage(cached), nil
		}
	}

	q := url.Values{}
	q.Set("points", coordinates)
	for k, v := range params {
		q.Set(k, v)
	}
	target := c.baseURL + "/" + string(endpoint) + "?" + q.Encode()

	payload, err := c.get(ctx, target)
	if err != nil {
		return nil, err
	}

	var status engineStatus
	if jerr := json.Unmarshal(payload, &status); jerr != nil {
		return nil, faults.Wrap(faults.RouteEngine, jerr, "decode engine response")
	}
	if status.Code != "Ok" {
		return nil, engineFault(status)
	}

	if c.cache != nil {
		if cerr := c.cache.Set(ctx, key, payload); cerr != nil {
			log.Printf("route cache write failed: %v", cerr)
		}
	}

	return json.RawMessage(payload), nil
}

// TripOrder asks the engine for an open-ended visiting order over coords.
// The returned slice is a permutation of [0, len(coords)): element k is the
// index of the k-th visited coordinate.
func (c *Client) TripOrder(ctx context.Context, coords []domain.Coordinate) ([]int, error) {
	if len(coords) < 2 {
		return nil, errors.New("osrm: trip needs at least two coordinates")
	}

	payload, err := c.Call(ctx, EndpointTrip, FormatCoordinateList(coords), map[string]string{
		"roundtrip": "false",
		"source":    "first",
	})
	if err != nil {
		return nil, err
	}

	var tr tripResponse
	if err := json.Unmarshal(payload, &tr); err != nil {
		return nil, faults.Wrap(faults.RouteEngine, err, "decode trip response")
	}
	if len(tr.Waypoints) != len(coords) {
		return nil, faults.New(faults.RouteEngine,
			"trip returned %d waypoints for %d coordinates", len(tr.Waypoints), len(coords))
	}

	order := make([]int, len(coords))
	seen := make([]bool, len(coords))
	for i, wp := range tr.Waypoints {
		pos := wp.WaypointIndex
		if pos < 0 || pos >= len(coords) || seen[pos] {
			return nil, faults.New(faults.RouteEngine, "trip waypoint indices are not a permutation")
		}
		seen[pos] = true
		order[pos] = i
	}

	return order, nil
}

// RouteDistance fetches the point-to-point distance between start and end
// from the engine's dedicated route service.
func (c *Client) RouteDistance(
	ctx context.Context,
	start, end domain.Coordinate,
) (_ domain.RouteSummary, err error) {
	defer obs.Time(ctx, "osrm.RouteDistance")(&err)

	q := url.Values{}
	q.Set("start", formatCoordinate(start))
	q.Set("end", formatCoordinate(end))

	payload, err := c.get(ctx, c.routeURL+"?"+q.Encode())
	if err != nil {
		return domain.RouteSummary{}, err
	}

	var rr routeResponse
	if jerr := json.Unmarshal(payload, &rr); jerr != nil {
		return domain.RouteSummary{}, faults.Wrap(faults.RouteEngine, jerr, "decode route response")
	}
	if rr.Code != "Ok" {
		return domain.RouteSummary{}, engineFault(engineStatus{Code: rr.Code, Message: rr.Message})
	}
	if len(rr.Routes) == 0 {
		return domain.RouteSummary{}, faults.New(faults.RouteEngine, "route response carries no routes")
	}

	summary := domain.RouteSummary{DistanceMeters: rr.Routes[0].Distance}
	for _, wp := range rr.Waypoints {
		if len(wp.Location) == 2 {
			summary.Waypoints = append(summary.Waypoints, domain.Coordinate{
				Lng: wp.Location[0],
				Lat: wp.Location[1],
			})
		}
	}

	return summary, nil
}

// ClearCache purges every cached engine payload. The task-mutation workflow
// owns invalidation and must call this after any coordinate change.
func (c *Client) ClearCache(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Clear(ctx)
}

// FormatCoordinateList renders coords as the engine's semicolon-joined
// "lng,lat" list. Output always satisfies the coordinate grammar.
func FormatCoordinateList(coords []domain.Coordinate) string {
	parts := make([]string, 0, len(coords))
	for _, c := range coords {
		parts = append(parts, formatCoordinate(c))
	}
	return strings.Join(parts, ";")
}

func formatCoordinate(c domain.Coordinate) string {
	return strconv.FormatFloat(c.Lng, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lat, 'f', -1, 64)
}

// get issues the single GET attempt behind every engine operation.
func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("osrm: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, faults.Wrap(faults.Network, err, "reach routing engine")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, faults.Wrap(faults.Network, err, "read engine response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, faults.New(faults.RouteEngine,
			"engine returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}

func engineFault(status engineStatus) error {
	if status.Message != "" {
		return faults.New(faults.RouteEngine, "engine reported %s: %s", status.Code, status.Message)
	}
	return faults.New(faults.RouteEngine, "engine reported %s", status.Code)
}
