package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"route-optimizer-service/internal/adapters/cache"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/faults"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server, *cache.MemoryRouteCache) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	routeCache := cache.NewMemoryRouteCache()
	client, err := NewClient(srv.URL, srv.URL+"/route", routeCache)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, srv, routeCache
}

func TestCallRejectsUnknownEndpoint(t *testing.T) {
	var requests atomic.Int64
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))

	_, err := client.Call(context.Background(), Endpoint("isochrone"), "1,1", nil)
	if !faults.Is(err, faults.UnknownEndpoint) {
		t.Fatalf("expected UnknownEndpoint fault, got %v", err)
	}
	if requests.Load() != 0 {
		t.Fatalf("expected no outbound request, got %d", requests.Load())
	}
}

func TestCallRejectsMalformedCoordinates(t *testing.T) {
	var requests atomic.Int64
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))

	for _, coords := range []string{"", "1,1;../../../etc", "1,1 ;2,2"} {
		_, err := client.Call(context.Background(), EndpointTable, coords, nil)
		if !faults.Is(err, faults.InvalidCoordinates) {
			t.Errorf("coords %q: expected InvalidCoordinates fault, got %v", coords, err)
		}
	}
	if requests.Load() != 0 {
		t.Fatalf("expected no outbound requests, got %d", requests.Load())
	}
}

func TestCallBuildsQueryNotPath(t *testing.T) {
	var gotPath, gotPoints string
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPoints = r.URL.Query().Get("points")
		fmt.Fprint(w, `{"code":"Ok"}`)
	}))

	_, err := client.Call(context.Background(), EndpointTable, "1,1;2,2", map[string]string{"annotations": "distance"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/table" {
		t.Fatalf("expected path /table, got %q", gotPath)
	}
	if gotPoints != "1,1;2,2" {
		t.Fatalf("expected coordinates in query parameter, got %q", gotPoints)
	}
}

func TestCallEngineFailure(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":"NoSegment","message":"could not snap coordinate 0"}`)
	}))

	_, err := client.Call(context.Background(), EndpointNearest, "1,1", nil)
	if !faults.Is(err, faults.RouteEngine) {
		t.Fatalf("expected RouteEngine fault, got %v", err)
	}
}

func TestCallHTTPStatusFailure(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
	}))

	_, err := client.Call(context.Background(), EndpointMatch, "1,1;2,2", nil)
	if !faults.Is(err, faults.RouteEngine) {
		t.Fatalf("expected RouteEngine fault, got %v", err)
	}
}

func TestCallCachesSuccessfulResults(t *testing.T) {
	var requests atomic.Int64
	client, _, routeCache := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, `{"code":"Ok","durations":[[0,60],[60,0]]}`)
	}))

	ctx := context.Background()

	first, err := client.Call(ctx, EndpointTable, "1,1;2,2", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := client.Call(ctx, EndpointTable, "1,1;2,2", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if requests.Load() != 1 {
		t.Fatalf("expected exactly 1 outbound request, got %d", requests.Load())
	}
	if string(first) != string(second) {
		t.Fatalf("cached payload differs from original")
	}
	if routeCache.Hits() != 1 {
		t.Fatalf("expected 1 cache hit, got %d", routeCache.Hits())
	}

	if err := client.ClearCache(ctx); err != nil {
		t.Fatalf("clear cache: %v", err)
	}
	if _, err := client.Call(ctx, EndpointTable, "1,1;2,2", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requests.Load() != 2 {
		t.Fatalf("expected a fresh request after clear, got %d total", requests.Load())
	}
}

func TestCallDoesNotCacheFailures(t *testing.T) {
	var requests atomic.Int64
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, `{"code":"InvalidQuery"}`)
	}))

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := client.Call(ctx, EndpointTable, "1,1;2,2", nil); err == nil {
			t.Fatal("expected engine failure")
		}
	}
	if requests.Load() != 2 {
		t.Fatalf("failures must not be cached; got %d requests", requests.Load())
	}
}

func TestCacheKeyParamOrderIndependence(t *testing.T) {
	a := CacheKey(EndpointTable, "1,1;2,2", map[string]string{"a": "1", "b": "2"})
	b := CacheKey(EndpointTable, "1,1;2,2", map[string]string{"b": "2", "a": "1"})
	if a != b {
		t.Fatalf("cache keys differ for identical params: %q vs %q", a, b)
	}

	c := CacheKey(EndpointTrip, "1,1;2,2", map[string]string{"a": "1", "b": "2"})
	if a == c {
		t.Fatal("cache keys must differ across endpoints")
	}
}

func TestTripOrder(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trip" {
			t.Errorf("expected /trip path, got %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("roundtrip") != "false" || q.Get("source") != "first" {
			t.Errorf("unexpected trip params: %v", q)
		}
		// Input order a,b,c; engine visits a, c, b.
		fmt.Fprint(w, `{"code":"Ok","waypoints":[{"waypoint_index":0},{"waypoint_index":2},{"waypoint_index":1}]}`)
	}))

	coords := []domain.Coordinate{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}, {Lat: 3, Lng: 3}}
	order, err := client.TripOrder(context.Background(), coords)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{0, 2, 1}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestTripOrderRejectsBadPermutation(t *testing.T) {
	cases := []string{
		`{"code":"Ok","waypoints":[{"waypoint_index":0},{"waypoint_index":0}]}`,
		`{"code":"Ok","waypoints":[{"waypoint_index":0},{"waypoint_index":5}]}`,
		`{"code":"Ok","waypoints":[{"waypoint_index":0}]}`,
	}

	for _, body := range cases {
		payload := body
		client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, payload)
		}))

		coords := []domain.Coordinate{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}
		if _, err := client.TripOrder(context.Background(), coords); !faults.Is(err, faults.RouteEngine) {
			t.Errorf("body %s: expected RouteEngine fault, got %v", body, err)
		}
	}
}

func TestRouteDistance(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/route" {
			t.Errorf("expected /route path, got %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("start") == "" || q.Get("end") == "" {
			t.Errorf("expected start/end params, got %v", q)
		}
		resp := map[string]any{
			"code":   "Ok",
			"routes": []map[string]any{{"distance": 1532.7}},
			"waypoints": []map[string]any{
				{"location": []float64{-112.074, 33.4484}},
				{"location": []float64{-111.94, 33.4255}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))

	summary, err := client.RouteDistance(
		context.Background(),
		domain.Coordinate{Lat: 33.4484, Lng: -112.074},
		domain.Coordinate{Lat: 33.4255, Lng: -111.94},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.DistanceMeters != 1532.7 {
		t.Fatalf("expected distance 1532.7, got %v", summary.DistanceMeters)
	}
	if len(summary.Waypoints) != 2 {
		t.Fatalf("expected 2 waypoints, got %d", len(summary.Waypoints))
	}
	if summary.Waypoints[0].Lat != 33.4484 || summary.Waypoints[0].Lng != -112.074 {
		t.Fatalf("waypoint lat/lng swapped: %+v", summary.Waypoints[0])
	}
}

func TestRouteDistanceEngineFailure(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":"NoRoute","message":"impossible route"}`)
	}))

	_, err := client.RouteDistance(context.Background(), domain.Coordinate{}, domain.Coordinate{Lat: 1, Lng: 1})
	if !faults.Is(err, faults.RouteEngine) {
		t.Fatalf("expected RouteEngine fault, got %v", err)
	}
}

func TestFormatCoordinateList(t *testing.T) {
	coords := []domain.Coordinate{{Lat: 33.4484, Lng: -112.074}, {Lat: -1.5, Lng: 100.25}}
	got := FormatCoordinateList(coords)
	want := "-112.074,33.4484;100.25,-1.5"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if !ValidCoordinateList(got) {
		t.Fatalf("formatted list %q fails its own grammar", got)
	}
}
