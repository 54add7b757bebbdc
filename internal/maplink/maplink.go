// Package maplink turns untrusted, user-supplied map share-links into safe,
// internally usable coordinates. Validation always runs before any network
// call: an unvalidated URL is never fetched.
package maplink

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/faults"
)

// Hosts the map provider is known to serve share-links from. The list is a
// security boundary: anything else is rejected without a network call.
var allowedHosts = map[string]struct{}{
	"maps.app.goo.gl": {},
	"goo.gl":          {},
	"maps.google.com": {},
	"www.google.com":  {},
	"google.com":      {},
}

// ValidateShareURL checks an untrusted share-link before it may be fetched.
// The URL must be https, carry no userinfo, use the default or explicit 443
// port, and name an allow-listed host. The raw URL is never echoed into the
// returned error: it may embed credentials.
func ValidateShareURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", faults.New(faults.InvalidLink, "share link is not a valid URL")
	}

	if u.Scheme != "https" {
		return "", faults.New(faults.InvalidLink, "share link scheme must be https")
	}
	if u.User != nil {
		return "", faults.New(faults.InvalidLink, "share link must not carry userinfo")
	}
	if p := u.Port(); p != "" && p != "443" {
		return "", faults.New(faults.InvalidLink, "share link must use the default port")
	}
	host := strings.ToLower(u.Hostname())
	if _, ok := allowedHosts[host]; !ok {
		return "", faults.New(faults.InvalidLink, "share link host %q is not a known map provider", host)
	}

	return u.String(), nil
}

// Expander performs the single outbound request that resolves a short link.
type Expander struct {
	session *http.Client
}

func NewExpander() *Expander {
	return &Expander{
		session: &http.Client{Timeout: 5 * time.Second},
	}
}

// ExpandShortLink issues exactly one GET for safeURL, following redirects,
// and returns the final resolved URL. safeURL must already have passed
// ValidateShareURL. No response body is parsed.
func (e *Expander) ExpandShortLink(ctx context.Context, safeURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, safeURL, nil)
	if err != nil {
		return "", faults.Wrap(faults.Network, err, "create share link request")
	}

	resp, err := e.session.Do(req)
	if err != nil {
		return "", faults.Wrap(faults.Network, err, "resolve share link")
	}
	defer resp.Body.Close()

	return resp.Request.URL.String(), nil
}

// Matches the "@lat,lng[,zoom]" path segment of a canonical maps URL.
var atSegmentRe = regexp.MustCompile(`@(-?\d+(?:\.\d+)?),(-?\d+(?:\.\d+)?)`)

// Matches a bare "lat,lng" query value ("q" or "ll" parameters).
var pairRe = regexp.MustCompile(`^(-?\d+(?:\.\d+)?),(-?\d+(?:\.\d+)?)$`)

// ExtractCoordinate parses a coordinate pair out of a resolved maps URL.
// It returns nil when no known pattern is present: a link without an
// embedded coordinate means "unknown location", not failure.
func ExtractCoordinate(rawURL string) *domain.Coordinate {
	if m := atSegmentRe.FindStringSubmatch(rawURL); m != nil {
		if c := parsePair(m[1], m[2]); c != nil {
			return c
		}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	q := u.Query()
	for _, key := range []string{"q", "ll"} {
		if m := pairRe.FindStringSubmatch(q.Get(key)); m != nil {
			if c := parsePair(m[1], m[2]); c != nil {
				return c
			}
		}
	}

	return nil
}

func parsePair(latStr, lngStr string) *domain.Coordinate {
	lat, err1 := strconv.ParseFloat(latStr, 64)
	lng, err2 := strconv.ParseFloat(lngStr, 64)
	if err1 != nil || err2 != nil {
		return nil
	}

	c := domain.Coordinate{Lat: lat, Lng: lng}
	if !c.Valid() {
		return nil
	}
	return &c
}

// BuildRouteLink produces a display-only directions deep link from a to b.
// b may be nil for a single-destination link. The result is never used as a
// network target.
func BuildRouteLink(a domain.Coordinate, b *domain.Coordinate, mode string) string {
	if b == nil {
		return fmt.Sprintf(
			"https://www.google.com/maps/dir/?api=1&destination=%s&travelmode=%s",
			formatPoint(a), url.QueryEscape(travelMode(mode)),
		)
	}

	return fmt.Sprintf(
		"https://www.google.com/maps/dir/?api=1&origin=%s&destination=%s&travelmode=%s",
		formatPoint(a), formatPoint(*b), url.QueryEscape(travelMode(mode)),
	)
}

// BuildMultiStopLink produces a display-only deep link visiting points in
// order: first is the origin, last the destination, interior points become
// waypoints. Fewer than two points yields "".
func BuildMultiStopLink(points []domain.Coordinate, mode string) string {
	if len(points) < 2 {
		return ""
	}

	origin := points[0]
	dest := points[len(points)-1]
	link := fmt.Sprintf(
		"https://www.google.com/maps/dir/?api=1&origin=%s&destination=%s",
		formatPoint(origin), formatPoint(dest),
	)

	if len(points) > 2 {
		stops := make([]string, 0, len(points)-2)
		for _, p := range points[1 : len(points)-1] {
			stops = append(stops, formatPoint(p))
		}
		link += "&waypoints=" + strings.Join(stops, url.QueryEscape("|"))
	}

	return link + "&travelmode=" + url.QueryEscape(travelMode(mode))
}

func formatPoint(c domain.Coordinate) string {
	return fmt.Sprintf("%s,%s",
		strconv.FormatFloat(c.Lat, 'f', -1, 64),
		strconv.FormatFloat(c.Lng, 'f', -1, 64),
	)
}

func travelMode(mode string) string {
	switch mode {
	case "driving", "walking", "bicycling", "transit":
		return mode
	}
	return "driving"
}
