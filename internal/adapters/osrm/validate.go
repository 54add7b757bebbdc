package osrm

import "regexp"

// Coordinate-list parameters are the only user-influenced segment of an
// outbound engine request, so they are validated with a closed grammar
// (NUM,NUM(;NUM,NUM)*) rather than a blocklist. Whitespace, control
// characters, and path-traversal sequences all fail the match.
var coordListRe = regexp.MustCompile(`^-?\d+(\.\d+)?,-?\d+(\.\d+)?(;-?\d+(\.\d+)?,-?\d+(\.\d+)?)*$`)

// ValidCoordinateList reports whether s matches the coordinate grammar.
func ValidCoordinateList(s string) bool {
	return coordListRe.MatchString(s)
}
