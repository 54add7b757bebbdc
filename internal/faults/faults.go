// Package faults defines the error taxonomy shared by the map-link
// utilities, the routing-engine client, and their callers.
package faults

import (
	"errors"
	"fmt"
)

// Kind classifies a failure independently of the Go type that produced it.
type Kind string

const (
	// Untrusted URL failed the allow-list/scheme/port checks.
	InvalidLink Kind = "invalid_link"
	// Coordinate string failed the closed grammar; no network call was made.
	InvalidCoordinates Kind = "invalid_coordinates"
	// Endpoint is not one of the known routing-engine operations.
	UnknownEndpoint Kind = "unknown_endpoint"
	// The routing engine responded but signaled failure.
	RouteEngine Kind = "route_engine"
	// Transport-level failure reaching the engine or link provider.
	Network Kind = "network"
)

// Fault carries a Kind alongside a message and optional cause.
type Fault struct {
	Kind Kind
	Msg  string
	Err  error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Msg, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Msg)
}

func (f *Fault) Unwrap() error { return f.Err }

// New builds a Fault without a cause.
func New(kind Kind, format string, args ...any) error {
	return &Fault{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds a Fault around an underlying error.
func Wrap(kind Kind, err error, format string, args ...any) error {
	return &Fault{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the Kind of err, or "" when err carries none.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// Is reports whether err is a Fault of the given kind.
func Is(err error, kind Kind) bool { return KindOf(err) == kind }
