package lsr

import "errors"

// Sentinel errors returned by the lsr package. Callers should test for them
// with errors.Is since most are wrapped with additional context.
var (
	// ErrMatrixLoad indicates that a cost matrix could not be read: missing
	// or unreadable source, malformed integers, or rows of inconsistent length.
	ErrMatrixLoad = errors.New("lsr: cannot load cost matrix")

	// ErrInvalidTopology indicates that a cost matrix or a set of LSPs does not
	// describe a valid topology (non-square, no routers, disallowed values).
	ErrInvalidTopology = errors.New("lsr: invalid topology")

	// ErrAllocation indicates that the requested topology is too large to be
	// represented.
	ErrAllocation = errors.New("lsr: topology too large")

	// ErrUnknownRouter indicates that a router id is outside [0, numRouters).
	ErrUnknownRouter = errors.New("lsr: unknown router")

	// ErrNoRoute indicates that a destination is unreachable from a source.
	ErrNoRoute = errors.New("lsr: no route")
)
