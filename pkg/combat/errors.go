package combat

import "errors"

// Sentinel errors wrapped by every fallible operation in pkg/combat.
// Callers should compare with errors.Is, never string matching.
var (
	// ErrInvalidInput marks a malformed or out-of-range caller-supplied
	// value (a negative duration, an empty script line, a nil panel).
	ErrInvalidInput = errors.New("combat: invalid input")

	// ErrUnknownReference marks a lookup miss against a registry,
	// enum, or tag the caller named but that does not exist (an
	// unregistered character id, an unrecognized element, a missing
	// effect tag to consume).
	ErrUnknownReference = errors.New("combat: unknown reference")

	// ErrResourceDenied marks a resource-gated operation (technique
	// point spend, cooldown-gated skill) that could not proceed
	// because the resource was unavailable.
	ErrResourceDenied = errors.New("combat: resource denied")

	// ErrEntityFailure marks a panic recovered from a single entity's
	// tick handler. It is never returned from RunSimulation; the
	// scheduler downgrades it to a log line and a diagnostics record
	// so one entity's bug cannot halt the run.
	ErrEntityFailure = errors.New("combat: entity tick failed")
)
