package internal

import "errors"

var (
	// ErrInvalidWard is returned when a ward is unknown or not owned by the given zone.
	ErrInvalidWard = errors.New("invalid ward")

	// ErrInvalidMeasurement is returned when a reading cannot be classified,
	// e.g. a non-positive current that would divide by zero.
	ErrInvalidMeasurement = errors.New("invalid measurement")

	// ErrUnknownScope is returned when a scope names a zone or ward outside the topology.
	ErrUnknownScope = errors.New("unknown scope")
)
