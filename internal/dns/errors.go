package dns

import "errors"

var (
	// ErrZoneNotFound is returned when no managed zone administers the
	// requested domain.
	ErrZoneNotFound = errors.New("no managed zone found for domain")

	// ErrApplyTimeout is returned when a submitted change is still pending
	// after the configured apply deadline.
	ErrApplyTimeout = errors.New("change not applied before deadline")

	// ErrPropagationTimeout is returned when at least one authoritative
	// nameserver did not serve the expected record before the configured
	// verification deadline.
	ErrPropagationTimeout = errors.New("record not propagated before deadline")
)
