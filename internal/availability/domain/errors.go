package availability

import "errors"

var (
	// ErrEmptyTurbineID is returned when an event carries no turbine id.
	ErrEmptyTurbineID = errors.New("availability: empty turbine id")
	// ErrInvalidStart is returned when an event start time is zero.
	ErrInvalidStart = errors.New("availability: invalid start time")
	// ErrNoTargetYears is returned when availability is requested for no year.
	ErrNoTargetYears = errors.New("availability: no target years")
	// ErrInvalidYearWindow is returned when the first year is after the last year.
	ErrInvalidYearWindow = errors.New("availability: invalid year window")
	// ErrInvalidTopN is returned when the ranking size is not positive.
	ErrInvalidTopN = errors.New("availability: invalid top n")
)
