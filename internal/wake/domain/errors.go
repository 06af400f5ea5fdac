package wake

import "errors"

var (
	// ErrEmptyReference is returned when no reference turbine is configured.
	ErrEmptyReference = errors.New("wake: empty reference turbine")
	// ErrInvalidHalfWidth is returned when the sector half-width is negative.
	ErrInvalidHalfWidth = errors.New("wake: invalid sector half-width")
	// ErrInvalidBinWidth is returned when the bin width is not positive.
	ErrInvalidBinWidth = errors.New("wake: invalid bin width")
	// ErrInvalidMaxSpeed is returned when the binned range is empty.
	ErrInvalidMaxSpeed = errors.New("wake: invalid max speed")
	// ErrSameTurbine is returned when upstream and downstream are identical.
	ErrSameTurbine = errors.New("wake: upstream and downstream must differ")
)
