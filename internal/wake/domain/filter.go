package wake

import "math"

const (
	// DefaultHalfWidthDeg is the sector half-width around the wake direction.
	DefaultHalfWidthDeg = 30.0
	// DefaultPitchLimitDeg is the pitch angle above which a turbine is treated as curtailed.
	DefaultPitchLimitDeg = 5.0
)

// Sector is an inclusive wind-direction interval [Center-HalfWidth, Center+HalfWidth].
// It does not wrap at 0/360: a sector crossing north matches only the part
// inside [0, 360), so centers within HalfWidth of north under-select.
type Sector struct {
	CenterDeg    float64
	HalfWidthDeg float64
}

// Lower returns the lower bound in degrees.
func (s Sector) Lower() float64 { return s.CenterDeg - s.HalfWidthDeg }

// Upper returns the upper bound in degrees.
func (s Sector) Upper() float64 { return s.CenterDeg + s.HalfWidthDeg }

// Contains reports whether deg lies in the closed sector. NaN never matches.
// Bounds are not wrapped at 0/360, so a sector crossing north misses samples.
func (s Sector) Contains(deg float64) bool {
	if math.IsNaN(deg) {
		return false
	}
	return deg >= s.Lower() && deg <= s.Upper()
}

// FilterConfig selects wake-condition samples.
type FilterConfig struct {
	ReferenceTurbine string
	Sector           Sector
	PitchLimitDeg    float64
}

// Validate checks the filter parameters.
func (c FilterConfig) Validate() error {
	if c.ReferenceTurbine == "" {
		return ErrEmptyReference
	}
	if c.Sector.HalfWidthDeg < 0 || math.IsNaN(c.Sector.HalfWidthDeg) {
		return ErrInvalidHalfWidth
	}
	return nil
}

// FilterResult is the output of ApplyWakeFilter.
type FilterResult struct {
	Samples []ScadaSample
	// DirectionTimestamps is the number of reference timestamps inside the sector.
	DirectionTimestamps int
	// PitchExcluded is the number of those timestamps dropped for high pitch.
	PitchExcluded int
}

// DirectionWindow collects the timestamps at which the reference turbine's
// wind direction lies inside the sector.
func DirectionWindow(samples []ScadaSample, reference string, sector Sector) TimestampSet {
	set := NewTimestampSet()
	for _, sample := range samples {
		if sample.TurbineID == reference && sector.Contains(sample.WindDirectionDeg) {
			set.Add(sample.Timestamp)
		}
	}
	return set
}

// HighPitchTimestamps collects the timestamps at which any turbine in samples
// has a blade pitch above limit.
func HighPitchTimestamps(samples []ScadaSample, limit float64) TimestampSet {
	set := NewTimestampSet()
	for _, sample := range samples {
		if sample.PitchAbove(limit) {
			set.Add(sample.Timestamp)
		}
	}
	return set
}

// ExcludeHighPitch drops every sample sharing a timestamp with a high-pitch sample.
// Applying it to its own output is a no-op.
func ExcludeHighPitch(samples []ScadaSample, limit float64) ([]ScadaSample, int) {
	excluded := HighPitchTimestamps(samples, limit)
	return Exclude(samples, excluded), excluded.Len()
}

// ApplyWakeFilter restricts all turbines' samples to the reference turbine's
// direction window, then removes fleet-wide high-pitch timestamps.
func ApplyWakeFilter(samples []ScadaSample, cfg FilterConfig) (FilterResult, error) {
	if err := cfg.Validate(); err != nil {
		return FilterResult{}, err
	}
	window := DirectionWindow(samples, cfg.ReferenceTurbine, cfg.Sector)
	inWindow := Restrict(samples, window)
	kept, excluded := ExcludeHighPitch(inWindow, cfg.PitchLimitDeg)
	return FilterResult{
		Samples:             kept,
		DirectionTimestamps: window.Len(),
		PitchExcluded:       excluded,
	}, nil
}
