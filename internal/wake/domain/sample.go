package wake

import "time"

// ScadaSample is one SCADA row of one turbine.
// Direction and pitch values are NaN when the export left them blank.
type ScadaSample struct {
	TurbineID        string
	Timestamp        time.Time
	WindDirectionDeg float64
	WindSpeedMPS     float64
	PowerKW          float64
	PitchADeg        float64
	PitchBDeg        float64
	PitchCDeg        float64
}

// PitchAbove reports whether any blade pitch exceeds limit.
func (s ScadaSample) PitchAbove(limit float64) bool {
	return s.PitchADeg > limit || s.PitchBDeg > limit || s.PitchCDeg > limit
}
