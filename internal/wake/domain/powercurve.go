package wake

import "math"

const (
	// DefaultBinWidth is the wind-speed bin width in m/s.
	DefaultBinWidth = 0.5
	// DefaultMaxSpeed is the exclusive upper edge of the binned range in m/s.
	DefaultMaxSpeed = 25.0
)

// BinSpec describes half-open wind-speed bins [k*Width, (k+1)*Width) over [0, MaxSpeed).
type BinSpec struct {
	Width    float64
	MaxSpeed float64
}

// DefaultBinSpec returns 50 bins of 0.5 m/s.
func DefaultBinSpec() BinSpec {
	return BinSpec{Width: DefaultBinWidth, MaxSpeed: DefaultMaxSpeed}
}

// Validate checks the bin layout.
func (b BinSpec) Validate() error {
	if !(b.Width > 0) {
		return ErrInvalidBinWidth
	}
	if !(b.MaxSpeed >= b.Width) {
		return ErrInvalidMaxSpeed
	}
	return nil
}

// Count returns the number of bins.
func (b BinSpec) Count() int {
	return int(math.Round(b.MaxSpeed / b.Width))
}

// Center returns the midpoint of bin k.
func (b BinSpec) Center(k int) float64 {
	return (float64(k) + 0.5) * b.Width
}

// Index returns the bin holding speed, or false when speed is outside [0, MaxSpeed).
func (b BinSpec) Index(speed float64) (int, bool) {
	if math.IsNaN(speed) || speed < 0 {
		return 0, false
	}
	k := int(math.Floor(speed / b.Width))
	// guard floating-point drift at bin edges
	if float64(k)*b.Width > speed {
		k--
	} else if float64(k+1)*b.Width <= speed {
		k++
	}
	if k < 0 || k >= b.Count() {
		return 0, false
	}
	return k, true
}

// PowerCurvePoint is the mean power of one turbine within one wind-speed bin.
type PowerCurvePoint struct {
	TurbineID   string
	BinCenter   float64
	MeanPowerKW float64
	Samples     int
}

// BuildPowerCurve averages the power of turbineID's samples per wind-speed bin.
// Empty bins are omitted; points are ordered by ascending bin center.
func BuildPowerCurve(samples []ScadaSample, turbineID string, spec BinSpec) ([]PowerCurvePoint, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	n := spec.Count()
	sums := make([]float64, n)
	counts := make([]int, n)
	for _, sample := range samples {
		if sample.TurbineID != turbineID {
			continue
		}
		k, ok := spec.Index(sample.WindSpeedMPS)
		if !ok {
			continue
		}
		sums[k] += sample.PowerKW
		counts[k]++
	}

	var curve []PowerCurvePoint
	for k := 0; k < n; k++ {
		if counts[k] == 0 {
			continue
		}
		curve = append(curve, PowerCurvePoint{
			TurbineID:   turbineID,
			BinCenter:   spec.Center(k),
			MeanPowerKW: sums[k] / float64(counts[k]),
			Samples:     counts[k],
		})
	}
	return curve, nil
}

// Deficit compares both curves in one bin present in each.
type Deficit struct {
	BinCenter       float64
	UpstreamKW      float64
	DownstreamKW    float64
	DifferenceKW    float64
	RatioToUpstream float64
}

// Comparison holds the upstream and downstream power curves.
type Comparison struct {
	Upstream   string
	Downstream string
	UpCurve    []PowerCurvePoint
	DownCurve  []PowerCurvePoint
	Deficits   []Deficit
}

// ComparePowerCurves builds both curves and the per-bin deficit where both have data.
// RatioToUpstream is NaN when the upstream mean is zero.
func ComparePowerCurves(samples []ScadaSample, upstream, downstream string, spec BinSpec) (Comparison, error) {
	if upstream == downstream {
		return Comparison{}, ErrSameTurbine
	}
	up, err := BuildPowerCurve(samples, upstream, spec)
	if err != nil {
		return Comparison{}, err
	}
	down, err := BuildPowerCurve(samples, downstream, spec)
	if err != nil {
		return Comparison{}, err
	}

	upByCenter := make(map[float64]PowerCurvePoint, len(up))
	for _, p := range up {
		upByCenter[p.BinCenter] = p
	}
	var deficits []Deficit
	for _, d := range down {
		u, ok := upByCenter[d.BinCenter]
		if !ok {
			continue
		}
		ratio := math.NaN()
		if u.MeanPowerKW != 0 {
			ratio = d.MeanPowerKW / u.MeanPowerKW
		}
		deficits = append(deficits, Deficit{
			BinCenter:       d.BinCenter,
			UpstreamKW:      u.MeanPowerKW,
			DownstreamKW:    d.MeanPowerKW,
			DifferenceKW:    d.MeanPowerKW - u.MeanPowerKW,
			RatioToUpstream: ratio,
		})
	}

	return Comparison{
		Upstream:   upstream,
		Downstream: downstream,
		UpCurve:    up,
		DownCurve:  down,
		Deficits:   deficits,
	}, nil
}
