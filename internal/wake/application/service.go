package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"windfleet/internal/logging"
	"windfleet/internal/observability/metrics"
	"windfleet/internal/vendorcsv"
	wake "windfleet/internal/wake/domain"
)

// SampleSource loads raw SCADA samples.
type SampleSource interface {
	LoadSamples(ctx context.Context) ([]wake.ScadaSample, vendorcsv.LoadStats, error)
}

// Options configures the wake study.
type Options struct {
	Filter     wake.FilterConfig
	Downstream string
	Bins       wake.BinSpec
}

// Report holds the wake-filtered power curves.
type Report struct {
	Source              vendorcsv.LoadStats
	Samples             int
	DirectionTimestamps int
	PitchExcluded       int
	Retained            int
	Sector              wake.Sector
	Comparison          wake.Comparison
}

// Service runs SCADA ingestion, the wake filter and power-curve binning.
type Service struct {
	source SampleSource
	opts   Options
	logger logrus.FieldLogger
}

// NewService constructs the wake pipeline.
func NewService(source SampleSource, opts Options, logger logrus.FieldLogger) (*Service, error) {
	if source == nil {
		return nil, errors.New("wake service: nil sample source")
	}
	if err := opts.Filter.Validate(); err != nil {
		return nil, err
	}
	if opts.Downstream == "" {
		return nil, errors.New("wake service: empty downstream turbine")
	}
	if opts.Downstream == opts.Filter.ReferenceTurbine {
		return nil, wake.ErrSameTurbine
	}
	if opts.Bins == (wake.BinSpec{}) {
		opts.Bins = wake.DefaultBinSpec()
	}
	if err := opts.Bins.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		source: source,
		opts:   opts,
		logger: logging.Component(logger, "wake"),
	}, nil
}

// Run executes the pipeline end to end.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	samples, stats, err := s.source.LoadSamples(ctx)
	metrics.ObserveStage("scada_ingest", metrics.Result(err), time.Since(start))
	if err != nil {
		return nil, err
	}

	start = time.Now()
	filtered, err := wake.ApplyWakeFilter(samples, s.opts.Filter)
	metrics.ObserveStage("wake_filter", metrics.Result(err), time.Since(start))
	if err != nil {
		return nil, err
	}
	if filtered.DirectionTimestamps == 0 {
		s.logger.WithField("reference", s.opts.Filter.ReferenceTurbine).Warn("no reference timestamps inside the wake sector")
	}

	start = time.Now()
	cmp, err := wake.ComparePowerCurves(filtered.Samples, s.opts.Filter.ReferenceTurbine, s.opts.Downstream, s.opts.Bins)
	metrics.ObserveStage("power_curve", metrics.Result(err), time.Since(start))
	if err != nil {
		return nil, err
	}

	metrics.SetWakeTimestamps("direction", filtered.DirectionTimestamps)
	metrics.SetWakeTimestamps("pitch_excluded", filtered.PitchExcluded)
	metrics.SetWakeTimestamps("retained", filtered.DirectionTimestamps-filtered.PitchExcluded)
	metrics.SetPowerCurveBins(cmp.Upstream, len(cmp.UpCurve))
	metrics.SetPowerCurveBins(cmp.Downstream, len(cmp.DownCurve))

	report := &Report{
		Source:              stats,
		Samples:             len(samples),
		DirectionTimestamps: filtered.DirectionTimestamps,
		PitchExcluded:       filtered.PitchExcluded,
		Retained:            len(filtered.Samples),
		Sector:              s.opts.Filter.Sector,
		Comparison:          cmp,
	}
	s.logger.WithFields(logrus.Fields{
		"samples":         report.Samples,
		"direction_ts":    report.DirectionTimestamps,
		"pitch_excluded":  report.PitchExcluded,
		"retained":        report.Retained,
		"upstream_bins":   len(cmp.UpCurve),
		"downstream_bins": len(cmp.DownCurve),
	}).Info("wake power curves computed")
	return report, nil
}
