package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	availability "windfleet/internal/availability/domain"
	"windfleet/internal/logging"
	"windfleet/internal/observability/metrics"
	"windfleet/internal/vendorcsv"
)

// EventSource loads raw status events.
type EventSource interface {
	LoadEvents(ctx context.Context) ([]availability.StatusEvent, vendorcsv.LoadStats, error)
}

// Options configures the status-log pipeline.
type Options struct {
	Available   availability.CategorySet
	Unavailable availability.CategorySet
	Years       []int
	TopCauses   int
}

// Report holds the terminal artifacts of the status-log pipeline.
type Report struct {
	Source       vendorcsv.LoadStats
	Events       int
	Turbines     []string
	Availability []availability.AvailabilityRecord
	Downtime     []availability.DowntimeRanking
	Breakdown    []availability.CategoryTotal
}

// Service runs ingestion, duration reconstruction and both aggregations.
type Service struct {
	source EventSource
	opts   Options
	logger logrus.FieldLogger
}

// NewService constructs the status-log pipeline.
func NewService(source EventSource, opts Options, logger logrus.FieldLogger) (*Service, error) {
	if source == nil {
		return nil, errors.New("availability service: nil event source")
	}
	if len(opts.Years) == 0 {
		return nil, availability.ErrNoTargetYears
	}
	if opts.Available == nil {
		opts.Available = availability.DefaultAvailableCategories()
	}
	if opts.Unavailable == nil {
		opts.Unavailable = availability.DefaultUnavailableCategories()
	}
	if opts.TopCauses == 0 {
		opts.TopCauses = availability.DefaultTopCauses
	}
	if opts.TopCauses < 0 {
		return nil, availability.ErrInvalidTopN
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		source: source,
		opts:   opts,
		logger: logging.Component(logger, "availability"),
	}, nil
}

// Run executes the pipeline end to end.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	raw, stats, err := s.source.LoadEvents(ctx)
	metrics.ObserveStage("status_ingest", metrics.Result(err), time.Since(start))
	if err != nil {
		return nil, err
	}

	start = time.Now()
	events := availability.ReconstructDurations(raw)
	metrics.ObserveStage("reconstruct", metrics.ResultSuccess, time.Since(start))

	start = time.Now()
	records, err := availability.ComputeAvailability(events, s.opts.Available, s.opts.Years)
	metrics.ObserveStage("availability", metrics.Result(err), time.Since(start))
	if err != nil {
		return nil, err
	}

	start = time.Now()
	downtime, err := availability.RankDowntime(events, s.opts.Unavailable, s.opts.TopCauses)
	metrics.ObserveStage("downtime", metrics.Result(err), time.Since(start))
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		metrics.SetAvailability(rec.TurbineID, rec.Year, rec.AvailabilityPct)
	}
	for _, rank := range downtime {
		metrics.SetDowntimeHours(rank.TurbineID, string(rank.Category), rank.Hours)
	}

	report := &Report{
		Source:       stats,
		Events:       len(events),
		Turbines:     availability.Turbines(events),
		Availability: records,
		Downtime:     downtime,
		Breakdown:    availability.SummarizeCategories(events),
	}
	s.logger.WithFields(logrus.Fields{
		"events":   report.Events,
		"turbines": len(report.Turbines),
		"records":  len(records),
		"causes":   len(downtime),
	}).Info("availability computed")
	return report, nil
}
