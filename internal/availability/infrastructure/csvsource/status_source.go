package csvsource

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	availability "windfleet/internal/availability/domain"
	"windfleet/internal/logging"
	"windfleet/internal/vendorcsv"
)

// Drop reasons reported in vendorcsv.LoadStats.
const (
	DropTimestamp    = "timestamp"
	DropInvalidEvent = "invalid_event"
	DropOutsideYears = "outside_years"
)

// StatusColumns names the status export columns the source reads.
type StatusColumns struct {
	Timestamp string
	Category  string
}

// StatusSource reads turbine status logs from a directory of vendor exports.
type StatusSource struct {
	dir     string
	family  vendorcsv.Family
	columns StatusColumns
	window  availability.YearWindow
	logger  logrus.FieldLogger
}

// NewStatusSource constructs a StatusSource.
func NewStatusSource(dir string, family vendorcsv.Family, columns StatusColumns, window availability.YearWindow, logger logrus.FieldLogger) (*StatusSource, error) {
	if dir == "" {
		return nil, errors.New("status source: empty directory")
	}
	if family.Prefix == "" {
		return nil, errors.New("status source: empty file prefix")
	}
	if columns.Timestamp == "" || columns.Category == "" {
		return nil, errors.New("status source: timestamp and category columns required")
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if family.Name == "" {
		family.Name = "status"
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &StatusSource{
		dir:     dir,
		family:  family,
		columns: columns,
		window:  window,
		logger:  logging.Component(logger, "status_source"),
	}, nil
}

// LoadEvents concatenates the events of every status file, in file order.
// Rows with an unparsable or zero start time, or a start year outside the
// window, are dropped.
func (s *StatusSource) LoadEvents(ctx context.Context) ([]availability.StatusEvent, vendorcsv.LoadStats, error) {
	var events []availability.StatusEvent
	stats, err := s.family.Load(ctx, s.dir, s.logger, func(turbineID string, table *vendorcsv.Table) (vendorcsv.FileStats, error) {
		cols, err := table.Columns(s.columns.Timestamp, s.columns.Category)
		if err != nil {
			return vendorcsv.FileStats{}, err
		}
		tsIdx, categoryIdx := cols[0], cols[1]

		var fileStats vendorcsv.FileStats
		var parsed []availability.StatusEvent
		for _, row := range table.Rows {
			fileStats.Rows++
			start, err := vendorcsv.ParseTimestamp(vendorcsv.Cell(row, tsIdx))
			if err != nil {
				fileStats.Drop(DropTimestamp)
				continue
			}
			evt := availability.StatusEvent{
				TurbineID: turbineID,
				Start:     start,
				Category:  availability.Category(vendorcsv.Cell(row, categoryIdx)),
			}
			if err := evt.Validate(); err != nil {
				fileStats.Drop(DropInvalidEvent)
				continue
			}
			parsed = append(parsed, evt)
		}

		kept := availability.FilterWindow(parsed, s.window)
		for i := len(kept); i < len(parsed); i++ {
			fileStats.Drop(DropOutsideYears)
		}
		fileStats.Loaded = len(kept)
		events = append(events, kept...)
		return fileStats, nil
	})
	if err != nil {
		return nil, stats, err
	}
	return events, stats, nil
}
