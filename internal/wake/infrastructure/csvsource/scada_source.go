package csvsource

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"windfleet/internal/logging"
	"windfleet/internal/vendorcsv"
	wake "windfleet/internal/wake/domain"
)

// Drop reasons reported in vendorcsv.LoadStats.
const (
	DropTimestamp = "timestamp"
	DropWindSpeed = "wind_speed"
	DropPower     = "power"
)

// ScadaColumns names the SCADA export columns the source reads.
type ScadaColumns struct {
	Timestamp     string
	WindDirection string
	WindSpeed     string
	Power         string
	PitchA        string
	PitchB        string
	PitchC        string
}

func (c ScadaColumns) names() []string {
	return []string{c.Timestamp, c.WindDirection, c.WindSpeed, c.Power, c.PitchA, c.PitchB, c.PitchC}
}

// ScadaSource reads turbine SCADA time series from a directory of vendor exports.
type ScadaSource struct {
	dir     string
	family  vendorcsv.Family
	columns ScadaColumns
	logger  logrus.FieldLogger
}

// NewScadaSource constructs a ScadaSource.
func NewScadaSource(dir string, family vendorcsv.Family, columns ScadaColumns, logger logrus.FieldLogger) (*ScadaSource, error) {
	if dir == "" {
		return nil, errors.New("scada source: empty directory")
	}
	if family.Prefix == "" {
		return nil, errors.New("scada source: empty file prefix")
	}
	for _, name := range columns.names() {
		if name == "" {
			return nil, errors.New("scada source: all column names required")
		}
	}
	if family.Name == "" {
		family.Name = "scada"
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ScadaSource{
		dir:     dir,
		family:  family,
		columns: columns,
		logger:  logging.Component(logger, "scada_source"),
	}, nil
}

// LoadSamples concatenates the samples of every SCADA file, in file order.
// Rows without a valid timestamp, wind speed or power are dropped; blank
// direction and pitch cells are kept as NaN.
func (s *ScadaSource) LoadSamples(ctx context.Context) ([]wake.ScadaSample, vendorcsv.LoadStats, error) {
	var samples []wake.ScadaSample
	stats, err := s.family.Load(ctx, s.dir, s.logger, func(turbineID string, table *vendorcsv.Table) (vendorcsv.FileStats, error) {
		cols, err := table.Columns(s.columns.names()...)
		if err != nil {
			return vendorcsv.FileStats{}, err
		}

		var fileStats vendorcsv.FileStats
		for _, row := range table.Rows {
			fileStats.Rows++
			ts, err := vendorcsv.ParseTimestamp(vendorcsv.Cell(row, cols[0]))
			if err != nil {
				fileStats.Drop(DropTimestamp)
				continue
			}
			speed, err := vendorcsv.ParseFloat(vendorcsv.Cell(row, cols[2]))
			if err != nil {
				fileStats.Drop(DropWindSpeed)
				continue
			}
			power, err := vendorcsv.ParseFloat(vendorcsv.Cell(row, cols[3]))
			if err != nil {
				fileStats.Drop(DropPower)
				continue
			}
			samples = append(samples, wake.ScadaSample{
				TurbineID:        turbineID,
				Timestamp:        ts,
				WindDirectionDeg: vendorcsv.ParseOptionalFloat(vendorcsv.Cell(row, cols[1])),
				WindSpeedMPS:     speed,
				PowerKW:          power,
				PitchADeg:        vendorcsv.ParseOptionalFloat(vendorcsv.Cell(row, cols[4])),
				PitchBDeg:        vendorcsv.ParseOptionalFloat(vendorcsv.Cell(row, cols[5])),
				PitchCDeg:        vendorcsv.ParseOptionalFloat(vendorcsv.Cell(row, cols[6])),
			})
			fileStats.Loaded++
		}
		return fileStats, nil
	})
	if err != nil {
		return nil, stats, err
	}
	return samples, stats, nil
}
