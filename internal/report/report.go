// Package report writes the batch results as CSV, XLSX and PDF files, a run
// summary, an optional zip archive and console tables.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	availabilityapp "windfleet/internal/availability/application"
	"windfleet/internal/config"
	"windfleet/internal/logging"
	"windfleet/internal/observability/metrics"
	"windfleet/internal/vendorcsv"
	wakeapp "windfleet/internal/wake/application"
)

// Metric labels of the artifacts written besides the configured formats.
const (
	formatJSON = "json"
	formatZIP  = "zip"
)

// Artifact file names.
const (
	AvailabilityCSV = "availability.csv"
	DowntimeCSV     = "downtime_top.csv"
	BreakdownCSV    = "category_breakdown.csv"
	PowerCurveCSV   = "power_curve.csv"
	DeficitCSV      = "power_curve_deficit.csv"
	WorkbookXLSX    = "windfleet.xlsx"
	ReportPDF       = "windfleet.pdf"
	SummaryJSON     = "run.json"
	ArchiveZIP      = "report.zip"
)

var (
	// ErrEmptyOutputDir indicates a missing output directory.
	ErrEmptyOutputDir = errors.New("report: output dir required")
	// ErrUnknownFormat indicates an unsupported output format.
	ErrUnknownFormat = errors.New("report: unknown format")
)

// Run identifies one batch execution.
type Run struct {
	ID          string
	GeneratedAt time.Time
	DataDir     string
}

// NewRun returns a run with a fresh random id.
func NewRun(dataDir string, now time.Time) Run {
	return Run{ID: uuid.NewString(), GeneratedAt: now.UTC(), DataDir: dataDir}
}

// Bundle carries whatever pipelines ran. A nil report means the pipeline was disabled.
type Bundle struct {
	Run          Run
	Availability *availabilityapp.Report
	Wake         *wakeapp.Report
}

// Result lists the files written, relative to the output dir.
type Result struct {
	Files   []string
	Archive string
}

// Writer writes report artifacts into one output directory.
type Writer struct {
	outDir  string
	formats []string
	archive bool
	logger  logrus.FieldLogger
}

// NewWriter validates the output settings.
func NewWriter(outDir string, formats []string, archive bool, logger logrus.FieldLogger) (*Writer, error) {
	if outDir == "" {
		return nil, ErrEmptyOutputDir
	}
	for _, f := range formats {
		if !config.ValidFormat(f) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
		}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Writer{
		outDir:  outDir,
		formats: formats,
		archive: archive,
		logger:  logging.Component(logger, "report"),
	}, nil
}

// Write renders every configured format, the run summary and the archive.
func (w *Writer) Write(ctx context.Context, b Bundle) (Result, error) {
	var res Result
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return res, err
	}

	for _, format := range w.formats {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		files, err := w.writeFormat(format, b)
		metrics.IncReport(format, metrics.Result(err))
		if err != nil {
			return res, fmt.Errorf("report: write %s: %w", format, err)
		}
		res.Files = append(res.Files, files...)
	}

	err := writeSummary(filepath.Join(w.outDir, SummaryJSON), b, res.Files)
	metrics.IncReport(formatJSON, metrics.Result(err))
	if err != nil {
		return res, fmt.Errorf("report: write summary: %w", err)
	}
	res.Files = append(res.Files, SummaryJSON)

	if w.archive {
		path, err := writeArchive(w.outDir, res.Files)
		metrics.IncReport(formatZIP, metrics.Result(err))
		if err != nil {
			return res, fmt.Errorf("report: write archive: %w", err)
		}
		res.Archive = path
	}

	w.logger.WithFields(logrus.Fields{
		"run_id":  b.Run.ID,
		"dir":     w.outDir,
		"files":   len(res.Files),
		"archive": res.Archive,
	}).Info("reports written")
	return res, nil
}

func (w *Writer) writeFormat(format string, b Bundle) ([]string, error) {
	switch format {
	case config.FormatCSV:
		return writeCSVReports(w.outDir, b)
	case config.FormatXLSX:
		data, err := BuildWorkbook(b)
		if err != nil {
			return nil, err
		}
		return []string{WorkbookXLSX}, os.WriteFile(filepath.Join(w.outDir, WorkbookXLSX), data, 0o644)
	case config.FormatPDF:
		data, err := BuildPDF(b)
		if err != nil {
			return nil, err
		}
		return []string{ReportPDF}, os.WriteFile(filepath.Join(w.outDir, ReportPDF), data, 0o644)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Summary is the run.json document.
type Summary struct {
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	DataDir     string          `json:"data_dir"`
	Sources     []SourceSummary `json:"sources"`
	Wake        *WakeSummary    `json:"wake,omitempty"`
	Files       []string        `json:"files"`
}

// SourceSummary reports ingestion counts for one export family.
type SourceSummary struct {
	Family      string                  `json:"family"`
	Files       int                     `json:"files"`
	LoadedFiles int                     `json:"loaded_files"`
	Skipped     []vendorcsv.SkippedFile `json:"skipped,omitempty"`
	RowsRead    int                     `json:"rows_read"`
	RowsLoaded  int                     `json:"rows_loaded"`
	Dropped     map[string]int          `json:"dropped,omitempty"`
}

// WakeSummary reports the wake filter counts.
type WakeSummary struct {
	Upstream            string  `json:"upstream"`
	Downstream          string  `json:"downstream"`
	SectorLowerDeg      float64 `json:"sector_lower_deg"`
	SectorUpperDeg      float64 `json:"sector_upper_deg"`
	DirectionTimestamps int     `json:"direction_timestamps"`
	PitchExcluded       int     `json:"pitch_excluded"`
	Retained            int     `json:"retained"`
	SharedBins          int     `json:"shared_bins"`
}

// BuildSummary assembles the run summary for b.
func BuildSummary(b Bundle, files []string) Summary {
	s := Summary{
		RunID:       b.Run.ID,
		GeneratedAt: b.Run.GeneratedAt,
		DataDir:     b.Run.DataDir,
		Sources:     []SourceSummary{},
		Files:       files,
	}
	if b.Availability != nil {
		s.Sources = append(s.Sources, sourceSummary(b.Availability.Source))
	}
	if b.Wake != nil {
		s.Sources = append(s.Sources, sourceSummary(b.Wake.Source))
		s.Wake = &WakeSummary{
			Upstream:            b.Wake.Comparison.Upstream,
			Downstream:          b.Wake.Comparison.Downstream,
			SectorLowerDeg:      b.Wake.Sector.Lower(),
			SectorUpperDeg:      b.Wake.Sector.Upper(),
			DirectionTimestamps: b.Wake.DirectionTimestamps,
			PitchExcluded:       b.Wake.PitchExcluded,
			Retained:            b.Wake.Retained,
			SharedBins:          len(b.Wake.Comparison.Deficits),
		}
	}
	return s
}

func sourceSummary(stats vendorcsv.LoadStats) SourceSummary {
	return SourceSummary{
		Family:      stats.Family,
		Files:       stats.Files,
		LoadedFiles: stats.LoadedFiles,
		Skipped:     stats.Skipped,
		RowsRead:    stats.RowsRead,
		RowsLoaded:  stats.RowsLoaded,
		Dropped:     stats.Dropped,
	}
}

func writeSummary(path string, b Bundle, files []string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(BuildSummary(b, files)); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
