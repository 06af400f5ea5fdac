package vendorcsv

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"

	"windfleet/internal/observability/metrics"
)

var (
	// ErrNoSourceFiles is returned when discovery finds no file of the family.
	ErrNoSourceFiles = errors.New("vendorcsv: no source files")
	// ErrNoUsableSource is returned when every discovered file had to be skipped.
	ErrNoUsableSource = errors.New("vendorcsv: no usable source file")
)

// FileStats counts the rows of one file.
type FileStats struct {
	Rows    int
	Loaded  int
	Dropped map[string]int
}

// Drop records a rejected row.
func (s *FileStats) Drop(reason string) {
	if s.Dropped == nil {
		s.Dropped = make(map[string]int)
	}
	s.Dropped[reason]++
}

// SkippedFile is a source file excluded from the batch.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// LoadStats summarises the ingestion of a family.
type LoadStats struct {
	Family      string
	Files       int
	LoadedFiles int
	Skipped     []SkippedFile
	RowsRead    int
	RowsLoaded  int
	Dropped     map[string]int
}

// DroppedRows returns the number of rows rejected for any reason.
func (s LoadStats) DroppedRows() int {
	total := 0
	for _, n := range s.Dropped {
		total += n
	}
	return total
}

// DropReasons returns the drop reasons in ascending order.
func (s LoadStats) DropReasons() []string {
	reasons := make([]string, 0, len(s.Dropped))
	for reason := range s.Dropped {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	return reasons
}

// TableFunc converts one parsed table. A returned error skips the file.
type TableFunc func(turbineID string, table *Table) (FileStats, error)

// Load discovers the family files in dir and passes each parsed table to fn.
// Unreadable or rejected files are logged and skipped; the batch only fails
// when nothing was found or nothing could be used.
func (f Family) Load(ctx context.Context, dir string, logger logrus.FieldLogger, fn TableFunc) (LoadStats, error) {
	stats := LoadStats{Family: f.Name, Dropped: make(map[string]int)}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger = logger.WithField("family", f.Name)

	paths, err := Discover(dir, f.Prefix)
	if err != nil {
		return stats, fmt.Errorf("vendorcsv: discover %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return stats, fmt.Errorf("%w: prefix %q in %s", ErrNoSourceFiles, f.Prefix, dir)
	}
	stats.Files = len(paths)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		fileLog := logger.WithField("file", filepath.Base(path))

		fileStats, err := f.loadFile(path, fn)
		if err != nil {
			fileLog.WithError(err).Warn("skipping source file")
			stats.Skipped = append(stats.Skipped, SkippedFile{Path: path, Reason: err.Error()})
			metrics.IncSourceFile(f.Name, metrics.ResultSkipped)
			continue
		}

		stats.LoadedFiles++
		stats.RowsRead += fileStats.Rows
		stats.RowsLoaded += fileStats.Loaded
		for reason, n := range fileStats.Dropped {
			stats.Dropped[reason] += n
			metrics.AddRowsDropped(f.Name, reason, n)
		}
		metrics.IncSourceFile(f.Name, metrics.ResultSuccess)
		metrics.AddRowsLoaded(f.Name, fileStats.Loaded)
		fileLog.WithFields(logrus.Fields{
			"rows":   fileStats.Rows,
			"loaded": fileStats.Loaded,
		}).Debug("source file loaded")
	}

	if stats.LoadedFiles == 0 {
		return stats, fmt.Errorf("%w: %d file(s) with prefix %q skipped", ErrNoUsableSource, len(stats.Skipped), f.Prefix)
	}
	logger.WithFields(logrus.Fields{
		"files":        stats.LoadedFiles,
		"skipped":      len(stats.Skipped),
		"rows":         stats.RowsLoaded,
		"dropped":      stats.DroppedRows(),
		"drop_reasons": stats.DropReasons(),
	}).Info("source files combined")
	return stats, nil
}

func (f Family) loadFile(path string, fn TableFunc) (FileStats, error) {
	turbineID, err := f.TurbineID(path)
	if err != nil {
		return FileStats{}, err
	}
	table, err := ReadFile(path, f.SkipRows)
	if err != nil {
		return FileStats{}, err
	}
	return fn(turbineID, table)
}
