package report

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	availabilityapp "windfleet/internal/availability/application"
	availability "windfleet/internal/availability/domain"
	"windfleet/internal/config"
	"windfleet/internal/vendorcsv"
	wakeapp "windfleet/internal/wake/application"
	wake "windfleet/internal/wake/domain"
)

func fixtureBundle() Bundle {
	return Bundle{
		Run: Run{
			ID:          "0b6c3c1e-5a43-4d0e-9a55-1f4d2b9d8c11",
			GeneratedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			DataDir:     "analise",
		},
		Availability: &availabilityapp.Report{
			Source:   vendorcsv.LoadStats{Family: "status", Files: 2, LoadedFiles: 2, RowsRead: 10, RowsLoaded: 9, Dropped: map[string]int{"timestamp": 1}},
			Events:   9,
			Turbines: []string{"T1", "T2"},
			Availability: []availability.AvailabilityRecord{
				{TurbineID: "T1", Year: 2020, AvailableSeconds: 3600, ObservedSeconds: 7200, AvailabilityPct: 0.01},
				{TurbineID: "T2", Year: 2019, AvailableSeconds: 0, ObservedSeconds: 3600, AvailabilityPct: 0},
				{TurbineID: "T2", Year: 2020, AvailableSeconds: 36000, ObservedSeconds: 43200, AvailabilityPct: 0.11},
			},
			Downtime: []availability.DowntimeRanking{
				{TurbineID: "T1", Category: availability.CategoryForcedOutage, Hours: 1},
				{TurbineID: "T2", Category: availability.CategoryScheduledMaintenance, Hours: 2.5},
			},
			Breakdown: []availability.CategoryTotal{
				{TurbineID: "T1", Year: 2020, Category: availability.CategoryForcedOutage, Seconds: 3600, Events: 1},
			},
		},
		Wake: &wakeapp.Report{
			Source:              vendorcsv.LoadStats{Family: "scada", Files: 2, LoadedFiles: 2, RowsRead: 8, RowsLoaded: 8},
			Samples:             8,
			DirectionTimestamps: 3,
			PitchExcluded:       1,
			Retained:            2,
			Sector:              wake.Sector{CenterDeg: 68.38, HalfWidthDeg: 30},
			Comparison: wake.Comparison{
				Upstream:   "T2",
				Downstream: "T3",
				UpCurve: []wake.PowerCurvePoint{
					{TurbineID: "T2", BinCenter: 7.25, MeanPowerKW: 1050, Samples: 2},
					{TurbineID: "T2", BinCenter: 7.75, MeanPowerKW: 0, Samples: 1},
				},
				DownCurve: []wake.PowerCurvePoint{
					{TurbineID: "T3", BinCenter: 7.25, MeanPowerKW: 750, Samples: 2},
					{TurbineID: "T3", BinCenter: 7.75, MeanPowerKW: -5, Samples: 1},
				},
				Deficits: []wake.Deficit{
					{BinCenter: 7.25, UpstreamKW: 1050, DownstreamKW: 750, DifferenceKW: -300, RatioToUpstream: 750.0 / 1050.0},
					{BinCenter: 7.75, UpstreamKW: 0, DownstreamKW: -5, DifferenceKW: -5, RatioToUpstream: math.NaN()},
				},
			},
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriterWritesEveryFormat(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	logger, hook := test.NewNullLogger()
	w, err := NewWriter(dir, []string{config.FormatCSV, config.FormatXLSX, config.FormatPDF}, true, logger)
	require.NoError(t, err)

	res, err := w.Write(context.Background(), fixtureBundle())
	require.NoError(t, err)

	assert.Equal(t, []string{
		AvailabilityCSV, DowntimeCSV, BreakdownCSV, PowerCurveCSV, DeficitCSV,
		WorkbookXLSX, ReportPDF, SummaryJSON,
	}, res.Files)
	assert.Equal(t, filepath.Join(dir, ArchiveZIP), res.Archive)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "reports written", hook.LastEntry().Message)

	rows := readCSV(t, filepath.Join(dir, AvailabilityCSV))
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"turbine_id", "year", "available_seconds", "observed_seconds", "availability_pct"}, rows[0])
	assert.Equal(t, []string{"T2", "2020", "36000", "43200", "0.11"}, rows[3])

	deficits := readCSV(t, filepath.Join(dir, DeficitCSV))
	require.Len(t, deficits, 3)
	assert.Equal(t, "", deficits[2][4])

	curve := readCSV(t, filepath.Join(dir, PowerCurveCSV))
	require.Len(t, curve, 5)
	assert.Equal(t, []string{"T3", "downstream", "7.25", "750", "2"}, curve[3])

	pdfData, err := os.ReadFile(filepath.Join(dir, ReportPDF))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfData, []byte("%PDF")))

	var summary Summary
	data, err := os.ReadFile(filepath.Join(dir, SummaryJSON))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, "0b6c3c1e-5a43-4d0e-9a55-1f4d2b9d8c11", summary.RunID)
	require.Len(t, summary.Sources, 2)
	assert.Equal(t, 1, summary.Sources[0].Dropped["timestamp"])
	require.NotNil(t, summary.Wake)
	assert.Equal(t, 2, summary.Wake.Retained)
	assert.InDelta(t, 38.38, summary.Wake.SectorLowerDeg, 1e-9)

	zr, err := zip.OpenReader(res.Archive)
	require.NoError(t, err)
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	expected := append([]string(nil), res.Files...)
	sort.Strings(expected)
	assert.Equal(t, expected, names)
}

func TestBuildWorkbookSheets(t *testing.T) {
	data, err := BuildWorkbook(fixtureBundle())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetAvailability, SheetDowntime, SheetBreakdown, SheetPowerCurve, SheetRun}, f.GetSheetList())

	rows, err := f.GetRows(SheetDowntime)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"T2", "Scheduled Maintenance", "2.5"}, rows[2])

	curve, err := f.GetRows(SheetPowerCurve)
	require.NoError(t, err)
	require.Len(t, curve, 3)
	assert.Equal(t, "-300", curve[1][3])

	run, err := f.GetRows(SheetRun)
	require.NoError(t, err)
	assert.Equal(t, []string{"Run ID", "0b6c3c1e-5a43-4d0e-9a55-1f4d2b9d8c11"}, run[0])
}

func TestWriterWithoutAvailabilitySkipsItsFiles(t *testing.T) {
	b := fixtureBundle()
	b.Availability = nil
	dir := t.TempDir()
	w, err := NewWriter(dir, []string{config.FormatCSV}, false, nil)
	require.NoError(t, err)

	res, err := w.Write(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, []string{PowerCurveCSV, DeficitCSV, SummaryJSON}, res.Files)
	assert.Empty(t, res.Archive)
	_, err = os.Stat(filepath.Join(dir, AvailabilityCSV))
	assert.True(t, os.IsNotExist(err))
}

func TestWriterHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w, err := NewWriter(t.TempDir(), []string{config.FormatCSV}, false, nil)
	require.NoError(t, err)

	_, err = w.Write(ctx, fixtureBundle())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewWriterValidation(t *testing.T) {
	_, err := NewWriter("", nil, false, nil)
	assert.ErrorIs(t, err, ErrEmptyOutputDir)

	_, err = NewWriter("out", []string{"docx"}, false, nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestPrintConsole(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintConsole(&buf, fixtureBundle()))
	out := buf.String()

	assert.Contains(t, out, "Availability (%)")
	assert.Regexp(t, `T1\s+-\s+0\.01`, out)
	assert.Regexp(t, `T2\s+0\.00\s+0\.11`, out)
	assert.Regexp(t, `T2\s+Scheduled Maintenance\s+2\.50`, out)
	assert.Regexp(t, `7\.75\s+0\.0\s+-5\.0\s+-5\.0\s+-`, out)
}

func TestChartExtentCoversNegativeMeans(t *testing.T) {
	xMax, yMin, yMax := chartExtent(fixtureBundle().Wake.Comparison)
	assert.Equal(t, 10.0, xMax)
	assert.InDelta(t, -5.5, yMin, 1e-9)
	assert.InDelta(t, 1155, yMax, 1e-9)
}

func TestNewRunAssignsUUID(t *testing.T) {
	now := time.Date(2024, 5, 1, 14, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	run := NewRun("analise", now)
	assert.Len(t, run.ID, 36)
	assert.Equal(t, time.UTC, run.GeneratedAt.Location())
	assert.True(t, run.GeneratedAt.Equal(now))
	assert.NotEqual(t, run.ID, NewRun("analise", now).ID)
}
