package csvsource

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"windfleet/internal/vendorcsv"
)

const scadaHeader = "# Date and time,Wind speed (m/s),Wind direction (°),Power (kW),Blade angle (pitch position) A (°),Blade angle (pitch position) B (°),Blade angle (pitch position) C (°)\n"

var (
	family  = vendorcsv.Family{Name: "scada", Prefix: "Turbine_Data_Kelmarsh", SkipRows: 9, TurbineToken: 3, TurbinePrefix: "T"}
	columns = ScadaColumns{
		Timestamp:     "Date and time",
		WindDirection: "Wind direction (°)",
		WindSpeed:     "Wind speed (m/s)",
		Power:         "Power (kW)",
		PitchA:        "Blade angle (pitch position) A (°)",
		PitchB:        "Blade angle (pitch position) B (°)",
		PitchC:        "Blade angle (pitch position) C (°)",
	}
)

func writeScada(t *testing.T, dir, name, body string) {
	t.Helper()
	content := "#\n#\n#\n#\n#\n#\n#\n#\n#\n" + scadaHeader + body
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestScadaSource_LoadSamples(t *testing.T) {
	dir := t.TempDir()
	writeScada(t, dir, "Turbine_Data_Kelmarsh_2_2019-01-01_-_2020-01-01_229.csv",
		"2019-06-01 00:00:00,7.3,70.1,1050.5,0.1,0.2,0.3\n"+
			"2019-06-01 00:10:00,,70.1,1050.5,0.1,0.2,0.3\n"+
			"2019-06-01 00:20:00,7.0,,abc,0.1,0.2,0.3\n"+
			"garbage,7.0,70,900,0,0,0\n"+
			"2019-06-01 00:40:00,6.5,,800,,,\n")
	writeScada(t, dir, "Turbine_Data_Kelmarsh_3_2019-01-01_-_2020-01-01_230.csv",
		"2019-06-01 00:00:00,6.9,71.0,850,0,0,0\n")

	logger, _ := test.NewNullLogger()
	source, err := NewScadaSource(dir, family, columns, logger)
	require.NoError(t, err)

	samples, stats, err := source.LoadSamples(context.Background())
	require.NoError(t, err)
	require.Len(t, samples, 3)

	first := samples[0]
	assert.Equal(t, "T2", first.TurbineID)
	assert.Equal(t, time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC), first.Timestamp)
	assert.Equal(t, 7.3, first.WindSpeedMPS)
	assert.Equal(t, 70.1, first.WindDirectionDeg)
	assert.Equal(t, 1050.5, first.PowerKW)
	assert.Equal(t, 0.3, first.PitchCDeg)

	assert.True(t, math.IsNaN(samples[1].WindDirectionDeg))
	assert.True(t, math.IsNaN(samples[1].PitchADeg))
	assert.Equal(t, "T3", samples[2].TurbineID)

	assert.Equal(t, 1, stats.Dropped[DropTimestamp])
	assert.Equal(t, 1, stats.Dropped[DropWindSpeed])
	assert.Equal(t, 1, stats.Dropped[DropPower])
	assert.Equal(t, 3, stats.RowsLoaded)
}

func TestScadaSource_InfiniteCells(t *testing.T) {
	dir := t.TempDir()
	writeScada(t, dir, "Turbine_Data_Kelmarsh_2_a.csv",
		"2019-06-01 00:00:00,7.3,Inf,1050.5,0.1,0.2,0.3\n"+
			"2019-06-01 00:10:00,7.1,70.1,+Inf,0.1,0.2,0.3\n"+
			"2019-06-01 00:20:00,-Infinity,70.1,900,0.1,0.2,0.3\n")

	logger, _ := test.NewNullLogger()
	source, err := NewScadaSource(dir, family, columns, logger)
	require.NoError(t, err)

	samples, stats, err := source.LoadSamples(context.Background())
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.True(t, math.IsNaN(samples[0].WindDirectionDeg))
	assert.Equal(t, 1, stats.Dropped[DropPower])
	assert.Equal(t, 1, stats.Dropped[DropWindSpeed])
}

func TestScadaSource_SkipsFileMissingPitch(t *testing.T) {
	dir := t.TempDir()
	writeScada(t, dir, "Turbine_Data_Kelmarsh_2_a.csv", "2019-06-01 00:00:00,7.3,70.1,1050.5,0.1,0.2,0.3\n")
	bad := "#\n#\n#\n#\n#\n#\n#\n#\n#\n# Date and time,Wind speed (m/s),Power (kW)\n2019-06-01 00:00:00,7,100\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Turbine_Data_Kelmarsh_3_a.csv"), []byte(bad), 0o644))

	logger, _ := test.NewNullLogger()
	source, err := NewScadaSource(dir, family, columns, logger)
	require.NoError(t, err)

	samples, stats, err := source.LoadSamples(context.Background())
	require.NoError(t, err)
	assert.Len(t, samples, 1)
	require.Len(t, stats.Skipped, 1)
	assert.Equal(t, "Turbine_Data_Kelmarsh_3_a.csv", filepath.Base(stats.Skipped[0].Path))
}

func TestScadaSource_NoFiles(t *testing.T) {
	source, err := NewScadaSource(t.TempDir(), family, columns, nil)
	require.NoError(t, err)
	_, _, err = source.LoadSamples(context.Background())
	assert.ErrorIs(t, err, vendorcsv.ErrNoSourceFiles)
}

func TestNewScadaSource_Validation(t *testing.T) {
	_, err := NewScadaSource("", family, columns, nil)
	assert.Error(t, err)
	_, err = NewScadaSource("dir", family, ScadaColumns{Timestamp: "x"}, nil)
	assert.Error(t, err)
}
