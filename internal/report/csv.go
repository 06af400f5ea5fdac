package report

import (
	"archive/zip"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"

	wake "windfleet/internal/wake/domain"
)

func writeCSVReports(outDir string, b Bundle) ([]string, error) {
	var files []string
	if b.Availability != nil {
		if err := writeAvailability(outDir, b); err != nil {
			return files, err
		}
		if err := writeDowntime(outDir, b); err != nil {
			return files, err
		}
		if err := writeBreakdown(outDir, b); err != nil {
			return files, err
		}
		files = append(files, AvailabilityCSV, DowntimeCSV, BreakdownCSV)
	}
	if b.Wake != nil {
		if err := writePowerCurve(outDir, b.Wake.Comparison); err != nil {
			return files, err
		}
		if err := writeDeficits(outDir, b.Wake.Comparison.Deficits); err != nil {
			return files, err
		}
		files = append(files, PowerCurveCSV, DeficitCSV)
	}
	return files, nil
}

func writeAvailability(outDir string, b Bundle) error {
	rows := [][]string{}
	for _, r := range b.Availability.Availability {
		rows = append(rows, []string{
			r.TurbineID,
			strconv.Itoa(r.Year),
			formatFloat(r.AvailableSeconds),
			formatFloat(r.ObservedSeconds),
			formatFixed(r.AvailabilityPct, 2),
		})
	}
	return writeCSV(filepath.Join(outDir, AvailabilityCSV), []string{
		"turbine_id",
		"year",
		"available_seconds",
		"observed_seconds",
		"availability_pct",
	}, rows)
}

func writeDowntime(outDir string, b Bundle) error {
	rows := [][]string{}
	for _, r := range b.Availability.Downtime {
		rows = append(rows, []string{
			r.TurbineID,
			string(r.Category),
			formatFixed(r.Hours, 2),
		})
	}
	return writeCSV(filepath.Join(outDir, DowntimeCSV), []string{
		"turbine_id",
		"category",
		"hours",
	}, rows)
}

func writeBreakdown(outDir string, b Bundle) error {
	rows := [][]string{}
	for _, r := range b.Availability.Breakdown {
		rows = append(rows, []string{
			r.TurbineID,
			strconv.Itoa(r.Year),
			string(r.Category),
			strconv.Itoa(r.Events),
			formatFloat(r.Seconds),
			formatFixed(r.Hours(), 2),
		})
	}
	return writeCSV(filepath.Join(outDir, BreakdownCSV), []string{
		"turbine_id",
		"year",
		"category",
		"events",
		"seconds",
		"hours",
	}, rows)
}

func writePowerCurve(outDir string, cmp wake.Comparison) error {
	rows := [][]string{}
	appendCurve := func(role string, curve []wake.PowerCurvePoint) {
		for _, p := range curve {
			rows = append(rows, []string{
				p.TurbineID,
				role,
				formatFloat(p.BinCenter),
				formatFloat(p.MeanPowerKW),
				strconv.Itoa(p.Samples),
			})
		}
	}
	appendCurve("upstream", cmp.UpCurve)
	appendCurve("downstream", cmp.DownCurve)
	return writeCSV(filepath.Join(outDir, PowerCurveCSV), []string{
		"turbine_id",
		"role",
		"bin_center_mps",
		"mean_power_kw",
		"samples",
	}, rows)
}

func writeDeficits(outDir string, deficits []wake.Deficit) error {
	rows := [][]string{}
	for _, d := range deficits {
		rows = append(rows, []string{
			formatFloat(d.BinCenter),
			formatFloat(d.UpstreamKW),
			formatFloat(d.DownstreamKW),
			formatFloat(d.DifferenceKW),
			formatFloat(d.RatioToUpstream),
		})
	}
	return writeCSV(filepath.Join(outDir, DeficitCSV), []string{
		"bin_center_mps",
		"upstream_kw",
		"downstream_kw",
		"difference_kw",
		"ratio_to_upstream",
	}, rows)
}

func writeCSV(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return file.Close()
}

func writeArchive(outDir string, entries []string) (string, error) {
	archivePath := filepath.Join(outDir, ArchiveZIP)
	file, err := os.Create(archivePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	zipWriter := zip.NewWriter(file)
	for _, name := range entries {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			return "", err
		}
		fw, err := zipWriter.Create(name)
		if err != nil {
			return "", err
		}
		if _, err := fw.Write(data); err != nil {
			return "", err
		}
	}
	if err := zipWriter.Close(); err != nil {
		return "", err
	}
	return archivePath, file.Close()
}

func formatFloat(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ""
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func formatFixed(value float64, prec int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ""
	}
	return strconv.FormatFloat(value, 'f', prec, 64)
}
