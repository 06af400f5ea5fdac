package report

import (
	"bytes"
	"math"
	"time"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook.
const (
	SheetAvailability = "availability"
	SheetDowntime     = "downtime"
	SheetBreakdown    = "breakdown"
	SheetPowerCurve   = "power_curve"
	SheetRun          = "run"
)

// BuildWorkbook renders every section of b into one XLSX workbook.
func BuildWorkbook(b Bundle) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetAvailability); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetDowntime, SheetBreakdown, SheetPowerCurve, SheetRun} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	sheets := map[string][][]interface{}{
		SheetAvailability: availabilityRows(b),
		SheetDowntime:     downtimeRows(b),
		SheetBreakdown:    breakdownRows(b),
		SheetPowerCurve:   powerCurveRows(b),
		SheetRun:          runRows(b),
	}
	for sheet, rows := range sheets {
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return nil, err
			}
			values := row
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func availabilityRows(b Bundle) [][]interface{} {
	rows := [][]interface{}{{"Turbine", "Year", "Available (s)", "Observed (s)", "Availability (%)"}}
	if b.Availability == nil {
		return rows
	}
	for _, r := range b.Availability.Availability {
		rows = append(rows, []interface{}{r.TurbineID, r.Year, r.AvailableSeconds, r.ObservedSeconds, r.AvailabilityPct})
	}
	return rows
}

func downtimeRows(b Bundle) [][]interface{} {
	rows := [][]interface{}{{"Turbine", "Category", "Hours"}}
	if b.Availability == nil {
		return rows
	}
	for _, r := range b.Availability.Downtime {
		rows = append(rows, []interface{}{r.TurbineID, string(r.Category), r.Hours})
	}
	return rows
}

func breakdownRows(b Bundle) [][]interface{} {
	rows := [][]interface{}{{"Turbine", "Year", "Category", "Events", "Seconds", "Hours"}}
	if b.Availability == nil {
		return rows
	}
	for _, r := range b.Availability.Breakdown {
		rows = append(rows, []interface{}{r.TurbineID, r.Year, string(r.Category), r.Events, r.Seconds, r.Hours()})
	}
	return rows
}

func powerCurveRows(b Bundle) [][]interface{} {
	rows := [][]interface{}{{"Bin center (m/s)", "Upstream (kW)", "Downstream (kW)", "Difference (kW)", "Ratio"}}
	if b.Wake == nil {
		return rows
	}
	for _, d := range b.Wake.Comparison.Deficits {
		rows = append(rows, []interface{}{d.BinCenter, d.UpstreamKW, d.DownstreamKW, d.DifferenceKW, cellFloat(d.RatioToUpstream)})
	}
	return rows
}

func runRows(b Bundle) [][]interface{} {
	rows := [][]interface{}{
		{"Run ID", b.Run.ID},
		{"Generated", b.Run.GeneratedAt.Format(time.RFC3339)},
		{"Data dir", b.Run.DataDir},
	}
	if b.Availability != nil {
		src := b.Availability.Source
		rows = append(rows,
			[]interface{}{"Status files", src.LoadedFiles, src.Files},
			[]interface{}{"Status rows", src.RowsLoaded, src.RowsRead},
			[]interface{}{"Status events", b.Availability.Events},
		)
	}
	if b.Wake != nil {
		src := b.Wake.Source
		rows = append(rows,
			[]interface{}{"SCADA files", src.LoadedFiles, src.Files},
			[]interface{}{"SCADA rows", src.RowsLoaded, src.RowsRead},
			[]interface{}{"Direction timestamps", b.Wake.DirectionTimestamps},
			[]interface{}{"Pitch excluded", b.Wake.PitchExcluded},
			[]interface{}{"Retained samples", b.Wake.Retained},
		)
	}
	return rows
}

// cellFloat leaves non-finite values blank.
func cellFloat(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return v
}
