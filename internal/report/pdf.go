package report

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/jung-kurt/gofpdf"

	wake "windfleet/internal/wake/domain"
)

// Chart geometry in millimetres on an A4 portrait page.
const (
	chartLeft   = 30.0
	chartTop    = 45.0
	chartWidth  = 155.0
	chartHeight = 110.0
)

// BuildPDF renders the availability tables and the power-curve chart.
func BuildPDF(b Bundle) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Wind Fleet Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Run: %s", b.Run.ID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", b.Run.GeneratedAt.Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Data: %s", b.Run.DataDir))
	pdf.Ln(8)

	if b.Availability != nil {
		availabilityTables(pdf, b)
	}
	if b.Wake != nil {
		pdf.AddPage()
		powerCurveChart(pdf, b.Wake.Comparison, b.Wake.Sector)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func availabilityTables(pdf *gofpdf.Fpdf, b Bundle) {
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 6, "Availability")
	pdf.Ln(7)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(40, 6, "Turbine", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Year", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Availability (%)", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, r := range b.Availability.Availability {
		pdf.CellFormat(40, 6, r.TurbineID, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", r.Year), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", r.AvailabilityPct), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 6, "Top downtime causes")
	pdf.Ln(7)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 6, "Turbine", "1", 0, "C", false, 0, "")
	pdf.CellFormat(80, 6, "Category", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Hours", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, r := range b.Availability.Downtime {
		pdf.CellFormat(30, 6, r.TurbineID, "1", 0, "C", false, 0, "")
		pdf.CellFormat(80, 6, string(r.Category), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", r.Hours), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
}

// powerCurveChart draws mean power against bin center, upstream solid and
// downstream dashed.
func powerCurveChart(pdf *gofpdf.Fpdf, cmp wake.Comparison, sector wake.Sector) {
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Power curve: %s (upstream) vs %s (downstream)", cmp.Upstream, cmp.Downstream))
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Reference direction %.2f to %.2f deg, high-pitch timestamps excluded", sector.Lower(), sector.Upper()))
	pdf.Ln(6)

	xMax, yMin, yMax := chartExtent(cmp)
	toX := func(v float64) float64 { return chartLeft + v/xMax*chartWidth }
	toY := func(v float64) float64 { return chartTop + chartHeight - (v-yMin)/(yMax-yMin)*chartHeight }

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.Rect(chartLeft, chartTop, chartWidth, chartHeight, "D")

	pdf.SetFont("Arial", "", 8)
	pdf.SetLineWidth(0.1)
	for x := 0.0; x <= xMax+1e-9; x += 5 {
		px := toX(x)
		pdf.SetDrawColor(210, 210, 210)
		pdf.Line(px, chartTop, px, chartTop+chartHeight)
		pdf.Text(px-2, chartTop+chartHeight+5, fmt.Sprintf("%.0f", x))
	}
	yStep := (yMax - yMin) / 5
	for i := 0; i <= 5; i++ {
		v := yMin + yStep*float64(i)
		py := toY(v)
		pdf.SetDrawColor(210, 210, 210)
		pdf.Line(chartLeft, py, chartLeft+chartWidth, py)
		pdf.Text(chartLeft-14, py+1, fmt.Sprintf("%.0f", v))
	}
	pdf.Text(chartLeft+chartWidth/2-15, chartTop+chartHeight+11, "Wind speed (m/s)")
	pdf.TransformBegin()
	pdf.TransformRotate(90, chartLeft-18, chartTop+chartHeight/2+15)
	pdf.Text(chartLeft-18, chartTop+chartHeight/2+15, "Mean power (kW)")
	pdf.TransformEnd()

	pdf.SetLineWidth(0.5)
	pdf.SetDrawColor(31, 119, 180)
	drawSeries(pdf, cmp.UpCurve, toX, toY)
	pdf.SetDrawColor(214, 39, 40)
	pdf.SetDashPattern([]float64{2, 1.5}, 0)
	drawSeries(pdf, cmp.DownCurve, toX, toY)
	pdf.SetDashPattern([]float64{}, 0)

	pdf.SetLineWidth(0.3)
	pdf.SetDrawColor(31, 119, 180)
	drawMarkers(pdf, cmp.UpCurve, markerCircle, toX, toY)
	pdf.SetDrawColor(214, 39, 40)
	drawMarkers(pdf, cmp.DownCurve, markerCross, toX, toY)

	legendY := chartTop + 6
	pdf.SetLineWidth(0.5)
	pdf.SetDrawColor(31, 119, 180)
	pdf.Line(chartLeft+5, legendY, chartLeft+15, legendY)
	drawMarker(pdf, markerCircle, chartLeft+10, legendY)
	pdf.Text(chartLeft+17, legendY+1, cmp.Upstream+" (upstream)")
	pdf.SetDrawColor(214, 39, 40)
	pdf.SetDashPattern([]float64{2, 1.5}, 0)
	pdf.Line(chartLeft+5, legendY+5, chartLeft+15, legendY+5)
	pdf.SetDashPattern([]float64{}, 0)
	drawMarker(pdf, markerCross, chartLeft+10, legendY+5)
	pdf.Text(chartLeft+17, legendY+6, cmp.Downstream+" (downstream)")

	pdf.SetY(chartTop + chartHeight + 18)
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(30, 6, "Bin (m/s)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, cmp.Upstream+" (kW)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, cmp.Downstream+" (kW)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Difference (kW)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Ratio", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, d := range cmp.Deficits {
		pdf.CellFormat(30, 5, fmt.Sprintf("%.2f", d.BinCenter), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 5, fmt.Sprintf("%.1f", d.UpstreamKW), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 5, fmt.Sprintf("%.1f", d.DownstreamKW), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 5, fmt.Sprintf("%.1f", d.DifferenceKW), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 5, formatFixed(d.RatioToUpstream, 3), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
}

// plotter is the part of *gofpdf.Fpdf the curve drawing needs.
type plotter interface {
	Line(x1, y1, x2, y2 float64)
	Circle(x, y, r float64, styleStr string)
}

type marker int

const (
	markerCircle marker = iota
	markerCross
)

const markerSize = 0.9

func drawSeries(p plotter, curve []wake.PowerCurvePoint, toX, toY func(float64) float64) {
	for i := 1; i < len(curve); i++ {
		prev, cur := curve[i-1], curve[i]
		p.Line(toX(prev.BinCenter), toY(prev.MeanPowerKW), toX(cur.BinCenter), toY(cur.MeanPowerKW))
	}
}

// drawMarkers puts one marker on every bin of the curve.
func drawMarkers(p plotter, curve []wake.PowerCurvePoint, m marker, toX, toY func(float64) float64) {
	for _, point := range curve {
		drawMarker(p, m, toX(point.BinCenter), toY(point.MeanPowerKW))
	}
}

func drawMarker(p plotter, m marker, x, y float64) {
	switch m {
	case markerCross:
		p.Line(x-markerSize, y-markerSize, x+markerSize, y+markerSize)
		p.Line(x-markerSize, y+markerSize, x+markerSize, y-markerSize)
	default:
		p.Circle(x, y, markerSize, "D")
	}
}

// chartExtent returns the axis ranges: x from zero rounded up to 5 m/s, y
// covering zero and every mean padded by 10%.
func chartExtent(cmp wake.Comparison) (xMax, yMin, yMax float64) {
	xMax = 5
	for _, curve := range [][]wake.PowerCurvePoint{cmp.UpCurve, cmp.DownCurve} {
		for _, p := range curve {
			xMax = math.Max(xMax, p.BinCenter)
			yMin = math.Min(yMin, p.MeanPowerKW)
			yMax = math.Max(yMax, p.MeanPowerKW)
		}
	}
	xMax = math.Ceil(xMax/5) * 5
	if yMax <= 0 {
		yMax = 100
	}
	return xMax, yMin * 1.1, yMax * 1.1
}
