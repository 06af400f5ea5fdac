package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
)

// PrintConsole writes the result tables in aligned columns.
func PrintConsole(out io.Writer, b Bundle) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if b.Availability != nil {
		printAvailability(tw, b)
		fmt.Fprintln(tw)
		printDowntime(tw, b)
		fmt.Fprintln(tw)
	}
	if b.Wake != nil {
		printDeficits(tw, b)
	}
	return tw.Flush()
}

// printAvailability pivots availability into one row per turbine and one column per year.
func printAvailability(tw *tabwriter.Writer, b Bundle) {
	var years []int
	seenYear := map[int]bool{}
	pct := map[string]map[int]float64{}
	for _, r := range b.Availability.Availability {
		if !seenYear[r.Year] {
			seenYear[r.Year] = true
			years = append(years, r.Year)
		}
		if pct[r.TurbineID] == nil {
			pct[r.TurbineID] = map[int]float64{}
		}
		pct[r.TurbineID][r.Year] = r.AvailabilityPct
	}
	sort.Ints(years)

	fmt.Fprintln(tw, "Availability (%)")
	header := []string{"Turbine"}
	for _, y := range years {
		header = append(header, fmt.Sprintf("%d", y))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, turbine := range b.Availability.Turbines {
		cells := []string{turbine}
		for _, y := range years {
			v, ok := pct[turbine][y]
			if !ok {
				cells = append(cells, "-")
				continue
			}
			cells = append(cells, fmt.Sprintf("%.2f", v))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
}

func printDowntime(tw *tabwriter.Writer, b Bundle) {
	fmt.Fprintln(tw, "Top downtime causes (hours)")
	fmt.Fprintln(tw, "Turbine\tCategory\tHours")
	for _, r := range b.Availability.Downtime {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\n", r.TurbineID, r.Category, r.Hours)
	}
}

func printDeficits(tw *tabwriter.Writer, b Bundle) {
	cmp := b.Wake.Comparison
	fmt.Fprintf(tw, "Power curve %s (upstream) vs %s (downstream), %d samples retained\n",
		cmp.Upstream, cmp.Downstream, b.Wake.Retained)
	fmt.Fprintf(tw, "Bin (m/s)\t%s (kW)\t%s (kW)\tDifference (kW)\tRatio\n", cmp.Upstream, cmp.Downstream)
	for _, d := range cmp.Deficits {
		ratio := formatFixed(d.RatioToUpstream, 3)
		if ratio == "" {
			ratio = "-"
		}
		fmt.Fprintf(tw, "%.2f\t%.1f\t%.1f\t%.1f\t%s\n", d.BinCenter, d.UpstreamKW, d.DownstreamKW, d.DifferenceKW, ratio)
	}
}
