package availability

import (
	"sort"

	"github.com/shopspring/decimal"
)

const secondsPerDay = 24 * 60 * 60

// AvailabilityRecord is the availability of one turbine over one calendar year.
type AvailabilityRecord struct {
	TurbineID        string
	Year             int
	AvailableSeconds float64
	ObservedSeconds  float64
	AvailabilityPct  float64
}

// YearSeconds returns the length of a calendar year in seconds.
// It applies the Julian rule (every fourth year is a leap year), which is exact
// for 1901-2099 and ignores the century exceptions outside that range.
func YearSeconds(year int) float64 {
	if year%4 == 0 {
		return 366 * secondsPerDay
	}
	return 365 * secondsPerDay
}

// ComputeAvailability sums the reconstructed durations of available events per
// (turbine, year) and divides by the year length. Pairs without any event in
// the year are omitted. Output is ordered by turbine, then year.
func ComputeAvailability(events []StatusEvent, available CategorySet, years []int) ([]AvailabilityRecord, error) {
	if len(years) == 0 {
		return nil, ErrNoTargetYears
	}
	targets := make(map[int]struct{}, len(years))
	for _, y := range years {
		targets[y] = struct{}{}
	}

	type key struct {
		turbine string
		year    int
	}
	type totals struct {
		available float64
		observed  float64
	}
	byKey := make(map[key]*totals)
	for _, evt := range events {
		year := evt.Year()
		if _, ok := targets[year]; !ok {
			continue
		}
		k := key{turbine: evt.TurbineID, year: year}
		t, ok := byKey[k]
		if !ok {
			t = &totals{}
			byKey[k] = t
		}
		t.observed += evt.DurationSeconds
		if available.Contains(evt.Category) {
			t.available += evt.DurationSeconds
		}
	}

	sortedYears := sortedInts(targets)
	var records []AvailabilityRecord
	for _, turbine := range Turbines(events) {
		for _, year := range sortedYears {
			t, ok := byKey[key{turbine: turbine, year: year}]
			if !ok {
				continue
			}
			pct := t.available / YearSeconds(year) * 100
			records = append(records, AvailabilityRecord{
				TurbineID:        turbine,
				Year:             year,
				AvailableSeconds: t.available,
				ObservedSeconds:  t.observed,
				AvailabilityPct:  round2(pct),
			})
		}
	}
	return records, nil
}

func round2(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

func sortedInts(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
