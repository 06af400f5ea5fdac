package availability

import (
	"sort"
	"time"
)

// StatusEvent is one row of a turbine status log.
// Logs record only start times, so DurationSeconds is derived from the gap to
// the next event of the same turbine (see ReconstructDurations).
type StatusEvent struct {
	TurbineID       string
	Start           time.Time
	Category        Category
	DurationSeconds float64
}

// Validate checks the fields required before reconstruction.
func (e StatusEvent) Validate() error {
	if e.TurbineID == "" {
		return ErrEmptyTurbineID
	}
	if e.Start.IsZero() {
		return ErrInvalidStart
	}
	return nil
}

// Year returns the calendar year of the event start.
func (e StatusEvent) Year() int { return e.Start.Year() }

// YearWindow is an inclusive calendar-year range.
type YearWindow struct {
	From int
	To   int
}

// Validate rejects inverted windows.
func (w YearWindow) Validate() error {
	if w.From > w.To {
		return ErrInvalidYearWindow
	}
	return nil
}

// Contains reports whether t falls in the window.
func (w YearWindow) Contains(t time.Time) bool {
	year := t.Year()
	return year >= w.From && year <= w.To
}

// FilterWindow keeps events whose start year lies in the window.
func FilterWindow(events []StatusEvent, window YearWindow) []StatusEvent {
	out := make([]StatusEvent, 0, len(events))
	for _, evt := range events {
		if window.Contains(evt.Start) {
			out = append(out, evt)
		}
	}
	return out
}

// ReconstructDurations returns a copy of events ordered by (turbine, start)
// with DurationSeconds set to the gap to the next event of the same turbine.
// The last event of each turbine has no successor and gets 0, so the tail of
// the observed window is always under-counted.
// Events sharing a start time keep their input order.
func ReconstructDurations(events []StatusEvent) []StatusEvent {
	out := make([]StatusEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TurbineID != out[j].TurbineID {
			return out[i].TurbineID < out[j].TurbineID
		}
		return out[i].Start.Before(out[j].Start)
	})

	for i := range out {
		next := i + 1
		if next < len(out) && out[next].TurbineID == out[i].TurbineID {
			out[i].DurationSeconds = out[next].Start.Sub(out[i].Start).Seconds()
			continue
		}
		out[i].DurationSeconds = 0
	}
	return out
}

// Turbines returns the distinct turbine ids in ascending order.
func Turbines(events []StatusEvent) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, evt := range events {
		if _, ok := seen[evt.TurbineID]; ok {
			continue
		}
		seen[evt.TurbineID] = struct{}{}
		ids = append(ids, evt.TurbineID)
	}
	sort.Strings(ids)
	return ids
}
