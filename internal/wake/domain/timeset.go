package wake

import "time"

// TimestampSet is a hash set of instants keyed by Unix nanoseconds.
// Add and Has are O(1) amortized; equal instants in different locations collide.
type TimestampSet struct {
	m map[int64]struct{}
}

// NewTimestampSet returns an empty set.
func NewTimestampSet() TimestampSet {
	return TimestampSet{m: make(map[int64]struct{})}
}

// Add inserts t.
func (s TimestampSet) Add(t time.Time) {
	s.m[t.UnixNano()] = struct{}{}
}

// Has reports whether t is in the set.
func (s TimestampSet) Has(t time.Time) bool {
	_, ok := s.m[t.UnixNano()]
	return ok
}

// Len returns the number of distinct instants.
func (s TimestampSet) Len() int { return len(s.m) }

// Restrict keeps the samples whose timestamp is in set.
func Restrict(samples []ScadaSample, set TimestampSet) []ScadaSample {
	out := make([]ScadaSample, 0, len(samples))
	for _, sample := range samples {
		if set.Has(sample.Timestamp) {
			out = append(out, sample)
		}
	}
	return out
}

// Exclude drops the samples whose timestamp is in set.
func Exclude(samples []ScadaSample, set TimestampSet) []ScadaSample {
	out := make([]ScadaSample, 0, len(samples))
	for _, sample := range samples {
		if !set.Has(sample.Timestamp) {
			out = append(out, sample)
		}
	}
	return out
}
