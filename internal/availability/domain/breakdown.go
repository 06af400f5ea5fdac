package availability

import "sort"

// CategoryTotal is the time one turbine spent in one category during one year.
type CategoryTotal struct {
	TurbineID string
	Year      int
	Category  Category
	Seconds   float64
	Events    int
}

// Hours converts the total to hours.
func (t CategoryTotal) Hours() float64 { return t.Seconds / 3600 }

// SummarizeCategories accumulates reconstructed durations for every category,
// available or not. Summing Seconds over the categories of a (turbine, year)
// gives the turbine's total observed duration for that year.
func SummarizeCategories(events []StatusEvent) []CategoryTotal {
	type key struct {
		turbine  string
		year     int
		category Category
	}
	byKey := make(map[key]*CategoryTotal)
	for _, evt := range events {
		k := key{turbine: evt.TurbineID, year: evt.Year(), category: evt.Category}
		total, ok := byKey[k]
		if !ok {
			total = &CategoryTotal{TurbineID: k.turbine, Year: k.year, Category: k.category}
			byKey[k] = total
		}
		total.Seconds += evt.DurationSeconds
		total.Events++
	}

	out := make([]CategoryTotal, 0, len(byKey))
	for _, total := range byKey {
		out = append(out, *total)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TurbineID != out[j].TurbineID {
			return out[i].TurbineID < out[j].TurbineID
		}
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Category < out[j].Category
	})
	return out
}
