package availability

import "sort"

// DefaultTopCauses is the number of downtime causes reported per turbine.
const DefaultTopCauses = 3

// DowntimeRanking is the accumulated downtime of one cause for one turbine.
type DowntimeRanking struct {
	TurbineID string
	Category  Category
	Hours     float64
}

// RankDowntime sums unavailable durations per (turbine, category), converts to
// hours rounded to 2 decimals and keeps the topN causes per turbine.
// Equal hours are ordered by ascending category name.
func RankDowntime(events []StatusEvent, unavailable CategorySet, topN int) ([]DowntimeRanking, error) {
	if topN <= 0 {
		return nil, ErrInvalidTopN
	}

	seconds := make(map[string]map[Category]float64)
	for _, evt := range events {
		if !unavailable.Contains(evt.Category) {
			continue
		}
		perCategory, ok := seconds[evt.TurbineID]
		if !ok {
			perCategory = make(map[Category]float64)
			seconds[evt.TurbineID] = perCategory
		}
		perCategory[evt.Category] += evt.DurationSeconds
	}

	var rankings []DowntimeRanking
	for _, turbine := range Turbines(events) {
		perCategory, ok := seconds[turbine]
		if !ok {
			continue
		}
		rows := make([]DowntimeRanking, 0, len(perCategory))
		for category, total := range perCategory {
			rows = append(rows, DowntimeRanking{
				TurbineID: turbine,
				Category:  category,
				Hours:     round2(total / 3600),
			})
		}
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Hours != rows[j].Hours {
				return rows[i].Hours > rows[j].Hours
			}
			return rows[i].Category < rows[j].Category
		})
		if len(rows) > topN {
			rows = rows[:topN]
		}
		rankings = append(rankings, rows...)
	}
	return rankings, nil
}
