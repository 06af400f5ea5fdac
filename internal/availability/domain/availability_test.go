package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var targetYears = []int{2019, 2020, 2021}

func TestYearSeconds(t *testing.T) {
	assert.Equal(t, 31622400.0, YearSeconds(2020))
	assert.Equal(t, 31536000.0, YearSeconds(2019))
	assert.Equal(t, 31536000.0, YearSeconds(2021))
}

func TestComputeAvailability_TwoEventExample(t *testing.T) {
	events := ReconstructDurations([]StatusEvent{
		{TurbineID: "T1", Start: at(2020, 6, 1, 0, 0), Category: CategoryFullPerformance},
		{TurbineID: "T1", Start: at(2020, 6, 1, 1, 0), Category: CategoryFullPerformance},
	})
	require.Equal(t, 3600.0, events[0].DurationSeconds)
	require.Equal(t, 0.0, events[1].DurationSeconds)

	records, err := ComputeAvailability(events, DefaultAvailableCategories(), targetYears)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "T1", records[0].TurbineID)
	assert.Equal(t, 2020, records[0].Year)
	assert.Equal(t, 3600.0, records[0].AvailableSeconds)
	assert.Equal(t, 0.01, records[0].AvailabilityPct)
}

func TestComputeAvailability_OmitsEmptyPairsAndOrders(t *testing.T) {
	events := ReconstructDurations([]StatusEvent{
		{TurbineID: "T2", Start: at(2021, 1, 1, 0, 0), Category: CategoryFullPerformance},
		{TurbineID: "T2", Start: at(2021, 1, 2, 0, 0), Category: CategoryFullPerformance},
		{TurbineID: "T1", Start: at(2019, 1, 1, 0, 0), Category: CategoryForcedOutage},
		{TurbineID: "T1", Start: at(2019, 7, 2, 12, 0), Category: CategoryTechnicalStandby},
		{TurbineID: "T1", Start: at(2021, 1, 1, 0, 0), Category: CategoryFullPerformance},
	})

	records, err := ComputeAvailability(events, DefaultAvailableCategories(), targetYears)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "T1", records[0].TurbineID)
	assert.Equal(t, 2019, records[0].Year)
	assert.Equal(t, "T1", records[1].TurbineID)
	assert.Equal(t, 2021, records[1].Year)
	assert.Equal(t, 0.0, records[1].AvailabilityPct)
	assert.Equal(t, "T2", records[2].TurbineID)
	assert.Equal(t, 2021, records[2].Year)
	assert.Equal(t, round2(86400/YearSeconds(2021)*100), records[2].AvailabilityPct)
}

func TestComputeAvailability_ZeroWhenNoAvailableCategory(t *testing.T) {
	events := ReconstructDurations([]StatusEvent{
		{TurbineID: "T3", Start: at(2019, 2, 1, 0, 0), Category: CategoryForcedOutage},
		{TurbineID: "T3", Start: at(2019, 3, 1, 0, 0), Category: CategoryScheduledMaintenance},
		{TurbineID: "T3", Start: at(2019, 4, 1, 0, 0), Category: CategoryForcedOutage},
	})

	records, err := ComputeAvailability(events, DefaultAvailableCategories(), targetYears)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 0.0, records[0].AvailabilityPct)
	assert.Greater(t, records[0].ObservedSeconds, 0.0)
}

func TestComputeAvailability_BoundedByHundred(t *testing.T) {
	events := ReconstructDurations([]StatusEvent{
		{TurbineID: "T1", Start: at(2019, 1, 1, 0, 0), Category: CategoryFullPerformance},
		{TurbineID: "T1", Start: at(2019, 12, 31, 23, 59), Category: CategoryFullPerformance},
	})

	records, err := ComputeAvailability(events, DefaultAvailableCategories(), targetYears)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.GreaterOrEqual(t, records[0].AvailabilityPct, 0.0)
	assert.LessOrEqual(t, records[0].AvailabilityPct, 100.0)
	assert.Equal(t, 100.0, records[0].AvailabilityPct)
}

func TestComputeAvailability_IgnoresYearsOutsideTargets(t *testing.T) {
	events := ReconstructDurations([]StatusEvent{
		{TurbineID: "T1", Start: at(2018, 1, 1, 0, 0), Category: CategoryFullPerformance},
		{TurbineID: "T1", Start: at(2018, 1, 2, 0, 0), Category: CategoryFullPerformance},
	})

	records, err := ComputeAvailability(events, DefaultAvailableCategories(), targetYears)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestComputeAvailability_NoYears(t *testing.T) {
	_, err := ComputeAvailability(nil, DefaultAvailableCategories(), nil)
	assert.ErrorIs(t, err, ErrNoTargetYears)
}
