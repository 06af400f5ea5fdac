package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	availability "windfleet/internal/availability/domain"
	"windfleet/internal/vendorcsv"
)

type stubSource struct {
	events []availability.StatusEvent
	err    error
}

func (s stubSource) LoadEvents(_ context.Context) ([]availability.StatusEvent, vendorcsv.LoadStats, error) {
	return s.events, vendorcsv.LoadStats{Family: "status", LoadedFiles: 1}, s.err
}

func ts(hour int) time.Time {
	return time.Date(2020, 3, 1, hour, 0, 0, 0, time.UTC)
}

func TestServiceRun(t *testing.T) {
	source := stubSource{events: []availability.StatusEvent{
		{TurbineID: "T2", Start: ts(0), Category: availability.CategoryFullPerformance},
		{TurbineID: "T2", Start: ts(10), Category: availability.CategoryForcedOutage},
		{TurbineID: "T2", Start: ts(12), Category: availability.CategoryFullPerformance},
		{TurbineID: "T1", Start: ts(0), Category: availability.CategoryRequestedShutdown},
		{TurbineID: "T1", Start: ts(1), Category: availability.CategoryTechnicalStandby},
	}}
	logger, hook := test.NewNullLogger()
	svc, err := NewService(source, Options{Years: []int{2019, 2020, 2021}}, logger)
	require.NoError(t, err)

	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, report.Events)
	assert.Equal(t, []string{"T1", "T2"}, report.Turbines)
	require.Len(t, report.Availability, 2)
	assert.Equal(t, "T1", report.Availability[0].TurbineID)
	assert.Equal(t, 0.0, report.Availability[0].AvailabilityPct)
	assert.Equal(t, 36000.0, report.Availability[1].AvailableSeconds)

	require.Len(t, report.Downtime, 2)
	assert.Equal(t, availability.DowntimeRanking{TurbineID: "T1", Category: availability.CategoryRequestedShutdown, Hours: 1}, report.Downtime[0])
	assert.Equal(t, availability.DowntimeRanking{TurbineID: "T2", Category: availability.CategoryForcedOutage, Hours: 2}, report.Downtime[1])
	assert.NotEmpty(t, report.Breakdown)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "availability", hook.LastEntry().Data["component"])
}

func TestServiceRun_SourceError(t *testing.T) {
	svc, err := NewService(stubSource{err: vendorcsv.ErrNoSourceFiles}, Options{Years: []int{2020}}, nil)
	require.NoError(t, err)

	_, err = svc.Run(context.Background())
	assert.True(t, errors.Is(err, vendorcsv.ErrNoSourceFiles))
}

func TestNewService_Validation(t *testing.T) {
	_, err := NewService(nil, Options{Years: []int{2020}}, nil)
	assert.Error(t, err)
	_, err = NewService(stubSource{}, Options{}, nil)
	assert.ErrorIs(t, err, availability.ErrNoTargetYears)
	_, err = NewService(stubSource{}, Options{Years: []int{2020}, TopCauses: -1}, nil)
	assert.ErrorIs(t, err, availability.ErrInvalidTopN)
}
