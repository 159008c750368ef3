package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	"github.com/lcrommet/glpi-insight-backend/internal/core/mocks"
	"github.com/lcrommet/glpi-insight-backend/internal/core/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ts(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t
}

func tsp(s string) *time.Time {
	t := ts(s)
	return &t
}

func testRange() domain.DateRange {
	return domain.NewDateRange(ts("2024-01-01 00:00:00"), ts("2024-01-31 00:00:00"))
}

func TestResolutionService_Average(t *testing.T) {
	ctx := context.Background()
	r := testRange()

	t.Run("aggregates pause-excluded durations", func(t *testing.T) {
		mockTickets := mocks.NewMockTicketSource()
		mockLogs := mocks.NewMockStatusLogSource()
		mockSettings := mocks.NewMockSettingsService()

		svc := services.NewResolutionService(mockTickets, mockLogs, mockSettings, testLogger())

		tickets := []domain.Ticket{
			{ID: 1, Date: ts("2024-01-02 00:00:00"), SolveDate: tsp("2024-01-03 00:00:00"), Status: domain.StatusSolved, Priority: 3},
		}
		logs := map[int64][]domain.StatusChangeEvent{
			1: {
				{TicketID: 1, OldValue: "2", NewValue: "4", ChangedAt: ts("2024-01-02 10:00:00")},
				{TicketID: 1, OldValue: "4", NewValue: "2", ChangedAt: ts("2024-01-02 14:00:00")},
			},
		}

		mockTickets.On("ListResolved", ctx, r).Return(tickets, nil)
		mockLogs.On("LoadStatusLogs", ctx, []int64{1}).Return(logs, nil)
		mockSettings.On("PendingMatcher", ctx).Return(domain.NewPendingMatcher())

		report, err := svc.Average(ctx, r)

		require.NoError(t, err)
		assert.Equal(t, 1, report.Stats.Count)
		assert.Equal(t, 20.0, *report.Stats.AvgActiveHours)
		assert.Equal(t, 24.0, *report.Stats.AvgBrutHours)
		assert.Equal(t, 240, *report.Stats.AvgPauseMinutes)
		assert.Equal(t, "2024-01-01", report.Range.From)
		assert.Equal(t, "day", report.Range.Granularity)

		mockTickets.AssertExpectations(t)
		mockLogs.AssertExpectations(t)
	})

	t.Run("empty window yields zero count", func(t *testing.T) {
		mockTickets := mocks.NewMockTicketSource()
		mockLogs := mocks.NewMockStatusLogSource()
		mockSettings := mocks.NewMockSettingsService()

		svc := services.NewResolutionService(mockTickets, mockLogs, mockSettings, testLogger())

		mockTickets.On("ListResolved", ctx, r).Return([]domain.Ticket{}, nil)
		mockLogs.On("LoadStatusLogs", ctx, []int64{}).Return(map[int64][]domain.StatusChangeEvent{}, nil)
		mockSettings.On("PendingMatcher", ctx).Return(domain.NewPendingMatcher())

		report, err := svc.Average(ctx, r)

		require.NoError(t, err)
		assert.Equal(t, 0, report.Stats.Count)
		assert.Nil(t, report.Stats.AvgActiveHours)
	})

	t.Run("journal outage degrades to zero pause", func(t *testing.T) {
		mockTickets := mocks.NewMockTicketSource()
		mockLogs := mocks.NewMockStatusLogSource()
		mockSettings := mocks.NewMockSettingsService()

		svc := services.NewResolutionService(mockTickets, mockLogs, mockSettings, testLogger())

		tickets := []domain.Ticket{
			{ID: 1, Date: ts("2024-01-02 00:00:00"), SolveDate: tsp("2024-01-02 04:00:00"), Status: domain.StatusSolved},
		}

		mockTickets.On("ListResolved", ctx, r).Return(tickets, nil)
		// The loader absorbs its own failures and returns an empty map.
		mockLogs.On("LoadStatusLogs", ctx, []int64{1}).Return(map[int64][]domain.StatusChangeEvent{}, nil)
		mockSettings.On("PendingMatcher", ctx).Return(domain.NewPendingMatcher())

		report, err := svc.Average(ctx, r)

		require.NoError(t, err)
		assert.Equal(t, 4.0, *report.Stats.AvgActiveHours)
		assert.Equal(t, 0, *report.Stats.AvgPauseMinutes)
	})

	t.Run("ticket source failure propagates", func(t *testing.T) {
		mockTickets := mocks.NewMockTicketSource()
		mockLogs := mocks.NewMockStatusLogSource()
		mockSettings := mocks.NewMockSettingsService()

		svc := services.NewResolutionService(mockTickets, mockLogs, mockSettings, testLogger())

		mockTickets.On("ListResolved", ctx, r).Return(nil, errors.New("mirror unreachable"))

		_, err := svc.Average(ctx, r)
		assert.Error(t, err)
	})
}

func TestResolutionService_Evolution(t *testing.T) {
	ctx := context.Background()
	r := testRange()

	mockTickets := mocks.NewMockTicketSource()
	mockLogs := mocks.NewMockStatusLogSource()
	mockSettings := mocks.NewMockSettingsService()

	svc := services.NewResolutionService(mockTickets, mockLogs, mockSettings, testLogger())

	tickets := []domain.Ticket{
		{ID: 1, Date: ts("2024-01-02 09:00:00"), SolveDate: tsp("2024-01-02 11:00:00"), Status: domain.StatusSolved},
		{ID: 2, Date: ts("2024-01-02 10:00:00"), SolveDate: tsp("2024-01-02 14:00:00"), Status: domain.StatusSolved},
		{ID: 3, Date: ts("2024-01-05 10:00:00"), SolveDate: tsp("2024-01-05 11:00:00"), Status: domain.StatusClosed},
	}

	mockTickets.On("ListResolved", ctx, r).Return(tickets, nil)
	mockLogs.On("LoadStatusLogs", ctx, mock.Anything).Return(map[int64][]domain.StatusChangeEvent{}, nil)
	mockSettings.On("PendingMatcher", ctx).Return(domain.NewPendingMatcher())

	points, err := svc.Evolution(ctx, r)

	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "2024-01-02", points[0].Period)
	assert.Equal(t, 2, points[0].Stats.Count)
	assert.Equal(t, 3.0, *points[0].Stats.AvgActiveHours)
	assert.Equal(t, "2024-01-05", points[1].Period)
	assert.Equal(t, 1, points[1].Stats.Count)
}

func TestResolutionService_ByPriority(t *testing.T) {
	ctx := context.Background()
	r := testRange()

	mockTickets := mocks.NewMockTicketSource()
	mockLogs := mocks.NewMockStatusLogSource()
	mockSettings := mocks.NewMockSettingsService()

	svc := services.NewResolutionService(mockTickets, mockLogs, mockSettings, testLogger())

	tickets := []domain.Ticket{
		{ID: 1, Date: ts("2024-01-02 09:00:00"), SolveDate: tsp("2024-01-02 11:00:00"), Status: domain.StatusSolved, Priority: domain.PriorityVeryHigh},
	}

	mockTickets.On("ListResolved", ctx, r).Return(tickets, nil)
	mockLogs.On("LoadStatusLogs", ctx, mock.Anything).Return(map[int64][]domain.StatusChangeEvent{}, nil)
	mockSettings.On("PendingMatcher", ctx).Return(domain.NewPendingMatcher())

	rows, err := svc.ByPriority(ctx, r)

	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "Très haute", rows[0].Label)
	assert.Equal(t, 1, rows[0].Stats.Count)
	assert.Equal(t, 0, rows[1].Stats.Count)
}
