package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	apperrors "github.com/lcrommet/glpi-insight-backend/internal/core/errors"
	"github.com/lcrommet/glpi-insight-backend/internal/core/mocks"
	"github.com/lcrommet/glpi-insight-backend/internal/core/services"
)

func TestSlaService_Summary(t *testing.T) {
	ctx := context.Background()
	r := testRange()

	t.Run("splits vendor and local sources", func(t *testing.T) {
		mockTickets := mocks.NewMockTicketSource()
		mockLogs := mocks.NewMockStatusLogSource()
		mockStore := mocks.NewMockConfigStore()
		mockSettings := mocks.NewMockSettingsService()

		svc := services.NewSlaService(mockTickets, mockLogs, mockStore, mockSettings, testLogger())

		tickets := []domain.Ticket{
			// Vendor SLA, on time.
			{
				ID: 1, Date: ts("2024-01-02 09:00:00"), SolveDate: tsp("2024-01-02 10:00:00"),
				Status: domain.StatusSolved, Priority: domain.PriorityVeryHigh,
				SlasIDTTR: 3, TimeToResolve: tsp("2024-01-02 13:00:00"),
			},
			// Local SLA: 5h elapsed, 4h target, 2h pause.
			{
				ID: 2, Date: ts("2024-01-03 09:00:00"), SolveDate: tsp("2024-01-03 14:00:00"),
				Status: domain.StatusSolved, Priority: domain.PriorityVeryHigh,
			},
			// Still open.
			{ID: 3, Date: ts("2024-01-04 09:00:00"), Status: domain.StatusInProgress, Priority: domain.PriorityVeryHigh},
		}

		mockStore.On("Get", ctx, domain.ConfigKeySlaTargets).Return(nil, apperrors.ErrConfigKeyNotFound)
		mockTickets.On("ListForSla", ctx, r).Return(tickets, nil)
		// Journal requested only for the vendor-less resolved ticket.
		mockLogs.On("LoadStatusLogs", ctx, []int64{2}).Return(map[int64][]domain.StatusChangeEvent{
			2: {
				{TicketID: 2, OldValue: "2", NewValue: "4", ChangedAt: ts("2024-01-03 10:00:00")},
				{TicketID: 2, OldValue: "4", NewValue: "2", ChangedAt: ts("2024-01-03 12:00:00")},
			},
		}, nil)
		mockSettings.On("PendingMatcher", ctx).Return(domain.NewPendingMatcher())

		summary, err := svc.Summary(ctx, r)

		require.NoError(t, err)

		var p1 domain.SlaPriorityReport
		for _, p := range summary.Priorities {
			if p.Priority == domain.PriorityVeryHigh {
				p1 = p
			}
		}

		assert.Equal(t, 3, p1.Total)
		assert.Equal(t, 1, p1.StillOpen)
		assert.Equal(t, 1, p1.GlpiWithin)
		// Pause pushed the local deadline past the solve date.
		assert.Equal(t, 1, p1.ManualWithin)
		assert.Equal(t, 0, p1.ManualBreached)

		assert.Equal(t, 2, summary.Meta.TotalResolved)
		assert.Equal(t, 1, summary.Meta.TicketsGlpiSla)
		assert.Equal(t, 1, summary.Meta.TicketsManualSla)

		mockLogs.AssertExpectations(t)
	})

	t.Run("no journal lookup when all resolved tickets carry vendor slas", func(t *testing.T) {
		mockTickets := mocks.NewMockTicketSource()
		mockLogs := mocks.NewMockStatusLogSource()
		mockStore := mocks.NewMockConfigStore()
		mockSettings := mocks.NewMockSettingsService()

		svc := services.NewSlaService(mockTickets, mockLogs, mockStore, mockSettings, testLogger())

		tickets := []domain.Ticket{
			{
				ID: 1, Date: ts("2024-01-02 09:00:00"), SolveDate: tsp("2024-01-02 10:00:00"),
				Status: domain.StatusSolved, Priority: domain.PriorityHigh,
				SlasIDTTR: 3, TimeToResolve: tsp("2024-01-02 13:00:00"),
			},
		}

		mockStore.On("Get", ctx, domain.ConfigKeySlaTargets).Return(nil, apperrors.ErrConfigKeyNotFound)
		mockTickets.On("ListForSla", ctx, r).Return(tickets, nil)

		_, err := svc.Summary(ctx, r)

		require.NoError(t, err)
		mockLogs.AssertNotCalled(t, "LoadStatusLogs", mock.Anything, mock.Anything)
	})
}

func TestSlaService_Targets(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults when nothing stored", func(t *testing.T) {
		mockStore := mocks.NewMockConfigStore()
		svc := services.NewSlaService(mocks.NewMockTicketSource(), mocks.NewMockStatusLogSource(), mockStore, mocks.NewMockSettingsService(), testLogger())

		mockStore.On("Get", ctx, domain.ConfigKeySlaTargets).Return(nil, apperrors.ErrConfigKeyNotFound)

		targets, err := svc.Targets(ctx)

		require.NoError(t, err)
		assert.Equal(t, domain.DefaultSlaTargets(), targets)
	})

	t.Run("stored overrides merge per key", func(t *testing.T) {
		mockStore := mocks.NewMockConfigStore()
		svc := services.NewSlaService(mocks.NewMockTicketSource(), mocks.NewMockStatusLogSource(), mockStore, mocks.NewMockSettingsService(), testLogger())

		mockStore.On("Get", ctx, domain.ConfigKeySlaTargets).Return(json.RawMessage(`{"1": 2, "6": 1}`), nil)

		targets, err := svc.Targets(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2.0, targets[domain.PriorityVeryHigh])
		assert.Equal(t, 1.0, targets[domain.PriorityMajor])
		assert.Equal(t, 8.0, targets[domain.PriorityHigh])
	})
}

func TestSlaService_UpdateTargets(t *testing.T) {
	ctx := context.Background()

	t.Run("persists merged overrides", func(t *testing.T) {
		mockStore := mocks.NewMockConfigStore()
		svc := services.NewSlaService(mocks.NewMockTicketSource(), mocks.NewMockStatusLogSource(), mockStore, mocks.NewMockSettingsService(), testLogger())

		mockStore.On("Get", ctx, domain.ConfigKeySlaTargets).Return(json.RawMessage(`{"1": 2}`), nil)
		mockStore.On("Set", ctx, domain.ConfigKeySlaTargets, mock.MatchedBy(func(raw json.RawMessage) bool {
			var stored map[string]float64
			if err := json.Unmarshal(raw, &stored); err != nil {
				return false
			}
			return stored["1"] == 2 && stored["2"] == 6
		})).Return(nil)

		targets, err := svc.UpdateTargets(ctx, map[int]float64{domain.PriorityHigh: 6})

		require.NoError(t, err)
		assert.Equal(t, 2.0, targets[domain.PriorityVeryHigh])
		assert.Equal(t, 6.0, targets[domain.PriorityHigh])
		mockStore.AssertExpectations(t)
	})

	t.Run("rejects non-positive hours", func(t *testing.T) {
		mockStore := mocks.NewMockConfigStore()
		svc := services.NewSlaService(mocks.NewMockTicketSource(), mocks.NewMockStatusLogSource(), mockStore, mocks.NewMockSettingsService(), testLogger())

		_, err := svc.UpdateTargets(ctx, map[int]float64{domain.PriorityHigh: 0})

		assert.ErrorIs(t, err, apperrors.ErrInvalidSlaTarget)
		mockStore.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})
}
