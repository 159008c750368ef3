package http

import (
	"encoding/json"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lcrommet/glpi-insight-backend/internal/adapters/secondary/rediscache"
	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	"github.com/lcrommet/glpi-insight-backend/internal/core/mocks"
	"github.com/lcrommet/glpi-insight-backend/internal/core/services"
)

func newTicketStatsRouter(source *mocks.MockTicketSource, reportCache *mocks.MockReportCache) *chi.Mux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	errorHandler := NewErrorHandler(logger)
	service := services.NewTicketStatsService(source)
	cache := NewReportCache(reportCache, time.Minute, logger)
	handler := NewTicketStatsHandler(service, cache, errorHandler, logger)

	router := chi.NewRouter()
	router.Route("/tickets", handler.RegisterRoutes)
	return router
}

func TestTicketSummary(t *testing.T) {
	source := mocks.NewMockTicketSource()
	reportCache := mocks.NewMockReportCache()

	rng := domain.NewDateRange(
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
	)
	source.On("Summary", mock.Anything, rng).
		Return(domain.TicketSummary{Total: 12, New: 3, Solved: 5, Closed: 4}, nil)

	key := "tickets:summary:2024-01-01:2024-01-31"
	reportCache.On("Get", mock.Anything, key).Return(nil, rediscache.ErrCacheMiss)
	reportCache.On("Set", mock.Anything, key, mock.Anything, time.Minute).Return(nil)

	router := newTicketStatsRouter(source, reportCache)
	req := httptest.NewRequest(stdhttp.MethodGet, "/tickets/summary?from=2024-01-01&to=2024-01-31", nil)
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)
	assert.Empty(t, recorder.Header().Get("X-Cache"))

	var summary domain.TicketSummary
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&summary))
	assert.Equal(t, 12, summary.Total)
	assert.Equal(t, 5, summary.Solved)

	source.AssertExpectations(t)
	reportCache.AssertExpectations(t)
}

func TestTicketSummary_CacheHit(t *testing.T) {
	source := mocks.NewMockTicketSource()
	reportCache := mocks.NewMockReportCache()

	cached := []byte(`{"total":42,"new":10,"in_progress":8,"pending":4,"solved":12,"closed":8}`)
	reportCache.On("Get", mock.Anything, "tickets:summary:2024-01-01:2024-01-31").Return(cached, nil)

	router := newTicketStatsRouter(source, reportCache)
	req := httptest.NewRequest(stdhttp.MethodGet, "/tickets/summary?from=2024-01-01&to=2024-01-31", nil)
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)
	assert.Equal(t, "hit", recorder.Header().Get("X-Cache"))
	assert.JSONEq(t, string(cached), recorder.Body.String())

	// The source must never be queried on a cache hit.
	source.AssertExpectations(t)
	reportCache.AssertExpectations(t)
}

func TestTicketByStatus(t *testing.T) {
	source := mocks.NewMockTicketSource()
	reportCache := mocks.NewMockReportCache()

	source.On("CountByStatus", mock.Anything, mock.Anything).Return([]domain.StatusBreakdown{
		{Status: 2, Label: "En cours (attribué)", Count: 7},
		{Status: 5, Label: "Résolu", Count: 3},
	}, nil)
	reportCache.On("Get", mock.Anything, mock.Anything).Return(nil, rediscache.ErrCacheMiss)
	reportCache.On("Set", mock.Anything, mock.Anything, mock.Anything, time.Minute).Return(nil)

	router := newTicketStatsRouter(source, reportCache)
	req := httptest.NewRequest(stdhttp.MethodGet, "/tickets/by-status?from=2024-01-01&to=2024-01-31", nil)
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response ListResponse[domain.StatusBreakdown]
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	require.Equal(t, 2, response.Count)
	assert.Equal(t, "Résolu", response.Data[1].Label)

	source.AssertExpectations(t)
}

func TestTicketSummary_InvalidRange(t *testing.T) {
	source := mocks.NewMockTicketSource()
	reportCache := mocks.NewMockReportCache()

	router := newTicketStatsRouter(source, reportCache)
	req := httptest.NewRequest(stdhttp.MethodGet, "/tickets/summary?from=2024-02-01&to=2024-01-01", nil)
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusBadRequest, recorder.Code)
	source.AssertExpectations(t)
	reportCache.AssertExpectations(t)
}
