package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
)

// TicketStatsHandler serves the ticket volume reports.
type TicketStatsHandler struct {
	service      ports.TicketStatsService
	cache        *ReportCache
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

func NewTicketStatsHandler(service ports.TicketStatsService, cache *ReportCache, errorHandler *ErrorHandler, logger *slog.Logger) *TicketStatsHandler {
	return &TicketStatsHandler{
		service:      service,
		cache:        cache,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "tickets"),
	}
}

func (h *TicketStatsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/summary", h.HandleSummary)
	r.Get("/by-status", h.HandleByStatus)
	r.Get("/by-priority", h.HandleByPriority)
	r.Get("/evolution", h.HandleEvolution)
}

// HandleSummary handles GET /tickets/summary.
func (h *TicketStatsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, "tickets:summary", func(rng domain.DateRange) (any, error) {
		return h.service.Summary(r.Context(), rng)
	})
}

// HandleByStatus handles GET /tickets/by-status.
func (h *TicketStatsHandler) HandleByStatus(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, "tickets:by-status", func(rng domain.DateRange) (any, error) {
		rows, err := h.service.ByStatus(r.Context(), rng)
		if err != nil {
			return nil, err
		}
		return ListResponse[domain.StatusBreakdown]{Data: rows, Count: len(rows)}, nil
	})
}

// HandleByPriority handles GET /tickets/by-priority.
func (h *TicketStatsHandler) HandleByPriority(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, "tickets:by-priority", func(rng domain.DateRange) (any, error) {
		rows, err := h.service.ByPriority(r.Context(), rng)
		if err != nil {
			return nil, err
		}
		return ListResponse[domain.PriorityCount]{Data: rows, Count: len(rows)}, nil
	})
}

// HandleEvolution handles GET /tickets/evolution.
func (h *TicketStatsHandler) HandleEvolution(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, "tickets:evolution", func(rng domain.DateRange) (any, error) {
		rows, err := h.service.Evolution(r.Context(), rng)
		if err != nil {
			return nil, err
		}
		return ListResponse[domain.VolumePoint]{Data: rows, Count: len(rows)}, nil
	})
}

// report runs the shared parse/cache/compute/store pipeline.
func (h *TicketStatsHandler) report(w http.ResponseWriter, r *http.Request, name string, compute func(domain.DateRange) (any, error)) {
	rng, err := parseDateRange(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	key := cacheKey(name, rng)
	if h.cache.serve(w, r, key) {
		return
	}

	result, err := compute(rng)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.cache.store(r, key, payload)
	writeRawJSON(w, payload)
}
