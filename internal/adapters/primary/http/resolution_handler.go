package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
)

// ResolutionHandler serves the active-resolution-time reports.
type ResolutionHandler struct {
	service      ports.ResolutionService
	cache        *ReportCache
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

func NewResolutionHandler(service ports.ResolutionService, cache *ReportCache, errorHandler *ErrorHandler, logger *slog.Logger) *ResolutionHandler {
	return &ResolutionHandler{
		service:      service,
		cache:        cache,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "resolution"),
	}
}

func (h *ResolutionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/average", h.HandleAverage)
	r.Get("/evolution", h.HandleEvolution)
	r.Get("/by-priority", h.HandleByPriority)
}

// HandleAverage handles GET /reports/resolution/average.
func (h *ResolutionHandler) HandleAverage(w http.ResponseWriter, r *http.Request) {
	rng, err := parseDateRange(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	key := cacheKey("resolution:average", rng)
	if h.cache.serve(w, r, key) {
		return
	}

	report, err := h.service.Average(r.Context(), rng)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.writeCached(w, r, key, report)
}

// HandleEvolution handles GET /reports/resolution/evolution.
func (h *ResolutionHandler) HandleEvolution(w http.ResponseWriter, r *http.Request) {
	rng, err := parseDateRange(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	key := cacheKey("resolution:evolution", rng)
	if h.cache.serve(w, r, key) {
		return
	}

	points, err := h.service.Evolution(r.Context(), rng)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.writeCached(w, r, key, ListResponse[ports.ResolutionEvolution]{Data: points, Count: len(points)})
}

// HandleByPriority handles GET /reports/resolution/by-priority.
func (h *ResolutionHandler) HandleByPriority(w http.ResponseWriter, r *http.Request) {
	rng, err := parseDateRange(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	key := cacheKey("resolution:by-priority", rng)
	if h.cache.serve(w, r, key) {
		return
	}

	rows, err := h.service.ByPriority(r.Context(), rng)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.writeCached(w, r, key, ListResponse[ports.ResolutionByPriority]{Data: rows, Count: len(rows)})
}

// writeCached renders the payload once, serving and caching the same bytes.
func (h *ResolutionHandler) writeCached(w http.ResponseWriter, r *http.Request, key string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.cache.store(r, key, payload)
	writeRawJSON(w, payload)
}

// writeRawJSON writes pre-rendered JSON bytes.
func writeRawJSON(w http.ResponseWriter, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
