package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/lcrommet/glpi-insight-backend/internal/core/errors"
	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
)

// TechnicianHandler serves per-technician assignment reports.
type TechnicianHandler struct {
	service      ports.TechnicianService
	cache        *ReportCache
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

func NewTechnicianHandler(service ports.TechnicianService, cache *ReportCache, errorHandler *ErrorHandler, logger *slog.Logger) *TechnicianHandler {
	return &TechnicianHandler{
		service:      service,
		cache:        cache,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "technicians"),
	}
}

func (h *TechnicianHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Get("/{technicianID}/report", h.HandleReport)
}

// HandleList handles GET /technicians.
func (h *TechnicianHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	rng, err := parseDateRange(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	technicians, err := h.service.List(r.Context(), rng)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	WriteList(w, technicians)
}

// HandleReport handles GET /technicians/{technicianID}/report.
func (h *TechnicianHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	technicianID, err := strconv.ParseInt(chi.URLParam(r, "technicianID"), 10, 64)
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid technician id"))
		return
	}

	rng, err := parseDateRange(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	key := cacheKey(fmt.Sprintf("technicians:%d", technicianID), rng)
	if h.cache.serve(w, r, key) {
		return
	}

	report, err := h.service.Report(r.Context(), technicianID, rng)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	payload, err := json.Marshal(report)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.cache.store(r, key, payload)
	writeRawJSON(w, payload)
}
