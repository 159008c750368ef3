package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lcrommet/glpi-insight-backend/internal/adapters/secondary/export"
	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	apperrors "github.com/lcrommet/glpi-insight-backend/internal/core/errors"
	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
)

// SlaHandler serves the SLA compliance summary, its XLSX export and the
// per-priority target administration.
type SlaHandler struct {
	service      ports.SlaService
	cache        *ReportCache
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

func NewSlaHandler(service ports.SlaService, cache *ReportCache, errorHandler *ErrorHandler, logger *slog.Logger) *SlaHandler {
	return &SlaHandler{
		service:      service,
		cache:        cache,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "sla"),
	}
}

func (h *SlaHandler) RegisterRoutes(r chi.Router) {
	r.Get("/summary", h.HandleSummary)
	r.Get("/summary/export", h.HandleExport)
	r.Get("/targets", h.HandleGetTargets)
}

// RegisterAdminRoutes registers the target mutation route, mounted
// behind the admin-role middleware.
func (h *SlaHandler) RegisterAdminRoutes(r chi.Router) {
	r.Put("/targets", h.HandleUpdateTargets)
}

// HandleSummary handles GET /reports/sla/summary.
func (h *SlaHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	rng, err := parseDateRange(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	key := cacheKey("sla:summary", rng)
	if h.cache.serve(w, r, key) {
		return
	}

	summary, err := h.service.Summary(r.Context(), rng)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.cache.store(r, key, payload)
	writeRawJSON(w, payload)
}

// HandleExport handles GET /reports/sla/summary/export, streaming an
// XLSX workbook.
func (h *SlaHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	rng, err := parseDateRange(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	summary, err := h.service.Summary(r.Context(), rng)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	workbook, err := export.SlaWorkbook(*summary, rng.From, rng.To)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	filename := fmt.Sprintf("sla_%s_%s.xlsx",
		rng.From.Format("2006-01-02"), rng.To.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(workbook)
}

// HandleGetTargets handles GET /reports/sla/targets.
func (h *SlaHandler) HandleGetTargets(w http.ResponseWriter, r *http.Request) {
	targets, err := h.service.Targets(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, targetsResponse(targets))
}

// HandleUpdateTargets handles PUT /admin/sla/targets. The body is a JSON
// object keyed by priority code with target hours as values.
func (h *SlaHandler) HandleUpdateTargets(w http.ResponseWriter, r *http.Request) {
	var body map[string]float64
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid request body"))
		return
	}

	overrides := make(map[int]float64, len(body))
	for key, hours := range body {
		priority, err := strconv.Atoi(key)
		if err != nil {
			h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err,
				fmt.Sprintf("Invalid priority key %q", key)))
			return
		}
		overrides[priority] = hours
	}

	targets, err := h.service.UpdateTargets(r.Context(), overrides)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, targetsResponse(targets))
}

// targetsResponse renders targets with string keys, stable for JSON.
func targetsResponse(targets domain.SlaTargets) map[string]float64 {
	out := make(map[string]float64, len(targets))
	for priority, hours := range targets {
		out[strconv.Itoa(priority)] = hours
	}
	return out
}
