package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	apperrors "github.com/lcrommet/glpi-insight-backend/internal/core/errors"
	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
)

// SlaService evaluates dual-source SLA compliance: GLPI's own deadline
// when a TTR SLA is attached, a local pause-extended target otherwise.
type SlaService struct {
	tickets  ports.TicketSource
	logs     ports.StatusLogSource
	store    ports.ConfigStore
	settings ports.SettingsService
	logger   *slog.Logger
}

var _ ports.SlaService = (*SlaService)(nil)

func NewSlaService(
	tickets ports.TicketSource,
	logs ports.StatusLogSource,
	store ports.ConfigStore,
	settings ports.SettingsService,
	logger *slog.Logger,
) *SlaService {
	return &SlaService{tickets: tickets, logs: logs, store: store, settings: settings, logger: logger}
}

// Summary evaluates every ticket of the window and rolls the verdicts up
// per priority.
func (s *SlaService) Summary(ctx context.Context, r domain.DateRange) (*domain.SlaSummary, error) {
	targets, err := s.Targets(ctx)
	if err != nil {
		return nil, err
	}

	tickets, err := s.tickets.ListForSla(ctx, r)
	if err != nil {
		return nil, err
	}

	// Pause time only matters for resolved tickets without a vendor
	// deadline; the journal is loaded for exactly that subset.
	var manualIDs []int64
	for _, t := range tickets {
		if t.IsResolved() && !t.HasVendorSla() {
			manualIDs = append(manualIDs, t.ID)
		}
	}

	pauseByID := make(map[int64]int, len(manualIDs))
	if len(manualIDs) > 0 {
		logs, err := s.logs.LoadStatusLogs(ctx, manualIDs)
		if err != nil {
			return nil, err
		}
		logUnknownStatusValues(logs, s.logger)

		matcher := s.settings.PendingMatcher(ctx)
		for _, t := range tickets {
			if events, ok := logs[t.ID]; ok {
				pauseByID[t.ID] = domain.PauseMinutes(events, t.SolveDate, matcher)
			}
		}
	}

	evals := make(map[int64]domain.SlaEvaluation)
	for _, t := range tickets {
		if eval, ok := domain.EvaluateSla(t, pauseByID[t.ID], targets); ok {
			evals[t.ID] = eval
		}
	}

	summary := domain.ComputeSlaSummary(tickets, evals, targets)
	return &summary, nil
}

// Targets returns the effective targets: defaults overridden per key by
// the stored configuration.
func (s *SlaService) Targets(ctx context.Context) (domain.SlaTargets, error) {
	overrides, err := s.storedOverrides(ctx)
	if err != nil {
		return nil, err
	}
	return domain.DefaultSlaTargets().MergeOverrides(overrides), nil
}

// UpdateTargets merges the given per-priority hours into the stored
// overrides and returns the new effective targets.
func (s *SlaService) UpdateTargets(ctx context.Context, targets map[int]float64) (domain.SlaTargets, error) {
	for _, hours := range targets {
		if hours <= 0 {
			return nil, apperrors.ErrInvalidSlaTarget
		}
	}

	overrides, err := s.storedOverrides(ctx)
	if err != nil {
		return nil, err
	}
	for priority, hours := range targets {
		overrides[priority] = hours
	}

	// Stored as a JSON object keyed by the priority code.
	encoded := make(map[string]float64, len(overrides))
	for priority, hours := range overrides {
		encoded[strconv.Itoa(priority)] = hours
	}
	raw, err := json.Marshal(encoded)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, domain.ConfigKeySlaTargets, raw); err != nil {
		return nil, err
	}

	return domain.DefaultSlaTargets().MergeOverrides(overrides), nil
}

func (s *SlaService) storedOverrides(ctx context.Context) (map[int]float64, error) {
	overrides := make(map[int]float64)

	raw, err := s.store.Get(ctx, domain.ConfigKeySlaTargets)
	if err != nil {
		if errors.Is(err, apperrors.ErrConfigKeyNotFound) {
			return overrides, nil
		}
		return nil, err
	}

	var encoded map[string]float64
	if err := json.Unmarshal(raw, &encoded); err != nil {
		s.logger.Warn("malformed sla targets in config store, using defaults", "error", err)
		return overrides, nil
	}

	for key, hours := range encoded {
		priority, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		overrides[priority] = hours
	}
	return overrides, nil
}
