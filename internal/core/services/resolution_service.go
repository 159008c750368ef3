package services

import (
	"context"
	"log/slog"
	"sort"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
)

// ResolutionService computes pause-excluded resolution time reports over
// the resolved tickets of a window.
type ResolutionService struct {
	tickets  ports.TicketSource
	logs     ports.StatusLogSource
	settings ports.SettingsService
	logger   *slog.Logger
}

var _ ports.ResolutionService = (*ResolutionService)(nil)

func NewResolutionService(
	tickets ports.TicketSource,
	logs ports.StatusLogSource,
	settings ports.SettingsService,
	logger *slog.Logger,
) *ResolutionService {
	return &ResolutionService{tickets: tickets, logs: logs, settings: settings, logger: logger}
}

func (s *ResolutionService) enrichWindow(ctx context.Context, r domain.DateRange) ([]domain.EnrichedTicket, error) {
	tickets, err := s.tickets.ListResolved(ctx, r)
	if err != nil {
		return nil, err
	}
	matcher := s.settings.PendingMatcher(ctx)
	return loadEnriched(ctx, s.logs, tickets, matcher, s.logger)
}

// Average returns the aggregate resolution statistics of the window.
func (s *ResolutionService) Average(ctx context.Context, r domain.DateRange) (*ports.ResolutionReport, error) {
	enriched, err := s.enrichWindow(ctx, r)
	if err != nil {
		return nil, err
	}

	return &ports.ResolutionReport{
		Stats: domain.ComputeActiveStats(enriched),
		Range: ports.ReportRange{
			From:        r.From.Format("2006-01-02"),
			To:          r.To.Format("2006-01-02"),
			Granularity: string(r.Granularity()),
		},
	}, nil
}

// Evolution buckets the window's tickets by creation period and
// aggregates each bucket.
func (s *ResolutionService) Evolution(ctx context.Context, r domain.DateRange) ([]ports.ResolutionEvolution, error) {
	enriched, err := s.enrichWindow(ctx, r)
	if err != nil {
		return nil, err
	}

	granularity := r.Granularity()
	buckets := make(map[string][]domain.EnrichedTicket)
	for _, t := range enriched {
		key := domain.PeriodKey(t.Date, granularity)
		buckets[key] = append(buckets[key], t)
	}

	periods := make([]string, 0, len(buckets))
	for key := range buckets {
		periods = append(periods, key)
	}
	sort.Strings(periods)

	out := make([]ports.ResolutionEvolution, 0, len(periods))
	for _, period := range periods {
		out = append(out, ports.ResolutionEvolution{
			Period: period,
			Stats:  domain.ComputeActiveStats(buckets[period]),
		})
	}
	return out, nil
}

// ByPriority aggregates the window per priority. Known priorities always
// appear, even with no tickets.
func (s *ResolutionService) ByPriority(ctx context.Context, r domain.DateRange) ([]ports.ResolutionByPriority, error) {
	enriched, err := s.enrichWindow(ctx, r)
	if err != nil {
		return nil, err
	}

	buckets := make(map[int][]domain.EnrichedTicket)
	for _, t := range enriched {
		buckets[t.Priority] = append(buckets[t.Priority], t)
	}

	priorities := domain.Priorities()
	for p := range buckets {
		known := false
		for _, k := range priorities {
			if k == p {
				known = true
				break
			}
		}
		if !known {
			priorities = append(priorities, p)
		}
	}

	out := make([]ports.ResolutionByPriority, 0, len(priorities))
	for _, p := range priorities {
		out = append(out, ports.ResolutionByPriority{
			Priority: p,
			Label:    domain.PriorityLabel(p),
			Stats:    domain.ComputeActiveStats(buckets[p]),
		})
	}
	return out, nil
}
