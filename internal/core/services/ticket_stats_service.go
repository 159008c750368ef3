package services

import (
	"context"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
)

// TicketStatsService produces ticket volume reports. Aggregation happens
// SQL-side in the ticket source; this layer only derives the bucketing.
type TicketStatsService struct {
	tickets ports.TicketSource
}

var _ ports.TicketStatsService = (*TicketStatsService)(nil)

func NewTicketStatsService(tickets ports.TicketSource) *TicketStatsService {
	return &TicketStatsService{tickets: tickets}
}

func (s *TicketStatsService) Summary(ctx context.Context, r domain.DateRange) (*domain.TicketSummary, error) {
	summary, err := s.tickets.Summary(ctx, r)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *TicketStatsService) ByStatus(ctx context.Context, r domain.DateRange) ([]domain.StatusBreakdown, error) {
	return s.tickets.CountByStatus(ctx, r)
}

func (s *TicketStatsService) ByPriority(ctx context.Context, r domain.DateRange) ([]domain.PriorityCount, error) {
	return s.tickets.CountByPriority(ctx, r)
}

func (s *TicketStatsService) Evolution(ctx context.Context, r domain.DateRange) ([]domain.VolumePoint, error) {
	return s.tickets.Evolution(ctx, r, r.Granularity())
}
