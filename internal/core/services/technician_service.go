package services

import (
	"context"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
)

const technicianCategoryLimit = 8

// TechnicianService assembles per-technician assignment reports.
type TechnicianService struct {
	source ports.TechnicianSource
}

var _ ports.TechnicianService = (*TechnicianService)(nil)

func NewTechnicianService(source ports.TechnicianSource) *TechnicianService {
	return &TechnicianService{source: source}
}

// List returns the technicians with assignments inside the window.
func (s *TechnicianService) List(ctx context.Context, r domain.DateRange) ([]domain.Technician, error) {
	return s.source.ListTechnicians(ctx, r)
}

// Report assembles the full statistics payload of one technician.
func (s *TechnicianService) Report(ctx context.Context, technicianID int64, r domain.DateRange) (*domain.TechnicianReport, error) {
	tech, err := s.source.GetTechnician(ctx, technicianID)
	if err != nil {
		return nil, err
	}

	kpi, err := s.source.TechnicianKPI(ctx, technicianID, r)
	if err != nil {
		return nil, err
	}

	evolution, err := s.source.TechnicianEvolution(ctx, technicianID, r, r.Granularity())
	if err != nil {
		return nil, err
	}

	byPriority, err := s.source.TechnicianByPriority(ctx, technicianID, r)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.source.TechnicianByStatus(ctx, technicianID, r)
	if err != nil {
		return nil, err
	}

	categories, err := s.source.TechnicianCategories(ctx, technicianID, r, technicianCategoryLimit)
	if err != nil {
		return nil, err
	}

	teamAvg, err := s.source.TeamAverages(ctx, r)
	if err != nil {
		return nil, err
	}

	return &domain.TechnicianReport{
		Technician: *tech,
		KPI:        kpi,
		Evolution:  evolution,
		ByPriority: byPriority,
		ByStatus:   byStatus,
		Categories: categories,
		TeamAvg:    teamAvg,
	}, nil
}
