package glpi

import (
	"context"
	"errors"
	"math"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	apperrors "github.com/lcrommet/glpi-insight-backend/internal/core/errors"
	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
)

// assigneeType is the glpi_tickets_users type for assigned technicians.
const assigneeType = 2

// fullNameExpr renders a displayable name from the GLPI user row.
const fullNameExpr = "TRIM(CONCAT(COALESCE(u.realname, ''), ' ', COALESCE(u.firstname, '')))"

// TechnicianSource reads per-assignee statistics from the GLPI mirror.
// Aggregations run SQL-side; only rendered rows cross the wire.
type TechnicianSource struct {
	pool *pgxpool.Pool
}

var _ ports.TechnicianSource = (*TechnicianSource)(nil)

func NewTechnicianSource(pool *pgxpool.Pool) *TechnicianSource {
	return &TechnicianSource{pool: pool}
}

// assignedTickets joins tickets to their assigned technician inside the
// reporting window.
func assignedTickets(b sq.SelectBuilder, id int64, r domain.DateRange) sq.SelectBuilder {
	return windowFilter(b, r).
		Join("glpi_tickets_users tu ON tu.tickets_id = t.id").
		Where(sq.Eq{"tu.type": assigneeType}).
		Where(sq.Eq{"tu.users_id": id})
}

// ListTechnicians returns every user assigned at least one ticket in the
// window, busiest first.
func (s *TechnicianSource) ListTechnicians(ctx context.Context, r domain.DateRange) ([]domain.Technician, error) {
	query, args, err := windowFilter(psql.
		Select("u.id", "u.name", fullNameExpr, "COUNT(t.id)").
		From("glpi_tickets t").
		Join("glpi_tickets_users tu ON tu.tickets_id = t.id").
		Join("glpi_users u ON u.id = tu.users_id").
		Where(sq.Eq{"tu.type": assigneeType}), r).
		GroupBy("u.id", "u.name", "u.realname", "u.firstname").
		OrderBy("COUNT(t.id) DESC", "u.id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Technician, 0)
	for rows.Next() {
		var tech domain.Technician
		if err := rows.Scan(&tech.ID, &tech.Username, &tech.FullName, &tech.TotalTickets); err != nil {
			return nil, err
		}
		if tech.FullName == "" {
			tech.FullName = tech.Username
		}
		out = append(out, tech)
	}
	return out, rows.Err()
}

func (s *TechnicianSource) GetTechnician(ctx context.Context, id int64) (*domain.Technician, error) {
	query, args, err := psql.
		Select("u.id", "u.name", fullNameExpr).
		From("glpi_users u").
		Where(sq.Eq{"u.id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var tech domain.Technician
	row := s.pool.QueryRow(ctx, query, args...)
	if err := row.Scan(&tech.ID, &tech.Username, &tech.FullName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTechnicianNotFound
		}
		return nil, err
	}
	if tech.FullName == "" {
		tech.FullName = tech.Username
	}
	return &tech, nil
}

// resolutionHoursExpr measures brut resolution time of resolved tickets
// in hours, rounded to two decimals.
const resolutionHoursExpr = "EXTRACT(EPOCH FROM (t.solvedate - t.date)) / 3600.0"

func (s *TechnicianSource) TechnicianKPI(ctx context.Context, id int64, r domain.DateRange) (domain.TechnicianKPI, error) {
	query, args, err := assignedTickets(psql.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE t.status IN (5, 6))",
		"COUNT(*) FILTER (WHERE t.status IN (1, 2, 3))",
		"COUNT(*) FILTER (WHERE t.status = 4)",
		"ROUND(AVG("+resolutionHoursExpr+") FILTER (WHERE t.status IN (5, 6) AND t.solvedate IS NOT NULL)::numeric, 2)",
		"ROUND(MIN("+resolutionHoursExpr+") FILTER (WHERE t.status IN (5, 6) AND t.solvedate IS NOT NULL)::numeric, 2)",
		"ROUND(MAX("+resolutionHoursExpr+") FILTER (WHERE t.status IN (5, 6) AND t.solvedate IS NOT NULL)::numeric, 2)",
	).From("glpi_tickets t"), id, r).ToSql()
	if err != nil {
		return domain.TechnicianKPI{}, err
	}

	var (
		kpi           domain.TechnicianKPI
		avg, min, max pgtype.Float8
	)
	row := s.pool.QueryRow(ctx, query, args...)
	if err := row.Scan(&kpi.Total, &kpi.Resolved, &kpi.Open, &kpi.Pending, &avg, &min, &max); err != nil {
		return domain.TechnicianKPI{}, err
	}
	kpi.AvgResolutionHours = floatPtr(avg)
	kpi.MinResolutionHours = floatPtr(min)
	kpi.MaxResolutionHours = floatPtr(max)
	if kpi.Total > 0 {
		kpi.ResolutionRate = round1(float64(kpi.Resolved) * 100 / float64(kpi.Total))
	}
	return kpi, nil
}

func (s *TechnicianSource) TechnicianEvolution(ctx context.Context, id int64, r domain.DateRange, g domain.Granularity) ([]domain.TechnicianPeriodPoint, error) {
	query, args, err := assignedTickets(psql.Select(
		"to_char(t.date, ?) AS period",
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE t.status IN (5, 6))",
		"ROUND(AVG("+resolutionHoursExpr+") FILTER (WHERE t.status IN (5, 6) AND t.solvedate IS NOT NULL)::numeric, 2)",
	).From("glpi_tickets t"), id, r).
		GroupBy("period").
		OrderBy("period").
		ToSql()
	if err != nil {
		return nil, err
	}
	args = append([]interface{}{periodFormat(g)}, args...)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.TechnicianPeriodPoint, 0)
	for rows.Next() {
		var (
			p   domain.TechnicianPeriodPoint
			avg pgtype.Float8
		)
		if err := rows.Scan(&p.Period, &p.Total, &p.Resolved, &avg); err != nil {
			return nil, err
		}
		p.AvgHours = floatPtr(avg)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *TechnicianSource) TechnicianByPriority(ctx context.Context, id int64, r domain.DateRange) ([]domain.PriorityBreakdown, error) {
	query, args, err := assignedTickets(psql.Select(
		"t.priority",
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE t.status IN (5, 6))",
	).From("glpi_tickets t"), id, r).
		GroupBy("t.priority").
		OrderBy("t.priority").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.PriorityBreakdown, 0)
	for rows.Next() {
		var b domain.PriorityBreakdown
		if err := rows.Scan(&b.Priority, &b.Count, &b.Resolved); err != nil {
			return nil, err
		}
		b.Label = domain.PriorityLabel(b.Priority)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *TechnicianSource) TechnicianByStatus(ctx context.Context, id int64, r domain.DateRange) ([]domain.StatusBreakdown, error) {
	query, args, err := assignedTickets(psql.Select("t.status", "COUNT(*)").From("glpi_tickets t"), id, r).
		GroupBy("t.status").
		OrderBy("t.status").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.StatusBreakdown, 0)
	for rows.Next() {
		var b domain.StatusBreakdown
		if err := rows.Scan(&b.Status, &b.Count); err != nil {
			return nil, err
		}
		b.Label = domain.StatusLabel(b.Status)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *TechnicianSource) TechnicianCategories(ctx context.Context, id int64, r domain.DateRange, limit int) ([]domain.CategoryCount, error) {
	query, args, err := assignedTickets(psql.Select(
		"COALESCE(c.name, 'Non catégorisé')",
		"COUNT(*)",
	).From("glpi_tickets t"), id, r).
		LeftJoin("glpi_itilcategories c ON c.id = t.itilcategories_id").
		GroupBy("c.name").
		OrderBy("COUNT(*) DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.CategoryCount, 0)
	for rows.Next() {
		var c domain.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// TeamAverages computes per-technician baselines over the whole window:
// average assignment count and average brut resolution hours.
func (s *TechnicianSource) TeamAverages(ctx context.Context, r domain.DateRange) (domain.TeamAverages, error) {
	inner := windowFilter(psql.Select(
		"tu.users_id",
		"COUNT(*) AS total",
		"AVG("+resolutionHoursExpr+") FILTER (WHERE t.status IN (5, 6) AND t.solvedate IS NOT NULL) AS hours",
	).From("glpi_tickets t").
		Join("glpi_tickets_users tu ON tu.tickets_id = t.id").
		Where(sq.Eq{"tu.type": assigneeType}), r).
		GroupBy("tu.users_id")

	query, args, err := psql.
		Select("ROUND(AVG(per.total)::numeric, 1)", "ROUND(AVG(per.hours)::numeric, 2)").
		FromSelect(inner, "per").
		ToSql()
	if err != nil {
		return domain.TeamAverages{}, err
	}

	var avgTickets, avgHours pgtype.Float8
	row := s.pool.QueryRow(ctx, query, args...)
	if err := row.Scan(&avgTickets, &avgHours); err != nil {
		return domain.TeamAverages{}, err
	}
	return domain.TeamAverages{
		AvgTickets: floatPtr(avgTickets),
		AvgHours:   floatPtr(avgHours),
	}, nil
}

func floatPtr(v pgtype.Float8) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
