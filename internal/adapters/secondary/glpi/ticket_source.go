package glpi

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
)

// psql builds queries with $n placeholders for the Postgres mirror.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// TicketSource reads glpi_tickets from a read-only GLPI mirror.
type TicketSource struct {
	pool *pgxpool.Pool
}

var _ ports.TicketSource = (*TicketSource)(nil)

func NewTicketSource(pool *pgxpool.Pool) *TicketSource {
	return &TicketSource{pool: pool}
}

const ticketColumns = "t.id, t.date, t.solvedate, t.status, t.priority, t.slas_id_ttr, t.time_to_resolve, t.itilcategories_id"

// windowFilter scopes a query to non-deleted tickets created inside the
// reporting window.
func windowFilter(b sq.SelectBuilder, r domain.DateRange) sq.SelectBuilder {
	return b.
		Where(sq.Eq{"t.is_deleted": 0}).
		Where(sq.GtOrEq{"t.date": r.From}).
		Where(sq.LtOrEq{"t.date": r.To})
}

// ListResolved returns the window's resolved tickets with a resolution
// time of at least one full minute, mirroring how GLPI truncates
// durations to minutes.
func (s *TicketSource) ListResolved(ctx context.Context, r domain.DateRange) ([]domain.Ticket, error) {
	query, args, err := windowFilter(psql.Select(ticketColumns).From("glpi_tickets t"), r).
		Where(sq.Eq{"t.status": []int{domain.StatusSolved, domain.StatusClosed}}).
		Where("t.solvedate IS NOT NULL").
		Where("t.solvedate >= t.date + interval '1 minute'").
		OrderBy("t.id").
		ToSql()
	if err != nil {
		return nil, err
	}
	return s.queryTickets(ctx, query, args)
}

// ListForSla returns the full SLA population of the window, resolved or
// not, with the vendor SLA columns populated.
func (s *TicketSource) ListForSla(ctx context.Context, r domain.DateRange) ([]domain.Ticket, error) {
	query, args, err := windowFilter(psql.Select(ticketColumns).From("glpi_tickets t"), r).
		OrderBy("t.id").
		ToSql()
	if err != nil {
		return nil, err
	}
	return s.queryTickets(ctx, query, args)
}

func (s *TicketSource) queryTickets(ctx context.Context, query string, args []interface{}) ([]domain.Ticket, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		var (
			t             domain.Ticket
			solveDate     pgtype.Timestamp
			slasIDTTR     pgtype.Int8
			timeToResolve pgtype.Timestamp
			categoryID    pgtype.Int8
		)
		if err := rows.Scan(&t.ID, &t.Date, &solveDate, &t.Status, &t.Priority, &slasIDTTR, &timeToResolve, &categoryID); err != nil {
			return nil, err
		}
		if solveDate.Valid {
			v := solveDate.Time
			t.SolveDate = &v
		}
		if slasIDTTR.Valid {
			t.SlasIDTTR = slasIDTTR.Int64
		}
		if timeToResolve.Valid {
			v := timeToResolve.Time
			t.TimeToResolve = &v
		}
		if categoryID.Valid {
			t.CategoryID = categoryID.Int64
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}

// Summary counts the window's tickets per status bucket.
func (s *TicketSource) Summary(ctx context.Context, r domain.DateRange) (domain.TicketSummary, error) {
	query, args, err := windowFilter(psql.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE t.status = 1)",
		"COUNT(*) FILTER (WHERE t.status IN (2, 3))",
		"COUNT(*) FILTER (WHERE t.status = 4)",
		"COUNT(*) FILTER (WHERE t.status = 5)",
		"COUNT(*) FILTER (WHERE t.status = 6)",
	).From("glpi_tickets t"), r).ToSql()
	if err != nil {
		return domain.TicketSummary{}, err
	}

	var summary domain.TicketSummary
	row := s.pool.QueryRow(ctx, query, args...)
	if err := row.Scan(&summary.Total, &summary.New, &summary.InProgress, &summary.Pending, &summary.Solved, &summary.Closed); err != nil {
		return domain.TicketSummary{}, err
	}
	return summary, nil
}

// CountByStatus returns per-status counts with display labels.
func (s *TicketSource) CountByStatus(ctx context.Context, r domain.DateRange) ([]domain.StatusBreakdown, error) {
	query, args, err := windowFilter(psql.Select("t.status", "COUNT(*)").From("glpi_tickets t"), r).
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

// CountByPriority returns per-priority counts with display labels.
func (s *TicketSource) CountByPriority(ctx context.Context, r domain.DateRange) ([]domain.PriorityCount, error) {
	query, args, err := windowFilter(psql.Select("t.priority", "COUNT(*)").From("glpi_tickets t"), r).
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

	out := make([]domain.PriorityCount, 0)
	for rows.Next() {
		var c domain.PriorityCount
		if err := rows.Scan(&c.Priority, &c.Count); err != nil {
			return nil, err
		}
		c.Label = domain.PriorityLabel(c.Priority)
		out = append(out, c)
	}
	return out, rows.Err()
}

// periodFormat maps a granularity to the to_char pattern producing the
// matching period key. Weeks use ISO numbering.
func periodFormat(g domain.Granularity) string {
	switch g {
	case domain.GranularityWeek:
		return `IYYY-"S"IW`
	case domain.GranularityMonth:
		return "YYYY-MM"
	default:
		return "YYYY-MM-DD"
	}
}

// Evolution counts created and resolved tickets per creation period.
func (s *TicketSource) Evolution(ctx context.Context, r domain.DateRange, g domain.Granularity) ([]domain.VolumePoint, error) {
	query, args, err := windowFilter(psql.Select(
		"to_char(t.date, ?) AS period",
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE t.status IN (5, 6) AND t.solvedate IS NOT NULL)",
	).From("glpi_tickets t"), r).
		GroupBy("period").
		OrderBy("period").
		ToSql()
	if err != nil {
		return nil, err
	}
	// The select-list placeholder renders first.
	args = append([]interface{}{periodFormat(g)}, args...)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.VolumePoint, 0)
	for rows.Next() {
		var p domain.VolumePoint
		if err := rows.Scan(&p.Period, &p.Total, &p.Resolved); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
