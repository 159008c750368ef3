package glpi

import (
	"context"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
)

// statusLogChunkSize bounds the IN clause of the journal queries so a
// large window never produces an unbounded parameter list.
const statusLogChunkSize = 1000

// statusFieldSearchOption is the id_search_option value of the status
// field in GLPI's log schema. Both journal tables record every field
// change; without this filter a priority or assignment edit would be
// read as a status event.
const statusFieldSearchOption = 12

// journalQuerier is the slice of the pgx pool the loader needs.
type journalQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// StatusLogSource reads ticket status journals from the GLPI mirror.
// glpi_logs is the primary table; glpi_tickets_logs is an alternate
// journal some installations populate instead.
type StatusLogSource struct {
	db     journalQuerier
	logger *slog.Logger
}

var _ ports.StatusLogSource = (*StatusLogSource)(nil)

func NewStatusLogSource(pool *pgxpool.Pool, logger *slog.Logger) *StatusLogSource {
	return &StatusLogSource{db: pool, logger: logger}
}

// LoadStatusLogs returns status change events grouped by ticket, in
// journal order. When both journal tables are unreadable it degrades to
// an empty map so callers can still report brut durations.
func (s *StatusLogSource) LoadStatusLogs(ctx context.Context, ticketIDs []int64) (map[int64][]domain.StatusChangeEvent, error) {
	events := make(map[int64][]domain.StatusChangeEvent)
	if len(ticketIDs) == 0 {
		return events, nil
	}

	for start := 0; start < len(ticketIDs); start += statusLogChunkSize {
		end := start + statusLogChunkSize
		if end > len(ticketIDs) {
			end = len(ticketIDs)
		}
		chunk := ticketIDs[start:end]

		if err := s.loadChunkPrimary(ctx, chunk, events); err != nil {
			s.logger.Warn("primary status journal unavailable, trying fallback table",
				slog.String("error", err.Error()))
			if fbErr := s.loadChunkFallback(ctx, chunk, events); fbErr != nil {
				s.logger.Warn("status journal unavailable, pause exclusion disabled for this request",
					slog.String("primary_error", err.Error()),
					slog.String("fallback_error", fbErr.Error()))
				return make(map[int64][]domain.StatusChangeEvent), nil
			}
		}
	}
	return events, nil
}

// loadChunkPrimary reads glpi_logs rows for ticket status changes.
// id_search_option 12 is the status field in GLPI's log schema.
func (s *StatusLogSource) loadChunkPrimary(ctx context.Context, chunk []int64, events map[int64][]domain.StatusChangeEvent) error {
	query, args, err := psql.
		Select("l.items_id", "COALESCE(l.old_value, '')", "COALESCE(l.new_value, '')", "l.date_mod").
		From("glpi_logs l").
		Where(sq.Eq{"l.itemtype": "Ticket"}).
		Where(sq.Eq{"l.id_search_option": statusFieldSearchOption}).
		Where(sq.Eq{"l.items_id": chunk}).
		OrderBy("l.items_id", "l.date_mod").
		ToSql()
	if err != nil {
		return err
	}
	return s.scanEvents(ctx, query, args, events)
}

func (s *StatusLogSource) loadChunkFallback(ctx context.Context, chunk []int64, events map[int64][]domain.StatusChangeEvent) error {
	query, args, err := psql.
		Select("l.tickets_id", "COALESCE(l.old_value, '')", "COALESCE(l.new_value, '')", "l.date_mod").
		From("glpi_tickets_logs l").
		Where(sq.Eq{"l.id_search_option": statusFieldSearchOption}).
		Where(sq.Eq{"l.tickets_id": chunk}).
		OrderBy("l.tickets_id", "l.date_mod").
		ToSql()
	if err != nil {
		return err
	}
	return s.scanEvents(ctx, query, args, events)
}

func (s *StatusLogSource) scanEvents(ctx context.Context, query string, args []interface{}, events map[int64][]domain.StatusChangeEvent) error {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.StatusChangeEvent
		if err := rows.Scan(&e.TicketID, &e.OldValue, &e.NewValue, &e.ChangedAt); err != nil {
			return err
		}
		events[e.TicketID] = append(events[e.TicketID], e)
	}
	return rows.Err()
}
