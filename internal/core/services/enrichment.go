package services

import (
	"context"
	"log/slog"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
)

// loadEnriched fetches the status journals for a batch of tickets and
// computes their durations. A journal outage surfaces as an empty map
// upstream, which degrades every pause to zero here.
func loadEnriched(
	ctx context.Context,
	logSource ports.StatusLogSource,
	tickets []domain.Ticket,
	matcher domain.PendingMatcher,
	logger *slog.Logger,
) ([]domain.EnrichedTicket, error) {
	ids := make([]int64, 0, len(tickets))
	for _, t := range tickets {
		ids = append(ids, t.ID)
	}

	logs, err := logSource.LoadStatusLogs(ctx, ids)
	if err != nil {
		return nil, err
	}

	logUnknownStatusValues(logs, logger)
	return domain.EnrichTickets(tickets, logs, matcher), nil
}

// logUnknownStatusValues surfaces journal values outside the known status
// vocabulary. A steady stream of these usually means the instance uses a
// custom pending label that should be added to the pending_labels setting.
func logUnknownStatusValues(logs map[int64][]domain.StatusChangeEvent, logger *slog.Logger) {
	seen := make(map[string]int)
	for _, events := range logs {
		for _, ev := range events {
			for _, v := range []string{ev.OldValue, ev.NewValue} {
				if v != "" && !domain.IsKnownStatusValue(v) {
					seen[v]++
				}
			}
		}
	}
	for value, count := range seen {
		logger.Debug("unrecognized status value in journal", "value", value, "occurrences", count)
	}
}
