package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
)

func TestSlaTargets(t *testing.T) {
	t.Run("defaults cover every priority", func(t *testing.T) {
		targets := domain.DefaultSlaTargets()

		assert.Equal(t, 4.0, targets[domain.PriorityVeryHigh])
		assert.Equal(t, 8.0, targets[domain.PriorityHigh])
		assert.Equal(t, 24.0, targets[domain.PriorityMedium])
		assert.Equal(t, 72.0, targets[domain.PriorityLow])
		assert.Equal(t, 168.0, targets[domain.PriorityVeryLow])
		assert.Equal(t, 2.0, targets[domain.PriorityMajor])
	})

	t.Run("overrides merge per key", func(t *testing.T) {
		merged := domain.DefaultSlaTargets().MergeOverrides(map[int]float64{
			domain.PriorityVeryHigh: 2,
		})

		assert.Equal(t, 2.0, merged[domain.PriorityVeryHigh])
		assert.Equal(t, 8.0, merged[domain.PriorityHigh])
	})

	t.Run("non-positive overrides are ignored", func(t *testing.T) {
		merged := domain.DefaultSlaTargets().MergeOverrides(map[int]float64{
			domain.PriorityHigh: 0,
		})
		assert.Equal(t, 8.0, merged[domain.PriorityHigh])
	})

	t.Run("unknown priority falls back to medium target", func(t *testing.T) {
		assert.Equal(t, 24.0, domain.DefaultSlaTargets().TargetFor(9))
	})
}

func TestEvaluateSla(t *testing.T) {
	targets := domain.DefaultSlaTargets()

	t.Run("unresolved ticket has no verdict", func(t *testing.T) {
		ticket := domain.Ticket{ID: 1, Status: domain.StatusInProgress, Priority: domain.PriorityVeryHigh}
		_, ok := domain.EvaluateSla(ticket, 0, targets)
		assert.False(t, ok)
	})

	t.Run("vendor deadline wins when GLPI attached an SLA", func(t *testing.T) {
		ticket := domain.Ticket{
			ID:            2,
			Date:          ts("2024-01-01 09:00:00"),
			SolveDate:     tsp("2024-01-01 16:00:00"),
			Status:        domain.StatusSolved,
			Priority:      domain.PriorityVeryHigh,
			SlasIDTTR:     7,
			TimeToResolve: tsp("2024-01-01 17:00:00"),
		}

		eval, ok := domain.EvaluateSla(ticket, 600, targets)

		require.True(t, ok)
		assert.Equal(t, domain.SlaSourceGlpi, eval.Source)
		assert.Equal(t, ts("2024-01-01 17:00:00"), eval.Deadline)
		assert.True(t, eval.OnTime)
	})

	t.Run("local deadline is creation plus target", func(t *testing.T) {
		ticket := domain.Ticket{
			ID:        3,
			Date:      ts("2024-01-01 09:00:00"),
			SolveDate: tsp("2024-01-01 12:30:00"),
			Status:    domain.StatusSolved,
			Priority:  domain.PriorityVeryHigh,
		}

		eval, ok := domain.EvaluateSla(ticket, 0, targets)

		require.True(t, ok)
		assert.Equal(t, domain.SlaSourceManual, eval.Source)
		assert.Equal(t, ts("2024-01-01 13:00:00"), eval.Deadline)
		assert.True(t, eval.OnTime)
	})

	t.Run("pause time extends the local deadline", func(t *testing.T) {
		// Five elapsed hours against a four hour target, but two of
		// them were spent pending.
		ticket := domain.Ticket{
			ID:        4,
			Date:      ts("2024-01-01 09:00:00"),
			SolveDate: tsp("2024-01-01 14:00:00"),
			Status:    domain.StatusSolved,
			Priority:  domain.PriorityVeryHigh,
		}

		eval, ok := domain.EvaluateSla(ticket, 120, targets)

		require.True(t, ok)
		assert.Equal(t, ts("2024-01-01 15:00:00"), eval.Deadline)
		assert.True(t, eval.OnTime)
	})

	t.Run("breach past the extended deadline", func(t *testing.T) {
		ticket := domain.Ticket{
			ID:        5,
			Date:      ts("2024-01-01 09:00:00"),
			SolveDate: tsp("2024-01-01 15:30:00"),
			Status:    domain.StatusClosed,
			Priority:  domain.PriorityVeryHigh,
		}

		eval, ok := domain.EvaluateSla(ticket, 60, targets)

		require.True(t, ok)
		assert.False(t, eval.OnTime)
	})

	t.Run("vendor sla id without deadline falls back to local", func(t *testing.T) {
		ticket := domain.Ticket{
			ID:        6,
			Date:      ts("2024-01-01 09:00:00"),
			SolveDate: tsp("2024-01-01 10:00:00"),
			Status:    domain.StatusSolved,
			Priority:  domain.PriorityVeryHigh,
			SlasIDTTR: 7,
		}

		eval, ok := domain.EvaluateSla(ticket, 0, targets)

		require.True(t, ok)
		assert.Equal(t, domain.SlaSourceManual, eval.Source)
	})
}

func TestComputeSlaSummary(t *testing.T) {
	targets := domain.DefaultSlaTargets()

	resolved := func(id int64, priority int, date, solve string, vendor bool, deadline *time.Time) domain.Ticket {
		tk := domain.Ticket{
			ID:        id,
			Date:      ts(date),
			SolveDate: tsp(solve),
			Status:    domain.StatusSolved,
			Priority:  priority,
		}
		if vendor {
			tk.SlasIDTTR = 1
			tk.TimeToResolve = deadline
		}
		return tk
	}

	t.Run("empty window", func(t *testing.T) {
		summary := domain.ComputeSlaSummary(nil, nil, targets)

		assert.Len(t, summary.Priorities, 6)
		assert.Nil(t, summary.GlobalRate)
		assert.Equal(t, 0, summary.Meta.TotalResolved)
		for _, p := range summary.Priorities {
			assert.Nil(t, p.Rate)
			assert.Equal(t, 0, p.Total)
		}
	})

	t.Run("source split and rates", func(t *testing.T) {
		tickets := []domain.Ticket{
			resolved(1, domain.PriorityVeryHigh, "2024-01-01 09:00:00", "2024-01-01 10:00:00", true, tsp("2024-01-01 13:00:00")),
			resolved(2, domain.PriorityVeryHigh, "2024-01-01 09:00:00", "2024-01-02 10:00:00", true, tsp("2024-01-01 13:00:00")),
			resolved(3, domain.PriorityVeryHigh, "2024-01-01 09:00:00", "2024-01-01 10:00:00", false, nil),
			{ID: 4, Date: ts("2024-01-01 09:00:00"), Status: domain.StatusInProgress, Priority: domain.PriorityVeryHigh},
		}

		evals := make(map[int64]domain.SlaEvaluation)
		for _, tk := range tickets {
			if eval, ok := domain.EvaluateSla(tk, 0, targets); ok {
				evals[tk.ID] = eval
			}
		}

		summary := domain.ComputeSlaSummary(tickets, evals, targets)

		var p1 domain.SlaPriorityReport
		for _, p := range summary.Priorities {
			if p.Priority == domain.PriorityVeryHigh {
				p1 = p
			}
		}

		assert.Equal(t, 4, p1.Total)
		assert.Equal(t, 1, p1.StillOpen)
		assert.Equal(t, 1, p1.GlpiWithin)
		assert.Equal(t, 1, p1.GlpiBreached)
		assert.Equal(t, 1, p1.ManualWithin)
		assert.Equal(t, 0, p1.ManualBreached)

		require.NotNil(t, p1.Rate)
		assert.InDelta(t, 66.7, *p1.Rate, 0.001)
		require.NotNil(t, p1.GlpiRate)
		assert.Equal(t, 50.0, *p1.GlpiRate)
		require.NotNil(t, p1.ManualRate)
		assert.Equal(t, 100.0, *p1.ManualRate)

		// The source split always accounts for every resolved ticket.
		assert.Equal(t, 3, summary.Meta.TotalResolved)
		assert.Equal(t, summary.Meta.TotalResolved, summary.Meta.TicketsGlpiSla+summary.Meta.TicketsManualSla)
	})
}
