package domain

import "time"

// SlaSource identifies which side computed a ticket's deadline.
type SlaSource string

const (
	// SlaSourceGlpi means GLPI attached a TTR SLA and computed the
	// deadline itself, business calendars included.
	SlaSourceGlpi SlaSource = "glpi"
	// SlaSourceManual means the deadline was derived locally from the
	// per-priority target, extended by the ticket's pause time.
	SlaSourceManual SlaSource = "manual"
)

// SlaTargets maps a priority code to its resolution target in hours.
type SlaTargets map[int]float64

// DefaultSlaTargets returns the built-in per-priority targets.
func DefaultSlaTargets() SlaTargets {
	return SlaTargets{
		PriorityVeryHigh: 4,
		PriorityHigh:     8,
		PriorityMedium:   24,
		PriorityLow:      72,
		PriorityVeryLow:  168,
		PriorityMajor:    2,
	}
}

// MergeOverrides returns a copy of the defaults with the given per-key
// overrides applied. Unknown priorities in the overrides are kept as-is
// so custom GLPI priority schemes keep working.
func (t SlaTargets) MergeOverrides(overrides map[int]float64) SlaTargets {
	merged := make(SlaTargets, len(t))
	for k, v := range t {
		merged[k] = v
	}
	for k, v := range overrides {
		if v > 0 {
			merged[k] = v
		}
	}
	return merged
}

// TargetFor returns the target hours for a priority, falling back to the
// medium-priority default for unknown codes.
func (t SlaTargets) TargetFor(priority int) float64 {
	if target, ok := t[priority]; ok {
		return target
	}
	return DefaultSlaTargets()[PriorityMedium]
}

// SlaEvaluation is the verdict for one resolved ticket.
type SlaEvaluation struct {
	TicketID int64
	Priority int
	Source   SlaSource
	Deadline time.Time
	OnTime   bool
}

// EvaluateSla computes the SLA verdict for a ticket. The boolean is false
// for unresolved tickets, which carry no verdict.
//
// pauseMinutes only matters for the manual source: the vendor deadline
// already accounts for pauses through GLPI's own calendars.
func EvaluateSla(t Ticket, pauseMinutes int, targets SlaTargets) (SlaEvaluation, bool) {
	if !t.IsResolved() {
		return SlaEvaluation{}, false
	}

	eval := SlaEvaluation{TicketID: t.ID, Priority: t.Priority}

	if t.HasVendorSla() {
		eval.Source = SlaSourceGlpi
		eval.Deadline = *t.TimeToResolve
	} else {
		eval.Source = SlaSourceManual
		allowed := time.Duration(targets.TargetFor(t.Priority)*60+float64(pauseMinutes)) * time.Minute
		eval.Deadline = t.Date.Add(allowed)
	}

	eval.OnTime = !t.SolveDate.After(eval.Deadline)
	return eval, true
}

// SlaPriorityReport is the per-priority rollup of SLA verdicts.
type SlaPriorityReport struct {
	Priority       int      `json:"priority"`
	Label          string   `json:"label"`
	TargetHours    float64  `json:"target_hours"`
	Total          int      `json:"total"`
	StillOpen      int      `json:"still_open"`
	GlpiWithin     int      `json:"glpi_within"`
	GlpiBreached   int      `json:"glpi_breached"`
	ManualWithin   int      `json:"manual_within"`
	ManualBreached int      `json:"manual_breached"`
	Rate           *float64 `json:"rate"`
	GlpiRate       *float64 `json:"glpi_rate"`
	ManualRate     *float64 `json:"manual_rate"`
}

// SlaMeta carries the source split of the summary. TicketsGlpiSla and
// TicketsManualSla always sum to TotalResolved.
type SlaMeta struct {
	TotalResolved    int `json:"total_resolved"`
	TicketsGlpiSla   int `json:"tickets_glpi_sla"`
	TicketsManualSla int `json:"tickets_manual_sla"`
}

// SlaSummary is the full compliance report over a reporting window.
type SlaSummary struct {
	Priorities       []SlaPriorityReport `json:"priorities"`
	GlobalRate       *float64            `json:"global_rate"`
	GlobalGlpiRate   *float64            `json:"global_glpi_rate"`
	GlobalManualRate *float64            `json:"global_manual_rate"`
	Targets          SlaTargets          `json:"targets"`
	Meta             SlaMeta             `json:"meta"`
}

// ComputeSlaSummary rolls ticket verdicts up per priority and globally.
// tickets is the full window population, evals the verdicts of its
// resolved subset keyed by ticket ID.
func ComputeSlaSummary(tickets []Ticket, evals map[int64]SlaEvaluation, targets SlaTargets) SlaSummary {
	byPriority := make(map[int]*SlaPriorityReport)
	order := make([]int, 0)

	report := func(priority int) *SlaPriorityReport {
		if r, ok := byPriority[priority]; ok {
			return r
		}
		r := &SlaPriorityReport{
			Priority:    priority,
			Label:       PriorityLabel(priority),
			TargetHours: targets.TargetFor(priority),
		}
		byPriority[priority] = r
		order = append(order, priority)
		return r
	}

	// Known priorities always appear, even when empty.
	for _, p := range Priorities() {
		report(p)
	}

	meta := SlaMeta{}
	for _, t := range tickets {
		r := report(t.Priority)
		r.Total++

		eval, ok := evals[t.ID]
		if !ok {
			r.StillOpen++
			continue
		}

		meta.TotalResolved++
		switch eval.Source {
		case SlaSourceGlpi:
			meta.TicketsGlpiSla++
			if eval.OnTime {
				r.GlpiWithin++
			} else {
				r.GlpiBreached++
			}
		case SlaSourceManual:
			meta.TicketsManualSla++
			if eval.OnTime {
				r.ManualWithin++
			} else {
				r.ManualBreached++
			}
		}
	}

	var globalWithin, globalBreached, glpiWithin, glpiBreached, manualWithin, manualBreached int
	priorities := make([]SlaPriorityReport, 0, len(order))
	for _, p := range order {
		r := byPriority[p]
		r.Rate = complianceRate(r.GlpiWithin+r.ManualWithin, r.GlpiBreached+r.ManualBreached)
		r.GlpiRate = complianceRate(r.GlpiWithin, r.GlpiBreached)
		r.ManualRate = complianceRate(r.ManualWithin, r.ManualBreached)

		globalWithin += r.GlpiWithin + r.ManualWithin
		globalBreached += r.GlpiBreached + r.ManualBreached
		glpiWithin += r.GlpiWithin
		glpiBreached += r.GlpiBreached
		manualWithin += r.ManualWithin
		manualBreached += r.ManualBreached

		priorities = append(priorities, *r)
	}

	return SlaSummary{
		Priorities:       priorities,
		GlobalRate:       complianceRate(globalWithin, globalBreached),
		GlobalGlpiRate:   complianceRate(glpiWithin, glpiBreached),
		GlobalManualRate: complianceRate(manualWithin, manualBreached),
		Targets:          targets,
		Meta:             meta,
	}
}

func complianceRate(within, breached int) *float64 {
	total := within + breached
	if total == 0 {
		return nil
	}
	rate := round1(float64(within) / float64(total) * 100)
	return &rate
}
