package domain

import (
	"fmt"
	"time"
)

// GLPI ticket status codes (glpi_tickets.status)
const (
	StatusNew        = 1
	StatusInProgress = 2
	StatusPlanned    = 3
	StatusPending    = 4
	StatusSolved     = 5
	StatusClosed     = 6
)

// GLPI priority codes (glpi_tickets.priority)
const (
	PriorityVeryHigh = 1
	PriorityHigh     = 2
	PriorityMedium   = 3
	PriorityLow      = 4
	PriorityVeryLow  = 5
	PriorityMajor    = 6
)

// statusLabels carries the French labels of the GLPI instances this
// service reports on.
var statusLabels = map[int]string{
	StatusNew:        "Nouveau",
	StatusInProgress: "En cours (assigné)",
	StatusPlanned:    "En cours (planifié)",
	StatusPending:    "En attente",
	StatusSolved:     "Résolu",
	StatusClosed:     "Clôturé",
}

var priorityLabels = map[int]string{
	PriorityVeryHigh: "Très haute",
	PriorityHigh:     "Haute",
	PriorityMedium:   "Moyenne",
	PriorityLow:      "Basse",
	PriorityVeryLow:  "Très basse",
	PriorityMajor:    "Majeure",
}

// StatusLabel returns the display label for a GLPI status code.
func StatusLabel(status int) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return fmt.Sprintf("Statut %d", status)
}

// PriorityLabel returns the display label for a GLPI priority code.
func PriorityLabel(priority int) string {
	if label, ok := priorityLabels[priority]; ok {
		return label
	}
	return fmt.Sprintf("P%d", priority)
}

// Priorities lists the known priority codes in display order.
func Priorities() []int {
	return []int{PriorityVeryHigh, PriorityHigh, PriorityMedium, PriorityLow, PriorityVeryLow, PriorityMajor}
}

// Ticket is a read-only projection of a glpi_tickets row, limited to the
// columns the reporting engine needs.
type Ticket struct {
	ID            int64
	Date          time.Time  // creation timestamp
	SolveDate     *time.Time // nil while unresolved
	Status        int
	Priority      int
	SlasIDTTR     int64      // vendor TTR SLA id, 0 when none attached
	TimeToResolve *time.Time // vendor-computed deadline, nil when none
	CategoryID    int64
}

// IsResolved reports whether the ticket reached a terminal status with a
// recorded solve date.
func (t Ticket) IsResolved() bool {
	return (t.Status == StatusSolved || t.Status == StatusClosed) && t.SolveDate != nil
}

// HasVendorSla reports whether GLPI itself attached a TTR SLA and computed
// a deadline for this ticket.
func (t Ticket) HasVendorSla() bool {
	return t.SlasIDTTR > 0 && t.TimeToResolve != nil
}
