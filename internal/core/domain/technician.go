package domain

// Technician is a GLPI user appearing as ticket assignee (type 2 in
// glpi_tickets_users) over a reporting window.
type Technician struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FullName     string `json:"fullname"`
	TotalTickets int    `json:"total_tickets"`
}

// TechnicianKPI aggregates one technician's assignments. Resolution hours
// are SQL-side averages over brut time; pause exclusion is a whole-desk
// report concern, not a per-technician one.
type TechnicianKPI struct {
	Total              int      `json:"total"`
	Resolved           int      `json:"resolved"`
	Open               int      `json:"open"`
	Pending            int      `json:"pending"`
	AvgResolutionHours *float64 `json:"avg_resolution_hours"`
	MinResolutionHours *float64 `json:"min_resolution_hours"`
	MaxResolutionHours *float64 `json:"max_resolution_hours"`
	ResolutionRate     float64  `json:"resolution_rate"`
}

// TechnicianPeriodPoint is one evolution bucket of a technician report.
type TechnicianPeriodPoint struct {
	Period   string   `json:"period"`
	Total    int      `json:"total"`
	Resolved int      `json:"resolved"`
	AvgHours *float64 `json:"avg_hours"`
}

// PriorityBreakdown is a per-priority count with its resolved share.
type PriorityBreakdown struct {
	Priority int    `json:"priority"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
	Resolved int    `json:"resolved"`
}

// StatusBreakdown is a per-status count.
type StatusBreakdown struct {
	Status int    `json:"status"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}

// CategoryCount is a ticket count for one ITIL category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// TeamAverages are the cross-technician baselines shown next to an
// individual technician's numbers.
type TeamAverages struct {
	AvgTickets *float64 `json:"team_avg_tickets"`
	AvgHours   *float64 `json:"team_avg_hours"`
}

// TechnicianReport is the full per-technician statistics payload.
type TechnicianReport struct {
	Technician Technician              `json:"user"`
	KPI        TechnicianKPI           `json:"kpi"`
	Evolution  []TechnicianPeriodPoint `json:"evolution"`
	ByPriority []PriorityBreakdown     `json:"by_priority"`
	ByStatus   []StatusBreakdown       `json:"by_status"`
	Categories []CategoryCount         `json:"categories"`
	TeamAvg    TeamAverages            `json:"team_avg"`
}
