package domain

// TicketSummary is the status-bucket headcount of a reporting window.
// InProgress covers both assigned and planned tickets.
type TicketSummary struct {
	Total      int `json:"total"`
	New        int `json:"new"`
	InProgress int `json:"in_progress"`
	Pending    int `json:"pending"`
	Solved     int `json:"solved"`
	Closed     int `json:"closed"`
}

// VolumePoint is one evolution bucket of created versus resolved counts.
type VolumePoint struct {
	Period   string `json:"period"`
	Total    int    `json:"total"`
	Resolved int    `json:"resolved"`
}

// PriorityCount is a simple per-priority ticket count.
type PriorityCount struct {
	Priority int    `json:"priority"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
}
