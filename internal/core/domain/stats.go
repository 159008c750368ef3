package domain

import "math"

// ActiveStats aggregates the computed durations of a bucket of tickets.
// All pointer fields are nil when Count is 0.
type ActiveStats struct {
	Count           int      `json:"count"`
	AvgActiveHours  *float64 `json:"avg_active_hours"`
	MinActiveHours  *float64 `json:"min_active_hours"`
	MaxActiveHours  *float64 `json:"max_active_hours"`
	AvgBrutHours    *float64 `json:"avg_brut_hours"`
	AvgPauseMinutes *int     `json:"avg_pause_minutes"`
}

// ComputeActiveStats aggregates over the tickets that carry an active
// duration, ignoring unresolved ones.
func ComputeActiveStats(tickets []EnrichedTicket) ActiveStats {
	var (
		count      int
		sumActive  float64
		minActive  = math.MaxFloat64
		maxActive  float64
		sumBrut    float64
		sumPause   float64
	)

	for _, t := range tickets {
		if t.ActiveMinutes == nil {
			continue
		}
		count++
		active := float64(*t.ActiveMinutes)
		sumActive += active
		if active < minActive {
			minActive = active
		}
		if active > maxActive {
			maxActive = active
		}
		sumBrut += float64(*t.BrutMinutes)
		sumPause += float64(t.PauseMinutes)
	}

	if count == 0 {
		return ActiveStats{}
	}

	n := float64(count)
	avgActive := round2(sumActive / n / 60)
	minHours := round2(minActive / 60)
	maxHours := round2(maxActive / 60)
	avgBrut := round2(sumBrut / n / 60)
	avgPause := int(math.Round(sumPause / n))

	return ActiveStats{
		Count:           count,
		AvgActiveHours:  &avgActive,
		MinActiveHours:  &minHours,
		MaxActiveHours:  &maxHours,
		AvgBrutHours:    &avgBrut,
		AvgPauseMinutes: &avgPause,
	}
}
