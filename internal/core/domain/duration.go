package domain

import "math"

// EnrichedTicket is a ticket annotated with its computed durations.
// Minute and hour fields are nil while the ticket is unresolved.
type EnrichedTicket struct {
	Ticket
	BrutMinutes   *int     // wall-clock creation to resolution
	PauseMinutes  int      // time spent pending, 0 when unresolved
	ActiveMinutes *int     // brut minus pause, clamped at 0
	BrutHours     *float64 // BrutMinutes / 60, 2 decimals
	ActiveHours   *float64 // ActiveMinutes / 60, 2 decimals
}

// Enrich computes the duration fields for one ticket given its status
// journal.
func Enrich(t Ticket, events []StatusChangeEvent, matcher PendingMatcher) EnrichedTicket {
	out := EnrichedTicket{Ticket: t}

	if !t.IsResolved() {
		return out
	}

	brut := int(math.Round(t.SolveDate.Sub(t.Date).Minutes()))
	if brut < 0 {
		brut = 0
	}
	out.BrutMinutes = &brut

	out.PauseMinutes = PauseMinutes(events, t.SolveDate, matcher)

	active := brut - out.PauseMinutes
	if active < 0 {
		active = 0
	}
	out.ActiveMinutes = &active

	out.BrutHours = minutesToHours(brut)
	out.ActiveHours = minutesToHours(active)
	return out
}

// EnrichTickets enriches a batch of tickets. A ticket without a journal
// entry in logsByID is treated as having no pause time.
func EnrichTickets(tickets []Ticket, logsByID map[int64][]StatusChangeEvent, matcher PendingMatcher) []EnrichedTicket {
	enriched := make([]EnrichedTicket, 0, len(tickets))
	for _, t := range tickets {
		enriched = append(enriched, Enrich(t, logsByID[t.ID], matcher))
	}
	return enriched
}

func minutesToHours(minutes int) *float64 {
	h := round2(float64(minutes) / 60)
	return &h
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
