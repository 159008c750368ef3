package domain

import (
	"math"
	"time"
)

// PauseMinutes reconstructs the total time a ticket spent in the pending
// status from its ordered status journal.
//
// The scan opens an interval on a transition into pending and closes it on
// the next transition out of pending; overlapping opens are ignored and
// negative deltas (clock skew in the journal) contribute nothing. An
// interval still open at the end of the journal is closed at the solve
// date when one exists, otherwise it contributes nothing.
func PauseMinutes(events []StatusChangeEvent, solveDate *time.Time, matcher PendingMatcher) int {
	var total float64
	var pauseStart *time.Time

	for _, ev := range events {
		oldPending := matcher.IsPending(ev.OldValue)
		newPending := matcher.IsPending(ev.NewValue)

		switch {
		case newPending && !oldPending && pauseStart == nil:
			t := ev.ChangedAt
			pauseStart = &t
		case oldPending && !newPending && pauseStart != nil:
			if delta := ev.ChangedAt.Sub(*pauseStart).Minutes(); delta > 0 {
				total += delta
			}
			pauseStart = nil
		}
	}

	if pauseStart != nil && solveDate != nil {
		if delta := solveDate.Sub(*pauseStart).Minutes(); delta > 0 {
			total += delta
		}
	}

	return int(math.Round(total))
}
