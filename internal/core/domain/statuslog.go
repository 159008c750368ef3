package domain

import (
	"strconv"
	"strings"
	"time"
)

// StatusChangeEvent is a single status transition extracted from the GLPI
// journal. OldValue and NewValue are raw label strings: depending on the
// GLPI version they hold either numeric codes ("4") or localized labels
// ("En attente").
type StatusChangeEvent struct {
	TicketID  int64
	OldValue  string
	NewValue  string
	ChangedAt time.Time
}

// defaultPendingLabels are the journal values recognized as the pending
// status out of the box. Matching is case-insensitive after trimming.
var defaultPendingLabels = []string{"en attente", "pending", "waiting", "4"}

// PendingMatcher classifies raw journal status values as pending or not.
// The zero value is not usable; build one with NewPendingMatcher.
type PendingMatcher struct {
	labels map[string]struct{}
}

// NewPendingMatcher builds a matcher over the default pending labels plus
// any extra labels configured for the instance.
func NewPendingMatcher(extra ...string) PendingMatcher {
	labels := make(map[string]struct{}, len(defaultPendingLabels)+len(extra))
	for _, l := range defaultPendingLabels {
		labels[normalizeStatusValue(l)] = struct{}{}
	}
	for _, l := range extra {
		if n := normalizeStatusValue(l); n != "" {
			labels[n] = struct{}{}
		}
	}
	return PendingMatcher{labels: labels}
}

// IsPending reports whether a raw journal value denotes the pending status.
func (m PendingMatcher) IsPending(value string) bool {
	_, ok := m.labels[normalizeStatusValue(value)]
	return ok
}

func normalizeStatusValue(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// knownStatusValues covers every numeric code and French label GLPI writes
// to the journal for the status field.
var knownStatusValues = func() map[string]struct{} {
	known := make(map[string]struct{})
	for code, label := range statusLabels {
		known[normalizeStatusValue(label)] = struct{}{}
		known[strconv.Itoa(code)] = struct{}{}
	}
	return known
}()

// IsKnownStatusValue reports whether a raw journal value maps to a known
// GLPI status. Used to surface label-set gaps in diagnostics.
func IsKnownStatusValue(value string) bool {
	_, ok := knownStatusValues[normalizeStatusValue(value)]
	return ok
}
