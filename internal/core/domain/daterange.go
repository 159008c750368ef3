package domain

import (
	"fmt"
	"math"
	"time"
)

// Granularity is the bucketing step of an evolution report.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// DateRange is an inclusive reporting window. From is anchored at
// 00:00:00 and To at 23:59:59 of their respective days.
type DateRange struct {
	From time.Time
	To   time.Time
}

// defaultRangeStart is the floor applied when no explicit start is given;
// GLPI instances this service targets have no relevant data before it.
var defaultRangeStart = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// NewDateRange builds a range over whole days, expanding from and to to
// their day boundaries.
func NewDateRange(from, to time.Time) DateRange {
	return DateRange{
		From: startOfDay(from),
		To:   endOfDay(to),
	}
}

// DefaultDateRange is the window used when the caller supplies neither
// bounds nor a period shortcut.
func DefaultDateRange(now time.Time) DateRange {
	return DateRange{From: defaultRangeStart, To: endOfDay(now)}
}

// ResolvePeriod translates a named period shortcut into a concrete range
// relative to now.
func ResolvePeriod(period string, now time.Time) (DateRange, error) {
	today := startOfDay(now)

	switch period {
	case "today":
		return DateRange{From: today, To: endOfDay(now)}, nil
	case "week":
		weekday := (int(now.Weekday()) + 6) % 7 // Monday = 0
		monday := today.AddDate(0, 0, -weekday)
		return DateRange{From: monday, To: endOfDay(now)}, nil
	case "month":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return DateRange{From: first, To: endOfDay(now)}, nil
	case "last_month":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
		last := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -1)
		return DateRange{From: first, To: endOfDay(last)}, nil
	case "quarter":
		quarterStart := time.Month((int(now.Month())-1)/3*3 + 1)
		first := time.Date(now.Year(), quarterStart, 1, 0, 0, 0, 0, now.Location())
		return DateRange{From: first, To: endOfDay(now)}, nil
	case "semester":
		semStart := time.January
		if now.Month() >= time.July {
			semStart = time.July
		}
		first := time.Date(now.Year(), semStart, 1, 0, 0, 0, 0, now.Location())
		return DateRange{From: first, To: endOfDay(now)}, nil
	default:
		return DateRange{}, fmt.Errorf("unknown period shortcut %q", period)
	}
}

// Granularity derives the evolution bucketing from the range span: daily
// up to 90 days, weekly up to a year, monthly beyond.
func (r DateRange) Granularity() Granularity {
	days := int(math.Ceil(r.To.Sub(r.From).Hours() / 24))
	switch {
	case days > 365:
		return GranularityMonth
	case days > 90:
		return GranularityWeek
	default:
		return GranularityDay
	}
}

// PeriodKey formats a timestamp as a bucket key for the given granularity.
// Weeks use ISO numbering, e.g. "2024-S07".
func PeriodKey(t time.Time, g Granularity) string {
	switch g {
	case GranularityWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-S%02d", year, week)
	case GranularityMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
