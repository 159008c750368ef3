package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
)

func TestDateRange_Granularity(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want domain.Granularity
	}{
		{"single day", "2024-03-01", "2024-03-01", domain.GranularityDay},
		{"ninety days", "2024-01-01", "2024-03-30", domain.GranularityDay},
		{"just over ninety days", "2024-01-01", "2024-04-15", domain.GranularityWeek},
		{"one year", "2024-01-01", "2024-12-30", domain.GranularityWeek},
		{"beyond a year", "2023-01-01", "2024-06-01", domain.GranularityMonth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, _ := time.Parse("2006-01-02", tt.from)
			to, _ := time.Parse("2006-01-02", tt.to)
			r := domain.NewDateRange(from, to)
			assert.Equal(t, tt.want, r.Granularity())
		})
	}
}

func TestNewDateRange_DayBounds(t *testing.T) {
	from, _ := time.Parse("2006-01-02 15:04:05", "2024-03-01 14:30:00")
	to, _ := time.Parse("2006-01-02 15:04:05", "2024-03-05 08:15:00")

	r := domain.NewDateRange(from, to)

	assert.Equal(t, "2024-03-01 00:00:00", r.From.Format("2006-01-02 15:04:05"))
	assert.Equal(t, "2024-03-05 23:59:59", r.To.Format("2006-01-02 15:04:05"))
}

func TestResolvePeriod(t *testing.T) {
	// A Thursday.
	now := time.Date(2024, time.August, 15, 11, 30, 0, 0, time.UTC)

	tests := []struct {
		period   string
		wantFrom string
		wantTo   string
	}{
		{"today", "2024-08-15", "2024-08-15"},
		{"week", "2024-08-12", "2024-08-15"},
		{"month", "2024-08-01", "2024-08-15"},
		{"last_month", "2024-07-01", "2024-07-31"},
		{"quarter", "2024-07-01", "2024-08-15"},
		{"semester", "2024-07-01", "2024-08-15"},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			r, err := domain.ResolvePeriod(tt.period, now)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFrom, r.From.Format("2006-01-02"))
			assert.Equal(t, "00:00:00", r.From.Format("15:04:05"))
			assert.Equal(t, tt.wantTo, r.To.Format("2006-01-02"))
			assert.Equal(t, "23:59:59", r.To.Format("15:04:05"))
		})
	}

	t.Run("first semester", func(t *testing.T) {
		march := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
		r, err := domain.ResolvePeriod("semester", march)
		require.NoError(t, err)
		assert.Equal(t, "2024-01-01", r.From.Format("2006-01-02"))
	})

	t.Run("unknown shortcut", func(t *testing.T) {
		_, err := domain.ResolvePeriod("fortnight", now)
		assert.Error(t, err)
	})
}

func TestDefaultDateRange(t *testing.T) {
	now := time.Date(2024, time.August, 15, 11, 30, 0, 0, time.UTC)
	r := domain.DefaultDateRange(now)

	assert.Equal(t, "2020-01-01", r.From.Format("2006-01-02"))
	assert.Equal(t, "2024-08-15 23:59:59", r.To.Format("2006-01-02 15:04:05"))
}

func TestPeriodKey(t *testing.T) {
	at := time.Date(2024, time.February, 14, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-02-14", domain.PeriodKey(at, domain.GranularityDay))
	assert.Equal(t, "2024-S07", domain.PeriodKey(at, domain.GranularityWeek))
	assert.Equal(t, "2024-02", domain.PeriodKey(at, domain.GranularityMonth))

	// ISO week years differ from calendar years at the boundary.
	newYear := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-S01", domain.PeriodKey(newYear, domain.GranularityWeek))
}
