package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
)

func TestSlaWorkbook(t *testing.T) {
	rate := 87.5
	summary := domain.SlaSummary{
		Priorities: []domain.SlaPriorityReport{
			{
				Priority:    domain.PriorityVeryHigh,
				Label:       domain.PriorityLabel(domain.PriorityVeryHigh),
				TargetHours: 4,
				Total:       10,
				StillOpen:   2,
				GlpiWithin:  5,
				ManualWithin: 2,
				ManualBreached: 1,
				Rate:        &rate,
			},
			{
				Priority:    domain.PriorityHigh,
				Label:       domain.PriorityLabel(domain.PriorityHigh),
				TargetHours: 8,
			},
		},
		GlobalRate: &rate,
		Targets:    domain.DefaultSlaTargets(),
		Meta:       domain.SlaMeta{TotalResolved: 8, TicketsGlpiSla: 5, TicketsManualSla: 3},
	}

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	payload, err := SlaWorkbook(summary, from, to)
	require.NoError(t, err)
	require.NotEmpty(t, payload)

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(slaSheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Conformité SLA du 2024-01-01 au 2024-01-31", title)

	header, err := f.GetCellValue(slaSheetName, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Priorité", header)

	label, err := f.GetCellValue(slaSheetName, "A4")
	require.NoError(t, err)
	assert.Equal(t, "Très haute", label)

	// A priority without any evaluated ticket renders N/A.
	emptyRate, err := f.GetCellValue(slaSheetName, "I5")
	require.NoError(t, err)
	assert.Equal(t, "N/A", emptyRate)
}
