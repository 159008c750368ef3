package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
)

// slaSheetName is the single worksheet of the SLA export.
const slaSheetName = "Conformité SLA"

var slaHeaders = []string{
	"Priorité", "Objectif (h)", "Tickets", "Non résolus",
	"GLPI dans les délais", "GLPI hors délais",
	"Manuel dans les délais", "Manuel hors délais",
	"Taux (%)", "Taux GLPI (%)", "Taux manuel (%)",
}

// SlaWorkbook renders an SLA summary as an XLSX workbook.
func SlaWorkbook(summary domain.SlaSummary, from, to time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(slaSheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	if err := f.SetCellValue(slaSheetName, "A1",
		fmt.Sprintf("Conformité SLA du %s au %s", from.Format("2006-01-02"), to.Format("2006-01-02"))); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	for col, header := range slaHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 3)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(slaSheetName, cell, header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(slaSheetName, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	row := 4
	for _, p := range summary.Priorities {
		values := []interface{}{
			p.Label, p.TargetHours, p.Total, p.StillOpen,
			p.GlpiWithin, p.GlpiBreached,
			p.ManualWithin, p.ManualBreached,
			rateCell(p.Rate), rateCell(p.GlpiRate), rateCell(p.ManualRate),
		}
		if err := setRow(f, row, values); err != nil {
			return nil, err
		}
		row++
	}

	row++
	totals := []interface{}{
		"Global", "", summary.Meta.TotalResolved, "",
		summary.Meta.TicketsGlpiSla, "",
		summary.Meta.TicketsManualSla, "",
		rateCell(summary.GlobalRate), rateCell(summary.GlobalGlpiRate), rateCell(summary.GlobalManualRate),
	}
	if err := setRow(f, row, totals); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(slaSheetName, cell, v); err != nil {
			return err
		}
	}
	return nil
}

// rateCell renders a nullable rate; "N/A" marks priorities without any
// evaluated ticket.
func rateCell(rate *float64) interface{} {
	if rate == nil {
		return "N/A"
	}
	return *rate
}
