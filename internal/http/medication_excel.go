package httpapi

import (
	"bytes"
	"fmt"

	"silvercare/internal/domain"

	"github.com/xuri/excelize/v2"
)

var medicationExportHeader = []string{"ID", "Medicine", "Dosage", "Scheduled Time", "Status"}

var medicationColumnWidths = []float64{8, 25, 15, 16, 12}

const medicationSheet = "Medication Schedule"

// GenerateMedicationExport builds the schedule workbook: a header row, one row
// per record and a trailing risk summary row.
func GenerateMedicationExport(records []domain.MedicationRecord) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo needs the file open, so Close is only deferred after the write

	index, err := f.NewSheet(medicationSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range medicationExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(medicationSheet, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(medicationSheet, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
		name, _ := excelize.ColumnNumberToName(col + 1)
		if err := f.SetColWidth(medicationSheet, name, name, medicationColumnWidths[col]); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, rec := range records {
		row := i + 2
		values := []any{rec.ID, rec.MedicineName, rec.Dosage, rec.ScheduledTime, string(rec.Status)}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(medicationSheet, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	summaryRow := len(records) + 3
	counts := domain.CountByStatus(records)
	summary := []any{
		"Risk Level", string(domain.RiskLevelOf(records)),
		fmt.Sprintf("taken %d", counts.Taken),
		fmt.Sprintf("missed %d", counts.Missed),
		fmt.Sprintf("pending %d", counts.Pending),
	}
	for col, v := range summary {
		cell, _ := excelize.CoordinatesToCellName(col+1, summaryRow)
		if err := f.SetCellValue(medicationSheet, cell, v); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set summary cell %s: %w", cell, err)
		}
	}

	if err := f.SetPanes(medicationSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}
