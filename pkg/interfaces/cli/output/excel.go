package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/truongquocminh/bloodbank/pkg/application/dto"
)

// Sheet names of the spreadsheet report
const (
	SummarySheet           = "Summary"
	ComponentMatrixSheet   = "Component Matrix"
	TransfusionMatrixSheet = "Transfusion Matrix"
	InventorySheet         = "Inventory"
)

type excelWriter struct {
	f           *excelize.File
	headerStyle int
	yesStyle    int
}

// WriteExcel writes one sheet per report section to filename
func WriteExcel(report *dto.Report, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	w := &excelWriter{f: f}
	if err := w.createStyles(); err != nil {
		return err
	}

	if err := w.writeSummary(report); err != nil {
		return err
	}
	// the summary sheet exists now, so the default one can go
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}

	if report.ComponentMatrix != nil {
		if err := w.writeMatrix(ComponentMatrixSheet, report.ComponentMatrix); err != nil {
			return err
		}
	}
	if report.TransfusionMatrix != nil {
		if err := w.writeMatrix(TransfusionMatrixSheet, report.TransfusionMatrix); err != nil {
			return err
		}
	}
	if report.Inventory != nil {
		if err := w.writeInventory(report.Inventory); err != nil {
			return err
		}
	}

	if index, err := f.GetSheetIndex(SummarySheet); err == nil {
		f.SetActiveSheet(index)
	}
	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save spreadsheet %s: %w", filename, err)
	}
	return nil
}

func (w *excelWriter) createStyles() error {
	var err error
	w.headerStyle, err = w.f.NewStyle(&excelize.Style{
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
		return fmt.Errorf("failed to create header style: %w", err)
	}

	w.yesStyle, err = w.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Color: "#137333", Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E6F4EA"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create cell style: %w", err)
	}
	return nil
}

func (w *excelWriter) newSheet(name string) error {
	if _, err := w.f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}
	return nil
}

func (w *excelWriter) writeSummary(report *dto.Report) error {
	if err := w.newSheet(SummarySheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Source", report.Source},
		{"Snapshot", report.SnapshotID},
		{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05")},
	}
	if report.ComponentMatrix != nil {
		stats := report.ComponentMatrix.Stats
		rows = append(rows, []interface{}{"Component compatibility (%)", stats.Rate})
	}
	if report.TransfusionMatrix != nil {
		stats := report.TransfusionMatrix.Stats
		rows = append(rows, []interface{}{"Transfusion compatibility (%)", stats.Rate})
	}
	if inv := report.Inventory; inv != nil {
		rows = append(rows,
			[]interface{}{"Inventory units", inv.TotalUnits},
			[]interface{}{"Total stock (ml)", int64(inv.TotalQuantity)},
			[]interface{}{"Low stock units", inv.LowStockCount},
			[]interface{}{"Expired units", inv.Expiry.Expired},
			[]interface{}{"Expiring soon units", inv.Expiry.ExpiringSoon},
			[]interface{}{"Extracted (L)", inv.ExtractedLiters.InexactFloat64()},
		)
	}
	for _, warning := range report.Warnings {
		rows = append(rows, []interface{}{"Warning", warning})
	}

	for i, row := range rows {
		if err := w.setRow(SummarySheet, i+1, row); err != nil {
			return err
		}
		if err := w.styleCell(SummarySheet, 1, i+1, w.headerStyle); err != nil {
			return err
		}
	}
	return w.f.SetColWidth(SummarySheet, "A", "A", 30)
}

func (w *excelWriter) writeMatrix(sheet string, matrix *dto.Matrix) error {
	if err := w.newSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{""}
	for _, column := range matrix.Columns {
		header = append(header, column.Label)
	}
	if err := w.setHeader(sheet, header); err != nil {
		return err
	}

	for i, row := range matrix.Rows {
		rowNumber := i + 2
		if err := setCellValue(w.f, sheet, 1, rowNumber, row.Label); err != nil {
			return err
		}
		if err := w.styleCell(sheet, 1, rowNumber, w.headerStyle); err != nil {
			return err
		}
		for j, compatible := range matrix.Cells[i] {
			if err := setCellValue(w.f, sheet, j+2, rowNumber, mark(compatible)); err != nil {
				return err
			}
			if compatible {
				if err := w.styleCell(sheet, j+2, rowNumber, w.yesStyle); err != nil {
					return err
				}
			}
		}
	}

	statsRow := []interface{}{"Compatible", matrix.Stats.TotalCompatible, matrix.Stats.TotalCombinations, fmt.Sprintf("%d%%", matrix.Stats.Rate)}
	return w.setRow(sheet, len(matrix.Rows)+3, statsRow)
}

func (w *excelWriter) writeInventory(summary *dto.InventorySummary) error {
	if err := w.newSheet(InventorySheet); err != nil {
		return err
	}

	header := []interface{}{"ID", "Blood Type", "Component", "Quantity (ml)", "Stock", "Added Date", "Expiry Date", "Expiry"}
	if err := w.setHeader(InventorySheet, header); err != nil {
		return err
	}

	for i, row := range summary.Units {
		values := []interface{}{
			int64(row.Unit.ID),
			row.BloodTypeName,
			row.ComponentName,
			int64(row.Unit.Quantity),
			row.StockLevel.Label(),
			formatDate(row.Unit.AddedDate.IsZero(), row.Unit.AddedDate.Format("2006-01-02")),
			formatDate(row.Unit.ExpiryDate.IsZero(), row.Unit.ExpiryDate.Format("2006-01-02")),
			expiryText(row),
		}
		if err := w.setRow(InventorySheet, i+2, values); err != nil {
			return err
		}
	}

	if err := w.f.SetColWidth(InventorySheet, "B", "H", 16); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return w.f.SetPanes(InventorySheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (w *excelWriter) setHeader(sheet string, header []interface{}) error {
	if err := w.setRow(sheet, 1, header); err != nil {
		return err
	}
	for col := 1; col <= len(header); col++ {
		if err := w.styleCell(sheet, col, 1, w.headerStyle); err != nil {
			return err
		}
	}
	return nil
}

func (w *excelWriter) setRow(sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func (w *excelWriter) styleCell(sheet string, col, row, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, cell, cell, style)
}

func setCellValue(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

func formatDate(zero bool, formatted string) string {
	if zero {
		return "-"
	}
	return formatted
}
