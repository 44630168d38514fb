package statement

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hrportal/expense-service/internal/application/port"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const sheetName = "Combined Statement"

// ExcelWriter renders combined payment statements as .xlsx workbooks.
type ExcelWriter struct {
	outputDir string
	logger    *zap.Logger
}

// NewExcelWriter creates a new Excel statement writer
func NewExcelWriter(outputDir string, logger *zap.Logger) *ExcelWriter {
	return &ExcelWriter{
		outputDir: outputDir,
		logger:    logger,
	}
}

// WriteCombined renders one statement per payment batch: a header block for
// the employee, one row per line item of each constituent claim, and a grand
// total. Returns the path of the saved workbook.
func (w *ExcelWriter) WriteCombined(ctx context.Context, data *port.CombinedStatementData) (string, error) {
	w.logger.Info("Writing combined statement",
		zap.String("batch_id", data.BatchID),
		zap.Int("expenses", len(data.Expenses)))

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("failed to remove default sheet: %w", err)
	}

	w.setCell(f, "A1", "Combined Reimbursement Statement")
	w.setCell(f, "A2", "Batch ID")
	w.setCell(f, "B2", data.BatchID)
	w.setCell(f, "A3", "Employee")
	w.setCell(f, "B3", data.Employee.Name)
	w.setCell(f, "A4", "Email")
	w.setCell(f, "B4", data.Employee.Email)
	w.setCell(f, "A5", "Periods")
	w.setCell(f, "B5", strings.Join(data.Periods, ", "))
	w.setCell(f, "A6", "Paid At")
	w.setCell(f, "B6", data.PaidAt.Format("2006-01-02"))

	headers := []string{"Expense ID", "Period", "Category", "Expense Date", "Claimed", "Currency", "Rate", "Amount"}
	headerRow := 8
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		w.setCell(f, cell, h)
	}

	row := headerRow + 1
	for _, exp := range data.Expenses {
		for _, item := range exp.LineItems {
			values := []interface{}{
				exp.ID,
				exp.ReimbursementPeriod,
				item.Category,
				item.ExpenseDate.Format("2006-01-02"),
				item.ClaimedAmount,
				item.ClaimedCurrency,
				item.ExchangeRate,
				item.BaseAmount,
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				w.setCell(f, cell, v)
			}
			row++
		}
	}

	totalLabel, _ := excelize.CoordinatesToCellName(len(headers)-1, row+1)
	totalCell, _ := excelize.CoordinatesToCellName(len(headers), row+1)
	w.setCell(f, totalLabel, "Grand Total")
	w.setCell(f, totalCell, data.TotalAmount)

	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(w.outputDir, fmt.Sprintf("combined_%s.xlsx", data.BatchID))
	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("failed to save statement: %w", err)
	}

	w.logger.Info("Combined statement written",
		zap.String("output_path", outputPath))

	return outputPath, nil
}

// setCell sets a cell value, logging rather than failing on bad coordinates
func (w *ExcelWriter) setCell(f *excelize.File, cell string, value interface{}) {
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		w.logger.Warn("Failed to set cell value",
			zap.String("cell", cell),
			zap.Error(err))
	}
}

// Verify interface compliance
var _ port.StatementWriter = (*ExcelWriter)(nil)
