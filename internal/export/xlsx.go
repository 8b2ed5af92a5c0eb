package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"quiz-arena/internal/domain"
)

var header = []any{"Timestamp", "Mode", "Difficulty", "Stage", "Score", "Correct", "Total"}

// WriteHistory writes one sheet per history list, in the order of keys, to w.
// Lists missing from results get a sheet with only the header row.
func WriteHistory(w io.Writer, keys []string, results map[string][]domain.GameResult) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, key := range keys {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", key); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(key); err != nil {
			return fmt.Errorf("create sheet %s: %w", key, err)
		}
		if err := writeSheet(f, key, results[key], bold); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, results []domain.GameResult, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header of %s: %w", sheet, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("style header of %s: %w", sheet, err)
	}
	for i, r := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{r.Timestamp, string(r.Mode), r.Difficulty, r.Stage, r.Score, r.CorrectAnswers, r.TotalQuestions}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}
	return f.SetColWidth(sheet, "A", "A", 18)
}
