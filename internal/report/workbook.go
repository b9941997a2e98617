package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/vk/cornergrid/internal/model"
)

const (
	runsSheet    = "Runs"
	summarySheet = "Summary"
)

var runsHeader = []any{
	"#", "Corner", "Temperature (C)", "Tag", "Status", "Exit code",
	"Duration (s)", "Deck", "Log", "Error",
}

// WriteWorkbook saves the batch summary as an .xlsx file at path.
func WriteWorkbook(path string, info Info, outcomes []model.Outcome) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", runsSheet); err != nil {
		return err
	}
	if err := writeRuns(f, outcomes); err != nil {
		return fmt.Errorf("failed to write runs sheet: %w", err)
	}
	if err := writeSummary(f, info, outcomes); err != nil {
		return fmt.Errorf("failed to write summary sheet: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func writeRuns(f *excelize.File, outcomes []model.Outcome) error {
	if err := f.SetSheetRow(runsSheet, "A1", &runsHeader); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(runsHeader))
	if err := f.SetCellStyle(runsSheet, "A1", lastCol+"1", bold); err != nil {
		return err
	}

	for i, o := range outcomes {
		errText := ""
		if o.Err != nil {
			errText = o.Err.Error()
		}
		row := []any{
			o.Item.Index,
			string(o.Item.Corner),
			int(o.Item.Temperature),
			o.Item.Tag,
			o.Status.String(),
			o.ExitCode,
			o.Duration.Round(time.Millisecond).Seconds(),
			o.Item.DeckPath,
			o.Item.LogPath,
			errText,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(runsSheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(runsSheet, "B", "E", 16)
}

func writeSummary(f *excelize.File, info Info, outcomes []model.Outcome) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	rows := [][]any{
		{"Template", info.Template},
		{"Output root", info.Root},
		{"Simulator", info.Simulator},
		{"Started", info.Started.Format(time.RFC3339)},
		{"Elapsed (s)", info.Elapsed.Round(time.Second).Seconds()},
		{"Runs", len(outcomes)},
	}
	counts := Counts(outcomes)
	for _, s := range statusOrder {
		rows = append(rows, []any{s.String(), counts[s]})
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(summarySheet, "A", "A", 16)
}
