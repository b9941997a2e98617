package report

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vk/cornergrid/internal/model"
)

func sampleOutcomes() []model.Outcome {
	layout := model.NewLayout("/out")
	return []model.Outcome{
		{
			Item:     model.NewWorkItem(1, 3, "case", "ss_ll_mm", -40, true, layout),
			Status:   model.StatusCompleted,
			Duration: 30 * time.Second,
		},
		{
			Item:     model.NewWorkItem(2, 3, "case", "ff_hh_mm", -40, true, layout),
			Status:   model.StatusFailed,
			ExitCode: 1,
			Duration: 90 * time.Second,
		},
		{
			Item:   model.NewWorkItem(3, 3, "case", "tt_mm", -40, true, layout),
			Status: model.StatusErrored,
			Err:    errors.New("failed to start simulator"),
		},
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteTable(&buf, sampleOutcomes()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "#"))
	assert.Contains(t, lines[1], "ss_ll_mm_m40C")
	assert.Contains(t, lines[2], "failed")
	assert.Contains(t, lines[2], "1.50")
	assert.Equal(t, "total=3 completed=1 failed=1 errored=1", lines[4])
}

func TestWriteWorkbook(t *testing.T) {
	// --- Arrange ---
	path := filepath.Join(t.TempDir(), "nested", "summary.xlsx")
	info := Info{
		Template:  "/proj/case.spice",
		Root:      "/out",
		Simulator: "ngspice -b",
		Started:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Elapsed:   2 * time.Minute,
	}

	// --- Act ---
	err := WriteWorkbook(path, info, sampleOutcomes())

	// --- Assert ---
	require.NoError(t, err)
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{runsSheet, summarySheet}, f.GetSheetList())

	rows, err := f.GetRows(runsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Corner", rows[0][1])
	assert.Equal(t, []string{"1", "ss_ll_mm", "-40", "ss_ll_mm_m40C", "completed", "0", "30"}, rows[1][:7])
	assert.Equal(t, "failed to start simulator", rows[3][9])

	v, err := f.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "/proj/case.spice", v)
	v, err = f.GetCellValue(summarySheet, "B6")
	require.NoError(t, err)
	assert.Equal(t, "3", v)
}
