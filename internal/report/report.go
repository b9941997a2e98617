package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/vk/cornergrid/internal/model"
)

// DefaultWorkbookName is the workbook written under the output root when no
// report path is configured.
const DefaultWorkbookName = "summary.xlsx"

// Info describes the batch a report is about.
type Info struct {
	Template  string
	Root      string
	Simulator string
	Started   time.Time
	Elapsed   time.Duration
}

// Counts tallies outcomes per status, in Status order.
func Counts(outcomes []model.Outcome) map[model.Status]int {
	counts := make(map[model.Status]int)
	for _, o := range outcomes {
		counts[o.Status]++
	}
	return counts
}

var statusOrder = []model.Status{
	model.StatusCompleted,
	model.StatusFailed,
	model.StatusTimedOut,
	model.StatusErrored,
	model.StatusSkipped,
}

// WriteTable writes one aligned row per run followed by the status totals.
func WriteTable(w io.Writer, outcomes []model.Outcome) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTAG\tSTATUS\tEXIT\tMINUTES")
	for _, o := range outcomes {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%.2f\n", o.Item.Index, o.Item.Tag, o.Status, o.ExitCode, o.Duration.Minutes())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	counts := Counts(outcomes)
	fmt.Fprintf(w, "total=%d", len(outcomes))
	for _, s := range statusOrder {
		if counts[s] > 0 {
			fmt.Fprintf(w, " %s=%d", s, counts[s])
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
