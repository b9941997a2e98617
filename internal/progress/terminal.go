package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"

	bar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/vk/cornergrid/internal/model"
)

// Display selects whether the terminal progress display is shown.
type Display string

const (
	DisplayEnabled  Display = "enabled"
	DisplayDisabled Display = "disabled"
)

// ParseDisplay validates a display setting.
func ParseDisplay(s string) (Display, error) {
	switch d := Display(strings.ToLower(strings.TrimSpace(s))); d {
	case DisplayEnabled, DisplayDisabled:
		return d, nil
	case "":
		return DisplayEnabled, nil
	default:
		return "", fmt.Errorf("invalid progress display %q: must be 'enabled' or 'disabled'", s)
	}
}

const barWidth = 20

// Status colors.
var (
	successColor = lipgloss.Color("#8BC34A")
	errorColor   = lipgloss.Color("#E53935")
	warningColor = lipgloss.Color("#FFC107")
	mutedColor   = lipgloss.Color("#9E9E9E")
)

// styles holds the per-status text styles of a Terminal.
type styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		Header:  r.NewStyle().Bold(true),
		Success: r.NewStyle().Foreground(successColor),
		Error:   r.NewStyle().Foreground(errorColor).Bold(true),
		Warning: r.NewStyle().Foreground(warningColor),
		Muted:   r.NewStyle().Foreground(mutedColor),
	}
}

func (s styles) status(st model.Status) lipgloss.Style {
	switch st {
	case model.StatusCompleted:
		return s.Success
	case model.StatusFailed, model.StatusErrored:
		return s.Error
	case model.StatusTimedOut:
		return s.Warning
	default:
		return s.Muted
	}
}

// Terminal prints one line per finished run with a progress bar. Colors are
// only emitted when w is a color-capable terminal.
type Terminal struct {
	mu       sync.Mutex
	w        io.Writer
	bar      bar.Model
	styles   styles
	finished int
}

// NewTerminal returns a terminal sink writing to w.
func NewTerminal(w io.Writer) *Terminal {
	r := lipgloss.NewRenderer(w)
	return &Terminal{
		w: w,
		bar: bar.New(
			bar.WithDefaultGradient(),
			bar.WithWidth(barWidth),
			bar.WithoutPercentage(),
			bar.WithColorProfile(r.ColorProfile()),
		),
		styles: newStyles(r),
	}
}

// NewDisplay returns a terminal sink for DisplayEnabled and Nop otherwise.
func NewDisplay(d Display, w io.Writer) Sink {
	if d != DisplayEnabled || w == nil {
		return Nop
	}
	return NewTerminal(w)
}

// Handle implements Sink.
func (t *Terminal) Handle(ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev.Kind {
	case BatchStarted:
		t.finished = 0
		fmt.Fprintln(t.w, t.styles.Header.Render(fmt.Sprintf("Running %d simulations into %s", ev.Total, ev.Root)))
	case RunFinished:
		t.finished++
		var sb strings.Builder
		sb.WriteString(t.bar.ViewAs(fraction(t.finished, ev.Total)))
		fmt.Fprintf(&sb, " %3d%% [%d/%d] %-24s ", percent(t.finished, ev.Total), t.finished, ev.Total, ev.Tag)
		sb.WriteString(t.styles.status(ev.Status).Render(fmt.Sprintf("%-9s", ev.Status)))
		fmt.Fprintf(&sb, " %6.2f min", ev.Duration.Minutes())
		fmt.Fprintln(t.w, sb.String())
	case BatchFinished:
		fmt.Fprintln(t.w, t.styles.Header.Render(fmt.Sprintf("Finished %d/%d simulations", t.finished, ev.Total)))
	}
}

func fraction(done, total int) float64 {
	if total <= 0 {
		return 1
	}
	return float64(done) / float64(total)
}

func percent(done, total int) int {
	return int(fraction(done, total) * 100)
}
