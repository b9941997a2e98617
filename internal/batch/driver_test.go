package batch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/cornergrid/internal/ctxlog"
	"github.com/vk/cornergrid/internal/fsutil"
	"github.com/vk/cornergrid/internal/model"
	"github.com/vk/cornergrid/internal/progress"
	"github.com/vk/cornergrid/internal/rewrite"
	"github.com/vk/cornergrid/internal/simulator"
)

const ampTemplate = `* sch_path: %SCH%
.lib /pdk/models.lib tt
.control
run
write amp.raw v(out)
.endc
.end
`

// fakeSim records every call and answers from a per-deck table.
type fakeSim struct {
	mu      sync.Mutex
	calls   []string
	results map[string]simulator.Result
	errs    map[string]error
	onRun   func(deckPath string)
}

func (f *fakeSim) Run(ctx context.Context, deckPath, logPath string) (simulator.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, deckPath)
	f.mu.Unlock()
	if f.onRun != nil {
		f.onRun(deckPath)
	}
	if err := os.WriteFile(logPath, []byte("ok\n"), 0o644); err != nil {
		return simulator.Result{}, err
	}
	name := filepath.Base(deckPath)
	if err := f.errs[name]; err != nil {
		return simulator.Result{ExitCode: -1}, err
	}
	res := f.results[name]
	res.Duration = time.Second
	return res, nil
}

func (f *fakeSim) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type recordingSink struct {
	mu     sync.Mutex
	events []progress.Event
}

func (r *recordingSink) Handle(ev progress.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingSink) kinds() []progress.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kinds []progress.Kind
	for _, ev := range r.events {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}

// writeTemplate writes amp.cir into a temp dir with its header pointing at
// <dir>/sch/amp.sch and returns the template path and expected output root.
func writeTemplate(t *testing.T, text string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	root := filepath.Join(dir, "sch")
	text = strings.ReplaceAll(text, "%SCH%", filepath.Join(root, "amp.sch"))
	path := filepath.Join(dir, "amp.cir")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path, root
}

func TestDriver_ThreeCorners(t *testing.T) {
	// --- Arrange ---
	path, root := writeTemplate(t, ampTemplate)
	sim := &fakeSim{}
	sink := &recordingSink{}
	d, err := New(Options{
		TemplatePath: path,
		Corners:      []model.Corner{"ss", "tt", "ff"},
		Temperatures: []model.Temperature{-40},
	}, sim, sink)
	require.NoError(t, err)

	// --- Act ---
	summary, err := d.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, root, summary.Root)
	assert.False(t, summary.Failed())
	assert.Equal(t, 3, summary.Count(model.StatusCompleted))

	want := []string{
		filepath.Join(root, "spice", "amp_ss_m40C.spice"),
		filepath.Join(root, "spice", "amp_tt_m40C.spice"),
		filepath.Join(root, "spice", "amp_ff_m40C.spice"),
	}
	assert.Equal(t, want, sim.Calls())
	for i, o := range summary.Outcomes {
		assert.Equal(t, i+1, o.Item.Index)
		assert.FileExists(t, o.Item.DeckPath)
		assert.FileExists(t, o.Item.LogPath)
	}
	for _, sub := range model.Subdirs {
		assert.DirExists(t, filepath.Join(root, string(sub)))
	}

	deck, err := os.ReadFile(want[0])
	require.NoError(t, err)
	assert.Contains(t, string(deck), ".lib /pdk/models.lib ss\n")
	assert.Contains(t, string(deck), ".temp -40\n.control\n")
	assert.Contains(t, string(deck), "write "+filepath.ToSlash(filepath.Join(root, "raw", "amp_ss_m40C.raw"))+" v(out)\n")

	assert.Equal(t, []progress.Kind{
		progress.BatchStarted,
		progress.RunStarted, progress.RunFinished,
		progress.RunStarted, progress.RunFinished,
		progress.RunStarted, progress.RunFinished,
		progress.BatchFinished,
	}, sink.kinds())
}

func TestDriver_NoSweepUsesCornerTags(t *testing.T) {
	path, root := writeTemplate(t, ampTemplate)
	sim := &fakeSim{}
	d, err := New(Options{TemplatePath: path, Corners: []model.Corner{"ss"}}, sim, nil)
	require.NoError(t, err)

	summary, err := d.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, summary.Outcomes, 1)
	assert.Equal(t, "ss", summary.Outcomes[0].Item.Tag)
	deck, err := os.ReadFile(filepath.Join(root, "spice", "amp_ss.spice"))
	require.NoError(t, err)
	assert.NotContains(t, string(deck), ".temp")
}

func TestDriver_DefaultCorners(t *testing.T) {
	path, _ := writeTemplate(t, ampTemplate)
	d, err := New(Options{TemplatePath: path, DryRun: true}, nil, nil)
	require.NoError(t, err)

	plan, err := d.Prepare(context.Background())

	require.NoError(t, err)
	require.Len(t, plan.Items, len(model.DefaultCorners))
	for i, item := range plan.Items {
		assert.Equal(t, model.DefaultCorners[i], item.Corner)
	}
}

func TestDriver_RunStatuses(t *testing.T) {
	// --- Arrange ---
	path, _ := writeTemplate(t, ampTemplate)
	sim := &fakeSim{
		results: map[string]simulator.Result{
			"amp_b_27C.spice": {ExitCode: 1},
			"amp_c_27C.spice": {ExitCode: -1, TimedOut: true},
		},
		errs: map[string]error{
			"amp_d_27C.spice": errors.New("exec: ngspice not found"),
		},
	}
	d, err := New(Options{
		TemplatePath: path,
		Corners:      []model.Corner{"a", "b", "c", "d", "e"},
		Temperatures: []model.Temperature{27},
	}, sim, nil)
	require.NoError(t, err)

	// --- Act ---
	summary, err := d.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Len(t, sim.Calls(), 5, "a failing run must not abort the batch")
	var statuses []model.Status
	for _, o := range summary.Outcomes {
		statuses = append(statuses, o.Status)
	}
	assert.Equal(t, []model.Status{
		model.StatusCompleted,
		model.StatusFailed,
		model.StatusTimedOut,
		model.StatusErrored,
		model.StatusCompleted,
	}, statuses)
	assert.Equal(t, 1, summary.Outcomes[1].ExitCode)
	assert.Error(t, summary.Outcomes[3].Err)
	assert.True(t, summary.Failed())
}

func TestDriver_MissingHeader(t *testing.T) {
	tmpl := strings.Replace(ampTemplate, "* sch_path: %SCH%\n", "* amplifier\n", 1)

	t.Run("defaults next to template", func(t *testing.T) {
		// --- Arrange ---
		path, _ := writeTemplate(t, tmpl)
		var logs bytes.Buffer
		ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&logs, nil)))
		d, err := New(Options{TemplatePath: path, Corners: []model.Corner{"ss"}, DryRun: true}, nil, nil)
		require.NoError(t, err)

		// --- Act ---
		summary, err := d.Run(ctx)

		// --- Assert ---
		require.NoError(t, err)
		assert.Contains(t, logs.String(), "no sch_path header")
		assert.Contains(t, logs.String(), "level=WARN")
		root := filepath.Join(filepath.Dir(path), model.DefaultRootName)
		assert.Equal(t, root, summary.Root)
		assert.FileExists(t, filepath.Join(root, "spice", "amp_ss.spice"))
	})

	t.Run("strict", func(t *testing.T) {
		path, _ := writeTemplate(t, tmpl)
		d, err := New(Options{TemplatePath: path, StrictHeader: true, DryRun: true}, nil, nil)
		require.NoError(t, err)

		_, err = d.Run(context.Background())

		assert.ErrorIs(t, err, model.ErrMissingHeader)
	})
}

func TestDriver_OutputDirOverride(t *testing.T) {
	path, headerRoot := writeTemplate(t, ampTemplate)
	out := filepath.Join(t.TempDir(), "results")
	d, err := New(Options{TemplatePath: path, OutputDir: out, Corners: []model.Corner{"ff"}, DryRun: true}, nil, nil)
	require.NoError(t, err)

	summary, err := d.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, out, summary.Root)
	assert.FileExists(t, filepath.Join(out, "spice", "amp_ff.spice"))
	assert.NoDirExists(t, headerRoot)
}

func TestDriver_DryRun(t *testing.T) {
	path, root := writeTemplate(t, ampTemplate)
	sim := &fakeSim{}
	d, err := New(Options{TemplatePath: path, Corners: []model.Corner{"ss", "ff"}, DryRun: true}, sim, nil)
	require.NoError(t, err)

	summary, err := d.Run(context.Background())

	require.NoError(t, err)
	assert.Empty(t, sim.Calls())
	assert.Equal(t, 2, summary.Count(model.StatusSkipped))
	assert.False(t, summary.Failed())
	assert.Len(t, fsutil.ExistingFiles(
		filepath.Join(root, "spice", "amp_ss.spice"),
		filepath.Join(root, "spice", "amp_ff.spice"),
	), 2)
}

func TestDriver_StructuralErrorAbortsBeforeSimulating(t *testing.T) {
	path, root := writeTemplate(t, "* sch_path: %SCH%\n.lib models.lib tt\n.end\n")
	sim := &fakeSim{}
	d, err := New(Options{
		TemplatePath: path,
		Corners:      []model.Corner{"ss"},
		Temperatures: []model.Temperature{85},
	}, sim, nil)
	require.NoError(t, err)

	_, err = d.Run(context.Background())

	assert.ErrorIs(t, err, rewrite.ErrNoControlBlock)
	assert.Empty(t, sim.Calls())
	assert.NoDirExists(t, root)
}

func TestDriver_MissingTemplate(t *testing.T) {
	d, err := New(Options{TemplatePath: filepath.Join(t.TempDir(), "none.cir"), DryRun: true}, nil, nil)
	require.NoError(t, err)

	_, err = d.Run(context.Background())

	assert.ErrorIs(t, err, fsutil.ErrNotFound)
}

func TestDriver_Filter(t *testing.T) {
	path, _ := writeTemplate(t, ampTemplate)
	opts := Options{
		TemplatePath: path,
		Corners:      []model.Corner{"ss_ll", "ff_hh"},
		Temperatures: []model.Temperature{-40, 125},
		DryRun:       true,
	}

	t.Run("keeps matching runs", func(t *testing.T) {
		opts := opts
		opts.Filter = `corner startsWith "ss" && temp < 0`
		d, err := New(opts, nil, nil)
		require.NoError(t, err)

		plan, err := d.Prepare(context.Background())

		require.NoError(t, err)
		require.Len(t, plan.Items, 1)
		assert.Equal(t, "ss_ll_m40C", plan.Items[0].Tag)
		assert.Equal(t, 1, plan.Items[0].Total)
	})

	t.Run("no match", func(t *testing.T) {
		opts := opts
		opts.Filter = `temp > 1000`
		d, err := New(opts, nil, nil)
		require.NoError(t, err)

		_, err = d.Prepare(context.Background())

		assert.ErrorContains(t, err, "matched no runs")
	})

	t.Run("invalid", func(t *testing.T) {
		opts := opts
		opts.Filter = `corner +`
		d, err := New(opts, nil, nil)
		require.NoError(t, err)

		_, err = d.Prepare(context.Background())

		assert.Error(t, err)
	})
}

func TestDriver_Workers(t *testing.T) {
	path, _ := writeTemplate(t, ampTemplate)
	sim := &fakeSim{}
	corners := []model.Corner{"c1", "c2", "c3", "c4", "c5", "c6"}
	d, err := New(Options{TemplatePath: path, Corners: corners, Workers: 3}, sim, nil)
	require.NoError(t, err)

	summary, err := d.Run(context.Background())

	require.NoError(t, err)
	assert.Len(t, sim.Calls(), len(corners))
	for i, o := range summary.Outcomes {
		assert.Equal(t, corners[i], o.Item.Corner, "outcomes stay in item order")
		assert.Equal(t, model.StatusCompleted, o.Status)
	}
}

func TestDriver_CancelSkipsRemaining(t *testing.T) {
	// --- Arrange ---
	path, _ := writeTemplate(t, ampTemplate)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sim := &fakeSim{onRun: func(string) { cancel() }}
	d, err := New(Options{TemplatePath: path, Corners: []model.Corner{"a", "b", "c"}}, sim, nil)
	require.NoError(t, err)

	// --- Act ---
	summary, err := d.Run(ctx)

	// --- Assert ---
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.Len(t, sim.Calls(), 1)
	assert.Equal(t, model.StatusSkipped, summary.Outcomes[1].Status)
	assert.Equal(t, model.StatusSkipped, summary.Outcomes[2].Status)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{}, &fakeSim{}, nil)
	assert.Error(t, err)

	_, err = New(Options{TemplatePath: "a.cir"}, nil, nil)
	assert.Error(t, err, "a real run needs a simulator")

	_, err = New(Options{TemplatePath: "a.cir", Workers: -1}, &fakeSim{}, nil)
	assert.Error(t, err)
}
