package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vk/cornergrid/internal/ctxlog"
	"github.com/vk/cornergrid/internal/fsutil"
	"github.com/vk/cornergrid/internal/model"
	"github.com/vk/cornergrid/internal/progress"
	"github.com/vk/cornergrid/internal/rewrite"
	"github.com/vk/cornergrid/internal/simulator"
)

// Driver runs batches against a simulator.
type Driver struct {
	opts     Options
	sim      simulator.Simulator
	sink     progress.Sink
	rewriter *rewrite.Rewriter
}

// New creates a Driver. A nil sink discards progress events.
func New(opts Options, sim simulator.Simulator, sink progress.Sink) (*Driver, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if sim == nil && !opts.DryRun {
		return nil, errors.New("a simulator is required unless running dry")
	}
	if sink == nil {
		sink = progress.Nop
	}
	var rwOpts []rewrite.Option
	if opts.Sentinel != "" {
		rwOpts = append(rwOpts, rewrite.WithSentinel(opts.Sentinel))
	}
	return &Driver{
		opts:     opts,
		sim:      sim,
		sink:     sink,
		rewriter: rewrite.New(rwOpts...),
	}, nil
}

// Run prepares and executes one batch.
func (d *Driver) Run(ctx context.Context) (*Summary, error) {
	plan, err := d.Prepare(ctx)
	if err != nil {
		return nil, err
	}
	return d.Execute(ctx, plan)
}

// Execute writes each deck and runs the simulator on it. Simulator failures
// are recorded per item and never stop the batch. A filesystem error or a
// cancelled context stops scheduling; items not started are Skipped and the
// error is returned alongside the partial summary.
func (d *Driver) Execute(ctx context.Context, plan *Plan) (*Summary, error) {
	logger := ctxlog.FromContext(ctx)
	total := len(plan.Items)
	summary := &Summary{
		Template: plan.Template.Path,
		Root:     plan.Layout.Root,
		Started:  time.Now(),
		Outcomes: make([]model.Outcome, total),
	}
	for i, item := range plan.Items {
		summary.Outcomes[i] = model.Outcome{Item: item, Status: model.StatusSkipped}
	}

	logger.Info("Starting batch.", "template", plan.Template.Path, "root", plan.Layout.Root, "runs", total, "workers", d.opts.workers())
	d.sink.Handle(progress.NewBatchStarted(total, plan.Layout.Root))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.workers())
	for i := range plan.Items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			o, err := d.runItem(gctx, plan.Layout, plan.Items[i], plan.Deck(i))
			summary.Outcomes[i] = o
			return err
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	summary.Elapsed = time.Since(summary.Started)
	d.sink.Handle(progress.NewBatchFinished(total, plan.Layout.Root))
	logger.Info("Batch finished.", "runs", total, "failed", summary.Failed(), "minutes", minutes(summary.Elapsed))
	return summary, err
}

// runItem handles one work item. The returned error is fatal to the batch.
func (d *Driver) runItem(ctx context.Context, layout model.Layout, item model.WorkItem, deck string) (model.Outcome, error) {
	logger := ctxlog.FromContext(ctx).With("tag", item.Tag)
	o := model.Outcome{Item: item, Status: model.StatusSkipped}

	if err := fsutil.WriteFile(item.DeckPath, []byte(deck)); err != nil {
		o.Status, o.Err = model.StatusErrored, err
		return o, err
	}

	logger.Info(fmt.Sprintf("[%d/%d] Simulating.", item.Index, item.Total),
		"corner", string(item.Corner), "temp", item.Temperature.String())
	d.sink.Handle(progress.NewRunStarted(item))
	if d.opts.DryRun {
		logger.Debug("Dry run, simulator not invoked.", "deck", item.DeckPath)
		d.sink.Handle(progress.NewRunFinished(o))
		return o, nil
	}

	res, err := d.sim.Run(ctxlog.WithLogger(ctx, logger), item.DeckPath, item.LogPath)
	o.ExitCode, o.Duration = res.ExitCode, res.Duration
	switch {
	case err != nil:
		o.Status, o.Err = model.StatusErrored, err
		logger.Error("Simulator could not run.", "error", err)
	case res.TimedOut:
		o.Status = model.StatusTimedOut
		logger.Warn("Simulation timed out.", "minutes", minutes(res.Duration), "log", item.LogPath)
	case res.ExitCode != 0:
		o.Status = model.StatusFailed
		logger.Warn("Simulation failed.", "exit_code", res.ExitCode, "log", item.LogPath)
	default:
		o.Status = model.StatusCompleted
		logger.Info(fmt.Sprintf("Completed %s in %s min.", item.RunName, minutes(res.Duration)))
		if len(outputs(layout, item)) == 0 {
			logger.Warn("Simulation produced no output files.", "log", item.LogPath)
		}
	}
	d.sink.Handle(progress.NewRunFinished(o))
	return o, nil
}

func minutes(d time.Duration) string {
	return fmt.Sprintf("%.2f", d.Minutes())
}

// outputs lists the raw, csv and txt files a run left behind.
func outputs(layout model.Layout, item model.WorkItem) []string {
	kinds := []rewrite.RedirectKind{rewrite.RedirectRaw, rewrite.RedirectCSV, rewrite.RedirectTxt}
	paths := make([]string, len(kinds))
	for i, k := range kinds {
		paths[i] = layout.File(k.Subdir(), item.RunName, k.Ext())
	}
	return fsutil.ExistingFiles(paths...)
}
