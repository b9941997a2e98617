package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/cornergrid/internal/batch"
	"github.com/vk/cornergrid/internal/config"
	"github.com/vk/cornergrid/internal/ctxlog"
	"github.com/vk/cornergrid/internal/model"
	"github.com/vk/cornergrid/internal/progress"
	"github.com/vk/cornergrid/internal/report"
	"github.com/vk/cornergrid/internal/simulator"
)

// ErrRunsFailed is returned in strict-exit mode when any run did not complete.
var ErrRunsFailed = errors.New("one or more simulations did not complete")

// Run executes one batch based on the configuration. Run failures are
// reported in the summary and only become an error with StrictExit.
func (a *App) Run(ctx context.Context) (*batch.Summary, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")

	if err := a.healthCheckServer(); err != nil {
		return nil, err
	}
	defer a.closeHealthCheckServer()

	m, err := a.loadSweep(ctx)
	if err != nil {
		return nil, err
	}

	var sim simulator.Simulator
	simName := "dry-run"
	if !a.config.DryRun {
		p := a.config.simulatorProcess(m)
		sim, simName = p, p.String()
		a.logger.Debug("Simulator configured.", "command", simName, "timeout", p.Timeout, "dir", p.Dir)
	}

	sink, closeSinks := a.progressSinks(ctx)
	defer closeSinks()

	driver, err := batch.New(a.config.batchOptions(m), sim, sink)
	if err != nil {
		return nil, err
	}
	summary, runErr := driver.Run(ctx)
	if summary == nil {
		return nil, runErr
	}

	if err := a.writeReports(ctx, m, simName, summary); err != nil {
		return summary, err
	}
	if runErr != nil {
		return summary, fmt.Errorf("batch interrupted: %w", runErr)
	}
	if a.config.StrictExit && summary.Failed() {
		return summary, fmt.Errorf("%w: %d failed, %d timed out, %d errored", ErrRunsFailed,
			summary.Count(model.StatusFailed), summary.Count(model.StatusTimedOut), summary.Count(model.StatusErrored))
	}

	a.logger.Debug("App.Run method finished.")
	return summary, nil
}

// progressSinks assembles the configured progress sinks. A socket.io endpoint
// that cannot be reached is logged and skipped.
func (a *App) progressSinks(ctx context.Context) (progress.Sink, func()) {
	sinks := []progress.Sink{a.tracker, progress.NewDisplay(a.config.Progress, a.outW)}
	closeFn := func() {}

	if a.config.ProgressURL != "" {
		sio, err := progress.DialSocketIO(ctx, progress.SocketIOOptions{URL: a.config.ProgressURL})
		if err != nil {
			a.logger.Warn("Progress endpoint unavailable, continuing without it.", "url", a.config.ProgressURL, "error", err)
		} else {
			sinks = append(sinks, sio)
			closeFn = func() {
				if err := sio.Close(); err != nil {
					a.logger.Debug("Failed to close progress endpoint.", "error", err)
				}
			}
		}
	}
	return progress.Multi(sinks...), closeFn
}

func (a *App) writeReports(ctx context.Context, m *config.Model, simName string, summary *batch.Summary) error {
	logger := ctxlog.FromContext(ctx)
	if err := report.WriteTable(a.outW, summary.Outcomes); err != nil {
		return fmt.Errorf("failed to print summary: %w", err)
	}

	path := a.config.reportPath(m, summary.Root)
	if path == "" {
		return nil
	}
	info := report.Info{
		Template:  summary.Template,
		Root:      summary.Root,
		Simulator: simName,
		Started:   summary.Started,
		Elapsed:   summary.Elapsed,
	}
	if err := report.WriteWorkbook(path, info, summary.Outcomes); err != nil {
		return err
	}
	logger.Info("Summary workbook written.", "path", path)
	return nil
}
