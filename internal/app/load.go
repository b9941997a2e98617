package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vk/cornergrid/internal/batch"
	"github.com/vk/cornergrid/internal/config"
	"github.com/vk/cornergrid/internal/ctxlog"
	"github.com/vk/cornergrid/internal/report"
	"github.com/vk/cornergrid/internal/simulator"
)

// loadSweep reads the sweep file, if one is configured. The result is never
// nil so callers can merge unconditionally.
func (a *App) loadSweep(ctx context.Context) (*config.Model, error) {
	if a.config.SweepPath == "" {
		return &config.Model{}, nil
	}
	if a.loader == nil {
		return nil, fmt.Errorf("no loader configured for sweep file %s", a.config.SweepPath)
	}
	m, err := a.loader.Load(ctx, a.config.SweepPath)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Info("Sweep file loaded.", "path", m.Source)
	return m, nil
}

// batchOptions merges the sweep file under the command line flags.
func (c *Config) batchOptions(m *config.Model) batch.Options {
	opts := batch.Options{
		TemplatePath: c.TemplatePath,
		OutputDir:    c.OutputDir,
		Corners:      c.Corners,
		Temperatures: c.Temperatures,
		Filter:       c.Filter,
		Sentinel:     c.Sentinel,
		StrictHeader: c.StrictHeader,
		DryRun:       c.DryRun,
		Workers:      c.Workers,
	}
	if s := m.Sweep; s != nil {
		if len(opts.Corners) == 0 {
			opts.Corners = s.Corners
		}
		if len(opts.Temperatures) == 0 {
			opts.Temperatures = s.Temperatures
		}
		if opts.Filter == "" {
			opts.Filter = s.Filter
		}
		if opts.Sentinel == "" {
			opts.Sentinel = s.Sentinel
		}
	}
	if o := m.Output; o != nil && opts.OutputDir == "" {
		opts.OutputDir = o.Root
	}
	return opts
}

// simulatorProcess builds the simulator invocation. It runs in the template's
// directory unless the sweep file names another one, so relative model paths
// in the deck resolve as they do next to the schematic.
func (c *Config) simulatorProcess(m *config.Model) *simulator.Process {
	command, timeout := c.SimulatorCommand, c.Timeout
	var workDir string
	var env map[string]string
	if s := m.Simulator; s != nil {
		if len(command) == 0 {
			command = s.Command
		}
		if timeout == 0 {
			timeout = s.Timeout
		}
		workDir, env = s.WorkDir, s.Env
	}

	p := simulator.NewProcess(command, timeout)
	p.Env = env
	p.Dir = workDir
	if p.Dir == "" {
		if abs, err := filepath.Abs(c.TemplatePath); err == nil {
			p.Dir = filepath.Dir(abs)
		}
	}
	return p
}

// reportPath returns where the workbook goes, or "" when it is disabled.
// A path from the command line is taken as given; one from the sweep file is
// relative to the output root.
func (c *Config) reportPath(m *config.Model, root string) string {
	switch {
	case c.ReportPath == ReportDisabled:
		return ""
	case c.ReportPath != "":
		return c.ReportPath
	}
	p := report.DefaultWorkbookName
	if m.Output != nil && m.Output.Report != "" {
		p = m.Output.Report
	}
	switch {
	case p == ReportDisabled:
		return ""
	case filepath.IsAbs(p):
		return p
	default:
		return filepath.Join(root, p)
	}
}
