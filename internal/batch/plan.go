package batch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vk/cornergrid/internal/ctxlog"
	"github.com/vk/cornergrid/internal/fsutil"
	"github.com/vk/cornergrid/internal/grid"
	"github.com/vk/cornergrid/internal/model"
	"github.com/vk/cornergrid/internal/rewrite"
)

// Plan is a fully prepared batch. Every deck is rendered in memory, so a
// template that cannot be rewritten fails before any simulator call.
type Plan struct {
	Template *model.Template
	Layout   model.Layout
	Items    []model.WorkItem
	// Sweep reports whether temperatures are part of the run names.
	Sweep bool

	decks []string
}

// Deck returns the rendered deck of item i.
func (p *Plan) Deck(i int) string {
	return p.decks[i]
}

// Prepare loads the template, enumerates the grid and renders every deck.
// It creates the output layout but writes no deck.
func (d *Driver) Prepare(ctx context.Context) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)

	text, err := fsutil.ReadText(d.opts.TemplatePath)
	if err != nil {
		return nil, err
	}
	tmpl, err := model.NewTemplate(d.opts.TemplatePath, text, d.opts.StrictHeader)
	if err != nil {
		return nil, err
	}
	if !tmpl.HasHeader() {
		logger.Warn("Template has no sch_path header, using default output root.",
			"template", tmpl.Path, "root", tmpl.Root)
	}

	root := tmpl.Root
	if d.opts.OutputDir != "" {
		root = d.opts.OutputDir
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output root: %w", err)
	}
	layout := model.NewLayout(root)

	temps, sweep := d.opts.temperatures()
	pairs, err := grid.FromProviders(grid.StaticCorners(d.opts.corners()), grid.StaticTemperatures(temps))
	if err != nil {
		return nil, err
	}
	if d.opts.Filter != "" {
		filter, err := grid.NewFilter(d.opts.Filter)
		if err != nil {
			return nil, err
		}
		if pairs, err = filter.Apply(pairs); err != nil {
			return nil, err
		}
		logger.Debug("Applied run filter.", "filter", filter.String(), "kept", len(pairs))
		if len(pairs) == 0 {
			return nil, fmt.Errorf("run filter %q matched no runs", d.opts.Filter)
		}
	}
	items := grid.WorkItems(pairs, tmpl.BaseName, sweep, layout)

	decks := make([]string, len(items))
	for i, item := range items {
		res, err := d.rewriter.Rewrite(tmpl.Text, rewrite.Params{
			BaseName:    tmpl.BaseName,
			Corner:      item.Corner,
			Temperature: item.TargetTemperature(),
			OutputDir:   layout.Root,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to render deck %s: %w", item.RunName, err)
		}
		if i == 0 {
			for _, kind := range res.Changes.MissingRedirects {
				logger.Warn("Template has no output statement of this kind.", "kind", string(kind))
			}
			if res.Changes.CornerTokens == 0 {
				logger.Warn("Template has no corner placeholder to replace.", "sentinel", d.rewriter.Sentinel())
			}
		}
		decks[i] = res.Text
	}

	if err := fsutil.EnsureLayout(layout); err != nil {
		return nil, err
	}

	logger.Debug("Batch planned.", "template", tmpl.Path, "root", layout.Root, "runs", len(items), "sweep", sweep)
	return &Plan{
		Template: tmpl,
		Layout:   layout,
		Items:    items,
		Sweep:    sweep,
		decks:    decks,
	}, nil
}
