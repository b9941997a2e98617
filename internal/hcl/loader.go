package hcl

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/cornergrid/internal/config"
	"github.com/vk/cornergrid/internal/ctxlog"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses and decodes a single sweep file.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading sweep file.", "path", path)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse sweep file %s: %w", path, diags)
	}

	var parsed sweepFile
	diags = gohcl.DecodeBody(hclFile.Body, newEvalContext(), &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode sweep file %s: %w", path, diags)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	baseDir := filepath.Dir(absPath)

	m := &config.Model{Source: absPath}
	if m.Sweep, err = translateSweep(parsed.Sweep); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	switch len(parsed.Simulators) {
	case 0:
	case 1:
		if m.Simulator, err = translateSimulator(parsed.Simulators[0], baseDir); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: only one simulator block is allowed, found %d", path, len(parsed.Simulators))
	}
	m.Output = translateOutput(parsed.Output, baseDir)

	logger.Debug("Sweep file loaded.", "path", absPath, "has_sweep", m.Sweep != nil, "has_simulator", m.Simulator != nil)
	return m, nil
}
