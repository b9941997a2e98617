package config

import (
	"time"

	"github.com/vk/cornergrid/internal/model"
)

// Model is the unified, format-agnostic representation of a sweep file.
type Model struct {
	// Source is the file the model was loaded from.
	Source    string
	Sweep     *Sweep
	Simulator *Simulator
	Output    *Output
}

// Sweep selects which runs a batch contains.
type Sweep struct {
	Corners []model.Corner
	// Temperatures enables temperature sweeping when non-empty.
	Temperatures []model.Temperature
	Filter       string
	Sentinel     string
}

// Simulator describes how the external simulator is invoked.
type Simulator struct {
	Name    string
	Command []string
	Timeout time.Duration
	Env     map[string]string
	// WorkDir is absolute, resolved against the sweep file's directory.
	WorkDir string
}

// Output overrides where results go.
type Output struct {
	// Root is absolute, resolved against the sweep file's directory.
	Root string
	// Report is the workbook path; relative values are relative to the
	// output root.
	Report string
}
