package batch

import (
	"errors"

	"github.com/vk/cornergrid/internal/model"
)

// Options select what a Driver runs.
type Options struct {
	// TemplatePath is the netlist template to expand.
	TemplatePath string
	// OutputDir overrides the output root derived from the template header.
	OutputDir string
	// Corners defaults to model.DefaultCorners when empty.
	Corners []model.Corner
	// Temperatures enables temperature sweeping when non-empty.
	Temperatures []model.Temperature
	// Filter is an optional expr-lang run filter.
	Filter string
	// Sentinel is the placeholder corner token, model.DefaultSentinel if empty.
	Sentinel string
	// StrictHeader rejects templates without a sch_path header.
	StrictHeader bool
	// DryRun writes decks without invoking the simulator.
	DryRun bool
	// Workers bounds concurrent simulator runs. Values below 1 mean 1.
	Workers int
}

func (o Options) validate() error {
	if o.TemplatePath == "" {
		return errors.New("template path is required")
	}
	if o.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	return nil
}

func (o Options) workers() int {
	if o.Workers < 1 {
		return 1
	}
	return o.Workers
}

func (o Options) corners() []model.Corner {
	if len(o.Corners) == 0 {
		return model.DefaultCorners
	}
	return o.Corners
}

// temperatures returns the temperature axis of the grid and whether it is a
// real sweep. Without one every corner runs once at the nominal temperature.
func (o Options) temperatures() ([]model.Temperature, bool) {
	if len(o.Temperatures) == 0 {
		return []model.Temperature{model.NominalTemperature}, false
	}
	return o.Temperatures, true
}
