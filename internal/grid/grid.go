package grid

import (
	"errors"
	"fmt"

	"github.com/vk/cornergrid/internal/model"
)

var (
	// ErrNoCorners is returned when a batch has no corners to run.
	ErrNoCorners = errors.New("corner set is empty")
	// ErrNoTemperatures is returned when a batch has no temperatures to run.
	ErrNoTemperatures = errors.New("temperature set is empty")
	// ErrDuplicate is returned when a corner or temperature is listed twice,
	// which would give two runs the same tag.
	ErrDuplicate = errors.New("duplicate entry")
)

// Pair is one (corner, temperature) combination.
type Pair struct {
	Corner      model.Corner
	Temperature model.Temperature
}

// Enumerate returns the Cartesian product of corners and temps: every
// temperature of corners[0] first, then every temperature of corners[1], and
// so on. It has no side effects and can be called any number of times.
func Enumerate(corners []model.Corner, temps []model.Temperature) []Pair {
	pairs := make([]Pair, 0, len(corners)*len(temps))
	for _, c := range corners {
		for _, t := range temps {
			pairs = append(pairs, Pair{Corner: c, Temperature: t})
		}
	}
	return pairs
}

// Validate checks that both sets are non-empty and free of duplicates.
func Validate(corners []model.Corner, temps []model.Temperature) error {
	if len(corners) == 0 {
		return ErrNoCorners
	}
	if len(temps) == 0 {
		return ErrNoTemperatures
	}
	seenCorner := make(map[model.Corner]bool, len(corners))
	for _, c := range corners {
		if c == "" {
			return errors.New("corner name must not be empty")
		}
		if seenCorner[c] {
			return fmt.Errorf("%w: corner %q", ErrDuplicate, c)
		}
		seenCorner[c] = true
	}
	seenTemp := make(map[model.Temperature]bool, len(temps))
	for _, t := range temps {
		if seenTemp[t] {
			return fmt.Errorf("%w: temperature %d", ErrDuplicate, t)
		}
		seenTemp[t] = true
	}
	return nil
}

// WorkItems derives the work item of every pair for a template base name and
// output layout. Indexes are 1-based.
func WorkItems(pairs []Pair, baseName string, sweep bool, layout model.Layout) []model.WorkItem {
	items := make([]model.WorkItem, len(pairs))
	for i, p := range pairs {
		items[i] = model.NewWorkItem(i+1, len(pairs), baseName, p.Corner, p.Temperature, sweep, layout)
	}
	return items
}
