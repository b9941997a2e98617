// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the WorkItem, the unit of work handed from the grid
// enumerator to the batch driver.
package model

// WorkItem is one (corner, temperature) run with every derived name and path.
// All fields are a pure function of the template base name, the pair and the
// layout, so re-running a batch reproduces them exactly.
type WorkItem struct {
	// Index is the 1-based position of the item in its batch.
	Index int
	// Total is the number of items in the batch.
	Total int

	Corner      Corner
	Temperature Temperature
	// Sweep reports whether the temperature is part of the run tag and is
	// written into the deck.
	Sweep bool

	Tag      string
	RunName  string
	DeckPath string
	LogPath  string
}

// NewWorkItem derives names and paths for one run.
func NewWorkItem(index, total int, baseName string, c Corner, t Temperature, sweep bool, layout Layout) WorkItem {
	tag := CornerTag(c)
	if sweep {
		tag = RunTag(c, t)
	}
	runName := RunName(baseName, tag)
	return WorkItem{
		Index:       index,
		Total:       total,
		Corner:      c,
		Temperature: t,
		Sweep:       sweep,
		Tag:         tag,
		RunName:     runName,
		DeckPath:    layout.DeckPath(runName),
		LogPath:     layout.LogPath(runName),
	}
}

// TargetTemperature returns the temperature to write into the deck, or nil
// when sweeping is disabled and the template's own directive is kept.
func (w WorkItem) TargetTemperature() *Temperature {
	if !w.Sweep {
		return nil
	}
	t := w.Temperature
	return &t
}
