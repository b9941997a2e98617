// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the output directory layout shared by the deck writer,
// the directive rewriter and the simulator.
package model

import "path/filepath"

// Subdir names one of the fixed directories under an output root.
type Subdir string

const (
	SubdirRaw   Subdir = "raw"
	SubdirCSV   Subdir = "csv"
	SubdirTxt   Subdir = "txt"
	SubdirLogs  Subdir = "logs"
	SubdirSpice Subdir = "spice"
)

// Subdirs lists every directory that must exist before a run starts.
var Subdirs = []Subdir{SubdirRaw, SubdirCSV, SubdirTxt, SubdirLogs, SubdirSpice}

// Layout resolves paths under an output root.
type Layout struct {
	Root string
}

// NewLayout returns a Layout rooted at root.
func NewLayout(root string) Layout {
	return Layout{Root: filepath.Clean(root)}
}

// Dir returns the absolute or root-relative path of a subdirectory.
func (l Layout) Dir(d Subdir) string {
	return filepath.Join(l.Root, string(d))
}

// File returns <root>/<dir>/<runName>.<ext>.
func (l Layout) File(d Subdir, runName, ext string) string {
	return filepath.Join(l.Dir(d), runName+"."+ext)
}

// DeckPath is where the generated deck for runName is written.
func (l Layout) DeckPath(runName string) string {
	return l.File(SubdirSpice, runName, "spice")
}

// LogPath is where the simulator output for runName is captured.
func (l Layout) LogPath(runName string) string {
	return l.File(SubdirLogs, runName, "log")
}
