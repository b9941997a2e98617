// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model holds the domain types shared by every stage of a corner
// batch: corners, temperatures and the tags derived from them, the parsed
// template, the on-disk output layout, and the per-run work items and
// outcomes.
//
// # Core Concepts
//
//   - Corner: an opaque process/mismatch variation name such as "ss_ll_mm".
//     Nothing inside the name is interpreted.
//
//   - Temperature: whole degrees Celsius. Fractional input is truncated toward
//     zero before it is used for tagging or written into a deck.
//
//   - Run Tag: the identifier of one (corner, temperature) combination, e.g.
//     "ss_ll_mm_m40C". Every file a run produces is named after it.
//
//   - Template: the source netlist, its base name and the output root declared
//     by its "sch_path:" header.
//
//   - Layout: the output root and its five fixed subdirectories.
//
//   - WorkItem: everything needed to produce one deck and one log.
package model
