// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the per-run outcome recorded by the batch driver.
package model

import "time"

// Status classifies how a single run ended.
type Status int

const (
	// StatusSkipped means the simulator was not invoked (dry run or
	// cancellation before the item started).
	StatusSkipped Status = iota
	// StatusCompleted means the simulator exited with code 0.
	StatusCompleted
	// StatusFailed means the simulator exited with a non-zero code.
	StatusFailed
	// StatusTimedOut means the simulator was killed after the run timeout.
	StatusTimedOut
	// StatusErrored means the simulator could not be started or the item
	// could not be prepared.
	StatusErrored
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusTimedOut:
		return "timed_out"
	case StatusErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Outcome is the recorded result of one WorkItem.
type Outcome struct {
	Item     WorkItem
	Status   Status
	ExitCode int
	Duration time.Duration
	Err      error
}

// OK reports whether the run completed or was intentionally skipped.
func (o Outcome) OK() bool {
	return o.Status == StatusCompleted || o.Status == StatusSkipped
}
