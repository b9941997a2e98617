package batch

import (
	"time"

	"github.com/vk/cornergrid/internal/model"
)

// Summary is the result of one batch. Outcomes are in item order.
type Summary struct {
	Template string
	Root     string
	Started  time.Time
	Elapsed  time.Duration
	Outcomes []model.Outcome
}

// Count returns the number of outcomes with status s.
func (s *Summary) Count(status model.Status) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Failed reports whether any run failed, timed out or errored.
func (s *Summary) Failed() bool {
	for _, o := range s.Outcomes {
		if !o.OK() {
			return true
		}
	}
	return false
}
