package progress

import (
	"time"

	"github.com/vk/cornergrid/internal/model"
)

// Kind is the type of a progress event.
type Kind string

const (
	BatchStarted  Kind = "batch_started"
	RunStarted    Kind = "run_started"
	RunFinished   Kind = "run_finished"
	BatchFinished Kind = "batch_finished"
)

// Event is one progress notification. Run fields are zero for batch events.
type Event struct {
	Kind  Kind
	Time  time.Time
	Index int
	Total int
	Root  string

	Corner      model.Corner
	Temperature model.Temperature
	Tag         string

	Status   model.Status
	ExitCode int
	Duration time.Duration
	Err      error
}

// Sink receives progress events. Implementations must be safe for
// concurrent use.
type Sink interface {
	Handle(ev Event)
}

// NewBatchStarted builds the event announcing a batch.
func NewBatchStarted(total int, root string) Event {
	return Event{Kind: BatchStarted, Time: time.Now(), Total: total, Root: root}
}

// NewRunStarted builds the event announcing a run.
func NewRunStarted(item model.WorkItem) Event {
	return Event{
		Kind:        RunStarted,
		Time:        time.Now(),
		Index:       item.Index,
		Total:       item.Total,
		Corner:      item.Corner,
		Temperature: item.Temperature,
		Tag:         item.Tag,
	}
}

// NewRunFinished builds the event reporting a run's outcome.
func NewRunFinished(o model.Outcome) Event {
	ev := NewRunStarted(o.Item)
	ev.Kind = RunFinished
	ev.Status = o.Status
	ev.ExitCode = o.ExitCode
	ev.Duration = o.Duration
	ev.Err = o.Err
	return ev
}

// NewBatchFinished builds the event closing a batch.
func NewBatchFinished(total int, root string) Event {
	return Event{Kind: BatchFinished, Time: time.Now(), Total: total, Root: root}
}

// Payload renders the event as a JSON friendly map.
func (ev Event) Payload() map[string]any {
	p := map[string]any{
		"kind":  string(ev.Kind),
		"time":  ev.Time.UTC().Format(time.RFC3339Nano),
		"total": ev.Total,
	}
	switch ev.Kind {
	case BatchStarted, BatchFinished:
		p["root"] = ev.Root
	default:
		p["index"] = ev.Index
		p["corner"] = string(ev.Corner)
		p["temperature"] = int(ev.Temperature)
		p["tag"] = ev.Tag
	}
	if ev.Kind == RunFinished {
		p["status"] = ev.Status.String()
		p["exit_code"] = ev.ExitCode
		p["duration_ms"] = ev.Duration.Milliseconds()
		if ev.Err != nil {
			p["error"] = ev.Err.Error()
		}
	}
	return p
}

type nop struct{}

func (nop) Handle(Event) {}

// Nop discards every event.
var Nop Sink = nop{}

type multi []Sink

func (m multi) Handle(ev Event) {
	for _, s := range m {
		s.Handle(ev)
	}
}

// Multi fans events out to every non-nil sink.
func Multi(sinks ...Sink) Sink {
	var m multi
	for _, s := range sinks {
		if s != nil && s != Nop {
			m = append(m, s)
		}
	}
	switch len(m) {
	case 0:
		return Nop
	case 1:
		return m[0]
	default:
		return m
	}
}
