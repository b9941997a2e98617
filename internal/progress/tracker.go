package progress

import (
	"sort"
	"sync"
	"time"
)

// Snapshot is a point-in-time view of a batch.
type Snapshot struct {
	Root     string         `json:"root"`
	Total    int            `json:"total"`
	Started  int            `json:"started"`
	Finished int            `json:"finished"`
	Running  []string       `json:"running"`
	Statuses map[string]int `json:"statuses"`
	Done     bool           `json:"done"`
	Elapsed  string         `json:"elapsed"`
}

// Tracker keeps counters for the current batch.
type Tracker struct {
	mu       sync.Mutex
	root     string
	total    int
	started  int
	finished int
	running  map[string]bool
	statuses map[string]int
	begin    time.Time
	end      time.Time
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		running:  make(map[string]bool),
		statuses: make(map[string]int),
	}
}

// Handle implements Sink.
func (t *Tracker) Handle(ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev.Kind {
	case BatchStarted:
		t.root, t.total = ev.Root, ev.Total
		t.started, t.finished = 0, 0
		t.running = make(map[string]bool)
		t.statuses = make(map[string]int)
		t.begin, t.end = ev.Time, time.Time{}
	case RunStarted:
		t.started++
		t.running[ev.Tag] = true
	case RunFinished:
		t.finished++
		delete(t.running, ev.Tag)
		t.statuses[ev.Status.String()]++
	case BatchFinished:
		t.end = ev.Time
	}
}

// Snapshot returns the current counters.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	running := make([]string, 0, len(t.running))
	for tag := range t.running {
		running = append(running, tag)
	}
	sort.Strings(running)

	statuses := make(map[string]int, len(t.statuses))
	for k, v := range t.statuses {
		statuses[k] = v
	}

	var elapsed time.Duration
	switch {
	case t.begin.IsZero():
	case t.end.IsZero():
		elapsed = time.Since(t.begin)
	default:
		elapsed = t.end.Sub(t.begin)
	}

	return Snapshot{
		Root:     t.root,
		Total:    t.total,
		Started:  t.started,
		Finished: t.finished,
		Running:  running,
		Statuses: statuses,
		Done:     !t.end.IsZero(),
		Elapsed:  elapsed.Round(time.Second).String(),
	}
}
