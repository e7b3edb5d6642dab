package runner

import "fmt"

// Status is the lifecycle state of one file in a run.
type Status int

const (
	StatusPending Status = iota
	StatusChecking
	StatusDone
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusChecking:
		return "checking"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Event reports progress on one file.
type Event struct {
	Path   string
	Index  int // position in the input list
	Total  int
	Status Status

	// Violations is the number found, set once the file is done.
	Violations int

	// Message carries the read failure for StatusFailed.
	Message string
}

// Reporter fans events out through a buffered channel.
type Reporter struct {
	ch chan Event
}

// NewReporter creates a Reporter buffering up to size events.
func NewReporter(size int) *Reporter {
	return &Reporter{ch: make(chan Event, size)}
}

// Emit sends an event without blocking. Events are dropped when the
// buffer is full.
func (r *Reporter) Emit(ev Event) {
	select {
	case r.ch <- ev:
	default:
	}
}

// Subscribe returns the event channel.
func (r *Reporter) Subscribe() <-chan Event {
	return r.ch
}

// Close closes the event channel.
func (r *Reporter) Close() {
	close(r.ch)
}

// FormatEvent renders an event as a status line.
func FormatEvent(ev Event) string {
	counter := fmt.Sprintf("[%d/%d]", ev.Index+1, ev.Total)
	switch ev.Status {
	case StatusPending:
		return fmt.Sprintf("%s ○ %s", counter, ev.Path)
	case StatusChecking:
		return fmt.Sprintf("%s ● %s...", counter, ev.Path)
	case StatusDone:
		if ev.Violations == 0 {
			return fmt.Sprintf("%s ✓ %s", counter, ev.Path)
		}
		return fmt.Sprintf("%s ✗ %s (%d)", counter, ev.Path, ev.Violations)
	case StatusFailed:
		return fmt.Sprintf("%s ✗ %s: %s", counter, ev.Path, ev.Message)
	default:
		return fmt.Sprintf("%s ? %s", counter, ev.Path)
	}
}
