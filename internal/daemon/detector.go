package daemon

// State is the watcher's view of the target channel.
type State int

const (
	// StateOffline is the initial state; a cold start counts as offline.
	StateOffline State = iota
	// StateLive means the last successful poll saw an active stream.
	StateLive
)

func (s State) String() string {
	switch s {
	case StateOffline:
		return "offline"
	case StateLive:
		return "live"
	default:
		return "unknown"
	}
}

// Event is what a single observation produced.
type Event int

const (
	// EventNone means nothing to act on.
	EventNone Event = iota
	// EventBecameLive fires once per offline->live edge.
	EventBecameLive
)

func (e Event) String() string {
	if e == EventBecameLive {
		return "became_live"
	}
	return "none"
}

// Detector is the two-state machine that debounces poll results.
// The zero value starts Offline and is ready to use.
type Detector struct {
	state State
}

// State returns the current state.
func (d *Detector) State() State {
	return d.state
}

// Observe feeds one poll result and reports whether it was an offline->live edge.
// Staying live never fires again, so the browser is not reopened on every poll.
func (d *Detector) Observe(live bool) Event {
	switch {
	case live && d.state == StateOffline:
		d.state = StateLive
		return EventBecameLive
	case !live && d.state == StateLive:
		d.state = StateOffline
	}
	return EventNone
}
