package plan

// EventKind says whether a move was committed or rejected.
type EventKind string

const (
	EventCommitted EventKind = "committed"
	EventRejected  EventKind = "rejected"
)

// Event is delivered to subscribers after every committed or rejected move.
// No-op moves produce no event.
type Event struct {
	Kind      EventKind       `json:"kind"`
	Code      string          `json:"code"`
	From      ContainerID     `json:"from"`
	To        ContainerID     `json:"to"`
	Rejection *RejectionError `json:"rejection,omitempty"`
}

// Subscribe registers fn to be called after each committed or rejected move.
// fn runs on the goroutine that made the move, after the engine has released
// its lock, so it may read the plan. Call the returned func to unsubscribe.
func (e *Engine) Subscribe(fn func(Event)) (unsubscribe func()) {
	e.mu.Lock()
	id := e.nextListen
	e.nextListen++
	e.listeners[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

// listenersLocked returns the callbacks to run for ev in subscription order.
// Must be called with e.mu held.
func (e *Engine) listenersLocked(ev *Event) []func(Event) {
	if ev == nil || len(e.listeners) == 0 {
		return nil
	}
	fns := make([]func(Event), 0, len(e.listeners))
	for id := 0; id < e.nextListen; id++ {
		if fn, ok := e.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	return fns
}
