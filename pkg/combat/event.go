package combat

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Event is a single occurrence carried through the EventBus. Data holds
// arbitrary payload fields (damage amount, effect name, reaction kind)
// addressed by string key, mirroring the original's dict-based Event
// and the teacher's GameEvent.Data map[string]interface{}.
type Event struct {
	Type      EventType
	Data      map[string]interface{}
	SourceID  string
	TargetID  string
	Tick      int
	cancelled bool
	modified  bool
}

// NewEvent builds an Event with an initialized Data map.
func NewEvent(t EventType, tick int, sourceID, targetID string) *Event {
	return &Event{
		Type:     t,
		Data:     make(map[string]interface{}),
		SourceID: sourceID,
		TargetID: targetID,
		Tick:     tick,
	}
}

// Cancel marks the event cancelled; EventBus.Emit stops notifying
// remaining listeners once a listener cancels.
func (e *Event) Cancel() { e.cancelled = true }

// Cancelled reports whether a listener has cancelled the event.
func (e *Event) Cancelled() bool { return e.cancelled }

// Get returns a payload field, or nil if absent.
func (e *Event) Get(key string) interface{} { return e.Data[key] }

// GetFloat returns a payload field coerced to float64, or 0 if absent
// or not numeric.
func (e *Event) GetFloat(key string) float64 {
	v, ok := e.Data[key].(float64)
	if !ok {
		return 0
	}
	return v
}

// Set writes a payload field and marks the event as listener-modified,
// so the damage pipeline knows to re-read a value like "damage" after
// emitting PreDamage.
func (e *Event) Set(key string, value interface{}) {
	e.Data[key] = value
	e.modified = true
}

// Modified reports whether any listener has called Set on this event.
func (e *Event) Modified() bool { return e.modified }

// EventHandler is a listener callback. Handlers that want to stop
// further propagation call Event.Cancel.
type EventHandler func(*Event)

// listener wraps a registered handler with its priority, once-flag,
// and a per-listener execution counter for diagnostics.
type listener struct {
	id       string
	handler  EventHandler
	priority int
	once     bool
	executed int
}

// EventBus dispatches Events to priority-ordered listeners, supports
// global (all-event-type) listeners, cancellation, once-listeners, and
// keeps a bounded ring of recent events for diagnostics/tests.
//
// Concurrency: guarded the way the teacher's EventSystem guards its
// handler map (sync.RWMutex) in pkg/game/events.go, generalized to the
// fuller feature set (priority, cancellation, once, history) the
// original simulation's event_system.py implements. Emit snapshots the
// listener slice before iterating so a listener that subscribes or
// unsubscribes another listener mid-emit cannot corrupt the in-flight
// iteration (spec §5).
type EventBus struct {
	mu          sync.RWMutex
	listeners   map[EventType][]*listener
	global      []*listener
	history     []*Event
	maxHistory  int
	enabled     bool
}

// NewEventBus constructs an enabled bus with the given bounded history
// size (the original defaults to 100).
func NewEventBus(maxHistory int) *EventBus {
	if maxHistory <= 0 {
		maxHistory = 100
	}
	return &EventBus{
		listeners:  make(map[EventType][]*listener),
		maxHistory: maxHistory,
		enabled:    true,
	}
}

// Subscribe registers handler for a specific EventType at the given
// priority (higher runs first); ties keep insertion order. Returns a
// subscription id usable with Unsubscribe.
func (b *EventBus) Subscribe(t EventType, priority int, handler EventHandler) string {
	return b.subscribe(&t, priority, false, handler)
}

// SubscribeOnce is like Subscribe but the listener is removed after its
// first invocation.
func (b *EventBus) SubscribeOnce(t EventType, priority int, handler EventHandler) string {
	return b.subscribe(&t, priority, true, handler)
}

// SubscribeAll registers a global listener invoked for every event
// type, before type-specific listeners, in priority order.
func (b *EventBus) SubscribeAll(priority int, handler EventHandler) string {
	return b.subscribe(nil, priority, false, handler)
}

func (b *EventBus) subscribe(t *EventType, priority int, once bool, handler EventHandler) string {
	id := uuid.NewString()
	l := &listener{id: id, handler: handler, priority: priority, once: once}

	b.mu.Lock()
	defer b.mu.Unlock()

	if t == nil {
		b.global = append(b.global, l)
		sortListeners(b.global)
		return id
	}
	b.listeners[*t] = append(b.listeners[*t], l)
	sortListeners(b.listeners[*t])
	return id
}

func sortListeners(ls []*listener) {
	sort.SliceStable(ls, func(i, j int) bool { return ls[i].priority > ls[j].priority })
}

// Unsubscribe removes a listener by its subscription id, searching both
// the global list and every per-type list.
func (b *EventBus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.global = removeListener(b.global, id)
	for t, ls := range b.listeners {
		b.listeners[t] = removeListener(ls, id)
	}
}

func removeListener(ls []*listener, id string) []*listener {
	out := ls[:0:0]
	for _, l := range ls {
		if l.id != id {
			out = append(out, l)
		}
	}
	return out
}

// Emit dispatches ev to global listeners first, then type-specific
// listeners, both in descending-priority order, stopping as soon as a
// listener cancels the event. Once-listeners are removed after firing.
// The event (possibly cancelled/modified by listeners) is appended to
// the bounded history ring regardless of outcome, then Emit returns.
func (b *EventBus) Emit(ev *Event) {
	b.mu.Lock()
	if !b.enabled {
		b.mu.Unlock()
		return
	}
	global := append([]*listener(nil), b.global...)
	specific := append([]*listener(nil), b.listeners[ev.Type]...)
	b.mu.Unlock()

	var firedOnce []string
	for _, chain := range [][]*listener{global, specific} {
		if ev.Cancelled() {
			break
		}
		for _, l := range chain {
			l.handler(ev)
			l.executed++
			if l.once {
				firedOnce = append(firedOnce, l.id)
			}
			if ev.Cancelled() {
				break
			}
		}
	}

	b.mu.Lock()
	for _, id := range firedOnce {
		b.global = removeListener(b.global, id)
		for t, ls := range b.listeners {
			b.listeners[t] = removeListener(ls, id)
		}
	}
	b.history = append(b.history, ev)
	if len(b.history) > b.maxHistory {
		b.history = b.history[len(b.history)-b.maxHistory:]
	}
	b.mu.Unlock()
}

// EmitSimple builds and emits an Event in one call, for call sites that
// don't need to inspect the result.
func (b *EventBus) EmitSimple(t EventType, tick int, sourceID, targetID string, data map[string]interface{}) *Event {
	ev := NewEvent(t, tick, sourceID, targetID)
	for k, v := range data {
		ev.Data[k] = v
	}
	b.Emit(ev)
	return ev
}

// ListenerCount returns the number of listeners registered for t, plus
// global listeners.
func (b *EventBus) ListenerCount(t EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[t]) + len(b.global)
}

// History returns a copy of the bounded recent-event ring.
func (b *EventBus) History() []*Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*Event, len(b.history))
	copy(out, b.history)
	return out
}

// Enable and Disable toggle dispatch; Emit is a no-op while disabled.
func (b *EventBus) Enable()  { b.mu.Lock(); b.enabled = true; b.mu.Unlock() }
func (b *EventBus) Disable() { b.mu.Lock(); b.enabled = false; b.mu.Unlock() }

// IsEnabled reports the current enabled state.
func (b *EventBus) IsEnabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.enabled
}

// Reset clears every listener and the history ring, restoring a fresh
// bus to its just-constructed state (re-enabled).
func (b *EventBus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = make(map[EventType][]*listener)
	b.global = nil
	b.history = nil
	b.enabled = true
}

// ClearListeners removes every registered listener without touching
// history or the enabled flag.
func (b *EventBus) ClearListeners() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = make(map[EventType][]*listener)
	b.global = nil
}
