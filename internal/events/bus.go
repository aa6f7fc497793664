// Package events is the editor's listener registry. It plays the part of
// the global document: gestures and the keyboard dispatcher attach handlers
// for the duration of a drag or a mounted view and must detach them again.
package events

import (
	"maps"
	"slices"
)

type Type int

const (
	KeyDown Type = iota
	PointerMove
	PointerUp
)

func (t Type) String() string {
	switch t {
	case KeyDown:
		return "keydown"
	case PointerMove:
		return "pointermove"
	case PointerUp:
		return "pointerup"
	}
	return "unknown"
}

// Event is delivered to every handler registered for its Type. Key events
// fill Key and the modifier flags; pointer events fill X and Y (terminal
// cells).
type Event struct {
	Type  Type
	Key   string
	Shift bool
	Ctrl  bool
	Meta  bool
	X, Y  int

	handled bool
}

// PreventDefault marks the event as consumed.
func (e *Event) PreventDefault() { e.handled = true }

func (e *Event) Handled() bool { return e.handled }

type Handler func(*Event)

type entry struct {
	typ Type
	fn  Handler
}

// Bus is not safe for concurrent use.
type Bus struct {
	handlers map[int]entry
	next     int
}

func NewBus() *Bus {
	return &Bus{handlers: map[int]entry{}}
}

// On registers fn for events of type t. The returned func detaches it and
// may be called any number of times.
func (b *Bus) On(t Type, fn Handler) (off func()) {
	id := b.next
	b.next++
	b.handlers[id] = entry{typ: t, fn: fn}
	return func() { delete(b.handlers, id) }
}

// Emit delivers ev to the handlers registered when the call starts, in
// registration order. Handlers removed during delivery are skipped.
func (b *Bus) Emit(ev *Event) bool {
	for _, id := range slices.Sorted(maps.Keys(b.handlers)) {
		h, ok := b.handlers[id]
		if !ok || h.typ != ev.Type {
			continue
		}
		h.fn(ev)
	}
	return ev.handled
}

// Count is the number of attached handlers of every type.
func (b *Bus) Count() int { return len(b.handlers) }

func (b *Bus) CountOf(t Type) int {
	n := 0
	for _, h := range b.handlers {
		if h.typ == t {
			n++
		}
	}
	return n
}
