package grab

import (
	"github.com/akmonengine/jelly/scene"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	GRAB EventType = iota
	RELEASE
	DELETE
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// GrabEvent is emitted when a face of a node's object gets pinned to the cursor.
type GrabEvent struct {
	Node  scene.Handle
	Face  int
	Point mgl64.Vec3
}

func (e GrabEvent) Type() EventType { return GRAB }

type ReleaseEvent struct {
	Node scene.Handle
}

func (e ReleaseEvent) Type() EventType { return RELEASE }

// DeleteEvent carries the handle of the removed node. It is already stale
// when listeners receive it.
type DeleteEvent struct {
	Node scene.Handle
}

func (e DeleteEvent) Type() EventType { return DELETE }

// EventListener - callback for events
type EventListener func(event Event)

// Events buffers interaction events until Flush.
type Events struct {
	listeners map[EventType][]EventListener
	buffer    []Event
}

func NewEvents() Events {
	return Events{
		listeners: make(map[EventType][]EventListener),
		buffer:    make([]Event, 0, 16),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

func (e *Events) emit(event Event) {
	e.buffer = append(e.buffer, event)
}

// Pending returns the number of buffered events.
func (e *Events) Pending() int {
	return len(e.buffer)
}

// Flush sends all buffered events in emission order and clears the buffer.
func (e *Events) Flush() {
	for _, event := range e.buffer {
		for _, listener := range e.listeners[event.Type()] {
			listener(event)
		}
	}
	e.buffer = e.buffer[:0]
}
