// Package input defines the window-independent events the scene reacts to.
package input

// EventType tells which fields of an Event are set.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventMouseDown
	EventMouseMove
)

// Key is a window-independent key code.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyQ
	KeyW
	KeyC
	KeyS
	Key1
	Key2
	KeyF12
)

// Button is a mouse button id. The wheel reports as buttons 4 and 5.
type Button uint8

const (
	ButtonLeft Button = iota + 1
	ButtonMiddle
	ButtonRight
	ButtonWheelUp
	ButtonWheelDown
)

// Mod is a keyboard modifier bit set.
type Mod uint8

const (
	ModCtrl Mod = 1 << iota
	ModShift
	ModAlt
)

// Buttons is the set of mouse buttons held during a motion.
type Buttons uint8

// Held reports whether b is in the set.
func (s Buttons) Held(b Button) bool {
	return s&(1<<(b-1)) != 0
}

// With returns the set with b added.
func (s Buttons) With(b Button) Buttons {
	return s | 1<<(b-1)
}

// Event is a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Button Button
	Mod    Mod

	// Held and the relative motion DX, DY are set for EventMouseMove.
	Held   Buttons
	DX, DY int

	// Width and Height are set for EventWindowResize.
	Width  int
	Height int
}

// Ctrl reports whether a Ctrl key was held.
func (e Event) Ctrl() bool {
	return e.Mod&ModCtrl != 0
}

// Queue collects the events of one frame.
type Queue struct {
	events []Event
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		events: make([]Event, 0, 16),
	}
}

// Reset drops the previous frame's events.
func (q *Queue) Reset() {
	q.events = q.events[:0]
}

// Push appends an event.
func (q *Queue) Push(e Event) {
	q.events = append(q.events, e)
}

// Events returns the events pushed since the last Reset.
func (q *Queue) Events() []Event {
	return q.events
}

// Quit reports whether a quit event was pushed.
func (q *Queue) Quit() bool {
	for _, e := range q.events {
		if e.Type == EventQuit {
			return true
		}
	}
	return false
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (q *Queue) IsKeyPressed(key Key) bool {
	for _, e := range q.events {
		if e.Type == EventKeyDown && e.Key == key {
			return true
		}
	}
	return false
}
