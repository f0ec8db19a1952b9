package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestButtonsHeld(t *testing.T) {
	var s Buttons
	s = s.With(ButtonLeft).With(ButtonRight)
	assert.True(t, s.Held(ButtonLeft))
	assert.True(t, s.Held(ButtonRight))
	assert.False(t, s.Held(ButtonMiddle))
}

func TestQueue(t *testing.T) {
	q := NewQueue()
	q.Push(Event{Type: EventKeyDown, Key: KeyC})
	assert.True(t, q.IsKeyPressed(KeyC))
	assert.False(t, q.IsKeyPressed(KeyS))
	assert.False(t, q.Quit())

	q.Push(Event{Type: EventQuit})
	assert.True(t, q.Quit())

	q.Reset()
	assert.Empty(t, q.Events())
}

func TestCtrl(t *testing.T) {
	assert.True(t, Event{Mod: ModCtrl | ModShift}.Ctrl())
	assert.False(t, Event{Mod: ModShift}.Ctrl())
}
