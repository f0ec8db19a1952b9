package scene

import (
	"go.uber.org/zap"

	"github.com/Faultbox/glscene/internal/engine/input"
	"github.com/Faultbox/glscene/internal/logger"
)

// Light scale factors applied by Ctrl+wheel.
const (
	lightScaleUp   = 1.1
	lightScaleDown = 0.9
)

// HandleEvent maps an input event onto the camera, light and overlays.
// It returns false once the scene should stop.
func (s *Scene) HandleEvent(e input.Event) bool {
	switch e.Type {
	case input.EventQuit:
		s.Quit()
	case input.EventWindowResize:
		s.Resize(int32(e.Width), int32(e.Height))
	case input.EventKeyDown:
		s.handleKey(e.Key)
	case input.EventMouseDown:
		s.handleButton(e)
	case input.EventMouseMove:
		s.handleMotion(e)
	}
	return s.running
}

func (s *Scene) handleKey(key input.Key) {
	switch key {
	case input.KeyQ, input.KeyEscape:
		s.Quit()
	case input.KeyC:
		s.ToggleOverlay(OverlayCube)
	case input.KeyS:
		s.ToggleOverlay(OverlayShadow)
	case input.KeyW:
		s.wireframe = !s.wireframe
		logger.Debug("wireframe", zap.Bool("enabled", s.wireframe))
	default:
		if h, ok := s.KeyHandlers[key]; ok {
			h()
		}
	}
}

func (s *Scene) handleButton(e input.Event) {
	switch e.Button {
	case input.ButtonWheelUp:
		if e.Ctrl() {
			s.Light.Scale(lightScaleUp)
		} else {
			s.Camera.Zoom(1)
		}
	case input.ButtonWheelDown:
		if e.Ctrl() {
			s.Light.Scale(lightScaleDown)
		} else {
			s.Camera.Zoom(-1)
		}
	}
}

// handleMotion pans with the left button and orbits with the right one.
// Deltas are normalised by the window size.
func (s *Scene) handleMotion(e input.Event) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	dx := float32(e.DX) / float32(w)
	dy := float32(e.DY) / float32(h)

	switch {
	case e.Held.Held(input.ButtonLeft):
		s.Camera.Pan(dx, dy)
	case e.Held.Held(input.ButtonRight):
		s.Camera.Orbit(dx, dy)
	}
}

// Wireframe reports whether the main pass draws in wireframe.
func (s *Scene) Wireframe() bool {
	return s.wireframe
}
