// Package window handles SDL2 window and OpenGL context creation.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/glscene/internal/engine/input"
	"github.com/Faultbox/glscene/internal/logger"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// Window wraps SDL2 window and OpenGL context.
type Window struct {
	config    Config
	sdlWindow *sdl.Window
	glContext sdl.GLContext
	events    *input.Queue
}

// New creates a new window with OpenGL context.
func New(cfg Config) (*Window, error) {
	w := &Window{
		config: cfg,
		events: input.NewQueue(),
	}

	logger.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// Set OpenGL attributes BEFORE creating window
	// We want OpenGL 4.1 Core Profile (max supported on macOS)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		logger.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}

	logger.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)

	return w, nil
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	logger.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}

// Present swaps the OpenGL buffers.
func (w *Window) Present() {
	w.sdlWindow.GLSwap()
}

// GetSize returns the current window size.
func (w *Window) GetSize() (int, int) {
	width, height := w.sdlWindow.GetSize()
	return int(width), int(height)
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}

// PollEvents drains the SDL queue and returns this frame's events. The
// slice is reused by the next call.
func (w *Window) PollEvents() []input.Event {
	w.events.Reset()

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if e, ok := translate(event); ok {
			w.events.Push(e)
		}
	}
	return w.events.Events()
}

func translate(event sdl.Event) (input.Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return input.Event{Type: input.EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return input.Event{
				Type:   input.EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
			return input.Event{
				Type: input.EventKeyDown,
				Key:  keyFor(e.Keysym.Sym),
				Mod:  modsFor(sdl.GetModState()),
			}, true
		}

	case *sdl.MouseButtonEvent:
		if e.Type == sdl.MOUSEBUTTONDOWN {
			return input.Event{
				Type:   input.EventMouseDown,
				Button: input.Button(e.Button),
				Mod:    modsFor(sdl.GetModState()),
			}, true
		}

	case *sdl.MouseWheelEvent:
		button := input.ButtonWheelUp
		if e.Y < 0 {
			button = input.ButtonWheelDown
		} else if e.Y == 0 {
			return input.Event{}, false
		}
		return input.Event{
			Type:   input.EventMouseDown,
			Button: button,
			Mod:    modsFor(sdl.GetModState()),
		}, true

	case *sdl.MouseMotionEvent:
		return input.Event{
			Type: input.EventMouseMove,
			Held: heldFor(e.State),
			DX:   int(e.XRel),
			DY:   int(e.YRel),
			Mod:  modsFor(sdl.GetModState()),
		}, true
	}
	return input.Event{}, false
}

var keys = map[sdl.Keycode]input.Key{
	sdl.K_ESCAPE: input.KeyEscape,
	sdl.K_q:      input.KeyQ,
	sdl.K_w:      input.KeyW,
	sdl.K_c:      input.KeyC,
	sdl.K_s:      input.KeyS,
	sdl.K_1:      input.Key1,
	sdl.K_2:      input.Key2,
	sdl.K_F12:    input.KeyF12,
}

func keyFor(sym sdl.Keycode) input.Key {
	if k, ok := keys[sym]; ok {
		return k
	}
	return input.KeyUnknown
}

func modsFor(m sdl.Keymod) input.Mod {
	var mods input.Mod
	if m&sdl.KMOD_CTRL != 0 {
		mods |= input.ModCtrl
	}
	if m&sdl.KMOD_SHIFT != 0 {
		mods |= input.ModShift
	}
	if m&sdl.KMOD_ALT != 0 {
		mods |= input.ModAlt
	}
	return mods
}

// heldFor keeps the left, middle and right bits of an SDL button mask,
// which share input.Buttons' layout.
func heldFor(state uint32) input.Buttons {
	return input.Buttons(state & 0x7)
}
