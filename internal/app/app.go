// Package app wires the window, GL backend and demo scene into the main
// loop.
package app

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/glscene/internal/assets"
	"github.com/Faultbox/glscene/internal/config"
	"github.com/Faultbox/glscene/internal/engine/debug"
	"github.com/Faultbox/glscene/internal/engine/input"
	"github.com/Faultbox/glscene/internal/engine/renderer"
	"github.com/Faultbox/glscene/internal/engine/scene"
	"github.com/Faultbox/glscene/internal/engine/window"
	"github.com/Faultbox/glscene/internal/gfx"
	"github.com/Faultbox/glscene/internal/jungle"
	"github.com/Faultbox/glscene/internal/logger"
)

// Title is the window title.
const Title = "glscene"

// App is the running program.
type App struct {
	config   *config.Config
	window   *window.Window
	renderer *renderer.Renderer
	assets   *assets.Library
	scene    *scene.Scene
	shots    *debug.ScreenshotCapture
}

// New opens the window and builds the scene.
func New(cfg *config.Config) (*App, error) {
	logger.Info("initializing",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Bool("fullscreen", cfg.Graphics.Fullscreen),
	)

	a := &App{
		config: cfg,
		assets: assets.NewLibrary(cfg.Assets.Roots...),
		shots:  debug.NewScreenshotCapture(cfg.Debug.ScreenshotDir, Title),
	}

	// Create window (this also creates OpenGL context)
	var err error
	a.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	width, height := a.window.GetSize()
	a.renderer, err = renderer.New(int32(width), int32(height))
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	sc := jungle.SceneConfig(cfg)
	sc.Width, sc.Height = int32(width), int32(height)
	a.scene = scene.New(gfx.NewContext(a.renderer), sc, a.window)
	if _, err := jungle.Build(a.scene, cfg, a.assets); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to build scene: %w", err)
	}
	a.scene.KeyHandlers[input.KeyF12] = func() {
		a.scene.BeforePresent(a.screenshot)
	}

	logger.Info("initialized successfully")
	return a, nil
}

// Run runs the main loop until the scene quits.
func (a *App) Run() error {
	logger.Info("starting main loop")
	l := &loop{
		events:   a.window,
		frame:    a.scene,
		fpsLimit: a.config.Graphics.FPSLimit,
	}
	return l.run()
}

func (a *App) screenshot() {
	if _, err := a.shots.Capture(a.scene); err != nil {
		logger.Error("screenshot failed", zap.Error(err))
	}
}

// Close releases the scene, assets and window. Problems releasing the
// scene are reported together.
func (a *App) Close() error {
	logger.Info("closing")

	var err error
	if a.scene != nil {
		err = multierr.Append(err, a.scene.Destroy())
		a.scene = nil
	}
	a.assets.Close()
	if a.window != nil {
		a.window.Close()
		a.window = nil
	}
	return err
}

type eventSource interface {
	PollEvents() []input.Event
}

type frame interface {
	HandleEvent(e input.Event) bool
	Draw() error
	Running() bool
}

type loop struct {
	events   eventSource
	frame    frame
	fpsLimit int

	now    func() time.Time
	sleep  func(time.Duration)
	frames int
}

func (l *loop) run() error {
	if l.now == nil {
		l.now = time.Now
	}
	if l.sleep == nil {
		l.sleep = time.Sleep
	}

	var budget time.Duration
	if l.fpsLimit > 0 {
		budget = time.Second / time.Duration(l.fpsLimit)
	}

	frameCount := 0
	fpsTimer := l.now()

	for l.frame.Running() {
		start := l.now()

		for _, e := range l.events.PollEvents() {
			if !l.frame.HandleEvent(e) {
				break
			}
		}
		if !l.frame.Running() {
			break
		}

		if err := l.frame.Draw(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		l.frames++

		if budget > 0 {
			if spent := l.now().Sub(start); spent < budget {
				l.sleep(budget - spent)
			}
		}

		frameCount++
		if l.now().Sub(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = l.now()
		}
	}
	return nil
}
