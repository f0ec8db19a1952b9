// Package scene sequences the render passes of a frame: shadow map,
// environment map, main pass and debug overlays.
package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/glscene/internal/engine/camera"
	"github.com/Faultbox/glscene/internal/engine/envmap"
	"github.com/Faultbox/glscene/internal/engine/input"
	"github.com/Faultbox/glscene/internal/engine/lighting"
	"github.com/Faultbox/glscene/internal/engine/model"
	"github.com/Faultbox/glscene/internal/engine/shader"
	"github.com/Faultbox/glscene/internal/engine/shadow"
	"github.com/Faultbox/glscene/internal/gfx"
	"github.com/Faultbox/glscene/internal/logger"
	"github.com/Faultbox/glscene/pkg/math"
)

// ErrSceneBusy is returned when the model list is changed during a draw.
var ErrSceneBusy = errors.New("scene: cannot modify while drawing")

// Presenter shows the finished frame, usually by swapping buffers.
type Presenter interface {
	Present()
}

// Config contains scene configuration options.
type Config struct {
	Width      int32
	Height     int32
	ClearColor mgl32.Vec4
	// Mode is passed to lighting shaders as the "mode" uniform.
	Mode int32
	// LightMarkerScale is the size of the sphere drawn at the light.
	LightMarkerScale float32
}

// DefaultConfig returns a default scene configuration.
func DefaultConfig() Config {
	return Config{
		Width:            800,
		Height:           600,
		ClearColor:       mgl32.Vec4{0.7, 0.7, 1.0, 1.0},
		Mode:             1,
		LightMarkerScale: 0.2,
	}
}

// DefaultProjection is the perspective used by the main pass.
func DefaultProjection() mgl32.Mat4 {
	return math.Frustum(-1, 1, -1, 1, 1, 20)
}

// Scene owns the models, passes and overlays of one window.
type Scene struct {
	Camera *camera.Camera
	Light  *lighting.Light
	P      mgl32.Mat4
	Mode   int32

	// Optional passes.
	Skybox      *model.Model
	Shadows     *shadow.Map
	Environment *envmap.Map

	// Overlays. CubeOverlay and ShadowOverlay are drawn in screen space;
	// LightMarker follows the light in world space.
	CubeOverlay   *model.Model
	ShadowOverlay *model.Model
	LightMarker   *model.Model

	// KeyHandlers run for keys the scene does not handle itself.
	KeyHandlers map[input.Key]func()

	config     Config
	ctx        *gfx.Context
	presenter  Presenter
	models     []*model.Model
	reflective []*model.Model
	programs   []*shader.Program
	drawing    bool
	running    bool
	wireframe  bool

	beforePresent []func()
}

// New creates an empty scene drawing through ctx. presenter may be nil for
// headless use.
func New(ctx *gfx.Context, cfg Config, presenter Presenter) *Scene {
	if cfg.LightMarkerScale == 0 {
		cfg.LightMarkerScale = 0.2
	}
	s := &Scene{
		Camera:      camera.New(),
		Light:       lighting.New(mgl32.Vec3{5, 5, 5}),
		P:           DefaultProjection(),
		Mode:        cfg.Mode,
		KeyHandlers: make(map[input.Key]func()),
		config:      cfg,
		ctx:         ctx,
		presenter:   presenter,
		running:     true,
	}
	c := cfg.ClearColor
	ctx.SetClearColor(c[0], c[1], c[2], c[3])
	ctx.SetViewport(s.viewport())
	ctx.SetCullMode(gfx.CullBack)
	return s
}

// Context returns the graphics context the scene draws with.
func (s *Scene) Context() *gfx.Context {
	return s.ctx
}

// Size returns the window size in pixels.
func (s *Scene) Size() (width, height int32) {
	return s.config.Width, s.config.Height
}

func (s *Scene) viewport() gfx.Viewport {
	return gfx.Viewport{Width: s.config.Width, Height: s.config.Height}
}

// Resize updates the scene dimensions.
func (s *Scene) Resize(width, height int32) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == s.config.Width && height == s.config.Height {
		return
	}
	s.config.Width = width
	s.config.Height = height
	s.ctx.SetViewport(s.viewport())
	logger.Debug("scene resized", zap.Int32("width", width), zap.Int32("height", height))
}

// AddModel appends m to the draw list. Models draw in insertion order.
func (s *Scene) AddModel(m ...*model.Model) error {
	if s.drawing {
		return ErrSceneBusy
	}
	s.models = append(s.models, m...)
	return nil
}

// AddReflective appends a model that samples the environment map. It is
// left out of the environment pass and drawn after the opaque models.
func (s *Scene) AddReflective(m *model.Model) error {
	if s.drawing {
		return ErrSceneBusy
	}
	s.reflective = append(s.reflective, m)
	return nil
}

// Own hands programs to the scene; they are destroyed with it.
func (s *Scene) Own(p ...*shader.Program) {
	s.programs = append(s.programs, p...)
}

// Models returns the draw list.
func (s *Scene) Models() []*model.Model {
	return s.models
}

// Reflective returns the reflective models.
func (s *Scene) Reflective() []*model.Model {
	return s.reflective
}

// Running reports whether the scene has not been asked to quit.
func (s *Scene) Running() bool {
	return s.running
}

// Quit stops the scene's event loop.
func (s *Scene) Quit() {
	s.running = false
}

// DrawContext returns the main-pass context for the current camera.
func (s *Scene) DrawContext() shader.DrawContext {
	return shader.DrawContext{
		P:     s.P,
		V:     s.Camera.V,
		Light: s.Light,
		Mode:  s.Mode,
		Pass:  shader.PassMain,
	}
}

// Draw renders one frame to the window and presents it.
func (s *Scene) Draw() error {
	return s.draw(true)
}

// DrawOffscreen renders into whatever target the caller has bound, without
// clearing, updating the camera or presenting. The shadow and environment
// maps keep what the last Draw rendered into them. The reflective models and
// screen overlays are left out.
func (s *Scene) DrawOffscreen() error {
	return s.draw(false)
}

func (s *Scene) draw(onscreen bool) (err error) {
	if s.drawing {
		return ErrSceneBusy
	}
	s.drawing = true
	defer func() { s.drawing = false }()

	if onscreen {
		s.ctx.Clear(gfx.ClearColor | gfx.ClearDepth)
		s.Camera.Update()
	}
	dc := s.DrawContext()

	if onscreen && s.Shadows != nil {
		if err := s.Shadows.Render(dc, s); err != nil {
			return err
		}
	}
	if onscreen && s.Environment != nil && len(s.reflective) > 0 {
		s.Environment.Center = math.TransformPoint(s.reflective[0].M, mgl32.Vec3{})
		if err := s.Environment.Update(dc, s); err != nil {
			return err
		}
	}

	s.ctx.SetWireframe(s.wireframe)
	err = multierr.Append(err, s.drawSkybox(dc))
	err = multierr.Append(err, drawAll(dc, s.models))
	if onscreen {
		err = multierr.Append(err, drawAll(dc, s.reflective))
	}
	s.ctx.SetWireframe(false)

	if onscreen {
		err = multierr.Append(err, s.drawOverlays())
	}
	if s.LightMarker != nil {
		s.LightMarker.M = math.Pose(s.Light.Position, s.config.LightMarkerScale)
		err = multierr.Append(err, s.LightMarker.Draw(dc, mgl32.Ident4()))
	}

	if onscreen {
		hooks := s.beforePresent
		s.beforePresent = nil
		for _, fn := range hooks {
			fn()
		}
		if s.presenter != nil {
			s.presenter.Present()
		}
	}
	return err
}

// BeforePresent runs fn once, after the next on-screen frame is drawn and
// before it is presented. The back buffer still holds that frame, so fn may
// call CaptureImage.
func (s *Scene) BeforePresent(fn func()) {
	s.beforePresent = append(s.beforePresent, fn)
}

func (s *Scene) drawSkybox(dc shader.DrawContext) error {
	if s.Skybox == nil {
		return nil
	}
	return s.Skybox.Draw(dc, mgl32.Ident4())
}

func drawAll(dc shader.DrawContext, models []*model.Model) error {
	var err error
	for _, m := range models {
		err = multierr.Append(err, m.Draw(dc, mgl32.Ident4()))
	}
	return err
}

// DrawReflections draws the skybox and every non-reflective model. It is
// what the environment map sees and never starts another environment pass.
func (s *Scene) DrawReflections(dc shader.DrawContext) error {
	return multierr.Append(s.drawSkybox(dc), drawAll(dc, s.models))
}

// DrawShadowCasters draws the models that cast shadows.
func (s *Scene) DrawShadowCasters(dc shader.DrawContext) error {
	var err error
	for _, m := range s.models {
		if m.CastsShadow {
			err = multierr.Append(err, m.Draw(dc, mgl32.Ident4()))
		}
	}
	return err
}

// Destroy releases every model, owned program and pass target.
func (s *Scene) Destroy() error {
	if s.drawing {
		return ErrSceneBusy
	}

	var err error
	for _, m := range s.all() {
		if m.Bound() {
			m.Destroy()
		} else {
			err = multierr.Append(err, fmt.Errorf("model %q: %w", m.Name, model.ErrNotBound))
		}
	}
	for _, p := range s.programs {
		p.Destroy()
	}
	if s.Shadows != nil {
		s.Shadows.Destroy()
	}
	if s.Environment != nil {
		s.Environment.Destroy()
	}

	s.models, s.reflective, s.programs = nil, nil, nil
	s.Skybox, s.CubeOverlay, s.ShadowOverlay, s.LightMarker = nil, nil, nil, nil
	s.Shadows, s.Environment = nil, nil
	logger.Info("scene destroyed")
	return err
}

func (s *Scene) all() []*model.Model {
	out := make([]*model.Model, 0, len(s.models)+len(s.reflective)+4)
	out = append(out, s.models...)
	out = append(out, s.reflective...)
	for _, m := range []*model.Model{s.Skybox, s.CubeOverlay, s.ShadowOverlay, s.LightMarker} {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// CaptureImage reads the window back as RGBA rows ordered top to bottom.
func (s *Scene) CaptureImage() ([]byte, int32, int32) {
	width, height := s.config.Width, s.config.Height
	pixels := s.ctx.ReadPixels(s.viewport())

	// GL rows start at the bottom.
	rowSize := int(width) * 4
	flipped := make([]byte, len(pixels))
	for y := 0; y < int(height); y++ {
		srcRow := (int(height) - 1 - y) * rowSize
		dstRow := y * rowSize
		copy(flipped[dstRow:dstRow+rowSize], pixels[srcRow:srcRow+rowSize])
	}
	return flipped, width, height
}
