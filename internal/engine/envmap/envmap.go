// Package envmap captures the scene around a point into a cube map that
// reflective models sample in the main pass.
package envmap

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/glscene/internal/engine/framebuffer"
	"github.com/Faultbox/glscene/internal/engine/shader"
	"github.com/Faultbox/glscene/internal/engine/texture"
	"github.com/Faultbox/glscene/internal/gfx"
	"github.com/Faultbox/glscene/internal/logger"
	"github.com/Faultbox/glscene/pkg/math"
)

const (
	// DefaultSize is the edge length of each cube face in texels.
	DefaultSize = 200

	// SamplerUniform is the environment shader's cube sampler.
	SamplerUniform = "sampler_cube"
)

// Reflector draws everything that should appear in reflections.
type Reflector interface {
	DrawReflections(dc shader.DrawContext) error
}

// Projection is the wide-angle frustum used for every face.
var Projection = math.Frustum(-1, 1, -1, 1, 1, 20)

// FaceView returns the camera rotation that looks through a cube face.
func FaceView(face gfx.CubeFace) mgl32.Mat4 {
	switch face {
	case gfx.FaceNegativeX:
		return math.RotationY(-math32.Pi / 2)
	case gfx.FacePositiveX:
		return math.RotationY(math32.Pi / 2)
	case gfx.FaceNegativeY:
		return math.RotationX(math32.Pi / 2)
	case gfx.FacePositiveY:
		return math.RotationX(-math32.Pi / 2)
	case gfx.FaceNegativeZ:
		return math.RotationY(-math32.Pi)
	default:
		return mgl32.Ident4()
	}
}

// Map is a cube texture with one framebuffer per face.
type Map struct {
	// Center is the world position the faces are captured from.
	Center mgl32.Vec3
	// Static maps are captured on the first Update only.
	Static bool

	ctx   *gfx.Context
	cube  *texture.Texture
	faces [6]*framebuffer.Framebuffer
	done  bool
}

// New allocates a size×size cube target and its six framebuffers.
func New(ctx *gfx.Context, size int32, static bool) (*Map, error) {
	if size <= 0 {
		size = DefaultSize
	}
	cube := texture.NewCubeTarget(ctx, "environment", size, size)
	m := &Map{Static: static, ctx: ctx, cube: cube}

	for i, face := range gfx.CubeFaces {
		fb, err := framebuffer.New(ctx, cube, face)
		if err != nil {
			m.Destroy()
			return nil, fmt.Errorf("environment map face %s: %w", face, err)
		}
		m.faces[i] = fb
	}

	logger.Info("environment map created", zap.Int32("size", size), zap.Bool("static", static))
	return m, nil
}

// Texture returns the cube map.
func (m *Map) Texture() *texture.Texture {
	return m.cube
}

// Attach makes p sample this environment map.
func (m *Map) Attach(p *shader.Program) {
	p.AttachSampler(SamplerUniform, m.cube)
}

// Done reports whether a static map has been captured.
func (m *Map) Done() bool {
	return m.done
}

// Invalidate forces a static map to be captured again.
func (m *Map) Invalidate() {
	m.done = false
}

// Update renders the six faces with r. base supplies the light and mode;
// the caller's projection is not modified and the previous viewport is
// restored after each face.
func (m *Map) Update(base shader.DrawContext, r Reflector) error {
	if m.Static && m.done {
		return nil
	}

	dc := base
	dc.P = Projection
	dc.Pass = shader.PassEnvironment
	dc.Override = nil
	toCenter := math.Translation(m.Center.Mul(-1))

	for i, fb := range m.faces {
		if err := m.renderFace(fb, FaceView(gfx.CubeFaces[i]).Mul4(toCenter), dc, r); err != nil {
			return err
		}
	}
	m.done = true
	return nil
}

func (m *Map) renderFace(fb *framebuffer.Framebuffer, view mgl32.Mat4, dc shader.DrawContext, r Reflector) error {
	release, err := fb.Bind()
	if err != nil {
		return fmt.Errorf("environment face %s: %w", fb.Face(), err)
	}
	defer release()

	fb.Clear(0, 0, 0, 1)
	dc.V = view
	return r.DrawReflections(dc)
}

// Destroy deletes the face framebuffers and releases the cube texture.
func (m *Map) Destroy() {
	for i, fb := range m.faces {
		if fb != nil {
			fb.Destroy()
			m.faces[i] = nil
		}
	}
	if m.cube != nil {
		m.cube.Release()
		m.cube = nil
	}
}
