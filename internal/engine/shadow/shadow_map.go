// Package shadow renders the scene's depth from the light into a shadow map
// that lit shaders sample in the main pass.
package shadow

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/glscene/internal/engine/framebuffer"
	"github.com/Faultbox/glscene/internal/engine/lighting"
	"github.com/Faultbox/glscene/internal/engine/shader"
	"github.com/Faultbox/glscene/internal/engine/texture"
	"github.com/Faultbox/glscene/internal/gfx"
	"github.com/Faultbox/glscene/internal/logger"
)

// DefaultResolution is the default shadow map size in texels.
const DefaultResolution = 1024

// Sampler and matrix uniform names used by the shadow mapping shader.
const (
	SamplerUniform = "shadow_map"
	MatrixUniform  = "shadow_map_matrix"
)

// Caster draws every model that casts a shadow with the given context.
type Caster interface {
	DrawShadowCasters(dc shader.DrawContext) error
}

// Map is a depth texture rendered from the light's point of view.
type Map struct {
	Light  *lighting.Light
	Bounds Bounds

	// P and V are the light projection and view of the last Render.
	P mgl32.Mat4
	V mgl32.Mat4

	ctx     *gfx.Context
	depth   *texture.Texture
	fb      *framebuffer.Framebuffer
	program *shader.Program
}

// New allocates a resolution×resolution shadow map for light.
func New(ctx *gfx.Context, light *lighting.Light, bounds Bounds, resolution int32, src shader.SourceProvider) (*Map, error) {
	if resolution <= 0 {
		resolution = DefaultResolution
	}

	program, err := shader.New(shader.Depth, src)
	if err != nil {
		return nil, err
	}
	if err := program.Compile(ctx, []shader.Attribute{{Name: "position", Slot: 0}}); err != nil {
		return nil, fmt.Errorf("shadow map: %w", err)
	}

	depth := texture.NewDepth(ctx, "shadow_map", resolution, resolution)
	fb, err := framebuffer.New(ctx, depth, 0)
	depth.Release() // the framebuffer holds its own reference
	if err != nil {
		program.Destroy()
		return nil, fmt.Errorf("shadow map: %w", err)
	}

	m := &Map{
		Light:   light,
		Bounds:  bounds,
		ctx:     ctx,
		depth:   depth,
		fb:      fb,
		program: program,
	}
	m.update()

	logger.Info("shadow map created", zap.Int32("resolution", resolution))
	return m, nil
}

func (m *Map) update() {
	m.V, m.P = LightMatrices(m.Light.Position, m.Bounds)
}

// Matrix returns the light's projection-view; it implements
// shader.MatrixSource so receivers get P·V·M per model.
func (m *Map) Matrix() mgl32.Mat4 {
	return m.P.Mul4(m.V)
}

// Texture returns the depth texture.
func (m *Map) Texture() *texture.Texture {
	return m.depth
}

// Attach makes p sample this shadow map.
func (m *Map) Attach(p *shader.Program) {
	p.AttachSampler(SamplerUniform, m.depth)
	p.AttachModelMatrix(MatrixUniform, m)
}

// Render draws the casters' depth from the light. dc supplies the light and
// mode; projection, view and program are replaced for the pass. Front
// faces are culled while rendering to reduce acne; back-face culling is
// restored afterwards.
func (m *Map) Render(dc shader.DrawContext, casters Caster) error {
	m.update()

	release, err := m.fb.Bind()
	if err != nil {
		return fmt.Errorf("shadow pass: %w", err)
	}
	defer release()

	m.fb.Clear(1, 1, 1, 1)
	m.ctx.SetCullMode(gfx.CullFront)
	defer m.ctx.SetCullMode(gfx.CullBack)

	sdc := dc
	sdc.P = m.P
	sdc.V = m.V
	sdc.Pass = shader.PassShadow
	sdc.Override = m.program
	return casters.DrawShadowCasters(sdc)
}

// Destroy releases the framebuffer, its depth texture and the depth program.
func (m *Map) Destroy() {
	m.fb.Destroy()
	m.program.Destroy()
}
