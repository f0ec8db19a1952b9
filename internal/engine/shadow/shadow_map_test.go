package shadow

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/glscene/internal/engine/lighting"
	"github.com/Faultbox/glscene/internal/engine/shader"
	"github.com/Faultbox/glscene/internal/gfx"
	"github.com/Faultbox/glscene/internal/gfx/gfxtest"
	"github.com/Faultbox/glscene/pkg/math"
)

type casterFunc func(dc shader.DrawContext) error

func (f casterFunc) DrawShadowCasters(dc shader.DrawContext) error { return f(dc) }

func newMap(t *testing.T) (*Map, *gfxtest.Recorder, *gfx.Context) {
	t.Helper()
	rec := gfxtest.New()
	ctx := gfx.NewContext(rec)
	rec.SetViewport(gfx.Viewport{Width: 640, Height: 480})
	light := lighting.New(mgl32.Vec3{3, 4, -3})
	m, err := New(ctx, light, Bounds{Radius: 5}, 256, shader.Embedded())
	require.NoError(t, err)
	return m, rec, ctx
}

func TestLightMatricesProjectBoundsCentre(t *testing.T) {
	view, proj := LightMatrices(mgl32.Vec3{3, 4, -3}, Bounds{Radius: 2})
	p := math.TransformPoint(proj.Mul4(view), mgl32.Vec3{})
	assert.InDelta(t, 0, p[0], 1e-5)
	assert.InDelta(t, 0, p[1], 1e-5)
	assert.True(t, p[2] > -1 && p[2] < 1, "centre inside depth range: %v", p)
}

func TestLightMatricesVerticalLight(t *testing.T) {
	view, _ := LightMatrices(mgl32.Vec3{0, 10, 0}, Bounds{Radius: 1})
	for _, f := range view {
		assert.False(t, gomath.IsNaN(float64(f)), "NaN in view matrix")
	}
}

func TestRenderUsesDepthProgramAndRestoresState(t *testing.T) {
	m, rec, _ := newMap(t)
	defer m.Destroy()

	var got shader.DrawContext
	var cullDuring gfx.CullMode
	err := m.Render(shader.DrawContext{Mode: 1, Pass: shader.PassMain}, casterFunc(func(dc shader.DrawContext) error {
		got = dc
		cullDuring = rec.Cull
		assert.Equal(t, gfx.Viewport{Width: 256, Height: 256}, rec.Viewport())
		assert.NotEqual(t, gfx.NoHandle, rec.Framebuffer)
		return nil
	}))
	require.NoError(t, err)

	assert.Equal(t, shader.PassShadow, got.Pass)
	require.NotNil(t, got.Override)
	assert.Equal(t, shader.Depth, got.Override.Model)
	assert.Equal(t, m.P, got.P)
	assert.Equal(t, m.V, got.V)
	assert.Equal(t, int32(1), got.Mode)
	assert.Equal(t, gfx.CullFront, cullDuring)

	assert.Equal(t, gfx.CullBack, rec.Cull)
	assert.Equal(t, gfx.NoHandle, rec.Framebuffer)
	assert.Equal(t, gfx.Viewport{Width: 640, Height: 480}, rec.Viewport())
}

func TestRenderFollowsLight(t *testing.T) {
	m, _, _ := newMap(t)
	defer m.Destroy()

	before := m.Matrix()
	m.Light.Position = mgl32.Vec3{-3, 4, 3}
	require.NoError(t, m.Render(shader.DrawContext{}, casterFunc(func(shader.DrawContext) error { return nil })))
	assert.NotEqual(t, before, m.Matrix())
}

func TestAttachBindsSamplerAndMatrix(t *testing.T) {
	m, rec, ctx := newMap(t)
	defer m.Destroy()

	p, err := shader.New(shader.ShadowMapping, shader.Embedded())
	require.NoError(t, err)
	require.NoError(t, p.Compile(ctx, []shader.Attribute{{Name: "position", Slot: 0}, {Name: "normal", Slot: 1}}))
	m.Attach(p)
	assert.Equal(t, 2, m.Texture().Refs())

	M := math.Translation(mgl32.Vec3{1, 0, 0})
	require.NoError(t, p.Bind(shader.DrawContext{P: mgl32.Ident4(), V: mgl32.Ident4()}, shader.DrawParams{M: M}))

	unit, ok := rec.Uniform(p.Handle(), SamplerUniform)
	require.True(t, ok)
	assert.Equal(t, int32(0), unit)
	assert.Equal(t, m.Texture().Handle(), rec.Units[0])

	mat, ok := rec.Uniform(p.Handle(), MatrixUniform)
	require.True(t, ok)
	assert.True(t, m.Matrix().Mul4(M).ApproxEqual(mat.(mgl32.Mat4)))

	p.Destroy()
	assert.Equal(t, 1, m.Texture().Refs())
}
