package envmap

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/glscene/internal/engine/shader"
	"github.com/Faultbox/glscene/internal/gfx"
	"github.com/Faultbox/glscene/internal/gfx/gfxtest"
	"github.com/Faultbox/glscene/pkg/math"
)

type recordingReflector struct {
	rec      *gfxtest.Recorder
	contexts []shader.DrawContext
	targets  []gfx.Handle
	err      error
}

func (r *recordingReflector) DrawReflections(dc shader.DrawContext) error {
	r.contexts = append(r.contexts, dc)
	r.targets = append(r.targets, r.rec.Framebuffer)
	return r.err
}

func newMap(t *testing.T, static bool) (*Map, *gfxtest.Recorder) {
	t.Helper()
	rec := gfxtest.New()
	ctx := gfx.NewContext(rec)
	rec.SetViewport(gfx.Viewport{Width: 640, Height: 480})
	m, err := New(ctx, 32, static)
	require.NoError(t, err)
	t.Cleanup(m.Destroy)
	return m, rec
}

func TestUpdateRendersSixFacesAndRestores(t *testing.T) {
	m, rec := newMap(t, false)
	r := &recordingReflector{rec: rec}

	P := math.Frustum(-2, 2, -1, 1, 1, 50)
	base := shader.DrawContext{P: P, V: mgl32.Ident4(), Mode: 2}
	require.NoError(t, m.Update(base, r))

	require.Len(t, r.contexts, 6)
	seen := map[gfx.Handle]bool{}
	for i, dc := range r.contexts {
		assert.Equal(t, Projection, dc.P)
		assert.Equal(t, shader.PassEnvironment, dc.Pass)
		assert.Equal(t, int32(2), dc.Mode)
		assert.Equal(t, FaceView(gfx.CubeFaces[i]), dc.V)
		assert.NotEqual(t, gfx.NoHandle, r.targets[i])
		seen[r.targets[i]] = true
	}
	assert.Len(t, seen, 6, "each face renders into its own framebuffer")

	assert.Equal(t, P, base.P)
	assert.Equal(t, gfx.Viewport{Width: 640, Height: 480}, rec.Viewport())
	assert.Equal(t, gfx.NoHandle, rec.Framebuffer)
}

func TestStaticMapRendersOnce(t *testing.T) {
	m, rec := newMap(t, true)
	r := &recordingReflector{rec: rec}

	require.NoError(t, m.Update(shader.DrawContext{}, r))
	require.NoError(t, m.Update(shader.DrawContext{}, r))
	assert.Len(t, r.contexts, 6)
	assert.True(t, m.Done())

	m.Invalidate()
	require.NoError(t, m.Update(shader.DrawContext{}, r))
	assert.Len(t, r.contexts, 12)
}

func TestUpdateStopsOnError(t *testing.T) {
	m, rec := newMap(t, false)
	boom := errors.New("boom")
	r := &recordingReflector{rec: rec, err: boom}

	err := m.Update(shader.DrawContext{}, r)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, r.contexts, 1)
	assert.False(t, m.Done())
	assert.Equal(t, gfx.NoHandle, rec.Framebuffer)
}

func TestCenterTranslatesFaceViews(t *testing.T) {
	m, rec := newMap(t, false)
	m.Center = mgl32.Vec3{0, 2, 0}
	r := &recordingReflector{rec: rec}
	require.NoError(t, m.Update(shader.DrawContext{}, r))

	// The +z face looks straight at the capture point.
	last := r.contexts[4]
	got := math.TransformPoint(last.V, m.Center)
	assert.True(t, got.ApproxEqualThreshold(mgl32.Vec3{}, 1e-6), "got %v", got)
}

func TestDestroyReleasesCube(t *testing.T) {
	rec := gfxtest.New()
	ctx := gfx.NewContext(rec)
	m, err := New(ctx, 8, false)
	require.NoError(t, err)

	cube := m.Texture()
	assert.Equal(t, 7, cube.Refs())
	m.Destroy()
	assert.Equal(t, 0, cube.Refs())
	assert.Equal(t, 6, rec.Count("DeleteFramebuffer"))
	assert.Equal(t, 1, rec.Count("DeleteTexture"))
}
