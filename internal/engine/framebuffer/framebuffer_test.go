package framebuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/glscene/internal/engine/texture"
	"github.com/Faultbox/glscene/internal/gfx"
	"github.com/Faultbox/glscene/internal/gfx/gfxtest"
)

func TestCubeFaceTarget(t *testing.T) {
	rec := gfxtest.New()
	ctx := gfx.NewContext(rec)
	rec.SetViewport(gfx.Viewport{Width: 800, Height: 600})
	cube := texture.NewCubeTarget(ctx, "env", 64, 64)

	fb, err := New(ctx, cube, gfx.FaceNegativeY)
	require.NoError(t, err)
	assert.Equal(t, 2, cube.Refs())
	assert.Equal(t, gfx.NoHandle, rec.Framebuffer, "creation restores the default target")
	assert.Equal(t, int32(800), rec.Viewport().Width)

	var attach gfxtest.Call
	for _, c := range rec.Calls {
		if c.Name == "FramebufferTexture" {
			attach = c
		}
	}
	assert.Equal(t, []any{gfx.ColorAttachment, gfx.TextureCubeMap, gfx.FaceNegativeY, cube.Handle()}, attach.Args)
	assert.Equal(t, 1, rec.Count("CreateDepthBuffer"))

	release, err := fb.Bind()
	require.NoError(t, err)
	assert.Equal(t, gfx.Viewport{Width: 64, Height: 64}, rec.Viewport())
	release()
	assert.Equal(t, int32(800), rec.Viewport().Width)

	fb.Destroy()
	assert.Equal(t, 1, cube.Refs())
	assert.Equal(t, 1, rec.Count("DeleteFramebuffer"))
	assert.Equal(t, 1, rec.Count("DeleteDepthBuffer"))

	fb.Destroy()
	assert.Equal(t, 1, rec.Count("DeleteFramebuffer"))
}

func TestDepthTargetHasNoRenderbuffer(t *testing.T) {
	rec := gfxtest.New()
	ctx := gfx.NewContext(rec)
	depth := texture.NewDepth(ctx, "shadow", 128, 128)

	fb, err := New(ctx, depth, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Count("CreateDepthBuffer"))

	rec.Reset()
	release, err := fb.Bind()
	require.NoError(t, err)
	fb.Clear(1, 1, 1, 1)
	release()
	assert.Contains(t, rec.Calls, gfxtest.Call{Name: "Clear", Args: []any{gfx.ClearDepth}})
}

func TestIncompleteFramebuffer(t *testing.T) {
	rec := gfxtest.New()
	rec.Incomplete = true
	ctx := gfx.NewContext(rec)
	tex := texture.NewCubeTarget(ctx, "env", 8, 8)

	_, err := New(ctx, tex, gfx.FacePositiveX)
	assert.ErrorContains(t, err, "incomplete")
	assert.Equal(t, 1, tex.Refs())
	assert.Equal(t, 1, rec.Count("DeleteFramebuffer"))
}

func TestNestedBindFails(t *testing.T) {
	ctx := gfx.NewContext(gfxtest.New())
	a, err := New(ctx, texture.NewCubeTarget(ctx, "a", 8, 8), gfx.FacePositiveX)
	require.NoError(t, err)
	b, err := New(ctx, texture.NewCubeTarget(ctx, "b", 8, 8), gfx.FacePositiveX)
	require.NoError(t, err)

	release, err := a.Bind()
	require.NoError(t, err)
	defer release()

	_, err = b.Bind()
	assert.ErrorIs(t, err, gfx.ErrNestedTarget)
	_, err = b.ReadPixels()
	assert.ErrorIs(t, err, gfx.ErrNestedTarget)
}
