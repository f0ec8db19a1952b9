// Package framebuffer provides off-screen render targets backed by a 2D
// texture or one face of a cube map.
package framebuffer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/glscene/internal/engine/texture"
	"github.com/Faultbox/glscene/internal/gfx"
	"github.com/Faultbox/glscene/internal/logger"
)

// Framebuffer renders into a texture. Colour targets get a depth
// renderbuffer; depth textures are attached as the depth buffer directly.
type Framebuffer struct {
	ctx     *gfx.Context
	fbo     gfx.Handle
	depthRB gfx.Handle
	target  *texture.Texture
	face    gfx.CubeFace
	width   int32
	height  int32
}

// New attaches tex (face is ignored for 2D textures) to a new framebuffer.
// The framebuffer holds a reference on tex until Destroy.
func New(ctx *gfx.Context, tex *texture.Texture, face gfx.CubeFace) (*Framebuffer, error) {
	fb := &Framebuffer{
		ctx:    ctx,
		target: tex,
		face:   face,
		width:  tex.Width,
		height: tex.Height,
	}
	if fb.width < 1 {
		fb.width = 1
	}
	if fb.height < 1 {
		fb.height = 1
	}

	fb.fbo = ctx.CreateFramebuffer()
	release, err := ctx.Target(fb.fbo, fb.viewport())
	if err != nil {
		ctx.DeleteFramebuffer(fb.fbo)
		return nil, fmt.Errorf("creating framebuffer for %q: %w", tex.Name, err)
	}
	defer release()

	if tex.Format() == gfx.Depth {
		ctx.FramebufferTexture(gfx.DepthAttachment, tex.Target(), face, tex.Handle())
	} else {
		ctx.FramebufferTexture(gfx.ColorAttachment, tex.Target(), face, tex.Handle())
		fb.depthRB = ctx.CreateDepthBuffer(fb.width, fb.height)
	}

	if err := ctx.CheckFramebuffer(); err != nil {
		fb.destroyObjects()
		return nil, fmt.Errorf("framebuffer for %q: %w", tex.Name, err)
	}
	tex.Retain()

	logger.Debug("framebuffer created",
		zap.String("texture", tex.Name),
		zap.Stringer("face", face),
		zap.Int32("width", fb.width),
		zap.Int32("height", fb.height),
	)
	return fb, nil
}

func (fb *Framebuffer) viewport() gfx.Viewport {
	return gfx.Viewport{Width: fb.width, Height: fb.height}
}

// Bind makes the framebuffer the render target with a matching viewport.
// The returned function restores the previous target and viewport.
func (fb *Framebuffer) Bind() (release func(), err error) {
	return fb.ctx.Target(fb.fbo, fb.viewport())
}

// Clear clears the bound target's colour and depth.
func (fb *Framebuffer) Clear(r, g, b, a float32) {
	fb.ctx.SetClearColor(r, g, b, a)
	mask := gfx.ClearDepth
	if fb.target.Format() != gfx.Depth {
		mask |= gfx.ClearColor
	}
	fb.ctx.Clear(mask)
}

// Texture returns the attached texture.
func (fb *Framebuffer) Texture() *texture.Texture {
	return fb.target
}

// Face returns the cube face the framebuffer renders into.
func (fb *Framebuffer) Face() gfx.CubeFace {
	return fb.face
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (width, height int32) {
	return fb.width, fb.height
}

// ReadPixels reads the colour attachment as RGBA rows, bottom row first.
func (fb *Framebuffer) ReadPixels() ([]byte, error) {
	release, err := fb.Bind()
	if err != nil {
		return nil, err
	}
	defer release()
	return fb.ctx.ReadPixels(fb.viewport()), nil
}

func (fb *Framebuffer) destroyObjects() {
	if fb.depthRB != gfx.NoHandle {
		fb.ctx.DeleteDepthBuffer(fb.depthRB)
		fb.depthRB = gfx.NoHandle
	}
	if fb.fbo != gfx.NoHandle {
		fb.ctx.DeleteFramebuffer(fb.fbo)
		fb.fbo = gfx.NoHandle
	}
}

// Destroy releases the GPU objects and the texture reference.
func (fb *Framebuffer) Destroy() {
	if fb.fbo == gfx.NoHandle {
		return
	}
	fb.destroyObjects()
	fb.target.Release()
}
