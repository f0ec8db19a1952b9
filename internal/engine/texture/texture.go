// Package texture manages GPU textures: 2D images, cube maps and depth maps.
//
// Textures are reference counted. A texture starts with one reference owned
// by its creator; every additional owner calls Retain and each owner calls
// Release exactly once. The GPU object is deleted on the last Release.
package texture

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/glscene/internal/gfx"
	"github.com/Faultbox/glscene/internal/logger"
)

// ErrReleased is returned when a released texture is used.
var ErrReleased = errors.New("texture: already released")

// Texture is a GPU texture object.
type Texture struct {
	Name   string
	Width  int32
	Height int32

	dev    gfx.Device
	handle gfx.Handle
	target gfx.TextureTarget
	format gfx.PixelFormat
	refs   int
}

func newTexture(dev gfx.Device, name string, target gfx.TextureTarget, format gfx.PixelFormat, w, h int32) *Texture {
	return &Texture{
		Name:   name,
		Width:  w,
		Height: h,
		dev:    dev,
		handle: dev.CreateTexture(target),
		target: target,
		format: format,
		refs:   1,
	}
}

// DefaultSampling repeats and filters linearly.
var DefaultSampling = gfx.Sampling{Wrap: gfx.Repeat, Filter: gfx.Linear}

// New2D uploads img as an RGBA 2D texture.
func New2D(dev gfx.Device, name string, img *Image, s gfx.Sampling) (*Texture, error) {
	if err := img.validate(); err != nil {
		return nil, fmt.Errorf("texture %q: %w", name, err)
	}
	t := newTexture(dev, name, gfx.Texture2D, gfx.RGBA, int32(img.Width), int32(img.Height))
	dev.BindTexture(0, gfx.Texture2D, t.handle)
	dev.TexImage(gfx.Texture2D, 0, t.Width, t.Height, gfx.RGBA, img.Pixels)
	dev.TexSampling(gfx.Texture2D, s)

	logger.Debug("texture created",
		zap.String("name", name),
		zap.Int32("width", t.Width),
		zap.Int32("height", t.Height),
	)
	return t, nil
}

// NewDepth allocates an empty depth texture, used as a shadow map target.
// Lookups outside the map read as the far plane.
func NewDepth(dev gfx.Device, name string, w, h int32) *Texture {
	t := newTexture(dev, name, gfx.Texture2D, gfx.Depth, w, h)
	dev.BindTexture(0, gfx.Texture2D, t.handle)
	dev.TexImage(gfx.Texture2D, 0, w, h, gfx.Depth, nil)
	dev.TexSampling(gfx.Texture2D, gfx.Sampling{
		Wrap:   gfx.ClampToBorder,
		Filter: gfx.Nearest,
		Border: [4]float32{1, 1, 1, 1},
	})
	return t
}

// Handle returns the GPU handle.
func (t *Texture) Handle() gfx.Handle {
	return t.handle
}

// Target returns the texture target (2D or cube map).
func (t *Texture) Target() gfx.TextureTarget {
	return t.target
}

// Format returns the pixel format.
func (t *Texture) Format() gfx.PixelFormat {
	return t.format
}

// Bind binds the texture to the given unit.
func (t *Texture) Bind(unit uint32) error {
	if t.refs <= 0 {
		return fmt.Errorf("bind %q: %w", t.Name, ErrReleased)
	}
	t.dev.BindTexture(unit, t.target, t.handle)
	return nil
}

// Retain adds an owner and returns t for chaining.
func (t *Texture) Retain() *Texture {
	t.refs++
	return t
}

// Release drops one owner. The GPU texture is deleted when no owners remain.
// Releasing more often than retained is a no-op.
func (t *Texture) Release() {
	if t.refs <= 0 {
		return
	}
	t.refs--
	if t.refs == 0 {
		t.dev.DeleteTexture(t.handle)
		t.handle = gfx.NoHandle
		logger.Debug("texture deleted", zap.String("name", t.Name))
	}
}

// Refs returns the current number of owners.
func (t *Texture) Refs() int {
	return t.refs
}
