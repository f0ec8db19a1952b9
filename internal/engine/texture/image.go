package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Image is tightly packed 8-bit RGBA pixel data, rows in upload order.
type Image struct {
	Width  int
	Height int
	Pixels []byte
}

// ImageLoader decodes a named image from some store.
type ImageLoader interface {
	LoadImage(name string) (*Image, error)
}

// FromImage converts any decoded image to RGBA pixels.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	rgba, ok := src.(*image.RGBA)
	if !ok || rgba.Stride != 4*b.Dx() || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	}
	return &Image{Width: b.Dx(), Height: b.Dy(), Pixels: rgba.Pix}
}

// Solid returns a w×h image filled with c.
func Solid(w, h int, c color.RGBA) *Image {
	pix := make([]byte, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
	}
	return &Image{Width: w, Height: h, Pixels: pix}
}

// Gradient returns a w×h image blending vertically from top to bottom.
func Gradient(w, h int, top, bottom color.RGBA) *Image {
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		t := float32(0)
		if h > 1 {
			t = float32(y) / float32(h-1)
		}
		c := [4]byte{
			lerp(top.R, bottom.R, t),
			lerp(top.G, bottom.G, t),
			lerp(top.B, bottom.B, t),
			lerp(top.A, bottom.A, t),
		}
		for x := 0; x < w; x++ {
			copy(pix[(y*w+x)*4:], c[:])
		}
	}
	return &Image{Width: w, Height: h, Pixels: pix}
}

func lerp(a, b uint8, t float32) uint8 {
	return uint8(float32(a) + (float32(b)-float32(a))*t + 0.5)
}

var errEmptyImage = errors.New("empty image")

func (img *Image) validate() error {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return errEmptyImage
	}
	if want := img.Width * img.Height * 4; len(img.Pixels) != want {
		return fmt.Errorf("pixel data is %d bytes, want %d", len(img.Pixels), want)
	}
	return nil
}
