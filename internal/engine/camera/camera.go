// Package camera provides the orbit camera used by the scene.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glscene/pkg/math"
)

// Camera orbits a centre point. The view matrix is
//
//	V = translate(0, 0, -Distance) · rotateX(Zenith) · rotateY(Azimuth) · translate(-Center)
//
// and is rebuilt by Update.
type Camera struct {
	Azimuth  float32 // radians around Y
	Zenith   float32 // radians around X
	Distance float32
	Center   mgl32.Vec3

	// MinDistance bounds Zoom.
	MinDistance float32

	V mgl32.Mat4
}

// New returns a camera five units from the origin.
func New() *Camera {
	c := &Camera{
		Distance:    5,
		MinDistance: 1,
	}
	c.Update()
	return c
}

// Update recomputes V from the camera parameters.
func (c *Camera) Update() {
	c.V = math.Translation(mgl32.Vec3{0, 0, -c.Distance}).
		Mul4(math.RotationX(c.Zenith)).
		Mul4(math.RotationY(c.Azimuth)).
		Mul4(math.Translation(c.Center.Mul(-1)))
}

// Position returns the eye position in world space.
func (c *Camera) Position() mgl32.Vec3 {
	sinZ, cosZ := math32.Sincos(c.Zenith)
	sinA, cosA := math32.Sincos(c.Azimuth)
	offset := mgl32.Vec3{
		-c.Distance * cosZ * sinA,
		c.Distance * sinZ,
		c.Distance * cosZ * cosA,
	}
	return c.Center.Add(offset)
}

// Zoom moves the camera towards the centre by delta, never closer than
// MinDistance.
func (c *Camera) Zoom(delta float32) {
	c.Distance = math32.Max(c.MinDistance, c.Distance-delta)
}

// Pan shifts the centre by a screen-space delta already normalised to the
// window size.
func (c *Camera) Pan(dx, dy float32) {
	c.Center[0] -= dx
	c.Center[1] -= dy
}

// Orbit rotates the camera by a normalised screen-space delta.
func (c *Camera) Orbit(dx, dy float32) {
	c.Azimuth -= dx
	c.Zenith -= dy
}
