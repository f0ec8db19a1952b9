package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func composed(c *Camera) mgl32.Mat4 {
	return mgl32.Translate3D(0, 0, -c.Distance).
		Mul4(mgl32.HomogRotate3DX(c.Zenith)).
		Mul4(mgl32.HomogRotate3DY(c.Azimuth)).
		Mul4(mgl32.Translate3D(-c.Center[0], -c.Center[1], -c.Center[2]))
}

func TestUpdateMatchesComposition(t *testing.T) {
	c := New()
	c.Azimuth = 0.7
	c.Zenith = -0.3
	c.Distance = 8
	c.Center = mgl32.Vec3{1, -2, 0.5}
	c.Update()

	assert.True(t, c.V.ApproxEqualThreshold(composed(c), 1e-6))
}

func TestUpdateIgnoresPreviousState(t *testing.T) {
	a := New()
	a.Azimuth, a.Zenith = 1.1, 0.4
	a.Update()
	a.Azimuth, a.Zenith, a.Distance = 0.2, 0.1, 3
	a.Update()

	b := New()
	b.Azimuth, b.Zenith, b.Distance = 0.2, 0.1, 3
	b.Update()

	assert.Equal(t, b.V, a.V)
}

func TestDefaultView(t *testing.T) {
	c := New()
	assert.Equal(t, mgl32.Translate3D(0, 0, -5), c.V)
}

func TestPositionMapsToViewOrigin(t *testing.T) {
	c := New()
	c.Azimuth, c.Zenith, c.Distance = 0.9, 0.35, 6
	c.Center = mgl32.Vec3{1, 2, 3}
	c.Update()

	eye := c.V.Mul4x1(c.Position().Vec4(1)).Vec3()
	assert.True(t, eye.ApproxEqualThreshold(mgl32.Vec3{}, 1e-5), "eye in view space %v", eye)
}

func TestZoomClampsToMinimum(t *testing.T) {
	c := New()
	c.Zoom(1)
	assert.Equal(t, float32(4), c.Distance)
	c.Zoom(10)
	assert.Equal(t, float32(1), c.Distance)
	c.Zoom(-2)
	assert.Equal(t, float32(3), c.Distance)
}

func TestPanAndOrbit(t *testing.T) {
	c := New()
	c.Pan(0.1, 0.2)
	assert.Equal(t, mgl32.Vec3{-0.1, -0.2, 0}, c.Center)

	c.Orbit(0.5, 0.25)
	assert.Equal(t, float32(-0.5), c.Azimuth)
	assert.Equal(t, float32(-0.25), c.Zenith)
}
