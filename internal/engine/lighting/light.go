// Package lighting holds the scene's point light.
package lighting

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glscene/pkg/math"
)

// Light is a single point light in world space with Phong intensities.
type Light struct {
	Position mgl32.Vec3
	Ia       mgl32.Vec3 // ambient
	Id       mgl32.Vec3 // diffuse
	Is       mgl32.Vec3 // specular
}

// New returns a white light at position with a dim ambient term.
func New(position mgl32.Vec3) *Light {
	return &Light{
		Position: position,
		Ia:       mgl32.Vec3{0.2, 0.2, 0.2},
		Id:       mgl32.Vec3{0.9, 0.9, 0.9},
		Is:       mgl32.Vec3{1.0, 1.0, 1.0},
	}
}

// ViewPosition returns the light position transformed into the space of
// view matrix v.
func (l *Light) ViewPosition(v mgl32.Mat4) mgl32.Vec3 {
	return math.TransformPoint(v, l.Position)
}

// Scale multiplies the light position by f, moving it along the ray from
// the world origin.
func (l *Light) Scale(f float32) {
	l.Position = l.Position.Mul(f)
}
