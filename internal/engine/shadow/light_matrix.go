package shadow

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Bounds is a bounding sphere around the part of the scene that casts and
// receives shadows.
type Bounds struct {
	Center mgl32.Vec3
	Radius float32
}

// LightMatrices returns the view and orthographic projection of a light at
// lightPos looking at the bounds centre. The projection encloses the
// bounding sphere with a small margin.
func LightMatrices(lightPos mgl32.Vec3, b Bounds) (view, proj mgl32.Mat4) {
	dir := lightPos.Sub(b.Center)
	dist := dir.Len()
	if dist < 1e-6 {
		dir = mgl32.Vec3{0, 1, 0}
		dist = 1
		lightPos = b.Center.Add(dir)
	}

	// Up must not be parallel to the light direction.
	up := mgl32.Vec3{0, 1, 0}
	if math32.Abs(dir.Normalize()[1]) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}
	view = mgl32.LookAtV(lightPos, b.Center, up)

	half := b.Radius * 1.1
	near := math32.Max(0.1, dist-half)
	far := dist + half
	proj = mgl32.Ortho(-half, half, -half, half, near, far)
	return view, proj
}
