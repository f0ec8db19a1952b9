package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Material holds Phong reflectance coefficients and an optional diffuse map.
type Material struct {
	Name    string
	Ka      mgl32.Vec3 // ambient
	Kd      mgl32.Vec3 // diffuse
	Ks      mgl32.Vec3 // specular
	Ns      float32    // specular exponent
	Alpha   float32
	Texture string // diffuse map path, empty for none
}

// DefaultMaterial is a mid-grey, slightly shiny opaque material.
func DefaultMaterial() Material {
	return Material{
		Name:  "default",
		Ka:    mgl32.Vec3{0.5, 0.5, 0.5},
		Kd:    mgl32.Vec3{0.5, 0.5, 0.5},
		Ks:    mgl32.Vec3{0.5, 0.5, 0.5},
		Ns:    10,
		Alpha: 1,
	}
}
