package shader

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glscene/internal/engine/lighting"
	"github.com/Faultbox/glscene/internal/engine/mesh"
	"github.com/Faultbox/glscene/pkg/math"
)

// Pass identifies which render pass is drawing.
type Pass int

const (
	PassMain Pass = iota
	PassShadow
	PassEnvironment
	PassOverlay
)

func (p Pass) String() string {
	switch p {
	case PassMain:
		return "main"
	case PassShadow:
		return "shadow"
	case PassEnvironment:
		return "environment"
	case PassOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// DrawContext carries the per-pass state a draw needs: projection, view,
// light and rendering mode. Override, when set, replaces every model's own
// program for the pass.
type DrawContext struct {
	P        mgl32.Mat4
	V        mgl32.Mat4
	Light    *lighting.Light
	Mode     int32
	Pass     Pass
	Override *Program
}

// DrawParams is the per-model input to Bind.
type DrawParams struct {
	M        mgl32.Mat4
	Material *mesh.Material
	// TextureCount is the number of mesh textures bound on units 0..n-1.
	TextureCount int
}

// MatrixSource yields a matrix at bind time, such as a light's
// projection-view.
type MatrixSource interface {
	Matrix() mgl32.Mat4
}

// Bind makes the program current and uploads every uniform the shading
// model needs for one draw.
func (p *Program) Bind(dc DrawContext, params DrawParams) error {
	if err := p.Use(); err != nil {
		return err
	}

	v := dc.V
	if p.features&featRotationOnlyView != 0 {
		v = math.WithoutTranslation(v)
	}
	vm := v.Mul4(params.M)
	p.set("PVM", Mat4(dc.P.Mul4(vm)))

	if p.features&featViewModel != 0 {
		p.set("VM", Mat4(vm))
		p.set("VMiT", Mat3(math.NormalMatrix(vm)))
	}
	if p.features&featViewTranspose != 0 {
		p.set("VT", Mat3(math.ViewTranspose(dc.V)))
	}
	if p.features&featLighting != 0 {
		p.bindLighting(dc, params)
	}
	if p.features&featMeshCube != 0 {
		p.set("sampler_cube", Int(0))
	}
	if p.features&featMeshSampler != 0 {
		p.set("sampler", Int(0))
	}

	for i, s := range p.samplers {
		unit := uint32(params.TextureCount + i)
		if err := s.tex.Bind(unit); err != nil {
			return err
		}
		p.set(s.uniform, Int(int32(unit)))
	}
	for _, m := range p.matrices {
		p.set(m.uniform, Mat4(m.src.Matrix().Mul4(params.M)))
	}
	return nil
}

func (p *Program) bindLighting(dc DrawContext, params DrawParams) {
	p.set("mode", Int(dc.Mode))

	mat := params.Material
	if mat == nil {
		def := mesh.DefaultMaterial()
		mat = &def
	}
	p.set("alpha", Float(mat.Alpha))
	p.set("Ka", Vec3(mat.Ka))
	p.set("Kd", Vec3(mat.Kd))
	p.set("Ks", Vec3(mat.Ks))
	p.set("Ns", Float(mat.Ns))

	if params.TextureCount > 0 {
		p.set("textureObject", Int(0))
		p.set("has_texture", Int(1))
	} else {
		p.set("has_texture", Int(0))
	}

	if dc.Light != nil {
		p.set("light", Vec3(dc.Light.ViewPosition(dc.V)))
		p.set("Ia", Vec3(dc.Light.Ia))
		p.set("Id", Vec3(dc.Light.Id))
		p.set("Is", Vec3(dc.Light.Is))
	}
}

// set binds a uniform registered by the program itself.
func (p *Program) set(name string, v Value) {
	if u, ok := p.uniforms[name]; ok {
		u.bind(p.ctx, v, false)
	}
}
