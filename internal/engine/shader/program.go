// Package shader compiles GLSL programs and binds their uniforms for a draw.
package shader

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/glscene/internal/engine/texture"
	"github.com/Faultbox/glscene/internal/gfx"
	"github.com/Faultbox/glscene/internal/logger"
)

var (
	// ErrUnknownUniform is returned when binding a name the program never
	// registered.
	ErrUnknownUniform = errors.New("shader: unknown uniform")
	// ErrNotLinked is returned when a program is bound before Compile.
	ErrNotLinked = errors.New("shader: program not linked")
)

// State is the lifecycle stage of a program.
type State int

const (
	Uninitialized State = iota
	Compiled
	Linked
	Bound
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Compiled:
		return "compiled"
	case Linked:
		return "linked"
	case Bound:
		return "bound"
	default:
		return "unknown"
	}
}

// Attribute assigns a vertex attribute name to a slot.
type Attribute struct {
	Name string
	Slot uint32
}

type sampler struct {
	uniform string
	tex     *texture.Texture
}

type modelMatrix struct {
	uniform string
	src     MatrixSource
}

// Program is a vertex and fragment shader pair with its uniform table. A
// program may be shared by several models; it is compiled once.
type Program struct {
	Name  string
	Model ShadingModel

	vertexSrc   string
	fragmentSrc string
	features    feature

	uniforms map[string]*Uniform
	order    []string
	samplers []sampler
	matrices []modelMatrix

	ctx        *gfx.Context
	handle     gfx.Handle
	state      State
	attributes []Attribute
}

// New loads the sources of a built-in shading model.
func New(model ShadingModel, src SourceProvider) (*Program, error) {
	info, err := model.info()
	if err != nil {
		return nil, err
	}
	vs, fs, err := src.ShaderSource(info.dir)
	if err != nil {
		return nil, fmt.Errorf("loading %s program: %w", info.name, err)
	}
	p := NewFromSource(info.name, vs, fs, info.features.uniforms()...)
	p.Model = model
	p.features = info.features
	return p, nil
}

// NewFromSource builds an unlit program from raw sources. PVM is always
// registered.
func NewFromSource(name, vertex, fragment string, uniforms ...string) *Program {
	p := &Program{
		Name:        name,
		Model:       Basic,
		vertexSrc:   vertex,
		fragmentSrc: fragment,
		uniforms:    make(map[string]*Uniform),
	}
	p.register("PVM")
	for _, u := range uniforms {
		p.register(u)
	}
	return p
}

func (p *Program) register(name string) *Uniform {
	if u, ok := p.uniforms[name]; ok {
		return u
	}
	u := &Uniform{Name: name, Location: -1}
	p.uniforms[name] = u
	p.order = append(p.order, name)
	return u
}

// AddUniform registers an extra uniform. Registering a name twice keeps the
// existing entry and logs a warning.
func (p *Program) AddUniform(name string) *Uniform {
	if u, ok := p.uniforms[name]; ok {
		logger.Warn("uniform already registered",
			zap.String("program", p.Name),
			zap.String("uniform", name),
		)
		return u
	}
	u := p.register(name)
	if p.state >= Linked {
		u.link(p.ctx, p.handle, p.Name)
	}
	return u
}

// Uniform returns the registered uniform called name.
func (p *Program) Uniform(name string) (*Uniform, bool) {
	u, ok := p.uniforms[name]
	return u, ok
}

// Handle returns the GPU program handle, NoHandle before Compile.
func (p *Program) Handle() gfx.Handle {
	return p.handle
}

// State reports the lifecycle stage. A linked program is Bound while it is
// the context's current program.
func (p *Program) State() State {
	if p.state == Linked && p.ctx != nil && p.ctx.CurrentProgram() == p.handle {
		return Bound
	}
	return p.state
}

// Attributes returns the layout the program was linked with.
func (p *Program) Attributes() []Attribute {
	return p.attributes
}

// Compile compiles both stages, binds every attribute to its slot, links
// and resolves the uniform locations. Compile and link failures are fatal.
//
// Compiling a linked program again is a no-op; a different attribute layout
// is reported because the program keeps its original bindings.
func (p *Program) Compile(ctx *gfx.Context, attributes []Attribute) error {
	if p.state >= Linked {
		if !sameLayout(p.attributes, attributes) {
			logger.Warn("shared program linked with a different attribute layout",
				zap.String("program", p.Name),
				zap.Any("linked", p.attributes),
				zap.Any("requested", attributes),
			)
		}
		return nil
	}

	p.ctx = ctx
	p.handle = ctx.CreateProgram()

	vs, err := ctx.CompileShader(gfx.VertexStage, p.vertexSrc)
	if err != nil {
		p.abort()
		return fmt.Errorf("program %s: vertex shader: %w", p.Name, err)
	}
	fs, err := ctx.CompileShader(gfx.FragmentStage, p.fragmentSrc)
	if err != nil {
		ctx.DeleteShader(vs)
		p.abort()
		return fmt.Errorf("program %s: fragment shader: %w", p.Name, err)
	}
	ctx.AttachShader(p.handle, vs)
	ctx.AttachShader(p.handle, fs)
	p.state = Compiled

	for _, a := range attributes {
		ctx.BindAttribLocation(p.handle, a.Slot, a.Name)
	}
	p.attributes = append([]Attribute(nil), attributes...)

	err = ctx.LinkProgram(p.handle)
	ctx.DeleteShader(vs)
	ctx.DeleteShader(fs)
	if err != nil {
		p.abort()
		return fmt.Errorf("program %s: link: %w", p.Name, err)
	}

	for _, name := range p.order {
		p.uniforms[name].link(ctx, p.handle, p.Name)
	}
	p.state = Linked

	logger.Debug("shader program linked",
		zap.String("program", p.Name),
		zap.Uint32("handle", uint32(p.handle)),
		zap.Int("attributes", len(attributes)),
	)
	return nil
}

func (p *Program) abort() {
	p.ctx.DeleteProgram(p.handle)
	p.handle = gfx.NoHandle
	p.state = Uninitialized
}

func sameLayout(a, b []Attribute) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Use makes the program current.
func (p *Program) Use() error {
	if p.state < Linked {
		return fmt.Errorf("use %s: %w", p.Name, ErrNotLinked)
	}
	p.ctx.UseProgram(p.handle)
	return nil
}

// BindValue uploads v to the named uniform. The program must be current.
func (p *Program) BindValue(name string, v Value) error {
	u, ok := p.uniforms[name]
	if !ok {
		return fmt.Errorf("%s in %s: %w", name, p.Name, ErrUnknownUniform)
	}
	u.bind(p.ctx, v, false)
	return nil
}

// BindMatrix uploads a matrix value, transposed when transpose is set.
func (p *Program) BindMatrix(name string, m Value, transpose bool) error {
	if !m.IsMatrix() {
		return fmt.Errorf("%s in %s is a %s: %w", name, p.Name, m.Kind(), ErrUnsupportedShape)
	}
	u, ok := p.uniforms[name]
	if !ok {
		return fmt.Errorf("%s in %s: %w", name, p.Name, ErrUnknownUniform)
	}
	u.bind(p.ctx, m, transpose)
	return nil
}

// AttachSampler samples tex through the named uniform on every Bind. The
// texture is placed on the first unit after the mesh's own textures. The
// program holds a reference until Destroy.
func (p *Program) AttachSampler(uniform string, tex *texture.Texture) {
	p.register(uniform)
	if p.state >= Linked {
		p.uniforms[uniform].link(p.ctx, p.handle, p.Name)
	}
	p.samplers = append(p.samplers, sampler{uniform: uniform, tex: tex.Retain()})
}

// AttachModelMatrix binds src.Matrix()·M to the named uniform on every Bind.
func (p *Program) AttachModelMatrix(uniform string, src MatrixSource) {
	p.register(uniform)
	if p.state >= Linked {
		p.uniforms[uniform].link(p.ctx, p.handle, p.Name)
	}
	p.matrices = append(p.matrices, modelMatrix{uniform: uniform, src: src})
}

// Destroy deletes the GPU program and releases attached textures.
func (p *Program) Destroy() {
	for _, s := range p.samplers {
		s.tex.Release()
	}
	p.samplers = nil
	if p.state >= Compiled && p.ctx != nil {
		p.ctx.DeleteProgram(p.handle)
	}
	p.handle = gfx.NoHandle
	p.state = Uninitialized
}
