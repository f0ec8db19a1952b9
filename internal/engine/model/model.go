// Package model turns meshes into drawable GPU objects.
package model

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/glscene/internal/engine/mesh"
	"github.com/Faultbox/glscene/internal/engine/shader"
	"github.com/Faultbox/glscene/internal/gfx"
	"github.com/Faultbox/glscene/internal/logger"
)

var (
	// ErrFaceWidth is returned for faces that are neither triangles nor quads.
	ErrFaceWidth = errors.New("model: faces must have 3 or 4 indices")
	// ErrAlreadyBound is returned when Bind is called twice without Destroy.
	ErrAlreadyBound = errors.New("model: buffers already bound")
	// ErrNotBound is returned when a model is used before Bind.
	ErrNotBound = errors.New("model: buffers not bound")
	// ErrNoProgram is returned when drawing a model that has no shader.
	ErrNoProgram = errors.New("model: no shader program")
)

// Attribute names in slot order. A mesh only gets slots for the attributes
// it carries, so slots stay sequential.
var attributeOrder = []string{"position", "normal", "color", "texCoord", "tangent", "binormal"}

// Model is a mesh uploaded to the GPU together with the program that draws
// it and its local transform.
type Model struct {
	Name    string
	Mesh    *mesh.Mesh
	Program *shader.Program
	// M is the model matrix, applied after the parent transform.
	M           mgl32.Mat4
	Visible     bool
	CastsShadow bool

	primitive  gfx.Primitive
	ctx        *gfx.Context
	vao        gfx.Handle
	buffers    []gfx.Handle
	indices    gfx.Handle
	indexCount int32
	attributes []shader.Attribute
	bound      bool
}

// New wraps m in a visible model. The primitive follows the face width.
func New(name string, m *mesh.Mesh, M mgl32.Mat4) (*Model, error) {
	prim := gfx.Triangles
	switch w := m.FaceWidth(); w {
	case 0, 3:
	case 4:
		prim = gfx.Quads
	default:
		return nil, fmt.Errorf("model %q: width %d: %w", name, w, ErrFaceWidth)
	}
	if name == "" {
		name = m.Name
	}
	return &Model{
		Name:      name,
		Mesh:      m,
		M:         M,
		Visible:   true,
		primitive: prim,
	}, nil
}

// Build creates, binds and attaches prog in one step.
func Build(ctx *gfx.Context, name string, m *mesh.Mesh, M mgl32.Mat4, prog *shader.Program) (*Model, error) {
	mdl, err := New(name, m, M)
	if err != nil {
		return nil, err
	}
	if err := mdl.Bind(ctx); err != nil {
		return nil, err
	}
	if prog != nil {
		if err := mdl.BindShader(prog); err != nil {
			mdl.Destroy()
			return nil, err
		}
	}
	return mdl, nil
}

// Primitive returns the topology the mesh was authored with.
func (m *Model) Primitive() gfx.Primitive {
	return m.primitive
}

// Attributes returns the attribute layout created by Bind.
func (m *Model) Attributes() []shader.Attribute {
	return m.attributes
}

// Bound reports whether the GPU buffers exist.
func (m *Model) Bound() bool {
	return m.bound
}

func (m *Model) attributeData(name string) ([]mgl32.Vec3, int32) {
	switch name {
	case "position":
		return m.Mesh.Vertices, 3
	case "normal":
		return m.Mesh.Normals, 3
	case "color":
		return m.Mesh.Colors, 3
	case "texCoord":
		dims := int32(m.Mesh.TexCoordDims)
		if dims == 0 {
			dims = 2
		}
		return m.Mesh.TexCoords, dims
	case "tangent":
		return m.Mesh.Tangents, 3
	case "binormal":
		return m.Mesh.Binormals, 3
	}
	return nil, 0
}

// Bind uploads every present vertex attribute into its own buffer, in slot
// order, plus the face indices. Quads are uploaded as triangle pairs.
func (m *Model) Bind(ctx *gfx.Context) error {
	if m.bound {
		return fmt.Errorf("model %q: %w", m.Name, ErrAlreadyBound)
	}
	if err := m.Mesh.Validate(); err != nil {
		return fmt.Errorf("model %q: %w", m.Name, err)
	}
	m.Mesh.EnsureNormals()

	m.ctx = ctx
	m.vao = ctx.CreateVertexArray()
	ctx.BindVertexArray(m.vao)

	var missing []string
	for _, name := range attributeOrder {
		data, dims := m.attributeData(name)
		if len(data) == 0 {
			missing = append(missing, name)
			continue
		}
		slot := uint32(len(m.attributes))
		buf := ctx.CreateBuffer()
		ctx.VertexAttribData(buf, slot, dims, mesh.Flatten(data, int(dims)))
		m.buffers = append(m.buffers, buf)
		m.attributes = append(m.attributes, shader.Attribute{Name: name, Slot: slot})
	}
	m.logMissing(missing)

	if len(m.Mesh.Faces) > 0 {
		idx := m.Mesh.TriangleIndices()
		m.indices = ctx.CreateBuffer()
		ctx.IndexData(m.indices, idx)
		m.indexCount = int32(len(idx))
	}
	ctx.BindVertexArray(gfx.NoHandle)
	m.bound = true

	logger.Debug("model bound",
		zap.String("model", m.Name),
		zap.Int("vertices", len(m.Mesh.Vertices)),
		zap.Int("faces", len(m.Mesh.Faces)),
		zap.Stringer("primitive", m.primitive),
	)
	return nil
}

func (m *Model) logMissing(missing []string) {
	for _, name := range missing {
		if name == "position" || name == "normal" {
			logger.Warn("mesh has no data for attribute",
				zap.String("model", m.Name),
				zap.String("attribute", name),
			)
			continue
		}
		logger.Debug("mesh has no data for attribute",
			zap.String("model", m.Name),
			zap.String("attribute", name),
		)
	}
}

// BindShader attaches prog, compiling it against this model's attribute
// layout if it was not compiled yet.
func (m *Model) BindShader(prog *shader.Program) error {
	if !m.bound {
		return fmt.Errorf("model %q: %w", m.Name, ErrNotBound)
	}
	if err := prog.Compile(m.ctx, m.attributes); err != nil {
		return fmt.Errorf("model %q: %w", m.Name, err)
	}
	if prog.Model == shader.Texture && len(m.Mesh.Textures) == 0 {
		logger.Warn("textured shader on a mesh without textures",
			zap.String("model", m.Name),
		)
	}
	m.Program = prog
	return nil
}

// Draw renders the model with transform parent·M. Invisible models are
// skipped. GPU state is left as the draw set it.
func (m *Model) Draw(dc shader.DrawContext, parent mgl32.Mat4) error {
	if !m.Visible {
		return nil
	}
	if !m.bound {
		return fmt.Errorf("model %q: %w", m.Name, ErrNotBound)
	}
	prog := m.Program
	if dc.Override != nil {
		prog = dc.Override
	}
	if prog == nil {
		return fmt.Errorf("model %q: %w", m.Name, ErrNoProgram)
	}

	m.ctx.BindVertexArray(m.vao)
	err := prog.Bind(dc, shader.DrawParams{
		M:            parent.Mul4(m.M),
		Material:     m.Mesh.Material,
		TextureCount: len(m.Mesh.Textures),
	})
	if err != nil {
		return fmt.Errorf("model %q: %w", m.Name, err)
	}
	for unit, tex := range m.Mesh.Textures {
		if err := tex.Bind(uint32(unit)); err != nil {
			return fmt.Errorf("model %q: %w", m.Name, err)
		}
	}

	if m.indexCount > 0 {
		m.ctx.DrawElements(gfx.Triangles, m.indexCount)
	} else {
		m.ctx.DrawArrays(m.primitive, 0, int32(len(m.Mesh.Vertices)))
	}
	return nil
}

// Destroy deletes the GPU buffers and releases the mesh textures. The model
// may be bound again afterwards. Shared programs are left alone.
func (m *Model) Destroy() {
	if !m.bound {
		return
	}
	for _, b := range m.buffers {
		m.ctx.DeleteBuffer(b)
	}
	if m.indices != gfx.NoHandle {
		m.ctx.DeleteBuffer(m.indices)
	}
	m.ctx.DeleteVertexArray(m.vao)
	m.Mesh.ReleaseTextures()

	m.buffers = nil
	m.attributes = nil
	m.indices = gfx.NoHandle
	m.indexCount = 0
	m.vao = gfx.NoHandle
	m.bound = false
}
