// Package mesh holds CPU-side geometry: vertex attributes, faces, materials
// and the textures applied to them.
package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/glscene/internal/engine/texture"
	"github.com/Faultbox/glscene/internal/logger"
	"github.com/Faultbox/glscene/pkg/math"
)

// ErrFaceIndex is returned when a face references a vertex that does not exist.
var ErrFaceIndex = errors.New("mesh: face index out of range")

// Mesh is indexed or non-indexed geometry with optional per-vertex
// attributes. Attribute slices are either nil or the same length as Vertices.
type Mesh struct {
	Name     string
	Vertices []mgl32.Vec3
	// Faces lists vertex indices per face. All faces share one width.
	Faces   [][]uint32
	Normals []mgl32.Vec3
	Colors  []mgl32.Vec3
	// TexCoords uses the first TexCoordDims components of each entry.
	TexCoords    []mgl32.Vec3
	TexCoordDims int
	Tangents     []mgl32.Vec3
	Binormals    []mgl32.Vec3

	Material *Material
	Textures []*texture.Texture
}

// New returns a mesh over vertices and faces using the default material.
func New(name string, vertices []mgl32.Vec3, faces [][]uint32) *Mesh {
	mat := DefaultMaterial()
	return &Mesh{
		Name:     name,
		Vertices: vertices,
		Faces:    faces,
		Material: &mat,
	}
}

// SetTexCoords2D stores 2D texture coordinates.
func (m *Mesh) SetTexCoords2D(uv []mgl32.Vec2) {
	m.TexCoords = make([]mgl32.Vec3, len(uv))
	for i, t := range uv {
		m.TexCoords[i] = mgl32.Vec3{t[0], t[1], 0}
	}
	m.TexCoordDims = 2
}

// SetTexCoords3D stores 3D texture coordinates, as used by cube maps.
func (m *Mesh) SetTexCoords3D(uvw []mgl32.Vec3) {
	m.TexCoords = uvw
	m.TexCoordDims = 3
}

// FaceWidth returns the number of indices per face, 0 for non-indexed meshes
// and -1 when faces have mixed widths.
func (m *Mesh) FaceWidth() int {
	if len(m.Faces) == 0 {
		return 0
	}
	w := len(m.Faces[0])
	for _, f := range m.Faces[1:] {
		if len(f) != w {
			return -1
		}
	}
	return w
}

// Validate checks attribute lengths and face indices.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	attrs := map[string]int{
		"normal":   len(m.Normals),
		"color":    len(m.Colors),
		"texCoord": len(m.TexCoords),
		"tangent":  len(m.Tangents),
		"binormal": len(m.Binormals),
	}
	for name, l := range attrs {
		if l != 0 && l != n {
			return fmt.Errorf("mesh %q: %d %s values for %d vertices", m.Name, l, name, n)
		}
	}
	for i, f := range m.Faces {
		for _, idx := range f {
			if int(idx) >= n {
				return fmt.Errorf("mesh %q face %d index %d: %w", m.Name, i, idx, ErrFaceIndex)
			}
		}
	}
	return nil
}

// EnsureNormals derives normals from the faces when none were supplied.
func (m *Mesh) EnsureNormals() {
	if m.Normals != nil {
		return
	}
	if len(m.Faces) == 0 {
		logger.Warn("normals can only be derived from faces",
			zap.String("mesh", m.Name))
		return
	}
	m.CalculateNormals()
}

// CalculateNormals accumulates the unnormalised face normal of every
// triangle into its three vertices and normalises the result. When texture
// coordinates are present, tangents and binormals are derived the same way.
// Vertices that receive no contribution keep a zero vector.
//
// Quad faces are not accumulated: the mesh gets zero normals.
func (m *Mesh) CalculateNormals() {
	n := len(m.Vertices)
	m.Normals = make([]mgl32.Vec3, n)

	withUV := len(m.TexCoords) == n && n > 0
	if withUV {
		m.Tangents = make([]mgl32.Vec3, n)
		m.Binormals = make([]mgl32.Vec3, n)
	}

	if m.FaceWidth() != 3 {
		logger.Warn("normals are only derived for triangle meshes",
			zap.String("mesh", m.Name),
			zap.Int("face_width", m.FaceWidth()),
		)
		return
	}

	for _, f := range m.Faces {
		v0, v1, v2 := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		a := v1.Sub(v0)
		b := v2.Sub(v0)
		normal := a.Cross(b)

		var tangent, binormal mgl32.Vec3
		if withUV {
			ta := m.TexCoords[f[1]].Sub(m.TexCoords[f[0]])
			tb := m.TexCoords[f[2]].Sub(m.TexCoords[f[0]])
			tangent = a.Mul(tb[1]).Sub(b.Mul(ta[1]))
			binormal = b.Mul(ta[0]).Sub(a.Mul(tb[0]))
			if det := ta[0]*tb[1] - tb[0]*ta[1]; det < 0 {
				tangent = tangent.Mul(-1)
				binormal = binormal.Mul(-1)
			}
		}

		for _, idx := range f {
			m.Normals[idx] = m.Normals[idx].Add(normal)
			if withUV {
				m.Tangents[idx] = m.Tangents[idx].Add(tangent)
				m.Binormals[idx] = m.Binormals[idx].Add(binormal)
			}
		}
	}

	normalizeAll(m.Normals)
	if withUV {
		normalizeAll(m.Tangents)
		normalizeAll(m.Binormals)
	}
}

func normalizeAll(vs []mgl32.Vec3) {
	for i := range vs {
		vs[i] = math.SafeNormalize(vs[i])
	}
}

// TriangleIndices flattens the faces into a triangle list. Quads (a,b,c,d)
// become (a,b,c) and (a,c,d).
func (m *Mesh) TriangleIndices() []uint32 {
	var out []uint32
	for _, f := range m.Faces {
		switch len(f) {
		case 3:
			out = append(out, f...)
		case 4:
			out = append(out, f[0], f[1], f[2], f[0], f[2], f[3])
		}
	}
	return out
}

// Flatten packs the first dims components of each vector into one slice.
func Flatten(vs []mgl32.Vec3, dims int) []float32 {
	out := make([]float32, 0, len(vs)*dims)
	for _, v := range vs {
		out = append(out, v[:dims]...)
	}
	return out
}

// AddTexture appends tex to the mesh texture list, taking a reference.
func (m *Mesh) AddTexture(tex *texture.Texture) {
	m.Textures = append(m.Textures, tex.Retain())
}

// SetTextures replaces the texture list, releasing the old references.
func (m *Mesh) SetTextures(texs ...*texture.Texture) {
	m.ReleaseTextures()
	for _, t := range texs {
		m.AddTexture(t)
	}
}

// ReleaseTextures drops every texture reference held by the mesh.
func (m *Mesh) ReleaseTextures() {
	for _, t := range m.Textures {
		t.Release()
	}
	m.Textures = nil
}
