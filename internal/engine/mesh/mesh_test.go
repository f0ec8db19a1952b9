package mesh

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/glscene/internal/engine/texture"
	"github.com/Faultbox/glscene/internal/gfx/gfxtest"
)

func assertUnit(t *testing.T, v mgl32.Vec3) {
	t.Helper()
	assert.InDelta(t, 1.0, v.Len(), 1e-5, "vector %v is not unit length", v)
}

func TestCalculateNormalsOnCubeAreUnit(t *testing.T) {
	m := Cube(false)
	require.Len(t, m.Normals, len(m.Vertices))
	for _, n := range m.Normals {
		assertUnit(t, n)
	}

	// corner (+1,+1,+1) points outwards
	assert.Greater(t, m.Normals[7].Dot(mgl32.Vec3{1, 1, 1}), float32(0))
}

func TestInsideCubeNormalsPointInwards(t *testing.T) {
	m := Cube(true)
	assert.Less(t, m.Normals[7].Dot(mgl32.Vec3{1, 1, 1}), float32(0))
}

func TestSingleTriangleNormal(t *testing.T) {
	m := New("tri", []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, [][]uint32{{0, 1, 2}})
	m.CalculateNormals()
	for _, n := range m.Normals {
		assert.Equal(t, mgl32.Vec3{0, 0, 1}, n)
	}
}

func TestUnreferencedVertexKeepsZeroNormal(t *testing.T) {
	m := New("tri", []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {5, 5, 5}}, [][]uint32{{0, 1, 2}})
	m.CalculateNormals()
	assert.Equal(t, mgl32.Vec3{}, m.Normals[3])
	assert.False(t, m.Normals[3].Len() != m.Normals[3].Len(), "no NaN")
}

func TestDegenerateFaceGivesZeroNormal(t *testing.T) {
	m := New("line", []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}, [][]uint32{{0, 1, 2}})
	m.CalculateNormals()
	for _, n := range m.Normals {
		assert.Equal(t, mgl32.Vec3{}, n)
	}
}

func TestQuadMeshGetsZeroNormals(t *testing.T) {
	m := New("quad", []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}, [][]uint32{{0, 1, 2, 3}})
	m.EnsureNormals()
	require.Len(t, m.Normals, 4)
	for _, n := range m.Normals {
		assert.Equal(t, mgl32.Vec3{}, n)
	}
}

func TestTangentsFollowTextureAxes(t *testing.T) {
	m := New("tri", []mgl32.Vec3{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}}, [][]uint32{{0, 1, 2}})
	m.SetTexCoords2D([]mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}})
	m.CalculateNormals()

	require.Len(t, m.Tangents, 3)
	for i := range m.Vertices {
		assert.True(t, m.Tangents[i].ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-6), "tangent %v", m.Tangents[i])
		assert.True(t, m.Binormals[i].ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-6), "binormal %v", m.Binormals[i])
	}
}

func TestTangentsWithMirroredTextureCoordinates(t *testing.T) {
	m := New("tri", []mgl32.Vec3{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}}, [][]uint32{{0, 1, 2}})
	m.SetTexCoords2D([]mgl32.Vec2{{1, 0}, {0, 0}, {1, 1}})
	m.CalculateNormals()

	// u runs along -x
	assert.True(t, m.Tangents[0].ApproxEqualThreshold(mgl32.Vec3{-1, 0, 0}, 1e-6), "tangent %v", m.Tangents[0])
	assert.True(t, m.Binormals[0].ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-6), "binormal %v", m.Binormals[0])
}

func TestValidate(t *testing.T) {
	m := New("bad", []mgl32.Vec3{{0, 0, 0}}, [][]uint32{{0, 0, 3}})
	assert.ErrorIs(t, m.Validate(), ErrFaceIndex)

	m = New("short", []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}}, nil)
	m.Normals = []mgl32.Vec3{{0, 1, 0}}
	assert.ErrorContains(t, m.Validate(), "normal")

	assert.NoError(t, Sphere(8, 8).Validate())
	assert.NoError(t, FlattenedCube().Validate())
	assert.NoError(t, Plane(4).Validate())
}

func TestFaceWidth(t *testing.T) {
	assert.Equal(t, 3, Cube(false).FaceWidth())
	assert.Equal(t, 4, Plane(1).FaceWidth())
	assert.Equal(t, 0, New("points", []mgl32.Vec3{{0, 0, 0}}, nil).FaceWidth())

	mixed := New("mixed", make([]mgl32.Vec3, 4), [][]uint32{{0, 1, 2}, {0, 1, 2, 3}})
	assert.Equal(t, -1, mixed.FaceWidth())
}

func TestTriangleIndicesSplitsQuads(t *testing.T) {
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, Plane(1).TriangleIndices())
	assert.Len(t, Cube(false).TriangleIndices(), 36)
}

func TestFlatten(t *testing.T) {
	vs := []mgl32.Vec3{{1, 2, 3}, {4, 5, 6}}
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, Flatten(vs, 3))
	assert.Equal(t, []float32{1, 2, 4, 5}, Flatten(vs, 2))
}

func TestSphereNormalsAreUnit(t *testing.T) {
	m := Sphere(10, 20)
	for _, n := range m.Normals {
		assertUnit(t, n)
	}
	assert.Equal(t, 2, m.TexCoordDims)
}

func TestFlattenedCubeFacesPointAtViewer(t *testing.T) {
	m := FlattenedCube()
	assert.Len(t, m.Faces, 12)
	assert.Equal(t, 3, m.TexCoordDims)
	for _, f := range m.Faces {
		a := m.Vertices[f[1]].Sub(m.Vertices[f[0]])
		b := m.Vertices[f[2]].Sub(m.Vertices[f[0]])
		assert.Greater(t, a.Cross(b)[2], float32(0))
	}
}

func TestTextureReferences(t *testing.T) {
	rec := gfxtest.New()
	tex, err := texture.New2D(rec, "t", texture.Solid(1, 1, color.RGBA{}), texture.DefaultSampling)
	require.NoError(t, err)

	m := Quad()
	m.AddTexture(tex)
	assert.Equal(t, 2, tex.Refs())

	m.SetTextures()
	assert.Equal(t, 1, tex.Refs())
	assert.Empty(t, m.Textures)
}
