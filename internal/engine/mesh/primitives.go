package mesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Cube returns a 2×2×2 cube centred on the origin with shared corner
// vertices. With inside set the faces wind inwards, for skyboxes.
func Cube(inside bool) *Mesh {
	vertices := []mgl32.Vec3{
		{-1, -1, -1},
		{+1, -1, -1},
		{-1, +1, -1},
		{+1, +1, -1},
		{-1, -1, +1},
		{-1, +1, +1},
		{+1, -1, +1},
		{+1, +1, +1},
	}
	faces := [][]uint32{
		{1, 0, 2}, {1, 2, 3}, // -z
		{2, 0, 4}, {2, 4, 5}, // -x
		{1, 3, 7}, {1, 7, 6}, // +x
		{5, 4, 6}, {5, 6, 7}, // +z
		{0, 1, 4}, {4, 1, 6}, // -y
		{2, 5, 3}, {5, 7, 3}, // +y
	}
	if inside {
		for _, f := range faces {
			f[1], f[2] = f[2], f[1]
		}
	}

	m := New("cube", vertices, faces)
	m.CalculateNormals()
	return m
}

// Sphere returns a unit UV sphere with the given number of latitude and
// longitude subdivisions.
func Sphere(lat, long int) *Mesh {
	if lat < 2 {
		lat = 2
	}
	if long < 3 {
		long = 3
	}

	n := (lat + 1) * (long + 1)
	vertices := make([]mgl32.Vec3, 0, n)
	uv := make([]mgl32.Vec2, 0, n)
	for i := 0; i <= lat; i++ {
		theta := float32(i) * math32.Pi / float32(lat)
		sinT, cosT := math32.Sincos(theta)
		for j := 0; j <= long; j++ {
			phi := float32(j) * 2 * math32.Pi / float32(long)
			sinP, cosP := math32.Sincos(phi)
			vertices = append(vertices, mgl32.Vec3{sinT * cosP, cosT, sinT * sinP})
			uv = append(uv, mgl32.Vec2{float32(j) / float32(long), 1 - float32(i)/float32(lat)})
		}
	}

	faces := make([][]uint32, 0, lat*long*2)
	row := uint32(long + 1)
	for i := 0; i < lat; i++ {
		for j := 0; j < long; j++ {
			a := uint32(i)*row + uint32(j)
			b := a + row
			faces = append(faces,
				[]uint32{a, a + 1, b},
				[]uint32{a + 1, b + 1, b},
			)
		}
	}

	m := New("sphere", vertices, faces)
	m.SetTexCoords2D(uv)
	// Normals of a unit sphere are its positions; the pole rows are
	// degenerate and would otherwise average badly.
	m.Normals = append([]mgl32.Vec3(nil), vertices...)
	return m
}

// Plane returns a 2×2 quad in the XZ plane facing +Y. The texture repeats
// the given number of times across it.
func Plane(repeat float32) *Mesh {
	vertices := []mgl32.Vec3{
		{-1, 0, +1},
		{+1, 0, +1},
		{+1, 0, -1},
		{-1, 0, -1},
	}
	m := New("plane", vertices, [][]uint32{{0, 1, 2, 3}})
	m.SetTexCoords2D([]mgl32.Vec2{{0, 0}, {repeat, 0}, {repeat, repeat}, {0, repeat}})
	up := mgl32.Vec3{0, 1, 0}
	m.Normals = []mgl32.Vec3{up, up, up, up}
	return m
}

// Quad returns a 2×2 rectangle in the XY plane facing +Z with texture
// coordinates spanning [0,1].
func Quad() *Mesh {
	vertices := []mgl32.Vec3{
		{-1, -1, 0},
		{+1, -1, 0},
		{+1, +1, 0},
		{-1, +1, 0},
	}
	m := New("quad", vertices, [][]uint32{{0, 1, 2}, {0, 2, 3}})
	m.SetTexCoords2D([]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}})
	fwd := mgl32.Vec3{0, 0, 1}
	m.Normals = []mgl32.Vec3{fwd, fwd, fwd, fwd}
	return m
}

// FlattenedCube returns the six faces of a cube laid out as a cross in the
// XY plane, each carrying the 3D direction that samples that face of a cube
// map.
func FlattenedCube() *Mesh {
	vertices := []mgl32.Vec3{
		{-2, -1, 0}, {-2, 0, 0}, {-1, -1, 0}, {-1, 0, 0}, // left
		{-1, -1, 0}, {-1, 0, 0}, {0, -1, 0}, {0, 0, 0}, // front
		{0, -1, 0}, {0, 0, 0}, {1, -1, 0}, {1, 0, 0}, // right
		{1, -1, 0}, {1, 0, 0}, {2, -1, 0}, {2, 0, 0}, // back
		{-1, 0, 0}, {-1, 1, 0}, {0, 0, 0}, {0, 1, 0}, // top
		{-1, -2, 0}, {-1, -1, 0}, {0, -2, 0}, {0, -1, 0}, // bottom
	}
	for i := range vertices {
		vertices[i] = vertices[i].Mul(0.5)
	}

	faces := make([][]uint32, 0, 12)
	for f := uint32(0); f < 6; f++ {
		base := f * 4
		faces = append(faces,
			[]uint32{base, base + 3, base + 1},
			[]uint32{base, base + 2, base + 3},
		)
	}

	m := New("flattened_cube", vertices, faces)
	m.SetTexCoords3D([]mgl32.Vec3{
		{-1, +1, -1}, {-1, -1, -1}, {-1, +1, +1}, {-1, -1, +1},
		{-1, +1, +1}, {-1, -1, +1}, {+1, +1, +1}, {+1, -1, +1},
		{+1, +1, +1}, {+1, -1, +1}, {+1, +1, -1}, {+1, -1, -1},
		{+1, +1, -1}, {+1, -1, -1}, {-1, +1, -1}, {-1, -1, -1},
		{-1, -1, +1}, {-1, -1, -1}, {+1, -1, +1}, {+1, -1, -1},
		{-1, +1, -1}, {-1, +1, +1}, {+1, +1, -1}, {+1, +1, +1},
	})
	fwd := mgl32.Vec3{0, 0, 1}
	m.Normals = make([]mgl32.Vec3, len(vertices))
	for i := range m.Normals {
		m.Normals[i] = fwd
	}
	return m
}
