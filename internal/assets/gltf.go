package assets

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/glscene/internal/engine/mesh"
	"github.com/Faultbox/glscene/internal/logger"
)

// LoadMeshes reads every triangle primitive of a .gltf or .glb file as a
// mesh. Base-colour texture file names are kept in Material.Texture.
func (l *Library) LoadMeshes(name string) ([]*mesh.Mesh, error) {
	p, err := l.Resolve(name)
	if err != nil {
		return nil, err
	}
	doc, err := gltf.Open(p)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", p, err)
	}

	materials := make([]*mesh.Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		materials[i] = convertMaterial(doc, gm)
	}

	var meshes []*mesh.Mesh
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				logger.Warn("skipping non-triangle glTF primitive",
					zap.String("file", name),
					zap.Int("mesh", mi),
					zap.Int("primitive", pi),
				)
				continue
			}
			m, err := loadPrimitive(doc, meshName(gm.Name, mi, pi, len(gm.Primitives)), prim)
			if err != nil {
				return nil, fmt.Errorf("%s mesh %d primitive %d: %w", name, mi, pi, err)
			}
			if prim.Material != nil && *prim.Material < len(materials) {
				mat := *materials[*prim.Material]
				m.Material = &mat
			}
			meshes = append(meshes, m)
		}
	}

	logger.Info("glTF loaded", zap.String("file", name), zap.Int("meshes", len(meshes)))
	return meshes, nil
}

func meshName(name string, mi, pi, count int) string {
	if name == "" {
		name = fmt.Sprintf("mesh_%d", mi)
	}
	if count > 1 {
		name = fmt.Sprintf("%s_p%d", name, pi)
	}
	return name
}

func loadPrimitive(doc *gltf.Document, name string, prim *gltf.Primitive) (*mesh.Mesh, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	vertices := make([]mgl32.Vec3, len(positions))
	for i, p := range positions {
		vertices[i] = mgl32.Vec3(p)
	}

	var faces [][]uint32
	if prim.Indices != nil {
		indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		if len(indices)%3 != 0 {
			return nil, fmt.Errorf("%d indices do not form triangles", len(indices))
		}
		faces = make([][]uint32, 0, len(indices)/3)
		for i := 0; i < len(indices); i += 3 {
			faces = append(faces, []uint32{indices[i], indices[i+1], indices[i+2]})
		}
	}

	m := mesh.New(name, vertices, faces)

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
		if len(normals) == len(vertices) {
			m.Normals = make([]mgl32.Vec3, len(normals))
			for i, n := range normals {
				m.Normals[i] = mgl32.Vec3(n)
			}
		}
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("texture coordinates: %w", err)
		}
		if len(uvs) == len(vertices) {
			uv := make([]mgl32.Vec2, len(uvs))
			for i, t := range uvs {
				uv[i] = mgl32.Vec2(t)
			}
			m.SetTexCoords2D(uv)
		}
	}
	return m, nil
}

// convertMaterial approximates PBR metallic-roughness with Phong terms.
func convertMaterial(doc *gltf.Document, gm *gltf.Material) *mesh.Material {
	mat := mesh.DefaultMaterial()
	mat.Name = gm.Name

	pbr := gm.PBRMetallicRoughness
	if pbr == nil {
		return &mat
	}
	cf := pbr.BaseColorFactorOrDefault()
	mat.Kd = mgl32.Vec3{float32(cf[0]), float32(cf[1]), float32(cf[2])}
	mat.Ka = mat.Kd.Mul(0.3)
	mat.Alpha = float32(cf[3])

	roughness := float32(pbr.RoughnessFactorOrDefault())
	metallic := float32(pbr.MetallicFactorOrDefault())
	mat.Ns = (1-roughness)*(1-roughness)*128 + 1
	s := 0.04 + metallic*0.66
	mat.Ks = mgl32.Vec3{s, s, s}

	if t := pbr.BaseColorTexture; t != nil && t.Index < len(doc.Textures) {
		if src := doc.Textures[t.Index].Source; src != nil && *src < len(doc.Images) {
			img := doc.Images[*src]
			if img.URI != "" && !img.IsEmbeddedResource() {
				mat.Texture = img.URI
			}
		}
	}
	return &mat
}
