package shader

import (
	"fmt"
)

// ShadingModel selects one of the built-in GLSL programs.
type ShadingModel int

const (
	Basic ShadingModel = iota
	Flat
	Gouraud
	Phong
	Blinn
	Texture
	Environment
	ShadowMapping
	Depth
	FlattenedCube
	ShowTexture
	Skybox
)

// feature flags decide which uniforms a model registers and binds.
type feature uint8

const (
	// featLighting binds material, light, mode, alpha and texture uniforms.
	featLighting feature = 1 << iota
	// featViewModel binds VM and its inverse-transpose VMiT.
	featViewModel
	// featViewTranspose binds VT, the transposed rotation of the view.
	featViewTranspose
	// featRotationOnlyView drops the view translation before composing PVM.
	featRotationOnlyView
	// featMeshCube samples the mesh's first texture as sampler_cube.
	featMeshCube
	// featMeshSampler samples the mesh's first texture as sampler.
	featMeshSampler
)

type modelInfo struct {
	name     string
	dir      string
	features feature
}

var models = map[ShadingModel]modelInfo{
	Basic:         {"basic", "basic", 0},
	Flat:          {"flat", "flat", featLighting | featViewModel},
	Gouraud:       {"gouraud", "gouraud", featLighting | featViewModel},
	Phong:         {"phong", "phong", featLighting | featViewModel},
	Blinn:         {"blinn", "blinn", featLighting | featViewModel},
	Texture:       {"texture", "texture", featLighting | featViewModel},
	Environment:   {"environment", "environment", featViewModel | featViewTranspose},
	ShadowMapping: {"shadow_mapping", "shadow_mapping", featLighting | featViewModel},
	Depth:         {"depth", "depth", 0},
	FlattenedCube: {"flattened_cube", "flattened_cube", featMeshCube},
	ShowTexture:   {"show_texture", "show_texture", featMeshSampler},
	Skybox:        {"skybox", "skybox", featRotationOnlyView | featMeshCube},
}

func (m ShadingModel) info() (modelInfo, error) {
	info, ok := models[m]
	if !ok {
		return modelInfo{}, fmt.Errorf("shader: unknown shading model %d", int(m))
	}
	return info, nil
}

func (m ShadingModel) String() string {
	if info, ok := models[m]; ok {
		return info.name
	}
	return fmt.Sprintf("ShadingModel(%d)", int(m))
}

// ParseShadingModel resolves a model from its name, e.g. "phong".
func ParseShadingModel(name string) (ShadingModel, error) {
	for m, info := range models {
		if info.name == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("shader: unknown shading model %q", name)
}

// Lit reports whether the model uses the light and material uniforms.
func (m ShadingModel) Lit() bool {
	return models[m].features&featLighting != 0
}

func (f feature) uniforms() []string {
	names := []string{"PVM"}
	if f&featViewModel != 0 {
		names = append(names, "VM", "VMiT")
	}
	if f&featViewTranspose != 0 {
		names = append(names, "VT")
	}
	if f&featLighting != 0 {
		names = append(names,
			"mode", "alpha",
			"Ka", "Kd", "Ks", "Ns",
			"light", "Ia", "Id", "Is",
			"has_texture", "textureObject",
		)
	}
	if f&featMeshCube != 0 {
		names = append(names, "sampler_cube")
	}
	if f&featMeshSampler != 0 {
		names = append(names, "sampler")
	}
	return names
}
