package shader

import (
	"fmt"
	"io/fs"
	"path"

	"github.com/Faultbox/glscene/internal/engine/shader/shaders"
)

// Source file names inside a shading model directory.
const (
	VertexFile   = "vertex_shader.glsl"
	FragmentFile = "fragment_shader.glsl"
)

// SourceProvider returns the GLSL sources stored under a model directory.
type SourceProvider interface {
	ShaderSource(dir string) (vertex, fragment string, err error)
}

// FSSource reads shader sources from a file system.
type FSSource struct {
	FS fs.FS
}

// Embedded returns the provider for the built-in sources.
func Embedded() FSSource {
	return FSSource{FS: shaders.Embedded}
}

// ShaderSource implements SourceProvider.
func (s FSSource) ShaderSource(dir string) (string, string, error) {
	vs, err := fs.ReadFile(s.FS, path.Join(dir, VertexFile))
	if err != nil {
		return "", "", fmt.Errorf("reading %s vertex shader: %w", dir, err)
	}
	frag, err := fs.ReadFile(s.FS, path.Join(dir, FragmentFile))
	if err != nil {
		return "", "", fmt.Errorf("reading %s fragment shader: %w", dir, err)
	}
	return string(vs), string(frag), nil
}
