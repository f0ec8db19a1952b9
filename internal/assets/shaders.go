package assets

import (
	"errors"
	"os"
	"path"

	"go.uber.org/zap"

	"github.com/Faultbox/glscene/internal/engine/shader"
	"github.com/Faultbox/glscene/internal/logger"
)

// ShaderDir is the directory under each root checked for shader overrides.
const ShaderDir = "shaders"

// ShaderSource returns on-disk sources from <root>/shaders/<dir> when both
// files exist and the built-in sources otherwise. It implements
// shader.SourceProvider.
func (l *Library) ShaderSource(dir string) (string, string, error) {
	vs, errV := l.Load(path.Join(ShaderDir, dir, shader.VertexFile))
	fs, errF := l.Load(path.Join(ShaderDir, dir, shader.FragmentFile))
	if errV == nil && errF == nil {
		logger.Info("using shader override", zap.String("model", dir))
		return string(vs), string(fs), nil
	}
	for _, err := range []error{errV, errF} {
		if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, os.ErrNotExist) {
			return "", "", err
		}
	}
	return shader.Embedded().ShaderSource(dir)
}
