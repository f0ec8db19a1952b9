package texture

import (
	"fmt"
	"path"

	"go.uber.org/zap"

	"github.com/Faultbox/glscene/internal/gfx"
	"github.com/Faultbox/glscene/internal/logger"
)

// CubeFaceFiles maps each cube face to the image file it is loaded from.
var CubeFaceFiles = map[gfx.CubeFace]string{
	gfx.FaceNegativeX: "left.bmp",
	gfx.FacePositiveZ: "back.bmp",
	gfx.FacePositiveX: "right.bmp",
	gfx.FaceNegativeZ: "front.bmp",
	gfx.FacePositiveY: "bottom.bmp",
	gfx.FaceNegativeY: "top.bmp",
}

var cubeSampling = gfx.Sampling{Wrap: gfx.ClampToEdge, Filter: gfx.Linear}

// NewCube uploads six face images as a cube map. All faces must share one
// size.
func NewCube(dev gfx.Device, name string, faces map[gfx.CubeFace]*Image) (*Texture, error) {
	var w, h int
	for _, face := range gfx.CubeFaces {
		img, ok := faces[face]
		if !ok {
			return nil, fmt.Errorf("cube map %q: missing face %s", name, face)
		}
		if err := img.validate(); err != nil {
			return nil, fmt.Errorf("cube map %q face %s: %w", name, face, err)
		}
		if w == 0 {
			w, h = img.Width, img.Height
		} else if img.Width != w || img.Height != h {
			return nil, fmt.Errorf("cube map %q face %s: size %dx%d, want %dx%d",
				name, face, img.Width, img.Height, w, h)
		}
	}

	t := newTexture(dev, name, gfx.TextureCubeMap, gfx.RGBA, int32(w), int32(h))
	dev.BindTexture(0, gfx.TextureCubeMap, t.handle)
	for _, face := range gfx.CubeFaces {
		dev.TexImage(gfx.TextureCubeMap, face, t.Width, t.Height, gfx.RGBA, faces[face].Pixels)
	}
	dev.TexSampling(gfx.TextureCubeMap, cubeSampling)
	return t, nil
}

// NewCubeTarget allocates an empty w×h cube map to be rendered into.
func NewCubeTarget(dev gfx.Device, name string, w, h int32) *Texture {
	t := newTexture(dev, name, gfx.TextureCubeMap, gfx.RGBA, w, h)
	dev.BindTexture(0, gfx.TextureCubeMap, t.handle)
	for _, face := range gfx.CubeFaces {
		dev.TexImage(gfx.TextureCubeMap, face, w, h, gfx.RGBA, nil)
	}
	dev.TexSampling(gfx.TextureCubeMap, cubeSampling)
	return t
}

// LoadCube reads the six faces named by CubeFaceFiles from dir.
func LoadCube(dev gfx.Device, loader ImageLoader, dir string) (*Texture, error) {
	faces := make(map[gfx.CubeFace]*Image, len(CubeFaceFiles))
	for face, file := range CubeFaceFiles {
		p := path.Join(dir, file)
		img, err := loader.LoadImage(p)
		if err != nil {
			return nil, fmt.Errorf("loading cube face %s: %w", face, err)
		}
		faces[face] = img
	}
	logger.Info("cube map loaded", zap.String("dir", dir))
	return NewCube(dev, dir, faces)
}
