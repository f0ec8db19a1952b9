package texture

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/glscene/internal/gfx"
	"github.com/Faultbox/glscene/internal/gfx/gfxtest"
)

func TestReleaseDeletesOnLastOwner(t *testing.T) {
	rec := gfxtest.New()
	tex, err := New2D(rec, "checker", Solid(2, 2, color.RGBA{255, 0, 0, 255}), DefaultSampling)
	require.NoError(t, err)

	tex.Retain()
	assert.Equal(t, 2, tex.Refs())

	tex.Release()
	assert.Equal(t, 0, rec.Count("DeleteTexture"))

	tex.Release()
	assert.Equal(t, 1, rec.Count("DeleteTexture"))
	assert.Equal(t, gfx.NoHandle, tex.Handle())

	tex.Release()
	assert.Equal(t, 1, rec.Count("DeleteTexture"), "extra release must be ignored")
	assert.ErrorIs(t, tex.Bind(0), ErrReleased)
}

func TestNew2DRejectsShortPixelData(t *testing.T) {
	rec := gfxtest.New()
	_, err := New2D(rec, "bad", &Image{Width: 4, Height: 4, Pixels: make([]byte, 3)}, DefaultSampling)
	assert.Error(t, err)
	assert.Equal(t, 0, rec.Count("CreateTexture"))
}

func TestNewCubeUploadsSixFaces(t *testing.T) {
	rec := gfxtest.New()
	faces := make(map[gfx.CubeFace]*Image)
	for _, f := range gfx.CubeFaces {
		faces[f] = Solid(4, 4, color.RGBA{A: 255})
	}

	tex, err := NewCube(rec, "sky", faces)
	require.NoError(t, err)
	assert.Equal(t, gfx.TextureCubeMap, tex.Target())
	assert.Equal(t, 6, rec.Count("TexImage"))
}

func TestNewCubeRejectsMismatchedFaces(t *testing.T) {
	faces := make(map[gfx.CubeFace]*Image)
	for _, f := range gfx.CubeFaces {
		faces[f] = Solid(4, 4, color.RGBA{})
	}
	faces[gfx.FaceNegativeZ] = Solid(8, 8, color.RGBA{})

	_, err := NewCube(gfxtest.New(), "sky", faces)
	assert.ErrorContains(t, err, "size")

	delete(faces, gfx.FaceNegativeZ)
	_, err = NewCube(gfxtest.New(), "sky", faces)
	assert.ErrorContains(t, err, "missing face")
}

type mapLoader map[string]*Image

func (m mapLoader) LoadImage(name string) (*Image, error) {
	img, ok := m[name]
	if !ok {
		return nil, assert.AnError
	}
	return img, nil
}

func TestLoadCubeUsesFaceFileNames(t *testing.T) {
	loader := mapLoader{}
	for _, file := range CubeFaceFiles {
		loader["skybox/"+file] = Solid(2, 2, color.RGBA{A: 255})
	}

	tex, err := LoadCube(gfxtest.New(), loader, "skybox")
	require.NoError(t, err)
	assert.Equal(t, int32(2), tex.Width)

	delete(loader, "skybox/top.bmp")
	_, err = LoadCube(gfxtest.New(), loader, "skybox")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestCubeFaceFilesMatchFaceLayout(t *testing.T) {
	assert.Equal(t, "left.bmp", CubeFaceFiles[gfx.FaceNegativeX])
	assert.Equal(t, "right.bmp", CubeFaceFiles[gfx.FacePositiveX])
	assert.Equal(t, "bottom.bmp", CubeFaceFiles[gfx.FacePositiveY])
	assert.Equal(t, "top.bmp", CubeFaceFiles[gfx.FaceNegativeY])
	assert.Equal(t, "back.bmp", CubeFaceFiles[gfx.FacePositiveZ])
	assert.Equal(t, "front.bmp", CubeFaceFiles[gfx.FaceNegativeZ])
}

func TestFromImageRepacksSubImages(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.Set(2, 1, color.NRGBA{10, 20, 30, 255})

	img := FromImage(src)
	assert.Equal(t, 3, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Len(t, img.Pixels, 3*2*4)
	assert.Equal(t, []byte{10, 20, 30, 255}, img.Pixels[(1*3+2)*4:(1*3+2)*4+4])
}

func TestGradientEndpoints(t *testing.T) {
	img := Gradient(1, 3, color.RGBA{0, 0, 0, 255}, color.RGBA{200, 100, 50, 255})
	assert.Equal(t, []byte{0, 0, 0, 255}, img.Pixels[0:4])
	assert.Equal(t, []byte{100, 50, 25, 255}, img.Pixels[4:8])
	assert.Equal(t, []byte{200, 100, 50, 255}, img.Pixels[8:12])
}

func TestDecodeTGAUncompressedBottomUp(t *testing.T) {
	// 2x1, 24 bpp, bottom-up rows
	data := make([]byte, 18)
	data[2] = tgaTrueColor
	data[12] = 2
	data[14] = 1
	data[16] = 24
	data = append(data, 0, 0, 255, 255, 0, 0) // red, blue in BGR

	img, err := DecodeTGA(data)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, img.RGBAAt(1, 0))
}

func TestDecodeTGARLE(t *testing.T) {
	// 3x1, 32 bpp, top-down, one run of 3 green pixels
	data := make([]byte, 18)
	data[2] = tgaTrueColorRLE
	data[12] = 3
	data[14] = 1
	data[16] = 32
	data[17] = 0x20
	data = append(data, 0x82, 0, 255, 0, 128)

	img, err := DecodeTGA(data)
	require.NoError(t, err)
	for x := 0; x < 3; x++ {
		assert.Equal(t, color.RGBA{0, 255, 0, 128}, img.RGBAAt(x, 0))
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	_, err := DecodeTGA([]byte{1, 2, 3})
	assert.ErrorIs(t, err, errTGATruncated)

	header := make([]byte, 18)
	header[2] = 3
	_, err = DecodeTGA(header)
	assert.ErrorContains(t, err, "unsupported image type")

	header[2] = tgaTrueColor
	header[12], header[14], header[16] = 1, 1, 24
	_, err = DecodeTGA(header)
	assert.ErrorIs(t, err, errTGATruncated)
}
