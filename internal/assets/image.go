package assets

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"

	_ "golang.org/x/image/bmp"

	"github.com/Faultbox/glscene/internal/engine/texture"
)

// LoadImage decodes a BMP, PNG, JPEG or TGA file into RGBA pixels. It
// implements texture.ImageLoader.
func (l *Library) LoadImage(name string) (*texture.Image, error) {
	data, err := l.Load(name)
	if err != nil {
		return nil, err
	}

	var img image.Image
	if strings.EqualFold(path.Ext(name), ".tga") {
		img, err = texture.DecodeTGA(data)
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return texture.FromImage(img), nil
}
