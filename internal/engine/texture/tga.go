package texture

import (
	"errors"
	"fmt"
	"image"
)

// TGA image types the decoder understands.
const (
	tgaTrueColor    = 2
	tgaTrueColorRLE = 10
)

var errTGATruncated = errors.New("tga: data truncated")

// DecodeTGA decodes an uncompressed or RLE true-color TGA file (24 or 32
// bits per pixel).
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < 18 {
		return nil, errTGATruncated
	}

	idLength := int(data[0])
	if data[1] != 0 {
		return nil, errors.New("tga: color-mapped images are not supported")
	}
	kind := data[2]
	if kind != tgaTrueColor && kind != tgaTrueColorRLE {
		return nil, fmt.Errorf("tga: unsupported image type %d", kind)
	}
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("tga: unsupported bit depth %d", bpp)
	}
	topDown := data[17]&0x20 != 0

	if 18+idLength > len(data) {
		return nil, errTGATruncated
	}

	d := tgaDecoder{
		src:     data[18+idLength:],
		img:     image.NewRGBA(image.Rect(0, 0, width, height)),
		width:   width,
		height:  height,
		bpp:     bpp / 8,
		topDown: topDown,
	}

	var err error
	if kind == tgaTrueColor {
		err = d.raw(width * height)
	} else {
		err = d.rle()
	}
	if err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	src     []byte
	pos     int
	img     *image.RGBA
	width   int
	height  int
	bpp     int
	topDown bool
	pixel   int
}

// next reads one BGR(A) pixel from the stream.
func (d *tgaDecoder) next() ([4]byte, error) {
	if d.pos+d.bpp > len(d.src) {
		return [4]byte{}, errTGATruncated
	}
	p := d.src[d.pos:]
	c := [4]byte{p[2], p[1], p[0], 255}
	if d.bpp == 4 {
		c[3] = p[3]
	}
	d.pos += d.bpp
	return c, nil
}

// put writes c at the current pixel and advances.
func (d *tgaDecoder) put(c [4]byte) {
	x := d.pixel % d.width
	y := d.pixel / d.width
	if !d.topDown {
		y = d.height - 1 - y
	}
	copy(d.img.Pix[d.img.PixOffset(x, y):], c[:])
	d.pixel++
}

func (d *tgaDecoder) raw(n int) error {
	total := d.width * d.height
	for i := 0; i < n && d.pixel < total; i++ {
		c, err := d.next()
		if err != nil {
			return err
		}
		d.put(c)
	}
	return nil
}

func (d *tgaDecoder) rle() error {
	total := d.width * d.height
	for d.pixel < total {
		if d.pos >= len(d.src) {
			return errTGATruncated
		}
		header := d.src[d.pos]
		d.pos++
		count := int(header&0x7f) + 1

		if header&0x80 == 0 {
			if err := d.raw(count); err != nil {
				return err
			}
			continue
		}
		c, err := d.next()
		if err != nil {
			return err
		}
		for i := 0; i < count && d.pixel < total; i++ {
			d.put(c)
		}
	}
	return nil
}
