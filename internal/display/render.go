package display

import (
	"hash/crc32"
	"image"
	"image/color"
	"strings"
)

// Palette maps the two pixel states to colors.
type Palette struct {
	On, Off color.RGBA
}

// DefaultPalette is white-on-black.
var DefaultPalette = Palette{
	On:  color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
	Off: color.RGBA{0x00, 0x00, 0x00, 0xFF},
}

// RGBA writes v into dst as packed RGBA (4 bytes per pixel, row-major).
// dst must hold at least Width*Height*4 bytes.
func RGBA(v View, dst []byte, p Palette) {
	w, h := v.Width(), v.Height()
	i := 0
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			col := p.Off
			if v.Pixel(r, c) {
				col = p.On
			}
			dst[i+0] = col.R
			dst[i+1] = col.G
			dst[i+2] = col.B
			dst[i+3] = col.A
			i += 4
		}
	}
}

// Image renders v to a new RGBA image, scaled by an integer factor.
func Image(v View, p Palette, scale int) *image.RGBA {
	if scale <= 0 {
		scale = 1
	}
	w, h := v.Width(), v.Height()
	img := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			col := p.Off
			if v.Pixel(r, c) {
				col = p.On
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetRGBA(c*scale+dx, r*scale+dy, col)
				}
			}
		}
	}
	return img
}

// ASCII renders v as text, '#' for on and '.' for off, one line per row.
func ASCII(v View) string {
	var sb strings.Builder
	w, h := v.Width(), v.Height()
	sb.Grow((w + 1) * h)
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			if v.Pixel(r, c) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Checksum is the CRC32 (IEEE) of the pixel grid, one byte per pixel.
// Headless runs use it to assert a known screen.
func Checksum(v View) uint32 {
	w, h := v.Width(), v.Height()
	buf := make([]byte, w*h)
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			if v.Pixel(r, c) {
				buf[r*w+c] = 1
			}
		}
	}
	return crc32.ChecksumIEEE(buf)
}
