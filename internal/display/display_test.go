package display

import (
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDisplay_Defaults(t *testing.T) {
	d := New(0, 0)
	assert.Equal(t, Width, d.Width())
	assert.Equal(t, Height, d.Height())
	assert.Equal(t, 0, d.Lit())
}

func TestDisplay_SetFlip(t *testing.T) {
	d := New(Width, Height)
	d.SetPixel(3, 5, true)
	assert.True(t, d.Pixel(3, 5))
	assert.False(t, d.Pixel(5, 3))

	d.FlipPixel(3, 5)
	assert.False(t, d.Pixel(3, 5))
	d.FlipPixel(31, 63)
	assert.True(t, d.Pixel(31, 63))
	assert.Equal(t, 1, d.Lit())
}

func TestDisplay_RowMajorLayout(t *testing.T) {
	d := New(Width, Height)
	d.SetPixel(1, 0, true)
	assert.True(t, d.pix[Width])
	d.SetPixel(0, 1, true)
	assert.True(t, d.pix[1])
}

func TestDisplay_OutOfRange(t *testing.T) {
	d := New(Width, Height)
	coords := []struct{ row, col int }{
		{-1, 0}, {0, -1}, {Height, 0}, {0, Width}, {100, 100},
	}
	for _, c := range coords {
		d.SetPixel(c.row, c.col, true)
		d.FlipPixel(c.row, c.col)
		assert.False(t, d.Pixel(c.row, c.col))
	}
	assert.Equal(t, 0, d.Lit())
}

func TestDisplay_ClearAndFill(t *testing.T) {
	d := New(Width, Height)
	d.Fill(true)
	assert.Equal(t, Width*Height, d.Lit())

	d.Clear()
	for r := 0; r < Height; r++ {
		for c := 0; c < Width; c++ {
			if d.Pixel(r, c) {
				t.Fatalf("pixel (%d,%d) still on after Clear", r, c)
			}
		}
	}
}

func TestRender_ASCIIAndRGBA(t *testing.T) {
	d := New(4, 2)
	d.SetPixel(0, 0, true)
	d.SetPixel(1, 3, true)

	assert.Equal(t, "#...\n...#\n", ASCII(d))

	buf := make([]byte, 4*2*4)
	RGBA(d, buf, DefaultPalette)
	assert.Equal(t, byte(0xFF), buf[0])
	assert.Equal(t, byte(0x00), buf[4])
	assert.Equal(t, byte(0xFF), buf[3]) // alpha
	last := (1*4 + 3) * 4
	assert.Equal(t, byte(0xFF), buf[last])

	img := Image(d, DefaultPalette, 3)
	assert.Equal(t, 12, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())
	assert.Equal(t, DefaultPalette.On, img.RGBAAt(2, 2))
	assert.Equal(t, DefaultPalette.Off, img.RGBAAt(3, 0))
}

func TestRender_ChecksumTracksPixels(t *testing.T) {
	d := New(Width, Height)
	blank := Checksum(d)
	d.FlipPixel(10, 10)
	lit := Checksum(d)
	assert.True(t, blank != lit)
	d.FlipPixel(10, 10)
	assert.Equal(t, blank, Checksum(d))
	assert.Equal(t, Height, strings.Count(ASCII(d), "\n"))
}
