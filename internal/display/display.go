package display

const (
	Width  = 64
	Height = 32
)

// View is the read-only side of the framebuffer handed to renderers.
type View interface {
	Width() int
	Height() int
	Pixel(row, col int) bool
}

// Display is a 1-bit framebuffer stored row-major (index = row*width + col).
// Coordinates outside the grid read as off and writes to them are dropped.
type Display struct {
	w, h int
	pix  []bool
}

var _ View = (*Display)(nil)

// New creates a display of the given size; non-positive sizes fall back to 64x32.
func New(width, height int) *Display {
	if width <= 0 || height <= 0 {
		width, height = Width, Height
	}
	return &Display{w: width, h: height, pix: make([]bool, width*height)}
}

func (d *Display) Width() int  { return d.w }
func (d *Display) Height() int { return d.h }

func (d *Display) inBounds(row, col int) bool {
	return row >= 0 && row < d.h && col >= 0 && col < d.w
}

// Pixel reports whether the pixel is on. No wraparound.
func (d *Display) Pixel(row, col int) bool {
	if !d.inBounds(row, col) {
		return false
	}
	return d.pix[row*d.w+col]
}

func (d *Display) SetPixel(row, col int, on bool) {
	if !d.inBounds(row, col) {
		return
	}
	d.pix[row*d.w+col] = on
}

func (d *Display) FlipPixel(row, col int) {
	d.SetPixel(row, col, !d.Pixel(row, col))
}

// Clear turns every pixel off.
func (d *Display) Clear() { d.Fill(false) }

// Fill sets every pixel to on.
func (d *Display) Fill(on bool) {
	for i := range d.pix {
		d.pix[i] = on
	}
}

// Lit returns the number of pixels that are on.
func (d *Display) Lit() int {
	n := 0
	for _, p := range d.pix {
		if p {
			n++
		}
	}
	return n
}
