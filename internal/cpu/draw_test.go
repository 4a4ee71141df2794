package cpu

import (
	"testing"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/display"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/memory"
	"github.com/google/go-cmp/cmp"
)

func snapshot(d *display.Display) []bool {
	out := make([]bool, 0, d.Width()*d.Height())
	for r := 0; r < d.Height(); r++ {
		for c := 0; c < d.Width(); c++ {
			out = append(out, d.Pixel(r, c))
		}
	}
	return out
}

func TestCPU_DrawFontGlyph(t *testing.T) {
	// LD I, 050; DRW V0, V1, 4
	r := newCPUWithROM(t, []byte{0xA0, 0x50, 0xD0, 0x14})
	r.step(t, 2)
	if r.c.V[0xF] != 0 {
		t.Fatalf("VF got %d want 0 on blank display", r.c.V[0xF])
	}
	glyph := memory.Font()[:4] // rows of "0": F0 90 90 90
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			want := row < 4 && glyph[row]&(0x80>>col) != 0
			if got := r.disp.Pixel(row, col); got != want {
				t.Fatalf("pixel (%d,%d) got %t want %t", row, col, got, want)
			}
		}
	}
	if lit := r.disp.Lit(); lit != 4+2+2+2 {
		t.Fatalf("lit pixels got %d want 10", lit)
	}
}

func TestCPU_DrawTwiceRestores(t *testing.T) {
	r := newCPUWithROM(t, []byte{0xA0, 0x5A, 0xD0, 0x15, 0xD0, 0x15}) // glyph "2"
	r.c.V[0], r.c.V[1] = 20, 7
	r.disp.SetPixel(0, 0, true) // unrelated lit pixel stays
	before := snapshot(r.disp)

	r.step(t, 2)
	if r.c.V[0xF] != 0 {
		t.Fatalf("first draw VF got %d want 0", r.c.V[0xF])
	}
	r.step(t, 1)
	if r.c.V[0xF] != 1 {
		t.Fatalf("second draw VF got %d want 1", r.c.V[0xF])
	}
	if diff := cmp.Diff(before, snapshot(r.disp)); diff != "" {
		t.Fatalf("display not restored (-want +got):\n%s", diff)
	}
}

func TestCPU_DrawCollisionIsSticky(t *testing.T) {
	r := newCPUWithROM(t, []byte{0xA3, 0x00, 0xD0, 0x02})
	r.mem.Write(0x300, 0x80)
	r.mem.Write(0x301, 0x80)
	r.disp.SetPixel(0, 0, true) // collides on row 0 only
	r.step(t, 2)
	if r.c.V[0xF] != 1 {
		t.Fatalf("VF got %d want 1", r.c.V[0xF])
	}
	if r.disp.Pixel(0, 0) || !r.disp.Pixel(1, 0) {
		t.Fatalf("unexpected pixels after draw")
	}
}

func TestCPU_DrawWrapsOriginClipsEdges(t *testing.T) {
	r := newCPUWithROM(t, []byte{0xA3, 0x00, 0xD0, 0x13})
	for i := uint16(0); i < 3; i++ {
		r.mem.Write(0x300+i, 0xFF)
	}
	// origin wraps: 64+60 -> col 60, 32+30 -> row 30
	r.c.V[0], r.c.V[1] = 124, 62
	r.step(t, 2)

	if !r.disp.Pixel(30, 60) || !r.disp.Pixel(31, 63) {
		t.Fatalf("sprite not drawn at wrapped origin")
	}
	// columns 64-67 and row 32 are clipped, not wrapped
	if r.disp.Pixel(30, 0) || r.disp.Pixel(0, 60) {
		t.Fatalf("sprite wrapped instead of clipping")
	}
	if lit := r.disp.Lit(); lit != 2*4 {
		t.Fatalf("lit got %d want 8", lit)
	}
}

func TestCPU_ClearThenQuery(t *testing.T) {
	r := newCPUWithROM(t, []byte{0x00, 0xE0})
	r.disp.Fill(true)
	r.step(t, 1)
	for row := -1; row <= r.disp.Height(); row++ {
		for col := -1; col <= r.disp.Width(); col++ {
			if r.disp.Pixel(row, col) {
				t.Fatalf("pixel (%d,%d) on after CLS", row, col)
			}
		}
	}
	if r.c.PC != 0x202 {
		t.Fatalf("PC got %#04x want 0x202", r.c.PC)
	}
}
