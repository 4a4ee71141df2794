package ui

import (
	"image/color"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/display"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/input"
	"github.com/hajimehoshi/ebiten/v2"
)

// KeyLayout selects how the host keyboard maps onto the 16-key keypad.
type KeyLayout int

const (
	// LayoutQWERTY maps the left block 1234/QWER/ASDF/ZXCV onto the
	// 4x4 keypad grid 123C/456D/789E/A0BF.
	LayoutQWERTY KeyLayout = iota
	// LayoutHex maps the keys 0-9 and A-F to the keypad key of the same name.
	LayoutHex
)

func (l KeyLayout) String() string {
	if l == LayoutHex {
		return "Hex (0-9, A-F)"
	}
	return "QWERTY (1234/QWER/ASDF/ZXCV)"
}

// Keymap returns the host key for each keypad key 0x0-0xF.
func Keymap(l KeyLayout) [input.NumKeys]ebiten.Key {
	if l == LayoutHex {
		return [input.NumKeys]ebiten.Key{
			ebiten.Key0, ebiten.Key1, ebiten.Key2, ebiten.Key3,
			ebiten.Key4, ebiten.Key5, ebiten.Key6, ebiten.Key7,
			ebiten.Key8, ebiten.Key9, ebiten.KeyA, ebiten.KeyB,
			ebiten.KeyC, ebiten.KeyD, ebiten.KeyE, ebiten.KeyF,
		}
	}
	return [input.NumKeys]ebiten.Key{
		0x0: ebiten.KeyX,
		0x1: ebiten.Key1, 0x2: ebiten.Key2, 0x3: ebiten.Key3, 0xC: ebiten.Key4,
		0x4: ebiten.KeyQ, 0x5: ebiten.KeyW, 0x6: ebiten.KeyE, 0xD: ebiten.KeyR,
		0x7: ebiten.KeyA, 0x8: ebiten.KeyS, 0x9: ebiten.KeyD, 0xE: ebiten.KeyF,
		0xA: ebiten.KeyZ, 0xB: ebiten.KeyC, 0xF: ebiten.KeyV,
	}
}

// readKeypad builds the keypad state from a key query.
func readKeypad(km [input.NumKeys]ebiten.Key, pressed func(ebiten.Key) bool) [input.NumKeys]bool {
	var keys [input.NumKeys]bool
	for i, k := range km {
		keys[i] = pressed(k)
	}
	return keys
}

type namedPalette struct {
	Name string
	display.Palette
}

var palettes = []namedPalette{
	{"Mono", display.DefaultPalette},
	{"Amber", display.Palette{On: color.RGBA{0xFF, 0xB0, 0x00, 0xFF}, Off: color.RGBA{0x1A, 0x10, 0x00, 0xFF}}},
	{"Green", display.Palette{On: color.RGBA{0x33, 0xFF, 0x66, 0xFF}, Off: color.RGBA{0x00, 0x1A, 0x08, 0xFF}}},
	{"LCD", display.Palette{On: color.RGBA{0x0F, 0x38, 0x0F, 0xFF}, Off: color.RGBA{0x9B, 0xBC, 0x0F, 0xFF}}},
}

// paletteIndex finds p in the preset list, or -1.
func paletteIndex(p display.Palette) int {
	for i, np := range palettes {
		if np.Palette == p {
			return i
		}
	}
	return -1
}
