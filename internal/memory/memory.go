package memory

const (
	Size       = 4096
	AddrMask   = Size - 1 // 12-bit address space
	ROMOffset  = 0x200
	MaxROMSize = Size - ROMOffset

	FontOffset = 0x50
	FontLength = 5 // bytes per glyph
)

// font holds the 4x5 hexadecimal glyphs 0-F.
var font = [16 * FontLength]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the flat 4 KiB address space: font at FontOffset, program at ROMOffset.
// Every address is masked to 12 bits, so out-of-range computations wrap
// around inside the store.
type Memory struct {
	ram [Size]byte
}

// New returns memory with the font table loaded.
func New() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// Reset restores the power-on image: everything zero except the font.
func (m *Memory) Reset() {
	m.ram = [Size]byte{}
	copy(m.ram[FontOffset:], font[:])
}

// LoadROM copies rom verbatim to ROMOffset. Length is not validated here;
// bytes beyond the end of memory are dropped.
func (m *Memory) LoadROM(rom []byte) {
	copy(m.ram[ROMOffset:], rom)
}

func (m *Memory) Read(addr uint16) byte {
	return m.ram[addr&AddrMask]
}

func (m *Memory) Write(addr uint16, value byte) {
	m.ram[addr&AddrMask] = value
}

// Fetch returns the big-endian instruction word at pc.
func (m *Memory) Fetch(pc uint16) uint16 {
	return uint16(m.Read(pc))<<8 | uint16(m.Read(pc+1))
}

// Font returns a copy of the built-in glyph table.
func Font() []byte {
	out := make([]byte, len(font))
	copy(out, font[:])
	return out
}

// GlyphAddr returns the address of the glyph for hex digit d.
func GlyphAddr(d byte) uint16 {
	return FontOffset + uint16(d)*FontLength
}
