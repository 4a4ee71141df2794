package emu

import "github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/display"

// Config contains settings that affect emulation behavior.
type Config struct {
	CyclesPerFrame int   // CPU cycles per 60 Hz frame (timer tick)
	Seed           int64 // RNG seed for Cxkk; 0 picks a time-based seed
	Trace          bool  // log CPU instructions
	Palette        display.Palette
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.CyclesPerFrame <= 0 {
		c.CyclesPerFrame = 10 // ~600 Hz
	}
	if c.Palette == (display.Palette{}) {
		c.Palette = display.DefaultPalette
	}
}
