package ui

import "image/color"

// Config contains window/input related settings.
type Config struct {
	Title    string     // window title
	Scale    int        // integer upscaling factor
	ROMsDir  string     // directory to browse for ROMs
	OnColor  color.RGBA // lit pixel color
	OffColor color.RGBA // background color
	Layout   KeyLayout  // keyboard to keypad mapping
	ShowHelp bool       // show the key hint line on start
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "chip8emu"
	}
	if c.Scale <= 0 {
		c.Scale = 10
	}
	if c.ROMsDir == "" {
		c.ROMsDir = "roms"
	}
	if c.OnColor == (color.RGBA{}) && c.OffColor == (color.RGBA{}) {
		c.OnColor = palettes[0].On
		c.OffColor = palettes[0].Off
	}
}
