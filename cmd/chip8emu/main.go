package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/config"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/display"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/emu"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/ui"
)

type CLIFlags struct {
	ROMPath string
	ROMsDir string
	Scale   int
	Title   string
	Cycles  int
	Seed    int64
	HexKeys bool
	Trace   bool
	Debug   bool
	Quiet   bool

	// headless
	Headless bool
	Frames   int
	PNGOut   string
	Expect   string // expected screen CRC32 hex (e.g., "1a2b3c4d")

	Statsview string // address for the runtime stats page; empty disables
}

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.StringVar(&f.ROMPath, "rom", "", "path to ROM (.ch8)")
	flag.StringVar(&f.ROMsDir, "roms", "roms", "directory for the ROM browser")
	flag.IntVar(&f.Scale, "scale", 10, "window scale")
	flag.StringVar(&f.Title, "title", "chip8emu", "window title")
	flag.IntVar(&f.Cycles, "cycles", 10, "CPU cycles per 60 Hz frame")
	flag.Int64Var(&f.Seed, "seed", 0, "random seed for RND (0 = time based)")
	flag.BoolVar(&f.HexKeys, "hexkeys", false, "map keys 0-9/A-F directly instead of the 1234/QWER/ASDF/ZXCV block")
	flag.BoolVar(&f.Trace, "trace", false, "CPU trace log (needs -debug)")
	flag.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	flag.BoolVar(&f.Quiet, "q", false, "only log errors")

	// headless options
	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 300, "frames to run in headless mode")
	flag.StringVar(&f.PNGOut, "outpng", "", "write last screen to PNG at path")
	flag.StringVar(&f.Expect, "expect", "", "assert screen CRC32 (hex)")

	flag.StringVar(&f.Statsview, "statsview", "", "serve runtime stats at this address (e.g. localhost:12600)")
	flag.Parse()
	return f
}

func runHeadless(m *emu.Machine, frames int, pngPath, expectCRC string) error {
	if frames <= 0 {
		frames = 1
	}

	start := time.Now()
	ran := 0
	for ; ran < frames; ran++ {
		if err := m.StepFrame(); err != nil {
			return fmt.Errorf("frame %d: %w", ran, err)
		}
	}
	dur := time.Since(start)

	crc := m.Checksum()
	fps := float64(ran) / dur.Seconds()

	log.Printf("headless: frames=%d elapsed=%s fps=%.2f fb_crc32=%08x",
		ran, dur.Truncate(time.Millisecond), fps, crc)

	if pngPath != "" {
		if err := saveFramePNG(m, pngPath); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.Printf("wrote %s", pngPath)
	}

	if expectCRC != "" {
		// normalize expected hex (allow with/without 0x, upper/lowercase)
		want := strings.TrimPrefix(strings.ToLower(expectCRC), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

func saveFramePNG(m *emu.Machine, path string) error {
	img := display.Image(m.Display(), m.Palette(), 1)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func main() {
	f := parseFlags()
	logger := config.CreateLogger(f.Debug, f.Quiet)

	if f.Statsview != "" {
		launchStatsview(os.Stdout, f.Statsview)
	}

	m := emu.New(emu.Config{
		CyclesPerFrame: f.Cycles,
		Seed:           f.Seed,
		Trace:          f.Trace,
	}, logger)
	if f.ROMPath != "" {
		// prefer absolute path so the window title and browser agree
		path := f.ROMPath
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if err := m.LoadROMFromFile(path); err != nil {
			log.Fatalf("load ROM: %v", err)
		}
	}

	if f.Headless {
		if !m.HasROM() {
			log.Fatal("-rom is required in headless mode")
		}
		if err := runHeadless(m, f.Frames, f.PNGOut, f.Expect); err != nil {
			log.Fatal(err)
		}
		return
	}

	uiCfg := ui.Config{
		Title:    f.Title,
		Scale:    f.Scale,
		ROMsDir:  f.ROMsDir,
		ShowHelp: true,
	}
	if f.HexKeys {
		uiCfg.Layout = ui.LayoutHex
	}
	app := ui.NewApp(uiCfg, m)
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
