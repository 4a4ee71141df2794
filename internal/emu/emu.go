package emu

import (
	"errors"
	"fmt"
	"os"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/display"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/input"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/memory"
	"github.com/retroenv/retrogolib/log"
)

var (
	ErrNoROM       = errors.New("no ROM loaded")
	ErrEmptyROM    = errors.New("ROM is empty")
	ErrROMTooLarge = errors.New("ROM does not fit into memory")
)

// Machine wires memory, display, keypad and CPU together and drives them
// frame by frame.
type Machine struct {
	cfg    Config
	logger *log.Logger

	// core components
	mem  *memory.Memory
	disp *display.Display
	keys *input.Keypad
	cpu  *cpu.CPU

	fb      []byte // RGBA 64x32*4
	rom     []byte
	romPath string
	frames  uint64
	err     error // set when the CPU halted on a fatal condition
}

// New builds a machine with no program loaded. A nil logger selects the
// default configuration.
func New(cfg Config, logger *log.Logger) *Machine {
	cfg.Defaults()
	if logger == nil {
		logger = log.NewWithConfig(log.DefaultConfig())
	}
	mem := memory.New()
	disp := display.New(display.Width, display.Height)
	keys := input.New()
	c := cpu.New(mem, disp, keys)
	c.SetLogger(logger)
	c.SetTrace(cfg.Trace)
	if cfg.Seed != 0 {
		c.SetSeed(cfg.Seed)
	}
	return &Machine{
		cfg:    cfg,
		logger: logger,
		mem:    mem,
		disp:   disp,
		keys:   keys,
		cpu:    c,
		fb:     make([]byte, display.Width*display.Height*4),
	}
}

// ValidateROM checks that rom is a loadable program.
func ValidateROM(rom []byte) error {
	switch {
	case len(rom) == 0:
		return ErrEmptyROM
	case len(rom) > memory.MaxROMSize:
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrROMTooLarge, len(rom), memory.MaxROMSize)
	}
	return nil
}

// LoadROM validates the program size and restarts the machine with it.
// On error the machine is left as it was.
func (m *Machine) LoadROM(rom []byte) error {
	if err := ValidateROM(rom); err != nil {
		return err
	}
	m.rom = make([]byte, len(rom))
	copy(m.rom, rom)
	m.romPath = ""
	m.Reset()
	m.logger.Debug("ROM loaded", log.Int("size", len(rom)))
	return nil
}

// LoadROMFromFile replaces the current program with a ROM from disk.
func (m *Machine) LoadROMFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}
	if err := m.LoadROM(data); err != nil {
		return fmt.Errorf("loading ROM '%s': %w", path, err)
	}
	m.romPath = path
	return nil
}

// ROMPath returns the currently loaded ROM file path, if any.
func (m *Machine) ROMPath() string { return m.romPath }

// HasROM reports whether a program is loaded.
func (m *Machine) HasROM() bool { return len(m.rom) > 0 }

// Reset restarts the loaded program from a power-on state.
func (m *Machine) Reset() {
	m.mem.Reset()
	m.mem.LoadROM(m.rom)
	m.disp.Clear()
	m.keys.Reset()
	m.cpu.Reset()
	if m.cfg.Seed != 0 {
		m.cpu.SetSeed(m.cfg.Seed)
	}
	m.frames = 0
	m.err = nil
}

// Step executes one CPU cycle. After a fatal CPU error the machine stays
// halted and keeps returning that error until Reset or a new ROM.
func (m *Machine) Step() error {
	if m.err != nil {
		return m.err
	}
	if !m.HasROM() {
		return ErrNoROM
	}
	if err := m.cpu.Step(); err != nil {
		m.err = err
		m.logger.Warn("CPU halted", log.Err(err))
		return err
	}
	return nil
}

// TickTimers advances the delay and sound timers by one 60 Hz tick.
func (m *Machine) TickTimers() { m.cpu.TickTimers() }

// StepFrame runs CyclesPerFrame cycles followed by one timer tick.
func (m *Machine) StepFrame() error {
	for i := 0; i < m.cfg.CyclesPerFrame; i++ {
		if err := m.Step(); err != nil {
			return err
		}
	}
	m.TickTimers()
	m.frames++
	return nil
}

// CyclesPerFrame returns the number of CPU cycles run per frame.
func (m *Machine) CyclesPerFrame() int { return m.cfg.CyclesPerFrame }

// SetCyclesPerFrame changes the emulation speed. Values below 1 are clamped.
func (m *Machine) SetCyclesPerFrame(n int) {
	if n < 1 {
		n = 1
	}
	m.cfg.CyclesPerFrame = n
}

// SetPalette changes the colors used by Framebuffer.
func (m *Machine) SetPalette(p display.Palette) { m.cfg.Palette = p }

// Palette returns the colors used by Framebuffer.
func (m *Machine) Palette() display.Palette { return m.cfg.Palette }

// Err returns the error that halted the CPU, if any.
func (m *Machine) Err() error { return m.err }

// Frames returns the number of frames run since the last reset.
func (m *Machine) Frames() uint64 { return m.frames }

// Display exposes the framebuffer read-only.
func (m *Machine) Display() display.View { return m.disp }

// Framebuffer renders the display as RGBA using the configured palette.
func (m *Machine) Framebuffer() []byte {
	display.RGBA(m.disp, m.fb, m.cfg.Palette)
	return m.fb
}

// Checksum is the CRC32 of the current screen contents.
func (m *Machine) Checksum() uint32 { return display.Checksum(m.disp) }

// SetKeys updates the held state of the 16 keys.
func (m *Machine) SetKeys(keys [input.NumKeys]bool) { m.keys.SetKeys(keys) }

// SoundActive reports whether the sound timer is running.
func (m *Machine) SoundActive() bool { return m.cpu.SoundActive() }

// CPUState returns a snapshot of the CPU registers.
func (m *Machine) CPUState() cpu.State { return m.cpu.State() }

// CurrentInstruction decodes the instruction at the program counter without
// executing it.
func (m *Machine) CurrentInstruction() cpu.Instruction {
	return cpu.Decode(m.mem.Fetch(m.cpu.PC))
}

// ReadMemory reads a byte of machine memory for tools.
func (m *Machine) ReadMemory(addr uint16) byte { return m.mem.Read(addr) }
