package emu

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/input"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/memory"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newMachine(t *testing.T, cfg Config) *Machine {
	t.Helper()
	return New(cfg, log.NewTestLogger(t))
}

func TestMachine_LoadROMValidation(t *testing.T) {
	m := newMachine(t, Config{})

	assert.True(t, errors.Is(m.LoadROM(nil), ErrEmptyROM))
	err := m.LoadROM(make([]byte, memory.MaxROMSize+1))
	assert.True(t, errors.Is(err, ErrROMTooLarge))
	assert.False(t, m.HasROM())
	assert.True(t, errors.Is(m.Step(), ErrNoROM))

	assert.NoError(t, m.LoadROM(make([]byte, memory.MaxROMSize)))
	assert.True(t, m.HasROM())
}

func TestMachine_FailedLoadKeepsProgram(t *testing.T) {
	m := newMachine(t, Config{})
	assert.NoError(t, m.LoadROM([]byte{0x60, 0x2A}))
	assert.True(t, m.LoadROM(make([]byte, memory.MaxROMSize+1)) != nil)
	assert.NoError(t, m.Step())
	assert.Equal(t, byte(0x2A), m.CPUState().V[0])
}

func TestMachine_LoadROMFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "add.ch8")
	assert.NoError(t, os.WriteFile(path, []byte{0x60, 0x0A, 0x61, 0x05, 0x80, 0x14}, 0o644))

	m := newMachine(t, Config{})
	assert.NoError(t, m.LoadROMFromFile(path))
	assert.Equal(t, path, m.ROMPath())
	for i := 0; i < 3; i++ {
		assert.NoError(t, m.Step())
	}
	s := m.CPUState()
	assert.Equal(t, byte(15), s.V[0])
	assert.Equal(t, byte(0), s.V[0xF])
	assert.Equal(t, uint16(0x206), s.PC)

	assert.True(t, m.LoadROMFromFile(filepath.Join(dir, "missing.ch8")) != nil)
}

func TestMachine_StepFrameTicksTimersOnce(t *testing.T) {
	// LD V0, 5; LD DT, V0; then JP to self
	m := newMachine(t, Config{CyclesPerFrame: 4})
	assert.NoError(t, m.LoadROM([]byte{0x60, 0x05, 0xF0, 0x15, 0x12, 0x04}))
	assert.NoError(t, m.StepFrame())
	s := m.CPUState()
	assert.Equal(t, byte(4), s.DT)
	assert.Equal(t, uint64(4), s.Cycles)
	assert.Equal(t, uint64(1), m.Frames())
}

func TestMachine_HaltsOnStackUnderflow(t *testing.T) {
	m := newMachine(t, Config{})
	assert.NoError(t, m.LoadROM([]byte{0x00, 0xEE}))
	err := m.StepFrame()
	assert.True(t, errors.Is(err, cpu.ErrStackUnderflow))
	assert.True(t, errors.Is(m.Err(), cpu.ErrStackUnderflow))
	// stays halted
	assert.True(t, errors.Is(m.Step(), cpu.ErrStackUnderflow))

	m.Reset()
	assert.NoError(t, m.Err())
}

func TestMachine_WaitForKeyThroughKeypad(t *testing.T) {
	m := newMachine(t, Config{CyclesPerFrame: 1})
	assert.NoError(t, m.LoadROM([]byte{0xF2, 0x0A}))

	var keys [input.NumKeys]bool
	assert.NoError(t, m.StepFrame())
	keys[7] = true
	m.SetKeys(keys)
	assert.NoError(t, m.StepFrame())
	assert.Equal(t, uint16(0x200), m.CPUState().PC)

	m.SetKeys([input.NumKeys]bool{})
	assert.NoError(t, m.StepFrame())
	s := m.CPUState()
	assert.Equal(t, byte(7), s.V[2])
	assert.Equal(t, uint16(0x202), s.PC)
}

func TestMachine_WaitForKeyIgnoresEarlierRelease(t *testing.T) {
	// LD V0, K; LD V1, K; JP 204
	m := newMachine(t, Config{CyclesPerFrame: 1})
	assert.NoError(t, m.LoadROM([]byte{0xF0, 0x0A, 0xF1, 0x0A, 0x12, 0x04}))

	var keys [input.NumKeys]bool
	assert.NoError(t, m.StepFrame())
	keys[3], keys[7] = true, true
	m.SetKeys(keys)
	assert.NoError(t, m.StepFrame())
	keys[7] = false
	m.SetKeys(keys)
	assert.NoError(t, m.StepFrame())
	s := m.CPUState()
	assert.Equal(t, byte(7), s.V[0])
	assert.Equal(t, uint16(0x202), s.PC)

	// 3 is released before the second wait starts
	m.SetKeys([input.NumKeys]bool{})
	for i := 0; i < 3; i++ {
		assert.NoError(t, m.StepFrame())
	}
	s = m.CPUState()
	assert.True(t, s.Waiting)
	assert.Equal(t, uint16(0x202), s.PC)
	assert.Equal(t, byte(0), s.V[1])

	keys = [input.NumKeys]bool{}
	keys[5] = true
	m.SetKeys(keys)
	assert.NoError(t, m.StepFrame())
	m.SetKeys([input.NumKeys]bool{})
	assert.NoError(t, m.StepFrame())
	s = m.CPUState()
	assert.Equal(t, byte(5), s.V[1])
	assert.Equal(t, uint16(0x204), s.PC)
}

func TestValidateROM(t *testing.T) {
	assert.True(t, errors.Is(ValidateROM(nil), ErrEmptyROM))
	assert.True(t, errors.Is(ValidateROM(make([]byte, memory.MaxROMSize+1)), ErrROMTooLarge))
	assert.NoError(t, ValidateROM([]byte{0x12, 0x00}))
}

func TestMachine_DeterministicChecksum(t *testing.T) {
	// RND V0,3F; RND V1,1F; LD F,V2; DRW V0,V1,5; ADD V2,1; JP 200
	rom := []byte{0xC0, 0x3F, 0xC1, 0x1F, 0xF2, 0x29, 0xD0, 0x15, 0x72, 0x01, 0x12, 0x00}
	run := func() uint32 {
		m := newMachine(t, Config{Seed: 99})
		assert.NoError(t, m.LoadROM(rom))
		for i := 0; i < 20; i++ {
			assert.NoError(t, m.StepFrame())
		}
		return m.Checksum()
	}
	assert.Equal(t, run(), run())
}

func TestMachine_FramebufferUsesPalette(t *testing.T) {
	m := newMachine(t, Config{})
	assert.NoError(t, m.LoadROM([]byte{0xA0, 0x50, 0xD0, 0x11})) // top row of "0"
	assert.NoError(t, m.Step())
	assert.NoError(t, m.Step())
	fb := m.Framebuffer()
	assert.Equal(t, 64*32*4, len(fb))
	assert.Equal(t, byte(0xFF), fb[0])
	assert.Equal(t, byte(0x00), fb[4*4])
	assert.True(t, m.Display().Pixel(0, 3))
}

func TestMachine_ResetRestoresProgram(t *testing.T) {
	m := newMachine(t, Config{})
	assert.NoError(t, m.LoadROM([]byte{0xA2, 0x00, 0x60, 0x99, 0xF0, 0x55})) // overwrite own first byte
	for i := 0; i < 3; i++ {
		assert.NoError(t, m.Step())
	}
	assert.Equal(t, byte(0x99), m.ReadMemory(0x200))
	m.Reset()
	assert.Equal(t, byte(0xA2), m.ReadMemory(0x200))
	assert.Equal(t, cpu.KindLDI, m.CurrentInstruction().Kind)
}

func TestMachine_SpeedAndPalette(t *testing.T) {
	m := newMachine(t, Config{})
	assert.Equal(t, 10, m.CyclesPerFrame())
	m.SetCyclesPerFrame(0)
	assert.Equal(t, 1, m.CyclesPerFrame())

	p := m.Palette()
	p.Off.R = 0x20
	m.SetPalette(p)
	assert.NoError(t, m.LoadROM([]byte{0x12, 0x00}))
	assert.Equal(t, byte(0x20), m.Framebuffer()[0])
}
