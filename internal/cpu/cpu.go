package cpu

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/display"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/memory"
	"github.com/retroenv/retrogolib/log"
)

const (
	NumRegisters    = 16
	StackSize       = 16
	InstructionSize = 2
	flagReg         = 0xF
)

var (
	ErrStackOverflow  = errors.New("call stack overflow")
	ErrStackUnderflow = errors.New("return with empty call stack")
)

// Keypad is the input capability the CPU consumes.
type Keypad interface {
	// IsKeyDown reports whether logical key 0-F is held.
	IsKeyDown(key byte) bool
	// KeyReleased returns a key that went from held to released since the
	// previous call.
	KeyReleased() (key byte, ok bool)
}

// CPU implements the CHIP-8 interpreter core.
type CPU struct {
	V     [NumRegisters]byte
	I     uint16
	PC    uint16
	SP    byte // number of entries on the stack
	Stack [StackSize]uint16

	DT byte // delay timer
	ST byte // sound timer

	// Fx0A sub-state: while waiting, Step only polls the keypad
	waiting bool
	waitReg byte

	cycles  uint64
	unknown uint64
	trace   bool

	mem    *memory.Memory
	disp   *display.Display
	keys   Keypad
	rng    *rand.Rand
	logger *log.Logger
}

// New creates a CPU with PC at the ROM entry point. The memory, display and
// keypad are shared with the caller for the CPU's lifetime.
func New(mem *memory.Memory, disp *display.Display, keys Keypad) *CPU {
	return &CPU{
		PC:     memory.ROMOffset,
		mem:    mem,
		disp:   disp,
		keys:   keys,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: log.NewWithConfig(log.DefaultConfig()),
	}
}

// SetPC allows tests or tools to set the program counter.
func (c *CPU) SetPC(pc uint16) { c.PC = pc }

// SetSeed makes Cxkk deterministic.
func (c *CPU) SetSeed(seed int64) { c.rng = rand.New(rand.NewSource(seed)) }

func (c *CPU) SetLogger(l *log.Logger) { c.logger = l }

// SetTrace logs every executed instruction at debug level.
func (c *CPU) SetTrace(on bool) { c.trace = on }

// Reset clears registers, stack, timers and the wait state.
func (c *CPU) Reset() {
	c.V = [NumRegisters]byte{}
	c.I = 0
	c.PC = memory.ROMOffset
	c.SP = 0
	c.Stack = [StackSize]uint16{}
	c.DT, c.ST = 0, 0
	c.waiting, c.waitReg = false, 0
	c.cycles, c.unknown = 0, 0
}

// Waiting reports whether the CPU is blocked on Fx0A.
func (c *CPU) Waiting() bool { return c.waiting }

// Step executes one cycle. While blocked on Fx0A it only polls the keypad.
// A stack overflow or underflow is returned as an error and leaves the
// CPU state untouched, including the cycle count.
func (c *CPU) Step() error {
	if c.waiting {
		c.cycles++
		c.pollKey()
		return nil
	}

	in := Decode(c.mem.Fetch(c.PC))
	if c.trace {
		c.logger.Debug("exec",
			log.String("pc", fmt.Sprintf("%03X", c.PC)),
			log.String("op", fmt.Sprintf("%04X", in.Op)),
			log.String("ins", in.String()))
	}

	advance, err := c.execute(in)
	if err != nil {
		return fmt.Errorf("%w at pc=%03X", err, c.PC)
	}
	c.cycles++
	if advance {
		c.PC += InstructionSize
	}
	return nil
}

// TickTimers decrements the delay and sound timers, saturating at zero.
// Drivers call it at 60 Hz.
func (c *CPU) TickTimers() {
	if c.DT > 0 {
		c.DT--
	}
	if c.ST > 0 {
		c.ST--
	}
}

// SoundActive reports whether the sound timer is running.
func (c *CPU) SoundActive() bool { return c.ST > 0 }

func (c *CPU) pollKey() {
	key, ok := c.keys.KeyReleased()
	if !ok {
		return
	}
	c.V[c.waitReg] = key
	c.waiting = false
	c.PC += InstructionSize
}

func (c *CPU) push(addr uint16) error {
	if int(c.SP) >= StackSize {
		return ErrStackOverflow
	}
	c.Stack[c.SP] = addr
	c.SP++
	return nil
}

func (c *CPU) pop() (uint16, error) {
	if c.SP == 0 {
		return 0, ErrStackUnderflow
	}
	c.SP--
	return c.Stack[c.SP], nil
}

// State is a value snapshot of the CPU registers for tracing and tools.
type State struct {
	V       [NumRegisters]byte
	I       uint16
	PC      uint16
	SP      byte
	Stack   [StackSize]uint16
	DT, ST  byte
	Waiting bool
	Cycles  uint64
	Unknown uint64 // unimplemented instructions executed
}

func (c *CPU) State() State {
	return State{
		V:       c.V,
		I:       c.I,
		PC:      c.PC,
		SP:      c.SP,
		Stack:   c.Stack,
		DT:      c.DT,
		ST:      c.ST,
		Waiting: c.waiting,
		Cycles:  c.cycles,
		Unknown: c.unknown,
	}
}

func (s State) String() string {
	return fmt.Sprintf("PC=%03X I=%03X SP=%X DT=%02X ST=%02X V=[% X]", s.PC, s.I, s.SP, s.DT, s.ST, s.V[:])
}
