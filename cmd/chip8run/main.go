package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/config"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/display"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/emu"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/input"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/memory"
	"github.com/bradleyjkemp/memviz"
)

// ring buffer entry for recent traces
type traceEntry struct {
	step int
	pc   uint16
	in   cpu.Instruction
	v    [cpu.NumRegisters]byte
	i    uint16
	sp   byte
	dt   byte
}

func (te traceEntry) String() string {
	var regs strings.Builder
	for n, v := range te.v {
		fmt.Fprintf(&regs, " V%X=%02X", n, v)
	}
	return fmt.Sprintf("%7d PC=%03X OP=%04X %-16s I=%03X SP=%X DT=%02X%s",
		te.step, te.pc, te.in.Op, te.in, te.i, te.sp, te.dt, regs.String())
}

func main() {
	romPath := flag.String("rom", "", "path to ROM (.ch8)")
	steps := flag.Int("steps", 1_000_000, "max CPU steps to run")
	startPC := flag.Int("pc", memory.ROMOffset, "initial PC value")
	cyclesPerTick := flag.Int("cycles", 10, "CPU steps per 60 Hz timer tick")
	seed := flag.Int64("seed", 1, "random seed for RND")
	keys := flag.String("keys", "", "comma separated hex keys held down for the whole run (e.g. 5,A)")
	trace := flag.Bool("trace", false, "print PC/opcodes with disassembly")
	stopOnLoop := flag.Bool("stopOnLoop", true, "stop when the program jumps to itself")
	timeout := flag.Duration("timeout", 0, "optional wall-clock timeout (e.g. 30s, 2m); 0 disables")
	traceOnFail := flag.Bool("traceOnFail", false, "when the CPU halts on an error, print a recent trace window")
	traceWindow := flag.Int("traceWindow", 200, "number of recent instructions to include in 'traceOnFail' dump")
	screen := flag.Bool("screen", true, "print the final screen as text")
	memvizOut := flag.String("memviz", "", "write a graphviz dot file of the final CPU state")
	debug := flag.Bool("debug", false, "enable debug logging")
	quiet := flag.Bool("q", false, "only log errors")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}
	rom, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("read rom: %v", err)
	}
	if err := emu.ValidateROM(rom); err != nil {
		log.Fatalf("load rom: %v", err)
	}
	held, err := parseKeys(*keys)
	if err != nil {
		log.Fatalf("parse -keys: %v", err)
	}

	mem := memory.New()
	mem.LoadROM(rom)
	disp := display.New(display.Width, display.Height)
	pad := input.New()
	pad.SetKeys(held)

	c := cpu.New(mem, disp, pad)
	c.SetLogger(config.CreateLogger(*debug, *quiet))
	c.SetSeed(*seed)
	c.SetPC(uint16(*startPC))
	if *cyclesPerTick < 1 {
		*cyclesPerTick = 1
	}

	start := time.Now()
	var deadline time.Time
	if *timeout > 0 {
		deadline = start.Add(*timeout)
	}

	window := *traceWindow
	if window < 1 {
		window = 1
	}
	ring := make([]traceEntry, window)
	ringIdx := 0
	ringFill := 0

	done := func(n int) {
		s := c.State()
		fmt.Printf("\nDone: steps=%d unknown=%d elapsed=%s\n", n, s.Unknown, time.Since(start).Truncate(time.Millisecond))
		fmt.Println(s)
		if *screen {
			fmt.Print(display.ASCII(disp))
		}
		if *memvizOut != "" {
			if err := writeMemviz(*memvizOut, s); err != nil {
				log.Printf("memviz: %v", err)
			} else {
				fmt.Printf("wrote %s\n", *memvizOut)
			}
		}
	}

	for i := 0; i < *steps; i++ {
		pc := c.PC
		in := cpu.Decode(mem.Fetch(pc))
		if *stopOnLoop && !c.Waiting() && in.Kind == cpu.KindJP && in.NNN == pc {
			fmt.Printf("\nDetected self-jump at %03X.\n", pc)
			done(i)
			return
		}

		err := c.Step()
		if *trace || *traceOnFail {
			te := traceEntry{step: i, pc: pc, in: in, v: c.V, i: c.I, sp: c.SP, dt: c.DT}
			if *trace {
				fmt.Println(te)
			}
			if *traceOnFail {
				ring[ringIdx] = te
				ringIdx = (ringIdx + 1) % window
				if ringFill < window {
					ringFill++
				}
			}
		}
		if err != nil {
			fmt.Printf("\nCPU halted: %v\n", err)
			if errors.Is(err, cpu.ErrStackOverflow) || errors.Is(err, cpu.ErrStackUnderflow) {
				fmt.Printf("Stack depth at halt: %d\n", c.SP)
			}
			if *traceOnFail && ringFill > 0 {
				fmt.Printf("\n--- recent trace (last %d instructions) ---\n", ringFill)
				// print in chronological order
				startIdx := (ringIdx - ringFill + window) % window
				for j := 0; j < ringFill; j++ {
					fmt.Println(ring[(startIdx+j)%window])
				}
				fmt.Printf("--- end trace ---\n")
			}
			done(i + 1)
			os.Exit(1)
		}
		if (i+1)%*cyclesPerTick == 0 {
			c.TickTimers()
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			fmt.Printf("\nTimeout after %s.\n", time.Since(start).Truncate(time.Millisecond))
			done(i + 1)
			os.Exit(2)
		}
	}
	done(*steps)
}

// parseKeys turns "5,a,F" into a keypad state.
func parseKeys(s string) ([input.NumKeys]bool, error) {
	var keys [input.NumKeys]bool
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, err := strconv.ParseUint(part, 16, 8)
		if err != nil || k >= input.NumKeys {
			return keys, fmt.Errorf("invalid key %q", part)
		}
		keys[k] = true
	}
	return keys, nil
}

func writeMemviz(path string, s cpu.State) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	memviz.Map(f, &s)
	return nil
}
