package cpu

import (
	"fmt"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/memory"
	"github.com/retroenv/retrogolib/log"
)

// spriteWidth is fixed: one byte per sprite row.
const spriteWidth = 8

// execute runs in against the machine state. It reports whether the program
// counter should advance to the next instruction afterwards.
func (c *CPU) execute(in Instruction) (bool, error) {
	x, y := in.X, in.Y

	switch in.Kind {
	case KindCLS:
		c.disp.Clear()

	case KindRET:
		addr, err := c.pop()
		if err != nil {
			return false, err
		}
		// the stack holds the address of the CALL itself
		c.PC = addr + InstructionSize
		return false, nil

	case KindJP:
		c.PC = in.NNN
		return false, nil

	case KindCALL:
		if err := c.push(c.PC); err != nil {
			return false, err
		}
		c.PC = in.NNN
		return false, nil

	case KindSEByte:
		c.skipIf(c.V[x] == in.KK)
	case KindSNEByte:
		c.skipIf(c.V[x] != in.KK)
	case KindSEReg:
		c.skipIf(c.V[x] == c.V[y])
	case KindSNEReg:
		c.skipIf(c.V[x] != c.V[y])

	case KindLDByte:
		c.V[x] = in.KK
	case KindADDByte:
		c.V[x] += in.KK

	case KindLDReg:
		c.V[x] = c.V[y]
	case KindOR:
		c.V[x] |= c.V[y]
	case KindAND:
		c.V[x] &= c.V[y]
	case KindXOR:
		c.V[x] ^= c.V[y]

	case KindADDReg:
		sum := uint16(c.V[x]) + uint16(c.V[y])
		c.V[x] = byte(sum)
		c.V[flagReg] = boolToByte(sum > 0xFF)

	case KindSUB:
		noBorrow := c.V[y] <= c.V[x]
		c.V[x] -= c.V[y]
		c.V[flagReg] = boolToByte(noBorrow)

	case KindSUBN:
		noBorrow := c.V[x] <= c.V[y]
		c.V[x] = c.V[y] - c.V[x]
		c.V[flagReg] = boolToByte(noBorrow)

	case KindSHR:
		c.V[x] = c.V[y]
		out := c.V[x] & 0x01
		c.V[x] >>= 1
		c.V[flagReg] = out

	case KindSHL:
		c.V[x] = c.V[y]
		out := c.V[x] >> 7
		c.V[x] <<= 1
		c.V[flagReg] = out

	case KindLDI:
		c.I = in.NNN

	case KindJPV0:
		c.PC = (uint16(c.V[0]) + in.NNN) & memory.AddrMask
		return false, nil

	case KindRND:
		c.V[x] = byte(c.rng.Intn(256)) & in.KK

	case KindDRW:
		c.draw(x, y, in.N)

	case KindSKP:
		c.skipIf(c.keys.IsKeyDown(c.V[x]))
	case KindSKNP:
		c.skipIf(!c.keys.IsKeyDown(c.V[x]))

	case KindLDVxDT:
		c.V[x] = c.DT
	case KindLDVxK:
		c.waiting = true
		c.waitReg = x
		c.pollKey()
		return false, nil
	case KindLDDTVx:
		c.DT = c.V[x]
	case KindLDSTVx:
		c.ST = c.V[x]

	case KindADDI:
		c.I += uint16(c.V[x])
	case KindLDF:
		c.I = memory.GlyphAddr(c.V[x])
	case KindLDB:
		v := c.V[x]
		c.mem.Write(c.I, v/100)
		c.mem.Write(c.I+1, (v/10)%10)
		c.mem.Write(c.I+2, v%10)

	case KindLDIVx:
		for r := byte(0); r <= x; r++ {
			c.mem.Write(c.I, c.V[r])
			c.I++
		}
	case KindLDVxI:
		for r := byte(0); r <= x; r++ {
			c.V[r] = c.mem.Read(c.I)
			c.I++
		}

	default:
		c.unknown++
		c.logger.Warn("unimplemented instruction",
			log.String("pc", fmt.Sprintf("%03X", c.PC)),
			log.String("opcode", fmt.Sprintf("%04X", in.Op)))
	}
	return true, nil
}

func (c *CPU) skipIf(cond bool) {
	if cond {
		c.PC += InstructionSize
	}
}

// draw XORs an n-row sprite from memory at I onto the display at
// (Vx mod width, Vy mod height). VF is set if any lit pixel is turned off.
// Rows and columns running past the edge are clipped by the display.
func (c *CPU) draw(xReg, yReg, n byte) {
	col0 := int(c.V[xReg]) % c.disp.Width()
	row0 := int(c.V[yReg]) % c.disp.Height()

	c.V[flagReg] = 0
	for r := 0; r < int(n); r++ {
		sprite := c.mem.Read(c.I + uint16(r))
		for b := 0; b < spriteWidth; b++ {
			if sprite&(0x80>>b) == 0 {
				continue
			}
			row, col := row0+r, col0+b
			if c.disp.Pixel(row, col) {
				c.V[flagReg] = 1
			}
			c.disp.FlipPixel(row, col)
		}
	}
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
