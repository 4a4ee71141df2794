package cpu

import "fmt"

// Kind identifies a decoded instruction.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindCLS          // 00E0
	KindRET          // 00EE
	KindJP           // 1nnn
	KindCALL         // 2nnn
	KindSEByte       // 3xkk
	KindSNEByte      // 4xkk
	KindSEReg        // 5xy0
	KindLDByte       // 6xkk
	KindADDByte      // 7xkk
	KindLDReg        // 8xy0
	KindOR           // 8xy1
	KindAND          // 8xy2
	KindXOR          // 8xy3
	KindADDReg       // 8xy4
	KindSUB          // 8xy5
	KindSHR          // 8xy6
	KindSUBN         // 8xy7
	KindSHL          // 8xyE
	KindSNEReg       // 9xy0
	KindLDI          // Annn
	KindJPV0         // Bnnn
	KindRND          // Cxkk
	KindDRW          // Dxyn
	KindSKP          // Ex9E
	KindSKNP         // ExA1
	KindLDVxDT       // Fx07
	KindLDVxK        // Fx0A
	KindLDDTVx       // Fx15
	KindLDSTVx       // Fx18
	KindADDI         // Fx1E
	KindLDF          // Fx29
	KindLDB          // Fx33
	KindLDIVx        // Fx55
	KindLDVxI        // Fx65
)

var kindNames = [...]string{
	KindUnknown: "???",
	KindCLS:     "CLS",
	KindRET:     "RET",
	KindJP:      "JP",
	KindCALL:    "CALL",
	KindSEByte:  "SE",
	KindSNEByte: "SNE",
	KindSEReg:   "SE",
	KindLDByte:  "LD",
	KindADDByte: "ADD",
	KindLDReg:   "LD",
	KindOR:      "OR",
	KindAND:     "AND",
	KindXOR:     "XOR",
	KindADDReg:  "ADD",
	KindSUB:     "SUB",
	KindSHR:     "SHR",
	KindSUBN:    "SUBN",
	KindSHL:     "SHL",
	KindSNEReg:  "SNE",
	KindLDI:     "LD",
	KindJPV0:    "JP",
	KindRND:     "RND",
	KindDRW:     "DRW",
	KindSKP:     "SKP",
	KindSKNP:    "SKNP",
	KindLDVxDT:  "LD",
	KindLDVxK:   "LD",
	KindLDDTVx:  "LD",
	KindLDSTVx:  "LD",
	KindADDI:    "ADD",
	KindLDF:     "LD",
	KindLDB:     "LD",
	KindLDIVx:   "LD",
	KindLDVxI:   "LD",
}

// String returns the assembler mnemonic.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindUnknown]
}

// Instruction is one decoded opcode with all operand fields extracted.
// Fields not used by Kind are still filled in.
type Instruction struct {
	Kind Kind
	Op   uint16
	X, Y byte   // register indices, bits 8-11 and 4-7
	N    byte   // bits 0-3
	KK   byte   // bits 0-7
	NNN  uint16 // bits 0-11
}

// Decode splits op into its fields and classifies it. Opcodes outside the
// standard set decode to KindUnknown.
func Decode(op uint16) Instruction {
	in := Instruction{
		Op:  op,
		X:   byte(op>>8) & 0x0F,
		Y:   byte(op>>4) & 0x0F,
		N:   byte(op) & 0x0F,
		KK:  byte(op),
		NNN: op & 0x0FFF,
	}
	in.Kind = classify(in)
	return in
}

func classify(in Instruction) Kind {
	switch in.Op >> 12 {
	case 0x0:
		switch in.Op {
		case 0x00E0:
			return KindCLS
		case 0x00EE:
			return KindRET
		}
	case 0x1:
		return KindJP
	case 0x2:
		return KindCALL
	case 0x3:
		return KindSEByte
	case 0x4:
		return KindSNEByte
	case 0x5:
		if in.N == 0 {
			return KindSEReg
		}
	case 0x6:
		return KindLDByte
	case 0x7:
		return KindADDByte
	case 0x8:
		switch in.N {
		case 0x0:
			return KindLDReg
		case 0x1:
			return KindOR
		case 0x2:
			return KindAND
		case 0x3:
			return KindXOR
		case 0x4:
			return KindADDReg
		case 0x5:
			return KindSUB
		case 0x6:
			return KindSHR
		case 0x7:
			return KindSUBN
		case 0xE:
			return KindSHL
		}
	case 0x9:
		if in.N == 0 {
			return KindSNEReg
		}
	case 0xA:
		return KindLDI
	case 0xB:
		return KindJPV0
	case 0xC:
		return KindRND
	case 0xD:
		return KindDRW
	case 0xE:
		switch in.KK {
		case 0x9E:
			return KindSKP
		case 0xA1:
			return KindSKNP
		}
	case 0xF:
		switch in.KK {
		case 0x07:
			return KindLDVxDT
		case 0x0A:
			return KindLDVxK
		case 0x15:
			return KindLDDTVx
		case 0x18:
			return KindLDSTVx
		case 0x1E:
			return KindADDI
		case 0x29:
			return KindLDF
		case 0x33:
			return KindLDB
		case 0x55:
			return KindLDIVx
		case 0x65:
			return KindLDVxI
		}
	}
	return KindUnknown
}

// String formats the instruction as assembler text, e.g. "LD V1, $05".
func (in Instruction) String() string {
	name := in.Kind.String()
	var params string
	switch in.Kind {
	case KindUnknown:
		return fmt.Sprintf("DW $%04X", in.Op)
	case KindCLS, KindRET:
		return name
	case KindJP, KindCALL:
		params = fmt.Sprintf("$%03X", in.NNN)
	case KindJPV0:
		params = fmt.Sprintf("V0, $%03X", in.NNN)
	case KindSEByte, KindSNEByte, KindLDByte, KindADDByte, KindRND:
		params = fmt.Sprintf("V%X, $%02X", in.X, in.KK)
	case KindSEReg, KindSNEReg, KindLDReg, KindOR, KindAND, KindXOR, KindADDReg, KindSUB, KindSUBN:
		params = fmt.Sprintf("V%X, V%X", in.X, in.Y)
	case KindSHR, KindSHL:
		params = fmt.Sprintf("V%X", in.X)
	case KindLDI:
		params = fmt.Sprintf("I, $%03X", in.NNN)
	case KindDRW:
		params = fmt.Sprintf("V%X, V%X, $%X", in.X, in.Y, in.N)
	case KindSKP, KindSKNP:
		params = fmt.Sprintf("V%X", in.X)
	case KindLDVxDT:
		params = fmt.Sprintf("V%X, DT", in.X)
	case KindLDVxK:
		params = fmt.Sprintf("V%X, K", in.X)
	case KindLDDTVx:
		params = fmt.Sprintf("DT, V%X", in.X)
	case KindLDSTVx:
		params = fmt.Sprintf("ST, V%X", in.X)
	case KindADDI:
		params = fmt.Sprintf("I, V%X", in.X)
	case KindLDF:
		params = fmt.Sprintf("F, V%X", in.X)
	case KindLDB:
		params = fmt.Sprintf("B, V%X", in.X)
	case KindLDIVx:
		params = fmt.Sprintf("[I], V%X", in.X)
	case KindLDVxI:
		params = fmt.Sprintf("V%X, [I]", in.X)
	}
	return name + " " + params
}

// SetsPC reports whether executing the instruction replaces the program
// counter, suppressing the normal advance.
func (in Instruction) SetsPC() bool {
	switch in.Kind {
	case KindJP, KindCALL, KindRET, KindJPV0:
		return true
	}
	return false
}
