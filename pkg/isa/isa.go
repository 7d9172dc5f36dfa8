// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package isa

import (
	"fmt"
)

type UnknownOpcodeError struct {
	Word uint16
}

func (err *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("Unknown opcode %#04x", err.Word)
}

// Decode maps one 16-bit instruction word to its Instruction variant.
// Patterns are matched most-specific first: full-word opcodes, then the
// masked 5/8/9/E/F families, then the plain high-nibble families.
func Decode(word uint16) (Instruction, error) {
	x := Reg(word >> 8 & 0xF)
	y := Reg(word >> 4 & 0xF)
	nnn := Addr(word & 0xFFF)
	kk := byte(word)
	n := byte(word & 0xF)

	switch {
	case word == 0x00E0:
		return Cls{}, nil
	case word == 0x00EE:
		return Ret{}, nil
	case word&0xF000 == 0x0000:
		return Sys{nnn}, nil

	case word&0xF000 == 0x1000:
		return Jp{nnn}, nil
	case word&0xF000 == 0x2000:
		return Call{nnn}, nil
	case word&0xF000 == 0x3000:
		return SeByte{x, kk}, nil
	case word&0xF000 == 0x4000:
		return SneByte{x, kk}, nil
	case word&0xF00F == 0x5000:
		return SeReg{x, y}, nil
	case word&0xF000 == 0x6000:
		return LdByte{x, kk}, nil
	case word&0xF000 == 0x7000:
		return AddByte{x, kk}, nil

	case word&0xF00F == 0x8000:
		return LdReg{x, y}, nil
	case word&0xF00F == 0x8001:
		return Or{x, y}, nil
	case word&0xF00F == 0x8002:
		return And{x, y}, nil
	case word&0xF00F == 0x8003:
		return Xor{x, y}, nil
	case word&0xF00F == 0x8004:
		return AddReg{x, y}, nil
	case word&0xF00F == 0x8005:
		return Sub{x, y}, nil
	case word&0xF00F == 0x8006:
		return Shr{x}, nil
	case word&0xF00F == 0x8007:
		return Subn{x, y}, nil
	case word&0xF00F == 0x800E:
		return Shl{x}, nil

	case word&0xF00F == 0x9000:
		return SneReg{x, y}, nil
	case word&0xF000 == 0xA000:
		return LdI{nnn}, nil
	case word&0xF000 == 0xB000:
		return JpV0{nnn}, nil
	case word&0xF000 == 0xC000:
		return Rnd{x, kk}, nil
	case word&0xF000 == 0xD000:
		return Drw{x, y, n}, nil

	case word&0xF0FF == 0xE09E:
		return Skp{x}, nil
	case word&0xF0FF == 0xE0A1:
		return Sknp{x}, nil

	case word&0xF0FF == 0xF007:
		return LdFromDelay{x}, nil
	case word&0xF0FF == 0xF00A:
		return LdKey{x}, nil
	case word&0xF0FF == 0xF015:
		return LdDelay{x}, nil
	case word&0xF0FF == 0xF018:
		return LdSound{x}, nil
	case word&0xF0FF == 0xF01E:
		return AddI{x}, nil
	case word&0xF0FF == 0xF029:
		return LdFont{x}, nil
	case word&0xF0FF == 0xF033:
		return LdBcd{x}, nil
	case word&0xF0FF == 0xF055:
		return StoreRegs{x}, nil
	case word&0xF0FF == 0xF065:
		return LoadRegs{x}, nil

	default:
		return nil, &UnknownOpcodeError{word}
	}
}

// Encode is the inverse of Decode, producing the canonical instruction
// word for a variant. Operand fields beyond their bit width are masked.
func Encode(inst Instruction) uint16 {
	switch op := inst.(type) {
	case Cls:
		return 0x00E0
	case Ret:
		return 0x00EE
	case Sys:
		return uint16(op.Addr) & 0xFFF
	case Jp:
		return 0x1000 | uint16(op.Addr)&0xFFF
	case Call:
		return 0x2000 | uint16(op.Addr)&0xFFF
	case SeByte:
		return 0x3000 | regByte(op.X, op.Byte)
	case SneByte:
		return 0x4000 | regByte(op.X, op.Byte)
	case SeReg:
		return 0x5000 | regPair(op.X, op.Y)
	case LdByte:
		return 0x6000 | regByte(op.X, op.Byte)
	case AddByte:
		return 0x7000 | regByte(op.X, op.Byte)
	case LdReg:
		return 0x8000 | regPair(op.X, op.Y)
	case Or:
		return 0x8001 | regPair(op.X, op.Y)
	case And:
		return 0x8002 | regPair(op.X, op.Y)
	case Xor:
		return 0x8003 | regPair(op.X, op.Y)
	case AddReg:
		return 0x8004 | regPair(op.X, op.Y)
	case Sub:
		return 0x8005 | regPair(op.X, op.Y)
	case Shr:
		return 0x8006 | regPair(op.X, 0)
	case Subn:
		return 0x8007 | regPair(op.X, op.Y)
	case Shl:
		return 0x800E | regPair(op.X, 0)
	case SneReg:
		return 0x9000 | regPair(op.X, op.Y)
	case LdI:
		return 0xA000 | uint16(op.Addr)&0xFFF
	case JpV0:
		return 0xB000 | uint16(op.Addr)&0xFFF
	case Rnd:
		return 0xC000 | regByte(op.X, op.Byte)
	case Drw:
		return 0xD000 | regPair(op.X, op.Y) | uint16(op.N&0xF)
	case Skp:
		return 0xE09E | regByte(op.X, 0)
	case Sknp:
		return 0xE0A1 | regByte(op.X, 0)
	case LdFromDelay:
		return 0xF007 | regByte(op.X, 0)
	case LdKey:
		return 0xF00A | regByte(op.X, 0)
	case LdDelay:
		return 0xF015 | regByte(op.X, 0)
	case LdSound:
		return 0xF018 | regByte(op.X, 0)
	case AddI:
		return 0xF01E | regByte(op.X, 0)
	case LdFont:
		return 0xF029 | regByte(op.X, 0)
	case LdBcd:
		return 0xF033 | regByte(op.X, 0)
	case StoreRegs:
		return 0xF055 | regByte(op.X, 0)
	case LoadRegs:
		return 0xF065 | regByte(op.X, 0)
	default:
		panic(fmt.Sprintf("Unencodable instruction %T", inst))
	}
}

func regByte(x Reg, kk byte) uint16 {
	return uint16(x&0xF)<<8 | uint16(kk)
}

func regPair(x, y Reg) uint16 {
	return uint16(x&0xF)<<8 | uint16(y&0xF)<<4
}
