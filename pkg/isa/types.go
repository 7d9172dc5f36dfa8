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

// Reg indexes one of the sixteen V registers. Any 4-bit value is a valid
// index, including VF.
type Reg uint8

// Addr is a 12-bit address operand.
type Addr uint16

// Instruction is the decoded form of one 16-bit instruction word. Each
// operation has its own variant carrying exactly the operands it accepts.
type Instruction interface {
	fmt.Stringer
	instruction()
}

// Cls [00E0] clears the display.
type Cls struct{}

// Ret [00EE] returns from a subroutine.
type Ret struct{}

// Sys [0nnn] calls a native routine at nnn. Not emulated.
type Sys struct {
	Addr Addr
}

// Jp [1nnn] jumps to nnn.
type Jp struct {
	Addr Addr
}

// Call [2nnn] calls the subroutine at nnn.
type Call struct {
	Addr Addr
}

// SeByte [3xkk] skips the next instruction if Vx == kk.
type SeByte struct {
	X    Reg
	Byte byte
}

// SneByte [4xkk] skips the next instruction if Vx != kk.
type SneByte struct {
	X    Reg
	Byte byte
}

// SeReg [5xy0] skips the next instruction if Vx == Vy.
type SeReg struct {
	X, Y Reg
}

// LdByte [6xkk] loads kk into Vx.
type LdByte struct {
	X    Reg
	Byte byte
}

// AddByte [7xkk] adds kk to Vx without touching VF.
type AddByte struct {
	X    Reg
	Byte byte
}

// LdReg [8xy0] copies Vy into Vx.
type LdReg struct {
	X, Y Reg
}

// Or [8xy1] ors Vy into Vx.
type Or struct {
	X, Y Reg
}

// And [8xy2] ands Vy into Vx.
type And struct {
	X, Y Reg
}

// Xor [8xy3] xors Vy into Vx.
type Xor struct {
	X, Y Reg
}

// AddReg [8xy4] adds Vy to Vx, VF = carry out.
type AddReg struct {
	X, Y Reg
}

// Sub [8xy5] subtracts Vy from Vx, VF = 1 when no borrow.
type Sub struct {
	X, Y Reg
}

// Shr [8xy6] shifts Vx right one bit, VF = the bit shifted out.
type Shr struct {
	X Reg
}

// Subn [8xy7] stores Vy - Vx into Vx, VF = 1 when no borrow.
type Subn struct {
	X, Y Reg
}

// Shl [8xyE] shifts Vx left one bit, VF = the bit shifted out.
type Shl struct {
	X Reg
}

// SneReg [9xy0] skips the next instruction if Vx != Vy.
type SneReg struct {
	X, Y Reg
}

// LdI [Annn] loads nnn into I.
type LdI struct {
	Addr Addr
}

// JpV0 [Bnnn] jumps to nnn + V0.
type JpV0 struct {
	Addr Addr
}

// Rnd [Cxkk] loads a random byte masked by kk into Vx.
type Rnd struct {
	X    Reg
	Byte byte
}

// Drw [Dxyn] draws the n-byte sprite at I to (Vx, Vy), VF = collision.
type Drw struct {
	X, Y Reg
	N    byte
}

// Skp [Ex9E] skips the next instruction if key Vx is down.
type Skp struct {
	X Reg
}

// Sknp [ExA1] skips the next instruction if key Vx is up.
type Sknp struct {
	X Reg
}

// LdFromDelay [Fx07] loads the delay timer into Vx.
type LdFromDelay struct {
	X Reg
}

// LdKey [Fx0A] suspends execution until a key is pressed, then loads the
// key index into Vx.
type LdKey struct {
	X Reg
}

// LdDelay [Fx15] loads Vx into the delay timer.
type LdDelay struct {
	X Reg
}

// LdSound [Fx18] loads Vx into the sound timer.
type LdSound struct {
	X Reg
}

// AddI [Fx1E] adds Vx to I.
type AddI struct {
	X Reg
}

// LdFont [Fx29] points I at the font sprite for the low nibble of Vx.
type LdFont struct {
	X Reg
}

// LdBcd [Fx33] writes the decimal digits of Vx to I, I+1, I+2.
type LdBcd struct {
	X Reg
}

// StoreRegs [Fx55] copies V0..Vx to memory starting at I.
type StoreRegs struct {
	X Reg
}

// LoadRegs [Fx65] copies memory starting at I into V0..Vx.
type LoadRegs struct {
	X Reg
}

func (Cls) instruction()         {}
func (Ret) instruction()         {}
func (Sys) instruction()         {}
func (Jp) instruction()          {}
func (Call) instruction()        {}
func (SeByte) instruction()      {}
func (SneByte) instruction()     {}
func (SeReg) instruction()       {}
func (LdByte) instruction()      {}
func (AddByte) instruction()     {}
func (LdReg) instruction()       {}
func (Or) instruction()          {}
func (And) instruction()         {}
func (Xor) instruction()         {}
func (AddReg) instruction()      {}
func (Sub) instruction()         {}
func (Shr) instruction()         {}
func (Subn) instruction()        {}
func (Shl) instruction()         {}
func (SneReg) instruction()      {}
func (LdI) instruction()         {}
func (JpV0) instruction()        {}
func (Rnd) instruction()         {}
func (Drw) instruction()         {}
func (Skp) instruction()         {}
func (Sknp) instruction()        {}
func (LdFromDelay) instruction() {}
func (LdKey) instruction()       {}
func (LdDelay) instruction()     {}
func (LdSound) instruction()     {}
func (AddI) instruction()        {}
func (LdFont) instruction()      {}
func (LdBcd) instruction()       {}
func (StoreRegs) instruction()   {}
func (LoadRegs) instruction()    {}

func (Cls) String() string { return "CLS" }
func (Ret) String() string { return "RET" }
func (op Sys) String() string {
	return fmt.Sprintf("SYS $%03X", uint16(op.Addr))
}
func (op Jp) String() string {
	return fmt.Sprintf("JP $%03X", uint16(op.Addr))
}
func (op Call) String() string {
	return fmt.Sprintf("CALL $%03X", uint16(op.Addr))
}
func (op SeByte) String() string {
	return fmt.Sprintf("SE V%X, $%02X", op.X, op.Byte)
}
func (op SneByte) String() string {
	return fmt.Sprintf("SNE V%X, $%02X", op.X, op.Byte)
}
func (op SeReg) String() string {
	return fmt.Sprintf("SE V%X, V%X", op.X, op.Y)
}
func (op LdByte) String() string {
	return fmt.Sprintf("LD V%X, $%02X", op.X, op.Byte)
}
func (op AddByte) String() string {
	return fmt.Sprintf("ADD V%X, $%02X", op.X, op.Byte)
}
func (op LdReg) String() string {
	return fmt.Sprintf("LD V%X, V%X", op.X, op.Y)
}
func (op Or) String() string {
	return fmt.Sprintf("OR V%X, V%X", op.X, op.Y)
}
func (op And) String() string {
	return fmt.Sprintf("AND V%X, V%X", op.X, op.Y)
}
func (op Xor) String() string {
	return fmt.Sprintf("XOR V%X, V%X", op.X, op.Y)
}
func (op AddReg) String() string {
	return fmt.Sprintf("ADD V%X, V%X", op.X, op.Y)
}
func (op Sub) String() string {
	return fmt.Sprintf("SUB V%X, V%X", op.X, op.Y)
}
func (op Shr) String() string {
	return fmt.Sprintf("SHR V%X", op.X)
}
func (op Subn) String() string {
	return fmt.Sprintf("SUBN V%X, V%X", op.X, op.Y)
}
func (op Shl) String() string {
	return fmt.Sprintf("SHL V%X", op.X)
}
func (op SneReg) String() string {
	return fmt.Sprintf("SNE V%X, V%X", op.X, op.Y)
}
func (op LdI) String() string {
	return fmt.Sprintf("LD I, $%03X", uint16(op.Addr))
}
func (op JpV0) String() string {
	return fmt.Sprintf("JP V0, $%03X", uint16(op.Addr))
}
func (op Rnd) String() string {
	return fmt.Sprintf("RND V%X, $%02X", op.X, op.Byte)
}
func (op Drw) String() string {
	return fmt.Sprintf("DRW V%X, V%X, $%X", op.X, op.Y, op.N)
}
func (op Skp) String() string {
	return fmt.Sprintf("SKP V%X", op.X)
}
func (op Sknp) String() string {
	return fmt.Sprintf("SKNP V%X", op.X)
}
func (op LdFromDelay) String() string {
	return fmt.Sprintf("LD V%X, DT", op.X)
}
func (op LdKey) String() string {
	return fmt.Sprintf("LD V%X, K", op.X)
}
func (op LdDelay) String() string {
	return fmt.Sprintf("LD DT, V%X", op.X)
}
func (op LdSound) String() string {
	return fmt.Sprintf("LD ST, V%X", op.X)
}
func (op AddI) String() string {
	return fmt.Sprintf("ADD I, V%X", op.X)
}
func (op LdFont) String() string {
	return fmt.Sprintf("LD F, V%X", op.X)
}
func (op LdBcd) String() string {
	return fmt.Sprintf("LD B, V%X", op.X)
}
func (op StoreRegs) String() string {
	return fmt.Sprintf("LD [I], V%X", op.X)
}
func (op LoadRegs) String() string {
	return fmt.Sprintf("LD V%X, [I]", op.X)
}
