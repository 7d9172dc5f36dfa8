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

package machine

import (
	"io"
	"math/rand"
	"time"

	"github.com/lassandro/gochip8/pkg/isa"
)

func (mc *MachineState) Reset() {
	for i := range mc.V {
		mc.V[i] = 0x00
	}

	for i := range mc.Memory {
		mc.Memory[i] = 0x00
	}

	for i := range mc.Display {
		mc.Display[i] = 0x00
	}

	for i := range mc.Stack {
		mc.Stack[i] = 0x0000
	}

	for i := range mc.Keys {
		mc.Keys[i] = false
	}

	copy(mc.Memory[FONT_START:], FONT_SPRITES[:])

	mc.I = 0x0000
	mc.Program = PROGRAM_START
	mc.StackPtr = 0
	mc.Delay = 0
	mc.Sound = 0
	mc.Run = RUN_RUNNING
	mc.WaitReg = 0
}

// LoadBin resets the machine and loads a raw big-endian program image at
// PROGRAM_START. Oversized images are rejected before execution begins.
func (mc *Machine) LoadBin(reader io.Reader) error {
	mc.State.Reset()
	mc.fault = nil

	image, err := io.ReadAll(reader)

	if err != nil {
		return err
	}

	if len(image) > MAX_PROGRAM_SIZE {
		return &OversizedImageError{len(image)}
	}

	copy(mc.State.Memory[PROGRAM_START:], image)

	return nil
}

// Fault returns the fault that halted the machine, or nil.
func (mc *Machine) Fault() error {
	return mc.fault
}

// Tick decrements the delay and sound timers toward zero. It is driven by
// the host at TIMER_RATE, never from Step.
func (mc *Machine) Tick() {
	if mc.State.Delay > 0 {
		mc.State.Delay--
	}

	if mc.State.Sound > 0 {
		mc.State.Sound--
	}
}

// SoundActive reports whether the audio collaborator should be emitting
// a tone.
func (mc *Machine) SoundActive() bool {
	return mc.State.Sound > 0
}

func (mc *Machine) halt(err error) error {
	mc.State.Run = RUN_HALTED
	mc.fault = err
	return err
}

// read assumes addr has been bounds-checked by the caller
func (mc *Machine) read(addr uint16) byte {
	if mc.Debugger != nil {
		mc.Debugger.Read(addr, mc)
	}

	return mc.State.Memory[addr]
}

// write assumes addr has been bounds-checked by the caller
func (mc *Machine) write(addr uint16, value byte) {
	mc.State.Memory[addr] = value

	if mc.Debugger != nil {
		mc.Debugger.Write(addr, mc)
	}
}

// resumeFromKey scans for a key that has gone down since the machine
// entered RUN_AWAITING_KEY, storing its index and releasing the suspend.
func (mc *Machine) resumeFromKey() {
	for i := 0; i < NUM_KEYS; i++ {
		if mc.State.Keys[i] && !mc.waitKeys[i] {
			mc.State.V[mc.State.WaitReg] = byte(i)
			mc.State.Program += 2
			mc.State.Run = RUN_RUNNING
			return
		}

		// A key released while waiting becomes eligible again
		mc.waitKeys[i] = mc.State.Keys[i]
	}
}

// Step executes a single instruction: fetch the word at the program
// counter, decode it, apply its semantics, and advance. A halted machine
// keeps returning its fault; a machine awaiting key input only polls the
// key state. Faults are raised before any state is mutated.
func (mc *Machine) Step() error {
	switch mc.State.Run {
	case RUN_HALTED:
		return mc.fault

	case RUN_AWAITING_KEY:
		mc.resumeFromKey()

		if mc.Debugger != nil && mc.State.Run == RUN_RUNNING {
			mc.Debugger.Step(mc)
		}

		return nil
	}

	pc := mc.State.Program

	if int(pc)+1 >= MEMORY_SIZE {
		return mc.halt(&OutOfBoundsError{int(pc)})
	}

	word := uint16(mc.read(pc))<<8 | uint16(mc.read(pc+1))

	inst, err := isa.Decode(word)

	if err != nil {
		return mc.halt(err)
	}

	next := pc + 2

	switch op := inst.(type) {
	// SYS  [0nnn] 1802 routines are not emulated
	case isa.Sys:

	// CLS  [00E0]
	case isa.Cls:
		for i := range mc.State.Display {
			mc.State.Display[i] = 0x00
		}

	// RET  [00EE]
	case isa.Ret:
		if mc.State.StackPtr == 0 {
			return mc.halt(&StackUnderflowError{pc})
		}

		mc.State.StackPtr--
		next = mc.State.Stack[mc.State.StackPtr]

	// JP   [1nnn]
	case isa.Jp:
		next = uint16(op.Addr)

	// CALL [2nnn] Pushes the address of the following instruction
	case isa.Call:
		if mc.State.StackPtr >= STACK_DEPTH {
			return mc.halt(&StackOverflowError{pc})
		}

		mc.State.Stack[mc.State.StackPtr] = pc + 2
		mc.State.StackPtr++
		next = uint16(op.Addr)

	// SE   [3xkk]
	case isa.SeByte:
		if mc.State.V[op.X] == op.Byte {
			next = pc + 4
		}

	// SNE  [4xkk]
	case isa.SneByte:
		if mc.State.V[op.X] != op.Byte {
			next = pc + 4
		}

	// SE   [5xy0]
	case isa.SeReg:
		if mc.State.V[op.X] == mc.State.V[op.Y] {
			next = pc + 4
		}

	// LD   [6xkk]
	case isa.LdByte:
		mc.State.V[op.X] = op.Byte

	// ADD  [7xkk] No carry flag
	case isa.AddByte:
		mc.State.V[op.X] += op.Byte

	// LD   [8xy0]
	case isa.LdReg:
		mc.State.V[op.X] = mc.State.V[op.Y]

	// OR   [8xy1]
	case isa.Or:
		mc.State.V[op.X] |= mc.State.V[op.Y]

	// AND  [8xy2]
	case isa.And:
		mc.State.V[op.X] &= mc.State.V[op.Y]

	// XOR  [8xy3]
	case isa.Xor:
		mc.State.V[op.X] ^= mc.State.V[op.Y]

	// ADD  [8xy4] VF = carry out, written after the destination so the
	// flag survives VF being the destination itself
	case isa.AddReg:
		sum := uint16(mc.State.V[op.X]) + uint16(mc.State.V[op.Y])

		carry := byte(0)
		if sum > 0xFF {
			carry = 1
		}

		mc.State.V[op.X] = byte(sum)
		mc.State.V[0xF] = carry

	// SUB  [8xy5] VF = 1 when no borrow (Vx >= Vy)
	case isa.Sub:
		borrow := byte(0)
		if mc.State.V[op.X] >= mc.State.V[op.Y] {
			borrow = 1
		}

		mc.State.V[op.X] -= mc.State.V[op.Y]
		mc.State.V[0xF] = borrow

	// SHR  [8xy6] VF = bit shifted out
	case isa.Shr:
		bit := mc.State.V[op.X] & 0x01

		mc.State.V[op.X] >>= 1
		mc.State.V[0xF] = bit

	// SUBN [8xy7] Vx = Vy - Vx, VF = 1 when no borrow (Vy >= Vx)
	case isa.Subn:
		borrow := byte(0)
		if mc.State.V[op.Y] >= mc.State.V[op.X] {
			borrow = 1
		}

		mc.State.V[op.X] = mc.State.V[op.Y] - mc.State.V[op.X]
		mc.State.V[0xF] = borrow

	// SHL  [8xyE] VF = bit shifted out
	case isa.Shl:
		bit := mc.State.V[op.X] >> 7

		mc.State.V[op.X] <<= 1
		mc.State.V[0xF] = bit

	// SNE  [9xy0]
	case isa.SneReg:
		if mc.State.V[op.X] != mc.State.V[op.Y] {
			next = pc + 4
		}

	// LD   [Annn]
	case isa.LdI:
		mc.State.I = uint16(op.Addr)

	// JP   [Bnnn] Target offset by V0
	case isa.JpV0:
		next = uint16(op.Addr) + uint16(mc.State.V[0])

	// RND  [Cxkk]
	case isa.Rnd:
		if mc.Random == nil {
			mc.Random = rand.New(rand.NewSource(time.Now().UnixNano()))
		}

		mc.State.V[op.X] = byte(mc.Random.Intn(0x100)) & op.Byte

	// DRW  [Dxyn] Destructive-xor blit with wrapping, VF = collision
	case isa.Drw:
		addr := int(mc.State.I)

		if addr+int(op.N) > MEMORY_SIZE {
			return mc.halt(&OutOfBoundsError{addr + int(op.N) - 1})
		}

		x0 := int(mc.State.V[op.X]) % DISPLAY_WIDTH
		y0 := int(mc.State.V[op.Y]) % DISPLAY_HEIGHT

		collision := byte(0)

		for row := 0; row < int(op.N); row++ {
			sprite := mc.read(uint16(addr + row))
			py := (y0 + row) % DISPLAY_HEIGHT

			for bit := 0; bit < 8; bit++ {
				if sprite&(0x80>>bit) == 0 {
					continue
				}

				px := (x0 + bit) % DISPLAY_WIDTH
				pixel := py*DISPLAY_WIDTH + px

				if mc.State.Display[pixel] != 0 {
					collision = 1
				}

				mc.State.Display[pixel] ^= 1
			}
		}

		mc.State.V[0xF] = collision

	// SKP  [Ex9E] Key index is the low nibble of Vx
	case isa.Skp:
		if mc.State.Keys[mc.State.V[op.X]&0xF] {
			next = pc + 4
		}

	// SKNP [ExA1]
	case isa.Sknp:
		if !mc.State.Keys[mc.State.V[op.X]&0xF] {
			next = pc + 4
		}

	// LD   [Fx07]
	case isa.LdFromDelay:
		mc.State.V[op.X] = mc.State.Delay

	// LD   [Fx0A] Suspends until a key press; the program counter is
	// frozen so timers keep running while the host loop spins
	case isa.LdKey:
		mc.State.Run = RUN_AWAITING_KEY
		mc.State.WaitReg = op.X
		mc.waitKeys = mc.State.Keys
		next = pc

	// LD   [Fx15]
	case isa.LdDelay:
		mc.State.Delay = mc.State.V[op.X]

	// LD   [Fx18]
	case isa.LdSound:
		mc.State.Sound = mc.State.V[op.X]

	// ADD  [Fx1E] No flag; an out-of-range I faults on its next use
	case isa.AddI:
		mc.State.I += uint16(mc.State.V[op.X])

	// LD   [Fx29] Font sprite address for the low nibble of Vx
	case isa.LdFont:
		mc.State.I = FONT_START + uint16(mc.State.V[op.X]&0xF)*GLYPH_SIZE

	// LD   [Fx33] Decimal digits of Vx to I, I+1, I+2
	case isa.LdBcd:
		addr := int(mc.State.I)

		if addr+2 >= MEMORY_SIZE {
			return mc.halt(&OutOfBoundsError{addr + 2})
		}

		value := mc.State.V[op.X]

		mc.write(uint16(addr), value/100)
		mc.write(uint16(addr+1), value/10%10)
		mc.write(uint16(addr+2), value%10)

	// LD   [Fx55] V0..Vx to memory at I; I is not modified
	case isa.StoreRegs:
		addr := int(mc.State.I)

		if addr+int(op.X) >= MEMORY_SIZE {
			return mc.halt(&OutOfBoundsError{addr + int(op.X)})
		}

		for i := 0; i <= int(op.X); i++ {
			mc.write(uint16(addr+i), mc.State.V[i])
		}

	// LD   [Fx65] Memory at I to V0..Vx; I is not modified
	case isa.LoadRegs:
		addr := int(mc.State.I)

		if addr+int(op.X) >= MEMORY_SIZE {
			return mc.halt(&OutOfBoundsError{addr + int(op.X)})
		}

		for i := 0; i <= int(op.X); i++ {
			mc.State.V[i] = mc.read(uint16(addr + i))
		}
	}

	mc.State.Program = next

	if mc.Debugger != nil {
		mc.Debugger.Step(mc)
	}

	return nil
}
