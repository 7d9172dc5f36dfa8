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
	"fmt"
	"math/rand"

	"github.com/lassandro/gochip8/pkg/isa"
)

type RunState uint

const (
	// Normal fetch-decode-execute progression
	RUN_RUNNING RunState = iota

	// Suspended by LD Vx, K until a key transitions to pressed
	RUN_AWAITING_KEY

	// Terminal; entered on any fault, left only by Reset
	RUN_HALTED
)

type MachineState struct {
	// V0-VF general purpose registers; VF doubles as the flag register
	V [16]byte

	// I address register
	I uint16

	// Program counter
	Program uint16

	Stack    [STACK_DEPTH]uint16
	StackPtr uint8

	Delay byte
	Sound byte

	// Key pad state, written by the host input collaborator
	Keys [NUM_KEYS]bool

	Memory  [MEMORY_SIZE]byte
	Display [DISPLAY_SIZE]byte

	Run RunState

	// Destination register of a pending LD Vx, K
	WaitReg isa.Reg
}

type MachineDebugger interface {
	Step(mc *Machine)
	Read(addr uint16, mc *Machine)
	Write(addr uint16, mc *Machine)
}

type Machine struct {
	State    MachineState
	Debugger MachineDebugger

	// Source for RND; seeded on first use when left nil
	Random *rand.Rand

	// Key state snapshot taken when entering RUN_AWAITING_KEY
	waitKeys [NUM_KEYS]bool

	fault error
}

type OutOfBoundsError struct {
	Addr int
}

func (err *OutOfBoundsError) Error() string {
	return fmt.Sprintf("Memory access out of bounds [%#04x]", err.Addr)
}

type StackOverflowError struct {
	Addr uint16
}

func (err *StackOverflowError) Error() string {
	return fmt.Sprintf("Call stack overflow [%#04x]", err.Addr)
}

type StackUnderflowError struct {
	Addr uint16
}

func (err *StackUnderflowError) Error() string {
	return fmt.Sprintf("Call stack underflow [%#04x]", err.Addr)
}

type OversizedImageError struct {
	Size int
}

func (err *OversizedImageError) Error() string {
	return fmt.Sprintf(
		"Program image exceeds allowed size\nwant:%d\nhave:%d",
		MAX_PROGRAM_SIZE,
		err.Size,
	)
}
