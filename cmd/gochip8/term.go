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

package main

import (
	"bufio"
	"log"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/lassandro/gochip8/pkg/machine"
)

var termRestore unix.Termios
var termSaved bool
var termRaw bool

// CHIP-8 keypad layout on the left hand of a QWERTY keyboard:
//
//	1 2 3 4       1 2 3 C
//	q w e r  -->  4 5 6 D
//	a s d f       7 8 9 E
//	z x c v       A 0 B F
var termKeymap = map[byte]byte{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Terminals report key presses, never releases; a pressed key stays
// down until this long after its last repeat.
const termKeyHold = 100 * time.Millisecond

func enterRawTerm() {
	termios, err := unix.IoctlGetTermios(int(os.Stdin.Fd()), unix.TCGETS)

	if err != nil {
		panic(err)
	}

	if !termSaved {
		termRestore = *termios
		termSaved = true
	}

	termstate := *termios

	termstate.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR
	termstate.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	termstate.Cflag &^= unix.CSIZE | unix.PARENB
	termstate.Cflag |= unix.CS8

	termstate.Cc[unix.VMIN] = 0
	termstate.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(
		int(os.Stdin.Fd()), unix.TCSETS, &termstate,
	); err != nil {
		panic(err)
	}

	termRaw = true
}

func exitRawTerm() {
	if !termRaw {
		return
	}

	if err := unix.IoctlSetTermios(
		int(os.Stdin.Fd()), unix.TCSETS, &termRestore,
	); err != nil {
		panic(err)
	}

	termRaw = false
}

func drawTerm(out *bufio.Writer, mc *machine.Machine) {
	out.WriteString("\033[H")

	for y := 0; y < machine.DISPLAY_HEIGHT; y++ {
		for x := 0; x < machine.DISPLAY_WIDTH; x++ {
			if mc.State.Display[y*machine.DISPLAY_WIDTH+x] != 0 {
				out.WriteString("██")
			} else {
				out.WriteString("  ")
			}
		}

		out.WriteString("\033[K\n")
	}

	out.Flush()
}

func runTerm(mc *machine.Machine) int {
	enterRawTerm()
	defer exitRawTerm()

	beep := newBeeper()
	defer beep.Close()

	out := bufio.NewWriter(os.Stdout)

	os.Stdout.WriteString("\033[?25l\033[2J")
	defer os.Stdout.WriteString("\033[?25h\033[2J\033[H")

	var keyUntil [machine.NUM_KEYS]time.Time
	var input [64]byte

	ticker := time.NewTicker(time.Second / machine.TIMER_RATE)
	defer ticker.Stop()

	for !shouldexit {
		now := <-ticker.C

		// VMIN/VTIME are zeroed so this never blocks
		if n, _ := os.Stdin.Read(input[:]); n > 0 {
			for _, char := range input[:n] {
				// ESC or Ctrl-C
				if char == 0x1b || char == 0x03 {
					return 0
				}

				if key, exists := termKeymap[char]; exists {
					keyUntil[key] = now.Add(termKeyHold)
				}
			}
		}

		for i := range mc.State.Keys {
			mc.State.Keys[i] = now.Before(keyUntil[i])
		}

		mc.Tick()
		beep.Set(mc.SoundActive())

		for i := 0; i < cyclesvar/machine.TIMER_RATE; i++ {
			if err := mc.Step(); err != nil {
				exitRawTerm()
				log.Println(err)
				return 1
			}

			if shouldexit {
				break
			}
		}

		drawTerm(out, mc)
	}

	return 0
}
