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
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/lassandro/gochip8/pkg/machine"
)

// CHIP-8 keypad layout on the left hand of a QWERTY keyboard, matching
// the terminal frontend.
var windowKeymap = map[ebiten.Key]byte{
	ebiten.KeyDigit1: 0x1, ebiten.KeyDigit2: 0x2,
	ebiten.KeyDigit3: 0x3, ebiten.KeyDigit4: 0xC,

	ebiten.KeyQ: 0x4, ebiten.KeyW: 0x5,
	ebiten.KeyE: 0x6, ebiten.KeyR: 0xD,

	ebiten.KeyA: 0x7, ebiten.KeyS: 0x8,
	ebiten.KeyD: 0x9, ebiten.KeyF: 0xE,

	ebiten.KeyZ: 0xA, ebiten.KeyX: 0x0,
	ebiten.KeyC: 0xB, ebiten.KeyV: 0xF,
}

type window struct {
	mc   *machine.Machine
	beep *beeper

	frame  *ebiten.Image
	pixels [machine.DISPLAY_SIZE * 4]byte
}

// Update runs at TIMER_RATE, so each call is one timer tick plus the
// frame's share of the instruction budget.
func (w *window) Update() error {
	if shouldexit || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	for key, pad := range windowKeymap {
		w.mc.State.Keys[pad] = ebiten.IsKeyPressed(key)
	}

	w.mc.Tick()
	w.beep.Set(w.mc.SoundActive())

	for i := 0; i < cyclesvar/machine.TIMER_RATE; i++ {
		if err := w.mc.Step(); err != nil {
			return err
		}

		if shouldexit {
			break
		}
	}

	return nil
}

func (w *window) Draw(screen *ebiten.Image) {
	for i, pixel := range w.mc.State.Display {
		var value byte

		if pixel != 0 {
			value = 0xFF
		}

		w.pixels[i*4+0] = value
		w.pixels[i*4+1] = value
		w.pixels[i*4+2] = value
		w.pixels[i*4+3] = 0xFF
	}

	w.frame.WritePixels(w.pixels[:])

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(scalevar), float64(scalevar))
	screen.DrawImage(w.frame, &op)
}

func (w *window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return machine.DISPLAY_WIDTH * scalevar, machine.DISPLAY_HEIGHT * scalevar
}

func runWindow(mc *machine.Machine) int {
	beep := newBeeper()
	defer beep.Close()

	w := &window{
		mc:    mc,
		beep:  beep,
		frame: ebiten.NewImage(machine.DISPLAY_WIDTH, machine.DISPLAY_HEIGHT),
	}

	ebiten.SetWindowSize(
		machine.DISPLAY_WIDTH*scalevar,
		machine.DISPLAY_HEIGHT*scalevar,
	)
	ebiten.SetWindowTitle("gochip8")
	ebiten.SetTPS(machine.TIMER_RATE)

	if err := ebiten.RunGame(w); err != nil && err != ebiten.Termination {
		log.Println(err)
		return 1
	}

	return 0
}
