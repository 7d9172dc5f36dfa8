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
	"encoding/binary"
	"log"
	"math"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

const beepSampleRate = 48000
const beepFrequency = 440
const beepVolume = 0.25

// beepWave generates a square wave while the active flag is set and
// silence otherwise, so the player can run for the process lifetime.
type beepWave struct {
	active *atomic.Bool
	phase  int
}

func (w *beepWave) Read(buf []byte) (int, error) {
	const period = beepSampleRate / beepFrequency

	n := len(buf) &^ 3

	for i := 0; i < n; i += 4 {
		var sample float32

		if w.active.Load() {
			if w.phase < period/2 {
				sample = beepVolume
			} else {
				sample = -beepVolume
			}
		}

		binary.LittleEndian.PutUint32(buf[i:], math.Float32bits(sample))

		w.phase++

		if w.phase >= period {
			w.phase = 0
		}
	}

	return n, nil
}

type beeper struct {
	player *oto.Player
	active atomic.Bool
}

// newBeeper returns nil when muted or when no audio device is
// available; a nil beeper accepts Set and Close as no-ops.
func newBeeper() *beeper {
	if mutevar {
		return nil
	}

	b := &beeper{}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   beepSampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})

	if err != nil {
		log.Println("Error opening audio device")
		log.Println(err)
		return nil
	}

	<-ready

	b.player = ctx.NewPlayer(&beepWave{active: &b.active})
	b.player.Play()

	return b
}

func (b *beeper) Set(active bool) {
	if b == nil {
		return
	}

	b.active.Store(active)
}

func (b *beeper) Close() {
	if b == nil {
		return
	}

	b.player.Close()
}
