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

package isa_test

import (
	"testing"

	"github.com/lassandro/gochip8/pkg/isa"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		Word   uint16
		Result isa.Instruction
	}{
		{0x00E0, isa.Cls{}},
		{0x00EE, isa.Ret{}},
		{0x0123, isa.Sys{0x123}},

		{0x1FFF, isa.Jp{0xFFF}},
		{0x2200, isa.Call{0x200}},
		{0x3A42, isa.SeByte{0xA, 0x42}},
		{0x4A42, isa.SneByte{0xA, 0x42}},
		{0x5AB0, isa.SeReg{0xA, 0xB}},
		{0x6F10, isa.LdByte{0xF, 0x10}},
		{0x7F10, isa.AddByte{0xF, 0x10}},

		{0x8AB0, isa.LdReg{0xA, 0xB}},
		{0x8AB1, isa.Or{0xA, 0xB}},
		{0x8AB2, isa.And{0xA, 0xB}},
		{0x8AB3, isa.Xor{0xA, 0xB}},
		{0x8AB4, isa.AddReg{0xA, 0xB}},
		{0x8AB5, isa.Sub{0xA, 0xB}},
		{0x8AB6, isa.Shr{0xA}},
		{0x8AB7, isa.Subn{0xA, 0xB}},
		{0x8ABE, isa.Shl{0xA}},

		{0x9AB0, isa.SneReg{0xA, 0xB}},
		{0xA123, isa.LdI{0x123}},
		{0xB123, isa.JpV0{0x123}},
		{0xC4FF, isa.Rnd{0x4, 0xFF}},
		{0xD12F, isa.Drw{0x1, 0x2, 0xF}},

		{0xE79E, isa.Skp{0x7}},
		{0xE7A1, isa.Sknp{0x7}},

		{0xF207, isa.LdFromDelay{0x2}},
		{0xF20A, isa.LdKey{0x2}},
		{0xF215, isa.LdDelay{0x2}},
		{0xF218, isa.LdSound{0x2}},
		{0xF21E, isa.AddI{0x2}},
		{0xF229, isa.LdFont{0x2}},
		{0xF233, isa.LdBcd{0x2}},
		{0xF255, isa.StoreRegs{0x2}},
		{0xF265, isa.LoadRegs{0x2}},
	}

	for _, test := range tests {
		result, err := isa.Decode(test.Word)

		if err != nil {
			t.Errorf("Unexpected decode error for %#04x: %v", test.Word, err)
			continue
		}

		if result != test.Result {
			t.Errorf(
				"Decode mismatch for %#04x"+
					"\nwant:%v (%T)\nhave:%v (%T)",
				test.Word,
				test.Result, test.Result,
				result, result,
			)
		}
	}
}

func TestDecodeUnknown(t *testing.T) {
	// Words adjacent to valid encodings in the multiplexed families
	words := []uint16{
		0x5AB1, // SE with nonzero low nibble
		0x5ABF,
		0x8AB8, // unused arithmetic selectors
		0x8AB9,
		0x8ABF,
		0x9AB1, // SNE with nonzero low nibble
		0xE000,
		0xE79F,
		0xE7A0,
		0xE7FF,
		0xF000,
		0xF208,
		0xF20B,
		0xF234,
		0xF2FF,
	}

	for _, word := range words {
		result, err := isa.Decode(word)

		if err == nil {
			t.Errorf(
				"Expected decode error for %#04x"+
					"\nhave:%v (%T)",
				word,
				result, result,
			)
			continue
		}

		opErr, ok := err.(*isa.UnknownOpcodeError)

		if !ok {
			t.Errorf("Unexpected error type for %#04x: %T", word, err)
		} else if opErr.Word != word {
			t.Errorf(
				"Error word mismatch\nwant:%#04x\nhave:%#04x",
				word,
				opErr.Word,
			)
		}
	}
}

// Full-word patterns must win over the 0nnn family they overlap with.
func TestDecodePriority(t *testing.T) {
	if result, _ := isa.Decode(0x00E0); result != (isa.Cls{}) {
		t.Errorf("0x00E0 must decode as CLS, have %T", result)
	}

	if result, _ := isa.Decode(0x00EE); result != (isa.Ret{}) {
		t.Errorf("0x00EE must decode as RET, have %T", result)
	}

	if result, _ := isa.Decode(0x00E1); result != (isa.Sys{0x0E1}) {
		t.Errorf("0x00E1 must decode as SYS, have %T", result)
	}
}

// Every word decodes to exactly one variant or fails; decoding must never
// be ambiguous between the masked families.
func TestDecodeTotal(t *testing.T) {
	known := 0

	for word := 0; word <= 0xFFFF; word++ {
		result, err := isa.Decode(uint16(word))

		if err == nil && result == nil {
			t.Fatalf("Decode returned neither result nor error for %#04x", word)
		}

		if err != nil && result != nil {
			t.Fatalf("Decode returned both result and error for %#04x", word)
		}

		if err == nil {
			known++
		}
	}

	// 11 fully-populated high nibbles (0-4, 6, 7, A-D), the 5xy0 and
	// 9xy0 families, nine 8xyN selectors, two ExKK and nine FxKK forms:
	// 11*4096 + 2*256 + 9*256 + 2*16 + 9*16
	expected := 48048

	if known != expected {
		t.Errorf(
			"Decoded word population mismatch\nwant:%d\nhave:%d",
			expected,
			known,
		)
	}
}

func TestEncode(t *testing.T) {
	instructions := []isa.Instruction{
		isa.Cls{},
		isa.Ret{},
		isa.Jp{0x400},
		isa.Call{0x208},
		isa.SeByte{0x3, 0x7F},
		isa.SneReg{0xC, 0xD},
		isa.Shl{0xF},
		isa.LdI{0x2F0},
		isa.Drw{0x0, 0x1, 0x5},
		isa.Skp{0x4},
		isa.LdKey{0x9},
		isa.LdBcd{0x6},
		isa.StoreRegs{0xF},
		isa.LoadRegs{0x0},
	}

	for _, inst := range instructions {
		result, err := isa.Decode(isa.Encode(inst))

		if err != nil {
			t.Errorf("Re-decode error for %v: %v", inst, err)
			continue
		}

		if result != inst {
			t.Errorf(
				"Encode/Decode mismatch\nwant:%v (%T)\nhave:%v (%T)",
				inst, inst,
				result, result,
			)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		Instruction isa.Instruction
		Result      string
	}{
		{isa.Cls{}, "CLS"},
		{isa.Jp{0x2A0}, "JP $2A0"},
		{isa.SeByte{0x1, 0x0A}, "SE V1, $0A"},
		{isa.Sub{0xA, 0xF}, "SUB VA, VF"},
		{isa.LdI{0x220}, "LD I, $220"},
		{isa.Drw{0x0, 0x1, 0x4}, "DRW V0, V1, $4"},
		{isa.LdKey{0x5}, "LD V5, K"},
		{isa.LdFont{0x5}, "LD F, V5"},
		{isa.LdBcd{0x5}, "LD B, V5"},
		{isa.StoreRegs{0x5}, "LD [I], V5"},
		{isa.LoadRegs{0x5}, "LD V5, [I]"},
	}

	for _, test := range tests {
		if have := test.Instruction.String(); have != test.Result {
			t.Errorf(
				"String mismatch\nwant:%s\nhave:%s",
				test.Result,
				have,
			)
		}
	}
}
