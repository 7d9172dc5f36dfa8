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

package assembler_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/lassandro/gochip8/pkg/assembler"
)

type testCase struct {
	Name     string
	Input    string
	Output   map[int]byte
	SymTable *assembler.SymTable
}

type failCase struct {
	Name  string
	Input string
	Error error
}

func testAssemblerSuccess(t *testing.T, test *testCase) {
	var result []byte
	var errs []error
	var symtable assembler.SymTable
	var symtarget *assembler.SymTable = nil

	if test.SymTable != nil {
		symtable.Symbols = make(map[uint16]int64)
		symtable.Labels = make(map[uint16]string)
		symtarget = &symtable
	}

	result, errs = assembler.AssembleChip8Source(
		strings.NewReader(test.Input), symtarget,
	)

	if len(errs) > 0 {
		t.Fatal(errs[0])
	}

	for offset := 0; offset < len(result); offset++ {
		have := result[offset]
		want, exists := test.Output[offset]
		if exists && have != want {
			t.Fatalf(
				"Instruction encoding mismatch\n"+
					"want:%#02x (test.Output[%#04x])\n"+
					"have:%#02x",
				want,
				offset,
				have,
			)
		} else if !exists && have != 0 {
			t.Fatalf(
				"Unexpected instruction\n"+
					"want:0x00\n"+
					"have:%#02x (result [%#04x])",
				have,
				offset,
			)
		}
	}

	for offset := range test.Output {
		if offset >= len(result) {
			t.Fatalf(
				"Missing output byte\n"+
					"want:%#02x (test.Output[%#04x])\n"+
					"have:image of %d bytes",
				test.Output[offset],
				offset,
				len(result),
			)
		}
	}

	if test.SymTable != nil {
		for addr, want := range test.SymTable.Symbols {
			have, exists := symtable.Symbols[addr]

			if !exists {
				t.Fatalf(
					"Missing symtable encoding\n"+
						"want:%d (test.SymTable.Symbols[%#04x])\n"+
						"have:nil",
					want,
					addr,
				)
			} else if have != want {
				t.Fatalf(
					"Symtable encoding mismatch\n"+
						"want:%d (test.SymTable.Symbols[%#04x])\n"+
						"have:%d",
					want,
					addr,
					have,
				)
			}
		}

		for addr, have := range symtable.Symbols {
			_, exists := test.SymTable.Symbols[addr]

			if !exists {
				t.Fatalf(
					"Unexpected symtable encoding\n"+
						"want: nil\n"+
						"have: %d (symtable.Symbols[%#04x])",
					have,
					addr,
				)
			}
		}

		for addr, want := range test.SymTable.Labels {
			have, exists := symtable.Labels[addr]

			if !exists {
				t.Fatalf(
					"Missing symtable encoding\n"+
						"want:%s (test.SymTable.Labels[%#04x])\n"+
						"have:nil",
					want,
					addr,
				)
			} else if have != want {
				t.Fatalf(
					"Symtable encoding mismatch\n"+
						"want:%s (test.SymTable.Labels[%#04x])\n"+
						"have:%s",
					want,
					addr,
					have,
				)
			}
		}

		for addr, have := range symtable.Labels {
			_, exists := test.SymTable.Labels[addr]

			if !exists {
				t.Fatalf(
					"Unexpected symtable encoding\n"+
						"want: nil\n"+
						"have: %s (symtable.Labels[%#04x])",
					have,
					addr,
				)
			}
		}
	}
}

func testAssemblerFail(t *testing.T, test *failCase) {
	file := strings.NewReader(test.Input)

	_, errs := assembler.AssembleChip8Source(file, nil)

	if test.Error == nil {
		panic("Fail case missing error value")
	}

	if len(errs) == 0 {
		t.Fatalf(
			"%s produced error of incorrect type"+
				"\nwant:%T (test.Error)\nhave:<nil>",
			t.Name(),
			test.Error,
		)
	}

	if len(errs) > 1 {
		errTypes := make([]reflect.Type, 0, len(errs))
		for _, err := range errs {
			errTypes = append(errTypes, reflect.TypeOf(err))
		}

		t.Fatalf(
			"%s produced multiple errors:\n\twant:%T (test.Error)\n\thave:%v",
			t.Name(),
			test.Error,
			errTypes,
		)
	}

	if reflect.TypeOf(errs[0]) != reflect.TypeOf(test.Error) {
		t.Fatalf(
			"%s produced error of incorrect type"+
				"\nwant:%T (test.Error)\nhave:%T",
			t.Name(),
			test.Error,
			errs[0],
		)
	}
}

func testSuccess(t *testing.T, tests []testCase) {
	t.Run("Success", func(t *testing.T) {
		for _, test := range tests {
			t.Run(test.Name, func(t *testing.T) {
				testAssemblerSuccess(t, &test)
			})
		}
	})
}

func testFail(t *testing.T, tests []failCase) {
	t.Run("Fail", func(t *testing.T) {
		for _, test := range tests {
			t.Run(test.Name, func(t *testing.T) {
				testAssemblerFail(t, &test)
			})
		}
	})
}

// CLS  [00E0]
// RET  [00EE]
func TestNullary(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "CLS",
			Input:  `CLS`,
			Output: map[int]byte{0: 0x00, 1: 0xE0},
		},
		{
			Name:   "RET",
			Input:  `RET`,
			Output: map[int]byte{0: 0x00, 1: 0xEE},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "CLS Bad Argc",
			Input: `CLS V0`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
		{
			Name:  "RET Bad Argc",
			Input: `RET $200`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
	})
}

// JP   [1nnn] Absolute jump
// JP   [Bnnn] Jump with V0 offset
func TestJp(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "JP",
			Input:  `JP $2A0`,
			Output: map[int]byte{0: 0x12, 1: 0xA0},
		},
		{
			Name:   "JP V0",
			Input:  `JP V0, $2A0`,
			Output: map[int]byte{0: 0xB2, 1: 0xA0},
		},
		{
			Name:   "JP Label",
			Input:  "start JP start",
			Output: map[int]byte{0: 0x12, 1: 0x00},
		},
		{
			Name:   "JP Label Colon",
			Input:  "start: JP start",
			Output: map[int]byte{0: 0x12, 1: 0x00},
		},
		{
			Name:   "JP Forward Label",
			Input:  "JP end\nCLS\nend RET",
			Output: map[int]byte{0: 0x12, 1: 0x04, 2: 0x00, 3: 0xE0, 4: 0x00, 5: 0xEE},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "JP Bad Offset Register",
			Input: `JP V1, $2A0`,
			Error: &assembler.InvalidRegisterError{},
		},
		{
			Name:  "JP Unknown Label",
			Input: `JP nowhere`,
			Error: &assembler.UnknownLabelError{},
		},
		{
			Name:  "JP Oversized Address",
			Input: `JP $FFFF`,
			Error: &assembler.OversizedLiteralError{},
		},
		{
			Name:  "JP Bad Argc",
			Input: `JP`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
	})
}

// CALL [2nnn]
// SYS  [0nnn]
func TestCall(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "CALL",
			Input:  "CALL sub\nsub CLS",
			Output: map[int]byte{0: 0x22, 1: 0x02, 2: 0x00, 3: 0xE0},
		},
		{
			Name:   "SYS",
			Input:  `SYS $300`,
			Output: map[int]byte{0: 0x03, 1: 0x00},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "CALL Bad Argc",
			Input: `CALL $200, $300`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
	})
}

// SE   [3xkk] / [5xy0]
// SNE  [4xkk] / [9xy0]
func TestSkips(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "SE Byte",
			Input:  `SE V1, $42`,
			Output: map[int]byte{0: 0x31, 1: 0x42},
		},
		{
			Name:   "SE Byte Decimal",
			Input:  `SE V1, #66`,
			Output: map[int]byte{0: 0x31, 1: 0x42},
		},
		{
			Name:   "SE Register",
			Input:  `SE V1, V2`,
			Output: map[int]byte{0: 0x51, 1: 0x20},
		},
		{
			Name:   "SNE Byte",
			Input:  `SNE V1, $42`,
			Output: map[int]byte{0: 0x41, 1: 0x42},
		},
		{
			Name:   "SNE Register",
			Input:  `SNE V1, V2`,
			Output: map[int]byte{0: 0x91, 1: 0x20},
		},
		{
			Name:   "SKP",
			Input:  `SKP V5`,
			Output: map[int]byte{0: 0xE5, 1: 0x9E},
		},
		{
			Name:   "SKNP",
			Input:  `SKNP V5`,
			Output: map[int]byte{0: 0xE5, 1: 0xA1},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "SE Bad Register",
			Input: `SE VG, $42`,
			Error: &assembler.InvalidRegisterError{},
		},
		{
			Name:  "SE Literal Destination",
			Input: `SE $42, V1`,
			Error: &assembler.InvalidOperandError{},
		},
		{
			Name:  "SE Oversized Byte",
			Input: `SE V1, $100`,
			Error: &assembler.OversizedLiteralError{},
		},
		{
			Name:  "SKP Bad Argc",
			Input: `SKP V5, V6`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
	})
}

// ADD  [7xkk] / [8xy4] / [Fx1E]
func TestAdd(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "ADD Byte",
			Input:  `ADD V0, $01`,
			Output: map[int]byte{0: 0x70, 1: 0x01},
		},
		{
			Name:   "ADD Register",
			Input:  `ADD V0, V1`,
			Output: map[int]byte{0: 0x80, 1: 0x14},
		},
		{
			Name:   "ADD Address Register",
			Input:  `ADD I, V5`,
			Output: map[int]byte{0: 0xF5, 1: 0x1E},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "ADD Oversized Byte",
			Input: `ADD V0, $100`,
			Error: &assembler.OversizedLiteralError{},
		},
		{
			Name:  "ADD Bad Argc",
			Input: `ADD V0`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
	})
}

// OR   [8xy1]
// AND  [8xy2]
// XOR  [8xy3]
// SUB  [8xy5]
// SUBN [8xy7]
// SHR  [8xy6]
// SHL  [8xyE]
func TestArithmetic(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "OR",
			Input:  `OR V1, V2`,
			Output: map[int]byte{0: 0x81, 1: 0x21},
		},
		{
			Name:   "AND",
			Input:  `AND V1, V2`,
			Output: map[int]byte{0: 0x81, 1: 0x22},
		},
		{
			Name:   "XOR",
			Input:  `XOR V1, V2`,
			Output: map[int]byte{0: 0x81, 1: 0x23},
		},
		{
			Name:   "SUB",
			Input:  `SUB V1, V2`,
			Output: map[int]byte{0: 0x81, 1: 0x25},
		},
		{
			Name:   "SUBN",
			Input:  `SUBN V1, V2`,
			Output: map[int]byte{0: 0x81, 1: 0x27},
		},
		{
			Name:   "SHR",
			Input:  `SHR V4`,
			Output: map[int]byte{0: 0x84, 1: 0x06},
		},
		{
			Name:   "SHL",
			Input:  `SHL VA`,
			Output: map[int]byte{0: 0x8A, 1: 0x0E},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "OR Literal Operand",
			Input: `OR V1, $42`,
			Error: &assembler.InvalidOperandError{},
		},
		{
			Name:  "SHR Bad Argc",
			Input: `SHR V4, V5`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
	})
}

// LD — the destination operand selects the encoding
func TestLd(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "LD Byte",
			Input:  `LD V1, $42`,
			Output: map[int]byte{0: 0x61, 1: 0x42},
		},
		{
			Name:   "LD Register",
			Input:  `LD V1, V2`,
			Output: map[int]byte{0: 0x81, 1: 0x20},
		},
		{
			Name:   "LD Address",
			Input:  `LD I, $220`,
			Output: map[int]byte{0: 0xA2, 1: 0x20},
		},
		{
			Name:   "LD Address Label",
			Input:  "LD I, sprite\nsprite .byte $F0",
			Output: map[int]byte{0: 0xA2, 1: 0x02, 2: 0xF0},
		},
		{
			Name:   "LD From Delay",
			Input:  `LD V1, DT`,
			Output: map[int]byte{0: 0xF1, 1: 0x07},
		},
		{
			Name:   "LD Key",
			Input:  `LD V1, K`,
			Output: map[int]byte{0: 0xF1, 1: 0x0A},
		},
		{
			Name:   "LD Delay",
			Input:  `LD DT, V1`,
			Output: map[int]byte{0: 0xF1, 1: 0x15},
		},
		{
			Name:   "LD Sound",
			Input:  `LD ST, V1`,
			Output: map[int]byte{0: 0xF1, 1: 0x18},
		},
		{
			Name:   "LD Font",
			Input:  `LD F, V1`,
			Output: map[int]byte{0: 0xF1, 1: 0x29},
		},
		{
			Name:   "LD Bcd",
			Input:  `LD B, V1`,
			Output: map[int]byte{0: 0xF1, 1: 0x33},
		},
		{
			Name:   "LD Store",
			Input:  `LD [I], V5`,
			Output: map[int]byte{0: 0xF5, 1: 0x55},
		},
		{
			Name:   "LD Load",
			Input:  `LD V5, [I]`,
			Output: map[int]byte{0: 0xF5, 1: 0x65},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "LD Bad Destination",
			Input: `LD $42, V1`,
			Error: &assembler.InvalidOperandError{},
		},
		{
			Name:  "LD Bad Source",
			Input: `LD V1, VG`,
			Error: &assembler.InvalidRegisterError{},
		},
		{
			Name:  "LD Bad Argc",
			Input: `LD V1`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
	})
}

// RND  [Cxkk]
// DRW  [Dxyn]
func TestRndDrw(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "RND",
			Input:  `RND V3, $0F`,
			Output: map[int]byte{0: 0xC3, 1: 0x0F},
		},
		{
			Name:   "DRW",
			Input:  `DRW V0, V1, $5`,
			Output: map[int]byte{0: 0xD0, 1: 0x15},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "DRW Oversized Height",
			Input: `DRW V0, V1, $10`,
			Error: &assembler.OversizedLiteralError{},
		},
		{
			Name:  "DRW Label Height",
			Input: `DRW V0, V1, label`,
			Error: &assembler.InvalidOperandError{},
		},
		{
			Name:  "DRW Bad Argc",
			Input: `DRW V0, V1`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
	})
}

func TestDirectives(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "Byte",
			Input:  `.byte $F0, $90, $F0`,
			Output: map[int]byte{0: 0xF0, 1: 0x90, 2: 0xF0},
		},
		{
			Name:   "Word",
			Input:  `.word $1234`,
			Output: map[int]byte{0: 0x12, 1: 0x34},
		},
		{
			Name:   "Word Label",
			Input:  "table .word table",
			Output: map[int]byte{0: 0x02, 1: 0x00},
		},
		{
			Name:   "End",
			Input:  "CLS\n.end\nCLS",
			Output: map[int]byte{0: 0x00, 1: 0xE0},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "Byte Oversized",
			Input: `.byte $100`,
			Error: &assembler.OversizedLiteralError{},
		},
		{
			Name:  "Byte Bad Argc",
			Input: `.byte`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
		{
			Name:  "End Bad Argc",
			Input: `.end $200`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
	})
}

func TestParsing(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "Comments",
			Input:  "; leading comment\nCLS ; trailing comment",
			Output: map[int]byte{0: 0x00, 1: 0xE0},
		},
		{
			Name:   "Case Insensitive",
			Input:  `ld i, $220`,
			Output: map[int]byte{0: 0xA2, 1: 0x20},
		},
		{
			Name:   "Blank Lines",
			Input:  "\n\nCLS\n\n",
			Output: map[int]byte{0: 0x00, 1: 0xE0},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "Unknown Identifier",
			Input: `FROB V1, V2`,
			Error: &assembler.UnknownIdentifierError{},
		},
		{
			Name:  "Redeclared Label",
			Input: "here CLS\nhere RET",
			Error: &assembler.RedeclaredLabelError{},
		},
		{
			Name:  "Unexpected Character",
			Input: `CLS @`,
			Error: &assembler.UnexpectedCharacterError{},
		},
		{
			Name:  "Trailing Comma",
			Input: `LD V1,`,
			Error: &assembler.UnexpectedCharacterError{},
		},
	})
}

func TestSymTable(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:  "Labels And Lines",
			Input: "start CLS\nJP start",
			Output: map[int]byte{
				0: 0x00, 1: 0xE0,
				2: 0x12, 3: 0x00,
			},
			SymTable: &assembler.SymTable{
				Symbols: map[uint16]int64{
					0x200: 0,
					0x202: 10,
				},
				Labels: map[uint16]string{
					0x200: "start",
				},
			},
		},
	})
}
