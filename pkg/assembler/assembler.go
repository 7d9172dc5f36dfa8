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

package assembler

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/lassandro/gochip8/pkg/encoding"
	"github.com/lassandro/gochip8/pkg/isa"
	"github.com/lassandro/gochip8/pkg/machine"
)

func parseDirective(ident string) DirectiveType {
	if strings.EqualFold(ident, ".BYTE") {
		return DIRECTIVE_BYTE
	} else if strings.EqualFold(ident, ".WORD") {
		return DIRECTIVE_WORD
	} else if strings.EqualFold(ident, ".END") {
		return DIRECTIVE_END
	}

	return DIRECTIVE_INVALID
}

func parseInstruction(ident string) InstructionType {
	if strings.EqualFold(ident, "CLS") {
		return INSTRUCTION_CLS
	} else if strings.EqualFold(ident, "RET") {
		return INSTRUCTION_RET
	} else if strings.EqualFold(ident, "SYS") {
		return INSTRUCTION_SYS
	} else if strings.EqualFold(ident, "JP") {
		return INSTRUCTION_JP
	} else if strings.EqualFold(ident, "CALL") {
		return INSTRUCTION_CALL
	} else if strings.EqualFold(ident, "SE") {
		return INSTRUCTION_SE
	} else if strings.EqualFold(ident, "SNE") {
		return INSTRUCTION_SNE
	} else if strings.EqualFold(ident, "ADD") {
		return INSTRUCTION_ADD
	} else if strings.EqualFold(ident, "OR") {
		return INSTRUCTION_OR
	} else if strings.EqualFold(ident, "AND") {
		return INSTRUCTION_AND
	} else if strings.EqualFold(ident, "XOR") {
		return INSTRUCTION_XOR
	} else if strings.EqualFold(ident, "SUB") {
		return INSTRUCTION_SUB
	} else if strings.EqualFold(ident, "SHR") {
		return INSTRUCTION_SHR
	} else if strings.EqualFold(ident, "SUBN") {
		return INSTRUCTION_SUBN
	} else if strings.EqualFold(ident, "SHL") {
		return INSTRUCTION_SHL
	} else if strings.EqualFold(ident, "LD") {
		return INSTRUCTION_LD
	} else if strings.EqualFold(ident, "RND") {
		return INSTRUCTION_RND
	} else if strings.EqualFold(ident, "DRW") {
		return INSTRUCTION_DRW
	} else if strings.EqualFold(ident, "SKP") {
		return INSTRUCTION_SKP
	} else if strings.EqualFold(ident, "SKNP") {
		return INSTRUCTION_SKNP
	}

	return INSTRUCTION_INVALID
}

func parseRegister(token *Token) (isa.Reg, bool) {
	ident := token.Value

	if len(ident) != 2 {
		return 0, false
	}

	if ident[0] != 'V' && ident[0] != 'v' {
		return 0, false
	}

	value, err := strconv.ParseUint(ident[1:], 16, 4)

	if err != nil {
		return 0, false
	}

	return isa.Reg(value), true
}

func parseSpecial(token *Token) SpecialType {
	ident := token.Value

	if strings.EqualFold(ident, "I") {
		return SPECIAL_I
	} else if strings.EqualFold(ident, "[I]") {
		return SPECIAL_I_INDIRECT
	} else if strings.EqualFold(ident, "DT") {
		return SPECIAL_DT
	} else if strings.EqualFold(ident, "ST") {
		return SPECIAL_ST
	} else if strings.EqualFold(ident, "K") {
		return SPECIAL_K
	} else if strings.EqualFold(ident, "F") {
		return SPECIAL_F
	} else if strings.EqualFold(ident, "B") {
		return SPECIAL_B
	}

	return SPECIAL_NONE
}

func parseLiteral(token *Token, bits LiteralType) (uint16, error) {
	if strings.ContainsAny(token.Value, "xX$") {
		result, err := encoding.DecodeHex(token.Value)

		if err != nil {
			return 0, &InvalidLiteralError{token.Position}
		}

		if bits < 16 {
			limit := uint16(1) << bits

			if result >= limit {
				return 0, &OversizedLiteralError{
					token.Position, limit - 1, result,
				}
			}
		}

		return result, nil
	} else {
		result, err := encoding.DecodeInt(token.Value)

		if err != nil {
			return 0, &InvalidLiteralError{token.Position}
		}

		if bits < 16 {
			limit := int16(1) << bits

			if result <= -limit/2 || result >= limit {
				return 0, &OversizedLiteralError{
					token.Position, limit - 1, result,
				}
			}
		}

		return uint16(result) & ((1 << bits) - 1), nil
	}
}

func AssembleChip8Source(input io.Reader, symtable *SymTable) (result []byte, errs []error) {
	type LabelRef struct {
		Label    string
		Offset   uint32
		Size     LiteralType
		Position Cursor
	}

	var labels = make(map[string]uint16)
	var labelRefs []LabelRef

	// Byte offset within the image; the load address is PROGRAM_START
	// plus the offset
	var program uint32 = 0

	var builder strings.Builder
	var scanner = bufio.NewScanner(input)

	var cursor = Cursor{Line: 1, Column: 0, Size: 0, Byte: 0}

	result = make([]byte, machine.MAX_PROGRAM_SIZE)
	errs = make([]error, 0)

	emit := func(word uint16) bool {
		if int(program)+2 > len(result) {
			errs = append(errs, &OversizedBinaryError{})
			return false
		}

		result[program] = byte(word >> 8)
		result[program+1] = byte(word)
		program += 2

		return true
	}

	register := func(op *Token) (isa.Reg, bool) {
		if op.Type != TOKEN_IDENT {
			errs = append(
				errs,
				&InvalidOperandError{
					op.Position,
					[]TokenType{TOKEN_IDENT},
					op.Type,
				},
			)

			return 0, false
		}

		reg, ok := parseRegister(op)

		if !ok {
			errs = append(errs, &InvalidRegisterError{op.Position})
			return 0, false
		}

		return reg, true
	}

	// Label operands resolve to zero here and are patched once every
	// label address is known
	address := func(op *Token) (isa.Addr, bool) {
		if op.Type == TOKEN_LITERAL {
			literal, err := parseLiteral(op, LITERAL_ADDR)

			if err != nil {
				errs = append(errs, err)
				return 0, false
			}

			return isa.Addr(literal), true
		} else if op.Type == TOKEN_IDENT {
			labelRefs = append(
				labelRefs,
				LabelRef{op.Value, program, LITERAL_ADDR, op.Position},
			)

			return 0, true
		}

		errs = append(
			errs,
			&InvalidOperandError{
				op.Position,
				[]TokenType{TOKEN_LITERAL, TOKEN_IDENT},
				op.Type,
			},
		)

		return 0, false
	}

	byteLit := func(op *Token) (byte, bool) {
		if op.Type != TOKEN_LITERAL {
			errs = append(
				errs,
				&InvalidOperandError{
					op.Position,
					[]TokenType{TOKEN_LITERAL},
					op.Type,
				},
			)

			return 0, false
		}

		literal, err := parseLiteral(op, LITERAL_BYTE)

		if err != nil {
			errs = append(errs, err)
			return 0, false
		}

		return byte(literal), true
	}

	// Process:
	// - Parse line
	// - Assemble line
	for scanner.Scan() {
		var tokens = make([]Token, 0, 5)
		var tokenStart int = 0
		var tokenType TokenType = TOKEN_NONE

		var lineErrs = len(errs)

		line := scanner.Text()
		builder.Grow(len(line))

		cursor.Size = int64(len(line))

		// Parse Line:
		// - Gather tokens and their types
		// - Check for syntax errors
		for column, char := range line {
			cursor.Column = column + 1

			var flush bool = false
			var skip bool = false

			if tokenType == TOKEN_NONE {
				tokenStart = cursor.Column
			}

			switch {
			// Whitespace
			case unicode.IsSpace(char):
				if tokenType == TOKEN_NONE {
					continue
				}

				flush = true

			// Comments
			case char == ';':
				skip = true

				if tokenType != TOKEN_NONE {
					flush = true
				}

			// Assembler Directives
			case char == '.':
				if tokenType == TOKEN_NONE {
					tokenType = TOKEN_DIRECTIVE
				} else {
					errs = append(errs, &UnexpectedCharacterError{cursor, char})
				}

			// Operand Separator
			case char == ',':
				flush = true

			// Label Terminator
			case char == ':':
				if tokenType == TOKEN_NONE {
					errs = append(errs, &UnexpectedCharacterError{cursor, char})
				}

				flush = true

			// Hex Literal (i.e. $2A0, 0x2A0)
			case char == '$':
				if tokenType == TOKEN_NONE {
					tokenType = TOKEN_LITERAL
				} else {
					errs = append(errs, &UnexpectedCharacterError{cursor, char})
				}

			// Base 10 Literal (i.e. #42)
			case char == '#':
				if tokenType == TOKEN_NONE {
					tokenType = TOKEN_LITERAL
				} else {
					errs = append(errs, &UnexpectedCharacterError{cursor, char})
				}

			// Numeric Literal
			case unicode.IsDigit(char):
				if tokenType == TOKEN_NONE {
					tokenType = TOKEN_LITERAL
				}

			// Numeric Sign
			case char == '-':
				if tokenType != TOKEN_LITERAL {
					errs = append(errs, &UnexpectedCharacterError{cursor, char})
				}

			// Register Indirection (i.e. [I])
			case char == '[':
				if tokenType == TOKEN_NONE {
					tokenType = TOKEN_IDENT
				} else {
					errs = append(errs, &UnexpectedCharacterError{cursor, char})
				}

			case char == ']':
				if tokenType != TOKEN_IDENT {
					errs = append(errs, &UnexpectedCharacterError{cursor, char})
				}

			// Underscore'd Identifier
			case char == '_':
				if tokenType == TOKEN_NONE {
					tokenType = TOKEN_IDENT
				} else if tokenType != TOKEN_IDENT {
					errs = append(errs, &UnexpectedCharacterError{cursor, char})
				}

			// Identifier
			case unicode.IsLetter(char):
				if char > unicode.MaxASCII {
					errs = append(errs, &OversizedCharacterError{cursor})
				}

				if tokenType == TOKEN_NONE {
					tokenType = TOKEN_IDENT
				}

			default:
				if char > unicode.MaxASCII {
					errs = append(errs, &OversizedCharacterError{cursor})
				}

				errs = append(errs, &UnexpectedCharacterError{cursor, char})
			}

			if !flush && !skip {
				builder.WriteRune(char)
			}

			if cursor.Column == len(line) {
				if char == ',' {
					errs = append(errs, &UnexpectedCharacterError{cursor, char})
				}

				flush = true
			}

			if flush && builder.Len() > 0 {
				var token Token
				token.Position = Cursor{
					Line:     cursor.Line,
					Column:   tokenStart,
					Byte:     cursor.Byte + int64(tokenStart-1),
					Size:     int64(builder.Len()),
					LineByte: cursor.Byte,
				}
				token.Type = tokenType
				token.Value = builder.String()
				tokens = append(tokens, token)
				builder.Reset()
			}

			if flush {
				tokenType = TOKEN_NONE
			}

			if skip {
				break
			}
		}

		builder.Reset()

		if len(tokens) == 0 {
			cursor.Line++
			cursor.Byte += int64(len(line) + 1)
			cursor.LineByte += int64(len(line) + 1)
			continue
		}

		// Pass any potential assembler errors if we already had parser errors
		if len(errs) > lineErrs {
			cursor.Line++
			cursor.Byte += int64(len(line) + 1)
			cursor.LineByte += int64(len(line) + 1)
			continue
		}

		// Assemble line
		// - Write instruction bytes to result
		// - Save label refs for unknown labels
		// - Type check instruction arguments
		var label *Token = nil
		var directive DirectiveType
		var instruction InstructionType
		var keyword *Token = nil
		var operands []Token

		if instruction = parseInstruction(tokens[0].Value); instruction != INSTRUCTION_INVALID {
			keyword = &tokens[0]

			if len(tokens) > 1 {
				operands = tokens[1:]
			}
		} else if directive = parseDirective(tokens[0].Value); directive != DIRECTIVE_INVALID {
			keyword = &tokens[0]

			if len(tokens) > 1 {
				operands = tokens[1:]
			}
		} else {
			label = &tokens[0]
		}

		if label != nil {
			if _, exists := labels[label.Value]; !exists {
				labels[label.Value] = machine.PROGRAM_START + uint16(program)
			} else {
				errs = append(
					errs, &RedeclaredLabelError{label.Position, label.Value},
				)
			}

			// No need to assemble label-only statements
			if len(tokens) == 1 {
				cursor.Line++
				cursor.Byte += int64(len(line) + 1)
				cursor.LineByte += int64(len(line) + 1)
				continue
			}

			if instruction = parseInstruction(tokens[1].Value); instruction != INSTRUCTION_INVALID {
				keyword = &tokens[1]

				if len(tokens) > 2 {
					operands = tokens[2:]
				}
			} else if directive = parseDirective(tokens[1].Value); directive != DIRECTIVE_INVALID {
				keyword = &tokens[1]

				if len(tokens) > 2 {
					operands = tokens[2:]
				}
			}
		}

		if keyword == nil {
			errs = append(
				errs,
				&UnknownIdentifierError{tokens[0].Position, tokens[0].Value},
			)
		}

		if directive == DIRECTIVE_END {
			if count := len(operands); count != 0 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 0, count},
				)
			}

			break
		}

		lineStart := program

		switch directive {
		// .BYTE # [, # ...]
		case DIRECTIVE_BYTE:
			if count := len(operands); count < 1 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 1, count},
				)

				break
			}

			for i := range operands {
				literal, ok := byteLit(&operands[i])

				if !ok {
					continue
				}

				if int(program) >= len(result) {
					errs = append(errs, &OversizedBinaryError{})
					return
				}

				result[program] = literal
				program++
			}

		// .WORD # [, # ...]
		case DIRECTIVE_WORD:
			if count := len(operands); count < 1 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 1, count},
				)

				break
			}

			for i := range operands {
				if operands[i].Type == TOKEN_LITERAL {
					literal, err := parseLiteral(&operands[i], LITERAL_WORD)

					if err != nil {
						errs = append(errs, err)
					}

					if !emit(literal) {
						return
					}
				} else if operands[i].Type == TOKEN_IDENT {
					labelRefs = append(
						labelRefs,
						LabelRef{
							operands[i].Value,
							program,
							LITERAL_WORD,
							operands[i].Position,
						},
					)

					if !emit(0) {
						return
					}
				} else {
					errs = append(
						errs,
						&InvalidOperandError{
							operands[i].Position,
							[]TokenType{TOKEN_LITERAL, TOKEN_IDENT},
							operands[i].Type,
						},
					)
				}
			}
		}

		var inst isa.Instruction = nil

		switch instruction {
		// CLS  [00E0]
		case INSTRUCTION_CLS:
			if count := len(operands); count != 0 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 0, count},
				)

				break
			}

			inst = isa.Cls{}

		// RET  [00EE]
		case INSTRUCTION_RET:
			if count := len(operands); count != 0 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 0, count},
				)

				break
			}

			inst = isa.Ret{}

		// SYS  [0nnn]
		case INSTRUCTION_SYS:
			if count := len(operands); count != 1 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 1, count},
				)

				break
			}

			if addr, ok := address(&operands[0]); ok {
				inst = isa.Sys{Addr: addr}
			}

		// JP   [1nnn] Absolute jump
		// JP   [Bnnn] Jump with V0 offset
		case INSTRUCTION_JP:
			if count := len(operands); count == 1 {
				if addr, ok := address(&operands[0]); ok {
					inst = isa.Jp{Addr: addr}
				}
			} else if count == 2 {
				reg, ok := register(&operands[0])

				if !ok {
					break
				}

				if reg != 0 {
					errs = append(
						errs, &InvalidRegisterError{operands[0].Position},
					)

					break
				}

				if addr, ok := address(&operands[1]); ok {
					inst = isa.JpV0{Addr: addr}
				}
			} else {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 1, count},
				)
			}

		// CALL [2nnn]
		case INSTRUCTION_CALL:
			if count := len(operands); count != 1 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 1, count},
				)

				break
			}

			if addr, ok := address(&operands[0]); ok {
				inst = isa.Call{Addr: addr}
			}

		// SE   [3xkk] Skip on byte equality
		// SE   [5xy0] Skip on register equality
		// SNE  [4xkk] / [9xy0]
		case INSTRUCTION_SE, INSTRUCTION_SNE:
			if count := len(operands); count != 2 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 2, count},
				)

				break
			}

			x, ok := register(&operands[0])

			if !ok {
				break
			}

			if operands[1].Type == TOKEN_IDENT {
				y, ok := register(&operands[1])

				if !ok {
					break
				}

				if instruction == INSTRUCTION_SE {
					inst = isa.SeReg{X: x, Y: y}
				} else {
					inst = isa.SneReg{X: x, Y: y}
				}
			} else {
				kk, ok := byteLit(&operands[1])

				if !ok {
					break
				}

				if instruction == INSTRUCTION_SE {
					inst = isa.SeByte{X: x, Byte: kk}
				} else {
					inst = isa.SneByte{X: x, Byte: kk}
				}
			}

		// ADD  [7xkk] Immediate addition
		// ADD  [8xy4] Register addition
		// ADD  [Fx1E] Address register addition
		case INSTRUCTION_ADD:
			if count := len(operands); count != 2 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 2, count},
				)

				break
			}

			if operands[0].Type == TOKEN_IDENT &&
				parseSpecial(&operands[0]) == SPECIAL_I {
				if x, ok := register(&operands[1]); ok {
					inst = isa.AddI{X: x}
				}

				break
			}

			x, ok := register(&operands[0])

			if !ok {
				break
			}

			if operands[1].Type == TOKEN_IDENT {
				if y, ok := register(&operands[1]); ok {
					inst = isa.AddReg{X: x, Y: y}
				}
			} else {
				if kk, ok := byteLit(&operands[1]); ok {
					inst = isa.AddByte{X: x, Byte: kk}
				}
			}

		// OR   [8xy1]
		// AND  [8xy2]
		// XOR  [8xy3]
		// SUB  [8xy5]
		// SUBN [8xy7]
		case INSTRUCTION_OR,
			INSTRUCTION_AND,
			INSTRUCTION_XOR,
			INSTRUCTION_SUB,
			INSTRUCTION_SUBN:
			if count := len(operands); count != 2 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 2, count},
				)

				break
			}

			x, ok := register(&operands[0])

			if !ok {
				break
			}

			y, ok := register(&operands[1])

			if !ok {
				break
			}

			switch instruction {
			case INSTRUCTION_OR:
				inst = isa.Or{X: x, Y: y}
			case INSTRUCTION_AND:
				inst = isa.And{X: x, Y: y}
			case INSTRUCTION_XOR:
				inst = isa.Xor{X: x, Y: y}
			case INSTRUCTION_SUB:
				inst = isa.Sub{X: x, Y: y}
			case INSTRUCTION_SUBN:
				inst = isa.Subn{X: x, Y: y}
			}

		// SHR  [8xy6]
		// SHL  [8xyE]
		case INSTRUCTION_SHR, INSTRUCTION_SHL:
			if count := len(operands); count != 1 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 1, count},
				)

				break
			}

			x, ok := register(&operands[0])

			if !ok {
				break
			}

			if instruction == INSTRUCTION_SHR {
				inst = isa.Shr{X: x}
			} else {
				inst = isa.Shl{X: x}
			}

		// LD   [6xkk] [8xy0] [Annn] [Fx07] [Fx0A] [Fx15] [Fx18] [Fx29]
		//      [Fx33] [Fx55] [Fx65]
		// The destination operand selects the form
		case INSTRUCTION_LD:
			if count := len(operands); count != 2 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 2, count},
				)

				break
			}

			var special SpecialType = SPECIAL_NONE

			if operands[0].Type == TOKEN_IDENT {
				special = parseSpecial(&operands[0])
			}

			switch special {
			// LD I, addr [Annn]
			case SPECIAL_I:
				if addr, ok := address(&operands[1]); ok {
					inst = isa.LdI{Addr: addr}
				}

			// LD [I], Vx [Fx55]
			case SPECIAL_I_INDIRECT:
				if x, ok := register(&operands[1]); ok {
					inst = isa.StoreRegs{X: x}
				}

			// LD DT, Vx [Fx15]
			case SPECIAL_DT:
				if x, ok := register(&operands[1]); ok {
					inst = isa.LdDelay{X: x}
				}

			// LD ST, Vx [Fx18]
			case SPECIAL_ST:
				if x, ok := register(&operands[1]); ok {
					inst = isa.LdSound{X: x}
				}

			// LD F, Vx [Fx29]
			case SPECIAL_F:
				if x, ok := register(&operands[1]); ok {
					inst = isa.LdFont{X: x}
				}

			// LD B, Vx [Fx33]
			case SPECIAL_B:
				if x, ok := register(&operands[1]); ok {
					inst = isa.LdBcd{X: x}
				}

			default:
				x, ok := register(&operands[0])

				if !ok {
					break
				}

				if operands[1].Type == TOKEN_LITERAL {
					// LD Vx, byte [6xkk]
					if kk, ok := byteLit(&operands[1]); ok {
						inst = isa.LdByte{X: x, Byte: kk}
					}

					break
				}

				switch parseSpecial(&operands[1]) {
				// LD Vx, DT [Fx07]
				case SPECIAL_DT:
					inst = isa.LdFromDelay{X: x}

				// LD Vx, K [Fx0A]
				case SPECIAL_K:
					inst = isa.LdKey{X: x}

				// LD Vx, [I] [Fx65]
				case SPECIAL_I_INDIRECT:
					inst = isa.LoadRegs{X: x}

				// LD Vx, Vy [8xy0]
				default:
					if y, ok := register(&operands[1]); ok {
						inst = isa.LdReg{X: x, Y: y}
					}
				}
			}

		// RND  [Cxkk]
		case INSTRUCTION_RND:
			if count := len(operands); count != 2 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 2, count},
				)

				break
			}

			x, ok := register(&operands[0])

			if !ok {
				break
			}

			if kk, ok := byteLit(&operands[1]); ok {
				inst = isa.Rnd{X: x, Byte: kk}
			}

		// DRW  [Dxyn]
		case INSTRUCTION_DRW:
			if count := len(operands); count != 3 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 3, count},
				)

				break
			}

			x, ok := register(&operands[0])

			if !ok {
				break
			}

			y, ok := register(&operands[1])

			if !ok {
				break
			}

			if operands[2].Type != TOKEN_LITERAL {
				errs = append(
					errs,
					&InvalidOperandError{
						operands[2].Position,
						[]TokenType{TOKEN_LITERAL},
						operands[2].Type,
					},
				)

				break
			}

			n, err := parseLiteral(&operands[2], LITERAL_NIBBLE)

			if err != nil {
				errs = append(errs, err)
				break
			}

			inst = isa.Drw{X: x, Y: y, N: byte(n)}

		// SKP  [Ex9E]
		// SKNP [ExA1]
		case INSTRUCTION_SKP, INSTRUCTION_SKNP:
			if count := len(operands); count != 1 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 1, count},
				)

				break
			}

			x, ok := register(&operands[0])

			if !ok {
				break
			}

			if instruction == INSTRUCTION_SKP {
				inst = isa.Skp{X: x}
			} else {
				inst = isa.Sknp{X: x}
			}
		}

		if inst != nil {
			if !emit(isa.Encode(inst)) {
				return
			}
		}

		if symtable != nil && program > lineStart {
			addr := machine.PROGRAM_START + uint16(lineStart)
			symtable.Symbols[addr] = cursor.LineByte
		}

		cursor.Line++
		cursor.Byte += int64(len(line) + 1)
		cursor.LineByte += int64(len(line) + 1)
	}

	// Label
	// - Validate and resolve label references
	// - Add labels to symbol table
	for _, ref := range labelRefs {
		addr, exists := labels[ref.Label]

		if !exists {
			errs = append(errs, &UnknownLabelError{ref.Position, ref.Label})
			continue
		}

		if ref.Size == LITERAL_WORD {
			result[ref.Offset] = byte(addr >> 8)
			result[ref.Offset+1] = byte(addr)
		} else {
			result[ref.Offset] |= byte(addr>>8) & 0x0F
			result[ref.Offset+1] = byte(addr)
		}
	}

	if symtable != nil {
		for label, addr := range labels {
			symtable.Labels[addr] = label
		}
	}

	result = result[:program]

	return
}
