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
	"github.com/lassandro/rv32asm/pkg/encoding"
)

// An immediate operand. Literals carry their Value; symbols only carry the
// Position of their name, which is sliced back out of the source when the
// immediate is resolved.
type Immediate struct {
	Type     ImmediateType
	Value    int32
	Position Cursor
}

func LiteralImmediate(value int32) Immediate {
	return Immediate{Type: IMMEDIATE_LITERAL, Value: value}
}

func (imm Immediate) IsSymbol() bool {
	return imm.Type == IMMEDIATE_SYMBOL
}

// Symbol name of imm within source
func (imm Immediate) Name(source string) string {
	if imm.Type != IMMEDIATE_SYMBOL {
		return ""
	}

	start := imm.Position.Byte
	return source[start : start+imm.Position.Size]
}

// Classifies and decodes the text of an immediate token
func parseImmediate(text string, position Cursor) (Immediate, error) {
	if len(text) > 0 && isIdentStart(text[0]) {
		return Immediate{Type: IMMEDIATE_SYMBOL, Position: position}, nil
	}

	value, err := encoding.DecodeLiteral(text)

	if err != nil {
		return Immediate{}, &InvalidLiteralError{position}
	}

	return Immediate{
		Type:     IMMEDIATE_LITERAL,
		Value:    value,
		Position: position,
	}, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
