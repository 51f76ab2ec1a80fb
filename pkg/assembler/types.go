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
	"fmt"
)

type Format uint
type OperandType uint
type ImmediateType uint
type ErrorKind uint
type Opcode uint
type Register uint8

// Source position of a token. Line and Column are 1-based, Byte is the
// absolute offset of the token and LineByte the offset of its line.
type Cursor struct {
	Line     int
	Column   int
	Byte     int64
	Size     int64
	LineByte int64
}

// Debugging information produced alongside a Program
type SymTable struct {
	Source string
	Labels map[string]int32
	Lines  map[uint32]int64
}

func newSymTable() *SymTable {
	return &SymTable{
		Labels: make(map[string]int32),
		Lines:  make(map[uint32]int64),
	}
}

// Label bound to addr, if any. When several labels share an address the
// lexically smallest wins.
func (st *SymTable) LabelAt(addr uint32) (string, bool) {
	var result string
	var found bool

	for label, value := range st.Labels {
		if uint32(value) != addr {
			continue
		}

		if !found || label < result {
			result = label
			found = true
		}
	}

	return result, found
}

// Address to label map, resolving shared addresses like LabelAt
func (st *SymTable) ByAddress() map[uint32]string {
	result := make(map[uint32]string, len(st.Labels))

	for label, value := range st.Labels {
		addr := uint32(value)

		if other, exists := result[addr]; !exists || label < other {
			result[addr] = label
		}
	}

	return result
}

type TokenError interface {
	error
	GetPosition() Cursor
	Kind() ErrorKind
}

func (format Format) String() string {
	switch format {
	case FORMAT_R:
		return "R"
	case FORMAT_I:
		return "I"
	case FORMAT_S:
		return "S"
	case FORMAT_B:
		return "B"
	}

	return "<invalid>"
}

func (kind ErrorKind) String() string {
	switch kind {
	case ERROR_SYNTAX:
		return "Syntax error"
	case ERROR_INVALID_INSTRUCTION:
		return "Invalid instruction"
	case ERROR_INVALID_OPCODE:
		return "Invalid opcode"
	case ERROR_INVALID_REGISTER:
		return "Invalid register"
	case ERROR_INVALID_IMMEDIATE:
		return "Invalid immediate"
	case ERROR_INVALID_PSEUDO:
		return "Invalid pseudo-instruction"
	case ERROR_UNKNOWN_SYMBOL:
		return "Unknown symbol"
	case ERROR_REDECLARED_LABEL:
		return "Redeclared label"
	}

	return "<invalid>"
}

type UnexpectedCharacterError struct {
	Position Cursor
	Received rune
}

func (err *UnexpectedCharacterError) GetPosition() Cursor {
	return err.Position
}

func (err *UnexpectedCharacterError) Kind() ErrorKind {
	return ERROR_SYNTAX
}

func (err *UnexpectedCharacterError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unexpected character %q",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type InvalidInstructionError struct {
	Position Cursor
	Required int
	Received int
}

func (err *InvalidInstructionError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidInstructionError) Kind() ErrorKind {
	return ERROR_INVALID_INSTRUCTION
}

func (err *InvalidInstructionError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid number of operands\n\twant:%d\n\thave:%d",
		err.Position.Line,
		err.Position.Column,
		err.Required,
		err.Received,
	)
}

type UnknownOpcodeError struct {
	Position Cursor
	Received string
}

func (err *UnknownOpcodeError) GetPosition() Cursor {
	return err.Position
}

func (err *UnknownOpcodeError) Kind() ErrorKind {
	return ERROR_INVALID_OPCODE
}

func (err *UnknownOpcodeError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unknown mnemonic '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type InvalidRegisterError struct {
	Position Cursor
	Received string
}

func (err *InvalidRegisterError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidRegisterError) Kind() ErrorKind {
	return ERROR_INVALID_REGISTER
}

func (err *InvalidRegisterError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid register identifier '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type InvalidLiteralError struct {
	Position Cursor
}

func (err *InvalidLiteralError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidLiteralError) Kind() ErrorKind {
	return ERROR_INVALID_IMMEDIATE
}

func (err *InvalidLiteralError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid numeric literal",
		err.Position.Line,
		err.Position.Column,
	)
}

type InvalidPseudoError struct {
	Position Cursor
	Received string
}

func (err *InvalidPseudoError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidPseudoError) Kind() ErrorKind {
	return ERROR_INVALID_PSEUDO
}

func (err *InvalidPseudoError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid operands for pseudo-instruction '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type UnknownLabelError struct {
	Position Cursor
	Received string
}

func (err *UnknownLabelError) GetPosition() Cursor {
	return err.Position
}

func (err *UnknownLabelError) Kind() ErrorKind {
	return ERROR_UNKNOWN_SYMBOL
}

func (err *UnknownLabelError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unknown label '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type RedeclaredLabelError struct {
	Position Cursor
	Received string
}

func (err *RedeclaredLabelError) GetPosition() Cursor {
	return err.Position
}

func (err *RedeclaredLabelError) Kind() ErrorKind {
	return ERROR_REDECLARED_LABEL
}

func (err *RedeclaredLabelError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Redeclaration of label '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}
