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
	"strings"
	"unicode/utf8"
)

type operand struct {
	Type     OperandType
	Reg      Register
	Imm      Immediate
	Position Cursor
}

type parser struct {
	source    string
	program   *Program
	line      int
	lineStart int
	lineEnd   int
	pos       int
}

// Parses source into a Program. Labels are bound while parsing; symbolic
// immediates stay unresolved until Generate.
func Parse(source string) (*Program, error) {
	program := &Program{
		source:  source,
		symbols: newSymTable(),
	}

	p := parser{source: source, program: program, line: 1}

	for p.lineStart <= len(source) {
		p.lineEnd = len(source)

		if i := strings.IndexByte(source[p.lineStart:], '\n'); i >= 0 {
			p.lineEnd = p.lineStart + i
		}

		p.pos = p.lineStart

		if err := p.parseLine(); err != nil {
			return nil, err
		}

		p.line++
		p.lineStart = p.lineEnd + 1
	}

	return program, nil
}

// Parses and encodes source in one call
func Assemble(source string) ([]uint32, error) {
	program, err := Parse(source)

	if err != nil {
		return nil, err
	}

	return program.Generate()
}

// Line:
// - [label ':'] [instruction] [comment]
// - a comment must be preceded by whitespace unless it starts the line
func (p *parser) parseLine() error {
	p.skipSpace()

	if p.atEnd() || p.peek() == '#' {
		return nil
	}

	start := p.pos
	name := p.scanIdent()

	if name != "" && p.peek() == ':' {
		p.pos++

		if err := p.bindLabel(name, p.cursor(start, p.pos-1)); err != nil {
			return err
		}

		spaces := p.skipSpace()

		if p.atEnd() {
			return nil
		}

		if spaces == 0 || p.peek() == '#' {
			p.pos -= spaces
			return p.finishLine()
		}

		start = p.pos
		name = p.scanIdent()
	}

	if name == "" {
		return p.unexpected()
	}

	instr, err := p.parseInstruction(name, p.cursor(start, p.pos))

	if err != nil {
		return err
	}

	addr := uint32(len(p.program.instructions)) * WORD_SIZE
	p.program.instructions = append(p.program.instructions, instr)
	p.program.symbols.Lines[addr] = int64(p.lineStart)

	return p.finishLine()
}

func (p *parser) bindLabel(name string, position Cursor) error {
	labels := p.program.symbols.Labels

	if _, exists := labels[name]; exists {
		return &RedeclaredLabelError{position, name}
	}

	labels[name] = int32(len(p.program.instructions) * WORD_SIZE)

	return nil
}

// Anything left on the line other than whitespace and a comment is an error
func (p *parser) finishLine() error {
	spaces := p.skipSpace()

	if p.atEnd() || (p.peek() == '#' && spaces > 0) {
		return nil
	}

	return p.unexpected()
}

// Instruction:
// - pseudo-instructions are tried before real opcodes
// - operands are separated by ',' with optional surrounding whitespace
func (p *parser) parseInstruction(mnemonic string, position Cursor) (Instruction, error) {
	if rule, ok := LookupPseudo(mnemonic); ok {
		return p.parsePseudo(rule, mnemonic, position)
	}

	op, ok := LookupOpcode(mnemonic)

	if !ok {
		return Instruction{}, &UnknownOpcodeError{position, mnemonic}
	}

	ops, err := p.parseOperands(operandTypes(op.Format()), position)

	if err != nil {
		return Instruction{}, err
	}

	return Instruction{
		Opcode:   op,
		Operands: newOperands(op.Format(), ops),
		Position: position,
	}, nil
}

func (p *parser) parsePseudo(rule PseudoRule, mnemonic string, position Cursor) (Instruction, error) {
	args, err := p.parseOperands(rule.Operands, position)

	if err != nil {
		switch err := err.(type) {
		case *InvalidInstructionError:
			return Instruction{}, &InvalidPseudoError{err.Position, mnemonic}
		case *InvalidRegisterError:
			// A literal where the pseudo takes a register
			if c := err.Received[0]; c == '-' || (c >= '0' && c <= '9') {
				return Instruction{}, &InvalidPseudoError{err.Position, mnemonic}
			}
		}

		return Instruction{}, err
	}

	// A register where the pseudo takes an immediate
	for i, operandType := range rule.Operands {
		if operandType != OPERAND_IMMEDIATE || !args[i].Imm.IsSymbol() {
			continue
		}

		if _, ok := LookupRegister(args[i].Imm.Name(p.source)); ok {
			return Instruction{}, &InvalidPseudoError{args[i].Position, mnemonic}
		}
	}

	if len(rule.Operands) == 0 {
		save := p.pos

		if p.skipSpace() > 0 && !p.atEnd() && p.peek() != '#' {
			return Instruction{}, &InvalidPseudoError{p.cursor(p.pos, p.lineEnd), mnemonic}
		}

		p.pos = save
	}

	format := rule.Opcode.Format()
	types := operandTypes(format)
	ops := make([]operand, len(types))

	for i, slot := range rule.Expand {
		if slot.Arg >= 0 {
			ops[i] = args[slot.Arg]
		} else if types[i] == OPERAND_REGISTER {
			ops[i] = operand{Type: OPERAND_REGISTER, Reg: Register(slot.Fixed)}
		} else {
			ops[i] = operand{Type: OPERAND_IMMEDIATE, Imm: LiteralImmediate(slot.Fixed)}
		}
	}

	return Instruction{
		Opcode:   rule.Opcode,
		Operands: newOperands(format, ops),
		Position: position,
	}, nil
}

func (p *parser) parseOperands(types []OperandType, mnemonic Cursor) ([]operand, error) {
	if len(types) == 0 {
		return nil, nil
	}

	result := make([]operand, 0, len(types))

	if p.skipSpace() == 0 && !p.atEnd() {
		return nil, p.unexpected()
	}

	for i, operandType := range types {
		if i > 0 {
			p.skipSpace()

			if p.peek() != ',' {
				return nil, p.missingOperand(len(types), i)
			}

			p.pos++
			p.skipSpace()
		}

		if p.atEnd() || p.peek() == '#' {
			return nil, p.missingOperand(len(types), i)
		}

		op, err := p.parseOperand(operandType)

		if err != nil {
			return nil, err
		}

		result = append(result, op)
	}

	// Surplus operands
	save := p.pos
	p.skipSpace()

	if p.peek() == ',' {
		extra := strings.Count(p.commentFree(), ",")

		return nil, &InvalidInstructionError{
			p.cursor(p.pos, p.pos+1), len(types), len(types) + extra,
		}
	}

	p.pos = save

	return result, nil
}

func (p *parser) missingOperand(required int, received int) error {
	if !p.atEnd() && p.peek() != '#' {
		return p.unexpected()
	}

	return &InvalidInstructionError{p.cursor(p.pos, p.pos), required, received}
}

func (p *parser) parseOperand(operandType OperandType) (operand, error) {
	start := p.pos

	if p.peek() == '-' {
		p.pos++
	}

	for !p.atEnd() && isIdentChar(p.peek()) {
		p.pos++
	}

	if p.pos == start {
		return operand{}, p.unexpected()
	}

	text := p.source[start:p.pos]
	position := p.cursor(start, p.pos)

	if operandType == OPERAND_REGISTER {
		reg, ok := LookupRegister(text)

		if !ok {
			return operand{}, &InvalidRegisterError{position, text}
		}

		return operand{Type: OPERAND_REGISTER, Reg: reg, Position: position}, nil
	}

	imm, err := parseImmediate(text, position)

	if err != nil {
		return operand{}, err
	}

	return operand{Type: OPERAND_IMMEDIATE, Imm: imm, Position: position}, nil
}

// -------
// Scanner
// -------

func (p *parser) atEnd() bool {
	return p.pos >= p.lineEnd
}

func (p *parser) peek() byte {
	if p.atEnd() {
		return 0
	}

	return p.source[p.pos]
}

func (p *parser) skipSpace() int {
	start := p.pos

	for !p.atEnd() {
		if c := p.peek(); c != ' ' && c != '\t' && c != '\r' {
			break
		}

		p.pos++
	}

	return p.pos - start
}

func (p *parser) scanIdent() string {
	start := p.pos

	if p.atEnd() || !isIdentStart(p.peek()) {
		return ""
	}

	for !p.atEnd() && isIdentChar(p.peek()) {
		p.pos++
	}

	return p.source[start:p.pos]
}

// Rest of the line up to a comment
func (p *parser) commentFree() string {
	rest := p.source[p.pos:p.lineEnd]

	if i := strings.Index(rest, " #"); i >= 0 {
		rest = rest[:i]
	}

	if i := strings.Index(rest, "\t#"); i >= 0 {
		rest = rest[:i]
	}

	return rest
}

func (p *parser) cursor(start int, end int) Cursor {
	return Cursor{
		Line:     p.line,
		Column:   start - p.lineStart + 1,
		Byte:     int64(start),
		Size:     int64(end - start),
		LineByte: int64(p.lineStart),
	}
}

func (p *parser) unexpected() error {
	char, size := utf8.DecodeRuneInString(p.source[p.pos:p.lineEnd])

	return &UnexpectedCharacterError{p.cursor(p.pos, p.pos+size), char}
}
