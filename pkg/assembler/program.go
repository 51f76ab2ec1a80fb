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

import "strings"

// A parsed source file: its instructions in source order and the labels
// bound to their addresses. A Program is never modified after Parse returns.
type Program struct {
	source       string
	instructions []Instruction
	symbols      *SymTable
}

func (p *Program) Source() string {
	return p.source
}

// Number of instructions
func (p *Program) Len() int {
	return len(p.instructions)
}

func (p *Program) Instruction(i int) Instruction {
	return p.instructions[i]
}

func (p *Program) Instructions() []Instruction {
	result := make([]Instruction, len(p.instructions))
	copy(result, p.instructions)
	return result
}

// Copy of the program's debugging information
func (p *Program) SymTable() SymTable {
	result := SymTable{
		Source: p.symbols.Source,
		Labels: make(map[string]int32, len(p.symbols.Labels)),
		Lines:  make(map[uint32]int64, len(p.symbols.Lines)),
	}

	for label, addr := range p.symbols.Labels {
		result.Labels[label] = addr
	}

	for addr, offset := range p.symbols.Lines {
		result.Lines[addr] = offset
	}

	return result
}

// Source line that produced the instruction at addr
func (p *Program) Line(addr uint32) (string, bool) {
	start, exists := p.symbols.Lines[addr]

	if !exists {
		return "", false
	}

	line := p.source[start:]

	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	return line, true
}

// Address bound to a label. A lookup by name has no source span, so a
// failure carries a zero Cursor; ResolveImmediate reports the token position.
func (p *Program) Resolve(name string) (int32, error) {
	if addr, exists := p.symbols.Labels[name]; exists {
		return addr, nil
	}

	return 0, &UnknownLabelError{Received: name}
}

func (p *Program) ResolveImmediate(imm Immediate) (int32, error) {
	if imm.Type == IMMEDIATE_LITERAL {
		return imm.Value, nil
	}

	name := imm.Name(p.source)

	if addr, exists := p.symbols.Labels[name]; exists {
		return addr, nil
	}

	return 0, &UnknownLabelError{imm.Position, name}
}

// Encodes every instruction, in order. The instruction at index i sits at
// byte address i*WORD_SIZE. The first unresolved symbol aborts generation.
func (p *Program) Generate() ([]uint32, error) {
	result := make([]uint32, 0, len(p.instructions))

	for i := range p.instructions {
		addr := uint32(i) * WORD_SIZE
		word, err := p.instructions[i].Encode(addr, p)

		if err != nil {
			return nil, err
		}

		result = append(result, word)
	}

	return result, nil
}
