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

type resolver interface {
	ResolveImmediate(imm Immediate) (int32, error)
}

// Operand payload of an instruction, one implementation per Format
type Operands interface {
	Format() Format
	encode(op Opcode, addr uint32, symbols resolver) (uint32, error)
}

type Instruction struct {
	Opcode   Opcode
	Operands Operands

	// Mnemonic as written; for pseudo-instructions the pseudo's name
	Position Cursor
}

// Encodes the instruction as if it were placed at byte address addr
func (instr *Instruction) Encode(addr uint32, program *Program) (uint32, error) {
	fields, err := instr.Operands.encode(instr.Opcode, addr, program)

	if err != nil {
		return 0, err
	}

	return instr.Opcode.Mask() | fields, nil
}

// ADD  |funct7 |rs2  |rs1  |f3 |rd   |base   |
// ---- [31   25|24 20|19 15|14 12|11 7|6    0]
type OperandsR struct {
	Rd  Register
	Rs1 Register
	Rs2 Register
}

func (o OperandsR) Format() Format {
	return FORMAT_R
}

func (o OperandsR) encode(op Opcode, addr uint32, symbols resolver) (uint32, error) {
	return o.Rs2.code(20) | o.Rs1.code(15) | o.Rd.code(7), nil
}

// ADDI |imm[11:0]    |rs1  |f3 |rd   |base   |
// SLLI |funct7 |shamt|rs1  |f3 |rd   |base   |
// ---- [31         20|19 15|14 12|11 7|6    0]
type OperandsI struct {
	Rd  Register
	Rs  Register
	Imm Immediate
}

func (o OperandsI) Format() Format {
	return FORMAT_I
}

func (o OperandsI) encode(op Opcode, addr uint32, symbols resolver) (uint32, error) {
	value, err := symbols.ResolveImmediate(o.Imm)

	if err != nil {
		return 0, err
	}

	var imm uint32

	if op.IsShift() {
		imm = encoding.Mask(value, 5)
	} else {
		imm = encoding.Mask(value, 12)
	}

	return (imm << 20) | o.Rs.code(15) | o.Rd.code(7), nil
}

// SW   |imm[11:5]|rs2|rs1  |f3 |imm[4:0]|base |
// ---- [31   25|24 20|19 15|14 12|11 7|6    0]
type OperandsS struct {
	Rs1 Register
	Rs2 Register
	Imm Immediate
}

func (o OperandsS) Format() Format {
	return FORMAT_S
}

func (o OperandsS) encode(op Opcode, addr uint32, symbols resolver) (uint32, error) {
	value, err := symbols.ResolveImmediate(o.Imm)

	if err != nil {
		return 0, err
	}

	imm := encoding.Mask(value, 12)

	return ((imm >> 5) << 25) |
		o.Rs2.code(20) |
		o.Rs1.code(15) |
		((imm & 0x1F) << 7), nil
}

// BEQ  |12|10:5 |rs2  |rs1  |f3 |4:1|11|base  |
// ---- [31|30 25|24 20|19 15|14 12|11 8|7|6  0]
type OperandsB struct {
	Rs1    Register
	Rs2    Register
	Target Immediate
}

func (o OperandsB) Format() Format {
	return FORMAT_B
}

// The target is an absolute byte address; the encoded immediate is its
// displacement from the branch itself.
func (o OperandsB) encode(op Opcode, addr uint32, symbols resolver) (uint32, error) {
	target, err := symbols.ResolveImmediate(o.Target)

	if err != nil {
		return 0, err
	}

	offset := encoding.Mask(target-int32(addr), 13)

	return (((offset >> 12) & 0x1) << 31) |
		(((offset >> 5) & 0x3F) << 25) |
		o.Rs2.code(20) |
		o.Rs1.code(15) |
		(((offset >> 1) & 0xF) << 8) |
		(((offset >> 11) & 0x1) << 7), nil
}

// Builds the payload for format from operands already checked against
// operandTypes(format)
func newOperands(format Format, ops []operand) Operands {
	switch format {
	case FORMAT_R:
		return OperandsR{Rd: ops[0].Reg, Rs1: ops[1].Reg, Rs2: ops[2].Reg}
	case FORMAT_I:
		return OperandsI{Rd: ops[0].Reg, Rs: ops[1].Reg, Imm: ops[2].Imm}
	case FORMAT_S:
		return OperandsS{Rs1: ops[0].Reg, Rs2: ops[1].Reg, Imm: ops[2].Imm}
	case FORMAT_B:
		return OperandsB{Rs1: ops[0].Reg, Rs2: ops[1].Reg, Target: ops[2].Imm}
	}

	return nil
}
