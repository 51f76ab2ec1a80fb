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

type opcodeInfo struct {
	Mnemonic string
	Format   Format
	Base     uint32
	Funct3   uint32
	Funct7   uint32

	// Shift immediates carry funct7 in imm[11:5] and a 5 bit shift amount
	Shift bool
}

// ADD  |funct7 |rs2  |rs1  |f3 |rd   |base   | R
// ADDI |imm[11:0]    |rs1  |f3 |rd   |base   | I
// SW   |imm[11:5]|rs2|rs1  |f3 |imm[4:0]|base| S
// BEQ  |imm[12|10:5]|rs2|rs1|f3|imm[4:1|11]|base| B
var opcodeTable = [opcodeCount]opcodeInfo{
	OPCODE_ADD:  {"add", FORMAT_R, BASE_OP, 0x0, 0x00, false},
	OPCODE_SUB:  {"sub", FORMAT_R, BASE_OP, 0x0, 0x20, false},
	OPCODE_XOR:  {"xor", FORMAT_R, BASE_OP, 0x4, 0x00, false},
	OPCODE_OR:   {"or", FORMAT_R, BASE_OP, 0x6, 0x00, false},
	OPCODE_AND:  {"and", FORMAT_R, BASE_OP, 0x7, 0x00, false},
	OPCODE_SLL:  {"sll", FORMAT_R, BASE_OP, 0x1, 0x00, false},
	OPCODE_SRL:  {"srl", FORMAT_R, BASE_OP, 0x5, 0x00, false},
	OPCODE_SRA:  {"sra", FORMAT_R, BASE_OP, 0x5, 0x20, false},
	OPCODE_SLT:  {"slt", FORMAT_R, BASE_OP, 0x2, 0x00, false},
	OPCODE_SLTU: {"sltu", FORMAT_R, BASE_OP, 0x3, 0x00, false},

	OPCODE_ADDI:  {"addi", FORMAT_I, BASE_OP_IMM, 0x0, 0x00, false},
	OPCODE_XORI:  {"xori", FORMAT_I, BASE_OP_IMM, 0x4, 0x00, false},
	OPCODE_ORI:   {"ori", FORMAT_I, BASE_OP_IMM, 0x6, 0x00, false},
	OPCODE_ANDI:  {"andi", FORMAT_I, BASE_OP_IMM, 0x7, 0x00, false},
	OPCODE_SLLI:  {"slli", FORMAT_I, BASE_OP_IMM, 0x1, 0x00, true},
	OPCODE_SRLI:  {"srli", FORMAT_I, BASE_OP_IMM, 0x5, 0x00, true},
	OPCODE_SRAI:  {"srai", FORMAT_I, BASE_OP_IMM, 0x5, 0x20, true},
	OPCODE_SLTI:  {"slti", FORMAT_I, BASE_OP_IMM, 0x2, 0x00, false},
	OPCODE_SLTIU: {"sltiu", FORMAT_I, BASE_OP_IMM, 0x3, 0x00, false},

	OPCODE_LB:   {"lb", FORMAT_I, BASE_LOAD, 0x0, 0x00, false},
	OPCODE_LH:   {"lh", FORMAT_I, BASE_LOAD, 0x1, 0x00, false},
	OPCODE_LW:   {"lw", FORMAT_I, BASE_LOAD, 0x2, 0x00, false},
	OPCODE_LBU:  {"lbu", FORMAT_I, BASE_LOAD, 0x4, 0x00, false},
	OPCODE_LHU:  {"lhu", FORMAT_I, BASE_LOAD, 0x5, 0x00, false},
	OPCODE_JALR: {"jalr", FORMAT_I, BASE_JALR, 0x0, 0x00, false},

	OPCODE_SB: {"sb", FORMAT_S, BASE_STORE, 0x0, 0x00, false},
	OPCODE_SH: {"sh", FORMAT_S, BASE_STORE, 0x1, 0x00, false},
	OPCODE_SW: {"sw", FORMAT_S, BASE_STORE, 0x2, 0x00, false},

	OPCODE_BEQ:  {"beq", FORMAT_B, BASE_BRANCH, 0x0, 0x00, false},
	OPCODE_BNE:  {"bne", FORMAT_B, BASE_BRANCH, 0x1, 0x00, false},
	OPCODE_BLT:  {"blt", FORMAT_B, BASE_BRANCH, 0x4, 0x00, false},
	OPCODE_BGE:  {"bge", FORMAT_B, BASE_BRANCH, 0x5, 0x00, false},
	OPCODE_BLTU: {"bltu", FORMAT_B, BASE_BRANCH, 0x6, 0x00, false},
	OPCODE_BGEU: {"bgeu", FORMAT_B, BASE_BRANCH, 0x7, 0x00, false},
}

var opcodes = make(map[string]Opcode, opcodeCount)

func init() {
	for op := OPCODE_INVALID + 1; op < opcodeCount; op++ {
		opcodes[opcodeTable[op].Mnemonic] = op
	}
}

// Looks up a real (non-pseudo) instruction by its exact mnemonic
func LookupOpcode(mnemonic string) (Opcode, bool) {
	op, ok := opcodes[mnemonic]
	return op, ok
}

// All valid opcodes in table order
func Opcodes() []Opcode {
	result := make([]Opcode, 0, opcodeCount-1)

	for op := OPCODE_INVALID + 1; op < opcodeCount; op++ {
		result = append(result, op)
	}

	return result
}

func (op Opcode) valid() bool {
	return op > OPCODE_INVALID && op < opcodeCount
}

func (op Opcode) String() string {
	if !op.valid() {
		return "<invalid>"
	}

	return opcodeTable[op].Mnemonic
}

func (op Opcode) Format() Format {
	return opcodeTable[op].Format
}

// Whether funct7 is part of the fixed bits: R-format and shift immediates
func (op Opcode) HasFunct7() bool {
	return op.Format() == FORMAT_R || op.IsShift()
}

func (op Opcode) IsShift() bool {
	return opcodeTable[op].Shift
}

// Base opcode, funct3 and funct7; funct7 is zero when HasFunct7 is false
func (op Opcode) FixedBits() (base uint32, funct3 uint32, funct7 uint32) {
	info := &opcodeTable[op]
	return info.Base & 0x7F, info.Funct3 & 0x7, info.Funct7 & 0x7F
}

// Fixed bits of the opcode laid out in their instruction word positions
func (op Opcode) Mask() uint32 {
	base, funct3, funct7 := op.FixedBits()
	return (funct7 << 25) | (funct3 << 12) | base
}

// Recovers the opcode of an encoded word from its fixed fields
func DecodeOpcode(word uint32) (Opcode, bool) {
	base := encoding.Field(word, 6, 0)
	funct3 := encoding.Field(word, 14, 12)
	funct7 := encoding.Field(word, 31, 25)

	for op := OPCODE_INVALID + 1; op < opcodeCount; op++ {
		b, f3, f7 := op.FixedBits()

		if b != base || f3 != funct3 {
			continue
		}

		if op.HasFunct7() && f7 != funct7 {
			continue
		}

		return op, true
	}

	return OPCODE_INVALID, false
}

// Operand kinds accepted, in source order, by each format
func operandTypes(format Format) []OperandType {
	switch format {
	case FORMAT_R:
		return []OperandType{OPERAND_REGISTER, OPERAND_REGISTER, OPERAND_REGISTER}
	default:
		return []OperandType{OPERAND_REGISTER, OPERAND_REGISTER, OPERAND_IMMEDIATE}
	}
}

// -------------------
// Pseudo-instructions
// -------------------

// One operand position of the real instruction a pseudo expands to: either
// the pseudo's Arg-th operand or, when Arg is negative, the constant Fixed
// (a register index or a literal, depending on the position).
type PseudoSlot struct {
	Arg   int
	Fixed int32
}

type PseudoRule struct {
	Opcode   Opcode
	Operands []OperandType
	Expand   [3]PseudoSlot
}

func arg(i int) PseudoSlot {
	return PseudoSlot{Arg: i}
}

func fixed(value int32) PseudoSlot {
	return PseudoSlot{Arg: -1, Fixed: value}
}

var (
	rr  = []OperandType{OPERAND_REGISTER, OPERAND_REGISTER}
	ri  = []OperandType{OPERAND_REGISTER, OPERAND_IMMEDIATE}
	rri = []OperandType{OPERAND_REGISTER, OPERAND_REGISTER, OPERAND_IMMEDIATE}
)

var pseudoTable = map[string]PseudoRule{
	"nop":  {OPCODE_ADDI, nil, [3]PseudoSlot{fixed(0), fixed(0), fixed(0)}},
	"mv":   {OPCODE_ADDI, rr, [3]PseudoSlot{arg(0), arg(1), fixed(0)}},
	"not":  {OPCODE_XORI, rr, [3]PseudoSlot{arg(0), arg(1), fixed(-1)}},
	"neg":  {OPCODE_SUB, rr, [3]PseudoSlot{arg(0), fixed(0), arg(1)}},
	"seqz": {OPCODE_SLTIU, rr, [3]PseudoSlot{arg(0), arg(1), fixed(1)}},
	"snez": {OPCODE_SLTU, rr, [3]PseudoSlot{arg(0), fixed(0), arg(1)}},
	"sltz": {OPCODE_SLT, rr, [3]PseudoSlot{arg(0), arg(1), fixed(0)}},
	"sgtz": {OPCODE_SLT, rr, [3]PseudoSlot{arg(0), fixed(0), arg(1)}},
	"li":   {OPCODE_ADDI, ri, [3]PseudoSlot{arg(0), fixed(0), arg(1)}},
	"beqz": {OPCODE_BEQ, ri, [3]PseudoSlot{arg(0), fixed(0), arg(1)}},
	"bnez": {OPCODE_BNE, ri, [3]PseudoSlot{arg(0), fixed(0), arg(1)}},
	"blez": {OPCODE_BGE, ri, [3]PseudoSlot{fixed(0), arg(0), arg(1)}},
	"bgez": {OPCODE_BGE, ri, [3]PseudoSlot{arg(0), fixed(0), arg(1)}},
	"bltz": {OPCODE_BLT, ri, [3]PseudoSlot{arg(0), fixed(0), arg(1)}},
	"bgtz": {OPCODE_BLT, ri, [3]PseudoSlot{fixed(0), arg(0), arg(1)}},
	"bgt":  {OPCODE_BLT, rri, [3]PseudoSlot{arg(1), arg(0), arg(2)}},
	"ble":  {OPCODE_BGE, rri, [3]PseudoSlot{arg(1), arg(0), arg(2)}},
	"bgtu": {OPCODE_BLTU, rri, [3]PseudoSlot{arg(1), arg(0), arg(2)}},
	"bleu": {OPCODE_BGEU, rri, [3]PseudoSlot{arg(1), arg(0), arg(2)}},
}

func LookupPseudo(mnemonic string) (PseudoRule, bool) {
	rule, ok := pseudoTable[mnemonic]
	return rule, ok
}
