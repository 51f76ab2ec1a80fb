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

const (
	FORMAT_R Format = iota
	FORMAT_I
	FORMAT_S
	FORMAT_B
)

const (
	OPERAND_REGISTER OperandType = iota
	OPERAND_IMMEDIATE
)

const (
	IMMEDIATE_LITERAL ImmediateType = iota
	IMMEDIATE_SYMBOL
)

const (
	ERROR_SYNTAX ErrorKind = iota
	ERROR_INVALID_INSTRUCTION
	ERROR_INVALID_OPCODE
	ERROR_INVALID_REGISTER
	ERROR_INVALID_IMMEDIATE
	ERROR_INVALID_PSEUDO
	ERROR_UNKNOWN_SYMBOL
	ERROR_REDECLARED_LABEL
)

const (
	OPCODE_INVALID Opcode = iota

	// R: register-register
	OPCODE_ADD
	OPCODE_SUB
	OPCODE_XOR
	OPCODE_OR
	OPCODE_AND
	OPCODE_SLL
	OPCODE_SRL
	OPCODE_SRA
	OPCODE_SLT
	OPCODE_SLTU

	// I: register-immediate
	OPCODE_ADDI
	OPCODE_XORI
	OPCODE_ORI
	OPCODE_ANDI
	OPCODE_SLLI
	OPCODE_SRLI
	OPCODE_SRAI
	OPCODE_SLTI
	OPCODE_SLTIU

	// I: loads and indirect jump
	OPCODE_LB
	OPCODE_LH
	OPCODE_LW
	OPCODE_LBU
	OPCODE_LHU
	OPCODE_JALR

	// S: stores
	OPCODE_SB
	OPCODE_SH
	OPCODE_SW

	// B: conditional branches
	OPCODE_BEQ
	OPCODE_BNE
	OPCODE_BLT
	OPCODE_BGE
	OPCODE_BLTU
	OPCODE_BGEU

	opcodeCount
)

const (
	BASE_OP     uint32 = 0b0110011
	BASE_OP_IMM uint32 = 0b0010011
	BASE_LOAD   uint32 = 0b0000011
	BASE_JALR   uint32 = 0b1100111
	BASE_STORE  uint32 = 0b0100011
	BASE_BRANCH uint32 = 0b1100011
)

// Width of an instruction in bytes; the address of instruction i is i*WORD_SIZE
const WORD_SIZE = 4
