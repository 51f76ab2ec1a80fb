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

package disassembler

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/lassandro/rv32asm/pkg/assembler"
	"github.com/lassandro/rv32asm/pkg/encoding"
)

var ErrUnknownInstruction = errors.New("Unknown instruction")
var ErrTruncated = errors.New("Error reading binary: truncated word")

// One decoded word of a binary image
type Line struct {
	Address uint32
	Word    uint32
	Label   string
	Text    string
	Err     error
}

// Renders encoded words back into assembler syntax. With a SymTable, branch
// targets and addresses carrying a label are printed by name.
type Disassembler struct {
	SymTable *assembler.SymTable
}

// Reads 4-byte words from reader until EOF
func LoadWords(reader io.Reader, order binary.ByteOrder) ([]uint32, error) {
	result := make([]uint32, 0)
	scratch := make([]byte, assembler.WORD_SIZE)

	for {
		_, err := io.ReadFull(reader, scratch)

		if err == io.EOF {
			return result, nil
		} else if err == io.ErrUnexpectedEOF {
			return nil, ErrTruncated
		} else if err != nil {
			return nil, err
		}

		result = append(result, order.Uint32(scratch))
	}
}

// Decodes a single word placed at addr. Branch targets are printed as
// absolute addresses so the output assembles back into the same word.
func Disassemble(word uint32, addr uint32) (string, error) {
	var dis Disassembler
	return dis.Instruction(word, addr)
}

func (dis *Disassembler) Instruction(word uint32, addr uint32) (string, error) {
	return decode(word, addr, dis.labels())
}

func decode(word uint32, addr uint32, labels map[uint32]string) (string, error) {
	op, ok := assembler.DecodeOpcode(word)

	if !ok {
		return "", fmt.Errorf("%08x: %w", word, ErrUnknownInstruction)
	}

	rd := register(word, 11, 7)
	rs1 := register(word, 19, 15)
	rs2 := register(word, 24, 20)

	switch op.Format() {
	case assembler.FORMAT_R:
		return fmt.Sprintf("%s %s, %s, %s", op, rd, rs1, rs2), nil

	case assembler.FORMAT_I:
		var imm int32

		if op.IsShift() {
			imm = int32(encoding.Field(word, 24, 20))
		} else {
			imm = encoding.SignExtend(encoding.Field(word, 31, 20), 12)
		}

		return fmt.Sprintf("%s %s, %s, %d", op, rd, rs1, imm), nil

	case assembler.FORMAT_S:
		imm := encoding.Field(word, 31, 25)<<5 | encoding.Field(word, 11, 7)

		return fmt.Sprintf(
			"%s %s, %s, %d", op, rs1, rs2, encoding.SignExtend(imm, 12),
		), nil

	case assembler.FORMAT_B:
		offset := encoding.Field(word, 31, 31)<<12 |
			encoding.Field(word, 7, 7)<<11 |
			encoding.Field(word, 30, 25)<<5 |
			encoding.Field(word, 11, 8)<<1

		target := int32(addr) + encoding.SignExtend(offset, 13)

		return fmt.Sprintf(
			"%s %s, %s, %s", op, rs1, rs2, formatTarget(target, labels),
		), nil
	}

	return "", fmt.Errorf("%08x: %w", word, ErrUnknownInstruction)
}

// Decodes an image whose first word sits at address 0. Undecodable words
// are kept with Err set rather than aborting the listing.
func (dis *Disassembler) Listing(words []uint32) []Line {
	result := make([]Line, 0, len(words))
	labels := dis.labels()

	for i, word := range words {
		addr := uint32(i) * assembler.WORD_SIZE
		text, err := decode(word, addr, labels)

		result = append(result, Line{
			Address: addr,
			Word:    word,
			Label:   labels[addr],
			Text:    text,
			Err:     err,
		})
	}

	return result
}

func (dis *Disassembler) labels() map[uint32]string {
	if dis.SymTable == nil {
		return nil
	}

	return dis.SymTable.ByAddress()
}

func formatTarget(addr int32, labels map[uint32]string) string {
	if label, ok := labels[uint32(addr)]; ok && addr >= 0 {
		return label
	}

	if addr < 0 {
		return fmt.Sprintf("%d", addr)
	}

	return fmt.Sprintf("%#x", addr)
}

func register(word uint32, hi uint, lo uint) assembler.Register {
	return assembler.Register(encoding.Field(word, hi, lo))
}
