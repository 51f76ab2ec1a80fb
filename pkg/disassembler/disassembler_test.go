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
package disassembler_test

import (
	"bytes"
	"encoding/binary"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lassandro/rv32asm/pkg/assembler"
	"github.com/lassandro/rv32asm/pkg/disassembler"
	"github.com/lassandro/rv32asm/pkg/encoding"
)

const program = `
start:  li a0, 10
loop:   addi a0, a0, -1
        slli t0, a0, 2
        sw sp, t0, -8
        lw t1, sp, -8
        sub t2, t1, t0
        bnez a0, loop
        blt a0, a1, end
        jalr zero, ra, 0
end:    beq zero, zero, start
`

var _ = Describe("Disassemble", func() {
	DescribeTable("single words",
		func(word uint32, addr uint32, want string) {
			text, err := disassembler.Disassemble(word, addr)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal(want))
		},
		Entry("add", uint32(0x00C58533), uint32(0), "add a0, a1, a2"),
		Entry("sub", uint32(0x40B00533), uint32(0), "sub a0, zero, a1"),
		Entry("addi", uint32(0x00150513), uint32(0), "addi a0, a0, 1"),
		Entry("negative addi", uint32(0xFFF50513), uint32(0), "addi a0, a0, -1"),
		Entry("srai", uint32(0x40355513), uint32(0), "srai a0, a0, 3"),
		Entry("canonical s0", uint32(0x00040413), uint32(0), "addi s0, s0, 0"),
		Entry("lw", uint32(0x00812503), uint32(0), "lw a0, sp, 8"),
		Entry("jalr", uint32(0x000280E7), uint32(0), "jalr ra, t0, 0"),
		Entry("sw", uint32(0x00A12423), uint32(0), "sw sp, a0, 8"),
		Entry("negative sw", uint32(0xFEA12E23), uint32(0), "sw sp, a0, -4"),
		Entry("backward beq", uint32(0xFE000EE3), uint32(8), "beq zero, zero, 0x4"),
		Entry("forward beq", uint32(0x00B50463), uint32(0), "beq a0, a1, 0x8"),
		Entry("negative target", uint32(0xFE000EE3), uint32(0), "beq zero, zero, -4"),
	)

	It("rejects words with no matching opcode", func() {
		_, err := disassembler.Disassemble(0x0000007F, 0)
		Expect(err).To(MatchError(disassembler.ErrUnknownInstruction))

		// srli/srai with a stray funct7
		_, err = disassembler.Disassemble(0x20355513, 0)
		Expect(err).To(MatchError(disassembler.ErrUnknownInstruction))
	})

	It("assembles back into the same words", func() {
		words, err := assembler.Assemble(program)
		Expect(err).NotTo(HaveOccurred())

		var dis disassembler.Disassembler
		lines := make([]string, 0, len(words))

		for _, line := range dis.Listing(words) {
			Expect(line.Err).NotTo(HaveOccurred())
			lines = append(lines, line.Text)
		}

		again, err := assembler.Assemble(strings.Join(lines, "\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(again).To(Equal(words))
	})
})

var _ = Describe("Listing", func() {
	var words []uint32
	var symbols assembler.SymTable

	BeforeEach(func() {
		parsed, err := assembler.Parse(program)
		Expect(err).NotTo(HaveOccurred())

		words, err = parsed.Generate()
		Expect(err).NotTo(HaveOccurred())

		symbols = parsed.SymTable()
	})

	It("annotates labels and branch targets", func() {
		dis := disassembler.Disassembler{SymTable: &symbols}
		lines := dis.Listing(words)

		Expect(lines).To(HaveLen(10))
		Expect(lines[0].Label).To(Equal("start"))
		Expect(lines[1].Label).To(Equal("loop"))
		Expect(lines[2].Label).To(BeEmpty())
		Expect(lines[6].Text).To(Equal("bne a0, zero, loop"))
		Expect(lines[7].Text).To(Equal("blt a0, a1, end"))
		Expect(lines[9].Label).To(Equal("end"))
		Expect(lines[9].Address).To(Equal(uint32(36)))
		Expect(lines[9].Text).To(Equal("beq zero, zero, start"))
	})

	It("names shared addresses by their smallest label", func() {
		parsed, err := assembler.Parse("top:\nbegin:\n\tnop\n\tbeq zero, zero, top")
		Expect(err).NotTo(HaveOccurred())

		generated, err := parsed.Generate()
		Expect(err).NotTo(HaveOccurred())

		symtable := parsed.SymTable()
		dis := disassembler.Disassembler{SymTable: &symtable}
		lines := dis.Listing(generated)

		Expect(lines[0].Label).To(Equal("begin"))
		Expect(lines[1].Label).To(BeEmpty())
		Expect(lines[1].Text).To(Equal("beq zero, zero, begin"))
	})

	It("keeps undecodable words", func() {
		var dis disassembler.Disassembler
		lines := dis.Listing([]uint32{0x00000013, 0xFFFFFFFF})

		Expect(lines[0].Text).To(Equal("addi zero, zero, 0"))
		Expect(lines[1].Err).To(MatchError(disassembler.ErrUnknownInstruction))
		Expect(lines[1].Word).To(Equal(uint32(0xFFFFFFFF)))
	})
})

var _ = Describe("LoadWords", func() {
	DescribeTable("byte orders",
		func(order binary.ByteOrder) {
			words := []uint32{0x00000513, 0x00150513, 0xFE000EE3}

			var buffer bytes.Buffer
			Expect(encoding.WriteWords(&buffer, words, order)).To(Succeed())

			loaded, err := disassembler.LoadWords(&buffer, order)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(words))
		},
		Entry("big endian", binary.ByteOrder(binary.BigEndian)),
		Entry("little endian", binary.ByteOrder(binary.LittleEndian)),
	)

	It("reads an empty image", func() {
		loaded, err := disassembler.LoadWords(bytes.NewReader(nil), binary.BigEndian)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeEmpty())
	})

	It("rejects a partial word", func() {
		_, err := disassembler.LoadWords(
			bytes.NewReader([]byte{0x00, 0x00, 0x05, 0x13, 0x00}),
			binary.BigEndian,
		)
		Expect(err).To(MatchError(disassembler.ErrTruncated))
	})
})
