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

package encoding_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lassandro/rv32asm/pkg/encoding"
)

var _ = Describe("DecodeLiteral", func() {
	DescribeTable("valid literals",
		func(input string, want int32) {
			value, err := encoding.DecodeLiteral(input)
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal(want))
		},
		Entry("decimal", "42", int32(42)),
		Entry("negative decimal", "-42", int32(-42)),
		Entry("hex", "0x7f", int32(0x7F)),
		Entry("upper hex", "0XFF", int32(0xFF)),
		Entry("binary", "0b101", int32(5)),
		Entry("lone zero", "0", int32(0)),
		Entry("octal", "07", int32(7)),
		Entry("long octal", "0777", int32(0777)),
		Entry("eight", "8", int32(8)),
		Entry("max", "2147483647", int32(2147483647)),
		Entry("min", "-0x80000000", int32(-2147483648)),
	)

	DescribeTable("invalid literals",
		func(input string) {
			_, err := encoding.DecodeLiteral(input)
			Expect(err).To(HaveOccurred())
		},
		Entry("empty", ""),
		Entry("sign only", "-"),
		Entry("octal out of range", "08"),
		Entry("bare hex prefix", "0x"),
		Entry("binary digit", "0b102"),
		Entry("hex digit", "0xfg"),
		Entry("signed digits", "0x+5"),
		Entry("identifier", "abc"),
		Entry("double sign", "--1"),
	)

	It("reports overflow as a range error", func() {
		_, err := encoding.DecodeLiteral("0xFFFFFFFF")

		var numErr *strconv.NumError
		Expect(errors.As(err, &numErr)).To(BeTrue())
		Expect(numErr.Err).To(Equal(strconv.ErrRange))
	})
})

var _ = Describe("bit helpers", func() {
	It("masks to the low bits", func() {
		Expect(encoding.Mask(-1, 12)).To(Equal(uint32(0xFFF)))
		Expect(encoding.Mask(-4, 13)).To(Equal(uint32(0x1FFC)))
		Expect(encoding.Mask(-1, 32)).To(Equal(uint32(0xFFFFFFFF)))
	})

	It("extracts fields", func() {
		Expect(encoding.Field(0xFE000EE3, 6, 0)).To(Equal(uint32(0x63)))
		Expect(encoding.Field(0xFE000EE3, 31, 25)).To(Equal(uint32(0x7F)))
	})

	It("sign extends", func() {
		Expect(encoding.SignExtend(0x1FFC, 13)).To(Equal(int32(-4)))
		Expect(encoding.SignExtend(0x7FF, 12)).To(Equal(int32(2047)))
		Expect(encoding.SignExtend(0x800, 12)).To(Equal(int32(-2048)))
	})
})

var _ = Describe("word output", func() {
	It("formats a hex dump line", func() {
		Expect(encoding.FormatWord(4, 0x00500513)).To(Equal("00000004: 00 50 05 13"))
	})

	It("writes a hex dump with implicit addresses", func() {
		var buf bytes.Buffer
		Expect(encoding.WriteHexDump(&buf, []uint32{0x00000513, 0xFE000EE3})).To(Succeed())
		Expect(buf.String()).To(Equal(
			"00000000: 00 00 05 13\n00000004: fe 00 0e e3\n",
		))
	})

	It("writes words in the requested byte order", func() {
		var buf bytes.Buffer
		Expect(encoding.WriteWords(&buf, []uint32{0x01020304}, binary.BigEndian)).To(Succeed())
		Expect(buf.Bytes()).To(Equal([]byte{1, 2, 3, 4}))

		buf.Reset()
		Expect(encoding.WriteWords(&buf, []uint32{0x01020304}, binary.LittleEndian)).To(Succeed())
		Expect(buf.Bytes()).To(Equal([]byte{4, 3, 2, 1}))
	})

	It("parses byte order names", func() {
		order, err := encoding.ParseByteOrder("LE")
		Expect(err).NotTo(HaveOccurred())
		Expect(order).To(Equal(binary.LittleEndian))

		_, err = encoding.ParseByteOrder("middle")
		Expect(err).To(HaveOccurred())
	})
})
