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

package encoding

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrInvalidLiteral = errors.New("Invalid numeric literal")

// Decodes a numeric literal in the formats: 123, 0x7F, 0b101, 017, 0. Any of
// them may carry a leading '-'. A lone "0" is octal; "08" is not a literal.
func DecodeLiteral(s string) (int32, error) {
	var sign string

	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	var digits string
	var base int

	switch {
	case len(s) == 0:
		return 0, ErrInvalidLiteral
	case len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X'):
		digits, base = s[2:], 16
	case len(s) > 1 && s[0] == '0' && (s[1] == 'b' || s[1] == 'B'):
		digits, base = s[2:], 2
	case s[0] == '0':
		digits, base = s, 8
	case s[0] >= '1' && s[0] <= '9':
		digits, base = s, 10
	default:
		return 0, ErrInvalidLiteral
	}

	if !validDigits(digits, base) {
		return 0, ErrInvalidLiteral
	}

	result, err := strconv.ParseInt(sign+digits, base, 32)

	if err != nil {
		return 0, err
	}

	return int32(result), nil
}

func validDigits(digits string, base int) bool {
	if len(digits) == 0 {
		return false
	}

	for _, c := range digits {
		var value int

		switch {
		case c >= '0' && c <= '9':
			value = int(c - '0')
		case c >= 'a' && c <= 'f':
			value = int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			value = int(c-'A') + 10
		default:
			return false
		}

		if value >= base {
			return false
		}
	}

	return true
}

// Truncates value to its low bitcount bits
func Mask(value int32, bitcount uint) uint32 {
	return uint32(value) & ((1 << bitcount) - 1)
}

// Extracts bits [hi:lo] of word, shifted down to bit 0
func Field(word uint32, hi uint, lo uint) uint32 {
	return (word >> lo) & ((1 << (hi - lo + 1)) - 1)
}

func SignExtend(value uint32, bitcount uint) int32 {
	if (value>>(bitcount-1))&0x1 == 1 {
		value |= (0xFFFFFFFF << bitcount)
	}

	return int32(value)
}

// Splits a word into its bytes, most significant first
func WordBytes(word uint32) [4]byte {
	var result [4]byte
	binary.BigEndian.PutUint32(result[:], word)
	return result
}

// Formats one line of a hex dump, i.e. "00000004: 00 50 05 13"
func FormatWord(addr uint32, word uint32) string {
	b := WordBytes(word)

	return fmt.Sprintf(
		"%08x: %02x %02x %02x %02x", addr, b[0], b[1], b[2], b[3],
	)
}

func ParseByteOrder(name string) (binary.ByteOrder, error) {
	switch strings.ToLower(name) {
	case "big", "be":
		return binary.BigEndian, nil
	case "little", "le":
		return binary.LittleEndian, nil
	}

	return nil, fmt.Errorf("Invalid byte order '%s'", name)
}

func WriteWords(w io.Writer, words []uint32, order binary.ByteOrder) error {
	return binary.Write(w, order, words)
}

func WriteHexDump(w io.Writer, words []uint32) error {
	for i, word := range words {
		if _, err := fmt.Fprintln(w, FormatWord(uint32(i)<<2, word)); err != nil {
			return err
		}
	}

	return nil
}
