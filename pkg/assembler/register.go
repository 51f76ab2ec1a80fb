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

import "fmt"

var registers = map[string]Register{
	"zero": 0,  // Hard-wired zero
	"ra":   1,  // Return address
	"sp":   2,  // Stack pointer
	"gp":   3,  // Global pointer
	"tp":   4,  // Thread pointer
	"t0":   5,  // Temporary
	"t1":   6,  // Temporary
	"t2":   7,  // Temporary
	"s0":   8,  // Saved register
	"fp":   8,  // Frame pointer
	"s1":   9,  // Saved register
	"a0":   10, // Argument / return value
	"a1":   11, // Argument / return value
	"a2":   12, // Argument
	"a3":   13, // Argument
	"a4":   14, // Argument
	"a5":   15, // Argument
	"a6":   16, // Argument
	"a7":   17, // Argument
	"s2":   18, // Saved register
	"s3":   19, // Saved register
	"s4":   20, // Saved register
	"s5":   21, // Saved register
	"s6":   22, // Saved register
	"s7":   23, // Saved register
	"s8":   24, // Saved register
	"s9":   25, // Saved register
	"s10":  26, // Saved register
	"s11":  27, // Saved register
	"t3":   28, // Temporary
	"t4":   29, // Temporary
	"t5":   30, // Temporary
	"t6":   31, // Temporary
}

// Canonical ABI name per index, used when printing
var registerNames [32]string

func init() {
	for name, reg := range registers {
		if name != "fp" {
			registerNames[reg] = name
		}
	}

	for i := 0; i < 32; i++ {
		registers[fmt.Sprintf("x%d", i)] = Register(i)
	}
}

// Looks up a register by its exact, case-sensitive name
func LookupRegister(name string) (Register, bool) {
	reg, ok := registers[name]
	return reg, ok
}

func (reg Register) String() string {
	if int(reg) < len(registerNames) {
		return registerNames[reg]
	}

	return fmt.Sprintf("x%d", uint8(reg))
}

func (reg Register) code(shift uint) uint32 {
	return (uint32(reg) & 0x1F) << shift
}
