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
package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lassandro/rv32asm/pkg/assembler"
)

const counterSource = `start:      addi a0, zero, 0
counter:    addi a0, a0, 1
            beq zero, zero, counter
`

func resetFlags(t *testing.T, dir string) {
	outvar = filepath.Join(dir, "prog.bin")
	formatvar = "bin"
	endianvar = "big"
	listingvar = false
	debugvar = false
	dumpvar = false
	colorvar = "never"
	disEndianvar = "big"
	symbolsvar = ""
}

func writeSource(t *testing.T, dir string, source string) string {
	path := filepath.Join(dir, "prog.s")
	require.NoError(t, os.WriteFile(path, []byte(source), 0666))
	return path
}

func TestLogsToStderr(t *testing.T) {
	logtostderr := flag.Lookup("logtostderr")
	require.NotNil(t, logtostderr)
	assert.Equal(t, "true", logtostderr.Value.String())
}

func TestReplaceExt(t *testing.T) {
	assert.Equal(t, "prog.bin", replaceExt("dir/prog.s", ".bin"))
	assert.Equal(t, "prog.bin", replaceExt("prog", ".bin"))
	assert.Equal(t, "a.b.sym", replaceExt("out/a.b.bin", ".sym"))
}

func TestAssembleBinary(t *testing.T) {
	dir := t.TempDir()
	resetFlags(t, dir)

	require.NoError(t, assemble(asmCmd, []string{writeSource(t, dir, counterSource)}))

	data, err := os.ReadFile(outvar)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x00, 0x00, 0x05, 0x13,
		0x00, 0x15, 0x05, 0x13,
		0xFE, 0x00, 0x0E, 0xE3,
	}, data)
}

func TestAssembleFormats(t *testing.T) {
	dir := t.TempDir()

	resetFlags(t, dir)
	formatvar = "hex"
	outvar = filepath.Join(dir, "prog.hex")
	require.NoError(t, assemble(asmCmd, []string{writeSource(t, dir, counterSource)}))

	data, err := os.ReadFile(outvar)
	require.NoError(t, err)
	assert.Equal(t,
		"00000000: 00 00 05 13\n"+
			"00000004: 00 15 05 13\n"+
			"00000008: fe 00 0e e3\n",
		string(data),
	)

	resetFlags(t, dir)
	formatvar = "text"
	outvar = filepath.Join(dir, "prog.txt")
	require.NoError(t, assemble(asmCmd, []string{writeSource(t, dir, counterSource)}))

	data, err = os.ReadFile(outvar)
	require.NoError(t, err)
	assert.Equal(t, "00000513\n00150513\nfe000ee3\n", string(data))

	resetFlags(t, dir)
	formatvar = "elf"
	assert.Error(t, assemble(asmCmd, []string{writeSource(t, dir, counterSource)}))
}

func TestAssembleReportsSourceErrors(t *testing.T) {
	dir := t.TempDir()
	resetFlags(t, dir)

	err := assemble(asmCmd, []string{writeSource(t, dir, "beq zero, zero, nowhere\n")})
	assert.ErrorIs(t, err, errReported)

	_, err = os.Stat(outvar)
	assert.True(t, os.IsNotExist(err), "no output on failure")
}

func TestDisassembleWithSymbols(t *testing.T) {
	dir := t.TempDir()
	resetFlags(t, dir)
	debugvar = true
	endianvar = "little"
	disEndianvar = "little"

	require.NoError(t, assemble(asmCmd, []string{writeSource(t, dir, counterSource)}))

	symtable, err := loadSymbols(filepath.Join(dir, "prog.sym"))
	require.NoError(t, err)
	assert.Equal(t, map[string]int32{"start": 0, "counter": 4}, symtable.Labels)
	assert.True(t, filepath.IsAbs(symtable.Source))

	var output bytes.Buffer
	require.NoError(t, disassemble(&output, outvar))

	assert.Equal(t,
		"start:\n"+
			"00000000: 00000513  addi a0, zero, 0\n"+
			"counter:\n"+
			"00000004: 00150513  addi a0, a0, 1\n"+
			"00000008: fe000ee3  beq zero, zero, counter\n",
		output.String(),
	)
}

func TestListing(t *testing.T) {
	program, err := assembler.Parse(counterSource)
	require.NoError(t, err)

	words, err := program.Generate()
	require.NoError(t, err)

	var output bytes.Buffer
	printListing(&output, program, words)

	assert.Contains(t, output.String(), "fe 00 0e e3")
	assert.Contains(t, output.String(), "beq zero, zero, counter")
	assert.Contains(t, output.String(), "counter:    addi a0, a0, 1")
}
