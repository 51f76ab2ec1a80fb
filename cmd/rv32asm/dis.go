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
	"bufio"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/lassandro/rv32asm/pkg/assembler"
	"github.com/lassandro/rv32asm/pkg/disassembler"
	"github.com/lassandro/rv32asm/pkg/encoding"
)

var disEndianvar string
var symbolsvar string

var disCmd = &cobra.Command{
	Use:   "dis binaryFile",
	Short: "Prints an assembled binary as assembly text",
	Long: `Dis decodes each word of a raw binary image. Labels are restored when
a symbol file is available; by default the '.sym' file next to the binary
is used if it exists.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return disassemble(os.Stdout, args[0])
	},
}

func init() {
	disCmd.Flags().StringVar(
		&disEndianvar, "endian", "big", "Byte order of the binary",
	)
	disCmd.Flags().StringVar(
		&symbolsvar, "symbols", "",
		"Symbol file written by 'asm --debug'",
	)

	rootCmd.AddCommand(disCmd)
}

func disassemble(w io.Writer, filename string) error {
	order, err := encoding.ParseByteOrder(disEndianvar)

	if err != nil {
		return err
	}

	file, err := os.Open(filename)

	if err != nil {
		return err
	}

	defer file.Close()

	words, err := disassembler.LoadWords(file, order)

	if err != nil {
		return err
	}

	var dis disassembler.Disassembler

	if symbolsvar != "" {
		if dis.SymTable, err = loadSymbols(symbolsvar); err != nil {
			return fmt.Errorf("Error loading symbol file: %w", err)
		}
	} else {
		path := filepath.Join(filepath.Dir(filename), replaceExt(filename, ".sym"))

		if symtable, err := loadSymbols(path); err == nil {
			dis.SymTable = symtable
		} else if !errors.Is(err, os.ErrNotExist) {
			glog.Warningf("Error loading symbol file %s: %v", path, err)
		}
	}

	output := bufio.NewWriter(w)
	failed := 0

	for _, line := range dis.Listing(words) {
		if line.Label != "" {
			fmt.Fprintf(output, "%s:\n", line.Label)
		}

		if line.Err != nil {
			fmt.Fprintf(output, "%08x: %08x  <unknown>\n", line.Address, line.Word)
			failed++
			continue
		}

		fmt.Fprintf(output, "%08x: %08x  %s\n", line.Address, line.Word, line.Text)
	}

	if failed > 0 {
		glog.Warningf("%s: %d words did not decode", filename, failed)
	}

	return output.Flush()
}

func loadSymbols(filename string) (*assembler.SymTable, error) {
	file, err := os.Open(filename)

	if err != nil {
		return nil, err
	}

	defer file.Close()

	var symtable assembler.SymTable

	if err := gob.NewDecoder(file).Decode(&symtable); err != nil {
		return nil, err
	}

	return &symtable, nil
}
