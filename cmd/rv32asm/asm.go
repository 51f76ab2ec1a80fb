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
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/lassandro/rv32asm/pkg/assembler"
	"github.com/lassandro/rv32asm/pkg/diagnostic"
	"github.com/lassandro/rv32asm/pkg/disassembler"
	"github.com/lassandro/rv32asm/pkg/encoding"
)

var (
	outvar     string
	formatvar  string
	endianvar  string
	listingvar bool
	debugvar   bool
	dumpvar    bool
)

var asmCmd = &cobra.Command{
	Use:   "asm [sourceFile]",
	Short: "Assembles a source file into machine words",
	Long: `Asm assembles one source file. When no file is named and stdin is not
a terminal, the source is read from stdin and written to 'out.bin' unless
--out says otherwise.

The first error stops assembly; it is printed with the offending line and
the token underlined.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return assemble(cmd, args)
	},
}

func init() {
	asmCmd.Flags().StringVarP(
		&outvar, "out", "o", "",
		"Specifies a precise name for the output file, "+
			"overriding the default means of determining it",
	)
	asmCmd.Flags().StringVar(
		&formatvar, "format", "bin",
		"Output format: 'bin' raw words, 'hex' an addressed byte dump "+
			"or 'text' one hex word per line",
	)
	asmCmd.Flags().StringVar(
		&endianvar, "endian", "big", "Byte order of 'bin' output",
	)
	asmCmd.Flags().BoolVar(
		&listingvar, "listing", false,
		"Prints a table of addresses, words and source lines to stdout",
	)
	asmCmd.Flags().BoolVar(
		&debugvar, "debug", false,
		"Specifies whether to generate debugging information as a symbol "+
			"table. The table will use the output filename with extension "+
			"'.sym'",
	)
	asmCmd.Flags().BoolVar(
		&dumpvar, "dump", false, "Dumps the parsed program to stderr",
	)

	rootCmd.AddCommand(asmCmd)
}

func outputExt(format string) string {
	switch format {
	case "hex":
		return ".hex"
	case "text":
		return ".txt"
	}

	return ".bin"
}

func assemble(cmd *cobra.Command, args []string) error {
	order, err := encoding.ParseByteOrder(endianvar)

	if err != nil {
		return err
	}

	switch formatvar {
	case "bin", "hex", "text":
	default:
		return fmt.Errorf("Invalid output format '%s'", formatvar)
	}

	var infile string
	var name string
	var input []byte

	if len(args) == 1 {
		stat, err := os.Stat(args[0])

		if err != nil {
			return err
		}

		if stat.IsDir() {
			return fmt.Errorf("%s is not a valid assembly file", args[0])
		}

		if input, err = os.ReadFile(args[0]); err != nil {
			return fmt.Errorf("Error reading source file: %w", err)
		}

		infile = args[0]
		name = filepath.Base(infile)

		if outvar == "" {
			outvar = replaceExt(name, outputExt(formatvar))
		}
	} else if stdinPiped() {
		if input, err = io.ReadAll(os.Stdin); err != nil {
			return fmt.Errorf("Error reading stdin: %w", err)
		}

		name = "<stdin>"

		if outvar == "" {
			outvar = "out" + outputExt(formatvar)
		}
	} else {
		return errors.New("usage: " + cmd.UseLine())
	}

	source := string(input)
	program, err := assembler.Parse(source)

	if err != nil {
		return report(name, source, err)
	}

	symtable := program.SymTable()

	glog.V(1).Infof(
		"%s: parsed %d instructions, %d labels",
		name, program.Len(), len(symtable.Labels),
	)

	if dumpvar {
		printer := pp.New()
		printer.SetOutput(os.Stderr)
		printer.SetColoringEnabled(useColor())
		printer.Println(program.Instructions())
		printer.Println(symtable.Labels)
	}

	words, err := program.Generate()

	if err != nil {
		return report(name, source, err)
	}

	glog.V(1).Infof("%s: generated %d words", name, len(words))

	buffer := new(bytes.Buffer)

	switch formatvar {
	case "bin":
		err = encoding.WriteWords(buffer, words, order)
	case "hex":
		err = encoding.WriteHexDump(buffer, words)
	case "text":
		err = writeText(buffer, words)
	}

	if err != nil {
		return fmt.Errorf("Error encoding output: %w", err)
	}

	if err := os.WriteFile(outvar, buffer.Bytes(), 0666); err != nil {
		return fmt.Errorf("Error writing output file: %w", err)
	}

	glog.V(1).Infof("%s: wrote %s", name, outvar)

	if listingvar {
		printListing(os.Stdout, program, words)
	}

	if debugvar {
		if infile != "" {
			if symtable.Source, err = filepath.Abs(infile); err != nil {
				glog.Warningf("Error resolving source path: %v", err)
				symtable.Source = ""
			}
		}

		filename := filepath.Join(
			filepath.Dir(outvar), replaceExt(outvar, ".sym"),
		)

		if err := writeSymbols(filename, &symtable); err != nil {
			return fmt.Errorf("Error writing symbol file: %w", err)
		}

		glog.V(1).Infof("%s: wrote %s", name, filename)
	}

	return nil
}

// Prints a positioned error the way a compiler would and marks it handled
func report(name string, source string, err error) error {
	color := useColor()

	fmt.Fprintln(
		os.Stderr,
		diagnostic.Prefix(name, color)+diagnostic.Render(source, err, color),
	)

	return errReported
}

func writeText(w io.Writer, words []uint32) error {
	for _, word := range words {
		if _, err := fmt.Fprintf(w, "%08x\n", word); err != nil {
			return err
		}
	}

	return nil
}

func writeSymbols(filename string, symtable *assembler.SymTable) error {
	file, err := os.Create(filename)

	if err != nil {
		return err
	}

	defer file.Close()

	return gob.NewEncoder(file).Encode(symtable)
}

func printListing(w io.Writer, program *assembler.Program, words []uint32) {
	symtable := program.SymTable()
	dis := disassembler.Disassembler{SymTable: &symtable}

	listing := table.NewWriter()
	listing.SetOutputMirror(w)
	listing.SetStyle(table.StyleLight)
	listing.AppendHeader(
		table.Row{"Address", "Word", "Bytes", "Source", "Decoded"},
	)

	for _, line := range dis.Listing(words) {
		text, _ := program.Line(line.Address)
		raw := encoding.WordBytes(line.Word)

		listing.AppendRow(table.Row{
			fmt.Sprintf("%08x", line.Address),
			fmt.Sprintf("%08x", line.Word),
			fmt.Sprintf("% x", raw[:]),
			strings.TrimSpace(text),
			line.Text,
		})
	}

	listing.Render()
}
