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
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var colorvar string

// Returned by commands that already printed their failure
var errReported = errors.New("Error already reported")

var rootCmd = &cobra.Command{
	Use:   "rv32asm",
	Short: "Assembler for the R, I, S and B formats of RV32I",
	Long: `Rv32asm translates assembly source into 32-bit RV32I machine words.

Each source line holds an optional label, an optional instruction and an
optional '#' comment. Labels may be referenced before they are declared;
branch targets are encoded relative to the branching instruction.

The dis command reads an assembled image back into assembly text.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// glog reads its settings from the Go flag set
		if err := flag.CommandLine.Parse(nil); err != nil {
			return err
		}

		switch colorvar {
		case "auto", "always", "never":
			return nil
		}

		return fmt.Errorf("Invalid color mode '%s'", colorvar)
	},
}

func init() {
	if err := flag.Set("logtostderr", "true"); err != nil {
		panic(err)
	}

	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	rootCmd.PersistentFlags().StringVar(
		&colorvar, "color", "auto",
		"Colors diagnostics: 'auto' colors only when stderr is a terminal, "+
			"'always' or 'never'",
	)
}

func useColor() bool {
	switch colorvar {
	case "always":
		return true
	case "never":
		return false
	}

	return isTerminal(os.Stderr.Fd())
}

func stdinPiped() bool {
	stat, err := os.Stdin.Stat()
	return err == nil && stat.Mode()&os.ModeCharDevice == 0
}

// Swaps the extension of a file's base name, e.g. ("dir/prog.s", ".bin")
// gives "prog.bin"
func replaceExt(filename string, ext string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}

func rv32asm() int {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			glog.Error(err)
		}

		return 1
	}

	return 0
}

func main() {
	atexit.Register(glog.Flush)
	atexit.Exit(rv32asm())
}
