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
package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lassandro/rv32asm/pkg/assembler"
)

const (
	colorRed   = "\033[31m"
	colorBold  = "\033[1m"
	colorReset = "\033[0m"
)

// Formats err for display. Errors carrying a source position are followed by
// the offending line and a caret underlining the token:
//
//	01:17: Unknown label 'nowhere'
//	beq zero, zero, nowhere
//	                ^~~~~~~
func Render(source string, err error, color bool) string {
	var tokenErr assembler.TokenError

	if !errors.As(err, &tokenErr) {
		return err.Error()
	}

	cursor := tokenErr.GetPosition()

	if cursor.Line == 0 || cursor.LineByte > int64(len(source)) {
		return err.Error()
	}

	line := source[cursor.LineByte:]

	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	line = strings.TrimRight(line, " \t\r")
	underline := Underline(line, cursor)

	if color {
		underline = colorRed + underline + colorReset
	}

	return fmt.Sprintf("%s\n%s\n%s", err, line, underline)
}

// Caret and tildes spanning cursor within line. Tabs before the token are
// kept so the caret lines up however the terminal expands them.
func Underline(line string, cursor assembler.Cursor) string {
	var builder strings.Builder

	offset := int(cursor.Byte - cursor.LineByte)

	for i := 0; i < offset; i++ {
		if i < len(line) && line[i] == '\t' {
			builder.WriteByte('\t')
		} else {
			builder.WriteByte(' ')
		}
	}

	builder.WriteByte('^')

	if cursor.Size > 1 {
		builder.WriteString(strings.Repeat("~", int(cursor.Size)-1))
	}

	return builder.String()
}

// Prefix naming the input an error came from, e.g. "prog.s:"
func Prefix(name string, color bool) string {
	if color {
		return fmt.Sprintf("%s%s:%s ", colorBold, name, colorReset)
	}

	return name + ": "
}
