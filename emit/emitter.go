// Copyright (c) 2024 The Falcon Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package emit turns a machine-independent ir.Command sequence into target
// assembly text. Each backend implements Backend; Run does the shared work
// every backend needs regardless of syntax: dispatch on command tag and
// tab-indent every line that isn't a label or a top-level directive.
package emit

import (
	"strings"

	"github.com/RhysFonville/roc/ir"
)

// Backend renders one ir.Command into zero or more lines of assembly text.
// Implementations hold whatever per-target tables (register names, mnemonic
// maps) they need; Preamble/line formatting is handled by the shared Run.
type Backend interface {
	Preamble() string
	Emit(cmd ir.Command) string
	IsLabelLine(line string) bool
}

// Run renders the full command sequence, indenting every instruction line
// with a tab and leaving label/preamble lines flush left.
func Run(b Backend, commands []ir.Command) string {
	var out strings.Builder
	out.WriteString(b.Preamble())

	for _, cmd := range commands {
		text := b.Emit(cmd)
		if text == "" {
			continue
		}
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimLeft(line, "\t")
			if line == "" {
				continue
			}
			if b.IsLabelLine(line) {
				out.WriteString(line)
			} else {
				out.WriteString("\t" + line)
			}
			out.WriteString("\n")
		}
	}

	return out.String()
}
