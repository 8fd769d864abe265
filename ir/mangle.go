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
package ir

import (
	"fmt"
	"strings"
)

// mangleFunction produces the mangled symbol for a function declared with
// name and lexical scope chain scope (outer to inner). The parameter list
// plays no part in the mangling, so same-named functions share a symbol
// whatever their signatures; the environment checker rejects a declaration
// whose name is already visible. roc's grammar also accepts a function
// declaration inside a block, but every current caller passes a nil scope,
// so the nested-name form is never produced. main is never mangled,
// matching every C ABI's entry point convention.
func mangleFunction(name string, scope []string) string {
	if name == "main" {
		return "main"
	}

	var body strings.Builder
	if len(scope) > 0 {
		body.WriteString("N")
		for _, s := range scope {
			fmt.Fprintf(&body, "%d%s", len(s), s)
		}
		fmt.Fprintf(&body, "%d%s", len(name), name)
		body.WriteString("E")
	} else {
		fmt.Fprintf(&body, "%d%s", len(name), name)
	}

	return "_Z" + body.String()
}
