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
package emit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RhysFonville/roc/ast"
	"github.com/RhysFonville/roc/ir"
	"github.com/RhysFonville/roc/sema"
)

func generate(t *testing.T, source string) []ir.Command {
	t.Helper()
	lex := ast.NewLexer(source)
	toks := lex.Run()
	require.Empty(t, lex.Errors)
	p := ast.NewParser(toks)
	stmts := p.Run()
	require.NotNil(t, stmts)

	require.True(t, sema.NewAnalyzer(stmts).Run())
	require.True(t, sema.NewChecker(stmts).Run())

	return ir.NewGenerator().Run(stmts)
}

func TestX86EmitsGlobalAndLabel(t *testing.T) {
	cmds := generate(t, "i32 main() { return 0i32; }")
	asm := Run(X86{}, cmds)
	require.Contains(t, asm, ".global main")
	require.Contains(t, asm, "main:")
	require.Contains(t, asm, "ret")
}

func TestX86UsesATTOperandOrder(t *testing.T) {
	cmds := generate(t, "i32 main() { return 0i32; }")
	asm := Run(X86{}, cmds)
	require.Contains(t, asm, "movq %rsp, %rbp")
	require.Contains(t, asm, "push %rbp")
}

func TestX86CallUsesMangledSymbol(t *testing.T) {
	cmds := generate(t, "i32 add(i32 a, i32 b) { return a + b; } i32 main() { return add(1i32, 2i32); }")
	asm := Run(X86{}, cmds)
	require.Contains(t, asm, "call _Z3add")
}

func TestX86NativeCallIsNotMangled(t *testing.T) {
	cmds := generate(t, `i32 main() { write(1i32, "hi", 2i32); return 0i32; }`)
	asm := Run(X86{}, cmds)
	require.Contains(t, asm, "call write")
	require.Contains(t, asm, ".STR0:")
	require.Contains(t, asm, ".asciz")
}

func TestX86BinaryLowersThreeAddressToTwoAddress(t *testing.T) {
	cmds := generate(t, "i32 add(i32 a, i32 b) { return a + b; }")
	asm := Run(X86{}, cmds)
	require.Contains(t, asm, "\tmovl -4(%rbp), %eax\n\taddl -8(%rbp), %eax")
}

func TestARM64UsesDarwinPreambleAndBL(t *testing.T) {
	cmds := generate(t, "i32 add(i32 a, i32 b) { return a + b; } i32 main() { return add(1i32, 2i32); }")
	asm := Run(ARM64{}, cmds)
	require.Contains(t, asm, "__TEXT,__text,regular,pure_instructions")
	require.Contains(t, asm, "bl _Z3add")
	require.Contains(t, asm, "ret")
}

func TestARM64BinaryUsesThreeOperandForm(t *testing.T) {
	cmds := generate(t, "i32 add(i32 a, i32 b) { return a + b; }")
	asm := Run(ARM64{}, cmds)
	require.Contains(t, asm, "add w0,")
}

func TestEveryInstructionLineIsIndented(t *testing.T) {
	cmds := generate(t, "i32 main() { return 0i32; }")
	asm := Run(X86{}, cmds)
	for _, line := range strings.Split(asm, "\n") {
		if line == "" || strings.HasSuffix(line, ":") || strings.HasPrefix(line, ".global") || strings.HasPrefix(line, ".text") {
			continue
		}
		require.True(t, strings.HasPrefix(line, "\t"), "expected indented instruction line, got %q", line)
	}
}
