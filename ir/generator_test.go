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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/RhysFonville/roc/ast"
	"github.com/RhysFonville/roc/sema"
)

func compile(t *testing.T, source string) []Command {
	t.Helper()
	lex := ast.NewLexer(source)
	toks := lex.Run()
	require.Empty(t, lex.Errors)
	p := ast.NewParser(toks)
	stmts := p.Run()
	require.Empty(t, p.Errors)
	require.NotNil(t, stmts)

	a := sema.NewAnalyzer(stmts)
	require.True(t, a.Run())
	c := sema.NewChecker(stmts)
	require.True(t, c.Run())

	return NewGenerator().Run(stmts)
}

func hasCommand(cmds []Command, t CommandType) bool {
	for _, c := range cmds {
		if c.Type == t {
			return true
		}
	}
	return false
}

func TestGenerateFunctionEmitsPrologueAndEpilogue(t *testing.T) {
	cmds := compile(t, "i32 main() { return 0i32; }")
	require.True(t, hasCommand(cmds, Func))
	require.True(t, hasCommand(cmds, Push))
	require.True(t, hasCommand(cmds, Ret))
	require.Equal(t, "main", cmds[0].Args[0].String())
}

func TestGenerateMangledFunctionName(t *testing.T) {
	cmds := compile(t, "i32 add(i32 a, i32 b) { return a + b; }")
	require.Equal(t, "_Z3add", cmds[0].Args[0].String())
}

func TestGenerateBinaryFoldsTwoImmediatesAtCompileTime(t *testing.T) {
	cmds := compile(t, "i32 main() { return 2i32 + 3i32 * 4i32; }")
	require.False(t, hasCommand(cmds, Add))
	require.False(t, hasCommand(cmds, Mult))
	want := Cmd(Move, Reg(ast.NamedConType("i32"), Ret, 4), NonReg(ast.NamedConType("i32"), "14"))
	var saw bool
	for _, c := range cmds {
		if c.Type == Move && cmp.Diff(want, c) == "" {
			saw = true
		}
	}
	require.True(t, saw, "expected the folded immediate 14 moved into Ret, got %v", cmds)
}

func TestGenerateBinaryLowersToThreeAddressForm(t *testing.T) {
	cmds := compile(t, "i32 add(i32 a, i32 b) { return a + b; }")
	for _, c := range cmds {
		if c.Type == Add {
			require.False(t, c.Args[2].IsZero(), "expected a three-address Add, got %v", c)
			return
		}
	}
	t.Fatalf("expected an Add command among %v", cmds)
}

func TestGenerateCallNativeFunctionIsNotMangled(t *testing.T) {
	cmds := compile(t, `i32 main() { write(1i32, "hi", 2i32); return 0i32; }`)
	var target string
	for _, c := range cmds {
		if c.Type == Call {
			target = c.Args[0].String()
		}
	}
	require.Equal(t, "write", target)
}

func TestGenerateLiteralStringLabelIsZeroBasedSTR(t *testing.T) {
	cmds := compile(t, `i32 main() { write(1i32, "hi", 2i32); return 0i32; }`)
	var label string
	for _, c := range cmds {
		if c.Type == Directive {
			label = c.Args[0].String()
		}
	}
	require.Equal(t, ".STR0", label)
}

func TestGenerateLocalAllocatesStackAndWritesSub(t *testing.T) {
	cmds := compile(t, "i32 main() { i32 x = 1i32; return x; }")
	found := false
	for _, c := range cmds {
		if c.Type == Sub && c.Args[0].Register != nil && c.Args[0].Register.Name == Stack {
			found = true
		}
	}
	require.True(t, found, "expected a stack-allocating SUB instruction in %v", cmds)
}

func TestGenerateCallLowersArgumentsIntoArgRegisters(t *testing.T) {
	cmds := compile(t, "i32 add(i32 a, i32 b) { return a + b; } i32 main() { return add(1i32, 2i32); }")
	var sawArg1Move, sawCall bool
	for _, c := range cmds {
		if c.Type == Move && c.Args[0].Register != nil && c.Args[0].Register.Name == Arg1 {
			sawArg1Move = true
		}
		if c.Type == Call {
			sawCall = true
		}
	}
	require.True(t, sawArg1Move)
	require.True(t, sawCall)
}

func TestMangleFunctionMainNeverMangled(t *testing.T) {
	require.Equal(t, "main", mangleFunction("main", nil))
}

func TestMangleFunctionDropsParameterTypesFromTheSymbol(t *testing.T) {
	require.Equal(t, "_Z3foo", mangleFunction("foo", nil))
}

func TestGenerateReturnLiteralLowersToMoveIntoRet(t *testing.T) {
	cmds := compile(t, "i32 main() { return 7i32; }")
	i32 := ast.NamedConType("i32")
	want := Cmd(Move, Reg(i32, Ret, 4), NonReg(i32, "7"))
	for _, c := range cmds {
		if c.Type != Move {
			continue
		}
		if diff := cmp.Diff(want, c); diff == "" {
			return
		}
	}
	t.Fatalf("expected a %v command among %v", want, cmds)
}
