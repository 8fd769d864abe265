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
package sema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RhysFonville/roc/ast"
)

func parse(t *testing.T, source string) []*ast.Stmt {
	t.Helper()
	lex := ast.NewLexer(source)
	toks := lex.Run()
	require.Empty(t, lex.Errors)
	p := ast.NewParser(toks)
	stmts := p.Run()
	require.Empty(t, p.Errors)
	require.NotNil(t, stmts)
	return stmts
}

func TestInferVariableDeclarationType(t *testing.T) {
	stmts := parse(t, "i32 x = 5i32;")
	a := NewAnalyzer(stmts)
	require.True(t, a.Run())
	c := NewChecker(stmts)
	require.True(t, c.Run())
}

func TestInferFunctionReturnTypeFromBody(t *testing.T) {
	stmts := parse(t, "i32 add(i32 a, i32 b) { return a + b; }")
	a := NewAnalyzer(stmts)
	require.True(t, a.Run())
	fn := stmts[0].FunctionDeclaration
	require.True(t, ast.Equal(fn.ReturnType, ast.NamedConType("i32")))
}

func TestCheckRejectsAssignToNonLValue(t *testing.T) {
	stmts := parse(t, "i32 main() { 5i32 = 6i32; return 0i32; }")
	a := NewAnalyzer(stmts)
	a.Run()
	c := NewChecker(stmts)
	ok := c.Run()
	require.False(t, ok)
	require.Contains(t, diagMessages(c.Errors), "LHS must be a lvalue.")
}

func TestCheckRejectsRedeclaration(t *testing.T) {
	stmts := parse(t, "i32 main() { i32 a = 1i32; i32 a = 2i32; return 0i32; }")
	NewAnalyzer(stmts).Run()
	c := NewChecker(stmts)
	ok := c.Run()
	require.False(t, ok)
	require.Contains(t, diagMessages(c.Errors), "Identifier already defined.")
}

func TestCheckRejectsNoneVariable(t *testing.T) {
	stmts := parse(t, "i32 main() { none a = 0i32; return 0i32; }")
	NewAnalyzer(stmts).Run()
	c := NewChecker(stmts)
	ok := c.Run()
	require.False(t, ok)
	require.Contains(t, diagMessages(c.Errors), "Cannot declare variable of type none.")
}

func TestCheckRejectsWrongArity(t *testing.T) {
	stmts := parse(t, "i32 add(i32 a, i32 b) { return a + b; } i32 main() { return add(1i32); }")
	NewAnalyzer(stmts).Run()
	c := NewChecker(stmts)
	ok := c.Run()
	require.False(t, ok)
	require.Contains(t, diagMessages(c.Errors), "Different number of arguments than parameters.")
}

func TestCheckDereferenceOfNonPointer(t *testing.T) {
	stmts := parse(t, "i32 main() { i32 a = 1i32; i32 b = *a; return 0i32; }")
	NewAnalyzer(stmts).Run()
	c := NewChecker(stmts)
	ok := c.Run()
	require.False(t, ok)
	require.Contains(t, diagMessages(c.Errors), "Can only dereference pointer.")
}

func TestEnvironmentStackInnermostShadowsOuter(t *testing.T) {
	env := NewEnvironmentStack()
	env.Top().Variables = append(env.Top().Variables, Variable{Type: ast.NamedConType("i32"), Name: "x"})
	env.Push(Frame{})
	env.Top().Variables = append(env.Top().Variables, Variable{Type: ast.NamedConType("bool"), Name: "x"})

	v, ok := env.GetVariable("x")
	require.True(t, ok)
	require.True(t, ast.Equal(v.Type, ast.NamedConType("bool")))
}

func TestNativeWriteIsPredeclared(t *testing.T) {
	env := NewEnvironmentStack()
	fn, ok := env.GetFunction("write")
	require.True(t, ok)
	require.Len(t, fn.Params, 3)
}

func diagMessages(diags []ast.Diagnostic) []string {
	msgs := make([]string, len(diags))
	for i, d := range diags {
		msgs[i] = d.Message
	}
	return msgs
}
