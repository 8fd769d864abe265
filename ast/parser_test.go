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
package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func parseSource(t *testing.T, source string) []*Stmt {
	t.Helper()
	lex := NewLexer(source)
	toks := lex.Run()
	require.Empty(t, lex.Errors)
	p := NewParser(toks)
	stmts := p.Run()
	require.Empty(t, p.Errors)
	require.NotNil(t, stmts)
	return stmts
}

func TestParserVariableDeclaration(t *testing.T) {
	stmts := parseSource(t, "i32 x = 5i32;")
	require.Len(t, stmts, 1)
	decl := stmts[0].VariableDeclaration
	require.NotNil(t, decl)
	require.Equal(t, "x", decl.Identifier.Identifier.Identifier.Value)
	require.NotNil(t, decl.Initializer.Literal)
}

func TestParserFunctionDeclaration(t *testing.T) {
	stmts := parseSource(t, "i32 add(i32 a, i32 b) { return a + b; }")
	require.Len(t, stmts, 1)
	fn := stmts[0].FunctionDeclaration
	require.NotNil(t, fn)
	require.Equal(t, "add", fn.Identifier.Identifier.Identifier.Value)
	require.Len(t, fn.Params, 2)
	require.Len(t, fn.Block.Block.Statements, 1)
}

func TestParserAssignmentIsRightAssociativeBinary(t *testing.T) {
	stmts := parseSource(t, "i32 main() { i32 a = 0i32; a = a + 1i32; return 0i32; }")
	fn := stmts[0].FunctionDeclaration
	assignStmt := fn.Block.Block.Statements[1]
	bin := assignStmt.Expression.Expr.Binary
	require.NotNil(t, bin)
	require.Equal(t, TK_EQUAL, bin.Op.Kind)
}

func TestParserCastBindsTighterThanAdditive(t *testing.T) {
	stmts := parseSource(t, "i32 main() { i32 x = 1i32 + 2i32 as i32; return x; }")
	decl := stmts[0].FunctionDeclaration.Block.Block.Statements[0].VariableDeclaration
	add := decl.Initializer.Binary
	require.NotNil(t, add)
	require.Equal(t, TK_PLUS, add.Op.Kind)
	require.NotNil(t, add.Right.Cast)
}

func TestParserCallExpression(t *testing.T) {
	stmts := parseSource(t, "i32 main() { return add(1i32, 2i32); }")
	ret := stmts[0].FunctionDeclaration.Block.Block.Statements[0].Expression.Expr.Return
	call := ret.Value.Call
	require.NotNil(t, call)
	require.Len(t, call.Args, 2)
}

func TestParserMissingSemicolonIsError(t *testing.T) {
	lex := NewLexer("i32 x = 5i32")
	toks := lex.Run()
	require.Empty(t, lex.Errors)
	p := NewParser(toks)
	stmts := p.Run()
	require.Nil(t, stmts)
	require.NotEmpty(t, p.Errors)
}

func TestParserPointerTypeSpecifier(t *testing.T) {
	stmts := parseSource(t, "i8* p = 0i32;")
	decl := stmts[0].VariableDeclaration
	require.True(t, IsPointer(decl.Type))
}
