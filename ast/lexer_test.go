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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexKinds(t *testing.T, source string) []TokenKind {
	t.Helper()
	lex := NewLexer(source)
	toks := lex.Run()
	require.Empty(t, lex.Errors)
	var kinds []TokenKind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	return kinds
}

func TestLexerPunctuationAndOperators(t *testing.T) {
	kinds := lexKinds(t, "(){};,+-*/&! ==!=<<=>>=&&||")
	assert.Equal(t, []TokenKind{
		TK_LEFT_PAREN, TK_RIGHT_PAREN, TK_LEFT_BRACE, TK_RIGHT_BRACE, TK_SEMICOLON, TK_COMMA,
		TK_PLUS, TK_MINUS, TK_STAR, TK_SLASH, TK_AMPERSAND, TK_NOT,
		TK_EQUAL_EQUAL, TK_NOT_EQUAL, TK_LESS, TK_LESS_EQUAL, TK_GREATER, TK_GREATER_EQUAL,
		TK_AND, TK_OR, TK_EOF,
	}, kinds)
}

func TestLexerKeywordsAndTypes(t *testing.T) {
	kinds := lexKinds(t, "true false return as i32 bool none")
	assert.Equal(t, []TokenKind{
		TK_TRUE, TK_FALSE, TK_RETURN, TK_AS, TK_TYPE_I32, TK_TYPE_BOOL, TK_TYPE_NONE, TK_EOF,
	}, kinds)
}

func TestLexerNumberWithSuffix(t *testing.T) {
	lex := NewLexer("42i32;")
	toks := lex.Run()
	require.Empty(t, lex.Errors)
	require.Equal(t, TK_NUMBER_LITERAL, toks[0].Kind)
	assert.Equal(t, "42i32", toks[0].Value)
}

func TestLexerStringLiteral(t *testing.T) {
	lex := NewLexer(`"hello world"`)
	toks := lex.Run()
	require.Empty(t, lex.Errors)
	require.Equal(t, TK_STRING_LITERAL, toks[0].Kind)
}

func TestLexerUnterminatedStringReportsError(t *testing.T) {
	lex := NewLexer(`"unterminated`)
	lex.Run()
	require.NotEmpty(t, lex.Errors)
}

func TestLexerBarePipeIsUnknownCharacter(t *testing.T) {
	lex := NewLexer("|")
	lex.Run()
	require.Len(t, lex.Errors, 1)
	assert.Contains(t, lex.Errors[0].String(), "Unknown character.")
}

func TestLexerIdentifier(t *testing.T) {
	kinds := lexKinds(t, "foo_bar123")
	assert.Equal(t, []TokenKind{TK_IDENTIFIER, TK_EOF}, kinds)
}
