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

import "fmt"

// TokenKind is the closed set of lexical categories roc recognizes.
type TokenKind int

const (
	TK_EOF TokenKind = iota

	TK_LEFT_PAREN
	TK_RIGHT_PAREN
	TK_LEFT_BRACE
	TK_RIGHT_BRACE
	TK_SEMICOLON
	TK_COMMA

	TK_PLUS
	TK_MINUS
	TK_STAR
	TK_SLASH
	TK_AMPERSAND
	TK_NOT
	TK_EQUAL
	TK_EQUAL_EQUAL
	TK_NOT_EQUAL
	TK_LESS
	TK_LESS_EQUAL
	TK_GREATER
	TK_GREATER_EQUAL
	TK_AND
	TK_OR

	TK_AS

	TK_IDENTIFIER
	TK_NUMBER_LITERAL
	TK_STRING_LITERAL
	TK_CHAR_LITERAL
	TK_TRUE
	TK_FALSE

	TK_RETURN

	TK_TYPE_I8
	TK_TYPE_I16
	TK_TYPE_I32
	TK_TYPE_I64
	TK_TYPE_U8
	TK_TYPE_U16
	TK_TYPE_U32
	TK_TYPE_U64
	TK_TYPE_BOOL
	TK_TYPE_NONE
)

var keywords = map[string]TokenKind{
	"true":   TK_TRUE,
	"false":  TK_FALSE,
	"return": TK_RETURN,
	"as":     TK_AS,
	"i8":     TK_TYPE_I8,
	"i16":    TK_TYPE_I16,
	"i32":    TK_TYPE_I32,
	"i64":    TK_TYPE_I64,
	"u8":     TK_TYPE_U8,
	"u16":    TK_TYPE_U16,
	"u32":    TK_TYPE_U32,
	"u64":    TK_TYPE_U64,
	"bool":   TK_TYPE_BOOL,
	"none":   TK_TYPE_NONE,
}

// TypeTokens is the set of tokens that may open a type specifier.
var TypeTokens = []TokenKind{
	TK_TYPE_I8, TK_TYPE_I16, TK_TYPE_I32, TK_TYPE_I64,
	TK_TYPE_U8, TK_TYPE_U16, TK_TYPE_U32, TK_TYPE_U64,
	TK_TYPE_BOOL, TK_TYPE_NONE,
}

// LiteralTokens is the set of tokens produced by primary literal syntax.
var LiteralTokens = []TokenKind{
	TK_NUMBER_LITERAL, TK_STRING_LITERAL, TK_CHAR_LITERAL, TK_TRUE, TK_FALSE,
}

// Token is a single lexeme with its source position.
type Token struct {
	Kind  TokenKind
	Value string
	Line  int
}

func (t Token) String() string {
	return fmt.Sprintf("%d: %s (line %d)", t.Kind, t.Value, t.Line)
}

// constructorFor maps a type-keyword token to the ground Type it names.
func constructorFor(kind TokenKind) (*Constructor, bool) {
	switch kind {
	case TK_TYPE_I8:
		return &Constructor{Name: "i8", Size: 1, Signed: true}, true
	case TK_TYPE_I16:
		return &Constructor{Name: "i16", Size: 2, Signed: true}, true
	case TK_TYPE_I32:
		return &Constructor{Name: "i32", Size: 4, Signed: true}, true
	case TK_TYPE_I64:
		return &Constructor{Name: "i64", Size: 8, Signed: true}, true
	case TK_TYPE_U8:
		return &Constructor{Name: "u8", Size: 1, Signed: false}, true
	case TK_TYPE_U16:
		return &Constructor{Name: "u16", Size: 2, Signed: false}, true
	case TK_TYPE_U32:
		return &Constructor{Name: "u32", Size: 4, Signed: false}, true
	case TK_TYPE_U64:
		return &Constructor{Name: "u64", Size: 8, Signed: false}, true
	case TK_TYPE_BOOL:
		return &Constructor{Name: "bool", Size: 1, Signed: false}, true
	case TK_TYPE_NONE:
		return &Constructor{Name: "none", Size: 0, Signed: false}, true
	default:
		return nil, false
	}
}
