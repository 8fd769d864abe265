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

// Expr is the sum of every expression node kind. Exactly one field is
// non-nil on any given value; dispatch is by type switch on the embedded
// pointer, mirroring the original's dynamic_pointer_cast cascade.
type Expr struct {
	Identifier *IdentifierExpr
	Literal    *LiteralExpr
	Grouping   *GroupingExpr
	Unary      *UnaryExpr
	Binary     *BinaryExpr
	Block      *BlockExpr
	Call       *CallExpr
	Return     *ReturnExpr
	Cast       *CastExpr

	// Type is filled in by the type analyzer; LValue by the environment
	// analyzer. Both live on the common envelope since every expression
	// variant carries them.
	Type   *Type
	LValue bool
}

type IdentifierExpr struct {
	Identifier Token
}

type LiteralExpr struct {
	Value Token
}

type GroupingExpr struct {
	Inner *Expr
}

type UnaryExpr struct {
	Op   Token
	Expr *Expr
}

type BinaryExpr struct {
	Left  *Expr
	Op    Token
	Right *Expr
}

// BlockExpr is a brace-delimited sequence of statements. OpeningBrace is
// kept for diagnostics (unterminated block errors anchor to it).
type BlockExpr struct {
	Statements   []*Stmt
	OpeningBrace Token
}

// CallExpr invokes Callee (always an IdentifierExpr once parsed) with Args.
// ClosingParen anchors arity/type-mismatch diagnostics.
type CallExpr struct {
	Callee       *Expr
	ClosingParen Token
	Args         []*Expr
}

// ReturnExpr is itself an expression (it can appear as the tail of a
// block). The parser always gives it an operand: a bare `return;` is a
// syntax error, so Value is never nil.
type ReturnExpr struct {
	Keyword Token
	Value   *Expr
}

type CastExpr struct {
	Inner  *Expr
	As     Token
	Target *Type
}

func Identifier(tok Token) *Expr { return &Expr{Identifier: &IdentifierExpr{Identifier: tok}} }
func Literal(tok Token) *Expr    { return &Expr{Literal: &LiteralExpr{Value: tok}} }
func Grouping(inner *Expr) *Expr { return &Expr{Grouping: &GroupingExpr{Inner: inner}} }
func Unary(op Token, e *Expr) *Expr {
	return &Expr{Unary: &UnaryExpr{Op: op, Expr: e}}
}
func Binary(lhs *Expr, op Token, rhs *Expr) *Expr {
	return &Expr{Binary: &BinaryExpr{Left: lhs, Op: op, Right: rhs}}
}
func Block(stmts []*Stmt, opening Token) *Expr {
	return &Expr{Block: &BlockExpr{Statements: stmts, OpeningBrace: opening}}
}
func Call(callee *Expr, closing Token, args []*Expr) *Expr {
	return &Expr{Call: &CallExpr{Callee: callee, ClosingParen: closing, Args: args}}
}
func Return(kw Token, value *Expr) *Expr {
	return &Expr{Return: &ReturnExpr{Keyword: kw, Value: value}}
}
func Cast(inner *Expr, as Token, target *Type) *Expr {
	return &Expr{Cast: &CastExpr{Inner: inner, As: as, Target: target}}
}

// AnchorToken returns the token a diagnostic about this expression should
// point at.
func (e *Expr) AnchorToken() Token {
	switch {
	case e == nil:
		return Token{}
	case e.Identifier != nil:
		return e.Identifier.Identifier
	case e.Literal != nil:
		return e.Literal.Value
	case e.Grouping != nil:
		return e.Grouping.Inner.AnchorToken()
	case e.Unary != nil:
		return e.Unary.Op
	case e.Binary != nil:
		return e.Binary.Op
	case e.Block != nil:
		return e.Block.OpeningBrace
	case e.Call != nil:
		return e.Call.ClosingParen
	case e.Return != nil:
		return e.Return.Keyword
	case e.Cast != nil:
		return e.Cast.As
	default:
		return Token{}
	}
}

// Stmt is the sum of every statement node kind.
type Stmt struct {
	Expression          *ExpressionStmt
	VariableDeclaration *VariableDeclarationStmt
	FunctionDeclaration *FunctionDeclarationStmt
}

type ExpressionStmt struct {
	Expr *Expr
}

type VariableDeclarationStmt struct {
	Type        *Type
	Identifier  *Expr // always an IdentifierExpr
	Initializer *Expr
}

// Param is a single (type, name) formal parameter.
type Param struct {
	Type       *Type
	Identifier Token
}

type FunctionDeclarationStmt struct {
	ReturnType *Type
	Identifier *Expr // always an IdentifierExpr
	Params     []Param
	Block      *Expr // always a BlockExpr
}

func ExpressionStatement(e *Expr) *Stmt {
	return &Stmt{Expression: &ExpressionStmt{Expr: e}}
}
func VariableDeclaration(t *Type, id, init *Expr) *Stmt {
	return &Stmt{VariableDeclaration: &VariableDeclarationStmt{Type: t, Identifier: id, Initializer: init}}
}
func FunctionDeclaration(ret *Type, id *Expr, params []Param, block *Expr) *Stmt {
	return &Stmt{FunctionDeclaration: &FunctionDeclarationStmt{
		ReturnType: ret, Identifier: id, Params: params, Block: block,
	}}
}
