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

import "github.com/RhysFonville/roc/ast"

// Phase 3: rewrites every node's recorded type to its substitution
// fixpoint and reports the nodes that never resolved.

func (a *Analyzer) substituteExpression(e *ast.Expr) {
	switch {
	case e == nil:
		return
	case e.Identifier != nil:
		a.substituteIdentifier(e)
	case e.Literal != nil:
		a.substituteLiteral(e)
	case e.Grouping != nil:
		a.substituteGrouping(e)
	case e.Unary != nil:
		a.substituteUnary(e)
	case e.Binary != nil:
		a.substituteBinary(e)
	case e.Block != nil:
		a.substituteBlock(e)
	case e.Call != nil:
		a.substituteCall(e)
	case e.Return != nil:
		a.substituteReturn(e)
	case e.Cast != nil:
		a.substituteCast(e)
	}
}

func (a *Analyzer) substituteIdentifier(e *ast.Expr) {
	e.Type = a.substitute(e.Type)
	if !IsInferred(e.Type) {
		a.typeError(e.AnchorToken(), "Unable to infer identifier type.")
	}
}

func (a *Analyzer) substituteLiteral(e *ast.Expr) {
	e.Type = a.substitute(e.Type)
	if !IsInferred(e.Type) {
		a.typeError(e.AnchorToken(), "Unable to infer literal type.")
	}
}

func (a *Analyzer) substituteGrouping(e *ast.Expr) {
	a.substituteExpression(e.Grouping.Inner)
	e.Type = e.Grouping.Inner.Type
}

func (a *Analyzer) substituteUnary(e *ast.Expr) {
	a.substituteExpression(e.Unary.Expr)
	e.Type = a.substitute(e.Type)
	if !IsInferred(e.Type) {
		a.typeError(e.AnchorToken(), "Unable to infer unary expression result type.")
	}
}

func (a *Analyzer) substituteBinary(e *ast.Expr) {
	a.substituteExpression(e.Binary.Left)
	a.substituteExpression(e.Binary.Right)
	e.Type = a.substitute(e.Type)
	if !IsInferred(e.Type) {
		a.typeError(e.AnchorToken(), "Unable to infer binary expression result type.")
	}
}

func (a *Analyzer) substituteBlock(e *ast.Expr) {
	blk := e.Block
	firstRetType := (*ast.Type)(nil)
	for _, stmt := range blk.Statements {
		a.substituteStatement(stmt)
		if stmt.Expression != nil && stmt.Expression.Expr.Return != nil {
			ret := stmt.Expression.Expr
			if firstRetType == nil {
				firstRetType = ret.Type
			} else if !ast.Equal(firstRetType, ret.Type) {
				a.typeError(ret.AnchorToken(), "All return types of a single block must be the same.")
			}
		}
	}
	e.Type = a.substitute(e.Type)
	if !IsInferred(e.Type) {
		a.typeError(e.AnchorToken(), "Unable to infer block's type.")
	}
}

func (a *Analyzer) substituteCall(e *ast.Expr) {
	call := e.Call
	a.substituteExpression(call.Callee)
	for _, arg := range call.Args {
		a.substituteExpression(arg)
		if !IsInferred(arg.Type) {
			a.typeError(arg.AnchorToken(), "Unable to infer function call argument type.")
		}
	}
	e.Type = a.substitute(e.Type)
	if !IsInferred(e.Type) {
		a.typeError(e.AnchorToken(), "Unable to infer function call return type.")
	}
}

func (a *Analyzer) substituteReturn(e *ast.Expr) {
	a.substituteExpression(e.Return.Value)
	e.Type = e.Return.Value.Type
	if !IsInferred(e.Type) {
		a.typeError(e.AnchorToken(), "Unable to infer return expression type.")
	}
}

func (a *Analyzer) substituteCast(e *ast.Expr) {
	a.substituteExpression(e.Cast.Inner)
	e.Type = e.Cast.Target
}

func (a *Analyzer) substituteStatement(s *ast.Stmt) {
	switch {
	case s == nil:
		return
	case s.Expression != nil:
		a.substituteExpression(s.Expression.Expr)
	case s.VariableDeclaration != nil:
		a.substituteVariableDeclaration(s.VariableDeclaration)
	case s.FunctionDeclaration != nil:
		a.substituteFunctionDeclaration(s.FunctionDeclaration)
	}
}

func (a *Analyzer) substituteVariableDeclaration(decl *ast.VariableDeclarationStmt) {
	a.substituteExpression(decl.Initializer)
	decl.Type = a.substitute(decl.Type)
}

func (a *Analyzer) substituteFunctionDeclaration(decl *ast.FunctionDeclarationStmt) {
	for i := range decl.Params {
		decl.Params[i].Type = a.substitute(decl.Params[i].Type)
		if !IsInferred(decl.Params[i].Type) {
			a.typeError(decl.Params[i].Identifier, "Unable to infer function parameter type.")
		}
	}

	a.substituteExpression(decl.Block)

	decl.ReturnType = a.substitute(decl.ReturnType)
	if !IsInferred(decl.ReturnType) {
		a.typeError(decl.Identifier.AnchorToken(), "Unable to infer function return type.")
	}
}
