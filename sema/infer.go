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
	"strings"

	"github.com/RhysFonville/roc/ast"
)

// Analyzer runs the three-phase Hindley-Milner type inference pass:
// an inference walk that records equality constraints, a solver that
// unifies them into a substitution vector, and a substitution walk that
// rewrites every node's type to its fixpoint.
type Analyzer struct {
	stmts []*ast.Stmt

	substitution []*ast.Type
	constraints  []Constraint

	success bool
	Errors  []ast.Diagnostic

	envStack *EnvironmentStack
}

func NewAnalyzer(stmts []*ast.Stmt) *Analyzer {
	return &Analyzer{stmts: stmts, success: true, envStack: NewEnvironmentStack()}
}

func (a *Analyzer) typeError(tok ast.Token, message string) {
	a.Errors = append(a.Errors, ast.DiagnosticAt(tok, message))
	a.success = false
}

// Run executes all three phases and reports overall success.
func (a *Analyzer) Run() bool {
	for _, stmt := range a.stmts {
		a.inferStatement(stmt)
	}
	a.solveConstraints()
	for _, stmt := range a.stmts {
		a.substituteStatement(stmt)
	}
	return a.success
}

// --- Phase 1: inference walk ---

func (a *Analyzer) inferExpression(e *ast.Expr) {
	switch {
	case e == nil:
		return
	case e.Identifier != nil:
		a.inferIdentifier(e)
	case e.Literal != nil:
		a.inferLiteral(e)
	case e.Grouping != nil:
		a.inferGrouping(e)
	case e.Unary != nil:
		a.inferUnary(e)
	case e.Binary != nil:
		a.inferBinary(e)
	case e.Block != nil:
		a.inferBlock(e, nil)
	case e.Call != nil:
		a.inferCall(e)
	case e.Return != nil:
		a.inferReturn(e)
	case e.Cast != nil:
		a.inferCast(e)
	}
}

func (a *Analyzer) inferIdentifier(e *ast.Expr) {
	id := e.Identifier
	if t, ok := a.envStack.GetIdentifierType(id.Identifier.Value); ok {
		e.Type = t
	} else {
		a.typeError(id.Identifier, "Identifier not defined.")
	}
}

func (a *Analyzer) inferLiteral(e *ast.Expr) {
	lit := e.Literal
	switch lit.Value.Kind {
	case ast.TK_TRUE, ast.TK_FALSE:
		e.Type = ast.NamedConType("bool")
	case ast.TK_NUMBER_LITERAL:
		for _, suffix := range ast.NumericTypes {
			if strings.HasSuffix(lit.Value.Value, suffix) {
				e.Type = ast.NamedConType(suffix)
				return
			}
		}
		e.Type = a.freshTypeVariable()
	case ast.TK_STRING_LITERAL:
		e.Type = ast.PtrType(ast.NamedConType("i8"))
	case ast.TK_CHAR_LITERAL:
		e.Type = ast.NamedConType("i8")
	}
}

func (a *Analyzer) inferGrouping(e *ast.Expr) {
	a.inferExpression(e.Grouping.Inner)
	e.Type = e.Grouping.Inner.Type
}

func (a *Analyzer) inferUnary(e *ast.Expr) {
	u := e.Unary
	a.inferExpression(u.Expr)
	switch u.Op.Kind {
	case ast.TK_NOT:
		e.Type = ast.NamedConType("bool")
	case ast.TK_MINUS:
		e.Type = u.Expr.Type
	case ast.TK_STAR:
		if ast.IsPointer(u.Expr.Type) {
			e.Type = u.Expr.Type.Pointer.Inner
		} else {
			e.Type = a.freshTypeVariable()
			a.constraints = append(a.constraints, Constraint{u.Expr.Type, ast.PtrType(e.Type)})
		}
	case ast.TK_AMPERSAND:
		e.Type = ast.PtrType(u.Expr.Type)
	default:
		a.typeError(u.Op, "Invalid unary operation.")
	}
}

func (a *Analyzer) inferBinary(e *ast.Expr) {
	b := e.Binary
	a.inferExpression(b.Left)
	a.inferExpression(b.Right)

	a.constraints = append(a.constraints, Constraint{b.Left.Type, b.Right.Type})

	switch b.Op.Kind {
	case ast.TK_PLUS, ast.TK_MINUS, ast.TK_STAR, ast.TK_SLASH,
		ast.TK_EQUAL_EQUAL, ast.TK_NOT_EQUAL,
		ast.TK_GREATER, ast.TK_GREATER_EQUAL, ast.TK_LESS, ast.TK_LESS_EQUAL,
		ast.TK_EQUAL:
		e.Type = a.freshTypeVariable()
		a.constraints = append(a.constraints, Constraint{e.Type, b.Left.Type})
	case ast.TK_AND, ast.TK_OR:
		e.Type = ast.NamedConType("bool")
	default:
		a.typeError(b.Op, "Invalid binary operation.")
	}
}

func (a *Analyzer) inferBlock(e *ast.Expr, fn *ast.FunctionDeclarationStmt) {
	blk := e.Block
	a.envStack.Push(Frame{})

	if fn != nil {
		for _, p := range fn.Params {
			a.envStack.Top().Variables = append(a.envStack.Top().Variables, Variable{Type: p.Type, Name: p.Identifier.Value})
		}
	}

	e.Type = a.freshTypeVariable()

	var rets []*ast.Expr
	for _, stmt := range blk.Statements {
		a.inferStatement(stmt)
		if stmt.Expression != nil && stmt.Expression.Expr.Return != nil {
			rets = append(rets, stmt.Expression.Expr)
		}
	}

	if len(rets) == 0 {
		e.Type = ast.NamedConType("none")
	} else {
		for range rets {
			a.constraints = append(a.constraints, Constraint{e.Type, rets[0].Type})
		}
	}

	a.envStack.Pop()
}

func (a *Analyzer) inferCall(e *ast.Expr) {
	call := e.Call
	id := call.Callee.Identifier
	fn, ok := a.envStack.GetFunction(id.Identifier.Value)
	if !ok {
		a.typeError(id.Identifier, "No function of that name.")
		return
	}
	e.Type = fn.ReturnType

	a.inferExpression(call.Callee)

	// Arity mismatches are reported by the environment analyzer; here we
	// only zip as many argument/parameter pairs as both sides have, so a
	// wrong-arity call still gets whatever type information is available.
	n := len(fn.Params)
	if len(call.Args) < n {
		n = len(call.Args)
	}
	for i := 0; i < n; i++ {
		a.inferExpression(call.Args[i])
		a.constraints = append(a.constraints, Constraint{call.Args[i].Type, fn.Params[i].Type})
	}
}

func (a *Analyzer) inferReturn(e *ast.Expr) {
	a.inferExpression(e.Return.Value)
	e.Type = e.Return.Value.Type
}

func (a *Analyzer) inferCast(e *ast.Expr) {
	a.inferExpression(e.Cast.Inner)
	e.Type = e.Cast.Target
}

func (a *Analyzer) inferStatement(s *ast.Stmt) {
	switch {
	case s == nil:
		return
	case s.Expression != nil:
		a.inferExpression(s.Expression.Expr)
	case s.VariableDeclaration != nil:
		a.inferVariableDeclaration(s.VariableDeclaration)
	case s.FunctionDeclaration != nil:
		a.inferFunctionDeclaration(s.FunctionDeclaration)
	}
}

func (a *Analyzer) inferVariableDeclaration(decl *ast.VariableDeclarationStmt) {
	if decl.Type == nil {
		decl.Type = a.freshTypeVariable()
	}
	a.inferExpression(decl.Initializer)
	a.constraints = append(a.constraints, Constraint{decl.Type, decl.Initializer.Type})
	a.envStack.Top().Variables = append(a.envStack.Top().Variables, Variable{
		Type: decl.Type, Name: decl.Identifier.Identifier.Identifier.Value,
	})
}

func (a *Analyzer) inferFunctionDeclaration(decl *ast.FunctionDeclarationStmt) {
	if decl.ReturnType == nil {
		decl.ReturnType = a.freshTypeVariable()
	}
	for i := range decl.Params {
		if decl.Params[i].Type == nil {
			decl.Params[i].Type = a.freshTypeVariable()
		}
	}

	saved := a.envStack
	globalsOnly := &EnvironmentStack{frames: append([]Frame(nil), saved.frames[:1]...)}
	a.envStack = globalsOnly

	a.inferBlock(decl.Block, decl)

	a.envStack = saved

	a.constraints = append(a.constraints, Constraint{decl.ReturnType, decl.Block.Type})

	var params []Variable
	for _, p := range decl.Params {
		params = append(params, Variable{Type: p.Type, Name: p.Identifier.Value})
	}
	a.envStack.Top().Functions = append(a.envStack.Top().Functions, Function{
		ReturnType: decl.ReturnType, Name: decl.Identifier.Identifier.Identifier.Value, Params: params,
	})
}
