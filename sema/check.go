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

// Checker is the environment analyzer: the pass after type inference that
// rejects programs whose types are individually well-formed but whose use
// is ill-formed — dereferencing a non-pointer, assigning to a non-lvalue,
// redeclaring a name, calling with the wrong arity, and so on.
type Checker struct {
	stmts []*ast.Stmt

	envStack *EnvironmentStack

	success bool
	Errors  []ast.Diagnostic
}

func NewChecker(stmts []*ast.Stmt) *Checker {
	return &Checker{stmts: stmts, success: true, envStack: NewEnvironmentStack()}
}

func (c *Checker) checkError(tok ast.Token, message string) {
	c.Errors = append(c.Errors, ast.DiagnosticAt(tok, message))
	c.success = false
}

func (c *Checker) Run() bool {
	for _, stmt := range c.stmts {
		c.checkStatement(stmt)
	}
	return c.success
}

func (c *Checker) checkExpression(e *ast.Expr) {
	switch {
	case e == nil:
		return
	case e.Identifier != nil:
		c.checkIdentifier(e)
	case e.Literal != nil:
		c.checkLiteral(e)
	case e.Grouping != nil:
		c.checkGrouping(e)
	case e.Unary != nil:
		c.checkUnary(e)
	case e.Binary != nil:
		c.checkBinary(e)
	case e.Block != nil:
		c.checkBlock(e, nil)
	case e.Call != nil:
		c.checkCall(e)
	case e.Return != nil:
		c.checkReturn(e)
	case e.Cast != nil:
		c.checkCast(e)
	}
}

func (c *Checker) checkIdentifier(e *ast.Expr) {
	e.LValue = true
}

func (c *Checker) checkLiteral(e *ast.Expr) {
	e.LValue = false
}

func (c *Checker) checkGrouping(e *ast.Expr) {
	c.checkExpression(e.Grouping.Inner)
	e.LValue = e.Grouping.Inner.LValue
}

func (c *Checker) checkUnary(e *ast.Expr) {
	u := e.Unary
	c.checkExpression(u.Expr)

	switch u.Op.Kind {
	case ast.TK_NOT:
		if !ast.IsBool(u.Expr.Type) {
			c.checkError(u.Op, "Incorrect type. Must be a bool.")
		}
		e.LValue = false
	case ast.TK_MINUS:
		if !ast.IsNumeric(u.Expr.Type) {
			c.checkError(u.Op, "Incorrect type. Must be an number.")
		}
		e.LValue = false
	case ast.TK_STAR:
		if u.Expr.Literal != nil {
			c.checkError(u.Op, "Cannot dereference literal.")
		} else if ast.IsNone(u.Expr.Type) {
			c.checkError(u.Op, "Incorrect type. Cannot dereference a none type.")
		} else if !ast.IsPointer(u.Expr.Type) {
			c.checkError(u.Op, "Can only dereference pointer.")
		}
		e.LValue = true
	case ast.TK_AMPERSAND:
		if !u.Expr.LValue {
			c.checkError(u.Op, "LHS must be a lvalue.")
		}
		e.LValue = false
	}
}

func (c *Checker) checkBinary(e *ast.Expr) {
	b := e.Binary
	c.checkExpression(b.Left)
	c.checkExpression(b.Right)
	e.LValue = false

	if !ast.Equal(b.Left.Type, b.Right.Type) && b.Op.Kind != ast.TK_EQUAL {
		c.checkError(b.Op, "Mismatched types in binary expression.")
		return
	}

	switch b.Op.Kind {
	case ast.TK_PLUS, ast.TK_MINUS, ast.TK_STAR, ast.TK_SLASH:
		if !ast.IsNumeric(b.Left.Type) {
			c.checkError(b.Op, "Incorrect type. Must be an number.")
		}
	case ast.TK_LESS, ast.TK_LESS_EQUAL, ast.TK_GREATER, ast.TK_GREATER_EQUAL:
		if !ast.IsNumeric(b.Left.Type) {
			c.checkError(b.Op, "Incorrect type. Must be an number.")
		}
	case ast.TK_EQUAL_EQUAL, ast.TK_NOT_EQUAL:
		if !ast.IsNumeric(b.Left.Type) && !ast.IsBool(b.Left.Type) {
			c.checkError(b.Op, "Incorrect type. Must be a bool or number.")
		}
	case ast.TK_AND, ast.TK_OR:
		if !ast.IsBool(b.Left.Type) {
			c.checkError(b.Op, "Incorrect type. Must be a bool.")
		}
	case ast.TK_EQUAL:
		if !b.Left.LValue {
			c.checkError(b.Op, "LHS must be a lvalue.")
		}
		if !ast.Equal(b.Left.Type, b.Right.Type) {
			c.checkError(b.Op, "Incorrect type. RHS must equal LHS.")
		}
	}
}

func (c *Checker) checkBlock(e *ast.Expr, fn *ast.FunctionDeclarationStmt) {
	blk := e.Block
	c.envStack.Push(Frame{})

	if fn != nil {
		for _, p := range fn.Params {
			c.envStack.Top().Variables = append(c.envStack.Top().Variables, Variable{Type: p.Type, Name: p.Identifier.Value})
		}
	}

	for _, stmt := range blk.Statements {
		c.checkStatement(stmt)
	}

	e.LValue = false
	c.envStack.Pop()
}

func (c *Checker) checkCall(e *ast.Expr) {
	call := e.Call
	c.checkExpression(call.Callee)
	e.LValue = false

	id := call.Callee.Identifier
	fn, ok := c.envStack.GetFunction(id.Identifier.Value)
	if !ok {
		return
	}

	if len(fn.Params) != len(call.Args) {
		c.checkError(call.ClosingParen, "Different number of arguments than parameters.")
	}

	n := len(fn.Params)
	if len(call.Args) < n {
		n = len(call.Args)
	}
	for i := 0; i < n; i++ {
		c.checkExpression(call.Args[i])
		if !ast.Equal(call.Args[i].Type, fn.Params[i].Type) {
			c.checkError(call.Args[i].AnchorToken(), "Mismatched types between argument and parameter.")
		}
	}
	for i := n; i < len(call.Args); i++ {
		c.checkExpression(call.Args[i])
	}
}

func (c *Checker) checkReturn(e *ast.Expr) {
	c.checkExpression(e.Return.Value)
	e.LValue = false
}

func (c *Checker) checkCast(e *ast.Expr) {
	c.checkExpression(e.Cast.Inner)
	e.LValue = false
}

func (c *Checker) checkStatement(s *ast.Stmt) {
	switch {
	case s == nil:
		return
	case s.Expression != nil:
		c.checkExpression(s.Expression.Expr)
	case s.VariableDeclaration != nil:
		c.checkVariableDeclaration(s.VariableDeclaration)
	case s.FunctionDeclaration != nil:
		c.checkFunctionDeclaration(s.FunctionDeclaration)
	}
}

func (c *Checker) checkVariableDeclaration(decl *ast.VariableDeclarationStmt) {
	name := decl.Identifier.Identifier.Identifier

	if c.envStack.HasIdentifier(name.Value) {
		c.checkError(name, "Identifier already defined.")
	}
	if ast.IsNone(decl.Type) {
		c.checkError(name, "Cannot declare variable of type none.")
	}

	c.checkExpression(decl.Initializer)
	if !ast.Equal(decl.Type, decl.Initializer.Type) {
		c.checkError(name, "Incorrect type.")
	}

	c.envStack.Top().Variables = append(c.envStack.Top().Variables, Variable{Type: decl.Type, Name: name.Value})
}

func (c *Checker) checkFunctionDeclaration(decl *ast.FunctionDeclarationStmt) {
	name := decl.Identifier.Identifier.Identifier

	if c.envStack.HasIdentifier(name.Value) {
		c.checkError(name, "Identifier already defined.")
	}

	var params []Variable
	for _, p := range decl.Params {
		params = append(params, Variable{Type: p.Type, Name: p.Identifier.Value})
	}
	c.envStack.Top().Functions = append(c.envStack.Top().Functions, Function{
		ReturnType: decl.ReturnType, Name: name.Value, Params: params,
	})

	saved := c.envStack
	globalsOnly := &EnvironmentStack{frames: append([]Frame(nil), saved.frames[:1]...)}
	c.envStack = globalsOnly

	c.checkBlock(decl.Block, decl)

	c.envStack = saved

	if !ast.Equal(decl.Block.Type, decl.ReturnType) {
		c.checkError(name, "Block is not the same type as specified function return type.")
	}
}
