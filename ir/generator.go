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
	"fmt"
	"strconv"
	"strings"

	"github.com/RhysFonville/roc/ast"
	"github.com/RhysFonville/roc/sema"
	"github.com/RhysFonville/roc/utils"
)

// wordType is the held type of registers and immediates that have no
// genuine source-language type of their own: frame-pointer saves, stack
// adjustments, scratch addresses. It mirrors a plain 64-bit word.
var wordType = ast.NamedConType("u64")

// Generator lowers a type-checked, environment-checked statement list into
// a flat Command sequence. It tracks a cursor stack so a function's
// prologue (and string-literal data directives, always destined for the
// top of the program) can be backpatched once the size they depend on is
// known, without a second pass over the tree.
type Generator struct {
	Commands []Command

	insertSpots []int
	stringSpot  int

	frames []map[string]ASMVal

	negOffset int
	posOffset int

	labelCounter  int
	stringCounter int

	regsInUse *utils.BitMap
}

func NewGenerator() *Generator {
	g := &Generator{insertSpots: []int{0}, stringSpot: 0, frames: []map[string]ASMVal{{}}}
	g.resetRegisters()
	return g
}

// --- register palette ---
//
// The in-use bitmap lives on the Generator instance, not as package state:
// two generators (e.g. one per compilation unit in a future parallel build)
// must not corrupt each other's allocation.

func (g *Generator) resetRegisters() {
	g.regsInUse = utils.NewBitMap(registerCount)
	for name := range important {
		g.regsInUse.Set(int(name))
	}
}

func (g *Generator) occupyNextReg() RegisterName {
	for _, name := range allOrder {
		if important[name] {
			continue
		}
		if !g.regsInUse.IsSet(int(name)) {
			g.regsInUse.Set(int(name))
			return name
		}
	}
	utils.ShouldNotReachHere()
	return Ret
}

func (g *Generator) occupyNextArgReg() RegisterName {
	for _, name := range argRegs {
		if !g.regsInUse.IsSet(int(name)) {
			g.regsInUse.Set(int(name))
			return name
		}
	}
	utils.ShouldNotReachHere()
	return Arg1
}

func (g *Generator) freeReg(name RegisterName) {
	if important[name] {
		return
	}
	g.regsInUse.Reset(int(name))
}

// Run lowers every top-level statement and returns the finished program.
func (g *Generator) Run(stmts []*ast.Stmt) []Command {
	for _, stmt := range stmts {
		g.generateStatement(stmt)
	}
	return g.Commands
}

func (g *Generator) pushFrame()   { g.frames = append(g.frames, map[string]ASMVal{}) }
func (g *Generator) popFrame()    { g.frames = g.frames[:len(g.frames)-1] }
func (g *Generator) declare(name string, v ASMVal) {
	g.frames[len(g.frames)-1][name] = v
}
func (g *Generator) lookup(name string) (ASMVal, bool) {
	for i := len(g.frames) - 1; i >= 0; i-- {
		if v, ok := g.frames[i][name]; ok {
			return v, true
		}
	}
	return ASMVal{}, false
}

func (g *Generator) newLabel(prefix string) string {
	g.labelCounter++
	return fmt.Sprintf(".L%s%d", prefix, g.labelCounter)
}

func (g *Generator) shiftSpots(from int) {
	for i := range g.insertSpots {
		if g.insertSpots[i] >= from {
			g.insertSpots[i]++
		}
	}
	if g.stringSpot > from {
		g.stringSpot++
	}
}

func (g *Generator) insertAt(pos int, cmd Command) {
	g.Commands = utils.InsertAt(g.Commands, pos, cmd)
	g.shiftSpots(pos)
}

// insertCommand appends cmd at the currently active cursor position.
func (g *Generator) insertCommand(cmd Command) {
	top := len(g.insertSpots) - 1
	pos := g.insertSpots[top]
	g.insertAt(pos, cmd)
	g.insertSpots[top] = pos + 1
}

func (g *Generator) pushInsertSpot(pos int) { g.insertSpots = append(g.insertSpots, pos) }
func (g *Generator) pushInsertSpotAtEnd()   { g.pushInsertSpot(len(g.Commands)) }
func (g *Generator) popInsertSpot()         { g.insertSpots = g.insertSpots[:len(g.insertSpots)-1] }

// insertStringDirective prepends a labeled .asciz directive to the very
// top of the program, ahead of any function.
func (g *Generator) insertStringDirective(label, value string) {
	g.insertAt(g.stringSpot, Cmd(Directive, NonReg(wordType, label), NonReg(wordType, value)))
	g.stringSpot++
}

// createVar allocates size bytes of local stack space, rounded down to a
// size-aligned negative offset from Base, growing the frame downward.
func (g *Generator) createVar(size uint8) int {
	s := int(size)
	if s == 0 {
		s = 1
	}
	utils.Assert(s > 0, "variable size must be positive, got %d", s)
	g.negOffset -= s
	if rem := (-g.negOffset) % s; rem != 0 {
		g.negOffset -= s - rem
	}
	return g.negOffset
}

// createArgSlot allocates the next stack-passed parameter slot: positive
// offsets from Base, starting past the saved return address and frame
// pointer, one word apart.
func (g *Generator) createArgSlot() int {
	g.posOffset += WordSize
	return WordSize + WordSize + g.posOffset - WordSize
}

const WordSize = ast.WordSize

// --- expressions ---

// generateExpression lowers e and returns the ASMVal holding its result.
func (g *Generator) generateExpression(e *ast.Expr) ASMVal {
	switch {
	case e == nil:
		return ASMVal{}
	case e.Identifier != nil:
		return g.generateIdentifier(e)
	case e.Literal != nil:
		return g.generateLiteral(e)
	case e.Grouping != nil:
		return g.generateExpression(e.Grouping.Inner)
	case e.Unary != nil:
		return g.generateUnary(e)
	case e.Binary != nil:
		return g.generateBinary(e)
	case e.Block != nil:
		return g.generateBlock(e, nil)
	case e.Call != nil:
		return g.generateCall(e)
	case e.Return != nil:
		return g.generateReturn(e)
	case e.Cast != nil:
		return g.generateCast(e)
	default:
		return ASMVal{}
	}
}

func (g *Generator) generateIdentifier(e *ast.Expr) ASMVal {
	name := e.Identifier.Identifier.Value
	if v, ok := g.lookup(name); ok {
		return v
	}
	return NonReg(e.Type, name)
}

func (g *Generator) generateLiteral(e *ast.Expr) ASMVal {
	tok := e.Literal.Value
	switch tok.Kind {
	case ast.TK_TRUE:
		return NonReg(e.Type, "1")
	case ast.TK_FALSE:
		return NonReg(e.Type, "0")
	case ast.TK_NUMBER_LITERAL:
		return NonReg(e.Type, stripNumericSuffix(tok.Value))
	case ast.TK_CHAR_LITERAL:
		r := []rune(tok.Value)
		if len(r) == 0 {
			return NonReg(e.Type, "0")
		}
		return NonReg(e.Type, strconv.Itoa(int(r[0])))
	case ast.TK_STRING_LITERAL:
		label := fmt.Sprintf(".STR%d", g.stringCounter)
		g.stringCounter++
		g.insertStringDirective(label, tok.Value)
		dst := g.occupyNextReg()
		g.insertCommand(Cmd(Lea, Reg(e.Type, dst, WordSize), NonReg(wordType, label)))
		g.freeReg(dst)
		return Reg(e.Type, dst, WordSize)
	default:
		return ASMVal{}
	}
}

func stripNumericSuffix(lit string) string {
	for _, suffix := range ast.NumericTypes {
		if strings.HasSuffix(lit, suffix) {
			return strings.TrimSuffix(lit, suffix)
		}
	}
	return lit
}

func (g *Generator) generateUnary(e *ast.Expr) ASMVal {
	u := e.Unary
	operand := g.generateExpression(u.Expr)
	size := e.Type.Size()

	switch u.Op.Kind {
	case ast.TK_NOT:
		dst := g.occupyNextReg()
		g.insertCommand(Cmd(Move, Reg(e.Type, dst, size), operand))
		g.insertCommand(Cmd(Xor, Reg(e.Type, dst, size), NonReg(e.Type, "1")))
		return Reg(e.Type, dst, size)
	case ast.TK_MINUS:
		dst := g.occupyNextReg()
		g.insertCommand(Cmd(Move, Reg(e.Type, dst, size), operand))
		g.insertCommand(Cmd(Neg, Reg(e.Type, dst, size)))
		return Reg(e.Type, dst, size)
	case ast.TK_STAR:
		dst := g.occupyNextReg()
		g.insertCommand(Cmd(Move, Reg(wordType, dst, WordSize), operand))
		return Deref(e.Type, dst, size)
	case ast.TK_AMPERSAND:
		dst := g.occupyNextReg()
		g.insertCommand(Cmd(Lea, Reg(e.Type, dst, WordSize), operand))
		return Reg(e.Type, dst, WordSize)
	default:
		return operand
	}
}

// arithmeticCommand maps the binary operators that fold and lower to a
// real arithmetic instruction. Comparisons and boolean connectives are not
// among them; they fall through to the placeholder subtract below.
func arithmeticCommand(op ast.TokenKind) (CommandType, bool) {
	switch op {
	case ast.TK_PLUS:
		return Add, true
	case ast.TK_MINUS:
		return Sub, true
	case ast.TK_STAR:
		return Mult, true
	case ast.TK_SLASH:
		return Div, true
	default:
		return 0, false
	}
}

// foldConstants evaluates op over two immediate operands at compile time,
// parsing and formatting as signed or unsigned arithmetic according to
// lhsType's signedness. It reports ok=false (and emits nothing) whenever
// either operand isn't a parseable immediate, or the fold would divide by
// zero, leaving that case to surface as a runtime fault instead.
func foldConstants(op ast.TokenKind, lhs, rhs ASMVal, lhsType *ast.Type) (string, bool) {
	if lhs.NonRegister == nil || rhs.NonRegister == nil {
		return "", false
	}

	if lhsType.IsSigned() {
		l, err1 := strconv.ParseInt(lhs.NonRegister.Value, 10, 64)
		r, err2 := strconv.ParseInt(rhs.NonRegister.Value, 10, 64)
		if err1 != nil || err2 != nil {
			return "", false
		}
		switch op {
		case ast.TK_PLUS:
			return strconv.FormatInt(l+r, 10), true
		case ast.TK_MINUS:
			return strconv.FormatInt(l-r, 10), true
		case ast.TK_STAR:
			return strconv.FormatInt(l*r, 10), true
		case ast.TK_SLASH:
			if r == 0 {
				return "", false
			}
			return strconv.FormatInt(l/r, 10), true
		default:
			return "", false
		}
	}

	l, err1 := strconv.ParseUint(lhs.NonRegister.Value, 10, 64)
	r, err2 := strconv.ParseUint(rhs.NonRegister.Value, 10, 64)
	if err1 != nil || err2 != nil {
		return "", false
	}
	switch op {
	case ast.TK_PLUS:
		return strconv.FormatUint(l+r, 10), true
	case ast.TK_MINUS:
		return strconv.FormatUint(l-r, 10), true
	case ast.TK_STAR:
		return strconv.FormatUint(l*r, 10), true
	case ast.TK_SLASH:
		if r == 0 {
			return "", false
		}
		return strconv.FormatUint(l/r, 10), true
	default:
		return "", false
	}
}

func (g *Generator) generateBinary(e *ast.Expr) ASMVal {
	b := e.Binary
	if b.Op.Kind == ast.TK_EQUAL {
		lhs := g.generateExpression(b.Left)
		rhs := g.generateExpression(b.Right)
		g.insertCommand(Cmd(Move, lhs, rhs))
		return lhs
	}

	lhs := g.generateExpression(b.Left)
	rhs := g.generateExpression(b.Right)
	size := e.Type.Size()

	if cmdType, ok := arithmeticCommand(b.Op.Kind); ok {
		if folded, ok := foldConstants(b.Op.Kind, lhs, rhs, b.Left.Type); ok {
			return NonReg(e.Type, folded)
		}
		dst := g.occupyNextReg()
		g.insertCommand(Cmd(cmdType, Reg(e.Type, dst, size), lhs, rhs))
		return Reg(e.Type, dst, size)
	}

	if !utils.Any(b.Op.Kind, ast.TK_EQUAL_EQUAL, ast.TK_NOT_EQUAL, ast.TK_LESS, ast.TK_LESS_EQUAL,
		ast.TK_GREATER, ast.TK_GREATER_EQUAL, ast.TK_AND, ast.TK_OR) {
		utils.ShouldNotReachHere()
	}
	// Comparisons and boolean connectives lower to a placeholder: dst gets
	// lhs - rhs. Neither backend derives a condition code or a 0/1 truth
	// value from it.
	dst := g.occupyNextReg()
	g.insertCommand(Cmd(Sub, Reg(e.Type, dst, size), lhs, rhs))
	return Reg(e.Type, dst, size)
}

func (g *Generator) generateBlock(e *ast.Expr, fn *ast.FunctionDeclarationStmt) ASMVal {
	blk := e.Block
	g.pushFrame()

	var last ASMVal
	for _, stmt := range blk.Statements {
		last = g.generateBlockStatement(stmt)
	}

	g.popFrame()
	return last
}

func (g *Generator) generateBlockStatement(s *ast.Stmt) ASMVal {
	switch {
	case s == nil:
		return ASMVal{}
	case s.Expression != nil:
		return g.generateExpression(s.Expression.Expr)
	default:
		g.generateStatement(s)
		return ASMVal{}
	}
}

// isNativeFunction reports whether name names one of the functions
// predeclared into the outermost frame (e.g. write). Native call targets
// are never mangled: they name a symbol the runtime provides directly.
func isNativeFunction(name string) bool {
	for _, fn := range sema.NativeFunctions {
		if fn.Name == name {
			return true
		}
	}
	return false
}

func (g *Generator) generateCall(e *ast.Expr) ASMVal {
	call := e.Call
	name := call.Callee.Identifier.Identifier.Value

	target := name
	if !isNativeFunction(name) {
		target = mangleFunction(name, nil)
	}

	var pushed []ASMVal
	for i, arg := range call.Args {
		val := g.generateExpression(arg)
		if i < len(argRegs) {
			reg := g.occupyNextArgReg()
			g.insertCommand(Cmd(Move, Reg(arg.Type, reg, widenToWord(arg.Type.Size())), val))
		} else {
			pushed = append(pushed, val)
		}
	}
	for i := len(pushed) - 1; i >= 0; i-- {
		g.insertCommand(Cmd(Push, pushed[i]))
	}

	g.insertCommand(Cmd(Call, NonReg(e.Type, target)))

	if len(pushed) > 0 {
		stackReg := Reg(wordType, Stack, WordSize)
		g.insertCommand(Cmd(Add, stackReg, stackReg, NonReg(wordType, strconv.Itoa(len(pushed)*WordSize))))
	}

	for _, argReg := range argRegs {
		g.freeReg(argReg)
	}

	if ast.IsNone(e.Type) {
		return ASMVal{}
	}
	return Reg(e.Type, Ret, e.Type.Size())
}

func widenToWord(size uint8) uint8 {
	if size < 4 {
		return 4
	}
	return size
}

func (g *Generator) generateReturn(e *ast.Expr) ASMVal {
	val := g.generateExpression(e.Return.Value)
	if !ast.IsNone(e.Return.Value.Type) {
		g.insertCommand(Cmd(Move, Reg(e.Return.Value.Type, Ret, e.Return.Value.Type.Size()), val))
	}
	if g.negOffset != 0 {
		g.insertCommand(Cmd(Leave))
	} else {
		g.insertCommand(Cmd(Pop, Reg(wordType, Base, WordSize)))
	}
	g.insertCommand(Cmd(Ret))
	return Reg(e.Type, Ret, e.Type.Size())
}

func (g *Generator) generateCast(e *ast.Expr) ASMVal {
	return g.generateExpression(e.Cast.Inner)
}

// --- statements ---

func (g *Generator) generateStatement(s *ast.Stmt) {
	switch {
	case s == nil:
		return
	case s.Expression != nil:
		g.generateExpression(s.Expression.Expr)
	case s.VariableDeclaration != nil:
		g.generateVariableDeclaration(s.VariableDeclaration)
	case s.FunctionDeclaration != nil:
		g.generateFunctionDeclaration(s.FunctionDeclaration)
	}
}

func (g *Generator) generateVariableDeclaration(decl *ast.VariableDeclarationStmt) {
	name := decl.Identifier.Identifier.Identifier.Value
	offset := g.createVar(decl.Type.Size())
	slot := RegOffset(decl.Type, Base, offset, decl.Type.Size())
	g.declare(name, slot)

	val := g.generateExpression(decl.Initializer)
	g.insertCommand(Cmd(Move, slot, val))
}

func (g *Generator) generateFunctionDeclaration(decl *ast.FunctionDeclarationStmt) {
	name := decl.Identifier.Identifier.Identifier.Value
	mangled := mangleFunction(name, nil)

	savedNeg, savedPos := g.negOffset, g.posOffset
	g.negOffset, g.posOffset = 0, 0
	g.resetRegisters()

	g.insertCommand(Cmd(Func, NonReg(decl.ReturnType, mangled)))
	g.insertCommand(Cmd(Push, Reg(wordType, Base, WordSize)))
	g.insertCommand(Cmd(Move, Reg(wordType, Base, WordSize), Reg(wordType, Stack, WordSize)))

	subSpot := len(g.Commands)
	stringsBefore := g.stringSpot
	g.pushInsertSpot(subSpot)

	g.pushFrame()
	for i, p := range decl.Params {
		var slot ASMVal
		if i < len(argRegs) {
			offset := g.createVar(p.Type.Size())
			slot = RegOffset(p.Type, Base, offset, p.Type.Size())
			g.insertCommand(Cmd(Move, slot, Reg(p.Type, argRegs[i], widenToWord(p.Type.Size()))))
		} else {
			offset := g.createArgSlot()
			slot = RegOffset(p.Type, Base, offset, p.Type.Size())
		}
		g.declare(p.Identifier.Value, slot)
	}

	g.generateBlock(decl.Block, decl)
	g.popFrame()

	g.popInsertSpot()
	// String directives added while lowering the body went in above this
	// function's header, moving it down by one command each.
	subSpot += g.stringSpot - stringsBefore

	if g.negOffset != 0 {
		size := utils.Align16(-g.negOffset)
		stackReg := Reg(wordType, Stack, WordSize)
		g.insertAt(subSpot, Cmd(Sub, stackReg, stackReg, NonReg(wordType, strconv.Itoa(size))))
	}

	g.negOffset, g.posOffset = savedNeg, savedPos
}
