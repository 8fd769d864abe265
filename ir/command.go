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

// CommandType is the closed set of machine-independent IR instructions the
// generator emits. Both backends dispatch on this tag; x86 emits nothing
// for EnterStack/ExitStack/Store/Load, since its prologue/epilogue already
// falls out of Push, Move and Leave.
type CommandType int

const (
	Move CommandType = iota
	Add
	Sub
	Mult
	Div
	Xor
	Neg
	Call
	Ret
	Func
	Label
	Push
	Pop
	Lea
	Directive
	Leave
	Load
	Store
	EnterStack
	ExitStack
	Nothing
	Zero
)

// Command is one IR instruction: a tag plus up to three operands. A zero
// ASMVal (IsZero() true) marks an unused argument slot.
type Command struct {
	Type CommandType
	Args [3]ASMVal
}

func Cmd(t CommandType, args ...ASMVal) Command {
	var c Command
	c.Type = t
	copy(c.Args[:], args)
	return c
}
