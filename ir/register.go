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

// RegisterName is an abstract, machine-independent register role. The
// generator assigns these during lowering; each backend emitter maps them
// onto its own concrete register file.
type RegisterName int

const (
	Ret RegisterName = iota
	CP1
	Arg4
	Arg3
	Arg2
	Arg1
	Arg5
	Arg6
	GP1
	GP2
	CP2
	CP3
	CP4
	CP5
	Stack
	Base
	Instruction
)

// argRegs is the ABI argument-passing order: the first six scalar
// arguments of a call go here, left to right.
var argRegs = [6]RegisterName{Arg1, Arg2, Arg3, Arg4, Arg5, Arg6}

// registerCount is one past the highest RegisterName value, sizing the
// in-use bitmap.
const registerCount = int(Instruction) + 1

// allOrder lists every register in allocation priority order.
var allOrder = []RegisterName{
	Ret, CP1, Arg4, Arg3, Arg2, Arg1, Arg5, Arg6,
	GP1, GP2, CP2, CP3, CP4, CP5, Stack, Base, Instruction,
}

// important marks registers the bump allocator must never hand out as a
// scratch value: they are reserved for the calling convention (Stack) and
// frame bookkeeping (Base, Instruction).
var important = map[RegisterName]bool{Stack: true, Base: true, Instruction: true}
