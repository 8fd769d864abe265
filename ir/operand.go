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

	"github.com/RhysFonville/roc/ast"
)

// ASMVal is an IR command operand: either an abstract register (optionally
// offset and/or dereferenced, for stack slots and pointer loads) or a raw
// textual value (an immediate, a mangled label, a string directive name).
type ASMVal struct {
	Register    *RegisterOperand
	NonRegister *NonRegisterOperand
}

// RegisterOperand names an abstract register plus addressing mode. Offset
// is a byte displacement from the register (used for stack slots relative
// to Base); Dereferenced means "the memory this register points at" rather
// than the register's own value. Size is the width in bytes the access
// should use, independent of the register's natural word size. Type is the
// roc type of the value the register currently holds; it is what the
// constant folder and the emitter's signedness-sensitive choices key on.
type RegisterOperand struct {
	Name         RegisterName
	Offset       int
	Dereferenced bool
	Size         uint8
	Type         *ast.Type
}

// NonRegisterOperand is a literal operand: an immediate, a mangled call
// target, a string-literal label, or any other bare textual value an
// emitter writes through unchanged. Type carries the roc type of the value
// represented, used to decide signed vs. unsigned arithmetic when folding
// two immediates at compile time.
type NonRegisterOperand struct {
	Value string
	Type  *ast.Type
}

func Reg(t *ast.Type, name RegisterName, size uint8) ASMVal {
	return ASMVal{Register: &RegisterOperand{Name: name, Size: size, Type: t}}
}

func RegOffset(t *ast.Type, name RegisterName, offset int, size uint8) ASMVal {
	return ASMVal{Register: &RegisterOperand{Name: name, Offset: offset, Size: size, Type: t}}
}

func Deref(t *ast.Type, name RegisterName, size uint8) ASMVal {
	return ASMVal{Register: &RegisterOperand{Name: name, Dereferenced: true, Size: size, Type: t}}
}

func NonReg(t *ast.Type, value string) ASMVal {
	return ASMVal{NonRegister: &NonRegisterOperand{Value: value, Type: t}}
}

func (v ASMVal) IsRegister() bool { return v.Register != nil }
func (v ASMVal) IsZero() bool     { return v.Register == nil && v.NonRegister == nil }

// Type returns the roc type carried by v, or nil for a zero ASMVal.
func (v ASMVal) Type() *ast.Type {
	switch {
	case v.Register != nil:
		return v.Register.Type
	case v.NonRegister != nil:
		return v.NonRegister.Type
	default:
		return nil
	}
}

func (v ASMVal) String() string {
	switch {
	case v.Register != nil:
		r := v.Register
		if r.Dereferenced {
			return fmt.Sprintf("*%d(%d)", r.Name, r.Offset)
		}
		if r.Offset != 0 {
			return fmt.Sprintf("%d(%d)", r.Name, r.Offset)
		}
		return fmt.Sprintf("%d", r.Name)
	case v.NonRegister != nil:
		return v.NonRegister.Value
	default:
		return ""
	}
}
