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

// Type is the sum of the three shapes a roc type can take: a ground
// Constructor, an unresolved unification Variable, or a Pointer wrapping
// an inner Type. Exactly one of the fields is non-nil.
type Type struct {
	Constructor *Constructor
	Variable    *Variable
	Pointer     *Pointer
}

// Constructor is a named ground type: a size in bytes, a signedness flag,
// and a reserved (currently always empty) list of generic arguments.
type Constructor struct {
	Name    string
	Size    uint8
	Signed  bool
	Generic []*Type
}

// Variable is a unification placeholder identified by an index into the
// type analyzer's substitution vector.
type Variable struct {
	ID int
}

// Pointer wraps an inner Type; its size is always the target word size.
type Pointer struct {
	Inner *Type
}

func ConType(c Constructor) *Type    { return &Type{Constructor: &c} }
func VarType(id int) *Type           { return &Type{Variable: &Variable{ID: id}} }
func PtrType(inner *Type) *Type      { return &Type{Pointer: &Pointer{Inner: inner}} }
func NamedConType(name string) *Type { return ConType(builtinConstructors[name]) }

var builtinConstructors = map[string]Constructor{
	"i8":   {Name: "i8", Size: 1, Signed: true},
	"i16":  {Name: "i16", Size: 2, Signed: true},
	"i32":  {Name: "i32", Size: 4, Signed: true},
	"i64":  {Name: "i64", Size: 8, Signed: true},
	"u8":   {Name: "u8", Size: 1, Signed: false},
	"u16":  {Name: "u16", Size: 2, Signed: false},
	"u32":  {Name: "u32", Size: 4, Signed: false},
	"u64":  {Name: "u64", Size: 8, Signed: false},
	"bool": {Name: "bool", Size: 1, Signed: false},
	"none": {Name: "none", Size: 0, Signed: false},
}

// WordSize is the pointer width of every currently supported target.
const WordSize = 8

// IsPointer reports whether t is a Pointer.
func IsPointer(t *Type) bool {
	return t != nil && t.Pointer != nil
}

// IsVariable reports whether t is still an unresolved unification variable.
func IsVariable(t *Type) bool {
	return t != nil && t.Variable != nil
}

// Size returns the type's size in bytes; pointers are always WordSize.
func (t *Type) Size() uint8 {
	switch {
	case t == nil:
		return 0
	case t.Pointer != nil:
		return WordSize
	case t.Constructor != nil:
		return t.Constructor.Size
	default:
		return 0
	}
}

// IsSigned reports whether arithmetic on t is signed. Pointers are treated
// as unsigned, matching the original's is_signed() on indirection types.
func (t *Type) IsSigned() bool {
	if t == nil || t.Pointer != nil {
		return false
	}
	if t.Constructor != nil {
		return t.Constructor.Signed
	}
	return false
}

// Equal implements the three-way equality spec.md section 3 describes:
// constructors compare by name, variables by index, pointers by inner.
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch {
	case a.Constructor != nil && b.Constructor != nil:
		if a.Constructor.Name != b.Constructor.Name {
			return false
		}
		if len(a.Constructor.Generic) != len(b.Constructor.Generic) {
			return false
		}
		for i := range a.Constructor.Generic {
			if !Equal(a.Constructor.Generic[i], b.Constructor.Generic[i]) {
				return false
			}
		}
		return true
	case a.Variable != nil && b.Variable != nil:
		return a.Variable.ID == b.Variable.ID
	case a.Pointer != nil && b.Pointer != nil:
		return Equal(a.Pointer.Inner, b.Pointer.Inner)
	default:
		return false
	}
}

func (t *Type) String() string {
	switch {
	case t == nil:
		return "<nil>"
	case t.Pointer != nil:
		return t.Pointer.Inner.String() + "*"
	case t.Variable != nil:
		return fmt.Sprintf("$%d", t.Variable.ID)
	case t.Constructor != nil:
		return t.Constructor.Name
	default:
		return "?"
	}
}

// NumericTypes lists the constructor names permitted as arithmetic operands.
var NumericTypes = []string{"i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64"}

func IsNumeric(t *Type) bool {
	if t == nil || t.Constructor == nil {
		return false
	}
	for _, n := range NumericTypes {
		if n == t.Constructor.Name {
			return true
		}
	}
	return false
}

func IsBool(t *Type) bool {
	return t != nil && t.Constructor != nil && t.Constructor.Name == "bool"
}

func IsNone(t *Type) bool {
	return t != nil && t.Constructor != nil && t.Constructor.Name == "none"
}
