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

import "testing"

func TestTypeEqualByStructure(t *testing.T) {
	a := PtrType(NamedConType("i32"))
	b := PtrType(NamedConType("i32"))
	if !Equal(a, b) {
		t.Fatalf("expected %v to equal %v", a, b)
	}
}

func TestTypeEqualRejectsDifferentConstructors(t *testing.T) {
	if Equal(NamedConType("i32"), NamedConType("u32")) {
		t.Fatal("i32 should not equal u32")
	}
}

func TestTypeEqualVariablesByIndex(t *testing.T) {
	if !Equal(VarType(3), VarType(3)) {
		t.Fatal("variables with the same index should be equal")
	}
	if Equal(VarType(3), VarType(4)) {
		t.Fatal("variables with different indices should not be equal")
	}
}

func TestPointerSizeIsWordSize(t *testing.T) {
	p := PtrType(NamedConType("i8"))
	if p.Size() != WordSize {
		t.Fatalf("expected pointer size %d, got %d", WordSize, p.Size())
	}
}

func TestIsNumericExcludesBoolAndNone(t *testing.T) {
	if !IsNumeric(NamedConType("i32")) {
		t.Fatal("i32 should be numeric")
	}
	if IsNumeric(NamedConType("bool")) {
		t.Fatal("bool should not be numeric")
	}
	if IsNumeric(NamedConType("none")) {
		t.Fatal("none should not be numeric")
	}
}

func TestDiagnosticStringFormats(t *testing.T) {
	cases := []struct {
		d    Diagnostic
		want string
	}{
		{Diagnostic{Line: 3, Lexeme: "+", Message: "bad op"}, "Line 3 at '+': bad op"},
		{Diagnostic{Line: 4, AtEnd: true, Message: "eof"}, "Line 4 at end: eof"},
		{Diagnostic{Line: 5, Message: "lex problem"}, "Line 5: lex problem"},
	}
	for _, c := range cases {
		if got := c.d.String(); got != c.want {
			t.Fatalf("got %q, want %q", got, c.want)
		}
	}
}
