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

// Variable is a declared name with its type, as recorded in a frame.
type Variable struct {
	Type *ast.Type
	Name string
}

// Function is a declared or native function signature.
type Function struct {
	ReturnType *ast.Type
	Name       string
	Params     []Variable
}

// Frame is one lexical scope: the set of variables and functions declared
// directly in it.
type Frame struct {
	Variables []Variable
	Functions []Function
}

// nativeWrite is the sole predeclared native function, matching the
// original's NATIVE_FUNCTIONS set exactly: write(i32 fd, i8* buf, i32 count) -> none.
var nativeWrite = Function{
	ReturnType: ast.NamedConType("none"),
	Name:       "write",
	Params: []Variable{
		{Type: ast.NamedConType("i32"), Name: "fd"},
		{Type: ast.PtrType(ast.NamedConType("i8")), Name: "buf"},
		{Type: ast.NamedConType("i32"), Name: "count"},
	},
}

// NativeFunctions is the fixed native-function surface predeclared into
// every program's outermost frame.
var NativeFunctions = []Function{nativeWrite}

// EnvironmentStack is a stack of Frames. Per spec.md section 3, lookup
// walks frames from top (most recently pushed, i.e. innermost) to bottom;
// the first hit wins. The original C++ implementation actually walks its
// frame vector bottom-to-top — an explicit deviation documented in
// SPEC_FULL.md section 9, resolved here in favor of the stated invariant.
type EnvironmentStack struct {
	frames []Frame
}

// NewEnvironmentStack returns a stack with a single frame pre-populated
// with the native function set.
func NewEnvironmentStack() *EnvironmentStack {
	return &EnvironmentStack{frames: []Frame{{Functions: append([]Function(nil), NativeFunctions...)}}}
}

func (s *EnvironmentStack) Push(f Frame) { s.frames = append(s.frames, f) }

func (s *EnvironmentStack) Pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

// Top returns the innermost frame, for in-place declaration.
func (s *EnvironmentStack) Top() *Frame {
	return &s.frames[len(s.frames)-1]
}

// Truncate drops every frame except the outermost (native) one, mirroring
// the original's erase(envs.begin()+1, envs.end()) used when entering a
// function body with a fresh, globals-only environment.
func (s *EnvironmentStack) Truncate() {
	s.frames = s.frames[:1]
}

func (s *EnvironmentStack) GetVariable(name string) (Variable, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		for _, v := range s.frames[i].Variables {
			if v.Name == name {
				return v, true
			}
		}
	}
	return Variable{}, false
}

func (s *EnvironmentStack) GetFunction(name string) (Function, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		for _, f := range s.frames[i].Functions {
			if f.Name == name {
				return f, true
			}
		}
	}
	return Function{}, false
}

func (s *EnvironmentStack) HasIdentifier(name string) bool {
	if _, ok := s.GetVariable(name); ok {
		return true
	}
	_, ok := s.GetFunction(name)
	return ok
}

func (s *EnvironmentStack) GetIdentifierType(name string) (*ast.Type, bool) {
	if v, ok := s.GetVariable(name); ok {
		return v.Type, true
	}
	if f, ok := s.GetFunction(name); ok {
		return f.ReturnType, true
	}
	return nil, false
}
