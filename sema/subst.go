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

// Constraint records a deferred equality between two types collected
// during the inference walk; nothing is solved until Phase 2 runs.
type Constraint struct {
	T1, T2 *ast.Type
}

// IsInferred reports whether t is fully concrete: a Constructor, or a
// Pointer whose chain of inners bottoms out in a Constructor. A bare
// Variable anywhere in the chain means inference failed for this node.
func IsInferred(t *ast.Type) bool {
	switch {
	case t == nil:
		return false
	case t.Constructor != nil:
		return true
	case t.Pointer != nil:
		return IsInferred(t.Pointer.Inner)
	default:
		return false
	}
}

// freshTypeVariable allocates the next unification variable and grows the
// substitution vector to make room for it, mirroring the original's
// fresh_type_variable() pushing a self-referential placeholder.
func (a *Analyzer) freshTypeVariable() *ast.Type {
	id := len(a.substitution)
	v := ast.VarType(id)
	a.substitution = append(a.substitution, nil)
	return v
}

// occursIn reports whether the unification variable `index` appears
// (possibly through an existing substitution) inside t, rejecting the
// infinite types an unchecked union-find would otherwise construct.
func (a *Analyzer) occursIn(index int, t *ast.Type) bool {
	switch {
	case t == nil:
		return false
	case t.Variable != nil:
		if t.Variable.ID < len(a.substitution) && a.substitution[t.Variable.ID] != nil {
			return a.occursIn(index, a.substitution[t.Variable.ID])
		}
		return t.Variable.ID == index
	case t.Constructor != nil:
		for _, g := range t.Constructor.Generic {
			if a.occursIn(index, g) {
				return true
			}
		}
		return false
	case t.Pointer != nil:
		return a.occursIn(index, t.Pointer.Inner)
	default:
		return false
	}
}

// unify attempts to make t1 and t2 equal by writing into the substitution
// vector. A mismatch or occurs-check failure is not reported here: it is
// left unresolved and only surfaces in Phase 3, when a variable that was
// never bound still appears after substitution. This matches the
// original's unify(), whose throw statements on both failure paths are
// dead code.
func (a *Analyzer) unify(t1, t2 *ast.Type) {
	if t1 != nil && t1.Variable != nil {
		v1 := t1.Variable.ID
		if t2 != nil && t2.Variable != nil && t2.Variable.ID == v1 {
			return
		}
		if v1 < len(a.substitution) && a.substitution[v1] != nil && !sameType(a.substitution[v1], t1) {
			a.unify(a.substitution[v1], t2)
			return
		}
		if a.occursIn(v1, t2) {
			return
		}
		if v1 >= len(a.substitution) {
			grown := make([]*ast.Type, v1+1)
			copy(grown, a.substitution)
			a.substitution = grown
		}
		a.substitution[v1] = t2
		return
	}

	if t2 != nil && t2.Variable != nil {
		v2 := t2.Variable.ID
		if v2 < len(a.substitution) && a.substitution[v2] != nil && !sameType(a.substitution[v2], t2) {
			a.unify(t1, a.substitution[v2])
			return
		}
		if a.occursIn(v2, t1) {
			return
		}
		if v2 >= len(a.substitution) {
			grown := make([]*ast.Type, v2+1)
			copy(grown, a.substitution)
			a.substitution = grown
		}
		a.substitution[v2] = t1
		return
	}

	if t1 != nil && t2 != nil && t1.Constructor != nil && t2.Constructor != nil {
		c1, c2 := t1.Constructor, t2.Constructor
		if c1.Name != c2.Name || len(c1.Generic) != len(c2.Generic) {
			return
		}
		for i := range c1.Generic {
			a.unify(c1.Generic[i], c2.Generic[i])
		}
		return
	}

	if t1 != nil && t2 != nil && t1.Pointer != nil && t2.Pointer != nil {
		a.unify(t1.Pointer.Inner, t2.Pointer.Inner)
		return
	}
}

// sameType is pointer identity, used only to detect the original's
// `substitution[idx] != t` self-reference guard.
func sameType(a, b *ast.Type) bool { return a == b }

// solveConstraints walks the recorded equality list once, in order.
func (a *Analyzer) solveConstraints() {
	for _, c := range a.constraints {
		a.unify(c.T1, c.T2)
	}
	a.constraints = nil
}

// substitute recursively rewrites t to its substitution fixpoint.
// Idempotent: a type with no remaining bound variables is returned as-is.
func (a *Analyzer) substitute(t *ast.Type) *ast.Type {
	switch {
	case t == nil:
		return nil
	case t.Variable != nil:
		id := t.Variable.ID
		if id < len(a.substitution) && a.substitution[id] != nil && !sameType(a.substitution[id], t) {
			return a.substitute(a.substitution[id])
		}
		return t
	case t.Constructor != nil:
		if len(t.Constructor.Generic) == 0 {
			return t
		}
		newGeneric := make([]*ast.Type, len(t.Constructor.Generic))
		for i, g := range t.Constructor.Generic {
			newGeneric[i] = a.substitute(g)
		}
		return &ast.Type{Constructor: &ast.Constructor{
			Name: t.Constructor.Name, Size: t.Constructor.Size,
			Signed: t.Constructor.Signed, Generic: newGeneric,
		}}
	case t.Pointer != nil:
		inner := a.substitute(t.Pointer.Inner)
		if inner == t.Pointer.Inner {
			return t
		}
		return ast.PtrType(inner)
	default:
		return t
	}
}
