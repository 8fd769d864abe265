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
package emit

import (
	"fmt"
	"strings"

	"github.com/RhysFonville/roc/ir"
)

// ARM64 renders AArch64 assembly text for Apple/Darwin targets.
type ARM64 struct{}

var arm64Regs = map[ir.RegisterName]int{
	ir.Ret:  0,
	ir.Arg1: 0,
	ir.Arg2: 1,
	ir.Arg3: 2,
	ir.Arg4: 3,
	ir.Arg5: 4,
	ir.Arg6: 5,
	ir.CP1:  6,
	ir.GP1:  7,
	ir.GP2:  8,
	ir.CP2:  9,
	ir.CP3:  10,
	ir.CP4:  11,
	ir.CP5:  12,
}

func arm64RegName(name ir.RegisterName, size uint8) string {
	switch name {
	case ir.Stack:
		return "sp"
	case ir.Base:
		return "x29"
	case ir.Instruction:
		return "x30"
	}
	n, ok := arm64Regs[name]
	if !ok {
		return "x0"
	}
	if size >= 8 {
		return fmt.Sprintf("x%d", n)
	}
	return fmt.Sprintf("w%d", n)
}

func (ARM64) valStr(v ir.ASMVal) string {
	switch {
	case v.Register != nil:
		r := v.Register
		if r.Dereferenced || r.Offset != 0 {
			// The base of a memory operand is always a 64-bit register; Size
			// only sets the width of the access itself.
			return fmt.Sprintf("[%s, #%d]", arm64RegName(r.Name, 8), r.Offset)
		}
		return arm64RegName(r.Name, r.Size)
	case v.NonRegister != nil:
		val := v.NonRegister.Value
		if isNumericLiteral(val) {
			return "#" + val
		}
		return val
	default:
		return ""
	}
}

func (a ARM64) Preamble() string {
	return ".section __TEXT,__text,regular,pure_instructions\n"
}

func (ARM64) IsLabelLine(line string) bool {
	return strings.HasSuffix(line, ":") || strings.HasPrefix(line, ".section") || strings.HasPrefix(line, ".global")
}

func (a ARM64) Emit(cmd ir.Command) string {
	a0, a1 := cmd.Args[0], cmd.Args[1]

	switch cmd.Type {
	case ir.Func:
		name := a0.String()
		return fmt.Sprintf(".global %s\n%s:", name, name)
	case ir.Label:
		return a0.String() + ":"
	case ir.Move:
		return fmt.Sprintf("mov %s, %s", a.valStr(a0), a.valStr(a1))
	case ir.Add:
		return fmt.Sprintf("add %s, %s, %s", a.valStr(a0), a.valStr(a1), a.valStr(cmd.Args[2]))
	case ir.Sub:
		return fmt.Sprintf("sub %s, %s, %s", a.valStr(a0), a.valStr(a1), a.valStr(cmd.Args[2]))
	case ir.Mult:
		return fmt.Sprintf("mul %s, %s, %s", a.valStr(a0), a.valStr(a1), a.valStr(cmd.Args[2]))
	case ir.Div:
		return fmt.Sprintf("sdiv %s, %s, %s", a.valStr(a0), a.valStr(a1), a.valStr(cmd.Args[2]))
	case ir.Xor:
		return fmt.Sprintf("eor %s, %s, %s", a.valStr(a0), a.valStr(a0), a.valStr(a1))
	case ir.Neg:
		return fmt.Sprintf("neg %s, %s", a.valStr(a0), a.valStr(a0))
	case ir.Call:
		return "bl " + a0.String()
	case ir.Ret:
		return "ret"
	case ir.Lea:
		return fmt.Sprintf("adrp %s, %s@PAGE\n\tadd %s, %s, %s@PAGEOFF", a.valStr(a0), a1.String(), a.valStr(a0), a.valStr(a0), a1.String())
	case ir.Leave:
		return "mov sp, x29\n\tldp x29, x30, [sp], #16"
	case ir.Directive:
		return fmt.Sprintf("%s:\n\t.asciz %s", a0.String(), a1.String())
	case ir.Store:
		if !a1.IsZero() {
			return fmt.Sprintf("stp %s, %s, %s", a.valStr(a0), a.valStr(a1), a.valStr(cmd.Args[2]))
		}
		return fmt.Sprintf("str %s, %s", a.valStr(a0), a.valStr(a1))
	case ir.Load:
		if !a1.IsZero() {
			return fmt.Sprintf("ldp %s, %s, %s", a.valStr(a0), a.valStr(a1), a.valStr(cmd.Args[2]))
		}
		return fmt.Sprintf("ldr %s, %s", a.valStr(a0), a.valStr(a1))
	case ir.EnterStack:
		return fmt.Sprintf("sub sp, sp, #%s\nstp x29, x30, [sp, #%s]", a0.String(), a0.String())
	case ir.ExitStack:
		return fmt.Sprintf("ldp x29, x30, [sp, #%s]\nadd sp, sp, #%s", a0.String(), a0.String())
	case ir.Push, ir.Pop, ir.Nothing, ir.Zero:
		// No AArch64 text is emitted for these. The generator emits no
		// EnterStack/ExitStack, so the Push/Pop of Base in each function's
		// prologue/epilogue has no counterpart on this backend.
		return ""
	default:
		return ""
	}
}
