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

// X86 renders AT&T/GAS assembly text for x86-64.
type X86 struct{}

var x86Regs = map[ir.RegisterName][4]string{
	ir.Ret:         {"rax", "eax", "ax", "al"},
	ir.Arg1:        {"rdi", "edi", "di", "dil"},
	ir.Arg2:        {"rsi", "esi", "si", "sil"},
	ir.Arg3:        {"rdx", "edx", "dx", "dl"},
	ir.Arg4:        {"rcx", "ecx", "cx", "cl"},
	ir.Arg5:        {"r8", "r8d", "r8w", "r8b"},
	ir.Arg6:        {"r9", "r9d", "r9w", "r9b"},
	ir.CP1:         {"rbx", "ebx", "bx", "bl"},
	ir.GP1:         {"r10", "r10d", "r10w", "r10b"},
	ir.GP2:         {"r11", "r11d", "r11w", "r11b"},
	ir.CP2:         {"r12", "r12d", "r12w", "r12b"},
	ir.CP3:         {"r13", "r13d", "r13w", "r13b"},
	ir.CP4:         {"r14", "r14d", "r14w", "r14b"},
	ir.CP5:         {"r15", "r15d", "r15w", "r15b"},
	ir.Stack:       {"rsp", "esp", "sp", "spl"},
	ir.Base:        {"rbp", "ebp", "bp", "bpl"},
	ir.Instruction: {"rip", "rip", "rip", "rip"},
}

func x86RegName(name ir.RegisterName, size uint8) string {
	variants, ok := x86Regs[name]
	if !ok {
		return "rax"
	}
	switch {
	case size >= 8:
		return variants[0]
	case size == 4:
		return variants[1]
	case size == 2:
		return variants[2]
	default:
		return variants[3]
	}
}

func x86Postfix(size uint8) string {
	switch {
	case size >= 8:
		return "q"
	case size == 4:
		return "l"
	case size == 2:
		return "w"
	default:
		return "b"
	}
}

func (X86) valStr(v ir.ASMVal) string {
	switch {
	case v.Register != nil:
		r := v.Register
		if r.Dereferenced || r.Offset != 0 {
			// The base of a memory operand is always a full-width address
			// register; Size only sets the width of the access itself.
			return fmt.Sprintf("%d(%%%s)", r.Offset, x86RegName(r.Name, 8))
		}
		return "%" + x86RegName(r.Name, r.Size)
	case v.NonRegister != nil:
		val := v.NonRegister.Value
		if isNumericLiteral(val) {
			return "$" + val
		}
		return val
	default:
		return ""
	}
}

func isNumericLiteral(s string) bool {
	if s == "" {
		return false
	}
	start := 0
	if s[0] == '-' {
		start = 1
	}
	if start >= len(s) {
		return false
	}
	for _, c := range s[start:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (x X86) Preamble() string {
	return ".text\n"
}

func (X86) IsLabelLine(line string) bool {
	return strings.HasSuffix(line, ":") || strings.HasPrefix(line, ".global") || line == ".text"
}

func (x X86) Emit(cmd ir.Command) string {
	a0, a1 := cmd.Args[0], cmd.Args[1]

	switch cmd.Type {
	case ir.Func:
		name := a0.String()
		return fmt.Sprintf(".global %s\n%s:", name, name)
	case ir.Label:
		return a0.String() + ":"
	case ir.Move:
		return x.move(a0, a1)
	case ir.Add:
		return x.basic("add", cmd)
	case ir.Sub:
		return x.basic("sub", cmd)
	case ir.Mult:
		return x.basic("imul", cmd)
	case ir.Div:
		return x.basic("idiv", cmd)
	case ir.Xor:
		return x.basic("xor", cmd)
	case ir.Neg:
		return fmt.Sprintf("neg%s %s", sizePostfix(a0), x.valStr(a0))
	case ir.Call:
		return "call " + a0.String()
	case ir.Ret:
		return "ret"
	case ir.Push:
		return "push " + x.valStr(a0)
	case ir.Pop:
		return "pop " + x.valStr(a0)
	case ir.Lea:
		return fmt.Sprintf("lea %s, %s", x.valStr(a1), x.valStr(a0))
	case ir.Leave:
		return "leave"
	case ir.Directive:
		return fmt.Sprintf("%s:\n\t.asciz %s", a0.String(), a1.String())
	case ir.EnterStack, ir.ExitStack, ir.Store, ir.Load, ir.Nothing, ir.Zero:
		// x86's own prologue/epilogue and plain MOVE already cover these;
		// no separate GAS idiom is needed for them on this backend.
		return ""
	default:
		return ""
	}
}

func sizePostfix(v ir.ASMVal) string {
	if v.Register != nil {
		return x86Postfix(v.Register.Size)
	}
	return "l"
}

// basic lowers a three-address Command (dst, lhs, rhs) into x86's
// two-address instruction form: a Move from lhs into dst ahead of the op,
// unless dst already is lhs (e.g. the stack pointer adjusting itself), in
// which case the op alone suffices. When rhs is absent the command is
// already two-address (dst holds lhs, args[1] is the sole source operand).
func (x X86) basic(mnemonic string, cmd ir.Command) string {
	dst, lhs, rhs := cmd.Args[0], cmd.Args[1], cmd.Args[2]
	postfix := sizePostfix(dst)

	if rhs.IsZero() {
		return fmt.Sprintf("%s%s %s, %s", mnemonic, postfix, x.valStr(lhs), x.valStr(dst))
	}
	if sameOperand(dst, lhs) {
		return fmt.Sprintf("%s%s %s, %s", mnemonic, postfix, x.valStr(rhs), x.valStr(dst))
	}
	return fmt.Sprintf("mov%s %s, %s\n\t%s%s %s, %s",
		postfix, x.valStr(lhs), x.valStr(dst),
		mnemonic, postfix, x.valStr(rhs), x.valStr(dst))
}

// sameOperand reports whether a and b name the same register location,
// ignoring access width and held type.
func sameOperand(a, b ir.ASMVal) bool {
	ra, rb := a.Register, b.Register
	if ra == nil || rb == nil {
		return false
	}
	return ra.Name == rb.Name && ra.Offset == rb.Offset && ra.Dereferenced == rb.Dereferenced
}

// move rewrites a memory-to-memory MOVE through the scratch register, since
// GAS (like the hardware) cannot address two memory operands in one mov,
// and emits a sign/zero-extending variant when the destination is wider
// than the source.
func (x X86) move(dst, src ir.ASMVal) string {
	dstMem := dst.Register != nil && (dst.Register.Offset != 0 || dst.Register.Dereferenced)
	srcMem := src.Register != nil && (src.Register.Offset != 0 || src.Register.Dereferenced)

	if dstMem && srcMem {
		scratch := ir.RegOffset(src.Register.Type, ir.GP1, 0, src.Register.Size)
		return fmt.Sprintf("mov%s %s, %s\n\tmov%s %s, %s",
			x86Postfix(src.Register.Size), x.valStr(src), x.valStr(scratch),
			x86Postfix(dst.Register.Size), x.valStr(scratch), x.valStr(dst))
	}

	dstSize, srcSize := operandSize(dst), operandSize(src)
	if dstSize > srcSize && src.Register != nil {
		// A signed source is sign-extended (movs), any other source is
		// zero-extended (movz).
		ext := "movz"
		if src.Register.Type.IsSigned() {
			ext = "movs"
		}
		return fmt.Sprintf("%s%s%s %s, %s", ext, x86Postfix(srcSize), x86Postfix(dstSize), x.valStr(src), x.valStr(dst))
	}

	return fmt.Sprintf("mov%s %s, %s", x86Postfix(dstSize), x.valStr(src), x.valStr(dst))
}

func operandSize(v ir.ASMVal) uint8 {
	if v.Register != nil {
		return v.Register.Size
	}
	return 4
}
