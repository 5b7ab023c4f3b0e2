/*
	   DCPU-16 Disassembler

		Copyright (c) 2024, Richard Cornwell

		Permission is hereby granted, free of charge, to any person obtaining a
		copy of this software and associated documentation files (the "Software"),
		to deal in the Software without restriction, including without limitation
		the rights to use, copy, modify, merge, publish, distribute, sublicense,
		and/or sell copies of the Software, and to permit persons to whom the
		Software is furnished to do so, subject to the following conditions:

		The above copyright notice and this permission notice shall be included in
		all copies or substantial portions of the Software.

		THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
		IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
		FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
		RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
		IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
		CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*/
package disassembler

import (
	"fmt"

	"github.com/sunsided/dcpu-16/emu/instruction"
	op "github.com/sunsided/dcpu-16/emu/opcodemap"
	"github.com/sunsided/dcpu-16/emu/operand"
)

// Human rendering templates per basic opcode. %[1]s is operand a,
// %[2]s operand b.
var humanMap = map[uint16]string{
	op.OpSET: "%[1]s <- %[2]s",
	op.OpADD: "%[1]s <- %[1]s + %[2]s",
	op.OpSUB: "%[1]s <- %[1]s - %[2]s",
	op.OpMUL: "%[1]s <- %[1]s * %[2]s",
	op.OpDIV: "%[1]s <- %[1]s / %[2]s",
	op.OpMOD: "%[1]s <- %[1]s %% %[2]s",
	op.OpSHL: "%[1]s <- %[1]s << %[2]s",
	op.OpSHR: "%[1]s <- %[1]s >> %[2]s",
	op.OpAND: "%[1]s <- %[1]s & %[2]s",
	op.OpBOR: "%[1]s <- %[1]s | %[2]s",
	op.OpXOR: "%[1]s <- %[1]s ^ %[2]s",
	op.OpIFE: "execute next instruction if %[1]s == %[2]s",
	op.OpIFN: "execute next instruction if %[1]s != %[2]s",
	op.OpIFG: "execute next instruction if %[1]s > %[2]s",
	op.OpIFB: "execute next instruction if (%[1]s & %[2]s) != 0",
}

// Mnemonic renders the instruction in assembler syntax. The extra words
// are the ones the fetcher consumed for each operand, in fetch order.
func Mnemonic(inst instruction.Instruction, extraA, extraB uint16) string {
	if inst.NonBasic() {
		if inst.Sub == op.OpJSR {
			return fmt.Sprintf("JSR %s", operandText(inst.A, extraA))
		}
		return fmt.Sprintf("DAT 0x%04X", inst.Raw)
	}
	return fmt.Sprintf("%s %s, %s", op.BasicName(inst.Op),
		operandText(inst.A, extraA), operandText(inst.B, extraB))
}

// Human renders the instruction as a readable description.
func Human(inst instruction.Instruction, extraA, extraB uint16) string {
	if inst.NonBasic() {
		if inst.Sub == op.OpJSR {
			return fmt.Sprintf("jump to subroutine at %s", operandText(inst.A, extraA))
		}
		return fmt.Sprintf("reserved instruction 0x%04X", inst.Raw)
	}
	return fmt.Sprintf(humanMap[inst.Op],
		operandHuman(inst.A, extraA), operandHuman(inst.B, extraB))
}

// Assembler syntax for one operand.
func operandText(k operand.Kind, extra uint16) string {
	switch k.Mode {
	case operand.Register:
		return k.Reg.String()
	case operand.RegisterIndirect:
		return fmt.Sprintf("[%s]", k.Reg)
	case operand.IndirectOffset:
		return fmt.Sprintf("[0x%02X+%s]", extra, k.Reg)
	case operand.Pop:
		return "POP"
	case operand.Peek:
		return "PEEK"
	case operand.Push:
		return "PUSH"
	case operand.StackPointer:
		return "SP"
	case operand.ProgramCounter:
		return "PC"
	case operand.Overflow:
		return "O"
	case operand.Indirect:
		return fmt.Sprintf("[0x%02X]", extra)
	case operand.NextLiteral:
		return fmt.Sprintf("0x%02X", extra)
	default:
		return fmt.Sprintf("0x%02X", k.Value)
	}
}

// Readable form of one operand. Falls back to assembler syntax where
// the two coincide.
func operandHuman(k operand.Kind, extra uint16) string {
	switch k.Mode {
	case operand.RegisterIndirect:
		return fmt.Sprintf("RAM[%s]", k.Reg)
	case operand.IndirectOffset:
		return fmt.Sprintf("RAM[0x%02X + %s]", extra, k.Reg)
	case operand.Indirect:
		return fmt.Sprintf("RAM[0x%02X]", extra)
	case operand.Pop:
		return "pop value from stack"
	case operand.Peek:
		return "current stack value"
	case operand.Push:
		return "push value to stack"
	default:
		return operandText(k, extra)
	}
}
