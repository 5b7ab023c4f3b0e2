/*
 * DCPU-16 - Operand slot decoder.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package operand

import (
	"fmt"

	"github.com/sunsided/dcpu-16/emu/register"
)

// Mode classifies a 6-bit operand field.
type Mode int

const (
	// Register is the value of a general purpose register.
	Register Mode = iota
	// RegisterIndirect is RAM at the address held in a register.
	RegisterIndirect
	// IndirectOffset is RAM at next word plus a register, one extra word.
	IndirectOffset
	// Pop reads the stack top and increments SP.
	Pop
	// Peek reads the stack top without moving SP.
	Peek
	// Push decrements SP and addresses the new stack top.
	Push
	// StackPointer accesses SP directly.
	StackPointer
	// ProgramCounter accesses PC directly.
	ProgramCounter
	// Overflow accesses the O register directly.
	Overflow
	// Indirect is RAM at the next word, one extra word.
	Indirect
	// NextLiteral is a literal carried in the next word, one extra word.
	NextLiteral
	// Literal is a small literal 0x00..0x1F carried inline.
	Literal
)

// Kind is a decoded operand slot.
type Kind struct {
	Mode  Mode
	Reg   register.Register // register modes only
	Value uint16            // inline literal value, Literal mode only
}

// Encoding ranges of the 6-bit operand field.
const (
	fieldMax         = 0x3F
	registerBase     = 0x00
	indirectBase     = 0x08
	offsetBase       = 0x10
	popCode          = 0x18
	peekCode         = 0x19
	pushCode         = 0x1A
	spCode           = 0x1B
	pcCode           = 0x1C
	overflowCode     = 0x1D
	indirectNextCode = 0x1E
	nextLiteralCode  = 0x1F
	literalBase      = 0x20

	// MaxInline is the largest literal an operand field can carry inline.
	MaxInline = 0x1F
)

// Decode maps a 6-bit operand field to its kind. Values above 0x3F
// cannot come from a decoded instruction word.
func Decode(v uint16) Kind {
	if v > fieldMax {
		panic(fmt.Sprintf("operand field %#x out of range", v))
	}
	switch {
	case v < indirectBase:
		return Kind{Mode: Register, Reg: register.FromOrdinal(v)}
	case v < offsetBase:
		return Kind{Mode: RegisterIndirect, Reg: register.FromOrdinal(v - indirectBase)}
	case v < popCode:
		return Kind{Mode: IndirectOffset, Reg: register.FromOrdinal(v - offsetBase)}
	case v == popCode:
		return Kind{Mode: Pop}
	case v == peekCode:
		return Kind{Mode: Peek}
	case v == pushCode:
		return Kind{Mode: Push}
	case v == spCode:
		return Kind{Mode: StackPointer}
	case v == pcCode:
		return Kind{Mode: ProgramCounter}
	case v == overflowCode:
		return Kind{Mode: Overflow}
	case v == indirectNextCode:
		return Kind{Mode: Indirect}
	case v == nextLiteralCode:
		return Kind{Mode: NextLiteral}
	default:
		return Kind{Mode: Literal, Value: v - literalBase}
	}
}

// Inline re-encodes the kind into its 6-bit operand field.
func (k Kind) Inline() uint16 {
	switch k.Mode {
	case Register:
		return registerBase + uint16(k.Reg)
	case RegisterIndirect:
		return indirectBase + uint16(k.Reg)
	case IndirectOffset:
		return offsetBase + uint16(k.Reg)
	case Pop:
		return popCode
	case Peek:
		return peekCode
	case Push:
		return pushCode
	case StackPointer:
		return spCode
	case ProgramCounter:
		return pcCode
	case Overflow:
		return overflowCode
	case Indirect:
		return indirectNextCode
	case NextLiteral:
		return nextLiteralCode
	default:
		return literalBase + k.Value
	}
}

// ExtraWords is the number of additional instruction words the operand
// consumes, 0 or 1.
func (k Kind) ExtraWords() int {
	switch k.Mode {
	case IndirectOffset, Indirect, NextLiteral:
		return 1
	}
	return 0
}

// Cycles is the lookup cost of the operand. Operands that read an extra
// word take one cycle, the rest are free.
func (k Kind) Cycles() int {
	return k.ExtraWords()
}
