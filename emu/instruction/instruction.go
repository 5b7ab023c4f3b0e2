/*
 * DCPU-16 - Instruction word decoder.
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

package instruction

import (
	"errors"

	"github.com/sunsided/dcpu-16/emu/opcodemap"
	"github.com/sunsided/dcpu-16/emu/operand"
)

// ErrReserved flags a non-basic sub-opcode outside the defined set.
var ErrReserved = errors.New("reserved non-basic opcode")

// Instruction is one decoded instruction word. A basic form carries
// two operands in A and B. The non-basic form carries its sub-opcode in
// Sub and its sole operand in A.
type Instruction struct {
	Raw uint16
	Op  uint16 // basic opcode, OpNonBasic for the non-basic form
	Sub uint16 // non-basic sub-opcode
	A   operand.Kind
	B   operand.Kind // basic forms only
}

// Bit layout of a basic instruction word, lsb last: bbbbbbaaaaaaoooo.
const (
	opcodeMask = 0x000F
	aShift     = 4
	bShift     = 10
	fieldMask  = 0x3F
)

// Decode maps a 16-bit word to an instruction. A reserved non-basic
// sub-opcode yields ErrReserved together with the partial decode.
func Decode(word uint16) (Instruction, error) {
	op := word & opcodeMask
	aField := (word >> aShift) & fieldMask
	bField := (word >> bShift) & fieldMask

	if op == opcodemap.OpNonBasic {
		inst := Instruction{
			Raw: word,
			Op:  op,
			Sub: aField,
			A:   operand.Decode(bField),
		}
		if aField != opcodemap.OpJSR {
			return inst, ErrReserved
		}
		return inst, nil
	}

	return Instruction{
		Raw: word,
		Op:  op,
		A:   operand.Decode(aField),
		B:   operand.Decode(bField),
	}, nil
}

// NonBasic reports whether the instruction uses the non-basic form.
func (i Instruction) NonBasic() bool {
	return i.Op == opcodemap.OpNonBasic
}

// Length is the total size of the instruction in words, including the
// extra words its operands consume.
func (i Instruction) Length() int {
	if i.NonBasic() {
		return 1 + i.A.ExtraWords()
	}
	return 1 + i.A.ExtraWords() + i.B.ExtraWords()
}

// Cycles is the base cycle count of the instruction plus the lookup
// cost of its operands. The emulator records but never gates on it.
func (i Instruction) Cycles() int {
	if i.NonBasic() {
		return 2 + i.A.Cycles()
	}
	cost := i.A.Cycles() + i.B.Cycles()
	switch i.Op {
	case opcodemap.OpSET, opcodemap.OpAND, opcodemap.OpBOR, opcodemap.OpXOR:
		return 1 + cost
	case opcodemap.OpDIV, opcodemap.OpMOD:
		return 3 + cost
	default:
		return 2 + cost
	}
}
