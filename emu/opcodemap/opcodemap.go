/*
   CPU opcodes for assembly and disassembly

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

package opcodemap

import "strings"

const (
	// Basic opcodes, low 4 bits of the instruction word. Value 0 flags
	// the non-basic form.
	OpNonBasic = 0x0
	OpSET      = 0x1 // a = b
	OpADD      = 0x2 // a = a + b, O = carry
	OpSUB      = 0x3 // a = a - b, O = borrow
	OpMUL      = 0x4 // a = a * b, O = high word
	OpDIV      = 0x5 // a = a / b, O = fraction bits
	OpMOD      = 0x6 // a = a % b
	OpSHL      = 0x7 // a = a << b, O = shifted-out bits
	OpSHR      = 0x8 // a = a >> b, O = shifted-out bits
	OpAND      = 0x9 // a = a & b
	OpBOR      = 0xA // a = a | b
	OpXOR      = 0xB // a = a ^ b
	OpIFE      = 0xC // skip unless a == b
	OpIFN      = 0xD // skip unless a != b
	OpIFG      = 0xE // skip unless a > b
	OpIFB      = 0xF // skip unless (a & b) != 0

	// Non-basic sub-opcodes, carried in the a field of the instruction
	// word.
	OpReserved = 0x00
	OpJSR      = 0x01 // push return address, PC = a
)

var basicNames = [16]string{
	OpSET: "SET",
	OpADD: "ADD",
	OpSUB: "SUB",
	OpMUL: "MUL",
	OpDIV: "DIV",
	OpMOD: "MOD",
	OpSHL: "SHL",
	OpSHR: "SHR",
	OpAND: "AND",
	OpBOR: "BOR",
	OpXOR: "XOR",
	OpIFE: "IFE",
	OpIFN: "IFN",
	OpIFG: "IFG",
	OpIFB: "IFB",
}

// BasicName returns the mnemonic of a basic opcode 1..15.
func BasicName(op uint16) string {
	if op == OpNonBasic || op > OpIFB {
		return ""
	}
	return basicNames[op]
}

// NonBasicName returns the mnemonic of a non-basic sub-opcode.
func NonBasicName(sub uint16) string {
	if sub == OpJSR {
		return "JSR"
	}
	return ""
}

// LookupBasic finds a basic opcode by mnemonic, case insensitive.
func LookupBasic(name string) (uint16, bool) {
	name = strings.ToUpper(name)
	for op, n := range basicNames {
		if n != "" && n == name {
			return uint16(op), true
		}
	}
	return 0, false
}

// LookupNonBasic finds a non-basic sub-opcode by mnemonic, case
// insensitive.
func LookupNonBasic(name string) (uint16, bool) {
	if strings.EqualFold(name, "JSR") {
		return OpJSR, true
	}
	return 0, false
}

// Conditional reports whether the opcode arms the skip latch.
func Conditional(op uint16) bool {
	return op >= OpIFE && op <= OpIFB
}
