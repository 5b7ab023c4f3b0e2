/*
 * DCPU-16 - Register tags.
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

package register

import "strings"

// Register identifies one of the eight general purpose registers.
type Register uint16

// Registers in encoding order. The ordinal of each tag is its value in
// a 6-bit operand field.
const (
	A Register = iota
	B
	C
	X
	Y
	Z
	I
	J
)

// Count of general purpose registers.
const Count = 8

var names = [Count]string{"A", "B", "C", "X", "Y", "Z", "I", "J"}

func (r Register) String() string {
	if r >= Count {
		return "?"
	}
	return names[r]
}

// FromOrdinal maps a register ordinal 0..7 to its tag. Values outside
// that range cannot come from a decoded operand field.
func FromOrdinal(v uint16) Register {
	if v >= Count {
		panic("register ordinal out of range")
	}
	return Register(v)
}

// Lookup finds a register by name. The match is case insensitive.
func Lookup(name string) (Register, bool) {
	name = strings.ToUpper(name)
	for i, n := range names {
		if n == name {
			return Register(i), true
		}
	}
	return 0, false
}
