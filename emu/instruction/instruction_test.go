/*
 * DCPU-16 - Instruction word decoder tests.
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
	"testing"

	op "github.com/sunsided/dcpu-16/emu/opcodemap"
	"github.com/sunsided/dcpu-16/emu/operand"
)

// Every basic opcode with every operand field pair decodes to its
// parts, re-encodes to the original word, and reports the right
// length.
func TestBasicDecodeRoundTrip(t *testing.T) {
	for opcode := uint16(1); opcode <= 0xF; opcode++ {
		for af := uint16(0); af <= 0x3F; af++ {
			for bf := uint16(0); bf <= 0x3F; bf++ {
				word := opcode | (af << 4) | (bf << 10)
				inst, err := Decode(word)
				if err != nil {
					t.Fatalf("decode %04X failed: %v", word, err)
				}
				if inst.Op != opcode {
					t.Fatalf("decode %04X opcode expected %X got %X", word, opcode, inst.Op)
				}
				if inst.A != operand.Decode(af) || inst.B != operand.Decode(bf) {
					t.Fatalf("decode %04X operand mismatch", word)
				}

				if again := inst.Op | (inst.A.Inline() << 4) | (inst.B.Inline() << 10); again != word {
					t.Fatalf("re-encode of %04X yields %04X", word, again)
				}

				expected := 1 + inst.A.ExtraWords() + inst.B.ExtraWords()
				if inst.Length() != expected {
					t.Fatalf("length of %04X expected %d got %d", word, expected, inst.Length())
				}
			}
		}
	}
}

func TestDecodeJsr(t *testing.T) {
	// JSR with a next word literal operand.
	word := uint16((op.OpJSR << 4) | (0x1F << 10))
	inst, err := Decode(word)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !inst.NonBasic() {
		t.Error("expected non-basic form")
	}
	if inst.Sub != op.OpJSR {
		t.Errorf("sub-opcode expected %X got %X", op.OpJSR, inst.Sub)
	}
	if inst.A.Mode != operand.NextLiteral {
		t.Errorf("operand expected next literal got %+v", inst.A)
	}
	if inst.Length() != 2 {
		t.Errorf("length expected 2 got %d", inst.Length())
	}
}

func TestDecodeReserved(t *testing.T) {
	for _, sub := range []uint16{0x00, 0x02, 0x3F} {
		word := sub << 4
		if _, err := Decode(word); !errors.Is(err, ErrReserved) {
			t.Errorf("decode %04X expected reserved fault, got %v", word, err)
		}
	}
}

func TestCycles(t *testing.T) {
	cases := []struct {
		word     uint16
		expected int
	}{
		{0x7C01, 2}, // SET A, next word: 1 + 1 lookup
		{0x8402, 2}, // ADD A, 1
		{0x8005, 3}, // DIV A, 0
		{0xC00D, 2}, // IFN A, 0x10
		{0x7C10, 3}, // JSR next word
	}
	for _, test := range cases {
		inst, err := Decode(test.word)
		if err != nil {
			t.Fatalf("decode %04X failed: %v", test.word, err)
		}
		if got := inst.Cycles(); got != test.expected {
			t.Errorf("cycles of %04X expected %d got %d", test.word, test.expected, got)
		}
	}
}
