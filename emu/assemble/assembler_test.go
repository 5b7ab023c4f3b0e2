/*
	   DCPU-16 Assembler Test routines.

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
package assembler

import (
	"errors"
	"strings"
	"testing"

	"github.com/sunsided/dcpu-16/emu/cpu"
	"github.com/sunsided/dcpu-16/emu/register"
)

func mustAssemble(t *testing.T, source string) []uint16 {
	t.Helper()
	words, err := Assemble(source)
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	return words
}

func TestAssembleSingleInstructions(t *testing.T) {
	cases := []struct {
		source   string
		expected []uint16
	}{
		{"SET A, 0x30", []uint16{0x7C01, 0x0030}},
		{"SET A, 0x1F", []uint16{0xFC01}},
		{"SET [0x1000], 0x20", []uint16{0x7DE1, 0x1000, 0x0020}},
		{"SUB A, [0x1000]", []uint16{0x7803, 0x1000}},
		{"IFN A, 0x10", []uint16{0xC00D}},
		{"SET I, 10", []uint16{0xA861}},
		{"SET [0x2000+I], [A]", []uint16{0x2161, 0x2000}},
		{"SUB I, 1", []uint16{0x8463}},
		{"IFN I, 0", []uint16{0x806D}},
		{"SET X, 0x4", []uint16{0x9031}},
		{"SHL X, 4", []uint16{0x9037}},
		{"SET PC, POP", []uint16{0x61C1}},
		{"SET PUSH, B", []uint16{0x05A1}},
		{"SET PEEK, 0", []uint16{0x8191}},
		{"SET O, SP", []uint16{0x6DD1}},
		{"JSR 0x18", []uint16{0xE010}},
		{"JSR 0x40", []uint16{0x7C10, 0x0040}},
	}
	for _, test := range cases {
		words := mustAssemble(t, test.source)
		if len(words) != len(test.expected) {
			t.Errorf("%s: expected %d words got %d", test.source, len(test.expected), len(words))
			continue
		}
		for i := range words {
			if words[i] != test.expected[i] {
				t.Errorf("%s: word %d expected %04X got %04X",
					test.source, i, test.expected[i], words[i])
			}
		}
	}
}

func TestAssembleCaseAndWhitespace(t *testing.T) {
	words := mustAssemble(t, "  set   a ,0x30   ; trailing comment")
	if len(words) != 2 || words[0] != 0x7C01 || words[1] != 0x0030 {
		t.Errorf("expected 7C01 0030 got %04X", words)
	}
}

func TestAssembleCommentsAndBlankLines(t *testing.T) {
	source := `
; a comment on its own

	SET A, 1 ; trailing
`
	words := mustAssemble(t, source)
	if len(words) != 1 || words[0] != 0x8401 {
		t.Errorf("expected 8401 got %04X", words)
	}
}

// The specimen program of the original system. Labels that land below
// 0x20 collapse to inline literals, so the first instructions must
// match the reference image word for word while the label references
// use the short form.
func TestAssembleSampleProgram(t *testing.T) {
	source := `
        ; Try some basic stuff
                      SET A, 0x30
                      SET [0x1000], 0x20
                      SUB A, [0x1000]
                      IFN A, 0x10
                         SET PC, crash

        ; Do a loopy thing
                      SET I, 10
                      SET A, 0x2000
        :loop         SET [0x2000+I], [A]
                      SUB I, 1
                      IFN I, 0
                         SET PC, loop

        ; Call a subroutine
                      SET X, 0x4
                      JSR testsub
                      SET PC, crash

        :testsub      SHL X, 4
                      SET PC, POP

        ; Hang forever. X should now be 0x40 if everything went right.
        :crash        SET PC, crash
`
	words := mustAssemble(t, source)

	// The fixed size prefix matches the reference encoding.
	prefix := []uint16{0x7C01, 0x0030, 0x7DE1, 0x1000, 0x0020, 0x7803, 0x1000, 0xC00D}
	for i, expected := range prefix {
		if words[i] != expected {
			t.Errorf("word %d expected %04X got %04X", i, expected, words[i])
		}
	}

	// All label targets fit inline, so every flexible instruction took
	// its one word form.
	if len(words) != 23 {
		t.Fatalf("expected 23 words got %d", len(words))
	}

	// The assembled program behaves like the reference image.
	machine, err := cpu.New(words)
	if err != nil {
		t.Fatalf("cpu.New failed: %v", err)
	}
	if err := machine.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if machine.Register(register.A) != 0x2000 {
		t.Errorf("A expected 2000 got %04X", machine.Register(register.A))
	}
	if machine.Register(register.X) != 0x40 {
		t.Errorf("X expected 0040 got %04X", machine.Register(register.X))
	}
	if machine.RAM()[0x1000] != 0x20 {
		t.Errorf("RAM[1000] expected 0020 got %04X", machine.RAM()[0x1000])
	}
	if machine.PC() != 0x16 {
		t.Errorf("PC expected 0016 got %04X", machine.PC())
	}
}

// A forward label that starts out inlinable but ends up past 0x1F must
// inflate its referring instruction and shift the labels behind it.
func TestResolverInflatesForwardReference(t *testing.T) {
	var str strings.Builder
	str.WriteString("SET PC, end\n")
	for range 20 {
		str.WriteString("SET A, 0x40\n")
	}
	str.WriteString(":end SET A, 1\n")

	words := mustAssemble(t, str.String())

	// 2 words for the inflated jump, 20 fillers of 2 words, 1 closer.
	if len(words) != 43 {
		t.Fatalf("expected 43 words got %d", len(words))
	}
	if words[0] != 0x7DC1 || words[1] != 0x002A {
		t.Errorf("expected inflated SET PC, 0x2A got %04X %04X", words[0], words[1])
	}
	if words[42] != 0x8401 {
		t.Errorf("expected SET A, 1 at the end got %04X", words[42])
	}
}

// A backward reference to a small address stays inline.
func TestResolverKeepsShortBackwardReference(t *testing.T) {
	words := mustAssemble(t, ":start SET A, 1\nSET PC, start\n")
	if len(words) != 2 {
		t.Fatalf("expected 2 words got %d", len(words))
	}
	if words[1] != 0x81C1 {
		t.Errorf("expected SET PC, 0x00 inline got %04X", words[1])
	}
}

func TestDuplicateLabel(t *testing.T) {
	_, err := Assemble(":a SET A, 1\n:a SET A, 2\n")
	if !errors.Is(err, ErrDuplicateLabel) {
		t.Errorf("expected duplicate label fault got %v", err)
	}
}

func TestUndefinedLabel(t *testing.T) {
	_, err := Assemble("SET PC, nowhere\n")
	if !errors.Is(err, ErrUndefinedLabel) {
		t.Errorf("expected undefined label fault got %v", err)
	}
}

func TestLabelAsTarget(t *testing.T) {
	_, err := Assemble(":spot SET spot, 1\n")
	if !errors.Is(err, ErrLabelTarget) {
		t.Errorf("expected label target fault got %v", err)
	}
}

func TestLabelAsJsrOperand(t *testing.T) {
	// JSR takes its label as a value, not a target; this must pass.
	words := mustAssemble(t, "JSR sub\n:sub SET A, 1\n")
	if len(words) != 2 {
		t.Fatalf("expected 2 words got %d", len(words))
	}
	if words[0] != ((0x01 << 4) | (0x21 << 10)) {
		t.Errorf("expected JSR 0x01 inline got %04X", words[0])
	}
}

func TestLiteralOutOfRange(t *testing.T) {
	_, err := Assemble("SET A, 0x10000\n")
	if !errors.Is(err, ErrLiteralRange) {
		t.Errorf("expected literal range fault got %v", err)
	}
	_, err = Assemble("SET A, 65536\n")
	if !errors.Is(err, ErrLiteralRange) {
		t.Errorf("expected literal range fault got %v", err)
	}
}

func TestSyntaxFaults(t *testing.T) {
	cases := []string{
		"FROB A, B",
		"SET A",
		"SET A 1",
		"SET , 1",
		"SET A, [Q]",
		"SET A, [0x10+]",
		"SET A, [0x10",
		"JSR",
		": SET A, 1",
		"SET A, 12ab",
	}
	for _, source := range cases {
		if _, err := Assemble(source); !errors.Is(err, ErrSyntax) {
			t.Errorf("%q: expected syntax fault got %v", source, err)
		}
	}
}

func TestErrorsNameTheLine(t *testing.T) {
	_, err := Assemble("SET A, 1\nSET PC, nowhere\n")
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected line 2 in error, got %v", err)
	}
}
