/*
	   DCPU-16 Assembler

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
	"fmt"
	"strconv"
	"strings"
	"unicode"

	op "github.com/sunsided/dcpu-16/emu/opcodemap"
	"github.com/sunsided/dcpu-16/emu/register"
)

// Assembler fault classes. Every error returned by Assemble wraps one
// of these.
var (
	ErrSyntax         = errors.New("syntax error")
	ErrDuplicateLabel = errors.New("label defined multiple times")
	ErrUndefinedLabel = errors.New("undefined label")
	ErrLabelTarget    = errors.New("label reference cannot be a store target")
	ErrLiteralRange   = errors.New("literal out of range")
	ErrImageTooLarge  = errors.New("program exceeds address space")
	ErrNoConvergence  = errors.New("size resolution did not converge")
)

// Expression kinds an operand can parse into.
type exprKind int

const (
	exprRegister         exprKind = iota // A..J
	exprRegisterIndirect                 // [register]
	exprAddress                          // [literal]
	exprAddressIndex                     // [literal+register]
	exprLiteral                          // decimal or hex literal
	exprInline                           // POP, PEEK, PUSH, SP, PC, O
	exprLabel                            // bare name
)

type expr struct {
	kind   exprKind
	reg    register.Register
	value  uint16
	inline uint16 // operand field for exprInline
	name   string // label name for exprLabel
}

// item is one meta element of the program: either a label definition or
// an abstract instruction.
type item struct {
	label    string // label definition when not empty
	nonBasic bool
	op       uint16 // basic opcode, or sub-opcode for the non-basic form
	a, b     expr   // b unused for the non-basic form
	line     int    // source line for diagnostics
}

// Inline operand fields of the keyword operands.
var keywordMap = map[string]uint16{
	"POP":  0x18,
	"PEEK": 0x19,
	"PUSH": 0x1A,
	"SP":   0x1B,
	"PC":   0x1C,
	"O":    0x1D,
}

// srcLine scans one source line. Comments start at ';' and run to the
// end of the line.
type srcLine struct {
	line string
	pos  int
	num  int
}

// Skip forward over line until none whitespace character found.
func (l *srcLine) skipSpace() {
	for l.pos < len(l.line) && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

// Check if at end of statement: end of line or start of a comment.
func (l *srcLine) isEOL() bool {
	return l.pos >= len(l.line) || l.line[l.pos] == ';'
}

// Peek at the current character, 0 at end of line.
func (l *srcLine) peek() byte {
	if l.isEOL() {
		return 0
	}
	return l.line[l.pos]
}

// Collect a run of letters, digits and underscores.
func (l *srcLine) getWord() string {
	start := l.pos
	for l.pos < len(l.line) {
		by := l.line[l.pos]
		if by == '_' || unicode.IsLetter(rune(by)) || unicode.IsDigit(rune(by)) {
			l.pos++
			continue
		}
		break
	}
	return l.line[start:l.pos]
}

func (l *srcLine) fail(kind error, format string, a ...interface{}) error {
	detail := fmt.Sprintf(format, a...)
	return fmt.Errorf("line %d: %w: %s", l.num, kind, detail)
}

// parse turns source text into the flat list of labels and abstract
// instructions.
func parse(source string) ([]item, error) {
	var items []item

	for num, text := range strings.Split(source, "\n") {
		l := &srcLine{line: strings.TrimSuffix(text, "\r"), num: num + 1}
		for {
			l.skipSpace()
			if l.isEOL() {
				break
			}

			if l.peek() == ':' {
				l.pos++
				name := l.getWord()
				if name == "" {
					return nil, l.fail(ErrSyntax, "label name expected after ':'")
				}
				items = append(items, item{label: name, line: l.num})
				continue
			}

			inst, err := parseInstruction(l)
			if err != nil {
				return nil, err
			}
			items = append(items, inst)
		}
	}
	return items, nil
}

// parseInstruction reads one mnemonic and its operands.
func parseInstruction(l *srcLine) (item, error) {
	name := l.getWord()
	if name == "" {
		return item{}, l.fail(ErrSyntax, "unexpected character %q", l.peek())
	}

	if sub, ok := op.LookupNonBasic(name); ok {
		a, err := parseValue(l)
		if err != nil {
			return item{}, err
		}
		return item{nonBasic: true, op: sub, a: a, line: l.num}, nil
	}

	opc, ok := op.LookupBasic(name)
	if !ok {
		return item{}, l.fail(ErrSyntax, "unknown instruction %s", name)
	}

	a, err := parseValue(l)
	if err != nil {
		return item{}, err
	}
	l.skipSpace()
	if l.peek() != ',' {
		return item{}, l.fail(ErrSyntax, "',' expected after first operand of %s", name)
	}
	l.pos++
	b, err := parseValue(l)
	if err != nil {
		return item{}, err
	}
	return item{op: opc, a: a, b: b, line: l.num}, nil
}

// parseValue reads one operand expression.
func parseValue(l *srcLine) (expr, error) {
	l.skipSpace()
	if l.isEOL() {
		return expr{}, l.fail(ErrSyntax, "operand expected")
	}

	if l.peek() == '[' {
		l.pos++
		return parseIndirect(l)
	}

	if unicode.IsDigit(rune(l.peek())) {
		value, err := parseNumber(l)
		if err != nil {
			return expr{}, err
		}
		return expr{kind: exprLiteral, value: value}, nil
	}

	word := l.getWord()
	if word == "" {
		return expr{}, l.fail(ErrSyntax, "unexpected character %q", l.peek())
	}
	if inline, ok := keywordMap[strings.ToUpper(word)]; ok {
		return expr{kind: exprInline, inline: inline}, nil
	}
	if reg, ok := register.Lookup(word); ok {
		return expr{kind: exprRegister, reg: reg}, nil
	}
	return expr{kind: exprLabel, name: word}, nil
}

// parseIndirect reads the remainder of a bracketed operand: [literal],
// [register] or [literal+register].
func parseIndirect(l *srcLine) (expr, error) {
	l.skipSpace()
	if l.isEOL() {
		return expr{}, l.fail(ErrSyntax, "address expected after '['")
	}

	if unicode.IsDigit(rune(l.peek())) {
		value, err := parseNumber(l)
		if err != nil {
			return expr{}, err
		}
		l.skipSpace()
		if l.peek() == '+' {
			l.pos++
			l.skipSpace()
			word := l.getWord()
			reg, ok := register.Lookup(word)
			if !ok {
				return expr{}, l.fail(ErrSyntax, "register expected after '+', got %q", word)
			}
			if err := expectClose(l); err != nil {
				return expr{}, err
			}
			return expr{kind: exprAddressIndex, reg: reg, value: value}, nil
		}
		if err := expectClose(l); err != nil {
			return expr{}, err
		}
		return expr{kind: exprAddress, value: value}, nil
	}

	word := l.getWord()
	reg, ok := register.Lookup(word)
	if !ok {
		return expr{}, l.fail(ErrSyntax, "register or address expected in brackets, got %q", word)
	}
	if err := expectClose(l); err != nil {
		return expr{}, err
	}
	return expr{kind: exprRegisterIndirect, reg: reg}, nil
}

func expectClose(l *srcLine) error {
	l.skipSpace()
	if l.peek() != ']' {
		return l.fail(ErrSyntax, "']' expected")
	}
	l.pos++
	return nil
}

// parseNumber reads a decimal or 0x prefixed hex literal and checks the
// 16 bit range.
func parseNumber(l *srcLine) (uint16, error) {
	word := l.getWord()
	base := 10
	digits := word
	if strings.HasPrefix(word, "0x") || strings.HasPrefix(word, "0X") {
		base = 16
		digits = word[2:]
	}
	value, err := strconv.ParseUint(digits, base, 16)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, l.fail(ErrLiteralRange, "%s does not fit 16 bits", word)
		}
		return 0, l.fail(ErrSyntax, "bad numeric literal %q", word)
	}
	return uint16(value), nil
}
