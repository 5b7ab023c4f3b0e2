/*
	   DCPU-16 Assembler, size resolution and emit.

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
	"fmt"

	"github.com/sunsided/dcpu-16/emu/operand"
)

/*
   Label addresses and instruction lengths depend on each other: a label
   reference encodes inline when its final address fits a small literal
   and takes an extra word otherwise, which in turn moves every label
   behind it. The resolver starts from the shortest candidate of every
   flexible instruction and re-walks the program, re-materializing each
   flexible instruction against the current label map and shifting the
   labels behind any instruction that changed size, until a full pass
   leaves everything in place. Each flexible operand has only two
   candidate sizes, so the walk settles quickly; a runaway is cut off
   and reported rather than looped forever.
*/

// Assemble translates source text into a program image.
func Assemble(source string) ([]uint16, error) {
	items, err := parse(source)
	if err != nil {
		return nil, err
	}

	labels, err := collectLabels(items)
	if err != nil {
		return nil, err
	}
	if err := checkReferences(items, labels); err != nil {
		return nil, err
	}

	lengths, err := resolveSizes(items, labels)
	if err != nil {
		return nil, err
	}

	// Emit pass: re-materialize one last time with the final label map.
	words := make([]uint16, 0, sum(lengths))
	for _, it := range items {
		if it.label != "" {
			continue
		}
		words = append(words, materialize(it, labels)...)
	}
	return words, nil
}

// collectLabels builds the label map and rejects duplicates. Addresses
// are filled in by the sizing passes.
func collectLabels(items []item) (map[string]uint16, error) {
	labels := make(map[string]uint16)
	for _, it := range items {
		if it.label == "" {
			continue
		}
		if _, ok := labels[it.label]; ok {
			return nil, fmt.Errorf("line %d: %w: %s", it.line, ErrDuplicateLabel, it.label)
		}
		labels[it.label] = 0
	}
	return labels, nil
}

// checkReferences rejects references to unknown labels and label
// references used as the destination of a basic instruction. Labels are
// values, not storage sites.
func checkReferences(items []item, labels map[string]uint16) error {
	for _, it := range items {
		if it.label != "" {
			continue
		}
		if !it.nonBasic && it.a.kind == exprLabel {
			return fmt.Errorf("line %d: %w: %s", it.line, ErrLabelTarget, it.a.name)
		}
		for _, e := range references(it) {
			if _, ok := labels[e.name]; !ok {
				return fmt.Errorf("line %d: %w: %s", it.line, ErrUndefinedLabel, e.name)
			}
		}
	}
	return nil
}

// references lists the label operands of an instruction.
func references(it item) []expr {
	var refs []expr
	if it.a.kind == exprLabel {
		refs = append(refs, it.a)
	}
	if !it.nonBasic && it.b.kind == exprLabel {
		refs = append(refs, it.b)
	}
	return refs
}

// resolveSizes runs the two-phase fixed point assigning each label its
// final address and each instruction its final length.
func resolveSizes(items []item, labels map[string]uint16) ([]int, error) {
	lengths := make([]int, len(items))

	// Initial pass: shortest candidate for every flexible instruction,
	// label positions accumulated as encountered.
	pos := 0
	for i, it := range items {
		if it.label != "" {
			labels[it.label] = uint16(pos)
			continue
		}
		lengths[i] = optimisticLength(it)
		pos += lengths[i]
	}

	// Fixed point: re-walk until a full pass moves nothing. Every
	// flexible instruction flips between two sizes only, so the cap is
	// generous.
	maxPasses := 2*len(items) + 8
	for pass := 0; ; pass++ {
		if pass >= maxPasses {
			return nil, ErrNoConvergence
		}
		changed := false
		pos = 0
		for i, it := range items {
			if it.label != "" {
				if labels[it.label] != uint16(pos) {
					labels[it.label] = uint16(pos)
					changed = true
				}
				continue
			}
			length := encodedLength(it, labels)
			if length != lengths[i] {
				lengths[i] = length
				changed = true
			}
			pos += length
		}
		if pos >= 0x10000 {
			return nil, fmt.Errorf("%w: %d words", ErrImageTooLarge, pos)
		}
		if !changed {
			return lengths, nil
		}
	}
}

// optimisticLength assumes every label reference collapses to an inline
// literal.
func optimisticLength(it item) int {
	length := 1 + operandExtra(it.a, nil)
	if !it.nonBasic {
		length += operandExtra(it.b, nil)
	}
	return length
}

// encodedLength is the instruction length against the current label
// map.
func encodedLength(it item, labels map[string]uint16) int {
	length := 1 + operandExtra(it.a, labels)
	if !it.nonBasic {
		length += operandExtra(it.b, labels)
	}
	return length
}

// operandExtra is the number of extra words the operand encodes to. A
// nil label map stands for the optimistic assumption.
func operandExtra(e expr, labels map[string]uint16) int {
	switch e.kind {
	case exprAddress, exprAddressIndex:
		return 1
	case exprLiteral:
		if e.value > operand.MaxInline {
			return 1
		}
		return 0
	case exprLabel:
		if labels == nil {
			return 0
		}
		if labels[e.name] > operand.MaxInline {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// materialize encodes one instruction against the final label map. The
// instruction word carries the opcode in the low four bits and the
// operand fields above it; extra words follow in fetch order, a first,
// then b.
func materialize(it item, labels map[string]uint16) []uint16 {
	if it.nonBasic {
		inlineA, extraA := encodeOperand(it.a, labels)
		words := []uint16{(it.op << 4) | (inlineA << 10)}
		if extraA != nil {
			words = append(words, *extraA)
		}
		return words
	}

	inlineA, extraA := encodeOperand(it.a, labels)
	inlineB, extraB := encodeOperand(it.b, labels)
	words := []uint16{it.op | (inlineA << 4) | (inlineB << 10)}
	if extraA != nil {
		words = append(words, *extraA)
	}
	if extraB != nil {
		words = append(words, *extraB)
	}
	return words
}

// encodeOperand produces the 6 bit inline field of an operand and its
// extra word, if it needs one.
func encodeOperand(e expr, labels map[string]uint16) (uint16, *uint16) {
	switch e.kind {
	case exprRegister:
		return uint16(e.reg), nil
	case exprRegisterIndirect:
		return 0x08 + uint16(e.reg), nil
	case exprAddressIndex:
		extra := e.value
		return 0x10 + uint16(e.reg), &extra
	case exprInline:
		return e.inline, nil
	case exprAddress:
		extra := e.value
		return 0x1E, &extra
	default: // literal or label reference
		value := e.value
		if e.kind == exprLabel {
			value = labels[e.name]
		}
		if value > operand.MaxInline {
			return 0x1F, &value
		}
		return 0x20 + value, nil
	}
}

func sum(lengths []int) int {
	total := 0
	for _, n := range lengths {
		total += n
	}
	return total
}
