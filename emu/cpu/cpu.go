/*
   CPU: main CPU instruction fetch and execute.

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

package cpu

import (
	"fmt"
	"log/slog"

	dis "github.com/sunsided/dcpu-16/emu/disassemble"
	"github.com/sunsided/dcpu-16/emu/instruction"
	op "github.com/sunsided/dcpu-16/emu/opcodemap"
	"github.com/sunsided/dcpu-16/emu/operand"
	"github.com/sunsided/dcpu-16/emu/register"
	"github.com/sunsided/dcpu-16/util/hex"
)

/*
   The DCPU-16 is a 16 bit, word addressed processor with eight general
   purpose registers (A, B, C, X, Y, Z, I, J), a program counter, a stack
   pointer and an overflow register. All arithmetic wraps at 2^16, with
   the lost bits captured in the overflow register. The stack lives in
   RAM and grows downward from the top of the address space.

   Basic instructions carry an opcode in the low four bits and two 6 bit
   operand fields: bbbbbbaaaaaaoooo. Opcode zero selects the non-basic
   form, whose sub-opcode occupies the a field and whose sole operand
   occupies the b field. Operand fields that name the next word consume
   one extra instruction word each, fetched a first, then b.

   The program image is borrowed at construction and never written; all
   instruction fetches read the image, while memory operands read and
   write RAM. A store through the program counter therefore lands in RAM
   and is never fetched back.
*/

const (
	// NumRAMWords is the size of the address space in words.
	NumRAMWords = 0x10000
	// InitialSP is the reset value of the stack pointer.
	InitialSP = NumRAMWords - 1
)

// CPU is a single DCPU-16 instance. It owns its RAM and register file
// exclusively; nothing here is safe for concurrent use.
type CPU struct {
	program   []uint16
	ram       [NumRAMWords]uint16
	registers [register.Count]uint16
	pc        uint16
	sp        uint16
	o         uint16
	skip      bool
	cycles    uint64
}

// Storage site kinds an operand can resolve to.
type siteKind int

const (
	siteRegister siteKind = iota
	siteRAM
	sitePC
	siteSP
	siteO
	siteLiteral // stores vanish
)

type site struct {
	kind siteKind
	addr uint16 // register ordinal or RAM address
}

// resolved is an operand after address calculation: where a store would
// go and the value that was read.
type resolved struct {
	kind  operand.Kind
	extra uint16
	site  site
	value uint16
}

// New creates a CPU borrowing the given program image. The image must
// fit the 16 bit address space.
func New(program []uint16) (*CPU, error) {
	if len(program) >= NumRAMWords {
		return nil, fmt.Errorf("program image of %d words exceeds address space", len(program))
	}
	return &CPU{
		program: program,
		sp:      InitialSP,
	}, nil
}

// Register returns the value of a general purpose register.
func (c *CPU) Register(r register.Register) uint16 {
	return c.registers[r]
}

// RAM exposes the memory array. Callers must treat it as read only.
func (c *CPU) RAM() []uint16 {
	return c.ram[:]
}

// PC returns the program counter.
func (c *CPU) PC() uint16 {
	return c.pc
}

// SP returns the stack pointer.
func (c *CPU) SP() uint16 {
	return c.sp
}

// O returns the overflow register.
func (c *CPU) O() uint16 {
	return c.o
}

// Cycles returns the accumulated base cycle count. The emulator records
// cycles but never slows down to match them.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// Program returns the borrowed program image.
func (c *CPU) Program() []uint16 {
	return c.program
}

// HexdumpProgram formats the program image as hex rows.
func (c *CPU) HexdumpProgram(wordsPerRow int) string {
	return hex.Dump(c.program, 0, wordsPerRow)
}

// HexdumpRAM formats the RAM contents as hex rows.
func (c *CPU) HexdumpRAM(wordsPerRow int) string {
	return hex.Dump(c.ram[:], 0, wordsPerRow)
}

// Run steps the CPU until it stops on a crash loop, the end of the
// program image, or a decode fault.
func (c *CPU) Run() error {
	for {
		cont, err := c.Step()
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}

// Step executes one instruction. It returns false when the emulation
// should stop: the instruction jumped to itself (crash loop) or the
// program counter left the image. A reserved non-basic sub-opcode stops
// with an error.
func (c *CPU) Step() (bool, error) {
	if int(c.pc) >= len(c.program) {
		return false, nil
	}
	prevPC := c.pc

	inst, err := instruction.Decode(c.nextWord())
	if err != nil {
		return false, fmt.Errorf("decode fault at 0x%04X: %w", prevPC, err)
	}

	// Operands resolve a first, then b. This consumes the extra words in
	// fetch order and applies Pop/Push moves of SP even when the
	// instruction ends up skipped.
	a := c.resolve(inst.A)
	var b resolved
	if !inst.NonBasic() {
		b = c.resolve(inst.B)
	}
	c.cycles += uint64(inst.Cycles())

	if c.skip {
		c.skip = false
		slog.Debug("skip: " + dis.Mnemonic(inst, a.extra, b.extra))
	} else {
		c.execute(inst, a, b)
		slog.Debug(fmt.Sprintf("%04X ; %s => %s", inst.Raw,
			dis.Mnemonic(inst, a.extra, b.extra), dis.Human(inst, a.extra, b.extra)))
	}

	if c.pc == prevPC {
		slog.Debug(fmt.Sprintf("crash loop at 0x%04X", c.pc))
		return false, nil
	}
	if int(c.pc) >= len(c.program) {
		return false, nil
	}
	return true, nil
}

// nextWord fetches the program word at PC and advances PC. Reads past
// the end of the image yield zero.
func (c *CPU) nextWord() uint16 {
	var value uint16
	if int(c.pc) < len(c.program) {
		value = c.program[c.pc]
	}
	c.pc++
	return value
}

// resolve turns an operand kind into its storage site and current
// value, consuming an extra program word where the kind demands one.
func (c *CPU) resolve(k operand.Kind) resolved {
	res := resolved{kind: k}
	switch k.Mode {
	case operand.Register:
		res.site = site{siteRegister, uint16(k.Reg)}
		res.value = c.registers[k.Reg]
	case operand.RegisterIndirect:
		addr := c.registers[k.Reg]
		res.site = site{siteRAM, addr}
		res.value = c.ram[addr]
	case operand.IndirectOffset:
		res.extra = c.nextWord()
		addr := res.extra + c.registers[k.Reg]
		res.site = site{siteRAM, addr}
		res.value = c.ram[addr]
	case operand.Pop:
		addr := c.sp
		c.sp++
		res.site = site{siteRAM, addr}
		res.value = c.ram[addr]
	case operand.Peek:
		res.site = site{siteRAM, c.sp}
		res.value = c.ram[c.sp]
	case operand.Push:
		c.sp--
		res.site = site{siteRAM, c.sp}
		res.value = c.ram[c.sp]
	case operand.StackPointer:
		res.site = site{kind: siteSP}
		res.value = c.sp
	case operand.ProgramCounter:
		res.site = site{kind: sitePC}
		res.value = c.pc
	case operand.Overflow:
		res.site = site{kind: siteO}
		res.value = c.o
	case operand.Indirect:
		res.extra = c.nextWord()
		res.site = site{siteRAM, res.extra}
		res.value = c.ram[res.extra]
	case operand.NextLiteral:
		res.extra = c.nextWord()
		res.site = site{kind: siteLiteral}
		res.value = res.extra
	default: // small inline literal
		res.site = site{kind: siteLiteral}
		res.value = k.Value
	}
	return res
}

// store writes a value through a site. Stores into literal sites vanish
// by definition of the instruction set.
func (c *CPU) store(s site, value uint16) {
	switch s.kind {
	case siteRegister:
		c.registers[s.addr] = value
	case siteRAM:
		c.ram[s.addr] = value
	case sitePC:
		c.pc = value
	case siteSP:
		c.sp = value
	case siteO:
		c.o = value
	case siteLiteral:
		slog.Debug(fmt.Sprintf("discarding store of 0x%04X into literal", value))
	}
}

// execute performs one decoded instruction with resolved operands. The
// intermediate arithmetic is done at 32 bit width so the overflow
// register sees the lost bits.
func (c *CPU) execute(inst instruction.Instruction, a, b resolved) {
	if inst.NonBasic() {
		// JSR: push the address of the next instruction, then jump.
		c.sp--
		c.ram[c.sp] = c.pc
		c.pc = a.value
		return
	}

	la := uint32(a.value)
	rb := uint32(b.value)

	switch inst.Op {
	case op.OpSET:
		c.store(a.site, b.value)
	case op.OpADD:
		v := la + rb
		c.store(a.site, uint16(v))
		if v > 0xFFFF {
			c.o = 1
		} else {
			c.o = 0
		}
	case op.OpSUB:
		v := la - rb
		c.store(a.site, uint16(v))
		if la < rb {
			c.o = 0xFFFF
		} else {
			c.o = 0
		}
	case op.OpMUL:
		v := la * rb
		c.store(a.site, uint16(v))
		c.o = uint16(v >> 16)
	case op.OpDIV:
		if rb == 0 {
			c.store(a.site, 0)
			c.o = 0
		} else {
			c.store(a.site, uint16(la/rb))
			c.o = uint16((la << 16) / rb)
		}
	case op.OpMOD:
		if rb == 0 {
			c.store(a.site, 0)
		} else {
			c.store(a.site, uint16(la%rb))
		}
	case op.OpSHL:
		v := la << rb
		c.store(a.site, uint16(v))
		c.o = uint16(v >> 16)
	case op.OpSHR:
		c.store(a.site, uint16(la>>rb))
		c.o = uint16((la << 16) >> rb)
	case op.OpAND:
		c.store(a.site, a.value&b.value)
	case op.OpBOR:
		c.store(a.site, a.value|b.value)
	case op.OpXOR:
		c.store(a.site, a.value^b.value)
	case op.OpIFE:
		c.condition(a.value == b.value)
	case op.OpIFN:
		c.condition(a.value != b.value)
	case op.OpIFG:
		c.condition(a.value > b.value)
	case op.OpIFB:
		c.condition((a.value & b.value) != 0)
	}
}

// condition arms the skip latch when the predicate failed. A failed
// test costs one extra cycle.
func (c *CPU) condition(ok bool) {
	if !ok {
		c.skip = true
		c.cycles++
	}
}
