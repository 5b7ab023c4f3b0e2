/*
 * DCPU-16 - Console commands.
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

package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	assembler "github.com/sunsided/dcpu-16/emu/assemble"
	"github.com/sunsided/dcpu-16/emu/cpu"
	dis "github.com/sunsided/dcpu-16/emu/disassemble"
	"github.com/sunsided/dcpu-16/emu/instruction"
	"github.com/sunsided/dcpu-16/emu/register"
	"github.com/sunsided/dcpu-16/util/hex"
	"github.com/sunsided/dcpu-16/util/image"
)

// Console owns the machine the interactive commands operate on. The
// program image is kept so reset can build a fresh CPU.
type Console struct {
	cpu     *cpu.CPU
	program []uint16
	halted  bool
}

// NewConsole creates a console around a program image, which may be
// empty until one is loaded.
func NewConsole(program []uint16) (*Console, error) {
	machine, err := cpu.New(program)
	if err != nil {
		return nil, err
	}
	return &Console{cpu: machine, program: program}, nil
}

var cmdList = []cmd{
	{name: "assemble", min: 1, process: assembleCmd},
	{name: "dump", min: 2, process: dump, complete: dumpComplete},
	{name: "list", min: 2, process: list},
	{name: "load", min: 2, process: load},
	{name: "quit", min: 1, process: quit},
	{name: "registers", min: 3, process: registers},
	{name: "reset", min: 5, process: reset},
	{name: "run", min: 2, process: run},
	{name: "step", min: 2, process: step},
}

// Prompt renders the console prompt with the machine state folded in:
// the current program counter, and a marker once the machine stopped.
func (console *Console) Prompt() string {
	if console.halted {
		return fmt.Sprintf("DCPU-16 [%04X halted]> ", console.cpu.PC())
	}
	return fmt.Sprintf("DCPU-16 [%04X]> ", console.cpu.PC())
}

// Swap in a new program image and a fresh CPU.
func (console *Console) install(program []uint16) error {
	machine, err := cpu.New(program)
	if err != nil {
		return err
	}
	console.cpu = machine
	console.program = program
	console.halted = false
	return nil
}

// Handle load command: read a program image file.
func load(line *cmdLine, console *Console) (bool, error) {
	fileName := line.getWord()
	if fileName == "" {
		return false, errors.New("file name expected")
	}
	program, err := image.Load(fileName)
	if err != nil {
		return false, err
	}
	if err := console.install(program); err != nil {
		return false, err
	}
	fmt.Printf("Loaded %d words\n", len(program))
	return false, nil
}

// Handle assemble command: assemble a source file and install the
// result.
func assembleCmd(line *cmdLine, console *Console) (bool, error) {
	fileName := line.getWord()
	if fileName == "" {
		return false, errors.New("source file name expected")
	}
	source, err := os.ReadFile(fileName)
	if err != nil {
		return false, err
	}
	program, err := assembler.Assemble(string(source))
	if err != nil {
		return false, err
	}
	if err := console.install(program); err != nil {
		return false, err
	}
	slog.Info(fmt.Sprintf("Assembled %s to %d words", fileName, len(program)))

	// Optional second argument writes the image out.
	if output := line.getWord(); output != "" {
		if err := image.Store(output, program); err != nil {
			return false, err
		}
		fmt.Printf("Wrote %s\n", output)
	}
	return false, nil
}

// Handle step command: execute one or more instructions.
func step(line *cmdLine, console *Console) (bool, error) {
	count, ok, err := line.getNumber()
	if err != nil {
		return false, err
	}
	if !ok {
		count = 1
	}
	if console.halted {
		return false, errors.New("machine halted, reset to continue")
	}
	for range count {
		cont, err := console.cpu.Step()
		if err != nil {
			console.halted = true
			return false, err
		}
		if !cont {
			console.halted = true
			fmt.Printf("Halted at PC=0x%04X\n", console.cpu.PC())
			return false, nil
		}
	}
	printState(console)
	return false, nil
}

// Handle run command: execute until the machine stops.
func run(_ *cmdLine, console *Console) (bool, error) {
	if console.halted {
		return false, errors.New("machine halted, reset to continue")
	}
	err := console.cpu.Run()
	console.halted = true
	if err != nil {
		return false, err
	}
	fmt.Printf("Halted at PC=0x%04X\n", console.cpu.PC())
	return false, nil
}

// Handle registers command: show the machine state.
func registers(_ *cmdLine, console *Console) (bool, error) {
	printState(console)
	return false, nil
}

func printState(console *Console) {
	machine := console.cpu
	var str strings.Builder
	for r := register.Register(0); r < register.Count; r++ {
		fmt.Fprintf(&str, "%s=%04X ", r, machine.Register(r))
	}
	fmt.Fprintf(&str, "O=%04X SP=%04X PC=%04X cycles=%d",
		machine.O(), machine.SP(), machine.PC(), machine.Cycles())
	fmt.Println(str.String())
}

// Handle dump command: hex dump of RAM or the program image.
func dump(line *cmdLine, console *Console) (bool, error) {
	what := line.getWord()
	var words []uint16
	switch what {
	case "ram":
		words = console.cpu.RAM()
	case "program":
		words = console.cpu.Program()
	default:
		return false, errors.New("dump ram or dump program")
	}

	start, ok, err := line.getNumber()
	if err != nil {
		return false, err
	}
	if !ok {
		start = 0
	}
	count, ok, err := line.getNumber()
	if err != nil {
		return false, err
	}
	if !ok {
		count = 64
	}

	if int(start) >= len(words) {
		return false, errors.New("start address past the end")
	}
	end := int(start) + int(count)
	if end > len(words) {
		end = len(words)
	}
	fmt.Print(hex.Dump(words[start:end], start, 8))
	return false, nil
}

func dumpComplete(line *cmdLine) []string {
	word := line.getWord()
	var matches []string
	for _, name := range []string{"ram", "program"} {
		if strings.HasPrefix(name, word) {
			matches = append(matches, name)
		}
	}
	return matches
}

// Handle list command: disassemble the program image.
func list(line *cmdLine, console *Console) (bool, error) {
	program := console.cpu.Program()
	addr, ok, err := line.getNumber()
	if err != nil {
		return false, err
	}
	if !ok {
		addr = 0
	}
	count, ok, err := line.getNumber()
	if err != nil {
		return false, err
	}
	if !ok {
		count = 16
	}

	pos := int(addr)
	for range count {
		if pos >= len(program) {
			break
		}
		inst, err := instruction.Decode(program[pos])
		if err != nil {
			fmt.Printf("%04X: DAT 0x%04X\n", pos, program[pos])
			pos++
			continue
		}
		var extraA, extraB uint16
		next := pos + 1
		if inst.A.ExtraWords() == 1 && next < len(program) {
			extraA = program[next]
			next++
		}
		if !inst.NonBasic() && inst.B.ExtraWords() == 1 && next < len(program) {
			extraB = program[next]
		}
		fmt.Printf("%04X: %s\n", pos, dis.Mnemonic(inst, extraA, extraB))
		pos += inst.Length()
	}
	return false, nil
}

// Handle reset command: rebuild the CPU over the same image.
func reset(_ *cmdLine, console *Console) (bool, error) {
	return false, console.install(console.program)
}

// Handle quit command.
func quit(_ *cmdLine, _ *Console) (bool, error) {
	return true, nil
}
