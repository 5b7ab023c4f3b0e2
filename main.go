/*
 * DCPU-16 - Main process.
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

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"
	"github.com/sunsided/dcpu-16/command/parser"
	"github.com/sunsided/dcpu-16/command/reader"
	assembler "github.com/sunsided/dcpu-16/emu/assemble"
	"github.com/sunsided/dcpu-16/emu/cpu"
	"github.com/sunsided/dcpu-16/emu/register"
	"github.com/sunsided/dcpu-16/util/image"
	logger "github.com/sunsided/dcpu-16/util/logger"
)

var Logger *slog.Logger

func main() {
	optSource := getopt.StringLong("assemble", 'a', "", "Assembler source file")
	optImage := getopt.StringLong("image", 'i', "", "Program image file")
	optOutput := getopt.StringLong("output", 'o', "", "Write assembled image to file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optConsole := getopt.BoolLong("console", 'c', "Interactive console")
	optDump := getopt.BoolLong("dump", 'x', "Hexdump RAM after execution")
	optDebug := getopt.BoolLong("debug", 'd', "Trace execution")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file io.Writer
	if *optLogFile != "" {
		if f, err := os.Create(*optLogFile); err == nil {
			file = f
		}
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger = slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel}, *optDebug))
	slog.SetDefault(Logger)

	if *optSource != "" && *optImage != "" {
		Logger.Error("Give either a source file or an image file, not both")
		os.Exit(1)
	}

	var program []uint16
	switch {
	case *optSource != "":
		source, err := os.ReadFile(*optSource)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
		program, err = assembler.Assemble(string(source))
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
		Logger.Info(fmt.Sprintf("Assembled %s to %d words", *optSource, len(program)))

		if *optOutput != "" {
			if err := image.Store(*optOutput, program); err != nil {
				Logger.Error(err.Error())
				os.Exit(1)
			}
			Logger.Info("Wrote image to " + *optOutput)
		}
	case *optImage != "":
		var err error
		program, err = image.Load(*optImage)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
	case !*optConsole:
		getopt.Usage()
		os.Exit(0)
	}

	if *optConsole {
		console, err := parser.NewConsole(program)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
		reader.ConsoleReader(console)
		return
	}

	// One shot: run the program to termination and report the state.
	machine, err := cpu.New(program)
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}
	if err := machine.Run(); err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}

	for r := register.Register(0); r < register.Count; r++ {
		fmt.Printf("%s=%04X ", r, machine.Register(r))
	}
	fmt.Printf("O=%04X SP=%04X PC=%04X cycles=%d\n",
		machine.O(), machine.SP(), machine.PC(), machine.Cycles())

	if *optDump {
		fmt.Print(machine.HexdumpRAM(8))
	}
}
