/*
 * RV32 - Cycle accurate RV32I pipeline simulator.
 *
 * Copyright 2025, Richard Cornwell
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
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"
	parser "github.com/rcornwell/RV32/command/parser"
	reader "github.com/rcornwell/RV32/command/reader"
	config "github.com/rcornwell/RV32/config/configparser"
	core "github.com/rcornwell/RV32/emu/core"
	logger "github.com/rcornwell/RV32/util/logger"
)

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optImage := getopt.StringLong("image", 'm', "", "Memory image to load")
	optCycles := getopt.Uint64Long("cycles", 'n', 10000, "Cycles to run")
	optInteractive := getopt.BoolLong("interactive", 'i', "Interactive monitor")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		file, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	handler := logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel})
	slog.SetDefault(slog.New(handler))

	slog.Info("RV32 started")

	cfg := config.Default()
	if *optConfig != "" {
		var err error
		cfg, err = config.LoadConfigFile(*optConfig)
		if err != nil {
			slog.Error(err.Error())
			os.Exit(1)
		}
	}
	if *optImage != "" {
		cfg.Image = *optImage
	}
	if cfg.Trace {
		handler.SetDebug(true)
	}

	mach, err := core.NewMachine(cfg)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	if *optInteractive {
		reader.ConsoleReader(mach)
		return
	}

	mach.Run(*optCycles)
	if _, err := parser.ProcessCommand("registers", mach); err != nil {
		slog.Error(err.Error())
	}
	if _, err := parser.ProcessCommand("cache", mach); err != nil {
		slog.Error(err.Error())
	}
}
