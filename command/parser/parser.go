/*
 * RV32 - Command parser.
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

// Package parser dispatches monitor command lines. Command names match
// on any unambiguous prefix of at least the minimum length.
package parser

import (
	"errors"
	"strconv"
	"unicode"

	core "github.com/rcornwell/RV32/emu/core"
)

type cmd struct {
	name     string // Command name.
	min      int    // Minimum match size.
	process  func(*cmdLine, *core.Machine) (bool, error)
	complete func(*cmdLine) []string
}

type cmdLine struct {
	line string // Current command.
	pos  int    // Position in line.
}

var cmdList = []cmd{
	{name: "step", min: 2, process: step},
	{name: "run", min: 3, process: runCmd},
	{name: "registers", min: 3, process: registers},
	{name: "examine", min: 1, process: examine},
	{name: "deposit", min: 3, process: deposit},
	{name: "cache", min: 2, process: cacheStats},
	{name: "load", min: 2, process: load},
	{name: "reset", min: 5, process: reset},
	{name: "set", min: 3, process: set, complete: setComplete},
	{name: "unset", min: 5, process: unset, complete: setComplete},
	{name: "quit", min: 1, process: quit},
}

// ProcessCommand executes the command line given. The returned flag is
// true when the monitor should exit.
func ProcessCommand(commandLine string, mach *core.Machine) (bool, error) {
	line := cmdLine{line: commandLine}
	command := line.getWord()
	if command == "" {
		return false, nil
	}

	match := matchList(command)
	if len(match) == 0 {
		return false, errors.New("command not found: " + command)
	}
	if len(match) > 1 {
		return false, errors.New("unique command not found: " + command)
	}
	return match[0].process(&line, mach)
}

// Check if command matches at least to minimum length.
func matchCommand(match cmd, command string) bool {
	if len(command) > len(match.name) {
		return false
	}
	for i := 0; i < len(command); i++ {
		if match.name[i] != command[i] {
			return false
		}
	}
	return len(command) >= match.min
}

// Collect all commands the given word could name.
func matchList(command string) []cmd {
	var matches []cmd
	for _, c := range cmdList {
		if matchCommand(c, command) {
			matches = append(matches, c)
		}
	}
	return matches
}

func (l *cmdLine) isEOL() bool {
	return l.pos >= len(l.line)
}

func (l *cmdLine) skipSpace() {
	for l.pos < len(l.line) && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

// getWord collects the next whitespace delimited word.
func (l *cmdLine) getWord() string {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.line) && !unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
	return l.line[start:l.pos]
}

// getHex collects a hex number, with optional 0x prefix.
func (l *cmdLine) getHex() (uint32, error) {
	word := l.getWord()
	if word == "" {
		return 0, errors.New("address expected")
	}
	if len(word) > 2 && word[0] == '0' && (word[1] == 'x' || word[1] == 'X') {
		word = word[2:]
	}
	value, err := strconv.ParseUint(word, 16, 32)
	if err != nil {
		return 0, errors.New("invalid address: " + word)
	}
	return uint32(value), nil
}

// getNumber collects a decimal count, or the given default when the
// line is exhausted.
func (l *cmdLine) getNumber(def uint64) (uint64, error) {
	word := l.getWord()
	if word == "" {
		return def, nil
	}
	value, err := strconv.ParseUint(word, 10, 64)
	if err != nil {
		return 0, errors.New("invalid count: " + word)
	}
	return value, nil
}
