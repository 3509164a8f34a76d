/*
 * RV32 - Configuration file parser.
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

// Package configparser reads the simulator configuration file.
//
// Configuration file format:
//
//	'#' indicates comment, rest of line is ignored.
//	memory <size>[K|M]             size of backing store
//	icache line=<bytes> sets=<n>   instruction cache geometry
//	icache off                     no instruction cache
//	dcache line=<bytes> sets=<n>   data cache geometry
//	dcache off                     no data cache
//	image <path> [<hexaddr>]       raw word image to load
//	pc <hexaddr>                   start PC
//	trace on|off                   per cycle instruction trace
package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// CacheConfig is one cache side's geometry; nil means no cache.
type CacheConfig struct {
	LineSize int
	Sets     int
}

// Config is the parsed simulator configuration.
type Config struct {
	MemSize   uint32 // Backing store size in bytes.
	ICache    *CacheConfig
	DCache    *CacheConfig
	Image     string
	ImageAddr uint32
	PC        uint32
	Trace     bool
}

// Default returns the configuration used when no file is given: one
// megabyte of memory and a 16 byte line, 64 set cache on each side.
func Default() *Config {
	return &Config{
		MemSize: 1024 * 1024,
		ICache:  &CacheConfig{LineSize: 16, Sets: 64},
		DCache:  &CacheConfig{LineSize: 16, Sets: 64},
	}
}

// Current option line being parsed.
type optionLine struct {
	line string
	pos  int
}

func (l *optionLine) isEOL() bool {
	return l.pos >= len(l.line) || l.line[l.pos] == '#'
}

func (l *optionLine) skipSpace() {
	for l.pos < len(l.line) && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

// getWord collects the next whitespace delimited word, empty at end of
// line.
func (l *optionLine) getWord() string {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.line) && !unicode.IsSpace(rune(l.line[l.pos])) && l.line[l.pos] != '#' {
		l.pos++
	}
	return l.line[start:l.pos]
}

// getSize parses a decimal size with optional K or M suffix.
func getSize(word string) (uint32, error) {
	mult := uint32(1)
	switch {
	case strings.HasSuffix(word, "K"), strings.HasSuffix(word, "k"):
		mult = 1024
		word = word[:len(word)-1]
	case strings.HasSuffix(word, "M"), strings.HasSuffix(word, "m"):
		mult = 1024 * 1024
		word = word[:len(word)-1]
	}
	value, err := strconv.ParseUint(word, 10, 32)
	if err != nil {
		return 0, errors.New("invalid size: " + word)
	}
	return uint32(value) * mult, nil
}

// getHex parses a hex address with optional 0x prefix.
func getHex(word string) (uint32, error) {
	word = strings.TrimPrefix(strings.ToLower(word), "0x")
	value, err := strconv.ParseUint(word, 16, 32)
	if err != nil {
		return 0, errors.New("invalid address: " + word)
	}
	return uint32(value), nil
}

// getCache parses a cache option list: off, or line= and sets= pairs.
func getCache(line *optionLine) (*CacheConfig, error) {
	cfg := &CacheConfig{LineSize: 16, Sets: 64}
	first := line.getWord()
	if first == "off" {
		return nil, nil
	}
	for word := first; word != ""; word = line.getWord() {
		name, value, found := strings.Cut(word, "=")
		if !found {
			return nil, errors.New("invalid cache option: " + word)
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, errors.New("invalid cache option: " + word)
		}
		switch name {
		case "line":
			cfg.LineSize = n
		case "sets":
			cfg.Sets = n
		default:
			return nil, errors.New("unknown cache option: " + name)
		}
	}
	return cfg, nil
}

// parseLine handles one configuration line.
func parseLine(cfg *Config, text string) error {
	line := &optionLine{line: text}
	keyword := strings.ToLower(line.getWord())
	if keyword == "" {
		return nil
	}

	var err error
	switch keyword {
	case "memory":
		cfg.MemSize, err = getSize(line.getWord())
	case "icache":
		cfg.ICache, err = getCache(line)
	case "dcache":
		cfg.DCache, err = getCache(line)
	case "image":
		cfg.Image = line.getWord()
		if word := line.getWord(); word != "" {
			cfg.ImageAddr, err = getHex(word)
		}
	case "pc":
		cfg.PC, err = getHex(line.getWord())
	case "trace":
		switch line.getWord() {
		case "on":
			cfg.Trace = true
		case "off":
			cfg.Trace = false
		default:
			err = errors.New("trace must be on or off")
		}
	default:
		err = errors.New("unknown keyword: " + keyword)
	}
	if err != nil {
		return err
	}

	line.skipSpace()
	if !line.isEOL() {
		return errors.New("trailing text: " + line.line[line.pos:])
	}
	return nil
}

// LoadConfigFile reads and parses the configuration file.
func LoadConfigFile(name string) (*Config, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := Default()
	scanner := bufio.NewScanner(file)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		if err := parseLine(cfg, scanner.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
	}
	return cfg, scanner.Err()
}
