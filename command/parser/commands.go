/*
 * RV32 - Monitor commands.
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

package parser

import (
	"errors"
	"fmt"
	"strings"

	cache "github.com/rcornwell/RV32/emu/cache"
	core "github.com/rcornwell/RV32/emu/core"
	dis "github.com/rcornwell/RV32/emu/disassemble"
	hex "github.com/rcornwell/RV32/util/hex"
)

// step advances one clock (or a count) and shows where fetch is.
func step(line *cmdLine, mach *core.Machine) (bool, error) {
	count, err := line.getNumber(1)
	if err != nil {
		return false, err
	}
	mach.Run(count)
	fmt.Printf("cycle %d pc %08x\n", mach.Core.Cycle, mach.Core.PC)
	return false, nil
}

// runCmd advances a larger number of clocks, default one thousand.
func runCmd(line *cmdLine, mach *core.Machine) (bool, error) {
	count, err := line.getNumber(1000)
	if err != nil {
		return false, err
	}
	mach.Run(count)
	fmt.Printf("cycle %d pc %08x\n", mach.Core.Cycle, mach.Core.PC)
	return false, nil
}

// registers prints the register file, four per row.
func registers(_ *cmdLine, mach *core.Machine) (bool, error) {
	fmt.Printf("pc %08x cycle %d\n", mach.Core.PC, mach.Core.Cycle)
	for row := 0; row < 8; row++ {
		var str strings.Builder
		for col := 0; col < 4; col++ {
			r := row*4 + col
			fmt.Fprintf(&str, "x%-2d ", r)
			hex.FormatWord(&str, []uint32{uint32(mach.Core.RegFile[r])})
		}
		fmt.Println(str.String())
	}
	return false, nil
}

// examine dumps memory words with their disassembly.
func examine(line *cmdLine, mach *core.Machine) (bool, error) {
	addr, err := line.getHex()
	if err != nil {
		return false, err
	}
	count, err := line.getNumber(8)
	if err != nil {
		return false, err
	}
	addr &^= 3
	for i := uint64(0); i < count; i++ {
		word := mach.Examine(addr)
		var str strings.Builder
		hex.FormatAddr(&str, addr)
		str.WriteString(": ")
		hex.FormatWord(&str, []uint32{word})
		str.WriteString(" ")
		str.WriteString(dis.Disassemble(addr, word))
		fmt.Println(str.String())
		addr += 4
	}
	return false, nil
}

// deposit writes one word of memory.
func deposit(line *cmdLine, mach *core.Machine) (bool, error) {
	addr, err := line.getHex()
	if err != nil {
		return false, err
	}
	value, err := line.getHex()
	if err != nil {
		return false, err
	}
	mach.Deposit(addr, value)
	return false, nil
}

func printCacheStats(name string, c *cache.Cache) {
	if c == nil {
		fmt.Printf("%s: off\n", name)
		return
	}
	miss := float64(0)
	if c.Accesses != 0 {
		miss = 100 * float64(c.Misses) / float64(c.Accesses)
	}
	fmt.Printf("%s: %d accesses %d misses (%.1f%%)\n", name, c.Accesses, c.Misses, miss)
}

// cacheStats prints hit/miss counters for both sides.
func cacheStats(_ *cmdLine, mach *core.Machine) (bool, error) {
	printCacheStats("icache", mach.ICache)
	printCacheStats("dcache", mach.DCache)
	return false, nil
}

// load reads a raw word image into memory.
func load(line *cmdLine, mach *core.Machine) (bool, error) {
	name := line.getWord()
	if name == "" {
		return false, errors.New("file name expected")
	}
	addr := uint32(0)
	if !lineExhausted(line) {
		var err error
		addr, err = line.getHex()
		if err != nil {
			return false, err
		}
	}
	return false, mach.LoadImage(name, addr)
}

func lineExhausted(line *cmdLine) bool {
	line.skipSpace()
	return line.isEOL()
}

// reset returns the machine to its initial state.
func reset(_ *cmdLine, mach *core.Machine) (bool, error) {
	mach.Reset()
	return false, nil
}

// Options toggled by set and unset.
var setOptions = []string{"trace"}

func setOption(line *cmdLine, mach *core.Machine, value bool) (bool, error) {
	switch line.getWord() {
	case "trace":
		mach.Trace = value
	default:
		return false, errors.New("unknown option")
	}
	return false, nil
}

func set(line *cmdLine, mach *core.Machine) (bool, error) {
	return setOption(line, mach, true)
}

func unset(line *cmdLine, mach *core.Machine) (bool, error) {
	return setOption(line, mach, false)
}

func quit(_ *cmdLine, _ *core.Machine) (bool, error) {
	return true, nil
}
