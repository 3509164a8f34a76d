/*
 * RV32 - Machine integration tests.
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

package core

import (
	"testing"

	config "github.com/rcornwell/RV32/config/configparser"
)

// Instruction words assembled by hand; the cpu package tests cover the
// encodings themselves.
const (
	instAddiX1 = 0x00500093 // addi x1,x0,5
	instSwX1   = 0x04102023 // sw x1,64(x0)
	instLwX2   = 0x04002103 // lw x2,64(x0)
	instAddiX3 = 0x00110193 // addi x3,x2,1
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.MemSize = 64 * 1024
	return cfg
}

func newTestMachine(t *testing.T, cfg *config.Config, prog []uint32) *Machine {
	t.Helper()
	m, err := NewMachine(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i, w := range prog {
		m.Deposit(uint32(i*4), w)
	}
	return m
}

var testProg = []uint32{instAddiX1, instSwX1, instLwX2, instAddiX3}

// A store/load/use sequence runs correctly through both caches.
func TestMachineCached(t *testing.T) {
	m := newTestMachine(t, testConfig(), testProg)
	m.Run(200)

	if m.Core.RegFile[1] != 5 {
		t.Errorf("register 1 not correct got: %d expected: 5", m.Core.RegFile[1])
	}
	if m.Core.RegFile[2] != 5 {
		t.Errorf("register 2 not correct got: %d expected: 5", m.Core.RegFile[2])
	}
	if m.Core.RegFile[3] != 6 {
		t.Errorf("register 3 not correct got: %d expected: 6", m.Core.RegFile[3])
	}
	if m.ICache.Accesses == 0 || m.ICache.Misses == 0 {
		t.Error("instruction cache never exercised")
	}
	if m.DCache.Accesses == 0 || m.DCache.Misses == 0 {
		t.Error("data cache never exercised")
	}
}

// The same program gives the same architectural result uncached.
func TestMachineUncached(t *testing.T) {
	cfg := testConfig()
	cfg.ICache = nil
	cfg.DCache = nil
	m := newTestMachine(t, cfg, testProg)
	m.Run(50)

	if m.Core.RegFile[2] != 5 || m.Core.RegFile[3] != 6 {
		t.Errorf("registers not correct got: %d %d expected: 5 6",
			m.Core.RegFile[2], m.Core.RegFile[3])
	}
	if m.Examine(64) != 5 {
		t.Errorf("memory not correct got: %d expected: 5", m.Examine(64))
	}
}

func TestMachineReset(t *testing.T) {
	cfg := testConfig()
	cfg.PC = 0x40
	m := newTestMachine(t, cfg, nil)
	m.Run(20)
	m.Reset()

	if m.Core.PC != 0x40 {
		t.Errorf("reset PC not correct got: %x expected: 40", m.Core.PC)
	}
	if m.Core.Cycle != 0 {
		t.Errorf("reset cycle not correct got: %d expected: 0", m.Core.Cycle)
	}
	if m.ICache.Accesses != 0 {
		t.Error("reset did not clear cache stats")
	}
}

func TestMachineRejectsBadMemory(t *testing.T) {
	cfg := testConfig()
	cfg.MemSize = 3000
	if _, err := NewMachine(cfg); err == nil {
		t.Error("non power of two memory accepted")
	}
}

func TestExamineDeposit(t *testing.T) {
	m := newTestMachine(t, testConfig(), nil)
	m.Deposit(0x1234, 0xfeedface)
	if m.Examine(0x1234) != 0xfeedface {
		t.Errorf("examine not correct got: %x expected: feedface", m.Examine(0x1234))
	}
}
