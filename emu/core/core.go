/*
 * RV32 - Simulated machine assembly.
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

// Package core assembles a complete machine from the configuration:
// one flat backing store shared by the instruction and data sides,
// optional caches on each side, and the pipeline core.
package core

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math/bits"
	"os"

	config "github.com/rcornwell/RV32/config/configparser"
	cache "github.com/rcornwell/RV32/emu/cache"
	cpu "github.com/rcornwell/RV32/emu/cpu"
	dis "github.com/rcornwell/RV32/emu/disassemble"
	memory "github.com/rcornwell/RV32/emu/memory"
)

// Machine is a pipeline core with its memory hierarchy.
type Machine struct {
	Core   *cpu.Core
	ICache *cache.Cache // nil when the instruction side is uncached.
	DCache *cache.Cache // nil when the data side is uncached.

	backing []uint32
	cfg     *config.Config

	Trace bool
}

// NewMachine builds a machine from the configuration.
func NewMachine(cfg *config.Config) (*Machine, error) {
	if cfg.MemSize < 4 || bits.OnesCount32(cfg.MemSize) != 1 {
		return nil, errors.New("memory size must be a power of two")
	}
	m := &Machine{
		backing: make([]uint32, cfg.MemSize/4),
		cfg:     cfg,
		Trace:   cfg.Trace,
	}

	var im memory.Memory = memory.NewIncompleteShared(m.backing)
	var dm memory.Memory = memory.NewIncompleteShared(m.backing)

	if cfg.ICache != nil {
		c, err := cache.New(im, cache.Config{LineSize: cfg.ICache.LineSize, Sets: cfg.ICache.Sets})
		if err != nil {
			return nil, err
		}
		m.ICache = c
		im = c
	}
	if cfg.DCache != nil {
		c, err := cache.New(dm, cache.Config{LineSize: cfg.DCache.LineSize, Sets: cfg.DCache.Sets})
		if err != nil {
			return nil, err
		}
		m.DCache = c
		dm = c
	}

	m.Core = cpu.NewCore(im, dm)
	m.Core.PC = cfg.PC

	if cfg.Image != "" {
		if err := m.LoadImage(cfg.Image, cfg.ImageAddr); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// LoadImage reads a raw little-endian word image into the backing
// store at the given byte address.
func (m *Machine) LoadImage(name string, addr uint32) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	memBytes := uint32(len(m.backing) * 4)
	if addr >= memBytes || uint32(len(data)) > memBytes-addr {
		return errors.New("image does not fit in memory: " + name)
	}
	for len(data) >= 4 {
		m.backing[addr>>2] = binary.LittleEndian.Uint32(data)
		data = data[4:]
		addr += 4
	}
	if len(data) > 0 {
		var last [4]byte
		copy(last[:], data)
		m.backing[addr>>2] = binary.LittleEndian.Uint32(last[:])
	}
	slog.Info("image loaded: " + name)
	return nil
}

// Step advances the machine one clock.
func (m *Machine) Step() {
	if m.Trace && m.Core.FtoDC.We {
		slog.Debug(fmt.Sprintf("%08x: %s", m.Core.FtoDC.PC,
			dis.Disassemble(m.Core.FtoDC.PC, m.Core.FtoDC.Instruction)))
	}
	m.Core.Step(false)
}

// Run advances the machine the given number of clocks.
func (m *Machine) Run(cycles uint64) {
	for i := uint64(0); i < cycles; i++ {
		m.Step()
	}
}

// Reset returns the core and caches to their construction state. The
// backing store keeps its contents.
func (m *Machine) Reset() {
	m.Core.Reset()
	m.Core.PC = m.cfg.PC
	if m.ICache != nil {
		m.ICache.Reset()
	}
	if m.DCache != nil {
		m.DCache.Reset()
	}
}

// Examine reads a word directly from the backing store, bypassing the
// caches.
func (m *Machine) Examine(addr uint32) uint32 {
	return m.backing[(addr>>2)&uint32(len(m.backing)-1)]
}

// Deposit writes a word directly to the backing store, bypassing the
// caches.
func (m *Machine) Deposit(addr, value uint32) {
	m.backing[(addr>>2)&uint32(len(m.backing)-1)] = value
}

// MemWords returns the backing store size in words.
func (m *Machine) MemWords() int {
	return len(m.backing)
}
