/*
 * RV32 - Memory hierarchy interface and backing stores.
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

// Package memory defines the interface shared by every level of the
// memory hierarchy and provides the two flat word-addressed backing
// stores. Each level moves one 32-bit word per transfer. Addresses are
// byte addresses; sub-word accesses use the low address bits to select
// byte lanes, misaligned or not.
package memory

// Mask selects the access width and sign treatment of a transfer.
type Mask int

const (
	Byte  Mask = iota // Sign extended byte.
	Half              // Sign extended half word.
	Word              // Full word.
	ByteU             // Zero extended byte.
	HalfU             // Zero extended half word.
	Long              // Full interface width, used for line transfers.
)

// Op is the operation presented to a memory level each cycle.
type Op int

const (
	None Op = iota
	Load
	Store
)

// Memory is one level of the memory hierarchy. Process is called once
// per simulated cycle. When wait is true the requester must hold its
// inputs stable and treat dataOut as not yet ready.
type Memory interface {
	Process(addr uint32, mask Mask, op Op, dataIn uint32) (dataOut uint32, wait bool)
}

// byteLane returns the bit offset of the addressed byte within a word.
func byteLane(addr uint32) int {
	return int(addr&3) << 3
}

// halfLane returns the bit offset of the addressed half word.
func halfLane(addr uint32) int {
	if addr&2 != 0 {
		return 16
	}
	return 0
}

// extractWord applies a read mask to a full word fetched from backing
// store, with sign or zero extension as the mask demands.
func extractWord(word, addr uint32, mask Mask) uint32 {
	switch mask {
	case Byte:
		return uint32(int32(int8(word >> byteLane(addr))))
	case Half:
		return uint32(int32(int16(word >> halfLane(addr))))
	case ByteU:
		return (word >> byteLane(addr)) & 0xff
	case HalfU:
		return (word >> halfLane(addr)) & 0xffff
	default: // Word, Long
		return word
	}
}

// mergeWord replaces the masked lanes of word with dataIn.
func mergeWord(word, dataIn, addr uint32, mask Mask) uint32 {
	switch mask {
	case Byte, ByteU:
		lane := byteLane(addr)
		return word&^(0xff<<lane) | (dataIn&0xff)<<lane
	case Half, HalfU:
		lane := halfLane(addr)
		return word&^(0xffff<<lane) | (dataIn&0xffff)<<lane
	default: // Word, Long
		return dataIn
	}
}

// SimpleMemory is a flat backing store with zero latency: every access
// completes in the cycle it is presented.
type SimpleMemory struct {
	data []uint32
}

// NewSimple creates a zero latency backing store of the given size in
// words. The size must be a power of two; addresses wrap.
func NewSimple(words int) *SimpleMemory {
	return &SimpleMemory{data: make([]uint32, words)}
}

// Data exposes the raw word array for loaders and the monitor.
func (m *SimpleMemory) Data() []uint32 {
	return m.data
}

func (m *SimpleMemory) index(addr uint32) uint32 {
	return (addr >> 2) & uint32(len(m.data)-1)
}

func (m *SimpleMemory) Process(addr uint32, mask Mask, op Op, dataIn uint32) (uint32, bool) {
	switch op {
	case Store:
		idx := m.index(addr)
		m.data[idx] = mergeWord(m.data[idx], dataIn, addr, mask)
	case Load:
		return extractWord(m.data[m.index(addr)], addr, mask), false
	}
	return 0, false
}

// IncompleteMemory is a flat backing store where a sub-word store costs
// an extra cycle: the first cycle reads the containing word and asserts
// wait, the second merges and writes it back. Loads and full-width
// stores complete in one cycle.
type IncompleteMemory struct {
	data         []uint32
	pendingWrite bool
	valueLoaded  uint32
}

// NewIncomplete creates a backing store of the given size in words with
// the read-modify-write penalty on sub-word stores. The size must be a
// power of two; addresses wrap.
func NewIncomplete(words int) *IncompleteMemory {
	return &IncompleteMemory{data: make([]uint32, words)}
}

// NewIncompleteShared wraps an existing word array, letting two
// interfaces (instruction and data side) share one backing store.
func NewIncompleteShared(data []uint32) *IncompleteMemory {
	return &IncompleteMemory{data: data}
}

// Data exposes the raw word array for loaders and the monitor.
func (m *IncompleteMemory) Data() []uint32 {
	return m.data
}

func (m *IncompleteMemory) index(addr uint32) uint32 {
	return (addr >> 2) & uint32(len(m.data)-1)
}

func (m *IncompleteMemory) Process(addr uint32, mask Mask, op Op, dataIn uint32) (uint32, bool) {
	subWord := mask != Word && mask != Long

	if (!m.pendingWrite && op == Store && subWord) || op == Load {
		merged := m.data[m.index(addr)]
		if op == Store {
			// First cycle of a sub-word store: fetch the word.
			m.valueLoaded = merged
			m.pendingWrite = true
			return 0, true
		}
		m.pendingWrite = false
		return extractWord(merged, addr, mask), false
	}

	if op == Store {
		// Either a full-width store or the second cycle of a
		// sub-word store merging into the latched word.
		word := dataIn
		if subWord {
			word = mergeWord(m.valueLoaded, dataIn, addr, mask)
		}
		m.pendingWrite = false
		m.data[m.index(addr)] = word
	}
	return 0, false
}
