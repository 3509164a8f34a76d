/*
 * RV32 - Set associative write-back cache.
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

// Package cache implements a four way set associative write-back,
// write-allocate cache sitting between the pipeline and a next memory
// level. A hit load completes in the cycle it is presented; a hit store
// and a miss fill both commit through a staged write installed one cycle
// later. Misses run a countdown state machine that writes the victim
// line back (when dirty) and refills one word per cycle from the next
// level. Replacement picks the way with the oldest cycle stamp.
package cache

import (
	"errors"
	"math/bits"

	memory "github.com/rcornwell/RV32/emu/memory"
	bitvec "github.com/rcornwell/RV32/util/bitvec"
)

// Ways is the fixed associativity.
const Ways = 4

// Interface moves one 32-bit word per next-level transfer.
const (
	interfaceSize    = 4
	logInterfaceSize = 2
)

// Config selects the cache geometry. Both values are in the units
// shown and must be powers of two.
type Config struct {
	LineSize int // Bytes per line, at least one word.
	Sets     int // Number of sets.
}

// Cache is one level of the memory hierarchy backed by a next level.
// All arrays are exported through accessors so the monitor and tests
// can inspect the micro-architectural state.
type Cache struct {
	next memory.Memory

	lineSize int
	sets     int
	logLine  int
	logSets  int
	tagSize  int
	w        int // Next-level transfers per line.

	// Per state, precomputed from w.
	stateMiss      int
	stateLastStore int
	stateFirstLoad int
	stateLastLoad  int

	lines [][]bitvec.Vec // Tag in low bits, then line data.
	age   [][]uint64
	valid [][]bool
	dirty [][]bool

	state int
	cycle uint64

	// Live across the cycles of one outstanding miss.
	newVal      bitvec.Vec
	oldVal      bitvec.Vec
	victim      int
	victimValid bool
	victimDirty bool

	// Next-level request, held across frozen cycles.
	nextAddr    uint32
	nextOp      memory.Op
	nextDataIn  uint32
	nextDataOut uint32
	nextWait    bool

	// Staged write installed on the following cycle.
	wasStore   bool
	storePlace int
	storeWay   int
	storeVal   bitvec.Vec
	storeData  uint32
	storeDirty bool

	// Stats.
	Accesses uint64
	Misses   uint64
}

// New creates a zeroed cache over the given next level.
func New(next memory.Memory, cfg Config) (*Cache, error) {
	if cfg.LineSize < interfaceSize || bits.OnesCount(uint(cfg.LineSize)) != 1 {
		return nil, errors.New("cache line size must be a power of two of at least one word")
	}
	if cfg.Sets < 1 || bits.OnesCount(uint(cfg.Sets)) != 1 {
		return nil, errors.New("cache set count must be a power of two")
	}
	c := &Cache{
		next:     next,
		lineSize: cfg.LineSize,
		sets:     cfg.Sets,
		logLine:  bits.TrailingZeros(uint(cfg.LineSize)),
		logSets:  bits.TrailingZeros(uint(cfg.Sets)),
		w:        cfg.LineSize / interfaceSize,
	}
	c.tagSize = 32 - c.logLine - c.logSets
	c.stateMiss = 2*c.w + 2
	c.stateLastStore = c.w + 3
	c.stateFirstLoad = c.w + 2
	c.stateLastLoad = 2
	c.Reset()
	return c, nil
}

// Reset returns the cache to its construction state: every way invalid,
// counters cleared, no outstanding access.
func (c *Cache) Reset() {
	width := c.tagSize + 8*c.lineSize
	c.lines = make([][]bitvec.Vec, c.sets)
	c.age = make([][]uint64, c.sets)
	c.valid = make([][]bool, c.sets)
	c.dirty = make([][]bool, c.sets)
	for set := range c.lines {
		c.lines[set] = make([]bitvec.Vec, Ways)
		c.age[set] = make([]uint64, Ways)
		c.valid[set] = make([]bool, Ways)
		c.dirty[set] = make([]bool, Ways)
		for way := range c.lines[set] {
			c.lines[set][way] = bitvec.New(width)
		}
	}
	c.newVal = bitvec.New(width)
	c.oldVal = bitvec.New(width)
	c.storeVal = bitvec.New(width)
	c.state = 0
	c.cycle = 0
	c.wasStore = false
	c.nextOp = memory.None
	c.nextWait = false
	c.Accesses = 0
	c.Misses = 0
}

// State returns the miss state machine counter, zero when idle.
func (c *Cache) State() int {
	return c.state
}

// Valid reports whether a way holds a line.
func (c *Cache) Valid(set, way int) bool {
	return c.valid[set][way]
}

// Dirty reports whether a way holds a modified line.
func (c *Cache) Dirty(set, way int) bool {
	return c.dirty[set][way]
}

// Age returns the cycle stamp of the last install into a way.
func (c *Cache) Age(set, way int) uint64 {
	return c.age[set][way]
}

// Tag returns the tag stored in a way.
func (c *Cache) Tag(set, way int) uint32 {
	return uint32(c.lines[set][way].Range(c.tagSize-1, 0))
}

// LineWord returns one word of a stored line.
func (c *Cache) LineWord(set, way, offset int) uint32 {
	base := c.tagSize + 32*offset
	return uint32(c.lines[set][way].Range(base+31, base))
}

// SetCount returns the number of sets.
func (c *Cache) SetCount() int {
	return c.sets
}

// extract pulls the addressed sub-word out of a full line vector,
// applying the mask's width and extension rules.
func (c *Cache) extract(line bitvec.Vec, offset int, addr uint32, mask memory.Mask) uint32 {
	base := c.tagSize + 32*offset
	switch mask {
	case memory.Byte:
		lane := base + int(addr&3)*8
		return uint32(int32(int8(uint8(line.Range(lane+7, lane)))))
	case memory.Half:
		lane := base
		if addr&2 != 0 {
			lane += 16
		}
		return uint32(int32(int16(uint16(line.Range(lane+15, lane)))))
	case memory.ByteU:
		lane := base + int(addr&3)*8
		return uint32(line.Range(lane+7, lane))
	case memory.HalfU:
		lane := base
		if addr&2 != 0 {
			lane += 16
		}
		return uint32(line.Range(lane+15, lane))
	default: // Word, Long
		return uint32(line.Range(base+31, base))
	}
}

// merge replaces the addressed sub-word of a full line vector.
func (c *Cache) merge(line *bitvec.Vec, offset int, addr uint32, mask memory.Mask, dataIn uint32) {
	base := c.tagSize + 32*offset
	switch mask {
	case memory.Byte, memory.ByteU:
		lane := base + int(addr&3)*8
		line.SetRange(lane+7, lane, uint64(dataIn&0xff))
	case memory.Half, memory.HalfU:
		lane := base
		if addr&2 != 0 {
			lane += 16
		}
		line.SetRange(lane+15, lane, uint64(dataIn&0xffff))
	default: // Word, Long
		line.SetRange(base+31, base, uint64(dataIn))
	}
}

// selectVictim picks the way with the smallest age stamp; ties prefer
// the lowest way index.
func (c *Cache) selectVictim(place int) int {
	victim := 0
	for way := 1; way < Ways; way++ {
		if c.age[place][way] < c.age[place][victim] {
			victim = way
		}
	}
	return victim
}

// Process presents one access for one cycle. While wait is true the
// requester must hold addr, mask, op and dataIn stable; the access
// completes on the first cycle wait is returned false.
func (c *Cache) Process(addr uint32, mask memory.Mask, op memory.Op, dataIn uint32) (uint32, bool) {
	place := int((addr >> c.logLine) & uint32(c.sets-1))
	tag := addr >> (c.logLine + c.logSets)
	offset := int((addr >> 2) & uint32(c.w-1))

	var dataOut uint32

	if !c.nextWait {
		c.cycle++

		if c.wasStore || c.state == 1 {
			// Install the staged write; the access that produced
			// it completes now.
			c.lines[c.storePlace][c.storeWay] = c.storeVal.Clone()
			c.age[c.storePlace][c.storeWay] = c.cycle
			c.valid[c.storePlace][c.storeWay] = true
			c.dirty[c.storePlace][c.storeWay] = c.storeDirty
			c.wasStore = false
			c.state = 0
			return c.storeData, false
		}

		if op != memory.None {
			if c.state == 0 {
				c.Accesses++
				hitWay := -1
				for way := 0; way < Ways; way++ {
					if c.valid[place][way] && c.Tag(place, way) == tag {
						hitWay = way
					}
				}

				if hitWay >= 0 {
					if op == memory.Store {
						val := c.lines[place][hitWay].Clone()
						c.merge(&val, offset, addr, mask, dataIn)
						c.storePlace = place
						c.storeWay = hitWay
						c.storeVal = val
						c.storeDirty = true
						c.wasStore = true
					} else {
						dataOut = c.extract(c.lines[place][hitWay], offset, addr, mask)
					}
				} else {
					c.Misses++
					c.state = c.stateMiss
				}
			} else {
				if c.state == c.stateMiss {
					// Entry cycle: pick the victim and snapshot it.
					c.newVal.Zero()
					c.newVal.SetRange(c.tagSize-1, 0, uint64(tag))
					c.victim = c.selectVictim(place)
					c.oldVal = c.lines[place][c.victim].Clone()
					c.victimValid = c.valid[place][c.victim]
					c.victimDirty = c.dirty[place][c.victim]
					if !c.victimDirty {
						// Clean victim: skip the writeback phase.
						c.state = c.stateLastStore - 1
					}
				}

				oldAddr := uint32(c.oldVal.Range(c.tagSize-1, 0))<<(c.logLine+c.logSets) |
					uint32(place)<<c.logLine

				if c.state >= c.stateLastStore {
					// Writeback phase: one word of the victim per cycle.
					i := c.state - c.stateLastStore
					c.nextAddr = oldAddr + uint32(i)<<logInterfaceSize
					c.nextDataIn = uint32(c.oldVal.Range(c.tagSize+32*i+31, c.tagSize+32*i))
					if c.victimValid {
						c.nextOp = memory.Store
					} else {
						// Invalid victims skip the write but spend
						// the same cycles.
						c.nextOp = memory.None
					}
				} else if c.state >= c.stateLastLoad {
					// Fill phase: capture last cycle's word, issue
					// the next load.
					if c.state != c.stateFirstLoad {
						i := c.state - c.stateLastLoad
						c.newVal.SetRange(c.tagSize+32*i+31, c.tagSize+32*i, uint64(c.nextDataOut))
					}
					if c.state != c.stateLastLoad {
						c.nextAddr = (addr &^ uint32(c.lineSize-1)) +
							uint32(c.state-c.stateLastLoad-1)<<logInterfaceSize
						c.nextOp = memory.Load
					}
				}

				c.state--

				if c.state == 1 {
					// Commit cycle: merge a missing store, stage the
					// fill, present the requested sub-word.
					c.storeDirty = false
					if op == memory.Store {
						c.merge(&c.newVal, offset, addr, mask, dataIn)
						c.storeDirty = true
					}
					c.storePlace = place
					c.storeWay = c.victim
					c.storeVal = c.newVal.Clone()
					c.nextOp = memory.None

					dataOut = c.extract(c.newVal, offset, addr, mask)
					c.storeData = dataOut
				}
			}
		}
	}

	c.nextDataOut, c.nextWait = c.next.Process(c.nextAddr, memory.Long, c.nextOp, c.nextDataIn)
	return dataOut, c.nextWait || c.state != 0 || c.wasStore
}
