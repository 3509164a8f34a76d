/*
 * RV32 - Five stage in-order pipeline core.
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

// Package cpu implements a cycle accurate five stage in-order RV32I
// pipeline. One call to Step advances all state by exactly one clock:
// every stage is evaluated against the pre-commit pipeline registers,
// the hazard unit computes stalls and forwarding selectors, the memory
// interfaces are polled, and the latches commit under the stall vector.
// Taken branches retroactively turn the just-committed fetch (and for
// execute-resolved branches, decode) latches into bubbles.
package cpu

import (
	memory "github.com/rcornwell/RV32/emu/memory"
)

// Core holds the complete micro-architectural state of one pipeline.
type Core struct {
	PC      uint32
	RegFile [32]int32

	FtoDC   FtoDC
	DCtoEx  DCtoEx
	ExtoMem ExtoMem
	MemtoWB MemtoWB

	Im memory.Memory // Instruction side.
	Dm memory.Memory // Data side.

	Stall   [5]bool
	StallIm bool
	StallDm bool

	Cycle uint64
}

// NewCore returns a core at PC zero with a zeroed register file and
// every latch a bubble.
func NewCore(im, dm memory.Memory) *Core {
	return &Core{Im: im, Dm: dm}
}

// Reset returns the core to its construction state. The memory
// hierarchy is left untouched.
func (c *Core) Reset() {
	im, dm := c.Im, c.Dm
	*c = Core{Im: im, Dm: dm}
}

// maskFromFunct3 maps a load/store funct3 to the memory access mask.
func maskFromFunct3(funct3 uint8) memory.Mask {
	switch funct3 {
	case 0:
		return memory.Byte
	case 1:
		return memory.Half
	case 2:
		return memory.Word
	case 4:
		return memory.ByteU
	case 5:
		return memory.HalfU
	default:
		return memory.Word
	}
}

// forwardUnit inspects the tentative outputs of all five stages and
// computes, per decode operand slot, either a forwarding selector from
// the nearest producer or a load-use stall when that producer is a
// load still in execute.
func forwardUnit(dctoEx DCtoEx, extoMem ExtoMem, memtoWB MemtoWB, wbOut WBOut,
	stall *[5]bool, forward *ForwardReg) {
	if dctoEx.UseRs1 {
		switch {
		case extoMem.UseRd && dctoEx.Rs1 == extoMem.Rd:
			if extoMem.IsLongInstruction {
				stall[StallFetch] = true
				stall[StallDecode] = true
			} else {
				forward.ForwardExtoVal1 = true
			}
		case memtoWB.UseRd && dctoEx.Rs1 == memtoWB.Rd:
			forward.ForwardMemtoVal1 = true
		case wbOut.UseRd && dctoEx.Rs1 == wbOut.Rd:
			forward.ForwardWBtoVal1 = true
		}
	}

	if dctoEx.UseRs2 {
		switch {
		case extoMem.UseRd && dctoEx.Rs2 == extoMem.Rd:
			if extoMem.IsLongInstruction {
				stall[StallFetch] = true
				stall[StallDecode] = true
			} else {
				forward.ForwardExtoVal2 = true
			}
		case memtoWB.UseRd && dctoEx.Rs2 == memtoWB.Rd:
			forward.ForwardMemtoVal2 = true
		case wbOut.UseRd && dctoEx.Rs2 == wbOut.Rd:
			forward.ForwardWBtoVal2 = true
		}
	}

	if dctoEx.UseRs3 {
		switch {
		case extoMem.UseRd && dctoEx.Rs3 == extoMem.Rd:
			if extoMem.IsLongInstruction {
				stall[StallFetch] = true
				stall[StallDecode] = true
			} else {
				forward.ForwardExtoVal3 = true
			}
		case memtoWB.UseRd && dctoEx.Rs3 == memtoWB.Rd:
			forward.ForwardMemtoVal3 = true
		case wbOut.UseRd && dctoEx.Rs3 == wbOut.Rd:
			forward.ForwardWBtoVal3 = true
		}
	}
}

// branchUnit selects the next PC with priority execute over decode
// over sequential, and squashes the wrong-path latches. A stalled
// fetch leaves the PC unchanged.
func branchUnit(nextPCFetch, nextPCDecode uint32, isBranchDecode bool,
	nextPCExecute uint32, isBranchExecute bool,
	pc *uint32, weFetch, weDecode *bool, stallFetch bool) {
	if stallFetch {
		return
	}
	switch {
	case isBranchExecute:
		// Decode already dispatched from the wrong path and fetch
		// is one cycle ahead: two bubbles.
		*weFetch = false
		*weDecode = false
		*pc = nextPCExecute
	case isBranchDecode:
		*weFetch = false
		*pc = nextPCDecode
	default:
		*pc = nextPCFetch
	}
}

// Step advances the core by one clock. globalStall freezes the whole
// pipeline for the cycle while still polling the memory interfaces.
func (c *Core) Step(globalStall bool) {
	localStall := globalStall

	for i := range c.Stall {
		c.Stall[i] = false
	}
	c.StallIm = false
	c.StallDm = false

	// Instruction side access for the current PC.
	imOp := memory.None
	if !localStall && !c.StallDm {
		imOp = memory.Load
	}
	nextInst, stallIm := c.Im.Process(c.PC, memory.Word, imOp, 0)
	c.StallIm = stallIm

	// Evaluate every stage against the pre-commit state.
	ftoDCTemp := fetch(c.PC, nextInst)
	dctoExTemp := decode(c.FtoDC, &c.RegFile)
	extoMemTemp := execute(c.DCtoEx)
	memtoWBTemp := memStage(c.ExtoMem)
	wbOutTemp := writeback(c.MemtoWB)

	var forward ForwardReg
	if !localStall {
		forwardUnit(dctoExTemp, extoMemTemp, memtoWBTemp, wbOutTemp, &c.Stall, &forward)
	}

	// Data side access. The mask comes from the instruction currently
	// in the memory stage.
	mask := maskFromFunct3(c.ExtoMem.Funct3)
	dmOp := memory.None
	if !c.Stall[StallMemory] && !localStall && !c.StallIm && memtoWBTemp.We {
		switch {
		case memtoWBTemp.IsLoad:
			dmOp = memory.Load
		case memtoWBTemp.IsStore:
			dmOp = memory.Store
		}
	}
	dataOut, stallDm := c.Dm.Process(memtoWBTemp.Address, mask, dmOp, memtoWBTemp.ValueToWrite)
	c.StallDm = stallDm
	if dmOp == memory.Load && !stallDm {
		memtoWBTemp.Result = int32(dataOut)
	}

	// Commit the latches under the stall vector.
	commit := !localStall && !c.StallIm && !c.StallDm

	if !c.Stall[StallFetch] && commit {
		c.FtoDC = ftoDCTemp
	}

	if !c.Stall[StallDecode] && commit {
		c.DCtoEx = dctoExTemp

		// Forwarding overwrites the freshly latched operands with
		// the matching producer's value, bubbles excluded.
		switch {
		case forward.ForwardExtoVal1 && extoMemTemp.We:
			c.DCtoEx.Lhs = extoMemTemp.Result
		case forward.ForwardMemtoVal1 && memtoWBTemp.We:
			c.DCtoEx.Lhs = memtoWBTemp.Result
		case forward.ForwardWBtoVal1 && wbOutTemp.We:
			c.DCtoEx.Lhs = wbOutTemp.Value
		}
		switch {
		case forward.ForwardExtoVal2 && extoMemTemp.We:
			c.DCtoEx.Rhs = extoMemTemp.Result
		case forward.ForwardMemtoVal2 && memtoWBTemp.We:
			c.DCtoEx.Rhs = memtoWBTemp.Result
		case forward.ForwardWBtoVal2 && wbOutTemp.We:
			c.DCtoEx.Rhs = wbOutTemp.Value
		}
		switch {
		case forward.ForwardExtoVal3 && extoMemTemp.We:
			c.DCtoEx.Datac = extoMemTemp.Result
		case forward.ForwardMemtoVal3 && memtoWBTemp.We:
			c.DCtoEx.Datac = memtoWBTemp.Result
		case forward.ForwardWBtoVal3 && wbOutTemp.We:
			c.DCtoEx.Datac = wbOutTemp.Value
		}
	}

	// A decode stall with a free execute injects a bubble.
	if c.Stall[StallDecode] && !c.Stall[StallExecute] && commit {
		c.DCtoEx.We = false
		c.DCtoEx.UseRd = false
		c.DCtoEx.IsBranch = false
		c.DCtoEx.Instruction = 0
		c.DCtoEx.PC = 0
	}

	if !c.Stall[StallExecute] && commit {
		c.ExtoMem = extoMemTemp
	}

	if !c.Stall[StallMemory] && commit {
		c.MemtoWB = memtoWBTemp
	}

	if wbOutTemp.We && wbOutTemp.UseRd && commit {
		c.RegFile[wbOutTemp.Rd] = wbOutTemp.Value
	}

	branchUnit(ftoDCTemp.NextPCFetch, dctoExTemp.NextPCDC, dctoExTemp.IsBranch,
		extoMemTemp.NextPC, extoMemTemp.IsBranch,
		&c.PC, &c.FtoDC.We, &c.DCtoEx.We,
		c.Stall[StallFetch] || c.StallIm || c.StallDm || localStall)

	c.Cycle++
}
