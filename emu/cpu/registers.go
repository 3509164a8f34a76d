/*
 * RV32 - Pipeline registers.
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

package cpu

// Each latch carries a write-enable bit. A latch with We clear is a
// bubble: downstream stages must treat it as a nop that produces no
// branch, no store and no register write.

// FtoDC is the fetch to decode latch.
type FtoDC struct {
	PC          uint32
	Instruction uint32
	NextPCFetch uint32 // PC + 4.
	We          bool
}

// DCtoEx is the decode to execute latch.
type DCtoEx struct {
	PC          uint32
	Instruction uint32

	OpCode uint8
	Funct3 uint8
	Funct7 uint8

	Lhs   int32 // Operand 1.
	Rhs   int32 // Operand 2.
	Datac int32 // Store data, branch offset, or CSR operand.

	// For the branch unit.
	NextPCDC uint32
	IsBranch bool

	// For the forward/stall unit.
	UseRs1 bool
	UseRs2 bool
	UseRs3 bool
	UseRd  bool
	Rs1    uint8
	Rs2    uint8
	Rs3    uint8 // Store data register, aliases Rs2.
	Rd     uint8

	We bool
}

// ExtoMem is the execute to memory latch.
type ExtoMem struct {
	PC          uint32
	Instruction uint32

	Result            int32
	Rd                uint8
	UseRd             bool
	IsLongInstruction bool // Loads only; sole trigger of load-use stalls.
	OpCode            uint8
	Funct3            uint8 // Access size and sign for loads/stores.

	Datac int32 // Store data or CSR write value.

	NextPC   uint32
	IsBranch bool

	We bool
}

// MemtoWB is the memory to writeback latch, carrying the staged memory
// request for the driver to issue to the data cache.
type MemtoWB struct {
	Result int32
	Rd     uint8
	UseRd  bool

	Address      uint32
	ValueToWrite uint32
	ByteEnable   uint8
	IsStore      bool
	IsLoad       bool

	We bool
}

// WBOut is the writeback output.
type WBOut struct {
	Value int32
	Rd    uint8
	UseRd bool
	We    bool
}

// ForwardReg holds the forwarding selectors computed by the hazard
// unit each cycle. Val1/Val2/Val3 select into Lhs, Rhs and Datac.
type ForwardReg struct {
	ForwardWBtoVal1 bool
	ForwardWBtoVal2 bool
	ForwardWBtoVal3 bool

	ForwardMemtoVal1 bool
	ForwardMemtoVal2 bool
	ForwardMemtoVal3 bool

	ForwardExtoVal1 bool
	ForwardExtoVal2 bool
	ForwardExtoVal3 bool
}
