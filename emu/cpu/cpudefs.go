/*
 * RV32 - RISC-V instruction set definitions.
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

// RV32I major opcodes, instruction bits [6:0].
const (
	OpLUI     = 0x37
	OpAUIPC   = 0x17
	OpJAL     = 0x6f
	OpJALR    = 0x67
	OpBranch  = 0x63
	OpLoad    = 0x03
	OpStore   = 0x23
	OpImm     = 0x13
	OpReg     = 0x33
	OpMiscMem = 0x0f
	OpSystem  = 0x73
)

// funct3 values for conditional branches.
const (
	brBEQ  = 0
	brBNE  = 1
	brBLT  = 4
	brBGE  = 5
	brBLTU = 6
	brBGEU = 7
)

// funct3 values for register-immediate and register-register ALU ops.
const (
	aluADD  = 0
	aluSLL  = 1
	aluSLT  = 2
	aluSLTU = 3
	aluXOR  = 4
	aluSR   = 5 // funct7 bit 5 selects arithmetic shift.
	aluOR   = 6
	aluAND  = 7
)

// funct3 values for SYSTEM.
const (
	sysENV    = 0
	sysCSRRW  = 1
	sysCSRRS  = 2
	sysCSRRC  = 3
	sysCSRRWI = 5
	sysCSRRSI = 6
	sysCSRRCI = 7
)

// Stage indices into the stall vector.
const (
	StallFetch = iota
	StallDecode
	StallExecute
	StallMemory
	StallWriteback
)
