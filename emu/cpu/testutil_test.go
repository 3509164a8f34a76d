/*
 * RV32 - Test instruction encoders.
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

import (
	memory "github.com/rcornwell/RV32/emu/memory"
)

func encR(op, rd, f3, rs1, rs2, f7 uint32) uint32 {
	return f7<<25 | rs2<<20 | rs1<<15 | f3<<12 | rd<<7 | op
}

func encI(op, rd, f3, rs1 uint32, imm int32) uint32 {
	return uint32(imm&0xfff)<<20 | rs1<<15 | f3<<12 | rd<<7 | op
}

func encS(f3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm) & 0xfff
	return u>>5<<25 | rs2<<20 | rs1<<15 | f3<<12 | u&0x1f<<7 | OpStore
}

func encB(f3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm) & 0x1fff
	return u>>12&1<<31 | u>>5&0x3f<<25 | rs2<<20 | rs1<<15 | f3<<12 |
		u>>1&0xf<<8 | u>>11&1<<7 | OpBranch
}

func encU(op, rd, imm uint32) uint32 {
	return imm&0xfffff000 | rd<<7 | op
}

func encJ(rd uint32, imm int32) uint32 {
	u := uint32(imm) & 0x1fffff
	return u>>20&1<<31 | u>>1&0x3ff<<21 | u>>11&1<<20 | u>>12&0xff<<12 | rd<<7 | OpJAL
}

func addi(rd, rs1 uint32, imm int32) uint32 { return encI(OpImm, rd, 0, rs1, imm) }
func lw(rd, rs1 uint32, imm int32) uint32   { return encI(OpLoad, rd, 2, rs1, imm) }
func sw(rs2, rs1 uint32, imm int32) uint32  { return encS(2, rs1, rs2, imm) }
func beq(rs1, rs2 uint32, imm int32) uint32 { return encB(0, rs1, rs2, imm) }
func bne(rs1, rs2 uint32, imm int32) uint32 { return encB(1, rs1, rs2, imm) }
func jal(rd uint32, imm int32) uint32       { return encJ(rd, imm) }

// newTestCore builds a core over zero latency memories with the
// program placed at address zero of the instruction side.
func newTestCore(prog []uint32) (*Core, *memory.SimpleMemory) {
	im := memory.NewSimple(1024)
	copy(im.Data(), prog)
	dm := memory.NewSimple(1024)
	return NewCore(im, dm), dm
}
