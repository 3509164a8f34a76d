/*
 * RV32 - Execute stage tests.
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

import "testing"

func alu(opCode, funct3, funct7 uint8, lhs, rhs int32) int32 {
	e := execute(DCtoEx{
		OpCode: opCode, Funct3: funct3, Funct7: funct7,
		Lhs: lhs, Rhs: rhs, We: true, UseRd: true, Rd: 1,
	})
	return e.Result
}

func TestExecuteArith(t *testing.T) {
	cases := []struct {
		name   string
		funct3 uint8
		funct7 uint8
		lhs    int32
		rhs    int32
		want   int32
	}{
		{"ADD", aluADD, 0, 5, 7, 12},
		{"SUB", aluADD, 0x20, 5, 7, -2},
		{"SLL", aluSLL, 0, 1, 5, 32},
		{"SLT true", aluSLT, 0, -1, 1, 1},
		{"SLT false", aluSLT, 0, 1, -1, 0},
		{"SLTU", aluSLTU, 0, -1, 1, 0}, // -1 is max unsigned
		{"XOR", aluXOR, 0, 0xff, 0x0f, 0xf0},
		{"SRL", aluSR, 0, -16, 2, 0x3ffffffc},
		{"SRA", aluSR, 0x20, -16, 2, -4},
		{"OR", aluOR, 0, 0xf0, 0x0f, 0xff},
		{"AND", aluAND, 0, 0xf0, 0x1f, 0x10},
	}
	for _, c := range cases {
		r := alu(OpReg, c.funct3, c.funct7, c.lhs, c.rhs)
		if r != c.want {
			t.Errorf("%s not correct got: %d expected: %d", c.name, r, c.want)
		}
	}
}

func TestExecuteShiftMask(t *testing.T) {
	// Shift amounts use only the low five bits.
	r := alu(OpImm, aluSLL, 0, 1, 33)
	if r != 2 {
		t.Errorf("shift mask not correct got: %d expected: 2", r)
	}
	r = alu(OpReg, aluSR, 0, 16, 36)
	if r != 1 {
		t.Errorf("shift mask not correct got: %d expected: 1", r)
	}
}

func TestExecuteImmSRAI(t *testing.T) {
	r := alu(OpImm, aluSR, 0x20, int32(-2147483648), 4)
	if uint32(r) != 0xf8000000 {
		t.Errorf("SRAI not correct got: %x expected: f8000000", uint32(r))
	}
	r = alu(OpImm, aluSR, 0, int32(-2147483648), 4)
	if uint32(r) != 0x08000000 {
		t.Errorf("SRLI not correct got: %x expected: 8000000", uint32(r))
	}
}

func TestExecuteBranches(t *testing.T) {
	cases := []struct {
		funct3 uint8
		lhs    int32
		rhs    int32
		taken  bool
	}{
		{brBEQ, 4, 4, true},
		{brBEQ, 4, 5, false},
		{brBNE, 4, 5, true},
		{brBNE, 4, 4, false},
		{brBLT, -1, 1, true},
		{brBLT, 1, -1, false},
		{brBGE, 1, -1, true},
		{brBGE, 1, 1, true},
		{brBGE, -1, 1, false},
		{brBLTU, 1, -1, true}, // -1 is max unsigned
		{brBLTU, -1, 1, false},
		{brBGEU, -1, 1, true},
		{brBGEU, 1, -1, false},
	}
	for i, c := range cases {
		e := execute(DCtoEx{
			OpCode: OpBranch, Funct3: c.funct3,
			Lhs: c.lhs, Rhs: c.rhs, Datac: 16, PC: 0x100, We: true,
		})
		if e.IsBranch != c.taken {
			t.Errorf("case %d branch taken not correct got: %v expected: %v", i, e.IsBranch, c.taken)
		}
		if e.NextPC != 0x110 {
			t.Errorf("case %d branch target not correct got: %x expected: 110", i, e.NextPC)
		}
	}
}

// JALR resolves in execute: the link value is pc+4 and the target keeps
// its low bit as computed.
func TestExecuteJalr(t *testing.T) {
	e := execute(DCtoEx{
		OpCode: OpJALR, Lhs: 8, Rhs: 1, PC: 0x100, We: true, UseRd: true, Rd: 1,
	})
	if !e.IsBranch {
		t.Error("JALR should branch")
	}
	if e.NextPC != 9 {
		t.Errorf("JALR target not correct got: %x expected: 9", e.NextPC)
	}
	if e.Result != 0x104 {
		t.Errorf("JALR link not correct got: %x expected: 104", e.Result)
	}
}

func TestExecuteLoadStore(t *testing.T) {
	e := execute(DCtoEx{OpCode: OpLoad, Lhs: 0x1000, Rhs: 8, We: true, UseRd: true, Rd: 1})
	if !e.IsLongInstruction {
		t.Error("load should set long instruction flag")
	}
	if e.Result != 0x1008 {
		t.Errorf("load address not correct got: %x expected: 1008", e.Result)
	}

	e = execute(DCtoEx{OpCode: OpStore, Lhs: 0x1000, Rhs: -8, Datac: 0x77, We: true})
	if e.IsLongInstruction {
		t.Error("store should not set long instruction flag")
	}
	if e.Result != 0xff8 || e.Datac != 0x77 {
		t.Errorf("store not correct got: %x %x", e.Result, e.Datac)
	}
}

// M extension opcodes execute as a nop with a zero result; useRd still
// flows from decode.
func TestExecuteMExtensionStub(t *testing.T) {
	e := execute(DCtoEx{
		OpCode: OpReg, Funct3: aluADD, Funct7: 1,
		Lhs: 6, Rhs: 7, We: true, UseRd: true, Rd: 1,
	})
	if e.Result != 0 {
		t.Errorf("M stub result not correct got: %d expected: 0", e.Result)
	}
	if !e.UseRd {
		t.Error("M stub should keep useRd from decode")
	}
}

func TestExecuteCSRMoves(t *testing.T) {
	e := execute(DCtoEx{OpCode: OpSystem, Funct3: sysCSRRW, Lhs: 0xf0, Rhs: 0x0f, We: true})
	if e.Datac != 0x0f || e.Result != 0xf0 {
		t.Errorf("CSRRW not correct got: %x %x", e.Datac, e.Result)
	}
	e = execute(DCtoEx{OpCode: OpSystem, Funct3: sysCSRRS, Lhs: 0xf0, Rhs: 0x0f, We: true})
	if e.Datac != 0xff || e.Result != 0xf0 {
		t.Errorf("CSRRS not correct got: %x %x", e.Datac, e.Result)
	}
	e = execute(DCtoEx{OpCode: OpSystem, Funct3: sysCSRRC, Lhs: 0xff, Rhs: 0x0f, We: true})
	if e.Datac != 0xf0 || e.Result != 0xff {
		t.Errorf("CSRRC not correct got: %x %x", e.Datac, e.Result)
	}
}

func TestExecuteBubble(t *testing.T) {
	e := execute(DCtoEx{OpCode: OpJALR, Lhs: 8, Rhs: 0, UseRd: true, Rd: 1, We: false})
	if e.IsBranch || e.UseRd {
		t.Errorf("bubble produced effects: %+v", e)
	}
}

func TestWritebackRegisterZero(t *testing.T) {
	w := writeback(MemtoWB{Rd: 0, UseRd: true, Result: 5, We: true})
	if w.UseRd {
		t.Error("writeback to register zero should be discarded")
	}
	w = writeback(MemtoWB{Rd: 1, UseRd: true, Result: 5, We: false})
	if w.UseRd {
		t.Error("writeback from bubble should be discarded")
	}
	w = writeback(MemtoWB{Rd: 1, UseRd: true, Result: 5, We: true})
	if !w.UseRd || w.Value != 5 || w.Rd != 1 {
		t.Errorf("writeback not correct: %+v", w)
	}
}
