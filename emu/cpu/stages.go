/*
 * RV32 - Pipeline stage functions.
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

// Each stage is a pure function from its input latch to its output
// latch; the driver evaluates all five against the pre-commit pipeline
// state and commits the results under control of the stall vector.

// fetch stages the instruction word the driver fetched at pc.
func fetch(pc uint32, instruction uint32) FtoDC {
	return FtoDC{
		PC:          pc,
		Instruction: instruction,
		NextPCFetch: pc + 4,
		We:          true,
	}
}

// immI returns the sign extended I-type immediate.
func immI(inst uint32) int32 {
	return int32(inst) >> 20
}

// immS returns the sign extended S-type immediate.
func immS(inst uint32) int32 {
	return int32(inst)>>25<<5 | int32((inst>>7)&0x1f)
}

// immB returns the sign extended B-type immediate, bit 0 zero.
func immB(inst uint32) int32 {
	return int32(inst)>>31<<12 |
		int32((inst>>7)&1)<<11 |
		int32((inst>>25)&0x3f)<<5 |
		int32((inst>>8)&0xf)<<1
}

// immU returns the U-type immediate, upper 20 bits in place.
func immU(inst uint32) int32 {
	return int32(inst & 0xfffff000)
}

// immJ returns the sign extended J-type immediate, bit 0 zero.
func immJ(inst uint32) int32 {
	return int32(inst)>>31<<20 |
		int32((inst>>12)&0xff)<<12 |
		int32((inst>>20)&1)<<11 |
		int32((inst>>21)&0x3ff)<<1
}

// decode extracts instruction fields, reads the register file and
// produces operands and control bits. Unknown opcodes decode as nops.
func decode(ftoDC FtoDC, regFile *[32]int32) DCtoEx {
	inst := ftoDC.Instruction

	opCode := uint8(inst & 0x7f)
	rd := uint8((inst >> 7) & 0x1f)
	funct3 := uint8((inst >> 12) & 0x7)
	rs1 := uint8((inst >> 15) & 0x1f)
	rs2 := uint8((inst >> 20) & 0x1f)
	funct7 := uint8(inst >> 25)

	valueReg1 := regFile[rs1]
	valueReg2 := regFile[rs2]

	dctoEx := DCtoEx{
		PC:          ftoDC.PC,
		Instruction: inst,
		OpCode:      opCode,
		Funct3:      funct3,
		Funct7:      funct7,
		Rs1:         rs1,
		Rs2:         rs2,
		Rs3:         rs2,
		Rd:          rd,
		We:          ftoDC.We,
	}

	switch opCode {
	case OpLUI:
		dctoEx.Lhs = immU(inst)
		dctoEx.UseRd = true

	case OpAUIPC:
		dctoEx.Lhs = int32(ftoDC.PC)
		dctoEx.Rhs = immU(inst)
		dctoEx.UseRd = true

	case OpJAL:
		// The link value and the target are both computed here;
		// the branch resolves in decode.
		dctoEx.Lhs = int32(ftoDC.PC + 4)
		dctoEx.NextPCDC = ftoDC.PC + uint32(immJ(inst))
		dctoEx.UseRd = true
		dctoEx.IsBranch = true

	case OpJALR:
		dctoEx.Lhs = valueReg1
		dctoEx.Rhs = immI(inst)
		dctoEx.UseRs1 = true
		dctoEx.UseRd = true

	case OpBranch:
		dctoEx.Lhs = valueReg1
		dctoEx.Rhs = valueReg2
		dctoEx.Datac = immB(inst)
		dctoEx.UseRs1 = true
		dctoEx.UseRs2 = true

	case OpLoad:
		dctoEx.Lhs = valueReg1
		dctoEx.Rhs = immI(inst)
		dctoEx.UseRs1 = true
		dctoEx.UseRd = true

	case OpStore:
		dctoEx.Lhs = valueReg1
		dctoEx.Rhs = immS(inst)
		dctoEx.Datac = valueReg2 // Value to store.
		dctoEx.UseRs1 = true
		dctoEx.UseRs3 = true // Store data forwards through slot 3.
		dctoEx.Rd = 0

	case OpImm:
		dctoEx.Lhs = valueReg1
		dctoEx.Rhs = immI(inst)
		dctoEx.UseRs1 = true
		dctoEx.UseRd = true

	case OpReg:
		dctoEx.Lhs = valueReg1
		dctoEx.Rhs = valueReg2
		dctoEx.UseRs1 = true
		dctoEx.UseRs2 = true
		dctoEx.UseRd = true

	case OpSystem:
		// CSR moves are resolved in execute; the CSR file itself
		// is an external collaborator.

	default:
		// Including MISC-MEM: nothing to do.
	}

	if dctoEx.Rd == 0 {
		dctoEx.UseRd = false
	}

	// A dropped instruction must not branch, consume or produce.
	if !ftoDC.We {
		dctoEx.IsBranch = false
		dctoEx.UseRd = false
		dctoEx.UseRs1 = false
		dctoEx.UseRs2 = false
		dctoEx.UseRs3 = false
	}

	return dctoEx
}

// execute performs the ALU operation and resolves conditional branches
// and JALR targets.
func execute(dctoEx DCtoEx) ExtoMem {
	extoMem := ExtoMem{
		PC:          dctoEx.PC,
		Instruction: dctoEx.Instruction,
		OpCode:      dctoEx.OpCode,
		Funct3:      dctoEx.Funct3,
		Rd:          dctoEx.Rd,
		UseRd:       dctoEx.UseRd,
		We:          dctoEx.We,
	}

	lhs := dctoEx.Lhs
	rhs := dctoEx.Rhs
	shamt := uint32(rhs) & 0x1f

	switch dctoEx.OpCode {
	case OpLUI:
		extoMem.Result = lhs

	case OpAUIPC:
		extoMem.Result = lhs + rhs

	case OpJAL:
		// The addition was made in decode; lhs carries pc+4.
		extoMem.Result = lhs

	case OpJALR:
		// Target bit 0 is left as computed.
		extoMem.NextPC = uint32(lhs + rhs)
		extoMem.IsBranch = true
		extoMem.Result = int32(dctoEx.PC + 4)

	case OpBranch:
		extoMem.NextPC = dctoEx.PC + uint32(dctoEx.Datac)
		switch dctoEx.Funct3 {
		case brBEQ:
			extoMem.IsBranch = lhs == rhs
		case brBNE:
			extoMem.IsBranch = lhs != rhs
		case brBLT:
			extoMem.IsBranch = lhs < rhs
		case brBGE:
			extoMem.IsBranch = lhs >= rhs
		case brBLTU:
			extoMem.IsBranch = uint32(lhs) < uint32(rhs)
		case brBGEU:
			extoMem.IsBranch = uint32(lhs) >= uint32(rhs)
		}

	case OpLoad:
		extoMem.IsLongInstruction = true
		extoMem.Result = lhs + rhs

	case OpStore:
		extoMem.Datac = dctoEx.Datac
		extoMem.Result = lhs + rhs

	case OpImm:
		switch dctoEx.Funct3 {
		case aluADD:
			extoMem.Result = lhs + rhs
		case aluSLT:
			extoMem.Result = boolToInt(lhs < rhs)
		case aluSLTU:
			extoMem.Result = boolToInt(uint32(lhs) < uint32(rhs))
		case aluXOR:
			extoMem.Result = lhs ^ rhs
		case aluOR:
			extoMem.Result = lhs | rhs
		case aluAND:
			extoMem.Result = lhs & rhs
		case aluSLL:
			extoMem.Result = lhs << shamt
		case aluSR:
			if dctoEx.Funct7&0x20 != 0 { // SRAI
				extoMem.Result = lhs >> shamt
			} else { // SRLI
				extoMem.Result = int32(uint32(lhs) >> shamt)
			}
		}

	case OpReg:
		if dctoEx.Funct7&1 != 0 {
			// M extension: not implemented, executes as a nop.
			break
		}
		switch dctoEx.Funct3 {
		case aluADD:
			if dctoEx.Funct7&0x20 != 0 { // SUB
				extoMem.Result = lhs - rhs
			} else {
				extoMem.Result = lhs + rhs
			}
		case aluSLL:
			extoMem.Result = lhs << shamt
		case aluSLT:
			extoMem.Result = boolToInt(lhs < rhs)
		case aluSLTU:
			extoMem.Result = boolToInt(uint32(lhs) < uint32(rhs))
		case aluXOR:
			extoMem.Result = lhs ^ rhs
		case aluSR:
			if dctoEx.Funct7&0x20 != 0 { // SRA
				extoMem.Result = lhs >> shamt
			} else { // SRL
				extoMem.Result = int32(uint32(lhs) >> shamt)
			}
		case aluOR:
			extoMem.Result = lhs | rhs
		case aluAND:
			extoMem.Result = lhs & rhs
		}

	case OpMiscMem:
		// Fence: all accesses are already ordered on a single core.

	case OpSystem:
		switch dctoEx.Funct3 {
		case sysENV:
			// ECALL/EBREAK: the host syscall hook is an external
			// collaborator.
		case sysCSRRW, sysCSRRWI:
			extoMem.Datac = rhs // New CSR value.
			extoMem.Result = lhs
		case sysCSRRS, sysCSRRSI:
			extoMem.Datac = lhs | rhs
			extoMem.Result = lhs
		case sysCSRRC, sysCSRRCI:
			extoMem.Datac = lhs &^ rhs
			extoMem.Result = lhs
		}
	}

	// A dropped instruction must not branch or produce.
	if !dctoEx.We {
		extoMem.IsBranch = false
		extoMem.UseRd = false
	}

	return extoMem
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// memStage stages the data memory request; the driver issues the
// actual cache transaction.
func memStage(extoMem ExtoMem) MemtoWB {
	memtoWB := MemtoWB{
		Result: extoMem.Result,
		Rd:     extoMem.Rd,
		UseRd:  extoMem.UseRd,
		We:     extoMem.We,
	}

	switch extoMem.OpCode {
	case OpLoad:
		memtoWB.Address = uint32(extoMem.Result)
		memtoWB.IsLoad = true
	case OpStore:
		memtoWB.Address = uint32(extoMem.Result)
		memtoWB.ValueToWrite = uint32(extoMem.Datac)
		memtoWB.ByteEnable = 0xf
		memtoWB.IsStore = true
	}

	return memtoWB
}

// writeback produces the register file write, discarding writes to
// register zero and from bubbles.
func writeback(memtoWB MemtoWB) WBOut {
	wbOut := WBOut{We: memtoWB.We}
	if memtoWB.Rd != 0 && memtoWB.We && memtoWB.UseRd {
		wbOut.Rd = memtoWB.Rd
		wbOut.Value = memtoWB.Result
		wbOut.UseRd = true
	}
	return wbOut
}
