/*
 * RV32 - RISC-V instruction disassembler.
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

// Package disassemble renders RV32I instruction words as assembler
// text for the monitor and for trace output.
package disassemble

import "fmt"

var branchNames = map[uint32]string{
	0: "beq", 1: "bne", 4: "blt", 5: "bge", 6: "bltu", 7: "bgeu",
}

var loadNames = map[uint32]string{
	0: "lb", 1: "lh", 2: "lw", 4: "lbu", 5: "lhu",
}

var storeNames = map[uint32]string{
	0: "sb", 1: "sh", 2: "sw",
}

var aluNames = map[uint32]string{
	0: "add", 1: "sll", 2: "slt", 3: "sltu", 4: "xor", 5: "srl", 6: "or", 7: "and",
}

var csrNames = map[uint32]string{
	1: "csrrw", 2: "csrrs", 3: "csrrc", 5: "csrrwi", 6: "csrrsi", 7: "csrrci",
}

func reg(r uint32) string {
	return fmt.Sprintf("x%d", r)
}

func immI(inst uint32) int32 { return int32(inst) >> 20 }

func immS(inst uint32) int32 {
	return int32(inst)>>25<<5 | int32((inst>>7)&0x1f)
}

func immB(inst uint32) int32 {
	return int32(inst)>>31<<12 | int32((inst>>7)&1)<<11 |
		int32((inst>>25)&0x3f)<<5 | int32((inst>>8)&0xf)<<1
}

func immJ(inst uint32) int32 {
	return int32(inst)>>31<<20 | int32((inst>>12)&0xff)<<12 |
		int32((inst>>20)&1)<<11 | int32((inst>>21)&0x3ff)<<1
}

// Disassemble renders one instruction word fetched at pc.
func Disassemble(pc, inst uint32) string {
	opCode := inst & 0x7f
	rd := (inst >> 7) & 0x1f
	funct3 := (inst >> 12) & 0x7
	rs1 := (inst >> 15) & 0x1f
	rs2 := (inst >> 20) & 0x1f
	funct7 := inst >> 25

	switch opCode {
	case 0x37:
		return fmt.Sprintf("lui %s,0x%x", reg(rd), inst>>12)
	case 0x17:
		return fmt.Sprintf("auipc %s,0x%x", reg(rd), inst>>12)
	case 0x6f:
		return fmt.Sprintf("jal %s,0x%x", reg(rd), pc+uint32(immJ(inst)))
	case 0x67:
		return fmt.Sprintf("jalr %s,%d(%s)", reg(rd), immI(inst), reg(rs1))
	case 0x63:
		name, ok := branchNames[funct3]
		if !ok {
			return undefined(inst)
		}
		return fmt.Sprintf("%s %s,%s,0x%x", name, reg(rs1), reg(rs2), pc+uint32(immB(inst)))
	case 0x03:
		name, ok := loadNames[funct3]
		if !ok {
			return undefined(inst)
		}
		return fmt.Sprintf("%s %s,%d(%s)", name, reg(rd), immI(inst), reg(rs1))
	case 0x23:
		name, ok := storeNames[funct3]
		if !ok {
			return undefined(inst)
		}
		return fmt.Sprintf("%s %s,%d(%s)", name, reg(rs2), immS(inst), reg(rs1))
	case 0x13:
		name := aluNames[funct3]
		switch funct3 {
		case 1, 5:
			if funct3 == 5 && funct7&0x20 != 0 {
				name = "sra"
			}
			return fmt.Sprintf("%si %s,%s,%d", name, reg(rd), reg(rs1), rs2)
		}
		if inst == 0x13 {
			return "nop"
		}
		return fmt.Sprintf("%si %s,%s,%d", name, reg(rd), reg(rs1), immI(inst))
	case 0x33:
		name := aluNames[funct3]
		if funct7&0x20 != 0 {
			switch funct3 {
			case 0:
				name = "sub"
			case 5:
				name = "sra"
			}
		}
		if funct7&1 != 0 {
			return undefined(inst)
		}
		return fmt.Sprintf("%s %s,%s,%s", name, reg(rd), reg(rs1), reg(rs2))
	case 0x0f:
		return "fence"
	case 0x73:
		if funct3 == 0 {
			if inst>>20 == 1 {
				return "ebreak"
			}
			return "ecall"
		}
		name, ok := csrNames[funct3]
		if !ok {
			return undefined(inst)
		}
		return fmt.Sprintf("%s %s,0x%x,%s", name, reg(rd), inst>>20, reg(rs1))
	}
	return undefined(inst)
}

func undefined(inst uint32) string {
	return fmt.Sprintf(".word 0x%08x", inst)
}
