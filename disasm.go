// Copyright 2026 The rv32sim authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package rv32sim

import "fmt"

var abiNames = [NumRegs]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// RegName returns the ABI name of general-purpose register i.
//
func RegName(i uint8) string {
	if int(i) < len(abiNames) {
		return abiNames[i]
	}
	return fmt.Sprintf("x%d", i)
}

var aluNames = map[ALUOp]string{
	ALUAdd: "add", ALUSub: "sub", ALUSll: "sll", ALUSlt: "slt",
	ALUSltu: "sltu", ALUXor: "xor", ALUSrl: "srl", ALUSra: "sra",
	ALUOr: "or", ALUAnd: "and",
}

var condNames = map[BranchCond]string{
	BranchEQ: "beq", BranchNE: "bne", BranchLT: "blt",
	BranchGE: "bge", BranchLTU: "bltu", BranchGEU: "bgeu",
}

var loadNames = map[uint8][2]string{
	1: {"lb", "lbu"}, 2: {"lh", "lhu"}, 4: {"lw", "lw"},
}

var storeNames = map[uint8]string{1: "sb", 2: "sh", 4: "sw"}

var csrNames = map[CSROp][2]string{
	CSRWrite: {"csrrw", "csrrwi"},
	CSRSet:   {"csrrs", "csrrsi"},
	CSRClear: {"csrrc", "csrrci"},
}

// Disassemble renders a raw instruction word as assembly text with ABI
// register names. Illegal encodings render as ".word 0x...".
//
func Disassemble(raw uint32) string {
	if raw == 0x00000013 {
		return "nop"
	}
	in, fault := Decode(raw, 0)
	if fault != nil {
		return fmt.Sprintf(".word 0x%08x", raw)
	}
	return disasm(in)
}

func disasm(in Instr) string {
	rd, rs1, rs2 := RegName(in.Rd), RegName(in.Rs1), RegName(in.Rs2)
	switch in.Class {
	case ClassALU:
		switch in.Raw & 0x7F {
		case opLUI:
			return fmt.Sprintf("lui %s, %#x", rd, uint32(in.Imm)>>12)
		case opAUIPC:
			return fmt.Sprintf("auipc %s, %#x", rd, uint32(in.Imm)>>12)
		}
		if in.BIsImm {
			return fmt.Sprintf("%si %s, %s, %d", aluNames[in.Alu], rd, rs1, in.Imm)
		}
		return fmt.Sprintf("%s %s, %s, %s", aluNames[in.Alu], rd, rs1, rs2)
	case ClassBranch:
		return fmt.Sprintf("%s %s, %s, %d", condNames[in.Cond], rs1, rs2, in.Imm)
	case ClassJump:
		if in.Indirect {
			return fmt.Sprintf("jalr %s, %d(%s)", rd, in.Imm, rs1)
		}
		return fmt.Sprintf("jal %s, %d", rd, in.Imm)
	case ClassLoad:
		n := loadNames[in.MemWidth][0]
		if in.Unsigned {
			n = loadNames[in.MemWidth][1]
		}
		return fmt.Sprintf("%s %s, %d(%s)", n, rd, in.Imm, rs1)
	case ClassStore:
		return fmt.Sprintf("%s %s, %d(%s)", storeNames[in.MemWidth], rs2, in.Imm, rs1)
	case ClassCSR:
		if in.CSRImm {
			return fmt.Sprintf("%s %s, %#x, %d", csrNames[in.CSR][1], rd, in.CSRAddr, in.Rs1)
		}
		return fmt.Sprintf("%s %s, %#x, %s", csrNames[in.CSR][0], rd, in.CSRAddr, rs1)
	case ClassHalt:
		if in.Raw>>20 == 1 {
			return "ebreak"
		}
		return "ecall"
	case ClassNop:
		return "fence"
	}
	return fmt.Sprintf(".word 0x%08x", in.Raw)
}
