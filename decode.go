// Copyright 2026 The rv32sim authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package rv32sim

// RV32I base opcodes (bits 6:0 of the instruction word).
const (
	opLUI    = 0x37
	opAUIPC  = 0x17
	opJAL    = 0x6F
	opJALR   = 0x67
	opBranch = 0x63
	opLoad   = 0x03
	opStore  = 0x23
	opOpImm  = 0x13
	opOp     = 0x33
	opFence  = 0x0F
	opSystem = 0x73
)

// Class is the coarse operation class of a decoded instruction.
//
type Class uint8

// Operation classes.
const (
	// ClassALU covers register-register and register-immediate arithmetic,
	// including LUI and AUIPC.
	ClassALU Class = iota + 1
	// ClassBranch covers the six conditional branches, resolved in EX.
	ClassBranch
	// ClassJump covers JAL and JALR, always taken.
	ClassJump
	// ClassLoad and ClassStore access memory in the MEM stage.
	ClassLoad
	ClassStore
	// ClassCSR covers the Zicsr read/write instructions.
	ClassCSR
	// ClassHalt covers ECALL and EBREAK, which stop the run once they
	// retire.
	ClassHalt
	// ClassNop covers FENCE, which orders nothing in a single-hart
	// in-order model.
	ClassNop
)

// CSROp selects the read-modify-write behavior of a CSR instruction.
//
type CSROp uint8

// CSR operations.
const (
	CSRWrite CSROp = iota + 1 // CSRRW[I]: csr = operand
	CSRSet                    // CSRRS[I]: csr |= operand
	CSRClear                  // CSRRC[I]: csr &^= operand
)

// An Instr is the operation descriptor produced by Decode: one instruction
// in structured form, immutable once produced. It carries everything the
// stages and the hazard unit need, so no stage ever re-decodes.
//
type Instr struct {
	Raw uint32 // original instruction word
	PC  Word   // address the instruction was fetched from

	Class Class
	Alu   ALUOp      // valid for ClassALU
	Cond  BranchCond // valid for ClassBranch

	Rd, Rs1, Rs2 uint8
	HasRd        bool // writes a destination register in WB
	UsesRs1      bool // reads rs1 as an operand
	UsesRs2      bool // reads rs2 as an operand

	Imm int32 // sign-extended immediate

	// Operand selection for EX. When UsesRs1 is false, operand A is the PC
	// if AIsPC, else zero. When BIsImm, operand B is the immediate.
	AIsPC  bool
	BIsImm bool

	// Load/store attributes.
	MemWidth uint8 // access width in bytes: 1, 2 or 4
	Unsigned bool  // zero-extend sub-word loads

	// CSR attributes.
	CSR     CSROp
	CSRAddr uint16
	CSRImm  bool // operand is the 5-bit zimm in the rs1 field

	Indirect bool // JALR: target is rs1+imm instead of pc+imm
}

// Decode maps a raw 32-bit instruction word to its operation descriptor.
// It is a pure function of the word alone and is total over RV32I+Zicsr:
// any bit pattern outside the legal set yields a Decode Fault rather than a
// guess. The returned fault carries pc.
//
func Decode(raw uint32, pc Word) (Instr, *Fault) {
	in := Instr{
		Raw: raw,
		PC:  pc,
		Rd:  uint8((raw >> 7) & 0x1F),
		Rs1: uint8((raw >> 15) & 0x1F),
		Rs2: uint8((raw >> 20) & 0x1F),
	}
	funct3 := (raw >> 12) & 0x7
	funct7 := (raw >> 25) & 0x7F
	bad := func() (Instr, *Fault) {
		return Instr{}, &Fault{Kind: FaultDecode, PC: pc}
	}

	switch raw & 0x7F {
	case opLUI:
		in.Class = ClassALU
		in.Alu = ALUAdd
		in.HasRd = true
		in.BIsImm = true
		in.Imm = immU(raw)

	case opAUIPC:
		in.Class = ClassALU
		in.Alu = ALUAdd
		in.HasRd = true
		in.AIsPC = true
		in.BIsImm = true
		in.Imm = immU(raw)

	case opJAL:
		in.Class = ClassJump
		in.HasRd = true
		in.Imm = immJ(raw)

	case opJALR:
		if funct3 != 0 {
			return bad()
		}
		in.Class = ClassJump
		in.HasRd = true
		in.UsesRs1 = true
		in.Indirect = true
		in.Imm = immI(raw)

	case opBranch:
		cond, ok := branchConds[funct3]
		if !ok {
			return bad()
		}
		in.Class = ClassBranch
		in.Cond = cond
		in.UsesRs1 = true
		in.UsesRs2 = true
		in.Imm = immB(raw)

	case opLoad:
		w, ok := loadWidths[funct3]
		if !ok {
			return bad()
		}
		in.Class = ClassLoad
		in.HasRd = true
		in.UsesRs1 = true
		in.MemWidth = w
		in.Unsigned = funct3&0x4 != 0
		in.Imm = immI(raw)

	case opStore:
		if funct3 > 2 {
			return bad()
		}
		in.Class = ClassStore
		in.UsesRs1 = true
		in.UsesRs2 = true
		in.MemWidth = 1 << funct3
		in.Imm = immS(raw)

	case opOpImm:
		op, ok := decodeALUImm(funct3, funct7)
		if !ok {
			return bad()
		}
		in.Class = ClassALU
		in.Alu = op
		in.HasRd = true
		in.UsesRs1 = true
		in.BIsImm = true
		in.Imm = immI(raw)
		if op == ALUSll || op == ALUSrl || op == ALUSra {
			// shamt is the low 5 bits of the immediate field
			in.Imm = int32(in.Rs2)
		}

	case opOp:
		op, ok := decodeALUReg(funct3, funct7)
		if !ok {
			return bad()
		}
		in.Class = ClassALU
		in.Alu = op
		in.HasRd = true
		in.UsesRs1 = true
		in.UsesRs2 = true

	case opFence:
		if funct3 != 0 && funct3 != 1 {
			return bad()
		}
		in.Class = ClassNop

	case opSystem:
		return decodeSystem(in, raw, funct3, pc)

	default:
		return bad()
	}
	return in, nil
}

func decodeSystem(in Instr, raw uint32, funct3 uint32, pc Word) (Instr, *Fault) {
	if funct3 == 0 {
		// ECALL (imm 0) and EBREAK (imm 1) both halt the run: there is no
		// trap model beyond the CSR file.
		if in.Rd != 0 || in.Rs1 != 0 || raw>>20 > 1 {
			return Instr{}, &Fault{Kind: FaultDecode, PC: pc}
		}
		in.Class = ClassHalt
		return in, nil
	}
	if funct3 == 4 {
		return Instr{}, &Fault{Kind: FaultDecode, PC: pc}
	}
	in.Class = ClassCSR
	in.CSR = CSROp(funct3 & 0x3)
	in.CSRAddr = uint16(raw >> 20)
	in.CSRImm = funct3&0x4 != 0
	in.HasRd = true
	in.UsesRs1 = !in.CSRImm
	return in, nil
}

var branchConds = map[uint32]BranchCond{
	0: BranchEQ, 1: BranchNE, 4: BranchLT, 5: BranchGE, 6: BranchLTU, 7: BranchGEU,
}

var loadWidths = map[uint32]uint8{
	0: 1, 1: 2, 2: 4, 4: 1, 5: 2,
}

func decodeALUImm(funct3, funct7 uint32) (ALUOp, bool) {
	switch funct3 {
	case 0:
		return ALUAdd, true
	case 1:
		return ALUSll, funct7 == 0
	case 2:
		return ALUSlt, true
	case 3:
		return ALUSltu, true
	case 4:
		return ALUXor, true
	case 5:
		switch funct7 {
		case 0x00:
			return ALUSrl, true
		case 0x20:
			return ALUSra, true
		}
		return 0, false
	case 6:
		return ALUOr, true
	case 7:
		return ALUAnd, true
	}
	return 0, false
}

func decodeALUReg(funct3, funct7 uint32) (ALUOp, bool) {
	if funct7 != 0 && funct7 != 0x20 {
		return 0, false
	}
	sub := funct7 == 0x20
	switch funct3 {
	case 0:
		if sub {
			return ALUSub, true
		}
		return ALUAdd, true
	case 1:
		return ALUSll, !sub
	case 2:
		return ALUSlt, !sub
	case 3:
		return ALUSltu, !sub
	case 4:
		return ALUXor, !sub
	case 5:
		if sub {
			return ALUSra, true
		}
		return ALUSrl, true
	case 6:
		return ALUOr, !sub
	case 7:
		return ALUAnd, !sub
	}
	return 0, false
}

// Immediate assembly per instruction format, with sign extension done by
// arithmetic shifts on the raw word.

func immI(raw uint32) int32 { return int32(raw) >> 20 }

func immS(raw uint32) int32 {
	return (int32(raw)>>25)<<5 | int32((raw>>7)&0x1F)
}

func immB(raw uint32) int32 {
	return (int32(raw)>>31)<<12 |
		int32((raw>>25)&0x3F)<<5 |
		int32((raw>>8)&0xF)<<1 |
		int32((raw>>7)&0x1)<<11
}

func immU(raw uint32) int32 { return int32(raw & 0xFFFFF000) }

func immJ(raw uint32) int32 {
	return (int32(raw)>>31)<<20 |
		int32((raw>>21)&0x3FF)<<1 |
		int32((raw>>20)&0x1)<<11 |
		int32((raw>>12)&0xFF)<<12
}
