// Copyright 2026 The rv32sim authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package rv32sim

// ALUOp tags an arithmetic/logic operation. The decoder guarantees
// validity; ALU evaluation itself cannot fail.
//
type ALUOp uint8

// ALU operations.
const (
	ALUAdd ALUOp = iota + 1
	ALUSub
	ALUSll
	ALUSlt
	ALUSltu
	ALUXor
	ALUSrl
	ALUSra
	ALUOr
	ALUAnd
)

// BranchCond tags a branch comparison.
//
type BranchCond uint8

// Branch conditions.
const (
	BranchEQ BranchCond = iota + 1
	BranchNE
	BranchLT
	BranchGE
	BranchLTU
	BranchGEU
)

// ALU evaluates op over a and b. Results wrap in two's complement; shifts
// use only the low 5 bits of b.
//
func ALU(a, b Word, op ALUOp) Word {
	switch op {
	case ALUAdd:
		return a + b
	case ALUSub:
		return a - b
	case ALUSll:
		return a << (b & 0x1F)
	case ALUSlt:
		if a.Signed() < b.Signed() {
			return 1
		}
		return 0
	case ALUSltu:
		if a < b {
			return 1
		}
		return 0
	case ALUXor:
		return a ^ b
	case ALUSrl:
		return a >> (b & 0x1F)
	case ALUSra:
		return Word(a.Signed() >> (b & 0x1F))
	case ALUOr:
		return a | b
	case ALUAnd:
		return a & b
	}
	panic("rv32sim: invalid ALU op")
}

// BranchTaken evaluates the branch condition cond over a and b.
//
func BranchTaken(a, b Word, cond BranchCond) bool {
	switch cond {
	case BranchEQ:
		return a == b
	case BranchNE:
		return a != b
	case BranchLT:
		return a.Signed() < b.Signed()
	case BranchGE:
		return a.Signed() >= b.Signed()
	case BranchLTU:
		return a < b
	case BranchGEU:
		return a >= b
	}
	panic("rv32sim: invalid branch condition")
}
