// Copyright 2026 The rv32sim authors.
// Licensed under the MIT license. See license text in the LICENSE file.

// Package rvasm encodes RV32I+Zicsr instructions as 32-bit words, for
// building test and demo programs without an external toolchain. Encoders
// panic on unencodable operands: a bad immediate in a hand-written program
// is a programming error, not a runtime condition.
//
package rvasm

import (
	"encoding/binary"
	"fmt"
)

// A Reg names one of the 32 general-purpose registers.
//
type Reg uint32

// Registers by index and by ABI name.
const (
	X0 Reg = iota
	X1
	X2
	X3
	X4
	X5
	X6
	X7
	X8
	X9
	X10
	X11
	X12
	X13
	X14
	X15
	X16
	X17
	X18
	X19
	X20
	X21
	X22
	X23
	X24
	X25
	X26
	X27
	X28
	X29
	X30
	X31

	Zero = X0
	RA   = X1
	SP   = X2
	T0   = X5
	T1   = X6
	T2   = X7
	S0   = X8
	S1   = X9
	A0   = X10
	A1   = X11
	A2   = X12
	A3   = X13
	A4   = X14
	A5   = X15
)

// Program lays out instruction words as a little-endian byte image ready
// for Core.Load.
//
func Program(words ...uint32) []byte {
	out := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[4*i:], w)
	}
	return out
}

// Upper-immediate and jump instructions.

func Lui(rd Reg, imm20 int32) uint32   { return encU(0x37, rd, imm20) }
func Auipc(rd Reg, imm20 int32) uint32 { return encU(0x17, rd, imm20) }

// Jal encodes a jump with a byte offset relative to the instruction.
func Jal(rd Reg, offset int32) uint32 { return encJ(0x6F, rd, offset) }

func Jalr(rd, rs1 Reg, imm int32) uint32 { return encI(0x67, rd, 0, rs1, imm) }

// Conditional branches, offset in bytes relative to the instruction.

func Beq(rs1, rs2 Reg, offset int32) uint32  { return encB(0, rs1, rs2, offset) }
func Bne(rs1, rs2 Reg, offset int32) uint32  { return encB(1, rs1, rs2, offset) }
func Blt(rs1, rs2 Reg, offset int32) uint32  { return encB(4, rs1, rs2, offset) }
func Bge(rs1, rs2 Reg, offset int32) uint32  { return encB(5, rs1, rs2, offset) }
func Bltu(rs1, rs2 Reg, offset int32) uint32 { return encB(6, rs1, rs2, offset) }
func Bgeu(rs1, rs2 Reg, offset int32) uint32 { return encB(7, rs1, rs2, offset) }

// Loads and stores.

func Lb(rd, rs1 Reg, imm int32) uint32  { return encI(0x03, rd, 0, rs1, imm) }
func Lh(rd, rs1 Reg, imm int32) uint32  { return encI(0x03, rd, 1, rs1, imm) }
func Lw(rd, rs1 Reg, imm int32) uint32  { return encI(0x03, rd, 2, rs1, imm) }
func Lbu(rd, rs1 Reg, imm int32) uint32 { return encI(0x03, rd, 4, rs1, imm) }
func Lhu(rd, rs1 Reg, imm int32) uint32 { return encI(0x03, rd, 5, rs1, imm) }

func Sb(rs2, rs1 Reg, imm int32) uint32 { return encS(0, rs1, rs2, imm) }
func Sh(rs2, rs1 Reg, imm int32) uint32 { return encS(1, rs1, rs2, imm) }
func Sw(rs2, rs1 Reg, imm int32) uint32 { return encS(2, rs1, rs2, imm) }

// Register-immediate arithmetic.

func Addi(rd, rs1 Reg, imm int32) uint32  { return encI(0x13, rd, 0, rs1, imm) }
func Slti(rd, rs1 Reg, imm int32) uint32  { return encI(0x13, rd, 2, rs1, imm) }
func Sltiu(rd, rs1 Reg, imm int32) uint32 { return encI(0x13, rd, 3, rs1, imm) }
func Xori(rd, rs1 Reg, imm int32) uint32  { return encI(0x13, rd, 4, rs1, imm) }
func Ori(rd, rs1 Reg, imm int32) uint32   { return encI(0x13, rd, 6, rs1, imm) }
func Andi(rd, rs1 Reg, imm int32) uint32  { return encI(0x13, rd, 7, rs1, imm) }

func Slli(rd, rs1 Reg, shamt uint32) uint32 { return encShift(0x00, 1, rd, rs1, shamt) }
func Srli(rd, rs1 Reg, shamt uint32) uint32 { return encShift(0x00, 5, rd, rs1, shamt) }
func Srai(rd, rs1 Reg, shamt uint32) uint32 { return encShift(0x20, 5, rd, rs1, shamt) }

// Register-register arithmetic.

func Add(rd, rs1, rs2 Reg) uint32  { return encR(0x00, 0, rd, rs1, rs2) }
func Sub(rd, rs1, rs2 Reg) uint32  { return encR(0x20, 0, rd, rs1, rs2) }
func Sll(rd, rs1, rs2 Reg) uint32  { return encR(0x00, 1, rd, rs1, rs2) }
func Slt(rd, rs1, rs2 Reg) uint32  { return encR(0x00, 2, rd, rs1, rs2) }
func Sltu(rd, rs1, rs2 Reg) uint32 { return encR(0x00, 3, rd, rs1, rs2) }
func Xor(rd, rs1, rs2 Reg) uint32  { return encR(0x00, 4, rd, rs1, rs2) }
func Srl(rd, rs1, rs2 Reg) uint32  { return encR(0x00, 5, rd, rs1, rs2) }
func Sra(rd, rs1, rs2 Reg) uint32  { return encR(0x20, 5, rd, rs1, rs2) }
func Or(rd, rs1, rs2 Reg) uint32   { return encR(0x00, 6, rd, rs1, rs2) }
func And(rd, rs1, rs2 Reg) uint32  { return encR(0x00, 7, rd, rs1, rs2) }

// System instructions.

func Fence() uint32  { return 0x0000000F }
func Ecall() uint32  { return 0x00000073 }
func Ebreak() uint32 { return 0x00100073 }

// Nop is the canonical ADDI x0, x0, 0.
func Nop() uint32 { return 0x00000013 }

// Zicsr instructions. csr is the 12-bit CSR address.

func Csrrw(rd Reg, csr uint32, rs1 Reg) uint32 { return encCSR(1, rd, csr, uint32(rs1)) }
func Csrrs(rd Reg, csr uint32, rs1 Reg) uint32 { return encCSR(2, rd, csr, uint32(rs1)) }
func Csrrc(rd Reg, csr uint32, rs1 Reg) uint32 { return encCSR(3, rd, csr, uint32(rs1)) }

func Csrrwi(rd Reg, csr, zimm uint32) uint32 { return encCSR(5, rd, csr, zimm) }
func Csrrsi(rd Reg, csr, zimm uint32) uint32 { return encCSR(6, rd, csr, zimm) }
func Csrrci(rd Reg, csr, zimm uint32) uint32 { return encCSR(7, rd, csr, zimm) }

// Li expands a 32-bit load-immediate into one or two instructions, using
// LUI plus ADDI with the usual carry adjustment for a negative low part.
//
func Li(rd Reg, v int32) []uint32 {
	if v >= -2048 && v < 2048 {
		return []uint32{Addi(rd, X0, v)}
	}
	lo := v << 20 >> 20 // low 12 bits, sign-extended
	hi := (v - lo) >> 12
	return []uint32{Lui(rd, hi), Addi(rd, rd, lo)}
}

func reg(r Reg, field string) uint32 {
	if r > 31 {
		panic(fmt.Sprintf("rvasm: register %s out of range: %d", field, r))
	}
	return uint32(r)
}

func encR(funct7, funct3 uint32, rd, rs1, rs2 Reg) uint32 {
	return funct7<<25 | reg(rs2, "rs2")<<20 | reg(rs1, "rs1")<<15 |
		funct3<<12 | reg(rd, "rd")<<7 | 0x33
}

func encI(opcode uint32, rd Reg, funct3 uint32, rs1 Reg, imm int32) uint32 {
	if imm < -2048 || imm > 2047 {
		panic(fmt.Sprintf("rvasm: I-immediate out of range: %d", imm))
	}
	return uint32(imm)&0xFFF<<20 | reg(rs1, "rs1")<<15 |
		funct3<<12 | reg(rd, "rd")<<7 | opcode
}

func encShift(funct7, funct3 uint32, rd, rs1 Reg, shamt uint32) uint32 {
	if shamt > 31 {
		panic(fmt.Sprintf("rvasm: shift amount out of range: %d", shamt))
	}
	return funct7<<25 | shamt<<20 | reg(rs1, "rs1")<<15 |
		funct3<<12 | reg(rd, "rd")<<7 | 0x13
}

func encS(funct3 uint32, rs1, rs2 Reg, imm int32) uint32 {
	if imm < -2048 || imm > 2047 {
		panic(fmt.Sprintf("rvasm: S-immediate out of range: %d", imm))
	}
	u := uint32(imm)
	return u>>5&0x7F<<25 | reg(rs2, "rs2")<<20 | reg(rs1, "rs1")<<15 |
		funct3<<12 | u&0x1F<<7 | 0x23
}

func encB(funct3 uint32, rs1, rs2 Reg, offset int32) uint32 {
	if offset < -4096 || offset > 4094 || offset&1 != 0 {
		panic(fmt.Sprintf("rvasm: branch offset unencodable: %d", offset))
	}
	u := uint32(offset)
	return u>>12&0x1<<31 | u>>5&0x3F<<25 | reg(rs2, "rs2")<<20 |
		reg(rs1, "rs1")<<15 | funct3<<12 | u>>1&0xF<<8 | u>>11&0x1<<7 | 0x63
}

func encU(opcode uint32, rd Reg, imm20 int32) uint32 {
	if imm20 < -(1<<19) || imm20 >= 1<<19 {
		panic(fmt.Sprintf("rvasm: U-immediate out of range: %d", imm20))
	}
	return uint32(imm20)<<12 | reg(rd, "rd")<<7 | opcode
}

func encJ(opcode uint32, rd Reg, offset int32) uint32 {
	if offset < -(1<<20) || offset >= 1<<20 || offset&1 != 0 {
		panic(fmt.Sprintf("rvasm: jump offset unencodable: %d", offset))
	}
	u := uint32(offset)
	return u>>20&0x1<<31 | u>>1&0x3FF<<21 | u>>11&0x1<<20 |
		u>>12&0xFF<<12 | reg(rd, "rd")<<7 | opcode
}

func encCSR(funct3 uint32, rd Reg, csr, field uint32) uint32 {
	if csr > 0xFFF {
		panic(fmt.Sprintf("rvasm: CSR address out of range: %#x", csr))
	}
	if field > 31 {
		panic(fmt.Sprintf("rvasm: CSR operand out of range: %d", field))
	}
	return csr<<20 | field<<15 | funct3<<12 | reg(rd, "rd")<<7 | 0x73
}
