package rv32sim_test

import (
	"testing"

	sim "github.com/rv32sim/rv32sim"
	"github.com/rv32sim/rv32sim/rvasm"
)

func decodeOK(t *testing.T, raw uint32) sim.Instr {
	t.Helper()
	in, fault := sim.Decode(raw, 0x40)
	if fault != nil {
		t.Fatalf("Decode(%#08x) faulted: %v", raw, fault)
	}
	return in
}

func Test_decode_immediates(t *testing.T) {
	td := []struct {
		name string
		raw  uint32
		imm  int32
	}{
		{"addi_positive", rvasm.Addi(rvasm.T0, rvasm.T1, 2047), 2047},
		{"addi_negative", rvasm.Addi(rvasm.T0, rvasm.T1, -2048), -2048},
		{"lw_offset", rvasm.Lw(rvasm.T0, rvasm.SP, -12), -12},
		{"sw_offset", rvasm.Sw(rvasm.T0, rvasm.SP, -4), -4},
		{"sw_positive", rvasm.Sw(rvasm.T0, rvasm.SP, 2040), 2040},
		{"beq_back", rvasm.Beq(rvasm.T0, rvasm.T1, -8), -8},
		{"beq_forward", rvasm.Beq(rvasm.T0, rvasm.T1, 4094), 4094},
		{"bne_min", rvasm.Bne(rvasm.T0, rvasm.T1, -4096), -4096},
		{"jal_back", rvasm.Jal(rvasm.X0, -32), -32},
		{"jal_max", rvasm.Jal(rvasm.RA, (1<<20)-2), (1 << 20) - 2},
		{"jal_min", rvasm.Jal(rvasm.RA, -(1 << 20)), -(1 << 20)},
		{"lui_shifted", rvasm.Lui(rvasm.T0, -0x1235), int32(-0x1235000)},
		{"lui_negative", rvasm.Lui(rvasm.T0, -1), int32(-4096)},
	}
	for _, tt := range td {
		t.Run(tt.name, func(t *testing.T) {
			in := decodeOK(t, tt.raw)
			if in.Imm != tt.imm {
				t.Errorf("imm = %d, want %d", in.Imm, tt.imm)
			}
		})
	}
}

func Test_decode_classes(t *testing.T) {
	td := []struct {
		name  string
		raw   uint32
		class sim.Class
	}{
		{"add", rvasm.Add(rvasm.T0, rvasm.T1, rvasm.T2), sim.ClassALU},
		{"lui", rvasm.Lui(rvasm.T0, 1), sim.ClassALU},
		{"auipc", rvasm.Auipc(rvasm.T0, 1), sim.ClassALU},
		{"beq", rvasm.Beq(rvasm.T0, rvasm.T1, 8), sim.ClassBranch},
		{"jal", rvasm.Jal(rvasm.RA, 8), sim.ClassJump},
		{"jalr", rvasm.Jalr(rvasm.RA, rvasm.T0, 0), sim.ClassJump},
		{"lw", rvasm.Lw(rvasm.T0, rvasm.SP, 0), sim.ClassLoad},
		{"sw", rvasm.Sw(rvasm.T0, rvasm.SP, 0), sim.ClassStore},
		{"csrrw", rvasm.Csrrw(rvasm.T0, 0x340, rvasm.T1), sim.ClassCSR},
		{"ecall", rvasm.Ecall(), sim.ClassHalt},
		{"ebreak", rvasm.Ebreak(), sim.ClassHalt},
		{"fence", rvasm.Fence(), sim.ClassNop},
	}
	for _, tt := range td {
		t.Run(tt.name, func(t *testing.T) {
			in := decodeOK(t, tt.raw)
			if in.Class != tt.class {
				t.Errorf("class = %d, want %d", in.Class, tt.class)
			}
		})
	}
}

func Test_decode_shift_immediates(t *testing.T) {
	in := decodeOK(t, rvasm.Srai(rvasm.T0, rvasm.T1, 31))
	if in.Alu != sim.ALUSra {
		t.Errorf("alu op = %d, want sra", in.Alu)
	}
	if in.Imm != 31 {
		t.Errorf("shamt = %d, want 31", in.Imm)
	}
	if !in.BIsImm {
		t.Error("shift immediate must select the immediate operand")
	}
}

func Test_decode_operand_selection(t *testing.T) {
	lui := decodeOK(t, rvasm.Lui(rvasm.T0, 5))
	if lui.UsesRs1 || lui.AIsPC || !lui.BIsImm {
		t.Errorf("lui operand flags wrong: %+v", lui)
	}
	auipc := decodeOK(t, rvasm.Auipc(rvasm.T0, 5))
	if auipc.UsesRs1 || !auipc.AIsPC || !auipc.BIsImm {
		t.Errorf("auipc operand flags wrong: %+v", auipc)
	}
	// branches read both sources and write no destination
	beq := decodeOK(t, rvasm.Beq(rvasm.T0, rvasm.T1, 8))
	if beq.HasRd || !beq.UsesRs1 || !beq.UsesRs2 {
		t.Errorf("beq operand flags wrong: %+v", beq)
	}
	jalr := decodeOK(t, rvasm.Jalr(rvasm.RA, rvasm.T0, 4))
	if !jalr.Indirect || !jalr.UsesRs1 || !jalr.HasRd {
		t.Errorf("jalr operand flags wrong: %+v", jalr)
	}
}

func Test_decode_rejects_illegal(t *testing.T) {
	td := []struct {
		name string
		raw  uint32
	}{
		{"zero_word", 0x00000000},
		{"all_ones", 0xFFFFFFFF},
		{"bad_opcode", 0x0000007F},
		{"branch_funct3_2", 0x00002063},
		{"load_funct3_3", 0x00003003},
		{"store_funct3_3", 0x00003023},
		{"slli_bad_funct7", 0x40001013},
		{"srli_bad_funct7", 0x10005013},
		{"add_bad_funct7", 0x02000033},
		{"jalr_funct3_1", 0x00001067},
		{"system_funct3_4", 0x00004073},
		{"ecall_with_rd", 0x000000F3},
		{"ecall_big_imm", 0x00200073},
	}
	for _, tt := range td {
		t.Run(tt.name, func(t *testing.T) {
			_, fault := sim.Decode(tt.raw, 0x10)
			if fault == nil {
				t.Fatalf("Decode(%#08x) accepted an illegal word", tt.raw)
			}
			if fault.Kind != sim.FaultDecode {
				t.Errorf("fault kind = %v, want decode fault", fault.Kind)
			}
			if fault.PC != 0x10 {
				t.Errorf("fault pc = %#x, want 0x10", uint32(fault.PC))
			}
		})
	}
}
