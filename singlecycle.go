// Copyright 2026 The rv32sim authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package rv32sim

// SingleCycle is the reference execution model: every instruction fetches,
// decodes, executes, accesses memory and writes back within a single Step.
// One cycle equals one retired instruction. It shares decode, ALU, memory
// and CSR logic with the pipelined model, so the two can only diverge in
// timing, never in architectural result.
//
type SingleCycle struct {
	machine
}

func newSingleCycle(cfg Config) (*SingleCycle, error) {
	m, err := newMachine(cfg)
	if err != nil {
		return nil, err
	}
	return &SingleCycle{machine: m}, nil
}

// Step implements Core. It executes exactly one instruction.
//
func (s *SingleCycle) Step() error {
	if s.halted {
		return ErrHalted
	}
	fault, halt := s.exec()
	if fault != nil {
		s.record(fault)
	}

	s.cycles++
	s.csrs.SetCounters(s.cycles, s.retired)
	if halt {
		s.halted = true
	}
	if fault != nil {
		if s.fatal(fault) {
			s.halted = true
			s.trace()
			return fault
		}
		// squashed: the instruction has no effect, execution continues
		s.pc += 4
	}
	s.trace()
	return nil
}

// Run implements Core.
//
func (s *SingleCycle) Run(maxCycles uint64) error {
	return s.run(maxCycles, s.Step)
}

// exec runs the full fetch/decode/execute/memory/write-back sequence for
// the instruction at PC. It returns a hard fault instead of committing, or
// halt == true for a halt instruction.
func (s *SingleCycle) exec() (*Fault, bool) {
	raw, fault := s.mem.ReadWord(s.pc)
	if fault != nil {
		fault.PC = s.pc
		if !fault.Warning {
			return fault, false
		}
		s.warn(fault)
	}

	in, dfault := Decode(uint32(raw), s.pc)
	if dfault != nil {
		return dfault, false
	}

	a := s.regs.Read(in.Rs1)
	b := s.regs.Read(in.Rs2)
	next := s.pc + 4

	switch in.Class {
	case ClassALU:
		opA := a
		if !in.UsesRs1 {
			opA = 0
			if in.AIsPC {
				opA = in.PC
			}
		}
		opB := b
		if in.BIsImm {
			opB = Word(in.Imm)
		}
		s.regs.Write(in.Rd, ALU(opA, opB, in.Alu))

	case ClassBranch:
		if BranchTaken(a, b, in.Cond) {
			next = in.PC + Word(in.Imm)
		}

	case ClassJump:
		link := in.PC + 4
		if in.Indirect {
			next = (a + Word(in.Imm)) &^ 1
		} else {
			next = in.PC + Word(in.Imm)
		}
		if in.HasRd {
			s.regs.Write(in.Rd, link)
		}

	case ClassLoad:
		addr := a + Word(in.Imm)
		v, lf := s.loadValue(in, addr)
		if lf != nil {
			lf.PC = in.PC
			if !lf.Warning {
				return lf, false
			}
			s.warn(lf)
		}
		s.regs.Write(in.Rd, v)

	case ClassStore:
		addr := a + Word(in.Imm)
		if sf := s.mem.check(addr, Word(in.MemWidth)); sf != nil {
			sf.PC = in.PC
			sf.Addr = addr
			if !sf.Warning {
				return sf, false
			}
			s.warn(sf)
		}
		switch in.MemWidth {
		case 1:
			s.mem.WriteByte(addr, b)
		case 2:
			s.mem.WriteHalf(addr, b)
		default:
			s.mem.WriteWord(addr, b)
		}

	case ClassCSR:
		old, ok := s.csrs.Read(in.CSRAddr)
		if !ok || (csrWillWrite(in) && !csrWritable(in.CSRAddr)) {
			return &Fault{Kind: FaultDecode, PC: in.PC}, false
		}
		if csrWillWrite(in) {
			operand := a
			if in.CSRImm {
				operand = Word(in.Rs1)
			}
			var v Word
			switch in.CSR {
			case CSRWrite:
				v = operand
			case CSRSet:
				v = old | operand
			case CSRClear:
				v = old &^ operand
			}
			s.csrs.Write(in.CSRAddr, v)
		}
		if in.HasRd {
			s.regs.Write(in.Rd, old)
		}

	case ClassHalt:
		s.retired++
		return nil, true
	}

	s.retired++
	s.pc = next
	return nil, false
}

func (s *SingleCycle) trace() {
	if s.cfg.Trace == nil {
		return
	}
	raw, _ := s.mem.ReadWord(s.pc)
	st := CycleState{
		Cycle: s.cycles,
		PC:    s.pc,
		Fault: s.freshFault(),
		Stages: []StageState{
			{Name: StageIF, Valid: !s.halted, PC: s.pc, Raw: uint32(raw), Asm: Disassemble(uint32(raw))},
		},
	}
	s.cfg.Trace(&st)
}
