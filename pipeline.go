// Copyright 2026 The rv32sim authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package rv32sim

// Pipeline latches. Each is the snapshot between two stages; the pipeline
// is a shift register of these. A latch with valid == false is a bubble
// and carries no side effects in any later stage.
//
// A latch can also hold a *faulted* instruction: one whose fetch or decode
// failed. It occupies its slot like any other instruction but executes
// nothing; the fault is applied only when the instruction reaches EX, so
// that wrong-path instructions flushed by a branch never raise it. A fetch
// *warning* rides in the latch the same way and is recorded at EX, but the
// instruction otherwise executes normally.

// fetchLatch is the IF/ID boundary.
type fetchLatch struct {
	valid bool
	raw   uint32
	pc    Word
	fault *Fault // fetch fault, carried to EX
}

// decodeLatch is the ID/EX boundary.
type decodeLatch struct {
	valid  bool
	in     Instr
	a, b   Word   // rs1/rs2 values as read in ID (pre-forwarding)
	csrOld Word   // CSR value read in ID, for ClassCSR
	fault  *Fault // fetch or decode fault (or fetch warning), carried to EX
}

// hardFault reports whether the latch carries a fault that squashes the
// instruction at EX. Warnings execute normally and never squash.
func (d decodeLatch) hardFault() bool {
	return d.fault != nil && !d.fault.Warning
}

// execLatch is the EX/MEM boundary.
type execLatch struct {
	valid    bool
	in       Instr
	alu      Word // ALU result, memory address, or link/CSR-read value
	storeVal Word // rs2 value for stores, forwarded
	csrNew   Word
	csrWrite bool
	taken    bool // resolved branch outcome, for tracing
}

// memLatch is the MEM/WB boundary.
type memLatch struct {
	valid    bool
	in       Instr
	wbVal    Word // value written to rd in WB
	csrNew   Word
	csrWrite bool
}

// pendingStore is a memory write computed in MEM during evaluate and
// applied at commit.
type pendingStore struct {
	addr  Word
	val   Word
	width uint8
}

// evalIF fetches the instruction word at the current PC. Instruction fetch
// goes through the same aligned memory port as data and is subject to the
// same checks; a hard fault rides in the latch instead of the word, and a
// warning rides alongside the word so it is only recorded if the
// instruction survives to EX.
func (p *Pipelined) evalIF() fetchLatch {
	if p.fetchStop {
		return fetchLatch{}
	}
	raw, fault := p.mem.ReadWord(p.pc)
	out := fetchLatch{valid: true, raw: uint32(raw), pc: p.pc}
	if fault != nil {
		fault.PC = p.pc
		if !fault.Warning {
			out.raw = 0
		}
		out.fault = fault
	}
	return out
}

// evalID decodes the fetched word and reads the source operands. Register
// reads bypass from the MEM/WB latch so that a value being written back
// this very cycle is already visible, matching a register file that writes
// in the first half of the cycle and reads in the second.
func (p *Pipelined) evalID(f fetchLatch) decodeLatch {
	if !f.valid {
		return decodeLatch{}
	}
	if f.fault != nil && !f.fault.Warning {
		return decodeLatch{valid: true, in: Instr{PC: f.pc}, fault: f.fault}
	}
	in, fault := Decode(f.raw, f.pc)
	if fault != nil {
		return decodeLatch{valid: true, in: Instr{Raw: f.raw, PC: f.pc}, fault: fault}
	}
	// a fetch warning, if any, keeps riding with the decoded instruction
	out := decodeLatch{valid: true, in: in, fault: f.fault}
	out.a = p.readBypassed(in.Rs1)
	out.b = p.readBypassed(in.Rs2)
	if in.Class == ClassCSR {
		old, ok := p.csrs.Read(in.CSRAddr)
		if !ok || (csrWillWrite(in) && !csrWritable(in.CSRAddr)) {
			out.fault = &Fault{Kind: FaultDecode, PC: f.pc}
			return out
		}
		out.csrOld = old
	}
	return out
}

func (p *Pipelined) readBypassed(r uint8) Word {
	if r != 0 && p.memwb.valid && p.memwb.in.HasRd && p.memwb.in.Rd == r {
		return p.memwb.wbVal
	}
	return p.regs.Read(r)
}

func csrWillWrite(in Instr) bool {
	if in.CSR == CSRWrite {
		return true
	}
	// set/clear with a zero operand reads only
	return in.Rs1 != 0
}

func csrWritable(addr uint16) bool {
	switch addr {
	case CSRCycle, CSRCycleH, CSRInstret, CSRInstretH:
		return false
	}
	return true
}

// exResult is the EX stage output: the next EX/MEM latch plus the resolved
// control-flow decision and any fault to apply this cycle.
type exResult struct {
	latch  execLatch
	taken  bool // taken branch or jump: flush younger stages, PC := target
	target Word
	halt   bool   // halt instruction passing EX: flush younger, stop fetch
	fault  *Fault // carried fault reaching its application point
}

// evalEX executes the instruction in the ID/EX latch with forwarded
// operands. Branch and jump resolution happens here; EX is the pipeline's
// control-hazard resolution point.
func (p *Pipelined) evalEX(d decodeLatch) exResult {
	if !d.valid {
		return exResult{}
	}
	if d.fault != nil {
		if !d.fault.Warning {
			return exResult{fault: d.fault}
		}
		p.warn(d.fault)
	}
	in := d.in
	a, b := d.a, d.b
	if in.UsesRs1 {
		a = p.forward(in.Rs1, a)
	}
	if in.UsesRs2 {
		b = p.forward(in.Rs2, b)
	}
	out := exResult{latch: execLatch{valid: true, in: in}}

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
		out.latch.alu = ALU(opA, opB, in.Alu)

	case ClassBranch:
		out.taken = BranchTaken(a, b, in.Cond)
		out.target = in.PC + Word(in.Imm)
		out.latch.taken = out.taken

	case ClassJump:
		out.latch.alu = in.PC + 4 // link value
		out.taken = true
		out.latch.taken = true
		if in.Indirect {
			out.target = (a + Word(in.Imm)) &^ 1
		} else {
			out.target = in.PC + Word(in.Imm)
		}

	case ClassLoad:
		out.latch.alu = a + Word(in.Imm)

	case ClassStore:
		out.latch.alu = a + Word(in.Imm)
		out.latch.storeVal = b

	case ClassCSR:
		operand := a
		if in.CSRImm {
			operand = Word(in.Rs1)
		}
		out.latch.alu = d.csrOld
		if csrWillWrite(in) {
			out.latch.csrWrite = true
			switch in.CSR {
			case CSRWrite:
				out.latch.csrNew = operand
			case CSRSet:
				out.latch.csrNew = d.csrOld | operand
			case CSRClear:
				out.latch.csrNew = d.csrOld &^ operand
			}
		}

	case ClassHalt:
		out.halt = true
	}
	return out
}

// forward overrides an operand read in ID with an in-flight result. The
// EX/MEM latch wins over MEM/WB: the most recently produced value is the
// architecturally newest. A load in EX/MEM never matches here; the hazard
// unit guarantees its consumer was stalled a cycle so the loaded value is
// forwarded from MEM/WB instead.
func (p *Pipelined) forward(r uint8, old Word) Word {
	if r == 0 {
		return 0
	}
	if p.exmem.valid && p.exmem.in.HasRd && p.exmem.in.Rd == r && p.exmem.in.Class != ClassLoad {
		return p.exmem.alu
	}
	if p.memwb.valid && p.memwb.in.HasRd && p.memwb.in.Rd == r {
		return p.memwb.wbVal
	}
	return old
}

// memResult is the MEM stage output.
type memResult struct {
	latch memLatch
	store *pendingStore
	fault *Fault
}

// evalMEM performs the data-memory access for loads and stores. Loads read
// during evaluate (reads are side-effect free); stores are deferred to
// commit so no other stage can observe them within the cycle.
func (p *Pipelined) evalMEM(e execLatch) memResult {
	if !e.valid {
		return memResult{}
	}
	in := e.in
	out := memResult{latch: memLatch{
		valid: true, in: in, wbVal: e.alu, csrNew: e.csrNew, csrWrite: e.csrWrite,
	}}

	switch in.Class {
	case ClassLoad:
		v, fault := p.loadValue(in, e.alu)
		if fault != nil && !fault.Warning {
			fault.PC = in.PC
			out.fault = fault
			return out
		}
		if fault != nil {
			fault.PC = in.PC
			p.warn(fault)
		}
		out.latch.wbVal = v

	case ClassStore:
		if fault := p.mem.check(e.alu, Word(in.MemWidth)); fault != nil {
			fault.PC = in.PC
			fault.Addr = e.alu
			if !fault.Warning {
				out.fault = fault
				return out
			}
			p.warn(fault)
		}
		out.store = &pendingStore{addr: e.alu, val: e.storeVal, width: in.MemWidth}
	}
	return out
}

// wbResult is the WB stage output: the register and CSR writes to apply at
// commit.
type wbResult struct {
	write   bool
	rd      uint8
	val     Word
	csrA    uint16
	csrV    Word
	csrWr   bool
	halt    bool
	retired bool
}

// evalWB computes the write-back of the instruction in the MEM/WB latch.
func (p *Pipelined) evalWB(w memLatch) wbResult {
	if !w.valid {
		return wbResult{}
	}
	out := wbResult{retired: true}
	if w.in.HasRd {
		out.write = true
		out.rd = w.in.Rd
		out.val = w.wbVal
	}
	if w.csrWrite {
		out.csrWr = true
		out.csrA = w.in.CSRAddr
		out.csrV = w.csrNew
	}
	out.halt = w.in.Class == ClassHalt
	return out
}
