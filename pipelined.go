// Copyright 2026 The rv32sim authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package rv32sim

// Pipelined is the five-stage pipelined execution model. Each Step
// simulates one clock cycle in two strict phases: every stage first
// computes its outputs from the pre-cycle latch contents (evaluate), then
// all mutations — register writes, memory stores, latch replacement, PC
// update — are applied atomically (commit). No stage ever observes another
// stage's commit within the same cycle.
//
type Pipelined struct {
	machine

	ifid  fetchLatch
	idex  decodeLatch
	exmem execLatch
	memwb memLatch

	fetchStop bool // a halt passed EX; the frontend issues only bubbles
}

func newPipelined(cfg Config) (*Pipelined, error) {
	m, err := newMachine(cfg)
	if err != nil {
		return nil, err
	}
	return &Pipelined{machine: m}, nil
}

// Step implements Core. It advances the pipeline by exactly one cycle.
//
func (p *Pipelined) Step() error {
	if p.halted {
		return ErrHalted
	}

	// Evaluate phase. Stage order is irrelevant: each is a pure function
	// of the pre-cycle latches. Forwarding resolves in a single pass by
	// priority, so no settle iteration exists to diverge.
	wb := p.evalWB(p.memwb)
	mem := p.evalMEM(p.exmem)
	ex := p.evalEX(p.idex)
	id := p.evalID(p.ifid)
	iff := p.evalIF()
	ctl := p.hazards(id, ex)

	// Apply fault policy. Faults surface oldest-first so the recorded
	// last fault is the one that stops the run.
	var fatal *Fault
	if ex.fault != nil {
		p.record(ex.fault)
		if p.fatal(ex.fault) {
			fatal = ex.fault
		} else {
			ex.latch = execLatch{}
		}
	}
	if mem.fault != nil {
		p.record(mem.fault)
		if p.fatal(mem.fault) {
			fatal = mem.fault
		} else {
			mem.latch = memLatch{}
			mem.store = nil
		}
	}

	snap := p.snapshot(iff)

	// Commit phase: all mutations in one indivisible step.
	if wb.write {
		p.regs.Write(wb.rd, wb.val)
	}
	if wb.csrWr {
		p.csrs.Write(wb.csrA, wb.csrV)
	}
	if wb.retired {
		p.retired++
	}
	// mem.store is nil whenever MEM's own access faulted; a fault raised by
	// a younger instruction never cancels program-order-older work.
	if mem.store != nil {
		p.applyStore(mem.store)
	}

	if fatal == nil {
		p.memwb = mem.latch
		p.exmem = ex.latch
		switch {
		case ctl.flush:
			p.idex = decodeLatch{}
			p.ifid = fetchLatch{}
			p.pc = ctl.target
			if ctl.stopFetch {
				p.fetchStop = true
			}
		case ctl.stall:
			p.idex = decodeLatch{}
		default:
			p.idex = id
			p.ifid = iff
			if !p.fetchStop {
				p.pc += 4
			}
		}
	}

	p.cycles++
	p.csrs.SetCounters(p.cycles, p.retired)
	if wb.halt || fatal != nil {
		p.halted = true
	}
	if p.cfg.Trace != nil {
		snap.Cycle = p.cycles
		snap.Fault = p.freshFault()
		p.cfg.Trace(snap)
	}
	if fatal != nil {
		return fatal
	}
	return nil
}

// Run implements Core.
//
func (p *Pipelined) Run(maxCycles uint64) error {
	return p.run(maxCycles, p.Step)
}

func (p *Pipelined) applyStore(s *pendingStore) {
	// alignment and bounds were checked during evaluate
	switch s.width {
	case 1:
		p.mem.WriteByte(s.addr, s.val)
	case 2:
		p.mem.WriteHalf(s.addr, s.val)
	default:
		p.mem.WriteWord(s.addr, s.val)
	}
}

// snapshot captures the stage occupancy of the cycle being committed: the
// word fetched this cycle plus the four pre-commit latch contents.
func (p *Pipelined) snapshot(iff fetchLatch) *CycleState {
	if p.cfg.Trace == nil {
		return nil
	}
	s := &CycleState{PC: p.pc, Stages: make([]StageState, 5)}
	s.Stages[0] = stageState(StageIF, iff.valid, iff.pc, iff.raw)
	s.Stages[1] = stageState(StageID, p.ifid.valid, p.ifid.pc, p.ifid.raw)
	s.Stages[2] = stageState(StageEX, p.idex.valid, p.idex.in.PC, p.idex.in.Raw)
	s.Stages[3] = stageState(StageMEM, p.exmem.valid, p.exmem.in.PC, p.exmem.in.Raw)
	s.Stages[4] = stageState(StageWB, p.memwb.valid, p.memwb.in.PC, p.memwb.in.Raw)
	return s
}

func stageState(name string, valid bool, pc Word, raw uint32) StageState {
	st := StageState{Name: name, Valid: valid, PC: pc, Raw: raw}
	if valid {
		st.Asm = Disassemble(raw)
	}
	return st
}
