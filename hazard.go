// Copyright 2026 The rv32sim authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package rv32sim

// The hazard unit inspects the in-flight latches each cycle and decides
// stall, flush and fetch-stop actions. Together with the forwarding in
// evalEX it guarantees that the pipelined model is observationally
// equivalent to single-cycle execution.
//
// Resolution order within one cycle: stalls are computed first, then a
// taken branch/jump (or a halt passing EX) overrides any stall — the
// stalled instruction is on the wrong path and gets flushed anyway.

// control is the per-cycle hazard decision.
type control struct {
	stall     bool // hold PC and IF/ID, bubble into ID/EX
	flush     bool // bubble into IF/ID and ID/EX, PC := target
	target    Word
	stopFetch bool // a halt passed EX; issue no further fetches
}

// hazards computes this cycle's control actions. d is the decode of the
// instruction currently in ID, ex the EX stage result.
func (p *Pipelined) hazards(d decodeLatch, ex exResult) control {
	var c control

	// Load-use: the loaded value is not available for forwarding until the
	// load leaves MEM. Hold the consumer in ID for one cycle.
	if d.valid && !d.hardFault() && p.idex.valid && !p.idex.hardFault() &&
		p.idex.in.Class == ClassLoad && p.idex.in.Rd != 0 {
		rd := p.idex.in.Rd
		if (d.in.UsesRs1 && d.in.Rs1 == rd) || (d.in.UsesRs2 && d.in.Rs2 == rd) {
			c.stall = true
		}
	}

	// CSR state is read in ID and written in WB, outside the forwarding
	// network. Serialize: a CSR instruction waits in ID until no older CSR
	// instruction is in flight.
	if d.valid && !d.hardFault() && d.in.Class == ClassCSR && p.csrInFlight() {
		c.stall = true
	}

	// Control hazard: branch/jump resolved taken in EX. The instructions
	// already in IF and ID are wrong-path; replace both with bubbles and
	// redirect the fetch.
	if ex.taken {
		c.stall = false
		c.flush = true
		c.target = ex.target
	}

	// A halt that passed EX can no longer be flushed, so it will retire.
	// Squash the younger wrong-side instructions and stop fetching while
	// the older ones drain.
	if ex.halt {
		c.stall = false
		c.flush = true
		c.target = p.pc
		c.stopFetch = true
	}
	return c
}

func (p *Pipelined) csrInFlight() bool {
	return (p.idex.valid && !p.idex.hardFault() && p.idex.in.Class == ClassCSR) ||
		(p.exmem.valid && p.exmem.in.Class == ClassCSR) ||
		(p.memwb.valid && p.memwb.in.Class == ClassCSR)
}
