// Copyright 2026 The rv32sim authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package rv32sim

// Control/status register addresses supported by the minimal CSR file.
// There is no trap entry or privilege switching; mtvec, mepc and mcause
// exist only as readable/writable state.
const (
	CSRMStatus  uint16 = 0x300
	CSRMTVec    uint16 = 0x305
	CSRMScratch uint16 = 0x340
	CSRMEPC     uint16 = 0x341
	CSRMCause   uint16 = 0x342
	CSRCycle    uint16 = 0xC00
	CSRInstret  uint16 = 0xC02
	CSRCycleH   uint16 = 0xC80
	CSRInstretH uint16 = 0xC82
)

// A CSRFile holds the minimal machine-level control/status registers plus
// the read-only cycle and instret counters. Accessing any other address is
// an illegal instruction, as is writing a read-only counter.
//
type CSRFile struct {
	regs    map[uint16]Word
	cycle   uint64
	instret uint64
}

// NewCSRFile returns a CSR file with all writable registers zeroed.
//
func NewCSRFile() *CSRFile {
	return &CSRFile{
		regs: map[uint16]Word{
			CSRMStatus:  0,
			CSRMTVec:    0,
			CSRMScratch: 0,
			CSRMEPC:     0,
			CSRMCause:   0,
		},
	}
}

// SetCounters updates the values served by the cycle and instret counters.
// The engines call this at every commit.
//
func (c *CSRFile) SetCounters(cycle, instret uint64) {
	c.cycle = cycle
	c.instret = instret
}

// Read returns the value of the CSR at addr and whether addr names a
// supported CSR.
//
func (c *CSRFile) Read(addr uint16) (Word, bool) {
	switch addr {
	case CSRCycle:
		return Word(c.cycle), true
	case CSRCycleH:
		return Word(c.cycle >> 32), true
	case CSRInstret:
		return Word(c.instret), true
	case CSRInstretH:
		return Word(c.instret >> 32), true
	}
	v, ok := c.regs[addr]
	return v, ok
}

// Write sets the CSR at addr. It reports false if addr is unsupported or
// read-only.
//
func (c *CSRFile) Write(addr uint16, v Word) bool {
	if _, ok := c.regs[addr]; !ok {
		return false
	}
	c.regs[addr] = v
	return true
}
