package rv32sim_test

import (
	"testing"

	sim "github.com/rv32sim/rv32sim"
)

func Test_csr_file(t *testing.T) {
	c := sim.NewCSRFile()
	if !c.Write(sim.CSRMScratch, 0x1234) {
		t.Fatal("mscratch must be writable")
	}
	v, ok := c.Read(sim.CSRMScratch)
	if !ok || v != 0x1234 {
		t.Errorf("mscratch = %#x, %v; want 0x1234, true", v, ok)
	}
	if _, ok := c.Read(0x123); ok {
		t.Error("unknown CSR address must not read")
	}
	if c.Write(0x123, 1) {
		t.Error("unknown CSR address must not write")
	}
}

func Test_csr_counters(t *testing.T) {
	c := sim.NewCSRFile()
	c.SetCounters(0x1_0000_0007, 3)
	if v, _ := c.Read(sim.CSRCycle); v != 7 {
		t.Errorf("cycle = %d, want 7", v)
	}
	if v, _ := c.Read(sim.CSRCycleH); v != 1 {
		t.Errorf("cycleh = %d, want 1", v)
	}
	if v, _ := c.Read(sim.CSRInstret); v != 3 {
		t.Errorf("instret = %d, want 3", v)
	}
	if c.Write(sim.CSRCycle, 0) {
		t.Error("cycle counter must be read-only")
	}
	if c.Write(sim.CSRInstretH, 0) {
		t.Error("instreth counter must be read-only")
	}
}
