// Copyright 2026 The rv32sim authors.
// Licensed under the MIT license. See license text in the LICENSE file.

// Package simtest provides test helpers for running programs on the CPU
// models and checking that the pipelined model is observationally
// equivalent to the single-cycle one.
//
package simtest

import (
	"testing"

	"github.com/onsi/gomega"

	"github.com/rv32sim/rv32sim"
)

// Run builds a core of the given model, loads image at address 0 and runs
// it to completion. The test fails if construction or execution faults, or
// if the program does not halt within the configured cycle budget.
//
func Run(tb testing.TB, model rv32sim.ModelKind, image []byte) rv32sim.Core {
	tb.Helper()
	cfg := rv32sim.DefaultConfig()
	cfg.Model = model
	return RunConfig(tb, cfg, image)
}

// RunConfig is Run with full control over the configuration.
//
func RunConfig(tb testing.TB, cfg rv32sim.Config, image []byte) rv32sim.Core {
	tb.Helper()
	core, err := rv32sim.New(cfg)
	if err != nil {
		tb.Fatalf("build core: %v", err)
	}
	if err := core.Load(image, 0); err != nil {
		tb.Fatalf("load image: %v", err)
	}
	if err := core.Run(0); err != nil {
		tb.Fatalf("run: %v", err)
	}
	if !core.Halted() {
		tb.Fatalf("program did not halt within %d cycles", core.Cycles())
	}
	return core
}

// RunBoth runs image on both models and fails the test unless their final
// architectural states agree. It returns (single-cycle, pipelined) for
// further assertions, such as cycle-count checks, on either model.
//
func RunBoth(tb testing.TB, image []byte) (rv32sim.Core, rv32sim.Core) {
	tb.Helper()
	single := Run(tb, rv32sim.ModelSingleCycle, image)
	pipe := Run(tb, rv32sim.ModelPipelined, image)
	CompareCores(tb, single, pipe)
	return single, pipe
}

// CompareCores fails the test unless want and got agree on every register,
// all of memory and the retired-instruction count. Cycle counts are model
// timing and deliberately not compared.
//
func CompareCores(tb testing.TB, want, got rv32sim.Core) {
	tb.Helper()
	g := gomega.NewWithT(tb)
	for i := 0; i < rv32sim.NumRegs; i++ {
		w, _ := want.ReadRegister(i)
		v, _ := got.ReadRegister(i)
		g.Expect(v).To(gomega.Equal(w), "register x%d", i)
	}
	g.Expect(got.MemSize()).To(gomega.Equal(want.MemSize()), "memory capacities")
	wm, err := want.ReadMemory(0, want.MemSize())
	g.Expect(err).NotTo(gomega.HaveOccurred())
	gm, err := got.ReadMemory(0, want.MemSize())
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(gm).To(gomega.Equal(wm), "memory images differ")
	g.Expect(got.Retired()).To(gomega.Equal(want.Retired()), "retired counts")
}

// Word reads the memory word at addr, failing the test on error.
//
func Word(tb testing.TB, core rv32sim.Core, addr rv32sim.Word) rv32sim.Word {
	tb.Helper()
	b, err := core.ReadMemory(addr, 4)
	if err != nil {
		tb.Fatalf("read word at %#x: %v", uint32(addr), err)
	}
	return rv32sim.Word(b[0]) | rv32sim.Word(b[1])<<8 |
		rv32sim.Word(b[2])<<16 | rv32sim.Word(b[3])<<24
}

// Reg reads register index, failing the test on error.
//
func Reg(tb testing.TB, core rv32sim.Core, index int) rv32sim.Word {
	tb.Helper()
	v, err := core.ReadRegister(index)
	if err != nil {
		tb.Fatalf("read register x%d: %v", index, err)
	}
	return v
}
